package buffer

import (
	"fmt"
	"math"

	"github.com/sarchlab/bufeval/hooking"
)

// PreEvaluationCheck is a fast capacity check based on working-set sizes that
// the caller can derive cheaply. It uses expected densities and a loose
// capacity bound, so it may pass mappings that Evaluate rejects but never
// rejects a mapping that Evaluate accepts.
func (l *Level) PreEvaluationCheck(
	workingSetSizes []uint64,
	mask Mask,
	workload Workload,
) EvalStatus {
	status := l.preEvaluationCheck(workingSetSizes, mask, workload)

	l.InvokeHook(hooking.HookCtx{
		Domain: l,
		Pos:    HookPosPreChecked,
		Item:   l,
		Detail: status,
	})

	return status
}

func (l *Level) preEvaluationCheck(
	workingSetSizes []uint64,
	mask Mask,
	workload Workload,
) EvalStatus {
	if !l.spec.Size.IsSpecified() {
		return EvalStatus{Success: true}
	}

	// Distributed multicast may shrink the required size by a factor we do
	// not know yet, so only fail if there is no chance to fit.
	effectiveSize := l.spec.EffectiveSize.Get()
	available := effectiveSize
	if l.multicastSupported() {
		available *= l.spec.Instances.Get()
	}

	required := uint64(0)
	for ds, keep := range mask {
		if !keep {
			continue
		}

		size := workingSetSizes[ds]
		density := 1.0
		if workload != nil {
			if model := workload.DataSpaceDensity(ds); model != nil {
				density = model.ExpectedDensity(size)
			}
		}

		required += uint64(math.Ceil(float64(size) * density))
	}

	minRequired := float64(effectiveSize) * l.spec.MinUtilization

	switch {
	case required > available:
		return EvalStatus{
			FailReason: fmt.Sprintf(
				"mapped tile size %d exceeds buffer capacity %d",
				required, available),
		}
	case float64(required) < minRequired:
		return EvalStatus{
			FailReason: fmt.Sprintf(
				"mapped tile size %d is less than constrained "+
					"minimum utilization %g",
				required, minRequired),
		}
	}

	return EvalStatus{Success: true}
}
