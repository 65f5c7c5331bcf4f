package buffer

import (
	"fmt"
	"log"

	"github.com/sarchlab/bufeval/hooking"
)

// NewEvalLogHook creates a hook that logs one line per pre-check and per
// evaluation.
func NewEvalLogHook(logger *log.Logger) *hooking.LogHook {
	return hooking.NewLogHook(logger, formatEvalLine)
}

func formatEvalLine(ctx hooking.HookCtx) string {
	status, ok := ctx.Detail.(EvalStatus)
	if !ok {
		return ""
	}

	switch ctx.Pos {
	case HookPosPreChecked:
		level := ctx.Item.(*Level)
		return fmt.Sprintf("precheck %s %s",
			level.Name(), formatStatus(status))
	case HookPosEvaluated:
		stats := ctx.Item.(*Stats)
		return fmt.Sprintf("evaluate %s %s cycles=%d energy=%g",
			stats.Level, formatStatus(status),
			stats.Cycles, stats.TotalEnergy())
	}

	return ""
}

func formatStatus(status EvalStatus) string {
	if status.Success {
		return "ok"
	}

	return fmt.Sprintf("fail (%s)", status.FailReason)
}
