package buffer

import (
	"fmt"

	"github.com/sarchlab/bufeval/hooking"
)

// HookPosPreChecked is triggered after a PreEvaluationCheck. The item is the
// level and the detail is the EvalStatus.
var HookPosPreChecked = &hooking.HookPos{Name: "BufferPreChecked"}

// HookPosEvaluated is triggered after an Evaluate. The item is the *Stats and
// the detail is the EvalStatus.
var HookPosEvaluated = &hooking.HookPos{Name: "BufferEvaluated"}

// A Level is one buffer level of the hierarchy. It is immutable after it is
// built; every evaluation returns its own Stats.
type Level struct {
	hooking.HookableBase

	spec           Spec
	opEnergy       OpEnergyTable
	physicalModel  PhysicalModel
	readNetwork    Network
	updateNetwork  Network
	breakOnFailure bool
}

// Name returns the name of the level.
func (l *Level) Name() string {
	return l.spec.Name
}

// Spec returns the derived spec of the level.
func (l *Level) Spec() Spec {
	return l.spec
}

// OpEnergy returns the per-operation energy table.
func (l *Level) OpEnergy() OpEnergyTable {
	return l.opEnergy
}

// AsParent describes the level as the parent of a tile at a child level.
func (l *Level) AsParent() *ParentLevel {
	return &ParentLevel{
		Name:      l.spec.Name,
		OpEnergy:  l.opEnergy,
		BlockSize: l.spec.BlockSize,
	}
}

// HardwareReductionSupported tells if the level can combine updates locally.
func (l *Level) HardwareReductionSupported() bool {
	return l.spec.Technology != DRAM
}

// Area returns the storage area of all instances.
func (l *Level) Area() float64 {
	return l.spec.StorageArea * float64(l.spec.Instances.Get())
}

// AreaPerInstance returns the storage area of one instance.
func (l *Level) AreaPerInstance() float64 {
	return l.spec.StorageArea
}

// Size returns the capacity of one instance in words, or 0 if unspecified.
func (l *Level) Size() uint64 {
	return l.spec.Size.GetOr(0)
}

// CapacityUtilization returns the fraction of the total capacity across
// instances that the evaluated mapping occupies.
func (l *Level) CapacityUtilization(stats *Stats) float64 {
	utilized := 0.0
	for _, d := range stats.DataSpaces {
		utilized += float64(d.UtilizedCapacity) * float64(d.UtilizedInstances)
	}

	total := float64(l.Size()) * float64(l.spec.Instances.Get())

	return utilized / total
}

// Evaluate checks whether the tile fits in the level and computes the energy
// and performance of the mapping. The caller uses the status to decide
// whether to keep the mapping.
func (l *Level) Evaluate(
	tile Tile,
	mask Mask,
	computeCycles uint64,
) (*Stats, EvalStatus) {
	l.mustMatchMask(tile, mask)

	stats, status := l.computeAccesses(tile, mask)

	if !l.breakOnFailure || status.Success {
		l.computeBufferEnergy(stats, tile)
		l.computeReductionEnergy(stats, tile)
		l.computeAddrGenEnergy(stats)
		l.computePerformance(stats, computeCycles)
	}

	l.InvokeHook(hooking.HookCtx{
		Domain: l,
		Pos:    HookPosEvaluated,
		Item:   stats,
		Detail: status,
	})

	return stats, status
}

func (l *Level) mustMatchMask(tile Tile, mask Mask) {
	if len(tile) != len(mask) {
		panic(fmt.Sprintf("%s: %d tiles but %d mask entries",
			l.spec.Name, len(tile), len(mask)))
	}
}

func (l *Level) updateWordBits() uint64 {
	if l.updateNetwork == nil {
		return l.spec.WordBits
	}

	return l.updateNetwork.WordBits()
}

func (l *Level) multicastSupported() bool {
	if l.readNetwork == nil {
		return false
	}

	return l.readNetwork.DistributedMulticastSupported()
}
