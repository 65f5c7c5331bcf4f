package buffer

import (
	"math"
)

// computePerformance derives the bandwidth-limited cycle count. A single
// slowdown is applied to every data space, even on levels shared by several
// data spaces.
func (l *Level) computePerformance(stats *Stats, computeCycles uint64) {
	stats.Slowdown = 1.0

	if computeCycles == 0 {
		for ds := range stats.DataSpaces {
			stats.DataSpaces[ds].ReadBandwidth = 0
			stats.DataSpaces[ds].WriteBandwidth = 0
		}

		stats.Cycles = 0

		return
	}

	cycles := float64(computeCycles)
	readDemand := make([]float64, len(stats.DataSpaces))
	writeDemand := make([]float64, len(stats.DataSpaces))
	totalRead := 0.0
	totalWrite := 0.0

	for ds, d := range stats.DataSpaces {
		readDemand[ds] = float64(d.Reads) / cycles
		writeDemand[ds] = float64(d.Updates+d.Fills) / cycles
		totalRead += readDemand[ds]
		totalWrite += writeDemand[ds]
	}

	if l.spec.ReadBandwidth.IsSpecified() &&
		l.spec.ReadBandwidth.Get() < totalRead {
		stats.Slowdown = math.Min(stats.Slowdown,
			l.spec.ReadBandwidth.Get()/totalRead)
	}

	if l.spec.WriteBandwidth.IsSpecified() &&
		l.spec.WriteBandwidth.Get() < totalWrite {
		stats.Slowdown = math.Min(stats.Slowdown,
			l.spec.WriteBandwidth.Get()/totalWrite)
	}

	for ds := range stats.DataSpaces {
		d := &stats.DataSpaces[ds]
		d.ReadBandwidth = stats.Slowdown * readDemand[ds]
		d.WriteBandwidth = stats.Slowdown * writeDemand[ds]
	}

	stats.Cycles = uint64(math.Ceil(cycles / stats.Slowdown))
}
