package buffer

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

// maxDensitySearchIterations bounds the metadata re-tightening loop. The
// search normally settles within a few rounds.
const maxDensitySearchIterations = 64

// unboundedBudget asks a density model for a density without a capacity cap.
const unboundedBudget = math.MaxUint64

// tileFootprint is the storage a data space needs at this level.
type tileFootprint struct {
	confidence     float64
	density        float64
	compressedSize uint64
	metadataSize   uint64
}

func (l *Level) equivalentMetadataSize(metadataSize uint64) uint64 {
	return uint64(math.Ceil(float64(metadataSize) *
		float64(l.spec.MetadataWordBits) / float64(l.spec.WordBits)))
}

func (l *Level) computeAccesses(tile Tile, mask Mask) (*Stats, EvalStatus) {
	stats := &Stats{
		Level:      l.spec.Name,
		Size:       l.Size(),
		Instances:  l.spec.Instances.Get(),
		Slowdown:   1.0,
		DataSpaces: make([]DataSpaceStats, len(tile)),
	}

	totalTileSize := l.totalTileSize(tile)

	for ds := range tile {
		t := &tile[ds]
		fp := l.resolveFootprint(t, totalTileSize)

		d := &stats.DataSpaces[ds]
		d.Name = t.Name
		d.Keep = mask[ds]
		d.PartitionSize = t.PartitionSize
		d.TileSize = t.Size
		d.TileConfidence = fp.confidence
		d.TileMaxDensity = fp.density
		d.CompressedTileSize = fp.compressedSize
		d.MetadataTileSize = fp.metadataSize
		d.UtilizedCapacity = fp.compressedSize +
			l.equivalentMetadataSize(fp.metadataSize)
		d.UtilizedInstances = t.ReplicationFactor

		collectAccesses(d, t)
	}

	failures := l.checkCapacity(stats)

	stats.AddrGenBits = l.addrGenBits(stats.TotalUtilizedCapacity())

	// Assume utilized instances are spread uniformly across the clusters.
	numClusters := l.spec.Instances.Get() / l.spec.ClusterSize
	for ds := range stats.DataSpaces {
		d := &stats.DataSpaces[ds]
		d.UtilizedClusters = min(d.UtilizedInstances, numClusters)
	}

	status := EvalStatus{Success: len(failures) == 0}
	if !status.Success {
		status.FailReason = strings.Join(failures, "; ")
	}

	stats.Evaluated = status.Success

	return stats, status
}

// totalTileSize sums the uncompressed size and the expected metadata footprint
// of every data space. It is the denominator that apportions the capacity.
func (l *Level) totalTileSize(tile Tile) uint64 {
	total := uint64(0)
	for ds := range tile {
		t := &tile[ds]
		total += t.Size
		total += l.equivalentMetadataSize(
			t.metadataTileSize(t.expectedDensity()))
	}

	return total
}

func (l *Level) resolveFootprint(
	t *TileInfo,
	totalTileSize uint64,
) tileFootprint {
	if !t.Compressed {
		fp := tileFootprint{
			confidence:     1.0,
			density:        1.0,
			compressedSize: t.Size,
		}

		if t.MetadataFormat == MetadataBitmask {
			fp.metadataSize = t.Size
		}

		return fp
	}

	if t.Density != nil {
		if confidence, pinned := t.Density.UserConfidence(); pinned {
			density := t.Density.DensityAtConfidence(
				t.Size, confidence, unboundedBudget)

			return l.footprintAt(t, confidence, density)
		}
	}

	if !l.spec.EffectiveSize.IsSpecified() {
		// Unbounded storage such as DRAM always fits.
		return l.footprintAt(t, 1.0, t.expectedDensity())
	}

	return l.searchFootprint(t, totalTileSize)
}

func (l *Level) footprintAt(
	t *TileInfo,
	confidence, density float64,
) tileFootprint {
	return tileFootprint{
		confidence:     confidence,
		density:        density,
		compressedSize: uint64(math.Ceil(float64(t.Size) * density)),
		metadataSize:   t.metadataTileSize(density),
	}
}

// footprintWithin provisions the tile for the highest confidence whose data
// fits in budget words.
func (l *Level) footprintWithin(t *TileInfo, budget uint64) tileFootprint {
	if t.Density == nil {
		return l.footprintAt(t, 1.0, 1.0)
	}

	confidence := t.Density.ConfidenceAt(t.Size, budget)
	density := t.Density.DensityAtConfidence(t.Size, confidence, budget)

	return l.footprintAt(t, confidence, density)
}

// searchFootprint finds the highest confidence at which the compressed data
// and its metadata fit in the share of the capacity given to the data space.
func (l *Level) searchFootprint(
	t *TileInfo,
	totalTileSize uint64,
) tileFootprint {
	effectiveSize := l.spec.EffectiveSize.Get()

	equivMetadata := l.equivalentMetadataSize(
		t.metadataTileSize(t.expectedDensity()))

	allocated := effectiveSize
	if totalTileSize != 0 {
		allocated = mulDiv(effectiveSize, t.Size+equivMetadata, totalTileSize)
	}

	fp := l.footprintWithin(t, subSat(allocated, equivMetadata))
	equivMetadata = l.equivalentMetadataSize(fp.metadataSize)

	if equivMetadata+fp.compressedSize <= allocated || fp.confidence == 0 {
		return fp
	}

	// The quantile may round the size up by one, so leave a spare word.
	fp = l.footprintWithin(t, subSat(subSat(allocated, equivMetadata), 1))
	updatedEquivMetadata := l.equivalentMetadataSize(fp.metadataSize)

	// The metadata estimate depends on the density and the data budget
	// depends on the metadata, so tighten both until they settle.
	for i := 0; i < maxDensitySearchIterations; i++ {
		footprint := float64(updatedEquivMetadata + fp.compressedSize)
		if footprint > 0.99*float64(allocated) ||
			updatedEquivMetadata == equivMetadata {
			break
		}

		equivMetadata = updatedEquivMetadata

		candidate := l.footprintWithin(t, subSat(allocated, equivMetadata))
		updatedEquivMetadata = l.equivalentMetadataSize(candidate.metadataSize)

		if updatedEquivMetadata+candidate.compressedSize > allocated {
			updatedEquivMetadata = equivMetadata
		}

		if updatedEquivMetadata != equivMetadata {
			fp = candidate
		}
	}

	return fp
}

func (l *Level) checkCapacity(stats *Stats) []string {
	failures := []string{}
	totalUtilized := stats.TotalUtilizedCapacity()

	if l.spec.EffectiveSize.IsSpecified() {
		effectiveSize := l.spec.EffectiveSize.Get()
		minRequired := float64(effectiveSize) * l.spec.MinUtilization

		switch {
		case totalUtilized > effectiveSize:
			failures = append(failures, fmt.Sprintf(
				"mapped tile size %d exceeds buffer capacity %d",
				totalUtilized, effectiveSize))
		case float64(totalUtilized) < minRequired:
			failures = append(failures, fmt.Sprintf(
				"mapped tile size %d is less than constrained "+
					"minimum utilization %g",
				totalUtilized, minRequired))
		}
	}

	maxInstances := stats.MaxUtilizedInstances()
	if maxInstances > l.spec.Instances.Get() {
		failures = append(failures, fmt.Sprintf(
			"mapped instances %d exceeds available hardware instances %d",
			maxInstances, l.spec.Instances.Get()))
	}

	return failures
}

// addrGenBits sizes the address generator. Levels without a declared size
// use the utilized capacity as a proxy.
func (l *Level) addrGenBits(totalUtilized uint64) uint64 {
	capacity := totalUtilized
	if l.spec.Size.IsSpecified() {
		capacity = l.spec.Size.Get()
	}

	addressRange := capacity / l.spec.BlockSize
	if addressRange <= 1 {
		return 0
	}

	return uint64(math.Ceil(math.Log2(float64(addressRange))))
}

func collectAccesses(d *DataSpaceStats, t *TileInfo) {
	d.Reads = t.Reads
	d.Updates = t.Updates
	d.Fills = t.Fills
	d.TemporalReductions = t.TemporalReductions

	if t.ReadWrite {
		d.AddressGenerations = d.Updates + d.Fills
	} else {
		d.AddressGenerations = d.Reads + d.Fills
	}

	d.MetadataReads = t.MetadataReads
	d.MetadataFills = t.MetadataFills
	d.MetadataUpdates = t.MetadataUpdates
	d.FineGrained = t.FineGrainedAccesses

	if t.Parent != nil {
		d.ParentLevelName = t.Parent.Name
	}
}

// subSat subtracts without wrapping below zero.
func subSat(a, b uint64) uint64 {
	if b > a {
		return 0
	}

	return a - b
}

// mulDiv returns floor(a * b / c) without overflowing the product. The
// quotient must fit in 64 bits, which holds whenever b <= c.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, c)

	return q
}
