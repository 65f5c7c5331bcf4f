package buffer

import (
	"math"
)

// computeBufferEnergy prices the fine-grained accesses of every data space.
// The physical access grain is a block, so scalar accesses are grouped into
// vector accesses and split across op types in proportion to their counts.
func (l *Level) computeBufferEnergy(stats *Stats, tile Tile) {
	for ds := range stats.DataSpaces {
		d := &stats.DataSpaces[ds]

		clusterEnergy := l.clusterAccessEnergy(d)

		speculationCost := 0.0
		if d.TileConfidence != 1.0 && tile[ds].Parent != nil {
			speculationCost = l.speculationCost(
				clusterEnergy, d.TileConfidence, tile[ds].Parent)
			clusterEnergy *= d.TileConfidence
		}

		// Spread the cluster cost over the utilized instances of the
		// cluster, since everything downstream is per instance.
		if d.UtilizedInstances == 0 {
			d.Energy = 0
			d.EnergyPerAccess = 0
			d.SpeculationEnergyCost = 0

			continue
		}

		clusterUtilization := float64(d.UtilizedInstances) /
			float64(max(d.UtilizedClusters, 1))
		d.SpeculationEnergyCost = speculationCost / clusterUtilization
		d.Energy = (clusterEnergy + speculationCost) / clusterUtilization

		instanceAccesses := d.Reads + d.Updates + d.Fills
		if instanceAccesses == 0 {
			d.EnergyPerAccess = 0
		} else {
			d.EnergyPerAccess = d.Energy / float64(instanceAccesses)
		}
	}
}

func (l *Level) clusterAccessEnergy(d *DataSpaceStats) float64 {
	instanceAccesses := d.Reads + d.Updates + d.Fills
	vectorAccesses := float64(ceilDiv(instanceAccesses, l.spec.BlockSize))

	metadataAccesses := d.MetadataReads + d.MetadataFills + d.MetadataUpdates
	metadataVectorAccesses := float64(
		ceilDiv(metadataAccesses, l.spec.MetadataBlockSize))

	energy := 0.0
	for _, op := range AllOpTypes() {
		count := float64(d.FineGrained[op])
		opEnergy := l.opEnergy[op]

		switch op.Class() {
		case OpClassData:
			if instanceAccesses != 0 {
				energy += vectorAccesses * count /
					float64(instanceAccesses) * opEnergy
			}
		case OpClassMetadata:
			if metadataAccesses != 0 {
				energy += metadataVectorAccesses * count /
					float64(metadataAccesses) * opEnergy
			}
		case OpClassCount:
			energy += count * opEnergy
		}
	}

	return energy
}

// speculationCost prices the re-fetches from the parent when a tile stored at
// less than full confidence overflows. A parent that is more expensive per
// scalar read makes a misprediction proportionally more expensive.
func (l *Level) speculationCost(
	clusterEnergy, confidence float64,
	parent *ParentLevel,
) float64 {
	parentScalarRead := parent.OpEnergy[RandomRead] /
		float64(max(parent.BlockSize, 1))
	childScalarRead := l.opEnergy[RandomRead] / float64(l.spec.BlockSize)

	ratio := 1.0
	if childScalarRead != 0 {
		ratio = parentScalarRead / childScalarRead
	}

	return math.Ceil(clusterEnergy * (1 - confidence) * ratio)
}

// computeReductionEnergy prices the read-modify-write combines of read-write
// data spaces.
func (l *Level) computeReductionEnergy(stats *Stats, tile Tile) {
	adderEnergy := l.physicalModel.AdderEnergy(
		l.spec.WordBits, l.updateWordBits())

	for ds := range stats.DataSpaces {
		d := &stats.DataSpaces[ds]
		if !tile[ds].ReadWrite {
			d.TemporalReductionEnergy = 0
			continue
		}

		d.TemporalReductionEnergy = float64(d.TemporalReductions) * adderEnergy
	}
}

// computeAddrGenEnergy prices the address generation. The result is per
// cluster since the address generator is shared by a cluster.
func (l *Level) computeAddrGenEnergy(stats *Stats) {
	perGeneration := l.spec.AddrGenEnergy
	if perGeneration < 0 {
		perGeneration = l.physicalModel.AdderEnergy(
			stats.AddrGenBits, stats.AddrGenBits)
	}

	for ds := range stats.DataSpaces {
		d := &stats.DataSpaces[ds]
		d.AddrGenEnergy = float64(d.AddressGenerations) * perGeneration
	}
}
