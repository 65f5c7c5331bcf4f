package buffer

// EvalStatus is the outcome of a feasibility check. A failed status rejects
// the mapping, not the architecture.
type EvalStatus struct {
	Success    bool
	FailReason string
}

// DataSpaceStats holds the results of one data space. Access counts and
// Energy are per instance; AddrGenEnergy is per cluster.
type DataSpaceStats struct {
	Name string
	Keep bool

	PartitionSize      uint64
	TileSize           uint64
	CompressedTileSize uint64
	MetadataTileSize   uint64
	TileConfidence     float64
	TileMaxDensity     float64

	UtilizedCapacity  uint64
	UtilizedInstances uint64
	UtilizedClusters  uint64

	Reads              uint64
	Updates            uint64
	Fills              uint64
	TemporalReductions uint64
	AddressGenerations uint64
	MetadataReads      uint64
	MetadataFills      uint64
	MetadataUpdates    uint64
	FineGrained        [NumOpTypes]uint64

	ParentLevelName string

	Energy                  float64
	EnergyPerAccess         float64
	SpeculationEnergyCost   float64
	TemporalReductionEnergy float64
	AddrGenEnergy           float64

	ReadBandwidth  float64
	WriteBandwidth float64
}

// Stats is the result of evaluating one mapping on one level.
type Stats struct {
	Level     string
	Evaluated bool

	// Size and Instances are the capacity and instance count the evaluation
	// was checked against. Size is 0 for levels without a declared size.
	Size        uint64
	Instances   uint64
	AddrGenBits uint64

	Slowdown float64
	Cycles   uint64

	DataSpaces []DataSpaceStats
}

// NumDataSpaces returns the number of data spaces in the stats.
func (s *Stats) NumDataSpaces() int {
	return len(s.DataSpaces)
}

// StorageEnergy returns the storage energy of a data space across instances.
func (s *Stats) StorageEnergy(ds int) float64 {
	d := &s.DataSpaces[ds]
	return d.Energy * float64(d.UtilizedInstances)
}

// TemporalReductionEnergy returns the reduction energy of a data space across
// instances.
func (s *Stats) TemporalReductionEnergy(ds int) float64 {
	d := &s.DataSpaces[ds]
	return d.TemporalReductionEnergy * float64(d.UtilizedInstances)
}

// AddrGenEnergy returns the address generation energy of a data space. It is
// scaled by clusters, not instances.
func (s *Stats) AddrGenEnergy(ds int) float64 {
	d := &s.DataSpaces[ds]
	return d.AddrGenEnergy * float64(d.UtilizedClusters)
}

// Energy returns the total energy spent for a data space.
func (s *Stats) Energy(ds int) float64 {
	return s.StorageEnergy(ds) +
		s.TemporalReductionEnergy(ds) +
		s.AddrGenEnergy(ds)
}

// Accesses returns the scalar accesses of a data space across instances.
func (s *Stats) Accesses(ds int) uint64 {
	d := &s.DataSpaces[ds]
	return d.UtilizedInstances * (d.Reads + d.Updates + d.Fills)
}

// UtilizedCapacity returns the words a data space occupies per instance.
func (s *Stats) UtilizedCapacity(ds int) uint64 {
	return s.DataSpaces[ds].UtilizedCapacity
}

// TileSize returns the uncompressed tile size of a data space.
func (s *Stats) TileSize(ds int) uint64 {
	return s.DataSpaces[ds].TileSize
}

// UtilizedInstances returns the number of instances holding a data space.
func (s *Stats) UtilizedInstances(ds int) uint64 {
	return s.DataSpaces[ds].UtilizedInstances
}

func (s *Stats) sumFloat(f func(int) float64) float64 {
	total := 0.0
	for i := range s.DataSpaces {
		total += f(i)
	}

	return total
}

func (s *Stats) sumUint(f func(int) uint64) uint64 {
	total := uint64(0)
	for i := range s.DataSpaces {
		total += f(i)
	}

	return total
}

// TotalEnergy sums Energy over data spaces.
func (s *Stats) TotalEnergy() float64 {
	return s.sumFloat(s.Energy)
}

// TotalStorageEnergy sums StorageEnergy over data spaces.
func (s *Stats) TotalStorageEnergy() float64 {
	return s.sumFloat(s.StorageEnergy)
}

// TotalTemporalReductionEnergy sums TemporalReductionEnergy over data spaces.
func (s *Stats) TotalTemporalReductionEnergy() float64 {
	return s.sumFloat(s.TemporalReductionEnergy)
}

// TotalAddrGenEnergy sums AddrGenEnergy over data spaces.
func (s *Stats) TotalAddrGenEnergy() float64 {
	return s.sumFloat(s.AddrGenEnergy)
}

// TotalAccesses sums Accesses over data spaces.
func (s *Stats) TotalAccesses() uint64 {
	return s.sumUint(s.Accesses)
}

// TotalUtilizedCapacity sums UtilizedCapacity over data spaces.
func (s *Stats) TotalUtilizedCapacity() uint64 {
	return s.sumUint(s.UtilizedCapacity)
}

// TotalTileSize sums TileSize over data spaces.
func (s *Stats) TotalTileSize() uint64 {
	return s.sumUint(s.TileSize)
}

// MaxUtilizedInstances returns the largest instance count over data spaces.
func (s *Stats) MaxUtilizedInstances() uint64 {
	maxInstances := uint64(0)
	for _, d := range s.DataSpaces {
		if d.UtilizedInstances > maxInstances {
			maxInstances = d.UtilizedInstances
		}
	}

	return maxInstances
}
