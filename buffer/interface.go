package buffer

// Collaborators of a buffer level. The level depends on these interfaces only,
// so tests can mock them.
//
//go:generate mockgen -destination "mock_interface_test.go" -package $GOPACKAGE -write_package_comment=false -source interface.go

// DensityModel is the statistical density oracle of one data space.
//
// ConfidenceAt returns the probability that a tile of tileSize words holds no
// more than budget non-zero words. DensityAtConfidence returns the density the
// storage must be provisioned for to reach the given confidence; statistical
// models clip the result so that it needs no more than budget words.
type DensityModel interface {
	ExpectedDensity(tileSize uint64) float64
	ConfidenceAt(tileSize, budget uint64) float64
	DensityAtConfidence(tileSize uint64, confidence float64, budget uint64) float64

	// UserConfidence returns a confidence pinned by the user, if any.
	UserConfidence() (confidence float64, pinned bool)
}

// PhysicalModel estimates energy and area of storage and arithmetic.
type PhysicalModel interface {
	SRAMEnergy(height, width, banks, ports uint64) float64
	SRAMArea(height, width, banks, ports uint64) float64
	DRAMEnergy(bits uint64) float64
	AdderEnergy(bitsA, bitsB uint64) float64
}

// Network is the interconnect attached to a level.
type Network interface {
	DistributedMulticastSupported() bool
	WordBits() uint64
}

// Workload provides the density model of each data space.
type Workload interface {
	DataSpaceDensity(dataSpace int) DensityModel
}
