// Package buffer models a single level of an accelerator memory hierarchy.
//
// A Level decides whether a candidate tiling fits in the buffer and computes
// the energy, area and cycle consequences of storing and accessing the tile,
// including the effects of compression and metadata.
package buffer

import (
	"fmt"
	"math"
)

// Technology is the storage technology of a level.
type Technology int

// Supported technologies.
const (
	SRAM Technology = iota
	DRAM
)

func (t Technology) String() string {
	switch t {
	case SRAM:
		return "SRAM"
	case DRAM:
		return "DRAM"
	default:
		return fmt.Sprintf("Technology(%d)", int(t))
	}
}

// Spec holds the immutable configuration of a buffer level. Sizes are in
// words, bandwidths in words per cycle, energies in pJ and areas in um^2.
type Spec struct {
	Name       string
	Technology Technology

	WordBits          uint64
	BlockSize         uint64 // Words per access granule
	MetadataBlockSize uint64
	MetadataWordBits  uint64 // 0 means metadata takes no space
	ClusterSize       uint64

	Size              Attribute[uint64]
	EffectiveSize     Attribute[uint64] // Derived from Size
	MultipleBuffering float64
	MinUtilization    float64

	NumPorts uint64
	NumBanks uint64

	ReadBandwidth  Attribute[float64]
	WriteBandwidth Attribute[float64]

	Instances Attribute[uint64]
	MeshX     Attribute[uint64]
	MeshY     Attribute[uint64]

	VectorAccessEnergy Attribute[float64]
	AddrGenEnergy      float64 // Negative to derive from the adder model
	ClusterArea        float64 // 0 to derive from the SRAM model
	StorageArea        float64 // Derived, per instance

	// ERT maps action names of an external energy reference table to pJ.
	ERT map[string]float64
}

// Defaults returns a Spec with the default attribute values.
func Defaults() Spec {
	return Spec{
		Technology:        SRAM,
		WordBits:          16,
		BlockSize:         1,
		MetadataBlockSize: 1,
		MetadataWordBits:  0,
		ClusterSize:       1,
		MultipleBuffering: 1.0,
		MinUtilization:    0.0,
		NumPorts:          2,
		NumBanks:          2,
		AddrGenEnergy:     -0.1,
	}
}

// ConfigurationError reports an architecture description that cannot be
// evaluated. It is not a mapping failure.
type ConfigurationError struct {
	Level  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Level == "" {
		return "configuration error: " + e.Reason
	}

	return fmt.Sprintf("configuration error: %s: %s", e.Level, e.Reason)
}

func (s Spec) configError(format string, args ...any) error {
	return &ConfigurationError{
		Level:  s.Name,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Validate checks the attributes that do not depend on each other's derived
// values.
func (s Spec) Validate() error {
	if s.WordBits == 0 {
		return s.configError("word bits must be > 0")
	}

	if s.BlockSize == 0 {
		return s.configError("block size must be > 0")
	}

	if s.MetadataBlockSize == 0 {
		return s.configError("metadata block size must be > 0")
	}

	if s.ClusterSize == 0 {
		return s.configError("cluster size must be > 0")
	}

	if s.MultipleBuffering <= 0 || math.IsNaN(s.MultipleBuffering) {
		return s.configError("multiple buffering must be > 0")
	}

	if s.NumPorts != 1 && s.NumPorts != 2 {
		return s.configError("num ports must be 1 or 2, got %d", s.NumPorts)
	}

	if s.Technology == DRAM && s.ClusterSize != 1 {
		return s.configError("DRAM cluster size must be 1")
	}

	if s.MinUtilization < 0 || s.MinUtilization > 1 {
		return s.configError("min utilization must be in [0, 1]")
	}

	if s.MinUtilization != 0 && !s.Size.IsSpecified() {
		return s.configError("min utilization requires a size")
	}

	if s.ReadBandwidth.IsSpecified() && !(s.ReadBandwidth.Get() > 0) {
		return s.configError("read bandwidth must be > 0")
	}

	if s.WriteBandwidth.IsSpecified() && !(s.WriteBandwidth.Get() > 0) {
		return s.configError("write bandwidth must be > 0")
	}

	return nil
}

// withEffectiveSize derives the capacity left after multiple buffering.
func (s Spec) withEffectiveSize() Spec {
	if s.Size.IsSpecified() {
		s.EffectiveSize.Specify(uint64(
			math.Floor(float64(s.Size.Get()) / s.MultipleBuffering)))
	} else {
		s.EffectiveSize = Attribute[uint64]{}
	}

	return s
}
