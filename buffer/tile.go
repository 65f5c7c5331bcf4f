package buffer

import (
	"fmt"
	"math"
)

// MetadataFormat is the encoding of the metadata of a compressed tile.
type MetadataFormat int

// Supported metadata formats.
const (
	MetadataNone MetadataFormat = iota
	MetadataBitmask
	MetadataRLE
	MetadataCSR
)

func (f MetadataFormat) String() string {
	switch f {
	case MetadataNone:
		return "none"
	case MetadataBitmask:
		return "bitmask"
	case MetadataRLE:
		return "RLE"
	case MetadataCSR:
		return "CSR"
	default:
		return fmt.Sprintf("MetadataFormat(%d)", int(f))
	}
}

// ParseMetadataFormat converts a format tag. The empty string means none.
func ParseMetadataFormat(s string) (MetadataFormat, error) {
	switch s {
	case "", "none":
		return MetadataNone, nil
	case "bitmask":
		return MetadataBitmask, nil
	case "RLE", "rle":
		return MetadataRLE, nil
	case "CSR", "csr":
		return MetadataCSR, nil
	default:
		return MetadataNone, fmt.Errorf("unknown metadata format %q", s)
	}
}

// ParentLevel describes the level a tile is filled from. It prices the
// re-fetches caused by compressed tiles that turn out larger than provisioned.
type ParentLevel struct {
	Name      string
	OpEnergy  OpEnergyTable
	BlockSize uint64
}

// TileInfo describes the tile of one data space at this level for one
// mapping. Access counts are per instance.
type TileInfo struct {
	Name      string
	ReadWrite bool

	Size          uint64
	PartitionSize uint64

	Density         DensityModel // nil means dense
	Compressed      bool
	MetadataFormat  MetadataFormat
	DenseRank0Fills uint64
	DenseRank1Fills uint64

	Reads              uint64
	Updates            uint64
	Fills              uint64
	TemporalReductions uint64
	MetadataReads      uint64
	MetadataFills      uint64
	MetadataUpdates    uint64

	FineGrainedAccesses [NumOpTypes]uint64

	ReplicationFactor uint64
	Parent            *ParentLevel
}

// Tile holds the per-data-space tiles, indexed by data space.
type Tile []TileInfo

// Mask tells which data spaces are kept at this level.
type Mask []bool

func (t *TileInfo) expectedDensity() float64 {
	if t.Density == nil {
		return 1.0
	}

	return t.Density.ExpectedDensity(t.Size)
}

// metadataTileSize returns the number of metadata words needed to encode the
// tile at the given density.
func (t *TileInfo) metadataTileSize(density float64) uint64 {
	switch t.MetadataFormat {
	case MetadataBitmask:
		return t.Size
	case MetadataRLE:
		return uint64(math.Ceil(float64(t.Size) * density))
	case MetadataCSR:
		return t.DenseRank1Fills +
			uint64(float64(t.DenseRank0Fills)*density)
	default:
		return 0
	}
}
