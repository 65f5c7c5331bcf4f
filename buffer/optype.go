package buffer

import (
	"fmt"
	"sort"
	"strings"
)

// OpType is a fine-grained storage operation category.
type OpType int

// The storage operation categories. The order is the accounting order.
const (
	RandomRead OpType = iota
	GatedRead
	SkippedRead
	RandomFill
	GatedFill
	SkippedFill
	RandomUpdate
	GatedUpdate
	SkippedUpdate
	MetadataRead
	GatedMetadataRead
	MetadataFill
	GatedMetadataFill
	MetadataUpdate
	GatedMetadataUpdate
	DecompressionCount
	CompressionCount

	NumOpTypes
)

// OpClass groups op types by how they are charged.
type OpClass int

// Op classes. Data ops are grouped into blocks, metadata ops into metadata
// blocks, and count ops are charged per event.
const (
	OpClassData OpClass = iota
	OpClassMetadata
	OpClassCount
)

type opInfo struct {
	name    string
	class   OpClass
	aliases []string // ERT action names, first match wins
}

var opInfos = [NumOpTypes]opInfo{
	RandomRead:          {"random_read", OpClassData, []string{"random_read", "read"}},
	GatedRead:           {"gated_read", OpClassData, []string{"gated_read", "idle"}},
	SkippedRead:         {"skipped_read", OpClassData, []string{"skipped_read", "idle"}},
	RandomFill:          {"random_fill", OpClassData, []string{"random_fill", "write"}},
	GatedFill:           {"gated_fill", OpClassData, []string{"gated_fill", "idle"}},
	SkippedFill:         {"skipped_fill", OpClassData, []string{"skipped_fill", "idle"}},
	RandomUpdate:        {"random_update", OpClassData, []string{"random_update", "write"}},
	GatedUpdate:         {"gated_update", OpClassData, []string{"gated_update", "idle"}},
	SkippedUpdate:       {"skipped_update", OpClassData, []string{"skipped_update", "idle"}},
	MetadataRead:        {"metadata_read", OpClassMetadata, []string{"metadata_read"}},
	GatedMetadataRead:   {"gated_metadata_read", OpClassMetadata, []string{"gated_metadata_read", "metadata_idle"}},
	MetadataFill:        {"metadata_fill", OpClassMetadata, []string{"metadata_fill", "metadata_write"}},
	GatedMetadataFill:   {"gated_metadata_fill", OpClassMetadata, []string{"gated_metadata_fill", "metadata_idle"}},
	MetadataUpdate:      {"metadata_update", OpClassMetadata, []string{"metadata_update", "metadata_write"}},
	GatedMetadataUpdate: {"gated_metadata_update", OpClassMetadata, []string{"gated_metadata_update", "metadata_idle"}},
	DecompressionCount:  {"decompression_count", OpClassCount, []string{"decompression_count"}},
	CompressionCount:    {"compression_count", OpClassCount, []string{"compression_count"}},
}

// AllOpTypes returns every op type in accounting order.
func AllOpTypes() []OpType {
	ops := make([]OpType, NumOpTypes)
	for i := range ops {
		ops[i] = OpType(i)
	}

	return ops
}

func (o OpType) String() string {
	if o < 0 || o >= NumOpTypes {
		return fmt.Sprintf("OpType(%d)", int(o))
	}

	return opInfos[o].name
}

// Class returns how the op is charged.
func (o OpType) Class() OpClass {
	return opInfos[o].class
}

// IsRandom tells if the op is one of the random data accesses, which default
// to the full vector access energy.
func (o OpType) IsRandom() bool {
	return o == RandomRead || o == RandomFill || o == RandomUpdate
}

// Aliases returns the ERT action names that can provide the op's energy, in
// lookup order.
func (o OpType) Aliases() []string {
	return append([]string(nil), opInfos[o].aliases...)
}

// ParseOpType converts a canonical op name back to an OpType.
func ParseOpType(name string) (OpType, error) {
	for i, info := range opInfos {
		if info.name == name {
			return OpType(i), nil
		}
	}

	return 0, fmt.Errorf("unknown storage operation %q", name)
}

// OpEnergyTable holds the energy of one vector operation of each type, in pJ.
type OpEnergyTable [NumOpTypes]float64

// Get returns the energy of op.
func (t OpEnergyTable) Get(op OpType) float64 {
	return t[op]
}

// NewOpEnergyTable resolves every op type against an energy reference table.
// Ops without a matching entry take vectorAccessEnergy if they are random
// data accesses and zero otherwise.
func NewOpEnergyTable(
	ert map[string]float64,
	vectorAccessEnergy float64,
) OpEnergyTable {
	var table OpEnergyTable

	for _, op := range AllOpTypes() {
		energy := 0.0
		if op.IsRandom() {
			energy = vectorAccessEnergy
		}

		for _, alias := range opInfos[op].aliases {
			if e, found := ert[alias]; found {
				energy = e
				break
			}
		}

		table[op] = energy
	}

	return table
}

// ValidateERT rejects reference-table entries that no op type can use, which
// are almost always misspelled action names.
func ValidateERT(levelName string, ert map[string]float64) error {
	known := make(map[string]bool)
	for _, info := range opInfos {
		for _, alias := range info.aliases {
			known[alias] = true
		}
	}

	unknown := []string{}
	for action, energy := range ert {
		if !known[action] {
			unknown = append(unknown, action)
			continue
		}

		if energy < 0 {
			return &ConfigurationError{
				Level:  levelName,
				Reason: fmt.Sprintf("negative energy for action %q", action),
			}
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)

		return &ConfigurationError{
			Level: levelName,
			Reason: "unknown energy reference actions: " +
				strings.Join(unknown, ", "),
		}
	}

	return nil
}
