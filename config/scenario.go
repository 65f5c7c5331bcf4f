// Package config loads evaluation scenarios from YAML files. A scenario
// describes the networks and buffer levels of an architecture and the tiles
// of one mapping to evaluate on them.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is the root of a scenario file.
type Scenario struct {
	ComputeCycles  uint64          `yaml:"compute-cycles"`
	BreakOnFailure *bool           `yaml:"break-on-failure"`
	PhysicalModel  PhysicalConfig  `yaml:"physical-model"`
	Networks       []NetworkConfig `yaml:"networks"`
	Levels         []LevelConfig   `yaml:"levels"`
	Tiles          []TileConfig    `yaml:"tiles"`
}

// NetworkConfig describes an interconnect.
type NetworkConfig struct {
	Name                 string `yaml:"name"`
	WordBits             uint64 `yaml:"word-bits"`
	DistributedMulticast bool   `yaml:"distributed-multicast"`
}

// LevelConfig describes a buffer level. Attributes accept the key aliases
// of several architecture description formats, e.g. word-bits, word_width
// and datawidth all set the word width.
type LevelConfig struct {
	Name       string             `yaml:"name"`
	Class      string             `yaml:"class"`
	Attributes map[string]any     `yaml:"attributes"`
	ERT        map[string]float64 `yaml:"ert"`
}

// PhysicalConfig overrides coefficients of the default physical model.
type PhysicalConfig struct {
	SRAMBitEnergy          *float64 `yaml:"sram-bit-energy"`
	SRAMWireEnergy         *float64 `yaml:"sram-wire-energy"`
	SRAMCellArea           *float64 `yaml:"sram-cell-area"`
	SRAMBankOverhead       *float64 `yaml:"sram-bank-overhead"`
	SecondPortEnergyFactor *float64 `yaml:"second-port-energy-factor"`
	SecondPortAreaFactor   *float64 `yaml:"second-port-area-factor"`
	DRAMBitEnergy          *float64 `yaml:"dram-bit-energy"`
	AdderBitEnergy         *float64 `yaml:"adder-bit-energy"`
}

// TileConfig is the mapping of one level.
type TileConfig struct {
	Level         string            `yaml:"level"`
	ComputeCycles *uint64           `yaml:"compute-cycles"`
	DataSpaces    []DataSpaceConfig `yaml:"data-spaces"`
}

// DataSpaceConfig is the tile of one data space at one level. Access counts
// are per instance.
type DataSpaceConfig struct {
	Name               string            `yaml:"name"`
	Keep               *bool             `yaml:"keep"`
	ReadWrite          bool              `yaml:"read-write"`
	Size               uint64            `yaml:"size"`
	PartitionSize      uint64            `yaml:"partition-size"`
	ReplicationFactor  *uint64           `yaml:"replication-factor"`
	Reads              uint64            `yaml:"reads"`
	Updates            uint64            `yaml:"updates"`
	Fills              uint64            `yaml:"fills"`
	TemporalReductions uint64            `yaml:"temporal-reductions"`
	MetadataReads      uint64            `yaml:"metadata-reads"`
	MetadataFills      uint64            `yaml:"metadata-fills"`
	MetadataUpdates    uint64            `yaml:"metadata-updates"`
	FineGrained        map[string]uint64 `yaml:"fine-grained"`
	Compressed         bool              `yaml:"compressed"`
	MetadataFormat     string            `yaml:"metadata-format"`
	DenseRank0Fills    uint64            `yaml:"dense-rank0-fills"`
	DenseRank1Fills    uint64            `yaml:"dense-rank1-fills"`
	Density            *DensityConfig    `yaml:"density"`
	Parent             string            `yaml:"parent"`
}

// DensityConfig selects the density model of a data space.
type DensityConfig struct {
	Distribution string   `yaml:"distribution"`
	Value        float64  `yaml:"value"`
	Confidence   *float64 `yaml:"confidence"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	return Parse(data)
}

// Parse parses a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario

	err := yaml.Unmarshal(data, &s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	err = s.validate()
	if err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &s, nil
}

func (s *Scenario) validate() error {
	if len(s.Levels) == 0 {
		return errors.New("at least one level is required")
	}

	names := make(map[string]bool)
	for _, l := range s.Levels {
		if l.Name == "" {
			return errors.New("every level needs a name")
		}

		if names[l.Name] {
			return fmt.Errorf("duplicated level %s", l.Name)
		}

		names[l.Name] = true
	}

	networks := make(map[string]bool)
	for _, n := range s.Networks {
		if n.Name == "" {
			return errors.New("every network needs a name")
		}

		if networks[n.Name] {
			return fmt.Errorf("duplicated network %s", n.Name)
		}

		networks[n.Name] = true
	}

	for _, t := range s.Tiles {
		if !names[t.Level] {
			return fmt.Errorf("tile refers to unknown level %q", t.Level)
		}

		for _, ds := range t.DataSpaces {
			if ds.Parent != "" && !names[ds.Parent] {
				return fmt.Errorf("data space %s of %s has unknown parent %q",
					ds.Name, t.Level, ds.Parent)
			}
		}
	}

	return nil
}
