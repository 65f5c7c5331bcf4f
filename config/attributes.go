package config

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/sarchlab/bufeval/buffer"
)

// attributes looks up level attributes by any of their aliases.
type attributes map[string]any

func (a attributes) find(keys ...string) (key string, value any, ok bool) {
	for _, k := range keys {
		if v, found := a[k]; found {
			return k, v, true
		}
	}

	return "", nil, false
}

func (a attributes) has(key string) bool {
	_, found := a[key]
	return found
}

func (a attributes) uintValue(keys ...string) (uint64, bool, error) {
	key, v, ok := a.find(keys...)
	if !ok {
		return 0, false, nil
	}

	switch n := v.(type) {
	case int:
		if n >= 0 {
			return uint64(n), true, nil
		}
	case uint64:
		return n, true, nil
	case float64:
		if n >= 0 && n == math.Trunc(n) {
			return uint64(n), true, nil
		}
	}

	return 0, false, fmt.Errorf("attribute %s: %v is not a non-negative integer",
		key, v)
}

func (a attributes) floatValue(keys ...string) (float64, bool, error) {
	key, v, ok := a.find(keys...)
	if !ok {
		return 0, false, nil
	}

	switch n := v.(type) {
	case int:
		return float64(n), true, nil
	case uint64:
		return float64(n), true, nil
	case float64:
		return n, true, nil
	}

	return 0, false, fmt.Errorf("attribute %s: %v is not a number", key, v)
}

func (a attributes) stringValue(keys ...string) (string, bool) {
	_, v, ok := a.find(keys...)
	if !ok {
		return "", false
	}

	s, isString := v.(string)

	return s, isString
}

// LevelNetworks names the networks attached to a level.
type LevelNetworks struct {
	Read   string
	Update string
}

// levelParser accumulates the first error so that the parsing code reads as
// a straight list of lookups.
type levelParser struct {
	attrs attributes
	err   error
}

func (p *levelParser) uintValue(keys ...string) (uint64, bool) {
	v, ok, err := p.attrs.uintValue(keys...)
	if err != nil && p.err == nil {
		p.err = err
	}

	return v, ok
}

func (p *levelParser) floatValue(keys ...string) (float64, bool) {
	v, ok, err := p.attrs.floatValue(keys...)
	if err != nil && p.err == nil {
		p.err = err
	}

	return v, ok
}

// ParseSpec converts a level description into a buffer spec. Derived
// attributes are left to the buffer builder.
func ParseSpec(l LevelConfig) (buffer.Spec, LevelNetworks, error) {
	spec := buffer.Defaults()
	spec.Name = l.Name
	spec.ERT = l.ERT

	p := &levelParser{attrs: attributes(l.Attributes)}
	networks := LevelNetworks{}

	if v, ok := p.uintValue("word-bits", "word_width", "datawidth"); ok {
		spec.WordBits = v
	}

	if v, ok := p.uintValue("block-size", "n_words"); ok {
		spec.BlockSize = v
	}

	if v, ok := p.uintValue("metadata-block-size"); ok {
		spec.MetadataBlockSize = v
	}

	if v, ok := p.uintValue("metadata_datawidth"); ok {
		spec.MetadataWordBits = v
	}

	if v, ok := p.uintValue("cluster-size"); ok {
		spec.ClusterSize = v
	} else if width, ok := p.uintValue("width", "memory_width"); ok {
		granule := spec.WordBits * spec.BlockSize
		if granule == 0 || width%granule != 0 {
			return spec, networks, fmt.Errorf(
				"level %s: width %d is not a multiple of word bits %d * "+
					"block size %d",
				l.Name, width, spec.WordBits, spec.BlockSize)
		}

		spec.ClusterSize = width / granule
	}

	err := parseSize(p, &spec)
	if err != nil {
		return spec, networks, err
	}

	parseTechnology(p, l.Class, &spec)

	if v, ok := p.uintValue("num-ports"); ok {
		spec.NumPorts = v
	}

	if v, ok := p.uintValue("num-banks"); ok {
		spec.NumBanks = v
	}

	parseBandwidth(p, &spec)

	if v, ok := p.floatValue("multiple-buffering"); ok {
		spec.MultipleBuffering = v
	}

	if v, ok := p.floatValue("min-utilization"); ok {
		spec.MinUtilization = v
	}

	if v, ok := p.uintValue("instances", "n_elements"); ok {
		spec.Instances.Specify(v)
	}

	if v, ok := p.uintValue("meshX"); ok {
		spec.MeshX.Specify(v)
	}

	if v, ok := p.uintValue("meshY"); ok {
		spec.MeshY.Specify(v)
	}

	networks.Read, _ = p.attrs.stringValue("network_read")
	networks.Update, _ = p.attrs.stringValue("network_update")

	if v, ok := p.floatValue("vector-access-energy"); ok {
		spec.VectorAccessEnergy.Specify(v)
	}

	if v, ok := p.floatValue("addr-gen-energy"); ok {
		spec.AddrGenEnergy = v
	}

	if v, ok := p.floatValue("cluster-area"); ok {
		spec.ClusterArea = v
	}

	if p.err != nil {
		return spec, networks, fmt.Errorf("level %s: %w", l.Name, p.err)
	}

	return spec, networks, nil
}

func parseSize(p *levelParser, spec *buffer.Spec) error {
	sizeKeys := 0
	for _, k := range []string{"entries", "depth", "memory_depth", "sizeKB"} {
		if p.attrs.has(k) {
			sizeKeys++
		}
	}

	if sizeKeys > 1 {
		return fmt.Errorf(
			"level %s: only one of entries, depth and sizeKB can be given",
			spec.Name)
	}

	if v, ok := p.uintValue("entries"); ok {
		spec.Size.Specify(v)
	} else if v, ok := p.uintValue("depth", "memory_depth"); ok {
		spec.Size.Specify(v * spec.BlockSize)
	} else if v, ok := p.uintValue("sizeKB"); ok {
		if spec.WordBits == 0 {
			return fmt.Errorf("level %s: sizeKB needs word bits", spec.Name)
		}

		spec.Size.Specify(v * 1024 * 8 / spec.WordBits)
	}

	return nil
}

func parseTechnology(p *levelParser, class string, spec *buffer.Spec) {
	if strings.Contains(class, "DRAM") {
		spec.Technology = buffer.DRAM
	}

	if t, ok := p.attrs.stringValue("technology"); ok && t == "DRAM" {
		spec.Technology = buffer.DRAM
	}
}

func parseBandwidth(p *levelParser, spec *buffer.Spec) {
	if v, ok := p.floatValue("bandwidth"); ok {
		log.Printf("WARNING: %s: bandwidth is deprecated, assuming "+
			"read_bandwidth = write_bandwidth = bandwidth/2", spec.Name)

		spec.ReadBandwidth.Specify(v / 2)
		spec.WriteBandwidth.Specify(v / 2)
	}

	if v, ok := p.floatValue("read_bandwidth"); ok {
		spec.ReadBandwidth.Specify(v)
	}

	if v, ok := p.floatValue("write_bandwidth"); ok {
		spec.WriteBandwidth.Specify(v)
	}
}
