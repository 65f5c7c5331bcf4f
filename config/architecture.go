package config

import (
	"fmt"

	"github.com/sarchlab/bufeval/buffer"
	"github.com/sarchlab/bufeval/density"
	"github.com/sarchlab/bufeval/network"
	"github.com/sarchlab/bufeval/pat"
)

// Architecture is a scenario turned into buffer levels and mappings.
type Architecture struct {
	PhysicalModel pat.Model
	Networks      map[string]*network.Network
	Levels        []*buffer.Level
	Evaluations   []Evaluation

	levelsByName map[string]*buffer.Level
}

// Evaluation is one tile to evaluate on one level.
type Evaluation struct {
	Level         *buffer.Level
	Tile          buffer.Tile
	Mask          buffer.Mask
	ComputeCycles uint64
	Workload      Workload
}

// WorkingSetSizes returns the uncompressed tile sizes, which are what a
// mapper knows before running the full evaluation.
func (e Evaluation) WorkingSetSizes() []uint64 {
	sizes := make([]uint64, len(e.Tile))
	for i := range e.Tile {
		sizes[i] = e.Tile[i].Size
	}

	return sizes
}

// Workload provides the density model of each data space by index.
type Workload []buffer.DensityModel

// DataSpaceDensity returns the model of a data space, or nil if the data
// space is dense.
func (w Workload) DataSpaceDensity(dataSpace int) buffer.DensityModel {
	if dataSpace < 0 || dataSpace >= len(w) {
		return nil
	}

	return w[dataSpace]
}

// Level returns a level by name.
func (a *Architecture) Level(name string) (*buffer.Level, bool) {
	l, ok := a.levelsByName[name]
	return l, ok
}

// Build creates the networks, levels and evaluations of a scenario.
func Build(s *Scenario) (*Architecture, error) {
	a := &Architecture{
		Networks:     make(map[string]*network.Network),
		levelsByName: make(map[string]*buffer.Level),
	}

	pm, err := s.PhysicalModel.apply(pat.Defaults())
	if err != nil {
		return nil, err
	}

	a.PhysicalModel = pm

	for _, nc := range s.Networks {
		n, err := network.MakeBuilder().
			WithWordBits(nc.WordBits).
			WithDistributedMulticast(nc.DistributedMulticast).
			Build(nc.Name)
		if err != nil {
			return nil, err
		}

		a.Networks[nc.Name] = n
	}

	for _, lc := range s.Levels {
		l, err := a.buildLevel(s, lc)
		if err != nil {
			return nil, err
		}

		a.Levels = append(a.Levels, l)
		a.levelsByName[l.Name()] = l
	}

	for _, tc := range s.Tiles {
		e, err := a.buildEvaluation(s, tc)
		if err != nil {
			return nil, err
		}

		a.Evaluations = append(a.Evaluations, e)
	}

	return a, nil
}

func (a *Architecture) buildLevel(
	s *Scenario,
	lc LevelConfig,
) (*buffer.Level, error) {
	spec, networks, err := ParseSpec(lc)
	if err != nil {
		return nil, err
	}

	b := buffer.MakeBuilder().
		WithSpec(spec).
		WithPhysicalModel(a.PhysicalModel)

	if s.BreakOnFailure != nil {
		b = b.WithBreakOnFailure(*s.BreakOnFailure)
	}

	if networks.Read != "" {
		n, found := a.Networks[networks.Read]
		if !found {
			return nil, fmt.Errorf("level %s: unknown read network %q",
				lc.Name, networks.Read)
		}

		b = b.WithReadNetwork(n)
	}

	if networks.Update != "" {
		n, found := a.Networks[networks.Update]
		if !found {
			return nil, fmt.Errorf("level %s: unknown update network %q",
				lc.Name, networks.Update)
		}

		b = b.WithUpdateNetwork(n)
	}

	return b.Build(lc.Name)
}

func (a *Architecture) buildEvaluation(
	s *Scenario,
	tc TileConfig,
) (Evaluation, error) {
	e := Evaluation{
		Level:         a.levelsByName[tc.Level],
		ComputeCycles: s.ComputeCycles,
		Tile:          make(buffer.Tile, len(tc.DataSpaces)),
		Mask:          make(buffer.Mask, len(tc.DataSpaces)),
		Workload:      make(Workload, len(tc.DataSpaces)),
	}

	if tc.ComputeCycles != nil {
		e.ComputeCycles = *tc.ComputeCycles
	}

	for i, dc := range tc.DataSpaces {
		t, err := a.buildTileInfo(dc)
		if err != nil {
			return e, fmt.Errorf("level %s, data space %s: %w",
				tc.Level, dc.Name, err)
		}

		e.Tile[i] = t
		e.Mask[i] = dc.Keep == nil || *dc.Keep

		if t.Density != nil {
			e.Workload[i] = t.Density
		}
	}

	return e, nil
}

func (a *Architecture) buildTileInfo(dc DataSpaceConfig) (buffer.TileInfo, error) {
	t := buffer.TileInfo{
		Name:               dc.Name,
		ReadWrite:          dc.ReadWrite,
		Size:               dc.Size,
		PartitionSize:      dc.PartitionSize,
		Reads:              dc.Reads,
		Updates:            dc.Updates,
		Fills:              dc.Fills,
		TemporalReductions: dc.TemporalReductions,
		MetadataReads:      dc.MetadataReads,
		MetadataFills:      dc.MetadataFills,
		MetadataUpdates:    dc.MetadataUpdates,
		Compressed:         dc.Compressed,
		DenseRank0Fills:    dc.DenseRank0Fills,
		DenseRank1Fills:    dc.DenseRank1Fills,
		ReplicationFactor:  1,
	}

	if t.PartitionSize == 0 {
		t.PartitionSize = t.Size
	}

	if dc.ReplicationFactor != nil {
		t.ReplicationFactor = *dc.ReplicationFactor
	}

	format, err := buffer.ParseMetadataFormat(dc.MetadataFormat)
	if err != nil {
		return t, err
	}

	t.MetadataFormat = format

	err = fillFineGrained(&t, dc.FineGrained)
	if err != nil {
		return t, err
	}

	if dc.Density != nil {
		model, err := buildDensity(*dc.Density)
		if err != nil {
			return t, err
		}

		t.Density = model
	}

	if dc.Parent != "" {
		t.Parent = a.levelsByName[dc.Parent].AsParent()
	}

	return t, nil
}

// fillFineGrained sets the per-op counts. Without explicit counts, every
// access is taken as a random access of its kind.
func fillFineGrained(t *buffer.TileInfo, counts map[string]uint64) error {
	if len(counts) == 0 {
		t.FineGrainedAccesses[buffer.RandomRead] = t.Reads
		t.FineGrainedAccesses[buffer.RandomFill] = t.Fills
		t.FineGrainedAccesses[buffer.RandomUpdate] = t.Updates
		t.FineGrainedAccesses[buffer.MetadataRead] = t.MetadataReads
		t.FineGrainedAccesses[buffer.MetadataFill] = t.MetadataFills
		t.FineGrainedAccesses[buffer.MetadataUpdate] = t.MetadataUpdates

		return nil
	}

	for name, count := range counts {
		op, err := buffer.ParseOpType(name)
		if err != nil {
			return err
		}

		t.FineGrainedAccesses[op] = count
	}

	return nil
}

func buildDensity(dc DensityConfig) (buffer.DensityModel, error) {
	model, err := density.New(dc.Distribution, dc.Value)
	if err != nil {
		return nil, err
	}

	if dc.Confidence == nil {
		return model, nil
	}

	if *dc.Confidence < 0 || *dc.Confidence > 1 {
		return nil, fmt.Errorf("confidence %v is not in [0, 1]",
			*dc.Confidence)
	}

	return density.Pin(model, *dc.Confidence), nil
}

func (c PhysicalConfig) apply(m pat.Model) (pat.Model, error) {
	overrides := []struct {
		value  *float64
		target *float64
	}{
		{c.SRAMBitEnergy, &m.SRAMBitEnergy},
		{c.SRAMWireEnergy, &m.SRAMWireEnergy},
		{c.SRAMCellArea, &m.SRAMCellArea},
		{c.SRAMBankOverhead, &m.SRAMBankOverhead},
		{c.SecondPortEnergyFactor, &m.SecondPortEnergyFactor},
		{c.SecondPortAreaFactor, &m.SecondPortAreaFactor},
		{c.DRAMBitEnergy, &m.DRAMBitEnergy},
		{c.AdderBitEnergy, &m.AdderBitEnergy},
	}

	for _, o := range overrides {
		if o.value != nil {
			*o.target = *o.value
		}
	}

	err := m.Validate()
	if err != nil {
		return m, fmt.Errorf("physical model: %w", err)
	}

	return m, nil
}
