package buffer

import (
	"math"
)

// Builder can build buffer levels.
type Builder struct {
	spec           Spec
	physicalModel  PhysicalModel
	readNetwork    Network
	updateNetwork  Network
	breakOnFailure bool
}

// MakeBuilder creates a builder with the default spec.
func MakeBuilder() Builder {
	return Builder{
		spec:           Defaults(),
		breakOnFailure: true,
	}
}

// WithSpec sets the spec of the level.
func (b Builder) WithSpec(spec Spec) Builder {
	b.spec = spec
	return b
}

// WithPhysicalModel sets the model that estimates SRAM/DRAM energy and area
// and adder energy.
func (b Builder) WithPhysicalModel(m PhysicalModel) Builder {
	b.physicalModel = m
	return b
}

// WithReadNetwork sets the network that reads from the level.
func (b Builder) WithReadNetwork(n Network) Builder {
	b.readNetwork = n
	return b
}

// WithUpdateNetwork sets the network that updates the level.
func (b Builder) WithUpdateNetwork(n Network) Builder {
	b.updateNetwork = n
	return b
}

// WithBreakOnFailure sets whether Evaluate skips the energy and performance
// models of mappings that do not fit.
func (b Builder) WithBreakOnFailure(breakOnFailure bool) Builder {
	b.breakOnFailure = breakOnFailure
	return b
}

// Build validates the spec, derives the dependent attributes and creates the
// level.
func (b Builder) Build(name string) (*Level, error) {
	spec := b.spec
	if name != "" {
		spec.Name = name
	}

	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	spec, err = ValidateTopology(spec)
	if err != nil {
		return nil, err
	}

	spec = spec.withEffectiveSize()

	spec, err = b.derivePhysicalAttributes(spec)
	if err != nil {
		return nil, err
	}

	err = ValidateERT(spec.Name, spec.ERT)
	if err != nil {
		return nil, err
	}

	l := &Level{
		spec:           spec,
		physicalModel:  b.physicalModel,
		readNetwork:    b.readNetwork,
		updateNetwork:  b.updateNetwork,
		breakOnFailure: b.breakOnFailure,
	}
	l.opEnergy = NewOpEnergyTable(spec.ERT, spec.VectorAccessEnergy.Get())

	return l, nil
}

func (b Builder) derivePhysicalAttributes(spec Spec) (Spec, error) {
	if b.physicalModel == nil {
		return spec, spec.configError("a physical model is required")
	}

	accessEnergy := 0.0
	storageArea := 0.0

	switch {
	case spec.Technology == DRAM:
		accessEnergy = b.physicalModel.DRAMEnergy(spec.WordBits * spec.BlockSize)
	case !spec.Size.IsSpecified() || spec.Size.Get() == 0:
	default:
		width := spec.WordBits * spec.BlockSize * spec.ClusterSize
		height := ceilDiv(spec.Size.Get(), spec.BlockSize)
		clusterSize := float64(spec.ClusterSize)

		accessEnergy = b.physicalModel.SRAMEnergy(
			height, width, spec.NumBanks, spec.NumPorts) / clusterSize
		storageArea = b.physicalModel.SRAMArea(
			height, width, spec.NumBanks, spec.NumPorts) / clusterSize
	}

	// The user may override the access energy and the cluster area.
	if !spec.VectorAccessEnergy.IsSpecified() {
		spec.VectorAccessEnergy.Specify(accessEnergy)
	}

	if math.IsNaN(spec.VectorAccessEnergy.Get()) ||
		spec.VectorAccessEnergy.Get() < 0 {
		return spec, spec.configError("invalid vector access energy %v",
			spec.VectorAccessEnergy.Get())
	}

	if spec.ClusterArea > 0 {
		storageArea = spec.ClusterArea / float64(spec.ClusterSize)
	}

	spec.StorageArea = storageArea

	return spec, nil
}

func ceilDiv(a, b uint64) uint64 {
	if a%b == 0 {
		return a / b
	}

	return a/b + 1
}
