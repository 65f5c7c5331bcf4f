package buffer

// ValidateTopology reconciles the instance count with the mesh shape and
// fills in whichever of instances, meshX and meshY can be derived from the
// others.
func ValidateTopology(spec Spec) (Spec, error) {
	instances, meshX, meshY := spec.Instances, spec.MeshX, spec.MeshY

	switch {
	case instances.IsSpecified() && meshX.IsSpecified() && meshY.IsSpecified():
		if meshX.Get()*meshY.Get() != instances.Get() {
			return spec, spec.configError(
				"meshX * meshY (%d * %d) does not match instances %d",
				meshX.Get(), meshY.Get(), instances.Get())
		}
	case instances.IsSpecified() && meshX.IsSpecified():
		if meshX.Get() == 0 || instances.Get()%meshX.Get() != 0 {
			return spec, spec.configError(
				"instances %d is not divisible by meshX %d",
				instances.Get(), meshX.Get())
		}

		spec.MeshY.Specify(instances.Get() / meshX.Get())
	case instances.IsSpecified() && meshY.IsSpecified():
		if meshY.Get() == 0 || instances.Get()%meshY.Get() != 0 {
			return spec, spec.configError(
				"instances %d is not divisible by meshY %d",
				instances.Get(), meshY.Get())
		}

		spec.MeshX.Specify(instances.Get() / meshY.Get())
	case instances.IsSpecified():
		spec.MeshX.Specify(instances.Get())
		spec.MeshY.Specify(1)
	case meshX.IsSpecified() && meshY.IsSpecified():
		spec.Instances.Specify(meshX.Get() * meshY.Get())
	default:
		// A lone mesh dimension could be extended, but guessing the other
		// one is too dangerous.
		return spec, spec.configError(
			"instances and/or meshX * meshY must be specified")
	}

	if spec.Instances.Get() == 0 {
		return spec, spec.configError("instances must be > 0")
	}

	return spec, nil
}
