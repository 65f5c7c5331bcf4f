package density

// Fixed is a structured density. Every tile of a given size holds exactly
// the same number of non-zeros, so a tile either always fits or never does.
type Fixed struct {
	Density float64
}

// ExpectedDensity returns the fixed density.
func (f Fixed) ExpectedDensity(uint64) float64 {
	return f.Density
}

// ConfidenceAt is 1 if the tile fits in budget and 0 otherwise.
func (f Fixed) ConfidenceAt(tileSize, budget uint64) float64 {
	if occupancy(tileSize, f.Density) <= budget {
		return 1.0
	}

	return 0.0
}

// DensityAtConfidence returns the fixed density regardless of confidence. A
// structured tile cannot be squeezed, so the budget is not applied.
func (f Fixed) DensityAtConfidence(uint64, float64, uint64) float64 {
	return f.Density
}

// UserConfidence reports no pinned confidence.
func (f Fixed) UserConfidence() (float64, bool) {
	return 0, false
}
