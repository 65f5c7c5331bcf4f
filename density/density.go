// Package density provides the tile density models used to size compressed
// tiles.
package density

import (
	"fmt"
	"math"
)

// Model estimates how many non-zero values a tile holds.
type Model interface {
	ExpectedDensity(tileSize uint64) float64
	ConfidenceAt(tileSize, budget uint64) float64
	DensityAtConfidence(tileSize uint64, confidence float64, budget uint64) float64
	UserConfidence() (confidence float64, pinned bool)
}

// Distribution names accepted by New.
const (
	DistributionFixed    = "fixed-structured"
	DistributionBinomial = "binomial"
)

// New creates a model by distribution name.
func New(distribution string, density float64) (Model, error) {
	if math.IsNaN(density) || density < 0 || density > 1 {
		return nil, fmt.Errorf("density %v is not in [0, 1]", density)
	}

	switch distribution {
	case "", DistributionFixed:
		return Fixed{Density: density}, nil
	case DistributionBinomial:
		return Binomial{Density: density}, nil
	default:
		return nil, fmt.Errorf("unknown density distribution %q", distribution)
	}
}

func occupancy(tileSize uint64, density float64) uint64 {
	return uint64(math.Ceil(float64(tileSize) * density))
}

// clip limits a density so that the tile holds at most budget words.
func clip(tileSize uint64, density float64, budget uint64) float64 {
	if tileSize == 0 || budget >= tileSize {
		return density
	}

	return math.Min(density, float64(budget)/float64(tileSize))
}
