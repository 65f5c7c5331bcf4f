package density

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// Binomial treats every element of a tile as independently non-zero with
// probability Density.
type Binomial struct {
	Density float64
}

func (b Binomial) dist(tileSize uint64) distuv.Binomial {
	return distuv.Binomial{N: float64(tileSize), P: b.Density}
}

func (b Binomial) degenerate(tileSize uint64) bool {
	return tileSize == 0 || b.Density <= 0 || b.Density >= 1
}

// ExpectedDensity returns the mean density, which does not depend on the tile
// size.
func (b Binomial) ExpectedDensity(uint64) float64 {
	return b.Density
}

// ConfidenceAt returns P(non-zeros <= budget).
func (b Binomial) ConfidenceAt(tileSize, budget uint64) float64 {
	if budget >= tileSize {
		return 1.0
	}

	if b.degenerate(tileSize) {
		if occupancy(tileSize, b.Density) <= budget {
			return 1.0
		}

		return 0.0
	}

	return b.dist(tileSize).CDF(float64(budget))
}

// DensityAtConfidence returns the density of the smallest occupancy whose
// cumulative probability reaches confidence, clipped to the budget.
func (b Binomial) DensityAtConfidence(
	tileSize uint64,
	confidence float64,
	budget uint64,
) float64 {
	if b.degenerate(tileSize) {
		return clip(tileSize, b.Density, budget)
	}

	k := b.quantile(tileSize, confidence)
	density := float64(k) / float64(tileSize)

	return clip(tileSize, density, budget)
}

// quantile finds the smallest k with CDF(k) >= confidence by bisection, since
// the binomial CDF is monotonic in k. A confidence of 1 maps to the first k
// whose CDF rounds to 1, not to a fully dense tile.
func (b Binomial) quantile(tileSize uint64, confidence float64) uint64 {
	if confidence <= 0 {
		return 0
	}

	d := b.dist(tileSize)
	lo, hi := uint64(0), tileSize

	for lo < hi {
		mid := lo + (hi-lo)/2
		if d.CDF(float64(mid)) >= confidence {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	return lo
}

// UserConfidence reports no pinned confidence.
func (b Binomial) UserConfidence() (float64, bool) {
	return 0, false
}
