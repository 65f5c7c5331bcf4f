package density

// Pinned fixes the confidence a tile is provisioned for. The capacity solver
// skips its search and sizes the tile at that confidence.
type Pinned struct {
	Model

	confidence float64
}

// Pin wraps a model with a user-defined confidence in [0, 1].
func Pin(m Model, confidence float64) Pinned {
	if confidence < 0 || confidence > 1 {
		panic("confidence must be in [0, 1]")
	}

	return Pinned{Model: m, confidence: confidence}
}

// UserConfidence returns the pinned confidence.
func (p Pinned) UserConfidence() (float64, bool) {
	return p.confidence, true
}
