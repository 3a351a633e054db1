package pricing

import "math/rand"

// Generator is a seeded pseudo-random float stream. The same seed always
// yields the same infinite sequence, which keeps computed prices stable
// across restarts.
type Generator struct {
	seed uint32
	rng  *rand.Rand
}

func NewGenerator(seed uint32) *Generator {
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewSource(int64(seed))), //nolint:gosec // seeded stream
	}
}

// Float64 returns the next value in [0,1) and advances the stream by one step.
func (g *Generator) Float64() float64 {
	return g.rng.Float64()
}

// Reset rewinds the stream to its initial state.
func (g *Generator) Reset() {
	g.rng = rand.New(rand.NewSource(int64(g.seed))) //nolint:gosec // seeded stream
}
