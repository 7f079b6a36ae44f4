// Package noise provides the deterministic 3D scalar field that steers the
// particle flow.
package noise

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Perlin parameters: weight falloff, frequency gain and octave count
const (
	Alpha   = 2.0
	Beta    = 2.0
	Octaves = 3
)

// Sampler is anything that yields a smooth value in [-1, 1] for a point in
// space-time.
type Sampler interface {
	Sample(x, y, z float64) float64
}

// Field is a seeded Perlin field. Two fields built with the same seed return
// identical samples.
type Field struct {
	seed int64
	p    *perlin.Perlin
}

// NewField creates a field for the given seed
func NewField(seed int64) *Field {
	return &Field{
		seed: seed,
		p:    perlin.NewPerlin(Alpha, Beta, Octaves, seed),
	}
}

// Seed returns the seed the field was built with
func (f *Field) Seed() int64 {
	return f.seed
}

// Sample returns the field value at (x, y, z), clamped to [-1, 1].
// Callers pre-scale the axes by their spatial and temporal frequencies.
func (f *Field) Sample(x, y, z float64) float64 {
	return math.Max(-1, math.Min(1, f.p.Noise3D(x, y, z)))
}
