// Package motion advances particles through the flow field and toward the
// pointer.
package motion

import (
	"math"

	"github.com/olivierh59500/particle-flow-go/internal/config"
	"github.com/olivierh59500/particle-flow-go/internal/noise"
	"github.com/olivierh59500/particle-flow-go/internal/particle"
)

const tau = 2 * math.Pi

// Model holds the tunables of the per-particle velocity update
type Model struct {
	field     noise.Sampler
	staticity float64
	ease      float64

	trails []particle.Trail
}

// NewModel creates a motion model sampling the given field
func NewModel(field noise.Sampler, staticity, ease float64) *Model {
	return &Model{
		field:     field,
		staticity: staticity,
		ease:      ease,
	}
}

// Advance computes the candidate state of particle p for the given tick and
// center-relative pointer (px, py). surfaceWidth sets the pointer falloff.
func (m *Model) Advance(p particle.Particle, tick int, px, py, surfaceWidth float64) particle.Candidate {
	n := m.field.Sample(p.X*config.XFreq, p.Y*config.YFreq, float64(tick)*config.ZFreq) * config.NoiseSteps * tau

	vx := lerp(p.VX, math.Cos(n), config.VelocitySmoothing)
	vy := lerp(p.VY, math.Sin(n), config.VelocitySmoothing)

	ax, ay := m.Attraction(p.X, p.Y, px, py, surfaceWidth)
	vx += ax
	vy += ay

	return particle.Candidate{
		X:    p.X + vx*p.Speed,
		Y:    p.Y + vy*p.Speed,
		VX:   vx,
		VY:   vy,
		Life: p.Life + 1,
	}
}

// Attraction is the velocity added by the pointer. The pointer is scaled by
// magnetism/staticity into a translation target, the offset to it is eased
// by 1/ease and weighted by a linear falloff that is 1 at the pointer and 0
// from a third of the surface width onward.
func (m *Model) Attraction(x, y, px, py, surfaceWidth float64) (float64, float64) {
	influence := Influence(math.Hypot(px-x, py-y), surfaceWidth/3)
	if influence == 0 {
		return 0, 0
	}
	translateX := px / (m.staticity / config.Magnetism)
	translateY := py / (m.staticity / config.Magnetism)

	ax := lerp(0, translateX-x, 1/m.ease) * config.PointerGain * influence
	ay := lerp(0, translateY-y, 1/m.ease) * config.PointerGain * influence
	return ax, ay
}

// Influence is the linear pointer falloff, clamped at zero
func Influence(distance, maxDistance float64) float64 {
	if maxDistance <= 0 {
		return 0
	}
	return math.Max(0, 1-distance/maxDistance)
}

// Step advances every particle in the store one tick. Each particle is first
// computed as a candidate, its trail recorded, and then committed or
// respawned. The returned trails are reused by the next call.
func (m *Model) Step(store *particle.Store, tick int, px, py float64) []particle.Trail {
	width, _ := store.Bounds()
	m.trails = m.trails[:0]
	for i := 0; i < store.Len(); i++ {
		p := store.Particle(i)
		c := m.Advance(p, tick, px, py, width)
		m.trails = append(m.trails, particle.Trail{
			X0: p.X, Y0: p.Y,
			X1: c.X, Y1: c.Y,
			Life:   p.Life,
			TTL:    p.TTL,
			Radius: p.Radius,
			Hue:    p.Hue,
		})
		store.Commit(i, c)
	}
	return m.trails
}

func lerp(a, b, amount float64) float64 {
	return (1-amount)*a + amount*b
}
