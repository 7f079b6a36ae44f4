// Package particle holds the packed particle buffer and its spawn/respawn
// lifecycle.
package particle

import (
	"math/rand"

	"github.com/olivierh59500/particle-flow-go/internal/config"
)

// Slot layout inside the flat buffer
const (
	propX = iota
	propY
	propVX
	propVY
	propLife
	propTTL
	propSpeed
	propRadius
	propHue
	PropCount // numeric slots per particle
)

// Ranges are the spawn distributions. Each attribute is drawn uniformly from
// [Base, Base+Range); hue from BaseHue ± RangeHue/2.
type Ranges struct {
	BaseTTL, RangeTTL       float64
	BaseSpeed, RangeSpeed   float64
	BaseRadius, RangeRadius float64
	BaseHue, RangeHue       float64
}

// RangesFor derives spawn ranges from a renderer configuration
func RangesFor(cfg config.Config, baseHue float64) Ranges {
	return Ranges{
		BaseTTL:     config.BaseTTL,
		RangeTTL:    config.RangeTTL,
		BaseSpeed:   cfg.BaseSpeed,
		RangeSpeed:  cfg.RangeSpeed,
		BaseRadius:  cfg.BaseRadius,
		RangeRadius: cfg.RangeRadius,
		BaseHue:     baseHue,
		RangeHue:    config.RangeHue,
	}
}

// Particle is a read-only view of one slot
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64
	TTL    float64
	Speed  float64
	Radius float64
	Hue    float64
}

// Candidate is the state the motion step proposes for a slot
type Candidate struct {
	X, Y   float64
	VX, VY float64
	Life   float64
}

// Trail is the segment a particle covered during one tick, with the
// attributes needed to draw it.
type Trail struct {
	X0, Y0, X1, Y1 float64
	Life, TTL      float64
	Radius, Hue    float64
}

// Store is a fixed-size structure of particles packed into one float64
// buffer, PropCount values per particle.
type Store struct {
	props         []float64
	count         int
	width, height float64
	ranges        Ranges
	rng           *rand.Rand
}

// NewStore creates an empty store. It holds no particles until Reinitialize.
func NewStore(ranges Ranges, rng *rand.Rand) *Store {
	return &Store{ranges: ranges, rng: rng}
}

// Reinitialize allocates a fresh buffer for count particles inside a
// width × height surface and spawns every slot.
func (s *Store) Reinitialize(count int, width, height float64) {
	if count < 0 {
		count = 0
	}
	s.count = count
	s.width = width
	s.height = height
	s.props = make([]float64, count*PropCount)
	for i := 0; i < count; i++ {
		s.SpawnAt(i)
	}
}

// SpawnAt gives slot i a fresh random position and attributes, zero velocity
// and zero age.
func (s *Store) SpawnAt(i int) {
	r := s.ranges
	p := s.props[i*PropCount : (i+1)*PropCount]
	p[propX] = s.rng.Float64() * s.width
	p[propY] = s.rng.Float64() * s.height
	p[propVX] = 0
	p[propVY] = 0
	p[propLife] = 0
	p[propTTL] = r.BaseTTL + s.rng.Float64()*r.RangeTTL
	p[propSpeed] = r.BaseSpeed + s.rng.Float64()*r.RangeSpeed
	p[propRadius] = r.BaseRadius + s.rng.Float64()*r.RangeRadius
	p[propHue] = r.BaseHue + s.rng.Float64()*r.RangeHue - r.RangeHue/2
}

// Commit writes a candidate into slot i, or respawns the slot when the
// current position is outside the surface, the candidate has outlived its
// ttl, or the candidate position leaves the surface. It reports whether the
// slot was respawned.
func (s *Store) Commit(i int, c Candidate) bool {
	p := s.props[i*PropCount : (i+1)*PropCount]
	if !s.InBounds(p[propX], p[propY]) || c.Life > p[propTTL] || !s.InBounds(c.X, c.Y) {
		s.SpawnAt(i)
		return true
	}
	p[propX] = c.X
	p[propY] = c.Y
	p[propVX] = c.VX
	p[propVY] = c.VY
	p[propLife] = c.Life
	return false
}

// InBounds reports whether (x, y) lies in [0, width) × [0, height)
func (s *Store) InBounds(x, y float64) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Len returns the number of live slots
func (s *Store) Len() int {
	return s.count
}

// Bounds returns the surface size the store was initialised for
func (s *Store) Bounds() (float64, float64) {
	return s.width, s.height
}

// Particle returns a copy of slot i
func (s *Store) Particle(i int) Particle {
	p := s.props[i*PropCount : (i+1)*PropCount]
	return Particle{
		X:      p[propX],
		Y:      p[propY],
		VX:     p[propVX],
		VY:     p[propVY],
		Life:   p[propLife],
		TTL:    p[propTTL],
		Speed:  p[propSpeed],
		Radius: p[propRadius],
		Hue:    p[propHue],
	}
}

// Position returns the coordinates of slot i without copying the whole slot
func (s *Store) Position(i int) (float64, float64) {
	o := i * PropCount
	return s.props[o+propX], s.props[o+propY]
}

// Hue returns the hue of slot i
func (s *Store) Hue(i int) float64 {
	return s.props[i*PropCount+propHue]
}
