package draw

import (
	"math"

	"github.com/olivierh59500/particle-flow-go/internal/config"
	"github.com/olivierh59500/particle-flow-go/internal/particle"
)

// ConnectionOpacity is the alpha of the line between two particles at the
// given distance, zero from ConnectionDistance onward.
func ConnectionOpacity(distance float64) float64 {
	if distance >= config.ConnectionDistance {
		return 0
	}
	return (1 - distance/config.ConnectionDistance) * config.ConnectionOpacity
}

// Pipeline draws one frame of the field onto a surface
type Pipeline struct {
	surface Surface
	hex     [6]Point
	passes  []GlowPass
}

// NewPipeline creates a pipeline drawing onto s with the standard glow stack
func NewPipeline(s Surface) *Pipeline {
	return &Pipeline{surface: s, passes: GlowPasses}
}

// Render draws trails and hex caps for this tick's motion, connections
// between the committed particles, then the glow composite, and presents.
func (p *Pipeline) Render(trails []particle.Trail, store *particle.Store) {
	for _, t := range trails {
		p.DrawTrail(t)
	}
	p.DrawConnections(store)
	p.Glow()
	p.surface.Present()
}

// DrawTrail strokes the segment a particle covered this tick and caps its
// head with a small hexagon.
func (p *Pipeline) DrawTrail(t particle.Trail) {
	fade := FadeInOut(t.Life, t.TTL)

	p.surface.StrokeLine(Point{t.X0, t.Y0}, Point{t.X1, t.Y1}, Stroke{
		Width:    t.Radius,
		Color:    HSLA(t.Hue, config.TrailSaturation, config.TrailLightness, fade*config.TrailAlpha),
		RoundCap: true,
	})

	size := t.Radius * config.HexScale
	for i := range p.hex {
		angle := math.Pi / 3 * float64(i)
		p.hex[i] = Point{
			X: t.X1 + size*math.Cos(angle),
			Y: t.Y1 + size*math.Sin(angle),
		}
	}
	p.surface.FillPolygon(p.hex[:], HSLA(t.Hue, config.TrailSaturation, config.CapLightness, fade*config.CapAlpha))
}

// DrawConnections links every pair of particles closer than
// ConnectionDistance. This is quadratic in the particle count, which stays
// in the hundreds.
func (p *Pipeline) DrawConnections(store *particle.Store) {
	n := store.Len()
	for i := 0; i < n; i++ {
		x1, y1 := store.Position(i)
		hue := store.Hue(i)
		for j := i + 1; j < n; j++ {
			x2, y2 := store.Position(j)
			dx, dy := x2-x1, y2-y1
			if math.Abs(dx) >= config.ConnectionDistance || math.Abs(dy) >= config.ConnectionDistance {
				continue
			}
			d := math.Sqrt(dx*dx + dy*dy)
			if d >= config.ConnectionDistance {
				continue
			}
			p.surface.StrokeLine(Point{x1, y1}, Point{x2, y2}, Stroke{
				Width: config.ConnectionWidth,
				Color: HSLA(hue, config.TrailSaturation, config.TrailLightness, ConnectionOpacity(d)),
			})
		}
	}
}

// Glow runs the bloom passes over the frame
func (p *Pipeline) Glow() {
	w, h := p.surface.Size()
	if w == 0 || h == 0 {
		return
	}
	for _, pass := range p.passes {
		p.surface.Glow(pass)
	}
}
