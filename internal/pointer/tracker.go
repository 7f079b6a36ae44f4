// Package pointer follows the host cursor as a smoothed offset from the
// surface center.
package pointer

import (
	"image"

	"github.com/olivierh59500/particle-flow-go/internal/config"
)

// Tracker smooths raw pointer samples into a center-relative attraction
// target. The zero position is the surface center.
type Tracker struct {
	rawX, rawY float64
	x, y       float64
	factor     float64
}

// NewTracker creates a tracker with the standard smoothing factor
func NewTracker() *Tracker {
	return &Tracker{factor: config.PointerSmoothing}
}

// Observe records a raw pointer sample given in host coordinates and moves
// the smoothed position one step toward it.
func (t *Tracker) Observe(clientX, clientY float64, surface image.Rectangle) {
	w := float64(surface.Dx())
	h := float64(surface.Dy())
	t.rawX = clientX - float64(surface.Min.X) - w/2
	t.rawY = clientY - float64(surface.Min.Y) - h/2

	t.x = lerp(t.x, t.rawX, t.factor)
	t.y = lerp(t.y, t.rawY, t.factor)
}

// Position returns the smoothed center-relative pointer
func (t *Tracker) Position() (float64, float64) {
	return t.x, t.y
}

// Raw returns the last unsmoothed center-relative sample
func (t *Tracker) Raw() (float64, float64) {
	return t.rawX, t.rawY
}

// Reset moves both positions back to the surface center
func (t *Tracker) Reset() {
	t.rawX, t.rawY, t.x, t.y = 0, 0, 0, 0
}

func lerp(a, b, amount float64) float64 {
	return (1-amount)*a + amount*b
}
