package draw

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSLA converts a hue in degrees (any range), saturation and lightness in
// [0, 1] and alpha in [0, 1] to a straight-alpha colour.
func HSLA(hue, sat, light, alpha float64) color.NRGBA {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	r, g, b := colorful.Hsl(hue, sat, light).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))}
}

// FadeInOut is a triangular envelope over a lifetime m: 0 at birth, 1 at
// mid-life and back to 0 at m.
func FadeInOut(t, m float64) float64 {
	if m <= 0 {
		return 0
	}
	hm := 0.5 * m
	return math.Abs(math.Mod(t+hm, m)-hm) / hm
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
