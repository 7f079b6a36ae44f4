// Package draw rasterises the particle field: trails, hex caps, proximity
// connections and the glow composite.
package draw

import "image/color"

// Point is a vertex in surface coordinates
type Point struct {
	X, Y float64
}

// Stroke is the complete style of one line. Every call carries its own
// style; nothing set for one call is visible to the next.
type Stroke struct {
	Width    float64
	Color    color.NRGBA
	RoundCap bool
}

// GlowPass is one blurred, brightened, additive self-copy of the frame
type GlowPass struct {
	Blur       float64 // gaussian standard deviation in pixels
	Brightness float64 // channel multiplier, 1.6 for 160%
}

// GlowPasses is the bloom stack, widest first
var GlowPasses = []GlowPass{
	{Blur: 8, Brightness: 1.6},
	{Blur: 4, Brightness: 1.6},
	{Blur: 1, Brightness: 1.3},
}

// Surface is a drawing target with an offscreen frame and a visible output.
type Surface interface {
	// Size returns the frame size in pixels; zero means not laid out yet.
	Size() (int, int)
	// Clear makes the frame fully transparent.
	Clear()
	// Fill covers the frame with an opaque colour.
	Fill(c color.Color)
	// StrokeLine draws a segment from a to b with source-over blending.
	StrokeLine(a, b Point, s Stroke)
	// FillPolygon fills a closed polygon with source-over blending.
	FillPolygon(pts []Point, c color.NRGBA)
	// Glow blurs and brightens a copy of the frame and adds it back onto the frame.
	Glow(pass GlowPass)
	// Present replaces the output with the frame added onto itself,
	// saturating.
	Present()
}
