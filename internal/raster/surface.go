// Package raster is a software drawing surface. It rasterises shapes with
// golang.org/x/image/vector and implements the glow composite on the CPU,
// which makes it usable headless and in tests.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	fdraw "github.com/olivierh59500/particle-flow-go/internal/draw"
)

// capSegments is the number of edges used for each round line cap
const capSegments = 8

// Surface holds a premultiplied frame and the presented output
type Surface struct {
	frame  *image.RGBA
	output *image.RGBA
	z      *vector.Rasterizer

	glowA, glowB []float32
}

// New creates a surface of the given size
func New(width, height int) *Surface {
	s := &Surface{z: vector.NewRasterizer(0, 0)}
	s.Resize(width, height)
	return s
}

// Resize reallocates the frame and output. Previous contents are dropped.
func (s *Surface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r := image.Rect(0, 0, width, height)
	s.frame = image.NewRGBA(r)
	s.output = image.NewRGBA(r)
	s.glowA = make([]float32, len(s.frame.Pix))
	s.glowB = make([]float32, len(s.frame.Pix))
}

// Size returns the frame size
func (s *Surface) Size() (int, int) {
	b := s.frame.Bounds()
	return b.Dx(), b.Dy()
}

// Frame exposes the offscreen frame
func (s *Surface) Frame() *image.RGBA {
	return s.frame
}

// Output exposes the presented image
func (s *Surface) Output() *image.RGBA {
	return s.output
}

func (s *Surface) Clear() {
	clear(s.frame.Pix)
}

func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.frame, s.frame.Bounds(), image.NewUniform(c), image.Point{}, draw.Over)
}

// StrokeLine fills the outline of the stroked segment. Round caps turn the
// segment into a capsule; butt caps into a rectangle.
func (s *Surface) StrokeLine(a, b fdraw.Point, st fdraw.Stroke) {
	if st.Width <= 0 || st.Color.A == 0 {
		return
	}
	hw := st.Width / 2
	angle := math.Atan2(b.Y-a.Y, b.X-a.X)

	var pts []fdraw.Point
	if st.RoundCap {
		pts = make([]fdraw.Point, 0, 2*(capSegments+1))
		pts = appendArc(pts, b, hw, angle-math.Pi/2, angle+math.Pi/2)
		pts = appendArc(pts, a, hw, angle+math.Pi/2, angle+3*math.Pi/2)
	} else {
		nx, ny := -math.Sin(angle)*hw, math.Cos(angle)*hw
		pts = []fdraw.Point{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		}
	}
	s.FillPolygon(pts, st.Color)
}

// FillPolygon rasterises a closed polygon with source-over blending
func (s *Surface) FillPolygon(pts []fdraw.Point, c color.NRGBA) {
	if len(pts) < 3 || c.A == 0 || !s.touches(pts) {
		return
	}
	w, h := s.Size()
	s.z.Reset(w, h)
	s.z.DrawOp = draw.Over
	s.z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		s.z.LineTo(float32(p.X), float32(p.Y))
	}
	s.z.ClosePath()
	s.z.Draw(s.frame, s.frame.Bounds(), image.NewUniform(c), image.Point{})
}

// Glow blurs a copy of the frame, scales its channels by the pass
// brightness and adds it back onto the frame, saturating at full intensity.
func (s *Surface) Glow(pass fdraw.GlowPass) {
	w, h := s.Size()
	if w == 0 || h == 0 {
		return
	}
	src, tmp := s.glowA, s.glowB
	for i, v := range s.frame.Pix {
		src[i] = float32(v) / 255
	}
	for _, box := range boxesForGauss(pass.Blur, 3) {
		r := (box - 1) / 2
		boxBlurH(src, tmp, w, h, r)
		boxBlurV(tmp, src, w, h, r)
	}

	k := float32(pass.Brightness)
	pix := s.frame.Pix
	for i := 0; i < len(pix); i += 4 {
		a := src[i+3]
		for c := 0; c < 3; c++ {
			// brightness acts on unpremultiplied colour, so cap at alpha
			v := src[i+c] * k
			if v > a {
				v = a
			}
			pix[i+c] = addSat(pix[i+c], v)
		}
		pix[i+3] = addSat(pix[i+3], a)
	}
}

// Present makes the output the frame added onto itself, saturating at full
// intensity.
func (s *Surface) Present() {
	for i, v := range s.frame.Pix {
		s.output.Pix[i] = addSatByte(v, v)
	}
}

// Snapshot returns a copy of the output with a black overlay of the given
// alpha composited over it.
func (s *Surface) Snapshot(overlay float64) *image.RGBA {
	img := image.NewRGBA(s.output.Bounds())
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(img, img.Bounds(), s.output, image.Point{}, draw.Over)
	if overlay > 0 {
		a := uint8(math.Round(math.Min(overlay, 1) * 255))
		draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{A: a}), image.Point{}, draw.Over)
	}
	return img
}

func (s *Surface) touches(pts []fdraw.Point) bool {
	w, h := s.Size()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return maxX > 0 && maxY > 0 && minX < float64(w) && minY < float64(h)
}

func appendArc(pts []fdraw.Point, c fdraw.Point, r, from, to float64) []fdraw.Point {
	for i := 0; i <= capSegments; i++ {
		t := from + (to-from)*float64(i)/capSegments
		pts = append(pts, fdraw.Point{X: c.X + r*math.Cos(t), Y: c.Y + r*math.Sin(t)})
	}
	return pts
}

func addSat(dst uint8, v float32) uint8 {
	sum := float32(dst) + v*255 + 0.5
	if sum >= 255 {
		return 255
	}
	return uint8(sum)
}

func addSatByte(a, b uint8) uint8 {
	if s := int(a) + int(b); s < 255 {
		return uint8(s)
	}
	return 255
}
