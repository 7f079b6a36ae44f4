// Package canvas is the GPU drawing surface used in a window. Shapes are
// tessellated with ebiten's vector paths; the glow composite is a two-pass
// gaussian Kage shader drawn back with additive blending.
package canvas

import (
	_ "embed"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"

	"github.com/olivierh59500/particle-flow-go/internal/draw"
)

//go:embed blur.kage
var blurShader []byte

// Canvas renders into an offscreen frame and presents into an output image
// that the game copies onto the screen.
type Canvas struct {
	frame   *ebiten.Image
	scratch *ebiten.Image
	output  *ebiten.Image
	white   *ebiten.Image
	blur    *ebiten.Shader

	width, height int

	vs []ebiten.Vertex
	is []uint16
}

// New compiles the blur shader and allocates a width × height canvas
func New(width, height int) (*Canvas, error) {
	shader, err := ebiten.NewShader(blurShader)
	if err != nil {
		return nil, errors.Wrap(err, "compile blur shader")
	}
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)

	c := &Canvas{
		white: white,
		blur:  shader,
		vs:    make([]ebiten.Vertex, 0, 64),
		is:    make([]uint16, 0, 96),
	}
	c.Resize(width, height)
	return c, nil
}

// Resize reallocates the images. A zero dimension leaves the canvas empty
// until the next non-zero resize.
func (c *Canvas) Resize(width, height int) {
	if width == c.width && height == c.height && c.frame != nil {
		return
	}
	for _, img := range []*ebiten.Image{c.frame, c.scratch, c.output} {
		if img != nil {
			img.Deallocate()
		}
	}
	c.frame, c.scratch, c.output = nil, nil, nil
	c.width, c.height = max(width, 0), max(height, 0)
	if c.width == 0 || c.height == 0 {
		return
	}
	c.frame = ebiten.NewImage(c.width, c.height)
	c.scratch = ebiten.NewImage(c.width, c.height)
	c.output = ebiten.NewImage(c.width, c.height)
}

func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Output is the presented image, nil while the canvas is empty
func (c *Canvas) Output() *ebiten.Image {
	return c.output
}

func (c *Canvas) Clear() {
	if c.frame != nil {
		c.frame.Clear()
	}
}

func (c *Canvas) Fill(col color.Color) {
	if c.frame != nil {
		c.frame.Fill(col)
	}
}

// StrokeLine tessellates the segment with the requested cap. A zero-length
// round-capped stroke becomes a dot.
func (c *Canvas) StrokeLine(a, b draw.Point, s draw.Stroke) {
	if c.frame == nil || s.Width <= 0 || s.Color.A == 0 {
		return
	}
	if a == b {
		if s.RoundCap {
			vector.DrawFilledCircle(c.frame, float32(a.X), float32(a.Y), float32(s.Width/2), s.Color, true)
		}
		return
	}

	var path vector.Path
	path.MoveTo(float32(a.X), float32(a.Y))
	path.LineTo(float32(b.X), float32(b.Y))

	op := &vector.StrokeOptions{Width: float32(s.Width)}
	if s.RoundCap {
		op.LineCap = vector.LineCapRound
	}
	c.vs, c.is = path.AppendVerticesAndIndicesForStroke(c.vs[:0], c.is[:0], op)
	c.drawTriangles(s.Color)
}

// FillPolygon fills a closed polygon
func (c *Canvas) FillPolygon(pts []draw.Point, col color.NRGBA) {
	if c.frame == nil || len(pts) < 3 || col.A == 0 {
		return
	}
	var path vector.Path
	path.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		path.LineTo(float32(p.X), float32(p.Y))
	}
	path.Close()

	c.vs, c.is = path.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	c.drawTriangles(col)
}

func (c *Canvas) drawTriangles(col color.NRGBA) {
	r := float32(col.R) / 255
	g := float32(col.G) / 255
	b := float32(col.B) / 255
	a := float32(col.A) / 255
	for i := range c.vs {
		c.vs[i].ColorR = r
		c.vs[i].ColorG = g
		c.vs[i].ColorB = b
		c.vs[i].ColorA = a
	}
	c.frame.DrawTriangles(c.vs, c.is, c.white, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	})
}

// Glow blurs the frame horizontally into scratch, then vertically with the
// brightness boost back onto the frame using lighter blending.
func (c *Canvas) Glow(pass draw.GlowPass) {
	if c.frame == nil {
		return
	}
	c.scratch.Clear()
	h := &ebiten.DrawRectShaderOptions{}
	h.Images[0] = c.frame
	h.Uniforms = map[string]any{
		"Sigma":      float32(pass.Blur),
		"Direction":  []float32{1, 0},
		"Brightness": float32(1),
	}
	c.scratch.DrawRectShader(c.width, c.height, c.blur, h)

	v := &ebiten.DrawRectShaderOptions{Blend: ebiten.BlendLighter}
	v.Images[0] = c.scratch
	v.Uniforms = map[string]any{
		"Sigma":      float32(pass.Blur),
		"Direction":  []float32{0, 1},
		"Brightness": float32(pass.Brightness),
	}
	c.frame.DrawRectShader(c.width, c.height, c.blur, v)
}

// Present copies the frame into the output and adds it a second time with
// lighter blending.
func (c *Canvas) Present() {
	if c.frame == nil {
		return
	}
	c.output.Clear()
	c.output.DrawImage(c.frame, nil)
	c.output.DrawImage(c.frame, &ebiten.DrawImageOptions{Blend: ebiten.BlendLighter})
}
