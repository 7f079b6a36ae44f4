// Package app hosts a background renderer in an ebiten window.
package app

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/particle-flow-go/internal/canvas"
	"github.com/olivierh59500/particle-flow-go/internal/config"
	"github.com/olivierh59500/particle-flow-go/internal/event"
	"github.com/olivierh59500/particle-flow-go/internal/loop"
)

// Game implements ebiten.Game. It forwards cursor motion and window
// resizes as events and pumps the frame scheduler once per update.
type Game struct {
	cfg     config.Config
	canvas  *canvas.Canvas
	sched   *loop.FrameScheduler
	events  *event.Dispatcher
	ctrl    *loop.Controller
	overlay color.NRGBA

	cursor cursorGate
	size   sizeTracker
}

// New creates a game whose canvas starts at width × height and mounts the
// renderer on it.
func New(cfg config.Config, width, height int) (*Game, error) {
	cv, err := canvas.New(width, height)
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:     cfg,
		canvas:  cv,
		sched:   loop.NewFrameScheduler(time.Now()),
		events:  event.NewDispatcher(),
		overlay: color.NRGBA{A: uint8(math.Round(cfg.OverlayAlpha * 255))},
	}
	g.size.report(width, height)
	g.size.pending()
	if err := g.mount(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) mount() error {
	ctrl, err := loop.NewController(g.cfg, g.canvas, g.sched, g.events)
	if err != nil {
		return err
	}
	g.ctrl = ctrl
	g.ctrl.Mount()
	return nil
}

// Update is called each tick by ebiten
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.Close()
		return ebiten.Termination
	}
	// Remount restarts the field from scratch, as a configuration change would
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.ctrl.Unmount()
		if err := g.mount(); err != nil {
			return err
		}
	}

	if w, h, ok := g.size.pending(); ok {
		g.canvas.Resize(w, h)
		g.events.Dispatch(event.Resized(w, h))
	}

	mx, my := ebiten.CursorPosition()
	if g.cursor.admit(mx, my) {
		g.events.Dispatch(event.PointerMoved(float64(mx), float64(my)))
	}

	g.sched.Pump(time.Now())
	return nil
}

// Draw copies the presented frame and darkens it for foreground legibility
func (g *Game) Draw(screen *ebiten.Image) {
	if out := g.canvas.Output(); out != nil {
		screen.DrawImage(out, nil)
	}
	if g.overlay.A > 0 {
		b := screen.Bounds()
		vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), g.overlay, false)
	}
}

// Layout keeps the canvas at the window size. The new size is applied on
// the next Update.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.size.report(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close unmounts the renderer
func (g *Game) Close() {
	g.ctrl.Unmount()
}

// Run opens a resizable window and blocks until it is closed
func Run(cfg config.Config, title string, width, height int) error {
	g, err := New(cfg, width, height)
	if err != nil {
		return err
	}
	defer g.Close()

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}
