// Package loop owns the render loop of one background renderer: surface
// sizing, the per-frame tick, resize reinitialisation and teardown.
package loop

import (
	"image"
	"image/color"
	"log"
	"math/rand"
	"time"

	"github.com/olivierh59500/particle-flow-go/internal/config"
	"github.com/olivierh59500/particle-flow-go/internal/draw"
	"github.com/olivierh59500/particle-flow-go/internal/event"
	"github.com/olivierh59500/particle-flow-go/internal/motion"
	"github.com/olivierh59500/particle-flow-go/internal/noise"
	"github.com/olivierh59500/particle-flow-go/internal/particle"
	"github.com/olivierh59500/particle-flow-go/internal/pointer"
)

// State is the lifecycle phase of a controller
type State int

const (
	Unmounted State = iota
	Sizing
	Running
)

func (s State) String() string {
	switch s {
	case Sizing:
		return "sizing"
	case Running:
		return "running"
	default:
		return "unmounted"
	}
}

// Controller drives one renderer instance. All animation state (tick,
// particle buffer, pointer) lives here, so controllers never interfere.
type Controller struct {
	cfg        config.Config
	sched      Scheduler
	events     *event.Dispatcher
	surface    draw.Surface
	pipeline   *draw.Pipeline
	store      *particle.Store
	model      *motion.Model
	pointer    *pointer.Tracker
	background color.Color

	state         State
	tick          int
	frames        int
	width, height int
	frameID       FrameID
	settleID      FrameID
	allocated     bool
	idle          bool
}

// NewController validates cfg and builds a controller drawing onto surface.
// A nil surface is accepted; setup is then skipped when mounted.
func NewController(cfg config.Config, surface draw.Surface, sched Scheduler, events *event.Dispatcher) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hue, err := cfg.BaseHue()
	if err != nil {
		return nil, err
	}
	bg, err := cfg.Background()
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	c := &Controller{
		cfg:        cfg,
		sched:      sched,
		events:     events,
		surface:    surface,
		store:      particle.NewStore(particle.RangesFor(cfg, hue), rng),
		model:      motion.NewModel(noise.NewField(seed), cfg.Staticity, cfg.Ease),
		pointer:    pointer.NewTracker(),
		background: bg,
	}
	if surface != nil {
		c.pipeline = draw.NewPipeline(surface)
	}
	return c, nil
}

// Mount subscribes to host events and schedules setup after the settle delay
func (c *Controller) Mount() {
	if c.state != Unmounted {
		return
	}
	c.state = Sizing
	if c.events != nil {
		c.events.Subscribe(c, event.PointerMove, event.Resize)
	}
	c.settleID = c.sched.After(config.SettleDelay, c.setup)
}

// Unmount cancels every pending callback and unsubscribes. No frame runs
// afterwards.
func (c *Controller) Unmount() {
	if c.state == Unmounted {
		return
	}
	c.sched.Cancel(c.settleID)
	c.sched.Cancel(c.frameID)
	c.settleID, c.frameID = 0, 0
	if c.events != nil {
		c.events.Unsubscribe(c, event.PointerMove, event.Resize)
	}
	c.state = Unmounted
}

// OnEvent handles pointer motion and resizes between ticks
func (c *Controller) OnEvent(e event.Event) {
	if c.state == Unmounted {
		return
	}
	switch data := e.Data.(type) {
	case event.PointerData:
		w, h := c.width, c.height
		if (w == 0 || h == 0) && c.surface != nil {
			// not sized yet; the surface already knows its extent
			w, h = c.surface.Size()
		}
		c.pointer.Observe(data.X, data.Y, image.Rect(0, 0, w, h))
	case event.ResizeData:
		c.resize(data.Width, data.Height)
	}
}

func (c *Controller) setup() {
	c.settleID = 0
	if c.surface == nil {
		log.Printf("loop: no drawing surface, renderer setup skipped")
		return
	}
	c.width, c.height = c.surface.Size()
	c.requestFrame()
}

func (c *Controller) resize(width, height int) {
	c.width, c.height = width, height
	if c.allocated && width > 0 && height > 0 {
		c.reinitialize()
	}
	if c.idle {
		c.idle = false
		c.requestFrame()
	}
}

func (c *Controller) reinitialize() {
	c.store.Reinitialize(c.cfg.CountFor(c.width), float64(c.width), float64(c.height))
	c.tick = 0
	c.allocated = true
}

func (c *Controller) requestFrame() {
	if c.state == Unmounted || c.frameID != 0 {
		return
	}
	c.frameID = c.sched.Request(c.frame)
}

func (c *Controller) frame() {
	c.frameID = 0
	if c.state == Unmounted {
		return
	}
	if c.width == 0 || c.height == 0 {
		c.width, c.height = c.surface.Size()
		if c.width == 0 || c.height == 0 {
			c.requestFrame()
			return
		}
	}
	if w, h := c.store.Bounds(); !c.allocated || w != float64(c.width) || h != float64(c.height) {
		c.reinitialize()
	}
	c.state = Running

	c.tick++
	c.surface.Clear()
	if c.background != nil {
		c.surface.Fill(c.background)
	}
	px, py := c.pointer.Position()
	trails := c.model.Step(c.store, c.tick, px, py)
	c.pipeline.Render(trails, c.store)
	c.frames++

	if c.cfg.ReducedMotion {
		c.idle = true
		return
	}
	c.requestFrame()
}

// State returns the lifecycle phase
func (c *Controller) State() State { return c.state }

// Tick returns the simulation tick since the last (re)initialisation
func (c *Controller) Tick() int { return c.tick }

// Frames returns the number of frames rendered since construction
func (c *Controller) Frames() int { return c.frames }

// Store exposes the particle buffer for inspection
func (c *Controller) Store() *particle.Store { return c.store }

// Pointer exposes the smoothed pointer
func (c *Controller) Pointer() *pointer.Tracker { return c.pointer }

// Size returns the dimensions the controller last observed
func (c *Controller) Size() (int, int) { return c.width, c.height }
