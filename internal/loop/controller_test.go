package loop

import (
	"image/color"
	"testing"
	"time"

	"github.com/olivierh59500/particle-flow-go/internal/config"
	"github.com/olivierh59500/particle-flow-go/internal/draw"
	"github.com/olivierh59500/particle-flow-go/internal/event"
	"github.com/olivierh59500/particle-flow-go/internal/raster"
)

// fakeSurface counts calls and has a settable size
type fakeSurface struct {
	w, h    int
	calls   []string
	strokes int
}

func (f *fakeSurface) Size() (int, int)                            { return f.w, f.h }
func (f *fakeSurface) Clear()                                      { f.calls = append(f.calls, "clear") }
func (f *fakeSurface) Fill(c color.Color)                          { f.calls = append(f.calls, "fill") }
func (f *fakeSurface) StrokeLine(a, b draw.Point, s draw.Stroke)   { f.strokes++ }
func (f *fakeSurface) FillPolygon(pts []draw.Point, c color.NRGBA) {}
func (f *fakeSurface) Glow(pass draw.GlowPass)                     { f.calls = append(f.calls, "glow") }
func (f *fakeSurface) Present()                                    { f.calls = append(f.calls, "present") }

type harness struct {
	sched   *FrameScheduler
	events  *event.Dispatcher
	surface *fakeSurface
	ctrl    *Controller
	now     time.Time
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.ParticleCount = 30
	cfg.MobileParticleCount = 30
	cfg.Seed = 99
	return cfg
}

func newHarness(t *testing.T, cfg config.Config, w, h int) *harness {
	t.Helper()
	hs := &harness{
		sched:   NewFrameScheduler(epoch),
		events:  event.NewDispatcher(),
		surface: &fakeSurface{w: w, h: h},
		now:     epoch,
	}
	ctrl, err := NewController(cfg, hs.surface, hs.sched, hs.events)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	hs.ctrl = ctrl
	return hs
}

// pump advances 16ms and runs one scheduler pass
func (h *harness) pump() {
	h.now = h.now.Add(16 * time.Millisecond)
	h.sched.Pump(h.now)
}

// start mounts and pumps past the settle delay until the first frame ran
func (h *harness) start() {
	h.ctrl.Mount()
	for i := 0; i < 8; i++ {
		h.pump()
	}
}

func TestMountWaitsForSettleDelay(t *testing.T) {
	h := newHarness(t, testConfig(), 200, 100)
	h.ctrl.Mount()
	if h.ctrl.State() != Sizing {
		t.Fatalf("Expected sizing after mount, got %v", h.ctrl.State())
	}
	for i := 0; i < 6; i++ { // 96ms
		h.pump()
	}
	if h.ctrl.Frames() != 0 || h.ctrl.Store().Len() != 0 {
		t.Fatal("Expected no frame before the settle delay")
	}
	h.pump() // 112ms: setup runs and requests the first frame
	h.pump()
	if h.ctrl.State() != Running {
		t.Fatalf("Expected running after the first frame, got %v", h.ctrl.State())
	}
	if h.ctrl.Tick() != 1 {
		t.Errorf("Expected tick 1, got %d", h.ctrl.Tick())
	}
	if h.ctrl.Store().Len() != 30 {
		t.Errorf("Expected 30 particles, got %d", h.ctrl.Store().Len())
	}
}

func TestFrameOrder(t *testing.T) {
	cfg := testConfig()
	cfg.BackgroundColor = "#000000"
	h := newHarness(t, cfg, 200, 100)
	h.start()

	h.surface.calls = nil
	h.pump()
	want := []string{"clear", "fill", "glow", "glow", "glow", "present"}
	if len(h.surface.calls) != len(want) {
		t.Fatalf("Expected %v, got %v", want, h.surface.calls)
	}
	for i := range want {
		if h.surface.calls[i] != want[i] {
			t.Errorf("Call %d: expected %s, got %s", i, want[i], h.surface.calls[i])
		}
	}
	if h.surface.strokes < 30 {
		t.Errorf("Expected at least one trail stroke per particle, got %d", h.surface.strokes)
	}
}

func TestTransparentBackgroundSkipsFill(t *testing.T) {
	h := newHarness(t, testConfig(), 200, 100)
	h.start()
	for _, c := range h.surface.calls {
		if c == "fill" {
			t.Fatal("Expected no background fill for a transparent background")
		}
	}
}

func TestZeroSizeSkipsTicks(t *testing.T) {
	h := newHarness(t, testConfig(), 0, 0)
	h.start()
	for i := 0; i < 10; i++ {
		h.pump()
	}
	if h.ctrl.Tick() != 0 || h.ctrl.Frames() != 0 {
		t.Fatalf("Expected no ticks on a zero-size surface, got tick %d", h.ctrl.Tick())
	}
	if h.ctrl.State() != Sizing {
		t.Errorf("Expected to stay sizing, got %v", h.ctrl.State())
	}
	if h.sched.Pending() != 1 {
		t.Errorf("Expected the skipped frame to be rescheduled, pending %d", h.sched.Pending())
	}

	h.surface.w, h.surface.h = 320, 240
	h.pump()
	if h.ctrl.Tick() != 1 || h.ctrl.State() != Running {
		t.Errorf("Expected first tick once a size is observed, got tick %d state %v", h.ctrl.Tick(), h.ctrl.State())
	}
	if w, hh := h.ctrl.Store().Bounds(); w != 320 || hh != 240 {
		t.Errorf("Expected store sized 320x240, got %vx%v", w, hh)
	}
}

func TestResizeReinitializes(t *testing.T) {
	h := newHarness(t, testConfig(), 1024, 768)
	h.start()
	for i := 0; i < 20; i++ {
		h.pump()
	}

	h.surface.w, h.surface.h = 300, 200
	h.events.Dispatch(event.Resized(300, 200))
	if h.ctrl.Tick() != 0 {
		t.Errorf("Expected tick reset by resize, got %d", h.ctrl.Tick())
	}
	store := h.ctrl.Store()
	for i := 0; i < store.Len(); i++ {
		x, y := store.Position(i)
		if x < 0 || x >= 300 || y < 0 || y >= 200 {
			t.Fatalf("Particle %d at (%v,%v) survived the resize", i, x, y)
		}
		if store.Particle(i).Life != 0 {
			t.Fatalf("Particle %d not respawned by resize", i)
		}
	}
	h.pump()
	if h.ctrl.Tick() != 1 {
		t.Errorf("Expected ticking to resume, got %d", h.ctrl.Tick())
	}
}

func TestMobileCountOnNarrowSurface(t *testing.T) {
	cfg := testConfig()
	cfg.MobileParticleCount = 5
	h := newHarness(t, cfg, 400, 800)
	h.start()
	if n := h.ctrl.Store().Len(); n != 5 {
		t.Errorf("Expected 5 particles below the breakpoint, got %d", n)
	}
	h.events.Dispatch(event.Resized(1280, 800))
	if n := h.ctrl.Store().Len(); n != 30 {
		t.Errorf("Expected 30 particles above the breakpoint, got %d", n)
	}
}

func TestUnmountStopsEverything(t *testing.T) {
	h := newHarness(t, testConfig(), 200, 100)
	h.start()
	h.ctrl.Unmount()

	if h.sched.Pending() != 0 {
		t.Errorf("Expected no pending frame after unmount, got %d", h.sched.Pending())
	}
	if h.events.Count(event.PointerMove) != 0 || h.events.Count(event.Resize) != 0 {
		t.Error("Expected listeners removed after unmount")
	}

	tick := h.ctrl.Tick()
	before := h.ctrl.Store().Particle(0)
	for i := 0; i < 10; i++ {
		h.pump()
	}
	h.ctrl.OnEvent(event.Resized(50, 50))
	if h.ctrl.Tick() != tick {
		t.Errorf("Expected no ticks after unmount, tick moved %d -> %d", tick, h.ctrl.Tick())
	}
	if h.ctrl.Store().Particle(0) != before {
		t.Error("Expected particle buffer untouched after unmount")
	}
	if h.ctrl.State() != Unmounted {
		t.Errorf("Expected unmounted, got %v", h.ctrl.State())
	}
}

func TestUnmountBeforeSettle(t *testing.T) {
	h := newHarness(t, testConfig(), 200, 100)
	h.ctrl.Mount()
	h.pump()
	h.ctrl.Unmount()
	for i := 0; i < 20; i++ {
		h.pump()
	}
	if h.ctrl.Frames() != 0 || h.ctrl.Store().Len() != 0 {
		t.Error("Expected setup never to run after an early unmount")
	}
}

func TestNilSurfaceSkipsSetup(t *testing.T) {
	sched := NewFrameScheduler(epoch)
	ctrl, err := NewController(testConfig(), nil, sched, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctrl.Mount()
	sched.Pump(epoch.Add(time.Second))
	sched.Pump(epoch.Add(2 * time.Second))
	if ctrl.Frames() != 0 || sched.Pending() != 0 {
		t.Errorf("Expected no frames without a surface, frames %d pending %d", ctrl.Frames(), sched.Pending())
	}
	ctrl.Unmount()
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := testConfig()
	cfg.Ease = 0
	if _, err := NewController(cfg, &fakeSurface{}, NewFrameScheduler(epoch), nil); err == nil {
		t.Error("Expected invalid config to be rejected")
	}
}

func TestReducedMotionRendersOnce(t *testing.T) {
	cfg := testConfig()
	cfg.ReducedMotion = true
	h := newHarness(t, cfg, 200, 100)
	h.start()
	for i := 0; i < 10; i++ {
		h.pump()
	}
	if h.ctrl.Frames() != 1 {
		t.Fatalf("Expected a single static frame, got %d", h.ctrl.Frames())
	}
	h.events.Dispatch(event.Resized(220, 100))
	h.pump()
	h.pump()
	if h.ctrl.Frames() != 2 {
		t.Errorf("Expected one more frame after a resize, got %d", h.ctrl.Frames())
	}
}

func TestPointerEventsSmoothed(t *testing.T) {
	h := newHarness(t, testConfig(), 200, 100)
	h.start()
	h.events.Dispatch(event.PointerMoved(200, 50))
	x, y := h.ctrl.Pointer().Position()
	if x != 10 || y != 0 {
		t.Errorf("Expected one smoothing step to (10,0), got (%v,%v)", x, y)
	}
}

func TestPointerBeforeSettleIsCenterRelative(t *testing.T) {
	h := newHarness(t, testConfig(), 200, 100)
	h.ctrl.Mount()
	h.events.Dispatch(event.PointerMoved(200, 50))
	if rx, ry := h.ctrl.Pointer().Raw(); rx != 100 || ry != 0 {
		t.Errorf("Expected raw pointer (100,0) relative to the center, got (%v,%v)", rx, ry)
	}
	if x, y := h.ctrl.Pointer().Position(); x != 10 || y != 0 {
		t.Errorf("Expected one smoothing step to (10,0), got (%v,%v)", x, y)
	}
	if w, _ := h.ctrl.Size(); w != 0 {
		t.Errorf("Expected sizing left to setup, got width %d", w)
	}
}

func TestZeroSpeedScenario(t *testing.T) {
	cfg := testConfig()
	cfg.ParticleCount = 10
	cfg.BaseSpeed, cfg.RangeSpeed = 0, 0
	h := newHarness(t, cfg, 800, 600)
	h.start()
	h.events.Dispatch(event.PointerMoved(100, 100))

	store := h.ctrl.Store()
	type pos struct{ x, y float64 }
	before := make([]pos, store.Len())
	for i := range before {
		before[i].x, before[i].y = store.Position(i)
	}
	h.pump()
	for i := range before {
		x, y := store.Position(i)
		if x != before[i].x || y != before[i].y {
			t.Errorf("Particle %d moved without speed: (%v,%v) -> (%v,%v)", i, before[i].x, before[i].y, x, y)
		}
	}
}

func TestIndependentInstances(t *testing.T) {
	sched := NewFrameScheduler(epoch)
	events := event.NewDispatcher()
	a, err := NewController(testConfig(), &fakeSurface{w: 200, h: 100}, sched, events)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewController(testConfig(), &fakeSurface{w: 200, h: 100}, sched, events)
	if err != nil {
		t.Fatal(err)
	}
	a.Mount()
	b.Mount()
	now := epoch
	for i := 0; i < 10; i++ {
		now = now.Add(16 * time.Millisecond)
		sched.Pump(now)
	}
	b.Unmount()
	ticks := b.Tick()
	for i := 0; i < 5; i++ {
		now = now.Add(16 * time.Millisecond)
		sched.Pump(now)
	}
	if b.Tick() != ticks {
		t.Errorf("Expected unmounted instance frozen at %d, got %d", ticks, b.Tick())
	}
	if a.Tick() != ticks+5 {
		t.Errorf("Expected mounted instance to keep ticking to %d, got %d", ticks+5, a.Tick())
	}
	if events.Count(event.Resize) != 1 {
		t.Errorf("Expected one resize listener left, got %d", events.Count(event.Resize))
	}
}

func TestRasterSurfaceEndToEnd(t *testing.T) {
	cfg := testConfig()
	cfg.BackgroundColor = "#05050a"
	surf := raster.New(96, 64)
	sched := NewFrameScheduler(epoch)
	ctrl, err := NewController(cfg, surf, sched, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctrl.Mount()
	now := epoch
	for i := 0; i < 20; i++ {
		now = now.Add(16 * time.Millisecond)
		sched.Pump(now)
	}
	if ctrl.Frames() == 0 {
		t.Fatal("Expected frames on the raster surface")
	}
	// The opaque background survives presentation
	if got := surf.Output().RGBAAt(0, 0); got.A != 255 {
		t.Errorf("Expected opaque presented pixel, got %v", got)
	}
}
