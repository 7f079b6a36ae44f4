package main

import (
	"context"
	"flag"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/olivierh59500/particle-flow-go/internal/app"
	"github.com/olivierh59500/particle-flow-go/internal/config"
	"github.com/olivierh59500/particle-flow-go/internal/loop"
	"github.com/olivierh59500/particle-flow-go/internal/raster"
	"github.com/olivierh59500/particle-flow-go/internal/waitlist"
)

func main() {
	var (
		configPath = flag.String("config", "", "JSON configuration file")
		savePath   = flag.String("save-config", "", "write the effective configuration to this file and exit")
		width      = flag.Int("width", 1280, "initial window width")
		height     = flag.Int("height", 720, "initial window height")
		count      = flag.Int("count", 0, "particle count (overrides config)")
		primary    = flag.String("color", "", "primary colour as hex (overrides config)")
		background = flag.String("bg", "", "background colour as hex or \"transparent\" (overrides config)")
		reduced    = flag.Bool("reduced-motion", false, "render a single static frame")
		seed       = flag.Int64("seed", 0, "random seed, 0 for time based")
		snapshot   = flag.String("snapshot", "", "render headless and write the last frame as PNG")
		frames     = flag.Int("frames", 120, "frames to simulate for -snapshot")
		join       = flag.String("join", "", "submit this email to the waitlist and exit")
		endpoint   = flag.String("endpoint", "http://localhost:3000/api/waitlist", "waitlist endpoint for -join")
	)
	flag.Parse()

	if *join != "" {
		form := waitlist.NewForm(waitlist.NewClient(*endpoint, nil), waitlist.LogNotifier{})
		form.SetEmail(*join)
		if err := form.Submit(context.Background()); err != nil {
			os.Exit(1)
		}
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Printf("using defaults: %v", err)
		}
		cfg = loaded
	}
	if *count > 0 {
		cfg.ParticleCount = *count
	}
	if *primary != "" {
		cfg.PrimaryColor = *primary
	}
	if *background != "" {
		cfg.BackgroundColor = *background
	}
	if *reduced {
		cfg.ReducedMotion = true
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if *savePath != "" {
		if err := cfg.Save(*savePath); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *snapshot != "" {
		if err := renderSnapshot(cfg, *width, *height, *frames, *snapshot); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := app.Run(cfg, "Particle Flow", *width, *height); err != nil {
		log.Fatal(err)
	}
}

// renderSnapshot drives the renderer on the software surface at a fixed
// 60 Hz step and writes the final presented frame.
func renderSnapshot(cfg config.Config, width, height, frames int, path string) error {
	surface := raster.New(width, height)
	start := time.Now()
	sched := loop.NewFrameScheduler(start)
	ctrl, err := loop.NewController(cfg, surface, sched, nil)
	if err != nil {
		return err
	}
	ctrl.Mount()
	defer ctrl.Unmount()

	const step = time.Second / 60
	now := start
	for i := 0; ctrl.Frames() < frames; i++ {
		if i > frames+int(config.SettleDelay/step)+2 {
			break // reduced motion or a frame that never came
		}
		now = now.Add(step)
		sched.Pump(now)
	}
	log.Printf("snapshot: %d frames at %dx%d, %d particles", ctrl.Frames(), width, height, ctrl.Store().Len())

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create snapshot")
	}
	defer f.Close()
	if err := png.Encode(f, surface.Snapshot(cfg.OverlayAlpha)); err != nil {
		return errors.Wrap(err, "encode snapshot")
	}
	return nil
}
