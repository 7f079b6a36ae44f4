package config

import (
	"encoding/json"
	"image/color"
	"math"
	"os"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Particle lifetime and colour spread
const (
	BaseTTL  = 120.0
	RangeTTL = 300.0
	RangeHue = 30.0
)

// Flow field constants
const (
	NoiseSteps = 2.0
	XFreq      = 0.0006
	YFreq      = 0.0006
	ZFreq      = 0.0002
)

// Pointer and velocity smoothing
const (
	Magnetism         = 3.0
	PointerSmoothing  = 0.1
	VelocitySmoothing = 0.1
	PointerGain       = 0.01
)

// Drawing constants
const (
	ConnectionDistance = 150.0
	ConnectionOpacity  = 0.08
	ConnectionWidth    = 0.5
	HexScale           = 1.5
	TrailSaturation    = 0.85
	TrailLightness     = 0.60
	TrailAlpha         = 0.6
	CapLightness       = 0.65
	CapAlpha           = 0.2
)

// SettleDelay lets the host layout stabilise before the first sizing.
const SettleDelay = 100 * time.Millisecond

// Transparent is the background value that disables the fill.
const Transparent = "transparent"

var (
	ErrParticleCount = errors.New("particle count must be positive")
	ErrStaticity     = errors.New("staticity must be positive")
	ErrEase          = errors.New("ease must be positive")
	ErrNegativeRange = errors.New("speed and radius values must not be negative")
	ErrOverlayAlpha  = errors.New("overlay alpha must be within [0, 1]")
)

// Config is the mount-time configuration of a renderer. It is read-only once
// a controller has been mounted with it.
type Config struct {
	ParticleCount       int     `json:"particleCount"`
	MobileParticleCount int     `json:"mobileParticleCount"`
	MobileBreakpoint    int     `json:"mobileBreakpoint"`
	BaseSpeed           float64 `json:"baseSpeed"`
	RangeSpeed          float64 `json:"rangeSpeed"`
	BaseRadius          float64 `json:"baseRadius"`
	RangeRadius         float64 `json:"rangeRadius"`
	PrimaryColor        string  `json:"primaryColor"`
	BackgroundColor     string  `json:"backgroundColor"`
	Staticity           float64 `json:"staticity"`
	Ease                float64 `json:"ease"`
	OverlayAlpha        float64 `json:"overlayAlpha"`
	ReducedMotion       bool    `json:"reducedMotion"`
	Seed                int64   `json:"seed"` // 0 seeds from the clock
}

// Default returns the configuration used when nothing is supplied
func Default() Config {
	return Config{
		ParticleCount:       700,
		MobileParticleCount: 100,
		MobileBreakpoint:    768,
		BaseSpeed:           0.03,
		RangeSpeed:          0.5,
		BaseRadius:          0.7,
		RangeRadius:         1.5,
		PrimaryColor:        "#cfaaff",
		BackgroundColor:     Transparent,
		Staticity:           30,
		Ease:                20,
		OverlayAlpha:        0.4,
	}
}

// Load reads a JSON file on top of the defaults. Fields absent from the file
// keep their default values; fields present, zeros included, win.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write config %s", path)
}

// Validate reports the first setting the renderer cannot work with
func (c Config) Validate() error {
	switch {
	case c.ParticleCount <= 0 || c.MobileParticleCount <= 0:
		return ErrParticleCount
	case c.Staticity <= 0:
		return ErrStaticity
	case c.Ease <= 0:
		return ErrEase
	case c.BaseSpeed < 0 || c.RangeSpeed < 0 || c.BaseRadius < 0 || c.RangeRadius < 0:
		return ErrNegativeRange
	case c.OverlayAlpha < 0 || c.OverlayAlpha > 1:
		return ErrOverlayAlpha
	}
	if _, err := c.BaseHue(); err != nil {
		return err
	}
	if _, err := c.Background(); err != nil {
		return err
	}
	return nil
}

// CountFor picks the particle count for a surface width. Narrow surfaces
// get the smaller mobile population.
func (c Config) CountFor(width int) int {
	if c.MobileBreakpoint > 0 && width < c.MobileBreakpoint {
		return c.MobileParticleCount
	}
	return c.ParticleCount
}

// BaseHue converts the primary colour to its hue in whole degrees
func (c Config) BaseHue() (float64, error) {
	col, err := colorful.Hex(normalizeHex(c.PrimaryColor))
	if err != nil {
		return 0, errors.Wrapf(err, "primary color %q", c.PrimaryColor)
	}
	h, _, _ := col.Hsl()
	return math.Round(h), nil
}

// Background returns the fill colour, or nil when the background is transparent
func (c Config) Background() (color.Color, error) {
	if c.BackgroundColor == "" || strings.EqualFold(c.BackgroundColor, Transparent) {
		return nil, nil
	}
	col, err := colorful.Hex(normalizeHex(c.BackgroundColor))
	if err != nil {
		return nil, errors.Wrapf(err, "background color %q", c.BackgroundColor)
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// normalizeHex accepts colours with or without the leading hash and expands
// the three digit shorthand.
func normalizeHex(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	return "#" + strings.ToLower(s)
}
