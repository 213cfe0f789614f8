// Package config holds the tunables of a run. A Config is built once at
// startup, validated, and then treated as read-only.
package config

import (
	"flag"
	"sync"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// Renderer back ends.
const (
	RendererEbiten = "ebiten"
	RendererTUI    = "tui"
)

// Config is the full set of run parameters.
type Config struct {
	// Drain brush radius in image pixels.
	Radius float64
	// Edge length in pixels of one drain map cell.
	Quality int
	// Percentage of cells that must be drained to finish a city.
	TargetPercent float64
	// Visit every n-th cell per frame; 1 visits all of them.
	DrainStride int
	// Composite every n-th frame.
	CompositeEvery int
	// Maximum distance between interpolated drain points, as a fraction of Radius.
	TrailStep float64
	// Height of the city image as a percentage of the viewport height.
	CityHeightPercent float64

	// Seed for city and platform generation. Zero picks one from the clock.
	Seed int64

	// Base laser speed in pixels per frame; zero turns lasers off.
	LaserSpeed float64
	// Bring the dog along.
	Dog bool

	Width  int
	Height int

	Renderer string
	Lang     string
	Audio    bool

	// Listen address for the debug HTTP server; empty disables it.
	DebugAddr string
	// Write a GIF timelapse of the composite to this path; empty disables it.
	RecordPath string
	// Frames between timelapse captures.
	RecordEvery int
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Radius:            75,
		Quality:           4,
		TargetPercent:     60,
		DrainStride:       1,
		CompositeEvery:    1,
		TrailStep:         0.2,
		CityHeightPercent: 95,
		LaserSpeed:        5,
		Dog:               true,
		Width:             1280,
		Height:            720,
		Renderer:          RendererEbiten,
		Lang:              "en_GB",
		Audio:             true,
		RecordEvery:       30,
	}
}

// Bind registers a flag for every field on fs, using c's current values as
// defaults. Parsing fs fills c in place.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.Float64Var(&c.Radius, "radius", c.Radius, "drain brush radius in pixels")
	fs.IntVar(&c.Quality, "quality", c.Quality, "drain map cell size in pixels")
	fs.Float64Var(&c.TargetPercent, "target", c.TargetPercent, "percentage of the city to drain")
	fs.IntVar(&c.DrainStride, "stride", c.DrainStride, "drain every n-th cell per frame")
	fs.IntVar(&c.CompositeEvery, "composite_every", c.CompositeEvery, "composite every n-th frame")
	fs.Float64Var(&c.TrailStep, "trail_step", c.TrailStep, "drain trail step as a fraction of the radius")
	fs.Float64Var(&c.CityHeightPercent, "city_height", c.CityHeightPercent, "city height as a percentage of the window")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "generation seed (0 = random)")
	fs.Float64Var(&c.LaserSpeed, "laser_speed", c.LaserSpeed, "base laser speed in pixels per frame (0 = no lasers)")
	fs.BoolVar(&c.Dog, "dog", c.Dog, "bring the dog along")
	fs.IntVar(&c.Width, "width", c.Width, "window width")
	fs.IntVar(&c.Height, "height", c.Height, "window height")
	fs.StringVar(&c.Renderer, "renderer", c.Renderer, "renderer: ebiten or tui")
	fs.StringVar(&c.Lang, "lang", c.Lang, "message catalogue language")
	fs.BoolVar(&c.Audio, "audio", c.Audio, "enable sound effects")
	fs.StringVar(&c.DebugAddr, "debug_addr", c.DebugAddr, "debug HTTP listen address")
	fs.StringVar(&c.RecordPath, "record", c.RecordPath, "write a GIF timelapse to this file")
	fs.IntVar(&c.RecordEvery, "record_every", c.RecordEvery, "frames between timelapse captures")
}

// Validate rejects values the engine cannot work with.
func (c Config) Validate() error {
	switch {
	case !(c.Radius > 0):
		return errors.Wrapf(ErrInvalidConfig, "radius %v must be positive", c.Radius)
	case c.Quality < 1:
		return errors.Wrapf(ErrInvalidConfig, "quality %d must be at least 1", c.Quality)
	case !(c.TargetPercent > 0 && c.TargetPercent <= 100):
		return errors.Wrapf(ErrInvalidConfig, "target %v must be in (0,100]", c.TargetPercent)
	case c.DrainStride < 1:
		return errors.Wrapf(ErrInvalidConfig, "stride %d must be at least 1", c.DrainStride)
	case c.DrainStride > c.Quality:
		return errors.Wrapf(ErrInvalidConfig, "stride %d must not exceed quality %d", c.DrainStride, c.Quality)
	case c.CompositeEvery < 1:
		return errors.Wrapf(ErrInvalidConfig, "composite_every %d must be at least 1", c.CompositeEvery)
	case !(c.TrailStep > 0):
		return errors.Wrapf(ErrInvalidConfig, "trail_step %v must be positive", c.TrailStep)
	case !(c.CityHeightPercent > 0 && c.CityHeightPercent <= 100):
		return errors.Wrapf(ErrInvalidConfig, "city_height %v must be in (0,100]", c.CityHeightPercent)
	case c.LaserSpeed < 0:
		return errors.Wrapf(ErrInvalidConfig, "laser_speed %v must not be negative", c.LaserSpeed)
	case c.Width <= 0 || c.Height <= 0:
		return errors.Wrapf(ErrInvalidConfig, "window %dx%d must be positive", c.Width, c.Height)
	case c.Renderer != RendererEbiten && c.Renderer != RendererTUI:
		return errors.Wrapf(ErrInvalidConfig, "unknown renderer %q", c.Renderer)
	case c.RecordPath != "" && c.RecordEvery < 1:
		return errors.Wrapf(ErrInvalidConfig, "record_every %d must be at least 1", c.RecordEvery)
	}
	return nil
}

// TrailDistance returns the maximum gap in pixels between drain points.
func (c Config) TrailDistance() float64 {
	return c.Radius * c.TrailStep
}

var (
	current   = Default()
	currentMu sync.RWMutex
)

// Current returns the configuration installed with Set, or the defaults.
func Current() Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// Set installs c as the process-wide configuration.
func Set(c Config) {
	currentMu.Lock()
	current = c
	currentMu.Unlock()
}
