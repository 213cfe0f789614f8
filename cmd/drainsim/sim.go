package main

import (
	"context"
	"image"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	engineinput "chromatica/pkg/engine/input"
	"chromatica/pkg/game/config"
	"chromatica/pkg/game/gameplay"
	"chromatica/pkg/game/scene"
	"chromatica/pkg/game/skyline"
)

// Simulation modes
const (
	// The brush alone rakes the city row by row.
	modeSweep = "sweep"
	// An autopilot plays the platformer.
	modeWalk = "walk"
)

// result is the outcome of one simulated city.
type result struct {
	Seed     int64
	Frames   int
	Drained  int
	Total    int
	Reached  bool
	Elapsed  time.Duration
	Rebuilds int
	Frame    *image.RGBA
}

// Coverage returns the drained share in percent.
func (r result) Coverage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Drained) * 100 / float64(r.Total)
}

// simulation runs one city per seed.
type simulation struct {
	cfg       config.Config
	gen       skyline.Generator
	mode      string
	maxFrames int
	// cities simulated at once
	parallel int
}

// run simulates seeds first, first+1, ... first+n-1. Results keep seed order.
func (sim simulation) run(ctx context.Context, first int64, n int) ([]result, error) {
	results := make([]result, n)
	g, ctx := errgroup.WithContext(ctx)
	if sim.parallel > 0 {
		g.SetLimit(sim.parallel)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := first + int64(i)
			var (
				r   result
				err error
			)
			switch sim.mode {
			case modeWalk:
				r, err = sim.walk(seed)
			default:
				r, err = sim.sweep(seed)
			}
			if err != nil {
				return errors.Wrapf(err, "seed %d", seed)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// sweep drives the drain brush along a serpentine path over the city, one
// brush radius between rows, until the target is reached or maxFrames pass.
func (sim simulation) sweep(seed int64) (result, error) {
	sc := scene.New(sim.cfg, sim.gen)
	if err := sc.Regenerate(sim.cfg.Width, sim.cfg.Height, seed); err != nil {
		return result{}, err
	}
	path := sweepPath(sc.Image().Bounds(), sim.cfg.Radius, gameplay.MoveSpeed)

	start := time.Now()
	r := result{Seed: seed}
	for r.Frames < sim.maxFrames && r.Frames < len(path) {
		pt := path[r.Frames]
		x, y := sc.ToWindow(pt.X, pt.Y)
		sc.Drain(x, y)
		frame, err := sc.Frame(x, y, true)
		if err != nil {
			return result{}, err
		}
		r.Frame = frame
		r.Frames++
		if sc.ReachedTarget() {
			r.Reached = true
			break
		}
	}
	return sim.finish(r, sc, start), nil
}

// walk plays the game with the autopilot until the city is complete or
// maxFrames pass.
func (sim simulation) walk(seed int64) (result, error) {
	cfg := sim.cfg
	cfg.Seed = seed
	s := gameplay.NewSession(cfg, sim.gen, nil)
	if err := s.Start(cfg.Width, cfg.Height); err != nil {
		return result{}, err
	}

	pilot := newAutopilot(float64(cfg.Width))
	controls := engineinput.NewControls()
	start := time.Now()
	r := result{Seed: seed}
	for r.Frames < sim.maxFrames && !s.Game.IsComplete() && !s.Game.IsGameOver() {
		pilot.steer(controls, s.Game.Player, r.Frames)
		frame, err := s.Tick(controls)
		if err != nil {
			return result{}, err
		}
		r.Frame = frame
		r.Frames++
	}
	r.Reached = s.Game.IsComplete()
	return sim.finish(r, s.Scene, start), nil
}

func (sim simulation) finish(r result, sc *scene.Scene, start time.Time) result {
	p := sc.Progress()
	r.Drained, r.Total = p.Drained, p.Total
	r.Elapsed = time.Since(start)
	r.Rebuilds = sc.CompositorStats().Rebuilds
	return r
}

// point is a brush position in image coordinates.
type point struct {
	X, Y float64
}

// sweepPath returns one brush position per frame, moving step pixels at a
// time along rows radius apart, alternating direction, bottom row first.
func sweepPath(bounds image.Rectangle, radius, step float64) []point {
	if radius <= 0 || step <= 0 || bounds.Empty() {
		return nil
	}
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	var path []point
	rightward := true
	for y := h - radius/2; y > -radius/2; y -= radius {
		for x := 0.0; x <= w; x += step {
			px := x
			if !rightward {
				px = w - x
			}
			path = append(path, point{px, y})
		}
		rightward = !rightward
	}
	return path
}
