package gameplay

import (
	"image"
	"math"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"chromatica/pkg/engine/input"
	"chromatica/pkg/game/devtools"
	"chromatica/pkg/game/state"
)

// Tick runs one frame: meta intents, movement, drain, composite, then the
// completion check. Nothing moves after a game over. Drain is always applied
// before the composite so the frame shows this tick's cells. The controls' per-frame edges are cleared
// on return.
func (s *Session) Tick(c *input.Controls) (*image.RGBA, error) {
	defer c.EndFrame()

	if !s.Scene.Ready() {
		return nil, ErrNotStarted
	}
	now := s.clock()
	g := s.Game

	s.ProcessIntents(c)
	if g.QuitRequested {
		s.stopHum()
		return s.frame, nil
	}

	if !g.IsGameOver() {
		s.move(c)
	}

	playing := g.Phase == state.PhasePlaying
	x, y := g.Player.DrainPoint()
	if playing {
		n := s.Scene.Drain(x, y)
		s.updateHum(s.Scene.Near(x, y), n)
	}

	frame, err := s.Scene.Frame(x, y, playing)
	if err != nil {
		return nil, errors.Wrap(err, "composite")
	}
	s.frame = frame

	if playing && s.Scene.ReachedTarget() && g.Complete(now) {
		s.completeCity(now)
	}

	s.updateStats(now)
	s.notify(now)
	return frame, nil
}

// move steps the player, the dog and the lasers by one frame.
func (s *Session) move(c *input.Controls) {
	g := s.Game
	w, h := s.Scene.ViewSize()
	res := stepPlayer(&g.Player, c, s.world, g.Platforms, float64(w), float64(h))
	if res.Jumped {
		g.Stats.Jumps++
		s.sounds.PlayJump()
	}
	if res.Landed >= 0 && !g.Platforms[res.Landed].Ground {
		g.Visited.Put(res.Landed)
	}
	if res.FellOff {
		s.respawn()
		s.logMessage("RESPAWNED")
	}
	if g.Dog != nil {
		stepDog(g.Dog, g.Player, g.Platforms, float64(w), float64(h))
	}
	s.stepLasers(float64(h))
}

// stepLasers moves the lasers and costs the player a life on contact. A hit
// sends the player back to the spawn point; the last life ends the city.
func (s *Session) stepLasers(viewH float64) {
	g := s.Game
	g.CoolDown()
	if len(g.Lasers) == 0 {
		return
	}
	for i := range g.Lasers {
		g.Lasers[i].Step(viewH)
	}
	s.world.moveLasers(g.Lasers)

	p := &g.Player
	if !s.world.hitsLaser(p.X, p.Y, p.W, p.H) || !g.Hit() {
		return
	}
	if g.IsGameOver() {
		s.stopHum()
		glog.Infof("City %d lost: %.1f%% drained", g.Level, s.Scene.Progress().Percentage()*100)
		s.logMessage("GAME_OVER")
		s.logMessage("PRESS_ENTER_RETRY")
		return
	}
	glog.V(1).Infof("Laser hit, %d lives left", g.Lives)
	s.respawn()
	s.logMessage("LASER_HIT", g.Lives)
}

// completeCity runs once per city, on the tick the target is reached.
func (s *Session) completeCity(now time.Time) {
	g := s.Game
	s.stopHum()
	s.sounds.PlayVictory()
	p := s.Scene.Progress()
	glog.Infof("City %d complete: %.1f%% drained in %s, %d jumps, %d platforms visited",
		g.Level, p.Percentage()*100, g.Elapsed(now).Round(time.Millisecond), g.Stats.Jumps, g.Visited.Size())
	s.logMessage("CITY_COMPLETE", g.Level)
	s.logMessage("PRESS_ENTER")
}

// updateHum plays the drain hum while the brush touches the city, louder
// when it is turning cells gray.
func (s *Session) updateHum(near bool, drained int) {
	s.Game.Player.Draining = near
	if !near {
		s.stopHum()
		return
	}
	if !s.humOn {
		s.sounds.StartDrain()
		s.humOn = true
	}
	s.sounds.SetDrainVolume(humVolume(drained))
}

// humVolume maps the cells drained this frame to a gain in [0.3, 1].
func humVolume(drained int) float64 {
	return 0.3 + 0.7*math.Min(1, float64(drained)/50)
}

func (s *Session) stopHum() {
	s.Game.Player.Draining = false
	if s.humOn {
		s.sounds.StopDrain()
		s.humOn = false
	}
}

// updateStats counts frames and refreshes the FPS figure once a second.
func (s *Session) updateStats(now time.Time) {
	st := &s.Game.Stats
	st.Frames++
	st.CompositeMs = float64(s.Scene.CompositorStats().LastElapsed) / float64(time.Millisecond)

	if s.fpsSince.IsZero() {
		s.fpsSince = now
	}
	s.fpsCount++
	if elapsed := now.Sub(s.fpsSince); elapsed >= time.Second {
		st.FPS = float64(s.fpsCount) / elapsed.Seconds()
		s.fpsSince, s.fpsCount = now, 0
		if glog.V(1) {
			glog.Infof("%.1f fps, composite %.2fms, %d cells drained", st.FPS, st.CompositeMs, s.Scene.Progress().Drained)
		}
	}
}

// snapshot describes the current frame for devtools.
func (s *Session) snapshot() devtools.Snapshot {
	g := s.Game
	messages := make([]string, 0, len(g.Messages))
	for _, m := range g.Messages {
		messages = append(messages, m.Text)
	}
	return devtools.Snapshot{
		Frame:    s.frame,
		Number:   g.Stats.Frames,
		At:       s.clock(),
		Level:    g.Level,
		Seed:     g.Seed,
		Progress: s.Scene.Progress(),
		Target:   s.cfg.TargetPercent,
		Complete: g.IsComplete(),
		GameOver: g.IsGameOver(),
		Lives:    g.Lives,
		PlayerX:  g.Player.X,
		PlayerY:  g.Player.Y,
		Messages: messages,
	}
}

func (s *Session) notify(now time.Time) {
	if len(s.observers) == 0 {
		return
	}
	snap := s.snapshot()
	snap.At = now
	for _, o := range s.observers {
		o.ObserveFrame(snap)
	}
}
