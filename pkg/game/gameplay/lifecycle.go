// Package gameplay provides core game logic: the frame tick, player movement,
// input handling, and the city lifecycle.
package gameplay

import (
	"image"
	"math/rand"
	"time"

	"github.com/golang/glog"
	"github.com/leonelquinteros/gotext"
	"github.com/pkg/errors"

	"chromatica/pkg/game/config"
	"chromatica/pkg/game/devtools"
	"chromatica/pkg/game/levelgen"
	"chromatica/pkg/game/scene"
	"chromatica/pkg/game/skyline"
	"chromatica/pkg/game/state"
)

// ErrNotStarted is returned by Tick before Start has succeeded.
var ErrNotStarted = errors.New("gameplay: session not started")

// Sounds is the audio the game loop drives. *audio.SoundManager satisfies it.
type Sounds interface {
	StartDrain()
	SetDrainVolume(v float64)
	StopDrain()
	PlayJump()
	PlayVictory()
}

type silentSounds struct{}

func (silentSounds) StartDrain()            {}
func (silentSounds) SetDrainVolume(float64) {}
func (silentSounds) StopDrain()             {}
func (silentSounds) PlayJump()              {}
func (silentSounds) PlayVictory()           {}

// FrameObserver receives a snapshot after every tick, on the game loop's
// goroutine.
type FrameObserver interface {
	ObserveFrame(snap devtools.Snapshot)
}

// Session is one run of the game: the state, the city scene and the
// collision world. It is driven by a single goroutine calling Tick.
type Session struct {
	Game  *state.Game
	Scene *scene.Scene

	// Directory screenshots and drain map dumps are written to.
	OutputDir string

	cfg       config.Config
	sounds    Sounds
	world     *collisionWorld
	observers []FrameObserver
	clock     func() time.Time

	frame    *image.RGBA
	humOn    bool
	fpsSince time.Time
	fpsCount int
}

// NewSession creates a session for cfg. gen may be nil for the default
// skyline and sounds may be nil for silence. Call Start before Tick.
func NewSession(cfg config.Config, gen skyline.Generator, sounds Sounds) *Session {
	if sounds == nil {
		sounds = silentSounds{}
	}
	return &Session{
		Game:      state.NewGame(),
		Scene:     scene.New(cfg, gen),
		OutputDir: ".",
		cfg:       cfg,
		sounds:    sounds,
		clock:     time.Now,
	}
}

// Observe registers o to receive a snapshot after every tick.
func (s *Session) Observe(o FrameObserver) {
	s.observers = append(s.observers, o)
}

// Config returns the session configuration.
func (s *Session) Config() config.Config {
	return s.cfg
}

// Frame returns the most recent composite, or nil.
func (s *Session) Frame() *image.RGBA {
	return s.frame
}

// Start builds the first city for a viewW x viewH window.
func (s *Session) Start(viewW, viewH int) error {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = s.clock().UnixNano()
	}
	if err := s.newCity(viewW, viewH, seed); err != nil {
		return err
	}
	s.Game.ClearMessages()
	s.logMessage("WELCOME")
	s.logMessage("DRAIN_OBJECTIVE", s.cfg.TargetPercent)
	return nil
}

// platformSeed derives the platform layout seed from the city seed so the
// two generators do not share a random sequence.
func platformSeed(seed int64) int64 {
	return seed ^ 0x5bd1e995
}

// newCity regenerates the scene, lays out platforms and puts the player at
// the spawn point. On error nothing changes.
func (s *Session) newCity(viewW, viewH int, seed int64) error {
	if err := s.Scene.Regenerate(viewW, viewH, seed); err != nil {
		return errors.Wrap(err, "new city")
	}
	platforms := levelgen.GeneratePlatforms(viewW, viewH, rand.New(rand.NewSource(platformSeed(seed))))
	if lost := levelgen.Unreachable(platforms, playerReach); len(lost) > 0 {
		glog.Warningf("Seed %d: platforms %v cannot be reached from the ground", seed, lost)
	}
	g := s.Game
	g.Lasers = levelgen.GenerateLasers(viewW, viewH, g.Level, s.cfg.LaserSpeed)
	s.world = newCollisionWorld(viewW, viewH, platforms)
	s.world.addLasers(g.Lasers)
	g.StartCity(seed, platforms, s.clock())
	g.RestoreLives()
	s.respawn()
	g.Dog = nil
	if s.cfg.Dog {
		g.Dog = state.NewDog(g.Player)
	}
	s.frame = nil
	s.stopHum()

	glog.Infof("City %d ready: %dx%d window, %d platforms, %d lasers, seed %d", g.Level, viewW, viewH, len(platforms), len(g.Lasers), seed)
	return nil
}

// spawnPoint is where the player starts: standing on the ground a tenth of
// the way across the window.
func spawnPoint(viewW, viewH int) (x, y float64) {
	return float64(viewW) * 0.1, float64(viewH) - levelgen.GroundHeight - state.PlayerHeight
}

// respawn puts the player back at the spawn point and starts a new drain
// stroke so no trail is drawn across the jump.
func (s *Session) respawn() {
	w, h := s.Scene.ViewSize()
	p := state.NewPlayer(spawnPoint(w, h))
	p.OnGround = true
	s.Game.Player = p
	s.Scene.BreakTrail()
}

// Resize regenerates the city for a new window size, keeping the seed.
// Drain progress does not survive a resize.
func (s *Session) Resize(viewW, viewH int) error {
	if !s.Scene.Ready() {
		return s.Start(viewW, viewH)
	}
	if w, h := s.Scene.ViewSize(); w == viewW && h == viewH {
		return nil
	}
	if err := s.newCity(viewW, viewH, s.Game.Seed); err != nil {
		return err
	}
	s.logMessage("CITY_RESIZED", viewW, viewH)
	return nil
}

// nextSeed picks the seed for the next city. A configured seed gives a
// reproducible sequence of cities.
func (s *Session) nextSeed() int64 {
	if s.cfg.Seed != 0 {
		return s.cfg.Seed + int64(s.Game.Level-1)
	}
	return s.clock().UnixNano()
}

// Restart moves on to a new city after the current one is complete, or
// rebuilds the current city with full lives after a game over.
func (s *Session) Restart() error {
	if s.Game.IsGameOver() {
		return s.retry()
	}
	if !s.Game.IsComplete() {
		return nil
	}
	w, h := s.Scene.ViewSize()
	s.Game.AdvanceLevel()
	if err := s.newCity(w, h, s.nextSeed()); err != nil {
		s.Game.Level--
		return err
	}
	s.Game.ClearMessages()
	s.logMessage("CITY_NUMBER", s.Game.Level)
	s.logMessage("DRAIN_OBJECTIVE", s.cfg.TargetPercent)
	return nil
}

// retry rebuilds the current city from its seed.
func (s *Session) retry() error {
	w, h := s.Scene.ViewSize()
	if err := s.newCity(w, h, s.Game.Seed); err != nil {
		return err
	}
	s.Game.ClearMessages()
	s.logMessage("CITY_RETRY", s.Game.Level)
	s.logMessage("DRAIN_OBJECTIVE", s.cfg.TargetPercent)
	return nil
}

// ResetDrain restores the city's colour and restarts the timer. The layout
// and the player's position are kept. It does nothing after a game over.
func (s *Session) ResetDrain() {
	if s.Game.IsGameOver() {
		return
	}
	s.Scene.Reset()
	s.Game.StartCity(s.Game.Seed, s.Game.Platforms, s.clock())
	s.logMessage("DRAIN_RESET")
}

// translate looks up message keys at runtime. Going through a variable keeps
// go vet from flagging the non-constant format string.
var translate = gotext.Get

// logMessage adds a translated message to the game's message log.
func (s *Session) logMessage(key string, a ...any) {
	s.Game.AddMessage(translate(key, a...), s.clock())
}
