package state

import (
	"time"

	"github.com/zyedidia/generic/mapset"

	"chromatica/pkg/game/levelgen"
)

// Phase is the coarse game state.
type Phase int

// Phases. A city moves from Playing to Complete or GameOver once and only
// once.
const (
	PhasePlaying Phase = iota
	PhaseComplete
	PhaseGameOver
)

// Lives per city, and the frames of grace after losing one.
const (
	MaxLives           = 3
	InvulnerableFrames = 90
)

// Player is the stick figure. X, Y is the top-left of its bounding box.
type Player struct {
	X, Y   float64
	VX, VY float64
	W, H   float64

	OnGround    bool
	FacingRight bool
	JumpCount   int
	JumpHeld    bool

	// frames left in which a jump still counts as from the ground
	CoyoteFrames int
	// frames left in which a buffered jump press fires on landing
	JumpBufferFrames int

	Draining bool
}

// Player dimensions, in window pixels.
const (
	PlayerWidth  = 30
	PlayerHeight = 50
	HeadRadius   = 15
)

// NewPlayer returns a player standing at (x, y).
func NewPlayer(x, y float64) Player {
	return Player{X: x, Y: y, W: PlayerWidth, H: PlayerHeight, FacingRight: true}
}

// DrainPoint returns the brush centre: the middle of the torso.
func (p Player) DrainPoint() (x, y float64) {
	body := p.H - HeadRadius*2
	return p.X + p.W/2, p.Y + HeadRadius + body/2
}

// DogSize is the side of the dog's bounding box.
const DogSize = 40

// Dog is the companion that follows the player. X, Y is the top-left of its
// bounding box.
type Dog struct {
	X, Y   float64
	VX, VY float64

	OnGround    bool
	Jumping     bool
	FacingRight bool

	// TailUp flips every WagFrames ticks.
	TailUp    bool
	WagFrames int

	// where the player was last tick
	LastPlayerX, LastPlayerY float64
}

// NewDog returns a dog standing behind p.
func NewDog(p Player) *Dog {
	return &Dog{
		X:           max(0, p.X-100),
		Y:           p.Y + p.H - DogSize,
		FacingRight: true,
		LastPlayerX: p.X,
		LastPlayerY: p.Y,
	}
}

// Message is one line of the message log.
type Message struct {
	Text string
	At   time.Time
}

// Stats are the counters shown on the performance overlay.
type Stats struct {
	Frames      int
	FPS         float64
	CompositeMs float64
	Jumps       int
	StartedAt   time.Time
	CompletedAt time.Time
}

// Game represents the state of one run
type Game struct {
	Phase Phase

	Player    Player
	Platforms []levelgen.Platform
	Lasers    []levelgen.Laser
	// nil when the companion is turned off
	Dog *Dog

	Lives int
	// frames left in which lasers do no harm
	Invulnerable int

	// platforms the player has stood on since the city was generated
	Visited mapset.Set[int]

	Messages []Message

	ShowStats bool
	Stats     Stats

	// Number of cities completed so far.
	Level int
	Seed  int64

	QuitRequested bool
}

// NewGame creates a new game instance
func NewGame() *Game {
	return &Game{
		Phase:    PhasePlaying,
		Visited:  mapset.New[int](),
		Messages: make([]Message, 0),
		Level:    1,
		Lives:    MaxLives,
	}
}

// Complete moves the game to PhaseComplete and reports whether this call did
// it. Later calls return false.
func (g *Game) Complete(now time.Time) bool {
	if g.Phase != PhasePlaying {
		return false
	}
	g.Phase = PhaseComplete
	g.Stats.CompletedAt = now
	return true
}

// IsComplete reports whether the current city is finished.
func (g *Game) IsComplete() bool {
	return g.Phase == PhaseComplete
}

// IsGameOver reports whether the player ran out of lives.
func (g *Game) IsGameOver() bool {
	return g.Phase == PhaseGameOver
}

// Hit costs the player a life unless the game is not being played or the
// player is still invulnerable from the last hit. It reports whether a life
// was lost; losing the last one moves the game to PhaseGameOver.
func (g *Game) Hit() bool {
	if g.Phase != PhasePlaying || g.Invulnerable > 0 {
		return false
	}
	g.Lives--
	g.Invulnerable = InvulnerableFrames
	if g.Lives <= 0 {
		g.Lives = 0
		g.Phase = PhaseGameOver
	}
	return true
}

// CoolDown counts down one frame of invulnerability.
func (g *Game) CoolDown() {
	if g.Invulnerable > 0 {
		g.Invulnerable--
	}
}

// RestoreLives refills the lives for a fresh attempt.
func (g *Game) RestoreLives() {
	g.Lives = MaxLives
	g.Invulnerable = 0
}

// StartCity resets per-city state for a new layout.
func (g *Game) StartCity(seed int64, platforms []levelgen.Platform, now time.Time) {
	g.Phase = PhasePlaying
	g.Seed = seed
	g.Platforms = platforms
	g.Visited = mapset.New[int]()
	g.Stats.StartedAt = now
	g.Stats.CompletedAt = time.Time{}
}

// AdvanceLevel increments the city counter.
func (g *Game) AdvanceLevel() {
	g.Level++
}

// AddMessage adds a message to the game's message log
func (g *Game) AddMessage(text string, now time.Time) {
	const maxMessages = 5
	g.Messages = append(g.Messages, Message{Text: text, At: now})

	// Keep only the last maxMessages
	if len(g.Messages) > maxMessages {
		g.Messages = g.Messages[len(g.Messages)-maxMessages:]
	}
}

// ClearMessages clears all messages
func (g *Game) ClearMessages() {
	g.Messages = make([]Message, 0)
}

// Elapsed returns how long the current city took, or has taken so far.
func (g *Game) Elapsed(now time.Time) time.Duration {
	if g.Stats.StartedAt.IsZero() {
		return 0
	}
	if !g.Stats.CompletedAt.IsZero() {
		return g.Stats.CompletedAt.Sub(g.Stats.StartedAt)
	}
	return now.Sub(g.Stats.StartedAt)
}
