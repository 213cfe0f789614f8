package ebiten

import (
	"image"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"chromatica/pkg/engine/drain"
	engineinput "chromatica/pkg/engine/input"
	"chromatica/pkg/game/gameplay"
	"chromatica/pkg/game/levelgen"
	"chromatica/pkg/game/state"
)

// renderSnapshot holds a consistent snapshot of game state for rendering,
// taken at the end of each Update.
type renderSnapshot struct {
	valid bool

	frameNumber int
	origin      image.Point
	player      state.Player
	platforms   []levelgen.Platform
	visited     map[int]bool
	lasers      []levelgen.Laser
	dog         *state.Dog
	// frames of laser immunity left; the player blinks meanwhile
	blink       int

	progress drain.Progress
	target   float64
	complete bool
	gameOver bool

	status    []string
	stats     []string
	showStats bool
	messages  []state.Message
	takenAt   time.Time
}

// EbitenRenderer is the Ebiten-based graphical renderer
type EbitenRenderer struct {
	// Window dimensions
	windowWidth  int
	windowHeight int

	session  *gameplay.Session
	controls *engineinput.Controls

	// Font sources for text rendering
	sansFontSource     *text.GoTextFaceSource
	sansBoldFontSource *text.GoTextFaceSource
	monoFontSource     *text.GoTextFaceSource

	// Cached font faces (recreated when the window height changes)
	cachedUIFontSize float64
	cachedSansFace   *text.GoTextFace
	cachedTitleFace  *text.GoTextFace
	cachedMonoFace   *text.GoTextFace

	// GPU copy of the city composite
	cityImage *ebiten.Image

	snapshot      renderSnapshot
	snapshotMutex sync.RWMutex

	// Scratch slice for inpututil key polling
	keys []ebiten.Key

	// Flag to track if we've logged window opening
	windowOpenedLogged bool

	now func() time.Time
}
