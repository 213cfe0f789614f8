package ebiten

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"chromatica/pkg/game/levelgen"
	"chromatica/pkg/game/renderer"
	"chromatica/pkg/game/state"
)

// uploadFrame copies the composite into the GPU image, reallocating it when
// the city size changed.
func (e *EbitenRenderer) uploadFrame(frame *image.RGBA) {
	if frame == nil {
		return
	}
	w, h := frame.Rect.Dx(), frame.Rect.Dy()
	if e.cityImage == nil || e.cityImage.Bounds().Dx() != w || e.cityImage.Bounds().Dy() != h {
		if e.cityImage != nil {
			e.cityImage.Deallocate()
		}
		e.cityImage = ebiten.NewImage(w, h)
	}
	e.cityImage.WritePixels(frame.Pix)
}

// captureSnapshot records what Draw needs from the session.
func (e *EbitenRenderer) captureSnapshot() {
	s := e.session
	g := s.Game
	now := e.now()

	visited := make(map[int]bool, g.Visited.Size())
	g.Visited.Each(func(i int) {
		visited[i] = true
	})

	var dog *state.Dog
	if g.Dog != nil {
		d := *g.Dog
		dog = &d
	}

	snap := renderSnapshot{
		valid:       true,
		frameNumber: g.Stats.Frames,
		origin:      s.Scene.Origin(),
		player:      g.Player,
		platforms:   g.Platforms,
		visited:     visited,
		lasers:      append([]levelgen.Laser(nil), g.Lasers...),
		dog:         dog,
		blink:       g.Invulnerable,
		progress:    s.Scene.Progress(),
		target:      s.Config().TargetPercent,
		complete:    g.IsComplete(),
		gameOver:    g.IsGameOver(),
		status:      renderer.StatusLines(s),
		showStats:   g.ShowStats,
		messages:    append([]state.Message(nil), renderer.VisibleMessages(g, now)...),
		takenAt:     now,
	}
	if g.ShowStats {
		snap.stats = renderer.StatsLines(s)
	}

	e.snapshotMutex.Lock()
	e.snapshot = snap
	e.snapshotMutex.Unlock()
}
