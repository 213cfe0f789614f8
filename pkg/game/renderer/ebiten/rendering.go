package ebiten

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leonelquinteros/gotext"

	"chromatica/pkg/game/renderer"
	"chromatica/pkg/game/state"
)

// Draw renders the game to the screen (Ebiten interface)
func (e *EbitenRenderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	e.snapshotMutex.RLock()
	snap := e.snapshot
	e.snapshotMutex.RUnlock()

	if !snap.valid || e.sansFontSource == nil {
		return
	}

	screenWidth, screenHeight := screen.Bounds().Dx(), screen.Bounds().Dy()

	if e.cityImage != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(snap.origin.X), float64(snap.origin.Y))
		screen.DrawImage(e.cityImage, op)
	}

	e.drawPlatforms(screen, &snap)
	e.drawLasers(screen, &snap)
	if snap.blink == 0 || (snap.blink/blinkFrames)%2 == 0 {
		e.drawPlayer(screen, &snap)
	}
	if snap.dog != nil {
		drawDog(screen, snap.dog)
	}

	e.drawStatusPanel(screen, &snap)
	if snap.showStats {
		e.drawStatsPanel(screen, &snap, screenWidth)
	}
	e.drawMessages(screen, &snap, screenWidth, screenHeight)

	switch {
	case snap.complete:
		e.drawCompleteOverlay(screen, screenWidth, screenHeight)
	case snap.gameOver:
		e.drawGameOverOverlay(screen, screenWidth, screenHeight)
	}
}

// drawLasers draws each beam with a core that pulses with the frame number.
func (e *EbitenRenderer) drawLasers(screen *ebiten.Image, snap *renderSnapshot) {
	for i, l := range snap.lasers {
		x, y, w, h := float32(l.X), float32(l.Y), float32(l.W), float32(l.H)
		vector.DrawFilledRect(screen, x, y, w, h, colorLaser, false)

		pulse := float32(math.Sin(float64(snap.frameNumber+i*17)/12)*0.2 + 0.8)
		if w >= h {
			core := h * 0.4 * pulse
			vector.DrawFilledRect(screen, x, y+(h-core)/2, w, core, colorLaserCore, false)
		} else {
			core := w * 0.4 * pulse
			vector.DrawFilledRect(screen, x+(w-core)/2, y, core, h, colorLaserCore, false)
		}
	}
}

// drawDog draws the dog as an oval body and head with an ear, legs and a
// tail on the side away from where it faces.
func drawDog(screen *ebiten.Image, d *state.Dog) {
	const size float32 = state.DogSize
	cx, cy := float32(d.X)+size/2, float32(d.Y)+size/2
	dir := float32(1)
	if !d.FacingRight {
		dir = -1
	}

	legY := cy + size/3 - 2
	vector.DrawFilledRect(screen, cx+dir*size/4-3, legY, 6, size/6+2, colorDog, false)
	vector.DrawFilledRect(screen, cx-dir*size/4-3, legY, 6, size/6+2, colorDog, false)

	var path vector.Path
	appendEllipse(&path, cx, cy, size/2, size/3)
	headX, headY := cx+dir*size/3, cy-size/6
	appendEllipse(&path, headX, headY, size/4, size/4)
	appendEllipse(&path, cx+dir*size/2, cy-size/4, size/8, size/6)
	drawOpts := &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(colorDog)
	vector.FillPath(screen, &path, nil, drawOpts)
	vector.DrawFilledCircle(screen, headX+dir*5, headY, 3, colorDogEye, true)

	tailX := cx - dir*size/2
	wag := float32(-5)
	if d.TailUp {
		wag = 5
	}
	path.Reset()
	path.MoveTo(tailX, cy)
	path.QuadTo(tailX-dir*15, cy-10+wag, tailX-dir*25, cy-5)
	strokeOpts := &vector.StrokeOptions{Width: 4, LineCap: vector.LineCapRound}
	drawOpts = &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(colorDog)
	vector.StrokePath(screen, &path, strokeOpts, drawOpts)
}

// appendEllipse adds an axis-aligned ellipse centred on (cx, cy) to p.
func appendEllipse(p *vector.Path, cx, cy, rx, ry float32) {
	const segments = 24
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		x := cx + rx*float32(math.Cos(a))
		y := cy + ry*float32(math.Sin(a))
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
}

// drawGameOverOverlay dims the window and shows the game over banner.
func (e *EbitenRenderer) drawGameOverOverlay(screen *ebiten.Image, screenWidth, screenHeight int) {
	vector.DrawFilledRect(screen, 0, 0, float32(screenWidth), float32(screenHeight), colorOverlay, false)

	title := gotext.Get("GAMEOVER_TITLE")
	titleFace := e.getTitleFontFace()
	tw, th := text.Measure(title, titleFace, 0)
	cx, cy := float64(screenWidth)/2, float64(screenHeight)/2
	drawColoredText(screen, title, cx-tw/2, cy-th, colorDenied, titleFace)

	hint := parseMarkup(gotext.Get("GAMEOVER_HINT"))
	face := e.getSansFontFace()
	drawColoredTextSegments(screen, hint, cx-segmentsWidth(hint, face)/2, cy+8, face)
}

// drawPlatforms draws the ground and the floating platforms over the city.
func (e *EbitenRenderer) drawPlatforms(screen *ebiten.Image, snap *renderSnapshot) {
	for i, p := range snap.platforms {
		x, y, w, h := float32(p.X), float32(p.Y), float32(p.W), float32(p.H)
		if p.Ground {
			vector.DrawFilledRect(screen, x, y, w, h, colorGround, false)
			continue
		}
		body := colorPlatform
		if snap.visited[i] {
			body = colorPlatformVisited
		}
		vector.DrawFilledRect(screen, x, y, w, h, body, false)
		vector.DrawFilledRect(screen, x, y, w, 2, colorPlatformEdge, false)
	}
}

// limb is one straight stroke of the stick figure.
type limb struct {
	x0, y0, x1, y1 float32
}

// stickFigure returns the head centre and the limbs of a player drawn in
// its bounding box. Legs swing with the frame number while running.
func stickFigure(p state.Player, frame int) (headX, headY float32, limbs []limb) {
	cx := float32(p.X + p.W/2)
	top := float32(p.Y)
	bottom := float32(p.Y + p.H)

	headX, headY = cx, top+state.HeadRadius
	neck := top + 2*state.HeadRadius
	shoulder := neck + neckLength
	hip := neck + (bottom-neck)*0.55

	swing := float32(0)
	switch {
	case !p.OnGround:
		swing = strideSwing / 2
	case p.VX != 0:
		swing = strideSwing * float32(math.Sin(float64(frame)*0.4))
	}

	limbs = []limb{
		{cx, neck, cx, hip},                                      // body
		{cx - armSpan, shoulder + 6, cx + armSpan, shoulder + 6}, // arms
		{cx, hip, cx - legSpread + swing, bottom},                // left leg
		{cx, hip, cx + legSpread - swing, bottom},                // right leg
	}
	return headX, headY, limbs
}

// drawPlayer draws the stick figure, with a halo while it drains the city.
func (e *EbitenRenderer) drawPlayer(screen *ebiten.Image, snap *renderSnapshot) {
	p := snap.player
	headX, headY, limbs := stickFigure(p, snap.frameNumber)

	if p.Draining {
		vector.DrawFilledCircle(screen, headX, headY, glowRadius, colorDrainGlow, true)
	}
	vector.StrokeCircle(screen, headX, headY, state.HeadRadius-lineWidth/2, lineWidth, colorPlayer, true)
	for _, l := range limbs {
		vector.StrokeLine(screen, l.x0, l.y0, l.x1, l.y1, lineWidth, colorPlayer, true)
	}

	eye := float32(5)
	if !p.FacingRight {
		eye = -eye
	}
	vector.DrawFilledCircle(screen, headX+eye, headY-2, 2, colorPlayer, true)
}

// drawPanel draws a bordered translucent box.
func drawPanel(screen *ebiten.Image, x, y, w, h float32) {
	vector.DrawFilledRect(screen, x-1, y-1, w+2, h+2, colorPanelBorder, false)
	vector.DrawFilledRect(screen, x, y, w, h, colorPanelBackground, false)
}

// drawStatusPanel draws the city number, the drained percentage and a
// progress bar with the target marked.
func (e *EbitenRenderer) drawStatusPanel(screen *ebiten.Image, snap *renderSnapshot) {
	face := e.getSansFontFace()
	lineHeight := face.Size + 4

	width := 0.0
	lines := make([][]textSegment, len(snap.status))
	for i, s := range snap.status {
		lines[i] = parseMarkup(s)
		width = math.Max(width, segmentsWidth(lines[i], face))
	}
	width = math.Max(width, 160)

	x, y := float32(panelMargin), float32(panelMargin)
	w := float32(width) + 2*panelPadding
	h := float32(lineHeight)*float32(len(lines)) + barHeight + 3*panelPadding
	drawPanel(screen, x, y, w, h)

	ty := float64(y) + panelPadding
	for _, segs := range lines {
		drawColoredTextSegments(screen, segs, float64(x)+panelPadding, ty, face)
		ty += lineHeight
	}

	barX := x + panelPadding
	barY := float32(ty) + panelPadding/2
	barW := w - 2*panelPadding
	vector.DrawFilledRect(screen, barX, barY, barW, barHeight, colorBarEmpty, false)
	vector.DrawFilledRect(screen, barX, barY, barW*float32(snap.progress.Percentage()), barHeight, colorBarFilled, false)
	markX := barX + barW*float32(snap.target/100)
	vector.DrawFilledRect(screen, markX-1, barY-2, 2, barHeight+4, colorBarTarget, false)
}

// drawStatsPanel draws the performance overlay in the top-right corner.
func (e *EbitenRenderer) drawStatsPanel(screen *ebiten.Image, snap *renderSnapshot, screenWidth int) {
	face := e.getMonoFontFace()
	lineHeight := face.Size + 3

	width := 0.0
	for _, s := range snap.stats {
		w, _ := text.Measure(renderer.PlainText(s), face, 0)
		width = math.Max(width, w)
	}

	w := float32(width) + 2*panelPadding
	h := float32(lineHeight)*float32(len(snap.stats)) + 2*panelPadding
	x := float32(screenWidth) - w - panelMargin
	y := float32(panelMargin)
	drawPanel(screen, x, y, w, h)

	ty := float64(y) + panelPadding
	for _, s := range snap.stats {
		drawColoredTextSegments(screen, parseMarkup(s), float64(x)+panelPadding, ty, face)
		ty += lineHeight
	}
}

// drawMessages draws the message log as a bottom-aligned overlay. Messages
// fade out with age; the panel is only drawn while one is visible.
func (e *EbitenRenderer) drawMessages(screen *ebiten.Image, snap *renderSnapshot, screenWidth, screenHeight int) {
	face := e.getSansFontFace()
	lineHeight := face.Size + 4

	var visible [][]textSegment
	maxAlpha := 0.0
	for _, m := range snap.messages {
		alpha := renderer.MessageAlpha(snap.takenAt.Sub(m.At))
		if alpha <= 0 {
			continue
		}
		maxAlpha = math.Max(maxAlpha, alpha)
		visible = append(visible, fadeSegments(parseMarkup(m.Text), alpha))
	}
	if len(visible) == 0 {
		return
	}

	width := 100.0
	for _, segs := range visible {
		width = math.Max(width, segmentsWidth(segs, face))
	}
	panelW := math.Min(width+2*panelPadding, float64(screenWidth-40))
	panelH := lineHeight*float64(len(visible)) + 2*panelPadding

	x := float32((float64(screenWidth) - panelW) / 2)
	y := float32(math.Max(0, float64(screenHeight)-20-panelH))

	vector.DrawFilledRect(screen, x-1, y-1, float32(panelW)+2, float32(panelH)+2, applyAlpha(colorPanelBorder, maxAlpha), false)
	vector.DrawFilledRect(screen, x, y, float32(panelW), float32(panelH), applyAlpha(colorPanelBackground, maxAlpha), false)

	ty := float64(y) + panelPadding
	for _, segs := range visible {
		drawColoredTextSegments(screen, segs, float64(x)+panelPadding, ty, face)
		ty += lineHeight
	}
}

// drawCompleteOverlay dims the window and shows the completion banner.
func (e *EbitenRenderer) drawCompleteOverlay(screen *ebiten.Image, screenWidth, screenHeight int) {
	vector.DrawFilledRect(screen, 0, 0, float32(screenWidth), float32(screenHeight), colorOverlay, false)

	title := gotext.Get("COMPLETE_TITLE")
	titleFace := e.getTitleFontFace()
	tw, th := text.Measure(title, titleFace, 0)
	cx, cy := float64(screenWidth)/2, float64(screenHeight)/2
	drawColoredText(screen, title, cx-tw/2, cy-th, colorSuccess, titleFace)

	hint := parseMarkup(gotext.Get("COMPLETE_HINT"))
	face := e.getSansFontFace()
	drawColoredTextSegments(screen, hint, cx-segmentsWidth(hint, face)/2, cy+8, face)
}
