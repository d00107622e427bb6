package ebiten

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leonelquinteros/gotext"

	"echogrove/pkg/game/level"
	"echogrove/pkg/game/renderer"
	"echogrove/pkg/game/state"
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

	g := &snap.game
	screenWidth, screenHeight := screen.Bounds().Dx(), screen.Bounds().Dy()
	now := time.Now()

	switch g.Screen {
	case state.ScreenMenu:
		e.drawLeavesBackground(screen)
		e.drawCenteredText(screen, gotext.Get("SUBTITLE"), float64(screenWidth)/2, 20, colorSubtle, e.getSansFontFace())
		e.drawMenuOverlay(screen, g.Menu, true)
		e.drawMessages(screen, snap.messages, screenWidth, screenHeight)
		return
	case state.ScreenLevelIntro:
		e.drawIntro(screen, g, screenWidth, screenHeight)
	case state.ScreenPlaying:
		l := e.layoutField(g.Area, screenWidth, screenHeight)
		e.drawHeader(screen, g, screenWidth)
		e.drawField(screen, g, l, snap.foundAt, now)
		e.drawCallouts(screen, l)
		if g.ShowFact {
			e.drawFactBox(screen, g, screenWidth, screenHeight)
		} else {
			e.drawMeters(screen, g, l)
		}
	case state.ScreenComplete:
		e.drawComplete(screen, g, screenWidth, screenHeight)
	}

	e.drawMessages(screen, snap.messages, screenWidth, screenHeight)

	// Settings and bindings menus sit on top of everything.
	if g.Menu != nil {
		e.drawMenuOverlay(screen, g.Menu, false)
	}
}

// drawHeader shows level, mode and distance on the left and talk-back on
// the right.
func (e *EbitenRenderer) drawHeader(screen *ebiten.Image, g *state.Game, screenWidth int) {
	y := 10.0
	e.drawColoredText(screen, renderer.StatusLine(g), 16, y, colorAction)

	onOff := gotext.Get("OFF")
	if g.TalkBack {
		onOff = gotext.Get("ON")
	}
	tb := fmt.Sprintf(gotext.Get("HUD_TALKBACK"), onOff)
	e.drawColoredText(screen, tb, float64(screenWidth)-e.getTextWidth(tb)-16, y, colorSubtle)

	e.drawColoredTextSegments(screen, e.parseMarkup("HINT{"+gotext.Get("HUD_CONTROLS")+"}"), 16, y+e.getUIFontSize()+4, 1)
}

// drawField draws the grove: shaded cells, the proximity glow, rings and
// particles, then the creature once found and the cursor on top.
func (e *EbitenRenderer) drawField(screen *ebiten.Image, g *state.Game, l fieldLayout, foundAt int64, now time.Time) {
	w := float32(g.Area.Width * l.scale)
	h := float32(g.Area.Height * l.scale)
	vector.DrawFilledRect(screen, float32(l.x), float32(l.y), w, h, colorFieldBackground, false)
	vector.StrokeRect(screen, float32(l.x)-1, float32(l.y)-1, w+2, h+2, 2, colorFieldBorder, true)

	cell := renderer.CellSize * l.scale
	mono := e.getMonoFontFace()
	for row := range renderer.FieldRows {
		for col := range renderer.FieldCols {
			opts := getCellRenderOptions(g, row, col, now)
			cx, cy := l.toScreen(renderer.CellCenter(row, col))
			if opts.HasBackground {
				vector.DrawFilledRect(screen, float32(cx-cell/2), float32(cy-cell/2), float32(cell), float32(cell),
					opts.BackgroundColor, false)
			}
			e.drawCenteredGlyph(screen, opts.Icon, cx, cy, opts.Color, mono)
		}
	}

	v := g.Visual
	tint := g.Creature.Color
	creatureColor := color.NRGBA{tint.R, tint.G, tint.B, 255}
	cx, cy := l.toScreen(g.Cursor)

	if v.GlowRadius > 0 {
		vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(v.GlowRadius*l.scale),
			color.NRGBA{tint.R, tint.G, tint.B, uint8(120 * v.GlowAlpha)}, true)
	}

	if len(v.Rings) > 0 {
		rx, ry := l.toScreen(g.Creature.Position)
		pulse := renderer.Pulse(v.PulsePeriod, now)
		for _, r := range v.Rings {
			vector.StrokeCircle(screen, float32(rx), float32(ry), float32(r.Radius*l.scale), 2,
				color.NRGBA{tint.R, tint.G, tint.B, uint8(255 * min(1, r.Alpha*pulse))}, true)
		}
	}

	for _, p := range particlePositions(g.Cursor, v.Particles, max(v.GlowRadius, 20), now) {
		px, py := l.toScreen(p)
		vector.DrawFilledCircle(screen, float32(px), float32(py), float32(2*l.scale+1),
			pulsingColor(creatureColor, 700*time.Millisecond, now), true)
	}

	if g.Found {
		e.drawCreature(screen, g, l, revealScale(foundAt, now.UnixMilli()))
	}

	// Cursor: halo, ring and centre dot.
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(cell), colorCursorHalo, true)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(cell*0.6), 2, colorCursor, true)
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(max(2, cell*0.15)), colorCursor, true)
}

// drawCreature draws the found creature as a disc in its colour with its
// glyph, scaled by the reveal animation.
func (e *EbitenRenderer) drawCreature(screen *ebiten.Image, g *state.Game, l fieldLayout, scale float64) {
	if scale <= 0 {
		return
	}
	c := g.Creature
	x, y := l.toScreen(c.Position)
	radius := renderer.CellSize * l.scale * 0.9 * scale
	vector.DrawFilledCircle(screen, float32(x), float32(y), float32(radius), color.RGBA{c.Color.R, c.Color.G, c.Color.B, 255}, true)
	vector.StrokeCircle(screen, float32(x), float32(y), float32(radius), 2, colorTitle, true)

	glyph := c.Glyph
	if glyph == "" {
		glyph = IconFound
	}
	e.drawCenteredGlyph(screen, glyph, x, y, colorFieldBackground, e.getSansBoldFontFace())
}

// drawMeters draws the HUD gauges under the field.
func (e *EbitenRenderer) drawMeters(screen *ebiten.Image, g *state.Game, l fieldLayout) {
	ui := e.getUIFontSize()
	x := l.x
	y := l.y + g.Area.Height*l.scale + 12
	labelW := 0.0
	for _, m := range renderer.Meters(g) {
		labelW = max(labelW, e.getTextWidth(m.Label))
	}
	barW := float32(min(g.Area.Width*l.scale/2, 300))

	for _, m := range renderer.Meters(g) {
		e.drawColoredText(screen, m.Label, x, y, colorSubtle)
		bx := float32(x + labelW + 12)
		by := float32(y + ui*0.2)
		bh := float32(ui * 0.8)
		vector.DrawFilledRect(screen, bx, by, barW, bh, colorMeterTrack, false)
		vector.DrawFilledRect(screen, bx, by, barW*float32(min(max(m.Value, 0), 1)), bh, colorMeter, false)
		e.drawColoredText(screen, fmt.Sprintf("%3.0f%%", min(max(m.Value, 0), 1)*100), float64(bx+barW+8), y, colorText)
		y += ui + 6
	}
}

// drawFactBox draws the discovery panel with the creature fact and the
// countdown to the next level.
func (e *EbitenRenderer) drawFactBox(screen *ebiten.Image, g *state.Game, screenWidth, screenHeight int) {
	face := e.getSansFontFace()
	ui := e.getUIFontSize()
	lineHeight := ui + 8
	panelW := min(float64(screenWidth)*0.6, 640)
	textW := panelW - 48
	lines := wrapText(g.Fact, textW, face)

	panelH := 24*2 + e.getSansBoldTitleFontFace().Size + 8 + lineHeight*float64(len(lines)+3)
	x := (float64(screenWidth) - panelW) / 2
	y := (float64(screenHeight) - panelH) / 2
	c := g.Creature.Color
	drawRoundedRectWithShadow(screen, float32(x), float32(y), float32(panelW), float32(panelH), 12, 2,
		colorPanelBackground, color.RGBA{c.R, c.G, c.B, 255}, 1)

	tx := x + 24
	ty := y + 24
	title := fmt.Sprintf(gotext.Get("FACT_TITLE"), g.Creature.Name)
	titleFace := e.getSansBoldTitleFontFace()
	e.drawColoredTextWithFace(screen, title, tx, ty, colorTitle, titleFace)
	ty += titleFace.Size + 8

	e.drawColoredText(screen, gotext.Get("FACT_DID_YOU_KNOW"), tx, ty, colorSubtle)
	ty += lineHeight
	for _, line := range lines {
		e.drawColoredText(screen, line, tx, ty, colorFact)
		ty += lineHeight
	}

	switch {
	case g.Narrating:
		e.drawColoredText(screen, gotext.Get("FACT_NARRATING"), tx, ty, colorHint)
	case g.Countdown > 0:
		e.drawColoredText(screen, fmt.Sprintf(gotext.Get("FACT_COUNTDOWN"), g.Countdown), tx, ty, colorHint)
	}
	ty += lineHeight
	e.drawColoredText(screen, gotext.Get("FACT_CONTINUE"), tx, ty, colorAction)
}

// drawIntro draws the level introduction card.
func (e *EbitenRenderer) drawIntro(screen *ebiten.Image, g *state.Game, screenWidth, screenHeight int) {
	cx := float64(screenWidth) / 2
	y := float64(screenHeight) * 0.25
	face := e.getSansFontFace()
	titleFace := e.getSansBoldTitleFontFace()
	lineHeight := e.getUIFontSize() + 10

	e.drawCenteredText(screen, fmt.Sprintf(gotext.Get("INTRO_TITLE"), g.Level), cx, y, colorTitle, titleFace)
	y += titleFace.Size + 16

	e.drawCenteredText(screen, fmt.Sprintf(gotext.Get("INTRO_FIND"), g.Creature.Name), cx, y, colorText, e.getSansBoldFontFace())
	y += lineHeight * 1.5

	c := g.Creature.Color
	r := float32(e.getUIFontSize() * 1.5)
	vector.DrawFilledCircle(screen, float32(cx), float32(y)+r, r, color.RGBA{c.R, c.G, c.B, 255}, true)
	e.drawCenteredGlyph(screen, "?", cx, y+float64(r), colorFieldBackground, e.getSansBoldFontFace())
	y += float64(r)*2 + lineHeight

	e.drawCenteredText(screen, g.Mode.Title(), cx, y, colorAction, face)
	y += lineHeight
	for _, line := range wrapText(level.Description(g.Level), float64(screenWidth)*0.7, face) {
		e.drawCenteredText(screen, line, cx, y, colorHint, face)
		y += lineHeight
	}
	y += lineHeight

	alpha := renderer.Pulse(1500*time.Millisecond, time.Now())
	e.drawCenteredText(screen, gotext.Get("INTRO_PRESS_ENTER"), cx, y, applyAlpha(colorAction, alpha), face)
}

// drawComplete draws the end screen listing every creature found.
func (e *EbitenRenderer) drawComplete(screen *ebiten.Image, g *state.Game, screenWidth, screenHeight int) {
	cx := float64(screenWidth) / 2
	y := float64(screenHeight) * 0.2
	face := e.getSansFontFace()
	titleFace := e.getSansBoldTitleFontFace()
	lineHeight := e.getUIFontSize() + 10

	e.drawCenteredText(screen, gotext.Get("COMPLETE_TITLE"), cx, y, colorTitle, titleFace)
	y += titleFace.Size + 20
	e.drawCenteredText(screen, gotext.Get("COMPLETE_DISCOVERED"), cx, y, colorSubtle, face)
	y += lineHeight
	for _, name := range g.Discovered {
		e.drawCenteredText(screen, IconFound+" "+name, cx, y, colorText, face)
		y += lineHeight
	}
	y += lineHeight
	e.drawCenteredText(screen, gotext.Get("COMPLETE_RESTART"), cx, y, colorAction, face)
}

// drawMessages draws the message log bottom-aligned, fading each entry
// over its last two seconds.
func (e *EbitenRenderer) drawMessages(screen *ebiten.Image, messages []messageEntry, screenWidth, screenHeight int) {
	if len(messages) == 0 {
		return
	}
	face := e.getSansFontFace()
	lineHeight := e.getUIFontSize() + 6
	maxW := float64(screenWidth) - 32

	var lines []textSegmentLine
	nowMs := time.Now().UnixMilli()
	for _, m := range messages {
		alpha := 1.0
		if left := messageLifetime - (nowMs - m.Timestamp); left < 2000 {
			alpha = float64(left) / 2000
		}
		for _, line := range wrapText(m.Text, maxW, face) {
			lines = append(lines, textSegmentLine{text: line, alpha: alpha})
		}
	}
	const maxLines = 4
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}

	y := float64(screenHeight) - 12 - lineHeight*float64(len(lines))
	for _, line := range lines {
		_, h := text.Measure(line.text, face, 0)
		vector.DrawFilledRect(screen, 10, float32(y-2), float32(e.getTextWidth(line.text)+12), float32(h+4),
			applyAlpha(colorPanelBackground, line.alpha), false)
		e.drawColoredTextSegments(screen, e.parseMarkup(line.text), 16, y, line.alpha)
		y += lineHeight
	}
}

// textSegmentLine is one wrapped message line with its fade.
type textSegmentLine struct {
	text  string
	alpha float64
}
