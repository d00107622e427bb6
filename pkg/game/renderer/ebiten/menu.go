package ebiten

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"echogrove/pkg/game/state"
)

// appendRoundedRect adds a rounded rectangle to the path. (x, y) is top-left; w, h are size; r is corner radius.
// Uses clockwise arcs so the path winds correctly for fill.
func appendRoundedRect(p *vector.Path, x, y, w, h, r float32) {
	appendRoundedRectDir(p, x, y, w, h, r, vector.Clockwise)
}

// appendRoundedRectDir adds a rounded rectangle with the given winding direction.
// CounterClockwise creates a hole when combined with an outer clockwise rect.
func appendRoundedRectDir(p *vector.Path, x, y, w, h, r float32, dir vector.Direction) {
	if r <= 0 {
		p.MoveTo(x, y)
		p.LineTo(x, y+h)
		p.LineTo(x+w, y+h)
		p.LineTo(x+w, y)
		p.Close()
		return
	}
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	halfPi := float32(math.Pi / 2)
	pi := float32(math.Pi)
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.Arc(x+w-r, y+r, r, 3*halfPi, 0, dir)
	p.LineTo(x+w, y+h-r)
	p.Arc(x+w-r, y+h-r, r, 0, halfPi, dir)
	p.LineTo(x+r, y+h)
	p.Arc(x+r, y+h-r, r, halfPi, pi, dir)
	p.LineTo(x, y+r)
	p.Arc(x+r, y+r, r, pi, 3*halfPi, dir)
	p.Close()
}

// drawRoundedRectWithShadow draws a rounded rectangle with drop shadow, fill, and border.
// Used by menus and tooltips. alpha scales shadow opacity (1.0 = full, used for callout fade).
// Shadow color is derived from borderColor (darkened to ~15% brightness).
func drawRoundedRectWithShadow(screen *ebiten.Image, x, y, w, h, cornerRadius, borderWidth float32, bgColor, borderColor color.Color, alpha float32) {
	const shadowSpread = 8
	// Derive shadow from border color (darkened)
	bor, bog, bob, _ := borderColor.RGBA()
	shadowR := uint8((bor >> 8) * 15 / 255)
	shadowG := uint8((bog >> 8) * 15 / 255)
	shadowB := uint8((bob >> 8) * 15 / 255)
	if shadowR < 8 {
		shadowR = 8
	}
	if shadowG < 8 {
		shadowG = 8
	}
	if shadowB < 8 {
		shadowB = 8
	}

	var path vector.Path
	for i := shadowSpread; i >= 1; i-- {
		ringAlpha := uint8(12 + i*8)
		if ringAlpha > 55 {
			ringAlpha = 55
		}
		ringAlpha = uint8(float32(ringAlpha) * alpha)
		path.Reset()
		appendRoundedRect(&path,
			x-float32(i), y-float32(i),
			w+float32(i*2), h+float32(i*2),
			cornerRadius+float32(i))
		appendRoundedRectDir(&path,
			x-float32(i-1), y-float32(i-1),
			w+float32((i-1)*2), h+float32((i-1)*2),
			cornerRadius+float32(i-1), vector.CounterClockwise)
		drawOpts := &vector.DrawPathOptions{AntiAlias: true}
		drawOpts.ColorScale.ScaleWithColor(color.RGBA{shadowR, shadowG, shadowB, ringAlpha})
		vector.FillPath(screen, &path, nil, drawOpts)
	}

	path.Reset()
	appendRoundedRect(&path, x, y, w, h, cornerRadius)
	drawOpts := &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(bgColor)
	vector.FillPath(screen, &path, nil, drawOpts)

	path.Reset()
	appendRoundedRect(&path, x, y, w, h, cornerRadius)
	strokeOpts := &vector.StrokeOptions{Width: borderWidth, MiterLimit: 10}
	drawOpts = &vector.DrawPathOptions{AntiAlias: true}
	drawOpts.ColorScale.ScaleWithColor(borderColor)
	vector.StrokePath(screen, &path, strokeOpts, drawOpts)
}

// menuHighlight tracks the animated selection bar. Only Draw touches it.
type menuHighlight struct {
	title     string
	from, to  int
	startedAt int64
}

// highlightRow returns the (fractional) row the selection bar sits on.
func (h *menuHighlight) highlightRow(m *state.MenuView, now int64) float64 {
	const animDuration = 150 // milliseconds
	if h.title != m.Title {
		*h = menuHighlight{title: m.Title, from: m.Selected, to: m.Selected, startedAt: now}
	}
	if m.Selected != h.to {
		h.from, h.to, h.startedAt = h.to, m.Selected, now
	}
	elapsed := now - h.startedAt
	if elapsed >= animDuration {
		return float64(h.to)
	}
	p := easeInOut(float64(elapsed) / animDuration)
	return float64(h.from) + float64(h.to-h.from)*p
}

// drawMenuOverlay draws m as a centred panel. The title menu is drawn
// more transparent so the leaves show through.
func (e *EbitenRenderer) drawMenuOverlay(screen *ebiten.Image, m *state.MenuView, titleMenu bool) {
	if m == nil || len(m.Lines) == 0 {
		return
	}

	screenWidth, screenHeight := screen.Bounds().Dx(), screen.Bounds().Dy()
	face := e.getSansFontFace()
	fontSize := e.getUIFontSize()
	lineHeight := fontSize + 10
	const padding = 24.0

	panelW := float64(screenWidth) * 0.6
	for _, line := range m.Lines {
		panelW = max(panelW, e.getTextWidth(line.Label)+padding*3)
	}
	panelW = min(panelW, float64(screenWidth)-20)
	panelH := e.calculateMenuHeight(m, panelW-padding*2)
	panelX := (float64(screenWidth) - panelW) / 2
	panelY := max((float64(screenHeight)-panelH)/2, 10)

	bg := colorPanelBackground
	if titleMenu {
		bg = color.RGBA{12, 20, 14, 180}
	}
	drawRoundedRectWithShadow(screen, float32(panelX), float32(panelY), float32(panelW), float32(panelH),
		12, 2, bg, colorPanelBorder, 1)

	x := panelX + padding
	y := panelY + padding

	if m.Title != "" {
		titleFace := e.getSansBoldTitleFontFace()
		if !titleMenu {
			titleFace = e.getSansBoldFontFace()
		}
		e.drawColoredTextWithFace(screen, m.Title, x, y, colorTitle, titleFace)
		y += titleFace.Size + 8
	}
	for _, line := range wrapText(m.Instructions, panelW-padding*2, face) {
		e.drawColoredText(screen, line, x, y, colorSubtle)
		y += lineHeight
	}
	y += lineHeight / 2

	_, textHeight := text.Measure("Ag", face, 0)
	row := e.menuAnim.highlightRow(m, time.Now().UnixMilli())
	hy := y + row*lineHeight - (lineHeight-textHeight)/2
	vector.DrawFilledRect(screen, float32(x-8), float32(hy), float32(panelW-padding*2+16), float32(lineHeight),
		colorSelectedBg, true)

	for i, line := range m.Lines {
		label := line.Label
		if line.Checked {
			label = IconChecked + " " + label
		}
		col := colorText
		switch {
		case i == m.Selected:
			e.drawColoredText(screen, IconBullet, x-4, y, colorAction)
			col = colorAction
		case !line.Selectable:
			col = colorSubtle
		}
		e.drawColoredText(screen, label, x+fontSize, y, col)
		y += lineHeight
	}

	if m.Help != "" {
		y += lineHeight / 2
		for _, line := range wrapText(m.Help, panelW-padding*2, face) {
			e.drawColoredTextSegments(screen, e.parseMarkup(line), x, y, 1)
			y += lineHeight
		}
	}
}

// calculateMenuHeight calculates the required height for a menu based on its content
func (e *EbitenRenderer) calculateMenuHeight(m *state.MenuView, textWidth float64) float64 {
	face := e.getSansFontFace()
	lineHeight := e.getUIFontSize() + 10
	height := 24.0 * 2

	if m.Title != "" {
		height += e.getSansBoldTitleFontFace().Size + 8
	}
	height += float64(len(wrapText(m.Instructions, textWidth, face))) * lineHeight
	height += lineHeight / 2
	height += float64(len(m.Lines)) * lineHeight
	if m.Help != "" {
		height += lineHeight/2 + float64(len(wrapText(m.Help, textWidth, face)))*lineHeight
	}
	return height
}

// easeInOut provides smooth easing for animations (ease-in-out cubic)
func easeInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}
