package ebiten

import (
	"image/color"
	"time"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/renderer"
	"echogrove/pkg/game/state"
)

// CellRenderOptions describes how one grove cell should be drawn.
type CellRenderOptions struct {
	Icon            string
	Color           color.Color
	HasBackground   bool
	BackgroundColor color.Color
}

// layoutField fits the grove into the window below the header. One field
// cell is tileSize pixels unless the window is too small for that.
func (e *EbitenRenderer) layoutField(area world.Area, screenW, screenH int) fieldLayout {
	ui := e.getUIFontSize()
	header := ui*2 + 16
	footer := ui * 8
	scale := float64(e.tileSize) / renderer.CellSize
	if availW := float64(screenW) - 20; availW > 0 && area.Width*scale > availW {
		scale = availW / area.Width
	}
	if availH := float64(screenH) - header - footer; availH > 0 && area.Height*scale > availH {
		scale = availH / area.Height
	}
	return fieldLayout{
		x:     (float64(screenW) - area.Width*scale) / 2,
		y:     header,
		scale: scale,
	}
}

// toScreen converts field coordinates to screen pixels.
func (l fieldLayout) toScreen(p world.Point) (x, y float64) {
	return l.x + p.X*l.scale, l.y + p.Y*l.scale
}

// toField converts screen pixels to field coordinates. The result is not
// clamped.
func (l fieldLayout) toField(x, y float64) world.Point {
	if l.scale <= 0 {
		return world.Pt(0, 0)
	}
	return world.Pt((x-l.x)/l.scale, (y-l.y)/l.scale)
}

// inside reports whether screen pixel (x, y) falls on the grove.
func (l fieldLayout) inside(area world.Area, x, y float64) bool {
	return area.Contains(l.toField(x, y))
}

// getCellRenderOptions shades one grid cell by the proximity glow. Bright
// cells get a creature-tinted background; dark ones show the undergrowth.
func getCellRenderOptions(g *state.Game, row, col int, now time.Time) CellRenderOptions {
	center := g.Area.Clamp(renderer.CellCenter(row, col))
	glow := renderer.Glow(g, center, now)
	if glow <= 0.02 {
		return CellRenderOptions{Icon: IconGround, Color: colorGround}
	}
	r, gr, b := renderer.Tint(g.Creature.Color, 0.3+0.7*glow)
	return CellRenderOptions{
		Icon:            IconGround,
		Color:           color.RGBA{r, gr, b, 255},
		HasBackground:   true,
		BackgroundColor: color.NRGBA{r, gr, b, uint8(40 + 180*glow)},
	}
}
