package renderer

import (
	"fmt"
	"math"
	"time"

	"github.com/leonelquinteros/gotext"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/creatures"
	"echogrove/pkg/game/level"
	"echogrove/pkg/game/state"
)

// The grove is drawn as a grid of CellSize logical pixels.
const (
	CellSize  = 20.0
	FieldCols = int(world.DefaultWidth / CellSize)
	FieldRows = int(world.DefaultHeight / CellSize)
)

// CellOf returns the grid cell containing p.
func CellOf(p world.Point) (row, col int) {
	row = int(p.Y / CellSize)
	col = int(p.X / CellSize)
	return min(max(row, 0), FieldRows-1), min(max(col, 0), FieldCols-1)
}

// CellCenter returns the middle of a grid cell in field coordinates.
func CellCenter(row, col int) world.Point {
	return world.Pt((float64(col)+0.5)*CellSize, (float64(row)+0.5)*CellSize)
}

// Pulse oscillates between 0.5 and 1 once per period.
func Pulse(period time.Duration, now time.Time) float64 {
	if period <= 0 {
		return 1
	}
	phase := float64(now.UnixNano()%int64(period)) / float64(period)
	return 0.75 + 0.25*math.Sin(2*math.Pi*phase)
}

// Glow returns how strongly the proximity visuals light the field at p,
// from 0 to 1. It combines the background tint, the glow around the cursor
// and the pulsing rings around the creature.
func Glow(g *state.Game, p world.Point, now time.Time) float64 {
	v := g.Visual
	shade := v.BackgroundAlpha
	if v.GlowRadius > 0 {
		reach := v.GlowRadius * 2
		if d := p.DistanceTo(g.Cursor); d < reach {
			shade += v.GlowAlpha * (1 - d/reach)
		}
	}
	if len(v.Rings) > 0 {
		pulse := Pulse(v.PulsePeriod, now)
		dc := p.DistanceTo(g.Creature.Position)
		for _, r := range v.Rings {
			if math.Abs(dc-r.Radius) < CellSize/2 {
				shade += r.Alpha * pulse
			}
		}
	}
	return math.Min(1, math.Max(0, shade))
}

// Tint blends the creature colour over a dark background at alpha.
func Tint(c creatures.Color, alpha float64) (r, g, b uint8) {
	const bg = 12
	mix := func(v uint8) uint8 {
		return uint8(math.Round(bg + (float64(v)-bg)*alpha))
	}
	return mix(c.R), mix(c.G), mix(c.B)
}

// Meter is one HUD gauge.
type Meter struct {
	Label string
	Value float64
}

// Meters returns the HUD gauges for the current feedback. Audio shows the
// tone's position in its 200-800 Hz range.
func Meters(g *state.Game) []Meter {
	f := g.Feedback
	return []Meter{
		{Label: gotext.Get("HUD_PROXIMITY"), Value: f.Intensity},
		{Label: gotext.Get("HUD_AUDIO"), Value: (f.AudioFrequency - 200) / 600},
		{Label: gotext.Get("HUD_VISUAL"), Value: f.VisualBrightness},
		{Label: gotext.Get("HUD_HAPTIC"), Value: f.HapticStrength},
	}
}

// Bar draws a text gauge of width cells.
func Bar(v float64, width int) string {
	v = math.Min(1, math.Max(0, v))
	full := int(math.Round(v * float64(width)))
	bar := make([]rune, width)
	for i := range bar {
		if i < full {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}

// StatusLine is the one-line HUD summary: level, mode and distance.
func StatusLine(g *state.Game) string {
	return fmt.Sprintf("%s  %s  %s",
		fmt.Sprintf(gotext.Get("HUD_LEVEL"), g.Level, level.TotalLevels),
		fmt.Sprintf(gotext.Get("HUD_MODE"), g.Mode.Title()),
		fmt.Sprintf(gotext.Get("HUD_DISTANCE"), g.Feedback.Distance))
}
