package renderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/creatures"
	"echogrove/pkg/game/cues"
	"echogrove/pkg/game/state"
)

func TestCellOf(t *testing.T) {
	row, col := CellOf(world.Pt(45, 25))
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)

	row, col = CellOf(world.Pt(800, 600))
	assert.Equal(t, FieldRows-1, row)
	assert.Equal(t, FieldCols-1, col)

	assert.Equal(t, world.Pt(50, 30), CellCenter(1, 2))
}

func TestGlow(t *testing.T) {
	g := state.NewGame()
	g.Creature.Position = world.Pt(400, 300)
	now := time.Unix(0, 0)

	// Audio-first has no visuals.
	g.Visual = cues.VisualFor(cues.AudioFirst, 0.9)
	assert.Zero(t, Glow(g, g.Cursor, now))

	g.Visual = cues.VisualFor(cues.VisualFirst, 0.8)
	atCursor := Glow(g, g.Cursor, now)
	far := Glow(g, world.Pt(790, 590), now)
	assert.Greater(t, atCursor, far)
	assert.LessOrEqual(t, atCursor, 1.0)

	onRing := Glow(g, world.Pt(450, 300), now)
	assert.Greater(t, onRing, far)
}

func TestPulse(t *testing.T) {
	assert.Equal(t, 1.0, Pulse(0, time.Now()))
	for ms := 0; ms < 2000; ms += 125 {
		v := Pulse(time.Second, time.Unix(0, int64(ms)*int64(time.Millisecond)))
		assert.GreaterOrEqual(t, v, 0.5)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestTint(t *testing.T) {
	c := creatures.Color{R: 212, G: 112, B: 12}
	r, g, b := Tint(c, 1)
	assert.Equal(t, [3]uint8{212, 112, 12}, [3]uint8{r, g, b})
	r, g, b = Tint(c, 0)
	assert.Equal(t, [3]uint8{12, 12, 12}, [3]uint8{r, g, b})
}

func TestBar(t *testing.T) {
	assert.Equal(t, "██░░", Bar(0.5, 4))
	assert.Equal(t, "░░░░", Bar(-1, 4))
	assert.Equal(t, "████", Bar(2, 4))
}
