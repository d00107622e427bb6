package ebiten

import (
	"os"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engineinput "echogrove/pkg/engine/input"
	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/cues"
	"echogrove/pkg/game/i18n"
	"echogrove/pkg/game/renderer"
	"echogrove/pkg/game/state"
)

func TestMain(m *testing.M) {
	i18n.MustInit()
	os.Exit(m.Run())
}

func TestFieldLayoutRoundTrip(t *testing.T) {
	e := New(nil)
	e.tileSize = 20
	area := world.DefaultArea()

	l := e.layoutField(area, 1024, 900)
	require.Greater(t, l.scale, 0.0)

	p := world.Pt(400, 300)
	x, y := l.toScreen(p)
	back := l.toField(x, y)
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.True(t, l.inside(area, x, y))
	assert.False(t, l.inside(area, l.x-5, l.y-5))
}

func TestFieldLayoutShrinksToWindow(t *testing.T) {
	e := New(nil)
	e.tileSize = 48
	area := world.DefaultArea()

	l := e.layoutField(area, 640, 480)
	assert.LessOrEqual(t, area.Width*l.scale, 640.0)
	assert.GreaterOrEqual(t, l.x, 0.0)
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		key   ebiten.Key
		shift bool
		want  string
	}{
		{ebiten.KeyEnter, false, "enter"},
		{ebiten.KeyEscape, false, "escape"},
		{ebiten.KeyQ, false, "q"},
		{ebiten.KeySlash, true, "?"},
		{ebiten.KeyEqual, false, "="},
		{ebiten.KeyF2, false, "f2"},
		{ebiten.Key5, false, "5"},
		{ebiten.KeyShiftLeft, false, ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, keyCode(tc.key, tc.shift), tc.key.String())
	}
}

func TestParseMarkup(t *testing.T) {
	e := New(nil)
	segs := e.parseMarkup("Press ACTION{Enter} to GT{TITLE}")
	require.Len(t, segs, 4)
	assert.Equal(t, "Enter", segs[1].text)
	assert.Equal(t, colorAction, segs[1].color)
	assert.Equal(t, "Echo Grove", segs[3].text)

	plain := e.parseMarkup("plain")
	require.Len(t, plain, 1)
	assert.Equal(t, colorText, plain[0].color)
}

func TestGetInputAfterClose(t *testing.T) {
	e := New(nil)
	e.send(engineinput.Intent{Action: engineinput.ActionHint})
	assert.Equal(t, engineinput.ActionHint, e.GetInput().Action)

	e.Close()
	e.Close()
	assert.Equal(t, engineinput.ActionQuit, e.GetInput().Action)
}

func TestRenderFrameSnapshotsState(t *testing.T) {
	e := New(nil)
	g := state.NewGame()
	g.Screen = state.ScreenPlaying
	g.Visual = cues.VisualFor(cues.VisualFirst, 0.9)
	g.AddMessage("Level 1 started.")
	g.Menu = &state.MenuView{Title: "Settings", Lines: []state.MenuLine{{Label: "Back", Selectable: true}}}

	e.RenderFrame(g)

	g.Messages[0] = "changed"
	g.Menu.Lines[0].Label = "changed"
	g.Visual.Rings[0].Radius = 999

	snap := e.snapshot
	require.True(t, snap.valid)
	assert.Equal(t, "Level 1 started.", snap.game.Messages[0])
	assert.Equal(t, "Back", snap.game.Menu.Lines[0].Label)
	assert.Equal(t, 50.0, snap.game.Visual.Rings[0].Radius)
	require.Len(t, snap.messages, 1)
	assert.Zero(t, snap.foundAt)

	g.Found = true
	e.RenderFrame(g)
	foundAt := e.snapshot.foundAt
	assert.NotZero(t, foundAt)
	e.RenderFrame(g)
	assert.Equal(t, foundAt, e.snapshot.foundAt)
}

func TestTrackMessagesExpire(t *testing.T) {
	e := New(nil)
	now := time.Now().UnixMilli()

	assert.Len(t, e.trackMessages([]string{"a"}, now), 1)
	assert.Len(t, e.trackMessages([]string{"a", "b"}, now+messageLifetime-1), 2)
	// "a" stays expired rather than coming back with a new timestamp.
	got := e.trackMessages([]string{"a", "b"}, now+messageLifetime+1)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Text)
}

func TestCaptionRaisesCallout(t *testing.T) {
	e := New(nil)
	g := state.NewGame()
	g.Screen = state.ScreenPlaying
	g.Caption = "Warm. Try right."

	e.RenderFrame(g)
	e.RenderFrame(g)

	active := e.activeCallouts(time.Now().UnixMilli())
	require.Len(t, active, 1)
	assert.Equal(t, g.Cursor, active[0].At)
	assert.Equal(t, g.Caption, active[0].Message)
}

func TestRevealScale(t *testing.T) {
	assert.Equal(t, 1.0, revealScale(0, 5000))
	assert.Equal(t, 0.0, revealScale(1000, 1000))
	assert.Greater(t, revealScale(1000, 1000+revealDuration*3/4), 1.0)
	assert.Equal(t, 1.0, revealScale(1000, 1000+revealDuration))
}

func TestParticlePositions(t *testing.T) {
	center := world.Pt(200, 200)
	pts := particlePositions(center, 6, 30, time.Unix(12, 0))
	require.Len(t, pts, 6)
	for _, p := range pts {
		assert.LessOrEqual(t, p.DistanceTo(center), 30.0+1e-9)
	}
	assert.Nil(t, particlePositions(center, 0, 30, time.Now()))
}

func TestCellRenderOptions(t *testing.T) {
	g := state.NewGame()
	g.Creature.Position = world.Pt(400, 300)
	now := time.Unix(0, 0)

	dark := getCellRenderOptions(g, 0, 0, now)
	assert.False(t, dark.HasBackground)

	g.Visual = cues.VisualFor(cues.VisualFirst, 0.9)
	row, col := renderer.CellOf(g.Cursor)
	lit := getCellRenderOptions(g, row, col, now)
	assert.True(t, lit.HasBackground)
}

func TestStyleText(t *testing.T) {
	e := New(nil)
	assert.Equal(t, "HINT{x}", e.StyleText("x", renderer.StyleHint))
	assert.Equal(t, "x", e.StyleText("x", renderer.StyleNormal))
}
