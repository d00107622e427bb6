package gameplay

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"echogrove/pkg/engine/audio"
	engineinput "echogrove/pkg/engine/input"
	"echogrove/pkg/engine/schedule"
	"echogrove/pkg/engine/speech"
	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/config"
	"echogrove/pkg/game/cues"
	"echogrove/pkg/game/i18n"
	"echogrove/pkg/game/level"
	"echogrove/pkg/game/narration"
	"echogrove/pkg/game/state"
)

func TestMain(m *testing.M) {
	i18n.MustInit()
	goleak.VerifyTestMain(m)
}

type fakeAudio struct {
	tones    []audio.Tone
	calls    []string
	ambience bool
	stopped  int
	volume   float64
}

func (f *fakeAudio) PlayTone(t audio.Tone) { f.tones = append(f.tones, t) }
func (f *fakeAudio) PlayCreature(file string, _ float64, _ time.Duration) {
	f.calls = append(f.calls, file)
}
func (f *fakeAudio) StartAmbience()            { f.ambience = true }
func (f *fakeAudio) StopAmbience()             { f.ambience = false }
func (f *fakeAudio) StopAll()                  { f.ambience = false; f.stopped++ }
func (f *fakeAudio) SetMasterVolume(v float64) { f.volume = v }
func (f *fakeAudio) MasterVolume() float64     { return f.volume }

type fakeHaptics struct {
	enabled bool
	pulses  int
}

func (f *fakeHaptics) Vibrate(time.Duration, float64) { f.pulses++ }
func (f *fakeHaptics) SetEnabled(on bool)             { f.enabled = on }

type fakeSpeaker struct {
	mu    sync.Mutex
	lines []string
}

func (f *fakeSpeaker) Speak(text string, _ speech.Priority) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, text)
	return uuid.New()
}

func (f *fakeSpeaker) Cancel() {}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type harness struct {
	c       *Controller
	g       *state.Game
	audio   *fakeAudio
	haptics *fakeHaptics
	speaker *fakeSpeaker
	sched   *schedule.Scheduler
	clk     *clock
}

func newHarness(t *testing.T, mode cues.Mode) *harness {
	t.Helper()
	clk := &clock{now: time.Unix(1000, 0)}
	sched := schedule.New(clk.Now)
	sp := &fakeSpeaker{}
	g := state.NewGame()
	g.Mode = mode
	h := &harness{
		g:       g,
		audio:   &fakeAudio{volume: 0.8},
		haptics: &fakeHaptics{},
		speaker: sp,
		sched:   sched,
		clk:     clk,
	}
	h.c = New(g, Options{
		Audio:     h.audio,
		Haptics:   h.haptics,
		Narrator:  narration.New(sp, sched, nil),
		Scheduler: sched,
		Rand:      rand.New(rand.NewSource(7)),
	})
	return h
}

func (h *harness) advance(d time.Duration) {
	end := h.clk.now.Add(d)
	for h.clk.now.Before(end) {
		h.clk.now = h.clk.now.Add(100 * time.Millisecond)
		h.sched.RunDue(h.clk.now)
	}
}

// playLevel jumps to lvl and leaves its intro.
func (h *harness) playLevel(t *testing.T, lvl int) {
	t.Helper()
	require.NoError(t, h.c.Begin(lvl))
	require.Equal(t, state.ScreenLevelIntro, h.g.Screen)
	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionConfirm})
	require.Equal(t, state.ScreenPlaying, h.g.Screen)
}

func TestBeginShowsMainMenu(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	require.NoError(t, h.c.Begin(1))

	assert.Equal(t, state.ScreenMenu, h.g.Screen)
	require.NotNil(t, h.g.Menu)
	assert.Equal(t, gotext.Get("TITLE"), h.g.Menu.Title)
	assert.Equal(t, gotext.Get("WELCOME"), h.speaker.lines[0])
	assert.True(t, h.haptics.enabled)
}

func TestBeginRejectsUnknownLevel(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	assert.ErrorIs(t, h.c.Begin(9), level.ErrUnknownLevel)
}

func TestMenuBeginStartsFirstLevel(t *testing.T) {
	h := newHarness(t, cues.AudioFirst)
	require.NoError(t, h.c.Begin(1))

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionConfirm})

	assert.Equal(t, state.ScreenLevelIntro, h.g.Screen)
	assert.Nil(t, h.g.Menu)
	assert.Equal(t, "owl", h.g.Creature.ID)
	assert.Equal(t, IntroText(1, h.g.Creature, cues.AudioFirst), h.g.Caption)
	assert.False(t, h.audio.ambience)
}

func TestStartLevelNarratesInstructions(t *testing.T) {
	h := newHarness(t, cues.VisualFirst)
	h.playLevel(t, 1)

	want := "Level 1: Find the hidden Owl. Move your cursor slowly and listen for audio cues. Press Enter when you think you've found it."
	assert.Equal(t, want, h.speaker.lines[len(h.speaker.lines)-1])
	assert.Equal(t, want, h.g.Caption)
}

func TestStartLevelAmbienceFollowsMode(t *testing.T) {
	h := newHarness(t, cues.AudioFirst)
	h.playLevel(t, 2)
	assert.True(t, h.audio.ambience)

	h.c.SetMode(cues.VisualFirst)
	assert.False(t, h.audio.ambience)

	h.c.SetMode(cues.AudioFirst)
	assert.True(t, h.audio.ambience)
}

func TestMoveCursorStepsAndClamps(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 2)

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionMoveEast})
	assert.Equal(t, world.Pt(100+KeyboardStep, 100), h.g.Cursor)

	for range 10 {
		h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionMoveNorth})
	}
	assert.Equal(t, world.Pt(120, 0), h.g.Cursor)
}

func TestPointerNearCreatureFinds(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 2)
	target := h.g.Creature.Position

	h.c.ProcessIntent(engineinput.PointerIntent(target.Add(60, 0)))
	assert.False(t, h.g.Found)
	assert.Greater(t, h.g.Feedback.Intensity, 0.0)
	assert.NotEmpty(t, h.audio.tones)
	assert.Positive(t, h.haptics.pulses)

	h.c.ProcessIntent(engineinput.PointerIntent(target.Add(5, 0)))
	assert.True(t, h.g.Found)
	assert.True(t, h.g.ShowFact)
	assert.NotEmpty(t, h.g.Fact)
	assert.Equal(t, []string{"Fox"}, h.g.Discovered)
	assert.Contains(t, h.g.Creature.Facts, h.g.Fact)

	// Frozen once found.
	before := h.g.Cursor
	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionMoveWest})
	assert.Equal(t, before, h.g.Cursor)
}

func TestCreatureFoundIsIdempotent(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)

	h.c.CreatureFound()
	fact := h.g.Fact
	h.c.CreatureFound()

	assert.Equal(t, fact, h.g.Fact)
	assert.Equal(t, []string{"Owl"}, h.g.Discovered)

	h.advance(CreatureCallDelay - 100*time.Millisecond)
	assert.Empty(t, h.audio.calls)
	h.advance(200 * time.Millisecond)
	assert.Equal(t, []string{"owl.mp3"}, h.audio.calls)
}

func TestFactCountdownAdvancesLevel(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)
	h.c.CreatureFound()
	assert.True(t, h.g.Narrating)

	h.advance(30 * time.Second)

	assert.Equal(t, 2, h.g.Level)
	assert.Equal(t, state.ScreenLevelIntro, h.g.Screen)
	assert.False(t, h.g.Found)
	assert.False(t, h.g.ShowFact)
	assert.Equal(t, state.StartCursor, h.g.Cursor)
	assert.Equal(t, "fox", h.g.Creature.ID)
}

func TestSilentFactUsesShortCountdown(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)
	h.c.SetTalkBack(false)

	h.c.CreatureFound()
	assert.False(t, h.g.Narrating)
	assert.Equal(t, narration.CountdownSilent, h.g.Countdown)

	h.advance(time.Duration(narration.CountdownSilent)*time.Second + 100*time.Millisecond)
	assert.Equal(t, 2, h.g.Level)
}

func TestCloseFactSkipsToNextLevel(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)
	h.c.CreatureFound()

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionBack})

	assert.Equal(t, 2, h.g.Level)
	assert.Equal(t, state.ScreenLevelIntro, h.g.Screen)
	h.advance(30 * time.Second)
	assert.Equal(t, 2, h.g.Level, "cancelled countdown must not complete again")
}

func TestFinalLevelCompletesGame(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, level.TotalLevels)
	h.c.ProcessIntent(engineinput.PointerIntent(h.g.Creature.Position))
	require.True(t, h.g.Found)

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionConfirm})

	assert.Equal(t, state.ScreenComplete, h.g.Screen)
	assert.Contains(t, h.g.Caption, h.g.Creature.Name)

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionConfirm})
	assert.Equal(t, state.ScreenMenu, h.g.Screen)
	assert.Equal(t, 1, h.g.Level)
	assert.Empty(t, h.g.Discovered)
}

func TestConfirmFindsFromStart(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)
	require.Equal(t, state.StartCursor, h.g.Cursor)
	require.Greater(t, h.g.Cursor.DistanceTo(h.g.Creature.Position), h.c.radius())

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionConfirm})
	assert.True(t, h.g.Found)
	assert.Equal(t, []string{"Owl"}, h.g.Discovered)
}

func TestConfirmRadiusWhenSet(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)
	h.g.Difficulty.ConfirmRadius = 40
	target := h.g.Creature.Position

	h.c.ProcessIntent(engineinput.PointerIntent(target.Add(-100, 0)))
	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionConfirm})
	assert.False(t, h.g.Found)
	assert.Contains(t, h.g.Caption, gotext.Get("WARMTH_WARM"))

	h.c.ProcessIntent(engineinput.PointerIntent(target.Add(-39, 0)))
	require.False(t, h.g.Found)
	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionConfirm})
	assert.True(t, h.g.Found)
}

func TestDistractorsPlaced(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 4)

	require.Len(t, h.g.Distractors, h.g.Difficulty.DistractorCount)
	for i, d := range h.g.Distractors {
		assert.Greater(t, d.DistanceTo(h.g.Creature.Position), h.c.radius())
		assert.True(t, h.g.Area.Contains(d))
		for _, other := range h.g.Distractors[i+1:] {
			assert.GreaterOrEqual(t, d.DistanceTo(other), 80.0)
		}
	}
}

func TestFirstLevelHasNoDistractors(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)
	assert.Empty(t, h.g.Distractors)
}

func TestSettingsToggleFreezesCursor(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionSettings})
	assert.True(t, h.g.Settings)
	require.NotNil(t, h.g.Menu)
	assert.Contains(t, h.g.Messages, gotext.Get("SETTINGS_OPENED"))

	// Arrows now drive the menu, not the cursor.
	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionMoveEast})
	assert.Equal(t, state.StartCursor, h.g.Cursor)

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionSettings})
	assert.False(t, h.g.Settings)
	assert.Nil(t, h.g.Menu)
	assert.Equal(t, gotext.Get("SETTINGS_CLOSED"), h.g.Caption)
}

func TestSettingsBackCloses(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)
	h.c.OpenSettings()

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionBack})

	assert.False(t, h.g.Settings)
	assert.Nil(t, h.g.Menu)
}

func TestCycleModeAndTalkBack(t *testing.T) {
	h := newHarness(t, cues.AudioFirst)
	h.playLevel(t, 1)

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionCycleMode})
	assert.Equal(t, cues.AudioFirst.Next(), h.g.Mode)

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionToggleTalkBack})
	assert.False(t, h.g.TalkBack)
	spoken := len(h.speaker.lines)
	h.c.DescribeWarmth()
	assert.Len(t, h.speaker.lines, spoken)
	assert.Equal(t, gotext.Get("WARMTH_COLD"), h.g.Caption)
}

func TestRepeatNarration(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)
	last := h.g.Caption

	h.c.ProcessIntent(engineinput.Intent{Action: engineinput.ActionRepeat})

	assert.Equal(t, last, h.speaker.lines[len(h.speaker.lines)-1])
}

func TestRestartCancelsPendingCall(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)
	h.c.CreatureFound()

	h.c.Restart()
	h.advance(30 * time.Second)

	assert.Empty(t, h.audio.calls)
	assert.Equal(t, state.ScreenMenu, h.g.Screen)
	assert.Equal(t, 1, h.g.Level)
	assert.Positive(t, h.audio.stopped)
}

func TestQuitDropsTimers(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	h.playLevel(t, 1)
	h.c.CreatureFound()
	require.Positive(t, h.sched.Pending())

	h.c.Quit()
	assert.Zero(t, h.sched.Pending())
	_, ok := h.sched.NextDue()
	assert.False(t, ok)

	h.advance(30 * time.Second)
	assert.Empty(t, h.audio.calls)
	assert.True(t, h.g.Quit)
}

func TestSettingsSavePreferences(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	prefs := config.NewStore(nil, zap.NewNop())
	h.c.prefs = prefs

	h.c.SetMode(cues.AudioFirst)
	h.c.SetTalkBack(false)
	h.c.SetVolume(0.3)
	h.c.SetHaptics(false)

	got := prefs.Settings()
	assert.Equal(t, "audio-first", got.Mode)
	assert.False(t, got.TalkBack)
	assert.InDelta(t, 0.3, got.MasterVolume, 1e-9)
	assert.False(t, got.Haptics)
	assert.False(t, h.haptics.enabled)
}

func TestWarmthText(t *testing.T) {
	assert.Equal(t, gotext.Get("WARMTH_COLD"), WarmthText(0))
	assert.Equal(t, gotext.Get("WARMTH_COOL"), WarmthText(0.2))
	assert.Equal(t, gotext.Get("WARMTH_WARM"), WarmthText(0.5))
	assert.Equal(t, gotext.Get("WARMTH_HOT"), WarmthText(0.7))
	assert.Equal(t, gotext.Get("WARMTH_VERY_HOT"), WarmthText(0.9))
}

func TestDirectionText(t *testing.T) {
	from := world.Pt(400, 300)
	assert.Equal(t, gotext.Get("DIR_HERE"), DirectionText(from, from.Add(10, -10)))
	assert.Equal(t, gotext.Get("DIR_RIGHT"), DirectionText(from, from.Add(100, 0)))
	assert.Equal(t, gotext.Get("DIR_UP"), DirectionText(from, from.Add(0, -100)))
	assert.Equal(t, "down and left", DirectionText(from, from.Add(-100, 100)))
}

func TestPlaceDistractorsKeepsApart(t *testing.T) {
	area := world.DefaultArea()
	creature := world.Pt(400, 300)
	pts := PlaceDistractors(rand.New(rand.NewSource(3)), area, creature, 110, 4)

	require.Len(t, pts, 4)
	for i, p := range pts {
		assert.Greater(t, p.DistanceTo(creature), 110.0)
		assert.True(t, area.Contains(p))
		for _, q := range pts[i+1:] {
			assert.GreaterOrEqual(t, p.DistanceTo(q), 80.0)
		}
	}
	assert.Nil(t, PlaceDistractors(rand.New(rand.NewSource(3)), area, creature, 110, 0))
}

func TestJoinNames(t *testing.T) {
	and := gotext.Get("AND")
	assert.Equal(t, "", JoinNames(nil))
	assert.Equal(t, "Owl", JoinNames([]string{"Owl"}))
	assert.Equal(t, "Owl "+and+" Fox", JoinNames([]string{"Owl", "Fox"}))
	assert.Equal(t, "Owl, Fox, "+and+" Deer", JoinNames([]string{"Owl", "Fox", "Deer"}))
}

type scriptedInput struct {
	mu      sync.Mutex
	intents []engineinput.Intent
	done    chan struct{}
}

func (s *scriptedInput) GetInput() engineinput.Intent {
	s.mu.Lock()
	if len(s.intents) > 0 {
		in := s.intents[0]
		s.intents = s.intents[1:]
		s.mu.Unlock()
		return in
	}
	s.mu.Unlock()
	<-s.done
	return engineinput.Intent{}
}

func TestRunUntilQuit(t *testing.T) {
	h := newHarness(t, cues.MultiSensory)
	src := &scriptedInput{
		intents: []engineinput.Intent{
			{Action: engineinput.ActionConfirm},
			{Action: engineinput.ActionQuit},
		},
		done: make(chan struct{}),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	defer close(src.done)

	frames := 0
	err := h.c.Run(ctx, src, func(*state.Game) { frames++ }, 1)

	require.NoError(t, err)
	assert.True(t, h.g.Quit)
	assert.GreaterOrEqual(t, frames, 2)
	assert.Equal(t, state.ScreenLevelIntro, h.g.Screen)
}
