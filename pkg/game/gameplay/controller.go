// Package gameplay provides the game flow: level transitions, cursor
// movement, cue dispatch and discovery.
package gameplay

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"echogrove/pkg/engine/audio"
	"echogrove/pkg/engine/schedule"
	"echogrove/pkg/engine/speech"
	"echogrove/pkg/game/config"
	"echogrove/pkg/game/creatures"
	"echogrove/pkg/game/cues"
	"echogrove/pkg/game/menu"
	"echogrove/pkg/game/narration"
	"echogrove/pkg/game/state"
)

const (
	// KeyboardStep is how far one arrow press moves the cursor.
	KeyboardStep = 20.0

	// CreatureCallDelay separates the discovery chime from the creature's call.
	CreatureCallDelay = 500 * time.Millisecond

	// distractorMargin keeps decoys off the grove's edge.
	distractorMargin = 40.0
)

// AudioSink plays cues. *audio.Engine implements it.
type AudioSink interface {
	PlayTone(t audio.Tone)
	PlayCreature(file string, freq float64, d time.Duration)
	StartAmbience()
	StopAmbience()
	StopAll()
	SetMasterVolume(v float64)
	MasterVolume() float64
}

// HapticSink vibrates. *haptics.Switch implements it.
type HapticSink interface {
	Vibrate(d time.Duration, strength float64)
	SetEnabled(on bool)
}

// Options are the controller's collaborators. Prefs and Rand are optional.
type Options struct {
	Dataset   *creatures.Dataset
	Audio     AudioSink
	Haptics   HapticSink
	Narrator  *narration.Controller
	Scheduler *schedule.Scheduler
	Prefs     *config.Store
	Rand      *rand.Rand
	Log       *zap.Logger
}

// Controller owns a game session. All methods must be called from the game
// loop goroutine.
type Controller struct {
	g        *state.Game
	data     *creatures.Dataset
	audio    AudioSink
	haptics  HapticSink
	narr     *narration.Controller
	sched    *schedule.Scheduler
	prefs    *config.Store
	rng      *rand.Rand
	log      *zap.Logger
	policy   *cues.Policy
	calls    *schedule.Group
	menus    []*menu.Menu
	settings *menu.Menu
	lastLine string
}

// New creates a controller for g. The game's mode, talk-back, haptics and
// volume preferences are pushed to the sinks.
func New(g *state.Game, opts Options) *Controller {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Dataset == nil {
		opts.Dataset = creatures.Default()
	}
	c := &Controller{
		g:       g,
		data:    opts.Dataset,
		audio:   opts.Audio,
		haptics: opts.Haptics,
		narr:    opts.Narrator,
		sched:   opts.Scheduler,
		prefs:   opts.Prefs,
		rng:     opts.Rand,
		log:     opts.Log.Named("gameplay"),
		policy:  cues.NewPolicy(g.Mode),
	}
	c.calls = c.sched.NewGroup()

	c.narr.SetTalkBack(g.TalkBack)
	c.narr.SetCaption(c.caption)
	if c.haptics != nil {
		c.haptics.SetEnabled(g.Haptics)
	}
	return c
}

// Game returns the session state.
func (c *Controller) Game() *state.Game {
	return c.g
}

// caption mirrors every narration line into the message pane.
func (c *Controller) caption(text string, _ speech.Priority) {
	if text == "" {
		return
	}
	c.lastLine = text
	c.g.Caption = text
	c.g.AddMessage(text)
}

func (c *Controller) say(text string) {
	c.narr.Speak(text, speech.Polite)
}

func (c *Controller) announce(text string) {
	c.narr.Speak(text, speech.Assertive)
}

// RepeatNarration speaks the last line again.
func (c *Controller) RepeatNarration() {
	if c.lastLine != "" {
		c.announce(c.lastLine)
	}
}

func (c *Controller) savePrefs(save func(*config.Store) error) {
	if c.prefs == nil {
		return
	}
	if err := save(c.prefs); err != nil {
		c.log.Warn("could not save preferences", zap.Error(err))
	}
}
