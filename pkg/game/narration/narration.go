// Package narration sequences spoken talk-back with timed follow-up actions.
// All follow-ups run through a loop-driven scheduler so they execute on the
// game loop goroutine.
package narration

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"echogrove/pkg/engine/schedule"
	"echogrove/pkg/engine/speech"
)

const (
	// WordsPerMinute is the speaking rate used to estimate narration length.
	WordsPerMinute = 150

	// MinNarration is the shortest time a fact is given to be read aloud.
	MinNarration = 5 * time.Second

	// Countdown lengths, in one-second ticks, after a fact.
	CountdownTalkBack = 5
	CountdownSilent   = 3

	tick = time.Second
)

// Speaker is the speech sink.
type Speaker interface {
	Speak(text string, p speech.Priority) uuid.UUID
	Cancel()
}

// Caption receives every line the controller would speak, whether or not
// talk-back is enabled, so text front ends can show it.
type Caption func(text string, p speech.Priority)

// Controller speaks narration and runs timed sequences.
type Controller struct {
	mu       sync.Mutex
	speaker  Speaker
	sched    *schedule.Scheduler
	seq      *schedule.Group
	talkBack bool
	caption  Caption
	log      *zap.Logger
}

// New creates a controller with talk-back enabled.
func New(sp Speaker, sched *schedule.Scheduler, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		speaker:  sp,
		sched:    sched,
		seq:      sched.NewGroup(),
		talkBack: true,
		log:      log.Named("narration"),
	}
}

// SetCaption installs the caption hook.
func (c *Controller) SetCaption(fn Caption) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.caption = fn
}

// SetTalkBack enables or disables spoken output. Disabling silences any
// speech in progress.
func (c *Controller) SetTalkBack(on bool) {
	c.mu.Lock()
	c.talkBack = on
	c.mu.Unlock()
	if !on && c.speaker != nil {
		c.speaker.Cancel()
	}
}

// TalkBack reports whether spoken output is enabled.
func (c *Controller) TalkBack() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.talkBack
}

// Speak says text with priority p when talk-back is on and always
// forwards it to the caption hook.
func (c *Controller) Speak(text string, p speech.Priority) {
	c.mu.Lock()
	on, caption := c.talkBack, c.caption
	c.mu.Unlock()

	if caption != nil {
		caption(text, p)
	}
	if !on || c.speaker == nil || text == "" {
		return
	}
	c.speaker.Speak(text, p)
}

// Silence stops current speech and cancels any running sequence.
func (c *Controller) Silence() {
	c.CancelSequence()
	if c.speaker != nil {
		c.speaker.Cancel()
	}
}

// Duration estimates how long text takes to speak: its word count at
// WordsPerMinute, but never less than MinNarration.
func Duration(text string) time.Duration {
	words := len(strings.Fields(text))
	est := time.Duration(math.Round(float64(words) / WordsPerMinute * float64(time.Minute)))
	if est < MinNarration {
		return MinNarration
	}
	return est
}

// Steps are the callbacks of a fact sequence. Any may be nil.
type Steps struct {
	// Narrating is called with true when narration starts and false when
	// it is over and the countdown begins.
	Narrating func(bool)
	// Tick receives the seconds remaining, starting at the full countdown.
	Tick func(remaining int)
	// Complete runs once the countdown reaches zero.
	Complete func()
}

// RunFact speaks text (when talk-back is on), waits for the estimated
// narration time, then counts down and completes. With talk-back off the
// narration is skipped and the countdown is shorter. Starting a new
// sequence cancels the previous one.
func (c *Controller) RunFact(text string, steps Steps) {
	c.CancelSequence()

	if !c.TalkBack() {
		c.log.Debug("fact sequence without narration")
		if steps.Narrating != nil {
			steps.Narrating(false)
		}
		c.countdown(CountdownSilent, steps)
		return
	}

	if steps.Narrating != nil {
		steps.Narrating(true)
	}
	c.Speak(text, speech.Polite)

	wait := Duration(text)
	c.log.Debug("fact sequence", zap.Duration("narration", wait))
	c.seq.After(wait, func() {
		if steps.Narrating != nil {
			steps.Narrating(false)
		}
		c.countdown(CountdownTalkBack, steps)
	})
}

func (c *Controller) countdown(from int, steps Steps) {
	if steps.Tick != nil {
		steps.Tick(from)
	}
	for i := 1; i <= from; i++ {
		remaining := from - i
		c.seq.After(time.Duration(i)*tick, func() {
			if steps.Tick != nil {
				steps.Tick(remaining)
			}
			if remaining <= 0 && steps.Complete != nil {
				steps.Complete()
			}
		})
	}
}

// CancelSequence stops a running fact sequence without completing it.
func (c *Controller) CancelSequence() {
	c.seq.Cancel()
}

// SequenceActive reports whether a fact sequence has pending steps.
func (c *Controller) SequenceActive() bool {
	return c.seq.Len() > 0
}
