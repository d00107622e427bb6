package gameplay

import (
	"fmt"

	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	"echogrove/pkg/engine/audio"
	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/cues"
	"echogrove/pkg/game/narration"
)

// MoveCursor steps the cursor one KeyboardStep in d, clamped to the grove.
// The cursor is frozen once the creature is found.
func (c *Controller) MoveCursor(d world.Direction) {
	if !c.g.Playing() {
		return
	}
	c.g.Cursor = c.g.Area.Step(c.g.Cursor, d, KeyboardStep)
	c.evaluate()
}

// SetPointer places the cursor at p (mouse or touch).
func (c *Controller) SetPointer(p world.Point) {
	if !c.g.Playing() {
		return
	}
	p = c.g.Area.Clamp(p)
	if p == c.g.Cursor {
		return
	}
	c.g.Cursor = p
	c.evaluate()
}

// evaluate runs the cue policy for the current cursor and dispatches its
// output to the audio and haptic sinks.
func (c *Controller) evaluate() {
	cr := c.g.Creature
	out := c.policy.Evaluate(cues.Input{
		Cursor:      c.g.Cursor,
		Target:      cr.Position,
		Area:        c.g.Area,
		Radius:      c.radius(),
		Base:        cr.BaseFrequency(),
		Delay:       c.g.Difficulty.FeedbackDelay,
		MinProx:     c.g.Difficulty.MinProximity,
		Distractors: c.g.Distractors,
		Now:         c.sched.Now(),
	})

	c.g.Reading = out.Reading
	c.g.Feedback = out.Feedback
	c.g.Visual = out.Visual

	for _, t := range out.Tones {
		c.audio.PlayTone(audioTone(t))
	}
	if out.Haptic > 0 && c.haptics != nil {
		c.haptics.Vibrate(out.Haptic, out.Feedback.Intensity)
	}
	if out.Found {
		c.CreatureFound()
	}
}

// audioTone translates a cue into a synth request. Distractors rustle as
// filtered noise; everything else is a sine.
func audioTone(t cues.Tone) audio.Tone {
	wave := audio.WaveSine
	if t.Kind == cues.ToneDistractor {
		wave = audio.WaveNoise
	}
	return audio.Tone{
		Wave:      wave,
		Frequency: t.Frequency,
		Volume:    t.Volume,
		Duration:  t.Duration,
		Delay:     t.Delay,
		Pan:       t.Pan,
	}
}

// Confirm is the player's "found it" guess. It succeeds anywhere unless the
// level sets a confirm radius, in which case a hint is spoken outside it. While the fact box
// is open it closes the box instead.
func (c *Controller) Confirm() {
	if c.g.ShowFact {
		c.CloseFact()
		return
	}
	if !c.g.Playing() {
		return
	}
	d := c.g.Cursor.DistanceTo(c.g.Creature.Position)
	if c.g.Difficulty.CanConfirm(d) {
		c.CreatureFound()
		return
	}
	c.say(fmt.Sprintf(gotext.Get("NOT_HERE_YET"), WarmthText(c.g.Feedback.Intensity)))
}

// CreatureFound marks the creature found, schedules its call, picks a fact
// and starts the fact narration. Calling it again has no effect.
func (c *Controller) CreatureFound() {
	if c.g.Found {
		return
	}
	cr := c.g.Creature
	c.g.Found = true
	c.g.Discover(cr.Name)
	c.log.Info("creature found",
		zap.String("creature", cr.ID),
		zap.Int("level", c.g.Level),
		zap.Float64("distance", c.g.Cursor.DistanceTo(cr.Position)))

	freq, dur := cr.Call()
	c.calls.After(CreatureCallDelay, func() {
		c.audio.PlayCreature(cr.SoundFile, freq, dur)
	})

	c.g.Fact = cr.RandomFact(c.rng)
	c.g.ShowFact = true
	c.announce(fmt.Sprintf(gotext.Get("FOUND_ANNOUNCE"), cr.Name))

	c.narr.RunFact(fmt.Sprintf(gotext.Get("FACT_NARRATION"), cr.Name, c.g.Fact), narration.Steps{
		Narrating: func(on bool) { c.g.Narrating = on },
		Tick:      func(remaining int) { c.g.Countdown = remaining },
		Complete:  c.LevelComplete,
	})
}

// CloseFact dismisses the fact box and skips straight to level completion.
func (c *Controller) CloseFact() {
	if !c.g.ShowFact {
		return
	}
	c.narr.Silence()
	c.LevelComplete()
}
