package cues

import (
	"math"
	"time"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/proximity"
)

// distractorRadiusScale sizes a decoy's audible area relative to the creature's.
const distractorRadiusScale = 0.6

// Input is everything the policy needs to evaluate one cursor position.
type Input struct {
	Cursor      world.Point
	Target      world.Point
	Area        world.Area
	Radius      float64
	Base        float64 // creature tone base frequency
	Delay       time.Duration
	MinProx     float64
	Distractors []world.Point
	Now         time.Time
}

// Output lists the cues to emit for one evaluation.
type Output struct {
	Reading  proximity.Reading
	Tones    []Tone
	Haptic   time.Duration
	Visual   Visual
	Feedback Feedback
	Found    bool
}

// Policy decides which cues fire for each cursor movement in a given mode.
// It remembers the last creature tone proximity and the last spatial tone
// time so repeated movement does not flood the speakers.
type Policy struct {
	Mode Mode

	lastProximity  float64
	lastSpatial    time.Time
	lastDistractor map[int]float64
}

// NewPolicy creates a policy for mode.
func NewPolicy(mode Mode) *Policy {
	return &Policy{Mode: mode, lastDistractor: make(map[int]float64)}
}

// Reset clears throttling state, e.g. at the start of a level.
func (p *Policy) Reset() {
	p.lastProximity = 0
	p.lastSpatial = time.Time{}
	p.lastDistractor = make(map[int]float64)
}

// Evaluate computes the reading for in and the cues it triggers.
func (p *Policy) Evaluate(in Input) Output {
	r := proximity.Compute(in.Cursor, in.Target, in.Radius)
	prox := proximity.Floor(r.Proximity, in.MinProx)

	out := Output{
		Reading:  r,
		Visual:   VisualFor(p.Mode, prox),
		Feedback: FeedbackFor(p.Mode, r.Distance, prox),
		Found:    proximity.Found(r, proximity.FoundThreshold),
	}

	if t, ok := ProximityTone(prox, in.Delay); ok {
		out.Tones = append(out.Tones, t)
	}

	switch p.Mode {
	case AudioFirst:
		if prox > 0 && math.Abs(prox-p.lastProximity) > RetriggerDelta {
			out.Tones = append(out.Tones, CreatureTone(prox, in.Base))
			p.lastProximity = prox
		}
		out.Tones = append(out.Tones, p.distractors(in)...)
	case MultiSensory:
		if prox > 0 {
			if p.lastSpatial.IsZero() || in.Now.Sub(p.lastSpatial) > SpatialInterval {
				out.Tones = append(out.Tones, SpatialTone(prox, Pan(in.Cursor, in.Target, in.Area.Width)))
				p.lastSpatial = in.Now
			}
			if d, ok := Haptic(prox); ok {
				out.Haptic = d
			}
		}
		out.Tones = append(out.Tones, p.distractors(in)...)
	}

	return out
}

// distractors emits a rustle for each decoy whose proximity moved enough
// since it last sounded.
func (p *Policy) distractors(in Input) []Tone {
	if len(in.Distractors) == 0 {
		return nil
	}
	if p.lastDistractor == nil {
		p.lastDistractor = make(map[int]float64)
	}
	radius := in.Radius * distractorRadiusScale
	var tones []Tone
	for i, decoy := range in.Distractors {
		dp := proximity.Compute(in.Cursor, decoy, radius).Proximity
		if dp > 0 && math.Abs(dp-p.lastDistractor[i]) > RetriggerDelta {
			tones = append(tones, DistractorTone(dp, Pan(in.Cursor, decoy, in.Area.Width)))
			p.lastDistractor[i] = dp
		}
	}
	return tones
}
