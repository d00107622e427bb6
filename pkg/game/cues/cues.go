// Package cues maps a normalized proximity value onto audio, visual and
// haptic parameters. Every function here is pure; Policy carries the small
// amount of state needed to throttle repeated cues.
package cues

import (
	"math"
	"time"

	"echogrove/pkg/engine/world"
)

// ToneKind tells the audio layer which voice to use.
type ToneKind int

const (
	ToneProximity ToneKind = iota
	ToneCreature
	ToneSpatial
	ToneDistractor
)

// Tone is a short synthesized beep.
type Tone struct {
	Kind      ToneKind
	Frequency float64
	Volume    float64
	Duration  time.Duration
	Delay     time.Duration
	Pan       float64 // -1 left .. 1 right
}

const (
	minAudibleVolume = 0.05

	proximityToneDuration = 200 * time.Millisecond
	creatureToneDuration  = 200 * time.Millisecond
	spatialToneDuration   = 100 * time.Millisecond
	distractorDuration    = 150 * time.Millisecond

	// SpatialInterval is the gap a multi-sensory spatial tone must exceed
	// before the next one sounds.
	SpatialInterval = 300 * time.Millisecond

	// RetriggerDelta is the proximity change needed to repeat a creature tone.
	RetriggerDelta = 0.1

	hapticThreshold   = 0.3
	particleThreshold = 0.4
)

// ProximityTone is the base tone every mode plays on cursor movement:
// 200..800 Hz rising with proximity, volume up to 0.3. It is suppressed
// when p is zero or the volume would be inaudible.
func ProximityTone(p float64, delay time.Duration) (Tone, bool) {
	t := Tone{
		Kind:      ToneProximity,
		Frequency: 200 + p*600,
		Volume:    p * 0.3,
		Duration:  proximityToneDuration,
		Delay:     delay,
	}
	return t, p > 0 && t.Volume > minAudibleVolume
}

// CreatureTone is the audio-first creature voice: base+p*200 Hz.
func CreatureTone(p, base float64) Tone {
	return Tone{
		Kind:      ToneCreature,
		Frequency: base + p*200,
		Volume:    p * 0.3,
		Duration:  creatureToneDuration,
	}
}

// Pan returns the stereo position of the cue, (cursor.x-target.x)/width*2
// clamped to [-1, 1]. A zero width yields centre.
func Pan(cursor, target world.Point, width float64) float64 {
	if width <= 0 {
		return 0
	}
	return clamp((cursor.X-target.X)/width*2, -1, 1)
}

// SpatialTone is the multi-sensory panned tone: 250..650 Hz.
func SpatialTone(p, pan float64) Tone {
	return Tone{
		Kind:      ToneSpatial,
		Frequency: 250 + p*400,
		Volume:    p * 0.3,
		Duration:  spatialToneDuration,
		Pan:       pan,
	}
}

// DistractorTone is the faint low rustle emitted by a decoy.
func DistractorTone(p, pan float64) Tone {
	return Tone{
		Kind:      ToneDistractor,
		Frequency: 120 + p*60,
		Volume:    p * 0.08,
		Duration:  distractorDuration,
		Pan:       pan,
	}
}

// Haptic returns the vibration length for p, or false below the threshold.
func Haptic(p float64) (time.Duration, bool) {
	if p <= hapticThreshold {
		return 0, false
	}
	ms := 50 + p*100
	return time.Duration(ms * float64(time.Millisecond)), true
}

// HapticMeter is the 0..1 strength shown on the haptic gauge.
func HapticMeter(p float64) float64 {
	return clamp((p-hapticThreshold)*1.43, 0, 1)
}

// Ring is one concentric proximity ring drawn around the creature.
type Ring struct {
	Radius float64
	Alpha  float64
}

// Visual describes the proximity glow for one frame.
type Visual struct {
	BackgroundAlpha float64
	GlowRadius      float64
	GlowAlpha       float64
	Rings           []Ring
	PulsePeriod     time.Duration
	Particles       int
}

var ringThresholds = []float64{0.3, 0.5, 0.7}

// VisualFor returns the glow parameters for mode at proximity p.
// Audio-first mode has no proximity visuals.
func VisualFor(mode Mode, p float64) Visual {
	switch mode {
	case VisualFirst:
		v := Visual{
			BackgroundAlpha: p * 0.3,
			GlowRadius:      p * 40,
			GlowAlpha:       p * 0.8,
			PulsePeriod:     time.Duration((2 - 1.5*p) * float64(time.Second)),
		}
		if p > 0.2 {
			for i, th := range ringThresholds {
				if p > th {
					v.Rings = append(v.Rings, Ring{Radius: float64(i+1) * 50, Alpha: p * 0.6})
				}
			}
		}
		return v
	case MultiSensory:
		v := Visual{
			BackgroundAlpha: p * 0.2,
			GlowRadius:      p * 40,
			GlowAlpha:       p * 0.5,
		}
		if p > particleThreshold {
			v.Particles = int(math.Floor(p * 10))
		}
		return v
	default:
		return Visual{}
	}
}

// Feedback is the summary shown on HUD meters.
type Feedback struct {
	Distance         float64
	Intensity        float64
	AudioFrequency   float64
	VisualBrightness float64
	HapticStrength   float64
}

// FeedbackFor builds the HUD summary for a reading.
func FeedbackFor(mode Mode, distance, p float64) Feedback {
	f := Feedback{
		Distance:       distance,
		Intensity:      p,
		AudioFrequency: 200 + p*600,
	}
	if mode != AudioFirst {
		f.VisualBrightness = VisualFor(mode, p).GlowAlpha
	}
	if mode == MultiSensory {
		f.HapticStrength = HapticMeter(p)
	}
	return f
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
