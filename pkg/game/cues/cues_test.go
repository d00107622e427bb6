package cues

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echogrove/pkg/engine/world"
)

func TestProximityTone(t *testing.T) {
	tone, ok := ProximityTone(0.5, 100*time.Millisecond)
	require.True(t, ok)
	assert.InDelta(t, 500.0, tone.Frequency, 1e-9)
	assert.InDelta(t, 0.15, tone.Volume, 1e-9)
	assert.Equal(t, 200*time.Millisecond, tone.Duration)
	assert.Equal(t, 100*time.Millisecond, tone.Delay)

	_, ok = ProximityTone(0, 0)
	assert.False(t, ok, "silent at zero proximity")

	// 0.15 * 0.3 = 0.045 which is below the audible floor
	_, ok = ProximityTone(0.15, 0)
	assert.False(t, ok, "inaudible volume is suppressed")
}

func TestCreatureTone(t *testing.T) {
	tone := CreatureTone(1, 600)
	assert.Equal(t, 800.0, tone.Frequency)
	assert.InDelta(t, 0.3, tone.Volume, 1e-9)
}

func TestPan(t *testing.T) {
	target := world.Pt(400, 300)
	assert.Equal(t, 0.0, Pan(target, target, 800))
	assert.Equal(t, 0.5, Pan(world.Pt(600, 0), target, 800))
	assert.Equal(t, -1.0, Pan(world.Pt(-1000, 0), target, 800))
	assert.Equal(t, 1.0, Pan(world.Pt(2000, 0), target, 800))
	assert.Equal(t, 0.0, Pan(world.Pt(2000, 0), target, 0))
}

func TestHaptic(t *testing.T) {
	_, ok := Haptic(0.3)
	assert.False(t, ok)

	d, ok := Haptic(0.5)
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, d)

	assert.Equal(t, 0.0, HapticMeter(0.2))
	assert.InDelta(t, 1.0, HapticMeter(1.0), 0.002)
	assert.InDelta(t, 0.286, HapticMeter(0.5), 0.001)
}

func TestVisualFor(t *testing.T) {
	assert.Equal(t, Visual{}, VisualFor(AudioFirst, 0.9))

	v := VisualFor(VisualFirst, 0.6)
	assert.InDelta(t, 0.18, v.BackgroundAlpha, 1e-9)
	assert.InDelta(t, 24, v.GlowRadius, 1e-9)
	assert.InDelta(t, 0.48, v.GlowAlpha, 1e-9)
	require.Len(t, v.Rings, 2)
	assert.Equal(t, 50.0, v.Rings[0].Radius)
	assert.Equal(t, 100.0, v.Rings[1].Radius)
	assert.InDelta(t, 1.1, v.PulsePeriod.Seconds(), 1e-9)

	assert.Empty(t, VisualFor(VisualFirst, 0.2).Rings)
	assert.Len(t, VisualFor(VisualFirst, 0.75).Rings, 3)

	m := VisualFor(MultiSensory, 0.45)
	assert.Equal(t, 4, m.Particles)
	assert.InDelta(t, 0.09, m.BackgroundAlpha, 1e-9)
	assert.Equal(t, 0, VisualFor(MultiSensory, 0.4).Particles)
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("telepathic")
	assert.ErrorIs(t, err, ErrUnknownMode)

	assert.Equal(t, VisualFirst, AudioFirst.Next())
	assert.Equal(t, AudioFirst, MultiSensory.Next())
}

func policyInput(cursor world.Point, now time.Time) Input {
	return Input{
		Cursor: cursor,
		Target: world.Pt(400, 300),
		Area:   world.DefaultArea(),
		Radius: 200,
		Base:   400,
		Now:    now,
	}
}

func countKind(tones []Tone, kind ToneKind) int {
	n := 0
	for _, t := range tones {
		if t.Kind == kind {
			n++
		}
	}
	return n
}

func TestPolicyAudioFirstRetrigger(t *testing.T) {
	p := NewPolicy(AudioFirst)
	now := time.Unix(0, 0)

	out := p.Evaluate(policyInput(world.Pt(500, 300), now)) // p = 0.5
	assert.Equal(t, 1, countKind(out.Tones, ToneCreature))
	assert.Equal(t, 1, countKind(out.Tones, ToneProximity))

	out = p.Evaluate(policyInput(world.Pt(490, 300), now)) // p = 0.55
	assert.Equal(t, 0, countKind(out.Tones, ToneCreature), "small change does not retrigger")

	out = p.Evaluate(policyInput(world.Pt(460, 300), now)) // p = 0.7
	assert.Equal(t, 1, countKind(out.Tones, ToneCreature))
	assert.Zero(t, out.Haptic)
	assert.Equal(t, Visual{}, out.Visual)
}

func TestPolicyMultiSensoryThrottle(t *testing.T) {
	p := NewPolicy(MultiSensory)
	start := time.Unix(100, 0)

	out := p.Evaluate(policyInput(world.Pt(460, 300), start))
	assert.Equal(t, 1, countKind(out.Tones, ToneSpatial))
	assert.InDelta(t, float64(120*time.Millisecond), float64(out.Haptic), float64(time.Microsecond))

	out = p.Evaluate(policyInput(world.Pt(450, 300), start.Add(100*time.Millisecond)))
	assert.Equal(t, 0, countKind(out.Tones, ToneSpatial))

	out = p.Evaluate(policyInput(world.Pt(445, 300), start.Add(SpatialInterval)))
	assert.Equal(t, 0, countKind(out.Tones, ToneSpatial), "exactly one interval is still throttled")

	out = p.Evaluate(policyInput(world.Pt(440, 300), start.Add(SpatialInterval+time.Millisecond)))
	assert.Equal(t, 1, countKind(out.Tones, ToneSpatial))
	for _, tone := range out.Tones {
		if tone.Kind == ToneSpatial {
			assert.InDelta(t, 0.1, tone.Pan, 1e-9)
		}
	}

	p.Reset()
	out = p.Evaluate(policyInput(world.Pt(440, 300), start.Add(310*time.Millisecond)))
	assert.Equal(t, 1, countKind(out.Tones, ToneSpatial), "reset clears the throttle")
}

func TestPolicyVisualFirstHasNoExtraAudio(t *testing.T) {
	p := NewPolicy(VisualFirst)
	out := p.Evaluate(policyInput(world.Pt(460, 300), time.Unix(0, 0)))
	assert.Equal(t, 1, len(out.Tones))
	assert.Equal(t, ToneProximity, out.Tones[0].Kind)
	assert.NotEmpty(t, out.Visual.Rings)
}

func TestPolicyFoundAndFloor(t *testing.T) {
	p := NewPolicy(MultiSensory)
	in := policyInput(world.Pt(405, 300), time.Unix(0, 0))
	assert.True(t, p.Evaluate(in).Found)

	in = policyInput(world.Pt(500, 300), time.Unix(5, 0)) // p = 0.5
	in.MinProx = 0.6
	out := p.Evaluate(in)
	assert.False(t, out.Found)
	assert.Empty(t, out.Tones)
	assert.Equal(t, 0.0, out.Feedback.Intensity)
	assert.InDelta(t, 0.5, out.Reading.Proximity, 1e-9)
}

func TestPolicyDistractors(t *testing.T) {
	p := NewPolicy(AudioFirst)
	in := policyInput(world.Pt(100, 100), time.Unix(0, 0))
	in.Distractors = []world.Point{world.Pt(110, 100), world.Pt(700, 500)}

	out := p.Evaluate(in)
	assert.Equal(t, 1, countKind(out.Tones, ToneDistractor))
	assert.False(t, out.Found)

	out = p.Evaluate(in)
	assert.Equal(t, 0, countKind(out.Tones, ToneDistractor), "decoy repeats only on change")
}
