package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves. A negative duration runs forever.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	samples := -1
	if duration >= 0 {
		samples = rate.N(duration)
	}
	return &oscillator{
		freq:     freq,
		duration: samples,
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.duration >= 0 && o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decayFloor is the level the exponential decay reaches at the end of a tone.
const decayFloor = 0.001

// toneEnvelope ramps linearly from silence to peak over the attack, then
// decays exponentially to decayFloor by the end of the tone.
type toneEnvelope struct {
	streamer beep.Streamer
	peak     float64
	position int
	attack   int
	total    int
}

// NewToneEnvelope shapes s into a percussive tone of the given length.
func NewToneEnvelope(s beep.Streamer, peak float64, duration, attack time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	if att > total {
		att = total
	}
	return &toneEnvelope{streamer: s, peak: peak, attack: att, total: total}
}

// Gain returns the envelope gain at sample index pos.
func (e *toneEnvelope) Gain(pos int) float64 {
	if e.peak <= 0 || pos >= e.total {
		return 0
	}
	if pos < e.attack {
		return e.peak * float64(pos) / float64(e.attack)
	}
	floor := decayFloor
	if floor > e.peak {
		floor = e.peak
	}
	span := e.total - e.attack
	if span <= 0 {
		return e.peak
	}
	frac := float64(pos-e.attack) / float64(span)
	return e.peak * math.Pow(floor/e.peak, frac)
}

func (e *toneEnvelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.position >= e.total {
		return 0, false
	}
	if remaining := e.total - e.position; len(samples) > remaining {
		samples = samples[:remaining]
	}
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.Gain(e.position)
		samples[i][0] *= g
		samples[i][1] *= g
		e.position++
	}
	return n, ok
}

func (e *toneEnvelope) Err() error { return e.streamer.Err() }

// lowpass is a one-pole low-pass filter.
type lowpass struct {
	streamer beep.Streamer
	alpha    float64
	prev     [2]float64
}

// NewLowpass filters s with the given cutoff frequency.
func NewLowpass(s beep.Streamer, cutoff float64, rate beep.SampleRate) beep.Streamer {
	dt := 1 / float64(rate)
	rc := 1 / (2 * math.Pi * cutoff)
	return &lowpass{streamer: s, alpha: dt / (rc + dt)}
}

func (l *lowpass) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = l.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		for c := 0; c < 2; c++ {
			l.prev[c] += l.alpha * (samples[i][c] - l.prev[c])
			samples[i][c] = l.prev[c]
		}
	}
	return n, ok
}

func (l *lowpass) Err() error { return l.streamer.Err() }

// Helper to create a volume effect safely
// math.Log2(0) is -Inf, so we handle 0 volume by making it silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Tone is a request for one synthesized beep.
type Tone struct {
	Wave      WaveType
	Frequency float64
	Volume    float64 // peak amplitude before master volume
	Duration  time.Duration
	Delay     time.Duration
	Pan       float64
}

// toneAttack is the linear ramp at the start of every tone.
const toneAttack = 10 * time.Millisecond

// NewToneStreamer builds the streamer for t, scaled by master.
func NewToneStreamer(t Tone, master float64, rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(t.Frequency, t.Duration, t.Wave, rate)
	var s beep.Streamer = NewToneEnvelope(osc, t.Volume*master, t.Duration, toneAttack, rate)
	if t.Pan != 0 {
		s = &effects.Pan{Streamer: s, Pan: math.Max(-1, math.Min(1, t.Pan))}
	}
	if t.Delay > 0 {
		s = beep.Seq(beep.Silence(rate.N(t.Delay)), s)
	}
	return s
}

// NewForestStreamer is the synthesized ambience: an 80 Hz sawtooth through a
// 200 Hz low-pass at low gain. It never ends.
func NewForestStreamer(master float64, rate beep.SampleRate) beep.Streamer {
	saw := NewOscillator(80, -1, WaveSaw, rate)
	return newVolume(NewLowpass(saw, 200, rate), 0.05*master)
}
