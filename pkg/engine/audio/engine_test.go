package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testRate = beep.SampleRate(44100)

func drain(s beep.Streamer) (samples int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Max(math.Abs(buf[i][0]), math.Abs(buf[i][1])))
		}
		samples += n
		if !ok {
			return samples, peak
		}
	}
}

func TestOscillatorSine(t *testing.T) {
	osc := NewOscillator(440, 100*time.Millisecond, WaveSine, testRate)
	n, peak := drain(osc)
	assert.Equal(t, testRate.N(100*time.Millisecond), n)
	assert.LessOrEqual(t, peak, 1.0)
	assert.Greater(t, peak, 0.9)
	assert.NoError(t, osc.Err())
}

func TestOscillatorSquare(t *testing.T) {
	osc := NewOscillator(220, 50*time.Millisecond, WaveSquare, testRate)
	buf := make([][2]float64, 50)
	n, ok := osc.Stream(buf)
	require.True(t, ok)
	for i := 0; i < n; i++ {
		if buf[i][0] != -1.0 && buf[i][0] != 1.0 {
			t.Errorf("square sample %d = %f, want -1 or 1", i, buf[i][0])
		}
	}
}

func TestOscillatorInfinite(t *testing.T) {
	osc := NewOscillator(80, -1, WaveSaw, testRate)
	buf := make([][2]float64, 1024)
	for i := 0; i < 100; i++ {
		n, ok := osc.Stream(buf)
		require.True(t, ok)
		require.Equal(t, len(buf), n)
	}
}

func TestToneEnvelopeShape(t *testing.T) {
	env := NewToneEnvelope(NewOscillator(0, 0, WaveSine, testRate), 0.3, 200*time.Millisecond, 10*time.Millisecond, testRate).(*toneEnvelope)

	attack := testRate.N(10 * time.Millisecond)
	total := testRate.N(200 * time.Millisecond)

	assert.Equal(t, 0.0, env.Gain(0))
	assert.InDelta(t, 0.15, env.Gain(attack/2), 0.01)
	assert.InDelta(t, 0.3, env.Gain(attack), 1e-9)
	assert.InDelta(t, decayFloor, env.Gain(total-1), 0.0005)
	assert.Equal(t, 0.0, env.Gain(total))

	// Monotonic decay after the attack.
	prev := env.Gain(attack)
	for pos := attack + 1; pos < total; pos += 97 {
		g := env.Gain(pos)
		assert.Less(t, g, prev)
		prev = g
	}
}

func TestToneStreamerLength(t *testing.T) {
	tone := Tone{Frequency: 500, Volume: 0.3, Duration: 200 * time.Millisecond, Delay: 50 * time.Millisecond}
	n, peak := drain(NewToneStreamer(tone, 1, testRate))
	assert.Equal(t, testRate.N(50*time.Millisecond)+testRate.N(200*time.Millisecond), n)
	assert.LessOrEqual(t, peak, 0.3+1e-9)
	assert.Greater(t, peak, 0.2)
}

func TestToneStreamerPanLeft(t *testing.T) {
	tone := Tone{Frequency: 300, Volume: 0.3, Duration: 100 * time.Millisecond, Pan: -1}
	s := NewToneStreamer(tone, 1, testRate)
	buf := make([][2]float64, 4096)
	n, _ := s.Stream(buf)
	var right float64
	for i := 0; i < n; i++ {
		right = math.Max(right, math.Abs(buf[i][1]))
	}
	assert.InDelta(t, 0, right, 1e-9)
}

func TestLowpassAttenuatesHighFrequencies(t *testing.T) {
	_, lowPeak := drain(NewLowpass(NewOscillator(50, 200*time.Millisecond, WaveSine, testRate), 200, testRate))
	_, highPeak := drain(NewLowpass(NewOscillator(5000, 200*time.Millisecond, WaveSine, testRate), 200, testRate))
	assert.Greater(t, lowPeak, highPeak*4)
}

func TestEngineMixer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AssetsDir = t.TempDir()
	e := New(cfg, zap.NewNop())

	e.PlayTone(Tone{Frequency: 400, Volume: 0.2, Duration: 100 * time.Millisecond})
	e.PlayTone(Tone{Frequency: 400, Volume: 0, Duration: 100 * time.Millisecond})
	assert.Equal(t, 1, e.Active())

	// No mp3 on disk: the synthesized call is queued instead.
	e.PlayCreature("owl.mp3", 400, 2*time.Second)
	assert.Equal(t, 2, e.Active())

	e.StartAmbience()
	e.StartAmbience()
	assert.True(t, e.AmbiencePlaying())
	assert.Equal(t, 3, e.Active())

	e.StopAmbience()
	assert.False(t, e.AmbiencePlaying())

	e.StopAll()
	assert.Equal(t, 0, e.Active())
}

func TestEngineSilent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false
	e := New(cfg, nil)
	require.NoError(t, e.Start())

	e.PlayTone(Tone{Frequency: 400, Volume: 0.2, Duration: 100 * time.Millisecond})
	e.PlayCreature("fox.mp3", 600, time.Second)
	e.StartAmbience()
	assert.Equal(t, 0, e.Active())
	assert.False(t, e.AmbiencePlaying())
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("ECHOGROVE_AUDIO_ENABLED", "false")
	t.Setenv("ECHOGROVE_MASTER_VOLUME", "150")
	t.Setenv("ECHOGROVE_SAMPLE_RATE", "48000")

	cfg := LoadConfig(DefaultConfig())
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1.0, cfg.MasterVolume)
	assert.Equal(t, 48000, cfg.SampleRate)
}

func TestSetMasterVolumeClamps(t *testing.T) {
	e := New(DefaultConfig(), nil)
	e.SetMasterVolume(-2)
	assert.Equal(t, 0.0, e.MasterVolume())
	e.SetMasterVolume(0.5)
	assert.Equal(t, 0.5, e.MasterVolume())
}

// fakeDecoder is a short silent StreamSeekCloser that counts Close calls.
type fakeDecoder struct {
	pos, n int
	closed int
}

func (f *fakeDecoder) Stream(samples [][2]float64) (int, bool) {
	if f.pos >= f.n {
		return 0, false
	}
	k := min(len(samples), f.n-f.pos)
	for i := range samples[:k] {
		samples[i] = [2]float64{}
	}
	f.pos += k
	return k, true
}

func (f *fakeDecoder) Err() error       { return nil }
func (f *fakeDecoder) Len() int         { return f.n }
func (f *fakeDecoder) Position() int    { return f.pos }
func (f *fakeDecoder) Seek(p int) error { f.pos = p; return nil }
func (f *fakeDecoder) Close() error     { f.closed++; return nil }

func TestCreatureCallClosesWhenDrained(t *testing.T) {
	e := New(DefaultConfig(), zap.NewNop())
	dec := &fakeDecoder{n: 2000}

	s := e.trackCall(dec, beep.Format{SampleRate: e.rate, NumChannels: 2, Precision: 2})
	assert.Equal(t, 1, e.openCalls())
	assert.Zero(t, dec.closed)

	samples, _ := drain(s)
	assert.Equal(t, 2000, samples)
	assert.Equal(t, 1, dec.closed)
	assert.Zero(t, e.openCalls())

	e.StopAll()
	assert.Equal(t, 1, dec.closed)
}

func TestStopAllClosesPlayingCalls(t *testing.T) {
	e := New(DefaultConfig(), zap.NewNop())
	dec := &fakeDecoder{n: 44100}
	s := e.trackCall(dec, beep.Format{SampleRate: e.rate, NumChannels: 2, Precision: 2})

	e.StopAll()
	assert.Equal(t, 1, dec.closed)
	assert.Zero(t, e.openCalls())

	// A late drain after StopAll does not close twice.
	drain(s)
	assert.Equal(t, 1, dec.closed)
}
