// Package audio synthesizes proximity tones and plays creature calls and
// forest ambience through a single beep mixer. When no output device is
// available the engine runs silent and every call becomes a no-op.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
)

const (
	creatureCallVolume = 0.4
	ambienceFileVolume = 0.3
	resampleQuality    = 4
)

// Engine owns the mixer feeding the speaker.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	rate     beep.SampleRate
	mixer    *beep.Mixer
	ambience *beep.Ctrl
	loopFile beep.StreamSeekCloser
	started  bool
	log      *zap.Logger

	// callsMu guards calls only. It is taken on the speaker goroutine, so
	// it must never be held while acquiring mu or the speaker lock.
	callsMu sync.Mutex
	calls   mapset.Set[beep.StreamSeekCloser]
}

// New creates an engine. Nothing is audible until Start succeeds.
func New(cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	cfg.MasterVolume = clampVolume(cfg.MasterVolume)
	return &Engine{
		cfg:   cfg,
		rate:  beep.SampleRate(cfg.SampleRate),
		mixer: &beep.Mixer{},
		log:   log.Named("audio"),
		calls: mapset.New[beep.StreamSeekCloser](),
	}
}

// Start opens the output device. On failure the engine switches to silent
// mode and the error is returned for logging only.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.cfg.Enabled || e.started {
		return nil
	}

	if err := speaker.Init(e.rate, e.rate.N(100*time.Millisecond)); err != nil {
		e.cfg.Enabled = false
		e.log.Warn("audio device unavailable, running silent", zap.Error(err))
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(e.mixer)
	e.started = true
	e.log.Debug("audio started", zap.Int("sample_rate", e.cfg.SampleRate))
	return nil
}

// Enabled reports whether sounds are produced.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Enabled
}

// SetMasterVolume changes the volume applied to sounds started afterwards.
func (e *Engine) SetMasterVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.MasterVolume = clampVolume(v)
}

// MasterVolume returns the current master volume.
func (e *Engine) MasterVolume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.MasterVolume
}

// Active returns the number of streamers in the mixer.
func (e *Engine) Active() int {
	e.lock()
	defer e.unlock()
	return e.mixer.Len()
}

// lock guards the mixer. The speaker reads the mixer from its own goroutine,
// so once started the speaker lock is taken as well.
func (e *Engine) lock() {
	e.mu.Lock()
	if e.started {
		speaker.Lock()
	}
}

func (e *Engine) unlock() {
	if e.started {
		speaker.Unlock()
	}
	e.mu.Unlock()
}

// PlayTone plays a short synthesized tone.
func (e *Engine) PlayTone(t Tone) {
	e.lock()
	defer e.unlock()

	if !e.cfg.Enabled || t.Volume <= 0 || t.Duration <= 0 {
		return
	}
	e.mixer.Add(NewToneStreamer(t, e.cfg.MasterVolume, e.rate))
}

// PlayCreature plays a creature's recorded call from
// <assets>/sounds/creatures/<file>, or a synthesized tone when the file
// cannot be decoded.
func (e *Engine) PlayCreature(file string, freq float64, d time.Duration) {
	if !e.Enabled() {
		return
	}

	path := filepath.Join(e.assetsDir(), "sounds", "creatures", file)
	s, err := e.decodeCall(path)
	if err != nil {
		e.log.Debug("creature sound unavailable, using synthesized call",
			zap.String("file", path), zap.Error(err))
		e.PlayTone(Tone{Wave: WaveSine, Frequency: freq, Volume: creatureCallVolume, Duration: d})
		return
	}

	e.lock()
	defer e.unlock()
	e.mixer.Add(newVolume(s, e.cfg.MasterVolume))
}

// StartAmbience begins the looping forest background. Calling it while
// ambience is already playing does nothing.
func (e *Engine) StartAmbience() {
	if !e.Enabled() {
		return
	}

	e.mu.Lock()
	playing := e.ambience != nil
	e.mu.Unlock()
	if playing {
		return
	}

	var stream beep.Streamer
	path := filepath.Join(e.assetsDir(), "sounds", "ambient", "forest.mp3")
	looped, file, err := e.decodeLoop(path)
	if err == nil {
		stream = newVolume(looped, ambienceFileVolume*e.MasterVolume())
	} else {
		e.log.Debug("forest ambience file unavailable, using synthesized sound", zap.Error(err))
		stream = NewForestStreamer(e.MasterVolume(), e.rate)
	}

	e.lock()
	defer e.unlock()
	if e.ambience != nil {
		if file != nil {
			_ = file.Close()
		}
		return
	}
	e.ambience = &beep.Ctrl{Streamer: stream}
	e.loopFile = file
	e.mixer.Add(e.ambience)
}

// StopAmbience ends the forest background.
func (e *Engine) StopAmbience() {
	e.lock()
	defer e.unlock()
	e.stopAmbienceLocked()
}

func (e *Engine) stopAmbienceLocked() {
	if e.ambience == nil {
		return
	}
	// A Ctrl without a streamer reports drained, so the mixer drops it.
	e.ambience.Streamer = nil
	e.ambience = nil
	if e.loopFile != nil {
		_ = e.loopFile.Close()
		e.loopFile = nil
	}
}

// AmbiencePlaying reports whether the forest background is running.
func (e *Engine) AmbiencePlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ambience != nil
}

// StopAll silences every sound, ambience included.
func (e *Engine) StopAll() {
	e.lock()
	e.stopAmbienceLocked()
	e.mixer.Clear()
	e.unlock()

	e.callsMu.Lock()
	open := e.calls
	e.calls = mapset.New[beep.StreamSeekCloser]()
	e.callsMu.Unlock()
	open.Each(func(s beep.StreamSeekCloser) { _ = s.Close() })
}

// openCalls returns the number of creature call decoders still open.
func (e *Engine) openCalls() int {
	e.callsMu.Lock()
	defer e.callsMu.Unlock()
	return e.calls.Size()
}

// Close stops all sounds. The speaker itself stays open for the process.
func (e *Engine) Close() {
	e.StopAll()
}

func (e *Engine) assetsDir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.AssetsDir
}

func (e *Engine) open(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s, format, err := mp3.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, format, nil
}

func (e *Engine) decodeCall(path string) (beep.Streamer, error) {
	s, format, err := e.open(path)
	if err != nil {
		return nil, err
	}
	return e.trackCall(s, format), nil
}

// trackCall plays s once and closes it as soon as it drains.
func (e *Engine) trackCall(s beep.StreamSeekCloser, format beep.Format) beep.Streamer {
	e.callsMu.Lock()
	e.calls.Put(s)
	e.callsMu.Unlock()
	return beep.Seq(e.resample(format, s), beep.Callback(func() { e.release(s) }))
}

// release closes a finished call. It runs on the speaker goroutine.
func (e *Engine) release(s beep.StreamSeekCloser) {
	e.callsMu.Lock()
	open := e.calls.Has(s)
	e.calls.Remove(s)
	e.callsMu.Unlock()
	if open {
		_ = s.Close()
	}
}

func (e *Engine) decodeLoop(path string) (beep.Streamer, beep.StreamSeekCloser, error) {
	s, format, err := e.open(path)
	if err != nil {
		return nil, nil, err
	}
	return e.resample(format, beep.Loop(-1, s)), s, nil
}

func (e *Engine) resample(format beep.Format, s beep.Streamer) beep.Streamer {
	if format.SampleRate == e.rate {
		return s
	}
	return beep.Resample(resampleQuality, format.SampleRate, e.rate, s)
}
