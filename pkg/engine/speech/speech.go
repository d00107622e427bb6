// Package speech speaks narration through the platform's text-to-speech
// program. A single worker goroutine plays utterances in order; assertive
// utterances interrupt whatever is being spoken and drop the queue.
package speech

import (
	"context"
	"os/exec"
	"sync"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/queue"
	"go.uber.org/zap"
)

// Priority controls how an utterance interacts with speech in progress.
type Priority int

const (
	// Polite waits for current and queued speech to finish.
	Polite Priority = iota
	// Assertive cancels current and queued speech first.
	Assertive
)

func (p Priority) String() string {
	if p == Assertive {
		return "assertive"
	}
	return "polite"
}

// Utterance is one piece of queued speech.
type Utterance struct {
	ID       uuid.UUID
	Text     string
	Priority Priority
}

// Runner speaks a single utterance and returns when it has finished or ctx
// is cancelled.
type Runner interface {
	Run(ctx context.Context, text string) error
}

// ExecRunner runs a detected backend program.
type ExecRunner struct {
	Backend *Backend
	Voice   Voice
}

func (r ExecRunner) Run(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, r.Backend.Path, r.Backend.Args(text, r.Voice)...)
	return cmd.Run()
}

// discard finishes immediately; used when no backend is installed.
type discard struct{}

func (discard) Run(context.Context, string) error { return nil }

// Synth owns the speech worker.
type Synth struct {
	mu      sync.Mutex
	queue   *queue.Queue[Utterance]
	current *Utterance
	cancel  context.CancelFunc

	runner Runner
	wake   chan struct{}
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
	log    *zap.Logger
}

// New creates a synth around runner. A nil runner speaks nothing.
func New(runner Runner, log *zap.Logger) *Synth {
	if runner == nil {
		runner = discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Synth{
		queue:  queue.New[Utterance](),
		runner: runner,
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		log:    log.Named("speech"),
	}
	go s.loop()
	return s
}

// NewSystem detects a backend and returns a synth using it. Without a
// backend the synth is silent and ErrNoSpeechBackend is returned alongside.
func NewSystem(v Voice, log *zap.Logger) (*Synth, error) {
	b, err := DetectBackend()
	if err != nil {
		return New(nil, log), err
	}
	if log != nil {
		log.Info("speech backend", zap.String("name", b.Name), zap.String("path", b.Path))
	}
	return New(ExecRunner{Backend: b, Voice: v}, log), nil
}

// Speak queues text. Empty text is ignored and returns uuid.Nil.
func (s *Synth) Speak(text string, p Priority) uuid.UUID {
	if text == "" {
		return uuid.Nil
	}
	u := Utterance{ID: uuid.New(), Text: text, Priority: p}

	s.mu.Lock()
	if p == Assertive {
		s.cancelLocked()
	}
	s.queue.Enqueue(u)
	s.mu.Unlock()

	s.log.Debug("speak", zap.Stringer("id", u.ID), zap.Stringer("priority", p), zap.String("text", text))
	s.signal()
	return u.ID
}

// Cancel stops current speech and drops the queue.
func (s *Synth) Cancel() {
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
}

func (s *Synth) cancelLocked() {
	s.queue = queue.New[Utterance]()
	if s.cancel != nil {
		s.cancel()
	}
}

// Speaking reports whether an utterance is playing or waiting.
func (s *Synth) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil || !s.queue.Empty()
}

// Current returns the utterance being spoken, if any.
func (s *Synth) Current() (Utterance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Utterance{}, false
	}
	return *s.current, true
}

// Close cancels speech and waits for the worker to exit.
func (s *Synth) Close() {
	s.once.Do(func() {
		s.Cancel()
		close(s.quit)
	})
	<-s.done
}

func (s *Synth) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Synth) next() (Utterance, context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queue.Empty() {
		return Utterance{}, nil, false
	}
	u := s.queue.Dequeue()
	ctx, cancel := context.WithCancel(context.Background())
	s.current = &u
	s.cancel = cancel
	return u, ctx, true
}

func (s *Synth) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.current = nil
	s.cancel = nil
}

func (s *Synth) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		default:
		}

		u, ctx, ok := s.next()
		if !ok {
			select {
			case <-s.wake:
				continue
			case <-s.quit:
				return
			}
		}

		err := s.runner.Run(ctx, u.Text)
		if err != nil && ctx.Err() == nil {
			s.log.Warn("speech failed", zap.Stringer("id", u.ID), zap.Error(err))
		}
		s.finish()
	}
}
