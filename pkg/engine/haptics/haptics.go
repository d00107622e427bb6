// Package haptics abstracts vibration motors (phones, gamepads).
package haptics

import (
	"sync"
	"time"
)

// Vibrator drives a vibration motor for d at the given 0..1 strength.
type Vibrator interface {
	Vibrate(d time.Duration, strength float64)
}

// Nop ignores every request.
type Nop struct{}

func (Nop) Vibrate(time.Duration, float64) {}

// Func adapts a plain function to Vibrator.
type Func func(d time.Duration, strength float64)

func (f Func) Vibrate(d time.Duration, strength float64) { f(d, strength) }

// Switch forwards to a target vibrator while enabled. The target may be
// replaced at runtime, e.g. once a renderer with motor access starts.
type Switch struct {
	mu      sync.Mutex
	enabled bool
	target  Vibrator
}

// NewSwitch returns an enabled switch with no target.
func NewSwitch() *Switch {
	return &Switch{enabled: true, target: Nop{}}
}

// SetTarget replaces the underlying vibrator. A nil target disables output.
func (s *Switch) SetTarget(v Vibrator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == nil {
		v = Nop{}
	}
	s.target = v
}

// SetEnabled turns forwarding on or off.
func (s *Switch) SetEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = on
}

// Enabled reports whether requests are forwarded.
func (s *Switch) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *Switch) Vibrate(d time.Duration, strength float64) {
	s.mu.Lock()
	on, target := s.enabled, s.target
	s.mu.Unlock()
	if !on || d <= 0 {
		return
	}
	if strength < 0 {
		strength = 0
	} else if strength > 1 {
		strength = 1
	}
	target.Vibrate(d, strength)
}
