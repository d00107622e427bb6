package cues

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// Mode selects which senses the grove emphasises.
type Mode int

const (
	MultiSensory Mode = iota
	AudioFirst
	VisualFirst
)

// ErrUnknownMode is returned by ParseMode for unrecognised names.
var ErrUnknownMode = errors.New("unknown accessibility mode")

// Modes returns all modes in menu order.
func Modes() []Mode {
	return []Mode{AudioFirst, VisualFirst, MultiSensory}
}

func (m Mode) String() string {
	switch m {
	case AudioFirst:
		return "audio-first"
	case VisualFirst:
		return "visual-first"
	default:
		return "multi-sensory"
	}
}

// Title returns the translated display name.
func (m Mode) Title() string {
	switch m {
	case AudioFirst:
		return gotext.Get("MODE_AUDIO_FIRST")
	case VisualFirst:
		return gotext.Get("MODE_VISUAL_FIRST")
	default:
		return gotext.Get("MODE_MULTI_SENSORY")
	}
}

// Description returns the translated one-line explanation of the mode.
func (m Mode) Description() string {
	switch m {
	case AudioFirst:
		return gotext.Get("MODE_AUDIO_FIRST_DESC")
	case VisualFirst:
		return gotext.Get("MODE_VISUAL_FIRST_DESC")
	default:
		return gotext.Get("MODE_MULTI_SENSORY_DESC")
	}
}

// Next cycles to the following mode in menu order.
func (m Mode) Next() Mode {
	modes := Modes()
	for i, mode := range modes {
		if mode == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return MultiSensory
}

// ParseMode accepts the hyphenated names and a few short forms.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "audio-first", "audio", "a":
		return AudioFirst, nil
	case "visual-first", "visual", "v":
		return VisualFirst, nil
	case "multi-sensory", "multi", "m", "":
		return MultiSensory, nil
	}
	return MultiSensory, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// MarshalText implements encoding.TextMarshaler so modes persist by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
