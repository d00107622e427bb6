package speech

import (
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoSpeechBackend is returned when no text-to-speech program is installed.
var ErrNoSpeechBackend = errors.New("no speech backend found")

// Voice holds the delivery settings, each relative to the engine's default.
type Voice struct {
	Rate   float64
	Pitch  float64
	Volume float64
}

// DefaultVoice is slightly slower than normal for clarity.
func DefaultVoice() Voice {
	return Voice{Rate: 0.9, Pitch: 1, Volume: 0.8}
}

// BackendType identifies the text-to-speech program.
type BackendType int

const (
	BackendSay BackendType = iota
	BackendEspeakNG
	BackendEspeak
	BackendSpeechDispatcher
)

// baseWPM is the default speaking rate of say and espeak.
const baseWPM = 175

// Backend is a detected text-to-speech program.
type Backend struct {
	Type BackendType
	Name string
	Path string
}

// DetectBackend searches for an installed speech program.
// Priority: say (macOS) > espeak-ng > espeak > spd-say
func DetectBackend() (*Backend, error) {
	return detectWith(exec.LookPath)
}

func detectWith(lookPath func(string) (string, error)) (*Backend, error) {
	candidates := []struct {
		typ  BackendType
		name string
	}{
		{BackendSay, "say"},
		{BackendEspeakNG, "espeak-ng"},
		{BackendEspeak, "espeak"},
		{BackendSpeechDispatcher, "spd-say"},
	}
	for _, c := range candidates {
		if path, err := lookPath(c.name); err == nil {
			return &Backend{Type: c.typ, Name: c.name, Path: path}, nil
		}
	}
	return nil, ErrNoSpeechBackend
}

// Args returns the command line arguments that speak text with voice v.
func (b *Backend) Args(text string, v Voice) []string {
	// Leading dashes would be read as flags.
	text = strings.TrimLeft(text, "-")
	wpm := strconv.Itoa(int(math.Round(baseWPM * v.Rate)))

	switch b.Type {
	case BackendSay:
		return []string{"-r", wpm, fmt.Sprintf("[[volm %.2f]] %s", v.Volume, text)}
	case BackendEspeakNG, BackendEspeak:
		return []string{
			"-s", wpm,
			"-p", strconv.Itoa(clampInt(int(math.Round(50*v.Pitch)), 0, 99)),
			"-a", strconv.Itoa(clampInt(int(math.Round(100*v.Volume)), 0, 200)),
			text,
		}
	case BackendSpeechDispatcher:
		return []string{
			"-w",
			"-r", strconv.Itoa(clampInt(int(math.Round((v.Rate-1)*100)), -100, 100)),
			"-p", strconv.Itoa(clampInt(int(math.Round((v.Pitch-1)*100)), -100, 100)),
			"-i", strconv.Itoa(clampInt(int(math.Round(v.Volume*200-100)), -100, 100)),
			text,
		}
	}
	return []string{text}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
