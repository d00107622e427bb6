package audio

import (
	"os"
	"strconv"
)

const (
	DefaultSampleRate   = 44100
	DefaultMasterVolume = 0.8
)

// Config controls the audio engine.
type Config struct {
	Enabled      bool
	MasterVolume float64 // 0.0-1.0
	SampleRate   int
	AssetsDir    string // root holding sounds/creatures and sounds/ambient
}

// DefaultConfig returns audio enabled at the default volume.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		MasterVolume: DefaultMasterVolume,
		SampleRate:   DefaultSampleRate,
		AssetsDir:    "assets",
	}
}

// LoadConfig applies environment overrides on top of cfg.
func LoadConfig(cfg Config) Config {
	if enabled := os.Getenv("ECHOGROVE_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume is given as 0-100.
	if volume := os.Getenv("ECHOGROVE_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clampVolume(float64(val) / 100.0)
		}
	}

	if sampleRate := os.Getenv("ECHOGROVE_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
