// Package config persists player preferences between sessions.
package config

import (
	"fmt"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AppName is the gdata application name; it picks the storage directory.
const AppName = "echogrove"

const (
	settingsObject   = "settings"
	settingsProperty = "preferences"
)

// Tile size bounds used by the graphical renderer's zoom.
const (
	MinTileSize     = 12
	MaxTileSize     = 48
	DefaultTileSize = 20
)

// Settings are the persisted preferences.
type Settings struct {
	Mode         string  `yaml:"mode"`
	TalkBack     bool    `yaml:"talkback"`
	MasterVolume float64 `yaml:"master_volume"`
	Haptics      bool    `yaml:"haptics"`
	TileSize     int     `yaml:"tile_size"`
	Language     string  `yaml:"language"`
}

// DefaultSettings returns the settings for a first run.
func DefaultSettings() Settings {
	return Settings{
		Mode:         "multi-sensory",
		TalkBack:     true,
		MasterVolume: 0.8,
		Haptics:      true,
		TileSize:     DefaultTileSize,
		Language:     "en",
	}
}

// Store holds the current settings and saves them through gdata. A Store
// without a manager keeps settings in memory only.
type Store struct {
	mu       sync.Mutex
	manager  *gdata.Manager
	settings Settings
	log      *zap.Logger
}

var (
	currentMu sync.Mutex
	current   = &Store{settings: DefaultSettings(), log: zap.NewNop()}
)

// Current returns the process-wide store.
func Current() *Store {
	currentMu.Lock()
	defer currentMu.Unlock()
	return current
}

// SetCurrent replaces the process-wide store.
func SetCurrent(s *Store) {
	currentMu.Lock()
	current = s
	currentMu.Unlock()
}

// Open creates a store backed by gdata storage for AppName. When storage
// cannot be opened the store degrades to memory-only and the error is
// logged, not returned.
func Open(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Warn("preferences storage unavailable, using memory only", zap.Error(err))
		m = nil
	}
	return NewStore(m, log)
}

// NewStore creates a store over m (which may be nil) and loads any saved
// settings.
func NewStore(m *gdata.Manager, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{manager: m, settings: DefaultSettings(), log: log.Named("config")}
	if err := s.Load(); err != nil {
		s.log.Warn("could not load preferences, using defaults", zap.Error(err))
	}
	return s
}

// Persistent reports whether settings survive the process.
func (s *Store) Persistent() bool {
	return s.manager != nil
}

// Load reads saved settings, falling back to defaults when none exist.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = DefaultSettings()
	if s.manager == nil || !s.manager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := s.manager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse preferences: %w", err)
	}
	s.settings = sanitize(loaded)
	return nil
}

// Save writes the settings. Memory-only stores succeed without writing.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.manager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	s.log.Debug("preferences saved")
	return nil
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Update applies fn to the settings and saves them.
func (s *Store) Update(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.settings)
	s.settings = sanitize(s.settings)
	return s.saveLocked()
}

// SetTileSize stores the renderer zoom level.
func (s *Store) SetTileSize(size int) error {
	return s.Update(func(st *Settings) { st.TileSize = size })
}

// TileSize returns the stored zoom level.
func (s *Store) TileSize() int {
	return s.Settings().TileSize
}

// SetMode stores the accessibility mode name.
func (s *Store) SetMode(mode string) error {
	return s.Update(func(st *Settings) { st.Mode = mode })
}

// SetTalkBack stores the talk-back preference.
func (s *Store) SetTalkBack(on bool) error {
	return s.Update(func(st *Settings) { st.TalkBack = on })
}

// SetMasterVolume stores the master volume, clamped to [0,1].
func (s *Store) SetMasterVolume(v float64) error {
	return s.Update(func(st *Settings) { st.MasterVolume = v })
}

// SetHaptics stores the vibration preference.
func (s *Store) SetHaptics(on bool) error {
	return s.Update(func(st *Settings) { st.Haptics = on })
}

func sanitize(st Settings) Settings {
	if st.MasterVolume < 0 {
		st.MasterVolume = 0
	}
	if st.MasterVolume > 1 {
		st.MasterVolume = 1
	}
	if st.TileSize < MinTileSize {
		st.TileSize = MinTileSize
	}
	if st.TileSize > MaxTileSize {
		st.TileSize = MaxTileSize
	}
	if st.Language == "" {
		st.Language = "en"
	}
	return st
}
