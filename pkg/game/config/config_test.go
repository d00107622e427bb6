package config

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestManager(t *testing.T, name string) *gdata.Manager {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	m, err := gdata.Open(gdata.Config{AppName: name})
	require.NoError(t, err)
	return m
}

func TestMemoryStoreDefaults(t *testing.T) {
	s := NewStore(nil, zap.NewNop())

	assert.False(t, s.Persistent())
	assert.Equal(t, DefaultSettings(), s.Settings())
	assert.NoError(t, s.SetTalkBack(false))
	assert.False(t, s.Settings().TalkBack)
}

func TestStoreRoundTrip(t *testing.T) {
	m := openTestManager(t, "echogrove_test_roundtrip")

	s := NewStore(m, zap.NewNop())
	require.True(t, s.Persistent())
	require.NoError(t, s.SetMode("audio-first"))
	require.NoError(t, s.SetMasterVolume(0.25))
	require.NoError(t, s.SetHaptics(false))
	require.NoError(t, s.SetTileSize(32))

	reopened := NewStore(m, zap.NewNop())
	got := reopened.Settings()
	assert.Equal(t, "audio-first", got.Mode)
	assert.InDelta(t, 0.25, got.MasterVolume, 1e-9)
	assert.False(t, got.Haptics)
	assert.Equal(t, 32, reopened.TileSize())
}

func TestSanitize(t *testing.T) {
	s := NewStore(nil, nil)

	require.NoError(t, s.SetMasterVolume(3))
	assert.Equal(t, 1.0, s.Settings().MasterVolume)

	require.NoError(t, s.SetTileSize(1000))
	assert.Equal(t, MaxTileSize, s.TileSize())

	require.NoError(t, s.SetTileSize(1))
	assert.Equal(t, MinTileSize, s.TileSize())
}

func TestCorruptPreferencesFallBack(t *testing.T) {
	m := openTestManager(t, "echogrove_test_corrupt")
	require.NoError(t, m.SaveObjectProp(settingsObject, settingsProperty, []byte("mode: [unclosed")))

	s := NewStore(m, zap.NewNop())
	assert.Equal(t, DefaultSettings(), s.Settings())
}

func TestCurrent(t *testing.T) {
	prev := Current()
	defer SetCurrent(prev)

	s := NewStore(nil, nil)
	SetCurrent(s)
	assert.Same(t, s, Current())
}
