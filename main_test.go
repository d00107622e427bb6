package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"echogrove/pkg/game/config"
	"echogrove/pkg/game/cues"
	"echogrove/pkg/game/i18n"
	"echogrove/pkg/game/state"
)

func TestMain(m *testing.M) {
	i18n.MustInit()
	logger = zap.NewNop()
	config.SetCurrent(config.NewStore(nil, zap.NewNop()))
	os.Exit(m.Run())
}

// resetFlags restores the flag variables after a test changes them.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		startLevel = 1
		modeName = ""
		talkBack = true
		dataPath = ""
		heatmapSeed = 1
		heatmapOut = "."
		heatmapText = false
	})
}

func newCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	cmd.Flags().BoolVar(&talkBack, "talkback", true, "")
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func TestNewLoggerDisabled(t *testing.T) {
	l, err := newLogger(false, "")
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echogrove.log")
	l, err := newLogger(true, path)
	require.NoError(t, err)
	l.Debug("hello")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestConfigureGameUsesPreferences(t *testing.T) {
	resetFlags(t)
	cmd, _ := newCmd()
	g := state.NewGame()
	s := config.DefaultSettings()
	s.TalkBack = false
	s.Haptics = false

	require.NoError(t, configureGame(cmd, g, s))
	assert.Equal(t, cues.MultiSensory, g.Mode)
	assert.False(t, g.TalkBack)
	assert.False(t, g.Haptics)
}

func TestConfigureGameFlagsWin(t *testing.T) {
	resetFlags(t)
	cmd, _ := newCmd()
	require.NoError(t, cmd.Flags().Set("talkback", "true"))
	modeName = "audio-first"

	g := state.NewGame()
	s := config.DefaultSettings()
	s.TalkBack = false

	require.NoError(t, configureGame(cmd, g, s))
	assert.Equal(t, cues.AudioFirst, g.Mode)
	assert.True(t, g.TalkBack)
}

func TestConfigureGameRejectsUnknownMode(t *testing.T) {
	resetFlags(t)
	cmd, _ := newCmd()
	modeName = "telepathic"
	err := configureGame(cmd, state.NewGame(), config.DefaultSettings())
	assert.ErrorIs(t, err, cues.ErrUnknownMode)
}

func TestRunCreatures(t *testing.T) {
	resetFlags(t)
	cmd, out := newCmd()
	require.NoError(t, runCreatures(cmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "Owl")
}

func TestRunProbe(t *testing.T) {
	resetFlags(t)
	cmd, out := newCmd()
	modeName = "visual-first"

	require.NoError(t, runProbe(cmd, []string{"620", "140"}))
	assert.Contains(t, out.String(), "auto_found: true")
	assert.Contains(t, out.String(), "mode: visual-first")

	assert.Error(t, runProbe(cmd, []string{"x", "1"}))
}

func TestRunProbeUnknownLevel(t *testing.T) {
	resetFlags(t)
	cmd, _ := newCmd()
	startLevel = 7
	assert.Error(t, runProbe(cmd, []string{"1", "1"}))
}

func TestRunHeatmap(t *testing.T) {
	resetFlags(t)
	cmd, out := newCmd()
	heatmapOut = t.TempDir()
	heatmapText = true
	startLevel = 3

	require.NoError(t, runHeatmap(cmd, nil))
	paths := strings.Fields(out.String())
	require.Len(t, paths, 2)
	assert.True(t, strings.HasSuffix(paths[0], ".html"))
	assert.Equal(t, "map.txt", filepath.Base(paths[1]))
}

func TestLoadDatasetMissingFile(t *testing.T) {
	resetFlags(t)
	dataPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := loadDataset()
	assert.Error(t, err)
}
