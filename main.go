package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"echogrove/pkg/game/config"
	"echogrove/pkg/game/creatures"
	"echogrove/pkg/game/cues"
	"echogrove/pkg/game/i18n"
)

var (
	rendererName string
	startLevel   int
	modeName     string
	talkBack     bool
	dataPath     string
	assetsDir    string
	lang         string
	verbose      bool
	logFile      string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "echogrove",
	Short: "Echo Grove, an accessible hidden-creature game",
	Long: `Echo Grove hides one forest creature per level. Sweep the grove with the
cursor and follow the tones, glow and vibration until you find it.

Run without a subcommand to play.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose, logFile)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		config.SetCurrent(config.Open(logger))

		l := lang
		if l == "" {
			l = config.Current().Settings().Language
		}
		return i18n.Init(l)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPlay,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Echo Grove",
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rendererName, "renderer", "tui", "Front end: tui or ebiten")
	flags.IntVar(&startLevel, "level", 1, "Level to start at (1-5)")
	flags.StringVar(&modeName, "mode", "", "Accessibility mode: audio-first, visual-first or multi-sensory (default: saved preference)")
	flags.BoolVar(&talkBack, "talkback", true, "Speak narration aloud (default: saved preference)")
	flags.StringVar(&dataPath, "data", "", "Creature dataset YAML (default: built in)")
	flags.StringVar(&assetsDir, "assets", "assets", "Directory holding sounds/creatures and sounds/ambient")
	flags.StringVar(&lang, "lang", "", "Interface language (default: saved preference)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&logFile, "log-file", "echogrove.log", "Log file; empty disables logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(creaturesCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(heatmapCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger writes JSON logs to path. The terminal belongs to the game, so
// nothing is logged to stdout or stderr.
func newLogger(verbose bool, path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func loadDataset() (*creatures.Dataset, error) {
	if dataPath == "" {
		return creatures.Default(), nil
	}
	return creatures.LoadFile(dataPath)
}

// selectedMode is the --mode flag, or the saved preference without it.
func selectedMode() (cues.Mode, error) {
	name := modeName
	if name == "" {
		name = config.Current().Settings().Mode
	}
	return cues.ParseMode(name)
}
