package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leonelquinteros/gotext"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"echogrove/pkg/engine/audio"
	"echogrove/pkg/engine/haptics"
	"echogrove/pkg/engine/schedule"
	"echogrove/pkg/engine/speech"
	"echogrove/pkg/engine/terminal"
	"echogrove/pkg/game/config"
	"echogrove/pkg/game/gameplay"
	"echogrove/pkg/game/narration"
	"echogrove/pkg/game/renderer"
	ebitenrenderer "echogrove/pkg/game/renderer/ebiten"
	"echogrove/pkg/game/renderer/tui"
	"echogrove/pkg/game/state"
)

// runPlay wires the engines to a controller and hands it to the chosen
// front end.
func runPlay(cmd *cobra.Command, _ []string) error {
	if rendererName != "tui" && rendererName != "ebiten" {
		return fmt.Errorf("unknown renderer %q (want tui or ebiten)", rendererName)
	}
	ds, err := loadDataset()
	if err != nil {
		return err
	}

	prefs := config.Current()
	g := state.NewGame()
	if err := configureGame(cmd, g, prefs.Settings()); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	acfg := audio.DefaultConfig()
	acfg.MasterVolume = prefs.Settings().MasterVolume
	acfg.AssetsDir = assetsDir
	sound := audio.New(audio.LoadConfig(acfg), logger)
	if err := sound.Start(); err != nil {
		logger.Warn("audio unavailable, running silent", zap.Error(err))
	}
	defer sound.Close()

	synth, err := speech.NewSystem(speech.DefaultVoice(), logger)
	if err != nil {
		logger.Warn("speech unavailable, captions only", zap.Error(err))
	}
	defer synth.Close()

	sched := schedule.New(time.Now)
	rumble := haptics.NewSwitch()
	c := gameplay.New(g, gameplay.Options{
		Dataset:   ds,
		Audio:     sound,
		Haptics:   rumble,
		Narrator:  narration.New(synth, sched, logger),
		Scheduler: sched,
		Prefs:     prefs,
		Log:       logger,
	})

	logger.Info("starting",
		zap.String("renderer", rendererName),
		zap.Int("level", startLevel),
		zap.Stringer("mode", g.Mode),
		zap.Bool("talkback", g.TalkBack))

	play := playTUI
	if rendererName == "ebiten" {
		play = func(ctx context.Context, c *gameplay.Controller) error {
			return playEbiten(ctx, cancel, c, rumble)
		}
	}
	if err := play(ctx, c); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), gotext.Get("GOODBYE"))
	return nil
}

// configureGame applies saved preferences, then any flags given on the
// command line.
func configureGame(cmd *cobra.Command, g *state.Game, s config.Settings) error {
	if m, err := selectedMode(); err == nil {
		g.Mode = m
	} else if modeName != "" {
		return err
	}
	g.TalkBack = s.TalkBack
	if cmd.Flags().Changed("talkback") {
		g.TalkBack = talkBack
	}
	g.Haptics = s.Haptics
	return nil
}

func playTUI(ctx context.Context, c *gameplay.Controller) error {
	t := tui.New()
	t.Init()
	if terminal.IsInteractive() {
		if err := t.EnterRawMode(); err != nil {
			return err
		}
	}
	defer t.Close()

	renderer.SetRenderer(t)
	return c.Run(ctx, renderer.Source{}, renderer.RenderFrame, startLevel)
}

// playEbiten runs the window on the calling goroutine, which must be the
// main one, and the game loop beside it.
func playEbiten(ctx context.Context, cancel context.CancelFunc, c *gameplay.Controller, rumble *haptics.Switch) error {
	e := ebitenrenderer.New(logger)
	e.Init()
	renderer.SetRenderer(e)
	rumble.SetTarget(e)

	var loop errgroup.Group
	loop.Go(func() error {
		defer e.Close()
		return c.Run(ctx, renderer.Source{}, e.RenderFrame, startLevel)
	})

	runErr := e.Run()
	cancel()
	if err := loop.Wait(); err != nil {
		return err
	}
	return runErr
}
