package gameplay

import (
	"context"
	"time"

	"go.uber.org/zap"

	engineinput "echogrove/pkg/engine/input"
	"echogrove/pkg/game/state"
)

// TickInterval is how often the loop runs due timers.
const TickInterval = 20 * time.Millisecond

// InputSource yields intents, blocking until one is available.
type InputSource interface {
	GetInput() engineinput.Intent
}

// Frame draws the game.
type Frame func(g *state.Game)

// Run drives the session: it reads intents from src on a separate
// goroutine, applies them and due timers on the calling goroutine, and
// calls render after anything changed. It returns when the player quits or
// ctx is cancelled. A reader blocked in src.GetInput is abandoned on exit.
func (c *Controller) Run(ctx context.Context, src InputSource, render Frame, startLevel int) error {
	if err := c.Begin(startLevel); err != nil {
		return err
	}

	intents := make(chan engineinput.Intent, 16)
	go func() {
		for {
			in := src.GetInput()
			select {
			case intents <- in:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	render(c.g)
	for !c.g.Quit {
		changed := false
		select {
		case <-ctx.Done():
			c.log.Debug("loop cancelled", zap.Error(ctx.Err()))
			return nil
		case in := <-intents:
			c.ProcessIntent(in)
			changed = in.Action != engineinput.ActionNone || in.Code != ""
		case now := <-ticker.C:
			changed = c.Tick(now) > 0
		}
		if changed {
			render(c.g)
		}
	}
	c.log.Info("player quit")
	return nil
}

// Tick runs timers due at now and returns how many fired.
func (c *Controller) Tick(now time.Time) int {
	return c.sched.RunDue(now)
}
