package gameplay

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/creatures"
	"echogrove/pkg/game/cues"
	"echogrove/pkg/game/level"
	"echogrove/pkg/game/menu"
	"echogrove/pkg/game/proximity"
	"echogrove/pkg/game/state"
)

// Begin opens the title menu, or jumps straight to the intro of
// startLevel when it is past the first grove.
func (c *Controller) Begin(startLevel int) error {
	if startLevel > 1 {
		if !level.Valid(startLevel) {
			return fmt.Errorf("start at level %d: %w", startLevel, level.ErrUnknownLevel)
		}
		c.g.Level = startLevel
		return c.enterLevelIntro()
	}
	c.enterMenu()
	return nil
}

// enterMenu shows the title screen with the welcome narration.
func (c *Controller) enterMenu() {
	c.g.Screen = state.ScreenMenu
	c.resetMenus()
	c.say(gotext.Get("WELCOME"))
	c.pushMenu(menu.NewMainMenuHandler(c))
}

// StartGame begins a new adventure at level 1.
func (c *Controller) StartGame() {
	c.log.Info("game started", zap.Stringer("mode", c.g.Mode))
	c.g.Level = 1
	c.g.Discovered = nil
	if err := c.enterLevelIntro(); err != nil {
		c.log.Error("cannot start level", zap.Error(err))
	}
}

// enterLevelIntro loads the current level's creature and narrates the
// mode instructions.
func (c *Controller) enterLevelIntro() error {
	cr, err := c.data.ForLevel(c.g.Level)
	if err != nil {
		return err
	}
	diff, err := level.DifficultyFor(c.g.Level)
	if err != nil {
		return err
	}

	c.audio.StopAmbience()
	c.resetMenus()
	c.g.ResetLevel()
	c.g.Creature = cr
	c.g.Difficulty = diff
	c.g.Screen = state.ScreenLevelIntro

	c.log.Debug("level intro", zap.Int("level", c.g.Level), zap.String("creature", cr.ID))
	c.announce(IntroText(c.g.Level, cr, c.g.Mode))
	return nil
}

// IntroText is the narration for a level intro in mode.
func IntroText(lvl int, cr creatures.Creature, mode cues.Mode) string {
	var b strings.Builder
	fmt.Fprintf(&b, gotext.Get("LEVEL_INTRO"), lvl, cr.Name)
	switch mode {
	case cues.AudioFirst:
		fmt.Fprintf(&b, gotext.Get("INTRO_AUDIO_FIRST"), cr.Name)
	case cues.VisualFirst:
		fmt.Fprintf(&b, gotext.Get("INTRO_VISUAL_FIRST"), cr.Name)
	default:
		fmt.Fprintf(&b, gotext.Get("INTRO_MULTI_SENSORY"), cr.Name)
	}
	b.WriteString(" ")
	b.WriteString(level.Description(lvl))
	return b.String()
}

// StartLevel leaves the intro and starts the search.
func (c *Controller) StartLevel() {
	if c.g.Screen != state.ScreenLevelIntro {
		return
	}
	c.g.Screen = state.ScreenPlaying
	c.policy.Reset()
	c.placeDistractors()
	c.refreshReading()
	c.syncAmbience()

	c.announce(fmt.Sprintf(gotext.Get("LEVEL_START"), c.g.Level, c.g.Creature.Name))
}

// refreshReading updates the HUD for the current cursor without emitting
// any cues.
func (c *Controller) refreshReading() {
	r := proximity.Compute(c.g.Cursor, c.g.Creature.Position, c.radius())
	p := proximity.Floor(r.Proximity, c.g.Difficulty.MinProximity)
	c.g.Reading = r
	c.g.Feedback = cues.FeedbackFor(c.g.Mode, r.Distance, p)
	c.g.Visual = cues.VisualFor(c.g.Mode, p)
}

func (c *Controller) radius() float64 {
	return c.g.Creature.Radius(c.g.Difficulty)
}

// syncAmbience keeps the forest ambience running only while searching in
// audio-first mode.
func (c *Controller) syncAmbience() {
	if c.g.Screen == state.ScreenPlaying && c.g.Mode == cues.AudioFirst {
		c.audio.StartAmbience()
		return
	}
	c.audio.StopAmbience()
}

// placeDistractors scatters the level's decoys.
func (c *Controller) placeDistractors() {
	n := c.g.Difficulty.DistractorCount
	c.g.Distractors = PlaceDistractors(c.rng, c.g.Area, c.g.Creature.Position, c.radius(), n)
	if n > 0 {
		c.log.Debug("distractors placed", zap.Int("want", n), zap.Int("placed", len(c.g.Distractors)))
	}
}

// PlaceDistractors picks up to n decoy points in area. They keep clear of
// the creature's detection radius and of each other; after enough failed
// attempts fewer than n are returned.
func PlaceDistractors(rng *rand.Rand, area world.Area, creature world.Point, radius float64, n int) []world.Point {
	if n <= 0 {
		return nil
	}
	const minApart = 80.0

	var out []world.Point
	for attempt := 0; len(out) < n && attempt < n*200; attempt++ {
		p := world.Pt(
			distractorMargin+rng.Float64()*(area.Width-2*distractorMargin),
			distractorMargin+rng.Float64()*(area.Height-2*distractorMargin),
		)
		if p.DistanceTo(creature) <= radius {
			continue
		}
		ok := true
		for _, d := range out {
			if p.DistanceTo(d) < minApart {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// LevelComplete moves to the next level intro, or to the completion
// screen after the last level.
func (c *Controller) LevelComplete() {
	if c.g.Screen != state.ScreenPlaying {
		return
	}
	c.narr.CancelSequence()
	c.g.ShowFact = false
	c.g.Narrating = false
	c.g.Countdown = 0
	c.audio.StopAmbience()

	if level.IsFinal(c.g.Level) {
		c.g.Screen = state.ScreenComplete
		c.log.Info("game complete", zap.Strings("discovered", c.g.Discovered))
		c.announce(fmt.Sprintf(gotext.Get("GAME_COMPLETE"), JoinNames(c.g.Discovered)))
		return
	}

	c.g.AdvanceLevel()
	if err := c.enterLevelIntro(); err != nil {
		c.log.Error("cannot enter next level", zap.Error(err))
	}
}

// Restart returns to the title menu at level 1.
func (c *Controller) Restart() {
	c.log.Info("restart")
	c.narr.Silence()
	c.calls.Cancel()
	c.audio.StopAll()
	c.g.Restart()
	c.enterMenu()
}

// Quit ends the session and drops every pending timer.
func (c *Controller) Quit() {
	c.narr.Silence()
	c.audio.StopAll()
	if due, ok := c.sched.NextDue(); ok {
		c.log.Debug("dropping timers",
			zap.Int("pending", c.sched.Pending()),
			zap.Time("next_due", due),
		)
	}
	c.sched.CancelAll()
	c.g.Quit = true
}

// JoinNames lists names as "the A, B, and C".
func JoinNames(names []string) string {
	and := gotext.Get("AND")
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " " + and + " " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", " + and + " " + names[len(names)-1]
}
