package gameplay

import (
	"fmt"

	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	engineinput "echogrove/pkg/engine/input"
	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/config"
	"echogrove/pkg/game/cues"
	"echogrove/pkg/game/menu"
	"echogrove/pkg/game/state"
)

// ProcessIntent handles a high-level input intent from the tiered input system.
func (c *Controller) ProcessIntent(intent engineinput.Intent) {
	defer c.refreshMenuView()

	if top := c.topMenu(); top != nil && top.Capturing() {
		c.handleMenu(top, intent)
		return
	}

	switch intent.Action {
	case engineinput.ActionNone, engineinput.ActionZoomIn, engineinput.ActionZoomOut:
		// Zoom is applied by the renderer.
		return
	case engineinput.ActionQuit:
		c.Quit()
		return
	case engineinput.ActionSettings:
		c.ToggleSettings()
		return
	case engineinput.ActionRepeat:
		c.RepeatNarration()
		return
	case engineinput.ActionCycleMode:
		c.SetMode(c.g.Mode.Next())
		c.announce(fmt.Sprintf(gotext.Get("MODE_SELECTED"), c.g.Mode.Title()))
		return
	case engineinput.ActionToggleTalkBack:
		c.SetTalkBack(!c.g.TalkBack)
		return
	}

	if top := c.topMenu(); top != nil {
		c.handleMenu(top, intent)
		return
	}

	switch c.g.Screen {
	case state.ScreenLevelIntro:
		switch intent.Action {
		case engineinput.ActionConfirm:
			c.StartLevel()
		case engineinput.ActionHint:
			c.announce(IntroText(c.g.Level, c.g.Creature, c.g.Mode))
		}
	case state.ScreenPlaying:
		c.processPlaying(intent)
	case state.ScreenComplete:
		if intent.Action == engineinput.ActionConfirm {
			c.Restart()
		}
	}
}

func (c *Controller) processPlaying(intent engineinput.Intent) {
	switch intent.Action {
	case engineinput.ActionMoveNorth:
		c.MoveCursor(world.North)
	case engineinput.ActionMoveSouth:
		c.MoveCursor(world.South)
	case engineinput.ActionMoveWest:
		c.MoveCursor(world.West)
	case engineinput.ActionMoveEast:
		c.MoveCursor(world.East)
	case engineinput.ActionPointer:
		c.SetPointer(intent.Pointer)
	case engineinput.ActionConfirm:
		c.Confirm()
	case engineinput.ActionBack:
		c.CloseFact()
	case engineinput.ActionHint:
		c.DescribeWarmth()
	}
}

func (c *Controller) topMenu() *menu.Menu {
	if len(c.menus) == 0 {
		return nil
	}
	return c.menus[len(c.menus)-1]
}

// handleMenu feeds intent to m and drops it from the stack once closed.
// Activation may itself replace the stack (Begin, Restart), so m is
// removed by identity.
func (c *Controller) handleMenu(m *menu.Menu, intent engineinput.Intent) {
	if m.Handle(intent) {
		c.removeMenu(m)
	}
}

func (c *Controller) pushMenu(h menu.MenuHandler) *menu.Menu {
	m := menu.New(h, c.announce)
	c.menus = append(c.menus, m)
	c.say(m.FocusText())
	return m
}

func (c *Controller) removeMenu(m *menu.Menu) {
	for i, open := range c.menus {
		if open == m {
			c.menus = append(c.menus[:i], c.menus[i+1:]...)
			return
		}
	}
}

// resetMenus drops every open menu without running exit hooks.
func (c *Controller) resetMenus() {
	c.menus = nil
	c.settings = nil
	c.g.Settings = false
	c.g.Menu = nil
}

func (c *Controller) refreshMenuView() {
	if top := c.topMenu(); top != nil {
		c.g.Menu = top.View()
		return
	}
	c.g.Menu = nil
}

// ToggleSettings opens or closes the accessibility settings overlay.
func (c *Controller) ToggleSettings() {
	defer c.refreshMenuView()
	if c.settings != nil {
		c.closeSettings()
		return
	}
	c.OpenSettings()
}

// OpenSettings shows the settings overlay.
func (c *Controller) OpenSettings() {
	if c.settings != nil {
		return
	}
	inGame := c.g.Screen != state.ScreenMenu
	c.g.Settings = true
	c.announce(gotext.Get("SETTINGS_OPENED"))
	c.settings = c.pushMenu(menu.NewSettingsMenuHandler(c, inGame, c.settingsClosed))
}

// closeSettings closes the overlay and anything opened on top of it.
func (c *Controller) closeSettings() {
	for len(c.menus) > 0 {
		top := c.topMenu()
		c.removeMenu(top)
		if top == c.settings {
			top.Close()
			return
		}
		top.Close()
	}
}

// settingsClosed runs when the settings menu exits by any route.
func (c *Controller) settingsClosed() {
	if c.settings == nil {
		return
	}
	c.settings = nil
	c.g.Settings = false
	c.announce(gotext.Get("SETTINGS_CLOSED"))
}

// OpenBindings shows the key bindings menu.
func (c *Controller) OpenBindings() {
	c.pushMenu(menu.NewBindingsMenuHandler())
}

// Mode returns the accessibility mode.
func (c *Controller) Mode() cues.Mode {
	return c.g.Mode
}

// SetMode switches the accessibility mode. Cue throttling restarts and
// the ambience follows the new mode.
func (c *Controller) SetMode(m cues.Mode) {
	if c.g.Mode == m {
		return
	}
	c.log.Info("mode changed", zap.Stringer("from", c.g.Mode), zap.Stringer("to", m))
	c.g.Mode = m
	c.policy = cues.NewPolicy(m)
	if c.g.Screen == state.ScreenPlaying {
		c.refreshReading()
	}
	c.syncAmbience()
	c.savePrefs(func(s *config.Store) error { return s.SetMode(m.String()) })
}

// TalkBack reports whether narration is spoken.
func (c *Controller) TalkBack() bool {
	return c.g.TalkBack
}

// SetTalkBack turns spoken narration on or off. Captions continue either way.
func (c *Controller) SetTalkBack(on bool) {
	c.g.TalkBack = on
	c.narr.SetTalkBack(on)
	if on {
		c.announce(gotext.Get("TALKBACK_ON"))
	} else {
		c.g.AddMessage(gotext.Get("TALKBACK_OFF"))
	}
	c.savePrefs(func(s *config.Store) error { return s.SetTalkBack(on) })
}

// Volume returns the master volume.
func (c *Controller) Volume() float64 {
	return c.audio.MasterVolume()
}

// SetVolume sets the master volume.
func (c *Controller) SetVolume(v float64) {
	c.audio.SetMasterVolume(v)
	c.savePrefs(func(s *config.Store) error { return s.SetMasterVolume(v) })
}

// Haptics reports whether vibration is enabled.
func (c *Controller) Haptics() bool {
	return c.g.Haptics
}

// SetHaptics enables or disables vibration.
func (c *Controller) SetHaptics(on bool) {
	c.g.Haptics = on
	if c.haptics != nil {
		c.haptics.SetEnabled(on)
	}
	c.savePrefs(func(s *config.Store) error { return s.SetHaptics(on) })
}
