package menu

import (
	"fmt"

	"github.com/leonelquinteros/gotext"

	"echogrove/pkg/game/cues"
)

// Host is the game the menus drive.
type Host interface {
	StartGame()
	Restart()
	Quit()
	OpenSettings()
	OpenBindings()

	Mode() cues.Mode
	SetMode(m cues.Mode)
	TalkBack() bool
	SetTalkBack(on bool)
	Volume() float64
	SetVolume(v float64)
	Haptics() bool
	SetHaptics(on bool)
}

// MainMenuAction represents the action type for main menu items.
type MainMenuAction int

const (
	MainMenuActionBegin MainMenuAction = iota
	MainMenuActionSettings
	MainMenuActionBindings
	MainMenuActionQuit
)

// MainMenuItem represents a menu item in the main menu.
type MainMenuItem struct {
	Label  string
	Action MainMenuAction
}

// GetLabel returns the display label for this menu item.
func (m *MainMenuItem) GetLabel() string {
	return m.Label
}

// IsSelectable returns whether this item can be selected.
func (m *MainMenuItem) IsSelectable() bool {
	return true
}

// GetHelpText returns help text for this menu item.
func (m *MainMenuItem) GetHelpText() string {
	switch m.Action {
	case MainMenuActionBegin:
		return gotext.Get("MENU_BEGIN_HELP")
	case MainMenuActionSettings:
		return gotext.Get("MENU_SETTINGS_HELP")
	case MainMenuActionBindings:
		return gotext.Get("MENU_BINDINGS_HELP")
	case MainMenuActionQuit:
		return gotext.Get("MENU_QUIT_HELP")
	default:
		return ""
	}
}

// MainMenuHandler handles the title screen menu.
type MainMenuHandler struct {
	host Host
}

// NewMainMenuHandler creates a new main menu handler.
func NewMainMenuHandler(host Host) *MainMenuHandler {
	return &MainMenuHandler{host: host}
}

// GetTitle returns the menu title.
func (h *MainMenuHandler) GetTitle() string {
	return gotext.Get("TITLE")
}

// GetInstructions returns the menu instructions.
func (h *MainMenuHandler) GetInstructions(selected MenuItem) string {
	return fmt.Sprintf(gotext.Get("MENU_INSTRUCTIONS"), h.host.Mode().Title())
}

// OnSelect is called when an item is selected.
func (h *MainMenuHandler) OnSelect(item MenuItem, index int) {}

// OnActivate is called when an item is activated.
func (h *MainMenuHandler) OnActivate(item MenuItem, index int) (shouldClose bool, helpText string) {
	mainItem, ok := item.(*MainMenuItem)
	if !ok {
		return false, ""
	}
	switch mainItem.Action {
	case MainMenuActionBegin:
		h.host.StartGame()
		return true, ""
	case MainMenuActionSettings:
		h.host.OpenSettings()
	case MainMenuActionBindings:
		h.host.OpenBindings()
	case MainMenuActionQuit:
		h.host.Quit()
		return true, ""
	}
	return false, ""
}

// OnExit is called when the menu is exited.
func (h *MainMenuHandler) OnExit() {}

// CanClose keeps the title menu open on Back.
func (h *MainMenuHandler) CanClose() bool {
	return false
}

// GetMenuItems returns the menu items for the main menu.
func (h *MainMenuHandler) GetMenuItems() []MenuItem {
	return []MenuItem{
		&MainMenuItem{Label: gotext.Get("MENU_BEGIN"), Action: MainMenuActionBegin},
		&MainMenuItem{Label: gotext.Get("MENU_SETTINGS"), Action: MainMenuActionSettings},
		&MainMenuItem{Label: gotext.Get("MENU_BINDINGS"), Action: MainMenuActionBindings},
		&MainMenuItem{Label: gotext.Get("MENU_QUIT"), Action: MainMenuActionQuit},
	}
}
