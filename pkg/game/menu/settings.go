package menu

import (
	"fmt"
	"math"

	"github.com/leonelquinteros/gotext"

	"echogrove/pkg/game/cues"
)

// volumeStep is one left/right press on the volume row.
const volumeStep = 0.1

// ModeItem selects one accessibility mode.
type ModeItem struct {
	host Host
	Mode cues.Mode
}

func (m *ModeItem) GetLabel() string { return m.Mode.Title() }
func (m *ModeItem) IsSelectable() bool { return true }
func (m *ModeItem) GetHelpText() string { return m.Mode.Description() }
func (m *ModeItem) IsChecked() bool { return m.host.Mode() == m.Mode }

// ToggleItem flips a boolean setting.
type ToggleItem struct {
	Label string
	Help  string
	Get   func() bool
	Set   func(bool)
}

func (t *ToggleItem) GetLabel() string {
	state := gotext.Get("OFF")
	if t.Get() {
		state = gotext.Get("ON")
	}
	return fmt.Sprintf("%s: %s", t.Label, state)
}
func (t *ToggleItem) IsSelectable() bool { return true }
func (t *ToggleItem) GetHelpText() string { return t.Help }
func (t *ToggleItem) IsChecked() bool { return t.Get() }

// VolumeItem is the master volume slider.
type VolumeItem struct {
	host Host
}

func (v *VolumeItem) GetLabel() string {
	return fmt.Sprintf(gotext.Get("SETTINGS_VOLUME"), int(math.Round(v.host.Volume()*100)))
}
func (v *VolumeItem) IsSelectable() bool { return true }
func (v *VolumeItem) GetHelpText() string { return gotext.Get("SETTINGS_VOLUME_HELP") }

// Adjust moves the volume by one step in the direction of delta.
func (v *VolumeItem) Adjust(delta int) string {
	vol := math.Round((v.host.Volume()+float64(delta)*volumeStep)*10) / 10
	v.host.SetVolume(math.Max(0, math.Min(1, vol)))
	return v.GetLabel()
}

// ActionItem runs a one-shot command.
type ActionItem struct {
	Label string
	Help  string
	Close bool
	Run   func()
}

func (a *ActionItem) GetLabel() string { return a.Label }
func (a *ActionItem) IsSelectable() bool { return true }
func (a *ActionItem) GetHelpText() string { return a.Help }

// SettingsMenuHandler is the accessibility settings overlay.
type SettingsMenuHandler struct {
	host    Host
	inGame  bool
	onClose func()
}

// NewSettingsMenuHandler creates the overlay. inGame adds the restart
// command; onClose runs whenever the overlay exits.
func NewSettingsMenuHandler(host Host, inGame bool, onClose func()) *SettingsMenuHandler {
	return &SettingsMenuHandler{host: host, inGame: inGame, onClose: onClose}
}

// GetTitle returns the menu title.
func (h *SettingsMenuHandler) GetTitle() string {
	return gotext.Get("SETTINGS_TITLE")
}

// GetInstructions returns the menu instructions.
func (h *SettingsMenuHandler) GetInstructions(selected MenuItem) string {
	if _, ok := selected.(*VolumeItem); ok {
		return gotext.Get("SETTINGS_INSTRUCTIONS_VOLUME")
	}
	return gotext.Get("SETTINGS_INSTRUCTIONS")
}

// OnSelect is called when an item is selected.
func (h *SettingsMenuHandler) OnSelect(item MenuItem, index int) {}

// OnActivate is called when an item is activated.
func (h *SettingsMenuHandler) OnActivate(item MenuItem, index int) (shouldClose bool, helpText string) {
	switch it := item.(type) {
	case *ModeItem:
		h.host.SetMode(it.Mode)
		return false, fmt.Sprintf(gotext.Get("MODE_SELECTED"), it.Mode.Title())
	case *ToggleItem:
		it.Set(!it.Get())
		return false, it.GetLabel()
	case *VolumeItem:
		// Enter cycles upward and wraps to silent.
		if h.host.Volume() >= 1 {
			h.host.SetVolume(0)
			return false, it.GetLabel()
		}
		return false, it.Adjust(1)
	case *ActionItem:
		if it.Run != nil {
			it.Run()
		}
		return it.Close, ""
	}
	return false, ""
}

// OnExit is called when the menu is exited.
func (h *SettingsMenuHandler) OnExit() {
	if h.onClose != nil {
		h.onClose()
	}
}

// GetMenuItems returns the menu items for the settings overlay.
func (h *SettingsMenuHandler) GetMenuItems() []MenuItem {
	items := make([]MenuItem, 0, 9)
	for _, m := range cues.Modes() {
		items = append(items, &ModeItem{host: h.host, Mode: m})
	}
	items = append(items,
		&ToggleItem{
			Label: gotext.Get("SETTINGS_TALKBACK"),
			Help:  gotext.Get("SETTINGS_TALKBACK_HELP"),
			Get:   h.host.TalkBack,
			Set:   h.host.SetTalkBack,
		},
		&VolumeItem{host: h.host},
		&ToggleItem{
			Label: gotext.Get("SETTINGS_HAPTICS"),
			Help:  gotext.Get("SETTINGS_HAPTICS_HELP"),
			Get:   h.host.Haptics,
			Set:   h.host.SetHaptics,
		},
		&ActionItem{
			Label: gotext.Get("MENU_BINDINGS"),
			Help:  gotext.Get("MENU_BINDINGS_HELP"),
			Run:   h.host.OpenBindings,
		},
	)
	if h.inGame {
		items = append(items, &ActionItem{
			Label: gotext.Get("SETTINGS_RESTART"),
			Help:  gotext.Get("SETTINGS_RESTART_HELP"),
			Close: true,
			Run:   h.host.Restart,
		})
	}
	items = append(items, &ActionItem{
		Label: gotext.Get("SETTINGS_APPLY"),
		Close: true,
	})
	return items
}
