package menu

import (
	"fmt"
	"strings"

	"github.com/leonelquinteros/gotext"

	engineinput "echogrove/pkg/engine/input"
)

// BindingMenuItem represents a menu item for a key binding.
type BindingMenuItem struct {
	Action        engineinput.Action
	NonRebindable bool
}

// GetLabel returns the display label for this binding menu item.
func (b *BindingMenuItem) GetLabel() string {
	name := engineinput.ActionName(b.Action)
	codes := engineinput.GetBindingsByAction()[b.Action]
	codeText := strings.Join(codes, ", ")
	if codeText == "" {
		codeText = gotext.Get("BINDING_UNBOUND")
	}
	if b.NonRebindable {
		return fmt.Sprintf("%s: %s %s", name, codeText, gotext.Get("BINDING_FIXED"))
	}
	return fmt.Sprintf("%s: %s", name, codeText)
}

// IsSelectable returns whether this binding can be selected.
func (b *BindingMenuItem) IsSelectable() bool {
	return true
}

// GetHelpText returns help text for this binding.
func (b *BindingMenuItem) GetHelpText() string {
	if b.NonRebindable {
		return ""
	}
	return fmt.Sprintf(gotext.Get("BINDING_EDIT_HELP"), engineinput.ActionName(b.Action))
}

// BindingsMenuHandler handles the bindings menu. Activating a rebindable
// row waits for the next key, which becomes that action's only custom key.
type BindingsMenuHandler struct {
	actions   []engineinput.Action
	capturing *BindingMenuItem
}

// NewBindingsMenuHandler creates a new bindings menu handler.
func NewBindingsMenuHandler() *BindingsMenuHandler {
	return &BindingsMenuHandler{
		actions: []engineinput.Action{
			engineinput.ActionMoveNorth,
			engineinput.ActionMoveSouth,
			engineinput.ActionMoveWest,
			engineinput.ActionMoveEast,
			engineinput.ActionConfirm,
			engineinput.ActionBack,
			engineinput.ActionSettings,
			engineinput.ActionHint,
			engineinput.ActionRepeat,
			engineinput.ActionCycleMode,
			engineinput.ActionToggleTalkBack,
			engineinput.ActionQuit,
			engineinput.ActionZoomIn,
			engineinput.ActionZoomOut,
		},
	}
}

// GetTitle returns the menu title.
func (h *BindingsMenuHandler) GetTitle() string {
	return gotext.Get("BINDINGS_TITLE")
}

// GetInstructions returns the menu instructions.
func (h *BindingsMenuHandler) GetInstructions(selected MenuItem) string {
	if h.capturing != nil {
		return fmt.Sprintf(gotext.Get("BINDING_PRESS_KEY"), engineinput.ActionName(h.capturing.Action))
	}
	if b, ok := selected.(*BindingMenuItem); ok && !b.NonRebindable {
		return gotext.Get("BINDINGS_INSTRUCTIONS_EDIT")
	}
	return gotext.Get("BINDINGS_INSTRUCTIONS")
}

// OnSelect is called when an item is selected.
func (h *BindingsMenuHandler) OnSelect(item MenuItem, index int) {}

// OnActivate starts capturing a key for a rebindable row.
func (h *BindingsMenuHandler) OnActivate(item MenuItem, index int) (shouldClose bool, helpText string) {
	bindingItem, ok := item.(*BindingMenuItem)
	if !ok || bindingItem.NonRebindable {
		return false, ""
	}
	h.capturing = bindingItem
	return false, fmt.Sprintf(gotext.Get("BINDING_PRESS_KEY"), engineinput.ActionName(bindingItem.Action))
}

// Capturing reports whether the next key is a new binding.
func (h *BindingsMenuHandler) Capturing() bool {
	return h.capturing != nil
}

// Capture binds code to the captured action. Escape cancels.
func (h *BindingsMenuHandler) Capture(code string) string {
	item := h.capturing
	h.capturing = nil
	if item == nil || code == "" || code == "escape" || code == "gamepad_b" {
		return gotext.Get("BINDING_CANCELLED")
	}
	engineinput.SetSingleBinding(item.Action, code)
	return fmt.Sprintf(gotext.Get("BINDING_SET"), engineinput.ActionName(item.Action), code)
}

// OnExit is called when the menu is exited.
func (h *BindingsMenuHandler) OnExit() {
	h.capturing = nil
}

// GetMenuItems returns the menu items for the bindings menu.
func (h *BindingsMenuHandler) GetMenuItems() []MenuItem {
	items := make([]MenuItem, len(h.actions))
	for i, action := range h.actions {
		items[i] = &BindingMenuItem{
			Action:        action,
			NonRebindable: !engineinput.IsRebindable(action),
		}
	}
	return items
}
