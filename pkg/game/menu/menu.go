// Package menu provides a generic menu system for the game.
//
// Menus are driven one intent at a time by the game loop rather than
// blocking on input, so proximity cues, narration and timers keep running
// while a menu is open.
package menu

import (
	"fmt"

	engineinput "echogrove/pkg/engine/input"
	"echogrove/pkg/game/state"
)

// MenuItem represents a single item in a menu.
type MenuItem interface {
	// GetLabel returns the display label for this menu item.
	GetLabel() string
	// IsSelectable returns whether this item can be selected.
	IsSelectable() bool
	// GetHelpText returns optional help text for this item.
	GetHelpText() string
}

// Checkable items show a checked/unchecked marker (radio and toggle rows).
type Checkable interface {
	IsChecked() bool
}

// Adjustable items react to left/right, e.g. a volume slider.
type Adjustable interface {
	Adjust(delta int) (helpText string)
}

// MenuHandler handles menu item selection and activation.
type MenuHandler interface {
	// OnSelect is called when an item is selected (navigated to).
	OnSelect(item MenuItem, index int)
	// OnActivate is called when an item is activated (e.g., Enter pressed).
	// Returns true if the menu should close, and any help text to display.
	OnActivate(item MenuItem, index int) (shouldClose bool, helpText string)
	// OnExit is called when the menu is exited.
	OnExit()
	// GetTitle returns the menu title.
	GetTitle() string
	// GetInstructions returns the menu instructions.
	GetInstructions(selected MenuItem) string
	// GetMenuItems returns the current items. It is called on every input
	// so labels can reflect changed settings.
	GetMenuItems() []MenuItem
}

// CaptureHandler is an optional interface for handlers that sometimes want
// the next raw key instead of a navigation action (rebinding).
type CaptureHandler interface {
	Capturing() bool
	// Capture receives the raw code and returns the new help text.
	Capture(code string) string
}

// Closable lets the menu's owner refuse Back, e.g. on the title screen.
type Closable interface {
	CanClose() bool
}

// Announcer speaks menu focus changes.
type Announcer func(text string)

// Menu is one open menu.
type Menu struct {
	handler  MenuHandler
	selected int
	helpText string
	closed   bool
	announce Announcer
}

// New opens a menu on handler with the first selectable item focused.
func New(handler MenuHandler, announce Announcer) *Menu {
	m := &Menu{handler: handler, announce: announce}
	m.selected = firstSelectable(handler.GetMenuItems())
	return m
}

// Handler returns the menu's handler.
func (m *Menu) Handler() MenuHandler {
	return m.handler
}

// Closed reports whether the menu has exited.
func (m *Menu) Closed() bool {
	return m.closed
}

// Selected returns the focused index.
func (m *Menu) Selected() int {
	return m.selected
}

// Capturing reports whether the menu is waiting for a raw key.
func (m *Menu) Capturing() bool {
	ch, ok := m.handler.(CaptureHandler)
	return ok && ch.Capturing()
}

// FocusText describes the title and focused item, for narration when the
// menu opens.
func (m *Menu) FocusText() string {
	items := m.handler.GetMenuItems()
	if m.selected >= len(items) {
		return m.handler.GetTitle()
	}
	return fmt.Sprintf("%s. %s", m.handler.GetTitle(), describe(items[m.selected]))
}

// Close exits the menu as if Back was pressed, ignoring Closable.
func (m *Menu) Close() {
	if !m.closed {
		m.close()
	}
}

// Handle applies one intent and reports whether the menu closed.
func (m *Menu) Handle(intent engineinput.Intent) bool {
	if m.closed {
		return true
	}
	items := m.handler.GetMenuItems()
	if len(items) == 0 {
		m.close()
		return true
	}
	if m.selected >= len(items) || !items[m.selected].IsSelectable() {
		m.selected = firstSelectable(items)
	}

	if m.Capturing() {
		if intent.Code != "" {
			m.helpText = m.handler.(CaptureHandler).Capture(intent.Code)
			m.say(m.helpText)
		}
		return false
	}

	switch intent.Action {
	case engineinput.ActionMoveNorth:
		m.focus(items, prevSelectable(items, m.selected))
	case engineinput.ActionMoveSouth:
		m.focus(items, nextSelectable(items, m.selected))
	case engineinput.ActionMoveWest, engineinput.ActionMoveEast:
		delta := 1
		if intent.Action == engineinput.ActionMoveWest {
			delta = -1
		}
		if adj, ok := items[m.selected].(Adjustable); ok {
			m.helpText = adj.Adjust(delta)
			m.say(m.helpText)
		}
	case engineinput.ActionConfirm:
		if items[m.selected].IsSelectable() {
			shouldClose, help := m.handler.OnActivate(items[m.selected], m.selected)
			m.helpText = help
			if shouldClose {
				m.close()
				return true
			}
			m.say(help)
		}
	case engineinput.ActionBack, engineinput.ActionSettings:
		if c, ok := m.handler.(Closable); ok && !c.CanClose() {
			return false
		}
		m.close()
		return true
	}
	return false
}

// View renders the menu for the renderers.
func (m *Menu) View() *state.MenuView {
	items := m.handler.GetMenuItems()
	v := &state.MenuView{
		Title:    m.handler.GetTitle(),
		Help:     m.helpText,
		Selected: m.selected,
		Lines:    make([]state.MenuLine, len(items)),
	}
	var sel MenuItem
	if m.selected < len(items) {
		sel = items[m.selected]
	}
	v.Instructions = m.handler.GetInstructions(sel)
	if v.Help == "" && sel != nil {
		v.Help = sel.GetHelpText()
	}
	for i, it := range items {
		line := state.MenuLine{Label: it.GetLabel(), Selectable: it.IsSelectable()}
		if c, ok := it.(Checkable); ok {
			line.Checked = c.IsChecked()
		}
		v.Lines[i] = line
	}
	return v
}

func (m *Menu) focus(items []MenuItem, idx int) {
	if idx == m.selected {
		return
	}
	m.selected = idx
	m.helpText = ""
	m.handler.OnSelect(items[idx], idx)
	m.say(describe(items[idx]))
}

func (m *Menu) close() {
	m.closed = true
	m.handler.OnExit()
}

func (m *Menu) say(text string) {
	if m.announce != nil && text != "" {
		m.announce(text)
	}
}

func describe(it MenuItem) string {
	if help := it.GetHelpText(); help != "" {
		return it.GetLabel() + ". " + help
	}
	return it.GetLabel()
}

func firstSelectable(items []MenuItem) int {
	for i, item := range items {
		if item.IsSelectable() {
			return i
		}
	}
	return 0
}

// prevSelectable moves up with wrap-around.
func prevSelectable(items []MenuItem, from int) int {
	for i := from - 1; i >= 0; i-- {
		if items[i].IsSelectable() {
			return i
		}
	}
	for i := len(items) - 1; i > from; i-- {
		if items[i].IsSelectable() {
			return i
		}
	}
	return from
}

// nextSelectable moves down with wrap-around.
func nextSelectable(items []MenuItem, from int) int {
	for i := from + 1; i < len(items); i++ {
		if items[i].IsSelectable() {
			return i
		}
	}
	for i := 0; i < from; i++ {
		if items[i].IsSelectable() {
			return i
		}
	}
	return from
}
