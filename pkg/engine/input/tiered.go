package input

import (
	"sort"
	"sync"
	"time"

	"echogrove/pkg/engine/world"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceGamepad
	DeviceTerminal
	DeviceMouse
	DeviceTouch
)

// Action represents a high‑level intent in the game.
type Action int

const (
	ActionNone Action = iota

	// Cursor movement
	ActionMoveNorth
	ActionMoveSouth
	ActionMoveWest
	ActionMoveEast
	ActionPointer // Absolute cursor position from mouse or touch

	// Meta / UI
	ActionConfirm        // Enter / Space / A: activate, begin, "found it"
	ActionBack           // Escape / B: close overlay or fact box
	ActionSettings       // Toggle the accessibility settings overlay
	ActionHint           // Describe how warm the cursor is
	ActionRepeat         // Repeat the last narration
	ActionCycleMode      // Next accessibility mode
	ActionToggleTalkBack // Talk-back on/off
	ActionQuit
	ActionZoomIn  // Zoom in (increase font/tile size)
	ActionZoomOut // Zoom out (decrease font/tile size)
)

// Intent is the 4th‑layer, high‑level description of what the player wants to do.
// Pointer is only meaningful for ActionPointer. Code keeps the raw code that
// produced the intent so the bindings menu can capture new keys.
type Intent struct {
	Action  Action
	Pointer world.Point
	Code    string
}

// PointerIntent builds an intent that places the cursor at p.
func PointerIntent(p world.Point) Intent {
	return Intent{Action: ActionPointer, Pointer: p}
}

// RawInput is the 1st‑layer event emitted directly from an input device.
// Code is a device‑specific identifier (e.g. "arrow_up", "gamepad_a").
type RawInput struct {
	Device    Device
	Code      string
	Timestamp time.Time
}

// DebouncedInput is the 2nd‑layer representation after debouncing.
// Key repeat is handled by the renderers (Ebiten repeat timers, terminal
// auto-repeat), so this stays a thin copy.
type DebouncedInput struct {
	Device Device
	Code   string
}

// NewDebouncedInput converts a raw event to a debounced event.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device: raw.Device,
		Code:   raw.Code,
	}
}

// reserved codes can never be rebound or unbound through the bindings menu.
var reserved = map[string]bool{
	"arrow_up":    true,
	"arrow_down":  true,
	"arrow_left":  true,
	"arrow_right": true,
	"enter":       true,
	"space":       true,
	"escape":      true,
	"gamepad_a":   true,
	"gamepad_b":   true,

	"gamepad_dpad_up":    true,
	"gamepad_dpad_down":  true,
	"gamepad_dpad_left":  true,
	"gamepad_dpad_right": true,
}

// defaultBindings is the table restored by ResetBindings.
var defaultBindings = map[string]Action{
	// Movement (arrows, Vim)
	"arrow_up":    ActionMoveNorth,
	"k":           ActionMoveNorth,
	"arrow_down":  ActionMoveSouth,
	"j":           ActionMoveSouth,
	"arrow_left":  ActionMoveWest,
	"h":           ActionMoveWest,
	"arrow_right": ActionMoveEast,
	"l":           ActionMoveEast,

	"enter":  ActionConfirm,
	"space":  ActionConfirm,
	"escape": ActionBack,

	"tab": ActionSettings,
	"f2":  ActionSettings,

	"?": ActionHint,
	"r": ActionRepeat,
	"m": ActionCycleMode,
	"t": ActionToggleTalkBack,
	"q": ActionQuit,

	// Zoom (fixed bindings, not rebindable)
	"=":               ActionZoomIn,
	"+":               ActionZoomIn,
	"numpad_add":      ActionZoomIn,
	"-":               ActionZoomOut,
	"numpad_subtract": ActionZoomOut,

	// Controller/gamepad specific bindings
	"gamepad_dpad_up":    ActionMoveNorth,
	"gamepad_dpad_down":  ActionMoveSouth,
	"gamepad_dpad_left":  ActionMoveWest,
	"gamepad_dpad_right": ActionMoveEast,
	"gamepad_a":          ActionConfirm,  // A button / Cross
	"gamepad_b":          ActionBack,     // B button / Circle
	"gamepad_y":          ActionHint,     // Y button / Triangle
	"gamepad_start":      ActionSettings, // Start button
}

// bindings maps raw codes to actions (3rd-layer bindings).
// Multiple codes may point to the same Action. Input goroutines read it
// while the game loop rebinds, so access goes through bindingsMu.
var (
	bindingsMu sync.RWMutex
	bindings   = cloneBindings(defaultBindings)
)

func cloneBindings(src map[string]Action) map[string]Action {
	out := make(map[string]Action, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// ResetBindings restores the default key table.
func ResetBindings() {
	bindingsMu.Lock()
	defer bindingsMu.Unlock()
	bindings = cloneBindings(defaultBindings)
}

// MapToIntent is the 3rd+4th layer: it applies the current bindings to a
// debounced input and returns a high‑level Intent.
func MapToIntent(ev DebouncedInput) Intent {
	bindingsMu.RLock()
	defer bindingsMu.RUnlock()
	if act, ok := bindings[ev.Code]; ok {
		return Intent{Action: act, Code: ev.Code}
	}
	return Intent{Action: ActionNone, Code: ev.Code}
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionMoveNorth:
		return "Move Up"
	case ActionMoveSouth:
		return "Move Down"
	case ActionMoveWest:
		return "Move Left"
	case ActionMoveEast:
		return "Move Right"
	case ActionPointer:
		return "Pointer"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionSettings:
		return "Settings"
	case ActionHint:
		return "Describe Warmth"
	case ActionRepeat:
		return "Repeat Narration"
	case ActionCycleMode:
		return "Next Mode"
	case ActionToggleTalkBack:
		return "Toggle Talk-Back"
	case ActionQuit:
		return "Quit"
	case ActionZoomIn:
		return "Zoom In"
	case ActionZoomOut:
		return "Zoom Out"
	default:
		return "None"
	}
}

// GetBindingsByAction returns the current bindings grouped by action.
func GetBindingsByAction() map[Action][]string {
	bindingsMu.RLock()
	defer bindingsMu.RUnlock()
	result := make(map[Action][]string)
	for code, act := range bindings {
		result[act] = append(result[act], code)
	}
	// Stable ordering so menus don't flicker.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}

// IsRebindable reports whether the bindings menu may change a.
func IsRebindable(a Action) bool {
	switch a {
	case ActionNone, ActionPointer, ActionConfirm, ActionBack, ActionZoomIn, ActionZoomOut:
		return false
	}
	return true
}

// SetSingleBinding replaces all bindings for the given action with a single code.
// Reserved codes keep their meaning and cannot be taken by another action.
func SetSingleBinding(action Action, code string) {
	if !IsRebindable(action) {
		return
	}
	bindingsMu.Lock()
	defer bindingsMu.Unlock()
	for c, a := range bindings {
		if reserved[c] {
			continue
		}
		if a == action {
			delete(bindings, c)
		}
	}
	if code != "" && !reserved[code] {
		bindings[code] = action
	}
}
