package ebiten

import (
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	engineinput "echogrove/pkg/engine/input"
	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/config"
	"echogrove/pkg/game/state"
)

// Update handles input and animation (Ebiten interface). It never touches
// the game state; intents go to the game loop through inputChan.
func (e *EbitenRenderer) Update() error {
	select {
	case <-e.done:
		return ebiten.Termination
	default:
	}

	// Log window opening on first update (confirms window is actually running)
	if !e.windowOpenedLogged {
		e.windowOpenedLogged = true
		w, h := ebiten.WindowSize()
		e.log.Info("window opened", zap.Int("width", w), zap.Int("height", h))
	}

	e.snapshotMutex.RLock()
	screen := e.snapshot.game.Screen
	playing := e.snapshot.valid && e.snapshot.game.Playing() && e.snapshot.game.Menu == nil
	area := e.snapshot.game.Area
	e.snapshotMutex.RUnlock()

	if screen == state.ScreenMenu {
		e.updateLeaves(e.windowWidth, e.windowHeight)
	}

	if inpututil.IsKeyJustPressed(ebiten.Key0) || inpututil.IsKeyJustPressed(ebiten.KeyNumpad0) {
		e.setTileSize(config.DefaultTileSize)
	}

	// Check for gamepad input first, then fall back to keyboard (raw layer)
	if intent := e.checkGamepadInput(); intent.Action != engineinput.ActionNone {
		e.send(intent)
	} else if intent := e.checkInput(); intent.Action != engineinput.ActionNone || intent.Code != "" {
		e.applyZoom(intent.Action)
		e.send(intent)
	}

	for _, intent := range e.checkPointerInput(area, playing) {
		e.send(intent)
	}
	return nil
}

// send delivers intent to the game loop without blocking Ebiten.
func (e *EbitenRenderer) send(intent engineinput.Intent) {
	select {
	case e.inputChan <- intent:
	default:
		// Channel full, drop input
	}
}

// applyZoom handles the zoom intents, which never reach the game loop's
// logic.
func (e *EbitenRenderer) applyZoom(a engineinput.Action) {
	switch a {
	case engineinput.ActionZoomIn:
		e.setTileSize(e.tileSize + tileSizeStep)
	case engineinput.ActionZoomOut:
		e.setTileSize(e.tileSize - tileSizeStep)
	}
}

// setTileSize changes the zoom level and saves it as a preference.
func (e *EbitenRenderer) setTileSize(size int) {
	size = min(max(size, config.MinTileSize), config.MaxTileSize)
	if size == e.tileSize {
		return
	}
	e.tileSize = size
	e.invalidateFontCache()
	if err := config.Current().SetTileSize(size); err != nil {
		e.log.Warn("could not save preferences", zap.Error(err))
	}
}

// shouldRepeatKey checks if a key/button should trigger (initial press or repeat)
// Returns true if the key should trigger, false otherwise
func (e *EbitenRenderer) shouldRepeatKey(isPressed func() bool, code string) bool {
	now := time.Now().UnixMilli()

	e.keyRepeatStateMutex.Lock()
	defer e.keyRepeatStateMutex.Unlock()

	info, exists := e.keyRepeatState[code]
	if !isPressed() {
		delete(e.keyRepeatState, code)
		return false
	}
	if !exists {
		// First press - record it and trigger immediately
		e.keyRepeatState[code] = keyRepeatInfo{firstPressed: now, lastRepeat: now}
		return true
	}
	if now-info.firstPressed >= keyRepeatInitialDelay && now-info.lastRepeat >= keyRepeatInterval {
		info.lastRepeat = now
		e.keyRepeatState[code] = info
		return true
	}
	return false
}

func mapCode(device engineinput.Device, code string) engineinput.Intent {
	return engineinput.MapToIntent(engineinput.NewDebouncedInput(engineinput.RawInput{
		Device:    device,
		Code:      code,
		Timestamp: time.Now(),
	}))
}

// checkGamepadInput checks for controller/gamepad input and returns the corresponding Intent.
// NOTE: Button indices here are tuned for common XInput-style controllers on Linux;
// mappings may vary between devices/platforms.
func (e *EbitenRenderer) checkGamepadInput() engineinput.Intent {
	var ids []ebiten.GamepadID
	ids = ebiten.AppendGamepadIDs(ids[:0])

	for _, id := range ids {
		// Left stick: axis 0 is X (left = -1), axis 1 is Y (up = -1).
		const deadZone = 0.5
		stickX := ebiten.GamepadAxisValue(id, 0)
		stickY := ebiten.GamepadAxisValue(id, 1)

		sticks := []struct {
			name    string
			pressed bool
			code    string
		}{
			{"left", stickX < -deadZone, "gamepad_dpad_left"},
			{"right", stickX > deadZone, "gamepad_dpad_right"},
			{"up", stickY < -deadZone, "gamepad_dpad_up"},
			{"down", stickY > deadZone, "gamepad_dpad_down"},
		}
		for _, s := range sticks {
			pressed := s.pressed
			if e.shouldRepeatKey(func() bool { return pressed }, fmt.Sprintf("gamepad_%d_stick_%s", id, s.name)) {
				return mapCode(engineinput.DeviceGamepad, s.code)
			}
		}

		// Directional pad on XInput-style controllers: up 11, right 12,
		// down 13, left 14.
		dpad := []struct {
			button ebiten.GamepadButton
			code   string
		}{
			{ebiten.GamepadButton14, "gamepad_dpad_left"},
			{ebiten.GamepadButton12, "gamepad_dpad_right"},
			{ebiten.GamepadButton11, "gamepad_dpad_up"},
			{ebiten.GamepadButton13, "gamepad_dpad_down"},
		}
		for _, d := range dpad {
			button := d.button
			if e.shouldRepeatKey(func() bool { return ebiten.IsGamepadButtonPressed(id, button) }, fmt.Sprintf("gamepad_%d_%d", id, button)) {
				return mapCode(engineinput.DeviceGamepad, d.code)
			}
		}

		// Face buttons: A 0, B 1, Y 3, Start 7.
		buttons := []struct {
			button ebiten.GamepadButton
			code   string
		}{
			{ebiten.GamepadButton0, "gamepad_a"},
			{ebiten.GamepadButton1, "gamepad_b"},
			{ebiten.GamepadButton3, "gamepad_y"},
			{ebiten.GamepadButton7, "gamepad_start"},
		}
		for _, b := range buttons {
			if inpututil.IsGamepadButtonJustPressed(id, b.button) {
				return mapCode(engineinput.DeviceGamepad, b.code)
			}
		}
	}

	return engineinput.Intent{Action: engineinput.ActionNone}
}

// repeatKeys are held-key movement keys with auto-repeat.
var repeatKeys = []struct {
	key  ebiten.Key
	code string
}{
	{ebiten.KeyArrowUp, "arrow_up"},
	{ebiten.KeyArrowDown, "arrow_down"},
	{ebiten.KeyArrowLeft, "arrow_left"},
	{ebiten.KeyArrowRight, "arrow_right"},
	{ebiten.KeyK, "k"},
	{ebiten.KeyJ, "j"},
	{ebiten.KeyH, "h"},
	{ebiten.KeyL, "l"},
}

// checkInput checks for keyboard input and returns the corresponding Intent.
// Keys without a binding still come back with their Code set so the
// bindings menu can capture them.
func (e *EbitenRenderer) checkInput() engineinput.Intent {
	for _, rk := range repeatKeys {
		key := rk.key
		if e.shouldRepeatKey(func() bool { return ebiten.IsKeyPressed(key) }, "key_"+rk.code) {
			return mapCode(engineinput.DeviceKeyboard, rk.code)
		}
	}

	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		if code := keyCode(k, shift); code != "" && !isRepeatCode(code) {
			return mapCode(engineinput.DeviceKeyboard, code)
		}
	}

	return engineinput.Intent{Action: engineinput.ActionNone}
}

func isRepeatCode(code string) bool {
	for _, rk := range repeatKeys {
		if rk.code == code {
			return true
		}
	}
	return false
}

// keyCode names an Ebiten key the way the bindings table does. Unknown
// keys return "".
func keyCode(k ebiten.Key, shift bool) string {
	switch k {
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		return "enter"
	case ebiten.KeySpace:
		return "space"
	case ebiten.KeyEscape:
		return "escape"
	case ebiten.KeyTab:
		return "tab"
	case ebiten.KeySlash:
		if shift {
			return "?"
		}
		return "/"
	case ebiten.KeyEqual:
		if shift {
			return "+"
		}
		return "="
	case ebiten.KeyMinus:
		return "-"
	case ebiten.KeyNumpadAdd:
		return "numpad_add"
	case ebiten.KeyNumpadSubtract:
		return "numpad_subtract"
	}

	name := k.String()
	switch {
	case len(name) == 1:
		// Letters.
		return strings.ToLower(name)
	case strings.HasPrefix(name, "Digit"):
		return strings.TrimPrefix(name, "Digit")
	case len(name) <= 3 && strings.HasPrefix(name, "F"):
		return strings.ToLower(name)
	}
	return ""
}

// checkPointerInput turns mouse movement, clicks and touches into intents.
// The cursor only follows the pointer while a level is being searched; a
// click or tap anywhere else confirms.
func (e *EbitenRenderer) checkPointerInput(area world.Area, playing bool) []engineinput.Intent {
	var out []engineinput.Intent
	l := e.layoutField(area, e.windowWidth, e.windowHeight)

	pointerAt := func(x, y int) {
		if playing && l.inside(area, float64(x), float64(y)) {
			out = append(out, engineinput.PointerIntent(l.toField(float64(x), float64(y))))
		}
	}

	mx, my := ebiten.CursorPosition()
	if mx != e.lastMouseX || my != e.lastMouseY {
		e.lastMouseX, e.lastMouseY = mx, my
		pointerAt(mx, my)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if playing {
			pointerAt(mx, my)
		} else {
			out = append(out, mapCode(engineinput.DeviceMouse, "enter"))
		}
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		if !playing {
			out = append(out, mapCode(engineinput.DeviceTouch, "enter"))
			break
		}
		tx, ty := ebiten.TouchPosition(id)
		pointerAt(tx, ty)
	}
	if playing {
		for _, id := range ebiten.AppendTouchIDs(nil) {
			if inpututil.TouchPressDuration(id) > 0 {
				tx, ty := ebiten.TouchPosition(id)
				pointerAt(tx, ty)
			}
		}
	}
	return out
}

// Layout returns the game's logical screen size (Ebiten interface)
func (e *EbitenRenderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.windowWidth = outsideWidth
	e.windowHeight = outsideHeight
	return outsideWidth, outsideHeight
}
