package ebiten

import (
	"fmt"
	"regexp"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	engineinput "echogrove/pkg/engine/input"
	"echogrove/pkg/game/config"
	"echogrove/pkg/game/renderer"
)

// New creates an Ebiten renderer. Run must be called on the main goroutine;
// the game loop talks to it through RenderFrame and GetInput.
func New(log *zap.Logger) *EbitenRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &EbitenRenderer{
		log:            log.Named("ebiten"),
		windowWidth:    1024,
		windowHeight:   768,
		tileSize:       config.Current().TileSize(),
		inputChan:      make(chan engineinput.Intent, 32),
		done:           make(chan struct{}),
		keyRepeatState: make(map[string]keyRepeatInfo),
		markupRegex:    regexp.MustCompile(`([A-Z][A-Z0-9_]*)\{([^}]*)\}`),
	}
}

// Init loads fonts and configures the window.
func (e *EbitenRenderer) Init() {
	if err := e.loadFonts(); err != nil {
		e.log.Error("could not load fonts", zap.Error(err))
	}
	if e.tileSize < config.MinTileSize || e.tileSize > config.MaxTileSize {
		e.tileSize = config.DefaultTileSize
	}

	ebiten.SetWindowSize(e.windowWidth, e.windowHeight)
	ebiten.SetWindowTitle(gotext.Get("TITLE"))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
}

// Run starts the Ebiten loop and blocks until the window closes or Close
// is called. It must run on the main goroutine.
func (e *EbitenRenderer) Run() error {
	defer e.Close()
	return ebiten.RunGame(e)
}

// Close stops the window and unblocks GetInput. Safe to call more than once.
func (e *EbitenRenderer) Close() {
	e.closeOnce.Do(func() { close(e.done) })
}

// Clear is a no-op; every Draw repaints the whole window.
func (e *EbitenRenderer) Clear() {}

// GetInput blocks until the window produces an intent. Once the window is
// closed it reports quit.
func (e *EbitenRenderer) GetInput() engineinput.Intent {
	select {
	case intent := <-e.inputChan:
		return intent
	case <-e.done:
		return engineinput.Intent{Action: engineinput.ActionQuit}
	}
}

// StyleText wraps text in the markup the window understands.
func (e *EbitenRenderer) StyleText(text string, style renderer.TextStyle) string {
	switch style {
	case renderer.StyleTitle:
		return "TITLE{" + text + "}"
	case renderer.StyleAction, renderer.StyleActionShort, renderer.StyleSelected:
		return "ACTION{" + text + "}"
	case renderer.StyleSubtle:
		return "SUBTLE{" + text + "}"
	case renderer.StyleHint:
		return "HINT{" + text + "}"
	default:
		return text
	}
}

// FormatText formats a message; markup is resolved when it is drawn.
func (e *EbitenRenderer) FormatText(msg string, args ...any) string {
	return fmt.Sprintf(msg, args...)
}

// ShowMessage shows msg as a callout near the top of the grove.
func (e *EbitenRenderer) ShowMessage(msg string) {
	e.snapshotMutex.RLock()
	at := e.snapshot.game.Cursor
	e.snapshotMutex.RUnlock()
	e.AddCallout(at, msg, colorCalloutInfo, calloutLifetime)
}

// GetViewportSize returns the grove size in cells.
func (e *EbitenRenderer) GetViewportSize() (rows, cols int) {
	return renderer.FieldRows, renderer.FieldCols
}

// Vibrate drives the rumble motors of every connected gamepad and, on
// mobile, the device motor.
func (e *EbitenRenderer) Vibrate(d time.Duration, strength float64) {
	ebiten.Vibrate(&ebiten.VibrateOptions{
		Duration:  d,
		Magnitude: strength,
	})
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		ebiten.VibrateGamepad(id, &ebiten.VibrateGamepadOptions{
			Duration:        d,
			StrongMagnitude: strength,
			WeakMagnitude:   strength / 2,
		})
	}
}
