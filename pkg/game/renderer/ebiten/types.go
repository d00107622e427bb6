// Package ebiten provides an Ebiten-based 2D graphical renderer for Echo Grove.
package ebiten

import (
	"image/color"
	"regexp"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"

	engineinput "echogrove/pkg/engine/input"
	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/state"
)

// callout is a floating label drawn near a point of the grove.
type callout struct {
	At        world.Point // Field coordinates
	Message   string
	Color     color.Color
	CreatedAt int64 // Unix milliseconds
	ExpiresAt int64 // Unix milliseconds, 0 = never
}

// messageEntry represents a message with timestamp for fade-out
type messageEntry struct {
	Text      string
	Timestamp int64 // Unix timestamp in milliseconds when message was added
}

// renderSnapshot holds a consistent copy of the game state for Draw, which
// runs on Ebiten's goroutine while the game loop keeps mutating the original.
type renderSnapshot struct {
	valid    bool
	game     state.Game
	messages []messageEntry
	// foundAt is when the creature was first drawn as found (Unix ms).
	foundAt int64
}

// keyRepeatInfo tracks the repeat state for a key or button
type keyRepeatInfo struct {
	firstPressed int64 // Timestamp when first pressed (milliseconds)
	lastRepeat   int64 // Timestamp when last repeat event was sent (milliseconds)
}

// fieldLayout is where the grove sits on screen.
type fieldLayout struct {
	x, y  float64 // Top-left corner in screen pixels
	scale float64 // Screen pixels per field unit
}

// EbitenRenderer is the Ebiten-based graphical renderer
type EbitenRenderer struct {
	log *zap.Logger

	// Window dimensions
	windowWidth  int
	windowHeight int

	// Cell size in pixels (adjustable with +/-)
	tileSize int

	// Font sources for text rendering
	monoFontSource     *text.GoTextFaceSource // Monospace font for glyphs on the field
	sansFontSource     *text.GoTextFaceSource // Sans-serif font for UI text
	sansBoldFontSource *text.GoTextFaceSource // Sans-serif bold for titles

	// Cached font faces (recreated when tile size changes)
	cachedTileFontSize      float64
	cachedUIFontSize        float64
	cachedMonoFace          *text.GoTextFace
	cachedSansFace          *text.GoTextFace
	cachedSansBoldFace      *text.GoTextFace
	cachedSansBoldTitleFace *text.GoTextFace
	cachedSansBoldTitleSize float64
	fontMutex               sync.Mutex

	// Cached render snapshot for consistent drawing
	snapshot      renderSnapshot
	snapshotMutex sync.RWMutex

	// Messages to display with timestamps for fade-out
	trackedMessages []messageEntry
	messagesMutex   sync.RWMutex

	// Floating labels near the cursor or creature
	callouts      []callout
	lastCaption   string
	calloutsMutex sync.RWMutex

	// Input channel for communication between Ebiten and game loop
	inputChan chan engineinput.Intent
	done      chan struct{}
	closeOnce sync.Once

	// Flag to track if we've logged window opening
	windowOpenedLogged bool

	// Last mouse position, so a still mouse does not fight the keyboard
	lastMouseX, lastMouseY int

	// Key repeat state tracking
	// Maps key/button codes to their repeat state
	keyRepeatState      map[string]keyRepeatInfo
	keyRepeatStateMutex sync.RWMutex

	// Selection bar animation for the open menu
	menuAnim menuHighlight

	// Background animation for the title screen (drifting leaves)
	leaves      []leaf
	leavesMutex sync.RWMutex

	markupRegex *regexp.Regexp
}

// leaf is one drifting glyph in the title screen background.
type leaf struct {
	x, y          float64 // Position
	vx, vy        float64 // Velocity
	icon          string
	color         color.Color
	alpha         float64 // Opacity (0.0 to 1.0)
	rotation      float64 // Rotation angle in radians
	rotationSpeed float64 // Rotation speed
}
