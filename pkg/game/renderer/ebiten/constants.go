package ebiten

import "image/color"

// Color palette for the grove: dark greens with warm highlights.
var (
	colorBackground      = color.RGBA{14, 22, 18, 255}    // Night forest
	colorFieldBackground = color.RGBA{10, 16, 12, 255}    // Darker for the grove area
	colorFieldBorder     = color.RGBA{50, 80, 60, 255}    // Moss
	colorGround          = color.RGBA{40, 62, 46, 255}    // Undergrowth dots
	colorCursor          = color.RGBA{245, 240, 200, 255} // Lantern light
	colorCursorHalo      = color.NRGBA{245, 240, 200, 60}
	colorSubtle          = color.RGBA{120, 150, 130, 255} // Labels
	colorText            = color.RGBA{215, 230, 215, 255} // Soft off-white with a green tint
	colorAction          = color.RGBA{150, 220, 170, 255} // Fern green
	colorTitle           = color.RGBA{240, 210, 140, 255} // Amber
	colorHint            = color.RGBA{170, 190, 240, 255} // Dusk blue
	colorFact            = color.RGBA{235, 235, 200, 255}
	colorMeter           = color.RGBA{120, 210, 150, 255}
	colorMeterTrack      = color.RGBA{35, 50, 40, 255}
	colorPanelBackground = color.RGBA{12, 20, 14, 225} // Semi-transparent dark
	colorPanelBorder     = color.RGBA{110, 170, 130, 220}
	colorSelectedBg      = color.RGBA{60, 100, 70, 200}

	// Callout colors
	colorCalloutInfo    = color.RGBA{200, 220, 255, 255}
	colorCalloutSuccess = color.RGBA{140, 255, 170, 255}
)

// Icon constants - Unicode characters covered by the Go fonts
const (
	IconGround  = "·"
	IconFound   = "★"
	IconBullet  = "▸"
	IconChecked = "◉"
)

// Glyphs and tints drifting behind the title menu.
var (
	leafIcons  = []string{"♣", "♠", "•", "◊", "○", "♦"}
	leafColors = []color.Color{
		color.RGBA{30, 55, 35, 255},
		color.RGBA{45, 70, 40, 255},
		color.RGBA{55, 60, 30, 255},
		color.RGBA{35, 50, 45, 255},
		color.RGBA{60, 45, 30, 255},
	}
)

// Tile size constraints come from config; this is the zoom increment.
const (
	tileSizeStep = 4
	baseFontSize = 16.0 // Base font size at the default tile size
)

const (
	keyRepeatInitialDelay = 300 // Initial delay before first repeat (milliseconds)
	keyRepeatInterval     = 50  // Interval between repeat events (milliseconds)
)

const (
	messageLifetime = 10000 // Milliseconds before a message fades out
	calloutLifetime = 2500  // Milliseconds a caption callout stays up
	revealDuration  = 600   // Milliseconds of the creature reveal animation
)
