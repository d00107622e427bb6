package ebiten

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/leonelquinteros/gotext"
)

// dynamicGet is used for runtime translation key lookups.
// We use a function variable to avoid go vet's non-constant format string check,
// since we intentionally look up translation keys dynamically from markup.
var dynamicGet = gotext.Get

// textSegment represents a segment of text with a specific color
type textSegment struct {
	text  string
	color color.Color
}

// drawCenteredGlyph draws a glyph centred on (x, y) with the mono face.
func (e *EbitenRenderer) drawCenteredGlyph(screen *ebiten.Image, glyph string, x, y float64, col color.Color, face *text.GoTextFace) {
	w, h := text.Measure(glyph, face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x-w/2, y-h/2)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, glyph, face, op)
}

// drawColoredText draws text with a specific color using sans-serif font for UI
func (e *EbitenRenderer) drawColoredText(screen *ebiten.Image, str string, x, y float64, col color.Color) {
	e.drawColoredTextWithFace(screen, str, x, y, col, e.getSansFontFace())
}

// drawColoredTextWithFace draws text with a specific color and font face.
// (x, y) is the top-left corner of the line.
func (e *EbitenRenderer) drawColoredTextWithFace(screen *ebiten.Image, str string, x, y float64, col color.Color, face *text.GoTextFace) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, str, face, op)
}

// drawCenteredText draws one line horizontally centred on cx.
func (e *EbitenRenderer) drawCenteredText(screen *ebiten.Image, str string, cx, y float64, col color.Color, face *text.GoTextFace) {
	w, _ := text.Measure(str, face, 0)
	e.drawColoredTextWithFace(screen, str, cx-w/2, y, col, face)
}

// parseMarkup parses a message string with markup (ACTION{}, SUBTLE{},
// HINT{}, TITLE{}, GT{}) and returns colored segments
func (e *EbitenRenderer) parseMarkup(msg string) []textSegment {
	var segments []textSegment

	lastIndex := 0
	matches := e.markupRegex.FindAllStringSubmatchIndex(msg, -1)

	for _, match := range matches {
		// Add text before the markup
		if match[0] > lastIndex {
			segments = append(segments, textSegment{text: msg[lastIndex:match[0]], color: colorText})
		}

		function := msg[match[2]:match[3]]
		content := msg[match[4]:match[5]]

		var segColor color.Color
		switch function {
		case "ACTION":
			segColor = colorAction
		case "SUBTLE":
			segColor = colorSubtle
		case "HINT":
			segColor = colorHint
		case "TITLE":
			segColor = colorTitle
		case "GT":
			content = dynamicGet(content)
			segColor = colorText
		default:
			segColor = colorText
		}

		segments = append(segments, textSegment{text: content, color: segColor})
		lastIndex = match[1]
	}

	if lastIndex < len(msg) {
		segments = append(segments, textSegment{text: msg[lastIndex:], color: colorText})
	}

	// If no markup found, return the whole message as a single segment
	if len(segments) == 0 {
		segments = append(segments, textSegment{text: msg, color: colorText})
	}

	return segments
}

// applyAlpha applies an alpha value to a color
func applyAlpha(c color.Color, alpha float64) color.Color {
	alpha = min(max(alpha, 0), 1)

	r, g, b, a := c.RGBA()
	// Premultiplied, so every channel scales to fade towards transparent black.
	return color.RGBA{
		uint8(float64(r>>8) * alpha),
		uint8(float64(g>>8) * alpha),
		uint8(float64(b>>8) * alpha),
		uint8(float64(a>>8) * alpha),
	}
}

// drawColoredTextSegments draws multiple text segments with different colors
func (e *EbitenRenderer) drawColoredTextSegments(screen *ebiten.Image, segments []textSegment, x, y float64, alpha float64) {
	face := e.getSansFontFace()
	currentX := x

	for _, seg := range segments {
		if seg.text == "" {
			continue
		}

		op := &text.DrawOptions{}
		op.GeoM.Translate(currentX, y)
		op.ColorScale.ScaleWithColor(applyAlpha(seg.color, alpha))
		text.Draw(screen, seg.text, face, op)

		w, _ := text.Measure(seg.text, face, 0)
		currentX += w
	}
}

// getTextWidth returns the width of a string in pixels at UI font size
func (e *EbitenRenderer) getTextWidth(str string) float64 {
	w, _ := text.Measure(str, e.getSansFontFace(), 0)
	return w
}

// wrapText splits s into lines no wider than width pixels in face.
func wrapText(s string, width float64, face *text.GoTextFace) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if cw, _ := text.Measure(candidate, face, 0); cw > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	return append(lines, line)
}
