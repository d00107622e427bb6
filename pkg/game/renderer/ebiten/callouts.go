package ebiten

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"echogrove/pkg/engine/world"
)

// AddCallout shows message near p (field coordinates) for durationMs
// milliseconds. A new callout replaces any at the same spot.
func (e *EbitenRenderer) AddCallout(p world.Point, message string, col color.Color, durationMs int) {
	now := time.Now().UnixMilli()
	c := callout{
		At:        p,
		Message:   message,
		Color:     col,
		CreatedAt: now,
	}
	if durationMs > 0 {
		c.ExpiresAt = now + int64(durationMs)
	}

	e.calloutsMutex.Lock()
	defer e.calloutsMutex.Unlock()
	kept := e.callouts[:0]
	for _, old := range e.callouts {
		if old.At != p && (old.ExpiresAt == 0 || old.ExpiresAt > now) {
			kept = append(kept, old)
		}
	}
	e.callouts = append(kept, c)
}

// ClearCallouts removes every callout.
func (e *EbitenRenderer) ClearCallouts() {
	e.calloutsMutex.Lock()
	defer e.calloutsMutex.Unlock()
	e.callouts = nil
}

// activeCallouts returns the callouts that have not expired at now.
func (e *EbitenRenderer) activeCallouts(now int64) []callout {
	e.calloutsMutex.RLock()
	defer e.calloutsMutex.RUnlock()
	var out []callout
	for _, c := range e.callouts {
		if c.ExpiresAt == 0 || c.ExpiresAt > now {
			out = append(out, c)
		}
	}
	return out
}

// drawCallouts draws the active callouts above their points, fading out
// over the last 500ms and popping in over the first 150ms.
func (e *EbitenRenderer) drawCallouts(screen *ebiten.Image, l fieldLayout) {
	now := time.Now().UnixMilli()
	face := e.getSansFontFace()
	pad := float32(6)

	for _, c := range e.activeCallouts(now) {
		alpha := 1.0
		if age := now - c.CreatedAt; age < 150 {
			alpha = float64(age) / 150
		}
		if c.ExpiresAt > 0 {
			if left := c.ExpiresAt - now; left < 500 {
				alpha = min(alpha, float64(left)/500)
			}
		}

		w := float32(e.getTextWidth(c.Message))
		h := float32(face.Size * 1.4)
		sx, sy := l.toScreen(c.At)
		x := float32(sx) - w/2 - pad
		y := float32(sy) - h - pad*4
		sw := float32(screen.Bounds().Dx())
		x = min(max(x, 4), sw-w-pad*2-4)
		y = max(y, 4)

		drawRoundedRectWithShadow(screen, x, y, w+pad*2, h+pad, 6, 1.5,
			applyAlpha(colorPanelBackground, alpha), applyAlpha(c.Color, alpha), float32(alpha))
		e.drawColoredText(screen, c.Message, float64(x+pad), float64(y+pad/2), applyAlpha(c.Color, alpha))
	}
}
