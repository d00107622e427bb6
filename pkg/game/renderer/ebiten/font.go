package ebiten

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"echogrove/pkg/game/config"
)

// loadFonts parses the embedded Go fonts.
func (e *EbitenRenderer) loadFonts() error {
	var err error
	if e.monoFontSource, err = text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF)); err != nil {
		return err
	}
	if e.sansFontSource, err = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF)); err != nil {
		return err
	}
	e.sansBoldFontSource, err = text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	return err
}

// getTileFontSize returns the font size for field glyphs, scaled to the current tile size
func (e *EbitenRenderer) getTileFontSize() float64 {
	return baseFontSize * float64(e.tileSize) / float64(config.DefaultTileSize)
}

// getUIFontSize returns the font size for UI text
func (e *EbitenRenderer) getUIFontSize() float64 {
	return max(e.getTileFontSize()*0.9, 12)
}

// getMonoFontFace returns a cached monospace font face for field glyphs
func (e *EbitenRenderer) getMonoFontFace() *text.GoTextFace {
	e.fontMutex.Lock()
	defer e.fontMutex.Unlock()
	size := e.getTileFontSize()
	if e.cachedMonoFace == nil || e.cachedTileFontSize != size {
		e.cachedTileFontSize = size
		e.cachedMonoFace = &text.GoTextFace{
			Source: e.monoFontSource,
			Size:   size,
		}
	}
	return e.cachedMonoFace
}

// getSansFontFace returns a cached sans-serif font face for UI text
func (e *EbitenRenderer) getSansFontFace() *text.GoTextFace {
	e.fontMutex.Lock()
	defer e.fontMutex.Unlock()
	size := e.getUIFontSize()
	if e.cachedSansFace == nil || e.cachedUIFontSize != size {
		e.cachedUIFontSize = size
		e.cachedSansFace = &text.GoTextFace{
			Source: e.sansFontSource,
			Size:   size,
		}
		e.cachedSansBoldFace = &text.GoTextFace{
			Source: e.sansBoldFontSource,
			Size:   size,
		}
	}
	return e.cachedSansFace
}

// getSansBoldFontFace returns a cached sans-serif bold font face (same size as UI)
func (e *EbitenRenderer) getSansBoldFontFace() *text.GoTextFace {
	e.getSansFontFace()
	e.fontMutex.Lock()
	defer e.fontMutex.Unlock()
	return e.cachedSansBoldFace
}

// getSansBoldTitleFontFace returns a bold face twice the UI size for screen titles.
func (e *EbitenRenderer) getSansBoldTitleFontFace() *text.GoTextFace {
	e.fontMutex.Lock()
	defer e.fontMutex.Unlock()
	size := e.getUIFontSize() * 2
	if e.cachedSansBoldTitleFace == nil || e.cachedSansBoldTitleSize != size {
		e.cachedSansBoldTitleSize = size
		e.cachedSansBoldTitleFace = &text.GoTextFace{
			Source: e.sansBoldFontSource,
			Size:   size,
		}
	}
	return e.cachedSansBoldTitleFace
}

// invalidateFontCache clears cached font faces (call when tile size changes)
func (e *EbitenRenderer) invalidateFontCache() {
	e.fontMutex.Lock()
	defer e.fontMutex.Unlock()
	e.cachedMonoFace = nil
	e.cachedSansFace = nil
	e.cachedSansBoldFace = nil
	e.cachedSansBoldTitleFace = nil
}
