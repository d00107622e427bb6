package ebiten

import (
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const leafSpeed = 0.9

// initLeavesUnlocked scatters leaves over the screen. The caller holds
// leavesMutex.
func (e *EbitenRenderer) initLeavesUnlocked(screenWidth, screenHeight int) {
	if screenWidth <= 0 || screenHeight <= 0 {
		return
	}

	e.leaves = make([]leaf, 30+rand.Intn(21))
	for i := range e.leaves {
		// Leaves mostly fall.
		e.leaves[i] = leaf{
			x:             rand.Float64() * float64(screenWidth),
			y:             rand.Float64() * float64(screenHeight),
			vx:            (rand.Float64() - 0.5) * leafSpeed,
			vy:            0.2 + rand.Float64()*leafSpeed*0.6,
			icon:          leafIcons[rand.Intn(len(leafIcons))],
			color:         leafColors[rand.Intn(len(leafColors))],
			alpha:         0.5 + rand.Float64()*0.5,
			rotation:      rand.Float64() * 2 * math.Pi,
			rotationSpeed: (rand.Float64() - 0.5) * 0.03,
		}
	}
}

// updateLeaves moves every leaf one frame, wrapping at the screen edges.
func (e *EbitenRenderer) updateLeaves(screenWidth, screenHeight int) {
	e.leavesMutex.Lock()
	defer e.leavesMutex.Unlock()

	if len(e.leaves) == 0 {
		e.initLeavesUnlocked(screenWidth, screenHeight)
	}

	w, h := float64(screenWidth), float64(screenHeight)
	for i := range e.leaves {
		l := &e.leaves[i]

		// Sway sideways as the leaf turns.
		l.x += l.vx + math.Sin(l.rotation)*0.3
		l.y += l.vy

		if l.x < 0 {
			l.x += w
		} else if l.x >= w {
			l.x -= w
		}
		if l.y >= h {
			l.y -= h
			l.x = rand.Float64() * w
		}

		l.rotation = math.Mod(l.rotation+l.rotationSpeed+2*math.Pi, 2*math.Pi)

		if rand.Float64() < 0.01 {
			l.vx = min(max(l.vx+(rand.Float64()-0.5)*0.1, -1), 1)
		}
	}
}

// drawLeavesBackground draws the drifting leaves behind the title menu.
func (e *EbitenRenderer) drawLeavesBackground(screen *ebiten.Image) {
	e.leavesMutex.RLock()
	leaves := make([]leaf, len(e.leaves))
	copy(leaves, e.leaves)
	e.leavesMutex.RUnlock()

	face := e.getMonoFontFace()
	for _, l := range leaves {
		w, h := text.Measure(l.icon, face, 0)
		if w <= 0 || h <= 0 {
			continue
		}

		op := &text.DrawOptions{}
		op.GeoM.Translate(-w/2, -h/2)
		op.GeoM.Rotate(l.rotation)
		op.GeoM.Translate(l.x, l.y)
		op.ColorScale.ScaleWithColor(applyAlpha(l.color, l.alpha))
		text.Draw(screen, l.icon, face, op)
	}
}
