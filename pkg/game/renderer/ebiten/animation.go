package ebiten

import (
	"image/color"
	"math"
	"time"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/renderer"
)

// pulsingColor scales c by the shared pulse for period.
func pulsingColor(c color.Color, period time.Duration, now time.Time) color.Color {
	return applyAlpha(c, renderer.Pulse(period, now))
}

// revealScale is the creature's size factor while it pops in after being
// found: it overshoots to 1.3 and settles on 1.
func revealScale(foundAt, now int64) float64 {
	if foundAt == 0 {
		return 1
	}
	t := float64(now-foundAt) / revealDuration
	if t >= 1 {
		return 1
	}
	if t <= 0 {
		return 0
	}
	return easeOutBack(t)
}

// easeOutBack overshoots slightly before settling on 1.
func easeOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

// particlePositions places n motes orbiting center within radius. They
// drift with time so the swarm shimmers without keeping state.
func particlePositions(center world.Point, n int, radius float64, now time.Time) []world.Point {
	if n <= 0 || radius <= 0 {
		return nil
	}
	t := float64(now.UnixMilli()%60000) / 1000
	out := make([]world.Point, n)
	for i := range out {
		fi := float64(i)
		angle := 2*math.Pi*fi/float64(n) + t*(0.6+0.1*fi)
		r := radius * (0.55 + 0.45*math.Sin(t*1.7+fi))
		out[i] = world.Pt(center.X+r*math.Cos(angle), center.Y+r*math.Sin(angle))
	}
	return out
}
