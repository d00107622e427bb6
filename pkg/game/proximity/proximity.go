// Package proximity converts cursor/target geometry into a normalized
// closeness value that drives every sensory cue in the game.
package proximity

import (
	"math"

	"echogrove/pkg/engine/world"
)

// FoundThreshold is the distance, in logical pixels, under which a creature
// is discovered automatically.
const FoundThreshold = 15.0

// Reading is the result of a single proximity evaluation.
type Reading struct {
	Distance  float64
	Proximity float64 // 0 at or beyond the radius, 1 on the target
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b world.Point) float64 {
	return a.DistanceTo(b)
}

// Compute evaluates proximity = clamp(1 - d/r, 0, 1).
// A non-positive radius yields 1 on the target and 0 everywhere else.
func Compute(cursor, target world.Point, radius float64) Reading {
	d := Distance(cursor, target)
	if radius <= 0 {
		if d == 0 {
			return Reading{Distance: 0, Proximity: 1}
		}
		return Reading{Distance: d}
	}
	p := 1 - d/radius
	return Reading{Distance: d, Proximity: math.Max(0, math.Min(1, p))}
}

// Found reports whether the reading is close enough to count as a discovery.
func Found(r Reading, threshold float64) bool {
	return r.Distance < threshold
}

// Floor mutes proximity values below min, used by the hardest levels to hold
// back feedback until the player is very close. Values at or above min keep
// their magnitude.
func Floor(p, min float64) float64 {
	if p < min {
		return 0
	}
	return p
}
