package world

import (
	"fmt"
	"math"
)

// Default play area in logical pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Point is a position in logical play-area pixels.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.0f, %.0f)", p.X, p.Y)
}

// Area is the rectangular play field, anchored at the origin.
type Area struct {
	Width  float64
	Height float64
}

// DefaultArea returns the standard 800x600 play field.
func DefaultArea() Area {
	return Area{Width: DefaultWidth, Height: DefaultHeight}
}

// Contains reports whether p lies inside the area (edges inclusive).
func (a Area) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= a.Width && p.Y <= a.Height
}

// Clamp returns p constrained to the area bounds.
func (a Area) Clamp(p Point) Point {
	return Point{
		X: math.Max(0, math.Min(a.Width, p.X)),
		Y: math.Max(0, math.Min(a.Height, p.Y)),
	}
}

// Step moves p by step pixels in direction d and clamps the result to the area.
func (a Area) Step(p Point, d Direction, step float64) Point {
	dx, dy := d.Delta()
	return a.Clamp(p.Add(dx*step, dy*step))
}

// Center returns the middle of the area.
func (a Area) Center() Point {
	return Point{X: a.Width / 2, Y: a.Height / 2}
}
