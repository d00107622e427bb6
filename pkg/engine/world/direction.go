package world

// Direction represents a cardinal direction of cursor travel
type Direction int

// Direction constants
const (
	North Direction = iota
	East
	South
	West
)

// AllDirections returns all valid directions for iteration
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// String names the direction as the cursor sees it on screen.
func (d Direction) String() string {
	switch d {
	case North:
		return "up"
	case East:
		return "right"
	case South:
		return "down"
	case West:
		return "left"
	}
	return "none"
}

// Delta returns the x and y unit offsets for this direction.
// Screen coordinates grow downwards, so North is negative y.
func (d Direction) Delta() (dx, dy float64) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}
