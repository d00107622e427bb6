package gameplay

import (
	"fmt"

	"github.com/leonelquinteros/gotext"

	"echogrove/pkg/engine/world"
)

// WarmthText names a proximity band for spoken hints.
func WarmthText(p float64) string {
	switch {
	case p <= 0:
		return gotext.Get("WARMTH_COLD")
	case p < 0.3:
		return gotext.Get("WARMTH_COOL")
	case p < 0.6:
		return gotext.Get("WARMTH_WARM")
	case p < 0.85:
		return gotext.Get("WARMTH_HOT")
	default:
		return gotext.Get("WARMTH_VERY_HOT")
	}
}

// DirectionText says roughly where target is from cursor. Offsets under a
// keyboard step count as "here".
func DirectionText(cursor, target world.Point) string {
	dx := target.X - cursor.X
	dy := target.Y - cursor.Y

	var vert, horiz string
	switch {
	case dy < -KeyboardStep:
		vert = gotext.Get("DIR_UP")
	case dy > KeyboardStep:
		vert = gotext.Get("DIR_DOWN")
	}
	switch {
	case dx < -KeyboardStep:
		horiz = gotext.Get("DIR_LEFT")
	case dx > KeyboardStep:
		horiz = gotext.Get("DIR_RIGHT")
	}

	switch {
	case vert != "" && horiz != "":
		return fmt.Sprintf(gotext.Get("DIR_BOTH"), vert, horiz)
	case vert != "":
		return vert
	case horiz != "":
		return horiz
	}
	return gotext.Get("DIR_HERE")
}

// DescribeWarmth speaks how close the cursor is. Once the cursor is inside
// the detection radius it also says which way to go.
func (c *Controller) DescribeWarmth() {
	if !c.g.Playing() {
		return
	}
	p := c.g.Feedback.Intensity
	if p <= 0 {
		c.announce(WarmthText(p))
		return
	}
	c.announce(fmt.Sprintf(gotext.Get("WARMTH_WITH_DIRECTION"), WarmthText(p), DirectionText(c.g.Cursor, c.g.Creature.Position)))
}
