package devtools

import (
	"bufio"
	"fmt"
	"io"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/creatures"
	"echogrove/pkg/game/cues"
	"echogrove/pkg/game/gameplay"
	"echogrove/pkg/game/level"
	"echogrove/pkg/game/proximity"
)

// ProbeResult is what a player would get with the cursor at one point.
type ProbeResult struct {
	Level    int
	Mode     cues.Mode
	Creature string
	At       world.Point
	Radius   float64

	Reading   proximity.Reading
	Proximity float64 // after the level's floor
	Feedback  cues.Feedback
	Hint      string

	AutoFound   bool
	Confirmable bool
}

// Probe evaluates the cues at a point of lvl. Points outside the grove are
// clamped to its edge, as the cursor would be.
func Probe(ds *creatures.Dataset, lvl int, mode cues.Mode, at world.Point) (ProbeResult, error) {
	diff, err := level.DifficultyFor(lvl)
	if err != nil {
		return ProbeResult{}, err
	}
	c, err := ds.ForLevel(lvl)
	if err != nil {
		return ProbeResult{}, err
	}

	at = world.DefaultArea().Clamp(at)
	radius := c.Radius(diff)
	r := proximity.Compute(at, c.Position, radius)
	p := proximity.Floor(r.Proximity, diff.MinProximity)

	hint := gameplay.WarmthText(p)
	if p > 0 {
		hint += ", " + gameplay.DirectionText(at, c.Position)
	}

	return ProbeResult{
		Level:       lvl,
		Mode:        mode,
		Creature:    c.Name,
		At:          at,
		Radius:      radius,
		Reading:     r,
		Proximity:   p,
		Feedback:    cues.FeedbackFor(mode, r.Distance, p),
		Hint:        hint,
		AutoFound:   proximity.Found(r, proximity.FoundThreshold),
		Confirmable: diff.CanConfirm(r.Distance),
	}, nil
}

// Write prints the result as key: value lines.
func (r ProbeResult) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "level: %d\n", r.Level)
	fmt.Fprintf(bw, "mode: %s\n", r.Mode)
	fmt.Fprintf(bw, "creature: %s\n", r.Creature)
	fmt.Fprintf(bw, "point: %s\n", r.At)
	fmt.Fprintf(bw, "detection_radius: %.0f\n", r.Radius)
	fmt.Fprintf(bw, "distance: %.1f\n", r.Reading.Distance)
	fmt.Fprintf(bw, "proximity_raw: %.3f\n", r.Reading.Proximity)
	fmt.Fprintf(bw, "proximity: %.3f\n", r.Proximity)
	fmt.Fprintf(bw, "audio_frequency: %.0f\n", r.Feedback.AudioFrequency)
	fmt.Fprintf(bw, "visual_brightness: %.3f\n", r.Feedback.VisualBrightness)
	fmt.Fprintf(bw, "haptic_strength: %.3f\n", r.Feedback.HapticStrength)
	fmt.Fprintf(bw, "hint: %s\n", r.Hint)
	fmt.Fprintf(bw, "auto_found: %v\n", r.AutoFound)
	fmt.Fprintf(bw, "confirmable: %v\n", r.Confirmable)
	return bw.Flush()
}
