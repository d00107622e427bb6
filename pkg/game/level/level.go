// Package level defines the fixed level count, the final level and the
// per-level difficulty table of the grove. Each level hides one creature;
// difficulty rises by shrinking detection areas, adding distractors and
// delaying feedback.
package level

import (
	"errors"
	"fmt"
	"time"

	"github.com/leonelquinteros/gotext"
)

// TotalLevels is the number of groves the player explores.
const TotalLevels = 5

// ErrUnknownLevel is returned for level numbers outside 1..TotalLevels.
var ErrUnknownLevel = errors.New("unknown level")

// IsFinal returns true if the given level (1-based) is the last grove.
func IsFinal(level int) bool {
	return level >= TotalLevels
}

// Next returns the next level (1-based) for the given current level,
// or 0 if there is no next level (current is final).
func Next(current int) int {
	if current <= 0 || current >= TotalLevels {
		return 0
	}
	return current + 1
}

// Valid reports whether level is within 1..TotalLevels.
func Valid(level int) bool {
	return level >= 1 && level <= TotalLevels
}

// Difficulty holds the tuning for one level.
type Difficulty struct {
	Level int

	// DetectionRadius is used when a creature record leaves its radius unset.
	DetectionRadius float64

	// DistractorCount is the number of decoy sound sources scattered in the grove.
	DistractorCount int

	// FeedbackDelay postpones the base proximity tone.
	FeedbackDelay time.Duration

	// MinProximity mutes cues below this proximity.
	MinProximity float64

	// ConfirmRadius limits where Enter counts as a find. Zero accepts
	// Enter anywhere in the grove.
	ConfirmRadius float64
}

var table = [TotalLevels]Difficulty{
	{Level: 1, DetectionRadius: 200, DistractorCount: 0, FeedbackDelay: FeedbackDelay(1), MinProximity: 0},
	{Level: 2, DetectionRadius: 170, DistractorCount: 0, FeedbackDelay: FeedbackDelay(2), MinProximity: 0},
	{Level: 3, DetectionRadius: 140, DistractorCount: 2, FeedbackDelay: FeedbackDelay(3), MinProximity: 0},
	{Level: 4, DetectionRadius: 110, DistractorCount: 3, FeedbackDelay: FeedbackDelay(4), MinProximity: 0},
	{Level: 5, DetectionRadius: 80, DistractorCount: 4, FeedbackDelay: FeedbackDelay(5), MinProximity: 0.5},
}

// CanConfirm reports whether Enter at distance d from the creature counts
// as a find.
func (d Difficulty) CanConfirm(dist float64) bool {
	return d.ConfirmRadius <= 0 || dist <= d.ConfirmRadius
}

// DifficultyFor returns the difficulty settings for level. Out of range
// levels return the first level's settings along with ErrUnknownLevel.
func DifficultyFor(level int) (Difficulty, error) {
	if !Valid(level) {
		return table[0], fmt.Errorf("%w: %d", ErrUnknownLevel, level)
	}
	return table[level-1], nil
}

// FeedbackDelay returns the base proximity tone delay, (level-1)*50ms.
func FeedbackDelay(level int) time.Duration {
	if level <= 1 {
		return 0
	}
	return time.Duration(level-1) * 50 * time.Millisecond
}

// Description returns the translated one-line difficulty summary for level.
// Uses gotext.Get with constant keys to satisfy vet.
func Description(level int) string {
	switch level {
	case 2:
		return gotext.Get("DIFFICULTY_2")
	case 3:
		return gotext.Get("DIFFICULTY_3")
	case 4:
		return gotext.Get("DIFFICULTY_4")
	case 5:
		return gotext.Get("DIFFICULTY_5")
	default:
		return gotext.Get("DIFFICULTY_1")
	}
}
