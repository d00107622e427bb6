// Package devtools provides developer tools for tuning and debugging groves.
package devtools

import (
	"fmt"
	"math/rand"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/creatures"
	"echogrove/pkg/game/gameplay"
	"echogrove/pkg/game/level"
	"echogrove/pkg/game/proximity"
	"echogrove/pkg/game/renderer"
	"echogrove/pkg/game/state"
)

// Field is a level sampled on the renderer's cell grid.
type Field struct {
	Level       int
	Seed        int64
	Creature    creatures.Creature
	Difficulty  level.Difficulty
	Radius      float64
	Area        world.Area
	Start       world.Point
	Distractors []world.Point

	// Cells holds the floored proximity at each cell centre, [row][col].
	Cells [][]float64
}

// Sample builds the Field for lvl. Distractors are placed with seed so a
// dump can be reproduced.
func Sample(ds *creatures.Dataset, lvl int, seed int64) (*Field, error) {
	diff, err := level.DifficultyFor(lvl)
	if err != nil {
		return nil, err
	}
	c, err := ds.ForLevel(lvl)
	if err != nil {
		return nil, err
	}

	f := &Field{
		Level:      lvl,
		Seed:       seed,
		Creature:   c,
		Difficulty: diff,
		Radius:     c.Radius(diff),
		Area:       world.DefaultArea(),
		Start:      state.StartCursor,
	}
	rng := rand.New(rand.NewSource(seed))
	f.Distractors = gameplay.PlaceDistractors(rng, f.Area, c.Position, f.Radius, diff.DistractorCount)

	f.Cells = make([][]float64, renderer.FieldRows)
	for row := range f.Cells {
		f.Cells[row] = make([]float64, renderer.FieldCols)
		for col := range f.Cells[row] {
			r := proximity.Compute(renderer.CellCenter(row, col), c.Position, f.Radius)
			f.Cells[row][col] = proximity.Floor(r.Proximity, diff.MinProximity)
		}
	}
	return f, nil
}

// Coverage is the share of cells with any feedback at all.
func (f *Field) Coverage() float64 {
	var lit, total int
	for _, row := range f.Cells {
		for _, p := range row {
			total++
			if p > 0 {
				lit++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(lit) / float64(total)
}

func (f *Field) title() string {
	return fmt.Sprintf("level %d: %s", f.Level, f.Creature.Name)
}
