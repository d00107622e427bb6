package devtools

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/renderer"
)

const mapDumpFilename = "map.txt"

// cellSymbol is the proximity decile of a cell, or '.' when it gives no
// feedback.
func cellSymbol(p float64) rune {
	if p <= 0 {
		return '.'
	}
	return rune('0' + min(int(p*10), 9))
}

// writeMapGrid writes the grid with the creature, start cursor and
// distractors drawn over it.
func writeMapGrid(w io.Writer, f *Field) {
	marks := map[[2]int]rune{}
	mark := func(p world.Point, r rune) {
		row, col := renderer.CellOf(p)
		marks[[2]int{row, col}] = r
	}
	for _, d := range f.Distractors {
		mark(d, 'x')
	}
	mark(f.Start, '@')
	mark(f.Creature.Position, 'C')

	for row, cells := range f.Cells {
		for col, p := range cells {
			if r, ok := marks[[2]int{row, col}]; ok {
				fmt.Fprintf(w, "%c", r)
				continue
			}
			fmt.Fprintf(w, "%c", cellSymbol(p))
		}
		fmt.Fprintln(w)
	}
}

// WriteMapDump writes a plain-text dump of f: metadata, legend, the
// proximity grid and the positions of everything in the grove.
func WriteMapDump(w io.Writer, f *Field) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "=== MAP DUMP (proximity by cell) ===")
	fmt.Fprintln(bw, "")
	fmt.Fprintln(bw, "--- Metadata ---")
	fmt.Fprintf(bw, "title: %s\n", f.title())
	fmt.Fprintf(bw, "level: %d\n", f.Level)
	fmt.Fprintf(bw, "seed: %d\n", f.Seed)
	fmt.Fprintf(bw, "grid_rows: %d\n", renderer.FieldRows)
	fmt.Fprintf(bw, "grid_cols: %d\n", renderer.FieldCols)
	fmt.Fprintf(bw, "cell_size: %.0f\n", renderer.CellSize)
	fmt.Fprintf(bw, "detection_radius: %.0f\n", f.Radius)
	fmt.Fprintf(bw, "min_proximity: %.2f\n", f.Difficulty.MinProximity)
	fmt.Fprintf(bw, "confirm_radius: %.0f\n", f.Difficulty.ConfirmRadius)
	fmt.Fprintf(bw, "feedback_delay: %s\n", f.Difficulty.FeedbackDelay)
	fmt.Fprintf(bw, "coverage: %.3f\n", f.Coverage())
	fmt.Fprintln(bw, "")

	fmt.Fprintln(bw, "--- Legend ---")
	fmt.Fprintln(bw, ". = no feedback  0-9 = proximity decile  C = creature  @ = start  x = distractor")
	fmt.Fprintln(bw, "")

	fmt.Fprintln(bw, "--- Map ---")
	writeMapGrid(bw, f)
	fmt.Fprintln(bw, "")

	fmt.Fprintln(bw, "--- Positions ---")
	fmt.Fprintf(bw, "creature: %s %s\n", f.Creature.Name, f.Creature.Position)
	fmt.Fprintf(bw, "start: %s\n", f.Start)
	fmt.Fprintln(bw, "distractors:")
	for _, d := range f.Distractors {
		fmt.Fprintf(bw, "  %s distance: %.1f\n", d, d.DistanceTo(f.Creature.Position))
	}
	return bw.Flush()
}

// DumpMapToFile writes the dump for f to map.txt in dir and returns the path.
func DumpMapToFile(f *Field, dir string) (string, error) {
	path, err := filepath.Abs(filepath.Join(dir, mapDumpFilename))
	if err != nil {
		return "", err
	}

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := WriteMapDump(out, f); err != nil {
		return "", err
	}
	return path, out.Close()
}
