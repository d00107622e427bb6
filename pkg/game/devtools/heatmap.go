package devtools

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/leonelquinteros/gotext"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/renderer"
)

const heatmapStyle = `    <style>
        body {
            background-color: #0c140e;
            color: #e6ecd8;
            font-family: 'Courier New', monospace;
            padding: 20px;
        }
        .header {
            color: #f0d890;
            font-size: 18px;
            margin-bottom: 10px;
        }
        .meta { color: #8a9a80; margin-bottom: 20px; }
        .map-container {
            background-color: #121c14;
            padding: 20px;
            border-radius: 8px;
            display: inline-block;
        }
        .map-row {
            white-space: pre;
            line-height: 1;
            font-size: 14px;
        }
        .map-row span { display: inline-block; width: 14px; text-align: center; }
        .creature { color: #ffffff; font-weight: bold; }
        .distractor { color: #ff7060; font-weight: bold; }
        .start { color: #60c0ff; font-weight: bold; }
        .cold { color: #2a3a2c; }
    </style>
`

// WriteHeatmapHTML renders f as an HTML page, each cell tinted with the
// creature's colour by its proximity.
func WriteHeatmapHTML(w io.Writer, f *Field) error {
	bw := bufio.NewWriter(w)
	title := html.EscapeString(fmt.Sprintf(gotext.Get("HEATMAP_TITLE"), f.Level, f.Creature.Name))

	bw.WriteString("<!DOCTYPE html>\n<html>\n<head>\n    <meta charset=\"UTF-8\">\n")
	fmt.Fprintf(bw, "    <title>%s</title>\n", title)
	bw.WriteString(heatmapStyle)
	bw.WriteString("</head>\n<body>\n")

	fmt.Fprintf(bw, "    <div class=\"header\">%s</div>\n", title)
	fmt.Fprintf(bw, "    <div class=\"meta\">radius %.0f, min proximity %.2f, %d distractors, seed %d, coverage %.0f%%</div>\n",
		f.Radius, f.Difficulty.MinProximity, len(f.Distractors), f.Seed, f.Coverage()*100)

	bw.WriteString("    <div class=\"map-container\">\n")
	for row, cells := range f.Cells {
		bw.WriteString(`        <div class="map-row">`)
		for col, p := range cells {
			icon, class := heatmapCell(f, row, col)
			r, g, b := renderer.Tint(f.Creature.Color, p)
			fmt.Fprintf(bw, `<span class="%s" style="background-color: rgb(%d,%d,%d)" title="%.2f">%s</span>`,
				class, r, g, b, p, html.EscapeString(icon))
		}
		bw.WriteString("</div>\n")
	}
	bw.WriteString("    </div>\n</body>\n</html>\n")
	return bw.Flush()
}

// heatmapCell returns the glyph and CSS class for a cell.
func heatmapCell(f *Field, row, col int) (string, string) {
	at := func(p world.Point) bool {
		r, c := renderer.CellOf(p)
		return r == row && c == col
	}
	switch {
	case at(f.Creature.Position):
		glyph := f.Creature.Glyph
		if glyph == "" {
			glyph = "C"
		}
		return glyph, "creature"
	case at(f.Start):
		return "@", "start"
	}
	for _, d := range f.Distractors {
		if at(d) {
			return "x", "distractor"
		}
	}
	if f.Cells[row][col] <= 0 {
		return "·", "cold"
	}
	return " ", "warm"
}

// SaveHeatmapHTML writes the heatmap for f into dir and returns the path.
func SaveHeatmapHTML(f *Field, dir string) (string, error) {
	name := fmt.Sprintf("heatmap-level%d-%s.html", f.Level, time.Now().Format("20060102-150405"))
	path, err := filepath.Abs(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create heatmap: %w", err)
	}
	defer out.Close()

	if err := WriteHeatmapHTML(out, f); err != nil {
		return "", fmt.Errorf("write heatmap: %w", err)
	}
	return path, out.Close()
}
