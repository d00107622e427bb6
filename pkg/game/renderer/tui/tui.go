package tui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"echogrove/pkg/engine/input"
	"echogrove/pkg/engine/terminal"
	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/level"
	"echogrove/pkg/game/renderer"
	"echogrove/pkg/game/state"
)

// Field glyphs
const (
	CursorIcon  = "@"
	IconGround  = "·"
	IconFound   = "★"
	IconBullet  = "▸"
	IconChecked = "◉"
	IconOption  = "○"
)

// shades from faint to full glow
var shades = []string{IconGround, "░", "▒", "▓", "█"}

// Viewport margins and minimum sizes
const (
	ViewportMinRows = 9
	ViewportMinCols = 20
	ViewportMaxCols = renderer.FieldCols * 2
	// Lines needed outside the field:
	// - Status line + blank (2)
	// - Meters (4) + blank (1)
	// - Controls (1)
	// - Messages pane (header + 5 messages + footer = 7)
	ViewportTopMargin = 15
	meterWidth        = 20
)

// dynamicGet is used for runtime translation key lookups.
// We use a function variable to avoid go vet's non-constant format string check,
// since we intentionally look up translation keys dynamically from markup.
var dynamicGet = gotext.Get

// TUIRenderer is the terminal-based renderer implementation
type TUIRenderer struct {
	mu      sync.Mutex
	out     io.Writer
	keys    *input.KeyReader
	restore func()
	now     func() time.Time

	colorTitle       color.Style
	colorAction      color.Style
	colorActionShort color.Style
	colorSubtle      color.Style
	colorSelected    color.Style
	colorCursor      color.Style
	colorFact        color.Style
	colorHint        color.Style
	colorMeter       color.Style

	regexpStringFunctions *regexp.Regexp
}

// New creates a TUI renderer on stdin and stdout.
func New() *TUIRenderer {
	return NewWithIO(os.Stdout, os.Stdin)
}

// NewWithIO creates a TUI renderer writing frames to out and reading keys from in.
func NewWithIO(out io.Writer, in io.Reader) *TUIRenderer {
	return &TUIRenderer{
		out:     out,
		keys:    input.NewKeyReader(in),
		restore: func() {},
		now:     time.Now,
	}
}

// Init initializes the TUI renderer (colors, etc.)
func (t *TUIRenderer) Init() {
	t.colorTitle = color.Style{color.FgGreen, color.OpBold}
	t.colorAction = color.Style{color.FgMagenta}
	t.colorActionShort = color.Style{color.FgMagenta, color.OpBold}
	t.colorSubtle = color.Style{color.FgGray, color.OpBold}
	t.colorSelected = color.Style{color.FgBlack, color.BgGreen, color.OpBold}
	t.colorCursor = color.Style{color.FgWhite, color.BgBlack, color.OpBold}
	t.colorFact = color.Style{color.FgYellow}
	t.colorHint = color.Style{color.FgCyan}
	t.colorMeter = color.Style{color.FgGreen}

	t.regexpStringFunctions = regexp.MustCompile(`([a-zA-Z_]*){([a-z A-Z0-9_,:?!'.-]+)}`)
}

// EnterRawMode switches the terminal to single-key input and hides the
// cursor. Close undoes it.
func (t *TUIRenderer) EnterRawMode() error {
	restore, err := terminal.MakeRaw()
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	t.restore = restore
	fmt.Fprint(t.out, "\033[?25l")
	return nil
}

// Close restores the terminal.
func (t *TUIRenderer) Close() {
	fmt.Fprint(t.out, "\033[?25h\r\n")
	t.restore()
	t.restore = func() {}
}

// Clear clears the terminal screen
func (t *TUIRenderer) Clear() {
	c := exec.Command("clear")
	c.Stdout = t.out
	if err := c.Run(); err != nil {
		fmt.Fprint(t.out, "\033[H\033[2J")
	}
}

// GetInput reads one key and returns it as a high-level Intent. End of
// input and Ctrl+C both quit.
func (t *TUIRenderer) GetInput() input.Intent {
	code, err := t.keys.ReadKey()
	if err != nil {
		return input.Intent{Action: input.ActionQuit}
	}
	raw := input.RawInput{
		Device:    input.DeviceTerminal,
		Code:      code,
		Timestamp: t.now(),
	}
	debounced := input.NewDebouncedInput(raw)
	return input.MapToIntent(debounced)
}

// StyleText applies a style to text
func (t *TUIRenderer) StyleText(text string, style renderer.TextStyle) string {
	switch style {
	case renderer.StyleTitle:
		return t.colorTitle.Sprint(text)
	case renderer.StyleAction:
		return t.colorAction.Sprint(text)
	case renderer.StyleActionShort:
		return t.colorActionShort.Sprint(text)
	case renderer.StyleSubtle:
		return t.colorSubtle.Sprint(text)
	case renderer.StyleSelected:
		return t.colorSelected.Sprint(text)
	case renderer.StyleCursor:
		return t.colorCursor.Sprint(text)
	case renderer.StyleFact:
		return t.colorFact.Sprint(text)
	case renderer.StyleHint:
		return t.colorHint.Sprint(text)
	case renderer.StyleMeter:
		return t.colorMeter.Sprint(text)
	default:
		return text
	}
}

// FormatText formats a message with the markup system
func (t *TUIRenderer) FormatText(msg string, args ...any) string {
	ret := fmt.Sprintf(msg, args...)

	matches := t.regexpStringFunctions.FindAllStringSubmatch(ret, -1)

	for _, match := range matches {
		function := match[1]
		operand := match[2]

		var val string

		switch function {
		case "GT":
			val = dynamicGet(operand)
		case "ACTION":
			val = t.colorActionShort.Sprint(operand[0:1]) + t.colorAction.Sprint(operand[1:])
		case "SUBTLE":
			val = t.colorSubtle.Sprint(operand)
		case "HINT":
			val = t.colorHint.Sprint(operand)
		default:
			val = operand
		}

		ret = strings.Replace(ret, match[0], val, -1)
	}

	return ret
}

// ShowMessage displays a message to the user
func (t *TUIRenderer) ShowMessage(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, msg+"\r\n")
}

// GetViewportSize returns the field size in terminal cells based on the
// terminal size.
func (t *TUIRenderer) GetViewportSize() (rows, cols int) {
	termWidth, termHeight := terminal.GetSize()

	cols = min(termWidth-2, ViewportMaxCols)
	rows = min(termHeight-ViewportTopMargin, renderer.FieldRows)

	// Ensure minimum size
	if cols < ViewportMinCols {
		cols = ViewportMinCols
	}
	if rows < ViewportMinRows {
		rows = ViewportMinRows
	}

	return rows, cols
}

// RenderFrame renders a complete game frame
func (t *TUIRenderer) RenderFrame(g *state.Game) {
	rows, cols := t.GetViewportSize()
	width, _ := terminal.GetSize()

	var b strings.Builder
	b.WriteString("\033[H\033[2J")
	t.writeFrame(&b, g, rows, cols, width)

	t.mu.Lock()
	defer t.mu.Unlock()
	// Raw mode needs explicit carriage returns.
	fmt.Fprint(t.out, strings.ReplaceAll(b.String(), "\n", "\r\n"))
}

func (t *TUIRenderer) writeFrame(b *strings.Builder, g *state.Game, rows, cols, width int) {
	switch {
	case g.Screen == state.ScreenMenu:
		t.writeBanner(b)
		if g.Menu != nil {
			t.writeMenu(b, g.Menu)
		}
	case g.Menu != nil:
		// Settings overlay on top of any screen.
		t.writeStatus(b, g)
		t.writeMenu(b, g.Menu)
	case g.Screen == state.ScreenLevelIntro:
		t.writeIntro(b, g)
	case g.Screen == state.ScreenPlaying:
		t.writeStatus(b, g)
		t.writeField(b, g, rows, cols)
		if g.ShowFact {
			t.writeFact(b, g)
		} else {
			t.writeMeters(b, g)
		}
		t.writeControls(b)
	case g.Screen == state.ScreenComplete:
		t.writeComplete(b, g)
	}
	t.writeMessagesPane(b, g, width)
}

func (t *TUIRenderer) writeBanner(b *strings.Builder) {
	b.WriteString("\n  " + t.colorTitle.Sprint(gotext.Get("TITLE")) + "\n")
	b.WriteString("  " + t.colorSubtle.Sprint(gotext.Get("SUBTITLE")) + "\n\n")
}

func (t *TUIRenderer) writeStatus(b *strings.Builder, g *state.Game) {
	b.WriteString(t.colorAction.Sprint(renderer.StatusLine(g)) + "\n\n")
}

// writeMenu renders a menu view with the selected line highlighted.
func (t *TUIRenderer) writeMenu(b *strings.Builder, m *state.MenuView) {
	b.WriteString("  " + t.colorTitle.Sprint(m.Title) + "\n")
	if m.Instructions != "" {
		b.WriteString("  " + t.colorSubtle.Sprint(m.Instructions) + "\n")
	}
	b.WriteString("\n")
	for i, line := range m.Lines {
		marker := "  "
		if line.Checked {
			marker = IconChecked + " "
		}
		label := marker + line.Label
		switch {
		case i == m.Selected:
			b.WriteString("  " + IconBullet + " " + t.colorSelected.Sprint(label) + "\n")
		case !line.Selectable:
			b.WriteString("    " + t.colorSubtle.Sprint(label) + "\n")
		default:
			b.WriteString("    " + label + "\n")
		}
	}
	if m.Help != "" {
		b.WriteString("\n  " + t.colorHint.Sprint(m.Help) + "\n")
	}
}

func (t *TUIRenderer) writeIntro(b *strings.Builder, g *state.Game) {
	b.WriteString("\n  " + t.colorTitle.Sprintf(gotext.Get("INTRO_TITLE"), g.Level) + "\n\n")
	b.WriteString("  " + fmt.Sprintf(gotext.Get("INTRO_FIND"), g.Creature.Name) + "\n")
	b.WriteString("  " + t.colorSubtle.Sprint(g.Mode.Title()) + "\n")
	b.WriteString("  " + t.colorHint.Sprint(level.Description(g.Level)) + "\n\n")
	b.WriteString("  " + t.colorActionShort.Sprint(gotext.Get("INTRO_PRESS_ENTER")) + "\n")
}

// writeField draws the grove scaled to rows x cols, shaded by the proximity glow.
func (t *TUIRenderer) writeField(b *strings.Builder, g *state.Game, rows, cols int) {
	now := t.now()
	cw := g.Area.Width / float64(cols)
	ch := g.Area.Height / float64(rows)
	curRow, curCol := int(g.Cursor.Y/ch), int(g.Cursor.X/cw)
	crRow, crCol := int(g.Creature.Position.Y/ch), int(g.Creature.Position.X/cw)

	b.WriteString(" " + t.colorSubtle.Sprint(strings.Repeat("─", cols)) + "\n")
	for r := range rows {
		b.WriteString(t.colorSubtle.Sprint("│"))
		for c := range cols {
			switch {
			case r == min(curRow, rows-1) && c == min(curCol, cols-1):
				b.WriteString(t.colorCursor.Sprint(CursorIcon))
			case g.Found && r == min(crRow, rows-1) && c == min(crCol, cols-1):
				b.WriteString(t.creatureColor(g).Sprint(t.creatureGlyph(g)))
			default:
				p := g.Area.Clamp(pointAt(r, c, ch, cw))
				b.WriteString(t.shade(g, renderer.Glow(g, p, now)))
			}
		}
		b.WriteString(t.colorSubtle.Sprint("│") + "\n")
	}
	b.WriteString(" " + t.colorSubtle.Sprint(strings.Repeat("─", cols)) + "\n")
}

func (t *TUIRenderer) shade(g *state.Game, v float64) string {
	if v <= 0.02 {
		return t.colorSubtle.Sprint(IconGround)
	}
	idx := min(int(v*float64(len(shades))), len(shades)-1)
	r, gr, bl := renderer.Tint(g.Creature.Color, 0.4+0.6*v)
	return color.RGB(r, gr, bl).Sprint(shades[idx])
}

func (t *TUIRenderer) creatureColor(g *state.Game) color.RGBColor {
	c := g.Creature.Color
	return color.RGB(c.R, c.G, c.B)
}

func (t *TUIRenderer) creatureGlyph(g *state.Game) string {
	if g.Creature.Glyph != "" {
		return g.Creature.Glyph
	}
	return IconFound
}

func (t *TUIRenderer) writeMeters(b *strings.Builder, g *state.Game) {
	b.WriteString("\n")
	for _, m := range renderer.Meters(g) {
		fmt.Fprintf(b, "  %-10s %s %3.0f%%\n", m.Label, t.colorMeter.Sprint(renderer.Bar(m.Value, meterWidth)), m.Value*100)
	}
}

func (t *TUIRenderer) writeFact(b *strings.Builder, g *state.Game) {
	b.WriteString("\n  " + t.colorTitle.Sprintf(gotext.Get("FACT_TITLE"), g.Creature.Name) + "\n")
	b.WriteString("  " + t.colorSubtle.Sprint(gotext.Get("FACT_DID_YOU_KNOW")) + "\n")
	b.WriteString("  " + t.colorFact.Sprint(g.Fact) + "\n")
	if g.Narrating {
		b.WriteString("  " + t.colorHint.Sprint(gotext.Get("FACT_NARRATING")) + "\n")
	} else if g.Countdown > 0 {
		b.WriteString("  " + t.colorHint.Sprintf(gotext.Get("FACT_COUNTDOWN"), g.Countdown) + "\n")
	}
	b.WriteString("  " + t.FormatText("ACTION{%s}", gotext.Get("FACT_CONTINUE")) + "\n")
}

func (t *TUIRenderer) writeControls(b *strings.Builder) {
	b.WriteString("\n- " + t.FormatText("HINT{%s}", gotext.Get("HUD_CONTROLS")) + "\n")
}

func (t *TUIRenderer) writeComplete(b *strings.Builder, g *state.Game) {
	b.WriteString("\n  " + t.colorTitle.Sprint(gotext.Get("COMPLETE_TITLE")) + "\n\n")
	b.WriteString("  " + t.colorSubtle.Sprint(gotext.Get("COMPLETE_DISCOVERED")) + "\n")
	for _, name := range g.Discovered {
		b.WriteString("    " + IconFound + " " + name + "\n")
	}
	b.WriteString("\n  " + t.colorActionShort.Sprint(gotext.Get("COMPLETE_RESTART")) + "\n")
}

// writeMessagesPane renders the messages log pane
func (t *TUIRenderer) writeMessagesPane(b *strings.Builder, g *state.Game, width int) {
	label := " Messages "
	labelLen := len(label)
	sideLen := (width - labelLen) / 2
	if sideLen < 1 {
		sideLen = 1
	}

	leftDashes := strings.Repeat("─", sideLen)
	rightDashes := strings.Repeat("─", max(1, width-sideLen-labelLen))

	b.WriteString("\n")
	b.WriteString(t.colorSubtle.Sprint(leftDashes+label+rightDashes) + "\n")

	if len(g.Messages) == 0 {
		b.WriteString(t.colorSubtle.Sprint("  (no messages)") + "\n")
	} else {
		for _, msg := range g.Messages {
			b.WriteString("  " + msg + "\n")
		}
	}

	b.WriteString(t.colorSubtle.Sprint(strings.Repeat("─", max(1, width))) + "\n")
}

// pointAt is the field point under the middle of a terminal cell.
func pointAt(row, col int, ch, cw float64) world.Point {
	return world.Pt((float64(col)+0.5)*cw, (float64(row)+0.5)*ch)
}
