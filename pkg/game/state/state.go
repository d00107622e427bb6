package state

import (
	"slices"

	"echogrove/pkg/engine/world"
	"echogrove/pkg/game/creatures"
	"echogrove/pkg/game/cues"
	"echogrove/pkg/game/level"
	"echogrove/pkg/game/proximity"
)

// Screen is the top-level game flow state.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenLevelIntro
	ScreenPlaying
	ScreenComplete
)

func (s Screen) String() string {
	switch s {
	case ScreenMenu:
		return "menu"
	case ScreenLevelIntro:
		return "levelIntro"
	case ScreenPlaying:
		return "playing"
	case ScreenComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// StartCursor is where the cursor is placed at the start of every level.
var StartCursor = world.Pt(100, 100)

// MenuLine is one rendered row of a menu overlay.
type MenuLine struct {
	Label      string
	Selectable bool
	Checked    bool
}

// MenuView is what renderers draw for an open menu.
type MenuView struct {
	Title        string
	Instructions string
	Help         string
	Lines        []MenuLine
	Selected     int
}

// Game represents the state of one Echo Grove session. It is owned by the
// game loop goroutine; renderers that draw on another goroutine take a
// snapshot.
type Game struct {
	Screen   Screen
	Level    int
	Mode     cues.Mode
	TalkBack bool
	Haptics  bool

	// Settings is true while the accessibility settings overlay is open.
	Settings bool
	// Menu is the open menu overlay, if any.
	Menu *MenuView

	Area        world.Area
	Cursor      world.Point
	Creature    creatures.Creature
	Difficulty  level.Difficulty
	Distractors []world.Point

	Reading  proximity.Reading
	Feedback cues.Feedback
	Visual   cues.Visual

	Found     bool
	Fact      string
	ShowFact  bool
	Narrating bool
	Countdown int

	// Discovered lists creature names in the order they were found.
	Discovered []string

	// Caption is the most recent narration line.
	Caption  string
	Messages []string

	Quit bool
}

// NewGame creates a new game instance on the menu screen.
func NewGame() *Game {
	return &Game{
		Screen:   ScreenMenu,
		Level:    1,
		Mode:     cues.MultiSensory,
		TalkBack: true,
		Haptics:  true,
		Area:     world.DefaultArea(),
		Cursor:   StartCursor,
		Messages: make([]string, 0),
	}
}

// AddMessage adds a message to the game's message log
func (g *Game) AddMessage(msg string) {
	const maxMessages = 5
	g.Messages = append(g.Messages, msg)

	// Keep only the last maxMessages
	if len(g.Messages) > maxMessages {
		g.Messages = g.Messages[len(g.Messages)-maxMessages:]
	}
}

// ClearMessages empties the message log.
func (g *Game) ClearMessages() {
	g.Messages = make([]string, 0)
}

// ResetLevel clears everything the previous level left behind and puts the
// cursor back at its start.
func (g *Game) ResetLevel() {
	g.Cursor = StartCursor
	g.Found = false
	g.Fact = ""
	g.ShowFact = false
	g.Narrating = false
	g.Countdown = 0
	g.Reading = proximity.Reading{}
	g.Feedback = cues.Feedback{}
	g.Visual = cues.Visual{}
	g.Distractors = nil
}

// AdvanceLevel moves to the next level and resets level-specific state.
func (g *Game) AdvanceLevel() {
	g.Level = level.Next(g.Level)
	g.ResetLevel()
}

// Restart returns to the menu at level 1, forgetting discoveries and the
// message log.
func (g *Game) Restart() {
	g.Screen = ScreenMenu
	g.Level = 1
	g.Discovered = nil
	g.Settings = false
	g.ClearMessages()
	g.ResetLevel()
}

// Discover records name as found, once.
func (g *Game) Discover(name string) {
	if !slices.Contains(g.Discovered, name) {
		g.Discovered = append(g.Discovered, name)
	}
}

// Playing reports whether the cursor is live: in a level, creature not yet
// found and no overlay open.
func (g *Game) Playing() bool {
	return g.Screen == ScreenPlaying && !g.Found && !g.Settings
}
