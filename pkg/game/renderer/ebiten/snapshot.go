package ebiten

import (
	"slices"
	"time"

	"echogrove/pkg/game/state"
)

// RenderFrame captures a snapshot of g for the next Draw call. It runs on
// the game loop goroutine; Draw only ever reads the snapshot.
func (e *EbitenRenderer) RenderFrame(g *state.Game) {
	if g == nil {
		e.snapshotMutex.Lock()
		e.snapshot.valid = false
		e.snapshotMutex.Unlock()
		return
	}

	now := time.Now().UnixMilli()
	copied := cloneGame(g)
	messages := e.trackMessages(g.Messages, now)
	e.trackCaption(g, now)

	e.snapshotMutex.Lock()
	defer e.snapshotMutex.Unlock()

	switch {
	case !g.Found:
		e.snapshot.foundAt = 0
	case e.snapshot.foundAt == 0:
		e.snapshot.foundAt = now
	}
	e.snapshot.valid = true
	e.snapshot.game = copied
	e.snapshot.messages = messages
}

// cloneGame copies g deeply enough that the game loop can keep mutating it.
func cloneGame(g *state.Game) state.Game {
	c := *g
	c.Distractors = slices.Clone(g.Distractors)
	c.Discovered = slices.Clone(g.Discovered)
	c.Messages = slices.Clone(g.Messages)
	c.Visual.Rings = slices.Clone(g.Visual.Rings)
	c.Creature.Facts = slices.Clone(g.Creature.Facts)
	if g.Menu != nil {
		m := *g.Menu
		m.Lines = slices.Clone(g.Menu.Lines)
		c.Menu = &m
	}
	return c
}

// trackMessages stamps new messages and drops the ones older than
// messageLifetime, so the log fades out even while the game is idle.
func (e *EbitenRenderer) trackMessages(current []string, now int64) []messageEntry {
	e.messagesMutex.Lock()
	defer e.messagesMutex.Unlock()

	updated := make([]messageEntry, 0, len(current))
	for _, msg := range current {
		entry := messageEntry{Text: msg, Timestamp: now}
		if i := slices.IndexFunc(e.trackedMessages, func(m messageEntry) bool { return m.Text == msg }); i >= 0 {
			entry = e.trackedMessages[i]
		}
		updated = append(updated, entry)
	}
	e.trackedMessages = updated

	visible := make([]messageEntry, 0, len(updated))
	for _, m := range updated {
		if now-m.Timestamp < messageLifetime {
			visible = append(visible, m)
		}
	}
	return visible
}

// trackCaption raises a callout near the cursor whenever a new line is
// narrated during play.
func (e *EbitenRenderer) trackCaption(g *state.Game, now int64) {
	e.calloutsMutex.Lock()
	caption := g.Caption
	isNew := caption != "" && caption != e.lastCaption
	e.lastCaption = caption
	e.calloutsMutex.Unlock()

	if !isNew || g.Screen != state.ScreenPlaying || g.ShowFact {
		return
	}
	if g.Found {
		e.AddCallout(g.Creature.Position, g.Creature.Name, colorCalloutSuccess, calloutLifetime)
		return
	}
	e.AddCallout(g.Cursor, caption, colorCalloutInfo, calloutLifetime)
}
