// Package schedule runs delayed callbacks on the goroutine that drives the
// game loop. Timers are kept in a min-heap ordered by due time; the owner
// calls RunDue once per tick, so callbacks never race with game state.
package schedule

import (
	"sync"
	"time"

	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
)

// ID identifies a scheduled callback.
type ID uint64

type timer struct {
	id  ID
	due time.Time
	fn  func()
}

// Scheduler is a loop-driven timer queue. After and Cancel are safe to call
// from any goroutine; RunDue should only be called by the loop owner.
type Scheduler struct {
	mu        sync.Mutex
	timers    *heap.Heap[*timer]
	cancelled mapset.Set[ID]
	next      ID
	clock     func() time.Time
}

// New creates a scheduler using clock for "now". A nil clock uses time.Now.
func New(clock func() time.Time) *Scheduler {
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{
		timers:    heap.New[*timer](lessTimer),
		cancelled: mapset.New[ID](),
		clock:     clock,
	}
}

func lessTimer(a, b *timer) bool {
	if a.due.Equal(b.due) {
		return a.id < b.id
	}
	return a.due.Before(b.due)
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock()
}

// After schedules fn to run once d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	s.timers.Push(&timer{id: s.next, due: s.clock().Add(d), fn: fn})
	return s.next
}

// Cancel prevents a pending callback from running. Unknown or already
// fired ids are ignored.
func (s *Scheduler) Cancel(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == 0 || id > s.next {
		return
	}
	s.cancelled.Put(id)
}

// CancelAll drops every pending callback.
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timers = heap.New[*timer](lessTimer)
	s.cancelled = mapset.New[ID]()
}

// Pending returns the number of callbacks waiting to run.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.snapshot() {
		if !s.cancelled.Has(t.id) {
			n++
		}
	}
	return n
}

// snapshot drains and refills the heap to list its timers. Caller holds mu.
func (s *Scheduler) snapshot() []*timer {
	var all []*timer
	for {
		t, ok := s.timers.Pop()
		if !ok {
			break
		}
		all = append(all, t)
	}
	for _, t := range all {
		s.timers.Push(t)
	}
	return all
}

// NextDue reports when the earliest live callback is due.
func (s *Scheduler) NextDue() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		t, ok := s.timers.Peek()
		if !ok {
			return time.Time{}, false
		}
		if s.cancelled.Has(t.id) {
			s.timers.Pop()
			s.cancelled.Remove(t.id)
			continue
		}
		return t.due, true
	}
}

// RunDue runs every callback due at or before now, in due order, and
// returns how many ran. Callbacks scheduled while running are left for
// the next call.
func (s *Scheduler) RunDue(now time.Time) int {
	s.mu.Lock()
	var due []*timer
	for {
		t, ok := s.timers.Peek()
		if !ok || t.due.After(now) {
			break
		}
		s.timers.Pop()
		if s.cancelled.Has(t.id) {
			s.cancelled.Remove(t.id)
			continue
		}
		due = append(due, t)
	}
	s.mu.Unlock()

	ran := 0
	for _, t := range due {
		// An earlier callback in this batch may have cancelled a later one.
		if s.isCancelled(t.id) {
			continue
		}
		t.fn()
		ran++
	}
	return ran
}

func (s *Scheduler) isCancelled(id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled.Has(id) {
		s.cancelled.Remove(id)
		return true
	}
	return false
}

// Group tracks a related set of callbacks so they can be cancelled together.
type Group struct {
	s   *Scheduler
	mu  sync.Mutex
	ids mapset.Set[ID]
}

// NewGroup creates an empty group on s.
func (s *Scheduler) NewGroup() *Group {
	return &Group{s: s, ids: mapset.New[ID]()}
}

// After schedules fn on the underlying scheduler as part of the group.
func (g *Group) After(d time.Duration, fn func()) ID {
	var id ID
	id = g.s.After(d, func() {
		g.mu.Lock()
		g.ids.Remove(id)
		g.mu.Unlock()
		fn()
	})
	g.mu.Lock()
	g.ids.Put(id)
	g.mu.Unlock()
	return id
}

// Cancel drops every pending callback in the group.
func (g *Group) Cancel() {
	g.mu.Lock()
	ids := g.ids
	g.ids = mapset.New[ID]()
	g.mu.Unlock()

	ids.Each(func(id ID) {
		g.s.Cancel(id)
	})
}

// Len returns the number of pending callbacks in the group.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ids.Size()
}
