// Package replay tracks the read position over a fixed sequence of recorded
// trajectory events while the mock server replays them across requests.
package replay

import (
	"sync"

	"github.com/xiaot623/llmreplay/trajectory"
)

// State owns an ordered event queue and a cursor marking how many events have
// been consumed. The event slice is fixed after construction; the cursor only
// moves forward one step per draw, or back to zero on Reset. All methods are
// safe for concurrent use.
type State struct {
	mu     sync.Mutex
	events []trajectory.Event
	cursor int
}

// New creates a replay state over events. A nil slice is a valid empty queue.
func New(events []trajectory.Event) *State {
	return &State{events: events}
}

// Next returns the event at the cursor and advances it. The second return is
// false once the queue is exhausted. Concurrent callers never receive the
// same event twice.
func (s *State) Next() (trajectory.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.events) {
		return trajectory.Event{}, false
	}
	ev := s.events[s.cursor]
	s.cursor++
	return ev, true
}

// Peek returns the event at the cursor without advancing it.
func (s *State) Peek() (trajectory.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor >= len(s.events) {
		return trajectory.Event{}, false
	}
	return s.events[s.cursor], true
}

// Reset moves the cursor back to the beginning. Safe at any point, including
// mid-sequence.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = 0
}

// Remaining reports how many events are still undrawn.
func (s *State) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events) - s.cursor
}

// Len reports the total queue length.
func (s *State) Len() int {
	return len(s.events)
}
