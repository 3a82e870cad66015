// Package history keeps the board's linear undo/redo timeline and its
// named snapshots. Entries hold full serialized board content.
package history

import (
	"time"

	"github.com/google/uuid"

	"LayerBoard/internal/state"
)

// DefaultLimit is how many linear entries are kept by default.
const DefaultLimit = 50

// Entry is one point in the linear timeline.
type Entry struct {
	ID        uuid.UUID
	Label     string
	Timestamp time.Time
	State     []byte
	Affected  []state.ID
}

// Timeline is a read-only view of the stack for display.
type Timeline struct {
	Entries     []Entry
	ActiveIndex int
}

// Stack is a bounded linear history. entries[cursor] is the state the
// board currently shows; everything after it is the redo branch.
type Stack struct {
	limit   int
	entries []Entry
	cursor  int
	now     func() time.Time
}

// NewStack returns an empty stack keeping at most limit entries.
func NewStack(limit int) *Stack {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit, cursor: -1, now: time.Now}
}

// Reset discards the timeline and seeds it with a single base entry.
func (s *Stack) Reset(label string, content []byte) Entry {
	s.entries = s.entries[:0]
	s.cursor = -1
	return s.Push(label, content, nil)
}

// Push records a new state after the cursor, dropping any redo branch and
// the oldest entries beyond the limit.
func (s *Stack) Push(label string, content []byte, affected []state.ID) Entry {
	e := Entry{
		ID:        uuid.New(),
		Label:     label,
		Timestamp: s.now(),
		State:     content,
		Affected:  append([]state.ID(nil), affected...),
	}
	s.entries = append(s.entries[:s.cursor+1], e)
	if over := len(s.entries) - s.limit; over > 0 {
		s.entries = append(s.entries[:0], s.entries[over:]...)
	}
	s.cursor = len(s.entries) - 1
	return e
}

// Undo steps back one entry and returns the state to restore.
func (s *Stack) Undo() (Entry, bool) {
	if !s.CanUndo() {
		return Entry{}, false
	}
	s.cursor--
	return s.entries[s.cursor], true
}

// Redo steps forward one entry and returns the state to restore.
func (s *Stack) Redo() (Entry, bool) {
	if !s.CanRedo() {
		return Entry{}, false
	}
	s.cursor++
	return s.entries[s.cursor], true
}

func (s *Stack) CanUndo() bool { return s.cursor > 0 }
func (s *Stack) CanRedo() bool { return s.cursor >= 0 && s.cursor < len(s.entries)-1 }
func (s *Stack) Len() int      { return len(s.entries) }

// Current is the entry matching what the board shows.
func (s *Stack) Current() (Entry, bool) {
	if s.cursor < 0 {
		return Entry{}, false
	}
	return s.entries[s.cursor], true
}

// Timeline copies the entries for display. State blobs are shared and
// must not be modified.
func (s *Stack) Timeline() Timeline {
	return Timeline{Entries: append([]Entry(nil), s.entries...), ActiveIndex: s.cursor}
}
