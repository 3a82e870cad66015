package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSnapshotLimit is how many named snapshots are kept by default.
const DefaultSnapshotLimit = 30

// Snapshot is a named, full copy of board content outside the linear stack.
type Snapshot struct {
	ID        uuid.UUID
	Label     string
	Timestamp time.Time
	State     []byte
}

// Snapshots is an ordered, bounded list, oldest first.
type Snapshots struct {
	limit int
	items []Snapshot
	seq   int
	now   func() time.Time
}

func NewSnapshots(limit int) *Snapshots {
	if limit < 1 {
		limit = DefaultSnapshotLimit
	}
	return &Snapshots{limit: limit, now: time.Now}
}

// Create stores content under label. A blank label becomes "Snapshot N".
// The oldest snapshot is dropped once the limit is exceeded.
func (s *Snapshots) Create(label string, content []byte) Snapshot {
	s.seq++
	label = strings.TrimSpace(label)
	if label == "" {
		label = fmt.Sprintf("Snapshot %d", s.seq)
	}
	snap := Snapshot{ID: uuid.New(), Label: label, Timestamp: s.now(), State: content}
	s.items = append(s.items, snap)
	if over := len(s.items) - s.limit; over > 0 {
		s.items = append(s.items[:0], s.items[over:]...)
	}
	return snap
}

// Find resolves key as a snapshot id first, then as a label. Labels need
// not be unique; the most recent match wins.
func (s *Snapshots) Find(key string) (Snapshot, bool) {
	if id, err := uuid.Parse(key); err == nil {
		for _, snap := range s.items {
			if snap.ID == id {
				return snap, true
			}
		}
	}
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].Label == key {
			return s.items[i], true
		}
	}
	return Snapshot{}, false
}

// Delete removes the snapshot key resolves to.
func (s *Snapshots) Delete(key string) bool {
	snap, ok := s.Find(key)
	if !ok {
		return false
	}
	for i := range s.items {
		if s.items[i].ID == snap.ID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// List returns the snapshots oldest first.
func (s *Snapshots) List() []Snapshot { return append([]Snapshot(nil), s.items...) }

func (s *Snapshots) Len() int { return len(s.items) }

// Reset forgets every snapshot and restarts automatic numbering.
func (s *Snapshots) Reset() {
	s.items = nil
	s.seq = 0
}
