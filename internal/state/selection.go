package state

import "slices"

// Selection is an ordered set of primitive ids.
type Selection struct {
	ids []ID
}

func (s *Selection) Len() int       { return len(s.ids) }
func (s *Selection) Has(id ID) bool { return slices.Contains(s.ids, id) }
func (s *Selection) IDs() []ID      { return slices.Clone(s.ids) }
func (s *Selection) Clear()         { s.ids = nil }
func (s *Selection) Empty() bool    { return len(s.ids) == 0 }

// Add inserts ids not already present, keeping first-seen order.
func (s *Selection) Add(ids ...ID) {
	for _, id := range ids {
		if !s.Has(id) {
			s.ids = append(s.ids, id)
		}
	}
}

// Set replaces the selection.
func (s *Selection) Set(ids ...ID) {
	s.ids = nil
	s.Add(ids...)
}

// Toggle adds id, or removes it if already selected.
func (s *Selection) Toggle(id ID) {
	if s.Has(id) {
		s.Remove(id)
		return
	}
	s.ids = append(s.ids, id)
}

func (s *Selection) Remove(id ID) {
	s.ids = slices.DeleteFunc(s.ids, func(v ID) bool { return v == id })
}

// Prune drops ids that keep reports false for.
func (s *Selection) Prune(keep func(ID) bool) {
	s.ids = slices.DeleteFunc(s.ids, func(v ID) bool { return !keep(v) })
}
