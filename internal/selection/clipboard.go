package selection

import (
	"fmt"

	"LayerBoard/internal/state"
)

// Duplicate clones ids with fresh ids, offset by (offset, offset). A clone
// lands on its source layer, or on the active layer when the source is
// locked. It returns the new ids in source order.
func Duplicate(b *state.Board, ids []state.ID, offset float64) ([]state.ID, error) {
	var (
		out    []state.ID
		locked int
	)
	for _, id := range ids {
		p, l := b.Find(id)
		if p == nil {
			continue
		}
		dst := l
		if dst.Locked {
			dst = b.Active()
		}
		if dst.Locked {
			locked++
			continue
		}
		c := p.Clone()
		c.Translate(offset, offset)
		if err := b.AddTo(dst.ID, c); err != nil {
			return out, err
		}
		out = append(out, c.PrimitiveID())
	}
	if len(out) == 0 && locked > 0 {
		return nil, fmt.Errorf("duplicate: %w", state.ErrLayerLocked)
	}
	return out, nil
}

// Clipboard holds copies of primitives between Copy and Paste. Each paste
// of the same content shifts one offset step further.
type Clipboard struct {
	items  []state.Primitive
	pastes int
}

// Copy replaces the clipboard with clones of ids and reports how many it
// took. When none of ids exists the clipboard keeps its content.
func (c *Clipboard) Copy(b *state.Board, ids []state.ID) int {
	var items []state.Primitive
	for _, id := range ids {
		if p, _ := b.Find(id); p != nil {
			items = append(items, p.Clone())
		}
	}
	if len(items) == 0 {
		return 0
	}
	c.items, c.pastes = items, 0
	return len(items)
}

func (c *Clipboard) Len() int { return len(c.items) }

// Paste adds fresh clones to the active layer and returns their ids.
func (c *Clipboard) Paste(b *state.Board, offset float64) ([]state.ID, error) {
	if len(c.items) == 0 {
		return nil, nil
	}
	if l := b.Active(); l.Locked {
		return nil, fmt.Errorf("paste onto %s: %w", l, state.ErrLayerLocked)
	}
	c.pastes++
	d := offset * float64(c.pastes)
	ids := make([]state.ID, 0, len(c.items))
	for _, item := range c.items {
		p := item.Clone()
		p.Translate(d, d)
		if err := b.Add(p); err != nil {
			return ids, err
		}
		ids = append(ids, p.PrimitiveID())
	}
	return ids, nil
}
