package state

import (
	"fmt"
	"strings"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/viewport"
)

// Size is the logical extent of the canvas.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s Size) Rect() geom.Rect { return geom.RectXYWH(0, 0, s.Width, s.Height) }

// Board is the whole drawing of one open document. It is owned by a single
// engine and mutated only from the UI goroutine.
type Board struct {
	Canvas      Size
	Background  Color
	Layers      []*Layer
	ActiveLayer ID
	View        viewport.Viewport
	Selection   Selection

	clock Clock
}

// New returns a board with a single visible "Layer 1".
func New(canvas Size, background Color) *Board {
	b := &Board{Canvas: canvas, Background: background, View: viewport.New()}
	b.AddLayer("")
	return b
}

// NextID issues a fresh id.
func (b *Board) NextID() ID { return b.clock.Tick() }

// LastID is the highest id issued so far.
func (b *Board) LastID() ID { return b.clock.Last() }

// Layer returns the layer with id, or nil.
func (b *Board) Layer(id ID) *Layer {
	if i := b.LayerIndex(id); i >= 0 {
		return b.Layers[i]
	}
	return nil
}

// LayerIndex returns the stack position of layer id, or -1.
func (b *Board) LayerIndex(id ID) int {
	for i, l := range b.Layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Active returns the layer new primitives attach to.
func (b *Board) Active() *Layer { return b.Layer(b.ActiveLayer) }

// AddLayer appends a layer on top and makes it active. An empty name gets
// the next free "Layer N".
func (b *Board) AddLayer(name string) *Layer {
	name = strings.TrimSpace(name)
	if name == "" {
		name = b.freeLayerName()
	}
	l := &Layer{ID: b.NextID(), Name: name, Visible: true}
	b.Layers = append(b.Layers, l)
	b.renumber()
	b.ActiveLayer = l.ID
	return l
}

func (b *Board) freeLayerName() string {
	for n := len(b.Layers) + 1; ; n++ {
		name := fmt.Sprintf("Layer %d", n)
		taken := false
		for _, l := range b.Layers {
			if l.Name == name {
				taken = true
				break
			}
		}
		if !taken {
			return name
		}
	}
}

// DeleteLayer removes a layer and drops its primitives from the selection.
// The last layer and locked layers are refused. If the active layer goes,
// the layer below it (or the new bottom) becomes active.
func (b *Board) DeleteLayer(id ID) error {
	i := b.LayerIndex(id)
	if i < 0 {
		return fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	if len(b.Layers) == 1 {
		return ErrLastLayer
	}
	l := b.Layers[i]
	if l.Locked {
		return fmt.Errorf("delete %s: %w", l, ErrLayerLocked)
	}
	for _, p := range l.Primitives {
		b.Selection.Remove(p.PrimitiveID())
	}
	b.Layers = append(b.Layers[:i:i], b.Layers[i+1:]...)
	b.renumber()
	if b.ActiveLayer == id {
		b.ActiveLayer = b.Layers[max(i-1, 0)].ID
	}
	return nil
}

// RenameLayer sets a non-empty name.
func (b *Board) RenameLayer(id ID, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, Invalid("name", "layer name must not be empty")
	}
	l := b.Layer(id)
	if l == nil {
		return false, fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	if l.Name == name {
		return false, nil
	}
	l.Name = name
	return true, nil
}

// MoveLayer shifts a layer by delta positions (positive is up). It reports
// false when the layer is already at that end of the stack.
func (b *Board) MoveLayer(id ID, delta int) (bool, error) {
	i := b.LayerIndex(id)
	if i < 0 {
		return false, fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	j := min(max(i+delta, 0), len(b.Layers)-1)
	if j == i {
		return false, nil
	}
	l := b.Layers[i]
	b.Layers = append(b.Layers[:i:i], b.Layers[i+1:]...)
	b.Layers = append(b.Layers[:j], append([]*Layer{l}, b.Layers[j:]...)...)
	b.renumber()
	return true, nil
}

// SetLayerVisible reports whether the flag changed.
func (b *Board) SetLayerVisible(id ID, visible bool) (bool, error) {
	l := b.Layer(id)
	if l == nil {
		return false, fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	changed := l.Visible != visible
	l.Visible = visible
	return changed, nil
}

// SetLayerLocked reports whether the flag changed.
func (b *Board) SetLayerLocked(id ID, locked bool) (bool, error) {
	l := b.Layer(id)
	if l == nil {
		return false, fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	changed := l.Locked != locked
	l.Locked = locked
	return changed, nil
}

// SetActiveLayer picks the layer new primitives attach to.
func (b *Board) SetActiveLayer(id ID) error {
	if b.Layer(id) == nil {
		return fmt.Errorf("layer %d: %w", id, ErrNotFound)
	}
	b.ActiveLayer = id
	return nil
}

func (b *Board) renumber() {
	for i, l := range b.Layers {
		l.Order = i
	}
}

// Find locates a primitive and its layer.
func (b *Board) Find(id ID) (Primitive, *Layer) {
	for _, l := range b.Layers {
		if i := l.Index(id); i >= 0 {
			return l.Primitives[i], l
		}
	}
	return nil, nil
}

// Mutable returns a primitive that may be changed in place, refusing
// primitives on locked layers.
func (b *Board) Mutable(id ID) (Primitive, error) {
	p, l := b.Find(id)
	if p == nil {
		return nil, fmt.Errorf("primitive %d: %w", id, ErrNotFound)
	}
	if l.Locked {
		return nil, fmt.Errorf("primitive %d on %s: %w", id, l, ErrLayerLocked)
	}
	return p, nil
}

// Add attaches p to the active layer with a fresh id.
func (b *Board) Add(p Primitive) error { return b.AddTo(b.ActiveLayer, p) }

// AddTo attaches p on top of layer id with a fresh id.
func (b *Board) AddTo(layer ID, p Primitive) error {
	l := b.Layer(layer)
	if l == nil {
		return fmt.Errorf("layer %d: %w", layer, ErrNotFound)
	}
	if l.Locked {
		return fmt.Errorf("add to %s: %w", l, ErrLayerLocked)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.setIdentity(b.NextID(), l.ID)
	l.Primitives = append(l.Primitives, p)
	return nil
}

// Remove deletes a primitive and drops it from the selection.
func (b *Board) Remove(id ID) (Primitive, error) {
	for _, l := range b.Layers {
		i := l.Index(id)
		if i < 0 {
			continue
		}
		if l.Locked {
			return nil, fmt.Errorf("remove %d from %s: %w", id, l, ErrLayerLocked)
		}
		p := l.Primitives[i]
		l.Primitives = append(l.Primitives[:i:i], l.Primitives[i+1:]...)
		b.Selection.Remove(id)
		return p, nil
	}
	return nil, fmt.Errorf("primitive %d: %w", id, ErrNotFound)
}

// Reassign moves a primitive on top of another layer; both must be unlocked.
func (b *Board) Reassign(id, layer ID) error {
	dst := b.Layer(layer)
	if dst == nil {
		return fmt.Errorf("layer %d: %w", layer, ErrNotFound)
	}
	p, src := b.Find(id)
	if p == nil {
		return fmt.Errorf("primitive %d: %w", id, ErrNotFound)
	}
	if src == dst {
		return nil
	}
	if src.Locked || dst.Locked {
		return fmt.Errorf("move %d to %s: %w", id, dst, ErrLayerLocked)
	}
	i := src.Index(id)
	src.Primitives = append(src.Primitives[:i:i], src.Primitives[i+1:]...)
	p.setIdentity(id, dst.ID)
	dst.Primitives = append(dst.Primitives, p)
	return nil
}

// Clear empties every unlocked layer and reports how many primitives went
// and how many locked layers kept content.
func (b *Board) Clear() (removed, lockedKept int) {
	for _, l := range b.Layers {
		if l.Locked {
			if !l.Empty() {
				lockedKept++
			}
			continue
		}
		for _, p := range l.Primitives {
			b.Selection.Remove(p.PrimitiveID())
		}
		removed += len(l.Primitives)
		if l.Raster != nil {
			removed++
		}
		l.Primitives = nil
		l.Raster = nil
	}
	return removed, lockedKept
}

// Walk visits primitives bottom to top until fn returns false.
func (b *Board) Walk(fn func(*Layer, Primitive) bool) {
	for _, l := range b.Layers {
		for _, p := range l.Primitives {
			if !fn(l, p) {
				return
			}
		}
	}
}

// WalkTopDown visits primitives top to bottom until fn returns false.
func (b *Board) WalkTopDown(fn func(*Layer, Primitive) bool) {
	for i := len(b.Layers) - 1; i >= 0; i-- {
		l := b.Layers[i]
		for j := len(l.Primitives) - 1; j >= 0; j-- {
			if !fn(l, l.Primitives[j]) {
				return
			}
		}
	}
}

// Count returns the number of primitives of kind k on the board.
func (b *Board) Count(k Kind) int {
	n := 0
	b.Walk(func(_ *Layer, p Primitive) bool {
		if p.Kind() == k {
			n++
		}
		return true
	})
	return n
}

// SelectionBounds is the union of the selected primitives' bounds.
func (b *Board) SelectionBounds() (geom.Rect, bool) {
	var (
		r  geom.Rect
		ok bool
	)
	for _, id := range b.Selection.IDs() {
		p, _ := b.Find(id)
		if p == nil {
			continue
		}
		if !ok {
			r, ok = p.Bounds(), true
			continue
		}
		r = r.Union(p.Bounds())
	}
	return r, ok
}

// PruneSelection drops ids that no longer exist.
func (b *Board) PruneSelection() {
	b.Selection.Prune(func(id ID) bool {
		p, _ := b.Find(id)
		return p != nil
	})
}

// Clone deep-copies the board, including its id clock.
func (b *Board) Clone() *Board {
	c := *b
	c.Layers = make([]*Layer, len(b.Layers))
	for i, l := range b.Layers {
		c.Layers[i] = l.clone()
	}
	c.Selection = Selection{ids: b.Selection.IDs()}
	return &c
}
