package engine

import (
	"errors"
	"fmt"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/selection"
	"LayerBoard/internal/state"
	"LayerBoard/internal/viewport"
)

// Select replaces the selection with ids. Unknown ids are rejected and
// primitives on hidden layers cannot be selected.
func (e *Engine) Select(ids ...state.ID) Result {
	for _, id := range ids {
		p, l := e.board.Find(id)
		if p == nil {
			return e.reject("select", fmt.Errorf("primitive %d: %w", id, state.ErrNotFound))
		}
		if !l.Visible {
			return e.reject("select", fmt.Errorf("primitive %d is on hidden %s", id, l))
		}
	}
	e.board.Selection.Set(ids...)
	return Result{Status: StatusApplied, IDs: e.board.Selection.IDs()}
}

// SelectAll selects every primitive on a visible layer.
func (e *Engine) SelectAll() Result {
	var ids []state.ID
	e.board.Walk(func(l *state.Layer, p state.Primitive) bool {
		if l.Visible {
			ids = append(ids, p.PrimitiveID())
		}
		return true
	})
	e.board.Selection.Set(ids...)
	return Result{Status: StatusApplied, IDs: ids}
}

func (e *Engine) ClearSelection() Result {
	if e.board.Selection.Empty() {
		return unchanged
	}
	e.board.Selection.Clear()
	return applied
}

// DeleteSelection removes the selected primitives that are not locked.
func (e *Engine) DeleteSelection() Result {
	var (
		removed []state.ID
		locked  int
	)
	for _, id := range e.board.Selection.IDs() {
		if _, err := e.board.Remove(id); err != nil {
			if errors.Is(err, state.ErrLayerLocked) {
				locked++
			}
			continue
		}
		removed = append(removed, id)
	}
	if len(removed) == 0 {
		if locked > 0 {
			return e.reject("delete selection", state.ErrLayerLocked)
		}
		return unchanged
	}
	return e.commit("Delete", removed)
}

// transformSelection runs a one-shot transform over the selection.
func (e *Engine) transformSelection(op selection.Op, apply func(*selection.Transform)) Result {
	label := transformLabel(op)
	e.CancelGesture()
	ids := e.board.Selection.IDs()
	t, err := selection.Begin(e.board, ids, op, selection.HandleSE, geom.Point{})
	if err != nil {
		return e.reject(label, err)
	}
	apply(t)
	if !t.Changed() {
		return unchanged
	}
	return e.commit(label, t.IDs())
}

// MoveSelection translates the selection by (dx, dy) logical units.
func (e *Engine) MoveSelection(dx, dy float64) (Result, error) {
	if !geom.Finite(dx, dy) {
		return e.invalid("move", state.Invalid("delta", "must be finite"))
	}
	return e.transformSelection(selection.OpMove, func(t *selection.Transform) { t.MoveBy(dx, dy) }), nil
}

// ResizeSelection gives the selection frame a new size, clamped to the
// configured extent limits, keeping its top-left corner.
func (e *Engine) ResizeSelection(w, h float64) (Result, error) {
	if !geom.Finite(w, h) || w <= 0 || h <= 0 {
		return e.invalid("resize", state.Invalid("size", "width and height must be > 0, got %vx%v", w, h))
	}
	lim := e.limits()
	return e.transformSelection(selection.OpResize, func(t *selection.Transform) { t.ResizeTo(w, h, lim) }), nil
}

// RotateSelection turns each rotatable selected primitive by deg degrees
// about its own center.
func (e *Engine) RotateSelection(deg float64) (Result, error) {
	if !geom.Finite(deg) {
		return e.invalid("rotate", state.Invalid("angle", "must be finite"))
	}
	return e.transformSelection(selection.OpRotate, func(t *selection.Transform) { t.RotateBy(deg) }), nil
}

// Duplicate clones the selection with an offset and selects the clones.
func (e *Engine) Duplicate() Result {
	if e.board.Selection.Empty() {
		return unchanged
	}
	ids, err := selection.Duplicate(e.board, e.board.Selection.IDs(), e.cfg.Input.DuplicateOffset)
	if err != nil && len(ids) == 0 {
		return e.reject("duplicate", err)
	}
	if len(ids) == 0 {
		return unchanged
	}
	e.board.Selection.Set(ids...)
	return e.commit("Duplicate", ids)
}

// Copy puts clones of the selection on the engine's clipboard.
func (e *Engine) Copy() Result {
	if e.clip.Copy(e.board, e.board.Selection.IDs()) == 0 {
		return unchanged
	}
	return applied
}

// Paste adds the clipboard to the active layer and selects it. Each paste
// of the same copy lands one offset step further.
func (e *Engine) Paste() Result {
	if e.clip.Len() == 0 {
		return unchanged
	}
	ids, err := e.clip.Paste(e.board, e.cfg.Input.DuplicateOffset)
	if err != nil && len(ids) == 0 {
		return e.reject("paste", err)
	}
	e.board.Selection.Set(ids...)
	return e.commit("Paste", ids)
}

// SetZoom adds delta to the zoom around the canvas origin.
func (e *Engine) SetZoom(delta float64) (Result, error) {
	if !geom.Finite(delta) {
		return e.invalid("zoom", state.Invalid("delta", "must be finite"))
	}
	before := e.board.View
	e.board.View.SetZoom(delta)
	return e.viewChanged(before), nil
}

// ZoomAt adds delta to the zoom keeping the point under the screen
// position focal fixed.
func (e *Engine) ZoomAt(focal geom.Point, delta float64) (Result, error) {
	if !focal.Finite() || !geom.Finite(delta) {
		return e.invalid("zoom", state.Invalid("delta", "must be finite"))
	}
	before := e.board.View
	e.board.View.ZoomAt(focal, delta)
	return e.viewChanged(before), nil
}

// PanBy shifts the view by a screen-pixel delta.
func (e *Engine) PanBy(dx, dy float64) (Result, error) {
	if !geom.Finite(dx, dy) {
		return e.invalid("pan", state.Invalid("delta", "must be finite"))
	}
	before := e.board.View
	e.board.View.PanBy(dx, dy)
	return e.viewChanged(before), nil
}

// ResetView restores zoom 1 and no pan.
func (e *Engine) ResetView() Result {
	before := e.board.View
	e.board.View.Reset()
	return e.viewChanged(before)
}

func (e *Engine) viewChanged(before viewport.Viewport) Result {
	if before == e.board.View {
		return unchanged
	}
	return applied
}
