package engine

import (
	"errors"

	"LayerBoard/internal/state"
)

func (e *Engine) layerLog(msg string, args ...any) {
	e.logger.Info(msg, append([]any{"component", "layers"}, args...)...)
}

// CreateLayer adds a layer on top of the stack and makes it active.
func (e *Engine) CreateLayer(name string) Result {
	l := e.board.AddLayer(name)
	e.layerLog("layer created", "id", l.ID, "name", l.Name)
	res := e.commit("Add layer", nil)
	res.IDs = []state.ID{l.ID}
	return res
}

// DeleteLayer removes a layer. The last layer and locked layers stay.
func (e *Engine) DeleteLayer(id state.ID) Result {
	e.CancelGesture()
	if err := e.board.DeleteLayer(id); err != nil {
		return e.reject("delete layer", err)
	}
	e.layerLog("layer deleted", "id", id)
	return e.commit("Delete layer", nil)
}

// RenameLayer gives a layer a new non-empty name.
func (e *Engine) RenameLayer(id state.ID, name string) (Result, error) {
	changed, err := e.board.RenameLayer(id, name)
	if errors.Is(err, state.ErrValidation) {
		return e.invalid("rename layer", err)
	}
	if err != nil {
		return e.reject("rename layer", err), nil
	}
	if !changed {
		return unchanged, nil
	}
	e.layerLog("layer renamed", "id", id, "name", name)
	return e.commit("Rename layer", nil), nil
}

// MoveLayerUp moves a layer one step toward the top of the stack.
func (e *Engine) MoveLayerUp(id state.ID) Result { return e.moveLayer(id, 1) }

// MoveLayerDown moves a layer one step toward the bottom of the stack.
func (e *Engine) MoveLayerDown(id state.ID) Result { return e.moveLayer(id, -1) }

func (e *Engine) moveLayer(id state.ID, delta int) Result {
	moved, err := e.board.MoveLayer(id, delta)
	if err != nil {
		return e.reject("reorder layers", err)
	}
	if !moved {
		return unchanged
	}
	e.layerLog("layer moved", "id", id, "order", e.board.Layer(id).Order)
	return e.commit("Reorder layers", nil)
}

// SetLayerVisible shows or hides a layer.
func (e *Engine) SetLayerVisible(id state.ID, visible bool) Result {
	e.CancelGesture()
	changed, err := e.board.SetLayerVisible(id, visible)
	if err != nil {
		return e.reject("set layer visibility", err)
	}
	if !changed {
		return unchanged
	}
	if !visible {
		if l := e.board.Layer(id); l != nil {
			for _, p := range l.Primitives {
				e.board.Selection.Remove(p.PrimitiveID())
			}
		}
	}
	label := "Hide layer"
	if visible {
		label = "Show layer"
	}
	return e.commit(label, nil)
}

// SetLayerLocked locks or unlocks a layer. A gesture in flight is
// cancelled first so it cannot finish on a layer that just got locked.
func (e *Engine) SetLayerLocked(id state.ID, locked bool) Result {
	e.CancelGesture()
	changed, err := e.board.SetLayerLocked(id, locked)
	if err != nil {
		return e.reject("set layer lock", err)
	}
	if !changed {
		return unchanged
	}
	e.layerLog("layer lock changed", "id", id, "locked", locked)
	label := "Unlock layer"
	if locked {
		label = "Lock layer"
	}
	return e.commit(label, nil)
}

// SetActiveLayer picks where new primitives go. It is not an undoable edit
// on its own; the choice is recorded with the next commit.
func (e *Engine) SetActiveLayer(id state.ID) Result {
	if e.board.ActiveLayer == id {
		return unchanged
	}
	if err := e.board.SetActiveLayer(id); err != nil {
		return e.reject("set active layer", err)
	}
	return applied
}

// AddImageLayer places a PNG on a new layer at (x, y).
func (e *Engine) AddImageLayer(name string, png []byte, x, y float64) (Result, error) {
	r, err := state.NewRaster(png, x, y)
	if err != nil {
		return e.invalid("add image layer", err)
	}
	l := e.board.AddLayer(name)
	l.Raster = r
	e.layerLog("image layer created", "id", l.ID, "name", l.Name, "width", r.Width, "height", r.Height)
	res := e.commit("Add image layer", nil)
	res.IDs = []state.ID{l.ID}
	return res, nil
}

// MoveToLayer moves the selected primitives onto another layer.
func (e *Engine) MoveToLayer(layer state.ID) Result {
	if e.board.Layer(layer) == nil {
		return e.reject("move to layer", state.ErrNotFound)
	}
	var (
		moved  []state.ID
		locked int
	)
	for _, id := range e.board.Selection.IDs() {
		p, l := e.board.Find(id)
		if p == nil || l.ID == layer {
			continue
		}
		if err := e.board.Reassign(id, layer); err != nil {
			if errors.Is(err, state.ErrLayerLocked) {
				locked++
			}
			continue
		}
		moved = append(moved, id)
	}
	if len(moved) == 0 {
		if locked > 0 {
			return e.reject("move to layer", state.ErrLayerLocked)
		}
		return unchanged
	}
	return e.commit("Move to layer", moved)
}
