package engine

import (
	"errors"
	"fmt"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
	"LayerBoard/internal/tools"
)

// SetTool switches the active tool. A gesture in flight is cancelled.
func (e *Engine) SetTool(t tools.Tool) (Result, error) {
	if err := tools.Validate(t); err != nil {
		return e.invalid("set tool", err)
	}
	e.CancelGesture()
	e.tool = t
	return applied, nil
}

// SetColor sets the drawing color and recolors the current selection.
func (e *Engine) SetColor(c state.Color) Result {
	e.color = c
	if e.board.Selection.Empty() {
		return applied
	}
	return e.editSelection("Recolor", func(p state.Primitive) bool {
		switch v := p.(type) {
		case *state.Stroke:
			if v.Brush == state.Eraser || v.Color == c {
				return false
			}
			v.Color = c
		case *state.Shape:
			if v.Color == c {
				return false
			}
			v.Color = c
		case *state.TextField:
			if v.Color == c {
				return false
			}
			v.Color = c
		}
		return true
	})
}

// SetStrokeWidth sets the base width for new strokes and shapes.
func (e *Engine) SetStrokeWidth(w float64) (Result, error) {
	if !geom.Finite(w) || w <= 0 {
		return e.invalid("set stroke width", state.Invalid("width", "must be > 0, got %v", w))
	}
	e.width = w
	return applied, nil
}

// SetShapeOptions sets the options for new shapes and applies the ones
// that fit to selected shapes.
func (e *Engine) SetShapeOptions(opts state.ShapeOptions) (Result, error) {
	if err := opts.Validate(); err != nil {
		return e.invalid("set shape options", err)
	}
	e.shapeOpts = opts
	if e.board.Selection.Empty() {
		return applied, nil
	}
	return e.editSelection("Format shape", func(p state.Primitive) bool {
		s, ok := p.(*state.Shape)
		if !ok {
			return false
		}
		before := *s
		s.Filled = opts.Filled && !s.Type.Linear()
		switch s.Type {
		case state.ShapeRect:
			s.CornerRadius = opts.CornerRadius
		case state.ShapePolygon:
			if opts.Sides != 0 {
				s.Sides = opts.Sides
			}
		case state.ShapeStar:
			if opts.StarPoints != 0 {
				s.StarPoints = opts.StarPoints
			}
		}
		return *s != before
	}), nil
}

// SetTextStyle sets the style for new text fields and restyles selected ones.
func (e *Engine) SetTextStyle(style state.TextStyle) (Result, error) {
	if err := style.Validate(); err != nil {
		return e.invalid("set text style", err)
	}
	e.textStyle = style
	if e.board.Selection.Empty() {
		return applied, nil
	}
	return e.editSelection("Format text", func(p state.Primitive) bool {
		t, ok := p.(*state.TextField)
		if !ok || t.Style() == style {
			return false
		}
		t.SetStyle(style)
		return true
	}), nil
}

// editSelection applies edit to every selected primitive on an unlocked
// layer and commits once. edit reports whether it changed the primitive.
func (e *Engine) editSelection(label string, edit func(state.Primitive) bool) Result {
	var (
		touched []state.ID
		locked  int
	)
	for _, id := range e.board.Selection.IDs() {
		p, err := e.board.Mutable(id)
		if errors.Is(err, state.ErrLayerLocked) {
			locked++
			continue
		}
		if err != nil {
			continue
		}
		if edit(p) {
			touched = append(touched, id)
		}
	}
	if len(touched) == 0 {
		if locked > 0 {
			return e.reject(label, state.ErrLayerLocked)
		}
		return unchanged
	}
	return e.commit(label, touched)
}

// SetText replaces the content of a text field.
func (e *Engine) SetText(id state.ID, content string) (Result, error) {
	p, err := e.board.Mutable(id)
	if err != nil {
		return e.reject("set text", err), nil
	}
	t, ok := p.(*state.TextField)
	if !ok {
		return e.invalid("set text", state.Invalid("id", "primitive %d is a %s, not text", id, p.Kind()))
	}
	if t.Content == content {
		return unchanged, nil
	}
	t.Content = content
	return e.commit("Edit text", []state.ID{id}), nil
}

// FormatText restyles a single text field.
func (e *Engine) FormatText(id state.ID, style state.TextStyle) (Result, error) {
	if err := style.Validate(); err != nil {
		return e.invalid("format text", err)
	}
	p, err := e.board.Mutable(id)
	if err != nil {
		return e.reject("format text", err), nil
	}
	t, ok := p.(*state.TextField)
	if !ok {
		return e.invalid("format text", state.Invalid("id", "primitive %d is a %s, not text", id, p.Kind()))
	}
	if t.Style() == style {
		return unchanged, nil
	}
	t.SetStyle(style)
	return e.commit("Format text", []state.ID{id}), nil
}

// Undo steps back one history entry. At the start of history it reports
// unchanged.
func (e *Engine) Undo() Result {
	e.CancelGesture()
	cur, _ := e.history.Current()
	prev, ok := e.history.Undo()
	if !ok {
		return unchanged
	}
	e.restore(prev.State)
	e.logger.Debug("undo", "component", "history", "label", cur.Label)
	return Result{Status: StatusApplied, IDs: cur.Affected}
}

// Redo re-applies the entry after the current one.
func (e *Engine) Redo() Result {
	e.CancelGesture()
	next, ok := e.history.Redo()
	if !ok {
		return unchanged
	}
	e.restore(next.State)
	e.logger.Debug("redo", "component", "history", "label", next.Label)
	return Result{Status: StatusApplied, IDs: next.Affected}
}

// Clear removes everything from unlocked layers as one history entry.
func (e *Engine) Clear() Result {
	e.CancelGesture()
	removed, kept := e.board.Clear()
	if removed == 0 {
		if kept > 0 {
			return e.reject("clear", state.ErrLayerLocked)
		}
		return unchanged
	}
	return e.commit("Clear", nil)
}

// CreateSnapshot stores the board under label. A blank label is named
// after the snapshot's position.
func (e *Engine) CreateSnapshot(label string) Result {
	content, err := state.EncodeContent(e.board)
	if err != nil {
		return e.reject("create snapshot", err)
	}
	s := e.snapshots.Create(label, content)
	e.logger.Info("snapshot created", "component", "history", "label", s.Label, "id", s.ID)
	return applied
}

// JumpToSnapshot restores a snapshot by id or label. The jump is itself an
// undoable history entry.
func (e *Engine) JumpToSnapshot(key string) Result {
	s, ok := e.snapshots.Find(key)
	if !ok {
		return e.reject("jump to snapshot", fmt.Errorf("snapshot %q: %w", key, state.ErrNotFound))
	}
	e.CancelGesture()
	e.restore(s.State)
	e.board.Selection.Clear()
	return e.commit("Jump to "+s.Label, nil)
}

// DeleteSnapshot removes a snapshot by id or label.
func (e *Engine) DeleteSnapshot(key string) Result {
	if !e.snapshots.Delete(key) {
		return e.reject("delete snapshot", fmt.Errorf("snapshot %q: %w", key, state.ErrNotFound))
	}
	return applied
}
