package engine

import (
	"math"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/selection"
	"LayerBoard/internal/state"
	"LayerBoard/internal/tools"
)

// Text boxes from a plain click get this width and 1.5 lines of height.
const (
	defaultTextWidth = 200.0
	minTextDrag      = 4.0
)

func (e *Engine) inputLog(msg string, args ...any) {
	e.logger.Debug(msg, append([]any{"component", "input"}, args...)...)
}

// PointerDown starts a gesture for the current tool. While one pointer owns
// a gesture, presses from other pointers are rejected; a second press from
// the same pointer cancels the unfinished gesture first.
func (e *Engine) PointerDown(ev tools.PointerEvent) Result {
	if e.gesture.Active() {
		if !e.gesture.Owns(ev) {
			return e.reject("pointer down", ErrGestureInFlight)
		}
		e.CancelGesture()
	}
	if !ev.Screen.Finite() {
		return e.reject("pointer down", state.Invalid("position", "must be finite"))
	}
	p := e.board.View.ToLogical(ev.Screen)

	if _, hand := e.tool.(tools.Hand); hand || ev.Mods.Pan || ev.Button == tools.ButtonMiddle {
		e.gesture.Begin(tools.Panning, e.tool, ev, p)
		return applied
	}
	if ev.Button != tools.ButtonPrimary {
		return unchanged
	}

	switch t := e.tool.(type) {
	case tools.Brush:
		return e.beginOnActive(tools.Drawing, ev, p)
	case tools.Eraser:
		if t.Mode == tools.EraseStroke {
			e.gesture.Begin(tools.Erasing, e.tool, ev, p)
			e.eraseAt(p)
			return applied
		}
		return e.beginOnActive(tools.Erasing, ev, p)
	case tools.Shape:
		return e.beginOnActive(tools.Shaping, ev, p)
	case tools.Text:
		return e.beginOnActive(tools.Boxing, ev, p)
	case tools.Select:
		return e.pressSelect(ev, p)
	}
	return unchanged
}

// beginOnActive starts a gesture that will add to the active layer, which
// must be unlocked.
func (e *Engine) beginOnActive(phase tools.Phase, ev tools.PointerEvent, p geom.Point) Result {
	if l := e.board.Active(); l == nil || l.Locked {
		return e.reject(phase.String(), state.ErrLayerLocked)
	}
	e.gesture.Begin(phase, e.tool, ev, p)
	e.inputLog("gesture started", "phase", phase, "tool", e.tool)
	return applied
}

func (e *Engine) pressSelect(ev tools.PointerEvent, p geom.Point) Result {
	b := e.board
	zoom := b.View.Zoom
	if !b.Selection.Empty() && !ev.Mods.Additive {
		if f, ok := selection.FrameOf(b, b.Selection.IDs()); ok {
			if h := f.HandleAt(p, zoom); h != selection.HandleNone {
				op, phase := selection.OpResize, tools.Resizing
				if h == selection.HandleRotate {
					op, phase = selection.OpRotate, tools.Rotating
				}
				t, err := selection.Begin(b, b.Selection.IDs(), op, h, p)
				if err != nil {
					return e.reject(op.String(), err)
				}
				e.transform = t
				e.gesture.Begin(phase, e.tool, ev, p)
				return applied
			}
		}
	}

	hit := selection.HitTest(b, p, e.tolerance())
	if hit == nil {
		if !ev.Mods.Additive {
			b.Selection.Clear()
		}
		e.gesture.Begin(tools.Marquee, e.tool, ev, p)
		return applied
	}
	id := hit.PrimitiveID()
	if ev.Mods.Additive {
		b.Selection.Toggle(id)
		return applied
	}
	if !b.Selection.Has(id) {
		b.Selection.Set(id)
	}
	t, err := selection.Begin(b, b.Selection.IDs(), selection.OpMove, selection.HandleNone, p)
	if err != nil {
		// Selected but immovable, e.g. on a locked layer.
		return applied
	}
	e.transform = t
	e.gesture.Begin(tools.Moving, e.tool, ev, p)
	return applied
}

// PointerMove advances the gesture owned by ev's pointer.
func (e *Engine) PointerMove(ev tools.PointerEvent) Result {
	if !e.gesture.Owns(ev) || !ev.Screen.Finite() {
		return unchanged
	}
	g := &e.gesture
	prev := g.Last
	p := e.board.View.ToLogical(ev.Screen)
	d := g.Advance(ev, p)

	switch g.Phase {
	case tools.Panning:
		e.board.View.PanBy(d.X, d.Y)
	case tools.Drawing, tools.Erasing:
		if t, ok := g.Tool.(tools.Eraser); ok && t.Mode == tools.EraseStroke {
			e.eraseAlong(prev, p)
			break
		}
		e.preview = nil
		if s := e.strokeFromGesture(); s != nil {
			e.preview = s
		}
	case tools.Shaping:
		e.preview = nil
		if s := e.shapeFromGesture(); s != nil {
			e.preview = s
		}
	case tools.Boxing, tools.Marquee:
		r := geom.RectFromPoints(g.Start, p)
		e.marquee = &r
	case tools.Moving, tools.Resizing, tools.Rotating:
		e.transform.Update(p, selection.Options{
			Constrain:  ev.Mods.Constrain,
			Limits:     e.limits(),
			RotateSnap: e.cfg.Input.RotateSnapDeg,
		})
	}
	return applied
}

// PointerUp finishes the gesture owned by ev's pointer and commits what it
// produced. A release outside the canvas aborts it instead.
func (e *Engine) PointerUp(ev tools.PointerEvent) Result {
	if !e.gesture.Owns(ev) {
		return unchanged
	}
	if ev.Outside || !ev.Screen.Finite() {
		e.CancelGesture()
		return unchanged
	}
	if res := e.PointerMove(ev); res.Status == StatusRejected {
		return res
	}
	defer e.resetGesture()

	g := &e.gesture
	switch g.Phase {
	case tools.Drawing:
		return e.finishStroke()
	case tools.Erasing:
		if t, ok := g.Tool.(tools.Eraser); ok && t.Mode == tools.EraseStroke {
			return e.finishStrokeErase()
		}
		return e.finishStroke()
	case tools.Shaping:
		s := e.shapeFromGesture()
		if s == nil || s.Degenerate() {
			return unchanged
		}
		return e.add("Add "+s.Type.String(), s)
	case tools.Boxing:
		return e.finishText()
	case tools.Marquee:
		r := geom.RectFromPoints(g.Start, g.Last)
		if r.Empty() {
			return applied
		}
		ids := selection.Marquee(e.board, r)
		if g.Additive {
			e.board.Selection.Add(ids...)
		} else {
			e.board.Selection.Set(ids...)
		}
		return Result{Status: StatusApplied, IDs: ids}
	case tools.Moving, tools.Resizing, tools.Rotating:
		t := e.transform
		if t == nil || !t.Changed() {
			return unchanged
		}
		return e.commit(transformLabel(t.Op()), t.IDs())
	}
	return applied
}

// CancelGesture drops the gesture in flight without a history entry and
// undoes anything it changed live.
func (e *Engine) CancelGesture() Result {
	if !e.gesture.Active() {
		return unchanged
	}
	switch {
	case e.transform != nil:
		e.transform.Cancel()
	case len(e.gesture.Erased) > 0:
		cur, _ := e.history.Current()
		e.restore(cur.State)
	}
	e.inputLog("gesture cancelled", "phase", e.gesture.Phase)
	e.resetGesture()
	return applied
}

func (e *Engine) resetGesture() {
	e.gesture.Reset()
	e.transform = nil
	e.preview = nil
	e.marquee = nil
}

// add attaches p to the active layer and commits it.
func (e *Engine) add(label string, p state.Primitive) Result {
	if err := e.board.Add(p); err != nil {
		return e.reject(label, err)
	}
	return e.commit(label, []state.ID{p.PrimitiveID()})
}

func (e *Engine) strokeFromGesture() *state.Stroke {
	brush := state.Eraser
	if t, ok := e.gesture.Tool.(tools.Brush); ok {
		brush = t.Kind
	}
	s, err := state.NewStroke(brush, e.color, e.width, e.gesture.Samples)
	if err != nil {
		return nil
	}
	return s
}

func (e *Engine) finishStroke() Result {
	s := e.strokeFromGesture()
	if s == nil {
		return unchanged
	}
	label := "Draw " + s.Brush.String()
	if s.Brush == state.Eraser {
		label = "Erase"
	}
	return e.add(label, s)
}

func (e *Engine) shapeFromGesture() *state.Shape {
	t, ok := e.gesture.Tool.(tools.Shape)
	if !ok {
		return nil
	}
	start, end := e.gesture.Start, e.gesture.Last
	if e.gesture.Mods.Constrain {
		if t.Kind.Linear() {
			end = geom.SnapAngle(start, end, e.cfg.Input.LineSnapDeg)
		} else {
			end = geom.SnapSquare(start, end)
		}
	}
	s, err := state.NewShape(t.Kind, start, end, e.color, e.width, e.shapeOpts)
	if err != nil {
		return nil
	}
	return s
}

func (e *Engine) finishText() Result {
	g := &e.gesture
	r := geom.RectFromPoints(g.Start, g.Last)
	if r.Width() < minTextDrag && r.Height() < minTextDrag {
		r = geom.RectXYWH(g.Start.X, g.Start.Y, defaultTextWidth, 1.5*e.textStyle.FontSize)
	}
	t, err := state.NewTextField(r, e.color, e.textStyle)
	if err != nil {
		return e.reject("add text", err)
	}
	res := e.add("Add text", t)
	if res.Applied() {
		e.board.Selection.Set(t.ID)
	}
	return res
}

// eraseAt deletes every primitive under p. Hits on locked layers are
// counted, not removed.
func (e *Engine) eraseAt(p geom.Point) {
	g := &e.gesture
	for _, prim := range selection.HitAll(e.board, p, e.tolerance()+e.width/2) {
		if _, err := e.board.Remove(prim.PrimitiveID()); err != nil {
			g.Rejected++
			continue
		}
		g.Erased = append(g.Erased, prim.PrimitiveID())
	}
}

// eraseAlong samples the segment a→b densely enough that a fast drag does
// not skip primitives between pointer events.
func (e *Engine) eraseAlong(a, b geom.Point) {
	step := math.Max(e.tolerance(), 1)
	n := int(math.Ceil(a.Dist(b) / step))
	for i := 1; i <= n; i++ {
		e.eraseAt(a.Lerp(b, float64(i)/float64(n)))
	}
}

func (e *Engine) finishStrokeErase() Result {
	g := &e.gesture
	if len(g.Erased) == 0 {
		if g.Rejected > 0 {
			return e.reject("erase", state.ErrLayerLocked)
		}
		return unchanged
	}
	return e.commit("Erase", g.Erased)
}

func transformLabel(op selection.Op) string {
	switch op {
	case selection.OpResize:
		return "Resize"
	case selection.OpRotate:
		return "Rotate"
	}
	return "Move"
}
