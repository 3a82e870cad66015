package selection

import (
	"errors"
	"fmt"
	"math"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
)

// Op is the kind of transform a drag performs.
type Op uint8

const (
	OpMove Op = iota
	OpResize
	OpRotate
)

func (o Op) String() string {
	switch o {
	case OpResize:
		return "resize"
	case OpRotate:
		return "rotate"
	}
	return "move"
}

// Limits clamp the frame's extents during a resize, in logical units.
type Limits struct {
	MinExtent float64
	MaxExtent float64
}

func (l Limits) clamp(v float64) float64 {
	if l.MaxExtent > 0 {
		v = math.Min(v, l.MaxExtent)
	}
	return math.Max(v, l.MinExtent)
}

// Options tune a drag update.
type Options struct {
	Constrain  bool
	Limits     Limits
	RotateSnap float64
}

// Transform is a move, resize or rotate over a fixed set of primitives.
// Every update starts again from the originals captured by Begin, so a long
// drag never accumulates error and Cancel restores them exactly.
type Transform struct {
	op      Op
	handle  Handle
	frame   Frame
	start   geom.Point
	live    []state.Primitive
	orig    []state.Primitive
	changed bool
}

// Begin captures the primitives op can act on. Primitives on locked layers
// are skipped, as are strokes for rotate and non-resizable kinds for
// resize. If nothing is left, the error says why.
func Begin(b *state.Board, ids []state.ID, op Op, h Handle, start geom.Point) (*Transform, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s: empty selection: %w", op, state.ErrNotFound)
	}
	t := &Transform{op: op, handle: h, start: start}
	locked := 0
	var liveIDs []state.ID
	for _, id := range ids {
		p, err := b.Mutable(id)
		if errors.Is(err, state.ErrLayerLocked) {
			locked++
			continue
		}
		if err != nil {
			continue
		}
		bx, boxed := p.(state.Boxed)
		if op == OpRotate && !boxed {
			continue
		}
		if op == OpResize && (!boxed || !bx.Resizable()) {
			continue
		}
		t.live = append(t.live, p)
		t.orig = append(t.orig, p.Clone())
		liveIDs = append(liveIDs, id)
	}
	if len(t.live) == 0 {
		if locked > 0 {
			return nil, fmt.Errorf("%s: %w", op, state.ErrLayerLocked)
		}
		return nil, state.Invalid("selection", "nothing in the selection can %s", op)
	}
	t.frame, _ = FrameOf(b, liveIDs)
	if op == OpResize && (t.frame.Box.Width() <= 0 || t.frame.Box.Height() <= 0) {
		return nil, state.Invalid("selection", "cannot resize a zero-area frame")
	}
	if op == OpResize && !h.Corner() {
		t.handle = HandleSE
	}
	return t, nil
}

// IDs lists the primitives the transform acts on.
func (t *Transform) IDs() []state.ID {
	ids := make([]state.ID, len(t.live))
	for i, p := range t.live {
		ids[i] = p.PrimitiveID()
	}
	return ids
}

func (t *Transform) Op() Op { return t.op }

// Changed reports whether the last update left the primitives different
// from the originals.
func (t *Transform) Changed() bool { return t.changed }

// Update applies the drag from the start point to p.
func (t *Transform) Update(p geom.Point, opts Options) {
	switch t.op {
	case OpMove:
		d := p.Sub(t.start)
		if opts.Constrain {
			if math.Abs(d.X) >= math.Abs(d.Y) {
				d.Y = 0
			} else {
				d.X = 0
			}
		}
		t.MoveBy(d.X, d.Y)
	case OpResize:
		t.dragCorner(p, opts)
	case OpRotate:
		c := t.frame.Box.Center()
		a0 := math.Atan2(t.start.Y-c.Y, t.start.X-c.X)
		a1 := math.Atan2(p.Y-c.Y, p.X-c.X)
		t.rotate((a1-a0)*180/math.Pi, opts.RotateSnap, opts.Constrain)
	}
}

// Cancel puts every primitive back as Begin found it.
func (t *Transform) Cancel() {
	t.restore()
	t.changed = false
}

func (t *Transform) restore() {
	for i := range t.live {
		state.Assign(t.live[i], t.orig[i])
	}
}

// MoveBy translates the originals by (dx, dy).
func (t *Transform) MoveBy(dx, dy float64) {
	t.restore()
	for _, p := range t.live {
		p.Translate(dx, dy)
	}
	t.changed = dx != 0 || dy != 0
}

// RotateBy turns every original by deg around its own center.
func (t *Transform) RotateBy(deg float64) { t.rotate(deg, 0, false) }

func (t *Transform) rotate(deg, snap float64, constrain bool) {
	t.restore()
	t.changed = false
	for i, p := range t.live {
		bx := p.(state.Boxed)
		from := t.orig[i].(state.Boxed).Angle()
		to := from + deg
		if constrain {
			to = geom.SnapDegrees(to, snap)
		}
		bx.SetAngle(to)
		if bx.Angle() != from {
			t.changed = true
		}
	}
}

// ResizeTo gives the frame a new width and height, keeping its top-left
// corner (in the frame's own rotation) in place.
func (t *Transform) ResizeTo(w, h float64, lim Limits) {
	r := t.frame.Box
	t.resize(geom.RectXYWH(r.MinX, r.MinY, lim.clamp(w), lim.clamp(h)), HandleNW)
}

func (t *Transform) dragCorner(p geom.Point, opts Options) {
	fixedH := t.handle.opposite()
	fixed := t.frame.local(fixedH, 1)
	q := t.frame.ToLocal(p)
	dirX, dirY := 1.0, 1.0
	if t.handle == HandleNW || t.handle == HandleSW {
		dirX = -1
	}
	if t.handle == HandleNW || t.handle == HandleNE {
		dirY = -1
	}
	w := (q.X - fixed.X) * dirX
	h := (q.Y - fixed.Y) * dirY
	if opts.Constrain {
		k := math.Max(w/t.frame.Box.Width(), h/t.frame.Box.Height())
		w, h = t.frame.Box.Width()*k, t.frame.Box.Height()*k
	}
	w, h = opts.Limits.clamp(w), opts.Limits.clamp(h)
	t.resize(geom.RectFromPoints(fixed, geom.Pt(fixed.X+dirX*w, fixed.Y+dirY*h)), fixedH)
}

// resize maps every original box from the frame onto r, then shifts the
// result so the anchor corner stays where it was on the board.
func (t *Transform) resize(r geom.Rect, anchor Handle) {
	t.restore()
	r0 := t.frame.Box
	sx, sy := r.Width()/r0.Width(), r.Height()/r0.Height()
	mapPt := func(p geom.Point) geom.Point {
		return geom.Pt(r.MinX+(p.X-r0.MinX)*sx, r.MinY+(p.Y-r0.MinY)*sy)
	}
	for i, p := range t.live {
		ob := t.orig[i].(state.Boxed).Box()
		p.(state.Boxed).SetBox(geom.RectFromPoints(mapPt(ob.Min()), mapPt(ob.Max())))
	}
	if t.frame.Rotation != 0 {
		next := Frame{Box: r, Rotation: t.frame.Rotation}
		d := t.frame.ToWorld(t.frame.local(anchor, 1)).Sub(next.ToWorld(next.local(anchor, 1)))
		for _, p := range t.live {
			p.Translate(d.X, d.Y)
		}
	}
	t.changed = r != r0
}
