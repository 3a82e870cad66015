package selection

import (
	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
)

// Handle is a grip on the selection frame.
type Handle uint8

const (
	HandleNone Handle = iota
	HandleNW
	HandleNE
	HandleSE
	HandleSW
	HandleRotate
)

const (
	// RotateOffset is how far above the top edge the rotate handle sits, in screen px.
	RotateOffset = 24.0
	// HandleRadius is the grab radius of every handle, in screen px.
	HandleRadius = 6.0
)

// Corner reports whether h resizes.
func (h Handle) Corner() bool { return h >= HandleNW && h <= HandleSW }

// opposite returns the corner that stays fixed while h is dragged.
func (h Handle) opposite() Handle {
	switch h {
	case HandleNW:
		return HandleSE
	case HandleNE:
		return HandleSW
	case HandleSE:
		return HandleNW
	case HandleSW:
		return HandleNE
	}
	return HandleNone
}

// Frame is the box the handles are drawn around, in its own unrotated
// coordinates, plus the rotation that places it on the board.
type Frame struct {
	Box      geom.Rect
	Rotation float64
}

// FrameOf is the frame of the given primitives. A single boxed primitive
// keeps its own box and rotation; anything else uses the union of bounds.
func FrameOf(b *state.Board, ids []state.ID) (Frame, bool) {
	if len(ids) == 1 {
		p, _ := b.Find(ids[0])
		if bx, ok := p.(state.Boxed); ok && bx.Resizable() {
			return Frame{Box: bx.Box(), Rotation: bx.Angle()}, true
		}
	}
	var (
		r  geom.Rect
		ok bool
	)
	for _, id := range ids {
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
	return Frame{Box: r}, ok
}

func (f Frame) ToWorld(p geom.Point) geom.Point { return p.Rotate(f.Box.Center(), f.Rotation) }
func (f Frame) ToLocal(p geom.Point) geom.Point { return p.Rotate(f.Box.Center(), -f.Rotation) }

// local returns the unrotated position of h.
func (f Frame) local(h Handle, zoom float64) geom.Point {
	r := f.Box
	switch h {
	case HandleNW:
		return r.Min()
	case HandleNE:
		return geom.Pt(r.MaxX, r.MinY)
	case HandleSE:
		return r.Max()
	case HandleSW:
		return geom.Pt(r.MinX, r.MaxY)
	case HandleRotate:
		return geom.Pt(r.Center().X, r.MinY-RotateOffset/zoom)
	}
	return r.Center()
}

// Handle returns the board position of h at the given zoom.
func (f Frame) Handle(h Handle, zoom float64) geom.Point { return f.ToWorld(f.local(h, zoom)) }

// HandleAt returns the handle under p, if any. The rotate handle wins ties.
func (f Frame) HandleAt(p geom.Point, zoom float64) Handle {
	if zoom <= 0 {
		zoom = 1
	}
	reach := HandleRadius / zoom
	for _, h := range []Handle{HandleRotate, HandleNW, HandleNE, HandleSE, HandleSW} {
		if f.Handle(h, zoom).Dist(p) <= reach {
			return h
		}
	}
	return HandleNone
}

// Outline is the frame's polygon on the board.
func (f Frame) Outline() geom.Path {
	cs := f.Box.Corners()
	return geom.Polygon(f.ToWorld(cs[0]), f.ToWorld(cs[1]), f.ToWorld(cs[2]), f.ToWorld(cs[3]))
}
