// Package selection hit-tests primitives and transforms the selected ones.
package selection

import (
	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
)

// HitTest returns the topmost primitive on a visible layer touching p
// within tol logical units. Locked layers still take part.
func HitTest(b *state.Board, p geom.Point, tol float64) state.Primitive {
	var hit state.Primitive
	b.WalkTopDown(func(l *state.Layer, prim state.Primitive) bool {
		if !l.Visible || !prim.Bounds().Inset(tol).Contains(p) {
			return true
		}
		if prim.Hit(p, tol) {
			hit = prim
			return false
		}
		return true
	})
	return hit
}

// HitAll returns every primitive on a visible layer touching p, topmost first.
func HitAll(b *state.Board, p geom.Point, tol float64) []state.Primitive {
	var out []state.Primitive
	b.WalkTopDown(func(l *state.Layer, prim state.Primitive) bool {
		if l.Visible && prim.Bounds().Inset(tol).Contains(p) && prim.Hit(p, tol) {
			out = append(out, prim)
		}
		return true
	})
	return out
}

// Marquee returns the ids of visible primitives whose bounds intersect r,
// in paint order.
func Marquee(b *state.Board, r geom.Rect) []state.ID {
	var ids []state.ID
	b.Walk(func(l *state.Layer, p state.Primitive) bool {
		if l.Visible && p.Bounds().Intersects(r) {
			ids = append(ids, p.PrimitiveID())
		}
		return true
	})
	return ids
}
