// Package viewport maps screen coordinates to logical canvas coordinates
// under pan and zoom.
package viewport

import (
	"math"

	"LayerBoard/internal/geom"
)

const (
	MinZoom = 0.5
	MaxZoom = 3.0
)

// Viewport is the pan/zoom state of one board view. Pan is in screen pixels.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// New returns the identity view.
func New() Viewport { return Viewport{Zoom: 1} }

// ToLogical maps a screen position to the canvas: (screen - pan) / zoom.
func (v Viewport) ToLogical(p geom.Point) geom.Point {
	return geom.Point{X: (p.X - v.PanX) / v.zoom(), Y: (p.Y - v.PanY) / v.zoom()}
}

// ToScreen maps a canvas position to the screen: logical*zoom + pan.
func (v Viewport) ToScreen(p geom.Point) geom.Point {
	return geom.Point{X: p.X*v.zoom() + v.PanX, Y: p.Y*v.zoom() + v.PanY}
}

// SetZoom adds delta to the zoom and clamps it to [MinZoom, MaxZoom].
// The zoom origin is the canvas top-left; pan is left untouched.
func (v *Viewport) SetZoom(delta float64) {
	v.Zoom = clampZoom(v.zoom() + delta)
}

// ZoomAt changes the zoom by delta while keeping the logical point under
// the screen position focal fixed.
func (v *Viewport) ZoomAt(focal geom.Point, delta float64) {
	anchor := v.ToLogical(focal)
	v.Zoom = clampZoom(v.zoom() + delta)
	v.PanX = focal.X - anchor.X*v.Zoom
	v.PanY = focal.Y - anchor.Y*v.Zoom
}

// PanBy shifts the view by a screen-pixel delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// Reset restores zoom 1 and zero pan.
func (v *Viewport) Reset() { *v = New() }

// Valid reports whether v holds finite values and an in-range zoom.
func (v Viewport) Valid() bool {
	return geom.Finite(v.Zoom, v.PanX, v.PanY) && v.Zoom >= MinZoom && v.Zoom <= MaxZoom
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

func clampZoom(z float64) float64 {
	z = math.Round(z*1e6) / 1e6
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
