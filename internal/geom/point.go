// Package geom holds the small amount of 2D geometry shared by the board
// model, the selection controller and the exporter.
package geom

import "math"

// Point is a position in logical canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point    { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point    { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point  { return Point{p.X * k, p.Y * k} }
func (p Point) Div(k float64) Point  { return Point{p.X / k, p.Y / k} }
func (p Point) Len() float64         { return math.Hypot(p.X, p.Y) }
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }
func (p Point) Eq(q Point) bool      { return p.X == q.X && p.Y == q.Y }
func (p Point) Finite() bool         { return finite(p.X) && finite(p.Y) }
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Rotate turns p around c by deg degrees (clockwise on a y-down canvas).
func (p Point) Rotate(c Point, deg float64) Point {
	if deg == 0 {
		return p
	}
	s, co := math.Sincos(deg * math.Pi / 180)
	d := p.Sub(c)
	return Point{c.X + d.X*co - d.Y*s, c.Y + d.X*s + d.Y*co}
}

// SegmentDist returns the distance from p to the segment ab.
func SegmentDist(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(a.Lerp(b, t))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Finite reports whether every value is a real number.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if !finite(v) {
			return false
		}
	}
	return true
}
