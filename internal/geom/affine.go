package geom

import "math"

// Affine is the transform (x, y) -> (A*x + B*y + C, D*x + E*y + F).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Identity is the identity transform.
var Identity = Affine{A: 1, E: 1}

// Translate returns a translation by (dx, dy).
func Translate(dx, dy float64) Affine { return Affine{A: 1, C: dx, E: 1, F: dy} }

// Scale returns a uniform scale about the origin.
func Scale(k float64) Affine { return Affine{A: k, E: k} }

// RotateAbout returns a rotation of deg degrees around c.
func RotateAbout(c Point, deg float64) Affine {
	if deg == 0 {
		return Identity
	}
	s, co := math.Sincos(deg * math.Pi / 180)
	return Affine{
		A: co, B: -s, C: c.X - co*c.X + s*c.Y,
		D: s, E: co, F: c.Y - s*c.X - co*c.Y,
	}
}

// Then returns the transform that applies m first and n second.
func (m Affine) Then(n Affine) Affine {
	return Affine{
		A: n.A*m.A + n.B*m.D,
		B: n.A*m.B + n.B*m.E,
		C: n.A*m.C + n.B*m.F + n.C,
		D: n.D*m.A + n.E*m.D,
		E: n.D*m.B + n.E*m.E,
		F: n.D*m.C + n.E*m.F + n.F,
	}
}

func (m Affine) Apply(p Point) Point {
	return Point{m.A*p.X + m.B*p.Y + m.C, m.D*p.X + m.E*p.Y + m.F}
}
