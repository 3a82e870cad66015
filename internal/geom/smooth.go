package geom

import "math"

// SmoothControls returns the cubic control points for the span p1->p2 given
// its neighbours p0 and p3. Missing neighbours are clamped to the span ends
// by the caller.
func SmoothControls(p0, p1, p2, p3 Point) (cp1, cp2 Point) {
	cp1 = p1.Add(p2.Sub(p0).Div(6))
	cp2 = p2.Sub(p3.Sub(p1).Div(6))
	return cp1, cp2
}

// Smooth turns a freehand sample sequence into a chain of cubic spans.
// Fewer than two samples yield a path with a single MoveTo (or nothing).
func Smooth(pts []Point) Path {
	if len(pts) == 0 {
		return nil
	}
	p := Path{}
	p.MoveTo(pts[0])
	for i := 0; i+1 < len(pts); i++ {
		p0 := pts[max(i-1, 0)]
		p3 := pts[min(i+2, len(pts)-1)]
		c1, c2 := SmoothControls(p0, pts[i], pts[i+1], p3)
		p.CubeTo(c1, c2, pts[i+1])
	}
	return p
}

// SnapAngle rotates end around start so the segment angle is a multiple of
// step degrees, keeping its length.
func SnapAngle(start, end Point, step float64) Point {
	if step <= 0 {
		return end
	}
	d := end.Sub(start)
	l := d.Len()
	if l == 0 {
		return end
	}
	a := math.Atan2(d.Y, d.X) * 180 / math.Pi
	a = math.Round(a/step) * step * math.Pi / 180
	s, c := math.Sincos(a)
	return Point{start.X + c*l, start.Y + s*l}
}

// SnapSquare moves end so the box from start is square, using the larger
// side and keeping the drag direction.
func SnapSquare(start, end Point) Point {
	d := end.Sub(start)
	side := math.Max(math.Abs(d.X), math.Abs(d.Y))
	return Point{start.X + math.Copysign(side, d.X), start.Y + math.Copysign(side, d.Y)}
}

// SnapDegrees rounds deg to the nearest multiple of step.
func SnapDegrees(deg, step float64) float64 {
	if step <= 0 {
		return deg
	}
	return math.Round(deg/step) * step
}

// NormalizeDegrees maps deg into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg == 360 {
		deg = 0
	}
	return deg
}
