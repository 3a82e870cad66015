package geom

import (
	"strconv"
	"strings"
)

// Op is a path command.
type Op uint8

const (
	MoveTo Op = iota
	LineTo
	CubeTo
	Close
)

// Segment is one path command. LineTo and MoveTo use Pts[0]; CubeTo uses
// all three points as (control1, control2, end).
type Segment struct {
	Op  Op
	Pts [3]Point
}

// Path is a sequence of segments in logical coordinates.
type Path []Segment

func (p *Path) MoveTo(a Point) { *p = append(*p, Segment{Op: MoveTo, Pts: [3]Point{a}}) }
func (p *Path) LineTo(a Point) { *p = append(*p, Segment{Op: LineTo, Pts: [3]Point{a}}) }
func (p *Path) CubeTo(c1, c2, a Point) {
	*p = append(*p, Segment{Op: CubeTo, Pts: [3]Point{c1, c2, a}})
}
func (p *Path) Close() { *p = append(*p, Segment{Op: Close}) }

// Polygon builds a closed path through pts.
func Polygon(pts ...Point) Path {
	var p Path
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt)
			continue
		}
		p.LineTo(pt)
	}
	if len(pts) > 0 {
		p.Close()
	}
	return p
}

// Polyline builds an open path through pts.
func Polyline(pts ...Point) Path {
	p := Polygon(pts...)
	if len(p) > 0 {
		p = p[:len(p)-1]
	}
	return p
}

// Transform maps every point of p through m.
func (p Path) Transform(m Affine) Path {
	out := make(Path, len(p))
	for i, s := range p {
		out[i].Op = s.Op
		for j := range s.Pts {
			out[i].Pts[j] = m.Apply(s.Pts[j])
		}
	}
	return out
}

// Flatten converts the path into polylines, one per subpath, splitting each
// cubic into n straight pieces. Closed subpaths repeat their first point.
func (p Path) Flatten(n int) [][]Point {
	if n < 1 {
		n = 1
	}
	var (
		out  [][]Point
		cur  []Point
		last Point
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, s := range p {
		switch s.Op {
		case MoveTo:
			flush()
			cur = []Point{s.Pts[0]}
			last = s.Pts[0]
		case LineTo:
			cur = append(cur, s.Pts[0])
			last = s.Pts[0]
		case CubeTo:
			for i := 1; i <= n; i++ {
				cur = append(cur, CubicAt(last, s.Pts[0], s.Pts[1], s.Pts[2], float64(i)/float64(n)))
			}
			last = s.Pts[2]
		case Close:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
				last = cur[0]
			}
		}
	}
	flush()
	return out
}

// Bounds returns the bounds of every point of the path, control points included.
func (p Path) Bounds() Rect {
	var pts []Point
	for _, s := range p {
		switch s.Op {
		case MoveTo, LineTo:
			pts = append(pts, s.Pts[0])
		case CubeTo:
			pts = append(pts, s.Pts[:]...)
		}
	}
	return BoundsOf(pts...)
}

// SVG renders the path as SVG path data.
func (p Path) SVG() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch s.Op {
		case MoveTo:
			b.WriteString("M")
			writeXY(&b, s.Pts[0])
		case LineTo:
			b.WriteString("L")
			writeXY(&b, s.Pts[0])
		case CubeTo:
			b.WriteString("C")
			writeXY(&b, s.Pts[0])
			b.WriteByte(' ')
			writeXY(&b, s.Pts[1])
			b.WriteByte(' ')
			writeXY(&b, s.Pts[2])
		case Close:
			b.WriteString("Z")
		}
	}
	return b.String()
}

func writeXY(b *strings.Builder, p Point) {
	b.WriteString(FormatFloat(p.X))
	b.WriteByte(' ')
	b.WriteString(FormatFloat(p.Y))
}

// FormatFloat prints v with at most three decimals and no trailing zeros.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(float64(int64(v*1000+sign(v)*0.5))/1000, 'f', -1, 64)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// CubicAt evaluates the cubic Bézier (p0, c1, c2, p1) at t.
func CubicAt(p0, c1, c2, p1 Point, t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*c1.X + c*c2.X + d*p1.X,
		Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p1.Y,
	}
}
