package state

import (
	"math"

	"LayerBoard/internal/geom"
)

const (
	DefaultSides      = 5
	DefaultStarPoints = 5
	MinSides          = 3
	MaxSides          = 12

	starInnerRatio = 0.5
	arrowHeadAngle = 30.0
	// kappa places cubic control points for a quarter ellipse.
	kappa = 0.5522847498
)

// Shape is a parametric primitive spanned by two anchors. Linear kinds use
// the anchors as endpoints; every other kind fills the box they span.
type Shape struct {
	ID           ID         `json:"id"`
	LayerID      ID         `json:"-"`
	Type         ShapeKind  `json:"kind"`
	Start        geom.Point `json:"start"`
	End          geom.Point `json:"end"`
	Filled       bool       `json:"filled"`
	StrokeWidth  float64    `json:"strokeWidth"`
	Color        Color      `json:"color"`
	Rotation     float64    `json:"rotation"`
	CornerRadius float64    `json:"cornerRadius,omitempty"`
	Sides        int        `json:"sides,omitempty"`
	StarPoints   int        `json:"starPoints,omitempty"`
}

// ShapeOptions are the kind-specific parameters chosen in the toolbar.
type ShapeOptions struct {
	Filled       bool
	CornerRadius float64
	Sides        int
	StarPoints   int
}

// Validate checks the option ranges shared by every shape kind.
func (o ShapeOptions) Validate() error {
	if !geom.Finite(o.CornerRadius) || o.CornerRadius < 0 {
		return Invalid("cornerRadius", "must be >= 0, got %v", o.CornerRadius)
	}
	if o.Sides != 0 && (o.Sides < MinSides || o.Sides > MaxSides) {
		return Invalid("sides", "must be within [%d,%d], got %d", MinSides, MaxSides, o.Sides)
	}
	if o.StarPoints != 0 && (o.StarPoints < MinSides || o.StarPoints > MaxSides) {
		return Invalid("starPoints", "must be within [%d,%d], got %d", MinSides, MaxSides, o.StarPoints)
	}
	return nil
}

// NewShape builds a shape of kind between start and end.
func NewShape(kind ShapeKind, start, end geom.Point, c Color, width float64, opts ShapeOptions) (*Shape, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s := &Shape{
		Type:        kind,
		Start:       start,
		End:         end,
		Filled:      opts.Filled && !kind.Linear(),
		StrokeWidth: width,
		Color:       c,
	}
	switch kind {
	case ShapeRect:
		s.CornerRadius = opts.CornerRadius
	case ShapePolygon:
		s.Sides = opts.Sides
		if s.Sides == 0 {
			s.Sides = DefaultSides
		}
	case ShapeStar:
		s.StarPoints = opts.StarPoints
		if s.StarPoints == 0 {
			s.StarPoints = DefaultStarPoints
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Shape) PrimitiveID() ID { return s.ID }
func (s *Shape) Kind() Kind      { return KindShape }
func (s *Shape) Layer() ID       { return s.LayerID }

func (s *Shape) setIdentity(id, layer ID) { s.ID, s.LayerID = id, layer }

func (s *Shape) Validate() error {
	if int(s.Type) >= len(shapeNames) {
		return Invalid("kind", "unknown shape kind %d", s.Type)
	}
	if !geom.Finite(s.StrokeWidth) || s.StrokeWidth <= 0 {
		return Invalid("strokeWidth", "must be positive, got %v", s.StrokeWidth)
	}
	if !s.Start.Finite() || !s.End.Finite() || !geom.Finite(s.Rotation) {
		return Invalid("geometry", "shape anchors must be finite")
	}
	if s.Type == ShapePolygon && (s.Sides < MinSides || s.Sides > MaxSides) {
		return Invalid("sides", "must be within [%d,%d], got %d", MinSides, MaxSides, s.Sides)
	}
	if s.Type == ShapeStar && (s.StarPoints < MinSides || s.StarPoints > MaxSides) {
		return Invalid("starPoints", "must be within [%d,%d], got %d", MinSides, MaxSides, s.StarPoints)
	}
	if !geom.Finite(s.CornerRadius) || s.CornerRadius < 0 {
		return Invalid("cornerRadius", "must be >= 0, got %v", s.CornerRadius)
	}
	return nil
}

// Box is the unrotated rectangle spanned by the anchors.
func (s *Shape) Box() geom.Rect { return geom.RectFromPoints(s.Start, s.End) }

// Degenerate reports whether the shape has nothing to draw.
func (s *Shape) Degenerate() bool {
	if s.Type.Linear() {
		return s.Start.Eq(s.End)
	}
	return s.Box().Empty()
}

// Outline returns the shape geometry in logical coordinates, rotation
// applied. Closed kinds return one closed subpath; arrows add open heads.
func (s *Shape) Outline() geom.Path {
	var p geom.Path
	r := s.Box()
	switch s.Type {
	case ShapeLine:
		p = geom.Polyline(s.Start, s.End)
	case ShapeArrow, ShapeDoubleArrow:
		p = geom.Polyline(s.Start, s.End)
		p = append(p, arrowHead(s.Start, s.End, s.headLength())...)
		if s.Type == ShapeDoubleArrow {
			p = append(p, arrowHead(s.End, s.Start, s.headLength())...)
		}
	case ShapeRect:
		p = roundRect(r, s.CornerRadius)
	case ShapeEllipse:
		p = ellipse(r)
	case ShapeTriangle:
		p = geom.Polygon(
			geom.Pt(r.Center().X, r.MinY),
			geom.Pt(r.MaxX, r.MaxY),
			geom.Pt(r.MinX, r.MaxY),
		)
	case ShapeDiamond:
		c := r.Center()
		p = geom.Polygon(geom.Pt(c.X, r.MinY), geom.Pt(r.MaxX, c.Y), geom.Pt(c.X, r.MaxY), geom.Pt(r.MinX, c.Y))
	case ShapeHexagon:
		p = geom.Polygon(regular(r, 6, 1, 1)...)
	case ShapePolygon:
		p = geom.Polygon(regular(r, s.Sides, 1, 1)...)
	case ShapeStar:
		p = geom.Polygon(regular(r, s.StarPoints*2, 1, starInnerRatio)...)
	}
	if s.Rotation != 0 {
		p = p.Transform(geom.RotateAbout(r.Center(), s.Rotation))
	}
	return p
}

func (s *Shape) headLength() float64 { return math.Max(10, 3*s.StrokeWidth) }

// Bounds is the anchor box (rotated AABB when rotated). Linear kinds are
// floored to the stroke width on each axis like freehand strokes.
func (s *Shape) Bounds() geom.Rect {
	if s.Type.Linear() {
		c := s.Box().Center()
		r := geom.BoundsOf(s.Start.Rotate(c, s.Rotation), s.End.Rotate(c, s.Rotation))
		return geom.RectXYWH(r.MinX, r.MinY, math.Max(r.Width(), s.StrokeWidth), math.Max(r.Height(), s.StrokeWidth))
	}
	return s.Box().RotatedBounds(s.Rotation)
}

// Hit uses rectangle containment in the shape's own frame; linear kinds
// use a band around the segment instead.
func (s *Shape) Hit(p geom.Point, tol float64) bool {
	if s.Type.Linear() {
		band := tol + s.StrokeWidth/2
		for _, line := range s.Outline().Flatten(1) {
			for i := 0; i+1 < len(line); i++ {
				if geom.SegmentDist(p, line[i], line[i+1]) <= band {
					return true
				}
			}
		}
		return false
	}
	r := s.Box()
	local := p.Rotate(r.Center(), -s.Rotation)
	return r.Inset(tol + s.StrokeWidth/2).Contains(local)
}

func (s *Shape) Translate(dx, dy float64) {
	d := geom.Pt(dx, dy)
	s.Start = s.Start.Add(d)
	s.End = s.End.Add(d)
}

func (s *Shape) Clone() Primitive {
	c := *s
	return &c
}

// Resizable reports whether corner handles apply to the shape.
func (s *Shape) Resizable() bool { return !s.Type.Linear() }

func (s *Shape) Angle() float64       { return s.Rotation }
func (s *Shape) SetAngle(deg float64) { s.Rotation = geom.NormalizeDegrees(deg) }

// SetBox replaces the anchor box, keeping the drag direction of the anchors.
func (s *Shape) SetBox(r geom.Rect) {
	if s.Start.X <= s.End.X {
		s.Start.X, s.End.X = r.MinX, r.MaxX
	} else {
		s.Start.X, s.End.X = r.MaxX, r.MinX
	}
	if s.Start.Y <= s.End.Y {
		s.Start.Y, s.End.Y = r.MinY, r.MaxY
	} else {
		s.Start.Y, s.End.Y = r.MaxY, r.MinY
	}
}

func arrowHead(from, tip geom.Point, length float64) geom.Path {
	d := from.Sub(tip)
	l := d.Len()
	if l == 0 {
		return nil
	}
	back := tip.Add(d.Mul(length / l))
	var p geom.Path
	p.MoveTo(back.Rotate(tip, arrowHeadAngle))
	p.LineTo(tip)
	p.LineTo(back.Rotate(tip, -arrowHeadAngle))
	return p
}

// regular places n vertices on the ellipse inscribed in r, starting at the
// top. Odd vertices use the inner radius ratio, giving stars.
func regular(r geom.Rect, n int, outer, inner float64) []geom.Point {
	c := r.Center()
	rx, ry := r.Width()/2, r.Height()/2
	pts := make([]geom.Point, n)
	for i := range pts {
		k := outer
		if i%2 == 1 {
			k = inner
		}
		a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		pts[i] = geom.Pt(c.X+rx*k*math.Cos(a), c.Y+ry*k*math.Sin(a))
	}
	return pts
}

func ellipse(r geom.Rect) geom.Path {
	c := r.Center()
	rx, ry := r.Width()/2, r.Height()/2
	kx, ky := rx*kappa, ry*kappa
	var p geom.Path
	p.MoveTo(geom.Pt(c.X+rx, c.Y))
	p.CubeTo(geom.Pt(c.X+rx, c.Y+ky), geom.Pt(c.X+kx, c.Y+ry), geom.Pt(c.X, c.Y+ry))
	p.CubeTo(geom.Pt(c.X-kx, c.Y+ry), geom.Pt(c.X-rx, c.Y+ky), geom.Pt(c.X-rx, c.Y))
	p.CubeTo(geom.Pt(c.X-rx, c.Y-ky), geom.Pt(c.X-kx, c.Y-ry), geom.Pt(c.X, c.Y-ry))
	p.CubeTo(geom.Pt(c.X+kx, c.Y-ry), geom.Pt(c.X+rx, c.Y-ky), geom.Pt(c.X+rx, c.Y))
	p.Close()
	return p
}

func roundRect(r geom.Rect, radius float64) geom.Path {
	radius = math.Min(radius, math.Min(r.Width(), r.Height())/2)
	if radius <= 0 {
		return geom.Polygon(r.Corners()...)
	}
	k := radius * (1 - kappa)
	var p geom.Path
	p.MoveTo(geom.Pt(r.MinX+radius, r.MinY))
	p.LineTo(geom.Pt(r.MaxX-radius, r.MinY))
	p.CubeTo(geom.Pt(r.MaxX-k, r.MinY), geom.Pt(r.MaxX, r.MinY+k), geom.Pt(r.MaxX, r.MinY+radius))
	p.LineTo(geom.Pt(r.MaxX, r.MaxY-radius))
	p.CubeTo(geom.Pt(r.MaxX, r.MaxY-k), geom.Pt(r.MaxX-k, r.MaxY), geom.Pt(r.MaxX-radius, r.MaxY))
	p.LineTo(geom.Pt(r.MinX+radius, r.MaxY))
	p.CubeTo(geom.Pt(r.MinX+k, r.MaxY), geom.Pt(r.MinX, r.MaxY-k), geom.Pt(r.MinX, r.MaxY-radius))
	p.LineTo(geom.Pt(r.MinX, r.MinY+radius))
	p.CubeTo(geom.Pt(r.MinX, r.MinY+k), geom.Pt(r.MinX+k, r.MinY), geom.Pt(r.MinX+radius, r.MinY))
	p.Close()
	return p
}
