package state

import (
	"math"

	"LayerBoard/internal/geom"
)

// Stroke is a committed freehand gesture. Width is the effective width
// (base width times the brush multiplier); each sample's pressure scales it.
type Stroke struct {
	ID        ID            `json:"id"`
	LayerID   ID            `json:"-"`
	Brush     BrushKind     `json:"brush"`
	Color     Color         `json:"color"`
	Width     float64       `json:"width"`
	Opacity   float64       `json:"opacity"`
	Composite CompositeMode `json:"composite"`
	Points    []Point       `json:"points"`
}

// NewStroke applies the brush profile to a base width and copies the samples.
// The stroke has no identity until it is added to a board.
func NewStroke(brush BrushKind, c Color, baseWidth float64, pts []Point) (*Stroke, error) {
	if !geom.Finite(baseWidth) || baseWidth <= 0 {
		return nil, Invalid("width", "stroke width must be positive, got %v", baseWidth)
	}
	mul, opacity, mode := brush.Profile()
	s := &Stroke{
		Brush:     brush,
		Color:     c,
		Width:     baseWidth * mul,
		Opacity:   opacity,
		Composite: mode,
		Points:    make([]Point, len(pts)),
	}
	for i, p := range pts {
		if p.Pressure <= 0 {
			p.Pressure = 1
		}
		s.Points[i] = p
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stroke) PrimitiveID() ID { return s.ID }
func (s *Stroke) Kind() Kind      { return KindStroke }
func (s *Stroke) Layer() ID       { return s.LayerID }

func (s *Stroke) setIdentity(id, layer ID) { s.ID, s.LayerID = id, layer }

func (s *Stroke) Validate() error {
	if !geom.Finite(s.Width) || s.Width <= 0 {
		return Invalid("width", "stroke width must be positive, got %v", s.Width)
	}
	if !geom.Finite(s.Opacity) || s.Opacity < 0 || s.Opacity > 1 {
		return Invalid("opacity", "must be within [0,1], got %v", s.Opacity)
	}
	if len(s.Points) < 2 {
		return Invalid("points", "a stroke needs at least 2 samples, got %d", len(s.Points))
	}
	for _, p := range s.Points {
		if !geom.Finite(p.X, p.Y, p.Pressure) || p.Pressure <= 0 {
			return Invalid("points", "sample (%v,%v,%v) is not usable", p.X, p.Y, p.Pressure)
		}
	}
	return nil
}

// Positions returns the sample positions without pressure.
func (s *Stroke) Positions() []geom.Point {
	out := make([]geom.Point, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Pos()
	}
	return out
}

// Path is the smoothed cubic chain through the samples.
func (s *Stroke) Path() geom.Path { return geom.Smooth(s.Positions()) }

// SpanWidth is the inked width of the span between samples i and i+1.
func (s *Stroke) SpanWidth(i int) float64 {
	return s.Width * (s.Points[i].Pressure + s.Points[i+1].Pressure) / 2
}

// UniformPressure reports whether every sample has the same pressure.
func (s *Stroke) UniformPressure() bool {
	for _, p := range s.Points[1:] {
		if p.Pressure != s.Points[0].Pressure {
			return false
		}
	}
	return true
}

// MeanWidth is the width averaged over every span.
func (s *Stroke) MeanWidth() float64 {
	if len(s.Points) < 2 {
		return s.Width
	}
	var sum float64
	for i := 0; i+1 < len(s.Points); i++ {
		sum += s.SpanWidth(i)
	}
	return sum / float64(len(s.Points)-1)
}

// Bounds is anchored at the minimum sample; each extent is at least the
// stroke width so a straight stroke still has area.
func (s *Stroke) Bounds() geom.Rect {
	r := geom.BoundsOf(s.Positions()...)
	return geom.RectXYWH(r.MinX, r.MinY, math.Max(r.Width(), s.Width), math.Max(r.Height(), s.Width))
}

// InkBounds covers every pixel the stroke can touch.
func (s *Stroke) InkBounds() geom.Rect {
	maxP := 1.0
	for _, p := range s.Points {
		maxP = math.Max(maxP, p.Pressure)
	}
	return s.Path().Bounds().Inset(s.Width * maxP / 2)
}

// Hit tests p against the smoothed centreline widened by half the ink width
// plus tol.
func (s *Stroke) Hit(p geom.Point, tol float64) bool {
	if !s.InkBounds().Inset(tol).Contains(p) {
		return false
	}
	band := tol + s.Width/2
	for _, line := range s.Path().Flatten(8) {
		for i := 0; i+1 < len(line); i++ {
			if geom.SegmentDist(p, line[i], line[i+1]) <= band {
				return true
			}
		}
	}
	return false
}

func (s *Stroke) Translate(dx, dy float64) {
	for i := range s.Points {
		s.Points[i].X += dx
		s.Points[i].Y += dy
	}
}

func (s *Stroke) Clone() Primitive {
	c := *s
	c.Points = append([]Point(nil), s.Points...)
	return &c
}
