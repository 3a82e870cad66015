package state

import (
	"encoding/json"
	"fmt"

	"LayerBoard/internal/geom"
)

// ID identifies layers and primitives. IDs are issued by the board's Clock
// and are never reused within a board's lifetime.
type ID uint64

// Point is one freehand sample. Pressure is 1 when the device has none.
type Point struct {
	X        float64
	Y        float64
	Pressure float64
}

func (p Point) Pos() geom.Point { return geom.Point{X: p.X, Y: p.Y} }

// MarshalJSON writes the compact [x, y, pressure] form.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{p.X, p.Y, p.Pressure})
}

func (p *Point) UnmarshalJSON(b []byte) error {
	var v []float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch len(v) {
	case 2:
		*p = Point{X: v[0], Y: v[1], Pressure: 1}
	case 3:
		*p = Point{X: v[0], Y: v[1], Pressure: v[2]}
	default:
		return fmt.Errorf("point needs 2 or 3 numbers, got %d", len(v))
	}
	return nil
}

// Kind tells the three primitive variants apart.
type Kind uint8

const (
	KindStroke Kind = iota
	KindShape
	KindText
)

var kindNames = []string{"stroke", "shape", "text"}

func (k Kind) String() string { return enumName(kindNames, int(k)) }

// Primitive is a drawable unit held by a layer: *Stroke, *Shape or *TextField.
type Primitive interface {
	PrimitiveID() ID
	Kind() Kind
	Layer() ID
	// Bounds is the selection/export bounding box in logical coordinates.
	Bounds() geom.Rect
	// Hit reports whether p touches the primitive within tol logical units.
	Hit(p geom.Point, tol float64) bool
	Translate(dx, dy float64)
	Clone() Primitive
	Validate() error

	setIdentity(id, layer ID)
}

// Boxed primitives live in a rectangle that can be rotated about its
// center and, when Resizable, reshaped through corner handles.
type Boxed interface {
	Primitive
	Box() geom.Rect
	SetBox(r geom.Rect)
	Resizable() bool
	Angle() float64
	SetAngle(deg float64)
}

// Assign overwrites dst with a copy of src. Both must be the same variant.
func Assign(dst, src Primitive) {
	switch d := dst.(type) {
	case *Stroke:
		*d = *src.Clone().(*Stroke)
	case *Shape:
		*d = *src.(*Shape)
	case *TextField:
		*d = *src.(*TextField)
	}
}

// BrushKind selects how a freehand stroke is inked.
type BrushKind uint8

const (
	Brush BrushKind = iota
	Marker
	Highlighter
	Eraser
)

var brushNames = []string{"brush", "marker", "highlighter", "eraser"}

func (k BrushKind) String() string { return enumName(brushNames, int(k)) }

func (k BrushKind) MarshalText() ([]byte, error) { return enumMarshal(brushNames, int(k)) }

func (k *BrushKind) UnmarshalText(b []byte) error {
	return enumUnmarshal(brushNames, "brush", b, (*uint8)(k))
}

// Profile returns the width multiplier, opacity and compositing of a brush.
func (k BrushKind) Profile() (widthMul, opacity float64, mode CompositeMode) {
	switch k {
	case Marker:
		return 1.2, 0.85, SourceOver
	case Highlighter:
		return 1.6, 0.35, Multiply
	case Eraser:
		return 1.4, 1, DestinationOut
	default:
		return 1, 1, SourceOver
	}
}

// CompositeMode is how a stroke combines with the ink already on its layer.
type CompositeMode uint8

const (
	SourceOver CompositeMode = iota
	Multiply
	DestinationOut
)

var compositeNames = []string{"source-over", "multiply", "destination-out"}

func (m CompositeMode) String() string { return enumName(compositeNames, int(m)) }

func (m CompositeMode) MarshalText() ([]byte, error) { return enumMarshal(compositeNames, int(m)) }

func (m *CompositeMode) UnmarshalText(b []byte) error {
	return enumUnmarshal(compositeNames, "composite mode", b, (*uint8)(m))
}

// ShapeKind is the closed set of parametric shapes.
type ShapeKind uint8

const (
	ShapeLine ShapeKind = iota
	ShapeRect
	ShapeEllipse
	ShapeTriangle
	ShapeDiamond
	ShapeHexagon
	ShapePolygon
	ShapeStar
	ShapeArrow
	ShapeDoubleArrow
)

var shapeNames = []string{
	"line", "rect", "ellipse", "triangle", "diamond",
	"hexagon", "polygon", "star", "arrow", "doubleArrow",
}

// ShapeKinds lists every shape kind in declaration order.
func ShapeKinds() []ShapeKind {
	out := make([]ShapeKind, len(shapeNames))
	for i := range out {
		out[i] = ShapeKind(i)
	}
	return out
}

func (k ShapeKind) String() string { return enumName(shapeNames, int(k)) }

func (k ShapeKind) MarshalText() ([]byte, error) { return enumMarshal(shapeNames, int(k)) }

func (k *ShapeKind) UnmarshalText(b []byte) error {
	return enumUnmarshal(shapeNames, "shape kind", b, (*uint8)(k))
}

// ParseShapeKind resolves a shape name.
func ParseShapeKind(s string) (ShapeKind, error) {
	var k ShapeKind
	err := k.UnmarshalText([]byte(s))
	return k, err
}

// Linear reports whether the shape is defined by its two endpoints rather
// than by the box they span.
func (k ShapeKind) Linear() bool {
	return k == ShapeLine || k == ShapeArrow || k == ShapeDoubleArrow
}

// FontWeight, FontStyle and TextAlign are the text field format enums.
type (
	FontWeight uint8
	FontStyle  uint8
	TextAlign  uint8
)

const (
	WeightNormal FontWeight = iota
	WeightBold
)

const (
	StyleNormal FontStyle = iota
	StyleItalic
)

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

var (
	weightNames = []string{"normal", "bold"}
	styleNames  = []string{"normal", "italic"}
	alignNames  = []string{"left", "center", "right"}
)

func (w FontWeight) String() string { return enumName(weightNames, int(w)) }
func (s FontStyle) String() string  { return enumName(styleNames, int(s)) }
func (a TextAlign) String() string  { return enumName(alignNames, int(a)) }

func (w FontWeight) MarshalText() ([]byte, error) { return enumMarshal(weightNames, int(w)) }
func (s FontStyle) MarshalText() ([]byte, error)  { return enumMarshal(styleNames, int(s)) }
func (a TextAlign) MarshalText() ([]byte, error)  { return enumMarshal(alignNames, int(a)) }

func (w *FontWeight) UnmarshalText(b []byte) error {
	return enumUnmarshal(weightNames, "font weight", b, (*uint8)(w))
}

func (s *FontStyle) UnmarshalText(b []byte) error {
	return enumUnmarshal(styleNames, "font style", b, (*uint8)(s))
}

func (a *TextAlign) UnmarshalText(b []byte) error {
	return enumUnmarshal(alignNames, "text align", b, (*uint8)(a))
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func enumMarshal(names []string, i int) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("unknown enum value %d", i)
	}
	return []byte(names[i]), nil
}

func enumUnmarshal(names []string, field string, b []byte, dst *uint8) error {
	for i, n := range names {
		if n == string(b) {
			*dst = uint8(i)
			return nil
		}
	}
	return Invalid(field, "unknown value %q", string(b))
}
