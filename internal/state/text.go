package state

import (
	"strings"

	"LayerBoard/internal/geom"
)

const (
	DefaultFontFamily = "sans"
	DefaultFontSize   = 20.0
	MaxFontSize       = 512.0
)

// TextField is a box of text anchored at its top-left Position.
type TextField struct {
	ID         ID         `json:"id"`
	LayerID    ID         `json:"-"`
	Position   geom.Point `json:"position"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Content    string     `json:"content"`
	FontFamily string     `json:"fontFamily"`
	FontSize   float64    `json:"fontSize"`
	FontWeight FontWeight `json:"fontWeight"`
	FontStyle  FontStyle  `json:"fontStyle"`
	TextAlign  TextAlign  `json:"textAlign"`
	Color      Color      `json:"color"`
	Rotation   float64    `json:"rotation"`
}

// TextStyle is the format applied to new text fields.
type TextStyle struct {
	FontFamily string
	FontSize   float64
	FontWeight FontWeight
	FontStyle  FontStyle
	TextAlign  TextAlign
}

// DefaultTextStyle is 20px regular sans, left aligned.
func DefaultTextStyle() TextStyle {
	return TextStyle{FontFamily: DefaultFontFamily, FontSize: DefaultFontSize}
}

func (t TextStyle) Validate() error {
	if strings.TrimSpace(t.FontFamily) == "" {
		return Invalid("fontFamily", "must not be empty")
	}
	if !geom.Finite(t.FontSize) || t.FontSize <= 0 || t.FontSize > MaxFontSize {
		return Invalid("fontSize", "must be within (0,%v], got %v", MaxFontSize, t.FontSize)
	}
	if int(t.FontWeight) >= len(weightNames) || int(t.FontStyle) >= len(styleNames) || int(t.TextAlign) >= len(alignNames) {
		return Invalid("textStyle", "unknown weight, style or alignment")
	}
	return nil
}

// NewTextField creates an empty field in box r.
func NewTextField(r geom.Rect, c Color, style TextStyle) (*TextField, error) {
	t := &TextField{
		Position: r.Min(),
		Width:    r.Width(),
		Height:   r.Height(),
		Color:    c,
	}
	t.SetStyle(style)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *TextField) PrimitiveID() ID { return t.ID }
func (t *TextField) Kind() Kind      { return KindText }
func (t *TextField) Layer() ID       { return t.LayerID }

func (t *TextField) setIdentity(id, layer ID) { t.ID, t.LayerID = id, layer }

// Style returns the field's current format.
func (t *TextField) Style() TextStyle {
	return TextStyle{
		FontFamily: t.FontFamily,
		FontSize:   t.FontSize,
		FontWeight: t.FontWeight,
		FontStyle:  t.FontStyle,
		TextAlign:  t.TextAlign,
	}
}

func (t *TextField) SetStyle(s TextStyle) {
	t.FontFamily = s.FontFamily
	t.FontSize = s.FontSize
	t.FontWeight = s.FontWeight
	t.FontStyle = s.FontStyle
	t.TextAlign = s.TextAlign
}

func (t *TextField) Validate() error {
	if !t.Position.Finite() || !geom.Finite(t.Width, t.Height, t.Rotation) {
		return Invalid("geometry", "text box must be finite")
	}
	if t.Width <= 0 || t.Height <= 0 {
		return Invalid("size", "text box must have area, got %vx%v", t.Width, t.Height)
	}
	return t.Style().Validate()
}

// Box is the unrotated text rectangle.
func (t *TextField) Box() geom.Rect {
	return geom.RectXYWH(t.Position.X, t.Position.Y, t.Width, t.Height)
}

// SetBox moves and resizes the field to r.
func (t *TextField) SetBox(r geom.Rect) {
	t.Position = r.Min()
	t.Width = r.Width()
	t.Height = r.Height()
}

func (t *TextField) Resizable() bool      { return true }
func (t *TextField) Angle() float64       { return t.Rotation }
func (t *TextField) SetAngle(deg float64) { t.Rotation = geom.NormalizeDegrees(deg) }

func (t *TextField) Bounds() geom.Rect { return t.Box().RotatedBounds(t.Rotation) }

func (t *TextField) Hit(p geom.Point, tol float64) bool {
	r := t.Box()
	return r.Inset(tol).Contains(p.Rotate(r.Center(), -t.Rotation))
}

func (t *TextField) Translate(dx, dy float64) {
	t.Position = t.Position.Add(geom.Pt(dx, dy))
}

func (t *TextField) Clone() Primitive {
	c := *t
	return &c
}

// Lines splits the content on explicit line breaks.
func (t *TextField) Lines() []string {
	return strings.Split(strings.ReplaceAll(t.Content, "\r\n", "\n"), "\n")
}
