package state

import (
	"bytes"
	"fmt"
	"image/png"

	"LayerBoard/internal/geom"
)

// Layer is one named surface of the board. Order mirrors its index in the
// board's stack, bottom first.
type Layer struct {
	ID         ID
	Name       string
	Order      int
	Visible    bool
	Locked     bool
	Raster     *Raster
	Primitives []Primitive
}

// Raster is a raw PNG image placed at (X, Y) in logical units, one logical
// unit per image pixel. It is only used by background image layers.
type Raster struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	PNG    []byte  `json:"png"`
}

// NewRaster checks that data is a PNG and records its size.
func NewRaster(data []byte, x, y float64) (*Raster, error) {
	if !geom.Finite(x, y) {
		return nil, Invalid("position", "raster origin must be finite")
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, Invalid("png", "%v", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, Invalid("png", "image has no pixels")
	}
	return &Raster{X: x, Y: y, Width: cfg.Width, Height: cfg.Height, PNG: bytes.Clone(data)}, nil
}

// Bounds is the logical rectangle the raster covers.
func (r *Raster) Bounds() geom.Rect {
	return geom.RectXYWH(r.X, r.Y, float64(r.Width), float64(r.Height))
}

func (r *Raster) clone() *Raster {
	if r == nil {
		return nil
	}
	c := *r
	c.PNG = bytes.Clone(r.PNG)
	return &c
}

// Index returns the position of primitive id in the layer, or -1.
func (l *Layer) Index(id ID) int {
	for i, p := range l.Primitives {
		if p.PrimitiveID() == id {
			return i
		}
	}
	return -1
}

// Empty reports whether the layer has nothing to draw.
func (l *Layer) Empty() bool { return len(l.Primitives) == 0 && l.Raster == nil }

func (l *Layer) String() string {
	return fmt.Sprintf("layer %d %q (%d primitives)", l.ID, l.Name, len(l.Primitives))
}

func (l *Layer) clone() *Layer {
	c := *l
	c.Raster = l.Raster.clone()
	c.Primitives = make([]Primitive, len(l.Primitives))
	for i, p := range l.Primitives {
		c.Primitives[i] = p.Clone()
	}
	return &c
}
