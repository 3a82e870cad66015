package export

import (
	"context"
	"image"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/selection"
	"LayerBoard/internal/state"
)

var (
	accent      = state.Color{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff}
	accentWash  = state.Color{R: 0x1e, G: 0x88, B: 0xe5, A: 0x22}
	handleColor = state.White
)

// Overlay is the transient feedback drawn over the live view.
type Overlay struct {
	// Preview is the primitive of the gesture in flight. It is blended
	// into the active layer, so a pixel eraser preview cuts only that layer.
	Preview state.Primitive
	// Marquee is the rubber band in logical coordinates.
	Marquee *geom.Rect
	// Outlines are the bounds of the selected primitives.
	Outlines []geom.Rect
	// Frame, when set, gets resize and rotate handles.
	Frame *selection.Frame
}

// RenderView draws the board as the viewport shows it on a w × h screen.
func (e *Exporter) RenderView(b *state.Board, w, h int, ov Overlay) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fail(FormatPNG, ErrEmptyRegion)
	}
	zoom := b.View.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	m := geom.Scale(zoom).Then(geom.Translate(b.View.PanX, b.View.PanY))
	img, err := composite(context.Background(), b, scene{m: m, k: zoom, w: w, h: h, preview: ov.Preview}, e.viewFonts)
	if err != nil {
		return nil, err
	}
	c := newCanvas(w, h, m, zoom, e.viewFonts)
	hair := 1 / zoom
	edge := b.Canvas.Rect()
	c.overlay(img, geom.Polygon(edge.Corners()...), false, hair, state.Color{A: 0x40})
	for _, r := range ov.Outlines {
		c.overlay(img, geom.Polygon(r.Corners()...), false, hair, accent)
	}
	if ov.Marquee != nil {
		band := geom.Polygon(ov.Marquee.Corners()...)
		c.overlay(img, band, true, 0, accentWash)
		c.overlay(img, band, false, hair, accent)
	}
	if f := ov.Frame; f != nil {
		c.overlay(img, f.Outline(), false, hair, accent)
		top := geom.Pt(f.Box.Center().X, f.Box.MinY)
		c.overlay(img, geom.Polyline(f.ToWorld(top), f.Handle(selection.HandleRotate, zoom)), false, hair, accent)
		size := selection.HandleRadius / zoom
		for _, hd := range []selection.Handle{selection.HandleNW, selection.HandleNE, selection.HandleSE, selection.HandleSW, selection.HandleRotate} {
			p := f.Handle(hd, zoom)
			sq := geom.Polygon(geom.RectXYWH(p.X-size/2, p.Y-size/2, size, size).Corners()...)
			c.overlay(img, sq, true, 0, handleColor)
			c.overlay(img, sq, false, hair, accent)
		}
	}
	return img, nil
}

// overlay fills or strokes a logical path straight onto dst.
func (c *canvas) overlay(dst *image.RGBA, p geom.Path, fill bool, width float64, col state.Color) {
	clip := c.pixelRect(p.Bounds(), width*c.k+2)
	if clip.Empty() {
		return
	}
	c.clearScratch(clip)
	if fill {
		c.fill(p, clip)
	} else {
		c.stroke(p, width, clip)
	}
	c.blend(dst, clip, col, 1, state.SourceOver)
}
