package export

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
)

var ff = geom.FormatFloat

func svgColor(c state.Color) (hex string, alpha float64) {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), float64(c.A) / 255
}

// writeSVG emits the visible layers as vector elements. Freehand strokes
// stay vector paths at their mean width; each eraser stroke becomes a mask
// over the ink painted before it on the same layer.
func writeSVG(w io.Writer, b *state.Board, region geom.Rect, pw, ph int, transparent bool, fonts *fontCache) error {
	canvas := svg.New(w)
	canvas.Start(pw, ph, fmt.Sprintf(`viewBox="%s %s %s %s"`, ff(region.MinX), ff(region.MinY), ff(region.Width()), ff(region.Height())))
	canvas.Title("LayerBoard export")
	area := geom.Polygon(region.Corners()...).SVG()
	if !transparent {
		hex, _ := svgColor(b.Background)
		canvas.Path(area, "fill:"+hex+";stroke:none")
	}
	for _, l := range b.Layers {
		if !l.Visible {
			continue
		}
		canvas.Group(fmt.Sprintf(`id="layer-%d"`, l.ID))
		if l.Raster != nil {
			canvas.Gtransform(fmt.Sprintf("translate(%s,%s)", ff(l.Raster.X), ff(l.Raster.Y)))
			canvas.Image(0, 0, l.Raster.Width, l.Raster.Height, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(l.Raster.PNG))
			canvas.Gend()
		}
		var erasers []*state.Stroke
		for _, p := range l.Primitives {
			if s, ok := p.(*state.Stroke); ok && s.Composite == state.DestinationOut {
				erasers = append(erasers, s)
			}
		}
		if len(erasers) > 0 {
			x, y := int(math.Floor(region.MinX)), int(math.Floor(region.MinY))
			mw, mh := int(math.Ceil(region.MaxX))-x, int(math.Ceil(region.MaxY))-y
			canvas.Def()
			for _, e := range erasers {
				canvas.Mask(maskID(e), x, y, mw, mh, `maskUnits="userSpaceOnUse"`)
				canvas.Path(area, "fill:#ffffff;stroke:none")
				canvas.Path(e.Path().SVG(), strokeStyle("#000000", e.MeanWidth(), 1))
				canvas.MaskEnd()
			}
			canvas.DefEnd()
			// The last eraser's group is outermost; each eraser closes the
			// innermost group, so it masks only ink painted before it.
			for i := len(erasers) - 1; i >= 0; i-- {
				canvas.Group(fmt.Sprintf(`mask="url(#%s)"`, maskID(erasers[i])))
			}
		}
		for _, p := range l.Primitives {
			if err := svgPrimitive(canvas, p, fonts); err != nil {
				return err
			}
		}
		canvas.Gend()
	}
	canvas.End()
	return nil
}

func maskID(s *state.Stroke) string { return fmt.Sprintf("erase-%d", s.ID) }

func strokeStyle(hex string, width, opacity float64) string {
	return fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%s;stroke-width:%s;stroke-linecap:round;stroke-linejoin:round",
		hex, ff(opacity), ff(width))
}

func svgPrimitive(canvas *svg.SVG, p state.Primitive, fonts *fontCache) error {
	switch v := p.(type) {
	case *state.Stroke:
		if v.Composite == state.DestinationOut {
			canvas.Gend()
			return nil
		}
		hex, a := svgColor(v.Color)
		style := strokeStyle(hex, v.MeanWidth(), a*v.Opacity)
		if v.Composite == state.Multiply {
			style += ";mix-blend-mode:multiply"
		}
		canvas.Path(v.Path().SVG(), style)
	case *state.Shape:
		hex, a := svgColor(v.Color)
		fill := "fill:none"
		if v.Filled {
			fill = fmt.Sprintf("fill:%s;fill-opacity:%s", hex, ff(a))
		}
		canvas.Path(v.Outline().SVG(), fill+";"+strings.TrimPrefix(strokeStyle(hex, v.StrokeWidth, a), "fill:none;"))
	case *state.TextField:
		if v.Content == "" {
			return nil
		}
		face, err := fonts.face(v.FontFamily, v.FontWeight, v.FontStyle, v.FontSize)
		if err != nil {
			return err
		}
		box := v.Box()
		c := box.Center()
		transform := fmt.Sprintf("translate(%s,%s)", ff(box.MinX), ff(box.MinY))
		if v.Rotation != 0 {
			transform = fmt.Sprintf("rotate(%s,%s,%s) ", ff(v.Rotation), ff(c.X), ff(c.Y)) + transform
		}
		hex, a := svgColor(v.Color)
		style := fmt.Sprintf("font-family:%s;font-size:%spx;font-weight:%s;font-style:%s;fill:%s;fill-opacity:%s;white-space:pre",
			cssFamily(v.FontFamily), ff(v.FontSize), v.FontWeight, v.FontStyle, hex, ff(a))
		canvas.Gtransform(transform)
		for _, line := range layoutText(face, v, box.Width()) {
			if line.Text == "" {
				continue
			}
			canvas.Text(0, 0, line.Text, fmt.Sprintf(`transform="translate(%s,%s)"`, ff(line.X), ff(line.Baseline)), style)
		}
		canvas.Gend()
	default:
		return fmt.Errorf("unknown primitive %T", p)
	}
	return nil
}

// cssFamily keeps a font family usable inside a style attribute.
func cssFamily(f string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '<', '>', '&', ';', '\'':
			return -1
		}
		return r
	}, f)
}
