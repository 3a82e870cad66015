package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
)

// canvas rasterizes primitives through a logical-to-pixel transform. Each
// primitive is drawn as coverage into a scratch mask, then blended into the
// layer buffer with its own opacity and compositing mode, so overlapping
// segments of one stroke never double up and erasers only cut their layer.
type canvas struct {
	m      geom.Affine
	k      float64
	bounds image.Rectangle
	fonts  *fontCache

	scratch *image.Alpha
	scanner *rasterx.ScannerGV
	filler  *rasterx.Filler
	stroker *rasterx.Stroker
}

func newCanvas(w, h int, m geom.Affine, k float64, fonts *fontCache) *canvas {
	bounds := image.Rect(0, 0, w, h)
	scratch := image.NewAlpha(bounds)
	scanner := rasterx.NewScannerGV(w, h, scratch, bounds)
	return &canvas{
		m:       m,
		k:       k,
		bounds:  bounds,
		fonts:   fonts,
		scratch: scratch,
		scanner: scanner,
		filler:  rasterx.NewFiller(w, h, scanner),
		stroker: rasterx.NewStroker(w, h, scanner),
	}
}

// pixelRect maps a logical rectangle to the covering pixel rectangle,
// clipped to the canvas.
func (c *canvas) pixelRect(r geom.Rect, pad float64) image.Rectangle {
	a := c.m.Apply(r.Min())
	b := c.m.Apply(r.Max())
	pr := image.Rect(
		int(math.Floor(math.Min(a.X, b.X)-pad)), int(math.Floor(math.Min(a.Y, b.Y)-pad)),
		int(math.Ceil(math.Max(a.X, b.X)+pad)), int(math.Ceil(math.Max(a.Y, b.Y)+pad)),
	)
	return pr.Intersect(c.bounds)
}

func (c *canvas) clearScratch(r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := c.scratch.PixOffset(r.Min.X, y)
		clear(c.scratch.Pix[i : i+r.Dx()])
	}
}

func toFixed(p geom.Point) fixed.Point26_6 { return rasterx.ToFixedP(p.X, p.Y) }

// addPath feeds p, already in pixel space, to a rasterx path consumer.
func addPath(a rasterx.Adder, p geom.Path) {
	open := false
	for _, s := range p {
		switch s.Op {
		case geom.MoveTo:
			if open {
				a.Stop(false)
			}
			a.Start(toFixed(s.Pts[0]))
			open = true
		case geom.LineTo:
			a.Line(toFixed(s.Pts[0]))
		case geom.CubeTo:
			a.CubeBezier(toFixed(s.Pts[0]), toFixed(s.Pts[1]), toFixed(s.Pts[2]))
		case geom.Close:
			if open {
				a.Stop(true)
				open = false
			}
		}
	}
	if open {
		a.Stop(false)
	}
}

func (c *canvas) fill(p geom.Path, clip image.Rectangle) {
	c.scanner.SetClip(clip)
	c.filler.Clear()
	addPath(c.filler, p.Transform(c.m))
	c.filler.SetColor(color.Opaque)
	c.filler.Draw()
	c.filler.Clear()
}

func (c *canvas) stroke(p geom.Path, width float64, clip image.Rectangle) {
	c.scanner.SetClip(clip)
	c.stroker.Clear()
	c.stroker.SetStroke(fixed.Int26_6(width*c.k*64), 4<<6, rasterx.RoundCap, nil, rasterx.RoundGap, rasterx.Round)
	addPath(c.stroker, p.Transform(c.m))
	c.stroker.SetColor(color.Opaque)
	c.stroker.Draw()
	c.stroker.Clear()
}

// coverage draws p's coverage into the scratch mask and returns the pixel
// rectangle touched, or an empty rectangle when p is off canvas.
func (c *canvas) coverage(p state.Primitive) (image.Rectangle, error) {
	switch v := p.(type) {
	case *state.Stroke:
		clip := c.pixelRect(v.InkBounds(), 2)
		if clip.Empty() {
			return clip, nil
		}
		c.clearScratch(clip)
		path := v.Path()
		if v.UniformPressure() {
			c.stroke(path, v.SpanWidth(0), clip)
			return clip, nil
		}
		// One cubic per span, each inked at its own pressure.
		for i, seg := range path[1:] {
			start := v.Points[i].Pos()
			var span geom.Path
			span.MoveTo(start)
			span = append(span, seg)
			c.stroke(span, v.SpanWidth(i), clip)
		}
		return clip, nil
	case *state.Shape:
		clip := c.pixelRect(v.Outline().Bounds(), v.StrokeWidth*c.k+2)
		if clip.Empty() {
			return clip, nil
		}
		c.clearScratch(clip)
		outline := v.Outline()
		if v.Filled {
			c.fill(outline, clip)
		}
		c.stroke(outline, v.StrokeWidth, clip)
		return clip, nil
	case *state.TextField:
		clip := c.pixelRect(v.Bounds(), 2)
		if clip.Empty() || v.Content == "" {
			return image.Rectangle{}, nil
		}
		c.clearScratch(clip)
		return clip, c.text(v)
	}
	return image.Rectangle{}, fmt.Errorf("unknown primitive %T", p)
}

// text renders the field unrotated into its own mask, then maps that mask
// onto the scratch through rotation and the canvas transform.
func (c *canvas) text(t *state.TextField) error {
	face, err := c.fonts.face(t.FontFamily, t.FontWeight, t.FontStyle, t.FontSize*c.k)
	if err != nil {
		return err
	}
	box := t.Box()
	w, h := int(math.Ceil(box.Width()*c.k)), int(math.Ceil(box.Height()*c.k))
	if w <= 0 || h <= 0 {
		return nil
	}
	tmp := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{Dst: tmp, Src: image.Opaque, Face: face}
	for _, line := range layoutText(face, t, box.Width()*c.k) {
		d.Dot = fixed.Point26_6{X: fixed.Int26_6(line.X * 64), Y: fixed.Int26_6(line.Baseline * 64)}
		d.DrawString(line.Text)
	}
	m := geom.Scale(1 / c.k).
		Then(geom.Translate(box.MinX, box.MinY)).
		Then(geom.RotateAbout(box.Center(), t.Rotation)).
		Then(c.m)
	draw.BiLinear.Transform(c.scratch, f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}, tmp, tmp.Bounds(), draw.Over, nil)
	return nil
}

// blend composites the scratch coverage over r into dst, tinted with col.
// dst holds premultiplied color.
func (c *canvas) blend(dst *image.RGBA, r image.Rectangle, col state.Color, opacity float64, mode state.CompositeMode) {
	alpha := float64(col.A) / 255 * opacity
	cr, cg, cb := float64(col.R)/255, float64(col.G)/255, float64(col.B)/255
	for y := r.Min.Y; y < r.Max.Y; y++ {
		mi := c.scratch.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x, mi, di = x+1, mi+1, di+4 {
			cov := c.scratch.Pix[mi]
			if cov == 0 {
				continue
			}
			sa := float64(cov) / 255 * alpha
			px := dst.Pix[di : di+4 : di+4]
			dr, dg, db, da := float64(px[0])/255, float64(px[1])/255, float64(px[2])/255, float64(px[3])/255
			var or, og, ob, oa float64
			switch mode {
			case state.DestinationOut:
				k := 1 - sa
				or, og, ob, oa = dr*k, dg*k, db*k, da*k
			case state.Multiply:
				sr, sg, sb := cr*sa, cg*sa, cb*sa
				or = sr*(1-da) + dr*(1-sa) + sr*dr
				og = sg*(1-da) + dg*(1-sa) + sg*dg
				ob = sb*(1-da) + db*(1-sa) + sb*db
				oa = sa + da - sa*da
			default:
				k := 1 - sa
				or, og, ob, oa = cr*sa+dr*k, cg*sa+dg*k, cb*sa+db*k, sa+da*k
			}
			px[0], px[1], px[2], px[3] = unit8(or), unit8(og), unit8(ob), unit8(oa)
		}
	}
}

func unit8(v float64) uint8 { return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255)) }

// paint draws one primitive into dst.
func (c *canvas) paint(dst *image.RGBA, p state.Primitive) error {
	r, err := c.coverage(p)
	if err != nil || r.Empty() {
		return err
	}
	switch v := p.(type) {
	case *state.Stroke:
		c.blend(dst, r, v.Color, v.Opacity, v.Composite)
	case *state.Shape:
		c.blend(dst, r, v.Color, 1, state.SourceOver)
	case *state.TextField:
		c.blend(dst, r, v.Color, 1, state.SourceOver)
	}
	return nil
}

// image draws a raster layer's picture at its logical position.
func (c *canvas) image(dst *image.RGBA, r *state.Raster) error {
	img, err := png.Decode(bytes.NewReader(r.PNG))
	if err != nil {
		return fmt.Errorf("decode layer image: %w", err)
	}
	m := geom.Translate(r.X, r.Y).Then(c.m)
	draw.BiLinear.Transform(dst, f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}, img, img.Bounds(), draw.Over, nil)
	return nil
}

// scene describes one composite: which transform, how big, and what extra
// primitive to blend into the active layer.
type scene struct {
	m           geom.Affine
	k           float64
	w, h        int
	transparent bool
	preview     state.Primitive
}

// composite paints every visible layer bottom to top. Hidden layers are
// skipped; locked ones are drawn like any other. ctx is checked between
// layers.
func composite(ctx context.Context, b *state.Board, sc scene, fonts *fontCache) (*image.RGBA, error) {
	out := image.NewRGBA(image.Rect(0, 0, sc.w, sc.h))
	if !sc.transparent {
		bg := b.Background
		bg.A = 255
		draw.Draw(out, out.Bounds(), image.NewUniform(color.NRGBA(bg)), image.Point{}, draw.Src)
	}
	c := newCanvas(sc.w, sc.h, sc.m, sc.k, fonts)
	layer := image.NewRGBA(out.Bounds())
	for _, l := range b.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !l.Visible {
			continue
		}
		clear(layer.Pix)
		if l.Raster != nil {
			if err := c.image(layer, l.Raster); err != nil {
				return nil, err
			}
		}
		for _, p := range l.Primitives {
			if err := c.paint(layer, p); err != nil {
				return nil, err
			}
		}
		if sc.preview != nil && l.ID == b.ActiveLayer {
			if err := c.paint(layer, sc.preview); err != nil {
				return nil, err
			}
		}
		draw.Draw(out, out.Bounds(), layer, image.Point{}, draw.Over)
	}
	return out, nil
}
