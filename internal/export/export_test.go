package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/selection"
	"LayerBoard/internal/state"
)

var (
	red  = state.Color{R: 255, A: 255}
	blue = state.Color{B: 255, A: 255}
)

func newBoard() *state.Board {
	return state.New(state.Size{Width: 400, Height: 300}, state.White)
}

func addRect(t *testing.T, b *state.Board, x0, y0, x1, y1 float64, c state.Color) *state.Shape {
	t.Helper()
	s, err := state.NewShape(state.ShapeRect, geom.Pt(x0, y0), geom.Pt(x1, y1), c, 2, state.ShapeOptions{Filled: true})
	require.NoError(t, err)
	require.NoError(t, b.Add(s))
	return s
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func rgba(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func TestPNGIsIdempotent(t *testing.T) {
	b := newBoard()
	addRect(t, b, 20, 20, 120, 80, red)
	s, err := state.NewStroke(state.Highlighter, blue, 6, []state.Point{{X: 10, Y: 10}, {X: 80, Y: 60, Pressure: 0.5}, {X: 200, Y: 40}})
	require.NoError(t, err)
	require.NoError(t, b.Add(s))
	tf, err := state.NewTextField(geom.RectXYWH(150, 150, 200, 40), state.Black, state.DefaultTextStyle())
	require.NoError(t, err)
	tf.Content = "Hello board"
	tf.Rotation = 15
	require.NoError(t, b.Add(tf))

	e := New()
	first, err := e.PNG(context.Background(), b, Options{})
	require.NoError(t, err)
	second, err := e.PNG(context.Background(), b, Options{})
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))
}

func TestUpperLayerPaintsOnTop(t *testing.T) {
	b := newBoard()
	bottom := b.Active()
	b.AddLayer("Layer 2")
	addRect(t, b, 50, 50, 150, 150, blue)
	require.NoError(t, b.SetActiveLayer(bottom.ID))
	addRect(t, b, 0, 0, 100, 100, red)

	data, err := New().PNG(context.Background(), b, Options{})
	require.NoError(t, err)
	img := decode(t, data)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba(img.At(75, 75)))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba(img.At(25, 25)))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgba(img.At(300, 250)))
}

func TestSelectionExportSize(t *testing.T) {
	b := newBoard()
	r := addRect(t, b, 10, 10, 210, 110, red)
	b.Selection.Set(r.ID)

	data, err := New().PNG(context.Background(), b, Options{SelectionOnly: true, DPI: 192})
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestExportFailures(t *testing.T) {
	b := newBoard()
	e := New(WithMaxDimension(500))
	ctx := context.Background()

	_, err := e.PNG(ctx, b, Options{SelectionOnly: true})
	assert.ErrorIs(t, err, ErrEmptyRegion)
	var xerr *Error
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, FormatPNG, xerr.Format)

	_, err = e.SVG(ctx, b, Options{DPI: 0.01})
	assert.ErrorIs(t, err, ErrEmptyRegion)

	_, err = e.PDF(ctx, b, Options{DPI: 300})
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = e.PNG(ctx, b, Options{DPI: -1})
	assert.ErrorIs(t, err, state.ErrValidation)

	e.busy.Store(true)
	_, err = e.PNG(ctx, b, Options{})
	assert.ErrorIs(t, err, ErrBusy)
	e.busy.Store(false)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = e.PNG(cancelled, b, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, e.busy.Load(), "a failed export releases the guard")
}

func TestTransparentBackground(t *testing.T) {
	b := newBoard()
	data, err := New().PNG(context.Background(), b, Options{Transparent: true})
	require.NoError(t, err)
	assert.Equal(t, uint8(0), rgba(decode(t, data).At(10, 10)).A)

	data, err = New().PNG(context.Background(), b, Options{})
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, rgba(decode(t, data).At(10, 10)))
}

func TestEraserCutsOnlyItsLayer(t *testing.T) {
	b := newBoard()
	addRect(t, b, 0, 0, 200, 200, blue)
	b.AddLayer("")
	addRect(t, b, 0, 0, 200, 200, red)
	eraser, err := state.NewStroke(state.Eraser, state.Black, 20, []state.Point{{X: 0, Y: 100}, {X: 200, Y: 100}})
	require.NoError(t, err)
	require.NoError(t, b.Add(eraser))

	data, err := New().PNG(context.Background(), b, Options{})
	require.NoError(t, err)
	img := decode(t, data)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba(img.At(100, 100)), "lower layer shows through the cut")
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba(img.At(100, 30)))
}

func TestTextIsRasterized(t *testing.T) {
	b := newBoard()
	tf, err := state.NewTextField(geom.RectXYWH(20, 20, 300, 60), state.Black, state.TextStyle{FontFamily: "mono", FontSize: 40, FontWeight: state.WeightBold})
	require.NoError(t, err)
	tf.Content = "WWWW"
	require.NoError(t, b.Add(tf))

	data, err := New().PNG(context.Background(), b, Options{})
	require.NoError(t, err)
	img := decode(t, data)
	inked := 0
	for y := 20; y < 80; y++ {
		for x := 20; x < 320; x++ {
			if rgba(img.At(x, y)).R < 128 {
				inked++
			}
		}
	}
	assert.Greater(t, inked, 100)
}

func TestSVGStructure(t *testing.T) {
	b := newBoard()
	addRect(t, b, 10, 10, 100, 100, red)
	eraser, err := state.NewStroke(state.Eraser, state.Black, 10, []state.Point{{X: 0, Y: 50}, {X: 120, Y: 50}})
	require.NoError(t, err)
	require.NoError(t, b.Add(eraser))
	after := addRect(t, b, 40, 40, 60, 60, blue)
	hl, err := state.NewStroke(state.Highlighter, blue, 10, []state.Point{{X: 0, Y: 0}, {X: 30, Y: 30}})
	require.NoError(t, err)
	require.NoError(t, b.Add(hl))
	tf, err := state.NewTextField(geom.RectXYWH(200, 200, 150, 30), state.Black, state.DefaultTextStyle())
	require.NoError(t, err)
	tf.Content = "a < b"
	require.NoError(t, b.Add(tf))

	data, err := New().SVG(context.Background(), b, Options{})
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, `viewBox="0 0 400 300"`)
	assert.Contains(t, doc, `<mask id="erase-`)
	assert.Contains(t, doc, `mask="url(#erase-`)
	assert.Contains(t, doc, "mix-blend-mode:multiply")
	assert.Contains(t, doc, "a &lt; b")
	assert.Equal(t, strings.Count(doc, "<g"), strings.Count(doc, "</g>"))

	// Ink after the eraser sits outside its masked group.
	maskEnd := strings.LastIndex(doc, "</g>\n<path")
	assert.Greater(t, maskEnd, 0)
	assert.NotZero(t, after.ID)
}

func TestPDFWrapsRaster(t *testing.T) {
	b := newBoard()
	addRect(t, b, 10, 10, 100, 100, red)
	data, err := New().PDF(context.Background(), b, Options{DPI: 96})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(data), "/Image")
}

func TestRenderViewOverlay(t *testing.T) {
	b := newBoard()
	r := addRect(t, b, 10, 10, 100, 100, red)
	b.View.ZoomAt(geom.Pt(0, 0), 1)
	frame := selection.Frame{Box: r.Box()}
	marquee := geom.RectXYWH(150, 150, 50, 50)
	preview, err := state.NewStroke(state.Brush, blue, 4, []state.Point{{X: 120, Y: 20}, {X: 180, Y: 20}})
	require.NoError(t, err)

	img, err := New().RenderView(b, 640, 480, Overlay{Preview: preview, Marquee: &marquee, Outlines: []geom.Rect{r.Bounds()}, Frame: &frame})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 640, 480), img.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba(img.At(110, 110)), "zoom 2 maps logical (55,55) to (110,110)")
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba(img.At(300, 40)))

	_, err = New().RenderView(b, 0, 10, Overlay{})
	assert.ErrorIs(t, err, ErrEmptyRegion)
}
