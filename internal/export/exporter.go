// Package export composites the board's visible layers into PNG, SVG and
// PDF documents and renders the live view for the desktop shell.
package export

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math"
	"sync/atomic"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
)

const (
	// BaseDPI is the density at which one logical unit is one pixel.
	BaseDPI = 96.0
	// DefaultMaxDimension caps either side of an export raster.
	DefaultMaxDimension = 16384
)

// Options choose what an export covers and how it is rasterized.
type Options struct {
	SelectionOnly bool
	Transparent   bool
	// DPI scales the raster relative to 96; zero means 96.
	DPI float64
}

func (o Options) dpi() float64 {
	if o.DPI == 0 {
		return BaseDPI
	}
	return o.DPI
}

// Validate rejects DPI values that cannot size a raster.
func (o Options) Validate() error {
	if !geom.Finite(o.DPI) || o.DPI < 0 {
		return state.Invalid("dpi", "must be a positive number, got %v", o.DPI)
	}
	return nil
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithMaxDimension caps the pixel size of either side of an export.
func WithMaxDimension(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.maxDim = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// Exporter turns boards into files. It never mutates the board and allows
// a single export in flight at a time.
type Exporter struct {
	maxDim    int
	logger    *slog.Logger
	busy      atomic.Bool
	fonts     *fontCache
	viewFonts *fontCache
}

func New(opts ...Option) *Exporter {
	e := &Exporter{
		maxDim:    DefaultMaxDimension,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		fonts:     newFontCache(),
		viewFonts: newFontCache(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// target is a resolved export region and its pixel size.
type target struct {
	region geom.Rect
	dpi    float64
	w, h   int
}

func (e *Exporter) resolve(f Format, b *state.Board, opts Options) (target, error) {
	if err := opts.Validate(); err != nil {
		return target{}, err
	}
	region := b.Canvas.Rect()
	if opts.SelectionOnly {
		r, ok := b.SelectionBounds()
		if !ok {
			return target{}, fail(f, ErrEmptyRegion)
		}
		region = r
	}
	t := target{region: region, dpi: opts.dpi()}
	t.w = int(math.Round(region.Width() * t.dpi / BaseDPI))
	t.h = int(math.Round(region.Height() * t.dpi / BaseDPI))
	if t.w <= 0 || t.h <= 0 {
		return target{}, fail(f, ErrEmptyRegion)
	}
	if t.w > e.maxDim || t.h > e.maxDim {
		return target{}, fail(f, ErrTooLarge)
	}
	return t, nil
}

func (e *Exporter) acquire(f Format) error {
	if !e.busy.CompareAndSwap(false, true) {
		return fail(f, ErrBusy)
	}
	return nil
}

func (e *Exporter) release() { e.busy.Store(false) }

func (e *Exporter) render(ctx context.Context, b *state.Board, t target, transparent bool) (*image.RGBA, error) {
	k := t.dpi / BaseDPI
	m := geom.Translate(-t.region.MinX, -t.region.MinY).Then(geom.Scale(k))
	return composite(ctx, b, scene{m: m, k: k, w: t.w, h: t.h, transparent: transparent}, e.fonts)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PNG rasterizes the region. Without Transparent the board background is
// painted first.
func (e *Exporter) PNG(ctx context.Context, b *state.Board, opts Options) ([]byte, error) {
	t, err := e.resolve(FormatPNG, b, opts)
	if err != nil {
		return nil, err
	}
	if err := e.acquire(FormatPNG); err != nil {
		return nil, err
	}
	defer e.release()
	img, err := e.render(ctx, b, t, opts.Transparent)
	if err != nil {
		return nil, fail(FormatPNG, err)
	}
	data, err := encodePNG(img)
	if err != nil {
		return nil, fail(FormatPNG, err)
	}
	e.logger.Info("exported", "format", FormatPNG, "width", t.w, "height", t.h, "bytes", len(data))
	return data, nil
}

// SVG writes the region as a vector document sized like the PNG would be.
func (e *Exporter) SVG(ctx context.Context, b *state.Board, opts Options) ([]byte, error) {
	t, err := e.resolve(FormatSVG, b, opts)
	if err != nil {
		return nil, err
	}
	if err := e.acquire(FormatSVG); err != nil {
		return nil, err
	}
	defer e.release()
	if err := ctx.Err(); err != nil {
		return nil, fail(FormatSVG, err)
	}
	var buf bytes.Buffer
	if err := writeSVG(&buf, b, t.region, t.w, t.h, opts.Transparent, e.fonts); err != nil {
		return nil, fail(FormatSVG, err)
	}
	e.logger.Info("exported", "format", FormatSVG, "width", t.w, "height", t.h, "bytes", buf.Len())
	return buf.Bytes(), nil
}

// PDF wraps an opaque raster of the region in a one-page document.
// Transparent is ignored.
func (e *Exporter) PDF(ctx context.Context, b *state.Board, opts Options) ([]byte, error) {
	t, err := e.resolve(FormatPDF, b, opts)
	if err != nil {
		return nil, err
	}
	if err := e.acquire(FormatPDF); err != nil {
		return nil, err
	}
	defer e.release()
	img, err := e.render(ctx, b, t, false)
	if err != nil {
		return nil, fail(FormatPDF, err)
	}
	raster, err := encodePNG(img)
	if err != nil {
		return nil, fail(FormatPDF, err)
	}
	data, err := writePDF(raster, t.w, t.h, t.dpi)
	if err != nil {
		return nil, fail(FormatPDF, err)
	}
	e.logger.Info("exported", "format", FormatPDF, "width", t.w, "height", t.h, "bytes", len(data))
	return data, nil
}

// Snapshot is the opaque full-canvas PNG at 96 DPI handed to image
// analysis collaborators.
func (e *Exporter) Snapshot(ctx context.Context, b *state.Board) ([]byte, error) {
	return e.PNG(ctx, b, Options{})
}
