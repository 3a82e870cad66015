package engine

import (
	"context"
	"image"

	"LayerBoard/internal/export"
	"LayerBoard/internal/selection"
	"LayerBoard/internal/state"
	"LayerBoard/internal/tools"
)

// ExportPNG rasterizes the canvas or the selection.
func (e *Engine) ExportPNG(ctx context.Context, opts export.Options) ([]byte, error) {
	return e.exporter.PNG(ctx, e.board, opts)
}

// ExportSVG writes the canvas or the selection as SVG.
func (e *Engine) ExportSVG(ctx context.Context, opts export.Options) ([]byte, error) {
	return e.exporter.SVG(ctx, e.board, opts)
}

// ExportPDF writes the canvas or the selection as a one-page PDF.
func (e *Engine) ExportPDF(ctx context.Context, opts export.Options) ([]byte, error) {
	return e.exporter.PDF(ctx, e.board, opts)
}

// ExportRasterSnapshot is the opaque full-canvas PNG at 96 DPI.
func (e *Engine) ExportRasterSnapshot(ctx context.Context) ([]byte, error) {
	return e.exporter.Snapshot(ctx, e.board)
}

// RenderView draws what the viewport shows on a w × h screen, including
// the gesture preview, the marquee and the selection frame.
func (e *Engine) RenderView(w, h int) (*image.RGBA, error) {
	ov := export.Overlay{Preview: e.preview, Marquee: e.marquee}
	for _, id := range e.board.Selection.IDs() {
		if p, _ := e.board.Find(id); p != nil {
			ov.Outlines = append(ov.Outlines, p.Bounds())
		}
	}
	if _, ok := e.tool.(tools.Select); ok && !e.board.Selection.Empty() {
		if f, ok := selection.FrameOf(e.board, e.board.Selection.IDs()); ok {
			ov.Frame = &f
		}
	}
	return e.exporter.RenderView(e.board, w, h, ov)
}

// Serialize encodes the whole board for persistence.
func (e *Engine) Serialize() ([]byte, error) {
	return state.Encode(e.board)
}

// Deserialize replaces the open board with a persisted one. A blob that
// does not decode cleanly leaves the current board untouched. On success
// history restarts at the loaded board and snapshots are dropped.
func (e *Engine) Deserialize(data []byte) error {
	b, err := state.Decode(data)
	if err != nil {
		e.logger.Warn("load failed", "err", err)
		return err
	}
	e.adopt(b, "Open board")
	e.logger.Info("board loaded", "layers", len(b.Layers), "width", b.Canvas.Width, "height", b.Canvas.Height)
	return nil
}
