package engine

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LayerBoard/internal/config"
	"LayerBoard/internal/export"
	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
	"LayerBoard/internal/tools"
)

var (
	red  = state.Color{R: 255, A: 255}
	blue = state.Color{B: 255, A: 255}
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Board.CanvasWidth = 400
	cfg.Board.CanvasHeight = 300
	return New(cfg)
}

func at(x, y float64) tools.PointerEvent {
	return tools.PointerEvent{Pointer: 1, Screen: geom.Pt(x, y), Pressure: 1}
}

// drag presses at the first point, moves through the rest and releases at
// the last one.
func drag(t *testing.T, e *Engine, pts ...geom.Point) Result {
	t.Helper()
	require.GreaterOrEqual(t, len(pts), 1)
	down := e.PointerDown(at(pts[0].X, pts[0].Y))
	if down.Status == StatusRejected {
		return down
	}
	for _, p := range pts[1:] {
		e.PointerMove(at(p.X, p.Y))
	}
	last := pts[len(pts)-1]
	return e.PointerUp(at(last.X, last.Y))
}

func setTool(t *testing.T, e *Engine, tool tools.Tool) {
	t.Helper()
	_, err := e.SetTool(tool)
	require.NoError(t, err)
}

func content(t *testing.T, e *Engine) string {
	t.Helper()
	data, err := state.EncodeContent(e.board)
	require.NoError(t, err)
	return string(data)
}

func addRect(t *testing.T, e *Engine, x0, y0, x1, y1 float64, c state.Color) state.ID {
	t.Helper()
	setTool(t, e, tools.Shape{Kind: state.ShapeRect})
	_, err := e.SetShapeOptions(state.ShapeOptions{Filled: true})
	require.NoError(t, err)
	e.SetColor(c)
	res := drag(t, e, geom.Pt(x0, y0), geom.Pt(x1, y1))
	require.Equal(t, StatusApplied, res.Status, res.Reason)
	require.Len(t, res.IDs, 1)
	return res.IDs[0]
}

func TestDrawStrokeUndoRedo(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.SetStrokeWidth(4)
	require.NoError(t, err)

	res := drag(t, e, geom.Pt(10, 10), geom.Pt(100, 10))
	require.Equal(t, StatusApplied, res.Status)
	require.Equal(t, 1, e.board.Count(state.KindStroke))

	p, _ := e.board.Find(res.IDs[0])
	want := geom.Rect{MinX: 10, MinY: 10, MaxX: 100, MaxY: 14}
	assert.Equal(t, want, p.Bounds())
	drawn := p.Clone()

	assert.Equal(t, StatusApplied, e.Undo().Status)
	assert.Equal(t, 0, e.board.Count(state.KindStroke))
	assert.Equal(t, StatusApplied, e.Redo().Status)

	p, _ = e.board.Find(res.IDs[0])
	require.NotNil(t, p)
	assert.Equal(t, drawn, p)
	assert.Equal(t, want, p.Bounds())
}

func TestUpperLayerWinsOverlap(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, 20, 20, 200, 200, red)
	e.CreateLayer("Layer 2")
	addRect(t, e, 100, 100, 300, 280, blue)

	data, err := e.ExportPNG(context.Background(), export.Options{})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	r, g, b, a := img.At(150, 150).RGBA()
	assert.Equal(t, [4]uint32{0, 0, 0xffff, 0xffff}, [4]uint32{r, g, b, a})
}

func TestLockedLayerRefusesStrokeErase(t *testing.T) {
	e := newTestEngine(t)
	drag(t, e, geom.Pt(10, 10), geom.Pt(100, 10))
	layer := e.board.Layers[0].ID
	require.Equal(t, StatusApplied, e.SetLayerLocked(layer, true).Status)
	before := content(t, e)
	entries := e.history.Len()

	setTool(t, e, tools.Eraser{Mode: tools.EraseStroke})
	res := drag(t, e, geom.Pt(50, 10), geom.Pt(60, 11))
	assert.Equal(t, StatusRejected, res.Status)
	assert.ErrorIs(t, res.Reason, state.ErrLayerLocked)
	assert.Equal(t, 1, e.board.Count(state.KindStroke))
	assert.Equal(t, before, content(t, e))
	assert.Equal(t, entries, e.history.Len())
}

func TestLockedLayerRejectsEveryEdit(t *testing.T) {
	e := newTestEngine(t)
	id := addRect(t, e, 20, 20, 120, 80, red)
	layer := e.board.ActiveLayer
	e.SetLayerLocked(layer, true)
	before := content(t, e)

	setTool(t, e, tools.Brush{Kind: state.Brush})
	assert.Equal(t, StatusRejected, drag(t, e, geom.Pt(1, 1), geom.Pt(50, 50)).Status)

	require.Equal(t, StatusApplied, e.Select(id).Status)
	res, err := e.MoveSelection(10, 10)
	require.NoError(t, err)
	assert.ErrorIs(t, res.Reason, state.ErrLayerLocked)
	assert.Equal(t, StatusRejected, e.DeleteSelection().Status)
	assert.Equal(t, StatusRejected, e.SetColor(blue).Status)
	assert.Equal(t, StatusRejected, e.DeleteLayer(layer).Status)
	assert.Equal(t, StatusRejected, e.Clear().Status)

	assert.Equal(t, before, content(t, e))
}

func TestSnapshotJumpIsUndoable(t *testing.T) {
	e := newTestEngine(t)
	require.Equal(t, StatusApplied, e.CreateSnapshot("before-shapes").Status)
	addRect(t, e, 10, 10, 50, 50, red)
	addRect(t, e, 60, 10, 90, 50, red)
	addRect(t, e, 100, 10, 150, 50, red)
	require.Equal(t, 3, e.board.Count(state.KindShape))

	res := e.JumpToSnapshot("before-shapes")
	require.Equal(t, StatusApplied, res.Status)
	assert.Equal(t, 0, e.board.Count(state.KindShape))
	head, _ := e.history.Current()
	assert.Equal(t, "Jump to before-shapes", head.Label)

	e.Undo()
	assert.Equal(t, 3, e.board.Count(state.KindShape))

	assert.Equal(t, StatusRejected, e.JumpToSnapshot("missing").Status)
	assert.Equal(t, StatusApplied, e.DeleteSnapshot("before-shapes").Status)
	assert.Empty(t, e.View().Snapshots)
}

func TestSelectionExportScalesWithDPI(t *testing.T) {
	e := newTestEngine(t)
	id := addRect(t, e, 50, 50, 250, 150, red)
	e.Select(id)

	data, err := e.ExportPNG(context.Background(), export.Options{SelectionOnly: true, DPI: 192})
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestZoomStepsAndReset(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 3; i++ {
		_, err := e.SetZoom(0.1)
		require.NoError(t, err)
	}
	assert.Equal(t, 1.3, e.View().Viewport.Zoom)
	e.PanBy(15, -4)
	e.ResetView()
	v := e.View().Viewport
	assert.Equal(t, 1.0, v.Zoom)
	assert.Equal(t, 0.0, v.PanX)
	assert.Equal(t, 0.0, v.PanY)
}

func TestUndoRedoAreInverse(t *testing.T) {
	e := newTestEngine(t)
	initial := content(t, e)
	var states []string

	drag(t, e, geom.Pt(10, 10), geom.Pt(40, 30), geom.Pt(90, 20))
	states = append(states, content(t, e))
	id := addRect(t, e, 100, 100, 160, 140, red)
	states = append(states, content(t, e))
	e.CreateLayer("")
	states = append(states, content(t, e))
	e.Select(id)
	_, err := e.MoveSelection(5, 5)
	require.NoError(t, err)
	states = append(states, content(t, e))
	_, err = e.RotateSelection(30)
	require.NoError(t, err)
	states = append(states, content(t, e))

	for i := len(states) - 2; i >= 0; i-- {
		require.Equal(t, StatusApplied, e.Undo().Status)
		assert.Equal(t, states[i], content(t, e))
	}
	require.Equal(t, StatusApplied, e.Undo().Status)
	assert.Equal(t, initial, content(t, e))
	assert.Equal(t, StatusUnchanged, e.Undo().Status)

	for i := range states {
		require.Equal(t, StatusApplied, e.Redo().Status)
		assert.Equal(t, states[i], content(t, e))
	}
	assert.Equal(t, StatusUnchanged, e.Redo().Status)
}

func TestNewCommitDropsRedo(t *testing.T) {
	e := newTestEngine(t)
	drag(t, e, geom.Pt(10, 10), geom.Pt(40, 30))
	e.Undo()
	require.True(t, e.View().CanRedo)
	drag(t, e, geom.Pt(50, 50), geom.Pt(80, 80))
	assert.False(t, e.View().CanRedo)
	assert.Len(t, e.View().History, 2)
}

func TestDeserializeRestartsHistory(t *testing.T) {
	e := newTestEngine(t)
	addRect(t, e, 10, 10, 50, 50, red)
	e.CreateSnapshot("mark")
	blob, err := e.Serialize()
	require.NoError(t, err)

	other := newTestEngine(t)
	require.NoError(t, other.Deserialize(blob))
	assert.Equal(t, content(t, e), content(t, other))
	v := other.View()
	assert.False(t, v.CanUndo)
	assert.Len(t, v.History, 1)
	assert.Empty(t, v.Snapshots)

	before := content(t, other)
	err = other.Deserialize(blob[:len(blob)/2])
	assert.ErrorIs(t, err, state.ErrCorrupt)
	assert.Equal(t, before, content(t, other))
}
