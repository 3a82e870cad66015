package engine

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
	"LayerBoard/internal/tools"
)

func TestValidationErrorsAreReturned(t *testing.T) {
	e := newTestEngine(t)
	cases := map[string]func() (Result, error){
		"width":      func() (Result, error) { return e.SetStrokeWidth(0) },
		"tool":       func() (Result, error) { return e.SetTool(tools.Brush{Kind: state.Eraser}) },
		"sides":      func() (Result, error) { return e.SetShapeOptions(state.ShapeOptions{Sides: 40}) },
		"font size":  func() (Result, error) { return e.SetTextStyle(state.TextStyle{FontFamily: "sans", FontSize: -1}) },
		"layer name": func() (Result, error) { return e.RenameLayer(e.board.ActiveLayer, " ") },
		"resize":     func() (Result, error) { return e.ResizeSelection(0, 10) },
		"image":      func() (Result, error) { return e.AddImageLayer("bg", []byte("not a png"), 0, 0) },
	}
	before := content(t, e)
	for name, call := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := call()
			assert.ErrorIs(t, err, state.ErrValidation)
			assert.Equal(t, StatusRejected, res.Status)
		})
	}
	assert.Equal(t, before, content(t, e))
	assert.Equal(t, tools.Default(), e.View().Tool)
}

func TestLayerCommands(t *testing.T) {
	e := newTestEngine(t)
	first := e.board.ActiveLayer
	res := e.CreateLayer("Notes")
	require.True(t, res.Applied())
	notes := res.IDs[0]

	v := e.View()
	require.Len(t, v.Layers, 2)
	assert.Equal(t, "Notes", v.Layers[1].Name)
	assert.True(t, v.Layers[1].Active)

	assert.Equal(t, StatusUnchanged, e.MoveLayerUp(notes).Status)
	assert.True(t, e.MoveLayerDown(notes).Applied())
	assert.Equal(t, notes, e.board.Layers[0].ID)

	res, err := e.RenameLayer(notes, "Sketch")
	require.NoError(t, err)
	assert.True(t, res.Applied())
	res, err = e.RenameLayer(notes, "Sketch")
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, res.Status)

	assert.True(t, e.SetActiveLayer(first).Applied())
	assert.Equal(t, StatusRejected, e.SetActiveLayer(999).Status)

	assert.True(t, e.DeleteLayer(notes).Applied())
	res = e.DeleteLayer(first)
	assert.ErrorIs(t, res.Reason, state.ErrLastLayer)

	head, _ := e.history.Current()
	assert.Equal(t, "Delete layer", head.Label)
}

func TestHidingLayerDropsItsSelection(t *testing.T) {
	e := newTestEngine(t)
	id := addRect(t, e, 10, 10, 50, 50, red)
	e.Select(id)
	layer := e.board.ActiveLayer

	assert.True(t, e.SetLayerVisible(layer, false).Applied())
	assert.Empty(t, e.View().Selection)
	assert.Equal(t, StatusRejected, e.Select(id).Status)
	assert.Empty(t, e.SelectAll().IDs)

	e.SetLayerVisible(layer, true)
	assert.Equal(t, []state.ID{id}, e.SelectAll().IDs)
}

func TestLayerChangesCancelGesture(t *testing.T) {
	cases := []struct {
		name   string
		change func(e *Engine, layer state.ID) Result
	}{
		{"hide", func(e *Engine, layer state.ID) Result { return e.SetLayerVisible(layer, false) }},
		{"delete", func(e *Engine, layer state.ID) Result { return e.DeleteLayer(layer) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t)
			layer := e.CreateLayer("").IDs[0]
			e.PointerDown(at(10, 10))
			e.PointerMove(at(80, 40))

			require.True(t, tc.change(e, layer).Applied())
			assert.Equal(t, tools.Idle, e.View().Phase)
			entries := e.history.Len()
			assert.Equal(t, StatusUnchanged, e.PointerUp(at(90, 50)).Status)
			assert.Zero(t, e.board.Count(state.KindStroke))
			assert.Equal(t, entries, e.history.Len())
		})
	}
}

func TestImageLayer(t *testing.T) {
	e := newTestEngine(t)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.NRGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	res, err := e.AddImageLayer("Photo", buf.Bytes(), 10, 20)
	require.NoError(t, err)
	require.True(t, res.Applied())
	l := e.board.Layer(res.IDs[0])
	require.NotNil(t, l.Raster)
	assert.Equal(t, geom.RectXYWH(10, 20, 4, 3), l.Raster.Bounds())
	assert.True(t, e.View().Layers[1].Image)

	assert.True(t, e.Clear().Applied())
	assert.Nil(t, e.board.Layer(res.IDs[0]).Raster)
}

func TestSetColorRecolorsSelection(t *testing.T) {
	e := newTestEngine(t)
	id := addRect(t, e, 10, 10, 50, 50, red)
	e.Select(id)
	res := e.SetColor(blue)
	require.True(t, res.Applied())
	p, _ := e.board.Find(id)
	assert.Equal(t, blue, p.(*state.Shape).Color)
	assert.Equal(t, StatusUnchanged, e.SetColor(blue).Status)

	e.Undo()
	p, _ = e.board.Find(id)
	assert.Equal(t, red, p.(*state.Shape).Color)
	assert.Equal(t, blue, e.View().Color, "the tool color is not history")
}

func TestShapeOptionsFormatSelection(t *testing.T) {
	e := newTestEngine(t)
	setTool(t, e, tools.Shape{Kind: state.ShapeStar})
	res := drag(t, e, geom.Pt(10, 10), geom.Pt(80, 80))
	require.True(t, res.Applied())
	e.Select(res.IDs[0])

	out, err := e.SetShapeOptions(state.ShapeOptions{Filled: true, StarPoints: 7})
	require.NoError(t, err)
	assert.True(t, out.Applied())
	p, _ := e.board.Find(res.IDs[0])
	star := p.(*state.Shape)
	assert.Equal(t, 7, star.StarPoints)
	assert.True(t, star.Filled)
}

func TestTextStyleFormatsSelection(t *testing.T) {
	e := newTestEngine(t)
	setTool(t, e, tools.Text{})
	res := drag(t, e, geom.Pt(10, 10), geom.Pt(210, 60))
	require.True(t, res.Applied())

	style := state.TextStyle{FontFamily: "mono", FontSize: 32, FontWeight: state.WeightBold, TextAlign: state.AlignCenter}
	out, err := e.SetTextStyle(style)
	require.NoError(t, err)
	assert.True(t, out.Applied())
	p, _ := e.board.Find(res.IDs[0])
	assert.Equal(t, style, p.(*state.TextField).Style())

	out, err = e.FormatText(res.IDs[0], style)
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, out.Status)
}

func TestDuplicateCopyPaste(t *testing.T) {
	e := newTestEngine(t)
	id := addRect(t, e, 10, 10, 50, 50, red)
	e.Select(id)

	dup := e.Duplicate()
	require.True(t, dup.Applied())
	require.Len(t, dup.IDs, 1)
	p, _ := e.board.Find(dup.IDs[0])
	assert.Equal(t, geom.Rect{MinX: 30, MinY: 30, MaxX: 70, MaxY: 70}, p.(*state.Shape).Box())
	assert.Equal(t, dup.IDs, e.View().Selection)

	e.Select(id)
	require.True(t, e.Copy().Applied())
	first := e.Paste()
	second := e.Paste()
	require.True(t, second.Applied())
	p, _ = e.board.Find(first.IDs[0])
	assert.Equal(t, 30.0, p.(*state.Shape).Box().MinX)
	p, _ = e.board.Find(second.IDs[0])
	assert.Equal(t, 50.0, p.(*state.Shape).Box().MinX)
	assert.Equal(t, 4, e.board.Count(state.KindShape))
}

func TestEmptyCopyKeepsClipboard(t *testing.T) {
	e := newTestEngine(t)
	id := addRect(t, e, 10, 10, 50, 50, red)
	e.Select(id)
	require.True(t, e.Copy().Applied())

	e.ClearSelection()
	assert.Equal(t, StatusUnchanged, e.Copy().Status)
	res := e.Paste()
	require.True(t, res.Applied())
	require.Len(t, res.IDs, 1)
	assert.Equal(t, 2, e.board.Count(state.KindShape))
}

func TestMoveToLayerAndDelete(t *testing.T) {
	e := newTestEngine(t)
	bottom := e.board.ActiveLayer
	id := addRect(t, e, 10, 10, 50, 50, red)
	top := e.CreateLayer("").IDs[0]
	e.Select(id)

	require.True(t, e.MoveToLayer(top).Applied())
	_, l := e.board.Find(id)
	assert.Equal(t, top, l.ID)

	e.SetLayerLocked(bottom, true)
	assert.Equal(t, StatusRejected, e.MoveToLayer(bottom).Status)

	assert.True(t, e.DeleteSelection().Applied())
	assert.Equal(t, 0, e.board.Count(state.KindShape))
	assert.Equal(t, StatusUnchanged, e.DeleteSelection().Status)
}

func TestResizeSelectionClamps(t *testing.T) {
	e := newTestEngine(t)
	id := addRect(t, e, 10, 10, 50, 50, red)
	e.Select(id)

	res, err := e.ResizeSelection(2, 100)
	require.NoError(t, err)
	require.True(t, res.Applied())
	p, _ := e.board.Find(id)
	box := p.(*state.Shape).Box()
	assert.InDelta(t, e.cfg.Input.MinExtent, box.Width(), 1e-9)
	assert.InDelta(t, 100, box.Height(), 1e-9)
	assert.InDelta(t, 10, box.MinX, 1e-9)
}

func TestTimelineView(t *testing.T) {
	e := newTestEngine(t)
	drag(t, e, geom.Pt(10, 10), geom.Pt(40, 30))
	e.CreateLayer("")
	e.Undo()

	v := e.View()
	require.Len(t, v.History, 3)
	assert.Equal(t, []string{"New board", "Draw brush", "Add layer"}, []string{v.History[0].Label, v.History[1].Label, v.History[2].Label})
	assert.Equal(t, 1, v.HistoryHead)
	assert.True(t, v.CanUndo)
	assert.True(t, v.CanRedo)
}
