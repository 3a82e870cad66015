package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LayerBoard/internal/geom"
	"LayerBoard/internal/state"
)

func board(t *testing.T) (*state.Board, *state.Shape, *state.Stroke) {
	t.Helper()
	b := state.New(state.Size{Width: 800, Height: 600}, state.White)
	r, err := state.NewShape(state.ShapeRect, geom.Pt(100, 100), geom.Pt(200, 150), state.Black, 2, state.ShapeOptions{Filled: true})
	require.NoError(t, err)
	require.NoError(t, b.Add(r))
	s, err := state.NewStroke(state.Brush, state.Black, 4, []state.Point{{X: 300, Y: 300}, {X: 400, Y: 300}})
	require.NoError(t, err)
	require.NoError(t, b.Add(s))
	return b, r, s
}

func TestHitTestTopmostVisible(t *testing.T) {
	b, r, s := board(t)
	assert.Equal(t, state.Primitive(r), HitTest(b, geom.Pt(150, 120), 2))
	assert.Equal(t, state.Primitive(s), HitTest(b, geom.Pt(350, 303), 2))
	assert.Nil(t, HitTest(b, geom.Pt(350, 330), 2))

	top := b.AddLayer("")
	cover, err := state.NewShape(state.ShapeEllipse, geom.Pt(120, 100), geom.Pt(180, 150), state.Black, 2, state.ShapeOptions{})
	require.NoError(t, err)
	require.NoError(t, b.Add(cover))
	assert.Equal(t, cover.ID, HitTest(b, geom.Pt(150, 120), 2).PrimitiveID())
	assert.Len(t, HitAll(b, geom.Pt(150, 120), 2), 2)

	_, err = b.SetLayerVisible(top.ID, false)
	require.NoError(t, err)
	assert.Equal(t, r.ID, HitTest(b, geom.Pt(150, 120), 2).PrimitiveID())
}

func TestMarqueeIntersectsBounds(t *testing.T) {
	b, r, s := board(t)
	assert.Equal(t, []state.ID{r.ID}, Marquee(b, geom.RectXYWH(190, 140, 50, 50)))
	assert.Equal(t, []state.ID{r.ID, s.ID}, Marquee(b, geom.RectXYWH(0, 0, 800, 600)))
	assert.Empty(t, Marquee(b, geom.RectXYWH(500, 500, 10, 10)))
}

func TestMoveAndCancel(t *testing.T) {
	b, r, s := board(t)
	tr, err := Begin(b, []state.ID{r.ID, s.ID}, OpMove, HandleNone, geom.Pt(0, 0))
	require.NoError(t, err)

	tr.Update(geom.Pt(10, 5), Options{})
	tr.Update(geom.Pt(20, 10), Options{})
	assert.True(t, tr.Changed())
	assert.Equal(t, geom.Pt(120, 110), r.Start)
	assert.Equal(t, 320.0, s.Points[0].X)

	tr.Update(geom.Pt(20, 3), Options{Constrain: true})
	assert.Equal(t, geom.Pt(120, 100), r.Start)

	tr.Cancel()
	assert.Equal(t, geom.Pt(100, 100), r.Start)
	assert.Equal(t, 300.0, s.Points[0].X)
	assert.False(t, tr.Changed())
}

func TestTransformSkipsLockedLayers(t *testing.T) {
	b, r, _ := board(t)
	_, err := b.SetLayerLocked(b.ActiveLayer, true)
	require.NoError(t, err)
	_, err = Begin(b, []state.ID{r.ID}, OpMove, HandleNone, geom.Pt(0, 0))
	assert.ErrorIs(t, err, state.ErrLayerLocked)
}

func TestResizeKeepsOppositeCorner(t *testing.T) {
	b, r, _ := board(t)
	lim := Limits{MinExtent: 8, MaxExtent: 4000}
	tr, err := Begin(b, []state.ID{r.ID}, OpResize, HandleSE, geom.Pt(200, 150))
	require.NoError(t, err)

	tr.Update(geom.Pt(300, 250), Options{Limits: lim})
	assert.Equal(t, geom.RectXYWH(100, 100, 200, 150), r.Box())

	tr.Update(geom.Pt(50, 50), Options{Limits: lim})
	assert.Equal(t, geom.RectXYWH(100, 100, 8, 8), r.Box(), "clamped to the minimum extent")

	tr.Update(geom.Pt(400, 150), Options{Limits: lim, Constrain: true})
	assert.Equal(t, geom.RectXYWH(100, 100, 300, 150), r.Box(), "aspect ratio kept")
}

func TestResizeRotatedKeepsAnchorOnBoard(t *testing.T) {
	b, r, _ := board(t)
	r.Rotation = 90
	before := Frame{Box: r.Box(), Rotation: 90}.Handle(HandleNW, 1)

	tr, err := Begin(b, []state.ID{r.ID}, OpResize, HandleSE, geom.Pt(0, 0))
	require.NoError(t, err)
	tr.ResizeTo(50, 20, Limits{MinExtent: 8})

	assert.InDelta(t, 50, r.Box().Width(), 1e-9)
	assert.InDelta(t, 20, r.Box().Height(), 1e-9)
	after := Frame{Box: r.Box(), Rotation: 90}.Handle(HandleNW, 1)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestResizeRejectsStrokesOnly(t *testing.T) {
	b, _, s := board(t)
	_, err := Begin(b, []state.ID{s.ID}, OpResize, HandleSE, geom.Pt(0, 0))
	assert.ErrorIs(t, err, state.ErrValidation)
}

func TestRotateSnaps(t *testing.T) {
	b, r, _ := board(t)
	c := r.Box().Center()
	tr, err := Begin(b, []state.ID{r.ID}, OpRotate, HandleRotate, geom.Pt(c.X, c.Y-100))
	require.NoError(t, err)

	tr.Update(geom.Pt(c.X+100, c.Y), Options{})
	assert.InDelta(t, 90, r.Rotation, 1e-9)

	tr.Update(geom.Pt(c.X+100, c.Y-20), Options{Constrain: true, RotateSnap: 15})
	assert.InDelta(t, 75, r.Rotation, 1e-9)

	tr.RotateBy(-30)
	assert.InDelta(t, 330, r.Rotation, 1e-9)
}

func TestHandles(t *testing.T) {
	f := Frame{Box: geom.RectXYWH(0, 0, 100, 50)}
	assert.Equal(t, geom.Pt(50, -24), f.Handle(HandleRotate, 1))
	assert.Equal(t, geom.Pt(50, -12), f.Handle(HandleRotate, 2))
	assert.Equal(t, HandleSE, f.HandleAt(geom.Pt(102, 49), 1))
	assert.Equal(t, HandleRotate, f.HandleAt(geom.Pt(50, -22), 1))
	assert.Equal(t, HandleNone, f.HandleAt(geom.Pt(50, 25), 1))
}

func TestDuplicateAndPaste(t *testing.T) {
	b, r, s := board(t)
	ids, err := Duplicate(b, []state.ID{r.ID, s.ID}, 20)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotContains(t, ids, r.ID)
	dup, _ := b.Find(ids[0])
	assert.Equal(t, geom.Pt(120, 120), dup.(*state.Shape).Start)

	var clip Clipboard
	assert.Equal(t, 1, clip.Copy(b, []state.ID{r.ID}))
	first, err := clip.Paste(b, 20)
	require.NoError(t, err)
	second, err := clip.Paste(b, 20)
	require.NoError(t, err)
	p1, _ := b.Find(first[0])
	p2, _ := b.Find(second[0])
	assert.Equal(t, geom.Pt(120, 120), p1.(*state.Shape).Start)
	assert.Equal(t, geom.Pt(140, 140), p2.(*state.Shape).Start)
	assert.Equal(t, 4, b.Count(state.KindShape))

	_, err = b.SetLayerLocked(b.ActiveLayer, true)
	require.NoError(t, err)
	_, err = clip.Paste(b, 20)
	assert.ErrorIs(t, err, state.ErrLayerLocked)
	_, err = Duplicate(b, []state.ID{r.ID}, 20)
	assert.ErrorIs(t, err, state.ErrLayerLocked)
}

func TestCopyOfNothingKeepsClipboard(t *testing.T) {
	b, r, _ := board(t)
	var clip Clipboard
	require.Equal(t, 1, clip.Copy(b, []state.ID{r.ID}))
	assert.Equal(t, 0, clip.Copy(b, nil))
	assert.Equal(t, 0, clip.Copy(b, []state.ID{9999}))
	assert.Equal(t, 1, clip.Len())
}
