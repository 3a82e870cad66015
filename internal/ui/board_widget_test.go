package ui

import (
	"io"
	"log/slog"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LayerBoard/internal/config"
	"LayerBoard/internal/engine"
	"LayerBoard/internal/tools"
)

func newTestBoard(t *testing.T) (*BoardWidget, *engine.Engine) {
	t.Helper()
	test.NewTempApp(t)
	e := engine.New(config.Default())
	b := NewBoardWidget(e, slog.New(slog.NewTextHandler(io.Discard, nil)))
	b.Resize(fyne.NewSize(400, 300))
	return b, e
}

func press(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func dragTo(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func primitives(e *engine.Engine) int {
	n := 0
	for _, l := range e.View().Layers {
		n += l.Primitives
	}
	return n
}

func TestMouseDragDrawsStroke(t *testing.T) {
	b, e := newTestBoard(t)
	b.MouseDown(press(10, 10))
	b.Dragged(dragTo(60, 40))
	b.Dragged(dragTo(120, 80))
	b.MouseUp(press(120, 80))
	b.DragEnd()

	assert.Equal(t, 1, primitives(e))
	assert.True(t, e.View().CanUndo)
	assert.Equal(t, tools.Idle, e.View().Phase)
}

func TestDragEndOutsideAborts(t *testing.T) {
	b, e := newTestBoard(t)
	b.MouseDown(press(10, 10))
	b.Dragged(dragTo(60, 40))
	b.Dragged(dragTo(500, 40))
	b.DragEnd()

	assert.Equal(t, 0, primitives(e))
	assert.False(t, e.View().CanUndo)
}

func TestEscapeCancelsGesture(t *testing.T) {
	b, e := newTestBoard(t)
	b.MouseDown(press(10, 10))
	b.Dragged(dragTo(60, 40))
	b.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	b.MouseUp(press(60, 40))

	assert.Equal(t, 0, primitives(e))
	assert.Equal(t, tools.Idle, e.View().Phase)
}

func TestSpaceDragPans(t *testing.T) {
	b, e := newTestBoard(t)
	b.KeyDown(&fyne.KeyEvent{Name: fyne.KeySpace})
	b.MouseDown(press(10, 10))
	b.Dragged(dragTo(40, 30))
	b.MouseUp(press(40, 30))
	b.KeyUp(&fyne.KeyEvent{Name: fyne.KeySpace})

	v := e.View().Viewport
	assert.Equal(t, 30.0, v.PanX)
	assert.Equal(t, 20.0, v.PanY)
	assert.Equal(t, 0, primitives(e))
}

func TestRejectedPressShowsReason(t *testing.T) {
	b, e := newTestBoard(t)
	e.SetLayerLocked(e.View().ActiveLayer, true)
	b.MouseDown(press(10, 10))
	assert.Contains(t, b.Status().Text, "rejected")
}

func TestWindowBuildsPanels(t *testing.T) {
	test.NewTempApp(t)
	e := engine.New(config.Default())
	w := test.NewWindow(nil)
	defer w.Close()
	b := Window(w, e, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NotNil(t, b)

	b.apply("add layer", e.CreateLayer("Ink"))
	assert.Len(t, e.View().Layers, 2)
	img := b.render(0, 0)
	assert.False(t, img.Bounds().Empty())
}
