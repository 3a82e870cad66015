package ui

import (
	"fmt"
	"image"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LayerBoard/internal/engine"
	"LayerBoard/internal/geom"
	"LayerBoard/internal/tools"
)

const mousePointer = 1

// BoardWidget forwards pointer, scroll and key input to the engine and
// paints the engine's view of the board.
type BoardWidget struct {
	widget.BaseWidget
	engine *engine.Engine
	logger *slog.Logger

	raster    *canvas.Raster
	statusBar *widget.Label
	last      fyne.Position
	pressed   bool
	spaceHeld bool
	shiftHeld bool

	// OnChange runs after any input that may have changed the board, so
	// panels can follow.
	OnChange func()
}

var (
	_ fyne.Widget       = (*BoardWidget)(nil)
	_ fyne.Draggable    = (*BoardWidget)(nil)
	_ fyne.Scrollable   = (*BoardWidget)(nil)
	_ desktop.Mouseable = (*BoardWidget)(nil)
	_ desktop.Keyable   = (*BoardWidget)(nil)
)

func NewBoardWidget(e *engine.Engine, logger *slog.Logger) *BoardWidget {
	b := &BoardWidget{
		engine:    e,
		logger:    logger,
		statusBar: widget.NewLabel("Ready"),
	}
	b.raster = canvas.NewRaster(b.render)
	b.ExtendBaseWidget(b)
	return b
}

// render draws at widget size in fyne units, the same space pointer
// positions arrive in; fyne scales the image to device pixels.
func (b *BoardWidget) render(_, _ int) image.Image {
	size := b.Size()
	w, h := int(size.Width), int(size.Height)
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	img, err := b.engine.RenderView(w, h)
	if err != nil {
		b.logger.Error("render view", "err", err)
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return img
}

// Status is the label the window shows under the board.
func (b *BoardWidget) Status() *widget.Label { return b.statusBar }

func (b *BoardWidget) SetStatus(text string) { b.statusBar.SetText(text) }

// apply reports a command result and redraws.
func (b *BoardWidget) apply(op string, res engine.Result) {
	if res.Status == engine.StatusRejected {
		b.SetStatus(fmt.Sprintf("%s rejected: %v", op, res.Reason))
	} else {
		b.showView()
	}
	b.changed()
}

func (b *BoardWidget) showView() {
	v := b.engine.View()
	active := ""
	for _, l := range v.Layers {
		if l.Active {
			active = l.Name
		}
	}
	b.SetStatus(fmt.Sprintf("%s · %s · %.0f%% · %d selected", v.Tool, active, v.Viewport.Zoom*100, len(v.Selection)))
}

func (b *BoardWidget) changed() {
	b.Refresh()
	if b.OnChange != nil {
		b.OnChange()
	}
}

func (b *BoardWidget) event(pos fyne.Position, mods fyne.KeyModifier) tools.PointerEvent {
	shift := b.shiftHeld || mods&fyne.KeyModifierShift != 0
	return tools.PointerEvent{
		Pointer:  mousePointer,
		Screen:   geom.Pt(float64(pos.X), float64(pos.Y)),
		Pressure: 1,
		Mods:     tools.Modifiers{Additive: shift, Constrain: shift, Pan: b.spaceHeld},
	}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	b.focus()
	ev := b.event(e.Position, e.Modifier)
	switch e.Button {
	case desktop.MouseButtonSecondary:
		ev.Button = tools.ButtonSecondary
	case desktop.MouseButtonTertiary:
		ev.Button = tools.ButtonMiddle
	}
	b.pressed = true
	b.last = e.Position
	b.apply("press", b.engine.PointerDown(ev))
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if !b.pressed {
		return
	}
	b.last = e.Position
	b.engine.PointerMove(b.event(e.Position, 0))
	b.Refresh()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	b.release(e.Position, e.Modifier)
}

// DragEnd also finishes the gesture, since a drag released outside the
// widget never delivers MouseUp.
func (b *BoardWidget) DragEnd() { b.release(b.last, 0) }

func (b *BoardWidget) release(pos fyne.Position, mods fyne.KeyModifier) {
	if !b.pressed {
		return
	}
	b.pressed = false
	ev := b.event(pos, mods)
	size := b.Size()
	ev.Outside = pos.X < 0 || pos.Y < 0 || pos.X > size.Width || pos.Y > size.Height
	b.apply("draw", b.engine.PointerUp(ev))
}

func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if b.shiftHeld {
		_, _ = b.engine.ZoomAt(geom.Pt(float64(e.Position.X), float64(e.Position.Y)), float64(e.Scrolled.DY)/100)
	} else {
		_, _ = b.engine.PanBy(float64(e.Scrolled.DX), float64(e.Scrolled.DY))
	}
	b.showView()
	b.Refresh()
}

func (b *BoardWidget) KeyDown(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeySpace:
		b.spaceHeld = true
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		b.shiftHeld = true
	}
}

func (b *BoardWidget) KeyUp(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeySpace:
		b.spaceHeld = false
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		b.shiftHeld = false
	}
}

func (b *BoardWidget) TypedKey(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeyEscape:
		b.pressed = false
		b.apply("cancel", b.engine.CancelGesture())
	case fyne.KeyDelete, fyne.KeyBackspace:
		b.apply("delete", b.engine.DeleteSelection())
	}
}

func (b *BoardWidget) TypedRune(rune) {}
func (b *BoardWidget) FocusGained()   {}
func (b *BoardWidget) FocusLost() {
	b.spaceHeld, b.shiftHeld = false, false
}

func (b *BoardWidget) focus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b)
	}
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseOut()                      {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{board: b}
}

type boardWidgetRenderer struct {
	board *BoardWidget
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.raster}
}

func (r *boardWidgetRenderer) Refresh()              { r.board.raster.Refresh() }
func (r *boardWidgetRenderer) Destroy()              {}
func (r *boardWidgetRenderer) Layout(size fyne.Size) { r.board.raster.Resize(size) }
func (r *boardWidgetRenderer) MinSize() fyne.Size    { return fyne.NewSize(300, 300) }
