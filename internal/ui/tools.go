package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LayerBoard/internal/state"
	"LayerBoard/internal/tools"
)

var palette = []state.Color{
	state.Black,
	state.MustColor("red"),
	state.MustColor("green"),
	state.MustColor("blue"),
	state.MustColor("yellow"),
	state.MustColor("orange"),
	state.MustColor("purple"),
	state.White,
}

// toolNames is the order tools appear in the picker.
func toolNames() []string {
	names := []string{"brush", "marker", "highlighter", "eraser:pixel", "eraser:stroke", "text", "select", "hand"}
	for _, k := range state.ShapeKinds() {
		names = append(names, tools.Shape{Kind: k}.String())
	}
	return names
}

type colorSwatch struct {
	widget.BaseWidget
	Color    state.Color
	OnTapped func(state.Color)
}

func newColorSwatch(c state.Color, tapped func(state.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(color.NRGBA(s.Color))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// NewToolbar builds the tool, style, history and view controls.
func NewToolbar(board *BoardWidget) fyne.CanvasObject {
	e := board.engine

	picker := widget.NewSelect(toolNames(), func(name string) {
		t, err := tools.Parse(name)
		if err != nil {
			board.SetStatus(err.Error())
			return
		}
		res, _ := e.SetTool(t)
		board.apply("tool", res)
	})
	picker.SetSelected(e.View().Tool.String())

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { board.apply("undo", e.Undo()) }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { board.apply("redo", e.Redo()) }),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() { board.apply("clear", e.Clear()) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentCopyIcon(), func() { board.apply("copy", e.Copy()) }),
		widget.NewToolbarAction(theme.ContentPasteIcon(), func() { board.apply("paste", e.Paste()) }),
		widget.NewToolbarAction(theme.DeleteIcon(), func() { board.apply("delete", e.DeleteSelection()) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() {
			res, _ := e.SetZoom(0.1)
			board.apply("zoom", res)
		}),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() {
			res, _ := e.SetZoom(-0.1)
			board.apply("zoom", res)
		}),
		widget.NewToolbarAction(theme.ZoomFitIcon(), func() { board.apply("reset view", e.ResetView()) }),
	)

	onColorTapped := func(c state.Color) { board.apply("color", e.SetColor(c)) }
	colorBox := container.NewHBox()
	for _, c := range palette {
		colorBox.Add(newColorSwatch(c, onColorTapped))
	}

	strokeSlider := widget.NewSlider(1.0, 50.0)
	strokeSlider.SetValue(e.View().StrokeWidth)
	strokeSlider.OnChangeEnded = func(val float64) {
		res, _ := e.SetStrokeWidth(val)
		board.apply("width", res)
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	filled := widget.NewCheck("Fill", func(on bool) {
		opts := e.View().ShapeOptions
		opts.Filled = on
		res, _ := e.SetShapeOptions(opts)
		board.apply("fill", res)
	})

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		picker,
		filled,
		widget.NewSeparator(),
		tb,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		layout.NewSpacer(),
	)
}
