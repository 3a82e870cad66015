package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LayerBoard/internal/engine"
)

// layerPanel lists layers top first, like the stack reads on screen.
type layerPanel struct {
	board  *BoardWidget
	win    fyne.Window
	list   *widget.List
	layers []engine.LayerView
}

func newLayerPanel(board *BoardWidget, win fyne.Window) *layerPanel {
	p := &layerPanel{board: board, win: win}
	p.list = widget.NewList(
		func() int { return len(p.layers) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewCheck("", nil), widget.NewCheck("Lock", nil), widget.NewLabel("Layer"))
		},
		p.updateRow,
	)
	p.list.OnSelected = func(i widget.ListItemID) {
		if i < len(p.layers) && !p.layers[i].Active {
			board.apply("active layer", board.engine.SetActiveLayer(p.layers[i].ID))
		}
	}
	p.reload()
	return p
}

func (p *layerPanel) updateRow(i widget.ListItemID, o fyne.CanvasObject) {
	if i >= len(p.layers) {
		return
	}
	l := p.layers[i]
	row := o.(*fyne.Container)
	visible := row.Objects[0].(*widget.Check)
	locked := row.Objects[1].(*widget.Check)
	name := row.Objects[2].(*widget.Label)

	visible.OnChanged = nil
	locked.OnChanged = nil
	visible.SetChecked(l.Visible)
	locked.SetChecked(l.Locked)
	visible.OnChanged = func(on bool) { p.board.apply("visibility", p.board.engine.SetLayerVisible(l.ID, on)) }
	locked.OnChanged = func(on bool) { p.board.apply("lock", p.board.engine.SetLayerLocked(l.ID, on)) }

	text := l.Name
	if l.Active {
		text = "▸ " + text
	}
	name.SetText(text)
}

func (p *layerPanel) reload() {
	v := p.board.engine.View()
	p.layers = p.layers[:0]
	for i := len(v.Layers) - 1; i >= 0; i-- {
		p.layers = append(p.layers, v.Layers[i])
	}
	p.list.Refresh()
}

func (p *layerPanel) active() (engine.LayerView, bool) {
	for _, l := range p.layers {
		if l.Active {
			return l, true
		}
	}
	return engine.LayerView{}, false
}

func (p *layerPanel) rename() {
	l, ok := p.active()
	if !ok {
		return
	}
	entry := widget.NewEntry()
	entry.SetText(l.Name)
	dialog.ShowForm("Rename layer", "Rename", "Cancel", []*widget.FormItem{widget.NewFormItem("Name", entry)}, func(ok bool) {
		if !ok {
			return
		}
		res, err := p.board.engine.RenameLayer(l.ID, entry.Text)
		if err != nil {
			dialog.ShowError(err, p.win)
		}
		p.board.apply("rename", res)
	}, p.win)
}

func (p *layerPanel) object() fyne.CanvasObject {
	e := p.board.engine
	onActive := func(op string, fn func(engine.LayerView) engine.Result) func() {
		return func() {
			if l, ok := p.active(); ok {
				p.board.apply(op, fn(l))
			}
		}
	}
	buttons := container.NewHBox(
		widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() { p.board.apply("add layer", e.CreateLayer("")) }),
		widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), onActive("delete layer", func(l engine.LayerView) engine.Result { return e.DeleteLayer(l.ID) })),
		widget.NewButtonWithIcon("", theme.MoveUpIcon(), onActive("move layer", func(l engine.LayerView) engine.Result { return e.MoveLayerUp(l.ID) })),
		widget.NewButtonWithIcon("", theme.MoveDownIcon(), onActive("move layer", func(l engine.LayerView) engine.Result { return e.MoveLayerDown(l.ID) })),
		widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), p.rename),
		widget.NewButton("Move here", onActive("move to layer", func(l engine.LayerView) engine.Result { return e.MoveToLayer(l.ID) })),
	)
	return container.NewBorder(widget.NewLabel("Layers"), buttons, nil, nil, p.list)
}
