package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"LayerBoard/internal/engine"
)

// Window assembles the board, toolbar and side panels in win.
func Window(win fyne.Window, e *engine.Engine, logger *slog.Logger) *BoardWidget {
	board := NewBoardWidget(e, logger)
	toolbar := NewToolbar(board)
	layers := newLayerPanel(board, win)
	snapshots, reloadSnapshots := snapshotPanel(board, win)
	board.OnChange = func() {
		layers.reload()
		reloadSnapshots()
	}

	side := container.NewVSplit(layers.object(), snapshots)
	side.SetOffset(0.6)
	split := container.NewHSplit(board, side)
	split.SetOffset(0.8)
	win.SetContent(container.NewBorder(toolbar, board.Status(), nil, nil, split))
	win.SetMainMenu(fyne.NewMainMenu(fileMenu(board, win)))
	addShortcuts(win, board)
	return board
}

func addShortcuts(win fyne.Window, board *BoardWidget) {
	e := board.engine
	bind := func(key fyne.KeyName, mod fyne.KeyModifier, op string, fn func() engine.Result) {
		win.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) {
			board.apply(op, fn())
		})
	}
	bind(fyne.KeyZ, fyne.KeyModifierShortcutDefault, "undo", e.Undo)
	bind(fyne.KeyZ, fyne.KeyModifierShortcutDefault|fyne.KeyModifierShift, "redo", e.Redo)
	bind(fyne.KeyY, fyne.KeyModifierShortcutDefault, "redo", e.Redo)
	bind(fyne.KeyC, fyne.KeyModifierShortcutDefault, "copy", e.Copy)
	bind(fyne.KeyV, fyne.KeyModifierShortcutDefault, "paste", e.Paste)
	bind(fyne.KeyD, fyne.KeyModifierShortcutDefault, "duplicate", e.Duplicate)
	bind(fyne.KeyA, fyne.KeyModifierShortcutDefault, "select all", e.SelectAll)
	bind(fyne.Key0, fyne.KeyModifierShortcutDefault, "reset view", e.ResetView)
}

// RunApp opens the whiteboard window and blocks until it closes.
func RunApp(e *engine.Engine, logger *slog.Logger) {
	myApp := app.New()
	myWindow := myApp.NewWindow("LayerBoard")
	myWindow.Resize(fyne.NewSize(1280, 800))
	board := Window(myWindow, e, logger)
	board.showView()
	myWindow.ShowAndRun()
}
