package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"LayerBoard/internal/engine"
	"LayerBoard/internal/export"
)

// SaveToFile writes the serialized board to writer.
func (b *BoardWidget) SaveToFile(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			b.logger.Warn("close writer", "uri", writer.URI(), "err", err)
		}
	}()
	data, err := b.engine.Serialize()
	if err != nil {
		b.logger.Error("serialize board", "err", err)
		b.SetStatus("Error saving file")
		return
	}
	if _, err := writer.Write(data); err != nil {
		b.logger.Error("write board", "uri", writer.URI(), "err", err)
		b.SetStatus("Error writing file")
		return
	}
	b.logger.Info("board saved", "uri", writer.URI(), "bytes", len(data))
	b.SetStatus(fmt.Sprintf("Saved %s", writer.URI().Name()))
}

// LoadFromFile replaces the board with the one stored in reader. A file
// that does not load leaves the current board as it was.
func (b *BoardWidget) LoadFromFile(reader fyne.URIReadCloser) error {
	defer func() {
		if err := reader.Close(); err != nil {
			b.logger.Warn("close reader", "uri", reader.URI(), "err", err)
		}
	}()
	data, err := io.ReadAll(reader)
	if err != nil {
		b.SetStatus("Error reading file")
		return err
	}
	if err := b.engine.Deserialize(data); err != nil {
		b.SetStatus("Error parsing file - invalid format")
		return err
	}
	b.SetStatus(fmt.Sprintf("Loaded %s", reader.URI().Name()))
	b.changed()
	return nil
}

// exportTo renders the board in format f and writes it to writer.
func (b *BoardWidget) exportTo(writer fyne.URIWriteCloser, f export.Format, opts export.Options) error {
	defer writer.Close()
	var (
		data []byte
		err  error
	)
	ctx := context.Background()
	switch f {
	case export.FormatSVG:
		data, err = b.engine.ExportSVG(ctx, opts)
	case export.FormatPDF:
		data, err = b.engine.ExportPDF(ctx, opts)
	default:
		data, err = b.engine.ExportPNG(ctx, opts)
	}
	if err != nil {
		return err
	}
	if _, err := writer.Write(data); err != nil {
		return err
	}
	b.SetStatus(fmt.Sprintf("Exported %s (%d bytes)", writer.URI().Name(), len(data)))
	return nil
}

func (b *BoardWidget) importImage(reader fyne.URIReadCloser) error {
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	res, err := b.engine.AddImageLayer(reader.URI().Name(), data, 0, 0)
	if err != nil {
		return err
	}
	b.apply("import image", res)
	return nil
}

// fileMenu builds the save, open, import and export actions.
func fileMenu(b *BoardWidget, win fyne.Window) *fyne.Menu {
	showErr := func(err error) {
		if err != nil {
			dialog.ShowError(err, win)
		}
	}
	save := func() {
		d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			if err != nil || w == nil {
				showErr(err)
				return
			}
			b.SaveToFile(w)
		}, win)
		d.SetFileName("board.json")
		d.Show()
	}
	open := func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				showErr(err)
				return
			}
			showErr(b.LoadFromFile(r))
		}, win)
		d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
		d.Show()
	}
	importImage := func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				showErr(err)
				return
			}
			showErr(b.importImage(r))
		}, win)
		d.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
		d.Show()
	}
	exportAs := func(f export.Format) func() {
		return func() { showExportDialog(b, win, f) }
	}
	return fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", open),
		fyne.NewMenuItem("Save…", save),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import image layer…", importImage),
		fyne.NewMenuItem("Export PNG…", exportAs(export.FormatPNG)),
		fyne.NewMenuItem("Export SVG…", exportAs(export.FormatSVG)),
		fyne.NewMenuItem("Export PDF…", exportAs(export.FormatPDF)),
	)
}

func showExportDialog(b *BoardWidget, win fyne.Window, f export.Format) {
	selOnly := widget.NewCheck("", nil)
	transparent := widget.NewCheck("", nil)
	dpi := widget.NewSelect([]string{"72", "96", "150", "192", "300"}, nil)
	dpi.SetSelected("96")
	items := []*widget.FormItem{
		widget.NewFormItem("Selection only", selOnly),
		widget.NewFormItem("DPI", dpi),
	}
	if f != export.FormatPDF {
		items = append(items, widget.NewFormItem("Transparent", transparent))
	}
	dialog.ShowForm("Export "+string(f), "Export", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		d, _ := strconv.ParseFloat(dpi.Selected, 64)
		opts := export.Options{SelectionOnly: selOnly.Checked, Transparent: transparent.Checked, DPI: d}
		if err := opts.Validate(); err != nil {
			dialog.ShowError(err, win)
			return
		}
		save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			if err != nil || w == nil {
				if err != nil {
					dialog.ShowError(err, win)
				}
				return
			}
			if err := b.exportTo(w, f, opts); err != nil {
				dialog.ShowError(err, win)
			}
		}, win)
		save.SetFileName("board." + string(f))
		save.Show()
	}, win)
}

// snapshotPanel lists named snapshots; selecting one jumps to it.
func snapshotPanel(b *BoardWidget, win fyne.Window) (fyne.CanvasObject, func()) {
	var snaps []engine.EntryView
	list := widget.NewList(
		func() int { return len(snaps) },
		func() fyne.CanvasObject { return widget.NewLabel("snapshot") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(snaps[i].Label + "  " + snaps[i].Timestamp.Format("15:04:05"))
		},
	)
	reload := func() {
		snaps = b.engine.View().Snapshots
		list.UnselectAll()
		list.Refresh()
	}
	list.OnSelected = func(i widget.ListItemID) {
		if i < len(snaps) {
			b.apply("jump", b.engine.JumpToSnapshot(snaps[i].ID.String()))
		}
	}
	create := widget.NewButton("Snapshot", func() {
		entry := widget.NewEntry()
		dialog.ShowForm("New snapshot", "Save", "Cancel", []*widget.FormItem{widget.NewFormItem("Label", entry)}, func(ok bool) {
			if ok {
				b.apply("snapshot", b.engine.CreateSnapshot(entry.Text))
			}
		}, win)
	})
	return container.NewBorder(widget.NewLabel("Snapshots"), create, nil, nil, list), reload
}
