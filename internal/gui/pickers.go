package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// newFilePickerRow returns an entry with a browse button that opens a native
// file dialog and writes the chosen path into the entry. extensions filters
// the dialog when non-empty (e.g. []string{".yml", ".yaml"}).
func newFilePickerRow(entry *widget.Entry, window fyne.Window, extensions []string) fyne.CanvasObject {
	browse := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, window)
				return
			}
			if reader == nil {
				return
			}
			defer reader.Close()
			entry.SetText(reader.URI().Path())
		}, window)
		if len(extensions) > 0 {
			fd.SetFilter(storage.NewExtensionFileFilter(extensions))
		}
		fd.Show()
	})
	return container.NewBorder(nil, nil, nil, browse, entry)
}

// newFolderPickerRow returns an entry with a browse button opening a native
// folder dialog.
func newFolderPickerRow(entry *widget.Entry, window fyne.Window) fyne.CanvasObject {
	browse := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		dialog.ShowFolderOpen(func(list fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, window)
				return
			}
			if list == nil {
				return
			}
			entry.SetText(list.Path())
		}, window)
	})
	return container.NewBorder(nil, nil, nil, browse, entry)
}
