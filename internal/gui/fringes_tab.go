package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/spl-lab/spl-workbench/internal/core"
	"github.com/spl-lab/spl-workbench/internal/specula"
)

// FringesTab extracts fringe patterns from simulated PSF data, the last
// step of the calibration workflow.
type FringesTab struct {
	engine *core.Engine
	window fyne.Window

	parentEntry     *widget.Entry
	outputEntry     *widget.Entry
	numRowsEntry    *widget.Entry
	pistonMinEntry  *widget.Entry
	pistonMaxEntry  *widget.Entry
	pistonStepEntry *widget.Entry
	pistonFileEntry *widget.Entry

	runButton  *widget.Button
	stopButton *widget.Button
	status     *StatusBar
}

// NewFringesTab creates a new fringes tab
func NewFringesTab(engine *core.Engine, window fyne.Window) *FringesTab {
	return &FringesTab{
		engine: engine,
		window: window,
		status: NewStatusBar(),
	}
}

// Build creates the fringes tab UI
func (ft *FringesTab) Build() fyne.CanvasObject {
	ft.parentEntry = widget.NewEntry()
	ft.parentEntry.SetPlaceHolder("Folder holding the simulated PSF data")

	ft.outputEntry = widget.NewEntry()
	ft.outputEntry.SetPlaceHolder("Defaults next to the input data")

	ft.numRowsEntry = widget.NewEntry()
	ft.numRowsEntry.SetText("1")

	folderSection := widget.NewForm(
		widget.NewFormItem("Parent Folder", newFolderPickerRow(ft.parentEntry, ft.window)),
		widget.NewFormItem("Output Folder", newFolderPickerRow(ft.outputEntry, ft.window)),
		widget.NewFormItem("Rows", ft.numRowsEntry),
	)

	ft.pistonMinEntry = widget.NewEntry()
	ft.pistonMinEntry.SetPlaceHolder("auto")
	ft.pistonMaxEntry = widget.NewEntry()
	ft.pistonMaxEntry.SetPlaceHolder("auto")
	ft.pistonStepEntry = widget.NewEntry()
	ft.pistonStepEntry.SetPlaceHolder("auto")
	ft.pistonFileEntry = widget.NewEntry()
	ft.pistonFileEntry.SetPlaceHolder("Overrides min/max/step when set")

	pistonHelp := widget.NewLabel("Leave the piston fields empty to auto-detect the grid from the FITS headers.")
	pistonHelp.Wrapping = fyne.TextWrapWord
	pistonHelp.Importance = widget.LowImportance

	pistonSection := widget.NewForm(
		widget.NewFormItem("Piston Min [nm]", ft.pistonMinEntry),
		widget.NewFormItem("Piston Max [nm]", ft.pistonMaxEntry),
		widget.NewFormItem("Piston Step [nm]", ft.pistonStepEntry),
		widget.NewFormItem("Piston File", newFilePickerRow(ft.pistonFileEntry, ft.window, nil)),
		widget.NewFormItem("", pistonHelp),
	)

	ft.runButton = NewPrimaryButton("Extract Fringes", ft.run)
	ft.stopButton = widget.NewButton("Stop", ft.stop)
	ft.stopButton.Disable()

	content := container.NewVBox(
		VerticalSpacer(8),
		widget.NewCard("Input Data", "", folderSection),
		VerticalSpacer(4),
		widget.NewCard("Piston Grid", "", pistonSection),
		VerticalSpacer(8),
		container.NewHBox(ft.runButton, HorizontalSpacer(8), ft.stopButton),
		VerticalSpacer(8),
		widget.NewSeparator(),
		container.NewHBox(ft.status),
	)

	return container.NewVScroll(content)
}

func (ft *FringesTab) run() {
	p, err := parseFringesForm(
		ft.parentEntry.Text, ft.outputEntry.Text, ft.numRowsEntry.Text,
		ft.pistonMinEntry.Text, ft.pistonMaxEntry.Text, ft.pistonStepEntry.Text,
		ft.pistonFileEntry.Text,
	)
	if err != nil {
		ft.status.SetError(err.Error())
		dialog.ShowError(err, ft.window)
		return
	}
	cmd, err := p.Command()
	if err != nil {
		dialog.ShowError(err, ft.window)
		return
	}
	launchTool(ft.engine, ft.window, cmd, ft.status, ft.runButton, ft.stopButton, nil)
}

func (ft *FringesTab) stop() {
	ft.engine.Cancel(specula.ToolFringes)
}
