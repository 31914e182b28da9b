package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/spl-lab/spl-workbench/internal/core"
)

// IfuncTab drives piston influence function generation.
type IfuncTab struct {
	engine *core.Engine
	window fyne.Window

	sizeEntry     *widget.Entry
	filenameEntry *widget.Entry

	runButton *widget.Button
	status    *StatusBar
}

// NewIfuncTab creates a new influence function tab
func NewIfuncTab(engine *core.Engine, window fyne.Window) *IfuncTab {
	return &IfuncTab{
		engine: engine,
		window: window,
		status: NewStatusBar(),
	}
}

// Build creates the influence function tab UI
func (it *IfuncTab) Build() fyne.CanvasObject {
	it.sizeEntry = widget.NewEntry()
	it.sizeEntry.SetText("80")

	it.filenameEntry = widget.NewEntry()
	it.filenameEntry.SetPlaceHolder("ifunc_piston_80")

	form := widget.NewForm(
		widget.NewFormItem("Sampling Size [px]", it.sizeEntry),
		widget.NewFormItem("Output Name", it.filenameEntry),
	)

	it.runButton = NewPrimaryButton("Generate Influence Function", it.run)

	helpLabel := widget.NewLabel("Generates a piston influence function sampled like the pupil.\nUse the same size as the mask generated in the previous step.")
	helpLabel.Wrapping = fyne.TextWrapWord
	helpLabel.Importance = widget.LowImportance

	return container.NewVBox(
		VerticalSpacer(8),
		widget.NewCard("Influence Function", "", container.NewVBox(
			form,
			VerticalSpacer(8),
			container.NewHBox(it.runButton),
		)),
		VerticalSpacer(4),
		helpLabel,
		VerticalSpacer(8),
		widget.NewSeparator(),
		container.NewHBox(it.status),
	)
}

func (it *IfuncTab) run() {
	p, err := parseIfuncForm(it.sizeEntry.Text, it.filenameEntry.Text)
	if err != nil {
		it.status.SetError(err.Error())
		dialog.ShowError(err, it.window)
		return
	}
	cmd, err := p.Command()
	if err != nil {
		dialog.ShowError(err, it.window)
		return
	}
	launchTool(it.engine, it.window, cmd, it.status, it.runButton, nil, nil)
}
