package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/spl-lab/spl-workbench/internal/core"
)

// MaskTab drives pupil mask generation, the first step of the calibration
// workflow.
type MaskTab struct {
	engine *core.Engine
	window fyne.Window

	pupilEntry    *widget.Entry
	gapEntry      *widget.Entry
	clockEntry    *widget.Entry
	filenameEntry *widget.Entry

	runButton *widget.Button
	status    *StatusBar
}

// NewMaskTab creates a new mask tab
func NewMaskTab(engine *core.Engine, window fyne.Window) *MaskTab {
	return &MaskTab{
		engine: engine,
		window: window,
		status: NewStatusBar(),
	}
}

// Build creates the mask tab UI
func (mt *MaskTab) Build() fyne.CanvasObject {
	mt.pupilEntry = widget.NewEntry()
	mt.pupilEntry.SetText("80")

	mt.gapEntry = widget.NewEntry()
	mt.gapEntry.SetText("0.015")

	mt.clockEntry = widget.NewEntry()
	mt.clockEntry.SetText("0")

	mt.filenameEntry = widget.NewEntry()
	mt.filenameEntry.SetPlaceHolder("mask_g0150_0deg")

	form := widget.NewForm(
		widget.NewFormItem("Pupil Diameter [px]", mt.pupilEntry),
		widget.NewFormItem("Gap Fraction", mt.gapEntry),
		widget.NewFormItem("Clock Angle [deg]", mt.clockEntry),
		widget.NewFormItem("Output Name", mt.filenameEntry),
	)

	mt.runButton = NewPrimaryButton("Generate Mask", mt.run)

	helpLabel := widget.NewLabel("Generates a circular pupil mask with an optional zero-filled gap\nat the given clock angle. The mask FITS file lands in the calibration tree.")
	helpLabel.Wrapping = fyne.TextWrapWord
	helpLabel.Importance = widget.LowImportance

	return container.NewVBox(
		VerticalSpacer(8),
		widget.NewCard("Pupil Mask", "", container.NewVBox(
			form,
			VerticalSpacer(8),
			container.NewHBox(mt.runButton),
		)),
		VerticalSpacer(4),
		helpLabel,
		VerticalSpacer(8),
		widget.NewSeparator(),
		container.NewHBox(mt.status),
	)
}

func (mt *MaskTab) run() {
	p, err := parseMaskForm(mt.pupilEntry.Text, mt.gapEntry.Text, mt.clockEntry.Text, mt.filenameEntry.Text)
	if err != nil {
		mt.status.SetError(err.Error())
		dialog.ShowError(err, mt.window)
		return
	}
	cmd, err := p.Command()
	if err != nil {
		dialog.ShowError(err, mt.window)
		return
	}
	launchTool(mt.engine, mt.window, cmd, mt.status, mt.runButton, nil, nil)
}
