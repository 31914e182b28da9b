package gui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/spl-lab/spl-workbench/internal/core"
)

// ParamsTab authors the multi-wavelength YAML parameter file driving the
// simulation. This step runs no external script.
type ParamsTab struct {
	engine *core.Engine
	window fyne.Window

	wlStartEntry   *widget.Entry
	wlEndEntry     *widget.Entry
	wlStepEntry    *widget.Entry
	pupilEntry     *widget.Entry
	pitchEntry     *widget.Entry
	totalTimeEntry *widget.Entry
	timeStepEntry  *widget.Entry
	maskEntry      *widget.Entry
	slopeEntry     *widget.Entry
	constantEntry  *widget.Entry
	ifuncEntry     *widget.Entry
	ifuncMaskEntry *widget.Entry
	storeDirEntry  *widget.Entry
	outDirEntry    *widget.Entry

	status *StatusBar
}

// NewParamsTab creates a new parameters tab
func NewParamsTab(engine *core.Engine, window fyne.Window) *ParamsTab {
	return &ParamsTab{
		engine: engine,
		window: window,
		status: NewStatusBar(),
	}
}

// Build creates the parameters tab UI
func (pt *ParamsTab) Build() fyne.CanvasObject {
	pt.wlStartEntry = widget.NewEntry()
	pt.wlStartEntry.SetText("520")
	pt.wlEndEntry = widget.NewEntry()
	pt.wlEndEntry.SetText("539")
	pt.wlStepEntry = widget.NewEntry()
	pt.wlStepEntry.SetText("5")

	scanSection := widget.NewForm(
		widget.NewFormItem("First Wavelength [nm]", pt.wlStartEntry),
		widget.NewFormItem("Last Wavelength [nm]", pt.wlEndEntry),
		widget.NewFormItem("Step [nm]", pt.wlStepEntry),
	)

	pt.pupilEntry = widget.NewEntry()
	pt.pupilEntry.SetText("80")
	pt.pitchEntry = widget.NewEntry()
	pt.pitchEntry.SetText("8.375e-05")
	pt.totalTimeEntry = widget.NewEntry()
	pt.totalTimeEntry.SetText("2401.0")
	pt.timeStepEntry = widget.NewEntry()
	pt.timeStepEntry.SetText("1.0")

	opticsSection := widget.NewForm(
		widget.NewFormItem("Pupil Diameter [px]", pt.pupilEntry),
		widget.NewFormItem("Pixel Pitch [m]", pt.pitchEntry),
		widget.NewFormItem("Total Time", pt.totalTimeEntry),
		widget.NewFormItem("Time Step", pt.timeStepEntry),
	)

	pt.maskEntry = widget.NewEntry()
	pt.maskEntry.SetText("mask_g0150_0deg")
	pt.slopeEntry = widget.NewEntry()
	pt.slopeEntry.SetText("10")
	pt.constantEntry = widget.NewEntry()
	pt.constantEntry.SetText("-12000")
	pt.ifuncEntry = widget.NewEntry()
	pt.ifuncEntry.SetText("ifunc_piston_80")
	pt.ifuncMaskEntry = widget.NewEntry()
	pt.ifuncMaskEntry.SetText("mask_piston_80")

	inputsSection := widget.NewForm(
		widget.NewFormItem("Pupil Mask", pt.maskEntry),
		widget.NewFormItem("Ramp Slope", pt.slopeEntry),
		widget.NewFormItem("Ramp Constant", pt.constantEntry),
		widget.NewFormItem("Influence Function", pt.ifuncEntry),
		widget.NewFormItem("Influence Function Mask", pt.ifuncMaskEntry),
	)

	pt.storeDirEntry = widget.NewEntry()
	pt.storeDirEntry.SetPlaceHolder("Where the simulation writes PSF data")
	pt.storeDirEntry.SetText(pt.engine.GetConfig().StoreDir)

	pt.outDirEntry = widget.NewEntry()
	pt.outDirEntry.SetText(".")

	outputSection := widget.NewForm(
		widget.NewFormItem("Simulation Output", newFolderPickerRow(pt.storeDirEntry, pt.window)),
		widget.NewFormItem("Write File Into", newFolderPickerRow(pt.outDirEntry, pt.window)),
	)

	generateButton := NewPrimaryButton("Generate Parameter File", pt.generate)

	content := container.NewVBox(
		VerticalSpacer(8),
		widget.NewCard("Wavelength Scan", "", scanSection),
		VerticalSpacer(4),
		widget.NewCard("Optics", "", opticsSection),
		VerticalSpacer(4),
		widget.NewCard("Calibration Inputs", "", inputsSection),
		VerticalSpacer(4),
		widget.NewCard("Output", "", outputSection),
		VerticalSpacer(8),
		container.NewHBox(generateButton),
		VerticalSpacer(8),
		widget.NewSeparator(),
		container.NewHBox(pt.status),
	)

	return container.NewVScroll(content)
}

func (pt *ParamsTab) generate() {
	scan, err := parseScanForm(
		pt.wlStartEntry.Text, pt.wlEndEntry.Text, pt.wlStepEntry.Text,
		pt.pupilEntry.Text, pt.pitchEntry.Text, pt.totalTimeEntry.Text, pt.timeStepEntry.Text,
		pt.maskEntry.Text, pt.slopeEntry.Text, pt.constantEntry.Text,
		pt.ifuncEntry.Text, pt.ifuncMaskEntry.Text, pt.storeDirEntry.Text,
	)
	if err != nil {
		pt.status.SetError(err.Error())
		dialog.ShowError(err, pt.window)
		return
	}

	path := filepath.Join(pt.outDirEntry.Text, fmt.Sprintf("params_spl_multiwave_%d_%d.yml",
		scan.InitialWavelength, scan.FinalWavelength))
	if err := scan.WriteFile(path); err != nil {
		pt.status.SetError("Write failed")
		dialog.ShowError(err, pt.window)
		return
	}

	pt.status.SetSuccess(fmt.Sprintf("Wrote %s (%d wavelengths)", path, len(scan.Wavelengths())))
}
