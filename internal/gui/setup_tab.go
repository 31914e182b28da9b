package gui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/spl-lab/spl-workbench/internal/config"
	"github.com/spl-lab/spl-workbench/internal/core"
	"github.com/spl-lab/spl-workbench/internal/validation"
)

// SetupTab manages the configuration interface
type SetupTab struct {
	engine *core.Engine
	window fyne.Window

	// Form fields
	pythonEntry      *widget.Entry
	scriptsDirEntry  *widget.Entry
	calibDirEntry    *widget.Entry
	storeDirEntry    *widget.Entry
	eventBufferEntry *widget.Entry
	detailedCheck    *widget.Check

	status *StatusBar
}

// NewSetupTab creates a new setup tab
func NewSetupTab(engine *core.Engine, window fyne.Window) *SetupTab {
	return &SetupTab{
		engine: engine,
		window: window,
		status: NewStatusBar(),
	}
}

// Build creates the setup tab UI
func (st *SetupTab) Build() fyne.CanvasObject {
	cfg := st.engine.GetConfig()

	st.pythonEntry = widget.NewEntry()
	st.pythonEntry.SetPlaceHolder("python")
	st.pythonEntry.SetText(cfg.PythonExe)

	st.scriptsDirEntry = widget.NewEntry()
	st.scriptsDirEntry.SetPlaceHolder("Directory containing the SPL scripts")
	st.scriptsDirEntry.SetText(cfg.ScriptsDir)

	st.calibDirEntry = widget.NewEntry()
	st.calibDirEntry.SetPlaceHolder("./calib/data")
	st.calibDirEntry.SetText(cfg.CalibDir)

	st.storeDirEntry = widget.NewEntry()
	st.storeDirEntry.SetPlaceHolder("Default directory for simulation output")
	st.storeDirEntry.SetText(cfg.StoreDir)

	toolchainSection := widget.NewForm(
		widget.NewFormItem("Python Interpreter", st.pythonEntry),
		widget.NewFormItem("Scripts Directory", newFolderPickerRow(st.scriptsDirEntry, st.window)),
	)

	dataSection := widget.NewForm(
		widget.NewFormItem("Calibration Directory", newFolderPickerRow(st.calibDirEntry, st.window)),
		widget.NewFormItem("Simulation Output", newFolderPickerRow(st.storeDirEntry, st.window)),
	)

	st.eventBufferEntry = widget.NewEntry()
	st.eventBufferEntry.SetPlaceHolder("1000")
	st.eventBufferEntry.SetText(strconv.Itoa(cfg.EventBuffer))

	st.detailedCheck = widget.NewCheck("Detailed logging", nil)
	st.detailedCheck.SetChecked(cfg.DetailedLogging)

	advancedSection := widget.NewForm(
		widget.NewFormItem("Event Buffer", st.eventBufferEntry),
		widget.NewFormItem("", st.detailedCheck),
	)

	loadButton := NewPrimaryButton("Load Config", st.loadConfig)
	saveButton := NewPrimaryButton("Save Config", st.saveConfig)
	saveDefaultButton := NewPrimaryButton("Save to Default", st.saveConfigToDefault)
	applyButton := NewPrimaryButton("Apply Changes", func() {
		if err := st.ApplyConfig(); err != nil {
			dialog.ShowError(err, st.window)
			return
		}
		st.status.SetSuccess("Configuration applied")
	})

	buttons := container.NewHBox(
		loadButton,
		HorizontalSpacer(8),
		saveButton,
		HorizontalSpacer(4),
		saveDefaultButton,
		HorizontalSpacer(8),
		applyButton,
	)

	scrollableContent := container.NewVBox(
		VerticalSpacer(8),
		widget.NewCard("External Toolchain", "", toolchainSection),
		VerticalSpacer(4),
		widget.NewCard("Data Directories", "", dataSection),
		VerticalSpacer(4),
		widget.NewCard("Advanced", "", advancedSection),
		VerticalSpacer(8),
		widget.NewSeparator(),
		VerticalSpacer(4),
		container.NewHBox(st.status),
	)

	return container.NewBorder(
		container.NewVBox(
			VerticalSpacer(8),
			container.NewPadded(buttons),
			VerticalSpacer(4),
			widget.NewSeparator(),
		),
		nil, nil, nil,
		container.NewVScroll(scrollableContent),
	)
}

// ApplyConfig validates the form and makes it the engine's configuration.
func (st *SetupTab) ApplyConfig() error {
	cfg, err := st.formConfig()
	if err != nil {
		return err
	}
	return st.engine.UpdateConfig(cfg)
}

// formConfig builds a Config from the current form values.
func (st *SetupTab) formConfig() (*config.Config, error) {
	eventBuffer, err := validation.IntMin("event buffer", st.eventBufferEntry.Text, 1)
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		PythonExe:       st.pythonEntry.Text,
		ScriptsDir:      st.scriptsDirEntry.Text,
		CalibDir:        st.calibDirEntry.Text,
		StoreDir:        st.storeDirEntry.Text,
		EventBuffer:     eventBuffer,
		DetailedLogging: st.detailedCheck.Checked,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// refreshForm updates the form from the engine's current configuration.
func (st *SetupTab) refreshForm() {
	cfg := st.engine.GetConfig()
	st.pythonEntry.SetText(cfg.PythonExe)
	st.scriptsDirEntry.SetText(cfg.ScriptsDir)
	st.calibDirEntry.SetText(cfg.CalibDir)
	st.storeDirEntry.SetText(cfg.StoreDir)
	st.eventBufferEntry.SetText(strconv.Itoa(cfg.EventBuffer))
	st.detailedCheck.SetChecked(cfg.DetailedLogging)
}

func (st *SetupTab) loadConfig() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, st.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		if err := st.engine.LoadConfig(path); err != nil {
			dialog.ShowError(err, st.window)
			return
		}
		st.refreshForm()
		st.status.SetSuccess(fmt.Sprintf("Loaded %s", path))
	}, st.window)
}

func (st *SetupTab) saveConfig() {
	if err := st.ApplyConfig(); err != nil {
		dialog.ShowError(err, st.window)
		return
	}

	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, st.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := st.engine.SaveConfig(path); err != nil {
			dialog.ShowError(err, st.window)
			return
		}
		st.status.SetSuccess(fmt.Sprintf("Saved %s", path))
	}, st.window)
}

func (st *SetupTab) saveConfigToDefault() {
	if err := st.ApplyConfig(); err != nil {
		dialog.ShowError(err, st.window)
		return
	}
	if err := config.EnsureConfigDir(); err != nil {
		dialog.ShowError(err, st.window)
		return
	}
	path := config.GetDefaultConfigPath()
	if err := st.engine.SaveConfig(path); err != nil {
		dialog.ShowError(err, st.window)
		return
	}
	st.status.SetSuccess(fmt.Sprintf("Saved %s", path))
}
