// Package gui provides the graphical user interface for spl-workbench.
package gui

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"github.com/rs/zerolog"

	"github.com/spl-lab/spl-workbench/internal/config"
	"github.com/spl-lab/spl-workbench/internal/core"
	"github.com/spl-lab/spl-workbench/internal/events"
	"github.com/spl-lab/spl-workbench/internal/logging"
	"github.com/spl-lab/spl-workbench/internal/notify"
	"github.com/spl-lab/spl-workbench/internal/runner"
	"github.com/spl-lab/spl-workbench/internal/specula"
)

var (
	// guiLogger is the package-level logger for GUI mode
	guiLogger *logging.Logger
)

// LaunchGUI launches the full GUI application.
func LaunchGUI(configFile string) error {
	guiLogger = logging.NewLogger("gui", nil)

	// In GUI mode default to WarnLevel for a cleaner console.
	// Set SPL_DEBUG=1 to see debug/info messages.
	if os.Getenv("SPL_DEBUG") != "" {
		logging.SetGlobalLevel(zerolog.DebugLevel)
		guiLogger.Info().Msg("Debug logging enabled via SPL_DEBUG")
	} else {
		logging.SetGlobalLevel(zerolog.WarnLevel)
	}

	// Check for display on Linux
	if runtime.GOOS == "linux" {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			return fmt.Errorf("GUI mode requires a display. No display detected.\n" +
				"DISPLAY and WAYLAND_DISPLAY are not set.\n" +
				"Use 'spl-workbench' without --gui flag for CLI mode")
		}
	}

	myApp := app.NewWithID("org.spl-lab.workbench")
	myApp.Settings().SetTheme(&splTheme{})

	mainWindow := myApp.NewWindow("SPL Workbench")
	mainWindow.SetMaster()

	cfg := loadStartupConfig(configFile)

	engine, err := core.NewEngine(cfg, guiLogger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	ui := NewUI(engine, mainWindow, myApp)
	ui.Start()

	mainWindow.SetContent(ui.Build())
	mainWindow.Resize(fyne.NewSize(1100, 700))
	mainWindow.CenterOnScreen()

	mainWindow.SetOnClosed(func() {
		ui.Stop()
	})

	mainWindow.ShowAndRun()

	return nil
}

// loadStartupConfig resolves the config to start with: an explicit file, the
// default location when it exists, or built-in defaults. Load failures fall
// back rather than abort so the window always comes up.
func loadStartupConfig(configFile string) *config.Config {
	path := configFile
	if path == "" {
		defaultPath := config.GetDefaultConfigPath()
		if _, err := os.Stat(defaultPath); err == nil {
			path = defaultPath
		}
	}

	if path != "" {
		cfg, err := config.LoadConfigCSV(path)
		if err == nil {
			guiLogger.Info().Str("path", path).Msg("Loaded configuration")
			return cfg
		}
		guiLogger.Warn().Err(err).Str("path", path).Msg("Failed to load config, using defaults")
	}

	return config.DefaultConfig()
}

// UI represents the main user interface
type UI struct {
	engine        *core.Engine
	window        fyne.Window
	app           fyne.App
	setupTab      *SetupTab
	maskTab       *MaskTab
	ifuncTab      *IfuncTab
	paramsTab     *ParamsTab
	simulationTab *SimulationTab
	fringesTab    *FringesTab
	activityTab   *ActivityTab
	notifier      *notify.Notifier
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewUI creates a new UI instance
func NewUI(engine *core.Engine, window fyne.Window, app fyne.App) *UI {
	ctx, cancel := context.WithCancel(context.Background())

	ui := &UI{
		engine:   engine,
		window:   window,
		app:      app,
		notifier: notify.NewNotifier(guiLogger, true),
		ctx:      ctx,
		cancel:   cancel,
	}

	ui.setupTab = NewSetupTab(engine, window)
	ui.maskTab = NewMaskTab(engine, window)
	ui.ifuncTab = NewIfuncTab(engine, window)
	ui.paramsTab = NewParamsTab(engine, window)
	ui.simulationTab = NewSimulationTab(engine, window)
	ui.fringesTab = NewFringesTab(engine, window)
	ui.activityTab = NewActivityTab(engine, window)

	return ui
}

// Build creates the UI layout. Tab order follows the calibration workflow:
// mask, then influence function, then parameters, simulation, fringes.
func (ui *UI) Build() fyne.CanvasObject {
	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("  Setup  ", theme.SettingsIcon(), ui.setupTab.Build()),
		container.NewTabItemWithIcon("  Mask  ", theme.MediaPhotoIcon(), ui.maskTab.Build()),
		container.NewTabItemWithIcon("  Influence Function  ", theme.GridIcon(), ui.ifuncTab.Build()),
		container.NewTabItemWithIcon("  Parameters  ", theme.DocumentCreateIcon(), ui.paramsTab.Build()),
		container.NewTabItemWithIcon("  Simulation  ", theme.ComputerIcon(), ui.simulationTab.Build()),
		container.NewTabItemWithIcon("  Fringes  ", theme.SearchIcon(), ui.fringesTab.Build()),
		container.NewTabItemWithIcon("  Activity  ", theme.InfoIcon(), ui.activityTab.Build()),
	)

	// Auto-apply config when navigating away from the Setup tab so the
	// other tabs always launch with what the user sees there.
	var previousTabIndex int
	tabs.OnSelected = func(tab *container.TabItem) {
		currentIndex := tabs.SelectedIndex()
		if previousTabIndex == 0 && currentIndex != 0 {
			if err := ui.setupTab.ApplyConfig(); err != nil {
				guiLogger.Warn().Err(err).Msg("Auto-apply config failed when leaving Setup tab")
			}
		}
		previousTabIndex = currentIndex
	}

	tabs.SelectIndex(0)

	return tabs
}

// Start begins event monitoring
func (ui *UI) Start() {
	go ui.monitorLogs()
	go ui.monitorOutput()
	go ui.monitorProgress()
	go ui.monitorRunStates()
}

// Stop stops event monitoring and cancels any active runs
func (ui *UI) Stop() {
	ui.cancel()
	ui.engine.Close()
}

func (ui *UI) monitorLogs() {
	ch := ui.engine.EventBus().Subscribe(events.EventLog)

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			logEvent := event.(*events.LogEvent)
			ui.activityTab.AddLog(logEvent) // AddLog internally uses fyne.Do()

		case <-ui.ctx.Done():
			return
		}
	}
}

func (ui *UI) monitorOutput() {
	ch := ui.engine.EventBus().Subscribe(events.EventOutput)

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			out := event.(*events.OutputEvent)
			if out.Tool == specula.ToolSimulation {
				ui.simulationTab.AppendOutput(out.Line)
			}

		case <-ui.ctx.Done():
			return
		}
	}
}

// monitorProgress routes activity ticks onto the owning tab's status bar so
// the spinner text follows the run's most recent output line.
func (ui *UI) monitorProgress() {
	ch := ui.engine.EventBus().Subscribe(events.EventProgress)

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			p := event.(*events.ProgressEvent)
			// Terminal status comes from the run callback, not from the
			// reporter's completion event.
			if p.Fraction >= 0 {
				continue
			}
			if status := ui.statusFor(p.Tool); status != nil {
				status.UpdateProgress(statusLine(p.Message))
			}

		case <-ui.ctx.Done():
			return
		}
	}
}

// statusFor maps a tool to the status bar of the tab that launches it.
func (ui *UI) statusFor(tool string) *StatusBar {
	switch tool {
	case specula.ToolMask:
		return ui.maskTab.status
	case specula.ToolIfunc:
		return ui.ifuncTab.status
	case specula.ToolSimulation:
		return ui.simulationTab.status
	case specula.ToolFringes:
		return ui.fringesTab.status
	default:
		return nil
	}
}

// statusLine bounds an output line to what fits on a status bar.
func statusLine(s string) string {
	const max = 80
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func (ui *UI) monitorRunStates() {
	ch := ui.engine.EventBus().Subscribe(events.EventRunState)

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			stateEvent := event.(*events.RunStateEvent)
			ui.activityTab.AddRunState(stateEvent)

			// Simulation runs are long enough to finish unattended; the
			// quick tools complete while the window has focus anyway.
			if stateEvent.Tool == specula.ToolSimulation {
				switch stateEvent.NewState {
				case runner.StateSucceeded:
					ui.notifier.RunSucceeded(stateEvent.Tool)
				case runner.StateFailed:
					ui.notifier.RunFailed(stateEvent.Tool, stateEvent.ExitCode)
				case runner.StateCancelled:
					ui.notifier.RunCancelled(stateEvent.Tool)
				}
			}

		case <-ui.ctx.Done():
			return
		}
	}
}
