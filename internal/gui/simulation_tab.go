package gui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/spl-lab/spl-workbench/internal/core"
	"github.com/spl-lab/spl-workbench/internal/specula"
)

// maxOutputLines bounds the streamed output kept in the text area so a long
// simulation does not grow memory without limit.
const maxOutputLines = 2000

// SimulationTab launches the long PSF simulation and streams its output.
type SimulationTab struct {
	engine *core.Engine
	window fyne.Window

	paramFileEntry *widget.Entry
	cpuCheck       *widget.Check

	outputText   *widget.Entry
	outputScroll *container.Scroll
	outputLines  []string
	outputLock   sync.Mutex

	runButton  *widget.Button
	stopButton *widget.Button
	status     *StatusBar
}

// NewSimulationTab creates a new simulation tab
func NewSimulationTab(engine *core.Engine, window fyne.Window) *SimulationTab {
	return &SimulationTab{
		engine: engine,
		window: window,
		status: NewStatusBar(),
	}
}

// Build creates the simulation tab UI
func (st *SimulationTab) Build() fyne.CanvasObject {
	st.paramFileEntry = widget.NewEntry()
	st.paramFileEntry.SetPlaceHolder("params_spl_multiwave_520_539.yml")

	st.cpuCheck = widget.NewCheck("Force CPU computation (skip GPU)", nil)

	form := widget.NewForm(
		widget.NewFormItem("Parameter File", newFilePickerRow(st.paramFileEntry, st.window, []string{".yml", ".yaml"})),
		widget.NewFormItem("", st.cpuCheck),
	)

	st.runButton = NewPrimaryButton("Run Simulation", st.run)
	st.stopButton = widget.NewButton("Stop", st.stop)
	st.stopButton.Disable()

	st.outputText = widget.NewMultiLineEntry()
	st.outputText.SetPlaceHolder("Simulation output will appear here...")
	st.outputText.Wrapping = fyne.TextWrapWord
	st.outputText.Disable() // Read-only

	st.outputScroll = container.NewScroll(st.outputText)
	st.outputScroll.SetMinSize(fyne.NewSize(800, 380))

	return container.NewBorder(
		container.NewVBox(
			VerticalSpacer(8),
			widget.NewCard("Simulation", "", container.NewVBox(
				form,
				VerticalSpacer(8),
				container.NewHBox(st.runButton, HorizontalSpacer(8), st.stopButton),
			)),
			VerticalSpacer(4),
		),
		container.NewHBox(st.status),
		nil, nil,
		st.outputScroll,
	)
}

func (st *SimulationTab) run() {
	p, err := parseSimulationForm(st.paramFileEntry.Text, st.cpuCheck.Checked)
	if err != nil {
		st.status.SetError(err.Error())
		dialog.ShowError(err, st.window)
		return
	}
	cmd, err := p.Command()
	if err != nil {
		dialog.ShowError(err, st.window)
		return
	}

	st.clearOutput()
	launchTool(st.engine, st.window, cmd, st.status, st.runButton, st.stopButton, nil)
}

func (st *SimulationTab) stop() {
	st.engine.Cancel(specula.ToolSimulation)
}

// AppendOutput adds a streamed line to the output area. Safe to call from
// any goroutine.
func (st *SimulationTab) AppendOutput(line string) {
	st.outputLock.Lock()
	st.outputLines = append(st.outputLines, line)
	if len(st.outputLines) > maxOutputLines {
		st.outputLines = st.outputLines[len(st.outputLines)-maxOutputLines:]
	}
	text := strings.Join(st.outputLines, "\n")
	st.outputLock.Unlock()

	fyne.Do(func() {
		st.outputText.SetText(text)
		st.outputScroll.ScrollToBottom()
	})
}

func (st *SimulationTab) clearOutput() {
	st.outputLock.Lock()
	st.outputLines = nil
	st.outputLock.Unlock()
	st.outputText.SetText("")
}
