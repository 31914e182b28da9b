package gui

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/spl-lab/spl-workbench/internal/core"
	"github.com/spl-lab/spl-workbench/internal/runner"
	"github.com/spl-lab/spl-workbench/internal/specula"
)

// launchTool starts cmd on its tool runner and keeps the tab's controls in
// sync with the run lifecycle: Run disabled and Stop enabled while active,
// status bar following the outcome, failure tail in an error dialog.
// onDone, if non-nil, runs on the UI thread after a successful run.
func launchTool(eng *core.Engine, window fyne.Window, cmd specula.Command,
	status *StatusBar, runBtn, stopBtn *widget.Button, onDone func(runner.Result)) {

	runBtn.Disable()
	if stopBtn != nil {
		stopBtn.Enable()
	}
	status.SetProgress(fmt.Sprintf("Running %s...", cmd.Tool))

	finish := func(res runner.Result) {
		fyne.Do(func() {
			runBtn.Enable()
			if stopBtn != nil {
				stopBtn.Disable()
			}

			switch res.Status {
			case runner.StateSucceeded:
				status.SetSuccess(fmt.Sprintf("%s finished", cmd.Tool))
				if onDone != nil {
					onDone(res)
				}
			case runner.StateCancelled:
				status.SetWarning(fmt.Sprintf("%s cancelled", cmd.Tool))
			default:
				status.SetError(fmt.Sprintf("%s failed (exit code %d)", cmd.Tool, res.ExitCode))
				dialog.ShowError(fmt.Errorf("%s failed with exit code %d:\n\n%s",
					cmd.Tool, res.ExitCode, res.TailText()), window)
			}
		})
	}

	_, err := eng.Launch(context.Background(), cmd, finish)
	if err != nil {
		runBtn.Enable()
		if stopBtn != nil {
			stopBtn.Disable()
		}
		if errors.Is(err, runner.ErrBusy) {
			status.SetWarning(fmt.Sprintf("%s is already running", cmd.Tool))
			return
		}
		// Spawn failures are configuration problems: point at Setup.
		var spawnErr *runner.SpawnError
		if errors.As(err, &spawnErr) {
			status.SetError("Launch failed")
			dialog.ShowError(fmt.Errorf("could not launch %s: %w\n\nCheck the Python interpreter and scripts directory on the Setup tab", cmd.Tool, err), window)
			return
		}
		status.SetError("Launch failed")
		dialog.ShowError(err, window)
	}
}
