// Package progress provides a unified interface for run feedback across
// CLI (spinner) and GUI (event bus) modes.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/spl-lab/spl-workbench/internal/events"
)

// Reporter is the interface for reporting run activity in both modes.
// External scripts do not report fractional progress, so activity is a
// stream of line ticks rather than a percentage.
type Reporter interface {
	Start(description string)
	Tick(line string)
	Finish()
	Error(err error)
}

// CLIReporter shows an indeterminate spinner on stderr while a run is
// active, described by the most recent output line.
type CLIReporter struct {
	bar *progressbar.ProgressBar
}

// NewCLIReporter creates a spinner-based reporter.
func NewCLIReporter() *CLIReporter {
	return &CLIReporter{}
}

func (p *CLIReporter) Start(description string) {
	p.bar = progressbar.NewOptions64(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func (p *CLIReporter) Tick(line string) {
	if p.bar != nil {
		_ = p.bar.Add(1)
		p.bar.Describe(truncate(line, 60))
	}
}

func (p *CLIReporter) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func (p *CLIReporter) Error(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
	}
}

// BusReporter publishes activity as ProgressEvents for the GUI status bar.
type BusReporter struct {
	eventBus *events.EventBus
	tool     string
	runID    string
}

// NewBusReporter creates a reporter that publishes on the event bus.
func NewBusReporter(eventBus *events.EventBus, tool, runID string) *BusReporter {
	return &BusReporter{eventBus: eventBus, tool: tool, runID: runID}
}

func (p *BusReporter) Start(description string) {
	p.eventBus.PublishProgress(p.tool, p.runID, -1, description)
}

func (p *BusReporter) Tick(line string) {
	p.eventBus.PublishProgress(p.tool, p.runID, -1, line)
}

func (p *BusReporter) Finish() {
	p.eventBus.PublishProgress(p.tool, p.runID, 1, "done")
}

func (p *BusReporter) Error(err error) {
	if err != nil {
		p.eventBus.PublishLog(events.ErrorLevel, p.tool, p.runID, err.Error(), err)
	}
}

// NoOpReporter discards all activity, for silent operations and tests.
type NoOpReporter struct{}

func NewNoOpReporter() *NoOpReporter { return &NoOpReporter{} }

func (p *NoOpReporter) Start(description string) {}
func (p *NoOpReporter) Tick(line string)         {}
func (p *NoOpReporter) Finish()                  {}
func (p *NoOpReporter) Error(err error)          {}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
