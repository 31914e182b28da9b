package gui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/spl-lab/spl-workbench/internal/core"
	"github.com/spl-lab/spl-workbench/internal/events"
	"github.com/spl-lab/spl-workbench/internal/runner"
)

// ActivityTab manages the activity and logs interface
type ActivityTab struct {
	engine *core.Engine
	window fyne.Window

	// UI components
	logText      *widget.Entry
	logScroll    *container.Scroll
	levelFilter  *widget.Select
	searchEntry  *widget.Entry
	autoScroll   *widget.Check
	clearButton  *widget.Button
	exportButton *widget.Button

	// Stats labels
	totalLogsLabel *widget.Label
	errorsLabel    *widget.Label
	warningsLabel  *widget.Label
	uptimeLabel    *widget.Label

	// Data
	logs      []LogEntry
	logsLock  sync.RWMutex
	maxLogs   int
	startTime time.Time
}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time
	Level     events.LogLevel
	Tool      string
	RunID     string
	Message   string
}

// NewActivityTab creates a new activity tab
func NewActivityTab(engine *core.Engine, window fyne.Window) *ActivityTab {
	return &ActivityTab{
		engine:    engine,
		window:    window,
		logs:      make([]LogEntry, 0, 1000),
		maxLogs:   10000, // Keep last 10k logs
		startTime: time.Now(),
	}
}

// Build creates the activity tab UI
func (at *ActivityTab) Build() fyne.CanvasObject {
	at.logText = widget.NewMultiLineEntry()
	at.logText.SetPlaceHolder("Activity logs will appear here...")
	at.logText.Wrapping = fyne.TextWrapWord
	at.logText.Disable() // Read-only

	at.logScroll = container.NewScroll(at.logText)
	at.logScroll.SetMinSize(fyne.NewSize(800, 500))

	// Create stat labels FIRST (before any callbacks that might use them)
	at.totalLogsLabel = widget.NewLabel("0")
	at.errorsLabel = widget.NewLabel("0")
	at.warningsLabel = widget.NewLabel("0")
	at.uptimeLabel = widget.NewLabel("0s")

	// Create search entry before levelFilter triggers its callback
	at.searchEntry = widget.NewEntry()
	at.searchEntry.SetPlaceHolder("Search logs...")
	at.searchEntry.OnChanged = at.onSearchChange

	at.levelFilter = widget.NewSelect([]string{
		"All Levels",
		"DEBUG",
		"INFO",
		"WARN",
		"ERROR",
	}, at.onFilterChange)
	at.levelFilter.SetSelected("All Levels")

	at.autoScroll = widget.NewCheck("Auto-scroll", nil)
	at.autoScroll.SetChecked(true)

	at.clearButton = widget.NewButton("Clear Logs", func() {
		dialog.ShowConfirm("Clear Logs?",
			fmt.Sprintf("This will permanently delete all %d log entries.\n\nAre you sure?", len(at.logs)),
			func(confirmed bool) {
				if confirmed {
					at.clearLogs()
				}
			},
			at.window,
		)
	})

	at.exportButton = widget.NewButton("Export Logs", at.exportLogs)

	filterSection := container.NewBorder(
		nil, nil,
		container.NewHBox(
			widget.NewLabel("Level:"),
			at.levelFilter,
		),
		container.NewHBox(
			at.autoScroll,
			at.clearButton,
			at.exportButton,
		),
		container.NewBorder(
			nil, nil,
			widget.NewLabel("Search:"),
			nil,
			at.searchEntry,
		),
	)

	statsGrid := container.NewGridWithColumns(4,
		at.createStatCardWithLabel("Total Logs", at.totalLogsLabel),
		at.createStatCardWithLabel("Errors", at.errorsLabel),
		at.createStatCardWithLabel("Warnings", at.warningsLabel),
		at.createStatCardWithLabel("Uptime", at.uptimeLabel),
	)

	return container.NewBorder(
		container.NewVBox(
			filterSection,
			widget.NewSeparator(),
			statsGrid,
			widget.NewSeparator(),
		),
		nil, nil, nil,
		at.logScroll,
	)
}

func (at *ActivityTab) createStatCardWithLabel(title string, valueLabel *widget.Label) fyne.CanvasObject {
	titleLabel := widget.NewLabel(title)
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	return container.NewVBox(
		titleLabel,
		valueLabel,
	)
}

// AddLog adds a log entry and updates the display
func (at *ActivityTab) AddLog(event *events.LogEvent) {
	at.addEntry(LogEntry{
		Timestamp: event.Timestamp(),
		Level:     event.Level,
		Tool:      event.Tool,
		RunID:     event.RunID,
		Message:   event.Message,
	})
}

// AddRunState records a run lifecycle transition as a log entry.
func (at *ActivityTab) AddRunState(event *events.RunStateEvent) {
	level := events.InfoLevel
	message := fmt.Sprintf("run %s", event.NewState)
	if event.NewState == runner.StateFailed {
		level = events.ErrorLevel
		message = fmt.Sprintf("run failed with exit code %d", event.ExitCode)
	}
	at.addEntry(LogEntry{
		Timestamp: event.Timestamp(),
		Level:     level,
		Tool:      event.Tool,
		RunID:     event.RunID,
		Message:   message,
	})
}

func (at *ActivityTab) addEntry(entry LogEntry) {
	at.logsLock.Lock()
	at.logs = append(at.logs, entry)
	if len(at.logs) > at.maxLogs {
		at.logs = at.logs[len(at.logs)-at.maxLogs:]
	}
	at.logsLock.Unlock()

	fyne.Do(func() {
		at.refreshDisplay()
		if at.autoScroll != nil && at.autoScroll.Checked {
			at.logScroll.ScrollToBottom()
		}
	})
}

func (at *ActivityTab) refreshDisplay() {
	at.logsLock.RLock()
	defer at.logsLock.RUnlock()

	filtered := at.filterLogs()

	var sb strings.Builder
	for _, entry := range filtered {
		sb.WriteString(formatLogEntry(entry))
		sb.WriteString("\n")
	}

	at.logText.SetText(sb.String())
	at.updateStats()
}

func (at *ActivityTab) updateStats() {
	errorCount := 0
	warningCount := 0
	for _, entry := range at.logs {
		if entry.Level == events.ErrorLevel {
			errorCount++
		} else if entry.Level == events.WarnLevel {
			warningCount++
		}
	}

	// Labels may not be initialized yet if called during Build
	if at.totalLogsLabel != nil {
		at.totalLogsLabel.SetText(fmt.Sprintf("%d", len(at.logs)))
	}
	if at.errorsLabel != nil {
		at.errorsLabel.SetText(fmt.Sprintf("%d", errorCount))
	}
	if at.warningsLabel != nil {
		at.warningsLabel.SetText(fmt.Sprintf("%d", warningCount))
	}

	uptime := time.Since(at.startTime)
	uptimeStr := ""
	if uptime.Hours() >= 1 {
		uptimeStr = fmt.Sprintf("%.1fh", uptime.Hours())
	} else if uptime.Minutes() >= 1 {
		uptimeStr = fmt.Sprintf("%.1fm", uptime.Minutes())
	} else {
		uptimeStr = fmt.Sprintf("%.0fs", uptime.Seconds())
	}
	if at.uptimeLabel != nil {
		at.uptimeLabel.SetText(uptimeStr)
	}
}

func (at *ActivityTab) filterLogs() []LogEntry {
	filtered := make([]LogEntry, 0, len(at.logs))

	levelFilter := at.levelFilter.Selected
	searchText := strings.ToLower(at.searchEntry.Text)

	for _, entry := range at.logs {
		if !matchesFilter(entry, levelFilter, searchText) {
			continue
		}
		filtered = append(filtered, entry)
	}

	return filtered
}

// matchesFilter reports whether an entry passes the level and search filters.
func matchesFilter(entry LogEntry, levelFilter, searchText string) bool {
	if levelFilter != "" && levelFilter != "All Levels" && entry.Level.String() != levelFilter {
		return false
	}
	if searchText != "" {
		entryText := strings.ToLower(formatLogEntry(entry))
		if !strings.Contains(entryText, searchText) {
			return false
		}
	}
	return true
}

func formatLogEntry(entry LogEntry) string {
	parts := []string{
		entry.Timestamp.Format("15:04:05"),
		entry.Level.String(),
	}

	if entry.Tool != "" {
		parts = append(parts, fmt.Sprintf("[%s]", entry.Tool))
	}

	parts = append(parts, entry.Message)

	return strings.Join(parts, " ")
}

func (at *ActivityTab) onFilterChange(value string) {
	at.refreshDisplay()
}

func (at *ActivityTab) onSearchChange(value string) {
	at.refreshDisplay()
}

func (at *ActivityTab) clearLogs() {
	at.logsLock.Lock()
	at.logs = make([]LogEntry, 0, 1000)
	at.startTime = time.Now() // Reset uptime
	at.logsLock.Unlock()

	at.logText.SetText("")
	at.refreshDisplay() // Update stats to show zeros
}

func (at *ActivityTab) exportLogs() {
	at.logsLock.RLock()
	defer at.logsLock.RUnlock()

	var sb strings.Builder
	sb.WriteString("SPL Workbench Activity Log Export\n")
	sb.WriteString(fmt.Sprintf("Exported: %s\n", time.Now().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Total Entries: %d\n", len(at.logs)))
	sb.WriteString(strings.Repeat("=", 80))
	sb.WriteString("\n\n")

	for _, entry := range at.logs {
		sb.WriteString(formatLogEntry(entry))
		sb.WriteString("\n")
	}

	content := widget.NewMultiLineEntry()
	content.SetText(sb.String())
	content.Wrapping = fyne.TextWrapWord
	content.Disable() // Read-only

	scrollContent := container.NewScroll(content)
	scrollContent.SetMinSize(fyne.NewSize(800, 500))

	exportDialog := dialog.NewCustom(
		"Exported Logs",
		"Close",
		container.NewVBox(
			widget.NewLabel("Copy the text below or save to a file:"),
			scrollContent,
		),
		at.window,
	)
	exportDialog.Resize(fyne.NewSize(850, 650))
	exportDialog.Show()
}
