// Package runner executes external tool processes in the background and
// streams their output over the event bus.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spl-lab/spl-workbench/internal/events"
	"github.com/spl-lab/spl-workbench/internal/logging"
	"github.com/spl-lab/spl-workbench/internal/progress"
)

// Run states as published on the event bus.
const (
	StateIdle      = "idle"
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
	StateCancelled = "cancelled"
)

// TailLines is how many trailing output lines a Result captures for
// failure reporting.
const TailLines = 50

// ErrBusy is returned by Start when the runner already has an active run.
var ErrBusy = errors.New("a run is already in progress")

// SpawnError wraps a failure to launch the child process at all, such as a
// missing interpreter or script. It is a configuration problem, not a run
// failure, and is never retried.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to launch process: %v", e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Result describes a finished run.
type Result struct {
	RunID    string
	Status   string // succeeded, failed, or cancelled
	ExitCode int
	Tail     []string // last lines of combined output
	Err      error
	Started  time.Time
	Finished time.Time
}

// TailText joins the captured tail for display in error dialogs.
func (r Result) TailText() string {
	return strings.Join(r.Tail, "\n")
}

// Runner owns at most one child process at a time. Each wizard tab holds its
// own Runner, so independent tools can run concurrently.
type Runner struct {
	tool string
	bus  *events.EventBus
	log  *logging.Logger

	mu     sync.Mutex
	active bool
	runID  string
	cancel context.CancelFunc
}

// New creates a runner for the named tool. bus may be nil in tests.
func New(tool string, bus *events.EventBus, log *logging.Logger) *Runner {
	return &Runner{tool: tool, bus: bus, log: log}
}

// Tool returns the tool name this runner was created for.
func (r *Runner) Tool() string { return r.tool }

// Active reports whether a run is currently in progress.
func (r *Runner) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// RunID returns the identifier of the active run, or "" when idle.
func (r *Runner) RunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return ""
	}
	return r.runID
}

// Start launches argv[0] with the remaining arguments and returns without
// waiting for it. Combined stdout/stderr lines are published as OutputEvents
// in arrival order, and onDone (if non-nil) is invoked from the run goroutine
// once the process exits. A second Start while a run is active returns
// ErrBusy. A process that cannot be launched at all returns a *SpawnError
// immediately and leaves the runner idle.
func (r *Runner) Start(ctx context.Context, argv []string, dir string, onDone func(Result)) (string, error) {
	if len(argv) == 0 {
		return "", &SpawnError{Err: errors.New("empty command")}
	}

	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return "", ErrBusy
	}

	runCtx, cancel := context.WithCancel(ctx)
	runID := uuid.New().String()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	if dir != "" {
		cmd.Dir = dir
	}

	// Share one pipe between stdout and stderr so lines interleave in the
	// order the child produced them.
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		r.mu.Unlock()
		return "", &SpawnError{Err: err}
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		stdout.Close()
		cancel()
		r.mu.Unlock()
		return "", &SpawnError{Err: err}
	}

	r.active = true
	r.runID = runID
	r.cancel = cancel
	r.mu.Unlock()

	started := time.Now()
	if r.log != nil {
		r.log.Info().
			Str("tool", r.tool).
			Str("run_id", runID).
			Strs("argv", argv).
			Msg("Run started")
	}
	if r.bus != nil {
		r.bus.PublishRunState(r.tool, runID, StateIdle, StateRunning, 0, "")
	}

	go r.run(runCtx, cmd, stdout, runID, started, onDone)

	return runID, nil
}

// Cancel terminates the active run's child process. It is a no-op when idle.
func (r *Runner) Cancel() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (r *Runner) run(ctx context.Context, cmd *exec.Cmd, stdout io.Reader, runID string, started time.Time, onDone func(Result)) {
	tail := newTailBuffer(TailLines)

	// Progress events are the runner's activity heartbeat: one tick per
	// output line, indeterminate fraction.
	var reporter progress.Reporter = progress.NewNoOpReporter()
	if r.bus != nil {
		reporter = progress.NewBusReporter(r.bus, r.tool, runID)
	}
	reporter.Start(r.tool)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		tail.Add(line)
		if r.bus != nil {
			r.bus.PublishOutput(r.tool, runID, line)
		}
		reporter.Tick(line)
	}

	waitErr := cmd.Wait()
	finished := time.Now()

	res := Result{
		RunID:    runID,
		ExitCode: cmd.ProcessState.ExitCode(),
		Tail:     tail.Lines(),
		Started:  started,
		Finished: finished,
	}

	switch {
	case ctx.Err() != nil:
		// Cancellation wins even when the child happened to exit cleanly.
		res.Status = StateCancelled
		res.Err = ctx.Err()
	case waitErr != nil:
		res.Status = StateFailed
		res.Err = fmt.Errorf("process exited with code %d: %w", res.ExitCode, waitErr)
	default:
		res.Status = StateSucceeded
	}

	if res.Status == StateFailed {
		reporter.Error(res.Err)
	} else {
		reporter.Finish()
	}

	r.mu.Lock()
	r.active = false
	r.runID = ""
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	if r.log != nil {
		ev := r.log.Info()
		if res.Status == StateFailed {
			ev = r.log.Error()
		}
		ev.Str("tool", r.tool).
			Str("run_id", runID).
			Str("status", res.Status).
			Int("exit_code", res.ExitCode).
			Dur("elapsed", finished.Sub(started)).
			Msg("Run finished")
	}
	if r.bus != nil {
		detail := ""
		if res.Status == StateFailed {
			detail = res.TailText()
		}
		r.bus.PublishRunState(r.tool, runID, StateRunning, res.Status, res.ExitCode, detail)
	}

	if onDone != nil {
		onDone(res)
	}
}

// tailBuffer keeps the last n lines added to it.
type tailBuffer struct {
	lines []string
	max   int
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) Add(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

func (t *tailBuffer) Lines() []string {
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}
