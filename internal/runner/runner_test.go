package runner

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/spl-lab/spl-workbench/internal/events"
)

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(10 * time.Second):
		t.Fatal("Timed out waiting for run to finish")
		return Result{}
	}
}

func TestStart_Success(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()
	outputs := bus.Subscribe(events.EventOutput)

	r := New("mask", bus, nil)
	done := make(chan Result, 1)

	runID, err := r.Start(context.Background(), []string{"sh", "-c", "echo one; echo two"}, "", func(res Result) {
		done <- res
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if runID == "" {
		t.Error("Start returned empty run ID")
	}

	res := waitResult(t, done)
	if res.Status != StateSucceeded {
		t.Errorf("Status = %q, want %q", res.Status, StateSucceeded)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !reflect.DeepEqual(res.Tail, []string{"one", "two"}) {
		t.Errorf("Tail = %v, want [one two]", res.Tail)
	}
	if r.Active() {
		t.Error("Runner still active after completion")
	}

	var lines []string
	timeout := time.After(5 * time.Second)
	for len(lines) < 2 {
		select {
		case ev := <-outputs:
			lines = append(lines, ev.(*events.OutputEvent).Line)
		case <-timeout:
			t.Fatalf("Only received %d output events", len(lines))
		}
	}
	if !reflect.DeepEqual(lines, []string{"one", "two"}) {
		t.Errorf("Output events = %v, want [one two]", lines)
	}
}

func TestStart_NonZeroExit(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()
	states := bus.Subscribe(events.EventRunState)

	r := New("simulation", bus, nil)
	done := make(chan Result, 1)

	if _, err := r.Start(context.Background(), []string{"sh", "-c", "echo boom; exit 3"}, "", func(res Result) {
		done <- res
	}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	res := waitResult(t, done)
	if res.Status != StateFailed {
		t.Errorf("Status = %q, want %q", res.Status, StateFailed)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if res.Err == nil {
		t.Error("Failed run carries no error")
	}
	if res.TailText() != "boom" {
		t.Errorf("TailText = %q, want %q", res.TailText(), "boom")
	}

	var final *events.RunStateEvent
	timeout := time.After(5 * time.Second)
	for final == nil {
		select {
		case ev := <-states:
			st := ev.(*events.RunStateEvent)
			if st.NewState != StateRunning {
				final = st
			}
		case <-timeout:
			t.Fatal("No terminal run state event received")
		}
	}
	if final.NewState != StateFailed || final.ExitCode != 3 {
		t.Errorf("Terminal event = %s/%d, want failed/3", final.NewState, final.ExitCode)
	}
	if final.Detail != "boom" {
		t.Errorf("Detail = %q, want output tail", final.Detail)
	}
}

func TestStart_BusyAndCancel(t *testing.T) {
	r := New("simulation", nil, nil)
	done := make(chan Result, 1)

	runID, err := r.Start(context.Background(), []string{"sleep", "30"}, "", func(res Result) {
		done <- res
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if got := r.RunID(); got != runID {
		t.Errorf("RunID() = %q, want %q", got, runID)
	}

	if _, err := r.Start(context.Background(), []string{"sh", "-c", "true"}, "", nil); !errors.Is(err, ErrBusy) {
		t.Errorf("Second Start error = %v, want ErrBusy", err)
	}

	r.Cancel()
	res := waitResult(t, done)
	if res.Status != StateCancelled {
		t.Errorf("Status = %q, want %q", res.Status, StateCancelled)
	}
	if r.Active() {
		t.Error("Runner still active after cancel")
	}
}

func TestStart_SpawnFailure(t *testing.T) {
	r := New("mask", nil, nil)

	_, err := r.Start(context.Background(), []string{"/nonexistent/python3", "script.py"}, "", nil)
	if err == nil {
		t.Fatal("Expected spawn error")
	}
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Errorf("Error is %T, want *SpawnError", err)
	}
	if r.Active() {
		t.Error("Runner active after spawn failure")
	}

	// The runner must be reusable after a spawn failure.
	done := make(chan Result, 1)
	if _, err := r.Start(context.Background(), []string{"sh", "-c", "true"}, "", func(res Result) {
		done <- res
	}); err != nil {
		t.Fatalf("Start after spawn failure: %v", err)
	}
	if res := waitResult(t, done); res.Status != StateSucceeded {
		t.Errorf("Status = %q, want %q", res.Status, StateSucceeded)
	}
}

func TestStart_EmptyCommand(t *testing.T) {
	r := New("mask", nil, nil)
	_, err := r.Start(context.Background(), nil, "", nil)
	var spawnErr *SpawnError
	if !errors.As(err, &spawnErr) {
		t.Errorf("Error = %v, want *SpawnError", err)
	}
}

func TestStart_PublishesProgress(t *testing.T) {
	bus := events.NewEventBus(64)
	defer bus.Close()
	progressCh := bus.Subscribe(events.EventProgress)

	r := New("ifunc", bus, nil)
	done := make(chan Result, 1)

	if _, err := r.Start(context.Background(), []string{"sh", "-c", "echo step1; echo step2"}, "", func(res Result) {
		done <- res
	}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitResult(t, done)

	// Start tick, one tick per line, then a completion event.
	var got []*events.ProgressEvent
	timeout := time.After(5 * time.Second)
	for len(got) < 4 {
		select {
		case ev := <-progressCh:
			got = append(got, ev.(*events.ProgressEvent))
		case <-timeout:
			t.Fatalf("Only received %d progress events, want 4", len(got))
		}
	}

	for i, p := range got[:3] {
		if p.Fraction >= 0 {
			t.Errorf("event %d: Fraction = %v, want indeterminate", i, p.Fraction)
		}
		if p.Tool != "ifunc" {
			t.Errorf("event %d: Tool = %q, want %q", i, p.Tool, "ifunc")
		}
	}
	if got[1].Message != "step1" || got[2].Message != "step2" {
		t.Errorf("Tick messages = %q, %q, want step1, step2", got[1].Message, got[2].Message)
	}
	if got[3].Fraction != 1 {
		t.Errorf("final Fraction = %v, want 1", got[3].Fraction)
	}
}

func TestTailBuffer(t *testing.T) {
	tb := newTailBuffer(3)
	for _, line := range []string{"a", "b", "c", "d", "e"} {
		tb.Add(line)
	}
	if got := tb.Lines(); !reflect.DeepEqual(got, []string{"c", "d", "e"}) {
		t.Errorf("Lines() = %v, want [c d e]", got)
	}
}
