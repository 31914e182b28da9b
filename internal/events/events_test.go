package events

import (
	"testing"
	"time"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventOutput)

	bus.PublishOutput("simulation", "run-1", "iteration 42")

	select {
	case received := <-ch:
		out, ok := received.(*OutputEvent)
		if !ok {
			t.Fatal("Expected OutputEvent")
		}
		if out.Tool != "simulation" {
			t.Errorf("Expected tool 'simulation', got '%s'", out.Tool)
		}
		if out.Line != "iteration 42" {
			t.Errorf("Expected line 'iteration 42', got '%s'", out.Line)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestEventBus_TypeFiltering(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	logCh := bus.Subscribe(EventLog)
	stateCh := bus.Subscribe(EventRunState)

	bus.PublishRunState("mask", "run-2", "running", "succeeded", 0, "")

	select {
	case <-stateCh:
	case <-time.After(time.Second):
		t.Fatal("RunState subscriber did not receive event")
	}

	select {
	case ev := <-logCh:
		t.Fatalf("Log subscriber received unexpected event: %v", ev.Type())
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.SubscribeAll()

	bus.PublishLog(InfoLevel, "fringes", "run-3", "starting", nil)
	bus.PublishProgress("fringes", "run-3", 0.5, "halfway")

	for i := 0; i < 2; i++ {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("All-events subscriber missed event %d", i)
		}
	}
}

func TestEventBus_DropOnFullBuffer(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()

	bus.Subscribe(EventOutput)

	// Fill the single-slot buffer then overflow it.
	bus.PublishOutput("simulation", "run-4", "line 1")
	bus.PublishOutput("simulation", "run-4", "line 2")

	if bus.Dropped() != 1 {
		t.Errorf("Expected 1 dropped event, got %d", bus.Dropped())
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventLog)
	bus.Unsubscribe(EventLog, ch)

	// Channel should be closed after unsubscribe.
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Expected closed channel after Unsubscribe")
		}
	case <-time.After(time.Second):
		t.Fatal("Channel not closed after Unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	bus.PublishLog(InfoLevel, "mask", "run-5", "after unsubscribe", nil)
}

func TestEventBus_CloseIsIdempotent(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.Subscribe(EventProgress)

	bus.Close()
	bus.Close()

	if _, ok := <-ch; ok {
		t.Error("Expected closed subscriber channel after Close")
	}

	// Subscribe after close returns a closed channel.
	ch2 := bus.Subscribe(EventProgress)
	if _, ok := <-ch2; ok {
		t.Error("Expected closed channel from Subscribe after Close")
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
