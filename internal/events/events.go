// Package events provides the pub/sub event bus connecting tool runs to the
// GUI and CLI frontends.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	EventLog      EventType = "log"
	EventProgress EventType = "progress"
	EventRunState EventType = "run_state"
	EventOutput   EventType = "output"
)

// Default and maximum buffer sizes for subscriber channels. Simulation runs
// can emit output lines faster than the GUI redraws, so the default is
// generous.
const (
	DefaultBuffer = 1000
	MaxBuffer     = 100000
)

// LogLevel defines log severity levels
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// LogEvent represents log messages surfaced in the Activity tab
type LogEvent struct {
	BaseEvent
	Level   LogLevel
	Tool    string // "mask", "ifunc", "params", "simulation", "fringes"
	RunID   string
	Message string
	Error   error
}

// OutputEvent carries a single line of subprocess output, in arrival order.
type OutputEvent struct {
	BaseEvent
	Tool  string
	RunID string
	Line  string
}

// ProgressEvent represents coarse progress for a running tool
type ProgressEvent struct {
	BaseEvent
	Tool     string
	RunID    string
	Fraction float64 // 0.0 to 1.0, negative means indeterminate
	Message  string
}

// RunStateEvent represents run lifecycle transitions
type RunStateEvent struct {
	BaseEvent
	Tool     string
	RunID    string
	OldState string
	NewState string // "running", "succeeded", "failed", "cancelled"
	ExitCode int
	Detail   string // failure detail, including captured output tail
}

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64
}

// NewEventBus creates a new event bus with specified buffer size
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultBuffer
	}
	if bufferSize > MaxBuffer {
		bufferSize = MaxBuffer
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// Publish sends an event to all subscribers. Publishing never blocks: when a
// subscriber's buffer is full the event is dropped and counted.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}

	for _, ch := range eb.all {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}
}

// Dropped returns the number of events dropped due to full buffers.
func (eb *EventBus) Dropped() int64 {
	return eb.droppedEvents.Load()
}

// Unsubscribe removes a subscription channel from a specific event type
func (eb *EventBus) Unsubscribe(eventType EventType, ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	subs := eb.subscribers[eventType]
	for i, sub := range subs {
		if sub == ch {
			eb.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close shuts down the event bus and closes all channels
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	eb.closed = true

	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range eb.all {
		close(ch)
	}
}

// PublishLog is a convenience method for publishing log events
func (eb *EventBus) PublishLog(level LogLevel, tool, runID, message string, err error) {
	eb.Publish(&LogEvent{
		BaseEvent: BaseEvent{EventType: EventLog, Time: time.Now()},
		Level:     level,
		Tool:      tool,
		RunID:     runID,
		Message:   message,
		Error:     err,
	})
}

// PublishOutput is a convenience method for publishing subprocess output lines
func (eb *EventBus) PublishOutput(tool, runID, line string) {
	eb.Publish(&OutputEvent{
		BaseEvent: BaseEvent{EventType: EventOutput, Time: time.Now()},
		Tool:      tool,
		RunID:     runID,
		Line:      line,
	})
}

// PublishProgress is a convenience method for publishing progress events
func (eb *EventBus) PublishProgress(tool, runID string, fraction float64, message string) {
	eb.Publish(&ProgressEvent{
		BaseEvent: BaseEvent{EventType: EventProgress, Time: time.Now()},
		Tool:      tool,
		RunID:     runID,
		Fraction:  fraction,
		Message:   message,
	})
}

// PublishRunState is a convenience method for publishing run state transitions
func (eb *EventBus) PublishRunState(tool, runID, oldState, newState string, exitCode int, detail string) {
	eb.Publish(&RunStateEvent{
		BaseEvent: BaseEvent{EventType: EventRunState, Time: time.Now()},
		Tool:      tool,
		RunID:     runID,
		OldState:  oldState,
		NewState:  newState,
		ExitCode:  exitCode,
		Detail:    detail,
	})
}
