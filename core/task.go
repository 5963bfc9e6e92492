package core

import (
	"errors"
	"iter"
)

// TaskEvent is one unit of the ordered progress stream returned for a query.
//
// For a single query every emitted event has Complete=false except the last,
// which always has Complete=true. NeedsInput marks a clarification request and
// is kept for protocol compatibility; no executor in this module sets it.
type TaskEvent struct {
	Complete   bool   `json:"complete"`
	NeedsInput bool   `json:"needs_input"`
	Content    string `json:"content"`
}

// PartialEvent returns a non-terminal event carrying a streamed chunk.
func PartialEvent(content string) TaskEvent {
	return TaskEvent{Content: content}
}

// TerminalEvent returns the event that completes a task.
func TerminalEvent(content string) TaskEvent {
	return TaskEvent{Complete: true, Content: content}
}

// InputRequiredEvent returns a terminal event asking the caller for more input.
func InputRequiredEvent(content string) TaskEvent {
	return TaskEvent{Complete: true, NeedsInput: true, Content: content}
}

// State reports which lifecycle state emitting e moves a task into.
func (e TaskEvent) State() TaskState {
	if e.Complete {
		return StateTerminal
	}
	return StatePartial
}

// TaskState is a position in the task lifecycle.
type TaskState int

const (
	// StateRunning is the implicit initial state; no event is emitted for it.
	StateRunning TaskState = iota
	// StatePartial means at least one non-terminal event was emitted.
	StatePartial
	// StateTerminal means the single terminal event was emitted.
	StateTerminal
)

// String returns the lowercase state name.
func (s TaskState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePartial:
		return "partial"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

var (
	// ErrEventAfterTerminal is returned when an event follows the terminal event.
	ErrEventAfterTerminal = errors.New("task event emitted after terminal event")
	// ErrNoTerminalEvent is returned when a stream closes without a terminal event.
	ErrNoTerminalEvent = errors.New("task event stream closed without terminal event")
)

// Lifecycle tracks the events of one task and rejects sequences that break
// the RUNNING -> PARTIAL* -> TERMINAL contract. The zero value is ready to use.
// A Lifecycle is not safe for concurrent use.
type Lifecycle struct {
	state    TaskState
	partials int
}

// Observe records ev. It fails once a terminal event has been seen.
func (l *Lifecycle) Observe(ev TaskEvent) error {
	if l.state == StateTerminal {
		return ErrEventAfterTerminal
	}
	l.state = ev.State()
	if l.state == StatePartial {
		l.partials++
	}
	return nil
}

// Close reports ErrNoTerminalEvent if the stream ended before a terminal event.
func (l *Lifecycle) Close() error {
	if l.state != StateTerminal {
		return ErrNoTerminalEvent
	}
	return nil
}

// State returns the current state.
func (l *Lifecycle) State() TaskState { return l.state }

// Done reports whether the terminal event was observed.
func (l *Lifecycle) Done() bool { return l.state == StateTerminal }

// Partials returns the number of partial events observed.
func (l *Lifecycle) Partials() int { return l.partials }

// Collect drains seq until its first terminal event and returns the events
// seen. Consumers must stop listening after the terminal event, so anything
// the producer would emit afterwards is never requested. A sequence that ends
// without a terminal event yields ErrNoTerminalEvent alongside the partials.
func Collect(seq iter.Seq[TaskEvent]) ([]TaskEvent, error) {
	var (
		lc     Lifecycle
		events []TaskEvent
	)
	for ev := range seq {
		if err := lc.Observe(ev); err != nil {
			return events, err
		}
		events = append(events, ev)
		if lc.Done() {
			break
		}
	}
	return events, lc.Close()
}
