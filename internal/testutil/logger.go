package testutil

import (
	"fmt"
	"sync"
)

// Entry is one recorded log line.
type Entry struct {
	Level string
	Msg   string
	Args  []any
}

// RecordingLogger implements logging.Logger and keeps every entry in memory.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []Entry
}

func (l *RecordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
}

// Debug records a debug entry.
func (l *RecordingLogger) Debug(msg string, args ...any) { l.add("debug", msg, args) }

// Info records an info entry.
func (l *RecordingLogger) Info(msg string, args ...any) { l.add("info", msg, args) }

// Warn records a warning entry.
func (l *RecordingLogger) Warn(msg string, args ...any) { l.add("warn", msg, args) }

// Error records an error entry.
func (l *RecordingLogger) Error(msg string, args ...any) { l.add("error", msg, args) }

// Entries returns a copy of the recorded entries.
func (l *RecordingLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]Entry(nil), l.entries...)
}

// Has reports whether an entry with level and msg was recorded.
func (l *RecordingLogger) Has(level, msg string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && e.Msg == msg {
			return true
		}
	}
	return false
}

// String renders the entries for assertion failure messages.
func (l *RecordingLogger) String() string {
	return fmt.Sprint(l.Entries())
}
