// Package diag carries parse trace events out of the extraction engine.
//
// The engine only ever talks to a Sink. Whether events end up in a
// terminal, a structured log or a test buffer is the caller's choice.
package diag

import (
	"strings"
	"sync"
	"time"
)

// Level is the severity of a trace event
type Level int

const (
	LevelInfo Level = iota
	LevelOK
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelOK:
		return "ok"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "err"
	}
	return "info"
}

// MarshalText encodes the level by name
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLevel converts "info", "ok", "warn" or "err"/"error" into a Level
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ok":
		return LevelOK
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	}
	return LevelInfo
}

// Sink receives trace events. Implementations must be safe for concurrent use.
type Sink interface {
	Record(level Level, message string)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(level Level, message string)

// Record calls f(level, message)
func (f SinkFunc) Record(level Level, message string) {
	f(level, message)
}

type nopSink struct{}

func (nopSink) Record(Level, string) {}

// Nop discards every event
var Nop Sink = nopSink{}

// Event is one recorded trace entry
type Event struct {
	Time    time.Time `json:"ts" yaml:"ts"`
	Level   Level     `json:"level" yaml:"level"`
	Message string    `json:"msg" yaml:"msg"`
}

// DefaultMemoryLimit bounds a MemorySink
const DefaultMemoryLimit = 500

// MemorySink keeps the most recent events in memory
type MemorySink struct {
	mu     sync.Mutex
	limit  int
	now    func() time.Time
	events []Event
}

// NewMemorySink creates a sink holding at most limit events (DefaultMemoryLimit if limit <= 0)
func NewMemorySink(limit int) *MemorySink {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &MemorySink{limit: limit, now: time.Now}
}

// Record stores the event, dropping the oldest one past the limit
func (m *MemorySink) Record(level Level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, Event{Time: m.now().UTC(), Level: level, Message: message})
	if len(m.events) > m.limit {
		m.events = m.events[len(m.events)-m.limit:]
	}
}

// Events returns a copy of the stored events, oldest first
func (m *MemorySink) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Messages returns the stored messages, oldest first
func (m *MemorySink) Messages() []string {
	events := m.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Message
	}
	return out
}

// Reset clears the stored events
func (m *MemorySink) Reset() {
	m.mu.Lock()
	m.events = nil
	m.mu.Unlock()
}

// Multi fans events out to several sinks. Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	switch len(live) {
	case 0:
		return Nop
	case 1:
		return live[0]
	}
	return multiSink(live)
}

type multiSink []Sink

func (m multiSink) Record(level Level, message string) {
	for _, s := range m {
		s.Record(level, message)
	}
}
