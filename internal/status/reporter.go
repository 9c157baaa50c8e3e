// Package status provides the progress/error sink used by every pipeline
// step. Reporters must tolerate a detached consumer: reporting never fails
// and never blocks the pipeline.
package status

import (
	"log/slog"
	"sync"
)

// Reporter receives human-readable progress and error messages. Emission
// order matches call order; no other ordering guarantee is given.
type Reporter interface {
	Report(message string, isError bool)
}

// Nop discards every message.
type Nop struct{}

// Report implements Reporter.
func (Nop) Report(string, bool) {}

// SlogReporter forwards messages to a structured logger.
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter creates a reporter backed by the given logger. A nil
// logger falls back to slog.Default.
func NewSlogReporter(log *slog.Logger) *SlogReporter {
	if log == nil {
		log = slog.Default()
	}
	return &SlogReporter{logger: log}
}

// Report implements Reporter.
func (r *SlogReporter) Report(message string, isError bool) {
	if isError {
		r.logger.Error(message)
		return
	}
	r.logger.Info(message)
}

// Event is one recorded status message.
type Event struct {
	Message string
	IsError bool
}

// Recorder accumulates every reported event in memory. Safe for concurrent
// use; intended for tests and per-request response accumulation.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Report implements Reporter.
func (r *Recorder) Report(message string, isError bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Message: message, IsError: isError})
}

// Events returns a copy of everything reported so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// LastError returns the most recent error message, or "" when none was
// reported.
func (r *Recorder) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].IsError {
			return r.events[i].Message
		}
	}
	return ""
}

// Multi fans one report out to several reporters.
type Multi []Reporter

// Report implements Reporter.
func (m Multi) Report(message string, isError bool) {
	for _, r := range m {
		if r != nil {
			r.Report(message, isError)
		}
	}
}
