// Package memory provides the in-process event sink: an ordered, inspectable
// log used in development mode and by unit tests asserting notification
// behavior.
package memory

import (
	"context"
	"sync"

	"rollbook/internal/eventlog"
)

// Sink keeps appended events in order.
type Sink struct {
	mu     sync.RWMutex
	events []eventlog.Event
}

// NewSink creates an empty in-memory sink.
func NewSink() *Sink {
	return &Sink{}
}

// Append records the event at the end of the log.
func (s *Sink) Append(_ context.Context, event eventlog.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// List returns a copy of all recorded events in append order.
func (s *Sink) List() []eventlog.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]eventlog.Event, len(s.events))
	copy(out, s.events)
	return out
}

// OfKind returns recorded events of one kind, in append order.
func (s *Sink) OfKind(kind eventlog.Kind) []eventlog.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []eventlog.Event
	for _, e := range s.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of recorded events.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Reset clears the log. Use between tests to ensure isolation.
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
