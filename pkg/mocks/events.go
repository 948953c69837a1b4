package mocks

import (
	"sync"

	"github.com/user/framepick/pkg/ports"
)

// EventRecorder is a ports.EventSink that keeps every event.
type EventRecorder struct {
	mu     sync.Mutex
	events []ports.Event

	// OnEmit, when set, is called after each event is recorded.
	OnEmit func(e ports.Event)
}

func (r *EventRecorder) Emit(e ports.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	if r.OnEmit != nil {
		r.OnEmit(e)
	}
}

// Events returns a copy of the recorded events.
func (r *EventRecorder) Events() []ports.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.Event(nil), r.events...)
}

// Kinds returns the kind of each recorded event, in order.
func (r *EventRecorder) Kinds() []ports.EventKind {
	var kinds []ports.EventKind
	for _, e := range r.Events() {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// OfKind returns the recorded events of the given kind.
func (r *EventRecorder) OfKind(kind ports.EventKind) []ports.Event {
	var result []ports.Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}

var _ ports.EventSink = (*EventRecorder)(nil)
