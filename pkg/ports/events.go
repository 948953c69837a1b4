package ports

import (
	"fmt"
	"time"
)

// EventKind classifies an Event.
type EventKind string

const (
	EventToolCheck      EventKind = "tool_check"
	EventVideoStarted   EventKind = "video_started"
	EventVideoMissing   EventKind = "video_missing"
	EventDirCreated     EventKind = "dir_created"
	EventPrefixFallback EventKind = "prefix_fallback"
	EventProbeFailed    EventKind = "probe_failed"
	EventDuration       EventKind = "duration"
	EventFrameStarted   EventKind = "frame_started"
	EventFrameSaved     EventKind = "frame_saved"
	EventFrameFailed    EventKind = "frame_failed"
	EventCancelled      EventKind = "cancelled"
	EventVideoSummary   EventKind = "video_summary"
	EventVideoFailed    EventKind = "video_failed"
	EventStopRequested  EventKind = "stop_requested"
	EventQueueRemaining EventKind = "queue_remaining"
	EventQueueFinished  EventKind = "queue_finished"
)

// Event is one line of the ordered log stream produced by a run.
type Event struct {
	// Seq is assigned by the batch runner and increases by one per event.
	Seq   uint64
	RunID string
	Time  time.Time

	Level LogLevel
	Kind  EventKind

	// Video is the video being processed, empty for run-level events.
	Video string
	// Frame is the 1-based frame index for per-frame events, zero otherwise.
	Frame int

	// Message is the localized, human-readable line.
	Message string
}

// String formats the event as a single log line.
func (e Event) String() string {
	return fmt.Sprintf("[%s] %s", e.Level, e.Message)
}

// EventSink receives events in the order they occur.
type EventSink interface {
	Emit(e Event)
}

// EventSinkFunc is a function adapter for EventSink.
type EventSinkFunc func(e Event)

// Emit implements EventSink.
func (f EventSinkFunc) Emit(e Event) {
	f(e)
}
