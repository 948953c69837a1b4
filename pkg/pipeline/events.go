package pipeline

import (
	"time"

	"github.com/user/framepick/pkg/ports"
)

// Emitter builds events for one video (or none, for run-level events) and
// sends them to a sink. The zero value and a nil sink both discard.
type Emitter struct {
	sink  ports.EventSink
	video string
}

// NewEmitter creates an Emitter that tags events with video.
func NewEmitter(sink ports.EventSink, video string) Emitter {
	return Emitter{sink: sink, video: video}
}

// Debug emits a debug-level event.
func (e Emitter) Debug(kind ports.EventKind, msg string) {
	e.Frame(ports.LevelDebug, kind, 0, msg)
}

// Info emits an info-level event.
func (e Emitter) Info(kind ports.EventKind, msg string) {
	e.Frame(ports.LevelInfo, kind, 0, msg)
}

// Warn emits a warning-level event.
func (e Emitter) Warn(kind ports.EventKind, msg string) {
	e.Frame(ports.LevelWarn, kind, 0, msg)
}

// Error emits an error-level event.
func (e Emitter) Error(kind ports.EventKind, msg string) {
	e.Frame(ports.LevelError, kind, 0, msg)
}

// Frame emits an event about the given 1-based frame index.
func (e Emitter) Frame(level ports.LogLevel, kind ports.EventKind, frame int, msg string) {
	if e.sink == nil {
		return
	}
	e.sink.Emit(ports.Event{
		Time:    time.Now(),
		Level:   level,
		Kind:    kind,
		Video:   e.video,
		Frame:   frame,
		Message: msg,
	})
}
