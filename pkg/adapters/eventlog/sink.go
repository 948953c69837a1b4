// Package eventlog writes extraction events to a ports.Logger.
package eventlog

import (
	"github.com/user/framepick/pkg/ports"
)

// Sink forwards each event to the logger method matching its level.
type Sink struct {
	logger ports.Logger
}

// New creates a Sink.
func New(logger ports.Logger) *Sink {
	return &Sink{logger: logger}
}

// Emit implements ports.EventSink. Messages are already localized and are
// passed as arguments so that '%' in paths is printed verbatim.
func (s *Sink) Emit(e ports.Event) {
	switch e.Level {
	case ports.LevelDebug:
		s.logger.Debug("%s", e.Message)
	case ports.LevelWarn:
		s.logger.Warn("%s", e.Message)
	case ports.LevelError:
		s.logger.Error("%s", e.Message)
	default:
		s.logger.Info("%s", e.Message)
	}
}

// Multi fans an event out to several sinks, in order. Nil sinks are skipped.
type Multi []ports.EventSink

// Emit implements ports.EventSink.
func (m Multi) Emit(e ports.Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

var (
	_ ports.EventSink = (*Sink)(nil)
	_ ports.EventSink = Multi(nil)
)
