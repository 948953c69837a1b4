// Package progress renders per-video frame progress bars from the event
// stream.
package progress

import (
	"io"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/user/framepick/pkg/ports"
)

// Sink draws one progress bar per video. A frame counts once it has been
// saved or has failed.
type Sink struct {
	w      io.Writer
	frames int

	mu         sync.Mutex
	bar        *progressbar.ProgressBar
	lastFailed int
}

// New creates a Sink for runs extracting frames frames per video.
func New(w io.Writer, frames int) *Sink {
	return &Sink{w: w, frames: frames}
}

// Emit implements ports.EventSink.
func (s *Sink) Emit(e ports.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e.Kind {
	case ports.EventVideoStarted:
		s.finish()
		s.bar = s.newBar(e.Video)
		s.lastFailed = 0
	case ports.EventFrameSaved:
		s.add()
	case ports.EventFrameFailed:
		// A failed frame produces several lines.
		if e.Frame != s.lastFailed {
			s.lastFailed = e.Frame
			s.add()
		}
	case ports.EventVideoSummary, ports.EventVideoMissing, ports.EventProbeFailed,
		ports.EventVideoFailed, ports.EventQueueFinished:
		s.finish()
	}
}

func (s *Sink) newBar(video string) *progressbar.ProgressBar {
	return progressbar.NewOptions(s.frames,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetDescription(filepath.Base(video)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(s.w, "\n") }),
	)
}

func (s *Sink) add() {
	if s.bar != nil {
		_ = s.bar.Add(1)
	}
}

// finish closes the current bar. A bar stopped early stays where it is.
func (s *Sink) finish() {
	if s.bar == nil {
		return
	}
	if !s.bar.IsFinished() {
		_ = s.bar.Exit()
		_, _ = io.WriteString(s.w, "\n")
	}
	s.bar = nil
}

var _ ports.EventSink = (*Sink)(nil)
