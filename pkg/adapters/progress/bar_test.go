package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/framepick/pkg/ports"
)

func TestSink_CountsFrames(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, 3)

	s.Emit(ports.Event{Kind: ports.EventVideoStarted, Video: "/v/ep0042.mp4"})
	s.Emit(ports.Event{Kind: ports.EventFrameSaved, Frame: 1})
	s.Emit(ports.Event{Kind: ports.EventFrameFailed, Frame: 2})
	s.Emit(ports.Event{Kind: ports.EventFrameFailed, Frame: 2})
	s.Emit(ports.Event{Kind: ports.EventFrameFailed, Frame: 2})
	s.Emit(ports.Event{Kind: ports.EventFrameSaved, Frame: 3})
	s.Emit(ports.Event{Kind: ports.EventVideoSummary})

	out := buf.String()
	assert.Contains(t, out, "ep0042.mp4")
	assert.Contains(t, out, "3/3")
	assert.NotContains(t, out, "4/3")
}

func TestSink_IgnoresFramesWithoutVideo(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, 2)

	s.Emit(ports.Event{Kind: ports.EventFrameSaved, Frame: 1})
	s.Emit(ports.Event{Kind: ports.EventQueueFinished})

	assert.Empty(t, buf.String())
}

func TestSink_NewBarPerVideo(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, 1)

	s.Emit(ports.Event{Kind: ports.EventVideoStarted, Video: "a.mp4"})
	s.Emit(ports.Event{Kind: ports.EventFrameSaved, Frame: 1})
	s.Emit(ports.Event{Kind: ports.EventVideoStarted, Video: "b.mp4"})
	s.Emit(ports.Event{Kind: ports.EventQueueFinished})

	out := buf.String()
	assert.Contains(t, out, "a.mp4")
	assert.Contains(t, out, "b.mp4")
}
