// Package batch runs a queue of videos through the frame sampler, one at a
// time, with cooperative stop and an ordered event stream.
package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ideamans/go-l10n"

	"github.com/user/framepick/pkg/pipeline"
	"github.com/user/framepick/pkg/ports"
	"github.com/user/framepick/pkg/toolchain"
)

// eventBuffer is the capacity of the channel returned by Start.
const eventBuffer = 256

// State is the lifecycle state of a Runner.
type State int

const (
	Idle State = iota
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Request describes one run over the current queue.
type Request struct {
	OutputRoot string
	FrameCount int
	Tools      pipeline.Toolchain

	// ToolCheck, when set, is announced before the first video so the
	// stream opens with the tool-check lines.
	ToolCheck *toolchain.Resolution
}

// Report summarizes a finished run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	Videos []pipeline.VideoResult

	// Remaining lists the videos still queued after a stop. They stay in
	// the Queue until the caller clears it or starts another run.
	Remaining []string
	Stopped   bool
}

// Requested returns the number of frames requested across all videos.
func (r Report) Requested() int {
	n := 0
	for _, v := range r.Videos {
		n += v.Requested
	}
	return n
}

// Succeeded returns the number of frames saved across all videos.
func (r Report) Succeeded() int {
	n := 0
	for _, v := range r.Videos {
		n += v.Succeeded
	}
	return n
}

// Runner drains its Queue through an extraction stage.
type Runner struct {
	stage pipeline.ExtractStage
	queue *Queue
	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc // current video
	events *sequencer         // current run
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces time.Now for event and report timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithIDGenerator replaces the run ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(r *Runner) { r.newID = newID }
}

// New creates a Runner with an empty queue.
func New(stage pipeline.ExtractStage, opts ...Option) *Runner {
	r := &Runner{
		stage: stage,
		queue: &Queue{},
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Queue returns the queue consumed by runs.
func (r *Runner) Queue() *Queue {
	return r.queue
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Run validates req and processes the queue synchronously, sending every
// event to sink. Validation failures return a *ValidationError and leave
// the queue untouched.
func (r *Runner) Run(ctx context.Context, req Request, sink ports.EventSink) (Report, error) {
	seq, err := r.begin(req, sink)
	if err != nil {
		return Report{}, err
	}
	return r.run(ctx, req, seq), nil
}

// Start validates req and processes the queue on a new goroutine. The event
// channel is closed after the final "queue finished" event; the report
// channel then yields exactly one Report. The caller must keep receiving
// events until the channel is closed.
func (r *Runner) Start(ctx context.Context, req Request) (<-chan ports.Event, <-chan Report, error) {
	events := make(chan ports.Event, eventBuffer)
	reports := make(chan Report, 1)

	seq, err := r.begin(req, ports.EventSinkFunc(func(e ports.Event) { events <- e }))
	if err != nil {
		return nil, nil, err
	}

	go func() {
		report := r.run(ctx, req, seq)
		close(events)
		reports <- report
		close(reports)
	}()
	return events, reports, nil
}

// Stop asks the current run to end: the current video stops at its next
// frame boundary and no further video is started. Queued videos are left in
// the Queue. Stop never waits on event delivery and is a no-op when no run
// is active.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Running || r.events == nil {
		return
	}
	r.state = Stopping
	if r.cancel != nil {
		r.cancel()
	}

	// Posted under the lock so the line stays ahead of "queue finished";
	// the run goroutine delivers it with its next event.
	pipeline.NewEmitter(ports.EventSinkFunc(r.events.post), "").Warn(ports.EventStopRequested, l10n.T("Stop signal sent..."))
}

func (r *Runner) begin(req Request, sink ports.EventSink) (*sequencer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.validate(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	seq := &sequencer{
		sink:  sink,
		runID: r.newID(),
		now:   r.now,
	}
	r.state = Running
	r.events = seq
	r.queue.setBusy(true)
	return seq, nil
}

func (r *Runner) validate(req Request) error {
	switch {
	case r.state != Idle:
		return ErrAlreadyRunning
	case r.queue.Len() == 0:
		return ErrEmptyQueue
	case strings.TrimSpace(req.OutputRoot) == "":
		return ErrNoOutputDir
	case !req.Tools.Complete():
		return ErrToolsUnresolved
	case req.FrameCount < 0:
		return ErrInvalidFrameCount
	}
	return nil
}

func (r *Runner) run(ctx context.Context, req Request, seq *sequencer) Report {
	report := Report{
		RunID:     seq.runID,
		StartedAt: r.now(),
	}
	em := pipeline.NewEmitter(seq, "")

	if req.ToolCheck != nil {
		toolchain.Announce(seq, *req.ToolCheck)
	}

	for {
		if r.stopping() || ctx.Err() != nil {
			report.Stopped = true
			break
		}
		video, ok := r.queue.dequeue()
		if !ok {
			break
		}
		report.Videos = append(report.Videos, r.extract(ctx, req, seq, video))
	}

	if report.Stopped {
		report.Remaining = r.queue.Items()
		if n := len(report.Remaining); n > 0 {
			em.Warn(ports.EventQueueRemaining, l10n.F("%d videos remain in the queue.", n))
		}
	}

	// Stop requests arriving from here on have nothing left to stop.
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()

	em.Info(ports.EventQueueFinished, l10n.T("--- Extraction queue finished ---"))
	report.FinishedAt = r.now()

	r.mu.Lock()
	r.state = Idle
	r.cancel = nil
	r.queue.setBusy(false)
	r.mu.Unlock()
	return report
}

// extract runs one video under its own cancellable context.
func (r *Runner) extract(ctx context.Context, req Request, seq *sequencer, video string) pipeline.VideoResult {
	em := pipeline.NewEmitter(seq, video)
	em.Info(ports.EventVideoStarted, l10n.F("--- Starting extraction for: %s ---", video))

	videoCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if !r.track(cancel) {
		cancel()
	}
	defer r.track(nil)

	result, err := r.stage.Execute(videoCtx, pipeline.ExtractInput{
		Video:      video,
		OutputRoot: req.OutputRoot,
		FrameCount: req.FrameCount,
		Tools:      req.Tools,
		Events:     seq,
	})
	if err != nil {
		em.Error(ports.EventVideoFailed, l10n.F("Extraction of '%s' failed: %s", video, err))
		result.Video = video
		result.Requested = max(req.FrameCount, 0)
		result.Status = pipeline.StatusFailed
		result.Err = err.Error()
	}
	return result
}

// track records the cancel function of the current video. It reports false
// when a stop was already requested, in which case the video starts
// cancelled.
func (r *Runner) track(cancel context.CancelFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel = cancel
	return r.state != Stopping
}

func (r *Runner) stopping() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == Stopping
}

// sequencer stamps events with the run ID, a timestamp and a sequence
// number, and delivers them in that order. Only one goroutine delivers at a
// time; events emitted meanwhile, including from inside the sink, are queued
// and delivered by it.
type sequencer struct {
	sink  ports.EventSink
	runID string
	now   func() time.Time

	mu         sync.Mutex
	seq        uint64
	pending    []ports.Event
	delivering bool
}

func (s *sequencer) Emit(e ports.Event) {
	s.mu.Lock()
	s.stamp(e)
	if s.delivering {
		s.mu.Unlock()
		return
	}

	s.delivering = true
	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()
		if s.sink != nil {
			s.sink.Emit(next)
		}
		s.mu.Lock()
	}
	s.delivering = false
	s.mu.Unlock()
}

// post stamps e and queues it without delivering. The next Emit delivers it
// ahead of its own event.
func (s *sequencer) post(e ports.Event) {
	s.mu.Lock()
	s.stamp(e)
	s.mu.Unlock()
}

func (s *sequencer) stamp(e ports.Event) {
	s.seq++
	e.Seq = s.seq
	e.RunID = s.runID
	e.Time = s.now()
	s.pending = append(s.pending, e)
}
