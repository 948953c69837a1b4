package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/framepick/pkg/mocks"
	"github.com/user/framepick/pkg/pipeline"
	"github.com/user/framepick/pkg/ports"
	"github.com/user/framepick/pkg/probe"
	"github.com/user/framepick/pkg/sampler"
	"github.com/user/framepick/pkg/toolchain"
)

var tools = pipeline.Toolchain{Transcoder: "ffmpeg", Probe: "ffprobe"}

// recordingStage is a fake extraction stage.
type recordingStage struct {
	mu     sync.Mutex
	videos []string

	// run, when set, replaces the default successful result.
	run func(ctx context.Context, in pipeline.ExtractInput) (pipeline.VideoResult, error)
}

func (s *recordingStage) Execute(ctx context.Context, in pipeline.ExtractInput) (pipeline.VideoResult, error) {
	s.mu.Lock()
	s.videos = append(s.videos, in.Video)
	s.mu.Unlock()
	if s.run != nil {
		return s.run(ctx, in)
	}
	return pipeline.VideoResult{
		Video:     in.Video,
		Requested: in.FrameCount,
		Succeeded: in.FrameCount,
		Status:    pipeline.StatusCompleted,
	}, nil
}

func (s *recordingStage) Videos() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.videos...)
}

func validRequest() Request {
	return Request{OutputRoot: "frames", FrameCount: 2, Tools: tools}
}

// newSamplerRunner wires a Runner to a real sampler backed by mocks. Every
// ffprobe call reports a 60 second duration.
func newSamplerRunner(videos ...string) (*Runner, *mocks.CommandRunner) {
	fs := mocks.NewFileSystem()
	for _, v := range videos {
		fs.AddFile(v)
	}
	cmd := &mocks.CommandRunner{}
	cmd.RunFunc = func(ctx context.Context, name string, args ...string) (ports.CommandResult, error) {
		if name == "ffprobe" {
			return ports.CommandResult{Stdout: "60.000000\n"}, nil
		}
		return ports.CommandResult{}, nil
	}
	s := sampler.New(cmd, probe.New(cmd), fs)
	return New(s), cmd
}

func TestRunner_Validation(t *testing.T) {
	tests := []struct {
		name    string
		queue   []string
		modify  func(*Request)
		wantErr error
	}{
		{"empty queue", nil, func(r *Request) {}, ErrEmptyQueue},
		{"blank output", []string{"a.mp4"}, func(r *Request) { r.OutputRoot = "  " }, ErrNoOutputDir},
		{"missing transcoder", []string{"a.mp4"}, func(r *Request) { r.Tools.Transcoder = "" }, ErrToolsUnresolved},
		{"missing probe", []string{"a.mp4"}, func(r *Request) { r.Tools.Probe = "" }, ErrToolsUnresolved},
		{"negative frames", []string{"a.mp4"}, func(r *Request) { r.FrameCount = -1 }, ErrInvalidFrameCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := &recordingStage{}
			r := New(stage)
			require.NoError(t, r.Queue().Enqueue(tt.queue...))

			req := validRequest()
			tt.modify(&req)
			rec := &mocks.EventRecorder{}

			_, err := r.Run(context.Background(), req, rec)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)

			assert.Empty(t, stage.Videos())
			assert.Empty(t, rec.Events())
			assert.Equal(t, tt.queue, nilIfEmpty(r.Queue().Items()))
			assert.Equal(t, Idle, r.State())
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestRunner_ZeroFramesIsValid(t *testing.T) {
	stage := &recordingStage{}
	r := New(stage)
	require.NoError(t, r.Queue().Enqueue("a.mp4"))

	req := validRequest()
	req.FrameCount = 0
	report, err := r.Run(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Len(t, report.Videos, 1)
}

func TestRunner_ProcessesQueueInOrder(t *testing.T) {
	stage := &recordingStage{}
	r := New(stage)
	require.NoError(t, r.Queue().Enqueue("c.mp4", "a.mp4", "b.mp4"))

	report, err := r.Run(context.Background(), validRequest(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"c.mp4", "a.mp4", "b.mp4"}, stage.Videos())
	require.Len(t, report.Videos, 3)
	assert.Equal(t, "c.mp4", report.Videos[0].Video)
	assert.False(t, report.Stopped)
	assert.Empty(t, report.Remaining)
	assert.Equal(t, 6, report.Requested())
	assert.Equal(t, 6, report.Succeeded())
	assert.Zero(t, r.Queue().Len())
	assert.Equal(t, Idle, r.State())
}

func TestRunner_QueueScenario(t *testing.T) {
	a := filepath.Join("videos", "A001.mp4")
	b := filepath.Join("videos", "B002.mp4")
	r, cmd := newSamplerRunner(a, b)
	require.NoError(t, r.Queue().Enqueue(a, b))

	req := validRequest()
	req.ToolCheck = &toolchain.Resolution{Paths: tools, Source: toolchain.SourceSearchPath}
	rec := &mocks.EventRecorder{}

	report, err := r.Run(context.Background(), req, rec)
	require.NoError(t, err)

	assert.Len(t, cmd.CallsTo("ffmpeg"), 4)
	assert.Len(t, cmd.CallsTo("ffprobe"), 2)

	events := rec.Events()
	require.NotEmpty(t, events)

	// Tool-check lines open the stream.
	assert.Equal(t, ports.EventToolCheck, events[0].Kind)
	firstVideo := -1
	for i, e := range events {
		if e.Kind == ports.EventVideoStarted {
			firstVideo = i
			break
		}
		assert.Equal(t, ports.EventToolCheck, e.Kind)
	}
	require.Positive(t, firstVideo)

	// Video A's lines all come before video B starts.
	var order []string
	for _, e := range events[firstVideo:] {
		if e.Video != "" && (len(order) == 0 || order[len(order)-1] != e.Video) {
			order = append(order, e.Video)
		}
	}
	assert.Equal(t, []string{a, b}, order)

	// Per video: started, directory, duration, frames in order, summary.
	var kindsA []ports.EventKind
	for _, e := range events {
		if e.Video == a {
			kindsA = append(kindsA, e.Kind)
		}
	}
	assert.Equal(t, []ports.EventKind{
		ports.EventVideoStarted,
		ports.EventDirCreated,
		ports.EventDuration,
		ports.EventDuration,
		ports.EventFrameStarted,
		ports.EventFrameSaved,
		ports.EventFrameStarted,
		ports.EventFrameSaved,
		ports.EventVideoSummary,
	}, kindsA)

	last := events[len(events)-1]
	assert.Equal(t, ports.EventQueueFinished, last.Kind)

	// Stamped by the runner.
	for i, e := range events {
		assert.Equal(t, uint64(i+1), e.Seq)
		assert.Equal(t, report.RunID, e.RunID)
		assert.False(t, e.Time.IsZero())
	}
	assert.NotEmpty(t, report.RunID)

	require.Len(t, report.Videos, 2)
	for _, v := range report.Videos {
		assert.Equal(t, 2, v.Succeeded)
		assert.Equal(t, pipeline.StatusCompleted, v.Status)
	}
}

func TestRunner_StopDuringVideo(t *testing.T) {
	r, cmd := newSamplerRunner("a.mp4", "b.mp4", "c.mp4")
	require.NoError(t, r.Queue().Enqueue("a.mp4", "b.mp4", "c.mp4"))

	var frames int
	cmd.RunFunc = func(ctx context.Context, name string, args ...string) (ports.CommandResult, error) {
		if name == "ffprobe" {
			return ports.CommandResult{Stdout: "60\n"}, nil
		}
		frames++
		if frames == 2 {
			assert.Equal(t, Running, r.State())
			r.Stop()
			assert.Equal(t, Stopping, r.State())
		}
		return ports.CommandResult{}, nil
	}

	rec := &mocks.EventRecorder{}
	req := validRequest()
	req.FrameCount = 10
	report, err := r.Run(context.Background(), req, rec)
	require.NoError(t, err)

	// The running frame finishes, nothing else is extracted.
	assert.Len(t, cmd.CallsTo("ffmpeg"), 2)
	require.Len(t, report.Videos, 1)
	assert.Equal(t, pipeline.StatusCancelled, report.Videos[0].Status)
	assert.Equal(t, 2, report.Videos[0].Succeeded)

	assert.True(t, report.Stopped)
	assert.Equal(t, []string{"b.mp4", "c.mp4"}, report.Remaining)
	assert.Equal(t, []string{"b.mp4", "c.mp4"}, r.Queue().Items(), "stop keeps the queue")
	assert.Equal(t, Idle, r.State())

	kinds := rec.Kinds()
	assert.Equal(t, ports.EventQueueFinished, kinds[len(kinds)-1])
	assert.Len(t, rec.OfKind(ports.EventStopRequested), 1)
	assert.Len(t, rec.OfKind(ports.EventCancelled), 1)
	assert.Len(t, rec.OfKind(ports.EventQueueRemaining), 1)
	assert.Len(t, rec.OfKind(ports.EventVideoStarted), 1)

	// A new run picks up where the stopped one left off.
	report, err = r.Run(context.Background(), validRequest(), nil)
	require.NoError(t, err)
	assert.False(t, report.Stopped)
	require.Len(t, report.Videos, 2)
	assert.Equal(t, "b.mp4", report.Videos[0].Video)
	assert.Equal(t, "c.mp4", report.Videos[1].Video)
	assert.Zero(t, r.Queue().Len())
}

func TestRunner_StopThenClear(t *testing.T) {
	stage := &recordingStage{}
	r := New(stage)
	stage.run = func(ctx context.Context, in pipeline.ExtractInput) (pipeline.VideoResult, error) {
		r.Stop()
		return pipeline.VideoResult{Video: in.Video, Status: pipeline.StatusCancelled}, nil
	}
	require.NoError(t, r.Queue().Enqueue("a.mp4", "b.mp4"))

	report, err := r.Run(context.Background(), validRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.mp4"}, report.Remaining)

	r.Queue().Clear()
	_, err = r.Run(context.Background(), validRequest(), nil)
	assert.ErrorIs(t, err, ErrEmptyQueue)
	assert.Equal(t, []string{"a.mp4"}, stage.Videos())
}

func TestRunner_StopFromSink(t *testing.T) {
	r, cmd := newSamplerRunner("a.mp4", "b.mp4")
	require.NoError(t, r.Queue().Enqueue("a.mp4", "b.mp4"))

	rec := &mocks.EventRecorder{}
	rec.OnEmit = func(e ports.Event) {
		if e.Kind == ports.EventFrameSaved && e.Frame == 1 {
			r.Stop()
		}
	}

	req := validRequest()
	req.FrameCount = 5
	report, err := r.Run(context.Background(), req, rec)
	require.NoError(t, err)

	assert.Len(t, cmd.CallsTo("ffmpeg"), 1)
	assert.True(t, report.Stopped)
	assert.Equal(t, []string{"b.mp4"}, report.Remaining)
	assert.Equal(t, []string{"b.mp4"}, r.Queue().Items())

	events := rec.Events()
	for i, e := range events {
		assert.Equal(t, uint64(i+1), e.Seq, "delivery follows sequence")
	}
}

func TestRunner_StopWhenIdleIsNoop(t *testing.T) {
	r := New(&recordingStage{})
	r.Stop()
	assert.Equal(t, Idle, r.State())

	require.NoError(t, r.Queue().Enqueue("a.mp4"))
	report, err := r.Run(context.Background(), validRequest(), nil)
	require.NoError(t, err)
	assert.False(t, report.Stopped)
}

func TestRunner_ParentContextCancelled(t *testing.T) {
	stage := &recordingStage{}
	r := New(stage)
	require.NoError(t, r.Queue().Enqueue("a.mp4", "b.mp4"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &mocks.EventRecorder{}
	report, err := r.Run(ctx, validRequest(), rec)
	require.NoError(t, err)

	assert.Empty(t, stage.Videos())
	assert.True(t, report.Stopped)
	assert.Equal(t, []string{"a.mp4", "b.mp4"}, report.Remaining)
	assert.Equal(t, 2, r.Queue().Len())
	assert.Equal(t, ports.EventQueueFinished, rec.Kinds()[len(rec.Kinds())-1])
}

func TestRunner_StageErrorContinuesQueue(t *testing.T) {
	stage := &recordingStage{}
	stage.run = func(ctx context.Context, in pipeline.ExtractInput) (pipeline.VideoResult, error) {
		if in.Video == "a.mp4" {
			return pipeline.VideoResult{}, errors.New("create output directory: permission denied")
		}
		return pipeline.VideoResult{Video: in.Video, Status: pipeline.StatusCompleted}, nil
	}
	r := New(stage)
	require.NoError(t, r.Queue().Enqueue("a.mp4", "b.mp4"))

	rec := &mocks.EventRecorder{}
	report, err := r.Run(context.Background(), validRequest(), rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.mp4", "b.mp4"}, stage.Videos())
	require.Len(t, report.Videos, 2)
	assert.Equal(t, pipeline.StatusFailed, report.Videos[0].Status)
	assert.Equal(t, "a.mp4", report.Videos[0].Video)
	assert.Contains(t, report.Videos[0].Err, "permission denied")
	assert.Equal(t, pipeline.StatusCompleted, report.Videos[1].Status)

	failed := rec.OfKind(ports.EventVideoFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "a.mp4", failed[0].Video)
}

func TestRunner_PassesRequestToStage(t *testing.T) {
	var got pipeline.ExtractInput
	stage := &recordingStage{}
	stage.run = func(ctx context.Context, in pipeline.ExtractInput) (pipeline.VideoResult, error) {
		got = in
		return pipeline.VideoResult{Video: in.Video}, nil
	}
	r := New(stage)
	require.NoError(t, r.Queue().Enqueue("a.mp4"))

	_, err := r.Run(context.Background(), Request{OutputRoot: "out", FrameCount: 7, Tools: tools}, nil)
	require.NoError(t, err)

	assert.Equal(t, "a.mp4", got.Video)
	assert.Equal(t, "out", got.OutputRoot)
	assert.Equal(t, 7, got.FrameCount)
	assert.Equal(t, tools, got.Tools)
	assert.NotNil(t, got.Events)
}

func TestRunner_DeterministicStamps(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := New(&recordingStage{},
		WithClock(func() time.Time { return fixed }),
		WithIDGenerator(func() string { return "run-1" }),
	)
	require.NoError(t, r.Queue().Enqueue("a.mp4"))

	rec := &mocks.EventRecorder{}
	report, err := r.Run(context.Background(), validRequest(), rec)
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, fixed, report.StartedAt)
	assert.Equal(t, fixed, report.FinishedAt)
	for _, e := range rec.Events() {
		assert.Equal(t, "run-1", e.RunID)
		assert.Equal(t, fixed, e.Time)
	}
}

func TestRunner_AlreadyRunning(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	stage := &recordingStage{}
	stage.run = func(ctx context.Context, in pipeline.ExtractInput) (pipeline.VideoResult, error) {
		close(entered)
		<-release
		return pipeline.VideoResult{Video: in.Video}, nil
	}
	r := New(stage)
	require.NoError(t, r.Queue().Enqueue("a.mp4"))

	events, reports, err := r.Start(context.Background(), validRequest())
	require.NoError(t, err)
	<-entered

	_, err = r.Run(context.Background(), validRequest(), nil)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.ErrorIs(t, r.Queue().Enqueue("b.mp4"), ErrQueueBusy)

	close(release)
	for range events {
	}
	<-reports
	assert.Equal(t, Idle, r.State())
}

func TestRunner_Start(t *testing.T) {
	r, _ := newSamplerRunner("a.mp4", "b.mp4")
	require.NoError(t, r.Queue().Enqueue("a.mp4", "b.mp4"))

	events, reports, err := r.Start(context.Background(), validRequest())
	require.NoError(t, err)

	var got []ports.Event
	for e := range events {
		got = append(got, e)
	}
	require.NotEmpty(t, got)
	assert.Equal(t, ports.EventQueueFinished, got[len(got)-1].Kind)

	report, ok := <-reports
	require.True(t, ok)
	assert.Len(t, report.Videos, 2)
	_, ok = <-reports
	assert.False(t, ok, "exactly one report")
}

func TestRunner_StartStop(t *testing.T) {
	entered := make(chan struct{})
	stage := &recordingStage{}
	stage.run = func(ctx context.Context, in pipeline.ExtractInput) (pipeline.VideoResult, error) {
		close(entered)
		<-ctx.Done()
		return pipeline.VideoResult{Video: in.Video, Status: pipeline.StatusCancelled}, nil
	}
	r := New(stage)
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Queue().Enqueue(fmt.Sprintf("v%d.mp4", i)))
	}

	events, reports, err := r.Start(context.Background(), validRequest())
	require.NoError(t, err)
	<-entered
	r.Stop()

	var kinds []ports.EventKind
	for e := range events {
		kinds = append(kinds, e.Kind)
	}
	report := <-reports

	assert.Equal(t, []string{"v0.mp4"}, stage.Videos())
	assert.True(t, report.Stopped)
	assert.Equal(t, []string{"v1.mp4", "v2.mp4"}, report.Remaining)
	assert.Contains(t, kinds, ports.EventStopRequested)
	assert.Equal(t, ports.EventQueueFinished, kinds[len(kinds)-1])
}

// TestRunner_StopWithFullEventBuffer calls Stop from a caller that is not
// reading events while the channel returned by Start is full.
func TestRunner_StopWithFullEventBuffer(t *testing.T) {
	filled := make(chan struct{})
	stage := &recordingStage{}
	stage.run = func(ctx context.Context, in pipeline.ExtractInput) (pipeline.VideoResult, error) {
		em := pipeline.NewEmitter(in.Events, in.Video)
		// Together with the start line this fills the buffer.
		for i := 0; i < eventBuffer-1; i++ {
			em.Debug(ports.EventFrameStarted, "frame")
		}
		close(filled)
		<-ctx.Done()
		return pipeline.VideoResult{Video: in.Video, Status: pipeline.StatusCancelled}, nil
	}
	r := New(stage)
	require.NoError(t, r.Queue().Enqueue("a.mp4", "b.mp4"))

	events, reports, err := r.Start(context.Background(), validRequest())
	require.NoError(t, err)
	<-filled

	stopped := make(chan struct{})
	go func() {
		r.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a full event channel")
	}
	assert.Equal(t, Stopping, r.State())

	var last ports.Event
	var stops int
	var n uint64
	for e := range events {
		n++
		assert.Equal(t, n, e.Seq)
		if e.Kind == ports.EventStopRequested {
			stops++
		}
		last = e
	}
	report := <-reports

	assert.Equal(t, 1, stops)
	assert.Equal(t, ports.EventQueueFinished, last.Kind)
	assert.True(t, report.Stopped)
	assert.Equal(t, []string{"b.mp4"}, report.Remaining)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "stopping", Stopping.String())
}
