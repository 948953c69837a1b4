package summarizer

import (
	"time"

	"github.com/user/framepick/pkg/batch"
	"github.com/user/framepick/pkg/pipeline"
)

// Summary contains all data collected during an extraction run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Run information
	Run RunInfo

	// Extraction settings
	Settings Settings

	// Per-video results, in queue order
	Videos []VideoInfo

	// Videos dropped from the queue after a stop
	Remaining []string
}

// RunInfo identifies a run and its timing.
type RunInfo struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Stopped    bool
}

// Elapsed returns the wall-clock duration of the run.
func (r RunInfo) Elapsed() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Settings contains the extraction configuration.
type Settings struct {
	OutputRoot     string
	FramesPerVideo int
	Naming         string
	Quality        int
	Transcoder     string
	Probe          string
}

// VideoInfo contains the outcome for one video.
type VideoInfo struct {
	Path            string
	OutputDir       string
	DurationSeconds float64
	Requested       int
	Succeeded       int
	Attempted       int
	Status          string
	Error           string
}

// Totals returns the frames saved and requested across all videos.
func (s *Summary) Totals() (succeeded, requested int) {
	for _, v := range s.Videos {
		succeeded += v.Succeeded
		requested += v.Requested
	}
	return succeeded, requested
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithReport copies run information, video results and unprocessed videos
// from a batch report.
func (b *Builder) WithReport(report batch.Report) *Builder {
	b.summary.Run = RunInfo{
		ID:         report.RunID,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Stopped:    report.Stopped,
	}
	for _, v := range report.Videos {
		b.WithVideo(videoInfo(v))
	}
	b.summary.Remaining = append(b.summary.Remaining, report.Remaining...)
	return b
}

// WithSettings sets extraction settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithVideo appends the outcome of one video.
func (b *Builder) WithVideo(video VideoInfo) *Builder {
	b.summary.Videos = append(b.summary.Videos, video)
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

func videoInfo(r pipeline.VideoResult) VideoInfo {
	return VideoInfo{
		Path:            r.Video,
		OutputDir:       r.OutputDir,
		DurationSeconds: r.Duration,
		Requested:       r.Requested,
		Succeeded:       r.Succeeded,
		Attempted:       r.Attempted(),
		Status:          string(r.Status),
		Error:           r.Err,
	}
}
