// Package sampler extracts randomly-timestamped still frames from a video,
// one ffmpeg invocation per frame.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/ideamans/go-l10n"

	"github.com/user/framepick/pkg/pipeline"
	"github.com/user/framepick/pkg/ports"
)

// DefaultQuality is the ffmpeg -q:v value used for JPEG output (2 is near
// the best quality ffmpeg's MJPEG encoder offers).
const DefaultQuality = 2

// DurationProber reports a video's duration in seconds.
type DurationProber interface {
	Duration(ctx context.Context, probePath, video string) (float64, error)
}

// Sampler implements pipeline.ExtractStage.
type Sampler struct {
	runner ports.CommandRunner
	prober DurationProber
	fs     ports.FileSystem

	naming  Naming
	quality int
	rand    func() float64
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithNaming selects the output naming scheme.
func WithNaming(n Naming) Option {
	return func(s *Sampler) { s.naming = n }
}

// WithQuality sets the ffmpeg -q:v value.
func WithQuality(q int) Option {
	return func(s *Sampler) { s.quality = q }
}

// WithRand replaces the uniform [0, 1) source used to draw timestamps.
func WithRand(f func() float64) Option {
	return func(s *Sampler) { s.rand = f }
}

// New creates a Sampler.
func New(runner ports.CommandRunner, prober DurationProber, fs ports.FileSystem, opts ...Option) *Sampler {
	s := &Sampler{
		runner:  runner,
		prober:  prober,
		fs:      fs,
		naming:  NamingCoded,
		quality: DefaultQuality,
		rand:    rand.Float64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute extracts in.FrameCount frames from in.Video.
//
// Handled failures (missing video, unknown duration) are reported through
// events and the result status, with a nil error. The returned error is
// reserved for filesystem failures creating the output directory.
//
// ctx is checked before each frame; a frame whose ffmpeg process has
// started always runs to completion.
func (s *Sampler) Execute(ctx context.Context, in pipeline.ExtractInput) (pipeline.VideoResult, error) {
	em := pipeline.NewEmitter(in.Events, in.Video)
	result := pipeline.VideoResult{
		Video:     in.Video,
		Requested: max(in.FrameCount, 0),
	}

	exists, err := s.fs.Exists(in.Video)
	if err != nil || !exists {
		em.Error(ports.EventVideoMissing, l10n.F("Error: the video file '%s' was not found.", in.Video))
		result.Status = pipeline.StatusMissing
		return result, nil
	}

	dir := OutputDir(in.OutputRoot, in.Video, s.naming)
	if err := s.ensureDir(em, dir); err != nil {
		result.Status = pipeline.StatusFailed
		result.Err = err.Error()
		return result, err
	}
	result.OutputDir = s.abs(dir)

	code := fallbackCode
	if s.naming == NamingCoded {
		var ok bool
		if code, ok = PrefixCode(in.Video); !ok {
			em.Warn(ports.EventPrefixFallback, l10n.F("Warning: could not extract 3 digits from the video name. Using '%s' as the default.", fallbackCode))
		}
	}

	// Invocations are never pre-empted; only the loop below observes ctx.
	runCtx := context.WithoutCancel(ctx)

	duration, err := s.prober.Duration(runCtx, in.Tools.Probe, in.Video)
	if err != nil {
		em.Error(ports.EventProbeFailed, err.Error())
		em.Error(ports.EventProbeFailed, l10n.T("Could not determine the video duration. Aborting random extraction."))
		result.Status = pipeline.StatusProbeFailed
		return result, nil
	}
	result.Duration = duration

	em.Info(ports.EventDuration, l10n.F("Video duration: %.2f seconds.", duration))
	em.Info(ports.EventDuration, l10n.F("Extracting %d random frames...", result.Requested))

	result.Status = pipeline.StatusCompleted
	for i := 1; i <= in.FrameCount; i++ {
		if ctx.Err() != nil {
			em.Warn(ports.EventCancelled, l10n.T("Extraction interrupted by the user."))
			result.Status = pipeline.StatusCancelled
			break
		}

		ts := Timestamp(duration, s.rand())
		job := pipeline.ExtractionJob{
			Video:            in.Video,
			OutputDir:        dir,
			FrameIndex:       i,
			TimestampSeconds: ts,
			Destination:      filepath.Join(dir, FileName(s.naming, code, i, ts)),
		}

		outcome := s.extract(runCtx, em, in.Tools.Transcoder, job)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Succeeded {
			result.Succeeded++
		}
	}

	em.Info(ports.EventVideoSummary, l10n.F("Random extraction finished. %d of %d frames saved in: %s",
		result.Succeeded, result.Requested, result.OutputDir))
	return result, nil
}

// extract runs one job. Failures are logged and recorded, never returned.
func (s *Sampler) extract(ctx context.Context, em pipeline.Emitter, transcoder string, job pipeline.ExtractionJob) pipeline.ExtractionOutcome {
	i := job.FrameIndex
	outcome := pipeline.ExtractionOutcome{
		FrameIndex:       i,
		TimestampSeconds: job.TimestampSeconds,
		Destination:      job.Destination,
	}

	em.Frame(ports.LevelInfo, ports.EventFrameStarted, i,
		l10n.F("Extracting random frame at %.2fs to '%s'", job.TimestampSeconds, job.Destination))

	args := TranscoderArgs(job.Video, job.Destination, job.TimestampSeconds, s.quality)
	_, err := s.runner.Run(ctx, transcoder, args...)
	if err == nil {
		outcome.Succeeded = true
		em.Frame(ports.LevelDebug, ports.EventFrameSaved, i, l10n.F("Frame %d saved", i))
		return outcome
	}

	command := ports.CommandLine(transcoder, args...)
	outcome.ErrorDetail = err.Error()

	var exitErr *ports.ExitError
	if !errors.As(err, &exitErr) {
		em.Frame(ports.LevelError, ports.EventFrameFailed, i, l10n.F("An unexpected error occurred while extracting the frame: %s", err))
		em.Frame(ports.LevelError, ports.EventFrameFailed, i, l10n.F("Command: %s", command))
		return outcome
	}

	em.Frame(ports.LevelError, ports.EventFrameFailed, i,
		l10n.F("An error occurred while extracting the frame at %.2fs.", job.TimestampSeconds))
	em.Frame(ports.LevelError, ports.EventFrameFailed, i, l10n.F("Command: %s", command))
	if out := strings.TrimSpace(exitErr.Stdout); out != "" {
		em.Frame(ports.LevelError, ports.EventFrameFailed, i, l10n.F("--- Output (stdout) ---\n%s", out))
	}
	if stderr := strings.TrimSpace(exitErr.Stderr); stderr != "" {
		em.Frame(ports.LevelError, ports.EventFrameFailed, i, l10n.F("--- Error (stderr) ---\n%s", stderr))
		outcome.ErrorDetail = fmt.Sprintf("%s: %s", err, lastLine(stderr))
	} else {
		em.Frame(ports.LevelError, ports.EventFrameFailed, i, l10n.T("No specific error output was captured (stderr was empty)."))
	}
	return outcome
}

func (s *Sampler) ensureDir(em pipeline.Emitter, dir string) error {
	exists, err := s.fs.Exists(dir)
	if err == nil && exists {
		return nil
	}
	em.Info(ports.EventDirCreated, l10n.F("Creating output directory: %s", dir))
	if err := s.fs.MkdirAll(dir); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return nil
}

func (s *Sampler) abs(dir string) string {
	if abs, err := s.fs.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// lastLine returns the last non-empty line of s; ffmpeg prints the reason
// for a failure last.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// Ensure Sampler implements pipeline.ExtractStage
var _ pipeline.ExtractStage = (*Sampler)(nil)
