// Package probe reads a video's container duration with ffprobe.
package probe

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/ideamans/go-l10n"

	"github.com/user/framepick/pkg/ports"
)

// ErrorKind classifies a probe failure.
type ErrorKind int

const (
	// KindExit means ffprobe ran and exited with a non-zero status.
	KindExit ErrorKind = iota
	// KindParse means ffprobe succeeded but printed no usable number.
	KindParse
	// KindInvoke means ffprobe could not be run at all.
	KindInvoke
)

// Error describes why a duration could not be obtained. Its message is a
// complete, localized log line.
type Error struct {
	Kind   ErrorKind
	Video  string
	Output string // stderr for KindExit, stdout for KindParse
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindExit:
		return l10n.F("Error getting the video duration with ffprobe: %s", strings.TrimSpace(e.Output))
	case KindParse:
		return l10n.F("Could not convert the duration to a number: %s", strings.TrimSpace(e.Output))
	default:
		return l10n.F("Unexpected error getting the video duration: %s", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Prober runs ffprobe through a CommandRunner.
type Prober struct {
	runner ports.CommandRunner
}

// New creates a new Prober.
func New(runner ports.CommandRunner) *Prober {
	return &Prober{runner: runner}
}

// Args returns the ffprobe arguments asking for the format-level duration
// only, printed as a bare number. The video is passed through -i so a name
// starting with a dash is not read as an option.
func Args(video string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"-i", video,
	}
}

// Duration returns the duration of video in seconds. Every failure is
// returned as a *Error; zero is a valid duration.
func (p *Prober) Duration(ctx context.Context, probePath, video string) (float64, error) {
	res, err := p.runner.Run(ctx, probePath, Args(video)...)
	if err != nil {
		var exitErr *ports.ExitError
		if errors.As(err, &exitErr) {
			return 0, &Error{Kind: KindExit, Video: video, Output: exitErr.Stderr, Err: err}
		}
		return 0, &Error{Kind: KindInvoke, Video: video, Err: err}
	}

	raw := strings.TrimSpace(res.Stdout)
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &Error{Kind: KindParse, Video: video, Output: raw, Err: err}
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, &Error{Kind: KindParse, Video: video, Output: raw, Err: strconv.ErrRange}
	}
	return seconds, nil
}
