package pipeline

import (
	"path/filepath"

	"github.com/user/framepick/pkg/ports"
)

// =============================================================================
// Toolchain
// =============================================================================

// Toolchain holds the resolved locations of the two external executables.
// An empty field means the tool is unresolved.
type Toolchain struct {
	Transcoder string // ffmpeg
	Probe      string // ffprobe
}

// Complete reports whether both tools are resolved.
func (t Toolchain) Complete() bool {
	return t.Transcoder != "" && t.Probe != ""
}

// ViaSearchPath reports whether the transcoder was resolved by bare name,
// i.e. through the system PATH rather than a directory.
func (t Toolchain) ViaSearchPath() bool {
	return t.Transcoder != "" && filepath.Dir(t.Transcoder) == "." && filepath.Base(t.Transcoder) == t.Transcoder
}

// BinDir returns the directory holding the transcoder, or "" when it was
// resolved via the search path.
func (t Toolchain) BinDir() string {
	if t.Transcoder == "" || t.ViaSearchPath() {
		return ""
	}
	return filepath.Dir(t.Transcoder)
}

// =============================================================================
// Extraction
// =============================================================================

// ExtractInput contains everything the sampler needs for one video.
type ExtractInput struct {
	Video      string
	OutputRoot string
	FrameCount int
	Tools      Toolchain
	Events     ports.EventSink
}

// ExtractionJob is one planned frame extraction.
type ExtractionJob struct {
	Video            string
	OutputDir        string
	FrameIndex       int // 1-based
	TimestampSeconds float64
	Destination      string
}

// ExtractionOutcome is the result of running one ExtractionJob.
type ExtractionOutcome struct {
	FrameIndex       int
	TimestampSeconds float64
	Destination      string
	Succeeded        bool
	ErrorDetail      string
}

// VideoStatus describes how the extraction of one video ended.
type VideoStatus string

const (
	StatusCompleted   VideoStatus = "completed"
	StatusCancelled   VideoStatus = "cancelled"
	StatusMissing     VideoStatus = "missing"
	StatusProbeFailed VideoStatus = "probe_failed"
	StatusFailed      VideoStatus = "failed"
)

// VideoResult summarizes the extraction of one video.
type VideoResult struct {
	Video     string
	OutputDir string // absolute when known
	Duration  float64

	Requested int
	Succeeded int
	Outcomes  []ExtractionOutcome

	Status VideoStatus
	Err    string // set when Status is StatusFailed
}

// Attempted returns the number of transcoder invocations made.
func (r VideoResult) Attempted() int {
	return len(r.Outcomes)
}
