package batch

import "errors"

// Validation failures. Run and Start wrap them in *ValidationError.
var (
	ErrEmptyQueue        = errors.New("the video queue is empty")
	ErrNoOutputDir       = errors.New("no output directory was specified")
	ErrToolsUnresolved   = errors.New("ffmpeg/ffprobe paths are not set")
	ErrInvalidFrameCount = errors.New("frame count must not be negative")
	ErrAlreadyRunning    = errors.New("an extraction run is already in progress")
)

// ErrQueueBusy is returned when the queue is mutated during a run.
var ErrQueueBusy = errors.New("the queue cannot be changed while a run is in progress")

// ValidationError reports a request rejected before any work started.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid extraction request: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
