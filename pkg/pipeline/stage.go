// Package pipeline holds the stage abstraction and the data model shared by
// the frame sampler and the batch runner.
package pipeline

import (
	"context"
)

// Stage processes one unit of work.
type Stage[In, Out any] interface {
	// Execute runs the stage with the given input and returns the output.
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc is a function adapter for Stage interface.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute implements Stage interface.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}

// ExtractStage is the stage the batch runner drives once per queued video.
type ExtractStage = Stage[ExtractInput, VideoResult]
