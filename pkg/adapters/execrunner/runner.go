// Package execrunner runs external executables with os/exec.
package execrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/user/framepick/pkg/ports"
)

// Runner implements ports.CommandRunner.
//
// Processes are started with exec.Command rather than exec.CommandContext:
// a started invocation always runs to completion, cancellation only
// prevents new ones from being spawned.
type Runner struct{}

// New creates a new Runner.
func New() *Runner {
	return &Runner{}
}

// Run executes name with args, capturing stdout and stderr.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (ports.CommandResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.CommandResult{ExitCode: -1}, err
	}

	cmd := exec.Command(name, args...)
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ports.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, &ports.ExitError{
			Command: ports.CommandLine(name, args...),
			Code:    result.ExitCode,
			Stdout:  result.Stdout,
			Stderr:  result.Stderr,
		}
	}

	result.ExitCode = -1
	return result, fmt.Errorf("start %s: %w", name, err)
}

// Ensure Runner implements ports.CommandRunner
var _ ports.CommandRunner = (*Runner)(nil)
