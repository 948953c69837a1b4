package ports

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CommandResult holds the captured output of a finished child process.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner starts external executables and waits for them to finish.
//
// Implementations must not kill a child process once it has started: the
// context is only consulted before the process is spawned.
type CommandRunner interface {
	// Run executes name with args and returns its captured output.
	// A non-zero exit status is reported as an error alongside the result.
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

// ExitError reports a child process that ran but exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
	Stdout  string
	Stderr  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
}

// CommandLine renders name and args as a single shell-like line for logs.
// Arguments containing whitespace are quoted.
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{name}, args...) {
		if a == "" || strings.ContainsAny(a, " \t\"") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
