package mocks

import (
	"context"
	"sync"

	"github.com/user/framepick/pkg/ports"
)

// Call records one invocation made through CommandRunner.
type Call struct {
	Name string
	Args []string
}

// CommandRunner is a mock implementation of ports.CommandRunner.
// Without RunFunc every invocation succeeds with empty output.
type CommandRunner struct {
	RunFunc func(ctx context.Context, name string, args ...string) (ports.CommandResult, error)

	mu    sync.Mutex
	calls []Call
}

func (m *CommandRunner) Run(ctx context.Context, name string, args ...string) (ports.CommandResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Name: name, Args: append([]string(nil), args...)})
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, name, args...)
	}
	return ports.CommandResult{}, nil
}

// Calls returns a copy of all recorded invocations.
func (m *CommandRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallsTo returns the recorded invocations of the named executable.
func (m *CommandRunner) CallsTo(name string) []Call {
	var result []Call
	for _, c := range m.Calls() {
		if c.Name == name {
			result = append(result, c)
		}
	}
	return result
}

var _ ports.CommandRunner = (*CommandRunner)(nil)
