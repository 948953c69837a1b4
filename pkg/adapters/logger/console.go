// Package logger provides logging implementations.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"

	"github.com/user/framepick/pkg/ports"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// ConsoleLogger logs messages to the console with color support.
// Warnings and errors go to the error stream.
type ConsoleLogger struct {
	level     ports.LogLevel
	component string
	color     bool

	out    io.Writer
	errOut io.Writer
	mu     *sync.Mutex
}

// NewConsole creates a new console logger with the specified level.
// Color output is automatically enabled when stdout is a terminal.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	l := NewWriter(level, os.Stdout, os.Stderr)
	l.color = IsTerminal(os.Stdout)
	return l
}

// NewWriter creates an uncolored logger writing to out and errOut.
func NewWriter(level ports.LogLevel, out, errOut io.Writer) *ConsoleLogger {
	return &ConsoleLogger{
		level:  level,
		out:    out,
		errOut: errOut,
		mu:     &sync.Mutex{},
	}
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Debug logs a debug message.
func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	if l.level > ports.LevelDebug {
		return
	}
	l.log(ports.LevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	if l.level > ports.LevelInfo {
		return
	}
	l.log(ports.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	if l.level > ports.LevelWarn {
		return
	}
	l.log(ports.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	if l.level > ports.LevelError {
		return
	}
	l.log(ports.LevelError, msg, args...)
}

// WithComponent returns a new logger with the specified component name.
// The new logger shares the writers of its parent.
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	c := *l
	c.component = component
	return &c
}

// log outputs a log message with appropriate formatting.
func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args ...interface{}) {
	// Translate message using go-l10n
	translated := l10n.F(msg, args...)

	// Build output line
	var output string
	if l.component != "" {
		if l.color {
			output = fmt.Sprintf("%s[%s]%s %s", colorCyan, l.component, colorReset, translated)
		} else {
			output = fmt.Sprintf("[%s] %s", l.component, translated)
		}
	} else {
		output = translated
	}

	// Apply level-specific coloring
	if l.color {
		switch level {
		case ports.LevelDebug:
			output = colorGray + output + colorReset
		case ports.LevelWarn:
			output = colorYellow + output + colorReset
		case ports.LevelError:
			output = colorRed + output + colorReset
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if level >= ports.LevelWarn {
		fmt.Fprintln(l.errOut, output)
	} else {
		fmt.Fprintln(l.out, output)
	}
}

var _ ports.Logger = (*ConsoleLogger)(nil)
