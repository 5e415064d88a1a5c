package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

const timeLayout = time.RFC3339

// Level names as they appear in the output.
const (
	LevelVerbose = "DEBUG"
	LevelInfo    = "INFO"
	LevelWarn    = "WARN"
	LevelError   = "ERROR"
	LevelFatal   = "FATAL"
)

// ConsoleLogger writes log lines of the form
//
//	2026-10-17T09:30:00Z INFO  [run 1f0c2a9e] Found 3 files to process
//
// Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	out     io.Writer
	verbose bool
	runID   string
	now     func() time.Time
	mu      sync.Mutex
}

// NewConsoleLogger creates a ConsoleLogger writing to stderr with a fresh run id.
// If verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stderr, verbose, NewRunID())
}

// NewConsoleLoggerTo creates a ConsoleLogger writing to out.
// An empty runID omits the run tag.
func NewConsoleLoggerTo(out io.Writer, verbose bool, runID string) *ConsoleLogger {
	return &ConsoleLogger{
		out:     out,
		verbose: verbose,
		runID:   runID,
		now:     time.Now,
	}
}

// NewRunID returns a short identifier for tagging one run's log lines.
func NewRunID() string {
	return uuid.NewString()[:8]
}

// RunID returns the id this logger tags lines with.
func (l *ConsoleLogger) RunID() string {
	return l.runID
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write(LevelVerbose, format, args)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, format, args)
}

// Warn logs conditions that deserve attention.
func (l *ConsoleLogger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write(LevelError, format, args)
}

// Fatal logs the error that ends the run. It does not exit.
func (l *ConsoleLogger) Fatal(format string, args ...interface{}) {
	l.write(LevelFatal, format, args)
}

func (l *ConsoleLogger) write(level, format string, args []interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now().UTC().Format(timeLayout)
	if l.runID == "" {
		fmt.Fprintf(l.out, "%s %-5s %s\n", ts, level, msg)
		return
	}
	fmt.Fprintf(l.out, "%s %-5s [run %s] %s\n", ts, level, l.runID, msg)
}
