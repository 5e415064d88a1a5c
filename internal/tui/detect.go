package tui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode represents how output should be presented.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and redirected output.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is watching the terminal.
	ModeInteractive
)

// DetectMode reports whether w is a terminal a human is likely watching.
//
// Returns ModeNonInteractive if:
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//   - w is not an *os.File attached to a terminal
//
// Returns ModeInteractive otherwise.
func DetectMode(w io.Writer) Mode {
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return ModeNonInteractive
	}

	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if w is an interactive terminal.
func IsInteractive(w io.Writer) bool {
	return DetectMode(w) == ModeInteractive
}
