// Package report turns a finished run into output.
//
// Summarize always logs the summary block through the run's logger.
// Render adds an optional rendering on stdout: a lipgloss table for humans
// or YAML for scripts.
package report
