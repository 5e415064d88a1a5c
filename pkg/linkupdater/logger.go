package linkupdater

// Logger provides a pluggable logging interface for update runs.
// One instance is owned by one run; there is no package-level logger.
type Logger interface {
	// Verbose logs detailed diagnostic information.
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	Info(format string, args ...interface{})

	// Warn logs conditions that are worth attention but not errors,
	// such as a run that matched no files.
	Warn(format string, args ...interface{})

	// Error logs recoverable errors. The run continues.
	Error(format string, args ...interface{})

	// Fatal logs the error that ends the run. It does not exit;
	// the caller owns the process exit code.
	Fatal(format string, args ...interface{})
}
