package linkupdater

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Every validation error wraps ErrInvalidConfig, so
//
//	if errors.Is(err, linkupdater.ErrInvalidConfig) {
//	    // the run never touched the filesystem
//	}
//
// holds for all of them.
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDirectoryNotFound indicates the root directory does not exist.
	ErrDirectoryNotFound = wrapConfig("directory does not exist")

	// ErrNotDirectory indicates the root path exists but is not a directory.
	ErrNotDirectory = wrapConfig("path is not a directory")

	// ErrInvalidIP indicates an IP string is not in dotted-quad shape.
	ErrInvalidIP = wrapConfig("invalid IP address format")

	// ErrSameIP indicates the old and new IP strings are identical.
	ErrSameIP = wrapConfig("old and new IP addresses are the same")

	// ErrNoExtensions indicates the extension set is empty after normalization.
	ErrNoExtensions = wrapConfig("no file extensions configured")

	// ErrBackupMismatch indicates a written backup does not match the original bytes.
	ErrBackupMismatch = errors.New("backup checksum mismatch")
)

type configError struct {
	msg string
}

func (e *configError) Error() string { return e.msg }

func (e *configError) Unwrap() error { return ErrInvalidConfig }

func wrapConfig(msg string) error {
	return &configError{msg: msg}
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, ExitUsageError (2) for cobra
// argument and flag errors, and ExitGeneralError (1) for everything else,
// validation failures included.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrInvalidConfig) {
		return ExitGeneralError
	}

	if isUsageError(err.Error()) {
		return ExitUsageError
	}

	return ExitGeneralError
}

// isUsageError matches the messages cobra and pflag produce for bad command lines.
func isUsageError(msg string) bool {
	for _, prefix := range []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"invalid argument",
		"required flag",
		"flag needs an argument",
		"accepts ",
		"requires at least",
		"missing required argument",
	} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
