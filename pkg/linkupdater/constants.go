package linkupdater

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3: Panic
const (
	ExitSuccess      = 0 // Run completed, including runs that matched no files
	ExitGeneralError = 1 // Validation failure or unclassified error
	ExitUsageError   = 2 // CLI usage error (missing args, invalid flags)
	ExitPanic        = 3 // Internal panic (unexpected crash)
)

const (
	// BackupSuffix is appended to the full file name to form the backup path,
	// e.g. index.html -> index.html.bak.
	BackupSuffix = ".bak"

	// ConfigFileName is the optional per-directory configuration file.
	ConfigFileName = "linkupdater.yaml"
)

// DefaultExtensions are processed when no --extensions flag or config value is given.
var DefaultExtensions = []string{".html", ".htm"}
