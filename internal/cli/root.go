package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/linkupdater/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "linkupdater <directory> <old_ip> <new_ip>",
	Short: "Replace an IP address inside files of a directory tree",
	Long: `linkupdater walks a directory tree and replaces every literal occurrence of
one IP address with another in files whose extension matches (case-insensitive).

Modified files are backed up to <file>.bak unless --no-backup is given.
Use --dry-run to see what would change without writing anything.

Defaults may be stored in linkupdater.yaml inside the target directory
(see 'linkupdater init'). Explicit flags always win over the file.

Examples:
  # Update links in .html and .htm files
  linkupdater ./site 192.168.1.100 10.0.0.50

  # Preview changes in templates and markdown
  linkupdater ./docs 192.168.1.100 10.0.0.50 -e .tmpl .md --dry-run

  # Machine-readable summary
  linkupdater ./site 192.168.1.100 10.0.0.50 --summary yaml > result.yaml

Exit Codes:
  0 - Success (including when no matching files were found)
  1 - Invalid arguments or unexpected error
  2 - CLI usage error (invalid arguments or flags)
  3 - Panic or unexpected system error`,
	Args:          RequireUpdateArgs,
	RunE:          runUpdate,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Errors not already logged by the run are
// reported once at FATAL level before being returned for exit code mapping.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !isReported(err) {
		logging.NewConsoleLoggerTo(os.Stderr, false, "").Fatal("%v", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// reportedError marks an error the run logger has already printed.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

func isReported(err error) bool {
	_, ok := err.(reportedError)
	return ok
}
