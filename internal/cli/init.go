package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vvka-141/linkupdater/internal/config"
	"github.com/vvka-141/linkupdater/internal/report"
	"github.com/vvka-141/linkupdater/pkg/linkupdater"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a default linkupdater.yaml",
	Long: `Write a linkupdater.yaml with the default settings into the specified
directory (default: current directory).

The file is picked up automatically when that directory is updated.
An existing file is left untouched unless --force is given.

Examples:
  linkupdater init               # ./linkupdater.yaml
  linkupdater init ./site        # ./site/linkupdater.yaml`,
	Args: RequireAtMostOneDirectory,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing linkupdater.yaml")
}

// defaultFileConfig mirrors the flag defaults.
func defaultFileConfig() *config.FileConfig {
	backup, dryRun := true, false
	return &config.FileConfig{
		Extensions: append([]string{}, linkupdater.DefaultExtensions...),
		Backup:     &backup,
		DryRun:     &dryRun,
		Decode:     string(linkupdater.DecodeBytes),
		Summary:    string(report.FormatAuto),
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s", linkupdater.ErrDirectoryNotFound, dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", linkupdater.ErrNotDirectory, dir)
	}

	path := filepath.Join(dir, linkupdater.ConfigFileName)
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Save(path, defaultFileConfig()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", path)
	return nil
}
