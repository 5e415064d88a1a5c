package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireUpdateArgs validates the <directory> <old_ip> <new_ip> positionals.
// Arguments beyond the third are accepted only when --extensions was given,
// since they are read as further extensions ("-e .txt .md").
func RequireUpdateArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf(`missing required argument: <directory> <old_ip> <new_ip> (got %d of 3)

Usage: %s

Example:
  %s ./site 192.168.1.100 10.0.0.50`, len(args), cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 3 && !cmd.Flags().Changed("extensions") {
		return fmt.Errorf("accepts 3 arg(s), received %d", len(args))
	}
	return nil
}

// RequireAtMostOneDirectory validates the optional [directory] argument of init.
func RequireAtMostOneDirectory(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("accepts at most 1 arg(s), received %d", len(args))
	}
	return nil
}
