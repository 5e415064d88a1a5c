package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vvka-141/linkupdater/internal/checksum"
	"github.com/vvka-141/linkupdater/internal/config"
	"github.com/vvka-141/linkupdater/internal/files/filesystem"
	"github.com/vvka-141/linkupdater/internal/files/scanner"
	"github.com/vvka-141/linkupdater/internal/logging"
	"github.com/vvka-141/linkupdater/internal/report"
	"github.com/vvka-141/linkupdater/internal/services"
	"github.com/vvka-141/linkupdater/pkg/linkupdater"
)

type updateFlagValues struct {
	extensions []string
	noBackup   bool
	dryRun     bool
	decode     string
	summary    string
	configPath string
}

var updateFlags updateFlagValues

func init() {
	addUpdateFlags(rootCmd)
}

// addUpdateFlags binds the run flags of cmd to updateFlags, resetting them to
// their defaults.
func addUpdateFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&updateFlags.extensions, "extensions", "e", linkupdater.DefaultExtensions,
		"File extensions to process (case-insensitive).\n"+
			"Accepts comma-separated values or several values after the flag:\n"+
			"  -e .txt,.md   or   -e .txt .md")
	cmd.Flags().BoolVar(&updateFlags.noBackup, "no-backup", false,
		"Do not create .bak files before modifying")
	cmd.Flags().BoolVar(&updateFlags.dryRun, "dry-run", false,
		"Show what would change without writing any file")
	cmd.Flags().StringVar(&updateFlags.decode, "decode", string(linkupdater.DecodeBytes),
		"How to treat file contents: bytes|replace|ignore\n"+
			"  bytes   - replace on raw bytes, never alter other content\n"+
			"  replace - decode as UTF-8, invalid sequences become U+FFFD\n"+
			"  ignore  - decode as UTF-8, invalid sequences are dropped")
	cmd.Flags().StringVar(&updateFlags.summary, "summary", string(report.FormatAuto),
		"Extra summary on stdout: auto|none|table|yaml\n"+
			"auto prints a table only when stdout is a terminal")
	cmd.Flags().StringVar(&updateFlags.configPath, "config", "",
		"Path to a YAML config file (default: <directory>/linkupdater.yaml if present)")
}

// loadFileConfig returns the config file for a run, or nil when none applies.
// An explicit --config path must exist; the directory default is optional.
// A directory argument that is missing or not a directory yields no config,
// leaving the error to validation.
func loadFileConfig(directory string) (*config.FileConfig, error) {
	if updateFlags.configPath != "" {
		cfg, err := config.Load(updateFlags.configPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", linkupdater.ErrInvalidConfig, updateFlags.configPath, err)
		}
		return cfg, nil
	}

	if info, err := os.Stat(directory); err != nil || !info.IsDir() {
		return nil, nil
	}

	cfg, err := config.LoadFromDirectory(directory)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", linkupdater.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// buildUpdateConfig layers explicitly set flags over the config file over
// flag defaults.
func buildUpdateConfig(cmd *cobra.Command, args []string) (linkupdater.Config, report.Format, error) {
	cfg := linkupdater.Config{
		Directory: args[0],
		OldIP:     args[1],
		NewIP:     args[2],
		Verbose:   getVerboseFlag(cmd),
	}

	fileCfg, err := loadFileConfig(cfg.Directory)
	if err != nil {
		return cfg, "", err
	}
	if fileCfg == nil {
		fileCfg = &config.FileConfig{}
	}
	changed := cmd.Flags().Changed

	extensions := updateFlags.extensions
	if changed("extensions") {
		extensions = append(append([]string{}, extensions...), args[3:]...)
	} else if len(fileCfg.Extensions) > 0 {
		extensions = fileCfg.Extensions
	}
	cfg.Extensions = linkupdater.NormalizeExtensions(extensions)

	cfg.Backup = !updateFlags.noBackup
	if !changed("no-backup") && fileCfg.Backup != nil {
		cfg.Backup = *fileCfg.Backup
	}

	cfg.DryRun = updateFlags.dryRun
	if !changed("dry-run") && fileCfg.DryRun != nil {
		cfg.DryRun = *fileCfg.DryRun
	}

	decode := updateFlags.decode
	if !changed("decode") && fileCfg.Decode != "" {
		decode = fileCfg.Decode
	}
	if cfg.Decode, err = linkupdater.ParseDecodePolicy(decode); err != nil {
		return cfg, "", err
	}

	summary := updateFlags.summary
	if !changed("summary") && fileCfg.Summary != "" {
		summary = fileCfg.Summary
	}
	format, err := report.ParseFormat(summary)
	if err != nil {
		return cfg, "", err
	}

	return cfg, format, nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, format, err := buildUpdateConfig(cmd, args)
	logger := logging.NewConsoleLogger(cfg.Verbose)
	if err != nil {
		logger.Fatal("%v", err)
		return reportedError{err}
	}
	logger.Verbose("Run id: %s", logger.RunID())

	fsProvider := filesystem.NewOSFileSystem()
	updater := services.NewUpdateService(
		fsProvider,
		scanner.NewScannerWithFS(fsProvider, logger),
		checksum.New(),
		logger,
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Stop between files on Ctrl+C or SIGTERM; the file in progress completes.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			logger.Warn("Received interrupt signal, stopping after current file...")
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := updater.Run(ctx, cfg)
	if err != nil && errors.Is(err, linkupdater.ErrInvalidConfig) {
		logger.Fatal("%v", err)
		return reportedError{err}
	}

	report.Summarize(logger, result)
	if renderErr := report.Render(cmd.OutOrStdout(), result, format); renderErr != nil {
		logger.Error("Failed to write summary: %v", renderErr)
	}

	if err != nil {
		logger.Fatal("%v", err)
		return reportedError{err}
	}
	return nil
}
