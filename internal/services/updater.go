package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/vvka-141/linkupdater/internal/checksum"
	"github.com/vvka-141/linkupdater/internal/files/filesystem"
	"github.com/vvka-141/linkupdater/internal/replace"
	"github.com/vvka-141/linkupdater/pkg/linkupdater"
)

// UpdateService implements the Updater interface.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
// Create separate instances for concurrent runs.
type UpdateService struct {
	fsProvider  filesystem.FileSystemProvider
	fileScanner linkupdater.FileScanner
	calculator  checksum.Calculator
	logger      linkupdater.Logger
}

// NewUpdateService creates a new UpdateService with all dependencies injected.
// Panics on nil dependencies; those are wiring mistakes, not runtime conditions.
func NewUpdateService(
	fsProvider filesystem.FileSystemProvider,
	fileScanner linkupdater.FileScanner,
	calculator checksum.Calculator,
	logger linkupdater.Logger,
) *UpdateService {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if fileScanner == nil {
		panic("fileScanner cannot be nil")
	}
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &UpdateService{
		fsProvider:  fsProvider,
		fileScanner: fileScanner,
		calculator:  calculator,
		logger:      logger,
	}
}

// Validate checks the configuration without modifying anything.
func (s *UpdateService) Validate(config linkupdater.Config) error {
	info, err := s.fsProvider.Stat(config.Directory)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", linkupdater.ErrDirectoryNotFound, config.Directory)
		}
		return fmt.Errorf("%w: cannot access %s: %v", linkupdater.ErrInvalidConfig, config.Directory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", linkupdater.ErrNotDirectory, config.Directory)
	}

	if !linkupdater.IsIPShape(config.OldIP) {
		return fmt.Errorf("%w: old IP %q", linkupdater.ErrInvalidIP, config.OldIP)
	}
	if !linkupdater.IsIPShape(config.NewIP) {
		return fmt.Errorf("%w: new IP %q", linkupdater.ErrInvalidIP, config.NewIP)
	}
	if config.OldIP == config.NewIP {
		return fmt.Errorf("%w: %s", linkupdater.ErrSameIP, config.OldIP)
	}

	if len(config.Extensions) == 0 {
		return linkupdater.ErrNoExtensions
	}
	for _, ext := range config.Extensions {
		if !strings.HasPrefix(ext, ".") || ext != strings.ToLower(ext) {
			return fmt.Errorf("%w: extension %q must be lower-case and start with a dot", linkupdater.ErrInvalidConfig, ext)
		}
	}

	if _, err := linkupdater.ParseDecodePolicy(string(config.Decode)); err != nil {
		return err
	}

	return nil
}

// Run executes the validate, discover and transform phases.
// Per-file failures are logged and recorded in the result; only validation
// and discovery failures, or a cancelled context, are returned as errors.
func (s *UpdateService) Run(ctx context.Context, config linkupdater.Config) (linkupdater.RunResult, error) {
	result := linkupdater.RunResult{
		Directory:  config.Directory,
		OldIP:      config.OldIP,
		NewIP:      config.NewIP,
		Extensions: config.Extensions,
		DryRun:     config.DryRun,
		Backup:     config.Backup,
	}

	if err := s.Validate(config); err != nil {
		return result, err
	}

	s.logger.Info("Starting link update")
	s.logger.Info("Directory: %s", config.Directory)
	s.logger.Info("File extensions: %s", strings.Join(config.Extensions, ", "))
	s.logger.Info("Replacing: %s -> %s", config.OldIP, config.NewIP)
	s.logger.Info("Backup enabled: %t", config.Backup)
	s.logger.Info("Dry run: %t", config.DryRun)
	s.logger.Verbose("Decode policy: %s", decodePolicyName(config.Decode))

	targets, err := s.fileScanner.FindTargets(config.Directory, config.Extensions)
	if err != nil {
		return result, fmt.Errorf("failed to discover files: %w", err)
	}

	if len(targets) == 0 {
		s.logger.Warn("No files with extensions %s found in the specified directory", strings.Join(config.Extensions, ", "))
		return result, nil
	}

	s.logger.Info("Found %d files to process", len(targets))

	result.Files = make([]linkupdater.FileResult, 0, len(targets))
	for _, path := range targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fileResult := s.processFile(path, config)
		result.Stats.FilesProcessed++
		if fileResult.Modified {
			result.Stats.FilesModified++
			result.Stats.ReplacementsMade += fileResult.Replacements
		}
		result.Files = append(result.Files, fileResult)
	}

	return result, nil
}

// processFile reads, transforms and, unless dry-running, writes one file.
// Modified is set as soon as the content differs, even if a later backup or
// write fails; Err records that failure.
func (s *UpdateService) processFile(path string, config linkupdater.Config) linkupdater.FileResult {
	res := linkupdater.FileResult{Path: path}
	fail := func(err error) linkupdater.FileResult {
		s.logger.Error("Error processing %s: %v", path, err)
		res.Err = err
		res.Error = err.Error()
		return res
	}

	original, err := s.fsProvider.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("failed to read file: %w", err))
	}

	replaced, err := replace.Apply(original, config.OldIP, config.NewIP, config.Decode)
	if err != nil {
		return fail(err)
	}

	if !replaced.Changed {
		s.logger.Verbose("No changes needed for %s", path)
		return res
	}

	res.Modified = true
	res.Replacements = replaced.Count

	if config.DryRun {
		s.logger.Info("DRY RUN - Would modify %s (%d replacements)", path, replaced.Count)
		return res
	}

	perm := fs.FileMode(0644)
	if info, err := s.fsProvider.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	if config.Backup {
		backupPath, err := s.backupFile(path, original, perm)
		if err != nil {
			return fail(err)
		}
		res.BackupPath = backupPath
	}

	if err := s.fsProvider.WriteFile(path, replaced.Content, perm); err != nil {
		return fail(fmt.Errorf("failed to write file: %w", err))
	}

	s.logger.Info("Modified %s (%d replacements)", path, replaced.Count)
	return res
}

// backupFile writes original to <path>.bak and reads it back to confirm the
// copy is intact before the caller overwrites path.
func (s *UpdateService) backupFile(path string, original []byte, perm fs.FileMode) (string, error) {
	backupPath := linkupdater.BackupPath(path)

	if err := s.fsProvider.WriteFile(backupPath, original, perm); err != nil {
		return "", fmt.Errorf("failed to create backup %s: %w", backupPath, err)
	}

	written, err := s.fsProvider.ReadFile(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to verify backup %s: %w", backupPath, err)
	}
	if !s.calculator.Match(original, written) {
		return "", fmt.Errorf("%w: %s (want %s, got %s)", linkupdater.ErrBackupMismatch, backupPath,
			s.calculator.CalculateRaw(original), s.calculator.CalculateRaw(written))
	}

	s.logger.Verbose("Created backup: %s", backupPath)
	return backupPath, nil
}

func decodePolicyName(p linkupdater.DecodePolicy) string {
	if p == "" {
		return string(linkupdater.DecodeBytes)
	}
	return string(p)
}

// Verify UpdateService implements the interface at compile time
var _ linkupdater.Updater = (*UpdateService)(nil)
