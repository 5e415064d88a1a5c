package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/vvka-141/linkupdater/internal/files/filesystem"
	"github.com/vvka-141/linkupdater/pkg/linkupdater"
)

// Scanner finds files by extension in a directory tree.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
	logger     linkupdater.Logger
}

// NewScanner creates a file scanner over the OS filesystem.
// Panics if logger is nil.
func NewScanner(logger linkupdater.Logger) *Scanner {
	return NewScannerWithFS(filesystem.NewOSFileSystem(), logger)
}

// NewScannerWithFS creates a file scanner with a custom filesystem provider.
// This is primarily useful for testing with in-memory filesystems.
// Panics if fsProvider or logger is nil.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider, logger linkupdater.Logger) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Scanner{
		fsProvider: fsProvider,
		logger:     logger,
	}
}

// FindTargets recursively collects regular files under root whose extension,
// compared case-insensitively, is in extensions. extensions must already be
// normalized (see linkupdater.NormalizeExtensions).
//
// Symlinks to regular files are included under the link's own path and name.
// Directory symlinks are never descended into.
//
// An empty result is not an error.
func (s *Scanner) FindTargets(root string, extensions []string) ([]string, error) {
	dir, err := s.fsProvider.Open(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[ext] = true
	}

	var targets []string
	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			s.logger.Error("Skipping unreadable path: %v", err)
			return nil
		}

		mode := file.Info().Mode()
		if mode&fs.ModeSymlink != 0 {
			target, err := s.fsProvider.Stat(file.Path())
			if err != nil {
				s.logger.Verbose("Skipping broken symlink: %s", file.Path())
				return nil
			}
			mode = target.Mode()
			if mode.IsDir() {
				s.logger.Verbose("Not following directory symlink: %s", file.Path())
				return nil
			}
		}

		if !mode.IsRegular() {
			if !mode.IsDir() {
				s.logger.Verbose("Skipping non-regular file: %s", file.Path())
			}
			return nil
		}

		if wanted[Extension(file.Info().Name())] {
			targets = append(targets, file.Path())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return targets, nil
}

// Extension returns the lower-cased extension of a file name, including the dot.
// A name whose only dot is the leading one (".htaccess") has no extension.
func Extension(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return strings.ToLower(ext)
}

// Verify Scanner implements the interface at compile time
var _ linkupdater.FileScanner = (*Scanner)(nil)
