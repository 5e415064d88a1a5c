package services

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/linkupdater/internal/checksum"
	"github.com/vvka-141/linkupdater/internal/files/filesystem"
	"github.com/vvka-141/linkupdater/internal/files/scanner"
	"github.com/vvka-141/linkupdater/internal/logging"
	"github.com/vvka-141/linkupdater/pkg/linkupdater"
)

const siteRoot = "/site"

func newTestService(fsProvider filesystem.FileSystemProvider) (*UpdateService, *recordingLogger) {
	logger := &recordingLogger{}
	fileScanner := scanner.NewScannerWithFS(fsProvider, logger)
	return NewUpdateService(fsProvider, fileScanner, checksum.New(), logger), logger
}

func baseConfig() linkupdater.Config {
	return linkupdater.Config{
		Directory:  siteRoot,
		OldIP:      "10.0.0.1",
		NewIP:      "10.0.0.2",
		Extensions: []string{".html", ".htm"},
		Backup:     true,
		Decode:     linkupdater.DecodeBytes,
	}
}

func readString(t *testing.T, mfs *filesystem.MemoryFileSystem, path string) string {
	t.Helper()
	data, err := mfs.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewUpdateService_NilArgs(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	logger := logging.NewNullLogger()
	sc := scanner.NewScannerWithFS(mfs, logger)
	calc := checksum.New()

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil filesystem", func() { NewUpdateService(nil, sc, calc, logger) }},
		{"nil scanner", func() { NewUpdateService(mfs, nil, calc, logger) }},
		{"nil calculator", func() { NewUpdateService(mfs, sc, nil, logger) }},
		{"nil logger", func() { NewUpdateService(mfs, sc, calc, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Panics(t, tt.fn)
		})
	}
}

func TestValidate(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("index.html", "x")
	svc, _ := newTestService(mfs)

	tests := []struct {
		name    string
		mutate  func(c *linkupdater.Config)
		wantErr error
	}{
		{"valid", func(c *linkupdater.Config) {}, nil},
		{"missing directory", func(c *linkupdater.Config) { c.Directory = "/nope" }, linkupdater.ErrDirectoryNotFound},
		{"directory is a file", func(c *linkupdater.Config) { c.Directory = "/site/index.html" }, linkupdater.ErrNotDirectory},
		{"old ip three groups", func(c *linkupdater.Config) { c.OldIP = "10.0.0" }, linkupdater.ErrInvalidIP},
		{"new ip with letters", func(c *linkupdater.Config) { c.NewIP = "10.0.0.x" }, linkupdater.ErrInvalidIP},
		{"new ip too many digits", func(c *linkupdater.Config) { c.NewIP = "10.0.0.1000" }, linkupdater.ErrInvalidIP},
		{"same ip", func(c *linkupdater.Config) { c.NewIP = c.OldIP }, linkupdater.ErrSameIP},
		{"no extensions", func(c *linkupdater.Config) { c.Extensions = nil }, linkupdater.ErrNoExtensions},
		{"unnormalized extension", func(c *linkupdater.Config) { c.Extensions = []string{"HTML"} }, linkupdater.ErrInvalidConfig},
		{"unknown decode policy", func(c *linkupdater.Config) { c.Decode = "latin1" }, linkupdater.ErrInvalidConfig},
		{"octets above 255 pass", func(c *linkupdater.Config) { c.NewIP = "999.999.999.999" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			err := svc.Validate(cfg)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			assert.True(t, errors.Is(err, linkupdater.ErrInvalidConfig))
		})
	}
}

func TestRun_ValidationFailureTouchesNothing(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("index.html", "10.0.0.1")
	svc, _ := newTestService(mfs)

	cfg := baseConfig()
	cfg.NewIP = cfg.OldIP
	_, err := svc.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.Equal(t, "10.0.0.1", readString(t, mfs, "/site/index.html"))
	assert.False(t, mfs.Exists("index.html.bak"))
}

func TestRun_ConcreteScenario(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("a.html", "Server at 10.0.0.1 ready")
	mfs.AddFile("b.txt", "Server at 10.0.0.1 ready")
	svc, _ := newTestService(mfs)

	cfg := baseConfig()
	cfg.Extensions = []string{".html"}

	result, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "Server at 10.0.0.2 ready", readString(t, mfs, "/site/a.html"))
	assert.Equal(t, "Server at 10.0.0.1 ready", readString(t, mfs, "/site/a.html.bak"))
	assert.Equal(t, "Server at 10.0.0.1 ready", readString(t, mfs, "/site/b.txt"))
	assert.False(t, mfs.Exists("b.txt.bak"))

	assert.Equal(t, linkupdater.Stats{FilesProcessed: 1, FilesModified: 1, ReplacementsMade: 1}, result.Stats)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "/site/a.html.bak", result.Files[0].BackupPath)
}

func TestRun_DryRun(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("a.html", "Server at 10.0.0.1 ready")
	svc, logger := newTestService(mfs)

	cfg := baseConfig()
	cfg.DryRun = true

	result, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "Server at 10.0.0.1 ready", readString(t, mfs, "/site/a.html"))
	assert.False(t, mfs.Exists("a.html.bak"))
	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.True(t, result.DryRun)
	assert.True(t, logger.contains("DRY RUN - Would modify /site/a.html (1 replacements)"))
}

func TestRun_NoBackup(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("a.html", "10.0.0.1")
	svc, _ := newTestService(mfs)

	cfg := baseConfig()
	cfg.Backup = false

	result, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", readString(t, mfs, "/site/a.html"))
	assert.False(t, mfs.Exists("a.html.bak"))
	assert.Empty(t, result.Files[0].BackupPath)
}

func TestRun_BackupOverwritesPrevious(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("a.html", "10.0.0.1")
	mfs.AddFile("a.html.bak", "stale backup")
	svc, _ := newTestService(mfs)

	_, err := svc.Run(context.Background(), baseConfig())
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", readString(t, mfs, "/site/a.html.bak"))
}

func TestRun_NoMatchingFiles(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("readme.md", "10.0.0.1")
	svc, logger := newTestService(mfs)

	result, err := svc.Run(context.Background(), baseConfig())
	require.NoError(t, err)
	assert.Equal(t, linkupdater.Stats{}, result.Stats)
	assert.Empty(t, result.Files)
	assert.Equal(t, "10.0.0.1", readString(t, mfs, "/site/readme.md"))
	assert.True(t, logger.contains("WARN No files with extensions .html, .htm found"))
}

func TestRun_Idempotent(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("a.html", "10.0.0.1 and 10.0.0.1")
	mfs.AddFile("sub/b.htm", "10.0.0.1")
	svc, _ := newTestService(mfs)

	first, err := svc.Run(context.Background(), baseConfig())
	require.NoError(t, err)
	assert.Equal(t, linkupdater.Stats{FilesProcessed: 2, FilesModified: 2, ReplacementsMade: 3}, first.Stats)

	second, err := svc.Run(context.Background(), baseConfig())
	require.NoError(t, err)
	assert.Equal(t, linkupdater.Stats{FilesProcessed: 2}, second.Stats)
}

func TestRun_UnchangedFileNotWritten(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("a.html", "nothing to see")
	mfs.FailWrite("a.html", fs.ErrPermission)
	svc, _ := newTestService(mfs)

	result, err := svc.Run(context.Background(), baseConfig())
	require.NoError(t, err)
	assert.Equal(t, linkupdater.Stats{FilesProcessed: 1}, result.Stats)
	assert.False(t, result.Files[0].Failed())
	assert.False(t, mfs.Exists("a.html.bak"))
}

func TestRun_ReplacementCountIgnoresExistingNewIP(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("a.html", "10.0.0.2 10.0.0.1 10.0.0.2")
	svc, _ := newTestService(mfs)

	result, err := svc.Run(context.Background(), baseConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.ReplacementsMade)
}

func TestRun_PerFileErrorsDoNotAbort(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("a.html", "10.0.0.1")
	mfs.AddFile("b.html", "10.0.0.1")
	mfs.AddFile("c.html", "10.0.0.1")
	mfs.AddFile("d.html", "10.0.0.1")
	mfs.FailRead("a.html", fs.ErrPermission)
	mfs.FailWrite("b.html.bak", fs.ErrPermission)
	mfs.FailWrite("c.html", fs.ErrPermission)
	svc, logger := newTestService(mfs)

	result, err := svc.Run(context.Background(), baseConfig())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Stats.FilesProcessed)
	assert.Equal(t, 3, result.Stats.FilesModified)
	require.Len(t, result.Failures(), 3)

	assert.Equal(t, "10.0.0.1", readString(t, mfs, "/site/b.html"), "failed backup must skip the write")
	assert.Equal(t, "10.0.0.1", readString(t, mfs, "/site/c.html"))
	assert.Equal(t, "10.0.0.2", readString(t, mfs, "/site/d.html"))

	assert.True(t, logger.contains("ERROR Error processing /site/a.html"))
	assert.True(t, logger.contains("ERROR Error processing /site/b.html: failed to create backup"))
	assert.True(t, logger.contains("ERROR Error processing /site/c.html: failed to write file"))
}

func TestRun_BackupVerificationFailure(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("a.html", "10.0.0.1")
	svc, _ := newTestService(&corruptingFS{mfs})

	result, err := svc.Run(context.Background(), baseConfig())
	require.NoError(t, err)

	require.Len(t, result.Failures(), 1)
	assert.True(t, errors.Is(result.Files[0].Err, linkupdater.ErrBackupMismatch))
	assert.Equal(t, "10.0.0.1", readString(t, mfs, "/site/a.html"))
}

func TestRun_PreservesPermissions(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFileBytes("secret.html", []byte("10.0.0.1"), 0600)
	svc, _ := newTestService(mfs)

	_, err := svc.Run(context.Background(), baseConfig())
	require.NoError(t, err)

	info, err := mfs.Stat("/site/secret.html.bak")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), info.Mode().Perm())
}

func TestRun_DecodeIgnoreDropsInvalidBytes(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFileBytes("a.html", []byte("\xff10.0.0.1"), 0644)
	mfs.AddFileBytes("b.html", []byte("\xff10.0.0.1"), 0644)
	svc, _ := newTestService(mfs)

	cfg := baseConfig()
	cfg.Decode = linkupdater.DecodeIgnore
	_, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", readString(t, mfs, "/site/a.html"))
	assert.Equal(t, "\xff10.0.0.1", readString(t, mfs, "/site/a.html.bak"), "backup keeps the raw bytes")
}

func TestRun_DiscoveryFailure(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	logger := &recordingLogger{}
	svc := NewUpdateService(mfs, &mockFileScanner{err: errors.New("walk exploded")}, checksum.New(), logger)

	_, err := svc.Run(context.Background(), baseConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to discover files")
}

func TestRun_CancelledContext(t *testing.T) {
	mfs := filesystem.NewMemoryFileSystem(siteRoot)
	mfs.AddFile("a.html", "10.0.0.1")
	svc, _ := newTestService(mfs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Run(ctx, baseConfig())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, result.Stats.FilesProcessed)
	assert.Equal(t, "10.0.0.1", readString(t, mfs, "/site/a.html"))
}
