package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vvka-141/linkupdater/internal/files/filesystem"
	"github.com/vvka-141/linkupdater/pkg/linkupdater"
)

// recordingLogger keeps every line so tests can assert on what was reported.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) add(level, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) { l.add("DEBUG", format, args) }
func (l *recordingLogger) Info(format string, args ...interface{})    { l.add("INFO", format, args) }
func (l *recordingLogger) Warn(format string, args ...interface{})    { l.add("WARN", format, args) }
func (l *recordingLogger) Error(format string, args ...interface{})   { l.add("ERROR", format, args) }
func (l *recordingLogger) Fatal(format string, args ...interface{})   { l.add("FATAL", format, args) }

func (l *recordingLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

type mockFileScanner struct {
	targets []string
	err     error
}

func (m *mockFileScanner) FindTargets(_ string, _ []string) ([]string, error) {
	return m.targets, m.err
}

// corruptingFS returns altered content when backups are read back.
type corruptingFS struct {
	*filesystem.MemoryFileSystem
}

func (c *corruptingFS) ReadFile(path string) ([]byte, error) {
	data, err := c.MemoryFileSystem.ReadFile(path)
	if err != nil || !strings.HasSuffix(path, linkupdater.BackupSuffix) {
		return data, err
	}
	return append(data, '!'), nil
}
