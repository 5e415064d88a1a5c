package linkupdater

import (
	"fmt"
	"regexp"
	"strings"
)

// Config contains all parameters needed for one update run.
// It is built once by the CLI and treated as immutable afterwards.
type Config struct {
	// Directory is the root of the tree to walk
	Directory string

	// OldIP is the literal string to find
	OldIP string

	// NewIP is the literal string substituted for OldIP
	NewIP string

	// Extensions are lower-case, dot-prefixed file extensions to process.
	// Use NormalizeExtensions to build this from user input.
	Extensions []string

	// Backup writes <path>.bak before overwriting a modified file
	Backup bool

	// DryRun computes and reports changes without writing anything
	DryRun bool

	// Decode selects how file contents are decoded before replacement
	Decode DecodePolicy

	// Verbose enables detailed logging
	Verbose bool
}

// DecodePolicy controls how file bytes are interpreted before replacement.
type DecodePolicy string

const (
	// DecodeBytes replaces on raw bytes. Undecodable sequences pass through untouched.
	DecodeBytes DecodePolicy = "bytes"

	// DecodeReplace decodes as UTF-8, substituting U+FFFD for invalid sequences.
	DecodeReplace DecodePolicy = "replace"

	// DecodeIgnore decodes as UTF-8, dropping invalid sequences.
	// This can irrecoverably alter files that are not valid UTF-8.
	DecodeIgnore DecodePolicy = "ignore"
)

// DecodePolicies lists the accepted policies, default first.
var DecodePolicies = []DecodePolicy{DecodeBytes, DecodeReplace, DecodeIgnore}

// ParseDecodePolicy converts a flag or config value to a DecodePolicy.
// The empty string selects DecodeBytes.
func ParseDecodePolicy(s string) (DecodePolicy, error) {
	if s == "" {
		return DecodeBytes, nil
	}
	p := DecodePolicy(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DecodePolicies {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown decode policy %q (want bytes, replace or ignore)", ErrInvalidConfig, s)
}

// NormalizeExtensions lower-cases each extension and ensures a leading dot.
// Values containing whitespace are split, so "-e '.txt .md'" yields two entries.
// Empty values and duplicates are dropped; order of first appearance is kept.
func NormalizeExtensions(exts []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, raw := range exts {
		for _, ext := range strings.Fields(raw) {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			if ext == "." || seen[ext] {
				continue
			}
			seen[ext] = true
			result = append(result, ext)
		}
	}
	return result
}

var ipShape = regexp.MustCompile(`^(?:[0-9]{1,3}\.){3}[0-9]{1,3}$`)

// IsIPShape reports whether s looks like a dotted-quad IPv4 address.
// Only the shape is checked; octets above 255 are accepted.
func IsIPShape(s string) bool {
	return ipShape.MatchString(s)
}

// BackupPath returns the backup location for a file.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Stats are the aggregate counters of one run.
type Stats struct {
	FilesProcessed   int `yaml:"files_processed"`
	FilesModified    int `yaml:"files_modified"`
	ReplacementsMade int `yaml:"replacements_made"`
}

// FileResult is the outcome of processing a single file.
type FileResult struct {
	Path         string `yaml:"path"`
	Replacements int    `yaml:"replacements"`
	Modified     bool   `yaml:"modified"`
	BackupPath   string `yaml:"backup,omitempty"`
	Error        string `yaml:"error,omitempty"`

	// Err is the underlying failure; Error carries its message for serialization.
	Err error `yaml:"-"`
}

// Failed reports whether processing the file hit an error.
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// RunResult is everything a reporter needs after a run.
type RunResult struct {
	Directory  string       `yaml:"directory"`
	OldIP      string       `yaml:"old_ip"`
	NewIP      string       `yaml:"new_ip"`
	Extensions []string     `yaml:"extensions"`
	DryRun     bool         `yaml:"dry_run"`
	Backup     bool         `yaml:"backup"`
	Stats      Stats        `yaml:"stats"`
	Files      []FileResult `yaml:"files"`
}

// Failures returns the results that hit an error.
func (r RunResult) Failures() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Failed() {
			failed = append(failed, f)
		}
	}
	return failed
}
