package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/linkupdater/pkg/linkupdater"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// FileConfig holds run defaults read from linkupdater.yaml.
// Pointer fields distinguish "unset" from an explicit false.
type FileConfig struct {
	Extensions []string `yaml:"extensions,omitempty"`
	Backup     *bool    `yaml:"backup,omitempty"`
	DryRun     *bool    `yaml:"dry_run,omitempty"`
	Decode     string   `yaml:"decode,omitempty"`
	Summary    string   `yaml:"summary,omitempty"`
}

// Load reads a config file. Unknown keys are rejected so typos surface early.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromDirectory reads linkupdater.yaml from dir.
func LoadFromDirectory(dir string) (*FileConfig, error) {
	return Load(filepath.Join(dir, linkupdater.ConfigFileName))
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *FileConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
