// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/zenchantlive/Asset-Hatch/lib/snapshot"
)

// DefaultPath is where Load looks for a config file when
// ROSTER_CONFIG is not set.
const DefaultPath = ".agents/roster.yaml"

// Config is the full configuration for the roster CLI.
type Config struct {
	// Paths configures file locations.
	Paths PathsConfig `yaml:"paths"`

	// Snapshots configures pre-write backups.
	Snapshots SnapshotsConfig `yaml:"snapshots"`
}

// PathsConfig configures file locations. All paths are relative to the
// working directory unless absolute.
type PathsConfig struct {
	// Roster is the roster document. Default: .agents/roster.md
	Roster string `yaml:"roster"`

	// Journal is the mutation journal. Default:
	// .agents/roster-journal.cbor
	Journal string `yaml:"journal"`

	// Snapshots is the snapshot directory. Default:
	// .agents/roster-snapshots
	Snapshots string `yaml:"snapshots"`
}

// SnapshotsConfig configures the pre-write backup store.
type SnapshotsConfig struct {
	// Keep is the retention limit enforced after each capture.
	// Explicit zero keeps everything. Default: 10
	Keep int `yaml:"keep"`

	// Compression is the algorithm for stored snapshots: "none",
	// "lz4", or "zstd". Default: zstd
	Compression string `yaml:"compression"`

	// Disabled turns off pre-write snapshots entirely.
	Disabled bool `yaml:"disabled"`
}

// Default returns the built-in configuration. Loading unmarshals the
// config file over these values, so absent fields keep their defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Roster:    ".agents/roster.md",
			Journal:   ".agents/roster-journal.cbor",
			Snapshots: ".agents/roster-snapshots",
		},
		Snapshots: SnapshotsConfig{
			Keep:        snapshot.DefaultKeep,
			Compression: "zstd",
		},
	}
}

// Load resolves configuration as described in the package comment.
func Load() (*Config, error) {
	if path := os.Getenv("ROSTER_CONFIG"); path != "" {
		return LoadFile(path)
	}

	cfg, err := LoadFile(DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile loads configuration from a specific file path. The file
// must exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.Roster = expandVars(c.Paths.Roster, vars)
	c.Paths.Journal = expandVars(c.Paths.Journal, vars)
	c.Paths.Snapshots = expandVars(c.Paths.Snapshots, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Roster == "" {
		errs = append(errs, fmt.Errorf("paths.roster is required"))
	}
	if c.Paths.Journal == "" {
		errs = append(errs, fmt.Errorf("paths.journal is required"))
	}
	if c.Paths.Snapshots == "" {
		errs = append(errs, fmt.Errorf("paths.snapshots is required"))
	}

	if c.Snapshots.Keep < 0 {
		errs = append(errs, fmt.Errorf("snapshots.keep must not be negative"))
	}
	if _, err := snapshot.ParseCompressionTag(c.Snapshots.Compression); err != nil {
		errs = append(errs, fmt.Errorf("snapshots.compression: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// CompressionTag returns the snapshot compression algorithm the config
// names. Call Validate first; an invalid name falls back to zstd here.
func (c *Config) CompressionTag() snapshot.CompressionTag {
	tag, err := snapshot.ParseCompressionTag(c.Snapshots.Compression)
	if err != nil {
		return snapshot.CompressionZstd
	}
	return tag
}

// SnapshotStore builds the snapshot store the config describes, or nil
// when snapshots are disabled.
func (c *Config) SnapshotStore() *snapshot.Store {
	if c.Snapshots.Disabled {
		return nil
	}
	return snapshot.NewStore(c.Paths.Snapshots, c.Snapshots.Keep, c.CompressionTag())
}
