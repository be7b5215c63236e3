// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the roster
// CLI.
//
// Configuration is resolved from a single file, in order: the
// ROSTER_CONFIG environment variable if set (the file must exist),
// .agents/roster.yaml in the working directory if present, built-in
// defaults otherwise. The file is optional because the tool must work
// in a repository with no setup at all — every field has a default and
// the file only overrides what it names.
//
// Environment variables never override config values. The only
// expansion performed is ${VAR} and ${VAR:-default} patterns in path
// fields, for portability.
//
// Key exports:
//
//   - [Config] -- struct with Paths and Snapshots sections
//   - [Default] -- returns the built-in configuration
//   - [Load] and [LoadFile] -- the two entry points for loading
package config
