// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the roster tool.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a tag-driven parameter struct
// (see [BindFlags]), and a Run function. Commands are assembled into a
// tree in cmd/roster/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, required-flag enforcement,
// and structured help output with examples.
//
// When a user types an unknown flag, the framework computes Levenshtein
// edit distance against all known names and suggests the closest match
// (threshold: distance <= 3). Unknown subcommands get the same treatment
// on command groups; the root command instead falls through to its own
// Run so stray arguments stay inert. This is implemented in suggest.go
// and [Command.ExecuteContext].
//
// Errors flow out of Run as [ToolError] values carrying a category and
// an optional hint, or as [ExitError] when a command has already written
// its output and only needs a nonzero exit status.
package cli
