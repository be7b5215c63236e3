// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package record implements the roster document commands: get, validate,
// add-persona, update-persona, update-ledger, edit, and log.
//
// Every command runs the same pipeline: open the store from config, load
// the document (falling back to the default scaffold when the file or its
// embedded JSON block is missing or unreadable), apply the operation, and
// for mutations, save atomically with a journal entry and snapshot. Read
// commands never create the document on disk.
//
// Mutation commands save unconditionally, including when a named persona
// does not exist. The text output says so on stderr; --json consumers get
// a "matched" field instead. Exit codes stay 0 for misses — only validate
// maps document state to a nonzero exit.
package record
