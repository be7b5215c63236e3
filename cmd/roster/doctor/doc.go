// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor implements the "roster doctor" command for diagnosing
// the roster's storage: configuration, the document and its embedded
// record, persona constraints, the mutation journal, and the snapshot
// store.
//
// The doctor separates infrastructure health from content health. A
// missing document or an understaffed bench are normal states the
// commands handle (reads fall back to the default scaffold, and
// "roster validate" is the contract check protocols gate on), so they
// pass or warn. Failures are reserved for states the commands cannot
// work with: unreadable files, a record block that no longer decodes,
// a broken snapshot directory.
//
// Two failures are self-repairing under --fix: a record block that no
// longer decodes is reset to the default scaffold (the damaged
// document is snapshotted first when snapshots are enabled), and
// snapshot files left unpaired by an interrupted capture or prune are
// deleted. Fixes run in passes, re-checking after each, so a repair
// that unblocks later checks is reflected in the final report.
package doctor
