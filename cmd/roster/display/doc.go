// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package display implements the roster's terminal presentation
// commands: "show" renders the document prose as styled markdown, and
// "view" opens an interactive viewer with a fuzzy-filterable persona
// list beside a detail pane.
//
// Both commands are read-only and share lib/rosterui, so the static
// and interactive surfaces style markdown identically. Neither ever
// creates the document; a missing roster presents as the default
// scaffold, same as the read commands in the record group.
package display
