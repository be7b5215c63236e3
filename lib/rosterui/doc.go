// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package rosterui implements the terminal surfaces for the persona
// roster: a markdown renderer for the document prose (the "show"
// command) and a bubbletea split-pane viewer with a fuzzy-filterable
// persona list and a scrollable detail pane (the "view" command).
//
// The viewer is read-only. Mutations go through the roster commands;
// the viewer renders whatever [roster.Roster] it was handed and never
// touches the document.
//
// Data flow:
//
//	[.agents/roster.md]
//	        | (roster.Roster)
//	    [Model] <- bubbletea event loop
//	        |
//	  [terminal output]
package rosterui
