// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli"
	"github.com/zenchantlive/Asset-Hatch/cmd/roster/record"
	"github.com/zenchantlive/Asset-Hatch/lib/rosterui"
)

// ViewCommand returns the "view" command that launches the interactive
// roster viewer TUI.
func ViewCommand() *cli.Command {
	return &cli.Command{
		Name:    "view",
		Summary: "Interactive roster viewer",
		Description: `Launch an interactive terminal UI for browsing the roster: a persona
list on the left, a scrollable detail pane on the right rendering
every field of the selected persona.

Press / to fuzzy-filter personas by name, role, or mandate; Tab moves
focus between the panes; q quits. The viewer is read-only — edits go
through add-persona, update-persona, update-ledger, and edit, and the
viewer picks them up when reopened.`,
		Usage: "roster view",
		Examples: []cli.Example{
			{
				Description: "Browse the roster",
				Command:     "roster view",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			store, err := record.OpenStore(logger)
			if err != nil {
				return err
			}
			r, err := store.LoadOrDefault()
			if err != nil {
				return err
			}

			model := rosterui.NewModel(r)
			program := tea.NewProgram(model, tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
}
