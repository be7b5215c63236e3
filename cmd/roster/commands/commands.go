// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete roster CLI command tree. The
// roster binary is the only consumer today; the tree lives in its own
// package so tests can execute commands exactly as the binary would.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	backupcmd "github.com/zenchantlive/Asset-Hatch/cmd/roster/backup"
	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli"
	displaycmd "github.com/zenchantlive/Asset-Hatch/cmd/roster/display"
	doctorcmd "github.com/zenchantlive/Asset-Hatch/cmd/roster/doctor"
	recordcmd "github.com/zenchantlive/Asset-Hatch/cmd/roster/record"
	"github.com/zenchantlive/Asset-Hatch/lib/version"
)

// Root builds and returns the complete roster CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "roster",
		Description: `Roster: a persistent persona bench for agent sessions.

The roster lives in .agents/roster.md — one markdown document that is
both the human-readable view and, through an embedded JSON block, the
machine-readable store. Commands read and rewrite that document;
every rewrite is snapshotted first and journaled after.`,
		Subcommands: []*cli.Command{
			recordcmd.GetCommand(),
			recordcmd.ValidateCommand(),
			recordcmd.AddPersonaCommand(),
			recordcmd.UpdatePersonaCommand(),
			recordcmd.UpdateLedgerCommand(),
			recordcmd.EditCommand(),
			recordcmd.LogCommand(),
			displaycmd.ShowCommand(),
			displaycmd.ViewCommand(),
			backupcmd.Command(),
			doctorcmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("roster %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Diagnose the roster storage (start here when lost)",
				Command:     "roster doctor",
			},
			{
				Description: "Check the bench before a protocol turn",
				Command:     "roster validate",
			},
			{
				Description: "Seat a new persona",
				Command:     `roster add-persona --spec '{"name": "Red Team", "role": "attack the current plan"}'`,
			},
			{
				Description: "Record a persona's current stance",
				Command:     `roster update-ledger --name "Red Team" --patch '{"current_stance": "blocked on threat model"}'`,
			},
			{
				Description: "Read one field out of the document",
				Command:     "roster get --path meta.name",
			},
			{
				Description: "Browse the bench interactively",
				Command:     "roster view",
			},
			{
				Description: "Undo the last mutation",
				Command:     "roster backup restore",
			},
		},
		// Agent protocols invoke subcommands speculatively; an
		// unmatched invocation is a no-op, not an error.
		Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
			return nil
		},
	}
}
