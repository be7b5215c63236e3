// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli"
	"github.com/zenchantlive/Asset-Hatch/lib/journal"
)

// --- log ---

type logParams struct {
	cli.JSONOutput
	Limit int  `json:"limit" flag:"limit,n" default:"20" desc:"number of entries to show"`
	All   bool `json:"all"   flag:"all"                  desc:"show the whole journal"`
}

// logEntry is the JSON shape of one journal entry. The journal's own
// entry type is CBOR-tagged for the on-disk format; this mirror carries
// the JSON tags for --json output.
type logEntry struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Command string    `json:"command"`
	Persona string    `json:"persona,omitempty"`
	Digest  string    `json:"digest"`
}

func entryFromJournal(e journal.Entry) logEntry {
	return logEntry{
		ID:      e.ID,
		Time:    e.Time,
		Command: e.Command,
		Persona: e.Persona,
		Digest:  e.Digest,
	}
}

// LogCommand returns the "log" command.
func LogCommand() *cli.Command {
	var params logParams

	return &cli.Command{
		Name:    "log",
		Summary: "Show recent roster mutations, newest first",
		Description: `Show the mutation journal: one entry per successful document write,
with the command that wrote it, the persona it targeted (when any), and
a digest of the document bytes it produced.

The digest column holds the first characters of the keyed BLAKE3
document digest; --json carries the full digest for scripting.`,
		Usage: "roster log [flags]",
		Examples: []cli.Example{
			{
				Description: "The last 20 mutations",
				Command:     "roster log",
			},
			{
				Description: "The last 5 mutations",
				Command:     "roster log --limit 5",
			},
			{
				Description: "Every recorded mutation",
				Command:     "roster log --all",
			},
		},
		Params: func() any { return &params },
		Output: func() any { return &[]logEntry{} },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			store, err := OpenStore(logger)
			if err != nil {
				return err
			}

			limit := params.Limit
			if params.All {
				limit = 0
			}
			tail, err := store.Journal().Tail(limit)
			if err != nil {
				return err
			}

			entries := make([]logEntry, 0, len(tail))
			for _, e := range tail {
				entries = append(entries, entryFromJournal(e))
			}

			if done, err := params.EmitJSON(entries); done {
				return err
			}

			if len(entries) == 0 {
				logger.Info("journal is empty")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "AGE\tCOMMAND\tPERSONA\tDIGEST\n")
			for _, entry := range entries {
				persona := entry.Persona
				if persona == "" {
					persona = "-"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					formatAge(time.Since(entry.Time)),
					entry.Command,
					persona,
					shortDigest(entry.Digest),
				)
			}
			return writer.Flush()
		},
	}
}

// shortDigest truncates a hex digest for table display.
func shortDigest(digest string) string {
	if len(digest) > 8 {
		return digest[:8]
	}
	return digest
}

// formatAge renders a duration compactly using its two most significant
// units.
func formatAge(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		if hours > 0 {
			return fmt.Sprintf("%dd %dh", days, hours)
		}
		return fmt.Sprintf("%dd", days)
	case hours > 0:
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	case minutes > 0:
		if seconds > 0 {
			return fmt.Sprintf("%dm %ds", minutes, seconds)
		}
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
