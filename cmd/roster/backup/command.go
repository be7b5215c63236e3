// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli"
	"github.com/zenchantlive/Asset-Hatch/cmd/roster/record"
	"github.com/zenchantlive/Asset-Hatch/lib/rosterdoc"
	"github.com/zenchantlive/Asset-Hatch/lib/snapshot"
)

// Command returns the "backup" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "backup",
		Summary: "Snapshot and restore the roster document",
		Description: `Manage snapshots of the roster document. Every mutation already
captures the bytes it is about to overwrite; these commands add manual
capture, inspection, and rewind on top of that safety net.`,
		Usage: "roster backup <command> [flags]",
		Subcommands: []*cli.Command{
			createCommand(),
			listCommand(),
			restoreCommand(),
		},
	}
}

// backupEntry is the JSON shape of one snapshot in backup output.
type backupEntry struct {
	ID          string    `json:"id"`
	Time        time.Time `json:"time"`
	Size        int64     `json:"size"`
	StoredSize  int64     `json:"stored_size"`
	Compression string    `json:"compression"`
}

func entryFromSnapshot(s snapshot.Snapshot) backupEntry {
	return backupEntry{
		ID:          s.ID,
		Time:        s.Time,
		Size:        s.Size,
		StoredSize:  s.StoredSize,
		Compression: s.Compression.String(),
	}
}

// openSnapshots resolves the configured store and its snapshot
// directory. Backup commands cannot run with snapshots disabled.
func openSnapshots(logger *slog.Logger) (*rosterdoc.Store, *snapshot.Store, error) {
	store, err := record.OpenStore(logger)
	if err != nil {
		return nil, nil, err
	}
	snapshots := store.Snapshots()
	if snapshots == nil {
		return nil, nil, cli.Conflict("snapshots are disabled").
			WithHint("Remove snapshots.disabled from the config file to use backups.")
	}
	return store, snapshots, nil
}

// --- create ---

type createParams struct {
	cli.JSONOutput
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Capture a snapshot of the current document",
		Description: `Capture the roster document exactly as it is on disk. Automatic
snapshots cover the moment before each mutation; an explicit capture
marks a known-good state before handing the roster to a new protocol.

Manual snapshots share the retention limit with automatic ones: the
oldest beyond the configured keep count are pruned on the next save.`,
		Usage: "roster backup create [flags]",
		Examples: []cli.Example{
			{
				Description: "Capture before an experiment",
				Command:     "roster backup create",
			},
			{
				Description: "Capture and record the ID for scripting",
				Command:     "roster backup create --json",
			},
		},
		Params: func() any { return &params },
		Output: func() any { return &backupEntry{} },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			store, snapshots, err := openSnapshots(logger)
			if err != nil {
				return err
			}

			document, err := rosterdoc.ReadDocument(store.Path())
			if err != nil {
				return err
			}
			if document == nil {
				return cli.NotFound("no roster document at %s", store.Path()).
					WithHint("The document is created by the first mutation, e.g. 'roster add-persona'.")
			}

			captured, err := snapshots.Capture(document)
			if err != nil {
				return err
			}
			logger.Debug("captured manual snapshot",
				"snapshot", captured.ID,
				"size", captured.Size)

			if done, err := params.EmitJSON(entryFromSnapshot(captured)); done {
				return err
			}

			fmt.Fprintf(os.Stderr, "%s captured (%s)\n", captured.ID, formatSize(captured.Size))
			return nil
		},
	}
}

// --- list ---

type listParams struct {
	cli.JSONOutput
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List stored snapshots, newest first",
		Usage:   "roster backup list [flags]",
		Description: `List every stored snapshot with its age, uncompressed size, on-disk
size, and compression algorithm. The ID column is what restore takes;
any unique prefix of it works.`,
		Examples: []cli.Example{
			{
				Description: "List snapshots",
				Command:     "roster backup list",
			},
			{
				Description: "Snapshot IDs for scripting",
				Command:     "roster backup list --json",
			},
		},
		Params: func() any { return &params },
		Output: func() any { return &[]backupEntry{} },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			_, snapshots, err := openSnapshots(logger)
			if err != nil {
				return err
			}

			stored, err := snapshots.List()
			if err != nil {
				return err
			}

			entries := make([]backupEntry, 0, len(stored))
			for _, s := range stored {
				entries = append(entries, entryFromSnapshot(s))
			}

			if done, err := params.EmitJSON(entries); done {
				return err
			}

			if len(entries) == 0 {
				logger.Info("no snapshots")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "ID\tAGE\tSIZE\tSTORED\tCOMPRESSION\n")
			for _, entry := range entries {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
					entry.ID,
					formatAge(time.Since(entry.Time)),
					formatSize(entry.Size),
					formatSize(entry.StoredSize),
					entry.Compression,
				)
			}
			return writer.Flush()
		},
	}
}

// --- restore ---

type restoreParams struct {
	cli.JSONOutput
	Ref string `json:"ref" desc:"snapshot ID or unique prefix (latest when omitted)"`
}

func restoreCommand() *cli.Command {
	var params restoreParams

	return &cli.Command{
		Name:    "restore",
		Summary: "Rewind the document to a snapshot",
		Description: `Rewrite the roster document from a stored snapshot. With no argument
the newest snapshot is used; otherwise the argument is matched as an
exact snapshot ID or unique prefix.

The current document is snapshotted before it is overwritten, so a
restore can itself be undone by restoring again.`,
		Usage: "roster backup restore [ref] [flags]",
		Examples: []cli.Example{
			{
				Description: "Undo the last mutation",
				Command:     "roster backup restore",
			},
			{
				Description: "Rewind to a specific snapshot by prefix",
				Command:     "roster backup restore 20260826T1015",
			},
		},
		Params: func() any { return &params },
		Output: func() any { return &backupEntry{} },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 1 {
				params.Ref = args[0]
			} else if len(args) > 1 {
				return cli.Validation("expected at most 1 positional argument, got %d", len(args))
			}

			store, snapshots, err := openSnapshots(logger)
			if err != nil {
				return err
			}

			ref := params.Ref
			if ref == "" {
				stored, err := snapshots.List()
				if err != nil {
					return err
				}
				if len(stored) == 0 {
					return cli.NotFound("no snapshots to restore").
						WithHint("Snapshots are captured by mutations and 'roster backup create'.")
				}
				ref = stored[0].ID
			}

			restored, err := store.Restore(ref)
			switch {
			case errors.Is(err, snapshot.ErrNoMatch):
				return cli.NotFound("%w", err).
					WithHint("Run 'roster backup list' to see stored snapshots.")
			case errors.Is(err, snapshot.ErrAmbiguous):
				return cli.Conflict("%w", err).
					WithHint("Use more characters of the ID from 'roster backup list'.")
			case err != nil:
				return err
			}

			if done, err := params.EmitJSON(entryFromSnapshot(restored)); done {
				return err
			}

			fmt.Fprintf(os.Stderr, "document restored from %s (%s)\n",
				restored.ID, formatSize(restored.Size))
			return nil
		},
	}
}

// --- formatting helpers ---

// formatSize returns a human-readable byte size.
func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatAge produces a relative time string like "2h 15m", "3d 4h", or
// "45s". Stops after two significant units to keep the table narrow.
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
