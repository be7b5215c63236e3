// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli"
	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli/doctor"
	"github.com/zenchantlive/Asset-Hatch/cmd/roster/record"
	"github.com/zenchantlive/Asset-Hatch/lib/config"
	"github.com/zenchantlive/Asset-Hatch/lib/journal"
	"github.com/zenchantlive/Asset-Hatch/lib/roster"
	"github.com/zenchantlive/Asset-Hatch/lib/rosterdoc"
)

type commandParams struct {
	cli.JSONOutput
	Fix    bool `json:"fix"     flag:"fix"     desc:"repair fixable issues"`
	DryRun bool `json:"dry_run" flag:"dry-run" desc:"with --fix, preview repairs without applying them"`
}

// Command returns the "doctor" command.
func Command() *cli.Command {
	var params commandParams

	return &cli.Command{
		Name:    "doctor",
		Summary: "Check roster storage health",
		Description: `Diagnose the roster's storage: configuration resolution, document
presence and readability, the embedded record, persona constraints,
the mutation journal, and the snapshot store.

Runs a series of checks and reports pass/fail/warn for each. Exits
with code 1 if any check fails. Warnings (a thin bench, duplicate
names, an out-of-band document edit) do not affect the exit code;
'roster validate' remains the contract check for protocols.

Use --fix to repair fixable issues: a document whose embedded record
no longer decodes is reset to the default scaffold, and snapshot files
left behind by an interrupted capture or prune are deleted. Use
--fix --dry-run to preview repairs without making changes.`,
		Usage: "roster doctor [flags]",
		Examples: []cli.Example{
			{
				Description: "Check roster health",
				Command:     "roster doctor",
			},
			{
				Description: "Repair fixable issues",
				Command:     "roster doctor --fix",
			},
			{
				Description: "Preview repairs without executing",
				Command:     "roster doctor --fix --dry-run",
			},
			{
				Description: "Machine-readable output",
				Command:     "roster doctor --json",
			},
		},
		Params: func() any { return &params },
		Output: func() any { return &doctor.JSONOutput{} },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.DryRun && !params.Fix {
				return cli.Validation("--dry-run requires --fix")
			}

			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			return runDoctor(ctx, params, logger)
		},
	}
}

func runDoctor(ctx context.Context, params commandParams, logger *slog.Logger) error {
	const maxFixIterations = 3
	repairedNames := make(map[string]bool)
	var aggregateOutcome doctor.Outcome
	var results []doctor.Result

	for range maxFixIterations {
		results = checkRoster(logger)

		if !params.Fix {
			break
		}

		for _, result := range results {
			if result.Status == doctor.StatusFail {
				repairedNames[result.Name] = true
			}
		}

		outcome := doctor.ExecuteFixes(ctx, results, params.DryRun)
		if outcome.PermissionDenied {
			aggregateOutcome.PermissionDenied = true
		}
		if outcome.FixedCount == 0 || params.DryRun {
			break
		}
	}

	doctor.MarkRepaired(results, repairedNames)
	if aggregateOutcome.PermissionDenied {
		aggregateOutcome.PermissionDeniedHint = "Check ownership and permissions of the .agents directory."
	}

	if done, err := params.EmitJSON(doctor.BuildJSON(results, params.DryRun, aggregateOutcome)); done {
		if err != nil {
			return err
		}
		for _, result := range results {
			if result.Status == doctor.StatusFail {
				return &cli.ExitError{Code: 1}
			}
		}
		return nil
	}

	checklistError := doctor.PrintChecklist(results, params.Fix, params.DryRun, aggregateOutcome)

	// Print guidance section after the checklist.
	printGuidance(results)

	return checklistError
}

// checkState carries facts forward between checks so later checks can
// skip instead of re-diagnosing an earlier failure.
type checkState struct {
	cfg      *config.Config
	document []byte
	record   *roster.Roster
}

// checkRoster runs all health checks and returns results.
func checkRoster(logger *slog.Logger) []doctor.Result {
	var state checkState
	var results []doctor.Result

	// Section 1: Configuration.
	results = append(results, checkConfiguration(&state)...)

	// Section 2: Document and embedded record.
	results = append(results, checkDocument(&state)...)
	results = append(results, checkRecord(&state, logger)...)
	results = append(results, checkPersonas(&state)...)

	// Section 3: Journal.
	results = append(results, checkJournal(&state)...)

	// Section 4: Snapshot store.
	results = append(results, checkSnapshots(&state)...)

	return results
}

// --- Section 1: Configuration ---

func checkConfiguration(state *checkState) []doctor.Result {
	cfg, err := config.Load()
	if err != nil {
		return []doctor.Result{doctor.Fail("configuration", err.Error())}
	}
	state.cfg = cfg

	source := "built-in defaults"
	if path := os.Getenv("ROSTER_CONFIG"); path != "" {
		source = path
	} else if _, err := os.Stat(config.DefaultPath); err == nil {
		source = config.DefaultPath
	}
	return []doctor.Result{doctor.Pass("configuration",
		fmt.Sprintf("%s (document at %s)", source, cfg.Paths.Roster))}
}

// --- Section 2: Document and embedded record ---

func checkDocument(state *checkState) []doctor.Result {
	if state.cfg == nil {
		return []doctor.Result{doctor.Skip("document", "skipped: configuration did not load")}
	}

	path := state.cfg.Paths.Roster
	document, err := rosterdoc.ReadDocument(path)
	if err != nil {
		return []doctor.Result{doctor.Fail("document", fmt.Sprintf("cannot read %s: %v", path, err))}
	}
	if document == nil {
		return []doctor.Result{doctor.Pass("document",
			fmt.Sprintf("%s absent (the first mutation creates it)", path))}
	}
	state.document = document
	return []doctor.Result{doctor.Pass("document", fmt.Sprintf("%s (%d bytes)", path, len(document)))}
}

func checkRecord(state *checkState, logger *slog.Logger) []doctor.Result {
	if state.document == nil {
		return []doctor.Result{doctor.Skip("embedded record", "skipped: no document to inspect")}
	}

	r, err := rosterdoc.Decode(state.document)
	if err != nil {
		cfg := state.cfg
		fixHint := "reset the document to the default scaffold"
		if cfg.SnapshotStore() != nil {
			fixHint += " (the damaged document is kept as a snapshot)"
		}
		fix := func(ctx context.Context) error {
			return record.StoreFromConfig(cfg, logger).Save(roster.Default(), "doctor", "")
		}
		return []doctor.Result{doctor.FailWithFix("embedded record", err.Error(), fixHint, fix)}
	}
	if r == nil {
		return []doctor.Result{doctor.Warn("embedded record",
			"no record block; reads fall back to the default scaffold")}
	}
	state.record = r
	return []doctor.Result{doctor.Pass("embedded record", "decodes")}
}

func checkPersonas(state *checkState) []doctor.Result {
	if state.record == nil {
		return []doctor.Result{doctor.Skip("personas", "skipped: no embedded record")}
	}

	r := state.record
	if err := r.Validate(); err != nil {
		return []doctor.Result{doctor.Warn("personas", err.Error())}
	}
	if duplicates := r.DuplicateNames(); len(duplicates) > 0 {
		return []doctor.Result{doctor.Warn("personas",
			fmt.Sprintf("%d personas; duplicate names: %s",
				len(r.Personas), strings.Join(duplicates, ", ")))}
	}
	return []doctor.Result{doctor.Pass("personas", fmt.Sprintf("%d personas", len(r.Personas)))}
}

// --- Section 3: Journal ---

func checkJournal(state *checkState) []doctor.Result {
	if state.cfg == nil {
		return []doctor.Result{
			doctor.Skip("journal", "skipped: configuration did not load"),
			doctor.Skip("journal digest", "skipped: configuration did not load"),
		}
	}

	log := journal.New(state.cfg.Paths.Journal)
	entries, err := log.Entries()
	if err != nil {
		return []doctor.Result{
			doctor.Fail("journal", err.Error()),
			doctor.Skip("journal digest", "skipped: journal unreadable"),
		}
	}

	var results []doctor.Result
	if _, statErr := os.Stat(log.Path()); errors.Is(statErr, fs.ErrNotExist) {
		results = append(results, doctor.Pass("journal",
			fmt.Sprintf("%s absent (the first mutation creates it)", log.Path())))
	} else {
		results = append(results, doctor.Pass("journal", fmt.Sprintf("%d entries", len(entries))))
	}

	// The last journal entry records the digest of the bytes it wrote;
	// a mismatch means the document was changed by something other than
	// the roster commands.
	if state.document == nil || len(entries) == 0 {
		results = append(results, doctor.Skip("journal digest",
			"skipped: needs both a document and journal entries"))
		return results
	}
	last := entries[len(entries)-1]
	if journal.DocumentDigest(state.document).String() == last.Digest {
		results = append(results, doctor.Pass("journal digest", "last entry matches the document"))
	} else {
		results = append(results, doctor.Warn("journal digest",
			"last entry does not match the document (modified outside the roster commands)"))
	}
	return results
}

// --- Section 4: Snapshot store ---

func checkSnapshots(state *checkState) []doctor.Result {
	if state.cfg == nil {
		return []doctor.Result{doctor.Skip("snapshot store", "skipped: configuration did not load")}
	}
	if state.cfg.Snapshots.Disabled {
		return []doctor.Result{doctor.Skip("snapshot store", "disabled in configuration")}
	}

	snapshots := state.cfg.SnapshotStore()
	dir := snapshots.Dir()

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []doctor.Result{doctor.Pass("snapshot store",
			fmt.Sprintf("%s absent (the first snapshot creates it)", dir))}
	}
	if err != nil {
		return []doctor.Result{doctor.Fail("snapshot store", err.Error())}
	}
	if !info.IsDir() {
		return []doctor.Result{doctor.Fail("snapshot store",
			fmt.Sprintf("%s is not a directory", dir))}
	}

	var results []doctor.Result
	stored, err := snapshots.List()
	if err != nil {
		results = append(results, doctor.Fail("snapshot store", err.Error()))
	} else {
		results = append(results, doctor.Pass("snapshot store",
			fmt.Sprintf("%d snapshots", len(stored))))
	}

	results = append(results, checkSnapshotFiles(dir)...)
	return results
}

// checkSnapshotFiles verifies that every snapshot has both its document
// file and its metadata sidecar. An interrupted capture leaves a .snap
// without a .meta (invisible to list); an interrupted prune can leave
// either half behind.
func checkSnapshotFiles(dir string) []doctor.Result {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return []doctor.Result{doctor.Fail("snapshot files", err.Error())}
	}

	haveDocument := make(map[string]bool)
	haveMetadata := make(map[string]bool)
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}
		name := dirEntry.Name()
		switch {
		case strings.HasSuffix(name, ".snap"):
			haveDocument[strings.TrimSuffix(name, ".snap")] = true
		case strings.HasSuffix(name, ".meta"):
			haveMetadata[strings.TrimSuffix(name, ".meta")] = true
		}
	}

	var orphans []string
	for id := range haveDocument {
		if !haveMetadata[id] {
			orphans = append(orphans, id+".snap")
		}
	}
	for id := range haveMetadata {
		if !haveDocument[id] {
			orphans = append(orphans, id+".meta")
		}
	}
	if len(orphans) == 0 {
		return []doctor.Result{doctor.Pass("snapshot files",
			fmt.Sprintf("all %d paired", len(haveDocument)))}
	}
	sort.Strings(orphans)

	shown := strings.Join(orphans, ", ")
	if len(orphans) > 3 {
		shown = strings.Join(orphans[:3], ", ") + ", ..."
	}
	fix := func(ctx context.Context) error {
		for _, name := range orphans {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				return err
			}
		}
		return nil
	}
	return []doctor.Result{doctor.FailWithFix("snapshot files",
		fmt.Sprintf("%d unpaired file(s): %s", len(orphans), shown),
		"delete unpaired snapshot files", fix)}
}

// printGuidance prints actionable next steps based on which checks
// failed.
func printGuidance(results []doctor.Result) {
	type guidance struct {
		command     string
		description string
	}

	var steps []guidance
	seen := make(map[string]bool)

	addStep := func(command, description string) {
		if seen[command] {
			return
		}
		seen[command] = true
		steps = append(steps, guidance{command, description})
	}

	for _, result := range results {
		if result.Status != doctor.StatusFail {
			continue
		}

		switch result.Name {
		case "embedded record":
			addStep("roster backup restore", "Rewind the document to the last good snapshot")
			addStep("roster doctor --fix", "Reset the document to the default scaffold")
		case "snapshot files":
			addStep("roster doctor --fix", "Delete unpaired snapshot files")
		}
	}

	if len(steps) == 0 {
		return
	}

	fmt.Fprintln(os.Stdout, "Next steps:")
	maxCommandLength := 0
	for _, step := range steps {
		if len(step.command) > maxCommandLength {
			maxCommandLength = len(step.command)
		}
	}
	for _, step := range steps {
		fmt.Fprintf(os.Stdout, "  %-*s  %s\n", maxCommandLength, step.command, step.description)
	}
}
