// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tidwall/sjson"

	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli"
	"github.com/zenchantlive/Asset-Hatch/lib/roster"
)

// mutateResult is the --json output of the persona mutation commands.
// Matched is false when the named persona was absent; the document is
// saved either way, so the exit code alone cannot distinguish a miss.
type mutateResult struct {
	Action   string `json:"action"`
	Name     string `json:"name,omitempty"`
	Matched  bool   `json:"matched"`
	Personas int    `json:"personas"`
}

// --- add-persona ---

type addParams struct {
	cli.JSONOutput
	Spec string `json:"spec" flag:"spec,s" desc:"persona definition as a JSON object" required:"true"`
}

// AddPersonaCommand returns the "add-persona" command.
func AddPersonaCommand() *cli.Command {
	var params addParams

	return &cli.Command{
		Name:    "add-persona",
		Summary: "Append a persona to the roster",
		Description: `Append a persona to the end of the active list. The spec is a JSON
object; comments and trailing commas are tolerated. No uniqueness check
is performed against existing names — the validate command reports
duplicates.

The spec is parsed before the document is touched, so a malformed spec
never rewrites the file.`,
		Usage: "roster add-persona --spec JSON [flags]",
		Examples: []cli.Example{
			{
				Description: "Add a minimal persona",
				Command:     `roster add-persona --spec '{"name": "Historian", "role": "long-memory context"}'`,
			},
			{
				Description: "Add a persona with a ledger",
				Command:     `roster add-persona --spec '{"name": "Red Team", "ledger": {"current_stance": "probing auth"}}'`,
			},
		},
		Params: func() any { return &params },
		Output: func() any { return &mutateResult{} },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			spec, err := roster.ParseObject(params.Spec)
			if err != nil {
				return cli.Validation("--spec: %w", err)
			}

			store, err := OpenStore(logger)
			if err != nil {
				return err
			}
			r, err := store.LoadOrDefault()
			if err != nil {
				return err
			}

			r.Add(spec)
			name := roster.Persona(spec).Name()

			if err := store.Save(r, "add-persona", name); err != nil {
				return err
			}

			result := mutateResult{
				Action:   "add-persona",
				Name:     name,
				Matched:  true,
				Personas: len(r.Personas),
			}
			if done, err := params.EmitJSON(result); done {
				return err
			}

			if name == "" {
				fmt.Fprintf(os.Stderr, "persona added (%d total)\n", len(r.Personas))
			} else {
				fmt.Fprintf(os.Stderr, "%s added (%d total)\n", name, len(r.Personas))
			}
			return nil
		},
	}
}

// --- update-persona ---

type updatePersonaParams struct {
	cli.JSONOutput
	Name  string `json:"name"  flag:"name,n" desc:"persona name (first match wins)" required:"true"`
	Patch string `json:"patch" flag:"patch"  desc:"JSON object merged onto the persona" required:"true"`
}

// UpdatePersonaCommand returns the "update-persona" command.
func UpdatePersonaCommand() *cli.Command {
	var params updatePersonaParams

	return &cli.Command{
		Name:    "update-persona",
		Summary: "Merge a patch into a persona",
		Description: `Shallow-merge a JSON patch onto the first persona with the given name:
existing keys are overwritten whole, new keys are added. Nested objects
in the patch replace their counterparts entirely; use update-ledger to
merge inside the ledger.

When no persona matches, the roster is left as-is but the document is
still rewritten and journaled, and the command exits 0. Use --json and
check "matched" to detect a miss.`,
		Usage: "roster update-persona --name NAME --patch JSON [flags]",
		Examples: []cli.Example{
			{
				Description: "Change a persona's mandate",
				Command:     `roster update-persona --name Historian --patch '{"mandate": "Track decisions across sessions"}'`,
			},
			{
				Description: "Flag a blind spot",
				Command:     `roster update-persona --name 'Red Team' --patch '{"blind_spots": "Assumes attacker has source access"}'`,
			},
		},
		Params: func() any { return &params },
		Output: func() any { return &mutateResult{} },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			patch, err := roster.ParseObject(params.Patch)
			if err != nil {
				return cli.Validation("--patch: %w", err)
			}

			store, err := OpenStore(logger)
			if err != nil {
				return err
			}
			r, err := store.LoadOrDefault()
			if err != nil {
				return err
			}

			matched := r.UpdatePersona(params.Name, patch)

			if err := store.Save(r, "update-persona", params.Name); err != nil {
				return err
			}

			result := mutateResult{
				Action:   "update-persona",
				Name:     params.Name,
				Matched:  matched,
				Personas: len(r.Personas),
			}
			if done, err := params.EmitJSON(result); done {
				return err
			}

			if matched {
				fmt.Fprintf(os.Stderr, "%s updated\n", params.Name)
			} else {
				fmt.Fprintf(os.Stderr, "no persona named %q (roster unchanged)\n", params.Name)
			}
			return nil
		},
	}
}

// --- update-ledger ---

type updateLedgerParams struct {
	cli.JSONOutput
	Name  string `json:"name"  flag:"name,n" desc:"persona name (first match wins)" required:"true"`
	Patch string `json:"patch" flag:"patch"  desc:"JSON object merged into the persona's ledger" required:"true"`
}

// UpdateLedgerCommand returns the "update-ledger" command.
func UpdateLedgerCommand() *cli.Command {
	var params updateLedgerParams

	return &cli.Command{
		Name:    "update-ledger",
		Summary: "Merge a patch into a persona's ledger",
		Description: `Shallow-merge a JSON patch into the ledger sub-object of the first
persona with the given name. A missing ledger is created; a non-object
value in its place is replaced by the patch.

Miss semantics match update-persona: an unknown name saves the document
unchanged and exits 0.`,
		Usage: "roster update-ledger --name NAME --patch JSON [flags]",
		Examples: []cli.Example{
			{
				Description: "Record a stance after a decision",
				Command:     `roster update-ledger --name Historian --patch '{"current_stance": "Migration approved", "last_updated": "turn 41"}'`,
			},
		},
		Params: func() any { return &params },
		Output: func() any { return &mutateResult{} },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			patch, err := roster.ParseObject(params.Patch)
			if err != nil {
				return cli.Validation("--patch: %w", err)
			}

			store, err := OpenStore(logger)
			if err != nil {
				return err
			}
			r, err := store.LoadOrDefault()
			if err != nil {
				return err
			}

			matched := r.UpdateLedger(params.Name, patch)

			if err := store.Save(r, "update-ledger", params.Name); err != nil {
				return err
			}

			result := mutateResult{
				Action:   "update-ledger",
				Name:     params.Name,
				Matched:  matched,
				Personas: len(r.Personas),
			}
			if done, err := params.EmitJSON(result); done {
				return err
			}

			if matched {
				fmt.Fprintf(os.Stderr, "%s ledger updated\n", params.Name)
			} else {
				fmt.Fprintf(os.Stderr, "no persona named %q (roster unchanged)\n", params.Name)
			}
			return nil
		},
	}
}

// --- edit ---

// assignmentFlag binds the repeatable --set flag with array semantics:
// one element per occurrence. The tag-based []string binding splits on
// commas, which JSON object values cannot survive.
type assignmentFlag struct {
	values []string
}

func (f *assignmentFlag) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringArrayVar(&f.values, "set", nil, "path=value assignment (repeatable; sjson path syntax)")
}

type editParams struct {
	cli.JSONOutput
	Set assignmentFlag `json:"-"`
}

type editResult struct {
	Action      string `json:"action"`
	Assignments int    `json:"assignments"`
	Personas    int    `json:"personas"`
}

// EditCommand returns the "edit" command.
func EditCommand() *cli.Command {
	var params editParams

	return &cli.Command{
		Name:    "edit",
		Summary: "Set individual roster fields by path",
		Description: `Apply path=value assignments directly to the roster JSON. Values that
parse as JSON are spliced in typed (numbers, booleans, objects); bare
text becomes a string. Paths use sjson syntax: "meta.name",
"personas.0.role", "personas.-1" to append.

All assignments are applied to an in-memory copy and the result must
still decode as a roster before anything is written; a bad path or
value leaves the document untouched.`,
		Usage: "roster edit --set PATH=VALUE [--set PATH=VALUE ...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Rename the steward",
				Command:     `roster edit --set 'meta.name=Protocol Steward'`,
			},
			{
				Description: "Set a typed field and a string field",
				Command:     `roster edit --set 'personas.0.confidence=0.75' --set 'personas.0.role=verifier'`,
			},
		},
		Params: func() any { return &params },
		Output: func() any { return &editResult{} },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(params.Set.values) == 0 {
				return cli.Validation("at least one --set PATH=VALUE assignment is required")
			}

			store, err := OpenStore(logger)
			if err != nil {
				return err
			}
			r, err := store.LoadOrDefault()
			if err != nil {
				return err
			}

			blob, err := json.Marshal(r)
			if err != nil {
				return cli.Internal("marshaling roster: %w", err)
			}

			for _, assignment := range params.Set.values {
				path, value, found := strings.Cut(assignment, "=")
				if !found || path == "" {
					return cli.Validation("--set %q: want PATH=VALUE", assignment)
				}
				blob, err = applyAssignment(blob, path, value)
				if err != nil {
					return cli.Validation("--set %s: %w", path, err)
				}
			}

			updated, err := decodeRoster(blob)
			if err != nil {
				return cli.Validation("result is no longer a valid roster: %w", err)
			}

			if err := store.Save(updated, "edit", ""); err != nil {
				return err
			}

			result := editResult{
				Action:      "edit",
				Assignments: len(params.Set.values),
				Personas:    len(updated.Personas),
			}
			if done, err := params.EmitJSON(result); done {
				return err
			}

			fmt.Fprintf(os.Stderr, "%d assignment(s) applied\n", len(params.Set.values))
			return nil
		},
	}
}

// applyAssignment splices one path=value pair into the roster JSON.
// Values that are themselves valid JSON go in raw; everything else is
// treated as a string.
func applyAssignment(blob []byte, path, value string) ([]byte, error) {
	if json.Valid([]byte(value)) {
		return sjson.SetRawBytes(blob, path, []byte(value))
	}
	return sjson.SetBytes(blob, path, value)
}

// decodeRoster strictly decodes edited JSON back into a roster value,
// preserving number literals.
func decodeRoster(blob []byte) (*roster.Roster, error) {
	decoder := json.NewDecoder(bytes.NewReader(blob))
	decoder.UseNumber()
	var r roster.Roster
	if err := decoder.Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}
