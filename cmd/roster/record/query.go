// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli"
)

// --- get ---

type getParams struct {
	Path string `json:"path" flag:"path,p" desc:"path into the roster JSON (gjson syntax, e.g. personas.0.name)"`
}

// GetCommand returns the "get" command.
func GetCommand() *cli.Command {
	var params getParams

	return &cli.Command{
		Name:    "get",
		Summary: "Print the roster JSON",
		Description: `Print the roster as indented JSON. Without --path, the output is the
same JSON text embedded in the document block. With --path, only the
value at that path is printed: strings print raw, other scalars print
their JSON literal, and objects and arrays print as indented JSON.

A missing document behaves as the default scaffold; get never creates
the file.`,
		Usage: "roster get [--path PATH]",
		Examples: []cli.Example{
			{
				Description: "Print the whole roster",
				Command:     "roster get",
			},
			{
				Description: "Print the steward's name",
				Command:     "roster get --path meta.name",
			},
			{
				Description: "Count active personas",
				Command:     "roster get --path 'personas.#'",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			store, err := OpenStore(logger)
			if err != nil {
				return err
			}
			r, err := store.LoadOrDefault()
			if err != nil {
				return err
			}

			blob, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return cli.Internal("marshaling roster: %w", err)
			}

			if params.Path == "" {
				fmt.Printf("%s\n", blob)
				return nil
			}

			result := gjson.GetBytes(blob, params.Path)
			if !result.Exists() {
				return cli.NotFound("no value at path %q", params.Path).
					WithHint("Run 'roster get' to see the document structure.")
			}

			switch {
			case result.Type == gjson.String:
				fmt.Println(result.Str)
			case result.IsObject() || result.IsArray():
				out := bytes.TrimRight(pretty.Pretty([]byte(result.Raw)), "\n")
				fmt.Printf("%s\n", out)
			default:
				fmt.Println(result.Raw)
			}
			return nil
		},
	}
}

// --- validate ---

// validationFailed and validationPassed are the exact lines agent
// protocols match on; changing them breaks downstream prompt checks.
const (
	validationFailed = "Validation failed: At least 3 personas required for non-atomic tasks."
	validationPassed = "Validation passed."
)

type validateParams struct {
	cli.JSONOutput
}

type validateResult struct {
	Valid      bool     `json:"valid"`
	Personas   int      `json:"personas"`
	Problems   []string `json:"problems"`
	Duplicates []string `json:"duplicates,omitempty"`
}

// ValidateCommand returns the "validate" command.
func ValidateCommand() *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check roster constraints",
		Description: `Check the roster against its size constraint: at least 3 personas are
required for non-atomic tasks. Prints a single status line and exits 1
on failure.

With --json, the output also reports duplicate persona names. Duplicates
are legal but mean the update commands can only ever reach the first
entry of each name; they do not affect the exit code.`,
		Usage: "roster validate [--json]",
		Examples: []cli.Example{
			{
				Description: "Validate before a protocol turn",
				Command:     "roster validate",
			},
		},
		Params: func() any { return &params },
		Output: func() any { return &validateResult{} },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			store, err := OpenStore(logger)
			if err != nil {
				return err
			}
			r, err := store.LoadOrDefault()
			if err != nil {
				return err
			}

			result := validateResult{
				Personas:   len(r.Personas),
				Problems:   []string{},
				Duplicates: r.DuplicateNames(),
			}
			if err := r.Validate(); err != nil {
				result.Problems = append(result.Problems, err.Error())
			}
			result.Valid = len(result.Problems) == 0

			if done, err := params.EmitJSON(result); done {
				if err != nil {
					return err
				}
				if !result.Valid {
					return &cli.ExitError{Code: 1}
				}
				return nil
			}

			if !result.Valid {
				fmt.Println(validationFailed)
				return &cli.ExitError{Code: 1}
			}
			fmt.Println(validationPassed)
			return nil
		},
	}
}
