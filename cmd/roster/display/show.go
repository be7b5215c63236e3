// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli"
	"github.com/zenchantlive/Asset-Hatch/cmd/roster/record"
	"github.com/zenchantlive/Asset-Hatch/lib/roster"
	"github.com/zenchantlive/Asset-Hatch/lib/rosterdoc"
	"github.com/zenchantlive/Asset-Hatch/lib/rosterui"
)

// fallbackWidth is the wrap width when the terminal size is unknown.
const fallbackWidth = 80

type showParams struct {
	Plain bool `flag:"plain" desc:"print the document prose without terminal styling"`
	Width int  `flag:"width,w" desc:"wrap width for styled output (default: terminal width)"`
}

// ShowCommand returns the "show" command.
func ShowCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Render the roster document",
		Description: `Render the roster document's prose as styled terminal markdown:
headings, persona sections, bullet lists, and any fenced code, with the
embedded record block omitted.

When stdout is not a terminal, or with --plain, the prose is printed
unstyled instead — still without the record block, so the output pipes
cleanly into pagers and prompts. A missing document shows the default
scaffold; show never creates the file.`,
		Usage: "roster show [--plain] [--width N]",
		Examples: []cli.Example{
			{
				Description: "Render the roster in the terminal",
				Command:     "roster show",
			},
			{
				Description: "Pipe the prose into a pager",
				Command:     "roster show --plain | less",
			},
			{
				Description: "Render at a fixed width",
				Command:     "roster show --width 72",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			store, err := record.OpenStore(logger)
			if err != nil {
				return err
			}
			document, err := rosterdoc.ReadDocument(store.Path())
			if err != nil {
				return err
			}
			if document == nil {
				document, err = rosterdoc.Encode(roster.Default())
				if err != nil {
					return cli.Internal("encoding default scaffold: %w", err)
				}
			}

			if params.Plain || !term.IsTerminal(int(os.Stdout.Fd())) {
				_, err := os.Stdout.Write(rosterdoc.Prose(document))
				return err
			}

			width := params.Width
			if width <= 0 {
				width = terminalWidth()
			}
			fmt.Println(rosterui.RenderMarkdown(string(document), rosterui.DefaultTheme, width))
			return nil
		},
	}
}

// terminalWidth reads the stdout width, falling back to a fixed wrap
// width when the probe fails.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}
