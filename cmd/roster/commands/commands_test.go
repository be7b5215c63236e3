// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli"
)

// TestCommandTreeWellFormed walks the full command tree and validates
// the structural invariants help and dispatch rely on: every command
// is named, every leaf has a Run, every non-root command has a
// Summary for its parent's listing, and sibling names are unique.
func TestCommandTreeWellFormed(t *testing.T) {
	root := Root()
	walkCommands(root, nil, func(command *cli.Command, path []string) {
		name := strings.Join(path, " ")

		if command.Name == "" {
			t.Errorf("%s: command with empty name", name)
		}
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("%s: command with neither Run nor subcommands", name)
		}
		if command != root && command.Summary == "" {
			t.Errorf("%s: command without a summary line", name)
		}

		seen := map[string]bool{}
		for _, sub := range command.Subcommands {
			if seen[sub.Name] {
				t.Errorf("%s: duplicate subcommand %q", name, sub.Name)
			}
			seen[sub.Name] = true
		}
	})
}

// TestCommandTreeCoversOperations pins the full operation surface:
// renaming or dropping a command here breaks the agent protocols that
// call it.
func TestCommandTreeCoversOperations(t *testing.T) {
	want := []string{
		"get", "validate",
		"add-persona", "update-persona", "update-ledger", "edit",
		"log", "show", "view", "backup", "doctor", "version",
	}

	root := Root()
	names := map[string]bool{}
	for _, sub := range root.Subcommands {
		names[sub.Name] = true
	}

	for _, name := range want {
		if !names[name] {
			t.Errorf("command tree missing %q", name)
		}
	}
}

func TestUnknownCommandIsNoOp(t *testing.T) {
	// Agent protocols invoke subcommands speculatively; an unmatched
	// invocation must exit 0 with no output.
	out := captureStdout(t, func() {
		if err := Root().Execute([]string{"summon-personas"}); err != nil {
			t.Errorf("Execute returned %v, want silent success", err)
		}
	})
	if out != "" {
		t.Errorf("unknown command printed %q, want nothing", out)
	}
}

func TestBareInvocationIsNoOp(t *testing.T) {
	out := captureStdout(t, func() {
		if err := Root().Execute(nil); err != nil {
			t.Errorf("Execute returned %v, want silent success", err)
		}
	})
	if out != "" {
		t.Errorf("bare invocation printed %q, want nothing", out)
	}
}

func TestHelpFlag(t *testing.T) {
	if err := Root().Execute([]string{"--help"}); err != nil {
		t.Errorf("--help returned %v, want nil", err)
	}
}

func TestVersionCommand(t *testing.T) {
	var runErr error
	out := captureStdout(t, func() {
		runErr = Root().Execute([]string{"version"})
	})
	if runErr != nil {
		t.Fatalf("Execute: %v", runErr)
	}
	if !strings.HasPrefix(out, "roster ") {
		t.Errorf("version output = %q, want a 'roster ...' line", out)
	}
	if !strings.Contains(out, "Go:") {
		t.Errorf("version output missing build details:\n%s", out)
	}
}

func TestValidateThroughRoot(t *testing.T) {
	// End to end through the real tree: an empty working directory has
	// no document, the scaffold has zero personas, validate fails with
	// the pinned line and exit code 1.
	t.Chdir(t.TempDir())
	t.Setenv("ROSTER_CONFIG", "")

	var runErr error
	out := captureStdout(t, func() {
		runErr = Root().Execute([]string{"validate"})
	})

	want := "Validation failed: At least 3 personas required for non-atomic tasks.\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}

	var exitErr *cli.ExitError
	if !errors.As(runErr, &exitErr) || exitErr.Code != 1 {
		t.Errorf("Execute returned %v, want exit code 1", runErr)
	}
}

// walkCommands recursively visits every command in the tree, calling
// visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}

// captureStdout captures stdout output during fn execution.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = writer

	fn()

	writer.Close()
	os.Stdout = original

	var buffer bytes.Buffer
	io.Copy(&buffer, reader)
	reader.Close()

	return buffer.String()
}
