// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli"
	"github.com/zenchantlive/Asset-Hatch/lib/config"
	"github.com/zenchantlive/Asset-Hatch/lib/roster"
	"github.com/zenchantlive/Asset-Hatch/lib/rosterdoc"
)

func TestShowPlainOutput(t *testing.T) {
	testDir(t)
	seedDocument(t, "Architect", "Red Team")

	var runErr error
	out := captureStdout(t, func() {
		runErr = ShowCommand().Execute([]string{"--plain"})
	})
	if runErr != nil {
		t.Fatalf("Execute: %v", runErr)
	}

	if !strings.Contains(out, "# Persona Roster (Persistent)") {
		t.Errorf("output missing document title:\n%s", out)
	}
	if !strings.Contains(out, "Architect") {
		t.Error("output missing seeded persona")
	}
	if strings.Contains(out, "ROSTER_JSON") {
		t.Errorf("record block leaked into prose output:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain output contains ANSI escapes")
	}
}

func TestShowPipedOutputIsPlain(t *testing.T) {
	// captureStdout replaces stdout with a pipe, so the command sees a
	// non-terminal and must fall back to plain prose on its own.
	testDir(t)
	seedDocument(t, "Architect")

	var runErr error
	out := captureStdout(t, func() {
		runErr = ShowCommand().Execute(nil)
	})
	if runErr != nil {
		t.Fatalf("Execute: %v", runErr)
	}

	if strings.Contains(out, "\x1b[") {
		t.Errorf("piped output contains ANSI escapes:\n%q", out)
	}
	if strings.Contains(out, "ROSTER_JSON") {
		t.Error("record block leaked into piped output")
	}
	if !strings.Contains(out, "Architect") {
		t.Error("piped output missing persona prose")
	}
}

func TestShowScaffoldWithoutDocument(t *testing.T) {
	testDir(t)

	var runErr error
	out := captureStdout(t, func() {
		runErr = ShowCommand().Execute([]string{"--plain"})
	})
	if runErr != nil {
		t.Fatalf("Execute: %v", runErr)
	}

	if !strings.Contains(out, "Roster Steward") {
		t.Errorf("output missing the default steward:\n%s", out)
	}
	if documentExists(t) {
		t.Error("show created the document on disk; reads must not write")
	}
}

func TestShowRejectsArguments(t *testing.T) {
	testDir(t)

	var runErr error
	captureStdout(t, func() {
		runErr = ShowCommand().Execute([]string{"extra"})
	})

	var toolErr *cli.ToolError
	if !errors.As(runErr, &toolErr) {
		t.Fatalf("Execute returned %v, want a ToolError", runErr)
	}
	if toolErr.Category != cli.CategoryValidation {
		t.Errorf("category = %s, want %s", toolErr.Category, cli.CategoryValidation)
	}
}

func TestViewRejectsArguments(t *testing.T) {
	testDir(t)

	runErr := ViewCommand().Execute([]string{"extra"})

	var toolErr *cli.ToolError
	if !errors.As(runErr, &toolErr) {
		t.Fatalf("Execute returned %v, want a ToolError", runErr)
	}
	if toolErr.Category != cli.CategoryValidation {
		t.Errorf("category = %s, want %s", toolErr.Category, cli.CategoryValidation)
	}
}

// --- Helper ---

// testDir moves the test into a fresh working directory and clears
// config resolution so the default relative paths apply.
func testDir(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("ROSTER_CONFIG", "")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedDocument writes a document with the given persona names directly,
// bypassing the commands under test.
func seedDocument(t *testing.T, names ...string) {
	t.Helper()
	r := roster.Default()
	for _, name := range names {
		r.Add(map[string]any{"name": name, "role": "exercise " + name})
	}
	store := rosterdoc.NewStore(config.Default().Paths.Roster, nil, nil, testLogger())
	if err := store.Save(r, "seed", ""); err != nil {
		t.Fatalf("seeding document: %v", err)
	}
}

func documentExists(t *testing.T) bool {
	t.Helper()
	_, err := os.Stat(config.Default().Paths.Roster)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("stat document: %v", err)
	}
	return err == nil
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
