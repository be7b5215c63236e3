// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli"
	"github.com/zenchantlive/Asset-Hatch/cmd/roster/cli/doctor"
	"github.com/zenchantlive/Asset-Hatch/cmd/roster/record"
	"github.com/zenchantlive/Asset-Hatch/lib/config"
	"github.com/zenchantlive/Asset-Hatch/lib/roster"
	"github.com/zenchantlive/Asset-Hatch/lib/rosterdoc"
)

func TestCheckConfiguration_Defaults(t *testing.T) {
	testDir(t)

	var state checkState
	results := checkConfiguration(&state)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != doctor.StatusPass {
		t.Errorf("expected PASS, got %s: %s", results[0].Status, results[0].Message)
	}
	if !strings.Contains(results[0].Message, "built-in defaults") {
		t.Errorf("expected config source in message, got %q", results[0].Message)
	}
	if !strings.Contains(results[0].Message, ".agents/roster.md") {
		t.Errorf("expected document path in message, got %q", results[0].Message)
	}
	if state.cfg == nil {
		t.Error("expected state.cfg to be set on success")
	}
}

func TestCheckConfiguration_ConfigFileSource(t *testing.T) {
	testDir(t)
	if err := os.MkdirAll(".agents", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(config.DefaultPath, []byte("snapshots:\n  keep: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var state checkState
	results := checkConfiguration(&state)

	if results[0].Status != doctor.StatusPass {
		t.Fatalf("expected PASS, got %s: %s", results[0].Status, results[0].Message)
	}
	if !strings.Contains(results[0].Message, config.DefaultPath) {
		t.Errorf("expected %s as the config source, got %q", config.DefaultPath, results[0].Message)
	}
}

func TestCheckConfiguration_BadFile(t *testing.T) {
	testDir(t)
	if err := os.MkdirAll(".agents", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(config.DefaultPath, []byte("paths: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var state checkState
	results := checkConfiguration(&state)

	if results[0].Status != doctor.StatusFail {
		t.Errorf("expected FAIL, got %s: %s", results[0].Status, results[0].Message)
	}
	if state.cfg != nil {
		t.Error("expected state.cfg to stay nil on failure")
	}
}

func TestCheckDocument_Absent(t *testing.T) {
	testDir(t)

	state := checkState{cfg: config.Default()}
	results := checkDocument(&state)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != doctor.StatusPass {
		t.Errorf("expected PASS, got %s: %s", results[0].Status, results[0].Message)
	}
	if !strings.Contains(results[0].Message, "absent") {
		t.Errorf("expected 'absent' in message, got %q", results[0].Message)
	}
	if state.document != nil {
		t.Error("expected no document bytes for an absent file")
	}
}

func TestCheckDocument_Present(t *testing.T) {
	testDir(t)
	addPersonas(t, "Alpha")

	state := checkState{cfg: config.Default()}
	results := checkDocument(&state)

	if results[0].Status != doctor.StatusPass {
		t.Errorf("expected PASS, got %s: %s", results[0].Status, results[0].Message)
	}
	if !strings.Contains(results[0].Message, "bytes") {
		t.Errorf("expected a byte count in message, got %q", results[0].Message)
	}
	if state.document == nil {
		t.Error("expected state.document to be set")
	}
}

func TestCheckDocument_SkippedWithoutConfig(t *testing.T) {
	var state checkState
	results := checkDocument(&state)

	if results[0].Status != doctor.StatusSkip {
		t.Errorf("expected SKIP, got %s: %s", results[0].Status, results[0].Message)
	}
}

func TestCheckRecord_Decodes(t *testing.T) {
	testDir(t)
	addPersonas(t, "Alpha")

	state := checkState{cfg: config.Default()}
	checkDocument(&state)
	results := checkRecord(&state, testLogger())

	if results[0].Status != doctor.StatusPass {
		t.Errorf("expected PASS, got %s: %s", results[0].Status, results[0].Message)
	}
	if state.record == nil {
		t.Fatal("expected state.record to be set")
	}
	if len(state.record.Personas) != 1 {
		t.Errorf("expected 1 persona in the decoded record, got %d", len(state.record.Personas))
	}
}

func TestCheckRecord_NoBlock(t *testing.T) {
	state := checkState{
		cfg:      config.Default(),
		document: []byte("# Persona Roster (Persistent)\n\nhand-written notes\n"),
	}
	results := checkRecord(&state, testLogger())

	if results[0].Status != doctor.StatusWarn {
		t.Errorf("expected WARN, got %s: %s", results[0].Status, results[0].Message)
	}
	if !strings.Contains(results[0].Message, "default scaffold") {
		t.Errorf("expected scaffold fallback note, got %q", results[0].Message)
	}
	if state.record != nil {
		t.Error("expected no record for a block-less document")
	}
}

func TestCheckRecord_Corrupt(t *testing.T) {
	testDir(t)
	corruptDocument(t)

	state := checkState{cfg: config.Default()}
	checkDocument(&state)
	results := checkRecord(&state, testLogger())

	if results[0].Status != doctor.StatusFail {
		t.Fatalf("expected FAIL, got %s: %s", results[0].Status, results[0].Message)
	}
	if !results[0].HasFix() {
		t.Error("expected a fix action on a corrupt record")
	}
	if !strings.Contains(results[0].FixHint, "default scaffold") {
		t.Errorf("expected the fix hint to name the scaffold reset, got %q", results[0].FixHint)
	}
	if !strings.Contains(results[0].FixHint, "snapshot") {
		t.Errorf("expected the fix hint to mention the safety snapshot, got %q", results[0].FixHint)
	}
}

func TestCheckRecord_FixResetsDocument(t *testing.T) {
	testDir(t)
	corruptDocument(t)

	state := checkState{cfg: config.Default()}
	checkDocument(&state)
	results := checkRecord(&state, testLogger())

	outcome := doctor.ExecuteFixes(context.Background(), results, false)
	if outcome.FixedCount != 1 {
		t.Fatalf("expected 1 fix, got %d", outcome.FixedCount)
	}
	if results[0].Status != doctor.StatusFixed {
		t.Errorf("expected FIXED, got %s", results[0].Status)
	}

	document, err := rosterdoc.ReadDocument(config.Default().Paths.Roster)
	if err != nil {
		t.Fatalf("reading reset document: %v", err)
	}
	r, err := rosterdoc.Decode(document)
	if err != nil {
		t.Fatalf("reset document does not decode: %v", err)
	}
	if r.Meta["name"] != "Roster Steward" {
		t.Errorf("expected the default scaffold, got meta name %v", r.Meta["name"])
	}

	// The damaged bytes were captured before the overwrite.
	stored, err := config.Default().SnapshotStore().List()
	if err != nil {
		t.Fatalf("listing snapshots: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("expected 1 safety snapshot of the damaged document, got %d", len(stored))
	}
}

func TestCheckPersonas_ScaffoldIsThin(t *testing.T) {
	state := checkState{record: roster.Default()}
	results := checkPersonas(&state)

	if results[0].Status != doctor.StatusWarn {
		t.Errorf("expected WARN, got %s: %s", results[0].Status, results[0].Message)
	}
	if !strings.Contains(results[0].Message, "at least 3") {
		t.Errorf("expected the persona minimum in message, got %q", results[0].Message)
	}
}

func TestCheckPersonas_Staffed(t *testing.T) {
	r := roster.Default()
	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		r.Add(map[string]any{"name": name})
	}
	state := checkState{record: r}
	results := checkPersonas(&state)

	if results[0].Status != doctor.StatusPass {
		t.Errorf("expected PASS, got %s: %s", results[0].Status, results[0].Message)
	}
	if !strings.Contains(results[0].Message, "3 personas") {
		t.Errorf("expected the persona count, got %q", results[0].Message)
	}
}

func TestCheckPersonas_Duplicates(t *testing.T) {
	r := roster.Default()
	for _, name := range []string{"Alpha", "Alpha", "Beta"} {
		r.Add(map[string]any{"name": name})
	}
	state := checkState{record: r}
	results := checkPersonas(&state)

	if results[0].Status != doctor.StatusWarn {
		t.Errorf("expected WARN, got %s: %s", results[0].Status, results[0].Message)
	}
	if !strings.Contains(results[0].Message, "Alpha") {
		t.Errorf("expected the duplicated name, got %q", results[0].Message)
	}
}

func TestCheckJournal_FreshDirectory(t *testing.T) {
	testDir(t)

	state := checkState{cfg: config.Default()}
	results := checkJournal(&state)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != doctor.StatusPass || !strings.Contains(results[0].Message, "absent") {
		t.Errorf("expected PASS for an absent journal, got %s: %s", results[0].Status, results[0].Message)
	}
	if results[1].Status != doctor.StatusSkip {
		t.Errorf("expected SKIP for the digest check, got %s: %s", results[1].Status, results[1].Message)
	}
}

func TestCheckJournal_DigestMatches(t *testing.T) {
	testDir(t)
	addPersonas(t, "Alpha", "Beta", "Gamma")

	state := checkState{cfg: config.Default()}
	checkDocument(&state)
	results := checkJournal(&state)

	if !strings.Contains(results[0].Message, "3 entries") {
		t.Errorf("expected 3 entries, got %q", results[0].Message)
	}
	if results[1].Status != doctor.StatusPass {
		t.Errorf("expected the digest to match, got %s: %s", results[1].Status, results[1].Message)
	}
}

func TestCheckJournal_OutOfBandEdit(t *testing.T) {
	testDir(t)
	addPersonas(t, "Alpha")

	path := config.Default().Paths.Roster
	document, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, append(document, []byte("\nstray edit\n")...), 0o644); err != nil {
		t.Fatal(err)
	}

	state := checkState{cfg: config.Default()}
	checkDocument(&state)
	results := checkJournal(&state)

	if results[1].Status != doctor.StatusWarn {
		t.Errorf("expected WARN on an out-of-band edit, got %s: %s", results[1].Status, results[1].Message)
	}
	if !strings.Contains(results[1].Message, "outside") {
		t.Errorf("expected the out-of-band explanation, got %q", results[1].Message)
	}
}

func TestCheckSnapshots_Disabled(t *testing.T) {
	cfg := config.Default()
	cfg.Snapshots.Disabled = true
	state := checkState{cfg: cfg}
	results := checkSnapshots(&state)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != doctor.StatusSkip {
		t.Errorf("expected SKIP, got %s: %s", results[0].Status, results[0].Message)
	}
}

func TestCheckSnapshots_AbsentDirectory(t *testing.T) {
	testDir(t)

	state := checkState{cfg: config.Default()}
	results := checkSnapshots(&state)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != doctor.StatusPass || !strings.Contains(results[0].Message, "absent") {
		t.Errorf("expected PASS for an absent directory, got %s: %s", results[0].Status, results[0].Message)
	}
}

func TestCheckSnapshotFiles_Paired(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.snap", "a.meta", "b.snap", "b.meta"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	results := checkSnapshotFiles(dir)
	if results[0].Status != doctor.StatusPass {
		t.Errorf("expected PASS, got %s: %s", results[0].Status, results[0].Message)
	}
	if !strings.Contains(results[0].Message, "all 2 paired") {
		t.Errorf("expected the pair count, got %q", results[0].Message)
	}
}

func TestCheckSnapshotFiles_Orphans(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.snap", "a.meta", "b.snap", "c.meta"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	results := checkSnapshotFiles(dir)
	if results[0].Status != doctor.StatusFail {
		t.Fatalf("expected FAIL, got %s: %s", results[0].Status, results[0].Message)
	}
	if !strings.Contains(results[0].Message, "2 unpaired") {
		t.Errorf("expected 2 unpaired files, got %q", results[0].Message)
	}
	if !results[0].HasFix() {
		t.Fatal("expected a fix action for unpaired files")
	}

	outcome := doctor.ExecuteFixes(context.Background(), results, false)
	if outcome.FixedCount != 1 {
		t.Fatalf("expected 1 fix, got %d", outcome.FixedCount)
	}
	for _, name := range []string{"b.snap", "c.meta"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected %s to be removed, stat err = %v", name, err)
		}
	}
	for _, name := range []string{"a.snap", "a.meta"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected the paired %s to survive, stat err = %v", name, err)
		}
	}
}

func TestPrintGuidance_AllPassing(t *testing.T) {
	results := []doctor.Result{
		doctor.Pass("configuration", "ok"),
		doctor.Pass("document", "ok"),
		doctor.Pass("embedded record", "ok"),
	}

	output := captureStdout(t, func() {
		printGuidance(results)
	})

	if strings.Contains(output, "Next steps") {
		t.Errorf("should not print 'Next steps' when all passing, got %q", output)
	}
}

func TestPrintGuidance_CorruptRecord(t *testing.T) {
	results := []doctor.Result{
		doctor.Pass("configuration", "ok"),
		doctor.Fail("embedded record", "does not decode"),
	}

	output := captureStdout(t, func() {
		printGuidance(results)
	})

	if !strings.Contains(output, "Next steps") {
		t.Errorf("expected 'Next steps' section, got %q", output)
	}
	if !strings.Contains(output, "roster backup restore") {
		t.Errorf("expected restore guidance, got %q", output)
	}
	if !strings.Contains(output, "roster doctor --fix") {
		t.Errorf("expected fix guidance, got %q", output)
	}
}

func TestPrintGuidance_Dedup(t *testing.T) {
	results := []doctor.Result{
		doctor.Fail("embedded record", "does not decode"),
		doctor.Fail("snapshot files", "1 unpaired file(s)"),
	}

	output := captureStdout(t, func() {
		printGuidance(results)
	})

	// Both failures point at the same fix command; it should appear once.
	if strings.Count(output, "roster doctor --fix") != 1 {
		t.Errorf("expected exactly one fix guidance line, got %q", output)
	}
}

func TestDoctorHealthyFreshDirectory(t *testing.T) {
	testDir(t)

	var runErr error
	out := captureStdout(t, func() {
		runErr = Command().Execute(nil)
	})
	if runErr != nil {
		t.Fatalf("Execute: %v", runErr)
	}
	if !strings.Contains(out, "All checks passed.") {
		t.Errorf("expected a passing summary, got:\n%s", out)
	}
	if !strings.Contains(out, "[PASS ]") || !strings.Contains(out, "[SKIP ]") {
		t.Errorf("expected pass and skip lines, got:\n%s", out)
	}
	if strings.Contains(out, "[FAIL ]") {
		t.Errorf("unexpected failure on a fresh directory:\n%s", out)
	}
}

func TestDoctorExitsOneOnCorruptRecord(t *testing.T) {
	testDir(t)
	corruptDocument(t)

	var runErr error
	out := captureStdout(t, func() {
		runErr = Command().Execute(nil)
	})

	var exit *cli.ExitError
	if !errors.As(runErr, &exit) || exit.Code != 1 {
		t.Fatalf("expected exit code 1, got %v", runErr)
	}
	if !strings.Contains(out, "[FAIL ]") || !strings.Contains(out, "embedded record") {
		t.Errorf("expected the record failure in the checklist:\n%s", out)
	}
	if !strings.Contains(out, "Next steps:") {
		t.Errorf("expected guidance after the checklist:\n%s", out)
	}
	if !strings.Contains(out, "Run with --fix") {
		t.Errorf("expected the fix pointer, got:\n%s", out)
	}
}

func TestDoctorFixRepairsCorruptRecord(t *testing.T) {
	testDir(t)
	corruptDocument(t)

	var runErr error
	out := captureStdout(t, func() {
		runErr = Command().Execute([]string{"--fix"})
	})
	if runErr != nil {
		t.Fatalf("Execute --fix: %v\n%s", runErr, out)
	}
	if !strings.Contains(out, "[FIXED]") {
		t.Errorf("expected a FIXED line, got:\n%s", out)
	}
	if !strings.Contains(out, "repaired") {
		t.Errorf("expected a repair summary, got:\n%s", out)
	}

	document, err := rosterdoc.ReadDocument(config.Default().Paths.Roster)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rosterdoc.Decode(document); err != nil {
		t.Errorf("document still corrupt after --fix: %v", err)
	}
}

func TestDoctorFixDryRun(t *testing.T) {
	testDir(t)
	corruptDocument(t)
	before, err := os.ReadFile(config.Default().Paths.Roster)
	if err != nil {
		t.Fatal(err)
	}

	var runErr error
	out := captureStdout(t, func() {
		runErr = Command().Execute([]string{"--fix", "--dry-run"})
	})

	var exit *cli.ExitError
	if !errors.As(runErr, &exit) || exit.Code != 1 {
		t.Fatalf("expected exit code 1 in dry-run, got %v", runErr)
	}
	if !strings.Contains(out, "would fix:") {
		t.Errorf("expected a dry-run preview, got:\n%s", out)
	}

	after, err := os.ReadFile(config.Default().Paths.Roster)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("dry-run modified the document")
	}
}

func TestDoctorJSON(t *testing.T) {
	testDir(t)
	corruptDocument(t)

	var runErr error
	out := captureStdout(t, func() {
		runErr = Command().Execute([]string{"--json"})
	})

	var exit *cli.ExitError
	if !errors.As(runErr, &exit) || exit.Code != 1 {
		t.Fatalf("expected exit code 1, got %v", runErr)
	}

	var report doctor.JSONOutput
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if report.OK {
		t.Error("expected ok=false with a corrupt record")
	}
	found := false
	for _, check := range report.Checks {
		if check.Name == "embedded record" && check.Status == doctor.StatusFail {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a failing 'embedded record' check, got %v", report.Checks)
	}
}

func TestDoctorJSONHealthy(t *testing.T) {
	testDir(t)
	addPersonas(t, "Alpha", "Beta", "Gamma")

	var runErr error
	out := captureStdout(t, func() {
		runErr = Command().Execute([]string{"--json"})
	})
	if runErr != nil {
		t.Fatalf("Execute: %v", runErr)
	}

	var report doctor.JSONOutput
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if !report.OK {
		t.Errorf("expected ok=true, got %v", report.Checks)
	}
}

func TestDoctorRejectsArguments(t *testing.T) {
	err := Command().Execute([]string{"bogus"})

	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != cli.CategoryValidation {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestDoctorDryRunRequiresFix(t *testing.T) {
	err := Command().Execute([]string{"--dry-run"})

	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != cli.CategoryValidation {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "--fix") {
		t.Errorf("expected the error to name --fix, got %v", err)
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

// addPersonas seeds the document through the add-persona command so
// the journal and document stay consistent.
func addPersonas(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		spec := `{"name": "` + name + `"}`
		if err := record.AddPersonaCommand().Execute([]string{"--spec", spec}); err != nil {
			t.Fatalf("add-persona %s: %v", name, err)
		}
	}
}

// corruptDocument writes a document whose embedded block is not valid
// JSON.
func corruptDocument(t *testing.T) {
	t.Helper()
	if err := os.MkdirAll(".agents", 0o755); err != nil {
		t.Fatal(err)
	}
	document := "# Persona Roster (Persistent)\n\n<!-- ROSTER_JSON: {\"personas\": [ -->\n"
	if err := os.WriteFile(config.Default().Paths.Roster, []byte(document), 0o644); err != nil {
		t.Fatal(err)
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
