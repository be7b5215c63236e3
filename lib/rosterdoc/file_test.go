// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package rosterdoc

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestReadDocumentAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "roster.md")
	data, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument on absent file: %v", err)
	}
	if data != nil {
		t.Errorf("data = %q, want nil for an absent document", data)
	}
}

func TestWriteAndReadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".agents", "roster.md")
	content := []byte("# Persona Roster (Persistent)\n")

	if err := WriteDocument(path, content); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}

	data, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Errorf("read back %q, want %q", data, content)
	}
}

func TestWriteDocumentCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "roster.md")
	if err := WriteDocument(path, []byte("x")); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat after write: %v", err)
	}
}

func TestWriteDocumentReplacesWhole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.md")

	if err := WriteDocument(path, []byte("the first, longer document body\n")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteDocument(path, []byte("short\n")); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "short\n" {
		t.Errorf("content = %q, want full replacement with %q", data, "short\n")
	}
}

func TestWriteDocumentLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.md")
	if err := WriteDocument(path, []byte("x")); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "roster.md" {
		names := make([]string, len(entries))
		for i, entry := range entries {
			names[i] = entry.Name()
		}
		t.Errorf("directory contents = %v, want only roster.md", names)
	}
}

func TestWriteDocumentWorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.md")
	if err := WriteDocument(path, []byte("x")); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("permissions = %o, want 644", perm)
	}
}
