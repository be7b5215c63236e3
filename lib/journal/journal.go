// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package journal records roster mutations in an append-only CBOR log.
//
// Every command that rewrites the roster document appends one entry
// describing what ran, which persona it touched, and the digest of the
// document bytes it produced. The log is the authoritative answer to
// "what changed this roster and when" without depending on the
// document's own rotation-history section, which personas edit freely.
//
// Entries are CBOR-encoded back to back with no framing: CBOR items
// are self-delimiting, so replay is a plain decode loop. A torn final
// entry (a process killed mid-append) ends replay at the last complete
// entry rather than poisoning the whole log.
package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/zenchantlive/Asset-Hatch/lib/codec"
)

// Entry is one recorded mutation. Internal format: CBOR tags only.
type Entry struct {
	// ID is a random UUID assigned at append time.
	ID string `cbor:"id"`

	// Time is when the mutation was recorded, UTC.
	Time time.Time `cbor:"time"`

	// Command is the subcommand that performed the mutation, for
	// example "update-ledger" or "restore".
	Command string `cbor:"command"`

	// Persona is the persona the mutation targeted, empty for
	// whole-document operations.
	Persona string `cbor:"persona,omitempty"`

	// Digest is the hex document-domain digest of the document bytes
	// the mutation wrote.
	Digest string `cbor:"digest"`
}

// Journal is an append-only mutation log at a fixed path. The file is
// opened per operation; the CLI process is short-lived and holding a
// handle across calls would only complicate crash behavior.
type Journal struct {
	path string
}

// New returns a journal backed by the file at path. The file is
// created on first append.
func New(path string) *Journal {
	return &Journal{path: path}
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// NewEntry builds an entry for a mutation that wrote the given
// document bytes. The ID and timestamp are assigned here so callers
// only name the command and persona.
func NewEntry(command, persona string, document []byte) Entry {
	return Entry{
		ID:      uuid.NewString(),
		Time:    time.Now().UTC(),
		Command: command,
		Persona: persona,
		Digest:  DocumentDigest(document).String(),
	}
}

// Append writes one entry to the end of the log, creating the file and
// its parent directory if needed.
func (j *Journal) Append(entry Entry) error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("creating journal directory: %w", err)
	}

	file, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal %s: %w", j.path, err)
	}

	if err := codec.NewEncoder(file).Encode(entry); err != nil {
		file.Close()
		return fmt.Errorf("appending journal entry: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing journal: %w", err)
	}
	return nil
}

// Entries replays the log and returns every entry, oldest first. A
// missing log file reads as empty. Replay stops at the first entry
// that fails to decode — everything before that point was valid.
func (j *Journal) Entries() ([]Entry, error) {
	file, err := os.Open(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", j.path, err)
	}
	defer file.Close()

	var entries []Entry
	decoder := codec.NewDecoder(file)
	for {
		var entry Entry
		if err := decoder.Decode(&entry); err != nil {
			// io.EOF is a clean end; anything else is a truncated or
			// corrupt final record. Everything before it was valid.
			break
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Tail returns the most recent entries, newest first. A limit of zero
// or less returns the full log.
func (j *Journal) Tail(limit int) ([]Entry, error) {
	entries, err := j.Entries()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	slices.Reverse(entries)
	return entries, nil
}
