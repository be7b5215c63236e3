// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package rosterdoc

import (
	"fmt"
	"log/slog"

	"github.com/zenchantlive/Asset-Hatch/lib/journal"
	"github.com/zenchantlive/Asset-Hatch/lib/roster"
	"github.com/zenchantlive/Asset-Hatch/lib/snapshot"
)

// Store ties the roster document on disk to its snapshot store and
// mutation journal. All CLI mutations go through Save so that every
// rewrite is preceded by a backup of the bytes it replaces and
// followed by a journal entry describing it.
type Store struct {
	path      string
	snapshots *snapshot.Store
	journal   *journal.Journal
	logger    *slog.Logger
}

// NewStore returns a store for the document at path. snapshots may be
// nil to disable pre-write backups; journal may be nil to disable
// mutation recording.
func NewStore(path string, snapshots *snapshot.Store, log *journal.Journal, logger *slog.Logger) *Store {
	return &Store{path: path, snapshots: snapshots, journal: log, logger: logger}
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Snapshots returns the snapshot store, nil when disabled.
func (s *Store) Snapshots() *snapshot.Store {
	return s.snapshots
}

// Journal returns the mutation journal, nil when disabled.
func (s *Store) Journal() *journal.Journal {
	return s.journal
}

// Load reads and decodes the roster. A missing file or a document
// without a usable embedded record loads as nil; decode failures on a
// present record are errors.
func (s *Store) Load() (*roster.Roster, error) {
	data, err := ReadDocument(s.path)
	if err != nil {
		return nil, err
	}
	r, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.path, err)
	}
	return r, nil
}

// LoadOrDefault is Load with the default scaffold substituted when the
// document has no usable record.
func (s *Store) LoadOrDefault() (*roster.Roster, error) {
	r, err := s.Load()
	if err != nil {
		return nil, err
	}
	if r == nil {
		return roster.Default(), nil
	}
	return r, nil
}

// Save encodes the roster and rewrites the document. The previous
// document bytes are snapshotted first — a snapshot failure aborts the
// save with the document untouched. After a successful write the
// mutation is journaled; journal failures are logged rather than
// returned, because the write they describe has already landed.
//
// command and persona label the journal entry.
func (s *Store) Save(r *roster.Roster, command, persona string) error {
	encoded, err := Encode(r)
	if err != nil {
		return err
	}

	previous, err := ReadDocument(s.path)
	if err != nil {
		return err
	}

	if s.snapshots != nil && previous != nil {
		captured, err := s.snapshots.Capture(previous)
		if err != nil {
			return fmt.Errorf("snapshotting roster before save: %w", err)
		}
		s.logger.Debug("captured pre-save snapshot",
			"snapshot", captured.ID,
			"size", captured.Size)

		if _, err := s.snapshots.Prune(); err != nil {
			s.logger.Warn("pruning old snapshots failed", "error", err)
		}
	}

	if err := WriteDocument(s.path, encoded); err != nil {
		return err
	}

	if s.journal != nil {
		entry := journal.NewEntry(command, persona, encoded)
		if err := s.journal.Append(entry); err != nil {
			s.logger.Warn("journaling roster mutation failed",
				"command", command,
				"error", err)
		}
	}
	return nil
}

// Restore rewrites the document from the snapshot matching ref. The
// current document is snapshotted first under the same abort rule as
// Save, so a restore is itself undoable. Returns the metadata of the
// restored snapshot.
func (s *Store) Restore(ref string) (snapshot.Snapshot, error) {
	if s.snapshots == nil {
		return snapshot.Snapshot{}, fmt.Errorf("snapshots are disabled")
	}

	document, restored, err := s.snapshots.Restore(ref)
	if err != nil {
		return snapshot.Snapshot{}, err
	}

	previous, err := ReadDocument(s.path)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	if previous != nil {
		if _, err := s.snapshots.Capture(previous); err != nil {
			return snapshot.Snapshot{}, fmt.Errorf("snapshotting roster before restore: %w", err)
		}
	}

	if err := WriteDocument(s.path, document); err != nil {
		return snapshot.Snapshot{}, err
	}

	if s.journal != nil {
		entry := journal.NewEntry("restore", "", document)
		if err := s.journal.Append(entry); err != nil {
			s.logger.Warn("journaling restore failed", "error", err)
		}
	}
	return restored, nil
}
