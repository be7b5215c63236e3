// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot stores timestamped backups of the roster document.
//
// Every save of the roster first captures the bytes it is about to
// overwrite, so any mutation can be undone by restoring the snapshot
// taken just before it. Snapshots live in a flat directory: the
// document bytes (possibly compressed) in an ".snap" file and a CBOR
// metadata sidecar in a ".meta" file. The sidecar is written last and
// acts as the commit record — a snapshot without a readable sidecar is
// invisible to List.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/zenchantlive/Asset-Hatch/lib/codec"
	"github.com/zenchantlive/Asset-Hatch/lib/journal"
)

const (
	documentSuffix = ".snap"
	metadataSuffix = ".meta"

	// DefaultKeep is the retention limit applied when config does not
	// set one. Old snapshots beyond the limit are removed by Prune.
	DefaultKeep = 10

	// idTimeFormat timestamps snapshot identifiers. Nanosecond
	// precision keeps IDs unique when saves land in the same second.
	idTimeFormat = "20060102T150405.000000000"
)

// Snapshot describes one stored backup.
type Snapshot struct {
	// ID names the snapshot on disk and in CLI output. It sorts
	// chronologically: a UTC timestamp followed by the first hex
	// characters of the document digest.
	ID string `cbor:"id"`

	// Time is when the snapshot was captured, UTC.
	Time time.Time `cbor:"time"`

	// Digest is the hex document-domain digest of the uncompressed
	// document bytes. Restore verifies it.
	Digest string `cbor:"digest"`

	// Size is the uncompressed document length in bytes.
	Size int64 `cbor:"size"`

	// StoredSize is the on-disk length after compression.
	StoredSize int64 `cbor:"stored_size"`

	// Compression is the algorithm the document bytes are stored with.
	Compression CompressionTag `cbor:"compression"`
}

var (
	// ErrNoMatch reports a reference that matches no stored snapshot.
	ErrNoMatch = errors.New("snapshot: no match for reference")

	// ErrAmbiguous reports a reference prefix shared by more than one
	// snapshot.
	ErrAmbiguous = errors.New("snapshot: ambiguous reference")
)

// Store captures and restores snapshots in a single directory.
type Store struct {
	dir         string
	keep        int
	compression CompressionTag
}

// NewStore returns a store rooted at dir. keep is the retention limit
// enforced by Prune; zero or negative keeps everything. compression is
// the algorithm Capture attempts — incompressible documents fall back
// to uncompressed storage.
func NewStore(dir string, keep int, compression CompressionTag) *Store {
	return &Store{dir: dir, keep: keep, compression: compression}
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string {
	return s.dir
}

// Capture stores the given document bytes as a new snapshot and
// returns its metadata. Retention is not enforced here; callers decide
// when to Prune.
func (s *Store) Capture(document []byte) (Snapshot, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Snapshot{}, fmt.Errorf("creating snapshot directory: %w", err)
	}

	now := time.Now().UTC()
	digest := journal.DocumentDigest(document)

	stored, tag := document, s.compression
	if tag != CompressionNone {
		compressed, err := Compress(document, tag)
		if IsIncompressible(err) {
			stored, tag = document, CompressionNone
		} else if err != nil {
			return Snapshot{}, fmt.Errorf("compressing snapshot: %w", err)
		} else {
			stored = compressed
		}
	}

	snapshot := Snapshot{
		ID:          now.Format(idTimeFormat) + "-" + digest.Short(),
		Time:        now,
		Digest:      digest.String(),
		Size:        int64(len(document)),
		StoredSize:  int64(len(stored)),
		Compression: tag,
	}

	documentPath := filepath.Join(s.dir, snapshot.ID+documentSuffix)
	if err := os.WriteFile(documentPath, stored, 0o644); err != nil {
		return Snapshot{}, fmt.Errorf("writing snapshot %s: %w", snapshot.ID, err)
	}

	sidecar, err := codec.Marshal(snapshot)
	if err != nil {
		os.Remove(documentPath)
		return Snapshot{}, fmt.Errorf("encoding snapshot metadata: %w", err)
	}
	metadataPath := filepath.Join(s.dir, snapshot.ID+metadataSuffix)
	if err := os.WriteFile(metadataPath, sidecar, 0o644); err != nil {
		os.Remove(documentPath)
		return Snapshot{}, fmt.Errorf("writing snapshot metadata %s: %w", snapshot.ID, err)
	}

	return snapshot, nil
}

// List returns all snapshots, newest first. Sidecars that fail to
// decode are skipped; a missing directory reads as empty.
func (s *Store) List() ([]Snapshot, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot directory: %w", err)
	}

	var snapshots []Snapshot
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), metadataSuffix) {
			continue
		}

		sidecar, err := os.ReadFile(filepath.Join(s.dir, dirEntry.Name()))
		if err != nil {
			continue
		}
		var snapshot Snapshot
		if err := codec.Unmarshal(sidecar, &snapshot); err != nil {
			// Torn or foreign file; the snapshot never committed.
			continue
		}
		snapshots = append(snapshots, snapshot)
	}

	slices.SortFunc(snapshots, func(a, b Snapshot) int {
		if c := b.Time.Compare(a.Time); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return snapshots, nil
}

// Find resolves a snapshot by exact ID or unique ID prefix.
func (s *Store) Find(ref string) (Snapshot, error) {
	snapshots, err := s.List()
	if err != nil {
		return Snapshot{}, err
	}

	var matches []Snapshot
	for _, snapshot := range snapshots {
		if snapshot.ID == ref {
			return snapshot, nil
		}
		if strings.HasPrefix(snapshot.ID, ref) {
			matches = append(matches, snapshot)
		}
	}

	switch len(matches) {
	case 0:
		return Snapshot{}, fmt.Errorf("%w: %q", ErrNoMatch, ref)
	case 1:
		return matches[0], nil
	default:
		return Snapshot{}, fmt.Errorf("%w: %q matches %d snapshots", ErrAmbiguous, ref, len(matches))
	}
}

// Restore returns the document bytes of the snapshot matching ref. The
// bytes are decompressed and verified against the recorded digest.
func (s *Store) Restore(ref string) ([]byte, Snapshot, error) {
	snapshot, err := s.Find(ref)
	if err != nil {
		return nil, Snapshot{}, err
	}

	stored, err := os.ReadFile(filepath.Join(s.dir, snapshot.ID+documentSuffix))
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("reading snapshot %s: %w", snapshot.ID, err)
	}

	document, err := Decompress(stored, snapshot.Compression, int(snapshot.Size))
	if err != nil {
		return nil, Snapshot{}, fmt.Errorf("snapshot %s: %w", snapshot.ID, err)
	}

	if journal.DocumentDigest(document).String() != snapshot.Digest {
		return nil, Snapshot{}, fmt.Errorf("snapshot %s is corrupt: digest mismatch", snapshot.ID)
	}

	return document, snapshot, nil
}

// Prune removes the oldest snapshots beyond the store's retention
// limit and returns how many were removed. Removal is best effort:
// all candidates are attempted and failures are joined.
func (s *Store) Prune() (int, error) {
	if s.keep <= 0 {
		return 0, nil
	}

	snapshots, err := s.List()
	if err != nil {
		return 0, err
	}
	if len(snapshots) <= s.keep {
		return 0, nil
	}

	removed := 0
	var errs []error
	for _, snapshot := range snapshots[s.keep:] {
		// Sidecar first: once it is gone the snapshot is invisible,
		// and a leftover document file is a harmless orphan.
		if err := os.Remove(filepath.Join(s.dir, snapshot.ID+metadataSuffix)); err != nil {
			errs = append(errs, fmt.Errorf("pruning snapshot %s: %w", snapshot.ID, err))
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, snapshot.ID+documentSuffix)); err != nil {
			errs = append(errs, fmt.Errorf("pruning snapshot %s: %w", snapshot.ID, err))
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
