// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package rosterdoc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ReadDocument returns the document bytes at path, or nil when no
// document exists. Absence is not an error; it decodes to "no record".
func ReadDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading roster document: %w", err)
	}
	return data, nil
}

// WriteDocument atomically replaces the document at path. The bytes
// are written to a temporary file in the same directory and renamed
// into place, so readers never observe a partially-written document
// and a failed write leaves the previous document intact.
//
// The parent directory is created if needed. The document is written
// world-readable; it is meant to be read by humans, not just by this
// tool.
func WriteDocument(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating document directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating temp document file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp document file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting document permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming document to %s: %w", path, err)
	}

	success = true
	return nil
}
