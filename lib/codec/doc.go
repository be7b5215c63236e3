// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration.
//
// The roster tool uses two serialization formats with a clear boundary:
//
//   - JSON for everything user-facing: the embedded block in the
//     roster document, command-line --spec/--patch input, and CLI
//     --json output.
//   - CBOR for internal records that no human edits: mutation journal
//     entries and snapshot sidecar metadata.
//
// This package provides the shared CBOR modes so that both internal
// consumers encode identically without duplicating configuration. The
// encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map
// keys, smallest integer encoding, no indefinite-length items. Same
// logical data always produces identical bytes.
//
// For buffer-oriented operations (snapshot metadata files):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (the append-only journal):
//
//	encoder := codec.NewEncoder(file)
//	decoder := codec.NewDecoder(file)
package codec
