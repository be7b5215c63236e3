// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package backup implements the "roster backup" command group: manual
// snapshot capture, listing, and restore.
//
// The commands operate on the same snapshot store that mutation
// commands write through, so manual and automatic snapshots share one
// directory, one retention limit, and one ID namespace. Restores go
// through the document store, which captures the current document
// first; rewinding is never destructive.
package backup
