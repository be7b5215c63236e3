// Copyright 2026 The Asset Hatch Authors
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"log/slog"

	"github.com/zenchantlive/Asset-Hatch/lib/config"
	"github.com/zenchantlive/Asset-Hatch/lib/journal"
	"github.com/zenchantlive/Asset-Hatch/lib/rosterdoc"
)

// OpenStore resolves configuration and builds the document store the
// roster commands operate on. The logger receives snapshot and journal
// warnings from saves.
//
// The backup and doctor command groups use the same glue so that every
// command resolves paths identically.
func OpenStore(logger *slog.Logger) (*rosterdoc.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return StoreFromConfig(cfg, logger), nil
}

// StoreFromConfig builds the document store a resolved config
// describes.
func StoreFromConfig(cfg *config.Config, logger *slog.Logger) *rosterdoc.Store {
	return rosterdoc.NewStore(
		cfg.Paths.Roster,
		cfg.SnapshotStore(),
		journal.New(cfg.Paths.Journal),
		logger,
	)
}
