// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lumiere-labs/lumiere-tui/internal/session"
)

// snapshotVersion is bumped when the persisted layout changes shape.
const snapshotVersion = 1

// snapshot is the on-disk layout of the whole session directory.
type snapshot struct {
	Version  int                `json:"version"`
	SavedAt  time.Time          `json:"saved_at"`
	Sessions []*session.Session `json:"sessions"`
}

// Repository loads and saves the session directory through a storage slot.
type Repository struct {
	slot   Slot
	logger *zap.Logger
}

// NewRepository creates a repository over the given slot.
func NewRepository(slot Slot, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{slot: slot, logger: logger}
}

// Load restores the session directory from the slot. Restore is fail-soft:
// an empty slot, unreadable payload, or unparseable snapshot all yield an
// empty directory and a logged warning, never a startup failure. Session
// history is valuable but not worth refusing to start over.
func (r *Repository) Load(dir *session.Directory) {
	data, err := r.slot.Get()
	if errors.Is(err, ErrSlotEmpty) {
		r.logger.Info("no stored sessions, starting fresh")
		return
	}
	if err != nil {
		r.logger.Warn("failed to read stored sessions, starting fresh", zap.Error(err))
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.logger.Warn("stored sessions are corrupt, starting fresh", zap.Error(err))
		return
	}

	dir.Restore(snap.Sessions)
	r.logger.Info("restored sessions",
		zap.Int("count", len(snap.Sessions)),
		zap.Int("version", snap.Version))
}

// Save persists the session directory to the slot.
func (r *Repository) Save(dir *session.Directory) error {
	snap := snapshot{
		Version:  snapshotVersion,
		SavedAt:  time.Now(),
		Sessions: dir.Snapshot(),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	if err := r.slot.Set(data); err != nil {
		return fmt.Errorf("store sessions: %w", err)
	}
	return nil
}
