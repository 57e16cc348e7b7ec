// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"os"

	"github.com/lumiere-labs/lumiere-tui/internal/util"
)

// FileSlot stores the payload in a single JSON file, written atomically so a
// crash mid-save never leaves a torn snapshot.
type FileSlot struct {
	path string
}

// NewFileSlot creates a slot backed by the given file path.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Path returns the backing file path.
func (s *FileSlot) Path() string {
	return s.path
}

// Get reads the stored payload. A missing file means the slot is empty.
func (s *FileSlot) Get() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read slot file: %w", err)
	}
	return data, nil
}

// Set replaces the stored payload.
func (s *FileSlot) Set(data []byte) error {
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write slot file: %w", err)
	}
	return nil
}
