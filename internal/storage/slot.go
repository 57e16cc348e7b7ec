// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the session directory to a single storage slot.
package storage

import "errors"

// ErrSlotEmpty is returned by a slot Get when nothing has been stored yet.
var ErrSlotEmpty = errors.New("storage slot is empty")

// Slot is a single named byte payload, the persistence unit for the whole
// session directory. Get returns ErrSlotEmpty when nothing was ever written.
type Slot interface {
	Get() ([]byte, error)
	Set(data []byte) error
}
