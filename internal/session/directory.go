// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
)

// =============================================================================
// SESSION DIRECTORY
// =============================================================================

// Directory is the collection of all stored sessions. It is the durable side
// of the dual-write model: the streaming path writes every increment here as
// well as into the live transcript, so closing the app mid-stream loses at
// most the in-flight tail.
//
// Writes addressed to a session that no longer exists (deleted mid-stream)
// are dropped. Increments addressed to an existing session but a missing turn
// synthesize the turn instead: the durable record must not silently miss an
// answer the user watched arrive.
//
// Listing order is creation order, newest first. A title landing or a late
// stream increment never reorders the list.
type Directory struct {
	mu       sync.Mutex
	sessions map[string]*Session
	order    []string // session IDs, newest first
}

// NewDirectory creates an empty session directory.
func NewDirectory() *Directory {
	return &Directory{sessions: make(map[string]*Session)}
}

// Create adds a fresh empty session in the given mode and returns its ID.
func (d *Directory) Create(mode model.Mode) *Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := New(mode)
	d.sessions[s.ID] = s
	d.order = append([]string{s.ID}, d.order...)
	return s.Clone()
}

// Append adds a copy of the turn to the identified session. Appends to a
// missing session are dropped.
func (d *Directory) Append(sessionID string, turn *model.Turn) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[sessionID]
	if !ok {
		return false
	}
	s.Turns = append(s.Turns, turn.Clone())
	s.UpdatedAt = time.Now()
	return true
}

// ApplyIncrement folds a streamed increment into a turn of the identified
// session. When the session exists but the turn does not, an assistant turn
// with that ID is synthesized first, so a stream that raced a session load
// still lands its content in the durable record. Increments for a missing
// session are dropped.
func (d *Directory) ApplyIncrement(sessionID, turnID, delta string, grounding *model.GroundingMetadata, attachment *model.Attachment) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[sessionID]
	if !ok {
		return false
	}
	t := s.findTurn(turnID)
	if t == nil {
		t = &model.Turn{
			ID:        turnID,
			Role:      model.RoleAssistant,
			Timestamp: time.Now(),
		}
		s.Turns = append(s.Turns, t)
	}
	t.Fold(delta, grounding, attachment)
	s.UpdatedAt = time.Now()
	return true
}

// SetTitle assigns the display title of the identified session. Titles for a
// missing session are dropped: a title generated for a session the user has
// already deleted must not recreate it.
func (d *Directory) SetTitle(sessionID, title string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[sessionID]
	if !ok {
		return false
	}
	s.Title = title
	s.UpdatedAt = time.Now()
	return true
}

// Delete removes the identified session. Deleting a missing session is a
// no-op.
func (d *Directory) Delete(sessionID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.sessions[sessionID]; !ok {
		return false
	}
	delete(d.sessions, sessionID)
	for i, id := range d.order {
		if id == sessionID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether the identified session exists.
func (d *Directory) Has(sessionID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.sessions[sessionID]
	return ok
}

// Get returns a deep copy of the identified session, or nil.
func (d *Directory) Get(sessionID string) *Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sessions[sessionID]
	if !ok {
		return nil
	}
	return s.Clone()
}

// List returns deep copies of all sessions in creation order, newest first.
func (d *Directory) List() []*Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Session, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.sessions[id].Clone())
	}
	return out
}

// Len returns the number of stored sessions.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}

// Snapshot returns deep copies of every session for persistence, in listing
// order.
func (d *Directory) Snapshot() []*Session {
	return d.List()
}

// Restore replaces the directory contents with the given sessions, preserving
// their order. Sessions with empty IDs are skipped.
func (d *Directory) Restore(sessions []*Session) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions = make(map[string]*Session, len(sessions))
	d.order = d.order[:0]
	for _, s := range sessions {
		if s == nil || s.ID == "" {
			continue
		}
		if _, ok := d.sessions[s.ID]; ok {
			continue
		}
		d.sessions[s.ID] = s.Clone()
		d.order = append(d.order, s.ID)
	}
}
