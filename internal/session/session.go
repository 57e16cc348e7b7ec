// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the durable session directory backing the live
// transcript.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
)

// SentinelTitle marks a session whose real title has not been generated yet.
const SentinelTitle = "New Session..."

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is one stored conversation: identity, display title, the persona
// mode it was held in, and its full turn history. Turns held by a session are
// copies, never shared with the live transcript.
type Session struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Mode      model.Mode    `json:"mode"`
	Turns     []*model.Turn `json:"turns"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// New creates an empty session in the given mode with the sentinel title.
func New(mode model.Mode) *Session {
	now := time.Now()
	return &Session{
		ID:        generateSessionID(),
		Title:     SentinelTitle,
		Mode:      mode,
		Turns:     make([]*model.Turn, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasTitle reports whether a real title has been assigned.
func (s *Session) HasTitle() bool {
	return s.Title != "" && s.Title != SentinelTitle
}

// IsEmpty reports whether the session holds no turns.
func (s *Session) IsEmpty() bool {
	return len(s.Turns) == 0
}

// Preview returns a short preview of the first user turn, for the sidebar.
func (s *Session) Preview(maxLen int) string {
	for _, t := range s.Turns {
		if t.Role == model.RoleUser {
			return t.Preview(maxLen)
		}
	}
	return ""
}

// findTurn returns the session's turn with the given ID, or nil.
func (s *Session) findTurn(turnID string) *model.Turn {
	for _, t := range s.Turns {
		if t.ID == turnID {
			return t
		}
	}
	return nil
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Turns = make([]*model.Turn, len(s.Turns))
	for i, t := range s.Turns {
		cp.Turns[i] = t.Clone()
	}
	return &cp
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateSessionID creates a unique session ID from the creation time plus a
// random suffix to break same-second collisions.
func generateSessionID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "sess_" + time.Now().Format("20060102_150405.000000000")
	}
	return "sess_" + time.Now().Format("20060102_150405") + "_" + hex.EncodeToString(b)
}
