// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for transcripts and turns.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Lumière"
	default:
		return string(r)
	}
}

// =============================================================================
// ATTACHMENT AND GROUNDING
// =============================================================================

// Attachment is an opaque media handle attached to a turn. The core never
// interprets the payload bytes; they are forwarded to the responder as-is.
type Attachment struct {
	// PreviewURL locates a renderable preview (file path or object URL).
	PreviewURL string `json:"preview_url"`
	// Data is the base64-encoded payload, when available.
	Data string `json:"data,omitempty"`
	// MIMEType identifies the payload (e.g. "image/png", "video/mp4").
	MIMEType string `json:"mime_type"`
	// Generated is true when the attachment was produced by the responder
	// rather than captured by the user.
	Generated bool `json:"generated,omitempty"`
}

// IsVideo reports whether the attachment carries video content.
func (a *Attachment) IsVideo() bool {
	return a != nil && strings.HasPrefix(a.MIMEType, "video/")
}

// IsAudio reports whether the attachment carries audio content.
func (a *Attachment) IsAudio() bool {
	return a != nil && strings.HasPrefix(a.MIMEType, "audio/")
}

// GroundingChunk is one cited web source.
type GroundingChunk struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// GroundingMetadata holds the web sources a grounded answer cites.
type GroundingMetadata struct {
	Chunks        []GroundingChunk `json:"chunks,omitempty"`
	SearchQueries []string         `json:"search_queries,omitempty"`
}

// IsEmpty reports whether the metadata carries no sources at all.
func (g *GroundingMetadata) IsEmpty() bool {
	return g == nil || (len(g.Chunks) == 0 && len(g.SearchQueries) == 0)
}

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn represents a single message in a conversation. The ID is immutable
// once assigned; Content only grows while an assistant turn is streaming and
// is frozen afterwards.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	Attachment *Attachment        `json:"attachment,omitempty"`
	Grounding  *GroundingMetadata `json:"grounding,omitempty"`
}

// NewTurn creates a new turn with a generated ID.
func NewTurn(role Role, content string) *Turn {
	return &Turn{
		ID:        generateTurnID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserTurn creates a new user turn, optionally carrying an attachment.
func NewUserTurn(content string, attachment *Attachment) *Turn {
	t := NewTurn(RoleUser, content)
	t.Attachment = attachment
	return t
}

// NewAssistantPlaceholder creates an empty assistant turn that will be filled
// in by streamed increments.
func NewAssistantPlaceholder() *Turn {
	return NewTurn(RoleAssistant, "")
}

// Fold applies one streamed increment to the turn: the delta is appended to
// the content, and grounding/attachment are replaced only when the incoming
// value is non-empty (first-non-empty-wins, never overwrite-with-empty).
func (t *Turn) Fold(delta string, grounding *GroundingMetadata, attachment *Attachment) {
	t.Content += delta
	if !grounding.IsEmpty() {
		t.Grounding = grounding
	}
	if attachment != nil {
		t.Attachment = attachment
	}
}

// Preview returns a truncated single-line preview of the turn content.
// Uses rune-based truncation to handle Unicode correctly.
func (t *Turn) Preview(maxLen int) string {
	content := strings.ReplaceAll(t.Content, "\n", " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the turn has no content and no attachment.
func (t *Turn) IsEmpty() bool {
	return t.Content == "" && t.Attachment == nil
}

// Clone returns a deep copy of the turn. Sessions store copies so that a
// later transcript reset cannot mutate persisted history.
func (t *Turn) Clone() *Turn {
	cp := *t
	if t.Attachment != nil {
		att := *t.Attachment
		cp.Attachment = &att
	}
	if t.Grounding != nil {
		g := GroundingMetadata{
			Chunks:        append([]GroundingChunk(nil), t.Grounding.Chunks...),
			SearchQueries: append([]string(nil), t.Grounding.SearchQueries...),
		}
		cp.Grounding = &g
	}
	return &cp
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateTurnID creates a unique turn ID.
func generateTurnID() string {
	return "turn_" + uuid.NewString()
}
