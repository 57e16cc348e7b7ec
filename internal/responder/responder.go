// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package responder abstracts the model backend that answers transcripts.
package responder

import (
	"context"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the responder backend.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes responder errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNoAPIKey
	ErrTypeConnection
	ErrTypeRateLimited
	ErrTypeInvalidResponse
	ErrTypeVideoGeneration
)

// Sentinel errors for easy checking.
var (
	ErrNoAPIKey        = &ClientError{Type: ErrTypeNoAPIKey, Message: "no API key configured"}
	ErrRateLimited     = &ClientError{Type: ErrTypeRateLimited, Message: "request was rate limited"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "backend returned an unusable response"}
)

// =============================================================================
// STREAM CHUNK
// =============================================================================

// Chunk is one increment of a streamed answer. Text may be empty when the
// chunk only carries metadata. A chunk with Err set is terminal; the channel
// is closed after it.
type Chunk struct {
	Text       string
	Grounding  *model.GroundingMetadata
	Attachment *model.Attachment
	Err        error
}

// =============================================================================
// RESPONDER INTERFACE
// =============================================================================

// Responder produces streamed answers and short titles for transcripts. The
// channel returned by StreamResponse is closed when the answer is complete,
// after the terminal error chunk if the stream failed. Implementations must
// respect context cancellation.
type Responder interface {
	// StreamResponse answers the transcript history in the given mode,
	// delivering the answer as incremental chunks.
	StreamResponse(ctx context.Context, history []*model.Turn, mode model.Mode, language string) (<-chan Chunk, error)

	// GenerateTitle produces a short display title for a conversation that
	// opened with the given user content.
	GenerateTitle(ctx context.Context, content string) (string, error)
}
