// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package responder

import (
	"context"
	"sync"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
)

// Scripted is a Responder that replays canned chunks, for tests. Each call to
// StreamResponse consumes the next script; the last script repeats when the
// calls outnumber the scripts.
type Scripted struct {
	mu      sync.Mutex
	scripts [][]Chunk
	calls   int

	// Title and TitleErr control GenerateTitle.
	Title    string
	TitleErr error

	// StreamErr, when set, makes StreamResponse fail synchronously.
	StreamErr error

	// Gate, when set, is closed by the test to release the stream; chunks
	// are not delivered until then.
	Gate chan struct{}

	// LastHistory records the history passed to the most recent call.
	LastHistory []*model.Turn
	// LastMode records the mode passed to the most recent call.
	LastMode model.Mode
}

// NewScripted creates a scripted responder that will replay the given chunk
// sequences, one per StreamResponse call.
func NewScripted(scripts ...[]Chunk) *Scripted {
	return &Scripted{scripts: scripts}
}

// TextScript builds a chunk sequence from plain text deltas.
func TextScript(deltas ...string) []Chunk {
	chunks := make([]Chunk, len(deltas))
	for i, d := range deltas {
		chunks[i] = Chunk{Text: d}
	}
	return chunks
}

// Calls returns how many times StreamResponse has been invoked.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// StreamResponse implements Responder.
func (s *Scripted) StreamResponse(ctx context.Context, history []*model.Turn, mode model.Mode, language string) (<-chan Chunk, error) {
	s.mu.Lock()
	if s.StreamErr != nil {
		s.mu.Unlock()
		return nil, s.StreamErr
	}
	idx := s.calls
	if idx >= len(s.scripts) {
		idx = len(s.scripts) - 1
	}
	var script []Chunk
	if idx >= 0 {
		script = s.scripts[idx]
	}
	s.calls++
	s.LastHistory = history
	s.LastMode = mode
	gate := s.Gate
	s.mu.Unlock()

	out := make(chan Chunk, len(script)+1)
	go func() {
		defer close(out)
		if gate != nil {
			select {
			case <-gate:
			case <-ctx.Done():
				out <- Chunk{Err: ctx.Err()}
				return
			}
		}
		for _, c := range script {
			select {
			case out <- c:
			case <-ctx.Done():
				out <- Chunk{Err: ctx.Err()}
				return
			}
			if c.Err != nil {
				return
			}
		}
	}()
	return out, nil
}

// GenerateTitle implements Responder.
func (s *Scripted) GenerateTitle(ctx context.Context, content string) (string, error) {
	if s.TitleErr != nil {
		return "", s.TitleErr
	}
	if s.Title == "" {
		return "Scripted Session", nil
	}
	return s.Title, nil
}
