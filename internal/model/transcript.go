// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"
)

// =============================================================================
// TRANSCRIPT STORE
// =============================================================================

// Transcript is the live, currently displayed ordered sequence of turns, plus
// the busy flag tracking an in-flight stream and a transcript-level error
// marker (a distinct field, never a turn).
//
// Order is strictly insertion order; turns are never reordered or
// deduplicated. The streaming goroutine and the UI loop both touch the
// transcript, so all operations are mutex-guarded.
type Transcript struct {
	mu    sync.Mutex
	turns []*Turn
	busy  bool
	err   string
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Reset clears the transcript to an empty sequence and clears the busy flag
// and error marker. Used on "new chat" and on mode switch.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = nil
	t.busy = false
	t.err = ""
}

// Append adds a turn to the end of the transcript. It always succeeds.
func (t *Transcript) Append(turn *Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turn)
}

// Replace swaps the transcript content for the given turns and clears the
// busy flag and error marker. Used when loading a stored session.
func (t *Transcript) Replace(turns []*Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = make([]*Turn, len(turns))
	for i, turn := range turns {
		t.turns[i] = turn.Clone()
	}
	t.busy = false
	t.err = ""
}

// ApplyIncrement folds a streamed increment into the turn with the given ID.
// The delta is concatenated onto the turn's content; grounding metadata and
// attachment are replaced only when a non-empty value is supplied.
//
// An increment addressed to a turn that is not present is dropped: after a
// reset or session switch a still-running stream may keep delivering
// increments for a turn that no longer exists, and those must neither raise
// nor resurrect the turn. Returns true when the increment was applied.
func (t *Transcript) ApplyIncrement(turnID, delta string, grounding *GroundingMetadata, attachment *Attachment) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, turn := range t.turns {
		if turn.ID == turnID {
			turn.Fold(delta, grounding, attachment)
			return true
		}
	}
	return false
}

// Turns returns a snapshot copy of the turn sequence for rendering.
func (t *Transcript) Turns() []*Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// History returns deep copies of all turns, safe to hand to the responder
// while streaming mutates the originals.
func (t *Transcript) History() []*Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Turn, len(t.turns))
	for i, turn := range t.turns {
		out[i] = turn.Clone()
	}
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.turns)
}

// LastTurn returns the most recent turn, or nil when empty.
func (t *Transcript) LastTurn() *Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.turns) == 0 {
		return nil
	}
	return t.turns[len(t.turns)-1]
}

// SetBusy sets the busy flag tracking an in-flight stream.
func (t *Transcript) SetBusy(busy bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.busy = busy
}

// Busy reports whether a stream is in flight.
func (t *Transcript) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// SetErr records the transcript-level error marker shown to the user.
func (t *Transcript) SetErr(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = msg
}

// Err returns the current error marker, or "" when none is set.
func (t *Transcript) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// ClearErr removes the error marker.
func (t *Transcript) ClearErr() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = ""
}
