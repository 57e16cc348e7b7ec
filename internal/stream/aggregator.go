// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream folds streamed responder chunks into the live transcript
// and the session directory.
package stream

import (
	"go.uber.org/zap"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
	"github.com/lumiere-labs/lumiere-tui/internal/responder"
	"github.com/lumiere-labs/lumiere-tui/internal/session"
)

// ErrMarker is the transcript error marker shown when a stream dies.
const ErrMarker = "CONNECTION INTERRUPTED. RE-ESTABLISHING LINK..."

// Aggregator owns the dual-write fold: every streamed chunk lands in the
// live transcript and the session directory in the same pass. The two stores
// resolve a missing target differently (the transcript drops, the directory
// synthesizes), and the aggregator leans on that rather than re-checking.
type Aggregator struct {
	transcript *model.Transcript
	directory  *session.Directory
	logger     *zap.Logger

	// onUpdate, when set, fires after every applied chunk so the UI can
	// redraw. It must not block.
	onUpdate func()
}

// New creates an aggregator over the given stores.
func New(transcript *model.Transcript, directory *session.Directory, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{transcript: transcript, directory: directory, logger: logger}
}

// SetOnUpdate registers a redraw notification callback.
func (a *Aggregator) SetOnUpdate(fn func()) {
	a.onUpdate = fn
}

// Begin marks the transcript busy and installs an empty assistant placeholder
// in it. The directory deliberately gets no placeholder: the durable record
// only materializes the assistant turn once content actually arrives, so an
// aborted stream cannot leave an empty turn on disk.
func (a *Aggregator) Begin() *model.Turn {
	placeholder := model.NewAssistantPlaceholder()
	a.transcript.Append(placeholder)
	a.transcript.SetBusy(true)
	a.transcript.ClearErr()
	return placeholder
}

// Run consumes the chunk channel to completion, folding every increment into
// both stores addressed by sessionID and turnID. It blocks until the channel
// closes, then clears the busy flag. On a terminal chunk error the error
// marker is set and partial content is kept in both stores; the error is
// returned.
func (a *Aggregator) Run(sessionID, turnID string, chunks <-chan responder.Chunk) error {
	var streamErr error

	for chunk := range chunks {
		if chunk.Err != nil {
			streamErr = chunk.Err
			break
		}
		if chunk.Text == "" && chunk.Grounding.IsEmpty() && chunk.Attachment == nil {
			continue
		}

		applied := a.transcript.ApplyIncrement(turnID, chunk.Text, chunk.Grounding, chunk.Attachment)
		a.directory.ApplyIncrement(sessionID, turnID, chunk.Text, chunk.Grounding, chunk.Attachment)
		if !applied {
			// Stale stream: the user reset or switched sessions while
			// tokens were still arriving.
			a.logger.Debug("dropped increment for missing transcript turn",
				zap.String("turn_id", turnID))
		}

		if a.onUpdate != nil {
			a.onUpdate()
		}
	}

	a.transcript.SetBusy(false)
	if streamErr != nil {
		a.transcript.SetErr(ErrMarker)
		a.logger.Warn("stream ended with error",
			zap.String("session_id", sessionID),
			zap.String("turn_id", turnID),
			zap.Error(streamErr))
	}
	if a.onUpdate != nil {
		a.onUpdate()
	}
	return streamErr
}
