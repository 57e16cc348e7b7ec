// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

// Event is a notification pushed to the UI when state changes off the input
// path: stream progress, titles landing, the session list changing shape.
type Event interface{ event() }

// StreamUpdatedEvent fires for every folded increment and once more when the
// stream settles, so the view can redraw.
type StreamUpdatedEvent struct{}

// StreamCompletedEvent fires when a stream finishes. Err is nil on clean
// completion; on failure the partial answer is already in place and the
// transcript carries its error marker.
type StreamCompletedEvent struct {
	SessionID string
	TurnID    string
	Err       error
}

// TitleUpdatedEvent fires when a session title lands, whether generated or
// the truncation fallback.
type TitleUpdatedEvent struct {
	SessionID string
	Title     string
}

// SessionsChangedEvent fires when sessions are created or deleted, or the
// controller detaches from the active session.
type SessionsChangedEvent struct{}

func (StreamUpdatedEvent) event()   {}
func (StreamCompletedEvent) event() {}
func (TitleUpdatedEvent) event()    {}
func (SessionsChangedEvent) event() {}
