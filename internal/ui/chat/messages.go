// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the TUI.
//
// This file defines the Bubble Tea message types used by the chat interface.
package chat

import (
	"github.com/lumiere-labs/lumiere-tui/internal/controller"
)

// ControllerEventMsg wraps a controller event delivered from a streaming or
// title goroutine via program.Send.
type ControllerEventMsg struct {
	Event controller.Event
}

// SubmitInputMsg signals that the user submitted input.
type SubmitInputMsg struct {
	Content string
}

// SendFailedMsg reports that a send was rejected or failed to start.
type SendFailedMsg struct {
	Err error
}

// ErrorDismissMsg clears the transient error banner.
type ErrorDismissMsg struct{}
