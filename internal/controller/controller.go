// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller drives the chat session state machine: new chats, mode
// switches, sends, session loads and deletes.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
	"github.com/lumiere-labs/lumiere-tui/internal/responder"
	"github.com/lumiere-labs/lumiere-tui/internal/session"
	"github.com/lumiere-labs/lumiere-tui/internal/storage"
	"github.com/lumiere-labs/lumiere-tui/internal/stream"
)

// Input validation errors.
var (
	// ErrEmptyInput rejects a send with only whitespace and no attachment.
	ErrEmptyInput = errors.New("nothing to send")
	// ErrBusy rejects a send while a stream is in flight.
	ErrBusy = errors.New("a response is still streaming")
	// ErrUnknownSession rejects operations on a session that does not exist.
	ErrUnknownSession = errors.New("unknown session")
)

// titleFallbackRunes is how much of the opening message becomes the title
// when generation fails.
const titleFallbackRunes = 30

// Controller owns the current-session state and coordinates the transcript,
// the session directory, the responder, and persistence.
//
// Sends return after validation and kickoff; streaming and title generation
// continue on their own goroutines and surface through events.
type Controller struct {
	mu        sync.Mutex
	currentID string
	mode      model.Mode
	language  string

	transcript *model.Transcript
	directory  *session.Directory
	aggregator *stream.Aggregator
	resp       responder.Responder
	repo       *storage.Repository
	logger     *zap.Logger

	notify func(Event)
	wg     sync.WaitGroup
}

// New creates a controller over the given collaborators. The directory is
// expected to be already restored; the controller starts with an empty
// transcript in the default mode and no active session.
func New(transcript *model.Transcript, directory *session.Directory, resp responder.Responder, repo *storage.Repository, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		mode:       model.DefaultMode,
		language:   model.DefaultLanguage,
		transcript: transcript,
		directory:  directory,
		aggregator: stream.New(transcript, directory, logger),
		resp:       resp,
		repo:       repo,
		logger:     logger,
	}
	c.aggregator.SetOnUpdate(func() { c.emit(StreamUpdatedEvent{}) })
	c.StartNewChat()
	return c
}

// SetNotify registers the event sink. Events may be emitted from streaming
// goroutines; the sink must be safe to call concurrently.
func (c *Controller) SetNotify(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = fn
}

// SetLanguage changes the interface language used for subsequent sends.
func (c *Controller) SetLanguage(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = model.NormalizeLanguage(code)
}

// Language returns the current interface language.
func (c *Controller) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// Mode returns the current persona mode.
func (c *Controller) Mode() model.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// CurrentSessionID returns the ID of the session being written to, or ""
// when no message has been sent since the last new-chat or mode switch.
func (c *Controller) CurrentSessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID
}

// Sessions returns all stored sessions, most recently updated first.
func (c *Controller) Sessions() []*session.Session {
	return c.directory.List()
}

// Transcript exposes the live transcript for rendering.
func (c *Controller) Transcript() *model.Transcript {
	return c.transcript
}

// Wait blocks until all background work (streams, titles) has finished.
// Intended for shutdown and tests.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// StartNewChat resets the transcript, returns to the default persona mode,
// and detaches from the current session. No session record is created here;
// one materializes on the first send.
func (c *Controller) StartNewChat() {
	c.transcript.Reset()

	c.mu.Lock()
	c.currentID = ""
	c.mode = model.DefaultMode
	c.mu.Unlock()

	c.emit(SessionsChangedEvent{})
}

// ChangeMode switches the persona mode. A switch to a different mode always
// detaches from the current session: persona instructions are fixed at
// session start and must not bleed across histories. The next send opens a
// session in the new mode.
func (c *Controller) ChangeMode(mode model.Mode) {
	if !mode.IsValid() {
		return
	}
	c.mu.Lock()
	if mode == c.mode {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.StartNewChat()

	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()
}

// LoadSession replaces the live transcript with a stored session's history
// and makes it current, adopting its mode.
func (c *Controller) LoadSession(sessionID string) error {
	s := c.directory.Get(sessionID)
	if s == nil {
		return ErrUnknownSession
	}

	c.transcript.Replace(s.Turns)

	c.mu.Lock()
	c.currentID = s.ID
	c.mode = s.Mode
	c.mu.Unlock()
	return nil
}

// DeleteSession removes a stored session. Deleting the current session also
// resets the live transcript and detaches the controller.
func (c *Controller) DeleteSession(sessionID string) error {
	if !c.directory.Delete(sessionID) {
		return ErrUnknownSession
	}
	c.persist()

	c.mu.Lock()
	wasCurrent := c.currentID == sessionID
	c.mu.Unlock()

	if wasCurrent {
		c.StartNewChat()
	} else {
		c.emit(SessionsChangedEvent{})
	}
	return nil
}

// =============================================================================
// SEND
// =============================================================================

// Send validates and dispatches a user message in the current session. On
// success the user turn is already visible and durable when Send returns;
// the answer streams in through events.
func (c *Controller) Send(ctx context.Context, content string, attachment *model.Attachment) error {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()
	return c.send(ctx, content, attachment, mode)
}

// QuickSearch dispatches the content as a grounded web search in the current
// session. The session's persona mode is untouched; only this request runs
// with search grounding.
func (c *Controller) QuickSearch(ctx context.Context, content string) error {
	return c.send(ctx, content, nil, model.ModeNexus)
}

func (c *Controller) send(ctx context.Context, content string, attachment *model.Attachment, mode model.Mode) error {
	if strings.TrimSpace(content) == "" && attachment == nil {
		return ErrEmptyInput
	}
	if c.transcript.Busy() {
		return ErrBusy
	}

	c.mu.Lock()
	sessionID := c.currentID
	sessionMode := c.mode
	language := c.language
	c.mu.Unlock()

	// The session record materializes on the first send after a new chat or
	// mode switch; until then nothing is listed or persisted.
	if sessionID == "" {
		s := c.directory.Create(sessionMode)
		sessionID = s.ID
		c.mu.Lock()
		c.currentID = sessionID
		c.mu.Unlock()
		c.emit(SessionsChangedEvent{})
	}

	userTurn := model.NewUserTurn(content, attachment)
	c.transcript.Append(userTurn)

	firstTurn := false
	if s := c.directory.Get(sessionID); s != nil {
		firstTurn = s.IsEmpty() && !s.HasTitle()
	}
	c.directory.Append(sessionID, userTurn)
	c.persist()

	placeholder := c.aggregator.Begin()

	history := c.transcript.History()
	// The placeholder is the last history entry and carries nothing yet.
	history = history[:len(history)-1]

	chunks, err := c.resp.StreamResponse(ctx, history, mode, language)
	if err != nil {
		c.transcript.SetBusy(false)
		c.transcript.SetErr(stream.ErrMarker)
		c.logger.Warn("send failed to start stream", zap.Error(err))
		return err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		streamErr := c.aggregator.Run(sessionID, placeholder.ID, chunks)
		c.persist()
		c.emit(StreamCompletedEvent{SessionID: sessionID, TurnID: placeholder.ID, Err: streamErr})
	}()

	if firstTurn {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.generateTitle(ctx, sessionID, content)
		}()
	}
	return nil
}

// generateTitle asks the responder for a session title, falling back to a
// truncation of the opening message. The result is applied through the
// directory, which drops it if the session has since been deleted.
func (c *Controller) generateTitle(ctx context.Context, sessionID, content string) {
	title, err := c.resp.GenerateTitle(ctx, content)
	if err != nil {
		c.logger.Warn("title generation failed, using fallback",
			zap.String("session_id", sessionID),
			zap.Error(err))
		title = fallbackTitle(content)
	}
	if title == "" {
		return
	}
	if !c.directory.SetTitle(sessionID, title) {
		c.logger.Debug("dropped title for deleted session",
			zap.String("session_id", sessionID))
		return
	}
	c.persist()
	c.emit(TitleUpdatedEvent{SessionID: sessionID, Title: title})
}

// fallbackTitle derives a title from the opening message: the first 30
// characters, with an ellipsis only when something was actually cut.
func fallbackTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleFallbackRunes {
		return content
	}
	return string(runes[:titleFallbackRunes]) + "..."
}

// =============================================================================
// INTERNAL
// =============================================================================

// persist saves the directory at a checkpoint. Failures are logged and
// swallowed.
func (c *Controller) persist() {
	if c.repo == nil {
		return
	}
	if err := c.repo.Save(c.directory); err != nil {
		c.logger.Warn("failed to persist sessions", zap.Error(err))
	}
}

func (c *Controller) emit(ev Event) {
	c.mu.Lock()
	fn := c.notify
	c.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}
