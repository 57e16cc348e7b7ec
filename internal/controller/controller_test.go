// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
	"github.com/lumiere-labs/lumiere-tui/internal/responder"
	"github.com/lumiere-labs/lumiere-tui/internal/session"
	"github.com/lumiere-labs/lumiere-tui/internal/storage"
)

func newTestController(t *testing.T, resp responder.Responder) *Controller {
	t.Helper()
	repo := storage.NewRepository(
		storage.NewFileSlot(filepath.Join(t.TempDir(), "sessions.json")),
		zap.NewNop(),
	)
	return New(model.NewTranscript(), session.NewDirectory(), resp, repo, zap.NewNop())
}

func TestNewControllerStartsWithNoSession(t *testing.T) {
	c := newTestController(t, responder.NewScripted(responder.TextScript("hi")))

	if c.CurrentSessionID() != "" {
		t.Errorf("no session should exist before the first send, got %q", c.CurrentSessionID())
	}
	if c.Mode() != model.DefaultMode {
		t.Errorf("expected default mode, got %s", c.Mode())
	}
	if got := c.Sessions(); len(got) != 0 {
		t.Errorf("startup must not create session records, got %+v", got)
	}
}

func TestSessionMaterializesOnFirstSend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	repo := storage.NewRepository(storage.NewFileSlot(path), zap.NewNop())
	r := responder.NewScripted(responder.TextScript("answer"))
	c := New(model.NewTranscript(), session.NewDirectory(), r, repo, zap.NewNop())

	// New chats and mode switches must not mint empty session records,
	// in memory or on disk.
	c.ChangeMode(model.ModeCoder)
	c.ChangeMode(model.ModeScholar)
	c.StartNewChat()
	if got := c.Sessions(); len(got) != 0 {
		t.Fatalf("expected no sessions before the first send, got %d", len(got))
	}
	restored := session.NewDirectory()
	repo.Load(restored)
	if restored.Len() != 0 {
		t.Fatalf("empty sessions leaked into storage: %d", restored.Len())
	}

	if err := c.Send(context.Background(), "first message", nil); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	if c.CurrentSessionID() == "" {
		t.Error("send should bind a session")
	}
	if got := c.Sessions(); len(got) != 1 {
		t.Errorf("expected exactly one session after the first send, got %d", len(got))
	}
}

func TestSendStreamsAnswerIntoBothStores(t *testing.T) {
	r := responder.NewScripted(responder.TextScript("Hel", "lo, ", "world"))
	r.Title = "Greeting Protocol"
	c := newTestController(t, r)

	if err := c.Send(context.Background(), "say hello", nil); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	c.Wait()

	turns := c.Transcript().Turns()
	if len(turns) != 2 {
		t.Fatalf("expected user turn and answer, got %d", len(turns))
	}
	if turns[0].Role != model.RoleUser || turns[0].Content != "say hello" {
		t.Errorf("user turn wrong: %+v", turns[0])
	}
	if turns[1].Role != model.RoleAssistant || turns[1].Content != "Hello, world" {
		t.Errorf("assistant turn wrong: %+v", turns[1])
	}

	stored := c.Sessions()[0]
	if len(stored.Turns) != 2 || stored.Turns[1].Content != "Hello, world" {
		t.Errorf("directory out of sync: %+v", stored.Turns)
	}
	if c.Transcript().Busy() {
		t.Error("busy should clear after stream completes")
	}
}

func TestQuickSearchForcesGroundedMode(t *testing.T) {
	r := responder.NewScripted(responder.TextScript("grounded answer"))
	c := newTestController(t, r)
	c.ChangeMode(model.ModeCoder)

	if err := c.QuickSearch(context.Background(), "latest launch window"); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	if r.LastMode != model.ModeNexus {
		t.Errorf("quick search should request the grounded mode, got %s", r.LastMode)
	}
	if c.Mode() != model.ModeCoder {
		t.Errorf("quick search must not change the session mode, got %s", c.Mode())
	}
	turns := c.Transcript().Turns()
	if len(turns) != 2 || turns[1].Content != "grounded answer" {
		t.Errorf("quick search answer missing: %+v", turns)
	}
}

func TestSendRejectsEmptyInput(t *testing.T) {
	c := newTestController(t, responder.NewScripted(responder.TextScript("x")))

	if err := c.Send(context.Background(), "", nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if err := c.Send(context.Background(), "   \t ", nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("whitespace-only send should be rejected, got %v", err)
	}
	if c.Transcript().Len() != 0 {
		t.Error("rejected sends must not touch the transcript")
	}

	// An attachment alone is a valid send.
	att := &model.Attachment{PreviewURL: "p", MIMEType: "image/png", Data: ""}
	if err := c.Send(context.Background(), "", att); err != nil {
		t.Errorf("attachment-only send should pass validation: %v", err)
	}
	c.Wait()
}

func TestSendRejectsWhileBusy(t *testing.T) {
	r := responder.NewScripted(responder.TextScript("slow answer"))
	r.Gate = make(chan struct{})
	c := newTestController(t, r)

	if err := c.Send(context.Background(), "first", nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Send(context.Background(), "second", nil); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(r.Gate)
	c.Wait()
	if r.Calls() != 1 {
		t.Errorf("rejected send must not reach the responder, calls=%d", r.Calls())
	}
}

func TestFirstSendGeneratesTitle(t *testing.T) {
	r := responder.NewScripted(responder.TextScript("answer one"), responder.TextScript("answer two"))
	r.Title = "Neon Protocol Briefing"
	c := newTestController(t, r)

	var mu sync.Mutex
	var titles []TitleUpdatedEvent
	c.SetNotify(func(ev Event) {
		if te, ok := ev.(TitleUpdatedEvent); ok {
			mu.Lock()
			titles = append(titles, te)
			mu.Unlock()
		}
	})

	if err := c.Send(context.Background(), "open the briefing", nil); err != nil {
		t.Fatal(err)
	}
	id := c.CurrentSessionID()
	c.Wait()
	if err := c.Send(context.Background(), "continue", nil); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	if got := c.Sessions()[0].Title; got != "Neon Protocol Briefing" {
		t.Errorf("title not applied: %q", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(titles) != 1 {
		t.Errorf("title should be generated exactly once, got %d events", len(titles))
	}
	if len(titles) == 1 && titles[0].SessionID != id {
		t.Errorf("title event for wrong session: %+v", titles[0])
	}
}

func TestTitleFallbackOnGenerationFailure(t *testing.T) {
	r := responder.NewScripted(responder.TextScript("answer"))
	r.TitleErr = errors.New("quota exceeded")
	c := newTestController(t, r)

	long := "this opening message is clearly longer than thirty characters"
	if err := c.Send(context.Background(), long, nil); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	want := string([]rune(long)[:30]) + "..."
	if got := c.Sessions()[0].Title; got != want {
		t.Errorf("fallback title = %q, want %q", got, want)
	}
}

func TestTitleFallbackShortMessageNoEllipsis(t *testing.T) {
	r := responder.NewScripted(responder.TextScript("answer"))
	r.TitleErr = errors.New("quota exceeded")
	c := newTestController(t, r)

	if err := c.Send(context.Background(), "short", nil); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	if got := c.Sessions()[0].Title; got != "short" {
		t.Errorf("short fallback should not gain an ellipsis: %q", got)
	}
}

func TestTitleForDeletedSessionDropped(t *testing.T) {
	r := responder.NewScripted(responder.TextScript("answer"))
	r.Gate = make(chan struct{})
	r.Title = "Ghost Title"
	c := newTestController(t, r)

	if err := c.Send(context.Background(), "hello", nil); err != nil {
		t.Fatal(err)
	}
	id := c.CurrentSessionID()
	// Delete before the stream (and title) resolve.
	if err := c.DeleteSession(id); err != nil {
		t.Fatal(err)
	}
	close(r.Gate)
	c.Wait()

	for _, s := range c.Sessions() {
		if s.ID == id {
			t.Error("deleted session must not be recreated by its title")
		}
		if s.Title == "Ghost Title" {
			t.Error("title for deleted session leaked onto another session")
		}
	}
}

func TestChangeModeDetachesFromSession(t *testing.T) {
	r := responder.NewScripted(responder.TextScript("x"))
	c := newTestController(t, r)

	if err := c.Send(context.Background(), "hello", nil); err != nil {
		t.Fatal(err)
	}
	c.Wait()
	first := c.CurrentSessionID()

	c.ChangeMode(model.ModeCoder)

	if c.Mode() != model.ModeCoder {
		t.Errorf("mode not changed: %s", c.Mode())
	}
	if c.CurrentSessionID() != "" {
		t.Error("mode switch should leave no active session")
	}
	if c.Transcript().Len() != 0 {
		t.Error("mode switch should reset the transcript")
	}
	if len(c.Sessions()) != 1 {
		t.Error("mode switch must not mint a session record")
	}
	if c.Sessions()[0].ID != first {
		t.Error("mode switch must not disturb stored sessions")
	}

	// Switching to the same mode is a no-op.
	c.ChangeMode(model.ModeCoder)
	if c.Mode() != model.ModeCoder || len(c.Sessions()) != 1 {
		t.Error("same-mode switch should change nothing")
	}

	// Invalid modes are ignored.
	c.ChangeMode(model.Mode("vortex"))
	if c.Mode() != model.ModeCoder {
		t.Error("invalid mode should be ignored")
	}
}

func TestStartNewChatResetsModeToDefault(t *testing.T) {
	c := newTestController(t, responder.NewScripted(responder.TextScript("x")))

	c.ChangeMode(model.ModeCoder)
	c.StartNewChat()

	if c.Mode() != model.DefaultMode {
		t.Errorf("new chat should return to the default mode, got %s", c.Mode())
	}
	if c.CurrentSessionID() != "" {
		t.Error("new chat should leave no active session")
	}
}

func TestLoadSessionRestoresHistoryAndMode(t *testing.T) {
	r := responder.NewScripted(responder.TextScript("stored answer"))
	c := newTestController(t, r)

	if err := c.Send(context.Background(), "stored question", nil); err != nil {
		t.Fatal(err)
	}
	first := c.CurrentSessionID()
	c.Wait()

	c.ChangeMode(model.ModeScholar)
	if c.Transcript().Len() != 0 {
		t.Fatal("expected empty transcript after mode switch")
	}

	if err := c.LoadSession(first); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.CurrentSessionID() != first {
		t.Error("load should make the session current")
	}
	if c.Mode() != model.DefaultMode {
		t.Errorf("load should adopt the session's mode, got %s", c.Mode())
	}
	turns := c.Transcript().Turns()
	if len(turns) != 2 || turns[1].Content != "stored answer" {
		t.Errorf("load did not restore history: %+v", turns)
	}

	if err := c.LoadSession("sess_nope"); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("expected ErrUnknownSession, got %v", err)
	}
}

func TestDeleteCurrentSessionResets(t *testing.T) {
	r := responder.NewScripted(responder.TextScript("answer"))
	c := newTestController(t, r)

	if err := c.Send(context.Background(), "hello", nil); err != nil {
		t.Fatal(err)
	}
	id := c.CurrentSessionID()
	c.Wait()

	if err := c.DeleteSession(id); err != nil {
		t.Fatal(err)
	}
	if c.CurrentSessionID() != "" {
		t.Error("deleting the current session should detach the controller")
	}
	if c.Transcript().Len() != 0 {
		t.Error("deleting the current session should reset the transcript")
	}

	if err := c.DeleteSession(id); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("double delete should report ErrUnknownSession, got %v", err)
	}
}

func TestStreamFailureKeepsPartialAndMarksError(t *testing.T) {
	boom := errors.New("link severed")
	r := responder.NewScripted([]responder.Chunk{
		{Text: "partial "},
		{Text: "answer"},
		{Err: boom},
	})
	c := newTestController(t, r)

	var mu sync.Mutex
	var completed []StreamCompletedEvent
	c.SetNotify(func(ev Event) {
		if ce, ok := ev.(StreamCompletedEvent); ok {
			mu.Lock()
			completed = append(completed, ce)
			mu.Unlock()
		}
	})

	if err := c.Send(context.Background(), "hello", nil); err != nil {
		t.Fatal(err)
	}
	c.Wait()

	turns := c.Transcript().Turns()
	if turns[1].Content != "partial answer" {
		t.Errorf("partial content lost: %q", turns[1].Content)
	}
	if c.Transcript().Err() == "" {
		t.Error("expected error marker after failed stream")
	}
	if c.Transcript().Busy() {
		t.Error("busy should clear after failed stream")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(completed) != 1 || !errors.Is(completed[0].Err, boom) {
		t.Errorf("expected one failed completion event, got %+v", completed)
	}
}

func TestPersistenceAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	repo := storage.NewRepository(storage.NewFileSlot(path), zap.NewNop())

	r := responder.NewScripted(responder.TextScript("durable answer"))
	r.Title = "Durable Session"
	c := New(model.NewTranscript(), session.NewDirectory(), r, repo, zap.NewNop())
	if err := c.Send(context.Background(), "remember this", nil); err != nil {
		t.Fatal(err)
	}
	c.Wait()
	id := c.CurrentSessionID()

	// Simulated restart: a fresh directory restored from the same slot.
	dir := session.NewDirectory()
	repo.Load(dir)
	got := dir.Get(id)
	if got == nil {
		t.Fatal("session lost across restart")
	}
	if got.Title != "Durable Session" {
		t.Errorf("title lost across restart: %q", got.Title)
	}
	if len(got.Turns) != 2 || got.Turns[1].Content != "durable answer" {
		t.Errorf("turns lost across restart: %+v", got.Turns)
	}
}
