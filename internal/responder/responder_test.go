// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package responder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
)

func TestSystemInstructionPerMode(t *testing.T) {
	for _, mode := range model.AllModes {
		si := systemInstruction(mode, "en", false, false)
		if si == "" {
			t.Errorf("mode %s has no system instruction", mode)
		}
	}

	// Unknown modes fall back to the default persona.
	def := systemInstruction(model.DefaultMode, "en", false, false)
	if got := systemInstruction(model.Mode("vortex"), "en", false, false); got != def {
		t.Error("unknown mode should use default instruction")
	}
}

func TestSystemInstructionLanguageSuffix(t *testing.T) {
	base := systemInstruction(model.ModeNexus, "en", false, false)
	es := systemInstruction(model.ModeNexus, "es", false, false)

	if base == es {
		t.Error("non-default language should extend the instruction")
	}
	if !strings.Contains(es, "'es'") {
		t.Errorf("language suffix should name the language, got %q", es)
	}
	if !strings.HasPrefix(es, base) {
		t.Error("language suffix should append, not replace")
	}
}

func TestSystemInstructionMediaSuffixes(t *testing.T) {
	audio := systemInstruction(model.ModeHuman, "en", true, false)
	if !strings.Contains(audio, "AUDIO") {
		t.Error("audio input should add transcription guidance")
	}
	video := systemInstruction(model.ModeHuman, "en", false, true)
	if !strings.Contains(video, "VIDEO") {
		t.Error("video input should add analysis guidance")
	}
}

func TestTitlePromptCapsContent(t *testing.T) {
	long := strings.Repeat("x", 500)
	prompt := titlePrompt(long)
	if strings.Contains(prompt, strings.Repeat("x", 201)) {
		t.Error("title prompt should cap the quoted message at 200 runes")
	}
	if !strings.Contains(prompt, "3-5 words") {
		t.Errorf("unexpected title prompt: %q", prompt)
	}
}

func TestClientErrorWrapping(t *testing.T) {
	cause := errors.New("socket closed")
	err := &ClientError{Type: ErrTypeConnection, Message: "stream failed", Cause: cause}

	if err.Error() != "stream failed: socket closed" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through ClientError")
	}

	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeConnection {
		t.Error("errors.As should recover the ClientError")
	}
}

func TestScriptedResponderReplaysChunks(t *testing.T) {
	r := NewScripted(TextScript("Hel", "lo, ", "world"))

	history := []*model.Turn{model.NewUserTurn("hi", nil)}
	ch, err := r.StreamResponse(context.Background(), history, model.DefaultMode, "en")
	if err != nil {
		t.Fatal(err)
	}

	var got strings.Builder
	for c := range ch {
		if c.Err != nil {
			t.Fatalf("unexpected chunk error: %v", c.Err)
		}
		got.WriteString(c.Text)
	}
	if got.String() != "Hello, world" {
		t.Errorf("expected 'Hello, world', got %q", got.String())
	}
	if r.Calls() != 1 {
		t.Errorf("expected 1 call, got %d", r.Calls())
	}
}

func TestScriptedResponderTerminalError(t *testing.T) {
	boom := errors.New("boom")
	r := NewScripted([]Chunk{{Text: "partial"}, {Err: boom}})

	ch, err := r.StreamResponse(context.Background(), []*model.Turn{model.NewUserTurn("hi", nil)}, model.DefaultMode, "en")
	if err != nil {
		t.Fatal(err)
	}

	var chunks []Chunk
	for c := range ch {
		chunks = append(chunks, c)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "partial" || !errors.Is(chunks[1].Err, boom) {
		t.Errorf("unexpected chunks: %+v", chunks)
	}
}
