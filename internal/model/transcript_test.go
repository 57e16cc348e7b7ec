// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"sync"
	"testing"
)

func TestTranscriptAppendAndSnapshot(t *testing.T) {
	tr := NewTranscript()

	u := NewUserTurn("hi", nil)
	a := NewAssistantPlaceholder()
	tr.Append(u)
	tr.Append(a)

	turns := tr.Turns()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].ID != u.ID || turns[1].ID != a.ID {
		t.Error("turns out of insertion order")
	}
}

func TestTranscriptApplyIncrement(t *testing.T) {
	tr := NewTranscript()
	a := NewAssistantPlaceholder()
	tr.Append(a)

	for _, delta := range []string{"Hel", "lo, ", "world"} {
		if !tr.ApplyIncrement(a.ID, delta, nil, nil) {
			t.Fatalf("increment %q was dropped", delta)
		}
	}

	if got := tr.Turns()[0].Content; got != "Hello, world" {
		t.Errorf("expected 'Hello, world', got %q", got)
	}
}

func TestTranscriptDropsIncrementForMissingTurn(t *testing.T) {
	tr := NewTranscript()
	a := NewAssistantPlaceholder()
	tr.Append(a)
	tr.ApplyIncrement(a.ID, "partial", nil, nil)

	// Simulates a stale stream still delivering after a reset: the
	// increment must neither error nor resurrect the turn.
	tr.Reset()
	if tr.ApplyIncrement(a.ID, " more", nil, nil) {
		t.Error("increment for a missing turn should be dropped")
	}
	if tr.Len() != 0 {
		t.Errorf("dropped increment resurrected a turn, len=%d", tr.Len())
	}
}

func TestTranscriptResetClearsState(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserTurn("hi", nil))
	tr.SetBusy(true)
	tr.SetErr("CONNECTION INTERRUPTED. RE-ESTABLISHING LINK...")

	tr.Reset()

	if tr.Len() != 0 {
		t.Error("reset should clear turns")
	}
	if tr.Busy() {
		t.Error("reset should clear busy flag")
	}
	if tr.Err() != "" {
		t.Error("reset should clear error marker")
	}
}

func TestTranscriptErrorMarkerIsNotATurn(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserTurn("hi", nil))
	tr.SetErr("boom")

	if tr.Len() != 1 {
		t.Error("error marker must not appear as a turn")
	}
	if tr.Err() != "boom" {
		t.Errorf("expected error marker 'boom', got %q", tr.Err())
	}

	tr.ClearErr()
	if tr.Err() != "" {
		t.Error("ClearErr should remove the marker")
	}
}

func TestTranscriptReplace(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserTurn("old", nil))
	tr.SetBusy(true)

	stored := []*Turn{NewUserTurn("a", nil), NewTurn(RoleAssistant, "b")}
	tr.Replace(stored)

	turns := tr.Turns()
	if len(turns) != 2 || turns[0].Content != "a" || turns[1].Content != "b" {
		t.Fatalf("replace did not install stored turns: %+v", turns)
	}
	if tr.Busy() {
		t.Error("replace should clear busy flag")
	}

	// Mutating the source slice's turns must not leak into the transcript.
	stored[0].Content = "mutated"
	if tr.Turns()[0].Content != "a" {
		t.Error("replace should deep-copy stored turns")
	}
}

func TestTranscriptHistoryIsDeepCopy(t *testing.T) {
	tr := NewTranscript()
	a := NewAssistantPlaceholder()
	tr.Append(a)

	hist := tr.History()
	tr.ApplyIncrement(a.ID, "streamed", nil, nil)

	if hist[0].Content != "" {
		t.Error("history snapshot should be isolated from later increments")
	}
}

func TestTranscriptLastTurn(t *testing.T) {
	tr := NewTranscript()
	if tr.LastTurn() != nil {
		t.Error("empty transcript should have nil last turn")
	}
	tr.Append(NewUserTurn("first", nil))
	last := NewAssistantPlaceholder()
	tr.Append(last)
	if tr.LastTurn().ID != last.ID {
		t.Error("LastTurn should return most recent turn")
	}
}

func TestTranscriptConcurrentIncrements(t *testing.T) {
	tr := NewTranscript()
	a := NewAssistantPlaceholder()
	tr.Append(a)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tr.ApplyIncrement(a.ID, "x", nil, nil)
			tr.ApplyIncrement(fmt.Sprintf("turn_missing_%d", n), "y", nil, nil)
			_ = tr.Turns()
			_ = tr.Busy()
		}(i)
	}
	wg.Wait()

	if got := len(tr.Turns()[0].Content); got != 50 {
		t.Errorf("expected 50 applied increments, got %d", got)
	}
}
