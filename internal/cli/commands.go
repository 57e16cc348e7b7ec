// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/lumiere-labs/lumiere-tui/internal/config"
	"github.com/lumiere-labs/lumiere-tui/internal/session"
	"github.com/lumiere-labs/lumiere-tui/internal/storage"
	"github.com/lumiere-labs/lumiere-tui/internal/util"
)

// Version is set at build time.
var Version = "dev"

// RunSessions lists stored sessions to w.
func RunSessions(w io.Writer, cfg *config.Config, args *Args) error {
	dir, err := openDirectory(cfg)
	if err != nil {
		return err
	}

	sessions := dir.List()
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No stored sessions.")
		return nil
	}

	if args.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	for _, s := range sessions {
		title := s.Title
		if title == "" {
			title = session.SentinelTitle
		}
		fmt.Fprintf(w, "%s  %-28s  %-14s  %d turns  %s\n",
			s.ID,
			util.TruncateRunes(title, 28),
			s.Mode.DisplayName(),
			len(s.Turns),
			s.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}
	return nil
}

// RunExport writes one session as formatted JSON (or markdown with --md), to
// --out or stdout.
func RunExport(w io.Writer, cfg *config.Config, args *Args) error {
	id := args.Positional(1)
	if id == "" {
		return fmt.Errorf("usage: lumiere export <session-id> [--md] [--out file]")
	}

	dir, err := openDirectory(cfg)
	if err != nil {
		return err
	}
	s := dir.Get(id)
	if s == nil {
		return fmt.Errorf("session %q not found", id)
	}

	var data []byte
	if args.Bool("md") {
		data = []byte(renderMarkdown(s))
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
	}

	if out := args.Flag("out", ""); out != "" {
		if err := util.AtomicWriteFile(out, data, 0644); err != nil {
			return err
		}
		fmt.Fprintf(w, "Exported %s to %s\n", id, out)
		return nil
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// renderMarkdown formats a session as a readable markdown transcript.
func renderMarkdown(s *session.Session) string {
	var b strings.Builder

	title := s.Title
	if title == "" {
		title = session.SentinelTitle
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Mode: %s  \nCreated: %s\n\n", s.Mode.DisplayName(), s.CreatedAt.Format("2006-01-02 15:04"))

	for _, t := range s.Turns {
		fmt.Fprintf(&b, "## %s (%s)\n\n", t.Role.DisplayName(), t.Timestamp.Format("15:04"))
		if t.Content != "" {
			fmt.Fprintf(&b, "%s\n\n", t.Content)
		}
		if t.Attachment != nil {
			fmt.Fprintf(&b, "*Attachment: %s*\n\n", t.Attachment.MIMEType)
		}
		if !t.Grounding.IsEmpty() {
			b.WriteString("Sources:\n\n")
			for _, c := range t.Grounding.Chunks {
				fmt.Fprintf(&b, "- [%s](%s)\n", c.Title, c.URI)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// RunConfig prints the active configuration and its source path.
func RunConfig(w io.Writer, cfg *config.Config) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "config file:  %s\n", path)

	storagePath, err := cfg.StoragePath()
	if err != nil {
		return err
	}
	key := "(not set)"
	if cfg.API.Key != "" {
		key = "***" + lastRunes(cfg.API.Key, 4)
	}
	fmt.Fprintf(w, "api key:      %s\n", key)
	fmt.Fprintf(w, "model:        %s\n", cfg.API.Model)
	fmt.Fprintf(w, "storage:      %s (%s)\n", storagePath, cfg.Storage.Backend)
	fmt.Fprintf(w, "language:     %s\n", cfg.UI.Language)
	fmt.Fprintf(w, "mode:         %s\n", cfg.UI.Mode)
	return nil
}

// RunHelp prints usage.
func RunHelp(w io.Writer) {
	fmt.Fprint(w, `lumiere - streaming chat for the Gemini API

Usage:
  lumiere                 Start the chat TUI
  lumiere sessions        List stored sessions (--json for machine output)
  lumiere export <id>     Export a session as JSON (--md for markdown, --out file)
  lumiere config          Show the active configuration
  lumiere version         Print the version
  lumiere help            Show this help

Environment:
  LUMIERE_API_KEY         Gemini API key (also GEMINI_API_KEY)
  LUMIERE_LANGUAGE        Interface language override
`)
}

// RunVersion prints the version string.
func RunVersion(w io.Writer) {
	fmt.Fprintf(w, "lumiere %s\n", Version)
}

// openDirectory loads the session directory from the configured slot.
func openDirectory(cfg *config.Config) (*session.Directory, error) {
	path, err := cfg.StoragePath()
	if err != nil {
		return nil, err
	}

	var slot storage.Slot
	if cfg.Storage.Backend == "sqlite" {
		sq, err := storage.NewSQLiteSlot(path, "sessions")
		if err != nil {
			return nil, err
		}
		slot = sq
	} else {
		slot = storage.NewFileSlot(path)
	}

	dir := session.NewDirectory()
	storage.NewRepository(slot, zap.NewNop()).Load(dir)
	return dir, nil
}

func lastRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

// Exit prints an error to stderr and exits non-zero. Split out so command
// funcs stay testable.
func Exit(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
