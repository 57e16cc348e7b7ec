// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
	"github.com/lumiere-labs/lumiere-tui/internal/session"
	"github.com/lumiere-labs/lumiere-tui/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	main := m.viewport.View()
	if m.showSidebar {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	}
	b.WriteString(main)
	b.WriteString("\n")

	b.WriteString(m.renderErrorLine())
	b.WriteString("\n")
	b.WriteString(m.theme.InputContainer.Width(m.chatWidth() - 2).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) chatWidth() int {
	w := m.width
	if m.showSidebar {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderHeader() string {
	mode := m.ctrl.Mode()
	brand := m.theme.HeaderBrand.Render("LUMIÈRE")
	modeTag := m.theme.HeaderMode.Render(fmt.Sprintf(" :: %s", mode.DisplayName()))
	lang := ""
	if m.ctrl.Language() != model.DefaultLanguage {
		lang = m.theme.HeaderMode.Render(fmt.Sprintf("  [%s]", model.LanguageDisplayName(m.ctrl.Language())))
	}
	return m.theme.Header.Width(m.width).Render(brand + modeTag + lang)
}

func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render("SESSIONS"))
	b.WriteString("\n\n")

	currentID := m.ctrl.CurrentSessionID()
	maxRows := m.viewport.Height - 2
	for i, s := range m.sessions {
		if i >= maxRows {
			break
		}
		b.WriteString(m.renderSidebarItem(s, i, currentID))
		b.WriteString("\n")
	}
	if len(m.sessions) == 0 {
		b.WriteString(m.theme.SidebarMeta.Render("no sessions yet"))
	}

	return m.theme.Sidebar.
		Width(sidebarWidth - 2).
		Height(m.viewport.Height).
		Render(b.String())
}

func (m Model) renderSidebarItem(s *session.Session, i int, currentID string) string {
	title := s.Title
	if title == "" {
		title = session.SentinelTitle
	}
	line := util.TruncateWidth(title, sidebarWidth-6)
	if s.ID == currentID {
		line = "* " + line
	} else {
		line = "  " + line
	}

	style := m.theme.SidebarItem
	if m.focus == FocusSidebar && i == m.selected {
		style = m.theme.SidebarSelected
	}
	meta := m.theme.SidebarMeta.Render("  " + s.Mode.DisplayName() + "  " + relTime(s.UpdatedAt))
	return style.Render(line) + "\n" + meta
}

// relTime formats how long ago a session was touched, sidebar-compact.
func relTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// renderTranscript renders all turns plus streaming and error state for the
// viewport.
func (m Model) renderTranscript() string {
	turns := m.ctrl.Transcript().Turns()
	if len(turns) == 0 {
		return m.theme.Timestamp.Render("\n  " + m.ctrl.Mode().Placeholder())
	}

	var b strings.Builder
	for _, t := range turns {
		b.WriteString(m.renderTurn(t))
		b.WriteString("\n")
	}

	if m.ctrl.Transcript().Busy() {
		b.WriteString(m.spin.View())
		b.WriteString(m.theme.Timestamp.Render(" thinking..."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderTurn(t *model.Turn) string {
	var b strings.Builder

	label := m.theme.UserLabel
	if t.Role == model.RoleAssistant {
		label = m.theme.AssistantLabel
	}
	b.WriteString(label.Render(t.Role.DisplayName()))
	b.WriteString(" ")
	b.WriteString(m.theme.Timestamp.Render(t.Timestamp.Format("15:04")))
	b.WriteString("\n")

	content := t.Content
	if t.Role == model.RoleAssistant && m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}
	if content != "" {
		b.WriteString(m.theme.TurnBody.Render(content))
		b.WriteString("\n")
	}

	if t.Attachment != nil {
		tag := "[attachment]"
		switch {
		case t.Attachment.IsVideo() && t.Attachment.Generated:
			tag = fmt.Sprintf("[generated video: %s]", t.Attachment.PreviewURL)
		case t.Attachment.IsVideo():
			tag = "[video attachment]"
		case t.Attachment.IsAudio():
			tag = "[audio attachment]"
		}
		b.WriteString(m.theme.AttachmentTag.Render(tag))
		b.WriteString("\n")
	}

	if !t.Grounding.IsEmpty() {
		b.WriteString(m.renderGrounding(t.Grounding))
	}
	return b.String()
}

func (m Model) renderGrounding(g *model.GroundingMetadata) string {
	var b strings.Builder
	b.WriteString(m.theme.Grounding.Render("sources:"))
	b.WriteString("\n")
	for i, c := range g.Chunks {
		title := c.Title
		if title == "" {
			title = c.URI
		}
		b.WriteString(m.theme.Grounding.Render(fmt.Sprintf("  [%d] %s (%s)", i+1, title, c.URI)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderErrorLine() string {
	if marker := m.ctrl.Transcript().Err(); marker != "" {
		return m.theme.ErrorBanner.Render(marker)
	}
	if m.sendErr != nil {
		return m.theme.ErrorBanner.Render(m.sendErr.Error())
	}
	return ""
}

func (m Model) renderStatusBar() string {
	shortcuts := []struct{ key, desc string }{
		{"Enter", "send"},
		{"C-g", "search"},
		{"C-n", "new"},
		{"C-p", "mode"},
		{"Tab", "sessions"},
		{"C-c", "quit"},
	}
	parts := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		parts[i] = m.theme.ShortcutKey.Render(s.key) + m.theme.ShortcutDesc.Render(" "+s.desc)
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}
