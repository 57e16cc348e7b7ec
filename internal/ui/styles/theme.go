// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lumiere-labs/lumiere-tui/internal/model"
)

// Theme holds the styled components for the application, keyed to the accent
// of the active persona mode.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile
	Accent       lipgloss.AdaptiveColor

	// Header
	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderMode  lipgloss.Style

	// Turns
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	TurnBody       lipgloss.Style
	Timestamp      lipgloss.Style
	Grounding      lipgloss.Style
	AttachmentTag  lipgloss.Style

	// Input
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Sidebar
	Sidebar         lipgloss.Style
	SidebarTitle    lipgloss.Style
	SidebarItem     lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarMeta     lipgloss.Style

	// Status
	StatusBar    lipgloss.Style
	ErrorBanner  lipgloss.Style
	Spinner      lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// NewTheme creates a theme accented for the given persona mode.
func NewTheme(mode model.Mode) *Theme {
	accent := ModeAccent(mode)

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
		Accent:       accent,
	}

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderBrand = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)
	t.HeaderMode = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UserLabel = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.AssistantLabel = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)
	t.TurnBody = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.Grounding = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.AttachmentTag = lipgloss.NewStyle().
		Foreground(Amber)

	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	t.Sidebar = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(Border).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)
	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.SidebarSelected = lipgloss.NewStyle().
		Foreground(Surface).
		Background(accent).
		Bold(true)
	t.SidebarMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextMuted).
		Padding(0, 1)
	t.ErrorBanner = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	t.Spinner = lipgloss.NewStyle().
		Foreground(accent)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	return t
}
