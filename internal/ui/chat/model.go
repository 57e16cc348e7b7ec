// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/lumiere-labs/lumiere-tui/internal/controller"
	"github.com/lumiere-labs/lumiere-tui/internal/model"
	"github.com/lumiere-labs/lumiere-tui/internal/session"
	"github.com/lumiere-labs/lumiere-tui/internal/ui/styles"
)

// Focus identifies which pane receives key input.
type Focus int

const (
	FocusInput Focus = iota
	FocusSidebar
)

// sidebarWidth is the fixed width of the session sidebar.
const sidebarWidth = 32

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctrl  *controller.Controller
	theme *styles.Theme

	width  int
	height int

	// Panes
	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	keyMap   KeyMap

	// Sidebar
	showSidebar bool
	focus       Focus
	sessions    []*session.Session
	selected    int

	// Markdown rendering
	renderer *glamour.TermRenderer

	// cancelStream aborts the in-flight response stream, when one exists.
	cancelStream context.CancelFunc

	// Transient send error, separate from the transcript error marker.
	sendErr error
}

// NewModel creates the chat view over a controller.
func NewModel(ctrl *controller.Controller, showSidebar bool) Model {
	mode := ctrl.Mode()

	input := textinput.New()
	input.Placeholder = mode.Placeholder()
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctrl:        ctrl,
		theme:       styles.NewTheme(mode),
		viewport:    viewport.New(80, 20),
		input:       input,
		spin:        spin,
		keyMap:      DefaultKeyMap(),
		showSidebar: showSidebar,
		sessions:    ctrl.Sessions(),
	}
	m.spin.Style = m.theme.Spinner
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

// applyMode refreshes the theme and placeholder after a mode change.
func (m *Model) applyMode(mode model.Mode) {
	m.theme = styles.NewTheme(mode)
	m.spin.Style = m.theme.Spinner
	m.input.Placeholder = mode.Placeholder()
}

// refreshSessions re-reads the session list and clamps the selection.
func (m *Model) refreshSessions() {
	m.sessions = m.ctrl.Sessions()
	if m.selected >= len(m.sessions) {
		m.selected = len(m.sessions) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// resize recomputes pane dimensions and rebuilds the markdown renderer for
// the new wrap width.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	chatWidth := width
	if m.showSidebar {
		chatWidth -= sidebarWidth
	}
	if chatWidth < 20 {
		chatWidth = 20
	}

	// Header, error banner slot, input, status bar.
	viewHeight := height - 5
	if viewHeight < 3 {
		viewHeight = 3
	}

	m.viewport.Width = chatWidth
	m.viewport.Height = viewHeight
	m.input.Width = chatWidth - 6

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(chatWidth-4),
	)
	if err == nil {
		m.renderer = renderer
	}
	m.syncViewport(true)
}

// syncViewport re-renders the transcript into the viewport. When follow is
// true the view sticks to the bottom.
func (m *Model) syncViewport(follow bool) {
	m.viewport.SetContent(m.renderTranscript())
	if follow {
		m.viewport.GotoBottom()
	}
}
