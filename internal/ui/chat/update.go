// Copyright (c) 2025 Lumière Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumiere-labs/lumiere-tui/internal/controller"
	"github.com/lumiere-labs/lumiere-tui/internal/model"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ControllerEventMsg:
		return m.handleEvent(msg.Event)

	case SendFailedMsg:
		m.sendErr = msg.Err
		m.syncViewport(true)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return ErrorDismissMsg{}
		})

	case ErrorDismissMsg:
		m.sendErr = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleEvent folds a controller event into the view.
func (m Model) handleEvent(ev controller.Event) (tea.Model, tea.Cmd) {
	switch ev.(type) {
	case controller.StreamUpdatedEvent:
		m.syncViewport(true)
	case controller.StreamCompletedEvent:
		if m.cancelStream != nil {
			m.cancelStream()
			m.cancelStream = nil
		}
		m.refreshSessions()
		m.syncViewport(true)
	case controller.TitleUpdatedEvent, controller.SessionsChangedEvent:
		m.refreshSessions()
	}
	return m, nil
}

// handleKey dispatches a key press by focus and binding.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.NewChat):
		m.ctrl.StartNewChat()
		m.applyMode(m.ctrl.Mode())
		m.refreshSessions()
		m.syncViewport(true)
		return m, nil

	case key.Matches(msg, m.keyMap.CycleMode):
		m.cycleMode()
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		if m.cancelStream != nil {
			m.cancelStream()
			m.cancelStream = nil
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Sidebar):
		m.showSidebar = !m.showSidebar
		if !m.showSidebar && m.focus == FocusSidebar {
			m.focus = FocusInput
			m.input.Focus()
		}
		m.resize(m.width, m.height)
		return m, nil
	}

	if m.focus == FocusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

// handleInputKey handles keys while the input line has focus.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit(false)

	case key.Matches(msg, m.keyMap.Search):
		return m.submit(true)

	case key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down),
		key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		// Arrow keys scroll the transcript when the sidebar is closed; with
		// the sidebar open they move the selection there.
		if m.showSidebar && (key.Matches(msg, m.keyMap.Up) || key.Matches(msg, m.keyMap.Down)) {
			m.focus = FocusSidebar
			m.input.Blur()
			return m.handleSidebarKey(msg)
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit dispatches the input line as a normal send or, when quick is true,
// as a quick web search that bypasses the session's persona mode.
func (m Model) submit(quick bool) (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	var err error
	if quick {
		err = m.ctrl.QuickSearch(ctx, content)
	} else {
		err = m.ctrl.Send(ctx, content, nil)
	}
	if err != nil {
		cancel()
		return m, func() tea.Msg { return SendFailedMsg{Err: err} }
	}
	m.cancelStream = cancel

	m.input.Reset()
	m.refreshSessions()
	m.syncViewport(true)
	return m, nil
}

// handleSidebarKey handles keys while the session sidebar has focus.
func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		if m.selected < len(m.sessions)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if m.selected < len(m.sessions) {
			s := m.sessions[m.selected]
			if err := m.ctrl.LoadSession(s.ID); err == nil {
				m.applyMode(m.ctrl.Mode())
			}
		}
		m.focus = FocusInput
		m.input.Focus()
		m.syncViewport(true)
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		if m.selected < len(m.sessions) {
			m.ctrl.DeleteSession(m.sessions[m.selected].ID)
			m.applyMode(m.ctrl.Mode())
			m.refreshSessions()
			m.syncViewport(true)
		}
		return m, nil
	}

	// Anything else hands focus back to the input.
	m.focus = FocusInput
	m.input.Focus()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycleMode advances to the next persona mode, which opens a fresh session.
func (m *Model) cycleMode() {
	current := m.ctrl.Mode()
	next := model.AllModes[0]
	for i, mode := range model.AllModes {
		if mode == current {
			next = model.AllModes[(i+1)%len(model.AllModes)]
			break
		}
	}
	m.ctrl.ChangeMode(next)
	m.applyMode(next)
	m.refreshSessions()
	m.syncViewport(true)
}
