package ui

import (
	"errors"
	"fmt"

	"github.com/atomicstack/satisfying-background/internal/host"
	"github.com/atomicstack/satisfying-background/internal/logging"
	"github.com/atomicstack/satisfying-background/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "ctrl+o":
		m.runShowCommand()
		return nil
	case "ctrl+r":
		m.reloadPanel()
		return nil
	case "esc":
		return m.handleEscapeKey()
	}
	if m.mode == ModeContent {
		m.scrollBody(keyMsg)
		return nil
	}
	if m.handleTextInput(keyMsg) {
		return nil
	}
	switch keyMsg.String() {
	case "enter":
		m.handleEnterKey()
	case "up":
		m.moveCursorUp()
	case "down":
		m.moveCursorDown()
	case "pgup":
		m.moveCursor((*level).MoveCursorPageUp)
	case "pgdown":
		m.moveCursor((*level).MoveCursorPageDown)
	case "home":
		m.moveCursor(func(l *level, _ int) bool { return l.MoveCursorHome() })
	case "end":
		m.moveCursor(func(l *level, _ int) bool { return l.MoveCursorEnd() })
	}
	return nil
}

// handleEscapeKey clears an active filter first; otherwise it closes the
// panel. With no panel open it quits.
func (m *Model) handleEscapeKey() tea.Cmd {
	if current := m.currentLevel(); current != nil {
		before := current.FilterCursorPos()
		if current.ClearFilter() {
			m.noteFilterCursorChange(current, before)
			events.Filter.Cleared()
			m.syncViewport()
			return nil
		}
	}
	if m.panel == nil {
		return tea.Quit
	}
	events.UI.Close(m.panel.ID())
	m.panel.Dispose()
	m.errMsg = ""
	m.forceClearInfo()
	return nil
}

func (m *Model) handleEnterKey() {
	current := m.currentLevel()
	if current == nil || m.panel == nil {
		return
	}
	item, ok := current.Current()
	if !ok {
		return
	}
	events.UI.Click(m.panel.ID(), item.ID, item.Label)
	if item.Missing {
		m.setInfo(fmt.Sprintf("%s is not available", item.Label))
	}
	m.panel.Click(item.ID)
}

func (m *Model) reloadPanel() {
	if m.panel == nil {
		return
	}
	events.UI.Reload(m.panel.ID())
	m.panel.Reload()
	m.setInfo("Reloaded")
}

func (m *Model) runShowCommand() {
	if m.host == nil || m.showCommand == "" {
		return
	}
	if err := m.host.ExecuteCommand(m.showCommand); err != nil {
		if errors.Is(err, host.ErrUnknownCommand) {
			m.errMsg = fmt.Sprintf("command %s is not available", m.showCommand)
		} else {
			m.errMsg = err.Error()
		}
		logging.Error(err)
	}
}

func (m *Model) moveCursorUp() {
	if current := m.currentLevel(); current != nil {
		if n := len(current.Items); n > 0 {
			if current.Cursor > 0 {
				current.Cursor--
			} else {
				current.Cursor = n - 1
			}
			events.UI.Cursor(current.Cursor)
			m.syncViewport()
		}
	}
}

func (m *Model) moveCursorDown() {
	if current := m.currentLevel(); current != nil {
		if n := len(current.Items); n > 0 {
			if current.Cursor < n-1 {
				current.Cursor++
			} else {
				current.Cursor = 0
			}
			events.UI.Cursor(current.Cursor)
			m.syncViewport()
		}
	}
}

func (m *Model) moveCursor(move func(*level, int) bool) {
	current := m.currentLevel()
	if current == nil {
		return
	}
	if move(current, m.maxVisibleItems()) {
		events.UI.Cursor(current.Cursor)
	}
	m.syncViewport()
}

func (m *Model) scrollBody(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		m.body.SetYOffset(m.body.YOffset - 1)
	case "down", "j":
		m.body.SetYOffset(m.body.YOffset + 1)
	case "pgup":
		m.body.ViewUp()
	case "pgdown", " ":
		m.body.ViewDown()
	case "home", "g":
		m.body.GotoTop()
	case "end", "G":
		m.body.GotoBottom()
	}
}

// handleMouseMsg scrolls the content view with the mouse wheel.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		if m.mode == ModeContent {
			m.body.SetYOffset(m.body.YOffset - 3)
		} else {
			m.moveCursorUp()
		}
	case tea.MouseButtonWheelDown:
		if m.mode == ModeContent {
			m.body.SetYOffset(m.body.YOffset + 3)
		} else {
			m.moveCursorDown()
		}
	}
	return nil
}

func (m *Model) syncViewport() {
	if current := m.currentLevel(); current != nil {
		current.EnsureCursorVisible(m.maxVisibleItems())
	}
}
