package ui

import (
	"unicode"

	"github.com/atomicstack/satisfying-background/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const filterPlaceholder = "(type to filter)"

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(l *level, before int) {
	if l == nil {
		return
	}
	if before != l.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	current := m.currentLevel()
	if current == nil {
		return false
	}
	switch msg.String() {
	case "ctrl+u":
		before := current.FilterCursorPos()
		if !current.ClearFilter() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		m.errMsg = ""
		events.Filter.Cleared()
		m.syncViewport()
		return true
	case "ctrl+w":
		before := current.FilterCursorPos()
		if !current.DeleteFilterWordBackward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		m.errMsg = ""
		events.Filter.WordBackspace(current.Filter)
		m.syncViewport()
		return true
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return m.removeFilterRune()
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		return m.appendToFilter(string(msg.Runes))
	case tea.KeySpace:
		return m.appendToFilter(" ")
	}
	return false
}

func (m *Model) appendToFilter(text string) bool {
	current := m.currentLevel()
	if current == nil {
		return false
	}
	before := current.FilterCursorPos()
	if !current.InsertFilterText(text) {
		return false
	}
	m.noteFilterCursorChange(current, before)
	m.forceClearInfo()
	m.errMsg = ""
	events.Filter.Append(current.Filter)
	m.syncViewport()
	return true
}

func (m *Model) removeFilterRune() bool {
	current := m.currentLevel()
	if current == nil {
		return false
	}
	before := current.FilterCursorPos()
	if !current.DeleteFilterRuneBackward() {
		return false
	}
	m.noteFilterCursorChange(current, before)
	m.errMsg = ""
	events.Filter.Backspace(current.Filter)
	m.syncViewport()
	return true
}

func (m *Model) filterPrompt() string {
	current := m.currentLevel()
	if current == nil {
		return ""
	}
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := render(styles.FilterPrompt, "» ")
	if current.Filter == "" {
		runes := []rune(filterPlaceholder)
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		caret := m.renderFilterCursor(string(runes[0]))
		return prompt + caret + render(styles.FilterPlaceholder, string(runes[1:]))
	}
	runes := []rune(current.Filter)
	pos := current.FilterCursorPos()
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	before := render(styles.Filter, string(runes[:pos]))
	return prompt + before + m.renderFilterCursor(caretRune) + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy().Inline(true)
	if m.filterCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		return base.Inherit(styles.Cursor.Copy().Inline(true)).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
