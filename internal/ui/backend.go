package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/satisfying-background/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

func (m *Model) applyBackendEvent(evt backend.Event) {
	if evt.Err != nil {
		m.backendLastErr = evt.Err.Error()
		return
	}
	m.backendLastErr = ""
	if m.dispatcher == nil {
		return
	}
	if res := m.dispatcher.Handle(evt); res.AvailabilityUpdated {
		m.refreshAvailability()
		if missing := m.availability.Missing(); len(missing) > 0 {
			m.setInfo(fmt.Sprintf("Missing content: %s", strings.Join(missing, ", ")))
		} else {
			m.clearInfo()
		}
	}
}
