package ui

import (
	"strings"

	"github.com/atomicstack/satisfying-background/internal/host"
	"github.com/atomicstack/satisfying-background/internal/ui/markup"
	uistate "github.com/atomicstack/satisfying-background/internal/ui/state"
)

// sync re-reads the host's active panel. The page is parsed again only when
// the panel or its markup changed since the last update.
func (m *Model) sync() {
	active := m.activePanel()
	if active == nil {
		m.panel = nil
		m.source = ""
		m.page = markup.Page{}
		m.list = nil
		m.mode = ModeEmpty
		return
	}
	doc := active.Document()
	if active == m.panel && doc.Markup == m.source {
		return
	}
	samePanel := active == m.panel
	m.panel = active
	m.source = doc.Markup
	m.page = markup.Parse(doc.Markup)
	m.errMsg = ""

	if len(m.page.Buttons) > 0 {
		items := m.buttonItems()
		if samePanel && m.list != nil {
			m.list.UpdateItems(items)
		} else {
			m.list = uistate.NewLevel(active.ID(), active.Title(), items)
		}
		m.mode = ModeList
		m.syncViewport()
		return
	}
	m.list = nil
	m.mode = ModeContent
	m.resizeBody()
	m.body.SetContent(m.renderBody())
	m.body.GotoTop()
}

func (m *Model) activePanel() *host.LocalPanel {
	if m.host == nil {
		return nil
	}
	active := m.host.Active()
	if active == nil || active.Disposed() {
		return nil
	}
	return active
}

func (m *Model) currentLevel() *level {
	if m.mode != ModeList {
		return nil
	}
	return m.list
}

func (m *Model) buttonItems() []uistate.Item {
	items := make([]uistate.Item, 0, len(m.page.Buttons))
	for _, button := range m.page.Buttons {
		label := button.Label
		if label == "" {
			label = button.Action
		}
		items = append(items, uistate.Item{
			ID:      button.Action,
			Label:   label,
			Missing: button.Action != "" && !m.availability.Available(button.Action),
		})
	}
	return items
}

// refreshAvailability re-marks list items after the content root changed.
func (m *Model) refreshAvailability() {
	if m.list == nil {
		return
	}
	m.list.UpdateItems(m.buttonItems())
	m.syncViewport()
}

func (m *Model) renderBody() string {
	width := m.width
	lines := make([]string, 0, len(m.page.Lines))
	for _, line := range m.page.Lines {
		text := truncateText(line.Text, width)
		style := styles.Body
		if line.Heading {
			style = styles.Heading
		}
		if style != nil {
			text = style.Render(text)
		}
		lines = append(lines, text)
	}
	if len(lines) == 0 {
		lines = append(lines, "(nothing to show)")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) resizeBody() {
	m.body.Width = m.width
	height := m.bodyHeight()
	if height < 1 {
		height = 1
	}
	m.body.Height = height
	if m.mode == ModeContent {
		m.body.SetContent(m.renderBody())
	}
}
