package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/satisfying-background/internal/ui/markup"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// trailingLinesMax caps the document text shown below the button list.
const trailingLinesMax = 6

const footerText = "↑/↓ move  enter select  ctrl+r reload  ctrl+o show  esc back  ctrl+c quit"

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeContent:
		return m.viewContent()
	}
	return m.viewEmpty()
}

func (m *Model) viewEmpty() string {
	lines := []styledLine{
		{text: emptyTitle, style: styles.Header},
		{text: "ctrl+o opens the background chooser, ctrl+c quits", style: styles.Info},
	}
	lines = append(lines, m.trailer()...)
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) viewList() string {
	current := m.currentLevel()
	lines := make([]styledLine, 0, 16)
	lines = append(lines, styledLine{text: m.header(), style: styles.Header})
	before, after := m.splitPageLines()
	lines = append(lines, pageLines(before)...)

	m.syncViewport()
	if len(current.Items) == 0 {
		lines = append(lines, styledLine{text: fmt.Sprintf("No matches for %q", current.Filter), style: styles.Info})
	} else {
		start := 0
		display := current.Items
		if maxItems := m.maxVisibleItems(); maxItems > 0 && len(display) > maxItems {
			start = current.ViewportOffset
			if start < 0 {
				start = 0
			}
			if start+maxItems > len(display) {
				start = len(display) - maxItems
				current.ViewportOffset = start
			}
			display = display[start : start+maxItems]
		}
		for i, item := range display {
			lines = append(lines, m.buildItemLine(item.Label, item.Missing, start+i == current.Cursor))
		}
	}
	if len(after) > 0 {
		lines = append(lines, styledLine{})
		lines = append(lines, pageLines(after)...)
	}
	lines = append(lines, m.trailer()...)

	lines = limitHeight(lines, m.height-1, m.width)
	lines = applyWidth(lines, m.width)
	lines = append(lines, styledLine{text: m.filterPrompt(), raw: true})
	return renderLines(lines)
}

func (m *Model) viewContent() string {
	header := m.header()
	if total := m.body.TotalLineCount(); total > m.body.Height {
		header = fmt.Sprintf("%s  %3.0f%%", header, m.body.ScrollPercent()*100)
	}
	out := []string{renderLines(applyWidth([]styledLine{{text: header, style: styles.Header}}, m.width))}
	out = append(out, m.body.View())
	if trailer := m.trailer(); len(trailer) > 0 {
		out = append(out, renderLines(applyWidth(trailer, m.width)))
	}
	return strings.Join(out, "\n")
}

// trailer holds the info, footer, and status rows shared by every mode.
func (m *Model) trailer() []styledLine {
	var lines []styledLine
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{}, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{}, styledLine{text: footerText, style: styles.Footer})
	}
	if status := m.statusText(); status != "" {
		lines = append(lines, styledLine{text: status, style: styles.Error})
	}
	return lines
}

func (m *Model) statusText() string {
	switch {
	case m.errMsg != "":
		return fmt.Sprintf("Error: %s", m.errMsg)
	case m.backendLastErr != "":
		return fmt.Sprintf("Watcher: %s", m.backendLastErr)
	}
	return ""
}

func (m *Model) header() string {
	if m.panel == nil {
		return emptyTitle
	}
	title := strings.TrimSpace(m.panel.Title())
	if pageTitle := strings.TrimSpace(m.page.Title); pageTitle != "" && pageTitle != title {
		title += headerSeparator + pageTitle
	}
	return title
}

// splitPageLines separates the document text above the buttons from the text
// below them.
func (m *Model) splitPageLines() (before, after []markup.Line) {
	for _, line := range m.page.Lines {
		if line.AfterButtons == 0 {
			before = append(before, line)
		} else {
			after = append(after, line)
		}
	}
	if len(after) > trailingLinesMax {
		after = after[:trailingLinesMax]
	}
	return before, after
}

func pageLines(lines []markup.Line) []styledLine {
	out := make([]styledLine, 0, len(lines))
	for _, line := range lines {
		style := styles.Body
		if line.Heading {
			style = styles.Heading
		}
		out = append(out, styledLine{text: line.Text, style: style})
	}
	return out
}

func (m *Model) buildItemLine(label string, missing, selected bool) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if missing {
		lineStyle = styles.MissingItem
		label += " (missing)"
	}
	if selected {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + label
	if m.width > 0 {
		if pad := m.width - lipgloss.Width(fullText); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

// maxVisibleItems returns how many list rows fit, or -1 when the height is
// unknown.
func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	before, after := m.splitPageLines()
	used := 2 + len(before) + len(m.trailer())
	if len(after) > 0 {
		used += 1 + len(after)
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return len(m.page.Lines)
	}
	return m.height - 1 - len(m.trailer())
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.forceClearInfo()
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.forceClearInfo()
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		line.text = truncateText(line.text, width)
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

// truncateText shortens text to width cells, ANSI-aware.
func truncateText(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return truncate.StringWithTail(text, uint(width-1), "…")
}
