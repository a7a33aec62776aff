package state

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SetFilter updates the filter query and its cursor position. The list cursor
// jumps to the best match while a query is active and returns to where it
// was once the query is cleared.
func (l *Level) SetFilter(query string, cursor int) {
	trimmed := strings.TrimSpace(query)
	prevTrimmed := strings.TrimSpace(l.Filter)
	l.Filter = query
	runes := []rune(l.Filter)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	l.FilterCursor = cursor

	switch {
	case trimmed != "":
		if prevTrimmed == "" {
			l.LastCursor = l.Cursor
		}
		l.applyFilter()
		l.Cursor = BestMatchIndex(l.Items, trimmed)
		if l.Cursor < 0 {
			l.Cursor = 0
		}
	case prevTrimmed != "":
		restore := l.LastCursor
		l.applyFilter()
		if restore >= 0 && restore < len(l.Items) {
			l.Cursor = restore
		}
		l.LastCursor = -1
	default:
		l.applyFilter()
	}
}

// ClearFilter drops the query. It reports whether there was one.
func (l *Level) ClearFilter() bool {
	if l.Filter == "" {
		return false
	}
	l.SetFilter("", 0)
	return true
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
	if l.ViewportOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
	}
}

// FilterCursorPos returns the rune offset of the filter cursor.
func (l *Level) FilterCursorPos() int {
	n := len([]rune(l.Filter))
	switch {
	case l.FilterCursor < 0:
		return 0
	case l.FilterCursor > n:
		return n
	}
	return l.FilterCursor
}

// InsertFilterText inserts text into the filter at the cursor position.
func (l *Level) InsertFilterText(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	l.SetFilter(string(updated), pos+len(insert))
	return true
}

// DeleteFilterRuneBackward deletes the rune before the filter cursor.
func (l *Level) DeleteFilterRuneBackward() bool {
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	updated := append(runes[:pos-1:pos-1], runes[pos:]...)
	l.SetFilter(string(updated), pos-1)
	return true
}

// DeleteFilterWordBackward deletes the word preceding the filter cursor.
func (l *Level) DeleteFilterWordBackward() bool {
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	updated := append(runes[:i:i], runes[pos:]...)
	l.SetFilter(string(updated), i)
	return true
}

// FilterItems returns the items whose label or identifier matches query.
func FilterItems(items []Item, query string) []Item {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return CloneItems(items)
	}
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if fuzzy.MatchNormalizedFold(trimmed, item.Label) || fuzzy.MatchNormalizedFold(trimmed, item.ID) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// BestMatchIndex returns the index of the item that best matches query:
// exact matches first, then prefixes, then the closest fuzzy rank.
func BestMatchIndex(items []Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, item := range items {
		if strings.EqualFold(item.Label, trimmed) || strings.EqualFold(item.ID, trimmed) {
			return i
		}
	}
	for i, item := range items {
		if strings.HasPrefix(strings.ToLower(item.Label), lower) || strings.HasPrefix(strings.ToLower(item.ID), lower) {
			return i
		}
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance || (rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	return best.OriginalIndex
}
