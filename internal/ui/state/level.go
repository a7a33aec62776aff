package state

// Level holds the list state of the visible panel: cursor, filter, and viewport.
type Level struct {
	ID             string
	Title          string
	Items          []Item
	Full           []Item
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewLevel constructs a Level with the provided items.
func NewLevel(id, title string, items []Item) *Level {
	l := &Level{
		ID:         id,
		Title:      title,
		Cursor:     -1,
		LastCursor: -1,
	}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the index of the visible item with the given identifier.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the item under the cursor.
func (l *Level) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems replaces the item list, keeping the cursor on the same item
// when it survives the update.
func (l *Level) UpdateItems(items []Item) {
	prevOffset := l.ViewportOffset
	prevID := ""
	if current, ok := l.Current(); ok {
		prevID = current.ID
	}
	l.Full = CloneItems(items)
	l.applyFilter()
	if idx := l.IndexOf(prevID); idx >= 0 {
		l.Cursor = idx
	}
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if prevOffset < 0 || prevOffset > len(l.Items)-1 {
		prevOffset = 0
	}
	l.ViewportOffset = prevOffset
}
