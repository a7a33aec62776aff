package state

// Item is one selectable row: a button offered by the panel document.
type Item struct {
	ID      string
	Label   string
	Missing bool
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
