package menu

import "strings"

// List is a composed menu with a highlighted item. The highlight is stored
// as a flat index into the current items; Next and Prev walk display order.
type List struct {
	items     []Item
	grouped   Grouped
	highlight int
}

// NewList composes items and highlights the first one in display order.
func NewList(items []Item) List {
	var l List
	l.SetItems(items)
	return l
}

// SetItems replaces the items and resets the highlight.
func (l *List) SetItems(items []Item) {
	l.items = items
	l.grouped = Compose(items)
	l.highlight = -1
	if order := l.grouped.Order(); len(order) > 0 {
		l.highlight = order[0]
	}
}

// Items returns the flat items.
func (l List) Items() []Item { return l.items }

// Grouped returns the display grouping.
func (l List) Grouped() Grouped { return l.grouped }

// Len returns the number of items.
func (l List) Len() int { return len(l.items) }

// HighlightedIndex returns the flat index of the highlighted item, or -1.
func (l List) HighlightedIndex() int { return l.highlight }

// Highlighted returns the highlighted item.
func (l List) Highlighted() (Item, int, bool) {
	if l.highlight < 0 || l.highlight >= len(l.items) {
		return Item{}, -1, false
	}
	return l.items[l.highlight], l.highlight, true
}

// SetHighlight moves the highlight to a flat index; out of range indexes are ignored.
func (l *List) SetHighlight(idx int) {
	if idx >= 0 && idx < len(l.items) {
		l.highlight = idx
	}
}

// Next moves the highlight forward in display order, wrapping at the end.
func (l *List) Next() { l.step(1) }

// Prev moves the highlight backward in display order, wrapping at the start.
func (l *List) Prev() { l.step(-1) }

func (l *List) step(delta int) {
	order := l.grouped.Order()
	if len(order) == 0 {
		return
	}
	pos := 0
	for i, idx := range order {
		if idx == l.highlight {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(order)) % len(order)
	l.highlight = order[pos]
}

// Filter returns a new list holding only items whose label contains query,
// case-insensitively. Flat indexes refer to the filtered items.
func (l List) Filter(query string) List {
	if query == "" {
		return NewList(l.items)
	}
	q := strings.ToLower(query)
	var kept []Item
	for _, it := range l.items {
		if strings.Contains(strings.ToLower(it.Label), q) {
			kept = append(kept, it)
		}
	}
	return NewList(kept)
}
