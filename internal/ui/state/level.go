package state

import (
	"slices"

	"github.com/atomicstack/sleact-tui/internal/menu"
)

// Level is one scrollable, filterable list. The workspace, channel and
// member columns are Levels, and so is each popover menu page.
//
// Full holds every item; Items is the filtered view the cursor indexes.
// LastCursor remembers the cursor from before a filter was typed, or from
// before a submenu was entered, and is -1 otherwise.
type Level struct {
	ID    string
	Title string
	Node  *menu.Node

	Full  []menu.Item
	Items []menu.Item

	Filter       string
	FilterCursor int

	Cursor         int
	LastCursor     int
	ViewportOffset int
}

func NewLevel(id, title string, items []menu.Item, node *menu.Node) *Level {
	l := &Level{ID: id, Title: title, Node: node, LastCursor: -1}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the position of id among the visible items, or -1.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(l.Items, func(item menu.Item) bool { return item.ID == id })
}

func (l *Level) Current() (menu.Item, bool) {
	if l == nil || l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return menu.Item{}, false
	}
	return l.Items[l.Cursor], true
}

// SelectID moves the cursor onto id when it is visible.
func (l *Level) SelectID(id string) bool {
	idx := l.IndexOf(id)
	if idx >= 0 {
		l.Cursor = idx
	}
	return idx >= 0
}

// UpdateItems swaps in a fresh item list, for example after a revalidation.
// The cursor follows the selected item by ID and the scroll position is kept
// while it still points inside the list.
func (l *Level) UpdateItems(items []menu.Item) {
	selected, hadSelection := l.Current()
	offset := l.ViewportOffset

	l.Full = CloneItems(items)
	l.applyFilter()
	if hadSelection {
		l.SelectID(selected.ID)
	}
	l.ViewportOffset = 0
	if offset > 0 && offset < len(l.Items) {
		l.ViewportOffset = offset
	}
}
