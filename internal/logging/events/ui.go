package events

import "github.com/atomicstack/sleact-tui/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

var (
	UI     = UITracer{}
	Filter = FilterTracer{}
)

func (UITracer) Focus(column string) {
	logging.Trace("ui.focus", map[string]interface{}{"column": column})
}

// Select records an enter on a column row. filter is the query that was
// active when the row was picked.
func (UITracer) Select(column, itemID, label, filter string) {
	logging.Trace("ui.select", map[string]interface{}{
		"column": column,
		"item":   itemID,
		"label":  label,
		"filter": filter,
	})
}

func (UITracer) MenuEnter(levelID, itemID, label string) {
	logging.Trace("menu.enter", map[string]interface{}{"level": levelID, "item": itemID, "label": label})
}

func (UITracer) Cursor(levelID string, cursor int) {
	logging.Trace("ui.cursor", map[string]interface{}{"level": levelID, "cursor": cursor})
}

// Edit records a change to a list filter. op is one of append, backspace,
// word-backspace or clear.
func (FilterTracer) Edit(levelID, op, filter string) {
	logging.Trace("filter."+op, map[string]interface{}{"level": levelID, "filter": filter})
}

func (FilterTracer) Cursor(levelID string, pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"level": levelID, "cursor": pos})
}
