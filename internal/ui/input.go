package ui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sleact-tui/internal/logging/events"
)

// filterKey is a filter edit bound to a key. Edits with an op change the
// query and are traced under that op; the rest only move the caret.
type filterKey struct {
	op    string
	apply func(*level) bool
}

var filterKeys = map[string]filterKey{
	"ctrl+u":    {op: "clear", apply: clearFilter},
	"ctrl+w":    {op: "word-backspace", apply: (*level).DeleteFilterWordBackward},
	"backspace": {op: "backspace", apply: (*level).DeleteFilterRuneBackward},
	"ctrl+h":    {op: "backspace", apply: (*level).DeleteFilterRuneBackward},
	"ctrl+a":    {apply: (*level).MoveFilterCursorStart},
	"ctrl+e":    {apply: (*level).MoveFilterCursorEnd},
	"left":      {apply: (*level).MoveFilterCursorRuneBackward},
	"right":     {apply: (*level).MoveFilterCursorRuneForward},
}

func clearFilter(l *level) bool {
	if l.Filter == "" {
		return false
	}
	l.SetFilter("", 0)
	return true
}

// handleTextInput edits the filter of the current list. It reports whether
// the key was consumed.
func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	current := m.currentLevel()
	if current == nil {
		return false
	}
	if fk, ok := filterKeys[msg.String()]; ok {
		if !fk.apply(current) {
			return false
		}
		m.filterEdited(current, fk.op)
		return true
	}
	text, ok := typedText(msg)
	if !ok || !current.InsertFilterText(text) {
		return false
	}
	m.filterEdited(current, "append")
	return true
}

// typedText extracts printable input from a key press.
func typedText(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeySpace:
		return " ", true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return "", false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return "", false
			}
		}
		return string(msg.Runes), true
	}
	return "", false
}

func (m *Model) filterEdited(current *level, op string) {
	if op == "" {
		events.Filter.Cursor(current.ID, current.FilterCursor)
		return
	}
	m.errMsg = ""
	events.Filter.Edit(current.ID, op, current.Filter)
	m.syncViewport(current)
}

// filterPrompt renders the filter line of the current list with its cursor.
func (m *Model) filterPrompt() string {
	prompt := render(styles.FilterPrompt, "» ")
	current := m.currentLevel()
	if current == nil {
		return prompt
	}
	if current.Filter == "" {
		placeholder := []rune("(type to filter " + current.Title + ")")
		return prompt + m.renderFilterCursor(string(placeholder[0])) + render(styles.FilterPlaceholder, string(placeholder[1:]))
	}
	runes := []rune(current.Filter)
	pos := current.FilterCursorPos()
	caret := " "
	after := ""
	if pos < len(runes) {
		caret = string(runes[pos])
		after = string(runes[pos+1:])
	}
	return prompt + render(styles.Filter, string(runes[:pos])) + m.renderFilterCursor(caret) + render(styles.Filter, after)
}

func (m *Model) renderFilterCursor(char string) string {
	m.filterCursor.SetChar(char)
	return m.filterCursor.View()
}
