package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sleact-tui/internal/logging/events"
	"github.com/atomicstack/sleact-tui/internal/modal"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if keyMsg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.users.SignedOut() {
		return m.handleSignedOutKey(keyMsg)
	}
	switch keyMsg.String() {
	case "ctrl+n":
		return m.openModal(modal.CreateWorkspace)
	case "ctrl+t":
		return m.openModal(modal.CreateChannel)
	case "ctrl+p":
		return m.toggleModal(modal.UserMenu)
	case "ctrl+g":
		return m.toggleModal(modal.WorkspaceMenu)
	}
	if m.modals.Current().IsMenu() {
		return m.handleMenuKey(keyMsg)
	}
	if m.handleTextInput(keyMsg) {
		return nil
	}
	switch keyMsg.String() {
	case "esc":
		m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "tab":
		m.cycleFocus(1)
	case "shift+tab":
		m.cycleFocus(-1)
	default:
		m.handleCursorKey(keyMsg)
	}
	return nil
}

func (m *Model) handleSignedOutKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "r":
		m.refresh()
	}
	return nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	if m.handleTextInput(msg) {
		return nil
	}
	switch msg.String() {
	case "esc":
		m.handleMenuEscape()
	case "enter":
		return m.handleMenuEnter()
	default:
		m.handleCursorKey(msg)
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.closeOverlay()
	m.bus.Close()
	return tea.Quit
}

func (m *Model) handleCursorKey(msg tea.KeyMsg) {
	current := m.currentLevel()
	if current == nil {
		return
	}
	moved := false
	switch msg.String() {
	case "up":
		moved = current.MoveCursorUp()
	case "down":
		moved = current.MoveCursorDown()
	case "pgup":
		moved = current.MoveCursorPageUp(m.maxVisibleItems())
	case "pgdown":
		moved = current.MoveCursorPageDown(m.maxVisibleItems())
	case "home":
		moved = current.MoveCursorHome()
	case "end":
		moved = current.MoveCursorEnd()
	default:
		return
	}
	if moved {
		events.UI.Cursor(current.ID, current.Cursor)
	}
	m.syncViewport(current)
}

// handleEscapeKey clears the focused filter.
func (m *Model) handleEscapeKey() {
	current := m.currentLevel()
	if current == nil || current.Filter == "" {
		return
	}
	current.SetFilter("", 0)
	events.Filter.Edit(current.ID, "clear", "")
	m.errMsg = ""
	m.syncViewport(current)
}

// handleEnterKey selects the item under the cursor: a workspace switches the
// view, a channel becomes the current channel.
func (m *Model) handleEnterKey() tea.Cmd {
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	item, ok := current.Current()
	if !ok {
		return nil
	}
	events.UI.Select(m.focus.String(), item.ID, item.Label, current.Filter)
	switch m.focus {
	case ColumnWorkspaces:
		current.SetFilter("", 0)
		m.switchWorkspace(item.ID)
		m.setFocus(ColumnChannels)
	case ColumnChannels:
		current.SetFilter("", 0)
		current.SelectID(item.ID)
		m.channels.SetCurrent(item.ID)
		m.setFocus(ColumnMembers)
	}
	return nil
}

func (m *Model) cycleFocus(delta int) {
	next := (int(m.focus) + delta + int(columnCount)) % int(columnCount)
	m.setFocus(Column(next))
}

func (m *Model) setFocus(col Column) {
	if col == m.focus {
		return
	}
	m.focus = col
	events.UI.Focus(col.String())
	m.syncViewport(m.columns[col])
}

// currentLevel returns the list that receives cursor and filter keys: the
// top popover level while a menu is open, otherwise the focused column.
func (m *Model) currentLevel() *level {
	if m.modals.Current().IsMenu() {
		return m.currentMenu()
	}
	return m.columns[m.focus]
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}
