package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sleact-tui/internal/logging"
	"github.com/atomicstack/sleact-tui/internal/logging/events"
	"github.com/atomicstack/sleact-tui/internal/menu"
	"github.com/atomicstack/sleact-tui/internal/modal"
)

func menuNodeID(kind modal.Kind) string {
	switch kind {
	case modal.UserMenu:
		return "user"
	case modal.WorkspaceMenu:
		return "workspace"
	}
	return ""
}

// openMenu builds the first level of the popover for kind.
func (m *Model) openMenu(kind modal.Kind) {
	m.menus = nil
	id := menuNodeID(kind)
	node, ok := m.registry.Find(id)
	if !ok {
		return
	}
	if lvl := m.loadMenuLevel(node); lvl != nil {
		m.menus = []*level{lvl}
	}
}

func (m *Model) loadMenuLevel(node *menu.Node) *level {
	ctx := m.menuContext()
	var items []menu.Item
	if node.Loader != nil {
		loaded, err := node.Loader(ctx)
		if err != nil {
			logging.Error(err)
			m.errMsg = err.Error()
			return nil
		}
		items = loaded
	}
	lvl := newLevel(node.ID, menu.Title(node.ID, ctx), items, node)
	m.syncViewport(lvl)
	return lvl
}

func (m *Model) currentMenu() *level {
	if len(m.menus) == 0 {
		return nil
	}
	return m.menus[len(m.menus)-1]
}

// handleMenuEnter runs the selected entry: a child with a loader opens a
// submenu, an action closes the popover and returns its command.
func (m *Model) handleMenuEnter() tea.Cmd {
	current := m.currentMenu()
	if current == nil {
		return nil
	}
	item, ok := current.Current()
	if !ok {
		return nil
	}
	events.UI.MenuEnter(current.ID, item.ID, item.Label)
	ctx := m.menuContext()
	node := current.Node
	if node == nil {
		return nil
	}
	if child, ok := node.Children[item.ID]; ok {
		if child.Loader != nil {
			current.LastCursor = current.Cursor
			if lvl := m.loadMenuLevel(child); lvl != nil {
				m.menus = append(m.menus, lvl)
			}
			return nil
		}
		if child.Action != nil {
			m.closeOverlay()
			return child.Action(ctx, item)
		}
	}
	if node.Action != nil {
		m.closeOverlay()
		return node.Action(ctx, item)
	}
	return nil
}

// handleMenuEscape pops one level, closing the popover from its first level.
func (m *Model) handleMenuEscape() {
	current := m.currentMenu()
	if current != nil && current.Filter != "" {
		current.SetFilter("", 0)
		events.Filter.Edit(current.ID, "clear", "")
		return
	}
	if len(m.menus) <= 1 {
		m.closeOverlay()
		return
	}
	m.menus = m.menus[:len(m.menus)-1]
	parent := m.currentMenu()
	if parent.LastCursor >= 0 && parent.LastCursor < len(parent.Items) {
		parent.Cursor = parent.LastCursor
	}
	parent.LastCursor = -1
	m.syncViewport(parent)
}
