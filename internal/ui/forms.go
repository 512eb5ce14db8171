package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sleact-tui/internal/menu"
	"github.com/atomicstack/sleact-tui/internal/modal"
)

// handleActiveForm routes input to the open dialog. Overlay shortcuts and
// ctrl+c still reach the global handlers, so opening another overlay from a
// dialog replaces it.
func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	kind := m.modals.Current()
	form, ok := m.forms[kind]
	if !ok {
		return false, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	switch key.String() {
	case "ctrl+c", "ctrl+n", "ctrl+t", "ctrl+p", "ctrl+g":
		return false, nil
	}
	cmd, submit, cancel := form.Update(key)
	if cancel {
		m.closeOverlay()
		return true, cmd
	}
	if submit {
		return true, m.submitForm(kind)
	}
	return true, cmd
}

// openModal shows kind, closing whatever was open. A dialog keeps its input
// between openings; a request still pending for a dialog that gets closed is
// cancelled.
func (m *Model) openModal(kind modal.Kind) tea.Cmd {
	if kind == m.modals.Current() {
		return nil
	}
	if m.users.User() == nil {
		return nil
	}
	switch kind {
	case modal.CreateChannel, modal.InviteWorkspace:
		if m.channels.Workspace() == "" {
			m.errMsg = "No workspace selected"
			return nil
		}
	case modal.InviteChannel:
		if m.channels.Current() == "" {
			m.errMsg = "No channel selected"
			return nil
		}
	}
	m.closeOverlay()
	m.errMsg = ""
	if kind.IsMenu() {
		m.modals.Open(kind)
		m.openMenu(kind)
		return nil
	}
	form, ok := m.forms[kind]
	if !ok {
		return nil
	}
	form.SetSubtitle(m.formSubtitle(kind))
	m.modals.Open(kind)
	return nil
}

// toggleModal closes kind when it is showing and opens it otherwise.
func (m *Model) toggleModal(kind modal.Kind) tea.Cmd {
	if m.modals.IsOpen(kind) {
		m.closeOverlay()
		return nil
	}
	return m.openModal(kind)
}

// closeOverlay closes the open overlay and cancels its pending request.
func (m *Model) closeOverlay() {
	kind := m.modals.Current()
	if kind == modal.None {
		return
	}
	if id, ok := m.pending[kind]; ok {
		m.bus.Cancel(id)
		delete(m.pending, kind)
		if form, ok := m.forms[kind]; ok {
			form.SetPending(false)
		}
	}
	m.menus = nil
	m.modals.CloseAll()
}

func (m *Model) formSubtitle(kind modal.Kind) string {
	switch kind {
	case modal.CreateChannel, modal.InviteWorkspace:
		return fmt.Sprintf("in %s", m.workspaceName())
	case modal.InviteChannel:
		return fmt.Sprintf("to #%s in %s", m.channels.Current(), m.workspaceName())
	}
	return ""
}

func (m *Model) handleOpenModalMsg(msg tea.Msg) tea.Cmd {
	open, ok := msg.(menu.OpenModalMsg)
	if !ok {
		return nil
	}
	return m.openModal(open.Kind)
}
