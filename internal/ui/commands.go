package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sleact-tui/internal/api"
	"github.com/atomicstack/sleact-tui/internal/logging/events"
	"github.com/atomicstack/sleact-tui/internal/menu"
	"github.com/atomicstack/sleact-tui/internal/modal"
	"github.com/atomicstack/sleact-tui/internal/mutation"
	"github.com/atomicstack/sleact-tui/internal/ui/command"
)

// submitForm validates the dialog for kind and, when the input is usable,
// starts its mutation. Invalid input aborts silently without a request.
// Names are checked trimmed but sent as typed.
func (m *Model) submitForm(kind modal.Kind) tea.Cmd {
	form, ok := m.forms[kind]
	if !ok || form.Pending() || m.mutator == nil {
		return nil
	}
	workspace := m.channels.Workspace()
	channel := m.channels.Current()
	mut := m.mutator
	var handler command.Handler
	switch kind {
	case modal.CreateWorkspace:
		name, slug := form.Raw(0), form.Raw(1)
		if !mutation.ValidWorkspace(name, slug) {
			events.Mutation.Rejected(kind.String(), "workspace name and url required")
			return nil
		}
		handler = func(ctx context.Context) tea.Msg { return mut.CreateWorkspace(ctx, name, slug) }
	case modal.CreateChannel:
		name := form.Raw(0)
		if workspace == "" {
			events.Mutation.Rejected(kind.String(), "no workspace selected")
			return nil
		}
		handler = func(ctx context.Context) tea.Msg { return mut.CreateChannel(ctx, workspace, name) }
	case modal.InviteWorkspace:
		email := form.Value(0)
		if workspace == "" || !mutation.ValidEmail(email) {
			events.Mutation.Rejected(kind.String(), "valid email required")
			return nil
		}
		handler = func(ctx context.Context) tea.Msg { return mut.InviteWorkspace(ctx, workspace, email) }
	case modal.InviteChannel:
		email := form.Value(0)
		if workspace == "" || channel == "" || !mutation.ValidEmail(email) {
			events.Mutation.Rejected(kind.String(), "valid email required")
			return nil
		}
		handler = func(ctx context.Context) tea.Msg { return mut.InviteChannel(ctx, workspace, channel, email) }
	default:
		return nil
	}
	id, cmd := m.bus.Execute(command.Request{Label: kind.String(), Handler: handler})
	m.pending[kind] = id
	form.SetPending(true)
	m.errMsg = ""
	return cmd
}

func (m *Model) handleLogoutMsg(tea.Msg) tea.Cmd {
	m.closeOverlay()
	if m.mutator == nil || (m.logout != "" && m.bus.Pending(m.logout)) {
		return nil
	}
	mut := m.mutator
	id, cmd := m.bus.Execute(command.Request{
		Label:   string(mutation.ActionLogout),
		Handler: func(ctx context.Context) tea.Msg { return mut.Logout(ctx) },
	})
	m.logout = id
	return cmd
}

func (m *Model) handleRefreshMsg(tea.Msg) tea.Cmd {
	m.closeOverlay()
	m.refresh()
	return nil
}

func (m *Model) refresh() {
	if m.source == nil {
		return
	}
	m.errMsg = ""
	m.source.Refresh()
}

func (m *Model) handleSwitchWorkspaceMsg(msg tea.Msg) tea.Cmd {
	sw, ok := msg.(menu.SwitchWorkspaceMsg)
	if !ok {
		return nil
	}
	m.closeOverlay()
	m.switchWorkspace(sw.Workspace)
	return nil
}

// switchWorkspace points the stores and the watcher at workspace. Lists for
// the previous workspace still in flight are dropped by the dispatcher.
func (m *Model) switchWorkspace(workspace string) {
	if workspace == "" || workspace == m.channels.Workspace() {
		return
	}
	m.channels.SetWorkspace(workspace)
	m.members.SetWorkspace(workspace)
	for _, col := range []Column{ColumnChannels, ColumnMembers} {
		m.columns[col].SetFilter("", 0)
	}
	m.refreshWorkspaces()
	m.refreshChannels()
	m.refreshMembers()
	if m.source != nil {
		m.source.SetWorkspace(workspace)
	}
}

// handleCommandDone applies a finished mutation. Results for requests that
// were cancelled, because their dialog closed, are dropped.
func (m *Model) handleCommandDone(msg tea.Msg) tea.Cmd {
	done, ok := msg.(command.Done)
	if !ok {
		return nil
	}
	if !m.bus.Complete(done.ID) {
		events.Command.Stale(done.ID, done.Label)
		return nil
	}
	res, ok := done.Msg.(mutation.Result)
	if !ok {
		return nil
	}
	kind := m.pendingKind(done.ID)
	if kind != modal.None {
		delete(m.pending, kind)
	}
	if done.ID == m.logout {
		m.logout = ""
	}
	form := m.forms[kind]
	if res.Err != nil {
		if form != nil {
			form.SetPending(false)
		}
		if errors.Is(res.Err, mutation.ErrInvalid) {
			return nil
		}
		events.Action.Error(done.Label, res.Err)
		m.errMsg = api.DisplayMessage(res.Err)
		m.forceClearInfo()
		if errors.Is(res.Err, api.ErrUnauthenticated) {
			m.refresh()
		}
		return nil
	}
	events.Action.Success(done.Label, res.Info)
	result := m.dispatcher.HandleMutation(res)
	if form != nil {
		form.Reset()
	}
	if kind != modal.None && m.modals.IsOpen(kind) {
		m.closeOverlay()
	}
	m.errMsg = ""
	if res.Info != "" {
		m.setInfo(res.Info)
	}
	m.applyResult(result)
	return nil
}

func (m *Model) pendingKind(id string) modal.Kind {
	for kind, pending := range m.pending {
		if pending == id {
			return kind
		}
	}
	return modal.None
}

func (m *Model) menuContext() menu.Context {
	ws := m.channels.Workspace()
	return menu.Context{
		User:          m.users.User(),
		Workspace:     ws,
		WorkspaceName: m.workspaceName(),
		Channel:       m.channels.Current(),
	}
}

func (m *Model) workspaceName() string {
	ws := m.channels.Workspace()
	if user := m.users.User(); user != nil {
		if found, ok := user.FindWorkspace(ws); ok {
			return found.Name
		}
	}
	return ws
}
