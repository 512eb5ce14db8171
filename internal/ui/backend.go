package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sleact-tui/internal/api"
	"github.com/atomicstack/sleact-tui/internal/backend"
	"github.com/atomicstack/sleact-tui/internal/data/dispatcher"
	"github.com/atomicstack/sleact-tui/internal/logging"
	"github.com/atomicstack/sleact-tui/internal/menu"
)

func waitForBackendEvent(src Source) tea.Cmd {
	if src == nil {
		return nil
	}
	ch := src.Events()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	return waitForBackendEvent(m.source)
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.source = nil
	return nil
}

func (m *Model) applyBackendEvent(evt backend.Event) {
	res := m.dispatcher.Handle(evt)
	if res.Err != nil {
		logging.Error(res.Err)
		if errors.Is(res.Err, api.ErrUnauthenticated) {
			m.errMsg = "Session expired"
		} else {
			m.errMsg = api.DisplayMessage(res.Err)
		}
		return
	}
	m.applyResult(res)
}

// applyResult refreshes whatever a store update touched.
func (m *Model) applyResult(res dispatcher.Result) {
	if res.SignedOut {
		m.enterSignedOut()
		return
	}
	if res.UserUpdated {
		if m.errMsg != "" && m.users.Err() == nil {
			m.errMsg = ""
		}
		m.refreshWorkspaces()
	}
	if res.ChannelsUpdated {
		m.refreshChannels()
	}
	if res.MembersUpdated {
		m.refreshMembers()
	}
}

// enterSignedOut drops everything tied to the session.
func (m *Model) enterSignedOut() {
	m.closeOverlay()
	if m.logout != "" {
		m.bus.Cancel(m.logout)
		m.logout = ""
	}
	for _, col := range m.columns {
		col.SetFilter("", 0)
		col.UpdateItems(nil)
	}
	m.errMsg = ""
}

func (m *Model) refreshWorkspaces() {
	col := m.columns[ColumnWorkspaces]
	col.UpdateItems(workspaceItems(m.users.User()))
	col.SelectID(m.channels.Workspace())
	m.syncViewport(col)
}

func (m *Model) refreshChannels() {
	col := m.columns[ColumnChannels]
	col.UpdateItems(channelItems(m.channels.Entries()))
	if current := m.channels.Current(); current != "" {
		if col.IndexOf(current) < 0 {
			m.channels.SetCurrent("")
		}
	}
	m.syncViewport(col)
}

func (m *Model) refreshMembers() {
	col := m.columns[ColumnMembers]
	col.UpdateItems(memberItems(m.members.Entries()))
	m.syncViewport(col)
}

func workspaceItems(user *api.User) []menu.Item {
	if user == nil {
		return nil
	}
	items := make([]menu.Item, 0, len(user.Workspaces))
	for _, ws := range user.Workspaces {
		items = append(items, menu.Item{ID: ws.Slug(), Label: ws.Name})
	}
	return items
}

func channelItems(channels []api.Channel) []menu.Item {
	items := make([]menu.Item, 0, len(channels))
	for _, ch := range channels {
		items = append(items, menu.Item{ID: ch.Name, Label: ch.Name})
	}
	return items
}

func memberItems(members []api.User) []menu.Item {
	items := make([]menu.Item, 0, len(members))
	for _, member := range members {
		items = append(items, menu.Item{ID: member.Email, Label: member.Nickname, Hint: member.Email})
	}
	return items
}
