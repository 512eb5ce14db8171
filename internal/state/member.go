package state

import "github.com/atomicstack/sleact-tui/internal/api"

type MemberStore interface {
	Entries() []api.User
	SetEntries(workspace string, entries []api.User)
	Workspace() string
	SetWorkspace(string)
	Err() error
	SetErr(error)
}

type memberStore struct {
	entries   []api.User
	workspace string
	err       error
}

func NewMemberStore() MemberStore {
	return &memberStore{}
}

func (m *memberStore) Entries() []api.User {
	return cloneMembers(m.entries)
}

func (m *memberStore) SetEntries(workspace string, entries []api.User) {
	m.workspace = workspace
	m.entries = cloneMembers(entries)
	m.err = nil
}

func (m *memberStore) Workspace() string {
	return m.workspace
}

func (m *memberStore) SetWorkspace(workspace string) {
	if workspace == m.workspace {
		return
	}
	m.workspace = workspace
	m.entries = nil
	m.err = nil
}

func (m *memberStore) Err() error {
	return m.err
}

func (m *memberStore) SetErr(err error) {
	m.err = err
}

func cloneMembers(entries []api.User) []api.User {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]api.User, len(entries))
	copy(dup, entries)
	return dup
}
