package state

import (
	"time"

	"github.com/atomicstack/sleact-tui/internal/api"
)

// ChannelStore holds the channel list of the selected workspace together
// with the channel the user has selected.
type ChannelStore interface {
	Entries() []api.Channel
	SetEntries(workspace string, entries []api.Channel, at time.Time)
	Workspace() string
	SetWorkspace(string)
	Current() string
	SetCurrent(string)
	Err() error
	SetErr(error)
	UpdatedAt() time.Time
}

type channelStore struct {
	entries   []api.Channel
	workspace string
	current   string
	err       error
	updatedAt time.Time
}

func NewChannelStore() ChannelStore {
	return &channelStore{}
}

func (c *channelStore) Entries() []api.Channel {
	return cloneChannels(c.entries)
}

func (c *channelStore) SetEntries(workspace string, entries []api.Channel, at time.Time) {
	c.workspace = workspace
	c.entries = cloneChannels(entries)
	c.err = nil
	c.updatedAt = at
}

func (c *channelStore) Workspace() string {
	return c.workspace
}

// SetWorkspace switches the workspace and forgets the previous list so a
// stale list is never shown under the new workspace.
func (c *channelStore) SetWorkspace(workspace string) {
	if workspace == c.workspace {
		return
	}
	c.workspace = workspace
	c.entries = nil
	c.current = ""
	c.err = nil
}

func (c *channelStore) Current() string {
	return c.current
}

func (c *channelStore) SetCurrent(name string) {
	c.current = name
}

func (c *channelStore) Err() error {
	return c.err
}

func (c *channelStore) SetErr(err error) {
	c.err = err
}

func (c *channelStore) UpdatedAt() time.Time {
	return c.updatedAt
}

func cloneChannels(entries []api.Channel) []api.Channel {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]api.Channel, len(entries))
	copy(dup, entries)
	return dup
}
