package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// User is the signed-in account as returned by GET /api/users.
type User struct {
	ID         int         `json:"id"`
	Nickname   string      `json:"nickname"`
	Email      string      `json:"email"`
	Workspaces []Workspace `json:"Workspaces,omitempty"`
}

// Workspace is a tenant container addressed by its URL slug.
type Workspace struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	OwnerID int    `json:"OwnerId,omitempty"`
}

// Channel is a named conversation scope inside exactly one workspace.
type Channel struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Private     bool   `json:"private,omitempty"`
	WorkspaceID int    `json:"WorkspaceId,omitempty"`
}

// Slug returns the path segment used to address the workspace.
func (w Workspace) Slug() string {
	if w.URL != "" {
		return w.URL
	}
	return w.Name
}

// FindWorkspace returns the workspace whose slug or name matches key.
func (u *User) FindWorkspace(key string) (Workspace, bool) {
	if u == nil || key == "" {
		return Workspace{}, false
	}
	for _, ws := range u.Workspaces {
		if ws.Slug() == key || ws.Name == key {
			return ws, true
		}
	}
	return Workspace{}, false
}

// ChannelsPayload is the body of a channel creation response. Depending on
// the server it is either the created channel or the refreshed channel list.
type ChannelsPayload struct {
	List    []Channel
	Created *Channel
}

func (p *ChannelsPayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = ChannelsPayload{}
		return nil
	}
	switch trimmed[0] {
	case '[':
		var list []Channel
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*p = ChannelsPayload{List: list}
	case '{':
		var ch Channel
		if err := json.Unmarshal(trimmed, &ch); err != nil {
			return err
		}
		*p = ChannelsPayload{Created: &ch}
	default:
		return fmt.Errorf("unexpected channel payload %q", truncateBody(string(trimmed)))
	}
	return nil
}

// Apply returns the channel list that results from merging the payload into
// current. A list payload replaces current; a single channel is appended
// unless a channel with the same id is already present.
func (p ChannelsPayload) Apply(current []Channel) []Channel {
	if p.List != nil {
		return append([]Channel(nil), p.List...)
	}
	out := append([]Channel(nil), current...)
	if p.Created == nil {
		return out
	}
	for i, ch := range out {
		if p.Created.ID != 0 && ch.ID == p.Created.ID {
			out[i] = *p.Created
			return out
		}
	}
	return append(out, *p.Created)
}
