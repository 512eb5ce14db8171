package api

import (
	"fmt"
	"net/url"
	"strings"
)

// UserKey is the fetch key of the signed-in user. Fetch keys are the request
// paths they resolve to.
const UserKey = "/api/users"

// KeyKind identifies the resource a fetch key addresses.
type KeyKind int

const (
	KeyUser KeyKind = iota
	KeyChannels
	KeyMembers
)

const workspacesPrefix = "/api/workspaces/"

// ChannelsKey returns the channel list key of workspace. The key is empty
// until user is known, which keeps dependent reads from being issued.
func ChannelsKey(user *User, workspace string) string {
	if user == nil || workspace == "" {
		return ""
	}
	return workspacePath(workspace, "channels")
}

// MembersKey returns the member list key of workspace, empty until user is
// known.
func MembersKey(user *User, workspace string) string {
	if user == nil || workspace == "" {
		return ""
	}
	return workspacePath(workspace, "members")
}

// ParseKey splits a fetch key into its kind and workspace slug.
func ParseKey(key string) (KeyKind, string, error) {
	if key == UserKey {
		return KeyUser, "", nil
	}
	rest, ok := strings.CutPrefix(key, workspacesPrefix)
	if !ok {
		return 0, "", fmt.Errorf("unknown fetch key %q", key)
	}
	segment, resource, ok := strings.Cut(rest, "/")
	if !ok || segment == "" {
		return 0, "", fmt.Errorf("unknown fetch key %q", key)
	}
	workspace, err := url.PathUnescape(segment)
	if err != nil {
		return 0, "", fmt.Errorf("fetch key %q: %w", key, err)
	}
	switch resource {
	case "channels":
		return KeyChannels, workspace, nil
	case "members":
		return KeyMembers, workspace, nil
	}
	return 0, "", fmt.Errorf("unknown fetch key %q", key)
}

func workspacePath(workspace, resource string) string {
	return workspacesPrefix + url.PathEscape(workspace) + "/" + resource
}
