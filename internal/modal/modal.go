// Package modal tracks which overlay, if any, is on screen. The state is a
// single Kind, so two overlays can never be open at once.
package modal

import "github.com/atomicstack/sleact-tui/internal/logging/events"

// Kind identifies an overlay.
type Kind int

const (
	None Kind = iota
	CreateWorkspace
	CreateChannel
	InviteWorkspace
	InviteChannel
	UserMenu
	WorkspaceMenu
)

var kindNames = map[Kind]string{
	None:            "none",
	CreateWorkspace: "create-workspace",
	CreateChannel:   "create-channel",
	InviteWorkspace: "invite-workspace",
	InviteChannel:   "invite-channel",
	UserMenu:        "user-menu",
	WorkspaceMenu:   "workspace-menu",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsMenu reports whether k is a popover menu rather than a form dialog.
func (k Kind) IsMenu() bool {
	return k == UserMenu || k == WorkspaceMenu
}

// State is the overlay controller. The zero value has nothing open.
type State struct {
	open Kind
}

// Current returns the open overlay, or None.
func (s *State) Current() Kind {
	return s.open
}

// Open closes whatever is open and opens k.
func (s *State) Open(k Kind) {
	previous := s.open
	s.open = None
	if k == None {
		if previous != None {
			events.Modal.Close(previous.String())
		}
		return
	}
	s.open = k
	events.Modal.Open(k.String(), previous.String())
}

// CloseAll returns to None.
func (s *State) CloseAll() {
	s.Open(None)
}

// Toggle closes k if it is open and opens it otherwise.
func (s *State) Toggle(k Kind) {
	if s.open == k {
		s.CloseAll()
		return
	}
	s.Open(k)
}

// IsOpen reports whether k is the open overlay.
func (s *State) IsOpen(k Kind) bool {
	return k != None && s.open == k
}

// Any reports whether an overlay is open.
func (s *State) Any() bool {
	return s.open != None
}
