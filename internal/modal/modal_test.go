package modal

import "testing"

var allKinds = []Kind{CreateWorkspace, CreateChannel, InviteWorkspace, InviteChannel, UserMenu, WorkspaceMenu}

func visible(s *State) int {
	count := 0
	for _, k := range allKinds {
		if s.IsOpen(k) {
			count++
		}
	}
	return count
}

func TestOpenLeavesExactlyOneVisible(t *testing.T) {
	for _, first := range allKinds {
		for _, second := range allKinds {
			var s State
			s.Open(first)
			s.Open(second)
			if got := visible(&s); got != 1 {
				t.Fatalf("open %s then %s: expected 1 visible, got %d", first, second, got)
			}
			if !s.IsOpen(second) {
				t.Fatalf("open %s then %s: expected %s visible", first, second, second)
			}
		}
	}
}

func TestCloseAll(t *testing.T) {
	var s State
	s.Open(CreateChannel)
	s.CloseAll()
	if s.Any() || visible(&s) != 0 {
		t.Fatalf("expected nothing open, got %s", s.Current())
	}
	if s.IsOpen(None) {
		t.Fatalf("None is never reported open")
	}
}

func TestToggle(t *testing.T) {
	var s State
	s.Toggle(UserMenu)
	if !s.IsOpen(UserMenu) {
		t.Fatalf("expected user menu open")
	}
	s.Toggle(WorkspaceMenu)
	if !s.IsOpen(WorkspaceMenu) || s.IsOpen(UserMenu) {
		t.Fatalf("expected only workspace menu open, got %s", s.Current())
	}
	s.Toggle(WorkspaceMenu)
	if s.Any() {
		t.Fatalf("expected toggle to close, got %s", s.Current())
	}
}

func TestKindString(t *testing.T) {
	if CreateWorkspace.String() != "create-workspace" || Kind(99).String() != "unknown" {
		t.Fatalf("unexpected names")
	}
	if !UserMenu.IsMenu() || CreateChannel.IsMenu() {
		t.Fatalf("unexpected IsMenu")
	}
}
