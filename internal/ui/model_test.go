package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/sleact-tui/internal/api"
	"github.com/atomicstack/sleact-tui/internal/backend"
	"github.com/atomicstack/sleact-tui/internal/cache"
	"github.com/atomicstack/sleact-tui/internal/menu"
	"github.com/atomicstack/sleact-tui/internal/modal"
	"github.com/atomicstack/sleact-tui/internal/mutation"
	"github.com/atomicstack/sleact-tui/internal/ui/command"
)

var allKinds = []modal.Kind{
	modal.CreateWorkspace,
	modal.CreateChannel,
	modal.InviteWorkspace,
	modal.InviteChannel,
	modal.UserMenu,
	modal.WorkspaceMenu,
}

func seededModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel(Config{Width: 100, Height: 24})
	t.Cleanup(m.Close)
	user := &api.User{ID: 1, Nickname: "zero", Email: "zero@example.com", Workspaces: []api.Workspace{
		{ID: 1, Name: "Sleact", URL: "sleact"},
		{ID: 2, Name: "Other", URL: "other"},
	}}
	m.Update(backendEventMsg{event: backend.Event{Kind: backend.KindUser, Workspace: "sleact", Data: user}})
	m.Update(backendEventMsg{event: backend.Event{Kind: backend.KindChannels, Workspace: "sleact", Data: []api.Channel{
		{ID: 1, Name: "general"},
		{ID: 2, Name: "random"},
	}}})
	m.Update(backendEventMsg{event: backend.Event{Kind: backend.KindMembers, Workspace: "sleact", Data: []api.User{
		{ID: 1, Nickname: "zero", Email: "zero@example.com"},
		{ID: 2, Nickname: "kim", Email: "kim@example.com"},
	}}})
	return m
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestOpeningAnyModalLeavesExactlyOne(t *testing.T) {
	m := seededModel(t)
	m.channels.SetCurrent("general")
	for _, first := range allKinds {
		for _, second := range allKinds {
			m.closeOverlay()
			m.openModal(first)
			if m.Modal() != first {
				t.Fatalf("expected %s open, got %s", first, m.Modal())
			}
			m.openModal(second)
			open := 0
			for _, k := range allKinds {
				if m.modals.IsOpen(k) {
					open++
				}
			}
			if open != 1 || m.Modal() != second {
				t.Fatalf("%s then %s: expected only %s open, got %s (%d open)", first, second, second, m.Modal(), open)
			}
			if second.IsMenu() != (len(m.menus) > 0) {
				t.Fatalf("%s then %s: menu levels out of step with overlay", first, second)
			}
		}
	}
}

func TestShortcutReplacesOpenDialog(t *testing.T) {
	m := seededModel(t)
	m.Update(key(tea.KeyCtrlN))
	if m.Modal() != modal.CreateWorkspace {
		t.Fatalf("expected create workspace dialog, got %s", m.Modal())
	}
	m.Update(key(tea.KeyCtrlT))
	if m.Modal() != modal.CreateChannel {
		t.Fatalf("expected create channel dialog, got %s", m.Modal())
	}
	m.Update(key(tea.KeyCtrlP))
	if m.Modal() != modal.UserMenu {
		t.Fatalf("expected user menu, got %s", m.Modal())
	}
	m.Update(key(tea.KeyCtrlP))
	if m.Modal() != modal.None {
		t.Fatalf("expected toggle to close the menu, got %s", m.Modal())
	}
}

func TestEscClosesDialogAndKeepsInput(t *testing.T) {
	m := seededModel(t)
	h := NewHarness(m)
	h.Key(tea.KeyCtrlT)
	h.Type("dev")
	h.Key(tea.KeyEsc)
	if m.Modal() != modal.None {
		t.Fatalf("expected dialog closed, got %s", m.Modal())
	}
	h.Key(tea.KeyCtrlT)
	if got := m.Form(modal.CreateChannel).Value(0); got != "dev" {
		t.Fatalf("expected input kept across openings, got %q", got)
	}
}

func TestDialogsNeedUserAndSelection(t *testing.T) {
	empty := NewModel(Config{})
	defer empty.Close()
	empty.Update(key(tea.KeyCtrlN))
	if empty.Modal() != modal.None {
		t.Fatalf("no dialog may open before the user is known")
	}

	m := seededModel(t)
	m.Update(key(tea.KeyCtrlT))
	m.openModal(modal.InviteChannel)
	if m.Modal() != modal.CreateChannel {
		t.Fatalf("a rejected open must leave the current dialog alone, got %s", m.Modal())
	}
	if m.Err() != "No channel selected" {
		t.Fatalf("unexpected error %q", m.Err())
	}
}

func TestFocusCycles(t *testing.T) {
	m := seededModel(t)
	if m.Focus() != ColumnChannels {
		t.Fatalf("expected channels focused initially, got %s", m.Focus())
	}
	m.Update(key(tea.KeyTab))
	if m.Focus() != ColumnMembers {
		t.Fatalf("expected members, got %s", m.Focus())
	}
	m.Update(key(tea.KeyTab))
	if m.Focus() != ColumnWorkspaces {
		t.Fatalf("expected wrap to workspaces, got %s", m.Focus())
	}
	m.Update(key(tea.KeyShiftTab))
	if m.Focus() != ColumnMembers {
		t.Fatalf("expected members after shift+tab, got %s", m.Focus())
	}
}

func TestTypingFiltersFocusedColumn(t *testing.T) {
	m := seededModel(t)
	h := NewHarness(m)
	h.Type("ran")
	col := m.columns[ColumnChannels]
	if len(col.Items) != 1 || col.Items[0].ID != "random" {
		t.Fatalf("expected only random, got %#v", col.Items)
	}
	if !strings.Contains(ansi.Strip(m.filterPrompt()), "ran") {
		t.Fatalf("expected filter text in prompt, got %q", ansi.Strip(m.filterPrompt()))
	}
	h.Key(tea.KeyEnter)
	if m.channels.Current() != "random" {
		t.Fatalf("expected random selected, got %q", m.channels.Current())
	}
	if col.Filter != "" || len(col.Items) != 2 {
		t.Fatalf("expected filter cleared after select, got %q with %d items", col.Filter, len(col.Items))
	}
	if item, _ := col.Current(); item.ID != "random" {
		t.Fatalf("expected cursor to stay on random, got %#v", item)
	}
	if m.Focus() != ColumnMembers {
		t.Fatalf("expected focus to move to members, got %s", m.Focus())
	}
}

func TestEscClearsFilter(t *testing.T) {
	m := seededModel(t)
	h := NewHarness(m)
	h.Type("gen")
	h.Key(tea.KeyEsc)
	if col := m.columns[ColumnChannels]; col.Filter != "" || len(col.Items) != 2 {
		t.Fatalf("expected cleared filter, got %q", col.Filter)
	}
}

func TestViewShowsWorkspaceChannelsAndMembers(t *testing.T) {
	m := seededModel(t)
	fixed := time.Now()
	m.now = func() time.Time { return fixed.Add(3 * time.Second) }
	m.channels.SetCurrent("general")
	view := ansi.Strip(m.View())
	for _, want := range []string{"Sleact", "zero · synced", "# general", "# random", "Members (2)"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	found := false
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "kim") && strings.Contains(line, "kim@example.com") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected member row with nickname and email:\n%s", view)
	}
	if lines := strings.Split(m.View(), "\n"); len(lines) != 24 {
		t.Fatalf("expected view to fill 24 rows, got %d", len(lines))
	}
}

func TestUserMenuShowsActiveStatus(t *testing.T) {
	m := seededModel(t)
	m.Update(key(tea.KeyCtrlP))
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Active") || !strings.Contains(view, "Log out") {
		t.Fatalf("expected account menu in view:\n%s", view)
	}
}

func TestSignedOutView(t *testing.T) {
	m := seededModel(t)
	m.Update(key(tea.KeyCtrlN))
	m.Update(backendEventMsg{event: backend.Event{Kind: backend.KindUser}})
	if !m.SignedOut() {
		t.Fatalf("expected signed-out state")
	}
	if m.Modal() != modal.None {
		t.Fatalf("signing out must close overlays, got %s", m.Modal())
	}
	if len(m.columns[ColumnChannels].Items) != 0 {
		t.Fatalf("expected columns cleared")
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "Signed out") {
		t.Fatalf("expected signed-out view, got:\n%s", view)
	}
	m.Update(key(tea.KeyCtrlN))
	if m.Modal() != modal.None {
		t.Fatalf("dialogs stay closed while signed out")
	}
}

func TestInfoExpires(t *testing.T) {
	m := seededModel(t)
	now := time.Now()
	m.now = func() time.Time { return now }
	m.setInfo("Created channel dev")
	if m.currentInfo() == "" {
		t.Fatalf("expected info message")
	}
	now = now.Add(infoTTL + time.Second)
	if m.currentInfo() != "" {
		t.Fatalf("expected info to expire")
	}
}

func TestUnknownDoneIsDropped(t *testing.T) {
	m := seededModel(t)
	m.Update(command.Done{ID: "missing", Msg: mutation.Result{Err: errors.New("boom")}})
	if m.Err() != "" {
		t.Fatalf("result of an unknown request must be dropped, got %q", m.Err())
	}
}

func TestBackendErrorShowsMessage(t *testing.T) {
	m := seededModel(t)
	err := &api.Error{Op: "channels", Status: 500, Message: "database unavailable"}
	m.Update(backendEventMsg{event: backend.Event{Kind: backend.KindChannels, Workspace: "sleact", Err: err}})
	if m.Err() != "database unavailable" {
		t.Fatalf("unexpected error %q", m.Err())
	}
	if len(m.columns[ColumnChannels].Items) != 2 {
		t.Fatalf("a failed refresh keeps the last list")
	}
}

// idleMutator accepts every request and never touches the network.
type idleMutator struct{}

func (idleMutator) CreateWorkspace(context.Context, string, string) mutation.Result {
	return mutation.Result{}
}
func (idleMutator) CreateChannel(context.Context, string, string) mutation.Result {
	return mutation.Result{}
}
func (idleMutator) InviteWorkspace(context.Context, string, string) mutation.Result {
	return mutation.Result{}
}
func (idleMutator) InviteChannel(context.Context, string, string, string) mutation.Result {
	return mutation.Result{}
}
func (idleMutator) Logout(context.Context) mutation.Result { return mutation.Result{} }

func TestVerboseFooterShowsDedupeAndPending(t *testing.T) {
	c := cache.New(func(context.Context, string) (any, error) { return nil, nil }, cache.WithDedupe(2*time.Second))
	m := NewModel(Config{Width: 160, Height: 24, ShowFooter: true, Verbose: true, Cache: c, Mutator: idleMutator{}})
	t.Cleanup(m.Close)
	m.Update(backendEventMsg{event: backend.Event{Kind: backend.KindUser, Workspace: "sleact", Data: &api.User{
		ID: 1, Nickname: "zero", Workspaces: []api.Workspace{{ID: 1, Name: "Sleact", URL: "sleact"}},
	}}})
	if view := ansi.Strip(m.View()); !strings.Contains(view, "[dedupe 2s · 0 pending]") {
		t.Fatalf("expected cache stats in footer:\n%s", view)
	}

	// The logout command is queued but never run, so it stays in flight and
	// a second request is refused.
	m.Update(menu.LogoutMsg{})
	m.Update(menu.LogoutMsg{})
	if m.bus.Len() != 1 {
		t.Fatalf("expected a single logout in flight, got %d", m.bus.Len())
	}
	if view := ansi.Strip(m.View()); !strings.Contains(view, "[dedupe 2s · 1 pending]") {
		t.Fatalf("expected pending request in footer:\n%s", view)
	}
}

func TestQuietFooterHidesStats(t *testing.T) {
	m := seededModel(t)
	m.showFooter = true
	if view := ansi.Strip(m.View()); strings.Contains(view, "pending]") {
		t.Fatalf("stats belong to verbose mode only:\n%s", view)
	}
}
