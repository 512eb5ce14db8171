package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sleact-tui/internal/api"
	"github.com/atomicstack/sleact-tui/internal/modal"
)

// Item represents a selectable menu entry.
type Item struct {
	ID    string
	Label string
	Hint  string
}

// Context carries runtime data needed by loader and action functions.
type Context struct {
	User          *api.User
	Workspace     string
	WorkspaceName string
	Channel       string
}

// Loader populates submenu entries on demand.
type Loader func(Context) ([]Item, error)

type Action func(Context, Item) tea.Cmd

// OpenModalMsg asks the UI to open a dialog.
type OpenModalMsg struct {
	Kind modal.Kind
}

// LogoutMsg asks the UI to end the session.
type LogoutMsg struct{}

// RefreshMsg asks the UI to revalidate everything it shows.
type RefreshMsg struct{}

// SwitchWorkspaceMsg asks the UI to show another workspace.
type SwitchWorkspaceMsg struct {
	Workspace string
}

// RootItems returns the top-level menus.
func RootItems() []Item {
	return []Item{
		{ID: "user", Label: "user"},
		{ID: "workspace", Label: "workspace"},
	}
}

// CategoryLoaders lists menu loaders keyed by node ID.
func CategoryLoaders() map[string]Loader {
	return map[string]Loader{
		"user":             loadUserMenu,
		"workspace":        loadWorkspaceMenu,
		"workspace:switch": loadWorkspaceSwitchMenu,
	}
}

// ActionHandlers maps menu entries to their execution logic.
func ActionHandlers() map[string]Action {
	return map[string]Action{
		"user:refresh":               refreshAction,
		"user:logout":                logoutAction,
		"workspace:create-workspace": openModalAction(modal.CreateWorkspace),
		"workspace:create-channel":   openModalAction(modal.CreateChannel),
		"workspace:invite-workspace": openModalAction(modal.InviteWorkspace),
		"workspace:invite-channel":   openModalAction(modal.InviteChannel),
		"workspace:switch":           switchWorkspaceAction,
		"workspace:logout":           logoutAction,
	}
}

// Title returns the heading shown above a menu.
func Title(id string, ctx Context) string {
	switch id {
	case "user":
		if ctx.User != nil {
			return ctx.User.Nickname
		}
		return "Account"
	case "workspace":
		if ctx.WorkspaceName != "" {
			return ctx.WorkspaceName
		}
		return "Workspace"
	case "workspace:switch":
		return "Switch workspace"
	}
	return prettyLabel(id)
}

func loadUserMenu(ctx Context) ([]Item, error) {
	if ctx.User == nil {
		return nil, fmt.Errorf("not signed in")
	}
	return []Item{
		{ID: "refresh", Label: "Refresh", Hint: ctx.User.Email},
		{ID: "logout", Label: "Log out"},
	}, nil
}

func loadWorkspaceMenu(ctx Context) ([]Item, error) {
	items := []Item{
		{ID: "create-channel", Label: "Create channel"},
		{ID: "invite-workspace", Label: "Invite to workspace"},
	}
	if ctx.Channel != "" {
		items = append(items, Item{ID: "invite-channel", Label: "Invite to channel", Hint: "#" + ctx.Channel})
	}
	if ctx.User != nil && len(ctx.User.Workspaces) > 1 {
		items = append(items, Item{ID: "switch", Label: "Switch workspace"})
	}
	items = append(items,
		Item{ID: "create-workspace", Label: "Create workspace"},
		Item{ID: "logout", Label: "Log out"},
	)
	return items, nil
}

func loadWorkspaceSwitchMenu(ctx Context) ([]Item, error) {
	if ctx.User == nil {
		return nil, fmt.Errorf("not signed in")
	}
	items := make([]Item, 0, len(ctx.User.Workspaces))
	for _, ws := range ctx.User.Workspaces {
		hint := ""
		if ws.Slug() == ctx.Workspace {
			hint = "current"
		}
		items = append(items, Item{ID: ws.Slug(), Label: ws.Name, Hint: hint})
	}
	return items, nil
}

func openModalAction(kind modal.Kind) Action {
	return func(Context, Item) tea.Cmd {
		return func() tea.Msg { return OpenModalMsg{Kind: kind} }
	}
}

func logoutAction(Context, Item) tea.Cmd {
	return func() tea.Msg { return LogoutMsg{} }
}

func refreshAction(Context, Item) tea.Cmd {
	return func() tea.Msg { return RefreshMsg{} }
}

func switchWorkspaceAction(ctx Context, item Item) tea.Cmd {
	if item.ID == "" || item.ID == ctx.Workspace {
		return nil
	}
	return func() tea.Msg { return SwitchWorkspaceMsg{Workspace: item.ID} }
}

func prettyLabel(id string) string {
	if idx := strings.LastIndex(id, ":"); idx >= 0 {
		id = id[idx+1:]
	}
	return strings.Join(strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	}), " ")
}
