package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sleact-tui/internal/backend"
	"github.com/atomicstack/sleact-tui/internal/data/dispatcher"
	"github.com/atomicstack/sleact-tui/internal/forms"
	"github.com/atomicstack/sleact-tui/internal/menu"
	"github.com/atomicstack/sleact-tui/internal/modal"
	"github.com/atomicstack/sleact-tui/internal/mutation"
	"github.com/atomicstack/sleact-tui/internal/state"
	"github.com/atomicstack/sleact-tui/internal/theme"
	"github.com/atomicstack/sleact-tui/internal/ui/command"
	uistate "github.com/atomicstack/sleact-tui/internal/ui/state"
)

type level = uistate.Level

// Column identifies one of the three focusable lists.
type Column int

const (
	ColumnWorkspaces Column = iota
	ColumnChannels
	ColumnMembers
	columnCount
)

func (c Column) String() string {
	switch c {
	case ColumnWorkspaces:
		return "workspaces"
	case ColumnChannels:
		return "channels"
	case ColumnMembers:
		return "members"
	}
	return "unknown"
}

const infoTTL = 5 * time.Second

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

func newLevel(id, title string, items []menu.Item, node *menu.Node) *level {
	return uistate.NewLevel(id, title, items, node)
}

// Source streams backend events and accepts reload requests.
// *backend.Watcher implements it.
type Source interface {
	Events() <-chan backend.Event
	SetWorkspace(workspace string)
	Refresh()
}

// Mutator runs write operations. *mutation.Runner implements it.
type Mutator interface {
	CreateWorkspace(ctx context.Context, name, slug string) mutation.Result
	CreateChannel(ctx context.Context, workspace, name string) mutation.Result
	InviteWorkspace(ctx context.Context, workspace, email string) mutation.Result
	InviteChannel(ctx context.Context, workspace, channel, email string) mutation.Result
	Logout(ctx context.Context) mutation.Result
}

// Cache is the read side of the remote data cache. The model checks late
// backend events against its user entry and shows its dedupe window in the
// verbose footer. *cache.Cache implements it.
type Cache interface {
	dispatcher.Session
	Dedupe() time.Duration
}

// Config carries what the model needs from the outside.
type Config struct {
	Context    context.Context
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Source     Source
	Mutator    Mutator
	Cache      Cache
}

// Model implements the Bubble Tea model for the workspace client.
type Model struct {
	columns [columnCount]*level
	focus   Column
	menus   []*level

	modals  modal.State
	forms   map[modal.Kind]*forms.Form
	pending map[modal.Kind]string
	logout  string

	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	now         func() time.Time

	filterCursor cursor.Model

	handlers map[reflect.Type]msgHandler

	source     Source
	mutator    Mutator
	cache      Cache
	registry   *menu.Registry
	bus        *command.Bus
	users      state.UserStore
	channels   state.ChannelStore
	members    state.MemberStore
	dispatcher *dispatcher.Dispatcher
}

// NewModel initialises the UI with empty columns. Data arrives from the
// source once Init has run.
func NewModel(cfg Config) *Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	users := state.NewUserStore()
	channels := state.NewChannelStore()
	members := state.NewMemberStore()
	m := &Model{
		forms: map[modal.Kind]*forms.Form{
			modal.CreateWorkspace: forms.NewWorkspaceForm(),
			modal.CreateChannel:   forms.NewChannelForm(),
			modal.InviteWorkspace: forms.NewInviteWorkspaceForm(),
			modal.InviteChannel:   forms.NewInviteChannelForm(),
		},
		pending:    map[modal.Kind]string{},
		showFooter: cfg.ShowFooter,
		verbose:    cfg.Verbose,
		now:        time.Now,
		source:     cfg.Source,
		mutator:    cfg.Mutator,
		cache:      cfg.Cache,
		registry:   menu.BuildRegistry(),
		bus:        command.New(ctx),
		users:      users,
		channels:   channels,
		members:    members,
		dispatcher: dispatcher.New(users, channels, members, cfg.Cache),
	}
	m.columns[ColumnWorkspaces] = newLevel("workspaces", "Workspaces", nil, nil)
	m.columns[ColumnChannels] = newLevel("channels", "Channels", nil, nil)
	m.columns[ColumnMembers] = newLevel("members", "Members", nil, nil)
	m.focus = ColumnChannels
	if cfg.Width > 0 {
		m.width = cfg.Width
		m.fixedWidth = true
	}
	if cfg.Height > 0 {
		m.height = cfg.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	c.SetMode(cursor.CursorStatic)
	if styles.Cursor != nil {
		c.Style = *styles.Cursor
	}
	if styles.Filter != nil {
		c.TextStyle = *styles.Filter
	}
	c.SetChar(" ")
	c.Focus()
	m.filterCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return waitForBackendEvent(m.source)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := m.handleActiveForm(msg); handled {
		return m, cmd
	}
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

// Close cancels every request still in flight.
func (m *Model) Close() {
	m.bus.Close()
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):              m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):       m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):         m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):          m.handleBackendDoneMsg,
		reflect.TypeOf(command.Done{}):            m.handleCommandDone,
		reflect.TypeOf(menu.OpenModalMsg{}):       m.handleOpenModalMsg,
		reflect.TypeOf(menu.LogoutMsg{}):          m.handleLogoutMsg,
		reflect.TypeOf(menu.RefreshMsg{}):         m.handleRefreshMsg,
		reflect.TypeOf(menu.SwitchWorkspaceMsg{}): m.handleSwitchWorkspaceMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// Modal returns the overlay currently on screen.
func (m *Model) Modal() modal.Kind {
	return m.modals.Current()
}

// Form returns the dialog shown for kind.
func (m *Model) Form(kind modal.Kind) *forms.Form {
	return m.forms[kind]
}

// Focus returns the focused column.
func (m *Model) Focus() Column {
	return m.focus
}

// Workspace returns the workspace being shown.
func (m *Model) Workspace() string {
	return m.channels.Workspace()
}

// SignedOut reports whether the signed-out view is showing.
func (m *Model) SignedOut() bool {
	return m.users.SignedOut()
}

// Err returns the message in the notification line.
func (m *Model) Err() string {
	return m.errMsg
}
