package dispatcher

import (
	"time"

	"github.com/atomicstack/sleact-tui/internal/api"
	"github.com/atomicstack/sleact-tui/internal/backend"
	"github.com/atomicstack/sleact-tui/internal/cache"
	"github.com/atomicstack/sleact-tui/internal/logging/events"
	"github.com/atomicstack/sleact-tui/internal/mutation"
	"github.com/atomicstack/sleact-tui/internal/state"
)

type Result struct {
	UserUpdated     bool
	ChannelsUpdated bool
	MembersUpdated  bool
	SignedOut       bool
	Err             error
}

// Session is the remote data cache as the dispatcher sees it: the latest
// user entry is the authority on whether a session exists.
type Session interface {
	Peek(key string) (cache.Entry, bool)
}

type Dispatcher struct {
	users    state.UserStore
	channels state.ChannelStore
	members  state.MemberStore
	session  Session
	now      func() time.Time
}

// New builds a dispatcher over the stores. session may be nil, in which case
// every event is applied as it arrives.
func New(u state.UserStore, c state.ChannelStore, m state.MemberStore, session Session) *Dispatcher {
	return &Dispatcher{users: u, channels: c, members: m, session: session, now: time.Now}
}

// Handle projects a watcher event into the stores. List events for a
// workspace other than the one being shown are dropped, and so are events
// from a load that the cached session has since overtaken.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if d.stale(evt) {
		events.Backend.Stale(evt.Kind.String(), evt.Workspace)
		return res
	}
	switch evt.Kind {
	case backend.KindUser:
		if evt.Err != nil {
			d.users.SetErr(evt.Err)
			res.Err = evt.Err
			return res
		}
		user, _ := evt.Data.(*api.User)
		d.setUser(user, &res)
		if user != nil && d.channels.Workspace() == "" && evt.Workspace != "" {
			d.channels.SetWorkspace(evt.Workspace)
			d.members.SetWorkspace(evt.Workspace)
		}
	case backend.KindChannels:
		if !d.current(evt) {
			return res
		}
		if evt.Err != nil {
			d.channels.SetErr(evt.Err)
			res.Err = evt.Err
			return res
		}
		if channels, ok := evt.Data.([]api.Channel); ok {
			d.channels.SetEntries(evt.Workspace, channels, d.now())
			res.ChannelsUpdated = true
		}
	case backend.KindMembers:
		if !d.current(evt) {
			return res
		}
		if evt.Err != nil {
			d.members.SetErr(evt.Err)
			res.Err = evt.Err
			return res
		}
		if members, ok := evt.Data.([]api.User); ok {
			d.members.SetEntries(evt.Workspace, members)
			res.MembersUpdated = true
		}
	}
	return res
}

// HandleMutation applies the cache entry a successful mutation wrote.
func (d *Dispatcher) HandleMutation(m mutation.Result) Result {
	var res Result
	if m.Err != nil || m.Key == "" {
		return res
	}
	kind, workspace, err := api.ParseKey(m.Key)
	if err != nil {
		return res
	}
	switch kind {
	case api.KeyUser:
		user, _ := m.Value.(*api.User)
		d.setUser(user, &res)
	case api.KeyChannels:
		if workspace != d.channels.Workspace() {
			return res
		}
		if channels, ok := m.Value.([]api.Channel); ok {
			d.channels.SetEntries(workspace, channels, d.now())
			res.ChannelsUpdated = true
		}
	case api.KeyMembers:
		if workspace != d.members.Workspace() {
			return res
		}
		if members, ok := m.Value.([]api.User); ok {
			d.members.SetEntries(workspace, members)
			res.MembersUpdated = true
		}
	}
	return res
}

func (d *Dispatcher) setUser(user *api.User, res *Result) {
	d.users.SetUser(user, d.now())
	res.UserUpdated = true
	if user == nil {
		res.SignedOut = true
		d.channels.SetWorkspace("")
		d.members.SetWorkspace("")
	}
}

func (d *Dispatcher) current(evt backend.Event) bool {
	current := d.channels.Workspace()
	if current == "" || current == evt.Workspace {
		if current == "" {
			d.channels.SetWorkspace(evt.Workspace)
			d.members.SetWorkspace(evt.Workspace)
		}
		return true
	}
	events.Backend.Dropped(evt.Kind.String(), evt.Workspace, current)
	return false
}

// stale reports whether evt was read before the cached user last changed
// between signed in and signed out. A load that started before a logout can
// otherwise deliver its user, channels and members after the logout result.
func (d *Dispatcher) stale(evt backend.Event) bool {
	if d.session == nil {
		return false
	}
	entry, ok := d.session.Peek(api.UserKey)
	if !ok || entry.Err != nil {
		return false
	}
	cached, _ := entry.Value.(*api.User)
	if evt.Kind != backend.KindUser {
		return cached == nil
	}
	if evt.Err != nil {
		return false
	}
	user, _ := evt.Data.(*api.User)
	return (user == nil) != (cached == nil)
}
