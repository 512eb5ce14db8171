// Package loader runs the staged read of everything the workspace view shows.
// Stage one resolves the signed-in user. Stage two, which needs the user to
// build its keys, reads the channel and member lists of one workspace in
// parallel. Stage two never starts until stage one has a user.
package loader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/atomicstack/sleact-tui/internal/api"
)

// Reader is the subset of the cache the pipeline reads through.
type Reader interface {
	Read(ctx context.Context, key string) (any, error)
	Revalidate(ctx context.Context, key string) (any, error)
}

// Snapshot is the outcome of one pipeline run. Per-resource errors are kept
// separately so one failed list does not hide the other.
type Snapshot struct {
	Workspace       string
	User            *api.User
	Unauthenticated bool
	UserErr         error
	Channels        []api.Channel
	ChannelsErr     error
	Members         []api.User
	MembersErr      error
}

// Pipeline reads through a cache in dependency order.
type Pipeline struct {
	reader Reader
}

// New returns a pipeline over reader.
func New(reader Reader) *Pipeline {
	return &Pipeline{reader: reader}
}

// Load runs both stages, honouring the cache's deduplication window.
func (p *Pipeline) Load(ctx context.Context, workspace string) Snapshot {
	return p.run(ctx, workspace, p.reader.Read)
}

// LoadFresh runs both stages, forcing every key to be fetched again.
func (p *Pipeline) LoadFresh(ctx context.Context, workspace string) Snapshot {
	return p.run(ctx, workspace, p.reader.Revalidate)
}

type readFunc func(ctx context.Context, key string) (any, error)

func (p *Pipeline) run(ctx context.Context, workspace string, read readFunc) Snapshot {
	snap := Snapshot{Workspace: workspace}

	user, err := readUser(ctx, read)
	if err != nil {
		snap.UserErr = err
		return snap
	}
	if user == nil {
		snap.Unauthenticated = true
		return snap
	}
	snap.User = user
	snap.Workspace = resolveWorkspace(user, workspace)

	channelsKey := api.ChannelsKey(user, snap.Workspace)
	membersKey := api.MembersKey(user, snap.Workspace)
	if channelsKey == "" {
		return snap
	}

	var g errgroup.Group
	g.Go(func() error {
		snap.Channels, snap.ChannelsErr = readChannels(ctx, read, channelsKey)
		return nil
	})
	g.Go(func() error {
		snap.Members, snap.MembersErr = readMembers(ctx, read, membersKey)
		return nil
	})
	_ = g.Wait()
	return snap
}

// resolveWorkspace keeps the requested workspace, falling back to the first
// workspace of the user when none is selected. Unknown slugs are kept so the
// server decides whether they exist.
func resolveWorkspace(user *api.User, requested string) string {
	if requested != "" {
		if ws, ok := user.FindWorkspace(requested); ok {
			return ws.Slug()
		}
		return requested
	}
	if len(user.Workspaces) > 0 {
		return user.Workspaces[0].Slug()
	}
	return ""
}

func readUser(ctx context.Context, read readFunc) (*api.User, error) {
	v, err := read(ctx, api.UserKey)
	if err != nil {
		return nil, err
	}
	switch user := v.(type) {
	case nil:
		return nil, nil
	case *api.User:
		return user, nil
	}
	return nil, fmt.Errorf("user: unexpected cache value %T", v)
}

func readChannels(ctx context.Context, read readFunc, key string) ([]api.Channel, error) {
	v, err := read(ctx, key)
	if err != nil {
		return nil, err
	}
	switch channels := v.(type) {
	case nil:
		return nil, nil
	case []api.Channel:
		return channels, nil
	}
	return nil, fmt.Errorf("channels: unexpected cache value %T", v)
}

func readMembers(ctx context.Context, read readFunc, key string) ([]api.User, error) {
	v, err := read(ctx, key)
	if err != nil {
		return nil, err
	}
	switch members := v.(type) {
	case nil:
		return nil, nil
	case []api.User:
		return members, nil
	}
	return nil, fmt.Errorf("members: unexpected cache value %T", v)
}
