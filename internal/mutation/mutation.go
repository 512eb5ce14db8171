// Package mutation runs the client's write operations. Each operation sends
// exactly one request and, on success, applies its cache policy: create
// workspace revalidates the user, create channel writes the response into the
// channel list, logout writes a nil user and a workspace invite revalidates
// the member list. Failures leave the cache untouched.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/atomicstack/sleact-tui/internal/api"
	"github.com/atomicstack/sleact-tui/internal/cache"
	"github.com/atomicstack/sleact-tui/internal/logging"
	"github.com/atomicstack/sleact-tui/internal/logging/events"
)

// Action names a mutation.
type Action string

const (
	ActionCreateWorkspace Action = "create-workspace"
	ActionCreateChannel   Action = "create-channel"
	ActionInviteWorkspace Action = "invite-workspace"
	ActionInviteChannel   Action = "invite-channel"
	ActionLogout          Action = "logout"
)

// ErrInvalid is returned when input fails validation. No request is sent.
var ErrInvalid = errors.New("invalid input")

// API is the part of the HTTP client mutations use.
type API interface {
	CreateWorkspace(ctx context.Context, name, slug string) (*api.Workspace, error)
	CreateChannel(ctx context.Context, workspace, name string) (api.ChannelsPayload, error)
	InviteWorkspaceMember(ctx context.Context, workspace, email string) error
	InviteChannelMember(ctx context.Context, workspace, channel, email string) error
	Logout(ctx context.Context) error
}

// Cache is the part of the remote data cache mutations update.
type Cache interface {
	Peek(key string) (cache.Entry, bool)
	Write(key string, value any)
	Revalidate(ctx context.Context, key string) (any, error)
}

// Result is the outcome of one mutation. Key and Value describe the cache
// entry that was updated, if any.
type Result struct {
	ID        string
	Action    Action
	Workspace string
	Key       string
	Value     any
	Info      string
	Err       error
}

// Runner executes mutations against an API and keeps the cache in step.
type Runner struct {
	api   API
	cache Cache
}

// NewRunner returns a Runner.
func NewRunner(client API, c Cache) *Runner {
	return &Runner{api: client, cache: c}
}

// ValidWorkspace reports whether a workspace can be created from the input.
// Both the name and the URL slug are required.
func ValidWorkspace(name, slug string) bool {
	return strings.TrimSpace(name) != "" && strings.TrimSpace(slug) != ""
}

// ValidEmail reports whether email is a plausible invite address.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// CreateWorkspace creates a workspace and revalidates the user, whose
// workspace list now includes it. Blank input is rejected; otherwise name
// and slug are sent untouched.
func (r *Runner) CreateWorkspace(ctx context.Context, name, slug string) Result {
	res := r.begin(ctx, ActionCreateWorkspace, "")
	if !ValidWorkspace(name, slug) {
		return r.reject(res, "workspace name and url required")
	}
	ws, err := r.api.CreateWorkspace(ctx, name, slug)
	if err != nil {
		return r.fail(ctx, res, err)
	}
	if ctx.Err() != nil {
		return r.cancelled(ctx, res)
	}
	res.Workspace = ws.Slug()
	res.Info = fmt.Sprintf("Created workspace %s", ws.Name)
	user, err := r.cache.Revalidate(ctx, api.UserKey)
	if err != nil {
		logging.ErrorContext(ctx, fmt.Errorf("create workspace: revalidate user: %w", err))
		return r.succeed(res)
	}
	res.Key = api.UserKey
	res.Value = user
	return r.succeed(res)
}

// CreateChannel creates a channel in workspace and merges the response into
// the cached channel list without refetching it.
func (r *Runner) CreateChannel(ctx context.Context, workspace, name string) Result {
	res := r.begin(ctx, ActionCreateChannel, workspace)
	if strings.TrimSpace(workspace) == "" {
		return r.reject(res, "no workspace selected")
	}
	payload, err := r.api.CreateChannel(ctx, workspace, name)
	if err != nil {
		return r.fail(ctx, res, err)
	}
	if ctx.Err() != nil {
		return r.cancelled(ctx, res)
	}
	key := api.ChannelsKey(r.currentUser(), workspace)
	var current []api.Channel
	if entry, ok := r.cache.Peek(key); ok {
		current, _ = entry.Value.([]api.Channel)
	}
	channels := payload.Apply(current)
	r.cache.Write(key, channels)
	res.Key = key
	res.Value = channels
	res.Info = fmt.Sprintf("Created channel %s", name)
	return r.succeed(res)
}

// InviteWorkspace invites email to workspace and revalidates its members.
func (r *Runner) InviteWorkspace(ctx context.Context, workspace, email string) Result {
	res := r.begin(ctx, ActionInviteWorkspace, workspace)
	email = strings.TrimSpace(email)
	if strings.TrimSpace(workspace) == "" || !ValidEmail(email) {
		return r.reject(res, "workspace and email required")
	}
	if err := r.api.InviteWorkspaceMember(ctx, workspace, email); err != nil {
		return r.fail(ctx, res, err)
	}
	if ctx.Err() != nil {
		return r.cancelled(ctx, res)
	}
	res.Info = fmt.Sprintf("Invited %s to %s", email, workspace)
	key := api.MembersKey(r.currentUser(), workspace)
	members, err := r.cache.Revalidate(ctx, key)
	if err != nil {
		logging.ErrorContext(ctx, fmt.Errorf("invite workspace member: revalidate members: %w", err))
		return r.succeed(res)
	}
	if key != "" {
		res.Key = key
		res.Value = members
	}
	return r.succeed(res)
}

// InviteChannel invites email to channel. Channel membership is not cached,
// so nothing is written.
func (r *Runner) InviteChannel(ctx context.Context, workspace, channel, email string) Result {
	res := r.begin(ctx, ActionInviteChannel, workspace)
	email = strings.TrimSpace(email)
	if strings.TrimSpace(workspace) == "" || strings.TrimSpace(channel) == "" || !ValidEmail(email) {
		return r.reject(res, "channel and email required")
	}
	if err := r.api.InviteChannelMember(ctx, workspace, channel, email); err != nil {
		return r.fail(ctx, res, err)
	}
	if ctx.Err() != nil {
		return r.cancelled(ctx, res)
	}
	res.Info = fmt.Sprintf("Invited %s to #%s", email, channel)
	return r.succeed(res)
}

// Logout ends the session and writes a nil user without refetching.
func (r *Runner) Logout(ctx context.Context) Result {
	res := r.begin(ctx, ActionLogout, "")
	if err := r.api.Logout(ctx); err != nil {
		return r.fail(ctx, res, err)
	}
	if ctx.Err() != nil {
		return r.cancelled(ctx, res)
	}
	r.cache.Write(api.UserKey, nil)
	res.Key = api.UserKey
	res.Info = "Signed out"
	return r.succeed(res)
}

func (r *Runner) currentUser() *api.User {
	entry, ok := r.cache.Peek(api.UserKey)
	if !ok {
		return nil
	}
	user, _ := entry.Value.(*api.User)
	return user
}

func (r *Runner) begin(ctx context.Context, action Action, workspace string) Result {
	res := Result{ID: logging.RequestID(ctx), Action: action, Workspace: workspace}
	events.Mutation.Submit(res.ID, string(action), workspace)
	return res
}

func (r *Runner) reject(res Result, reason string) Result {
	events.Mutation.Rejected(string(res.Action), reason)
	res.Err = ErrInvalid
	return res
}

func (r *Runner) fail(ctx context.Context, res Result, err error) Result {
	events.Mutation.Failed(res.ID, string(res.Action), err)
	logging.ErrorContext(ctx, fmt.Errorf("%s: %w", res.Action, err))
	res.Err = err
	return res
}

func (r *Runner) cancelled(ctx context.Context, res Result) Result {
	events.Mutation.Cancelled(res.ID, string(res.Action))
	res.Err = ctx.Err()
	return res
}

func (r *Runner) succeed(res Result) Result {
	events.Mutation.Succeeded(res.ID, string(res.Action), res.Key)
	return res
}
