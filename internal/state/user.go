package state

import (
	"time"

	"github.com/atomicstack/sleact-tui/internal/api"
)

// UserStore holds the signed-in user as last seen by the client. A store is
// unresolved until the first user result arrives.
type UserStore interface {
	User() *api.User
	SetUser(user *api.User, at time.Time)
	Resolved() bool
	SignedOut() bool
	Err() error
	SetErr(error)
	UpdatedAt() time.Time
}

type userStore struct {
	user      *api.User
	resolved  bool
	err       error
	updatedAt time.Time
}

func NewUserStore() UserStore {
	return &userStore{}
}

func (u *userStore) User() *api.User {
	return cloneUser(u.user)
}

func (u *userStore) SetUser(user *api.User, at time.Time) {
	u.user = cloneUser(user)
	u.resolved = true
	u.err = nil
	u.updatedAt = at
}

func (u *userStore) Resolved() bool {
	return u.resolved
}

func (u *userStore) SignedOut() bool {
	return u.resolved && u.user == nil
}

func (u *userStore) Err() error {
	return u.err
}

func (u *userStore) SetErr(err error) {
	u.err = err
}

func (u *userStore) UpdatedAt() time.Time {
	return u.updatedAt
}

func cloneUser(user *api.User) *api.User {
	if user == nil {
		return nil
	}
	dup := *user
	if len(user.Workspaces) > 0 {
		dup.Workspaces = make([]api.Workspace, len(user.Workspaces))
		copy(dup.Workspaces, user.Workspaces)
	}
	return &dup
}
