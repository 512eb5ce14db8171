package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/sleact-tui/internal/api"
	"github.com/atomicstack/sleact-tui/internal/testutil"
)

func newClient(t *testing.T, srv *testutil.Server, opts ...api.Option) *api.Client {
	t.Helper()
	client, err := api.New(srv.URL, opts...)
	require.NoError(t, err)
	return client
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := api.New("")
	require.Error(t, err)
	_, err = api.New("ftp://example.com")
	require.Error(t, err)
	client, err := api.New("http://localhost:3095/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3095", client.BaseURL())
}

func TestCurrentUserSignedOutIsNil(t *testing.T) {
	srv := testutil.NewServer(t)
	client := newClient(t, srv)

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCurrentUserDecodesWorkspaces(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetUser(&api.User{ID: 1, Nickname: "zero", Email: "zero@example.com", Workspaces: []api.Workspace{
		{ID: 1, Name: "Sleact", URL: "sleact", OwnerID: 1},
	}})
	client := newClient(t, srv)

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "zero", user.Nickname)
	require.Len(t, user.Workspaces, 1)
	assert.Equal(t, "sleact", user.Workspaces[0].Slug())
}

func TestSessionCookieIsSent(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetUser(&api.User{ID: 1, Nickname: "zero"})
	srv.SetChannels("sleact", []api.Channel{{ID: 1, Name: "general"}})
	srv.RequireSession("s3cret")

	anonymous := newClient(t, srv)
	user, err := anonymous.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	_, err = anonymous.Channels(context.Background(), "sleact")
	assert.ErrorIs(t, err, api.ErrUnauthenticated)

	signed := newClient(t, srv, api.WithCookie(testutil.SessionCookie+"=s3cret; theme=dark"))
	user, err = signed.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	channels, err := signed.Channels(context.Background(), "sleact")
	require.NoError(t, err)
	assert.Equal(t, []api.Channel{{ID: 1, Name: "general"}}, channels)
}

func TestServerMessageIsSurfaced(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetUser(&api.User{ID: 1})
	srv.SetChannels("sleact", []api.Channel{{ID: 1, Name: "general"}})
	client := newClient(t, srv)

	_, err := client.CreateChannel(context.Background(), "sleact", "general")
	require.Error(t, err)
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "channel name already in use", api.DisplayMessage(err))

	srv.Fail(http.MethodPost, "/api/workspaces", http.StatusInternalServerError, `{"message":"database down"}`)
	_, err = client.CreateWorkspace(context.Background(), "Team", "team")
	assert.Equal(t, "database down", api.DisplayMessage(err))

	srv.Fail(http.MethodPost, "/api/workspaces", http.StatusBadGateway, "")
	_, err = client.CreateWorkspace(context.Background(), "Team", "team")
	assert.Equal(t, "Bad Gateway", api.DisplayMessage(err))
}

func TestCreateWorkspaceAndChannel(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetUser(&api.User{ID: 7, Nickname: "zero"})
	client := newClient(t, srv)
	ctx := context.Background()

	ws, err := client.CreateWorkspace(ctx, "Team", "team")
	require.NoError(t, err)
	assert.Equal(t, "team", ws.URL)
	assert.Equal(t, 7, ws.OwnerID)

	payload, err := client.CreateChannel(ctx, "team", "random")
	require.NoError(t, err)
	require.NotNil(t, payload.Created)
	assert.Nil(t, payload.List)
	assert.Equal(t, "random", payload.Created.Name)

	require.NoError(t, client.InviteWorkspaceMember(ctx, "team", "kim@example.com"))
	members, err := client.Members(ctx, "team")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "kim", members[1].Nickname)

	require.NoError(t, client.InviteChannelMember(ctx, "team", "random", "kim@example.com"))
	assert.Equal(t, 1, srv.Hits(http.MethodPost, "/api/workspaces/team/channels/random/members"))
}

func TestLogoutClearsSession(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetUser(&api.User{ID: 1})
	client := newClient(t, srv)

	require.NoError(t, client.Logout(context.Background()))
	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestWorkspaceSegmentIsEscaped(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetUser(&api.User{ID: 1})
	client := newClient(t, srv)

	_, err := client.Channels(context.Background(), "my team")
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Hits(http.MethodGet, "/api/workspaces/my%20team/channels"))
}

func TestFetchDispatchesOnKey(t *testing.T) {
	srv := testutil.NewServer(t)
	user := &api.User{ID: 1, Nickname: "zero"}
	srv.SetUser(user)
	srv.SetMembers("sleact", []api.User{{ID: 1, Nickname: "zero"}})
	client := newClient(t, srv)
	ctx := context.Background()

	got, err := client.Fetch(ctx, api.UserKey)
	require.NoError(t, err)
	assert.Equal(t, "zero", got.(*api.User).Nickname)

	got, err = client.Fetch(ctx, api.MembersKey(user, "sleact"))
	require.NoError(t, err)
	assert.Len(t, got.([]api.User), 1)

	got, err = client.Fetch(ctx, api.ChannelsKey(user, "sleact"))
	require.NoError(t, err)
	assert.Empty(t, got.([]api.Channel))

	_, err = client.Fetch(ctx, "/api/nope")
	assert.Error(t, err)
}

func TestTimeoutBoundsRequests(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetUser(&api.User{ID: 1})
	release := srv.Hold(http.MethodGet, "/api/workspaces/slow/members")
	defer release()
	client := newClient(t, srv, api.WithTimeout(50*time.Millisecond))

	_, err := client.Members(context.Background(), "slow")
	assert.Error(t, err)
}
