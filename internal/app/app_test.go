package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/sleact-tui/internal/api"
	"github.com/atomicstack/sleact-tui/internal/backend"
	"github.com/atomicstack/sleact-tui/internal/testutil"
)

func TestNewServicesLoadsWithSessionCookie(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.RequireSession("s3cret")
	srv.SetUser(&api.User{ID: 1, Nickname: "zero", Email: "zero@example.com", Workspaces: []api.Workspace{
		{ID: 1, Name: "Sleact", URL: "sleact"},
	}})
	srv.SetChannels("sleact", []api.Channel{{ID: 1, Name: "general"}})

	services, err := NewServices(Config{
		BaseURL: srv.URL,
		Cookie:  testutil.SessionCookie + "=s3cret",
		Dedupe:  time.Second,
		Timeout: time.Second,
	})
	require.NoError(t, err)
	defer services.Stop()

	got := map[backend.Kind]backend.Event{}
	deadline := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case evt := <-services.Watcher.Events():
			got[evt.Kind] = evt
		case <-deadline:
			t.Fatalf("timed out waiting for events, got %d", len(got))
		}
	}
	user, ok := got[backend.KindUser].Data.(*api.User)
	require.True(t, ok)
	assert.Equal(t, "zero", user.Nickname)
	assert.Equal(t, "sleact", got[backend.KindChannels].Workspace)
	assert.Len(t, got[backend.KindChannels].Data, 1)
	assert.Equal(t, time.Second, services.Cache.Dedupe())
}

func TestNewServicesRejectsBadBaseURL(t *testing.T) {
	_, err := NewServices(Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api client")
}
