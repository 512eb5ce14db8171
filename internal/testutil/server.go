// Package testutil provides an in-memory chat API served over httptest so
// client, cache and UI tests can exercise real HTTP round trips.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/atomicstack/sleact-tui/internal/api"
)

// SessionCookie is the cookie name the fake server authenticates with.
const SessionCookie = "connect.sid"

type failure struct {
	status int
	body   string
}

// Server is a fake chat API. Request counts are recorded per "METHOD path".
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	user     *api.User
	channels map[string][]api.Channel
	members  map[string][]api.User
	hits     map[string]int
	requests []string
	failures map[string]failure
	session  string
	nextID   int
	gate     chan struct{}
	gated    string
}

// NewServer starts a fake server that is closed when t finishes.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		channels: make(map[string][]api.Channel),
		members:  make(map[string][]api.User),
		hits:     make(map[string]int),
		failures: make(map[string]failure),
		nextID:   100,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users", s.handleUser)
	mux.HandleFunc("POST /api/users/logout", s.handleLogout)
	mux.HandleFunc("POST /api/workspaces", s.handleCreateWorkspace)
	mux.HandleFunc("GET /api/workspaces/{workspace}/channels", s.handleChannels)
	mux.HandleFunc("POST /api/workspaces/{workspace}/channels", s.handleCreateChannel)
	mux.HandleFunc("GET /api/workspaces/{workspace}/members", s.handleMembers)
	mux.HandleFunc("POST /api/workspaces/{workspace}/members", s.handleInviteWorkspace)
	mux.HandleFunc("POST /api/workspaces/{workspace}/channels/{channel}/members", s.handleInviteChannel)
	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// SetUser replaces the signed-in user. Nil signs the session out.
func (s *Server) SetUser(u *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	clone := *u
	clone.Workspaces = append([]api.Workspace(nil), u.Workspaces...)
	s.user = &clone
}

// SetChannels replaces the channel list of workspace.
func (s *Server) SetChannels(workspace string, channels []api.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[workspace] = append([]api.Channel(nil), channels...)
}

// SetMembers replaces the member list of workspace.
func (s *Server) SetMembers(workspace string, members []api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[workspace] = append([]api.User(nil), members...)
}

// RequireSession makes every route except GET /api/users answer 401 unless
// the request carries the session cookie with value.
func (s *Server) RequireSession(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = value
}

// Fail makes the route answer status with body until cleared with Recover.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// Recover removes a failure installed with Fail.
func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+path)
}

// Hold blocks requests to the route until the returned release func is
// called. Only one route can be held at a time.
func (s *Server) Hold(method, path string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gate = gate
	s.gated = method + " " + path
	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Hits reports how many requests reached the route.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// Requests returns every request seen so far in arrival order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// CurrentUser returns a copy of the signed-in user.
func (s *Server) CurrentUser() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	clone := *s.user
	clone.Workspaces = append([]api.Workspace(nil), s.user.Workspaces...)
	return &clone
}

// Channels returns the stored channel list of workspace.
func (s *Server) Channels(workspace string) []api.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Channel(nil), s.channels[workspace]...)
}

// Members returns the stored member list of workspace.
func (s *Server) Members(workspace string) []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.User(nil), s.members[workspace]...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.EscapedPath()
		s.mu.Lock()
		s.hits[route]++
		s.requests = append(s.requests, route)
		fail, failing := s.failures[route]
		var gate chan struct{}
		if s.gated == route {
			gate = s.gate
		}
		session := s.session
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			w.WriteHeader(fail.status)
			_, _ = w.Write([]byte(fail.body))
			return
		}
		if session != "" && route != "GET "+api.UserKey {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value != session {
				http.Error(w, "login required", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorised(r *http.Request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return false
	}
	if s.session == "" {
		return true
	}
	cookie, err := r.Cookie(SessionCookie)
	return err == nil && cookie.Value == s.session
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	if !s.authorised(r) {
		writeJSON(w, http.StatusOK, false)
		return
	}
	writeJSON(w, http.StatusOK, s.CurrentUser())
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.SetUser(nil)
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Workspace string `json:"workspace"`
		URL       string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		http.Error(w, "login required", http.StatusUnauthorized)
		return
	}
	for _, ws := range s.user.Workspaces {
		if ws.URL == body.URL {
			writeJSON(w, http.StatusForbidden, "workspace url already in use")
			return
		}
	}
	s.nextID++
	ws := api.Workspace{ID: s.nextID, Name: body.Workspace, URL: body.URL, OwnerID: s.user.ID}
	s.user.Workspaces = append(s.user.Workspaces, ws)
	s.members[ws.URL] = []api.User{{ID: s.user.ID, Nickname: s.user.Nickname, Email: s.user.Email}}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Channels(r.PathValue("workspace")))
}

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	workspace := r.PathValue("workspace")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.channels[workspace] {
		if strings.EqualFold(ch.Name, body.Name) {
			writeJSON(w, http.StatusForbidden, "channel name already in use")
			return
		}
	}
	s.nextID++
	ch := api.Channel{ID: s.nextID, Name: body.Name}
	s.channels[workspace] = append(s.channels[workspace], ch)
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Members(r.PathValue("workspace")))
}

func (s *Server) handleInviteWorkspace(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	workspace := r.PathValue("workspace")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members[workspace] {
		if m.Email == email {
			writeJSON(w, http.StatusForbidden, "already a member")
			return
		}
	}
	s.nextID++
	nickname, _, _ := strings.Cut(email, "@")
	s.members[workspace] = append(s.members[workspace], api.User{ID: s.nextID, Nickname: nickname, Email: email})
	writeJSON(w, http.StatusOK, "ok")
}

func (s *Server) handleInviteChannel(w http.ResponseWriter, r *http.Request) {
	if _, ok := decodeEmail(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, "ok")
}

func decodeEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		http.Error(w, "email required", http.StatusBadRequest)
		return "", false
	}
	return body.Email, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(fmt.Sprintf("testutil: encode response: %v", err))
	}
}
