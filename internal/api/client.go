// Package api is a typed HTTP client for the team chat REST API. Every
// request goes through a cookie jar seeded with the configured session
// cookie, so mutating calls are always credentialed.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const defaultTimeout = 10 * time.Second

// Client talks to the chat API rooted at a base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*options)

type options struct {
	timeout   time.Duration
	cookie    string
	transport http.RoundTripper
}

// WithTimeout bounds every request. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithCookie seeds the jar with a raw Cookie header value such as
// "connect.sid=abc; theme=dark".
func WithCookie(raw string) Option {
	return func(o *options) { o.cookie = raw }
}

// WithTransport replaces the HTTP transport; tests use it to reach an
// httptest server through a recording round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, fmt.Errorf("base url required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", trimmed)
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if cookies := parseCookieHeader(cfg.cookie); len(cookies) > 0 {
		jar.SetCookies(parsed, cookies)
	}
	return &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Jar:       jar,
			Timeout:   cfg.timeout,
			Transport: cfg.transport,
		},
	}, nil
}

// BaseURL returns the API root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// CurrentUser returns the signed-in user. A nil user with a nil error means
// the session is not authenticated.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	resp, err := c.do(ctx, http.MethodGet, UserKey, nil)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, nil
	default:
		return nil, newError("current user", resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("false")) || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var user User
	if err := json.Unmarshal(trimmed, &user); err != nil {
		return nil, fmt.Errorf("current user: decode: %w", err)
	}
	return &user, nil
}

// Logout ends the server session.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, UserKey+"/logout", nil)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return newError("logout", resp)
	}
	drain(resp.Body)
	return nil
}

// Channels lists the channels of workspace.
func (c *Client) Channels(ctx context.Context, workspace string) ([]Channel, error) {
	var out []Channel
	if err := c.getJSON(ctx, "channels", workspacePath(workspace, "channels"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Members lists the members of workspace.
func (c *Client) Members(ctx context.Context, workspace string) ([]User, error) {
	var out []User
	if err := c.getJSON(ctx, "members", workspacePath(workspace, "members"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateChannel creates a channel named name in workspace.
func (c *Client) CreateChannel(ctx context.Context, workspace, name string) (ChannelsPayload, error) {
	var payload ChannelsPayload
	body := map[string]string{"name": name}
	if err := c.postJSON(ctx, "create channel", workspacePath(workspace, "channels"), body, &payload); err != nil {
		return ChannelsPayload{}, err
	}
	return payload, nil
}

// CreateWorkspace creates a workspace with a display name and URL slug.
func (c *Client) CreateWorkspace(ctx context.Context, name, slug string) (*Workspace, error) {
	var ws Workspace
	body := map[string]string{"workspace": name, "url": slug}
	if err := c.postJSON(ctx, "create workspace", "/api/workspaces", body, &ws); err != nil {
		return nil, err
	}
	if ws.Name == "" {
		ws.Name = name
	}
	if ws.URL == "" {
		ws.URL = slug
	}
	return &ws, nil
}

// InviteWorkspaceMember adds the user with email to workspace.
func (c *Client) InviteWorkspaceMember(ctx context.Context, workspace, email string) error {
	body := map[string]string{"email": email}
	return c.postJSON(ctx, "invite workspace member", workspacePath(workspace, "members"), body, nil)
}

// InviteChannelMember adds the user with email to channel inside workspace.
func (c *Client) InviteChannelMember(ctx context.Context, workspace, channel, email string) error {
	body := map[string]string{"email": email}
	path := workspacePath(workspace, "channels") + "/" + url.PathEscape(channel) + "/members"
	return c.postJSON(ctx, "invite channel member", path, body, nil)
}

// Fetch resolves a fetch key to its typed read. It is the fetcher handed to
// the remote data cache.
func (c *Client) Fetch(ctx context.Context, key string) (any, error) {
	kind, workspace, err := ParseKey(key)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KeyUser:
		return c.CurrentUser(ctx)
	case KeyChannels:
		return c.Channels(ctx, workspace)
	case KeyMembers:
		return c.Members(ctx, workspace)
	}
	return nil, fmt.Errorf("unsupported key %q", key)
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return newError(op, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return newError(op, resp)
	}
	if out == nil {
		drain(resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	endpoint := strings.TrimSuffix(c.baseURL.String(), "/") + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64<<10))
}

func parseCookieHeader(raw string) []*http.Cookie {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	header := http.Header{}
	header.Add("Cookie", raw)
	req := http.Request{Header: header}
	return req.Cookies()
}
