// Package app wires the HTTP client, cache, read pipeline, watcher and UI
// into a Bubble Tea program.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/sleact-tui/internal/api"
	"github.com/atomicstack/sleact-tui/internal/backend"
	"github.com/atomicstack/sleact-tui/internal/cache"
	"github.com/atomicstack/sleact-tui/internal/loader"
	"github.com/atomicstack/sleact-tui/internal/logging/events"
	"github.com/atomicstack/sleact-tui/internal/mutation"
	"github.com/atomicstack/sleact-tui/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	BaseURL    string
	Workspace  string
	Cookie     string
	Dedupe     time.Duration
	Refresh    time.Duration
	Timeout    time.Duration
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
}

// Services is the non-UI half of the program. Run builds one; tests can
// build one against a fake server.
type Services struct {
	Client  *api.Client
	Cache   *cache.Cache
	Loader  *loader.Pipeline
	Watcher *backend.Watcher
	Runner  *mutation.Runner
}

// NewServices builds the client stack for cfg. The watcher starts loading
// immediately; callers must Stop it.
func NewServices(cfg Config) (*Services, error) {
	opts := []api.Option{api.WithTimeout(cfg.Timeout)}
	if cfg.Cookie != "" {
		opts = append(opts, api.WithCookie(cfg.Cookie))
	}
	client, err := api.New(cfg.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}
	c := cache.New(client.Fetch, cache.WithDedupe(cfg.Dedupe))
	pipeline := loader.New(c)
	return &Services{
		Client:  client,
		Cache:   c,
		Loader:  pipeline,
		Watcher: backend.NewWatcher(pipeline, cfg.Workspace, cfg.Refresh),
		Runner:  mutation.NewRunner(client, c),
	}, nil
}

// Stop halts the watcher and waits for its goroutine.
func (s *Services) Stop() {
	s.Watcher.Stop()
	s.Watcher.Wait()
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	services, err := NewServices(cfg)
	if err != nil {
		return err
	}
	defer services.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	model := ui.NewModel(ui.Config{
		Context:    ctx,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Source:     services.Watcher,
		Mutator:    services.Runner,
		Cache:      services.Cache,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	if err != nil {
		events.App.Stop(err.Error())
		return err
	}
	events.App.Stop("quit")
	return nil
}
