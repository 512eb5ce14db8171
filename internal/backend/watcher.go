package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/sleact-tui/internal/loader"
	"github.com/atomicstack/sleact-tui/internal/logging/events"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindUser Kind = iota
	KindChannels
	KindMembers
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindChannels:
		return "channels"
	case KindMembers:
		return "members"
	}
	return "unknown"
}

// Event conveys updated data or an error from a pipeline run. Data is a
// *api.User, []api.Channel or []api.User depending on Kind. A KindUser event
// with nil Data and nil Err means the session is signed out.
type Event struct {
	Kind      Kind
	Workspace string
	Data      interface{}
	Err       error
}

// Pipeline is the staged loader the watcher drives.
type Pipeline interface {
	Load(ctx context.Context, workspace string) loader.Snapshot
	LoadFresh(ctx context.Context, workspace string) loader.Snapshot
}

const minLoadInterval = 250 * time.Millisecond

// Watcher runs the load pipeline on start, on workspace switches, on
// explicit refreshes and optionally on a fixed interval, and publishes the
// results as events.
type Watcher struct {
	pipeline Pipeline
	interval time.Duration
	throttle *throttle

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	workspace string
	fresh     bool
	reason    string
	poke      chan struct{}

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for workspace and starts its loop. An
// interval of zero disables periodic revalidation.
func NewWatcher(pipeline Pipeline, workspace string, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		pipeline:  pipeline,
		interval:  interval,
		throttle:  newThrottle(minLoadInterval),
		ctx:       ctx,
		cancel:    cancel,
		workspace: workspace,
		poke:      make(chan struct{}, 1),
		events:    make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.loop()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Workspace returns the workspace the next load will read.
func (w *Watcher) Workspace() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.workspace
}

// SetWorkspace switches the watched workspace and schedules a load. Reads
// still inside the cache window are served from memory.
func (w *Watcher) SetWorkspace(workspace string) {
	w.mu.Lock()
	w.workspace = workspace
	w.reason = "workspace"
	w.mu.Unlock()
	w.signal()
}

// Refresh schedules a load that bypasses the cache window.
func (w *Watcher) Refresh() {
	w.mu.Lock()
	w.fresh = true
	w.reason = "refresh"
	w.mu.Unlock()
	w.signal()
}

// Stop cancels the watcher. The loop exits after its current load completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the loop has exited and the events channel is closed.
// Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

// signal coalesces pending requests; a burst of switches causes one load of
// the last workspace.
func (w *Watcher) signal() {
	select {
	case w.poke <- struct{}{}:
	default:
	}
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	if !w.load(false, "start") {
		return
	}

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.poke:
			w.mu.Lock()
			fresh, reason := w.fresh, w.reason
			w.fresh = false
			w.mu.Unlock()
			if !w.load(fresh, reason) {
				return
			}
		case <-tick:
			if !w.load(true, "interval") {
				return
			}
		}
	}
}

func (w *Watcher) load(fresh bool, reason string) bool {
	if err := w.throttle.wait(w.ctx); err != nil {
		return false
	}
	requested := w.Workspace()
	events.Backend.Load(requested, reason)

	var snap loader.Snapshot
	if fresh {
		snap = w.pipeline.LoadFresh(w.ctx, requested)
	} else {
		snap = w.pipeline.Load(w.ctx, requested)
	}

	w.mu.Lock()
	if w.workspace == requested {
		w.workspace = snap.Workspace
	}
	w.mu.Unlock()

	if snap.Unauthenticated {
		events.Backend.Unauthenticated()
	}
	for _, evt := range SnapshotEvents(snap) {
		if !w.emit(evt) {
			return false
		}
	}
	return true
}

// SnapshotEvents converts a pipeline run into the events a watcher publishes:
// the user first, then the workspace lists when a user and workspace exist.
func SnapshotEvents(snap loader.Snapshot) []Event {
	userEvt := Event{Kind: KindUser, Workspace: snap.Workspace, Err: snap.UserErr}
	if snap.User != nil {
		userEvt.Data = snap.User
	}
	out := []Event{userEvt}
	if snap.User == nil || snap.Workspace == "" {
		return out
	}
	return append(out,
		Event{Kind: KindChannels, Workspace: snap.Workspace, Data: snap.Channels, Err: snap.ChannelsErr},
		Event{Kind: KindMembers, Workspace: snap.Workspace, Data: snap.Members, Err: snap.MembersErr},
	)
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
