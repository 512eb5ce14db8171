package command

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/atomicstack/sleact-tui/internal/logging"
	"github.com/atomicstack/sleact-tui/internal/logging/events"
)

// Handler does the work of a request under its own context.
type Handler func(ctx context.Context) tea.Msg

// Request encapsulates an action invocation.
type Request struct {
	Label   string
	Handler Handler
}

// Done carries the message a request produced back to the update loop.
type Done struct {
	ID    string
	Label string
	Msg   tea.Msg
}

// Bus runs requests under contexts derived from a root context and tracks
// them by ID. A request can be cancelled individually; Close cancels every
// request still in flight.
type Bus struct {
	root   context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending map[string]context.CancelFunc
}

// New initialises a command bus rooted at ctx.
func New(ctx context.Context) *Bus {
	root, cancel := context.WithCancel(ctx)
	return &Bus{root: root, cancel: cancel, pending: make(map[string]context.CancelFunc)}
}

// Execute registers req and returns its ID and a command running it. The
// command's result arrives wrapped in Done.
func (b *Bus) Execute(req Request) (string, tea.Cmd) {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(b.root)
	ctx = logging.WithRequestID(ctx, id)

	b.mu.Lock()
	b.pending[id] = cancel
	b.mu.Unlock()

	events.Command.Queue(id, req.Label)
	return id, func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(id, req.Label)
			b.Complete(id)
			return nil
		}
		msg := req.Handler(ctx)
		if msg == nil {
			events.Command.NoOp(id, req.Label)
			b.Complete(id)
			return nil
		}
		events.Command.Result(id, req.Label, fmt.Sprintf("%T", msg))
		return Done{ID: id, Label: req.Label, Msg: msg}
	}
}

// Complete retires id and reports whether it was still pending. A false
// return means the request was cancelled and its result must be dropped.
func (b *Bus) Complete(id string) bool {
	b.mu.Lock()
	cancel, ok := b.pending[id]
	delete(b.pending, id)
	b.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// Cancel aborts id if it is still pending.
func (b *Bus) Cancel(id string) bool {
	if id == "" {
		return false
	}
	b.mu.Lock()
	cancel, ok := b.pending[id]
	delete(b.pending, id)
	b.mu.Unlock()
	if ok {
		cancel()
		events.Command.Cancel(id)
	}
	return ok
}

// Pending reports whether id is still in flight.
func (b *Bus) Pending(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.pending[id]
	return ok
}

// Len returns the number of requests in flight.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Close cancels every pending request and the root context.
func (b *Bus) Close() {
	b.mu.Lock()
	pending := b.pending
	b.pending = make(map[string]context.CancelFunc)
	b.mu.Unlock()
	for _, cancel := range pending {
		cancel()
	}
	b.cancel()
}
