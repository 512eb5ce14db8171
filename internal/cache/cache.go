// Package cache is the process-wide remote data cache. Entries are keyed by
// request path; reads inside the deduplication window are served from memory
// and concurrent reads of one key share a single in-flight fetch.
//
// Every Write and Revalidate bumps the key's generation. A fetch that started
// under an older generation never overwrites the entry when it completes, so
// an optimistic write cannot be clobbered by a slow read that raced it.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/atomicstack/sleact-tui/internal/logging/events"
)

// DefaultDedupe is the window in which repeated reads of a key reuse the
// previous fetch.
const DefaultDedupe = 2 * time.Second

// Fetcher loads the value stored under key.
type Fetcher func(ctx context.Context, key string) (any, error)

// Entry is a cached fetch outcome. Failed fetches are cached too, with Err
// set, and are only retried once the window has passed.
type Entry struct {
	Value     any
	Err       error
	UpdatedAt time.Time
}

type slot struct {
	entry  Entry
	filled bool
	gen    uint64
	// stamp is when the entry was last fetched or written; freshness is
	// measured from it.
	stamp       time.Time
	inflight    bool
	inflightGen uint64
	inflightSeq uint64
}

// Cache is safe for concurrent use.
type Cache struct {
	fetch  Fetcher
	dedupe time.Duration
	clock  Clock

	group singleflight.Group

	mu    sync.Mutex
	slots map[string]*slot
	seq   uint64
}

// Option customises a Cache.
type Option func(*Cache)

// WithDedupe sets the deduplication window. Zero disables it.
func WithDedupe(d time.Duration) Option {
	return func(c *Cache) {
		if d >= 0 {
			c.dedupe = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New returns a Cache that loads missing or stale keys with fetch.
func New(fetch Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetch:  fetch,
		dedupe: DefaultDedupe,
		clock:  realClock{},
		slots:  make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dedupe reports the configured deduplication window.
func (c *Cache) Dedupe() time.Duration {
	return c.dedupe
}

// Read returns the value under key, fetching it when the entry is missing or
// older than the window. An empty key is the null key: nothing is fetched and
// Read returns (nil, nil).
func (c *Cache) Read(ctx context.Context, key string) (any, error) {
	if key == "" {
		return nil, nil
	}
	c.mu.Lock()
	s := c.slotLocked(key)
	now := c.clock.Now()
	if s.inflight && s.inflightGen == s.gen {
		ch := c.group.DoChan(flightKey(key, s.inflightSeq), c.runner(ctx, key, s.gen, s.inflightSeq))
		c.mu.Unlock()
		events.Cache.Join(key)
		return wait(ctx, ch)
	}
	if s.filled && now.Sub(s.stamp) < c.dedupe {
		entry := s.entry
		c.mu.Unlock()
		events.Cache.Hit(key, now.Sub(entry.UpdatedAt))
		return entry.Value, entry.Err
	}
	ch := c.beginLocked(ctx, key, s, now)
	c.mu.Unlock()
	return wait(ctx, ch)
}

// Peek returns the current entry without fetching.
func (c *Cache) Peek(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[key]
	if !ok || !s.filled {
		return Entry{}, false
	}
	return s.entry, true
}

// Write stores value under key without a round trip.
func (c *Cache) Write(key string, value any) {
	if key == "" {
		return
	}
	c.mu.Lock()
	s := c.slotLocked(key)
	now := c.clock.Now()
	s.gen++
	s.entry = Entry{Value: value, UpdatedAt: now}
	s.filled = true
	s.stamp = now
	gen := s.gen
	c.mu.Unlock()
	events.Cache.Write(key, gen)
}

// Revalidate discards the freshness of key and fetches it again, ignoring
// the deduplication window.
func (c *Cache) Revalidate(ctx context.Context, key string) (any, error) {
	if key == "" {
		return nil, nil
	}
	c.mu.Lock()
	s := c.slotLocked(key)
	s.gen++
	events.Cache.Revalidate(key, s.gen)
	ch := c.beginLocked(ctx, key, s, c.clock.Now())
	c.mu.Unlock()
	return wait(ctx, ch)
}

// Invalidate refetches key when refetch is set and otherwise stores value
// directly.
func (c *Cache) Invalidate(ctx context.Context, key string, refetch bool, value any) (any, error) {
	if refetch {
		return c.Revalidate(ctx, key)
	}
	c.Write(key, value)
	return value, nil
}

func (c *Cache) slotLocked(key string) *slot {
	s, ok := c.slots[key]
	if !ok {
		s = &slot{}
		c.slots[key] = s
	}
	return s
}

func (c *Cache) beginLocked(ctx context.Context, key string, s *slot, now time.Time) <-chan singleflight.Result {
	c.seq++
	s.inflight = true
	s.inflightGen = s.gen
	s.inflightSeq = c.seq
	s.stamp = now
	events.Cache.Fetch(key, s.gen)
	return c.group.DoChan(flightKey(key, c.seq), c.runner(ctx, key, s.gen, c.seq))
}

// runner returns the shared fetch for one flight. The fetch is detached from
// the caller's cancellation because other readers may have joined it; each
// caller still stops waiting when its own context ends.
func (c *Cache) runner(ctx context.Context, key string, gen, seq uint64) func() (any, error) {
	return func() (any, error) {
		value, err := c.fetch(context.WithoutCancel(ctx), key)

		c.mu.Lock()
		defer c.mu.Unlock()
		s := c.slotLocked(key)
		if s.inflightSeq == seq {
			s.inflight = false
		}
		if s.gen != gen {
			events.Cache.Superseded(key, gen, s.gen)
			if s.filled {
				return s.entry, nil
			}
			return Entry{Value: value, Err: err, UpdatedAt: c.clock.Now()}, nil
		}
		s.entry = Entry{Value: value, Err: err, UpdatedAt: c.clock.Now()}
		s.filled = true
		events.Cache.Stored(key, gen, err)
		return s.entry, nil
	}
}

func wait(ctx context.Context, ch <-chan singleflight.Result) (any, error) {
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		entry := res.Val.(Entry)
		return entry.Value, entry.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func flightKey(key string, seq uint64) string {
	return key + "#" + strconv.FormatUint(seq, 10)
}
