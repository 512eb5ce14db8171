package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls atomic.Int32
	value any
	err   error
	// started receives once per fetch when set; release gates completion.
	started chan string
	release chan struct{}
}

func (f *countingFetcher) fetch(ctx context.Context, key string) (any, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- key
	}
	if f.release != nil {
		<-f.release
	}
	return f.value, f.err
}

func newTestCache(f *countingFetcher) (*Cache, *FakeClock) {
	clock := NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return New(f.fetch, WithClock(clock)), clock
}

func TestNullKeyIsNoOp(t *testing.T) {
	f := &countingFetcher{value: "x"}
	c, _ := newTestCache(f)

	v, err := c.Read(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, v)
	v, err = c.Revalidate(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, v)
	c.Write("", "ignored")
	assert.Zero(t, f.calls.Load())
	_, ok := c.Peek("")
	assert.False(t, ok)
}

func TestReadsInsideWindowAreDeduplicated(t *testing.T) {
	f := &countingFetcher{value: []string{"general"}}
	c, clock := newTestCache(f)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := c.Read(ctx, "/api/users")
		require.NoError(t, err)
		assert.Equal(t, []string{"general"}, v)
	}
	assert.EqualValues(t, 1, f.calls.Load())

	clock.Advance(DefaultDedupe - time.Millisecond)
	_, _ = c.Read(ctx, "/api/users")
	assert.EqualValues(t, 1, f.calls.Load())

	clock.Advance(time.Millisecond)
	_, _ = c.Read(ctx, "/api/users")
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestConcurrentReadsShareOneFetch(t *testing.T) {
	f := &countingFetcher{value: 42, started: make(chan string, 8), release: make(chan struct{})}
	c, _ := newTestCache(f)

	var wg sync.WaitGroup
	results := make([]any, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Read(context.Background(), "k")
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	<-f.started
	close(f.release)
	wg.Wait()

	assert.EqualValues(t, 1, f.calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestWriteWinsOverInFlightFetch(t *testing.T) {
	f := &countingFetcher{value: "stale", started: make(chan string, 1), release: make(chan struct{})}
	c, _ := newTestCache(f)

	done := make(chan any, 1)
	go func() {
		v, _ := c.Read(context.Background(), "k")
		done <- v
	}()
	<-f.started
	c.Write("k", "fresh")
	close(f.release)

	assert.Equal(t, "fresh", <-done)
	entry, ok := c.Peek("k")
	require.True(t, ok)
	assert.Equal(t, "fresh", entry.Value)
}

func TestErrorsAreCachedWithoutRetry(t *testing.T) {
	boom := errors.New("boom")
	f := &countingFetcher{err: boom}
	c, clock := newTestCache(f)
	ctx := context.Background()

	_, err := c.Read(ctx, "k")
	assert.ErrorIs(t, err, boom)
	_, err = c.Read(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, f.calls.Load())

	entry, ok := c.Peek("k")
	require.True(t, ok)
	assert.ErrorIs(t, entry.Err, boom)

	clock.Advance(DefaultDedupe)
	f.err = nil
	f.value = "ok"
	v, err := c.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestRevalidateIgnoresWindow(t *testing.T) {
	f := &countingFetcher{value: 1}
	c, _ := newTestCache(f)
	ctx := context.Background()

	_, _ = c.Read(ctx, "k")
	f.value = 2
	v, err := c.Revalidate(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.EqualValues(t, 2, f.calls.Load())

	v, _ = c.Read(ctx, "k")
	assert.Equal(t, 2, v)
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestInvalidateWithoutRefetchStoresValue(t *testing.T) {
	f := &countingFetcher{value: "remote"}
	c, _ := newTestCache(f)
	ctx := context.Background()

	_, _ = c.Read(ctx, "/api/users")
	v, err := c.Invalidate(ctx, "/api/users", false, nil)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.EqualValues(t, 1, f.calls.Load())

	v, err = c.Read(ctx, "/api/users")
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.EqualValues(t, 1, f.calls.Load())

	v, err = c.Invalidate(ctx, "/api/users", true, nil)
	require.NoError(t, err)
	assert.Equal(t, "remote", v)
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestCallerCancellationLeavesSharedFetchRunning(t *testing.T) {
	f := &countingFetcher{value: "v", started: make(chan string, 1), release: make(chan struct{})}
	c, _ := newTestCache(f)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := c.Read(ctx, "k")
		errs <- err
	}()
	<-f.started
	cancel()
	assert.ErrorIs(t, <-errs, context.Canceled)

	close(f.release)
	v, err := c.Read(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestZeroWindowAlwaysFetches(t *testing.T) {
	f := &countingFetcher{value: 1}
	c := New(f.fetch, WithDedupe(0))
	_, _ = c.Read(context.Background(), "k")
	_, _ = c.Read(context.Background(), "k")
	assert.EqualValues(t, 2, f.calls.Load())
	assert.Zero(t, c.Dedupe())
}
