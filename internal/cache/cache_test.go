package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(clock *fakeClock) *Cache[string, int] {
	return New[string, int](Options{
		Size:      8,
		FreshFor:  5 * time.Minute,
		RetainFor: 10 * time.Minute,
		Logger:    zerolog.Nop(),
		Now:       clock.Now,
	})
}

func countingLoader(calls *int32, value int) Loader[int] {
	return func(ctx context.Context) (int, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

func TestGet_FreshEntryServedWithoutLoad(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := newTestCache(clock)
	var calls int32

	v, err := c.Get(context.Background(), "top:1", countingLoader(&calls, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.Advance(4 * time.Minute)
	v, err = c.Get(context.Background(), "top:1", countingLoader(&calls, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGet_StaleEntryServedAndRevalidated(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := newTestCache(clock)
	var calls int32

	_, err := c.Get(context.Background(), "k", countingLoader(&calls, 1))
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	v, err := c.Get(context.Background(), "k", countingLoader(&calls, 2))
	require.NoError(t, err)
	assert.Equal(t, 1, v, "stale value is returned immediately")

	require.Eventually(t, func() bool {
		got, fresh, ok := c.Peek("k")
		return ok && fresh && got == 2
	}, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGet_FailedRevalidationKeepsStaleValue(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := newTestCache(clock)
	var calls int32

	_, err := c.Get(context.Background(), "k", countingLoader(&calls, 7))
	require.NoError(t, err)

	clock.Advance(7 * time.Minute)
	failing := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, errors.New("upstream down")
	}
	v, err := c.Get(context.Background(), "k", failing)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 2 }, time.Second, 5*time.Millisecond)
	got, fresh, ok := c.Peek("k")
	assert.True(t, ok)
	assert.False(t, fresh)
	assert.Equal(t, 7, got)
}

func TestGet_ExpiredEntryIsReloaded(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := newTestCache(clock)
	var calls int32

	_, err := c.Get(context.Background(), "k", countingLoader(&calls, 1))
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	v, err := c.Get(context.Background(), "k", countingLoader(&calls, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestGet_ErrorsAreNotCached(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := newTestCache(clock)
	boom := errors.New("boom")

	_, err := c.Get(context.Background(), "k", func(ctx context.Context) (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	var calls int32
	v, err := c.Get(context.Background(), "k", countingLoader(&calls, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestGet_ConcurrentMissesShareOneLoad(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := newTestCache(clock)
	var calls int32
	release := make(chan struct{})

	loader := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background(), "k", loader)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestGet_CanceledCallerDoesNotFailSharedLoad(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := newTestCache(clock)
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	loaderErr := make(chan error, 1)

	loader := func(ctx context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		loaderErr <- ctx.Err()
		return 7, nil
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Get(first, "k", loader)
		firstErr <- err
	}()
	<-started

	type result struct {
		v   int
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := c.Get(context.Background(), "k", loader)
		second <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller kept waiting on the shared load")
	}

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 7, res.v)
	assert.NoError(t, <-loaderErr)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	v, err := c.Get(context.Background(), "k", countingLoader(&calls, 99))
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestNew_AppliesDefaults(t *testing.T) {
	c := New[int, string](Options{})
	assert.Equal(t, DefaultFreshFor, c.freshFor)
	assert.Equal(t, DefaultRetainFor, c.retainFor)
}
