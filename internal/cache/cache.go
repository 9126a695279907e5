// Package cache provides a bounded stale-while-revalidate cache.
//
// An entry younger than the freshness window is served as is. An entry past
// freshness but within retention is served immediately while a single
// background load refreshes it; if that refresh fails the stale value keeps
// being served until retention lapses. Load errors are never cached.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Default windows shared by the provider transport and the query layer.
const (
	DefaultFreshFor  = 5 * time.Minute
	DefaultRetainFor = 10 * time.Minute
	DefaultSize      = 512
)

// Options configures a Cache.
type Options struct {
	Size      int
	FreshFor  time.Duration
	RetainFor time.Duration
	Logger    zerolog.Logger
	// Now overrides the clock; tests use it to age entries.
	Now func() time.Time
}

// Loader produces a fresh value for a key.
type Loader[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Cache is safe for concurrent use.
type Cache[K comparable, V any] struct {
	entries   *expirable.LRU[K, entry[V]]
	group     singleflight.Group
	freshFor  time.Duration
	retainFor time.Duration
	now       func() time.Time
	logger    zerolog.Logger

	mu         sync.Mutex
	refreshing map[K]struct{}
}

// New constructs a Cache, applying defaults to zero-valued options.
func New[K comparable, V any](opts Options) *Cache[K, V] {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.FreshFor <= 0 {
		opts.FreshFor = DefaultFreshFor
	}
	if opts.RetainFor < opts.FreshFor {
		opts.RetainFor = DefaultRetainFor
		if opts.RetainFor < opts.FreshFor {
			opts.RetainFor = opts.FreshFor
		}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache[K, V]{
		entries:    expirable.NewLRU[K, entry[V]](opts.Size, nil, opts.RetainFor),
		freshFor:   opts.FreshFor,
		retainFor:  opts.RetainFor,
		now:        opts.Now,
		logger:     opts.Logger,
		refreshing: make(map[K]struct{}),
	}
}

// Get returns the cached value for key, loading it with load on a miss.
// Concurrent misses for the same key share one load.
func (c *Cache[K, V]) Get(ctx context.Context, key K, load Loader[V]) (V, error) {
	if e, ok := c.entries.Get(key); ok {
		age := c.now().Sub(e.fetchedAt)
		switch {
		case age < c.freshFor:
			return e.value, nil
		case age < c.retainFor:
			c.revalidate(ctx, key, load)
			return e.value, nil
		default:
			c.entries.Remove(key)
		}
	}
	return c.load(ctx, key, load)
}

// Peek returns the cached value without loading, along with whether it is
// still fresh.
func (c *Cache[K, V]) Peek(key K) (value V, fresh bool, ok bool) {
	e, ok := c.entries.Peek(key)
	if !ok {
		return value, false, false
	}
	age := c.now().Sub(e.fetchedAt)
	if age >= c.retainFor {
		return value, false, false
	}
	return e.value, age < c.freshFor, true
}

// Set stores value as freshly fetched.
func (c *Cache[K, V]) Set(key K, value V) {
	c.entries.Add(key, entry[V]{value: value, fetchedAt: c.now()})
}

// Len reports the number of retained entries.
func (c *Cache[K, V]) Len() int {
	return c.entries.Len()
}

// load runs a shared flight for key. The loader gets a context detached from
// any single caller's cancellation so one departing caller cannot fail the
// others; each caller still stops waiting when its own ctx is done.
func (c *Cache[K, V]) load(ctx context.Context, key K, load Loader[V]) (V, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey(key), func() (interface{}, error) {
		value, err := load(detached)
		if err != nil {
			return value, err
		}
		c.Set(key, value)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

func (c *Cache[K, V]) revalidate(ctx context.Context, key K, load Loader[V]) {
	c.mu.Lock()
	if _, busy := c.refreshing[key]; busy {
		c.mu.Unlock()
		return
	}
	c.refreshing[key] = struct{}{}
	c.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.refreshing, key)
			c.mu.Unlock()
		}()
		if _, err := c.load(bg, key, load); err != nil {
			c.logger.Warn().Err(err).Interface("key", key).Msg("cache: background revalidation failed, serving stale entry")
		}
	}()
}

func flightKey[K comparable](key K) string {
	return fmt.Sprintf("%v", key)
}
