package cache

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies a cached remote response: the endpoint plus its normalized parameters.
type Key struct {
	Endpoint string
	Params   url.Values
}

// NewKey builds a Key. Params may be nil.
func NewKey(endpoint string, params url.Values) Key {
	return Key{Endpoint: endpoint, Params: params}
}

// String returns the canonical form of the key. url.Values.Encode sorts by name,
// so parameter insertion order does not matter.
func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Endpoint
	}
	return k.Endpoint + "?" + k.Params.Encode()
}

// entry holds one fetched value and when it was fetched.
type entry struct {
	value     any
	fetchedAt time.Time
	ttl       time.Duration
}

func (e *entry) live(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.fetchedAt) < e.ttl
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// Cache is a concurrency-safe, process-local TTL cache for remote responses.
// Entries are never evicted for size; an entry older than its TTL is treated as absent.
type Cache struct {
	mu   sync.RWMutex
	data map[string]*entry

	// sf collapses concurrent misses on the same key into one fetch.
	sf singleflight.Group

	now func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		data: make(map[string]*entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// lookup returns the stored value for key if it is still live.
func (c *Cache) lookup(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ent, ok := c.data[key]
	if !ok || !ent.live(c.now()) {
		return nil, false
	}
	return ent.value, true
}

func (c *Cache) store(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &entry{
		value:     value,
		fetchedAt: c.now(),
		ttl:       ttl,
	}
}

// FetchedAt reports when the entry for key was last written.
func (c *Cache) FetchedAt(key Key) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ent, ok := c.data[key.String()]
	if !ok {
		return time.Time{}, false
	}
	return ent.fetchedAt, true
}

// Sweep removes every entry whose TTL has elapsed and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, ent := range c.data {
		if !ent.live(now) {
			delete(c.data, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, live or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Stats returns hit/miss counters and the current entry count.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.Len(),
	}
}

// GetOrFetch returns the live value stored under key without calling fetch.
// Otherwise it calls fetch, stores the result stamped with the current time and returns it.
// When fetch fails nothing is written: a previous (possibly stale) entry stays as it was.
// A ttl <= 0 stores the value but never serves it again.
func GetOrFetch[T any](ctx context.Context, c *Cache, key Key, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	k := key.String()

	if v, ok := c.lookup(k); ok {
		if typed, ok := v.(T); ok {
			c.hits.Add(1)
			return typed, nil
		}
	}

	c.misses.Add(1)

	v, err, _ := c.sf.Do(k, func() (any, error) {
		// Another flight may have filled the entry while we were waiting.
		if v, ok := c.lookup(k); ok {
			if _, ok := v.(T); ok {
				return v, nil
			}
		}

		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(k, fetched, ttl)
		return fetched, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, errTypeMismatch
	}
	return typed, nil
}

// Wrap turns fetch into a memoizing function bound to key and ttl.
func Wrap[T any](c *Cache, key Key, ttl time.Duration, fetch func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return GetOrFetch(ctx, c, key, ttl, fetch)
	}
}
