package cache

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2022, 12, 15, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func countingFetch(calls *int32, value string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		atomic.AddInt32(calls, 1)
		return value, nil
	}
}

func TestKeyStringIsOrderIndependent(t *testing.T) {
	a := url.Values{}
	a.Set("sol", "1000")
	a.Set("camera", "FHAZ")

	b := url.Values{}
	b.Set("camera", "FHAZ")
	b.Set("sol", "1000")

	ka := NewKey("photos/curiosity", a)
	kb := NewKey("photos/curiosity", b)
	if ka.String() != kb.String() {
		t.Fatalf("expected equal keys, got %q and %q", ka.String(), kb.String())
	}
	if got := NewKey("weather", nil).String(); got != "weather" {
		t.Fatalf("expected bare endpoint key, got %q", got)
	}
}

func TestGetOrFetchWithinTTLFetchesOnce(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))
	key := NewKey("weather", nil)

	var calls int32
	fetch := countingFetch(&calls, "payload")

	for i := 0; i < 3; i++ {
		v, err := GetOrFetch(context.Background(), c, key, time.Hour, fetch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "payload" {
			t.Fatalf("expected payload, got %q", v)
		}
		clock.Advance(10 * time.Minute)
	}

	if calls != 1 {
		t.Fatalf("expected 1 fetch within TTL, got %d", calls)
	}

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Entries != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestGetOrFetchAfterExpiryRefetchesAndRestamps(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))
	key := NewKey("weather", nil)

	var calls int32
	if _, err := GetOrFetch(context.Background(), c, key, time.Hour, countingFetch(&calls, "old")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _ := c.FetchedAt(key)

	clock.Advance(time.Hour)

	v, err := GetOrFetch(context.Background(), c, key, time.Hour, countingFetch(&calls, "new"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "new" {
		t.Fatalf("expected refreshed value, got %q", v)
	}
	if calls != 2 {
		t.Fatalf("expected exactly one new fetch after expiry, got %d total", calls)
	}

	second, _ := c.FetchedAt(key)
	if !second.After(first) {
		t.Fatalf("expected fetchedAt to move forward, first=%v second=%v", first, second)
	}
}

func TestGetOrFetchErrorLeavesEntryUntouched(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))
	key := NewKey("photos/curiosity", nil)

	var calls int32
	if _, err := GetOrFetch(context.Background(), c, key, time.Hour, countingFetch(&calls, "good")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, _ := c.FetchedAt(key)

	clock.Advance(2 * time.Hour)

	boom := errors.New("rate limited")
	_, err := GetOrFetch(context.Background(), c, key, time.Hour, func(context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}

	after, ok := c.FetchedAt(key)
	if !ok || !after.Equal(before) {
		t.Fatalf("expected entry to stay as before; before=%v after=%v ok=%v", before, after, ok)
	}
}

func TestGetOrFetchErrorOnEmptyCacheWritesNothing(t *testing.T) {
	c := New()
	key := NewKey("weather", nil)

	_, err := GetOrFetch(context.Background(), c, key, time.Hour, func(context.Context) ([]int, error) {
		return nil, errors.New("network down")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if c.Len() != 0 {
		t.Fatalf("expected no entries, got %d", c.Len())
	}
}

func TestGetOrFetchNonPositiveTTLAlwaysFetches(t *testing.T) {
	c := New()
	key := NewKey("weather", nil)

	var calls int32
	for i := 0; i < 2; i++ {
		if _, err := GetOrFetch(context.Background(), c, key, 0, countingFetch(&calls, "v")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected 2 fetches with zero TTL, got %d", calls)
	}
}

func TestGetOrFetchCollapsesConcurrentMisses(t *testing.T) {
	c := New()
	key := NewKey("weather", nil)

	var calls int32
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := GetOrFetch(context.Background(), c, key, time.Hour, fetch); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Fatalf("expected concurrent misses to share one fetch, got %d", calls)
	}
}

func TestWrapMemoizes(t *testing.T) {
	c := New()
	var calls int32
	get := Wrap(c, NewKey("weather", nil), time.Hour, countingFetch(&calls, "v"))

	for i := 0; i < 3; i++ {
		if _, err := get(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", calls)
	}
}

func TestSweepRemovesExpiredEntries(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	var calls int32
	_, _ = GetOrFetch(context.Background(), c, NewKey("short", nil), time.Minute, countingFetch(&calls, "a"))
	_, _ = GetOrFetch(context.Background(), c, NewKey("long", nil), time.Hour, countingFetch(&calls, "b"))

	clock.Advance(5 * time.Minute)

	if removed := c.Sweep(); removed != 1 {
		t.Fatalf("expected 1 entry removed, got %d", removed)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry left, got %d", c.Len())
	}
	if _, ok := c.FetchedAt(NewKey("long", nil)); !ok {
		t.Fatal("expected live entry to survive the sweep")
	}
}
