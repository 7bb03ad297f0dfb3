package svgrender

import (
	"image"
	"sync"
	"sync/atomic"
	"testing"
)

func newPair(size int) TilePair {
	return TilePair{
		Fill:   image.NewAlpha(image.Rect(0, 0, size, size)),
		Stroke: image.NewAlpha(image.Rect(0, 0, size, size)),
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewTileCache()
	pair := newPair(2)
	if !c.Insert(42, pair) {
		t.Fatal("insert into empty cache failed")
	}

	calls := 0
	got, hit := c.GetOrRasterize(42, func() TilePair {
		calls++
		return newPair(1)
	})
	if !hit || calls != 0 {
		t.Errorf("hit=%t, rasterize called %d times", hit, calls)
	}
	if got.Fill != pair.Fill || got.Stroke != pair.Stroke {
		t.Error("lookup returned a different pair")
	}
}

func TestCacheMiss(t *testing.T) {
	c := NewTileCache()
	if _, ok := c.Lookup(1); ok {
		t.Error("empty cache reported a hit")
	}

	pair := newPair(1)
	got, hit := c.GetOrRasterize(1, func() TilePair { return pair })
	if hit || got != pair {
		t.Error("miss did not return the rasterized pair")
	}
	if got, ok := c.Lookup(1); !ok || got != pair {
		t.Error("rasterized pair was not stored")
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 2 || s.Entries != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestCacheNoReplace(t *testing.T) {
	c := NewTileCache()
	first, second := newPair(1), newPair(1)
	c.Insert(5, first)
	if c.Insert(5, second) {
		t.Error("existing entry was replaced")
	}
	if got, _ := c.Lookup(5); got != first {
		t.Error("lookup does not return the first pair")
	}
}

func TestCacheCapacity(t *testing.T) {
	c := NewTileCache()
	if c.Cap() != DefaultCacheSize {
		t.Fatalf("capacity %d, want %d", c.Cap(), DefaultCacheSize)
	}

	pair := newPair(1)
	for k := range DefaultCacheSize {
		if !c.Insert(TileKey(k), pair) {
			t.Fatalf("insert %d failed", k)
		}
	}
	if c.Insert(DefaultCacheSize, pair) {
		t.Error("insert into full cache succeeded")
	}
	if n := c.Len(); n != DefaultCacheSize {
		t.Errorf("cache has %d entries, want %d", n, DefaultCacheSize)
	}
	if _, ok := c.Lookup(DefaultCacheSize); ok {
		t.Error("rejected key is present")
	}

	// a full cache degrades to rasterizing on every call
	calls := 0
	for range 3 {
		c.GetOrRasterize(DefaultCacheSize+1, func() TilePair {
			calls++
			return pair
		})
	}
	if calls != 3 {
		t.Errorf("rasterize called %d times, want 3", calls)
	}
	if got := c.Stats().Rejected; got != 4 {
		t.Errorf("%d rejected insertions, want 4", got)
	}
}

func TestCacheSizeOption(t *testing.T) {
	c := NewTileCache(WithCacheSize(2))
	for k := range 5 {
		c.Insert(TileKey(k), newPair(1))
	}
	if c.Len() != 2 {
		t.Errorf("cache has %d entries, want 2", c.Len())
	}
}

func TestCacheConcurrentInsert(t *testing.T) {
	for range 50 {
		c := NewTileCache()
		a, b := newPair(1), newPair(1)

		var wg sync.WaitGroup
		for _, p := range []TilePair{a, b} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Insert(9, p)
			}()
		}
		wg.Wait()

		got, ok := c.Lookup(9)
		if !ok {
			t.Fatal("no entry after concurrent inserts")
		}
		if got != a && got != b {
			t.Fatal("stored pair is a mixture of the inserted pairs")
		}
	}
}

func TestCacheRasterizeOnce(t *testing.T) {
	c := NewTileCache()
	var calls atomic.Int32
	pair := newPair(1)

	var wg sync.WaitGroup
	results := make([]TilePair, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = c.GetOrRasterize(7, func() TilePair {
				calls.Add(1)
				return pair
			})
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("rasterize called %d times, want 1", n)
	}
	for i, r := range results {
		if r != pair {
			t.Errorf("goroutine %d got a different pair", i)
		}
	}
}

func TestParseCacheMode(t *testing.T) {
	for _, m := range []CacheMode{CacheSnapshot, CacheShared, CacheIsolated} {
		got, err := ParseCacheMode(m.String())
		if err != nil || got != m {
			t.Errorf("%v: got %v, %v", m, got, err)
		}
	}
	if _, err := ParseCacheMode("lru"); err == nil {
		t.Error("unknown mode accepted")
	}
}
