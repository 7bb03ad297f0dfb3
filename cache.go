// seehuhn.de/go/svgrender - path attributes and raster tile caching
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package svgrender

import (
	"fmt"
	"image"
	"maps"
	"sync"
	"sync/atomic"
)

// DefaultCacheSize is the maximum number of tile pairs a [TileCache]
// holds unless configured otherwise. The number of distinct tiles actually
// stored also depends on the sampling rate.
const DefaultCacheSize = 4096

// TilePair holds the coverage tiles for the two rendering passes of one
// path. Either tile may be nil if the pass paints nothing. Tiles must not
// be modified once they are stored in a cache.
type TilePair struct {
	Fill   *image.Alpha
	Stroke *image.Alpha
}

// CacheMode selects how a [TileCache] is passed on when a
// [PathAttributes] record is cloned.
type CacheMode int

const (
	// CacheSnapshot gives every clone a copy of the entries present at the
	// time of cloning, while all clones keep using the lock of the
	// original. Insertions made after cloning are not visible to the
	// other copies.
	CacheSnapshot CacheMode = iota

	// CacheShared makes all clones use the same cache, so that tiles
	// rasterized through one copy are reused by all others.
	CacheShared

	// CacheIsolated gives every clone a copy of the entries together with
	// a lock of its own.
	CacheIsolated
)

func (m CacheMode) String() string {
	switch m {
	case CacheSnapshot:
		return "snapshot"
	case CacheShared:
		return "shared"
	case CacheIsolated:
		return "isolated"
	default:
		return fmt.Sprintf("CacheMode(%d)", int(m))
	}
}

// ParseCacheMode converts the output of [CacheMode.String] back to a
// CacheMode.
func ParseCacheMode(s string) (CacheMode, error) {
	switch s {
	case "snapshot", "":
		return CacheSnapshot, nil
	case "shared":
		return CacheShared, nil
	case "isolated":
		return CacheIsolated, nil
	}
	return 0, fmt.Errorf("unknown cache mode %q", s)
}

// TileCache maps quantized transforms to previously rasterized tile pairs.
//
// The cache has a fixed capacity and never evicts: once it is full, new
// entries are silently dropped and every further miss is rasterized again
// ("insert if room"). Entries are never replaced.
//
// All methods are safe for concurrent use.
type TileCache struct {
	mu           *sync.Mutex
	entries      map[TileKey]TilePair
	capacity     int
	samplingRate int
	mode         CacheMode

	hits     atomic.Uint64
	misses   atomic.Uint64
	rejected atomic.Uint64
	fullOnce sync.Once
}

// CacheOption configures a [TileCache].
type CacheOption func(*TileCache)

// WithCacheSize sets the maximum number of entries. Values ≤ 0 select
// [DefaultCacheSize].
func WithCacheSize(n int) CacheOption {
	return func(c *TileCache) {
		if n <= 0 {
			n = DefaultCacheSize
		}
		c.capacity = n
	}
}

// WithSamplingRate sets the number of quantization steps per device pixel
// used to derive cache keys. Values ≤ 0 select [DefaultSamplingRate].
func WithSamplingRate(rate int) CacheOption {
	return func(c *TileCache) {
		if rate <= 0 {
			rate = DefaultSamplingRate
		}
		c.samplingRate = rate
	}
}

// WithCacheMode sets how the cache is passed on to clones of a record.
func WithCacheMode(mode CacheMode) CacheOption {
	return func(c *TileCache) {
		c.mode = mode
	}
}

// NewTileCache returns an empty cache with a fresh lock.
func NewTileCache(opts ...CacheOption) *TileCache {
	c := &TileCache{
		mu:           &sync.Mutex{},
		entries:      make(map[TileKey]TilePair),
		capacity:     DefaultCacheSize,
		samplingRate: DefaultSamplingRate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// derive returns the cache to be used by a clone of the record owning c.
func (c *TileCache) derive() *TileCache {
	if c.mode == CacheShared {
		return c
	}

	c.mu.Lock()
	entries := maps.Clone(c.entries)
	c.mu.Unlock()

	mu := c.mu
	if c.mode == CacheIsolated {
		mu = &sync.Mutex{}
	}
	return &TileCache{
		mu:           mu,
		entries:      entries,
		capacity:     c.capacity,
		samplingRate: c.samplingRate,
		mode:         c.mode,
	}
}

// Lookup returns the tile pair stored under key.
func (c *TileCache) Lookup(key TileKey) (TilePair, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(key)
}

func (c *TileCache) lookup(key TileKey) (TilePair, bool) {
	pair, ok := c.entries[key]
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return pair, ok
}

// Insert stores pair under key if the cache has room and key is not yet
// present. It reports whether the pair was stored. Inserting into a full
// cache is a no-op.
func (c *TileCache) Insert(key TileKey, pair TilePair) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insert(key, pair)
}

func (c *TileCache) insert(key TileKey, pair TilePair) bool {
	if _, exists := c.entries[key]; exists {
		return false
	}
	if len(c.entries) >= c.capacity {
		c.rejected.Add(1)
		c.fullOnce.Do(func() {
			Logger().Info("tile cache full, new tiles are no longer retained",
				"capacity", c.capacity)
		})
		return false
	}
	c.entries[key] = pair
	return true
}

// GetOrRasterize returns the pair stored under key. On a miss it calls
// rasterize and offers the result to the cache. Lookup, rasterization and
// insertion happen as one critical section, so concurrent callers never
// rasterize the same key twice while the cache has room. The second return
// value reports whether the pair came from the cache.
func (c *TileCache) GetOrRasterize(key TileKey, rasterize func() TilePair) (TilePair, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if pair, ok := c.lookup(key); ok {
		return pair, true
	}
	pair := rasterize()
	c.insert(key, pair)
	return pair, false
}

// Len returns the number of stored entries.
func (c *TileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cap returns the maximum number of entries.
func (c *TileCache) Cap() int {
	return c.capacity
}

// SamplingRate returns the number of quantization steps per device pixel.
func (c *TileCache) SamplingRate() int {
	return c.samplingRate
}

// Mode returns the cloning policy of the cache.
func (c *TileCache) Mode() CacheMode {
	return c.mode
}

// SharesLockWith reports whether c and other are guarded by the same lock.
func (c *TileCache) SharesLockWith(other *TileCache) bool {
	return c.mu == other.mu
}

// CacheStats summarizes the activity of a cache.
type CacheStats struct {
	Entries  int
	Hits     uint64
	Misses   uint64
	Rejected uint64 // insertions dropped because the cache was full
}

// Add returns the element-wise sum of s and other.
func (s CacheStats) Add(other CacheStats) CacheStats {
	return CacheStats{
		Entries:  s.Entries + other.Entries,
		Hits:     s.Hits + other.Hits,
		Misses:   s.Misses + other.Misses,
		Rejected: s.Rejected + other.Rejected,
	}
}

// Stats returns a snapshot of the cache statistics.
func (c *TileCache) Stats() CacheStats {
	return CacheStats{
		Entries:  c.Len(),
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Rejected: c.rejected.Load(),
	}
}
