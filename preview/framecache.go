package preview

import (
	"math"
	"sync"
	"sync/atomic"
)

// DefaultCacheMB is the default frame cache limit in megabytes.
const DefaultCacheMB = 256

type frameKey struct {
	version uint64
	index   int
}

// FrameCache holds rendered frames up to a memory limit.
//
// When the limit is exceeded, the frames farthest from the playhead are
// evicted first. The most recently stored frame is never evicted, so a
// single frame larger than the limit is still cached. Frames leaving the
// cache are passed to the OnRelease hook, if set.
//
// FrameCache is safe for concurrent use.
type FrameCache struct {
	mu       sync.Mutex
	frames   map[frameKey]*Frame
	bytes    int
	limit    int
	playhead float64
	release  func(*Frame)

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewFrameCache creates a cache limited to limitMB megabytes.
// A limit of 0 means unlimited.
func NewFrameCache(limitMB int) *FrameCache {
	return &FrameCache{
		frames: make(map[frameKey]*Frame),
		limit:  max(limitMB, 0) * 1024 * 1024,
	}
}

// OnRelease sets fn to receive every frame removed from the cache by
// eviction, replacement, Purge or Clear. fn runs with the cache locked and
// must not call back into it.
func (c *FrameCache) OnRelease(fn func(*Frame)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.release = fn
}

func (c *FrameCache) releaseLocked(f *Frame) {
	if c.release != nil {
		c.release(f)
	}
}

// Get returns the frame at index for a scene version.
func (c *FrameCache) Get(version uint64, index int) (*Frame, bool) {
	c.mu.Lock()
	f, ok := c.frames[frameKey{version, index}]
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return f, true
}

// Put stores f, replacing any frame with the same version and index, then
// enforces the limit.
func (c *FrameCache) Put(f *Frame) {
	if f == nil {
		return
	}
	key := frameKey{f.SceneVersion, f.Index}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.frames[key]; ok {
		c.bytes -= old.Bytes()
		if old != f {
			c.releaseLocked(old)
		}
	}
	c.frames[key] = f
	c.bytes += f.Bytes()
	c.enforceLocked(key)
}

// SetPlayhead moves the eviction center to seconds and enforces the limit.
func (c *FrameCache) SetPlayhead(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playhead = seconds
	c.enforceLocked(frameKey{index: -1})
}

// Purge removes every frame whose scene version is not keep.
func (c *FrameCache) Purge(keep uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, f := range c.frames {
		if k.version != keep {
			c.bytes -= f.Bytes()
			delete(c.frames, k)
			c.releaseLocked(f)
		}
	}
}

// Clear removes all frames.
func (c *FrameCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.frames {
		c.releaseLocked(f)
	}
	clear(c.frames)
	c.bytes = 0
}

// Len returns the number of cached frames.
func (c *FrameCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// Bytes returns the memory held by cached frames.
func (c *FrameCache) Bytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

// enforceLocked evicts frames farthest from the playhead until the cache
// fits. keep is exempt. Caller must hold c.mu.
func (c *FrameCache) enforceLocked(keep frameKey) {
	if c.limit == 0 {
		return
	}
	for c.bytes > c.limit && len(c.frames) > 1 {
		var (
			victim frameKey
			found  bool
			far    = -1.0
		)
		for k, f := range c.frames {
			if k == keep {
				continue
			}
			d := math.Abs(f.Time - c.playhead)
			if d > far || (d == far && k.index > victim.index) {
				victim, far, found = k, d, true
			}
		}
		if !found {
			return
		}
		f := c.frames[victim]
		c.bytes -= f.Bytes()
		delete(c.frames, victim)
		c.evictions.Add(1)
		c.releaseLocked(f)
	}
}

// Stats contains frame cache statistics.
type Stats struct {
	// Len is the current number of frames.
	Len int
	// Bytes is the memory held by cached frames.
	Bytes int
	// Limit is the memory limit in bytes, or 0 when unlimited.
	Limit int
	// Hits is the number of cache hits.
	Hits uint64
	// Misses is the number of cache misses.
	Misses uint64
	// HitRate is the ratio of hits to total lookups (0.0 to 1.0).
	HitRate float64
	// Evictions is the number of frames evicted to honor the limit.
	Evictions uint64
}

// Stats returns current cache statistics.
func (c *FrameCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Len:       len(c.frames),
		Bytes:     c.bytes,
		Limit:     c.limit,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: c.evictions.Load(),
	}
}

// ResetStats resets all statistics counters to zero.
func (c *FrameCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}
