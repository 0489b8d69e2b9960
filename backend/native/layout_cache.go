//go:build !nogpu

package native

import (
	"encoding/binary"
	"hash/fnv"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gogpu/sccl/gpucore"
	"github.com/gogpu/wgpu/hal"
)

// layoutCache shares HAL bind group layouts between gpucore layouts with
// identical entries. Shaders compiled from the same binding declarations
// then hold one HAL object per distinct group shape.
//
// Every CreateBindGroupLayout still returns a fresh gpucore ID; only the
// HAL object is shared and reference counted. Labels take no part in the
// key, so a shared object keeps the label of its first creator.
//
// Thread Safety:
// layoutCache is safe for concurrent use. The HAL create call runs under the
// cache lock so that two callers never create the same shape twice.
type layoutCache struct {
	mu    sync.Mutex
	byKey map[uint64][]*sharedLayout

	hits   atomic.Uint64
	misses atomic.Uint64
}

// sharedLayout is one HAL layout and the number of gpucore IDs using it.
type sharedLayout struct {
	key     uint64
	entries []gpucore.BindGroupLayoutEntry
	layout  hal.BindGroupLayout
	refs    int
}

func newLayoutCache() *layoutCache {
	return &layoutCache{byKey: make(map[uint64][]*sharedLayout)}
}

// layoutKey hashes binding indices and types with FNV-1a.
func layoutKey(entries []gpucore.BindGroupLayoutEntry) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, e := range entries {
		binary.LittleEndian.PutUint32(buf[:4], e.Binding)
		binary.LittleEndian.PutUint32(buf[4:], uint32(e.Type))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// acquire returns the shared layout for entries, calling create on a miss.
func (c *layoutCache) acquire(entries []gpucore.BindGroupLayoutEntry, create func() (hal.BindGroupLayout, error)) (*sharedLayout, error) {
	key := layoutKey(entries)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.byKey[key] {
		if slices.Equal(s.entries, entries) {
			s.refs++
			c.hits.Add(1)
			return s, nil
		}
	}

	l, err := create()
	if err != nil {
		return nil, err
	}
	c.misses.Add(1)

	s := &sharedLayout{
		key:     key,
		entries: slices.Clone(entries),
		layout:  l,
		refs:    1,
	}
	c.byKey[key] = append(c.byKey[key], s)
	return s, nil
}

// release drops one reference and reports whether it was the last one.
// The caller destroys the HAL object when release returns true.
func (c *layoutCache) release(s *sharedLayout) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s.refs--
	if s.refs > 0 {
		return false
	}

	bucket := c.byKey[s.key]
	if i := slices.Index(bucket, s); i >= 0 {
		bucket = slices.Delete(bucket, i, i+1)
	}
	if len(bucket) == 0 {
		delete(c.byKey, s.key)
	} else {
		c.byKey[s.key] = bucket
	}
	return true
}

// Len returns the number of distinct HAL layouts alive.
func (c *layoutCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, bucket := range c.byKey {
		n += len(bucket)
	}
	return n
}

// LayoutCacheStats reports how often CreateBindGroupLayout reused an
// existing HAL layout (hits) or created a new one (misses).
type LayoutCacheStats struct {
	Hits   uint64
	Misses uint64
	Live   int
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s LayoutCacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
