// Package lookup provides read-through caches in front of the ephemeris:
// planetary positions by coarse time bucket and solar days by date and place.
package lookup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/groupcache/lru"
	"go.uber.org/zap"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/ephemeris"
	"rectification-lab/internal/observability"
	"rectification-lab/internal/storage"
)

const (
	DefaultBucket     = 15 * time.Minute
	DefaultMaxEntries = 4096

	cacheName = "positions"
)

// Tier names reported to metrics.
const (
	TierMemory   = "memory"
	TierStore    = "store"
	TierProvider = "provider"
)

// PositionCacheOptions configures a PositionCache.
type PositionCacheOptions struct {
	Bucket     time.Duration         // default 15m
	MaxEntries int                   // default 4096
	Store      storage.PositionStore // optional durable tier
	Logger     *zap.Logger
}

// Stats reports how lookups were served.
type Stats struct {
	MemoryHits int64
	StoreHits  int64
	Misses     int64
}

// PositionCache returns planetary positions at the start of the time bucket
// containing an instant. It is safe for concurrent use. Misses are computed
// outside the lock; two goroutines missing the same bucket both compute and
// the later insert wins.
type PositionCache struct {
	provider ephemeris.Provider
	bucketMs int64
	store    storage.PositionStore
	log      *zap.Logger

	mu  sync.Mutex
	lru *lru.Cache

	memoryHits atomic.Int64
	storeHits  atomic.Int64
	misses     atomic.Int64
}

// NewPositionCache creates a cache in front of provider.
func NewPositionCache(provider ephemeris.Provider, opts PositionCacheOptions) *PositionCache {
	if opts.Bucket <= 0 {
		opts.Bucket = DefaultBucket
	}
	if opts.Bucket < time.Millisecond {
		opts.Bucket = time.Millisecond
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &PositionCache{
		provider: provider,
		bucketMs: opts.Bucket.Milliseconds(),
		store:    opts.Store,
		log:      opts.Logger.Named("position_cache"),
		lru:      lru.New(opts.MaxEntries),
	}
}

// BucketStart returns the start of the bucket containing t, in UTC.
func (c *PositionCache) BucketStart(t time.Time) time.Time {
	return time.UnixMilli(c.bucketKey(t)).UTC()
}

func (c *PositionCache) bucketKey(t time.Time) int64 {
	ms := t.UnixMilli()
	q := ms / c.bucketMs
	if ms%c.bucketMs < 0 {
		q--
	}
	return q * c.bucketMs
}

// Positions returns the positions at the start of t's bucket. The returned
// map is a copy owned by the caller.
func (c *PositionCache) Positions(ctx context.Context, t time.Time) (domain.PlanetaryPositions, error) {
	key := c.bucketKey(t)

	c.mu.Lock()
	v, ok := c.lru.Get(key)
	c.mu.Unlock()
	if ok {
		c.memoryHits.Add(1)
		observability.RecordCacheLookup(cacheName, TierMemory)
		return v.(domain.PlanetaryPositions).Clone(), nil
	}

	if c.store != nil {
		snap, err := c.store.Get(ctx, key)
		switch {
		case err == nil:
			c.storeHits.Add(1)
			observability.RecordCacheLookup(cacheName, TierStore)
			c.add(key, snap.Positions)
			return snap.Positions.Clone(), nil
		case !errors.Is(err, storage.ErrNotFound):
			c.log.Warn("position store read failed", zap.Int64("bucket_ms", key), zap.Error(err))
		}
	}

	c.misses.Add(1)
	observability.RecordCacheLookup(cacheName, TierProvider)

	start := time.Now()
	pos, err := c.provider.PlanetaryLongitudes(time.UnixMilli(key).UTC())
	observability.RecordEphemerisCall("planetary_longitudes", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	c.add(key, pos)
	if c.store != nil {
		snap := &domain.PositionSnapshot{BucketStartMs: key, Positions: pos.Clone()}
		if err := c.store.InsertBulk(ctx, []*domain.PositionSnapshot{snap}); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			c.log.Warn("position store write failed", zap.Int64("bucket_ms", key), zap.Error(err))
		}
	}
	return pos.Clone(), nil
}

func (c *PositionCache) add(key int64, pos domain.PlanetaryPositions) {
	c.mu.Lock()
	c.lru.Add(key, pos.Clone())
	n := c.lru.Len()
	c.mu.Unlock()
	observability.UpdateCacheEntries(cacheName, n)
}

// Stats returns lookup counters.
func (c *PositionCache) Stats() Stats {
	return Stats{
		MemoryHits: c.memoryHits.Load(),
		StoreHits:  c.storeHits.Load(),
		Misses:     c.misses.Load(),
	}
}

// Len returns the number of in-memory entries.
func (c *PositionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Bucket returns the bucket width.
func (c *PositionCache) Bucket() time.Duration {
	return time.Duration(c.bucketMs) * time.Millisecond
}
