package lookup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rectification-lab/internal/domain"
	"rectification-lab/internal/ephemeris/stub"
	"rectification-lab/internal/storage/memory"
)

var epoch = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestPositionCache_SameBucketComputesOnce(t *testing.T) {
	p := stub.New(epoch)
	c := NewPositionCache(p, PositionCacheOptions{})
	ctx := context.Background()

	a, err := c.Positions(ctx, epoch.Add(10*time.Hour+1*time.Minute))
	require.NoError(t, err)
	b, err := c.Positions(ctx, epoch.Add(10*time.Hour+14*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, int64(1), p.LongitudeCalls())
	assert.Equal(t, Stats{MemoryHits: 1, Misses: 1}, c.Stats())

	_, err = c.Positions(ctx, epoch.Add(10*time.Hour+15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.LongitudeCalls())
}

func TestPositionCache_ReturnsBucketStartPositions(t *testing.T) {
	p := stub.New(epoch)
	c := NewPositionCache(p, PositionCacheOptions{})

	got, err := c.Positions(context.Background(), epoch.Add(10*time.Hour+7*time.Minute))
	require.NoError(t, err)

	want, _ := p.PlanetaryLongitudes(epoch.Add(10 * time.Hour))
	for _, planet := range domain.Planets {
		assert.InDelta(t, want[planet], got[planet], 1e-9, string(planet))
	}
}

func TestPositionCache_BucketStart(t *testing.T) {
	c := NewPositionCache(stub.New(epoch), PositionCacheOptions{})

	ist := time.FixedZone("IST", 5*3600+1800)
	got := c.BucketStart(time.Date(2024, 3, 1, 10, 7, 30, 0, ist))
	assert.Equal(t, time.Date(2024, 3, 1, 4, 30, 0, 0, time.UTC), got)

	// Floors before the Unix epoch.
	got = c.BucketStart(time.Date(1960, 1, 1, 0, 7, 0, 0, time.UTC))
	assert.Equal(t, time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestPositionCache_CustomBucket(t *testing.T) {
	c := NewPositionCache(stub.New(epoch), PositionCacheOptions{Bucket: time.Hour})
	assert.Equal(t, time.Hour, c.Bucket())
	assert.Equal(t, epoch.Add(3*time.Hour), c.BucketStart(epoch.Add(3*time.Hour+59*time.Minute)))
}

func TestPositionCache_ReturnsCopies(t *testing.T) {
	c := NewPositionCache(stub.New(epoch), PositionCacheOptions{})
	ctx := context.Background()

	first, err := c.Positions(ctx, epoch)
	require.NoError(t, err)
	sun := first[domain.Sun]
	first[domain.Sun] = 999

	second, err := c.Positions(ctx, epoch)
	require.NoError(t, err)
	assert.Equal(t, sun, second[domain.Sun])
}

func TestPositionCache_Eviction(t *testing.T) {
	p := stub.New(epoch)
	c := NewPositionCache(p, PositionCacheOptions{MaxEntries: 2})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.Positions(ctx, epoch.Add(time.Duration(i)*DefaultBucket))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())

	// The oldest bucket was evicted and must be recomputed.
	_, err := c.Positions(ctx, epoch)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.LongitudeCalls())
}

func TestPositionCache_ConcurrentReadThrough(t *testing.T) {
	p := stub.New(epoch)
	c := NewPositionCache(p, PositionCacheOptions{})
	ctx := context.Background()
	at := epoch.Add(5 * time.Hour)

	want, err := p.PlanetaryLongitudes(c.BucketStart(at))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]domain.PlanetaryPositions, 32)
	errs := make([]error, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Positions(ctx, at.Add(time.Duration(i)*time.Second))
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
	stats := c.Stats()
	assert.Equal(t, int64(32), stats.MemoryHits+stats.Misses)
	assert.GreaterOrEqual(t, stats.Misses, int64(1))
}

func TestPositionCache_StoreTier(t *testing.T) {
	store := memory.NewPositionStore()
	ctx := context.Background()
	at := epoch.Add(7 * time.Hour)

	warm := NewPositionCache(stub.New(epoch), PositionCacheOptions{Store: store})
	want, err := warm.Positions(ctx, at)
	require.NoError(t, err)

	snap, err := store.Get(ctx, warm.BucketStart(at).UnixMilli())
	require.NoError(t, err)
	assert.Equal(t, want, snap.Positions)

	cold := stub.New(epoch)
	c := NewPositionCache(cold, PositionCacheOptions{Store: store})
	got, err := c.Positions(ctx, at)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, int64(0), cold.LongitudeCalls())
	assert.Equal(t, Stats{StoreHits: 1}, c.Stats())
}

type failingProvider struct{ *stub.Provider }

var errEphemeris = errors.New("ephemeris offline")

func (failingProvider) PlanetaryLongitudes(time.Time) (domain.PlanetaryPositions, error) {
	return nil, errEphemeris
}

func TestPositionCache_ProviderErrorNotCached(t *testing.T) {
	c := NewPositionCache(failingProvider{stub.New(epoch)}, PositionCacheOptions{})

	_, err := c.Positions(context.Background(), epoch)
	assert.ErrorIs(t, err, errEphemeris)
	assert.Equal(t, 0, c.Len())
}
