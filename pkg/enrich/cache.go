package enrich

import (
	"context"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/salescope/salescope/pkg/metrics"
)

// CachedGeocoder memoizes successful lookups for the process lifetime.
// Coordinates are quantized to 3 decimals (~110 m) before keying, so nearby
// group centroids share one upstream call. Failures are not cached; the next
// pass retries. Safe for concurrent use.
type CachedGeocoder struct {
	inner Geocoder

	mu      sync.RWMutex
	entries map[uint64]Place
}

// NewCachedGeocoder wraps inner with the process-lifetime cache.
func NewCachedGeocoder(inner Geocoder) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		entries: make(map[uint64]Place),
	}
}

// ReverseGeocode serves from cache when the quantized coordinate was already
// resolved, otherwise delegates to the wrapped geocoder.
func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error) {
	key := cacheKey(lat, lon)

	c.mu.RLock()
	place, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		metrics.GeocodeCacheHitsTotal.Inc()
		return place, nil
	}
	metrics.GeocodeCacheMissesTotal.Inc()

	place, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return Place{}, err
	}

	c.mu.Lock()
	c.entries[key] = place
	c.mu.Unlock()
	return place, nil
}

// Len returns the number of cached places.
func (c *CachedGeocoder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cacheKey(lat, lon float64) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%.3f|%.3f", lat, lon))
}
