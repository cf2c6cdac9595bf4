package waqi

import (
	"context"
	"fmt"

	"github.com/couchcryptid/no2-aqi-etl/internal/adapter/lru"
	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
	"github.com/couchcryptid/no2-aqi-etl/internal/observability"
)

// CachedFeed wraps a GroundSensorFeed with an in-memory LRU cache keyed by coordinates.
type CachedFeed struct {
	inner   domain.GroundSensorFeed
	cache   *lru.Cache[domain.GroundObservation]
	metrics *observability.Metrics
}

// NewCachedFeed creates a cache decorator around a ground sensor feed.
func NewCachedFeed(inner domain.GroundSensorFeed, maxEntries int, metrics *observability.Metrics) *CachedFeed {
	return &CachedFeed{
		inner:   inner,
		cache:   lru.New[domain.GroundObservation](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedFeed) Observe(ctx context.Context, lat, lon float64) (domain.GroundObservation, error) {
	key := fmt.Sprintf("geo:%.4f,%.4f", lat, lon)
	if obs, ok := c.cache.Get(key); ok {
		c.metrics.EnrichmentCache.WithLabelValues(feedName, "hit").Inc()
		return obs, nil
	}
	c.metrics.EnrichmentCache.WithLabelValues(feedName, "miss").Inc()

	obs, err := c.inner.Observe(ctx, lat, lon)
	if err != nil {
		return obs, err
	}
	// Empty results are not cached so a station that comes back online is picked up.
	if !obs.Empty() {
		c.cache.Put(key, obs)
	}
	return obs, nil
}
