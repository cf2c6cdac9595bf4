package openweather

import (
	"context"
	"strings"

	"github.com/couchcryptid/no2-aqi-etl/internal/adapter/lru"
	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
	"github.com/couchcryptid/no2-aqi-etl/internal/observability"
)

// CachedFeed wraps a WeatherFeed with an in-memory LRU cache keyed by city.
type CachedFeed struct {
	inner   domain.WeatherFeed
	cache   *lru.Cache[domain.WeatherConditions]
	metrics *observability.Metrics
}

// NewCachedFeed creates a cache decorator around a weather feed.
func NewCachedFeed(inner domain.WeatherFeed, maxEntries int, metrics *observability.Metrics) *CachedFeed {
	return &CachedFeed{
		inner:   inner,
		cache:   lru.New[domain.WeatherConditions](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedFeed) Current(ctx context.Context, city string) (domain.WeatherConditions, error) {
	key := "city:" + strings.ToLower(strings.TrimSpace(city))
	if wc, ok := c.cache.Get(key); ok {
		c.metrics.EnrichmentCache.WithLabelValues(feedName, "hit").Inc()
		return wc, nil
	}
	c.metrics.EnrichmentCache.WithLabelValues(feedName, "miss").Inc()

	wc, err := c.inner.Current(ctx, city)
	if err != nil {
		return wc, err
	}
	if !wc.Empty() {
		c.cache.Put(key, wc)
	}
	return wc, nil
}
