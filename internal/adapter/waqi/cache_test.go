package waqi

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
	"github.com/couchcryptid/no2-aqi-etl/internal/observability"
)

type countingFeed struct {
	calls  int
	result domain.GroundObservation
	err    error
}

func (m *countingFeed) Observe(_ context.Context, _, _ float64) (domain.GroundObservation, error) {
	m.calls++
	return m.result, m.err
}

func no2(v float64) *float64 { return &v }

func TestCachedFeed_CacheHit(t *testing.T) {
	inner := &countingFeed{result: domain.GroundObservation{Station: "Chicago", NO2: no2(20)}}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedFeed(inner, 10, metrics)

	r1, err := cached.Observe(context.Background(), 41.9, -87.6)
	require.NoError(t, err)
	r2, err := cached.Observe(context.Background(), 41.9, -87.6)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EnrichmentCache.WithLabelValues(feedName, "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.EnrichmentCache.WithLabelValues(feedName, "hit")))
}

func TestCachedFeed_DifferentKeysMiss(t *testing.T) {
	inner := &countingFeed{result: domain.GroundObservation{NO2: no2(5)}}
	cached := NewCachedFeed(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Observe(context.Background(), 41.9, -87.6)
	_, _ = cached.Observe(context.Background(), 32.8, -96.8)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedFeed_EmptyNotCached(t *testing.T) {
	inner := &countingFeed{}
	cached := NewCachedFeed(inner, 10, observability.NewMetricsForTesting())

	_, _ = cached.Observe(context.Background(), 33.4, -112.1)
	_, _ = cached.Observe(context.Background(), 33.4, -112.1)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedFeed_ErrorNotCached(t *testing.T) {
	inner := &countingFeed{err: errors.New("boom")}
	cached := NewCachedFeed(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Observe(context.Background(), 33.4, -112.1)
	require.Error(t, err)
	_, err = cached.Observe(context.Background(), 33.4, -112.1)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls)
}
