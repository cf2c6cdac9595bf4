//go:build smoke

package waqi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/no2-aqi-etl/internal/observability"
)

// These tests hit the real WAQI API and require a valid WAQI_TOKEN env var.
// Run with: go test -tags=smoke ./internal/adapter/waqi/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("WAQI_TOKEN")
	if token == "" {
		t.Fatal("WAQI_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.waqi.info",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_Observe(t *testing.T) {
	c := smokeClient(t)

	// Los Angeles
	obs, err := c.Observe(context.Background(), 34.0522, -118.2437)
	require.NoError(t, err)

	assert.NotEmpty(t, obs.Station)
}

func TestSmoke_CachedFeed(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedFeed(c, 10, observability.NewMetricsForTesting())

	r1, err := cached.Observe(context.Background(), 40.7128, -74.0060)
	require.NoError(t, err)

	r2, err := cached.Observe(context.Background(), 40.7128, -74.0060)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
