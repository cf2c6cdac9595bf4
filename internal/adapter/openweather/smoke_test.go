//go:build smoke

package openweather

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

// These tests hit the real OpenWeatherMap API and require OPENWEATHER_API_KEY.
// Run with: go test -tags=smoke ./internal/adapter/openweather/ -v -count=1

func TestSmoke_Current(t *testing.T) {
	key := os.Getenv("OPENWEATHER_API_KEY")
	if key == "" {
		t.Fatal("OPENWEATHER_API_KEY must be set to run smoke tests")
	}
	c := &Client{
		apiKey:     key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.openweathermap.org",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	wc, err := c.Current(context.Background(), "Chicago")
	require.NoError(t, err)

	assert.False(t, wc.Empty())
	assert.Greater(t, wc.PressureHPa, 800.0)
}
