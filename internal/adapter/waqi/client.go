// Package waqi implements domain.GroundSensorFeed using the World Air Quality
// Index geolocated feed.
package waqi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Jeffail/gabs"

	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
	"github.com/couchcryptid/no2-aqi-etl/internal/observability"
)

const feedName = "waqi"

// Client queries https://api.waqi.info/feed/geo:<lat>;<lon>/.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a WAQI client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.waqi.info",
		metrics: metrics,
		logger:  logger,
	}
}

// Observe returns the latest reading from the station nearest to lat/lon.
func (c *Client) Observe(ctx context.Context, lat, lon float64) (domain.GroundObservation, error) {
	u := fmt.Sprintf("%s/feed/geo:%.4f;%.4f/?%s", c.baseURL, lat, lon, url.Values{"token": {c.token}}.Encode())

	start := time.Now()
	obs, err := c.doRequest(ctx, u)
	c.metrics.EnrichmentAPIDuration.WithLabelValues(feedName).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.EnrichmentRequests.WithLabelValues(feedName, "error").Inc()
	case obs.Empty():
		c.metrics.EnrichmentRequests.WithLabelValues(feedName, "empty").Inc()
	default:
		c.metrics.EnrichmentRequests.WithLabelValues(feedName, "success").Inc()
	}
	return obs, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GroundObservation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GroundObservation{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GroundObservation{}, fmt.Errorf("waqi request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.GroundObservation{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.GroundObservation{}, fmt.Errorf("waqi API error: status %d: %s", resp.StatusCode, body)
	}

	return parseFeed(body)
}

// parseFeed extracts the NO₂ sub-index, overall AQI and station name. WAQI
// reports "-" for the AQI of stations with no current data, and omits
// pollutants a station does not measure.
func parseFeed(body []byte) (domain.GroundObservation, error) {
	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return domain.GroundObservation{}, fmt.Errorf("decode response: %w", err)
	}

	if status, _ := parsed.Path("status").Data().(string); status != "ok" {
		return domain.GroundObservation{}, fmt.Errorf("waqi API error: status %q: %v", status, parsed.Path("data").Data())
	}

	var obs domain.GroundObservation
	if name, ok := parsed.Path("data.city.name").Data().(string); ok {
		obs.Station = name
	}
	if no2, ok := parsed.Path("data.iaqi.no2.v").Data().(float64); ok {
		obs.NO2 = &no2
	}
	if aqi, ok := parsed.Path("data.aqi").Data().(float64); ok {
		v := int(aqi)
		obs.AQI = &v
	}
	return obs, nil
}
