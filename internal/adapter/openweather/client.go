// Package openweather implements domain.WeatherFeed using the OpenWeatherMap
// current weather API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
	"github.com/couchcryptid/no2-aqi-etl/internal/observability"
)

const feedName = "openweather"

// Client implements domain.WeatherFeed.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org",
		metrics: metrics,
		logger:  logger,
	}
}

// Current returns current conditions for city in metric units.
func (c *Client) Current(ctx context.Context, city string) (domain.WeatherConditions, error) {
	params := url.Values{
		"q":     {city},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	u := fmt.Sprintf("%s/data/2.5/weather?%s", c.baseURL, params.Encode())

	start := time.Now()
	wc, err := c.doRequest(ctx, u)
	c.metrics.EnrichmentAPIDuration.WithLabelValues(feedName).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.EnrichmentRequests.WithLabelValues(feedName, "error").Inc()
	case wc.Empty():
		c.metrics.EnrichmentRequests.WithLabelValues(feedName, "empty").Inc()
	default:
		c.metrics.EnrichmentRequests.WithLabelValues(feedName, "success").Inc()
	}
	return wc, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.WeatherConditions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.WeatherConditions{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherConditions{}, fmt.Errorf("openweather request: %w", err)
	}
	defer resp.Body.Close()

	// Unknown cities come back as 404; that is a lookup miss, not a failure.
	if resp.StatusCode == http.StatusNotFound {
		c.logger.Debug("openweather city not found", "url_path", req.URL.Path)
		return domain.WeatherConditions{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherConditions{}, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}

	var owResp response
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		return domain.WeatherConditions{}, fmt.Errorf("decode response: %w", err)
	}

	wc := domain.WeatherConditions{
		TemperatureC: owResp.Main.Temp,
		HumidityPct:  owResp.Main.Humidity,
		PressureHPa:  owResp.Main.Pressure,
	}
	if len(owResp.Weather) > 0 {
		wc.Description = owResp.Weather[0].Description
	}
	return wc, nil
}

// OpenWeatherMap API response types.

type response struct {
	Name    string    `json:"name"`
	Main    mainBlock `json:"main"`
	Weather []weather `json:"weather"`
}

type mainBlock struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Pressure float64 `json:"pressure"`
}

type weather struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}
