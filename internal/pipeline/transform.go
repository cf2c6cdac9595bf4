package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
	"github.com/couchcryptid/no2-aqi-etl/internal/observability"
)

// ReadingTransformer implements Transformer: it converts, classifies, and
// enriches satellite readings.
type ReadingTransformer struct {
	converter      domain.Converter
	alertThreshold float64
	ground         domain.GroundSensorFeed
	weather        domain.WeatherFeed
	metrics        *observability.Metrics
	logger         *slog.Logger
}

// NewTransformer creates a ReadingTransformer. Pass a nil feed to disable
// that enrichment.
func NewTransformer(
	conv domain.Converter,
	alertThreshold float64,
	ground domain.GroundSensorFeed,
	weather domain.WeatherFeed,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *ReadingTransformer {
	return &ReadingTransformer{
		converter:      conv,
		alertThreshold: alertThreshold,
		ground:         ground,
		weather:        weather,
		metrics:        metrics,
		logger:         logger,
	}
}

// Assess converts and classifies a reading, then queries the ground and
// weather feeds concurrently. Feed failures never fail the assessment.
func (t *ReadingTransformer) Assess(ctx context.Context, reading domain.RawReading) (domain.Assessment, error) {
	base, err := domain.AssessReading(reading, t.converter, t.alertThreshold)
	if err != nil {
		return domain.Assessment{}, err
	}

	var withGround, withWeather domain.Assessment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		withGround = domain.EnrichWithGround(gctx, base, t.ground, t.logger)
		return nil
	})
	g.Go(func() error {
		withWeather = domain.EnrichWithWeather(gctx, base, t.weather, t.logger)
		return nil
	})
	_ = g.Wait()

	a := base
	a.Ground = withGround.Ground
	a.GroundSource = withGround.GroundSource
	a.SatelliteGroundDelta = withGround.SatelliteGroundDelta
	a.Weather = withWeather.Weather
	a.WeatherSource = withWeather.WeatherSource

	t.metrics.Classifications.WithLabelValues(a.AQI.Category).Inc()
	return a, nil
}

func (t *ReadingTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	reading, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	a, err := t.Assess(ctx, reading)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("assess reading: %w", err)
	}

	return domain.SerializeAssessment(a)
}
