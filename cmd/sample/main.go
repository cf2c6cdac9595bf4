// Command sample runs the built-in sample-site table through the same
// transformer the service uses, logs the summaries and alerts, and writes the
// CSV export. Enrichment feeds are used when their credentials are configured.
//
// Usage:
//
//	go run ./cmd/sample -out-dir data/export -fixture data/mock/tempo_no2_readings.jsonl
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/no2-aqi-etl/internal/adapter/feeds"
	"github.com/couchcryptid/no2-aqi-etl/internal/config"
	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
	"github.com/couchcryptid/no2-aqi-etl/internal/observability"
	"github.com/couchcryptid/no2-aqi-etl/internal/pipeline"
	"github.com/couchcryptid/no2-aqi-etl/internal/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("sample run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	outDir := flag.String("out-dir", ".", "directory for the CSV export")
	fixture := flag.String("fixture", "", "optional output path for a JSON-lines fixture of raw readings")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetricsForTesting()

	conv, err := domain.NewConverter(cfg.BoundaryLayerHeight)
	if err != nil {
		return err
	}
	ground, weather := feeds.New(cfg, metrics, logger)
	transformer := pipeline.NewTransformer(conv, cfg.AlertThreshold, ground, weather, metrics, logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rows := make([]report.Row, 0, len(domain.SampleSites))
	for _, site := range domain.SampleSites {
		row := report.Row{Site: site}
		a, err := transformer.Assess(ctx, site.Reading())
		if err != nil {
			logger.Warn("site skipped", "site", site.City, "error", err)
		} else {
			row.Assessment = &a
		}
		rows = append(rows, row)
	}

	logSummaries(logger, rows)

	if *fixture != "" {
		if err := writeFixture(*fixture, domain.SampleSites); err != nil {
			return fmt.Errorf("write fixture: %w", err)
		}
		logger.Info("wrote fixture", "path", *fixture, "readings", len(domain.SampleSites))
	}

	path := filepath.Join(*outDir, report.ExportFilename(time.Now()))
	if err := writeExport(path, rows); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	logger.Info("wrote export", "path", path, "rows", len(rows))
	return nil
}

func logSummaries(logger *slog.Logger, rows []report.Row) {
	s := report.Summarize(rows)
	logger.Info("summary",
		"sites", s.SitesMonitored,
		"no_data", s.NoData,
		"avg_no2_ugm3", s.AverageConcentration,
		"max_no2_ugm3", s.MaxConcentration,
		"needing_attention", s.AreasNeedingAttention,
		"alerts", s.AlertCount,
		"threshold_exceeded", s.ThresholdExceeded,
	)

	for _, r := range rows {
		if r.Assessment == nil {
			continue
		}
		a := r.Assessment
		level := slog.LevelInfo
		switch a.Alert.Severity {
		case domain.AlertUnhealthy:
			level = slog.LevelError
		case domain.AlertCaution:
			level = slog.LevelWarn
		}
		logger.Log(context.Background(), level, a.Alert.Headline,
			"no2_ugm3", a.Concentration,
			"category", a.AQI.Category,
			"advice", a.Alert.Advice,
		)
	}

	if s.AlertCount == 0 {
		logger.Info("all monitored areas currently have good air quality")
	}
	for _, rec := range s.Recommendations {
		logger.Info("recommended action", "action", rec)
	}

	if g, ok := report.SummarizeGround(rows); ok {
		logger.Info("ground stations", "reporting", g.StationsReporting, "avg", g.Average, "max", g.Max, "min", g.Min)
	}
	if w, ok := report.SummarizeWeather(rows); ok {
		logger.Info("weather", "reporting", w.SitesReporting, "avg_temp_c", w.AverageTemperature,
			"avg_humidity_pct", w.AverageHumidity, "min_temp_c", w.MinTemperature, "max_temp_c", w.MaxTemperature)
	}

	q := report.AssessQuality(rows)
	attrs := []any{"total_points", q.TotalPoints, "ground_completeness_pct", q.GroundCompleteness}
	if q.AverageDelta != nil {
		attrs = append(attrs, "avg_satellite_ground_delta", *q.AverageDelta)
	}
	logger.Info("data quality", attrs...)

	if r, ok := report.Correlation(rows); ok {
		logger.Info("temperature correlation", "pearson_r", r)
	}
}

func writeExport(path string, rows []report.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeFixture writes one raw reading per line, ready to publish to the
// source topic.
func writeFixture(path string, sites []domain.Site) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	for _, s := range sites {
		if err := enc.Encode(s.Reading()); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
