// Package httpadapter serves the operational endpoints and a small JSON API
// over the NO₂ converter and AQI classifier.
package httpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
)

// Server exposes health, readiness, metrics, and the conversion API.
type Server struct {
	httpServer *http.Server
	converter  domain.Converter
	logger     *slog.Logger
}

// NewServer creates an HTTP server with operational and /v1 routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, conv domain.Converter, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		converter: conv,
		logger:    logger,
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/convert", s.handleConvert)
		r.Get("/classify", s.handleClassify)
		r.Get("/categories", s.handleCategories)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type convertResponse struct {
	ColumnDensity float64 `json:"no2_molm2"`
	Concentration float64 `json:"no2_ugm3"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	m, err := floatParam(r, "no2_molm2")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := s.converter.Convert(m)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{ColumnDensity: m, Concentration: c})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	c, err := floatParam(r, "no2_ugm3")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	classification, err := domain.Classify(c)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, classification)
}

type legendEntry struct {
	domain.Classification
	UpperBound *float64 `json:"upper_bound_ugm3,omitempty"` // omitted for the open-ended top band
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	bps := domain.Breakpoints()
	legend := make([]legendEntry, 0, len(bps))
	for _, bp := range bps {
		e := legendEntry{Classification: domain.NewClassification(bp.Category)}
		if !math.IsInf(bp.UpperBound, 1) {
			ub := bp.UpperBound
			e.UpperBound = &ub
		}
		legend = append(legend, e)
	}
	writeJSON(w, http.StatusOK, legend)
}

// floatParam parses a required query parameter. NaN and Inf parse successfully
// here and are rejected by the domain as invalid values.
func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %q", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q is not a number", name)
	}
	return v, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n')) //nolint:errcheck // best-effort response
}
