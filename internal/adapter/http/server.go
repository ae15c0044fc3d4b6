// Package http exposes the dashboard API: the clean daily table, the
// monthly table, and the derived-metric summaries the three dashboard views
// consume, plus health, readiness, and Prometheus endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/epiwatch/hfmd-dashboard/internal/domain"
	"github.com/epiwatch/hfmd-dashboard/internal/pipeline"
)

const dateLayout = "2006-01-02"

// Runner produces dataset results on demand. Backed by the pipeline, whose
// cache makes repeated calls cheap.
type Runner interface {
	Run(ctx context.Context) (pipeline.Result, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard API over HTTP.
type Server struct {
	httpServer *http.Server
	runner     Runner
	logger     *slog.Logger
}

// NewServer creates the API server with all routes mounted.
func NewServer(addr string, runner Runner, logger *slog.Logger) *Server {
	s := &Server{
		runner: runner,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/daily", s.handleDaily)
		api.Get("/monthly", s.handleMonthly)
		api.Get("/summary", s.handleSummary)
		api.Get("/summary/weather", s.handleWeatherSummary)
		api.Get("/summary/seasonal", s.handleSeasonalSummary)
		api.Get("/summary/regional", s.handleRegionalSummary)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.runner.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// dailyRow is the wire form of one daily observation.
type dailyRow struct {
	Date       string                         `json:"date"`
	Regions    map[domain.Region]*float64     `json:"region_counts"`
	Weather    map[domain.WeatherVar]*float64 `json:"weather,omitempty"`
	TotalCases float64                        `json:"total_cases"`
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}

	rows := make([]dailyRow, 0, len(res.Daily.Observations))
	for _, obs := range res.Daily.Observations {
		rows = append(rows, dailyRow{
			Date:       obs.Date.Format(dateLayout),
			Regions:    obs.Regions,
			Weather:    obs.Weather,
			TotalCases: obs.TotalCases,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":         rows,
		"generated_at": res.GeneratedAt,
	})
}

// monthlyRow is the wire form of one monthly aggregate.
type monthlyRow struct {
	Period     string                         `json:"period"`
	Year       int                            `json:"year"`
	Month      int                            `json:"month"`
	TotalCases float64                        `json:"total_cases"`
	Regions    map[domain.Region]*float64     `json:"region_means"`
	Weather    map[domain.WeatherVar]*float64 `json:"weather_means,omitempty"`
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}

	rows := make([]monthlyRow, 0, len(res.Monthly.Records))
	for _, rec := range res.Monthly.Records {
		rows = append(rows, monthlyRow{
			Period:     rec.Period.Format(dateLayout),
			Year:       rec.Year,
			Month:      rec.Month,
			TotalCases: rec.TotalCases,
			Regions:    rec.Regions,
			Weather:    rec.Weather,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":         rows,
		"generated_at": res.GeneratedAt,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res.Summary)
}

func (s *Server) handleWeatherSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}

	correlations := make(map[string]*float64, len(domain.WeatherVars))
	for _, v := range domain.WeatherVars {
		correlations[v.Name()] = res.Summary.Correlations[v]
	}
	body := map[string]any{
		"correlations":     correlations,
		"resolved_columns": res.Monthly.WeatherResolved,
	}
	if f := res.Summary.StrongestFactor; f != nil {
		body["strongest_factor"] = f.Name()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleSeasonalSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"climatology":  res.Summary.Climatology,
		"yearly_means": res.Summary.YearlyMeans,
		"peak_year":    res.Summary.PeakYear,
		"peak_window":  res.Summary.SeasonalPeakWindow,
	})
}

func (s *Server) handleRegionalSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := s.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res.Summary.Regional)
}

// run executes the pipeline and writes the error response on failure.
// Schema problems are the client-diagnosable 422; anything else is an
// upstream failure.
func (s *Server) run(w http.ResponseWriter, r *http.Request) (pipeline.Result, bool) {
	res, err := s.runner.Run(r.Context())
	if err == nil {
		return res, true
	}

	var schemaErr *domain.SchemaError
	status := http.StatusBadGateway
	if errors.As(err, &schemaErr) {
		status = http.StatusUnprocessableEntity
	}
	s.logger.Error("dataset request failed", "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
	return pipeline.Result{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
