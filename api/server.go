// Package api serves companies and jobs as JSON over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Skryldev/jobly/metrics"
	"github.com/Skryldev/jobly/repo"
)

// Pinger reports whether the database is reachable. *db.DB satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config wires the server to its dependencies. Metrics and Logger are
// optional.
type Config struct {
	Companies repo.CompanyRepository
	Jobs      repo.JobRepository
	DB        Pinger
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	companies repo.CompanyRepository
	jobs      repo.JobRepository
	db        Pinger
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// New returns a Server for cfg.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		companies: cfg.Companies,
		jobs:      cfg.Jobs,
		db:        cfg.DB,
		metrics:   cfg.Metrics,
		log:       log,
	}
}

// Handler returns the routed handler with access logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "POST /companies", s.createCompany)
	s.route(mux, "GET /companies", s.listCompanies)
	s.route(mux, "GET /companies/{handle}", s.getCompany)
	s.route(mux, "PATCH /companies/{handle}", s.updateCompany)
	s.route(mux, "DELETE /companies/{handle}", s.removeCompany)

	s.route(mux, "POST /jobs", s.createJob)
	s.route(mux, "GET /jobs", s.listJobs)
	s.route(mux, "GET /jobs/{id}", s.getJob)
	s.route(mux, "PATCH /jobs/{id}", s.updateJob)
	s.route(mux, "DELETE /jobs/{id}", s.removeJob)

	s.route(mux, "GET /healthz", s.health)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return s.accessLog(mux)
}

// route registers h under pattern, instrumented with the pattern as its
// route label.
func (s *Server) route(mux *http.ServeMux, pattern string, h handlerFunc) {
	mux.Handle(pattern, s.instrument(pattern, s.adapt(h)))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	if err := s.db.Ping(r.Context()); err != nil {
		s.log.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return nil
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}
