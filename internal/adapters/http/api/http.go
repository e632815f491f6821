// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/cedula/internal/domain/cedula"
	"github.com/okian/cedula/pkg/logger"
)

// Content types written by this package.
const (
	contentTypeJSON = "application/json"
)

// Validator is what the HTTP layer needs from the business service.
type Validator interface {
	Validate(ctx context.Context, ci string) cedula.Result
}

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Validator
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	log             logger.Logger
	validateHandler *ValidateHandler
	healthHandler   *HealthHandler
	metricsHandler  *MetricsHandler
	statsHandler    *StatsHandler
}

// NewServer creates a new API server with all handlers. A nil logger
// discards output.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		log:             log,
		validateHandler: NewValidateHandler(deps),
		healthHandler:   NewHealthHandler(),
		metricsHandler:  NewMetricsHandler(),
		statsHandler:    NewStatsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /validar/{ci}", MetricsMiddleware(s.validateHandler.HandleValidate, "validate"))
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /metrics", s.metricsHandler.HandleMetrics)
}

// Handler wraps h with the request-scoped middleware chain.
func (s *Server) Handler(h http.Handler) http.Handler {
	return RequestIDMiddleware(AccessLogMiddleware(h, s.log))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v without HTML escaping so echoed input stays verbatim.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
