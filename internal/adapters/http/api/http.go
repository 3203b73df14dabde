// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/qaportal/internal/app"
	"github.com/okian/qaportal/internal/adapters/repository"
	"github.com/okian/qaportal/pkg/logger"
)

// AgentRecords mirrors the per-agent read shape returned by the service.
type AgentRecords = service.AgentRecords

// Summary mirrors the per-agent derived metrics returned by the service.
type Summary = service.Summary

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AgentDependencies
	ResponseDependencies
	StatsProvider
}

// Server wires HTTP routes for the JSON API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	agentsHandler    *AgentsHandler
	responsesHandler *ResponsesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		agentsHandler:    NewAgentsHandler(deps),
		responsesHandler: NewResponsesHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/agents", MetricsMiddleware(s.agentsHandler.HandleList, "agents"))
	mux.HandleFunc("GET /api/agents/{id}", MetricsMiddleware(s.agentsHandler.HandleGet, "agent"))
	mux.HandleFunc("GET /api/agents/{id}/qa-scores", MetricsMiddleware(s.agentsHandler.HandleQAScores, "qa_scores"))
	mux.HandleFunc("GET /api/agents/{id}/merit-demerits", MetricsMiddleware(s.agentsHandler.HandleMeritDemerits, "merit_demerits"))
	mux.HandleFunc("GET /api/agents/{id}/comments", MetricsMiddleware(s.agentsHandler.HandleComments, "comments"))
	mux.HandleFunc("GET /api/agents/{id}/goals", MetricsMiddleware(s.agentsHandler.HandleGoals, "goals"))
	mux.HandleFunc("GET /api/agents/{id}/summary", MetricsMiddleware(s.agentsHandler.HandleSummary, "summary"))

	mux.HandleFunc("POST /api/comments/{id}/responses", MetricsMiddleware(s.responsesHandler.HandlePost, "responses"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and repository errors to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrAgentNotFound), errors.Is(err, repository.ErrCommentNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrEmptyReply), errors.Is(err, service.ErrReplyTooLong), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
