package api

import (
	"context"
	"net/http"

	"github.com/okian/qaportal/internal/domain/model"
)

// AgentDependencies defines the read operations behind the agent routes.
type AgentDependencies interface {
	Agents(ctx context.Context) ([]model.Agent, error)
	Agent(ctx context.Context, id string) (model.Agent, error)
	AgentRecords(ctx context.Context, agentID string) (AgentRecords, error)
	Summary(ctx context.Context, agentID string) (Summary, error)
}

// AgentsHandler serves agents and their records.
type AgentsHandler struct {
	deps AgentDependencies
}

// NewAgentsHandler creates a new agents handler.
func NewAgentsHandler(deps AgentDependencies) *AgentsHandler {
	return &AgentsHandler{deps: deps}
}

// HandleList handles GET /api/agents.
func (h *AgentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	agents, err := h.deps.Agents(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

// HandleGet handles GET /api/agents/{id}.
func (h *AgentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	agent, err := h.deps.Agent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// HandleQAScores handles GET /api/agents/{id}/qa-scores, oldest first.
func (h *AgentsHandler) HandleQAScores(w http.ResponseWriter, r *http.Request) {
	h.records(w, r, func(rec AgentRecords) any { return rec.QAScores })
}

// HandleMeritDemerits handles GET /api/agents/{id}/merit-demerits, newest first.
func (h *AgentsHandler) HandleMeritDemerits(w http.ResponseWriter, r *http.Request) {
	h.records(w, r, func(rec AgentRecords) any { return rec.MeritDemerits })
}

// HandleComments handles GET /api/agents/{id}/comments, newest first.
func (h *AgentsHandler) HandleComments(w http.ResponseWriter, r *http.Request) {
	h.records(w, r, func(rec AgentRecords) any { return rec.Comments })
}

// HandleGoals handles GET /api/agents/{id}/goals, closest deadline first,
// with progress and countdown fields.
func (h *AgentsHandler) HandleGoals(w http.ResponseWriter, r *http.Request) {
	h.records(w, r, func(rec AgentRecords) any { return rec.Goals })
}

// HandleSummary handles GET /api/agents/{id}/summary.
func (h *AgentsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.deps.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *AgentsHandler) records(w http.ResponseWriter, r *http.Request, pick func(AgentRecords) any) {
	rec, err := h.deps.AgentRecords(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pick(rec))
}
