package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/qaportal/internal/domain/model"
	"github.com/okian/qaportal/pkg/logger"
)

// maxBodyBytes bounds a reply request body.
const maxBodyBytes = 64 << 10

// ResponseDependencies accepts comment replies.
type ResponseDependencies interface {
	DiscardResponse(ctx context.Context, commentID, content string) (model.Response, error)
}

// responseRequest mirrors the OpenAPI schema for POST /api/comments/{id}/responses.
type responseRequest struct {
	Content string `json:"content"`
}

func (r responseRequest) validate() error {
	if strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("%w: missing content", ErrBadRequest)
	}
	return nil
}

type ackResponse struct {
	Status    string         `json:"status"`
	Persisted bool           `json:"persisted"`
	Response  model.Response `json:"response"`
}

// ResponsesHandler handles comment replies. Replies are never stored.
type ResponsesHandler struct {
	deps   ResponseDependencies
	logger logger.Logger
}

// NewResponsesHandler creates a new responses handler.
func NewResponsesHandler(deps ResponseDependencies, log logger.Logger) *ResponsesHandler {
	return &ResponsesHandler{deps: deps, logger: log}
}

// HandlePost handles POST /api/comments/{id}/responses.
func (h *ResponsesHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	var req responseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	commentID := r.PathValue("id")
	resp, err := h.deps.DiscardResponse(r.Context(), commentID, req.Content)
	if err != nil {
		h.logger.Debug(r.Context(), "response rejected",
			logger.String("commentId", commentID),
			logger.Error(err),
		)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Response: resp})
}
