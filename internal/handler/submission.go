// Package handler contains HTTP handlers for the Forget Me API.
//
// This file implements the submission endpoint: the wizard's consolidated
// payload comes in, the pipeline runs, and a structured result goes out.
//
// Route:
//   - POST /api/submissions -> HandleSubmit
package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/arkology/forgetme/internal/service"
)

// maxSubmissionBytes caps the submission payload size.
const maxSubmissionBytes = 1 << 20 // 1 MB

// SubmissionHandler handles form submission requests.
type SubmissionHandler struct {
	submissions service.SubmissionService
	logger      *slog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissions service.SubmissionService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		logger:      logger,
	}
}

// RegisterRoutes registers submission routes on the provided mux.
func (h *SubmissionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/submissions", h.HandleSubmit)
}

// submitRequest is the wizard's consolidated payload: the form values plus
// the selected request types.
type submitRequest struct {
	domain.FormValues
	Requests []domain.RequestLabel `json:"requests"`
}

// HandleSubmit runs the submission pipeline for one wizard payload.
//
// The response is always a SubmitResult envelope: 200 on success, 422 when
// the pipeline reports failure. Only an unreadable request body produces a
// bare error response.
func (h *SubmissionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSubmissionBytes))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Internal(err, "SubmissionHandler.HandleSubmit", "Failed to read request body"))
		return
	}

	var req submitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("SubmissionHandler.HandleSubmit", "Request body must be valid JSON"))
		return
	}

	result := h.submissions.Submit(r.Context(), req.FormValues, req.Requests)
	if !result.Success {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
