// Package handler contains HTTP handlers for the Forget Me API.
//
// This file implements email verification: requesting a code and redeeming
// it.
//
// Routes:
//   - POST /api/verification/request -> HandleRequestCode
//   - POST /api/verification/verify  -> HandleVerifyCode
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/arkology/forgetme/internal/service"
)

// VerificationHandler handles email verification requests.
type VerificationHandler struct {
	verification service.VerificationService
	logger       *slog.Logger
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verification service.VerificationService, logger *slog.Logger) *VerificationHandler {
	return &VerificationHandler{
		verification: verification,
		logger:       logger,
	}
}

// RegisterRoutes registers verification routes on the provided mux. Code
// requests are wrapped with limitCode to throttle abuse per client.
func (h *VerificationHandler) RegisterRoutes(mux *http.ServeMux, limitCode func(http.Handler) http.Handler) {
	mux.Handle("POST /api/verification/request", limitCode(http.HandlerFunc(h.HandleRequestCode)))
	mux.HandleFunc("POST /api/verification/verify", h.HandleVerifyCode)
}

type requestCodeRequest struct {
	Email string `json:"email"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type verificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// HandleRequestCode issues a fresh verification code and emails it.
func (h *VerificationHandler) HandleRequestCode(w http.ResponseWriter, r *http.Request) {
	var req requestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("VerificationHandler.HandleRequestCode", "Request body must be valid JSON"))
		return
	}

	if err := h.verification.RequestCode(r.Context(), req.Email); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, verificationResponse{
		Success: true,
		Message: "Verification code sent",
	})
}

// HandleVerifyCode redeems a verification code for the given email.
func (h *VerificationHandler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("VerificationHandler.HandleVerifyCode", "Request body must be valid JSON"))
		return
	}

	if err := h.verification.VerifyCode(r.Context(), req.Email, req.Code); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, verificationResponse{
		Success: true,
		Message: "Email verified",
	})
}
