// Package handler contains HTTP handlers for the Forget Me API.
//
// This file implements signature image uploads.
//
// Route:
//   - POST /api/signatures -> HandleUpload
package handler

import (
	"log/slog"
	"net/http"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/arkology/forgetme/internal/service"
)

// SignatureHandler handles signature image uploads.
type SignatureHandler struct {
	signatures service.SignatureService
	logger     *slog.Logger
}

// NewSignatureHandler creates a new SignatureHandler.
func NewSignatureHandler(signatures service.SignatureService, logger *slog.Logger) *SignatureHandler {
	return &SignatureHandler{
		signatures: signatures,
		logger:     logger,
	}
}

// RegisterRoutes registers signature routes on the provided mux.
func (h *SignatureHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/signatures", h.HandleUpload)
}

type signatureResponse struct {
	URL string `json:"url"`
}

// HandleUpload accepts a multipart form with a "signature" file part,
// normalizes the image, and returns the stored image's public URL.
func (h *SignatureHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "SignatureHandler.HandleUpload"

	r.Body = http.MaxBytesReader(w, r.Body, service.SignatureMaxUploadBytes+4096)

	if err := r.ParseMultipartForm(service.SignatureMaxUploadBytes); err != nil {
		ErrorResponse(w, r, h.logger, domain.Errorf(domain.ETOOLARGE, op, "Signature upload is too large or malformed"))
		return
	}

	file, header, err := r.FormFile("signature")
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "Missing signature file"))
		return
	}
	defer file.Close()

	url, err := h.signatures.ProcessSignature(r.Context(), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, signatureResponse{URL: url})
}
