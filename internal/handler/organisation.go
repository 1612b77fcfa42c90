// Package handler contains HTTP handlers for the Forget Me API.
//
// This file serves the static wizard catalogs: the organisation registry,
// the request types, and the erasure reasons.
//
// Route:
//   - GET /api/organisations -> HandleList
package handler

import (
	"log/slog"
	"net/http"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/arkology/forgetme/internal/registry"
)

// OrganisationHandler serves the organisation registry and wizard catalogs.
type OrganisationHandler struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// NewOrganisationHandler creates a new OrganisationHandler.
func NewOrganisationHandler(reg *registry.Registry, logger *slog.Logger) *OrganisationHandler {
	return &OrganisationHandler{
		registry: reg,
		logger:   logger,
	}
}

// RegisterRoutes registers organisation routes on the provided mux.
func (h *OrganisationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/organisations", h.HandleList)
}

// catalogResponse bundles everything the wizard needs to render its steps.
type catalogResponse struct {
	Organisations []domain.Organisation `json:"organisations"`
	RequestTypes  []domain.RequestType  `json:"requestTypes"`
	Reasons       []domain.Reason       `json:"reasons"`
}

// HandleList returns the full organisation registry with the request and
// reason catalogs. The payload is static per process; clients may cache it.
func (h *OrganisationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	requestTypes := []domain.RequestType{
		domain.RequestCatalog[domain.RequestRTBF],
		domain.RequestCatalog[domain.RequestRTOOT],
		domain.RequestCatalog[domain.RequestRTBH],
	}

	writeJSON(w, http.StatusOK, catalogResponse{
		Organisations: h.registry.All(),
		RequestTypes:  requestTypes,
		Reasons:       domain.ErasureReasons,
	})
}
