// Package handler exposes contractor onboarding and profile reads over HTTP.
package handler

import (
	"context"
	gojson "encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"passport/internal/contractor/models"
	"passport/internal/contractor/service"
	"passport/internal/transport/http/shared"
	"passport/internal/transport/http/shared/json"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/validation"
)

// Service is the contractor service surface the handler depends on.
type Service interface {
	Onboard(ctx context.Context, name, email string) (*models.Contractor, bool, error)
	GetProfile(ctx context.Context, contractorID id.ContractorID) (*service.Profile, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/contractors", h.HandleOnboard)
	r.Get("/contractors/{contractorID}", h.HandleGetProfile)
}

// HandleOnboard implements POST /contractors. Registering an email that
// already exists answers 409 with the existing contractor's id so clients
// can recover without a lookup.
func (h *Handler) HandleOnboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
	var req onboardRequest
	if err := gojson.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validation.Validate(req); err != nil {
		shared.WriteError(w, err)
		return
	}

	contractor, created, err := h.service.Onboard(ctx, req.Name, req.Email)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if !created {
		json.WriteJSON(w, http.StatusConflict, conflictResponse{
			Error:        "Contractor with this email already exists",
			ContractorID: contractor.ID.String(),
		})
		return
	}

	h.logger.InfoContext(ctx, "contractor onboarded",
		"contractor_id", contractor.ID.String(),
	)
	json.WriteJSON(w, http.StatusCreated, onboardResponse{
		Success:    true,
		Contractor: newContractorResponse(contractor),
	})
}

// HandleGetProfile implements GET /contractors/{contractorID}.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	contractorID, err := id.ParseContractorID(chi.URLParam(r, "contractorID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid contractor id"))
		return
	}

	profile, err := h.service.GetProfile(r.Context(), contractorID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, newProfileResponse(profile))
}
