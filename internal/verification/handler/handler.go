// Package handler exposes the verification record lifecycle over HTTP.
package handler

import (
	"context"
	gojson "encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"passport/internal/transport/http/shared"
	"passport/internal/transport/http/shared/json"
	"passport/internal/verification/models"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
	"passport/pkg/validation"
)

// Service is the verification service surface the handler depends on.
type Service interface {
	Create(ctx context.Context, contractorID id.ContractorID, vType models.Type, provider string, payload models.Payload) (*models.Record, error)
	Complete(ctx context.Context, verificationID id.VerificationID, status models.Status, payload models.Payload) (*models.Record, error)
	Amend(ctx context.Context, verificationID id.VerificationID, status models.Status, payload models.Payload, actor string) (*models.Record, error)
	Get(ctx context.Context, verificationID id.VerificationID) (*models.Record, error)
	ListByContractor(ctx context.Context, contractorID id.ContractorID) ([]*models.Record, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/contractors/{contractorID}/verifications", h.HandleCreate)
	r.Get("/contractors/{contractorID}/verifications", h.HandleList)
	r.Get("/verifications/{verificationID}", h.HandleGet)
	r.Post("/verifications/{verificationID}/complete", h.HandleComplete)
}

// RegisterAdmin mounts the routes that require the admin token. Amending a
// terminal record is a manual correction and always names an actor.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/verifications/{verificationID}/amend", h.HandleAmend)
}

// HandleCreate implements POST /contractors/{contractorID}/verifications.
// Records always start pending regardless of the payload.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contractorID, err := id.ParseContractorID(chi.URLParam(r, "contractorID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid contractor id"))
		return
	}

	req, ok := decode[createRequest](w, r)
	if !ok {
		return
	}

	record, err := h.service.Create(ctx, contractorID, models.Type(req.Type), req.Provider, req.Payload)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification created",
		"verification_id", record.ID.String(),
		"contractor_id", contractorID.String(),
		"type", string(record.Type),
	)
	json.WriteJSON(w, http.StatusCreated, recordEnvelope{
		Success:      true,
		Verification: newRecordResponse(record),
	})
}

// HandleComplete implements POST /verifications/{verificationID}/complete.
// Only pending records can complete; a repeat call answers 400.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	verificationID, err := id.ParseVerificationID(chi.URLParam(r, "verificationID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid verification id"))
		return
	}

	req, ok := decode[completeRequest](w, r)
	if !ok {
		return
	}

	record, err := h.service.Complete(r.Context(), verificationID, models.Status(req.Status), req.Payload)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, recordEnvelope{
		Success:      true,
		Verification: newRecordResponse(record),
	})
}

// HandleAmend implements POST /verifications/{verificationID}/amend.
func (h *Handler) HandleAmend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	verificationID, err := id.ParseVerificationID(chi.URLParam(r, "verificationID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid verification id"))
		return
	}

	req, ok := decode[amendRequest](w, r)
	if !ok {
		return
	}

	record, err := h.service.Amend(ctx, verificationID, models.Status(req.Status), req.Payload, req.AmendedBy)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification amended",
		"verification_id", record.ID.String(),
		"new_status", string(record.Status),
		"amended_by", req.AmendedBy,
	)
	json.WriteJSON(w, http.StatusOK, recordEnvelope{
		Success:      true,
		Verification: newRecordResponse(record),
	})
}

// HandleGet implements GET /verifications/{verificationID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	verificationID, err := id.ParseVerificationID(chi.URLParam(r, "verificationID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid verification id"))
		return
	}

	record, err := h.service.Get(r.Context(), verificationID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, newRecordResponse(record))
}

// HandleList implements GET /contractors/{contractorID}/verifications.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	contractorID, err := id.ParseContractorID(chi.URLParam(r, "contractorID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid contractor id"))
		return
	}

	records, err := h.service.ListByContractor(r.Context(), contractorID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	responses := make([]recordResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, newRecordResponse(record))
	}
	json.WriteJSON(w, http.StatusOK, listResponse{Verifications: responses})
}

// decode reads, parses, and validates the request body in one step.
func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
	if err := gojson.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return req, false
	}
	if err := validation.Validate(req); err != nil {
		shared.WriteError(w, err)
		return req, false
	}
	return req, true
}
