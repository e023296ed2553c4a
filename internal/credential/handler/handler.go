// Package handler exposes the credential lifecycle over HTTP.
package handler

import (
	"context"
	gojson "encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"passport/internal/credential/models"
	"passport/internal/credential/service"
	"passport/internal/transport/http/shared"
	"passport/internal/transport/http/shared/json"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

// Service is the credential service surface the handler depends on.
type Service interface {
	Issue(ctx context.Context, contractorID id.ContractorID) (*service.IssueResult, error)
	Verify(ctx context.Context, credentialID id.CredentialID) (*service.Verdict, error)
	Revoke(ctx context.Context, credentialID id.CredentialID, reason, actor string) (*models.Credential, error)
	Status(ctx context.Context, credentialID id.CredentialID) (*service.StatusView, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the credential routes. The revoke route is expected to sit
// behind the admin token middleware; the router decides that.
func (h *Handler) Register(r chi.Router) {
	r.Post("/contractors/{contractorID}/credentials", h.HandleIssue)
	r.Get("/credentials/{credentialID}/verify", h.HandleVerify)
	r.Get("/credentials/{credentialID}/status", h.HandleStatus)
}

// RegisterAdmin mounts the routes that require the admin token.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/credentials/{credentialID}/revoke", h.HandleRevoke)
}

// HandleIssue implements POST /contractors/{contractorID}/credentials.
// A fresh grant returns 201; an existing active credential returns 200 with
// a message; an ineligible contractor returns 400 with the requirement
// listing and the contractor's current verification set.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	contractorID, err := id.ParseContractorID(chi.URLParam(r, "contractorID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid contractor id"))
		return
	}

	result, err := h.service.Issue(ctx, contractorID)
	if err != nil {
		var notEligible *models.NotEligibleError
		if errors.As(err, &notEligible) {
			json.WriteJSON(w, http.StatusBadRequest, newNotEligibleResponse(notEligible))
			return
		}
		h.logger.WarnContext(ctx, "credential issuance failed",
			"contractor_id", contractorID.String(),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	if result.Reused {
		json.WriteJSON(w, http.StatusOK, issueResponse{
			Success:    true,
			Message:    "Contractor already has a valid credential",
			Credential: newCredentialResponse(result.Credential),
		})
		return
	}

	json.WriteJSON(w, http.StatusCreated, issueResponse{
		Success:    true,
		Credential: newCredentialResponse(result.Credential),
	})
}

// HandleVerify implements GET /credentials/{credentialID}/verify.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	credentialID, err := id.ParseCredentialID(chi.URLParam(r, "credentialID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid credential id"))
		return
	}

	verdict, err := h.service.Verify(r.Context(), credentialID)
	if err != nil {
		// Verify answers with a verdict envelope even for unknown ids.
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			json.WriteJSON(w, http.StatusNotFound, invalidVerdictResponse{
				Valid: false,
				Error: "Credential not found",
			})
			return
		}
		shared.WriteError(w, err)
		return
	}

	if !verdict.Valid {
		json.WriteJSON(w, http.StatusBadRequest, invalidVerdictResponse{
			Valid: false,
			Error: verdictMessage(verdict.Reason),
		})
		return
	}

	json.WriteJSON(w, http.StatusOK, newValidVerdictResponse(verdict))
}

// HandleRevoke implements POST /credentials/{credentialID}/revoke.
// Revocation is permanent and one-shot; a repeat attempt yields 400 with the
// original revocation timestamp.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	credentialID, err := id.ParseCredentialID(chi.URLParam(r, "credentialID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid credential id"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)
	var req revokeRequest
	// The body is optional; reason and actor default server-side.
	if err := gojson.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	credential, err := h.service.Revoke(ctx, credentialID, req.Reason, req.Actor)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "credential revoked",
		"credential_id", credential.ID.String(),
		"contractor_id", credential.ContractorID.String(),
	)
	json.WriteJSON(w, http.StatusOK, newRevokeResponse(credential))
}

// HandleStatus implements GET /credentials/{credentialID}/status.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	credentialID, err := id.ParseCredentialID(chi.URLParam(r, "credentialID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid credential id"))
		return
	}

	view, err := h.service.Status(r.Context(), credentialID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, newStatusResponse(view))
}

func verdictMessage(reason string) string {
	switch reason {
	case "revoked":
		return "Credential has been revoked"
	case "expired":
		return "Credential has expired"
	case "invalid_signature":
		return "Invalid JWT signature"
	default:
		return "Credential is not valid"
	}
}
