package handler

import (
	"time"

	"passport/internal/verification/models"
)

type createRequest struct {
	Type     string         `json:"type" validate:"required,oneof=identity github linkedin background_check reference"`
	Provider string         `json:"provider" validate:"omitempty,max=100"`
	Payload  models.Payload `json:"payload"`
}

type completeRequest struct {
	Status  string         `json:"status" validate:"required,oneof=verified failed"`
	Payload models.Payload `json:"payload"`
}

type amendRequest struct {
	Status    string         `json:"status" validate:"required,oneof=verified failed"`
	Payload   models.Payload `json:"payload"`
	AmendedBy string         `json:"amendedBy" validate:"required,notblank,max=200"`
}

type recordResponse struct {
	ID           string         `json:"id"`
	ContractorID string         `json:"contractorId"`
	Type         string         `json:"type"`
	Status       string         `json:"status"`
	Provider     string         `json:"provider"`
	Payload      models.Payload `json:"payload,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
}

func newRecordResponse(record *models.Record) recordResponse {
	return recordResponse{
		ID:           record.ID.String(),
		ContractorID: record.ContractorID.String(),
		Type:         string(record.Type),
		Status:       string(record.Status),
		Provider:     record.Provider,
		Payload:      record.Payload,
		CreatedAt:    record.CreatedAt,
		CompletedAt:  record.CompletedAt,
	}
}

type recordEnvelope struct {
	Success      bool           `json:"success"`
	Verification recordResponse `json:"verification"`
}

type listResponse struct {
	Verifications []recordResponse `json:"verifications"`
}
