package handler

import (
	"time"

	"passport/internal/contractor/models"
	"passport/internal/contractor/service"
)

type onboardRequest struct {
	Name  string `json:"name" validate:"required,notblank,min=2,max=200"`
	Email string `json:"email" validate:"required,email"`
}

type contractorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func newContractorResponse(contractor *models.Contractor) contractorResponse {
	return contractorResponse{
		ID:        contractor.ID.String(),
		Name:      contractor.Name,
		Email:     contractor.Email,
		CreatedAt: contractor.CreatedAt,
	}
}

type onboardResponse struct {
	Success    bool               `json:"success"`
	Contractor contractorResponse `json:"contractor"`
}

type conflictResponse struct {
	Error        string `json:"error"`
	ContractorID string `json:"contractorId"`
}

type profileVerificationResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Provider    string     `json:"provider"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type profileCredentialResponse struct {
	ID        string     `json:"id"`
	Tier      string     `json:"tier"`
	IssuedAt  time.Time  `json:"issuedAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

type profileResponse struct {
	Contractor    contractorResponse            `json:"contractor"`
	Verifications []profileVerificationResponse `json:"verifications"`
	Credentials   []profileCredentialResponse   `json:"credentials"`
}

func newProfileResponse(profile *service.Profile) profileResponse {
	verifications := make([]profileVerificationResponse, 0, len(profile.Verifications))
	for _, record := range profile.Verifications {
		verifications = append(verifications, profileVerificationResponse{
			ID:          record.ID.String(),
			Type:        string(record.Type),
			Status:      string(record.Status),
			Provider:    record.Provider,
			CreatedAt:   record.CreatedAt,
			CompletedAt: record.CompletedAt,
		})
	}
	credentials := make([]profileCredentialResponse, 0, len(profile.Credentials))
	for _, credential := range profile.Credentials {
		credentials = append(credentials, profileCredentialResponse{
			ID:        credential.ID.String(),
			Tier:      credential.Tier.String(),
			IssuedAt:  credential.IssuedAt,
			ExpiresAt: credential.ExpiresAt,
			RevokedAt: credential.RevokedAt,
		})
	}
	return profileResponse{
		Contractor:    newContractorResponse(profile.Contractor),
		Verifications: verifications,
		Credentials:   credentials,
	}
}
