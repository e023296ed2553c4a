package handler

import (
	"time"

	"passport/internal/credential/models"
	"passport/internal/credential/service"
)

type credentialResponse struct {
	ID           string    `json:"id"`
	ContractorID string    `json:"contractorId"`
	Tier         string    `json:"tier"`
	Token        string    `json:"jwtToken"`
	IssuedAt     time.Time `json:"issuedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func newCredentialResponse(credential *models.Credential) credentialResponse {
	return credentialResponse{
		ID:           credential.ID.String(),
		ContractorID: credential.ContractorID.String(),
		Tier:         credential.Tier.String(),
		Token:        credential.Token,
		IssuedAt:     credential.IssuedAt,
		ExpiresAt:    credential.ExpiresAt,
	}
}

type issueResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Credential credentialResponse `json:"credential"`
}

type notEligibleResponse struct {
	Error                string                          `json:"error"`
	Message              string                          `json:"message"`
	Requirements         []models.RequirementDiagnostic  `json:"requirements"`
	CurrentVerifications []models.VerificationDiagnostic `json:"currentVerifications"`
}

func newNotEligibleResponse(diag *models.NotEligibleError) notEligibleResponse {
	response := notEligibleResponse{
		Error:                "Not eligible for credential",
		Message:              "Complete required verifications first",
		Requirements:         diag.Requirements,
		CurrentVerifications: diag.Current,
	}
	if response.CurrentVerifications == nil {
		response.CurrentVerifications = []models.VerificationDiagnostic{}
	}
	return response
}

type invalidVerdictResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error"`
}

type verdictVerificationResponse struct {
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Provider    string     `json:"provider"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type verdictJWTResponse struct {
	Issuer    string    `json:"issuer"`
	Subject   string    `json:"subject"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type verdictCredentialResponse struct {
	ID             string    `json:"id"`
	ContractorID   string    `json:"contractorId"`
	ContractorName string    `json:"contractorName"`
	Tier           string    `json:"tier"`
	IssuedAt       time.Time `json:"issuedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

type validVerdictResponse struct {
	Valid         bool                          `json:"valid"`
	Credential    verdictCredentialResponse     `json:"credential"`
	Verifications []verdictVerificationResponse `json:"verifications"`
	JWT           verdictJWTResponse            `json:"jwt"`
}

func newValidVerdictResponse(verdict *service.Verdict) validVerdictResponse {
	verifications := make([]verdictVerificationResponse, 0, len(verdict.Verifications))
	for _, record := range verdict.Verifications {
		verifications = append(verifications, verdictVerificationResponse{
			Type:        string(record.Type),
			Status:      string(record.Status),
			Provider:    record.Provider,
			CompletedAt: record.CompletedAt,
		})
	}
	return validVerdictResponse{
		Valid: true,
		Credential: verdictCredentialResponse{
			ID:             verdict.Credential.ID.String(),
			ContractorID:   verdict.Credential.ContractorID.String(),
			ContractorName: verdict.ContractorName,
			Tier:           verdict.Credential.Tier.String(),
			IssuedAt:       verdict.Credential.IssuedAt,
			ExpiresAt:      verdict.Credential.ExpiresAt,
		},
		Verifications: verifications,
		JWT: verdictJWTResponse{
			Issuer:    verdict.Claims.Issuer,
			Subject:   verdict.Claims.Subject,
			IssuedAt:  verdict.Claims.IssuedAt.Time,
			ExpiresAt: verdict.Claims.ExpiresAt.Time,
		},
	}
}

type revokeRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}

type revokeResponse struct {
	Success      bool      `json:"success"`
	CredentialID string    `json:"credentialId"`
	RevokedAt    time.Time `json:"revokedAt"`
	Message      string    `json:"message"`
}

func newRevokeResponse(credential *models.Credential) revokeResponse {
	return revokeResponse{
		Success:      true,
		CredentialID: credential.ID.String(),
		RevokedAt:    *credential.RevokedAt,
		Message:      "Credential revoked successfully",
	}
}

type statusResponse struct {
	CredentialID string     `json:"credentialId"`
	Tier         string     `json:"tier"`
	IssuedAt     time.Time  `json:"issuedAt"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	RevokedAt    *time.Time `json:"revokedAt"`
	Expired      bool       `json:"expired"`
	Revoked      bool       `json:"revoked"`
	Valid        bool       `json:"valid"`
}

func newStatusResponse(view *service.StatusView) statusResponse {
	return statusResponse{
		CredentialID: view.Credential.ID.String(),
		Tier:         view.Credential.Tier.String(),
		IssuedAt:     view.Credential.IssuedAt,
		ExpiresAt:    view.Credential.ExpiresAt,
		RevokedAt:    view.Credential.RevokedAt,
		Expired:      view.Expired,
		Revoked:      view.Revoked,
		Valid:        view.Valid,
	}
}
