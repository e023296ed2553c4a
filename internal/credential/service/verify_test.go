package service

import (
	"context"
	"time"

	"go.uber.org/mock/gomock"

	"passport/internal/credential/models"
	"passport/internal/sentinel"
	verificationmodels "passport/internal/verification/models"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

func (s *ServiceSuite) mintCredential(contractorID id.ContractorID, records []*verificationmodels.Record) *models.Credential {
	s.T().Helper()
	expiresAt := s.now.AddDate(0, 0, 1)
	signed, err := s.signer.Mint(contractorID, models.TierProvisional.String(), records, s.now, expiresAt)
	s.Require().NoError(err)
	return &models.Credential{
		ID:           id.NewCredentialID(),
		ContractorID: contractorID,
		Tier:         models.TierProvisional,
		Token:        signed,
		IssuedAt:     s.now,
		ExpiresAt:    expiresAt,
	}
}

func (s *ServiceSuite) TestVerifyValid() {
	contractor := s.contractor()
	identity := s.verifiedRecord(contractor.ID, verificationmodels.TypeIdentity)
	credential := s.mintCredential(contractor.ID, []*verificationmodels.Record{identity})

	// A verification completed after issuance shows up in the verdict: the
	// live records are authoritative, not the token snapshot.
	github := s.verifiedRecord(contractor.ID, verificationmodels.TypeGitHub)

	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(credential, nil)
	s.mockContractors.EXPECT().FindByID(gomock.Any(), contractor.ID).Return(contractor, nil)
	s.mockVerifications.EXPECT().ListByContractor(gomock.Any(), contractor.ID).
		Return([]*verificationmodels.Record{identity, github}, nil)

	verdict, err := s.service.Verify(context.Background(), credential.ID)
	s.Require().NoError(err)
	s.True(verdict.Valid)
	s.Empty(verdict.Reason)
	s.Equal(contractor.Name, verdict.ContractorName)
	s.Len(verdict.Verifications, 2)
	s.Require().NotNil(verdict.Claims)
	s.Equal(contractor.ID.String(), verdict.Claims.Subject)
	s.Len(verdict.Claims.Verifications, 1)
}

func (s *ServiceSuite) TestVerifyRevoked() {
	contractor := s.contractor()
	credential := s.mintCredential(contractor.ID, nil)
	revokedAt := s.now.Add(-time.Minute)
	credential.RevokedAt = &revokedAt

	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(credential, nil)

	verdict, err := s.service.Verify(context.Background(), credential.ID)
	s.Require().NoError(err)
	s.False(verdict.Valid)
	s.Equal("revoked", verdict.Reason)
}

func (s *ServiceSuite) TestVerifyRevokedBeatsExpired() {
	// A credential can be both revoked and expired; revocation wins the
	// verdict since the checks run in that order.
	contractor := s.contractor()
	credential := s.mintCredential(contractor.ID, nil)
	credential.ExpiresAt = s.now.Add(-time.Hour)
	revokedAt := s.now.Add(-2 * time.Hour)
	credential.RevokedAt = &revokedAt

	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(credential, nil)

	verdict, err := s.service.Verify(context.Background(), credential.ID)
	s.Require().NoError(err)
	s.Equal("revoked", verdict.Reason)
}

func (s *ServiceSuite) TestVerifyExpired() {
	contractor := s.contractor()
	credential := s.mintCredential(contractor.ID, nil)
	credential.ExpiresAt = s.now.Add(-time.Second)

	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(credential, nil)

	verdict, err := s.service.Verify(context.Background(), credential.ID)
	s.Require().NoError(err)
	s.False(verdict.Valid)
	s.Equal("expired", verdict.Reason)
}

func (s *ServiceSuite) TestVerifyTamperedToken() {
	contractor := s.contractor()
	credential := s.mintCredential(contractor.ID, nil)
	credential.Token = credential.Token + "tampered"

	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(credential, nil)

	verdict, err := s.service.Verify(context.Background(), credential.ID)
	s.Require().NoError(err)
	s.False(verdict.Valid)
	s.Equal("invalid_signature", verdict.Reason)
}

func (s *ServiceSuite) TestVerifyNotFound() {
	credentialID := id.NewCredentialID()
	s.mockStore.EXPECT().FindByID(gomock.Any(), credentialID).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Verify(context.Background(), credentialID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
