package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/mock/gomock"

	"passport/internal/audit"
	"passport/internal/credential/models"
	"passport/internal/sentinel"
	verificationmodels "passport/internal/verification/models"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

func (s *ServiceSuite) TestIssueGrantsProvisional() {
	contractor := s.contractor()
	records := []*verificationmodels.Record{
		s.verifiedRecord(contractor.ID, verificationmodels.TypeIdentity),
	}

	s.mockContractors.EXPECT().FindByID(gomock.Any(), contractor.ID).Return(contractor, nil)
	s.mockStore.EXPECT().FindActiveByContractor(gomock.Any(), contractor.ID, s.now).Return(nil, sentinel.ErrNotFound)
	s.mockVerifications.EXPECT().ListByContractor(gomock.Any(), contractor.ID).Return(records, nil)
	s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any(), s.now).
		DoAndReturn(func(_ context.Context, credential *models.Credential, _ time.Time) (*models.Credential, bool, error) {
			return credential, true, nil
		})

	result, err := s.service.Issue(context.Background(), contractor.ID)
	s.Require().NoError(err)
	s.False(result.Reused)
	s.Equal(models.TierProvisional, result.Credential.Tier)
	s.True(result.Credential.IssuedAt.Equal(s.now))
	// Provisional credentials live for one day.
	s.True(result.Credential.ExpiresAt.Equal(s.now.AddDate(0, 0, 1)))

	// The minted token must validate against our own key and carry the
	// verified snapshot.
	claims, err := s.signer.Verify(result.Credential.Token)
	s.Require().NoError(err)
	s.Equal(contractor.ID.String(), claims.Subject)
	s.Equal("PROVISIONAL", claims.Tier)
	s.Len(claims.Verifications, 1)

	events, err := s.auditStore.ListByContractor(context.Background(), contractor.ID.String())
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionCredentialIssued, events[0].Action)
}

func (s *ServiceSuite) TestIssueGrantsFullClearance() {
	contractor := s.contractor()
	records := []*verificationmodels.Record{
		s.verifiedRecord(contractor.ID, verificationmodels.TypeIdentity),
		s.verifiedRecord(contractor.ID, verificationmodels.TypeGitHub),
		s.verifiedRecord(contractor.ID, verificationmodels.TypeLinkedIn),
		s.verifiedRecord(contractor.ID, verificationmodels.TypeBackgroundCheck),
		s.verifiedRecord(contractor.ID, verificationmodels.TypeReference),
		s.verifiedRecord(contractor.ID, verificationmodels.TypeReference),
	}

	s.mockContractors.EXPECT().FindByID(gomock.Any(), contractor.ID).Return(contractor, nil)
	s.mockStore.EXPECT().FindActiveByContractor(gomock.Any(), contractor.ID, s.now).Return(nil, sentinel.ErrNotFound)
	s.mockVerifications.EXPECT().ListByContractor(gomock.Any(), contractor.ID).Return(records, nil)
	s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any(), s.now).
		DoAndReturn(func(_ context.Context, credential *models.Credential, _ time.Time) (*models.Credential, bool, error) {
			return credential, true, nil
		})

	result, err := s.service.Issue(context.Background(), contractor.ID)
	s.Require().NoError(err)
	s.Equal(models.TierFullClearance, result.Credential.Tier)
	s.True(result.Credential.ExpiresAt.Equal(s.now.AddDate(0, 0, 90)))
}

func (s *ServiceSuite) TestIssueFailedRecordsExcludedFromToken() {
	contractor := s.contractor()
	failed := s.verifiedRecord(contractor.ID, verificationmodels.TypeGitHub)
	failed.Status = verificationmodels.StatusFailed
	records := []*verificationmodels.Record{
		s.verifiedRecord(contractor.ID, verificationmodels.TypeIdentity),
		failed,
	}

	s.mockContractors.EXPECT().FindByID(gomock.Any(), contractor.ID).Return(contractor, nil)
	s.mockStore.EXPECT().FindActiveByContractor(gomock.Any(), contractor.ID, s.now).Return(nil, sentinel.ErrNotFound)
	s.mockVerifications.EXPECT().ListByContractor(gomock.Any(), contractor.ID).Return(records, nil)
	s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any(), s.now).
		DoAndReturn(func(_ context.Context, credential *models.Credential, _ time.Time) (*models.Credential, bool, error) {
			return credential, true, nil
		})

	result, err := s.service.Issue(context.Background(), contractor.ID)
	s.Require().NoError(err)

	claims, err := s.signer.Verify(result.Credential.Token)
	s.Require().NoError(err)
	s.Require().Len(claims.Verifications, 1)
	s.Equal("identity", claims.Verifications[0].Type)
}

func (s *ServiceSuite) TestIssueNotEligible() {
	contractor := s.contractor()
	pending := s.verifiedRecord(contractor.ID, verificationmodels.TypeIdentity)
	pending.Status = verificationmodels.StatusPending
	pending.CompletedAt = nil

	s.mockContractors.EXPECT().FindByID(gomock.Any(), contractor.ID).Return(contractor, nil)
	s.mockStore.EXPECT().FindActiveByContractor(gomock.Any(), contractor.ID, s.now).Return(nil, sentinel.ErrNotFound)
	s.mockVerifications.EXPECT().ListByContractor(gomock.Any(), contractor.ID).
		Return([]*verificationmodels.Record{pending}, nil)

	_, err := s.service.Issue(context.Background(), contractor.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotEligible))

	// The error carries the full diagnostic for the HTTP layer.
	var notEligible *models.NotEligibleError
	s.Require().True(errors.As(err, &notEligible))
	s.Len(notEligible.Requirements, 2)
	s.Require().Len(notEligible.Current, 1)
	s.Equal(verificationmodels.StatusPending, notEligible.Current[0].Status)
}

func (s *ServiceSuite) TestIssueReusesActiveCredential() {
	contractor := s.contractor()
	existing := &models.Credential{
		ID:           id.NewCredentialID(),
		ContractorID: contractor.ID,
		Tier:         models.TierProvisional,
		Token:        "existing-token",
		IssuedAt:     s.now.Add(-time.Hour),
		ExpiresAt:    s.now.Add(23 * time.Hour),
	}

	s.mockContractors.EXPECT().FindByID(gomock.Any(), contractor.ID).Return(contractor, nil)
	s.mockStore.EXPECT().FindActiveByContractor(gomock.Any(), contractor.ID, s.now).Return(existing, nil)

	result, err := s.service.Issue(context.Background(), contractor.ID)
	s.Require().NoError(err)
	s.True(result.Reused)
	s.Equal(existing.ID, result.Credential.ID)
}

func (s *ServiceSuite) TestIssueStoreRaceReturnsWinner() {
	contractor := s.contractor()
	winner := &models.Credential{
		ID:           id.NewCredentialID(),
		ContractorID: contractor.ID,
		Tier:         models.TierProvisional,
		Token:        "winner-token",
		IssuedAt:     s.now,
		ExpiresAt:    s.now.AddDate(0, 0, 1),
	}

	s.mockContractors.EXPECT().FindByID(gomock.Any(), contractor.ID).Return(contractor, nil)
	s.mockStore.EXPECT().FindActiveByContractor(gomock.Any(), contractor.ID, s.now).Return(nil, sentinel.ErrNotFound)
	s.mockVerifications.EXPECT().ListByContractor(gomock.Any(), contractor.ID).
		Return([]*verificationmodels.Record{s.verifiedRecord(contractor.ID, verificationmodels.TypeIdentity)}, nil)
	s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any(), s.now).Return(winner, false, nil)

	result, err := s.service.Issue(context.Background(), contractor.ID)
	s.Require().NoError(err)
	s.True(result.Reused)
	s.Equal(winner.ID, result.Credential.ID)
}

func (s *ServiceSuite) TestIssueContractorNotFound() {
	contractorID := id.NewContractorID()
	s.mockContractors.EXPECT().FindByID(gomock.Any(), contractorID).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Issue(context.Background(), contractorID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestIssueStoreErrorPropagates() {
	contractor := s.contractor()
	s.mockContractors.EXPECT().FindByID(gomock.Any(), contractor.ID).Return(contractor, nil)
	s.mockStore.EXPECT().FindActiveByContractor(gomock.Any(), contractor.ID, s.now).
		Return(nil, errors.New("connection refused"))

	_, err := s.service.Issue(context.Background(), contractor.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
