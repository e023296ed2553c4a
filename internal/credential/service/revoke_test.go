package service

import (
	"context"
	"time"

	"go.uber.org/mock/gomock"

	"passport/internal/audit"
	"passport/internal/sentinel"
	id "passport/pkg/domain"
	dErrors "passport/pkg/domain-errors"
)

func (s *ServiceSuite) TestRevoke() {
	contractor := s.contractor()
	credential := s.mintCredential(contractor.ID, nil)

	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(credential, nil)
	s.mockStore.EXPECT().Revoke(gomock.Any(), credential.ID, s.now).Return(nil)

	revoked, err := s.service.Revoke(context.Background(), credential.ID, "policy violation", "admin@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(revoked.RevokedAt)
	s.True(revoked.RevokedAt.Equal(s.now))

	events, err := s.auditStore.ListByContractor(context.Background(), contractor.ID.String())
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionCredentialRevoked, events[0].Action)
	s.Equal("admin@example.com", events[0].Actor)
	s.Equal("policy violation", events[0].Metadata["reason"])
}

func (s *ServiceSuite) TestRevokeDefaultsReasonAndActor() {
	contractor := s.contractor()
	credential := s.mintCredential(contractor.ID, nil)

	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(credential, nil)
	s.mockStore.EXPECT().Revoke(gomock.Any(), credential.ID, s.now).Return(nil)

	_, err := s.service.Revoke(context.Background(), credential.ID, "", "")
	s.Require().NoError(err)

	events, err := s.auditStore.ListByContractor(context.Background(), contractor.ID.String())
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActorSystem, events[0].Actor)
	s.Equal("No reason provided", events[0].Metadata["reason"])
}

func (s *ServiceSuite) TestRevokeAlreadyRevoked() {
	contractor := s.contractor()
	credential := s.mintCredential(contractor.ID, nil)
	revokedAt := s.now.Add(-time.Hour)
	credential.RevokedAt = &revokedAt

	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(credential, nil)

	_, err := s.service.Revoke(context.Background(), credential.ID, "again", "admin")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyRevoked))
	// The original revocation timestamp is reported, not the new attempt's.
	s.Contains(err.Error(), revokedAt.UTC().Format(time.RFC3339))
}

func (s *ServiceSuite) TestRevokeConcurrentLoserReportsWinner() {
	contractor := s.contractor()
	credential := s.mintCredential(contractor.ID, nil)

	winnerStamp := s.now.Add(-time.Second)
	revokedCopy := *credential
	revokedCopy.RevokedAt = &winnerStamp

	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(credential, nil)
	s.mockStore.EXPECT().Revoke(gomock.Any(), credential.ID, s.now).Return(sentinel.ErrInvalidState)
	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(&revokedCopy, nil)

	_, err := s.service.Revoke(context.Background(), credential.ID, "", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyRevoked))
	s.Contains(err.Error(), winnerStamp.UTC().Format(time.RFC3339))
}

func (s *ServiceSuite) TestRevokeNotFound() {
	credentialID := id.NewCredentialID()
	s.mockStore.EXPECT().FindByID(gomock.Any(), credentialID).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Revoke(context.Background(), credentialID, "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestStatus() {
	contractor := s.contractor()
	credential := s.mintCredential(contractor.ID, nil)

	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(credential, nil)

	view, err := s.service.Status(context.Background(), credential.ID)
	s.Require().NoError(err)
	s.True(view.Valid)
	s.False(view.Expired)
	s.False(view.Revoked)
}

func (s *ServiceSuite) TestStatusExpired() {
	contractor := s.contractor()
	credential := s.mintCredential(contractor.ID, nil)
	credential.ExpiresAt = s.now.Add(-time.Minute)

	s.mockStore.EXPECT().FindByID(gomock.Any(), credential.ID).Return(credential, nil)

	view, err := s.service.Status(context.Background(), credential.ID)
	s.Require().NoError(err)
	s.False(view.Valid)
	s.True(view.Expired)
	s.False(view.Revoked)
}
