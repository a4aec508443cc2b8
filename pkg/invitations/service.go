// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/pkg/access"
)

// StatusReport describes where an identity stands in the invitation lifecycle.
type StatusReport struct {
	IdentityID  string                 `json:"identity_id"`
	Email       string                 `json:"email"`
	Status      types.InvitationStatus `json:"status"`
	Invitations []*types.Invitation    `json:"invitations,omitempty"`
}

type Service struct {
	provider ProviderInterface
	storage  StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// StatusOf is pending while the identity still holds a placeholder and claimed once bound.
func StatusOf(i *types.Identity) types.InvitationStatus {
	if i.Binding.IsBound() {
		return types.InvitationClaimed
	}
	return types.InvitationPending
}

// Status gates invitation actions in the UI: only pending identities can be re-invited.
func (s *Service) Status(ctx context.Context, identity *types.Identity) types.InvitationStatus {
	_, span := s.tracer.Start(ctx, "invitations.Service.Status")
	defer span.End()

	return StatusOf(identity)
}

// Send asks the provider to deliver a claim link to email.
func (s *Service) Send(ctx context.Context, email string, metadata types.InvitationMetadata) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.Send")
	defer span.End()

	email = types.NormalizeEmail(email)
	if email == "" {
		return nil, &types.ValidationError{Field: "email", Reason: "is required"}
	}

	invitation, err := s.provider.CreateInvitation(ctx, email, metadata)
	if err != nil {
		s.logger.Errorf("failed to send invitation to %s: %v", email, err)
		return nil, asProviderError(err)
	}

	s.logger.Infof("invitation %s sent to %s as %s", invitation.ID, email, metadata.Role)
	return invitation, nil
}

// Resend revokes whatever is outstanding for email before sending a fresh invitation.
// Invitations that vanish in between are not an error. An email whose identity already
// signed in is refused with ProviderAlreadyHasLogin.
func (s *Service) Resend(ctx context.Context, email string, metadata types.InvitationMetadata) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.Resend")
	defer span.End()

	if err := s.ensureUnclaimed(ctx, email); err != nil {
		return nil, err
	}

	return s.reissue(ctx, email, metadata)
}

// Revoke withdraws every pending invitation for email and returns how many were withdrawn.
// The provider identity of a person who already signed in is never touched, even when its
// invitation flag was left pending.
func (s *Service) Revoke(ctx context.Context, email string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.Revoke")
	defer span.End()

	if err := s.ensureUnclaimed(ctx, email); err != nil {
		return 0, err
	}

	return s.revokeAll(ctx, email)
}

// ensureUnclaimed fails when the identity provisioned for email is bound to a login.
// Emails with no identity on record may still carry stray provider invitations.
func (s *Service) ensureUnclaimed(ctx context.Context, email string) error {
	email = types.NormalizeEmail(email)
	if email == "" {
		return &types.ValidationError{Field: "email", Reason: "is required"}
	}

	identity, err := s.storage.GetIdentityByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return types.NewStoreError("lookup identity", err)
	}

	if StatusOf(identity) == types.InvitationClaimed {
		s.logger.Infof("refusing invitation change for %s, identity %s already signed in", email, identity.ID)
		return types.NewProviderError(types.ProviderAlreadyHasLogin, fmt.Errorf("identity %s already signed in", identity.ID))
	}

	return nil
}

func (s *Service) reissue(ctx context.Context, email string, metadata types.InvitationMetadata) (*types.Invitation, error) {
	if _, err := s.revokeAll(ctx, email); err != nil {
		return nil, err
	}

	return s.Send(ctx, email, metadata)
}

func (s *Service) revokeAll(ctx context.Context, email string) (int, error) {
	email = types.NormalizeEmail(email)
	if email == "" {
		return 0, &types.ValidationError{Field: "email", Reason: "is required"}
	}

	pending, err := s.provider.ListPendingInvitations(ctx, email)
	if err != nil {
		return 0, asProviderError(err)
	}

	revoked := 0
	for _, invitation := range pending {
		err := s.provider.RevokeInvitation(ctx, invitation.ID)
		switch {
		case err == nil:
			revoked++
		case types.IsProviderError(err, types.ProviderNotFound):
			s.logger.Debugf("invitation %s already gone", invitation.ID)
		default:
			return revoked, asProviderError(err)
		}
	}

	return revoked, nil
}

// ResendForIdentity re-sends the invitation of a pending identity the requester manages.
func (s *Service) ResendForIdentity(ctx context.Context, requester *types.Identity, identityID string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.ResendForIdentity")
	defer span.End()

	target, err := s.managedIdentity(ctx, requester, identityID)
	if err != nil {
		return nil, err
	}

	if StatusOf(target) == types.InvitationClaimed {
		return nil, types.NewProviderError(types.ProviderAlreadyHasLogin, fmt.Errorf("identity %s already signed in", target.ID))
	}
	if !target.IsActive {
		return nil, &types.ValidationError{Field: "id", Reason: "identity is deactivated"}
	}

	invitation, err := s.reissue(ctx, target.Email, types.InvitationMetadata{
		Role:      target.Role,
		TenantID:  target.Tenant(),
		FirstName: target.FirstName,
		LastName:  target.LastName,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Security().AdminAction(requester.ID, "resend_invitation", target.ID)
	return invitation, nil
}

// StatusForIdentity reports the invitation status of an identity the requester manages,
// with the provider side invitations while it is still pending.
func (s *Service) StatusForIdentity(ctx context.Context, requester *types.Identity, identityID string) (*StatusReport, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.StatusForIdentity")
	defer span.End()

	target, err := s.managedIdentity(ctx, requester, identityID)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{IdentityID: target.ID, Email: target.Email, Status: StatusOf(target)}
	if report.Status == types.InvitationClaimed {
		return report, nil
	}

	pending, err := s.provider.ListPendingInvitations(ctx, target.Email)
	if err != nil {
		return nil, asProviderError(err)
	}
	report.Invitations = pending

	return report, nil
}

func (s *Service) managedIdentity(ctx context.Context, requester *types.Identity, identityID string) (*types.Identity, error) {
	if requester == nil {
		return nil, &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}
	}

	target, err := s.storage.GetIdentityByID(ctx, identityID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, types.NewStoreError("lookup identity", err)
	}

	if !access.CanManage(requester, target) {
		s.logger.Security().AuthzFailure(requester.ID, "identity:"+identityID)
		return nil, &types.UnauthorizedError{Reason: types.ReasonInsufficientPermissions}
	}

	return target, nil
}

func asProviderError(err error) error {
	var pErr *types.ProviderError
	if errors.As(err, &pErr) {
		return err
	}
	return types.NewProviderError(types.ProviderFailure, err)
}

func NewService(
	provider ProviderInterface,
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.provider = provider
	s.storage = storage

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
