// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
)

type Service struct {
	resolver ResolverInterface
	storage  StorageInterface
	authz    AuthorizerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Subject builds the Subject of a request. Unprovisioned and deactivated people are not
// errors here, they are encoded in the Subject and denied by the Policy.
func (s *Service) Subject(ctx context.Context, verified *types.VerifiedIdentity) (Subject, error) {
	ctx, span := s.tracer.Start(ctx, "access.Service.Subject")
	defer span.End()

	if verified == nil {
		return Subject{}, nil
	}

	identity, err := s.resolver.Resolve(ctx, verified.Handle, verified.Email)
	switch {
	case err == nil, errors.Is(err, types.ErrDeactivated) && identity != nil:
		return Subject{Verified: verified, Identity: identity}, nil
	case errors.Is(err, types.ErrNotProvisioned):
		return Subject{Verified: verified}, nil
	}

	return Subject{}, fmt.Errorf("failed to resolve identity: %w", err)
}

// CanAccessMember reports whether requester may see the member identified by memberID.
// Users only see themselves, trainers only the members assigned to them, admins the
// members of their gym.
func (s *Service) CanAccessMember(ctx context.Context, requester *types.Identity, memberID string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "access.Service.CanAccessMember")
	defer span.End()

	if requester == nil || !requester.IsActive {
		return false, nil
	}

	switch requester.Role {
	case types.RoleSuperuser:
		return true, nil
	case types.RoleUser:
		return requester.ID == memberID, nil
	}

	if requester.ID == memberID {
		return true, nil
	}

	member, err := s.storage.GetIdentityByID(ctx, memberID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, types.NewStoreError("lookup member", err)
	}

	if member.Tenant() == "" || member.Tenant() != requester.Tenant() {
		return false, nil
	}

	switch requester.Role {
	case types.RoleAdmin:
		return member.Role != types.RoleSuperuser, nil
	case types.RoleTrainer:
		if member.Role != types.RoleUser {
			return false, nil
		}
		ok, err := s.authz.CheckMemberAccess(ctx, requester.ID, memberID)
		if err != nil {
			return false, fmt.Errorf("failed to check member access: %w", err)
		}
		return ok, nil
	}

	return false, nil
}

// GetMember returns the identity behind memberID if requester may see it.
func (s *Service) GetMember(ctx context.Context, requester *types.Identity, memberID string) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "access.Service.GetMember")
	defer span.End()

	if requester == nil {
		return nil, &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}
	}

	ok, err := s.CanAccessMember(ctx, requester, memberID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Security().AuthzFailure(requester.ID, "member:"+memberID)
		return nil, &types.UnauthorizedError{Reason: types.ReasonInsufficientPermissions}
	}

	member, err := s.storage.GetIdentityByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, types.NewStoreError("lookup member", err)
	}

	return member, nil
}

func NewService(
	resolver ResolverInterface,
	storage StorageInterface,
	authz AuthorizerInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.resolver = resolver
	s.storage = storage
	s.authz = authz

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
