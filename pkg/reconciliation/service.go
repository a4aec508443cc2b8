// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package reconciliation

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
	storage  StorageInterface
	provider ProviderInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Resolve maps an authenticated login onto its Identity. A known handle is answered with zero
// writes. Otherwise the pending Identity for the verified email is bound to the handle with a
// single compare-and-swap, so concurrent first logins bind at most once.
//
// ErrDeactivated is returned together with the Identity so callers can still report who was denied.
func (s *Service) Resolve(ctx context.Context, externalHandle, verifiedEmail string) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "reconciliation.Service.Resolve")
	defer span.End()

	bound, err := types.BoundBinding(externalHandle)
	if err != nil {
		s.logger.Security().AuthnFailure(externalHandle, err.Error())
		return nil, types.ErrNotProvisioned
	}

	identity, err := s.storage.GetIdentityByBinding(ctx, bound.Handle())
	switch {
	case err == nil:
		return checkActive(identity)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, types.NewStoreError("lookup identity by binding", err)
	}

	email := types.NormalizeEmail(verifiedEmail)
	if email == "" {
		return nil, types.ErrNotProvisioned
	}

	pending, err := s.storage.GetPendingIdentityByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debugf("no pending identity for handle %s", bound.Handle())
		return nil, types.ErrNotProvisioned
	}
	if err != nil {
		return nil, types.NewStoreError("lookup pending identity", err)
	}

	if !pending.IsActive {
		s.logger.Security().AuthzFailure(bound.Handle(), "claim of deactivated identity "+pending.ID)
		return pending, types.ErrDeactivated
	}

	err = s.storage.BindExternalHandle(ctx, pending.ID, pending.Binding, bound)
	switch {
	case err == nil:
		pending.Binding = bound
		s.outcome("bound")
		s.logger.Infof("identity %s bound to handle %s", pending.ID, bound.Handle())
		s.acceptInvitation(ctx, bound.Handle())
		return pending, nil
	case errors.Is(err, storage.ErrConditionFailed):
		return s.afterLostRace(ctx, pending.ID, bound)
	case errors.Is(err, storage.ErrDuplicateKey):
		// the handle got bound to another row meanwhile
		return s.afterHandleTaken(ctx, bound)
	}

	return nil, types.NewStoreError("bind external handle", err)
}

func (s *Service) afterLostRace(ctx context.Context, id string, bound types.Binding) (*types.Identity, error) {
	current, err := s.storage.GetIdentityByID(ctx, id)
	if err != nil {
		return nil, types.NewStoreError("re-read identity", err)
	}

	if current.Binding.IsBound() && current.Binding.Handle() == bound.Handle() {
		s.outcome("already_bound")
		return checkActive(current)
	}

	s.outcome("conflict")
	s.logger.Security().AuthnFailure(
		bound.Handle(),
		fmt.Sprintf("pending identity %s was claimed by a different handle", id),
	)

	return nil, types.ErrNotProvisioned
}

func (s *Service) afterHandleTaken(ctx context.Context, bound types.Binding) (*types.Identity, error) {
	identity, err := s.storage.GetIdentityByBinding(ctx, bound.Handle())
	if err != nil {
		return nil, types.NewStoreError("re-read identity by binding", err)
	}

	s.outcome("already_bound")
	return checkActive(identity)
}

func (s *Service) acceptInvitation(ctx context.Context, handle string) {
	if s.provider == nil {
		return
	}

	if err := s.provider.AcceptInvitation(ctx, handle); err != nil {
		s.logger.Warnf("failed to mark invitation accepted for %s: %v", handle, err)
	}
}

func (s *Service) outcome(result string) {
	_ = s.monitor.IncProvisioningOutcome(map[string]string{"operation": "reconcile", "outcome": result})
}

func checkActive(i *types.Identity) (*types.Identity, error) {
	if !i.IsActive {
		return i, types.ErrDeactivated
	}
	return i, nil
}

func NewService(
	storage StorageInterface,
	provider ProviderInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.storage = storage
	s.provider = provider

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
