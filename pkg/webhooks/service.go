// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"

	"github.com/ory/hydra/v2/oauth2"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/pkg/access"
)

type Service struct {
	resolver ResolverInterface
	storage  StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// HandleRegistration runs on every Kratos login and registration. It claims the pending
// identity of the person on first login and refuses logins nobody provisioned.
func (s *Service) HandleRegistration(ctx context.Context, identityID, email string) (*RegistrationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleRegistration")
	defer span.End()

	s.logger.Debugf("handling login hook for identity %s", identityID)

	if identityID == "" {
		return nil, &types.ValidationError{Field: "id", Reason: "is required"}
	}
	if email == "" {
		return nil, &types.ValidationError{Field: "traits.email", Reason: "is required"}
	}

	identity, err := s.resolver.Resolve(ctx, identityID, email)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("login %s resolved to identity %s", identityID, identity.ID)

	return &RegistrationResponse{IdentityID: identity.ID, Role: identity.Role, TenantID: identity.Tenant()}, nil
}

// HandleTokenHook adds the role and gym of the subject to the tokens Hydra issues.
// Tokens are refused for unknown and deactivated subjects.
func (s *Service) HandleTokenHook(ctx context.Context, req *oauth2.TokenHookRequest) (*TokenHookResponse, error) {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleTokenHook")
	defer span.End()

	if req == nil || req.Session == nil || req.Session.DefaultSession == nil || req.Session.DefaultSession.Subject == "" {
		return nil, &types.ValidationError{Field: "session.id_token.subject", Reason: "is required"}
	}
	subject := req.Session.DefaultSession.Subject

	s.logger.Debugf("handling token hook for subject %s", subject)

	bound, err := types.BoundBinding(subject)
	if err != nil {
		s.logger.Security().AuthnFailure(subject, err.Error())
		return nil, types.ErrNotProvisioned
	}

	identity, err := s.storage.GetIdentityByBinding(ctx, bound.Handle())
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Security().AuthnFailure(subject, string(types.ReasonNotRegistered))
		return nil, types.ErrNotProvisioned
	}
	if err != nil {
		return nil, types.NewStoreError("lookup identity", err)
	}

	if !identity.IsActive {
		s.logger.Security().AuthnFailure(subject, string(types.ReasonDeactivated))
		return nil, types.ErrDeactivated
	}

	sections := make([]string, 0)
	for _, sec := range access.AllowedSections(identity.Role) {
		sections = append(sections, string(sec))
	}

	claims := map[string]interface{}{
		"identity_id": identity.ID,
		"role":        string(identity.Role),
		"sections":    sections,
	}
	if tenant := identity.Tenant(); tenant != "" {
		claims["gym_id"] = tenant
	}

	resp := new(TokenHookResponse)
	resp.Session.IDToken = claims
	resp.Session.AccessToken = claims

	return resp, nil
}

func NewService(
	resolver ResolverInterface,
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.resolver = resolver
	s.storage = storage

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
