// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	ory "github.com/ory/client-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
)

const (
	invitationKey    = "invitation"
	statusKey        = "status"
	statusPending    = "pending"
	statusAccepted   = "accepted"
	defaultSchemaID  = "default"
	invitationStatus = "/metadata_admin/" + invitationKey + "/" + statusKey
)

var _ ClientInterface = (*Client)(nil)

type Config struct {
	AdminURL             string
	PublicURL            string
	InvitationLifetime   string
	RequireVerifiedEmail bool
}

// Client talks to the Kratos admin API for invitations and to the public API for sessions.
// An invitation is an unclaimed Kratos identity flagged in its admin metadata plus a recovery
// link the invitee uses to set up credentials.
type Client struct {
	admin  *ory.APIClient
	public *ory.APIClient

	invitationLifetime   string
	requireVerifiedEmail bool

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func newAPIClient(url string) *ory.APIClient {
	conf := ory.NewConfiguration()
	conf.Servers = ory.ServerConfigurations{{URL: url}}
	conf.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	return ory.NewAPIClient(conf)
}

func NewClient(cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	return &Client{
		admin:                newAPIClient(cfg.AdminURL),
		public:               newAPIClient(cfg.PublicURL),
		invitationLifetime:   cfg.InvitationLifetime,
		requireVerifiedEmail: cfg.RequireVerifiedEmail,
		tracer:               tracer,
		monitor:              monitor,
		logger:               logger,
	}
}

func statusCode(r *http.Response) int {
	if r == nil {
		return 0
	}
	return r.StatusCode
}

func (c *Client) recordAvailability(r *http.Response, err error) {
	available := 1.0
	if err != nil && (r == nil || r.StatusCode >= http.StatusInternalServerError) {
		available = 0
	}
	if mErr := c.monitor.SetDependencyAvailability(map[string]string{"component": "kratos"}, available); mErr != nil {
		c.logger.Debugf("failed to record kratos availability: %v", mErr)
	}
}

// invitationState reads metadata_admin.invitation.status, returning "" for identities
// that were not created through an invitation.
func invitationState(identity *ory.Identity) string {
	inv, ok := identity.MetadataAdmin[invitationKey].(map[string]interface{})
	if !ok {
		return ""
	}
	status, _ := inv[statusKey].(string)
	return status
}

func traitEmail(identity *ory.Identity) string {
	traits, ok := identity.Traits.(map[string]interface{})
	if !ok {
		return ""
	}
	email, _ := traits["email"].(string)
	return email
}

func (c *Client) findByEmail(ctx context.Context, email string) ([]ory.Identity, error) {
	// NOTE: we are setting an empty page token because of https://github.com/ory/sdk/issues/461
	ids, r, err := c.admin.IdentityAPI.ListIdentities(ctx).CredentialsIdentifier(email).PageToken("").Execute()
	c.recordAvailability(r, err)
	if err != nil {
		if statusCode(r) == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	return ids, nil
}

func (c *Client) CreateInvitation(ctx context.Context, email string, metadata types.InvitationMetadata) (*types.Invitation, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.CreateInvitation")
	defer span.End()

	email = types.NormalizeEmail(email)

	existing, err := c.findByEmail(ctx, email)
	if err != nil {
		return nil, types.NewProviderError(types.ProviderFailure, err)
	}
	for i := range existing {
		if invitationState(&existing[i]) == statusPending {
			return nil, types.NewProviderError(types.ProviderDuplicateInvite, fmt.Errorf("invitation for %s is still pending", email))
		}
		return nil, types.NewProviderError(types.ProviderAlreadyHasLogin, fmt.Errorf("%s already has a login", email))
	}

	body := ory.CreateIdentityBody{
		SchemaId: defaultSchemaID,
		Traits: map[string]interface{}{
			"email": email,
			"name": map[string]interface{}{
				"first": metadata.FirstName,
				"last":  metadata.LastName,
			},
		},
		MetadataAdmin: map[string]interface{}{
			invitationKey: map[string]interface{}{
				statusKey:   statusPending,
				"role":      string(metadata.Role),
				"tenant_id": metadata.TenantID,
			},
		},
	}

	identity, r, err := c.admin.IdentityAPI.CreateIdentity(ctx).CreateIdentityBody(body).Execute()
	c.recordAvailability(r, err)
	if err != nil {
		if statusCode(r) == http.StatusConflict {
			return nil, types.NewProviderError(types.ProviderDuplicateInvite, err)
		}
		return nil, types.NewProviderError(types.ProviderFailure, fmt.Errorf("failed to create identity: %w", err))
	}

	code, r, err := c.admin.IdentityAPI.CreateRecoveryCodeForIdentity(ctx).
		CreateRecoveryCodeForIdentityBody(ory.CreateRecoveryCodeForIdentityBody{
			IdentityId: identity.Id,
			ExpiresIn:  &c.invitationLifetime,
		}).
		Execute()
	c.recordAvailability(r, err)
	if err != nil {
		if _, dErr := c.admin.IdentityAPI.DeleteIdentity(ctx, identity.Id).Execute(); dErr != nil {
			c.logger.Errorf("failed to clean up invitation identity %s: %v", identity.Id, dErr)
		}
		return nil, types.NewProviderError(types.ProviderFailure, fmt.Errorf("failed to create recovery code: %w", err))
	}

	return &types.Invitation{
		ID:        identity.Id,
		Email:     email,
		Status:    types.InvitationPending,
		Link:      code.RecoveryLink,
		Code:      code.RecoveryCode,
		ExpiresAt: code.ExpiresAt,
	}, nil
}

// RevokeInvitation removes an unclaimed invitation. Anything that is not a pending
// invitation reports ProviderNotFound.
func (c *Client) RevokeInvitation(ctx context.Context, invitationID string) error {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.RevokeInvitation")
	defer span.End()

	identity, r, err := c.admin.IdentityAPI.GetIdentity(ctx, invitationID).Execute()
	c.recordAvailability(r, err)
	if err != nil {
		if statusCode(r) == http.StatusNotFound {
			return types.NewProviderError(types.ProviderNotFound, err)
		}
		return types.NewProviderError(types.ProviderFailure, fmt.Errorf("failed to get identity: %w", err))
	}

	if invitationState(identity) != statusPending {
		return types.NewProviderError(types.ProviderNotFound, fmt.Errorf("identity %s has no pending invitation", invitationID))
	}

	r, err = c.admin.IdentityAPI.DeleteIdentity(ctx, invitationID).Execute()
	c.recordAvailability(r, err)
	if err != nil {
		if statusCode(r) == http.StatusNotFound {
			return types.NewProviderError(types.ProviderNotFound, err)
		}
		return types.NewProviderError(types.ProviderFailure, fmt.Errorf("failed to delete identity: %w", err))
	}

	return nil
}

func (c *Client) ListPendingInvitations(ctx context.Context, email string) ([]*types.Invitation, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.ListPendingInvitations")
	defer span.End()

	email = types.NormalizeEmail(email)

	identities, err := c.findByEmail(ctx, email)
	if err != nil {
		return nil, types.NewProviderError(types.ProviderFailure, err)
	}

	invitations := make([]*types.Invitation, 0, len(identities))
	for i := range identities {
		if invitationState(&identities[i]) != statusPending {
			continue
		}
		invitations = append(invitations, &types.Invitation{
			ID:     identities[i].Id,
			Email:  email,
			Status: types.InvitationPending,
		})
	}

	return invitations, nil
}

// AcceptInvitation flags the invitation behind handle as accepted. Identities that never
// had a pending invitation are left untouched.
func (c *Client) AcceptInvitation(ctx context.Context, handle string) error {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.AcceptInvitation")
	defer span.End()

	identity, r, err := c.admin.IdentityAPI.GetIdentity(ctx, handle).Execute()
	c.recordAvailability(r, err)
	if err != nil {
		if statusCode(r) == http.StatusNotFound {
			return types.NewProviderError(types.ProviderNotFound, err)
		}
		return types.NewProviderError(types.ProviderFailure, fmt.Errorf("failed to get identity: %w", err))
	}

	if invitationState(identity) != statusPending {
		return nil
	}

	_, r, err = c.admin.IdentityAPI.PatchIdentity(ctx, handle).
		JsonPatch([]ory.JsonPatch{{Op: "replace", Path: invitationStatus, Value: statusAccepted}}).
		Execute()
	c.recordAvailability(r, err)
	if err != nil {
		return types.NewProviderError(types.ProviderFailure, fmt.Errorf("failed to patch identity: %w", err))
	}

	return nil
}

// CurrentVerifiedIdentity resolves the Kratos session carried by the request credentials.
func (c *Client) CurrentVerifiedIdentity(ctx context.Context, cookie, sessionToken string) (*types.VerifiedIdentity, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.Client.CurrentVerifiedIdentity")
	defer span.End()

	if cookie == "" && sessionToken == "" {
		return nil, &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}
	}

	req := c.public.FrontendAPI.ToSession(ctx)
	if cookie != "" {
		req = req.Cookie(cookie)
	}
	if sessionToken != "" {
		req = req.XSessionToken(sessionToken)
	}

	session, r, err := req.Execute()
	c.recordAvailability(r, err)
	if err != nil {
		switch statusCode(r) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	if session.Active != nil && !*session.Active {
		return nil, &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}
	}
	if session.Identity == nil {
		return nil, errors.New("session carries no identity")
	}

	email := types.NormalizeEmail(traitEmail(session.Identity))
	if email == "" {
		return nil, &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}
	}

	if c.requireVerifiedEmail && !emailVerified(session.Identity, email) {
		c.logger.Security().AuthnFailure(session.Identity.Id, "email not verified")
		return nil, &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}
	}

	return &types.VerifiedIdentity{Handle: session.Identity.Id, Email: email}, nil
}

func emailVerified(identity *ory.Identity, email string) bool {
	for _, a := range identity.VerifiableAddresses {
		if strings.EqualFold(strings.TrimSpace(a.Value), email) && a.Verified {
			return true
		}
	}
	return false
}
