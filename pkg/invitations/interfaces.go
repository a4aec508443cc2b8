// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import (
	"context"
	"net/http"

	"github.com/canonical/gym-membership-service/internal/types"
)

// ProviderInterface is the invitation feature of the identity provider.
type ProviderInterface interface {
	CreateInvitation(ctx context.Context, email string, metadata types.InvitationMetadata) (*types.Invitation, error)
	RevokeInvitation(ctx context.Context, invitationID string) error
	ListPendingInvitations(ctx context.Context, email string) ([]*types.Invitation, error)
}

type StorageInterface interface {
	GetIdentityByID(ctx context.Context, id string) (*types.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*types.Identity, error)
}

// GuardInterface gates routes on the sections of the caller.
type GuardInterface interface {
	RequireSection(sections ...types.Section) func(http.Handler) http.Handler
}

type ServiceInterface interface {
	Send(ctx context.Context, email string, metadata types.InvitationMetadata) (*types.Invitation, error)
	Resend(ctx context.Context, email string, metadata types.InvitationMetadata) (*types.Invitation, error)
	Revoke(ctx context.Context, email string) (int, error)
	Status(ctx context.Context, identity *types.Identity) types.InvitationStatus
	ResendForIdentity(ctx context.Context, requester *types.Identity, identityID string) (*types.Invitation, error)
	StatusForIdentity(ctx context.Context, requester *types.Identity, identityID string) (*StatusReport, error)
}
