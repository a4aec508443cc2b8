// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"

	"github.com/canonical/gym-membership-service/internal/types"
)

// ClientInterface is the invitation and session surface of the identity provider.
type ClientInterface interface {
	CreateInvitation(ctx context.Context, email string, metadata types.InvitationMetadata) (*types.Invitation, error)
	RevokeInvitation(ctx context.Context, invitationID string) error
	ListPendingInvitations(ctx context.Context, email string) ([]*types.Invitation, error)
	AcceptInvitation(ctx context.Context, handle string) error
	CurrentVerifiedIdentity(ctx context.Context, cookie, sessionToken string) (*types.VerifiedIdentity, error)
}
