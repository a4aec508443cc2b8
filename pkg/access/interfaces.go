// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"context"

	"github.com/canonical/gym-membership-service/internal/types"
)

// ResolverInterface maps a verified login onto its provisioned Identity.
type ResolverInterface interface {
	Resolve(ctx context.Context, externalHandle, verifiedEmail string) (*types.Identity, error)
}

type StorageInterface interface {
	GetIdentityByID(ctx context.Context, id string) (*types.Identity, error)
}

// AuthorizerInterface answers relationship questions that the role alone cannot,
// such as trainer to member assignments.
type AuthorizerInterface interface {
	CheckMemberAccess(ctx context.Context, userID, memberID string) (bool, error)
}

type ServiceInterface interface {
	Subject(ctx context.Context, verified *types.VerifiedIdentity) (Subject, error)
	CanAccessMember(ctx context.Context, requester *types.Identity, memberID string) (bool, error)
	GetMember(ctx context.Context, requester *types.Identity, memberID string) (*types.Identity, error)
}
