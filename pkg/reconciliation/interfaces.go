// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package reconciliation

import (
	"context"

	"github.com/canonical/gym-membership-service/internal/types"
)

// StorageInterface is the subset of internal/storage used to bind identities.
type StorageInterface interface {
	GetIdentityByID(ctx context.Context, id string) (*types.Identity, error)
	GetIdentityByBinding(ctx context.Context, handle string) (*types.Identity, error)
	GetPendingIdentityByEmail(ctx context.Context, email string) (*types.Identity, error)
	BindExternalHandle(ctx context.Context, id string, expected, next types.Binding) error
}

// ProviderInterface is the subset of the identity provider client used after a successful bind.
type ProviderInterface interface {
	AcceptInvitation(ctx context.Context, handle string) error
}

type ServiceInterface interface {
	Resolve(ctx context.Context, externalHandle, verifiedEmail string) (*types.Identity, error)
}
