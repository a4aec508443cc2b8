// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"

	"github.com/ory/hydra/v2/oauth2"

	"github.com/canonical/gym-membership-service/internal/types"
)

// ResolverInterface binds a login to its provisioned identity.
type ResolverInterface interface {
	Resolve(ctx context.Context, externalHandle, verifiedEmail string) (*types.Identity, error)
}

type StorageInterface interface {
	GetIdentityByBinding(ctx context.Context, handle string) (*types.Identity, error)
}

// ServiceInterface defines the webhook service operations.
type ServiceInterface interface {
	HandleRegistration(ctx context.Context, identityID, email string) (*RegistrationResponse, error)
	HandleTokenHook(ctx context.Context, req *oauth2.TokenHookRequest) (*TokenHookResponse, error)
}
