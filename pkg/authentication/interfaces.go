// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/gym-membership-service/internal/types"
)

type ProviderInterface interface {
	// Verifier returns the token verifier associated with the specified OIDC issuer
	Verifier(*oidc.Config) *oidc.IDTokenVerifier
}

type TokenVerifierInterface interface {
	// VerifyToken verifies a raw JWT string and returns the person it was issued to
	VerifyToken(ctx context.Context, rawToken string) (*types.VerifiedIdentity, error)
}

// SessionResolverInterface resolves browser sessions issued by the login provider.
type SessionResolverInterface interface {
	CurrentVerifiedIdentity(ctx context.Context, cookie, sessionToken string) (*types.VerifiedIdentity, error)
}
