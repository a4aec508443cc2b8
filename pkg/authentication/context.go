// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/canonical/gym-membership-service/internal/types"
)

type contextKey struct{}

var verifiedIdentityKey = contextKey{}

// WithVerifiedIdentity returns a new context carrying the person the login provider vouched for.
func WithVerifiedIdentity(ctx context.Context, vi *types.VerifiedIdentity) context.Context {
	return context.WithValue(ctx, verifiedIdentityKey, vi)
}

// VerifiedIdentityFromContext returns nil, false for unauthenticated requests.
func VerifiedIdentityFromContext(ctx context.Context) (*types.VerifiedIdentity, bool) {
	vi, ok := ctx.Value(verifiedIdentityKey).(*types.VerifiedIdentity)
	return vi, ok && vi != nil
}
