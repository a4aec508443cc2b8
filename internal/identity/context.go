// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package identity carries the provisioned Identity resolved for a request.
package identity

import (
	"context"

	"github.com/canonical/gym-membership-service/internal/types"
)

type contextKey struct{}

func WithIdentity(ctx context.Context, i *types.Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, i)
}

// FromContext returns the Identity placed by the access middleware, if any.
func FromContext(ctx context.Context) (*types.Identity, bool) {
	i, ok := ctx.Value(contextKey{}).(*types.Identity)
	return i, ok && i != nil
}
