// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/gym-membership-service/internal/types"
)

type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	ListTenants(ctx context.Context) ([]*types.Tenant, error)
	DeleteTenant(ctx context.Context, id string) error

	CreateIdentity(ctx context.Context, i *types.Identity) (*types.Identity, error)
	GetIdentityByID(ctx context.Context, id string) (*types.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*types.Identity, error)
	GetIdentityByBinding(ctx context.Context, handle string) (*types.Identity, error)
	GetPendingIdentityByEmail(ctx context.Context, email string) (*types.Identity, error)
	BindExternalHandle(ctx context.Context, id string, expected, next types.Binding) error
	SetIdentityActive(ctx context.Context, id string, active bool) error
	DeleteIdentity(ctx context.Context, id string) error
	ListIdentitiesByTenant(ctx context.Context, tenantID string, page, size int64) ([]*types.Identity, error)

	CreateNotification(ctx context.Context, n *types.Notification) (*types.Notification, error)
	ListNotifications(ctx context.Context, identityID string, unreadOnly bool) ([]*types.Notification, error)
	SetNotificationRead(ctx context.Context, identityID, id string, read bool) error
	MarkAllNotificationsRead(ctx context.Context, identityID string) (int64, error)
}
