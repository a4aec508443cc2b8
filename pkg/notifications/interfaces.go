// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package notifications

import (
	"context"
	"net/http"

	"github.com/canonical/gym-membership-service/internal/types"
)

type StorageInterface interface {
	ListNotifications(ctx context.Context, identityID string, unreadOnly bool) ([]*types.Notification, error)
	SetNotificationRead(ctx context.Context, identityID, id string, read bool) error
	MarkAllNotificationsRead(ctx context.Context, identityID string) (int64, error)
}

// GuardInterface gates routes on the caller being a registered Identity.
type GuardInterface interface {
	RequireRegistered() func(http.Handler) http.Handler
}

type ServiceInterface interface {
	List(ctx context.Context, requester *types.Identity, unreadOnly bool) ([]*types.Notification, error)
	SetRead(ctx context.Context, requester *types.Identity, id string, read bool) error
	MarkAllRead(ctx context.Context, requester *types.Identity) (int64, error)
}
