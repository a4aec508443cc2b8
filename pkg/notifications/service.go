// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package notifications

import (
	"context"
	"errors"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
)

// Service exposes the inbox of the calling identity. Nobody can read or change the
// notifications of someone else.
type Service struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (s *Service) List(ctx context.Context, requester *types.Identity, unreadOnly bool) ([]*types.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "notifications.Service.List")
	defer span.End()

	if requester == nil {
		return nil, &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}
	}

	notifications, err := s.storage.ListNotifications(ctx, requester.ID, unreadOnly)
	if err != nil {
		s.logger.Errorf("failed to list notifications of %s: %v", requester.ID, err)
		return nil, types.NewStoreError("list notifications", err)
	}

	if notifications == nil {
		notifications = []*types.Notification{}
	}

	return notifications, nil
}

func (s *Service) SetRead(ctx context.Context, requester *types.Identity, id string, read bool) error {
	ctx, span := s.tracer.Start(ctx, "notifications.Service.SetRead")
	defer span.End()

	if requester == nil {
		return &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}
	}

	err := s.storage.SetNotificationRead(ctx, requester.ID, id, read)
	if errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if err != nil {
		s.logger.Errorf("failed to update notification %s: %v", id, err)
		return types.NewStoreError("update notification", err)
	}

	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, requester *types.Identity) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "notifications.Service.MarkAllRead")
	defer span.End()

	if requester == nil {
		return 0, &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}
	}

	n, err := s.storage.MarkAllNotificationsRead(ctx, requester.ID)
	if err != nil {
		s.logger.Errorf("failed to mark notifications of %s as read: %v", requester.ID, err)
		return 0, types.NewStoreError("update notifications", err)
	}

	return n, nil
}

func NewService(storage StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.storage = storage

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
