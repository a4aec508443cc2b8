// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/gym-membership-service/internal/types"
)

func scanNotification(row sq.RowScanner) (*types.Notification, error) {
	var n types.Notification
	if err := row.Scan(&n.ID, &n.IdentityID, &n.Title, &n.Message, &n.Category, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Storage) CreateNotification(ctx context.Context, n *types.Notification) (*types.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateNotification")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate notification ID: %w", err)
	}

	created, err := scanNotification(
		s.db.Statement(ctx).
			Insert("notifications").
			Columns("id", "identity_id", "title", "message", "category").
			Values(id, n.IdentityID, n.Title, n.Message, n.Category).
			Suffix("RETURNING id, identity_id, title, message, category, read, created_at").
			QueryRowContext(ctx),
	)
	if err != nil {
		return nil, mapWriteError(err, "failed to insert notification")
	}

	return created, nil
}

func (s *Storage) ListNotifications(ctx context.Context, identityID string, unreadOnly bool) ([]*types.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListNotifications")
	defer span.End()

	query := s.db.Statement(ctx).
		Select("id", "identity_id", "title", "message", "category", "read", "created_at").
		From("notifications").
		Where(sq.Eq{"identity_id": identityID}).
		OrderBy("created_at DESC")

	if unreadOnly {
		query = query.Where(sq.Eq{"read": false})
	}

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*types.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return notifications, nil
}

// SetNotificationRead only touches notifications owned by identityID.
func (s *Storage) SetNotificationRead(ctx context.Context, identityID, id string, read bool) error {
	ctx, span := s.tracer.Start(ctx, "storage.SetNotificationRead")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("notifications").
		Set("read", read).
		Where(sq.Eq{"id": id, "identity_id": identityID}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	return expectOneRow(res, ErrNotFound)
}

func (s *Storage) MarkAllNotificationsRead(ctx context.Context, identityID string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.MarkAllNotificationsRead")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("notifications").
		Set("read", true).
		Where(sq.Eq{"identity_id": identityID, "read": false}).
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to update notifications: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return n, nil
}
