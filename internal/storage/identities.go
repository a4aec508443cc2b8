// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/gym-membership-service/internal/db"
	"github.com/canonical/gym-membership-service/internal/types"
)

var identityColumns = []string{
	"id", "email", "role", "tenant_id", "external_binding", "is_active",
	"first_name", "last_name", "phone", "created_at",
}

func scanIdentity(row sq.RowScanner) (*types.Identity, error) {
	var (
		i    types.Identity
		role string
	)
	err := row.Scan(
		&i.ID, &i.Email, &role, &i.TenantID, &i.Binding, &i.IsActive,
		&i.FirstName, &i.LastName, &i.Phone, &i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	i.Role, err = types.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("identity %s: %w", i.ID, err)
	}

	return &i, nil
}

func (s *Storage) getIdentity(ctx context.Context, where sq.Sqlizer) (*types.Identity, error) {
	i, err := scanIdentity(
		s.db.Statement(ctx).
			Select(identityColumns...).
			From("identities").
			Where(where).
			QueryRowContext(ctx),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	return i, nil
}

// CreateIdentity inserts i. The email and external binding are unique; a clash returns ErrDuplicateKey.
func (s *Storage) CreateIdentity(ctx context.Context, i *types.Identity) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateIdentity")
	defer span.End()

	if i.Binding.IsZero() {
		return nil, fmt.Errorf("identity %s has no external binding", i.Email)
	}

	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate identity ID: %w", err)
	}

	created, err := scanIdentity(
		s.db.Statement(ctx).
			Insert("identities").
			Columns("id", "email", "role", "tenant_id", "external_binding", "is_active", "first_name", "last_name", "phone").
			Values(id, types.NormalizeEmail(i.Email), string(i.Role), i.TenantID, i.Binding.String(), i.IsActive, i.FirstName, i.LastName, i.Phone).
			Suffix("RETURNING id, email, role, tenant_id, external_binding, is_active, first_name, last_name, phone, created_at").
			QueryRowContext(ctx),
	)
	if err != nil {
		return nil, mapWriteError(err, "failed to insert identity")
	}

	return created, nil
}

func (s *Storage) GetIdentityByID(ctx context.Context, id string) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetIdentityByID")
	defer span.End()

	return s.getIdentity(ctx, sq.Eq{"id": id})
}

func (s *Storage) GetIdentityByEmail(ctx context.Context, email string) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetIdentityByEmail")
	defer span.End()

	return s.getIdentity(ctx, sq.Eq{"email": types.NormalizeEmail(email)})
}

func (s *Storage) GetIdentityByBinding(ctx context.Context, handle string) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetIdentityByBinding")
	defer span.End()

	return s.getIdentity(ctx, sq.Eq{"external_binding": handle})
}

func (s *Storage) GetPendingIdentityByEmail(ctx context.Context, email string) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetPendingIdentityByEmail")
	defer span.End()

	return s.getIdentity(ctx, sq.And{
		sq.Eq{"email": types.NormalizeEmail(email)},
		sq.Like{"external_binding": types.PlaceholderPrefix + "%"},
	})
}

// BindExternalHandle is a compare-and-swap on the binding column: the row is only updated
// while it still holds expected. ErrConditionFailed means another writer got there first.
func (s *Storage) BindExternalHandle(ctx context.Context, id string, expected, next types.Binding) error {
	ctx, span := s.tracer.Start(ctx, "storage.BindExternalHandle")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("identities").
		Set("external_binding", next.String()).
		Where(sq.Eq{
			"id":               id,
			"external_binding": expected.String(),
		}).
		ExecContext(ctx)
	if err != nil {
		return mapWriteError(err, "failed to bind external handle")
	}

	return expectOneRow(res, ErrConditionFailed)
}

func (s *Storage) SetIdentityActive(ctx context.Context, id string, active bool) error {
	ctx, span := s.tracer.Start(ctx, "storage.SetIdentityActive")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("identities").
		Set("is_active", active).
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update identity: %w", err)
	}

	return expectOneRow(res, ErrNotFound)
}

func (s *Storage) DeleteIdentity(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteIdentity")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("identities").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)
	if err != nil {
		return mapWriteError(err, "failed to delete identity")
	}

	return expectOneRow(res, ErrNotFound)
}

func (s *Storage) ListIdentitiesByTenant(ctx context.Context, tenantID string, page, size int64) ([]*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListIdentitiesByTenant")
	defer span.End()

	pageSize := db.PageSize(size)

	rows, err := s.db.Statement(ctx).
		Select(identityColumns...).
		From("identities").
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("created_at", "id").
		Limit(pageSize).
		Offset(db.Offset(page, pageSize)).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	defer rows.Close()

	var identities []*types.Identity
	for rows.Next() {
		i, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		identities = append(identities, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return identities, nil
}
