// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/types"
)

// memoryStore enforces the unique email constraint and the tenant foreign key under one lock.
type memoryStore struct {
	mu            sync.Mutex
	tenants       map[string]*types.Tenant
	identities    map[string]*types.Identity
	notifications []*types.Notification
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		tenants:    make(map[string]*types.Tenant),
		identities: make(map[string]*types.Identity),
	}
}

func (s *memoryStore) CreateTenant(_ context.Context, t *types.Tenant) (*types.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	cp.ID = uuid.NewString()
	s.tenants[cp.ID] = &cp
	return &cp, nil
}

func (s *memoryStore) GetTenantByID(_ context.Context, id string) (*types.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memoryStore) ListTenants(_ context.Context) ([]*types.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*types.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memoryStore) DeleteTenant(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tenants[id]; !ok {
		return storage.ErrNotFound
	}
	for _, i := range s.identities {
		if i.Tenant() == id {
			return fmt.Errorf("delete tenant: %w", storage.ErrForeignKeyViolation)
		}
	}
	delete(s.tenants, id)
	return nil
}

func (s *memoryStore) CreateIdentity(_ context.Context, i *types.Identity) (*types.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.identities {
		if existing.Email == i.Email {
			return nil, fmt.Errorf("create identity: identities_email_key: %w", storage.ErrDuplicateKey)
		}
	}
	if i.TenantID != nil {
		if _, ok := s.tenants[*i.TenantID]; !ok {
			return nil, fmt.Errorf("create identity: %w", storage.ErrForeignKeyViolation)
		}
	}

	cp := *i
	cp.ID = uuid.NewString()
	s.identities[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *memoryStore) GetIdentityByID(_ context.Context, id string) (*types.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.identities[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (s *memoryStore) GetIdentityByEmail(_ context.Context, email string) (*types.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, i := range s.identities {
		if i.Email == email {
			cp := *i
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memoryStore) SetIdentityActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.identities[id]
	if !ok {
		return storage.ErrNotFound
	}
	i.IsActive = active
	return nil
}

func (s *memoryStore) DeleteIdentity(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.identities[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.identities, id)
	return nil
}

func (s *memoryStore) ListIdentitiesByTenant(_ context.Context, tenantID string, _, _ int64) ([]*types.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*types.Identity
	for _, i := range s.identities {
		if i.Tenant() == tenantID {
			cp := *i
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memoryStore) CreateNotification(_ context.Context, n *types.Notification) (*types.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *n
	cp.ID = uuid.NewString()
	s.notifications = append(s.notifications, &cp)
	return &cp, nil
}

// WithTx has nothing to commit in memory.
func (s *memoryStore) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (s *memoryStore) counts() (tenants, identities int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tenants), len(s.identities)
}
