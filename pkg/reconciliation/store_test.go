// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package reconciliation

import (
	"context"
	"sync"

	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/types"
)

// memoryStore mimics the conditional UPDATE of the SQL store under a single lock.
type memoryStore struct {
	mu         sync.Mutex
	identities map[string]*types.Identity
	binds      int
	casMisses  int
}

func newMemoryStore(identities ...*types.Identity) *memoryStore {
	s := &memoryStore{identities: make(map[string]*types.Identity)}
	for _, i := range identities {
		cp := *i
		s.identities[i.ID] = &cp
	}
	return s
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

func (s *memoryStore) GetIdentityByBinding(_ context.Context, handle string) (*types.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, i := range s.identities {
		if i.Binding.IsBound() && i.Binding.Handle() == handle {
			cp := *i
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memoryStore) GetPendingIdentityByEmail(_ context.Context, email string) (*types.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, i := range s.identities {
		if i.Email == email && i.Binding.IsPlaceholder() {
			cp := *i
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memoryStore) BindExternalHandle(_ context.Context, id string, expected, next types.Binding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, i := range s.identities {
		if i.ID != id && i.Binding.String() == next.String() {
			return storage.ErrDuplicateKey
		}
	}

	i, ok := s.identities[id]
	if !ok || i.Binding.String() != expected.String() {
		s.casMisses++
		return storage.ErrConditionFailed
	}

	i.Binding = next
	s.binds++
	return nil
}

func (s *memoryStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.binds
}
