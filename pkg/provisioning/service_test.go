// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/internal/validation"
)

//go:generate mockgen -build_flags=--mod=mod -package provisioning -destination ./mock_interfaces.go -source=./interfaces.go

type serviceMocks struct {
	storage     *MockStorageInterface
	tx          *MockTxRunnerInterface
	authz       *MockAuthorizerInterface
	invitations *MockInvitationsInterface
}

func newMockedService(t *testing.T) (*Service, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := serviceMocks{
		storage:     NewMockStorageInterface(ctrl),
		tx:          NewMockTxRunnerInterface(ctrl),
		authz:       NewMockAuthorizerInterface(ctrl),
		invitations: NewMockInvitationsInterface(ctrl),
	}

	return newTestService(m.storage, m.tx, m.authz, m.invitations), m
}

func newTestService(s StorageInterface, tx TxRunnerInterface, a AuthorizerInterface, i InvitationsInterface) *Service {
	return NewService(
		s, tx, a, i,
		validation.NewValidator(),
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor("gym-membership-service"),
		logging.NewNoopLogger(),
	)
}

func person(id string, role types.Role, tenant string, active bool) *types.Identity {
	i := &types.Identity{ID: id, Email: id + "@gym.com", Role: role, IsActive: active, FirstName: "Jo", LastName: id}
	if tenant != "" {
		i.TenantID = &tenant
	}
	b, _ := types.NewPlaceholderBinding()
	i.Binding = b
	return i
}

var superuser = person("s1", types.RoleSuperuser, "", true)

func grittyGym() *AdminRequest {
	return &AdminRequest{
		Email:     "A@Gym.com",
		FirstName: "Jo",
		LastName:  "Doe",
		Tenant:    TenantDetails{Name: "Gritty Gym"},
	}
}

func TestService_ProvisionAdmin(t *testing.T) {
	tenant := &types.Tenant{ID: "gym-1", Name: "Gritty Gym"}
	dbErr := errors.New("db error")

	created := func(i *types.Identity) *types.Identity {
		cp := *i
		cp.ID = "identity-1"
		return &cp
	}

	testCases := []struct {
		name       string
		requester  *types.Identity
		req        *AdminRequest
		setupMocks func(serviceMocks)
		check      func(*testing.T, *Provisioned, error)
	}{
		{
			name:       "anonymous",
			req:        grittyGym(),
			setupMocks: func(serviceMocks) {},
			check:      expectUnauthorized(types.ReasonUnauthenticated),
		},
		{
			name:       "admin cannot create admins",
			requester:  person("a1", types.RoleAdmin, "gym-1", true),
			req:        grittyGym(),
			setupMocks: func(serviceMocks) {},
			check:      expectUnauthorized(types.ReasonInsufficientPermissions),
		},
		{
			name:       "deactivated superuser",
			requester:  person("s2", types.RoleSuperuser, "", false),
			req:        grittyGym(),
			setupMocks: func(serviceMocks) {},
			check:      expectUnauthorized(types.ReasonDeactivated),
		},
		{
			name:      "missing gym name",
			requester: superuser,
			req: &AdminRequest{
				Email: "a@gym.com", FirstName: "Jo", LastName: "Doe",
			},
			setupMocks: func(serviceMocks) {},
			check:      expectValidation("tenant.name"),
		},
		{
			name:      "email already provisioned",
			requester: superuser,
			req:       grittyGym(),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "a@gym.com").Return(person("a@gym", types.RoleTrainer, "gym-2", true), nil)
			},
			check: func(t *testing.T, _ *Provisioned, err error) {
				var aErr *types.AlreadyExistsError
				if !errors.As(err, &aErr) || aErr.Role != types.RoleTrainer {
					t.Errorf("expected AlreadyExists(trainer), got %v", err)
				}
			},
		},
		{
			name:      "tenant insert fails",
			requester: superuser,
			req:       grittyGym(),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "a@gym.com").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(nil, dbErr)
			},
			check: expectStoreError,
		},
		{
			name:      "identity insert fails and the tenant is deleted",
			requester: superuser,
			req:       grittyGym(),
			setupMocks: func(m serviceMocks) {
				gomock.InOrder(
					m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "a@gym.com").Return(nil, storage.ErrNotFound),
					m.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(tenant, nil),
					m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).Return(nil, dbErr),
					m.storage.EXPECT().DeleteTenant(gomock.Any(), "gym-1").Return(nil),
				)
			},
			check: expectStoreError,
		},
		{
			name:      "concurrent duplicate email rolls back and reports the existing role",
			requester: superuser,
			req:       grittyGym(),
			setupMocks: func(m serviceMocks) {
				gomock.InOrder(
					m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "a@gym.com").Return(nil, storage.ErrNotFound),
					m.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(tenant, nil),
					m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("identities_email_key: %w", storage.ErrDuplicateKey)),
					m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "a@gym.com").Return(person("x", types.RoleAdmin, "gym-7", true), nil),
					m.storage.EXPECT().DeleteTenant(gomock.Any(), "gym-1").Return(nil),
				)
			},
			check: func(t *testing.T, _ *Provisioned, err error) {
				var aErr *types.AlreadyExistsError
				if !errors.As(err, &aErr) || aErr.Role != types.RoleAdmin {
					t.Errorf("expected AlreadyExists(admin), got %v", err)
				}
			},
		},
		{
			name:      "failed compensation still surfaces a store error",
			requester: superuser,
			req:       grittyGym(),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "a@gym.com").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(tenant, nil)
				m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).Return(nil, dbErr)
				m.storage.EXPECT().DeleteTenant(gomock.Any(), "gym-1").Return(errors.New("connection reset"))
			},
			check: expectStoreError,
		},
		{
			name:      "relation write fails and everything is undone in reverse",
			requester: superuser,
			req:       grittyGym(),
			setupMocks: func(m serviceMocks) {
				gomock.InOrder(
					m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "a@gym.com").Return(nil, storage.ErrNotFound),
					m.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(tenant, nil),
					m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(
						func(_ context.Context, i *types.Identity) (*types.Identity, error) { return created(i), nil },
					),
					m.authz.EXPECT().AssignGymAdmin(gomock.Any(), "gym-1", "identity-1").Return(errors.New("fga down")),
					m.authz.EXPECT().DeleteGym(gomock.Any(), "gym-1").Return(nil),
					m.storage.EXPECT().DeleteIdentity(gomock.Any(), "identity-1").Return(nil),
					m.storage.EXPECT().DeleteTenant(gomock.Any(), "gym-1").Return(nil),
				)
			},
			check: expectStoreError,
		},
		{
			name:      "creates the gym, the admin and sends the invitation",
			requester: superuser,
			req:       grittyGym(),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "a@gym.com").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, t *types.Tenant) (*types.Tenant, error) {
						if t.Name != "Gritty Gym" {
							return nil, fmt.Errorf("unexpected tenant %+v", t)
						}
						return tenant, nil
					},
				)
				m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, i *types.Identity) (*types.Identity, error) {
						if i.Email != "a@gym.com" || i.Role != types.RoleAdmin || i.Tenant() != "gym-1" || !i.IsActive {
							return nil, fmt.Errorf("unexpected identity %+v", i)
						}
						if !i.Binding.IsPlaceholder() {
							return nil, fmt.Errorf("expected a placeholder binding, got %s", i.Binding.String())
						}
						return created(i), nil
					},
				)
				m.authz.EXPECT().AssignGymAdmin(gomock.Any(), "gym-1", "identity-1").Return(nil)
				m.invitations.EXPECT().Send(gomock.Any(), "a@gym.com", types.InvitationMetadata{
					Role: types.RoleAdmin, TenantID: "gym-1", FirstName: "Jo", LastName: "Doe",
				}).Return(&types.Invitation{ID: "inv-1", Status: types.InvitationPending}, nil)
			},
			check: func(t *testing.T, p *Provisioned, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.Identity.Role != types.RoleAdmin || p.Identity.Tenant() != "gym-1" || !p.Identity.Binding.IsPlaceholder() {
					t.Errorf("unexpected identity %+v", p.Identity)
				}
				if p.Tenant.ID != "gym-1" || p.Invitation.ID != "inv-1" || p.InvitationError != "" {
					t.Errorf("unexpected result %+v", p)
				}
			},
		},
		{
			name:      "invitation failure keeps the admin",
			requester: superuser,
			req:       grittyGym(),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "a@gym.com").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).Return(tenant, nil)
				m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, i *types.Identity) (*types.Identity, error) { return created(i), nil },
				)
				m.authz.EXPECT().AssignGymAdmin(gomock.Any(), "gym-1", "identity-1").Return(nil)
				m.invitations.EXPECT().Send(gomock.Any(), "a@gym.com", gomock.Any()).
					Return(nil, types.NewProviderError(types.ProviderDuplicateInvite, nil))
			},
			check: func(t *testing.T, p *Provisioned, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.Invitation != nil || p.InvitationError != string(types.ProviderDuplicateInvite) {
					t.Errorf("unexpected invitation outcome %+v", p)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newMockedService(t)
			tc.setupMocks(m)

			p, err := s.ProvisionAdmin(context.Background(), tc.requester, tc.req)
			tc.check(t, p, err)
		})
	}
}

func TestService_ProvisionAdminTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := newMemoryStore()
	authz := NewMockAuthorizerInterface(ctrl)
	authz.EXPECT().AssignGymAdmin(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
	invitations := NewMockInvitationsInterface(ctrl)
	invitations.EXPECT().Send(gomock.Any(), "a@gym.com", gomock.Any()).Return(&types.Invitation{ID: "inv-1"}, nil).Times(1)

	s := newTestService(store, store, authz, invitations)

	first, err := s.ProvisionAdmin(context.Background(), superuser, grittyGym())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Identity.Role != types.RoleAdmin || first.Identity.Tenant() != first.Tenant.ID {
		t.Errorf("unexpected identity %+v", first.Identity)
	}

	_, err = s.ProvisionAdmin(context.Background(), superuser, grittyGym())
	var aErr *types.AlreadyExistsError
	if !errors.As(err, &aErr) || aErr.Role != types.RoleAdmin {
		t.Fatalf("expected AlreadyExists(admin), got %v", err)
	}

	if tenants, identities := store.counts(); tenants != 1 || identities != 1 {
		t.Errorf("expected 1 tenant and 1 identity, got %d and %d", tenants, identities)
	}
}

func TestService_ProvisionNormalizesEmails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := newMemoryStore()
	authz := NewMockAuthorizerInterface(ctrl)
	authz.EXPECT().AssignGymAdmin(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
	invitations := NewMockInvitationsInterface(ctrl)
	invitations.EXPECT().Send(gomock.Any(), "a@gym.com", gomock.Any()).Return(&types.Invitation{ID: "inv-1"}, nil).Times(1)

	s := newTestService(store, store, authz, invitations)

	req := grittyGym()
	req.Email = "  A@Gym.com "
	req.Tenant.Email = " Desk@Gym.com"

	result, err := s.ProvisionAdmin(context.Background(), superuser, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Identity.Email != "a@gym.com" || result.Tenant.Email != "desk@gym.com" {
		t.Errorf("expected normalized emails, got %q and %q", result.Identity.Email, result.Tenant.Email)
	}
	if req.Email != "  A@Gym.com " {
		t.Errorf("expected the request to be left untouched, got %q", req.Email)
	}

	admin := person("a1", types.RoleAdmin, result.Tenant.ID, true)
	_, err = s.ProvisionMember(context.Background(), admin, &MemberRequest{
		Email: "\tA@GYM.com", FirstName: "Jo", LastName: "Doe", Role: types.RoleUser,
	})
	var aErr *types.AlreadyExistsError
	if !errors.As(err, &aErr) || aErr.Role != types.RoleAdmin {
		t.Fatalf("expected AlreadyExists(admin), got %v", err)
	}
}

func TestService_ProvisionAdminConcurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := newMemoryStore()
	authz := NewMockAuthorizerInterface(ctrl)
	authz.EXPECT().AssignGymAdmin(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
	invitations := NewMockInvitationsInterface(ctrl)
	invitations.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(&types.Invitation{ID: "inv-1"}, nil).Times(1)

	s := newTestService(store, store, authz, invitations)

	const callers = 16
	errs := make([]error, callers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = s.ProvisionAdmin(context.Background(), superuser, grittyGym())
		}(i)
	}

	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		var aErr *types.AlreadyExistsError
		switch {
		case err == nil:
			succeeded++
		case !errors.As(err, &aErr):
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("expected exactly one successful call, got %d", succeeded)
	}
	if tenants, identities := store.counts(); tenants != 1 || identities != 1 {
		t.Errorf("expected 1 tenant and 1 identity, got %d and %d", tenants, identities)
	}
}

func TestService_BootstrapSuperuser(t *testing.T) {
	request := func() *SuperuserRequest {
		return &SuperuserRequest{Email: " Root@Gym.com", FirstName: "Ro", LastName: "Ot"}
	}

	testCases := []struct {
		name       string
		req        *SuperuserRequest
		setupMocks func(serviceMocks)
		check      func(*testing.T, *Provisioned, error)
	}{
		{
			name: "creates a tenant-less superuser with a placeholder",
			req:  request(),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "root@gym.com").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, i *types.Identity) (*types.Identity, error) {
						cp := *i
						cp.ID = "root-1"
						return &cp, nil
					},
				)
				m.invitations.EXPECT().Send(gomock.Any(), "root@gym.com", types.InvitationMetadata{
					Role: types.RoleSuperuser, FirstName: "Ro", LastName: "Ot",
				}).Return(&types.Invitation{ID: "inv-1"}, nil)
			},
			check: func(t *testing.T, p *Provisioned, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.Identity.Role != types.RoleSuperuser || p.Identity.TenantID != nil {
					t.Errorf("unexpected identity %+v", p.Identity)
				}
				if !p.Identity.Binding.IsPlaceholder() {
					t.Errorf("expected a placeholder binding, got %q", p.Identity.Binding.String())
				}
				if p.Invitation == nil || p.Invitation.ID != "inv-1" {
					t.Errorf("expected invitation inv-1, got %+v", p.Invitation)
				}
			},
		},
		{
			name: "email already taken",
			req:  request(),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "root@gym.com").Return(person("root", types.RoleAdmin, "gym-1", true), nil)
			},
			check: func(t *testing.T, _ *Provisioned, err error) {
				var aErr *types.AlreadyExistsError
				if !errors.As(err, &aErr) || aErr.Role != types.RoleAdmin {
					t.Errorf("expected AlreadyExists(admin), got %v", err)
				}
			},
		},
		{
			name:       "missing last name",
			req:        &SuperuserRequest{Email: "root@gym.com", FirstName: "Ro"},
			setupMocks: func(serviceMocks) {},
			check:      expectValidation("last_name"),
		},
		{
			name: "store failure",
			req:  request(),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "root@gym.com").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
			},
			check: expectStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newMockedService(t)
			tc.setupMocks(m)

			p, err := s.BootstrapSuperuser(context.Background(), tc.req)
			tc.check(t, p, err)
		})
	}
}

func TestService_ProvisionMember(t *testing.T) {
	admin := person("a1", types.RoleAdmin, "gym-1", true)
	gym := &types.Tenant{ID: "gym-1", Name: "Gritty Gym"}

	request := func(role types.Role, tenantID string) *MemberRequest {
		return &MemberRequest{Email: "t@gym.com", FirstName: "Tess", LastName: "Lift", Role: role, TenantID: tenantID}
	}
	created := func(_ context.Context, i *types.Identity) (*types.Identity, error) {
		cp := *i
		cp.ID = "identity-2"
		return &cp, nil
	}

	testCases := []struct {
		name       string
		requester  *types.Identity
		req        *MemberRequest
		setupMocks func(serviceMocks)
		check      func(*testing.T, *Provisioned, error)
	}{
		{
			name:      "admin adds a trainer to its gym",
			requester: admin,
			req:       request(types.RoleTrainer, ""),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetTenantByID(gomock.Any(), "gym-1").Return(gym, nil)
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "t@gym.com").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(created)
				m.authz.EXPECT().AssignGymTrainer(gomock.Any(), "gym-1", "identity-2").Return(nil)
				m.invitations.EXPECT().Send(gomock.Any(), "t@gym.com", types.InvitationMetadata{
					Role: types.RoleTrainer, TenantID: "gym-1", FirstName: "Tess", LastName: "Lift",
				}).Return(&types.Invitation{ID: "inv-2"}, nil)
			},
			check: func(t *testing.T, p *Provisioned, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.Identity.Role != types.RoleTrainer || p.Identity.Tenant() != "gym-1" || p.Tenant != nil {
					t.Errorf("unexpected result %+v", p)
				}
			},
		},
		{
			name:      "admin adds a user to its gym",
			requester: admin,
			req:       request(types.RoleUser, "gym-1"),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetTenantByID(gomock.Any(), "gym-1").Return(gym, nil)
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "t@gym.com").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(created)
				m.authz.EXPECT().AssignGymMember(gomock.Any(), "gym-1", "identity-2").Return(nil)
				m.invitations.EXPECT().Send(gomock.Any(), "t@gym.com", gomock.Any()).Return(&types.Invitation{ID: "inv-2"}, nil)
			},
			check: func(t *testing.T, p *Provisioned, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			},
		},
		{
			name:       "admin cannot target another gym",
			requester:  admin,
			req:        request(types.RoleUser, "gym-9"),
			setupMocks: func(serviceMocks) {},
			check:      expectUnauthorized(types.ReasonInsufficientPermissions),
		},
		{
			name:       "admins are not members",
			requester:  admin,
			req:        request(types.RoleAdmin, ""),
			setupMocks: func(serviceMocks) {},
			check:      expectValidation("role"),
		},
		{
			name:       "superuser must pick a gym",
			requester:  superuser,
			req:        request(types.RoleUser, ""),
			setupMocks: func(serviceMocks) {},
			check:      expectValidation("tenant_id"),
		},
		{
			name:      "unknown gym",
			requester: superuser,
			req:       request(types.RoleUser, "gym-404"),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetTenantByID(gomock.Any(), "gym-404").Return(nil, storage.ErrNotFound)
			},
			check: expectValidation("tenant_id"),
		},
		{
			name:       "trainers cannot provision",
			requester:  person("t1", types.RoleTrainer, "gym-1", true),
			req:        request(types.RoleUser, ""),
			setupMocks: func(serviceMocks) {},
			check:      expectUnauthorized(types.ReasonInsufficientPermissions),
		},
		{
			name:      "relation write fails and the identity is removed",
			requester: admin,
			req:       request(types.RoleUser, ""),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetTenantByID(gomock.Any(), "gym-1").Return(gym, nil)
				m.storage.EXPECT().GetIdentityByEmail(gomock.Any(), "t@gym.com").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateIdentity(gomock.Any(), gomock.Any()).DoAndReturn(created)
				m.authz.EXPECT().AssignGymMember(gomock.Any(), "gym-1", "identity-2").Return(errors.New("fga down"))
				m.storage.EXPECT().DeleteIdentity(gomock.Any(), "identity-2").Return(nil)
			},
			check: expectStoreError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newMockedService(t)
			tc.setupMocks(m)

			p, err := s.ProvisionMember(context.Background(), tc.requester, tc.req)
			tc.check(t, p, err)
		})
	}
}

func TestService_SetActive(t *testing.T) {
	admin := person("a1", types.RoleAdmin, "gym-1", true)

	testCases := []struct {
		name       string
		target     string
		active     bool
		setupMocks func(serviceMocks)
		check      func(*testing.T, *types.Identity, error)
	}{
		{
			name:   "deactivates a member and notifies it in one transaction",
			target: "u1",
			active: false,
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u1").Return(person("u1", types.RoleUser, "gym-1", true), nil)
				m.tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) },
				)
				m.storage.EXPECT().SetIdentityActive(gomock.Any(), "u1", false).Return(nil)
				m.storage.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, n *types.Notification) (*types.Notification, error) {
						if n.IdentityID != "u1" || n.Title != "Account deactivated" {
							return nil, fmt.Errorf("unexpected notification %+v", n)
						}
						return n, nil
					},
				)
			},
			check: func(t *testing.T, i *types.Identity, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if i.IsActive {
					t.Error("expected the identity to be inactive")
				}
			},
		},
		{
			name:   "notification failure aborts the transaction",
			target: "u1",
			active: false,
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u1").Return(person("u1", types.RoleUser, "gym-1", true), nil)
				m.tx.EXPECT().WithTx(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) },
				)
				m.storage.EXPECT().SetIdentityActive(gomock.Any(), "u1", false).Return(nil)
				m.storage.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
			},
			check: func(t *testing.T, _ *types.Identity, err error) {
				expectStoreError(t, nil, err)
			},
		},
		{
			name:   "already in the requested state",
			target: "u1",
			active: true,
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u1").Return(person("u1", types.RoleUser, "gym-1", true), nil)
			},
			check: func(t *testing.T, i *types.Identity, err error) {
				if err != nil || !i.IsActive {
					t.Errorf("unexpected result %+v, %v", i, err)
				}
			},
		},
		{
			name:   "admin cannot deactivate itself",
			target: "a1",
			active: false,
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "a1").Return(admin, nil)
			},
			check: func(t *testing.T, _ *types.Identity, err error) {
				expectValidation("active")(t, nil, err)
			},
		},
		{
			name:   "member of another gym",
			target: "u9",
			active: false,
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u9").Return(person("u9", types.RoleUser, "gym-9", true), nil)
			},
			check: func(t *testing.T, _ *types.Identity, err error) {
				expectUnauthorized(types.ReasonInsufficientPermissions)(t, nil, err)
			},
		},
		{
			name:   "unknown identity",
			target: "missing",
			active: false,
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "missing").Return(nil, storage.ErrNotFound)
			},
			check: func(t *testing.T, _ *types.Identity, err error) {
				if !errors.Is(err, storage.ErrNotFound) {
					t.Errorf("expected not found, got %v", err)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newMockedService(t)
			tc.setupMocks(m)

			i, err := s.SetActive(context.Background(), admin, tc.target, tc.active)
			tc.check(t, i, err)
		})
	}
}

func TestService_AssignTrainer(t *testing.T) {
	admin := person("a1", types.RoleAdmin, "gym-1", true)
	trainer := person("t1", types.RoleTrainer, "gym-1", true)
	member := person("u1", types.RoleUser, "gym-1", true)

	testCases := []struct {
		name       string
		trainerID  string
		memberID   string
		setupMocks func(serviceMocks)
		check      func(*testing.T, error)
	}{
		{
			name:      "assigns and notifies the trainer",
			trainerID: "t1",
			memberID:  "u1",
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "t1").Return(trainer, nil)
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u1").Return(member, nil)
				m.authz.EXPECT().AssignTrainerToMember(gomock.Any(), "t1", "u1").Return(nil)
				m.storage.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(&types.Notification{}, nil)
			},
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			},
		},
		{
			name:      "notification failure is not fatal",
			trainerID: "t1",
			memberID:  "u1",
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "t1").Return(trainer, nil)
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u1").Return(member, nil)
				m.authz.EXPECT().AssignTrainerToMember(gomock.Any(), "t1", "u1").Return(nil)
				m.storage.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))
			},
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			},
		},
		{
			name:      "trainer id is not a trainer",
			trainerID: "u1",
			memberID:  "u1",
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u1").Return(member, nil)
			},
			check: func(t *testing.T, err error) {
				expectValidation("trainer_id")(t, nil, err)
			},
		},
		{
			name:      "member id is not a member",
			trainerID: "t1",
			memberID:  "t1",
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "t1").Return(trainer, nil).Times(2)
			},
			check: func(t *testing.T, err error) {
				expectValidation("member_id")(t, nil, err)
			},
		},
		{
			name:      "authorization store failure",
			trainerID: "t1",
			memberID:  "u1",
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "t1").Return(trainer, nil)
				m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u1").Return(member, nil)
				m.authz.EXPECT().AssignTrainerToMember(gomock.Any(), "t1", "u1").Return(errors.New("fga down"))
			},
			check: func(t *testing.T, err error) {
				expectStoreError(t, nil, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newMockedService(t)
			tc.setupMocks(m)

			tc.check(t, s.AssignTrainer(context.Background(), admin, tc.trainerID, tc.memberID))
		})
	}
}

func TestService_UnassignTrainer(t *testing.T) {
	s, m := newMockedService(t)

	m.storage.EXPECT().GetIdentityByID(gomock.Any(), "t1").Return(person("t1", types.RoleTrainer, "gym-1", true), nil)
	m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u1").Return(person("u1", types.RoleUser, "gym-1", true), nil)
	m.authz.EXPECT().RemoveTrainerFromMember(gomock.Any(), "t1", "u1").Return(nil)

	if err := s.UnassignTrainer(context.Background(), person("a1", types.RoleAdmin, "gym-1", true), "t1", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_ListAssignedMembers(t *testing.T) {
	s, m := newMockedService(t)
	trainer := person("t1", types.RoleTrainer, "gym-1", true)

	m.authz.EXPECT().ListAssignedMembers(gomock.Any(), "t1").Return([]string{"u1", "u2", "u9"}, nil)
	m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u1").Return(person("u1", types.RoleUser, "gym-1", true), nil)
	m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u2").Return(nil, storage.ErrNotFound)
	m.storage.EXPECT().GetIdentityByID(gomock.Any(), "u9").Return(person("u9", types.RoleUser, "gym-9", true), nil)

	members, err := s.ListAssignedMembers(context.Background(), trainer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 1 || members[0].ID != "u1" {
		t.Errorf("expected only u1, got %+v", members)
	}

	if _, err := s.ListAssignedMembers(context.Background(), person("a1", types.RoleAdmin, "gym-1", true)); err == nil {
		t.Error("expected admins to be rejected")
	}
}

func TestService_ListIdentities(t *testing.T) {
	testCases := []struct {
		name       string
		requester  *types.Identity
		tenantID   string
		setupMocks func(serviceMocks)
		expectErr  bool
	}{
		{
			name:      "admin lists its own gym",
			requester: person("a1", types.RoleAdmin, "gym-1", true),
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetTenantByID(gomock.Any(), "gym-1").Return(&types.Tenant{ID: "gym-1"}, nil)
				m.storage.EXPECT().ListIdentitiesByTenant(gomock.Any(), "gym-1", int64(1), int64(50)).Return([]*types.Identity{}, nil)
			},
		},
		{
			name:      "superuser picks a gym",
			requester: superuser,
			tenantID:  "gym-2",
			setupMocks: func(m serviceMocks) {
				m.storage.EXPECT().GetTenantByID(gomock.Any(), "gym-2").Return(&types.Tenant{ID: "gym-2"}, nil)
				m.storage.EXPECT().ListIdentitiesByTenant(gomock.Any(), "gym-2", int64(1), int64(50)).Return([]*types.Identity{}, nil)
			},
		},
		{
			name:       "user is rejected",
			requester:  person("u1", types.RoleUser, "gym-1", true),
			setupMocks: func(serviceMocks) {},
			expectErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m := newMockedService(t)
			tc.setupMocks(m)

			_, err := s.ListIdentities(context.Background(), tc.requester, tc.tenantID, 1, 50)
			if (err != nil) != tc.expectErr {
				t.Errorf("expected error=%v, got %v", tc.expectErr, err)
			}
		})
	}
}

func TestService_ListTenants(t *testing.T) {
	s, m := newMockedService(t)

	m.storage.EXPECT().ListTenants(gomock.Any()).Return([]*types.Tenant{{ID: "gym-1"}}, nil)

	tenants, err := s.ListTenants(context.Background(), superuser)
	if err != nil || len(tenants) != 1 {
		t.Fatalf("unexpected result %v, %v", tenants, err)
	}

	_, err = s.ListTenants(context.Background(), person("a1", types.RoleAdmin, "gym-1", true))
	expectUnauthorized(types.ReasonInsufficientPermissions)(t, nil, err)
}

func expectUnauthorized(reason types.DenialReason) func(*testing.T, *Provisioned, error) {
	return func(t *testing.T, _ *Provisioned, err error) {
		t.Helper()
		var uErr *types.UnauthorizedError
		if !errors.As(err, &uErr) || uErr.Reason != reason {
			t.Errorf("expected unauthorized (%s), got %v", reason, err)
		}
	}
}

func expectValidation(field string) func(*testing.T, *Provisioned, error) {
	return func(t *testing.T, _ *Provisioned, err error) {
		t.Helper()
		var vErr *types.ValidationError
		if !errors.As(err, &vErr) || vErr.Field != field {
			t.Errorf("expected validation error on %s, got %v", field, err)
		}
	}
}

func expectStoreError(t *testing.T, _ *Provisioned, err error) {
	t.Helper()
	var sErr *types.StoreError
	if !errors.As(err, &sErr) {
		t.Errorf("expected a StoreError, got %v", err)
	}
}
