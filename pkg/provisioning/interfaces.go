// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"context"
	"net/http"

	"github.com/canonical/gym-membership-service/internal/types"
)

// StorageInterface is the subset of internal/storage used to provision identities.
type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	ListTenants(ctx context.Context) ([]*types.Tenant, error)
	DeleteTenant(ctx context.Context, id string) error

	CreateIdentity(ctx context.Context, i *types.Identity) (*types.Identity, error)
	GetIdentityByID(ctx context.Context, id string) (*types.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*types.Identity, error)
	SetIdentityActive(ctx context.Context, id string, active bool) error
	DeleteIdentity(ctx context.Context, id string) error
	ListIdentitiesByTenant(ctx context.Context, tenantID string, page, size int64) ([]*types.Identity, error)

	CreateNotification(ctx context.Context, n *types.Notification) (*types.Notification, error)
}

// TxRunnerInterface runs fn inside a single database transaction.
type TxRunnerInterface interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

type AuthorizerInterface interface {
	AssignGymAdmin(ctx context.Context, gymID, userID string) error
	AssignGymTrainer(ctx context.Context, gymID, userID string) error
	AssignGymMember(ctx context.Context, gymID, userID string) error
	AssignTrainerToMember(ctx context.Context, trainerID, memberID string) error
	RemoveTrainerFromMember(ctx context.Context, trainerID, memberID string) error
	ListAssignedMembers(ctx context.Context, trainerID string) ([]string, error)
	DeleteGym(ctx context.Context, gymID string) error
}

// InvitationsInterface hands freshly provisioned identities to the invitation lifecycle.
type InvitationsInterface interface {
	Send(ctx context.Context, email string, metadata types.InvitationMetadata) (*types.Invitation, error)
}

// GuardInterface gates routes on the sections of the caller.
type GuardInterface interface {
	RequireSection(sections ...types.Section) func(http.Handler) http.Handler
}

type ServiceInterface interface {
	ProvisionAdmin(ctx context.Context, requester *types.Identity, req *AdminRequest) (*Provisioned, error)
	ProvisionMember(ctx context.Context, requester *types.Identity, req *MemberRequest) (*Provisioned, error)
	SetActive(ctx context.Context, requester *types.Identity, identityID string, active bool) (*types.Identity, error)
	AssignTrainer(ctx context.Context, requester *types.Identity, trainerID, memberID string) error
	UnassignTrainer(ctx context.Context, requester *types.Identity, trainerID, memberID string) error
	ListAssignedMembers(ctx context.Context, requester *types.Identity) ([]*types.Identity, error)
	ListTenants(ctx context.Context, requester *types.Identity) ([]*types.Tenant, error)
	ListIdentities(ctx context.Context, requester *types.Identity, tenantID string, page, size int64) ([]*types.Identity, error)
}
