// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import "github.com/canonical/gym-membership-service/internal/types"

type TenantDetails struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=64"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// AdminRequest creates a gym together with its first admin.
type AdminRequest struct {
	Email     string        `json:"email" validate:"required,email"`
	FirstName string        `json:"first_name" validate:"required,max=255"`
	LastName  string        `json:"last_name" validate:"required,max=255"`
	Phone     string        `json:"phone" validate:"max=64"`
	Tenant    TenantDetails `json:"tenant"`
}

// MemberRequest adds a trainer or a user to an existing gym. TenantID is only honoured
// for superusers, admins always provision into their own gym.
type MemberRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	FirstName string     `json:"first_name" validate:"required,max=255"`
	LastName  string     `json:"last_name" validate:"required,max=255"`
	Phone     string     `json:"phone" validate:"max=64"`
	Role      types.Role `json:"role" validate:"required,oneof=trainer user"`
	TenantID  string     `json:"tenant_id"`
}

// SuperuserRequest seeds a tenant-less superuser from the command line.
type SuperuserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"required,max=255"`
	Phone     string `json:"phone" validate:"max=64"`
}

// Emails are stored trimmed and lower-cased, requests are normalized before validation.

func (r *AdminRequest) normalized() *AdminRequest {
	if r == nil {
		return nil
	}
	n := *r
	n.Email = types.NormalizeEmail(r.Email)
	n.Tenant.Email = types.NormalizeEmail(r.Tenant.Email)
	return &n
}

func (r *MemberRequest) normalized() *MemberRequest {
	if r == nil {
		return nil
	}
	n := *r
	n.Email = types.NormalizeEmail(r.Email)
	return &n
}

func (r *SuperuserRequest) normalized() *SuperuserRequest {
	if r == nil {
		return nil
	}
	n := *r
	n.Email = types.NormalizeEmail(r.Email)
	return &n
}

type ActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// Provisioned is the outcome of a provisioning call. A failed invitation does not undo the
// provisioning, it is reported in InvitationError and can be retried with a resend.
type Provisioned struct {
	Identity        *types.Identity   `json:"identity"`
	Tenant          *types.Tenant     `json:"tenant,omitempty"`
	Invitation      *types.Invitation `json:"invitation,omitempty"`
	InvitationError string            `json:"invitation_error,omitempty"`
}

// IdentityView is an Identity as listed to admins, with its invitation status.
type IdentityView struct {
	*types.Identity
	InvitationStatus types.InvitationStatus `json:"invitation_status"`
}
