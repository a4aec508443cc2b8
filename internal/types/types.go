// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of roles an Identity can carry.
type Role string

const (
	RoleSuperuser Role = "superuser"
	RoleAdmin     Role = "admin"
	RoleTrainer   Role = "trainer"
	RoleUser      Role = "user"
)

// Roles returns every known role, in decreasing order of privilege.
func Roles() []Role {
	return []Role{RoleSuperuser, RoleAdmin, RoleTrainer, RoleUser}
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleSuperuser, RoleAdmin, RoleTrainer, RoleUser:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Section is a role-scoped area of the application.
type Section string

const (
	SectionSuperuser Section = "superuser"
	SectionAdmin     Section = "admin"
	SectionTrainer   Section = "trainer"
	SectionUser      Section = "user"
)

func Sections() []Section {
	return []Section{SectionSuperuser, SectionAdmin, SectionTrainer, SectionUser}
}

func ParseSection(s string) (Section, error) {
	sec := Section(strings.ToLower(strings.TrimSpace(s)))
	switch sec {
	case SectionSuperuser, SectionAdmin, SectionTrainer, SectionUser:
		return sec, nil
	}
	return "", fmt.Errorf("unknown section %q", s)
}

type Tenant struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone"`
	Address     string    `db:"address" json:"address"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Identity is the role-bearing account record, independent of the login provider.
type Identity struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	TenantID  *string   `db:"tenant_id" json:"tenant_id,omitempty"`
	Binding   Binding   `db:"external_binding" json:"-"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Tenant returns the tenant ID or an empty string for tenant-less identities.
func (i *Identity) Tenant() string {
	if i == nil || i.TenantID == nil {
		return ""
	}
	return *i.TenantID
}

func (i *Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

type InvitationStatus string

const (
	InvitationPending InvitationStatus = "pending"
	InvitationClaimed InvitationStatus = "claimed"
)

// Invitation is an outstanding claim link as tracked by the identity provider.
type Invitation struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Status    InvitationStatus `json:"status"`
	Link      string           `json:"link,omitempty"`
	Code      string           `json:"code,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
}

// InvitationMetadata travels with an invitation to the identity provider.
type InvitationMetadata struct {
	Role      Role
	TenantID  string
	FirstName string
	LastName  string
}

type Notification struct {
	ID         string    `db:"id" json:"id"`
	IdentityID string    `db:"identity_id" json:"identity_id"`
	Title      string    `db:"title" json:"title"`
	Message    string    `db:"message" json:"message"`
	Category   string    `db:"category" json:"category"`
	Read       bool      `db:"read" json:"read"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// VerifiedIdentity is what the login provider vouches for on a request.
type VerifiedIdentity struct {
	Handle string
	Email  string
}

// NormalizeEmail is the canonical form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
