// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package access decides which application sections a request may reach.
package access

import (
	"net/url"

	"github.com/canonical/gym-membership-service/internal/types"
)

const (
	DefaultSignInURL = "/sign-in"
	UnauthorizedPath = "/unauthorized"
)

// Subject is everything Authorize looks at: who the login provider vouched for and the
// provisioned Identity they map to. Both are nil for anonymous requests.
type Subject struct {
	Verified *types.VerifiedIdentity
	Identity *types.Identity
}

func (s Subject) authenticated() bool {
	return s.Verified != nil || s.Identity != nil
}

type Decision struct {
	Allowed   bool               `json:"allowed"`
	Reason    types.DenialReason `json:"reason,omitempty"`
	Redirect  string             `json:"redirect,omitempty"`
	TenantID  string             `json:"tenant_id,omitempty"`
	SubjectID string             `json:"subject_id,omitempty"`
	Role      types.Role         `json:"role,omitempty"`
}

var sectionsByRole = map[types.Role][]types.Section{
	types.RoleSuperuser: types.Sections(),
	types.RoleAdmin:     {types.SectionAdmin},
	types.RoleTrainer:   {types.SectionTrainer},
	types.RoleUser:      {types.SectionUser},
}

var homeByRole = map[types.Role]string{
	types.RoleSuperuser: "/superuser",
	types.RoleAdmin:     "/admin",
	types.RoleTrainer:   "/trainer",
	types.RoleUser:      "/user",
}

// AllowedSections lists the sections a role may enter.
func AllowedSections(r types.Role) []types.Section {
	return sectionsByRole[r]
}

func Allows(r types.Role, section types.Section) bool {
	for _, s := range sectionsByRole[r] {
		if s == section {
			return true
		}
	}
	return false
}

// Home returns the landing page for an identity, or an empty string for nil.
func Home(i *types.Identity) string {
	if i == nil {
		return ""
	}
	return homeByRole[i.Role]
}

// UnauthorizedRedirect is the page explaining a denial to a signed-in person.
func UnauthorizedRedirect(reason types.DenialReason) string {
	return UnauthorizedPath + "?" + url.Values{"reason": {string(reason)}}.Encode()
}

// CanManage reports whether requester may administer target. Superusers manage everyone,
// admins manage non-superusers of their own gym.
func CanManage(requester, target *types.Identity) bool {
	if requester == nil || target == nil || !requester.IsActive {
		return false
	}

	switch requester.Role {
	case types.RoleSuperuser:
		return true
	case types.RoleAdmin:
		return target.Role != types.RoleSuperuser && target.Tenant() != "" && target.Tenant() == requester.Tenant()
	}
	return false
}

type Policy struct {
	signInURL string
}

// Admit performs the identity level checks shared by every section: authentication,
// provisioning and activation, in that order.
func (p *Policy) Admit(subject Subject) Decision {
	if !subject.authenticated() {
		return Decision{Reason: types.ReasonUnauthenticated, Redirect: p.signInURL}
	}

	i := subject.Identity
	if i == nil {
		return Decision{Reason: types.ReasonNotRegistered, Redirect: UnauthorizedRedirect(types.ReasonNotRegistered)}
	}

	d := Decision{TenantID: i.Tenant(), SubjectID: i.ID, Role: i.Role}
	if !i.IsActive {
		d.Reason = types.ReasonDeactivated
		d.Redirect = UnauthorizedRedirect(types.ReasonDeactivated)
		return d
	}

	d.Allowed = true
	d.Redirect = Home(i)
	return d
}

// Recognize admits any registered Identity whatever its activation state.
func (p *Policy) Recognize(subject Subject) Decision {
	d := p.Admit(subject)
	if d.Reason == types.ReasonDeactivated {
		d.Allowed = true
		d.Reason = ""
		d.Redirect = Home(subject.Identity)
	}
	return d
}

// Authorize decides whether subject may enter section. Deactivation is checked before the role.
func (p *Policy) Authorize(subject Subject, section types.Section) Decision {
	d := p.Admit(subject)
	if !d.Allowed {
		return d
	}

	if !Allows(subject.Identity.Role, section) {
		d.Allowed = false
		d.Reason = types.ReasonInsufficientPermissions
		d.Redirect = UnauthorizedRedirect(types.ReasonInsufficientPermissions)
		return d
	}

	d.Redirect = "/" + string(section)
	return d
}

func NewPolicy(signInURL string) *Policy {
	p := new(Policy)

	p.signInURL = signInURL
	if p.signInURL == "" {
		p.signInURL = DefaultSignInURL
	}

	return p
}

var defaultPolicy = NewPolicy(DefaultSignInURL)

// Authorize evaluates subject against section with the default sign-in page.
func Authorize(subject Subject, section types.Section) Decision {
	return defaultPolicy.Authorize(subject, section)
}
