// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import "github.com/canonical/gym-membership-service/internal/types"

// KratosIdentity is the identity payload Kratos posts from its after login and
// after registration hooks.
type KratosIdentity struct {
	ID                  string                    `json:"id"`
	Traits              KratosTraits              `json:"traits"`
	VerifiableAddresses []KratosVerifiableAddress `json:"verifiable_addresses"`
}

type KratosTraits struct {
	Email string `json:"email"`
}

type KratosVerifiableAddress struct {
	Value    string `json:"value"`
	Via      string `json:"via"`
	Verified bool   `json:"verified"`
}

// VerifiedEmail returns the normalized email trait when Kratos lists it as a verified
// address. Traits alone are whatever the person typed at registration.
func (i *KratosIdentity) VerifiedEmail() (string, bool) {
	email := types.NormalizeEmail(i.Traits.Email)
	if email == "" {
		return "", false
	}

	for _, a := range i.VerifiableAddresses {
		if a.Verified && types.NormalizeEmail(a.Value) == email {
			return email, true
		}
	}

	return "", false
}

// TokenHookResponse is the body Hydra expects back from a token hook. The maps are
// merged into the claims of the issued tokens.
type TokenHookResponse struct {
	Session struct {
		IDToken     map[string]interface{} `json:"id_token,omitempty"`
		AccessToken map[string]interface{} `json:"access_token,omitempty"`
	} `json:"session"`
}

// RegistrationResponse reports who a login resolved to.
type RegistrationResponse struct {
	IdentityID string     `json:"identity_id"`
	Role       types.Role `json:"role"`
	TenantID   string     `json:"tenant_id,omitempty"`
}
