// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package reconciliation

import "github.com/canonical/gym-membership-service/internal/types"

// IdentityState is the lifecycle position of an Identity with respect to its login.
type IdentityState string

const (
	StateUnprovisioned IdentityState = "unprovisioned"
	StatePendingClaim  IdentityState = "pending_claim"
	StateClaimed       IdentityState = "claimed"
	StateDeactivated   IdentityState = "deactivated"
)

// State derives the lifecycle state from a stored Identity. A nil identity is unprovisioned.
// Deactivation wins over the binding, so a deactivated placeholder is never claimable.
func State(i *types.Identity) IdentityState {
	switch {
	case i == nil:
		return StateUnprovisioned
	case !i.IsActive:
		return StateDeactivated
	case i.Binding.IsBound():
		return StateClaimed
	default:
		return StatePendingClaim
	}
}
