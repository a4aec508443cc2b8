// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNotProvisioned means no Identity exists for an authenticated person.
	ErrNotProvisioned = errors.New("identity is not provisioned")
	// ErrDeactivated means the Identity exists but has been switched off by an admin.
	ErrDeactivated = errors.New("identity is deactivated")
)

// DenialReason explains an access denial. The values are part of the public API.
type DenialReason string

const (
	ReasonUnauthenticated         DenialReason = "unauthenticated"
	ReasonNotRegistered           DenialReason = "not_registered"
	ReasonDeactivated             DenialReason = "deactivated"
	ReasonInsufficientPermissions DenialReason = "insufficient_permissions"
)

type AlreadyExistsError struct {
	Email string
	Role  Role
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("an identity for %s already exists with role %s", e.Email, e.Role)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid value for field %s", e.Field)
	}
	return fmt.Sprintf("invalid value for field %s: %s", e.Field, e.Reason)
}

// StoreError wraps a failure of the persistent store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

type ProviderErrorKind string

const (
	ProviderDuplicateInvite ProviderErrorKind = "duplicate_invite"
	ProviderAlreadyHasLogin ProviderErrorKind = "already_has_login"
	ProviderNotFound        ProviderErrorKind = "not_found"
	ProviderFailure         ProviderErrorKind = "failure"
)

// ProviderError is a failure reported by the identity provider's invitation feature.
type ProviderError struct {
	Kind ProviderErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("identity provider error: %s", e.Kind)
	}
	return fmt.Sprintf("identity provider error (%s): %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func NewProviderError(kind ProviderErrorKind, err error) *ProviderError {
	return &ProviderError{Kind: kind, Err: err}
}

// IsProviderError reports whether err carries a ProviderError of the given kind.
func IsProviderError(err error, kind ProviderErrorKind) bool {
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		return pErr.Kind == kind
	}
	return false
}

type UnauthorizedError struct {
	Reason DenialReason
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}
