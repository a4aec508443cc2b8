// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PlaceholderPrefix is reserved: provider handles are UUIDs and never start with it.
const PlaceholderPrefix = "pending:"

type bindingKind int

const (
	bindingUnset bindingKind = iota
	bindingPlaceholder
	bindingBound
)

// Binding links an Identity to the login provider. It is either a placeholder standing in
// for a person who has not signed in yet, or the real external handle.
type Binding struct {
	kind  bindingKind
	value string
}

// NewPlaceholderBinding builds a fresh placeholder from a UUIDv7 (time and random parts).
func NewPlaceholderBinding() (Binding, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Binding{}, fmt.Errorf("failed to generate placeholder token: %w", err)
	}
	return Binding{kind: bindingPlaceholder, value: PlaceholderPrefix + id.String()}, nil
}

// BoundBinding wraps a handle issued by the login provider.
func BoundBinding(handle string) (Binding, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return Binding{}, errors.New("external handle is empty")
	}
	if strings.HasPrefix(handle, PlaceholderPrefix) {
		return Binding{}, fmt.Errorf("external handle %q uses the reserved placeholder prefix", handle)
	}
	return Binding{kind: bindingBound, value: handle}, nil
}

// ParseBinding decodes the persisted single-column form.
func ParseBinding(s string) (Binding, error) {
	if s == "" {
		return Binding{}, errors.New("binding is empty")
	}
	if strings.HasPrefix(s, PlaceholderPrefix) {
		if len(s) == len(PlaceholderPrefix) {
			return Binding{}, errors.New("placeholder token is empty")
		}
		return Binding{kind: bindingPlaceholder, value: s}, nil
	}
	return Binding{kind: bindingBound, value: s}, nil
}

func (b Binding) IsPlaceholder() bool { return b.kind == bindingPlaceholder }

func (b Binding) IsBound() bool { return b.kind == bindingBound }

func (b Binding) IsZero() bool { return b.kind == bindingUnset }

// String returns the persisted single-column form.
func (b Binding) String() string { return b.value }

// Handle returns the external handle, or an empty string for placeholders.
func (b Binding) Handle() string {
	if b.kind != bindingBound {
		return ""
	}
	return b.value
}

// Scan implements sql.Scanner.
func (b *Binding) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		return errors.New("external binding is NULL")
	default:
		return fmt.Errorf("cannot scan %T into Binding", src)
	}

	parsed, err := ParseBinding(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Value implements driver.Valuer.
func (b Binding) Value() (driver.Value, error) {
	if b.kind == bindingUnset {
		return nil, errors.New("external binding is unset")
	}
	return b.value, nil
}
