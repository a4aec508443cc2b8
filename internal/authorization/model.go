// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"encoding/json"
	"fmt"

	fga "github.com/openfga/go-sdk"
	"github.com/openfga/language/pkg/go/transformer"
)

const v0Model = `model
  schema 1.1

type user

type gym
  relations
    define admin: [user]
    define trainer: [user]
    define member: [user]
    define can_manage: admin
    define can_view: admin or trainer or member

type member
  relations
    define gym: [gym]
    define self: [user]
    define trainer: [user]
    define can_manage: admin from gym
    define can_view: self or trainer or admin from gym
`

var models = map[string]string{
	"v0": v0Model,
}

type AuthorizationModelProvider struct {
	version string
}

// DSL returns the model in the OpenFGA modelling language.
func (p *AuthorizationModelProvider) DSL() string {
	return models[p.version]
}

// GetModel parses the DSL into the API representation. It panics on an unknown version or a
// malformed model, both of which are programming errors.
func (p *AuthorizationModelProvider) GetModel() *fga.AuthorizationModel {
	m, err := p.parse()
	if err != nil {
		panic(err)
	}
	return m
}

func (p *AuthorizationModelProvider) parse() (*fga.AuthorizationModel, error) {
	dsl, ok := models[p.version]
	if !ok {
		return nil, fmt.Errorf("unknown authorization model version %q", p.version)
	}

	raw, err := transformer.TransformDSLToJSON(dsl)
	if err != nil {
		return nil, fmt.Errorf("failed to transform authorization model: %w", err)
	}

	model := new(fga.AuthorizationModel)
	if err := json.Unmarshal([]byte(raw), model); err != nil {
		return nil, fmt.Errorf("failed to decode authorization model: %w", err)
	}

	return model, nil
}

func NewAuthorizationModelProvider(version string) *AuthorizationModelProvider {
	return &AuthorizationModelProvider{version: version}
}
