// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/canonical/gym-membership-service/pkg/authentication"
	"github.com/canonical/gym-membership-service/pkg/webhooks"
)

func middlewareCORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(
		cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{
				http.MethodHead,
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodPatch,
				http.MethodDelete,
			},
			AllowedHeaders:   []string{"*", "Authorization", authentication.SessionTokenHeader, webhooks.APIKeyHeader},
			AllowCredentials: true,
			MaxAge:           300,
		},
	)
}
