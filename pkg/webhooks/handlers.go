// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ory/hydra/v2/oauth2"

	httptypes "github.com/canonical/gym-membership-service/internal/http/types"
	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
)

// APIKeyHeader carries the shared key Kratos and Hydra are configured to send.
const APIKeyHeader = "X-Webhook-Key"

type API struct {
	service ServiceInterface
	apiKey  string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Group(func(r chi.Router) {
		r.Use(a.requireKey)
		r.Post("/webhooks/registration", a.registration)
		r.Post("/webhooks/token", a.tokenHook)
	})
}

// requireKey rejects hook calls without the shared key. With no key configured every
// call is rejected.
func (a *API) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.apiKey == "" || subtle.ConstantTimeCompare([]byte(r.Header.Get(APIKeyHeader)), []byte(a.apiKey)) != 1 {
			a.logger.Security().AuthnFailure(r.RemoteAddr, "invalid webhook key")
			httptypes.WriteError(w, &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}, "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) registration(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "webhooks.API.registration")
	defer span.End()

	var identity KratosIdentity
	if err := json.NewDecoder(r.Body).Decode(&identity); err != nil {
		a.logger.Errorf("failed to decode login hook payload: %v", err)
		httptypes.WriteError(w, &types.ValidationError{Field: "body", Reason: err.Error()}, "")
		return
	}

	email, verified := identity.VerifiedEmail()
	if !verified {
		a.logger.Security().AuthnFailure(identity.ID, "login hook with unverified email")
		httptypes.WriteError(w, &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}, "")
		return
	}

	resp, err := a.service.HandleRegistration(ctx, identity.ID, email)
	if err != nil {
		a.logger.Errorf("login hook rejected identity %s: %v", identity.ID, err)
		httptypes.WriteError(w, err, "failed to resolve identity")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, resp, "identity resolved")
}

// tokenHook answers Hydra directly, so the body is the bare TokenHookResponse.
func (a *API) tokenHook(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "webhooks.API.tokenHook")
	defer span.End()

	req := new(oauth2.TokenHookRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		a.logger.Errorf("failed to decode token hook payload: %v", err)
		httptypes.WriteError(w, &types.ValidationError{Field: "body", Reason: err.Error()}, "")
		return
	}

	resp, err := a.service.HandleTokenHook(ctx, req)
	if err != nil {
		a.logger.Errorf("token hook failed: %v", err)
		httptypes.WriteError(w, err, "failed to build token claims")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func NewAPI(
	service ServiceInterface,
	apiKey string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := new(API)

	a.service = service
	a.apiKey = apiKey

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
