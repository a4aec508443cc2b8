// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/gym-membership-service/internal/http/types"
	"github.com/canonical/gym-membership-service/internal/identity"
	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/pkg/authentication"
)

// Me is the answer of the current-identity endpoint.
type Me struct {
	Identity *types.Identity `json:"identity"`
	Home     string          `json:"home"`
	Sections []types.Section `json:"sections"`
}

type API struct {
	service    ServiceInterface
	policy     *Policy
	middleware *Middleware

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/api/v0/me", a.me)
	mux.Get("/api/v0/authorize/{section}", a.authorize)
	mux.With(a.middleware.RequireSection()).Get("/api/v0/members/{id}", a.getMember)
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "access.API.me")
	defer span.End()

	verified, _ := authentication.VerifiedIdentityFromContext(ctx)

	subject, err := a.service.Subject(ctx, verified)
	if err != nil {
		a.logger.Errorf("failed to resolve subject: %v", err)
		httptypes.WriteError(w, err, "failed to resolve identity")
		return
	}

	d := a.policy.Admit(subject)
	if !d.Allowed {
		a.middleware.deny(w, r, subject, d)
		return
	}

	httptypes.WriteJSON(
		w,
		http.StatusOK,
		Me{Identity: subject.Identity, Home: d.Redirect, Sections: AllowedSections(subject.Identity.Role)},
		"current identity",
	)
}

func (a *API) authorize(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "access.API.authorize")
	defer span.End()

	section, err := types.ParseSection(chi.URLParam(r, "section"))
	if err != nil {
		httptypes.WriteError(w, &types.ValidationError{Field: "section", Reason: err.Error()}, "")
		return
	}

	verified, _ := authentication.VerifiedIdentityFromContext(ctx)

	subject, err := a.service.Subject(ctx, verified)
	if err != nil {
		a.logger.Errorf("failed to resolve subject: %v", err)
		httptypes.WriteError(w, err, "failed to resolve identity")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, a.policy.Authorize(subject, section), "access decision")
}

func (a *API) getMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "access.API.getMember")
	defer span.End()

	requester, _ := identity.FromContext(ctx)

	member, err := a.service.GetMember(ctx, requester, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, err, "failed to fetch member")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, member, "member")
}

func NewAPI(
	service ServiceInterface,
	policy *Policy,
	middleware *Middleware,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := new(API)

	a.service = service
	a.policy = policy
	a.middleware = middleware

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
