// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/gym-membership-service/internal/http/types"
	"github.com/canonical/gym-membership-service/internal/identity"
	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/internal/validation"
)

type ResendRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	Role      types.Role `json:"role" validate:"required,oneof=superuser admin trainer user"`
	TenantID  string     `json:"tenant_id" validate:"required_unless=Role superuser"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
}

type RevokeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RevokeResponse struct {
	Email   string `json:"email"`
	Revoked int    `json:"revoked"`
}

type API struct {
	service   ServiceInterface
	guard     GuardInterface
	validator *validation.Validator

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Group(func(r chi.Router) {
		r.Use(a.guard.RequireSection(types.SectionAdmin))
		r.Get("/api/v0/members/{id}/invitation", a.status)
		r.Post("/api/v0/members/{id}/invitation", a.resendForIdentity)
	})

	mux.Group(func(r chi.Router) {
		r.Use(a.guard.RequireSection(types.SectionSuperuser))
		r.Post("/api/v0/invitations/resend", a.resend)
		r.Post("/api/v0/invitations/revoke", a.revoke)
	})
}

func (a *API) status(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "invitations.API.status")
	defer span.End()

	requester, _ := identity.FromContext(ctx)

	report, err := a.service.StatusForIdentity(ctx, requester, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, err, "failed to fetch invitation status")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, report, "invitation status")
}

func (a *API) resendForIdentity(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "invitations.API.resendForIdentity")
	defer span.End()

	requester, _ := identity.FromContext(ctx)

	invitation, err := a.service.ResendForIdentity(ctx, requester, chi.URLParam(r, "id"))
	if err != nil {
		a.logger.Errorf("failed to resend invitation: %v", err)
		httptypes.WriteError(w, err, "failed to resend invitation")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, invitation, "invitation sent")
}

func (a *API) resend(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "invitations.API.resend")
	defer span.End()

	req := new(ResendRequest)
	if err := httptypes.DecodeJSON(r, req); err != nil {
		httptypes.WriteError(w, err, "")
		return
	}
	if err := a.validator.Struct(req); err != nil {
		httptypes.WriteError(w, err, "")
		return
	}

	invitation, err := a.service.Resend(ctx, req.Email, types.InvitationMetadata{
		Role:      req.Role,
		TenantID:  req.TenantID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		a.logger.Errorf("failed to resend invitation: %v", err)
		httptypes.WriteError(w, err, "failed to resend invitation")
		return
	}

	if requester, ok := identity.FromContext(ctx); ok {
		a.logger.Security().AdminAction(requester.ID, "resend_invitation", req.Email)
	}

	httptypes.WriteJSON(w, http.StatusOK, invitation, "invitation sent")
}

func (a *API) revoke(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "invitations.API.revoke")
	defer span.End()

	req := new(RevokeRequest)
	if err := httptypes.DecodeJSON(r, req); err != nil {
		httptypes.WriteError(w, err, "")
		return
	}
	if err := a.validator.Struct(req); err != nil {
		httptypes.WriteError(w, err, "")
		return
	}

	n, err := a.service.Revoke(ctx, req.Email)
	if err != nil {
		a.logger.Errorf("failed to revoke invitations: %v", err)
		httptypes.WriteError(w, err, "failed to revoke invitations")
		return
	}

	if requester, ok := identity.FromContext(ctx); ok {
		a.logger.Security().AdminAction(requester.ID, "revoke_invitation", req.Email)
	}

	httptypes.WriteJSON(w, http.StatusOK, RevokeResponse{Email: types.NormalizeEmail(req.Email), Revoked: n}, "invitations revoked")
}

func NewAPI(
	service ServiceInterface,
	guard GuardInterface,
	validator *validation.Validator,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := new(API)

	a.service = service
	a.guard = guard
	a.validator = validator

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
