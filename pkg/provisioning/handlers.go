// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/gym-membership-service/internal/http/types"
	"github.com/canonical/gym-membership-service/internal/identity"
	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/pkg/invitations"
)

type API struct {
	service ServiceInterface
	guard   GuardInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Group(func(r chi.Router) {
		r.Use(a.guard.RequireSection(types.SectionSuperuser))
		r.Post("/api/v0/admins", a.provisionAdmin)
		r.Get("/api/v0/tenants", a.listTenants)
	})

	mux.Group(func(r chi.Router) {
		r.Use(a.guard.RequireSection(types.SectionAdmin))
		r.Post("/api/v0/members", a.provisionMember)
		r.Get("/api/v0/members", a.listIdentities)
		r.Put("/api/v0/members/{id}/active", a.setActive)
		r.Put("/api/v0/trainers/{trainerID}/members/{memberID}", a.assignTrainer)
		r.Delete("/api/v0/trainers/{trainerID}/members/{memberID}", a.unassignTrainer)
	})

	mux.Group(func(r chi.Router) {
		r.Use(a.guard.RequireSection(types.SectionTrainer))
		r.Get("/api/v0/trainer/members", a.listAssignedMembers)
	})
}

func (a *API) provisionAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "provisioning.API.provisionAdmin")
	defer span.End()

	req := new(AdminRequest)
	if err := httptypes.DecodeJSON(r, req); err != nil {
		httptypes.WriteError(w, err, "")
		return
	}

	requester, _ := identity.FromContext(ctx)

	result, err := a.service.ProvisionAdmin(ctx, requester, req)
	if err != nil {
		httptypes.WriteError(w, err, "failed to create admin")
		return
	}

	httptypes.WriteJSON(w, http.StatusCreated, result, "admin created")
}

func (a *API) provisionMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "provisioning.API.provisionMember")
	defer span.End()

	req := new(MemberRequest)
	if err := httptypes.DecodeJSON(r, req); err != nil {
		httptypes.WriteError(w, err, "")
		return
	}

	requester, _ := identity.FromContext(ctx)

	result, err := a.service.ProvisionMember(ctx, requester, req)
	if err != nil {
		httptypes.WriteError(w, err, "failed to create "+string(req.Role))
		return
	}

	httptypes.WriteJSON(w, http.StatusCreated, result, string(req.Role)+" created")
}

func (a *API) listTenants(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "provisioning.API.listTenants")
	defer span.End()

	requester, _ := identity.FromContext(ctx)

	tenants, err := a.service.ListTenants(ctx, requester)
	if err != nil {
		a.logger.Errorf("failed to list tenants: %v", err)
		httptypes.WriteError(w, err, "failed to list tenants")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, tenants, "tenants")
}

func (a *API) listIdentities(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "provisioning.API.listIdentities")
	defer span.End()

	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	size, _ := strconv.ParseInt(q.Get("size"), 10, 64)

	requester, _ := identity.FromContext(ctx)

	identities, err := a.service.ListIdentities(ctx, requester, q.Get("tenant_id"), page, size)
	if err != nil {
		a.logger.Errorf("failed to list identities: %v", err)
		httptypes.WriteError(w, err, "failed to list members")
		return
	}

	views := make([]IdentityView, 0, len(identities))
	for _, i := range identities {
		views = append(views, IdentityView{Identity: i, InvitationStatus: invitations.StatusOf(i)})
	}

	httptypes.WriteJSON(w, http.StatusOK, views, "members")
}

func (a *API) listAssignedMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "provisioning.API.listAssignedMembers")
	defer span.End()

	requester, _ := identity.FromContext(ctx)

	members, err := a.service.ListAssignedMembers(ctx, requester)
	if err != nil {
		a.logger.Errorf("failed to list assigned members: %v", err)
		httptypes.WriteError(w, err, "failed to list members")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, members, "assigned members")
}

func (a *API) setActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "provisioning.API.setActive")
	defer span.End()

	req := new(ActiveRequest)
	if err := httptypes.DecodeJSON(r, req); err != nil {
		httptypes.WriteError(w, err, "")
		return
	}
	if req.Active == nil {
		httptypes.WriteError(w, &types.ValidationError{Field: "active", Reason: "is required"}, "")
		return
	}

	requester, _ := identity.FromContext(ctx)

	updated, err := a.service.SetActive(ctx, requester, chi.URLParam(r, "id"), *req.Active)
	if err != nil {
		httptypes.WriteError(w, err, "failed to update member")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, updated, "member updated")
}

func (a *API) assignTrainer(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "provisioning.API.assignTrainer")
	defer span.End()

	requester, _ := identity.FromContext(ctx)

	if err := a.service.AssignTrainer(ctx, requester, chi.URLParam(r, "trainerID"), chi.URLParam(r, "memberID")); err != nil {
		httptypes.WriteError(w, err, "failed to assign trainer")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, nil, "trainer assigned")
}

func (a *API) unassignTrainer(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "provisioning.API.unassignTrainer")
	defer span.End()

	requester, _ := identity.FromContext(ctx)

	if err := a.service.UnassignTrainer(ctx, requester, chi.URLParam(r, "trainerID"), chi.URLParam(r, "memberID")); err != nil {
		httptypes.WriteError(w, err, "failed to unassign trainer")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, nil, "trainer unassigned")
}

func NewAPI(
	service ServiceInterface,
	guard GuardInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := new(API)

	a.service = service
	a.guard = guard

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
