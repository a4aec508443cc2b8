// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package notifications

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
)

type MarkAllResponse struct {
	Updated int64 `json:"updated"`
}

type API struct {
	service ServiceInterface
	guard   GuardInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Group(func(r chi.Router) {
		r.Use(a.guard.RequireRegistered())
		r.Get("/api/v0/notifications", a.list)
		r.Put("/api/v0/notifications/read", a.markAllRead)
		r.Put("/api/v0/notifications/{id}/read", a.setRead(true))
		r.Put("/api/v0/notifications/{id}/unread", a.setRead(false))
	})
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "notifications.API.list")
	defer span.End()

	unreadOnly := false
	if v := r.URL.Query().Get("unread"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			httptypes.WriteError(w, &types.ValidationError{Field: "unread", Reason: "must be a boolean"}, "")
			return
		}
		unreadOnly = parsed
	}

	requester, _ := identity.FromContext(ctx)

	notifications, err := a.service.List(ctx, requester, unreadOnly)
	if err != nil {
		httptypes.WriteError(w, err, "failed to list notifications")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, notifications, "notifications")
}

func (a *API) setRead(read bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := a.tracer.Start(r.Context(), "notifications.API.setRead")
		defer span.End()

		requester, _ := identity.FromContext(ctx)

		if err := a.service.SetRead(ctx, requester, chi.URLParam(r, "id"), read); err != nil {
			httptypes.WriteError(w, err, "failed to update notification")
			return
		}

		httptypes.WriteJSON(w, http.StatusOK, nil, "notification updated")
	}
}

func (a *API) markAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "notifications.API.markAllRead")
	defer span.End()

	requester, _ := identity.FromContext(ctx)

	n, err := a.service.MarkAllRead(ctx, requester)
	if err != nil {
		httptypes.WriteError(w, err, "failed to update notifications")
		return
	}

	httptypes.WriteJSON(w, http.StatusOK, MarkAllResponse{Updated: n}, "notifications updated")
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
