// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/gym-membership-service/internal/db"
	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/validation"
	"github.com/canonical/gym-membership-service/pkg/access"
	"github.com/canonical/gym-membership-service/pkg/invitations"
	"github.com/canonical/gym-membership-service/pkg/metrics"
	"github.com/canonical/gym-membership-service/pkg/notifications"
	"github.com/canonical/gym-membership-service/pkg/provisioning"
	"github.com/canonical/gym-membership-service/pkg/status"
	"github.com/canonical/gym-membership-service/pkg/webhooks"
)

// AuthenticatorInterface attaches the verified login, if any, to each request.
type AuthenticatorInterface interface {
	Authenticate() func(http.Handler) http.Handler
}

// Services groups the domain services exposed over HTTP.
type Services struct {
	Access        access.ServiceInterface
	Provisioning  provisioning.ServiceInterface
	Invitations   invitations.ServiceInterface
	Notifications notifications.ServiceInterface
	Webhooks      webhooks.ServiceInterface
}

type Config struct {
	AllowedOrigins []string
	WebhookAPIKey  string
	SignInURL      string
}

func NewRouter(
	cfg Config,
	services Services,
	authn AuthenticatorInterface,
	dbClient db.DBClientInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS(cfg.AllowedOrigins),
		authn.Authenticate(),
	)

	router.Use(middlewares...)

	policy := access.NewPolicy(cfg.SignInURL)
	guard := access.NewMiddleware(services.Access, policy, tracer, monitor, logger)
	validator := validation.NewValidator()

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(dbClient, tracer, monitor, logger).RegisterEndpoints(router)

	access.NewAPI(services.Access, policy, guard, tracer, monitor, logger).RegisterEndpoints(router)
	provisioning.NewAPI(services.Provisioning, guard, tracer, monitor, logger).RegisterEndpoints(router)
	invitations.NewAPI(services.Invitations, guard, validator, tracer, monitor, logger).RegisterEndpoints(router)
	notifications.NewAPI(services.Notifications, guard, tracer, monitor, logger).RegisterEndpoints(router)
	webhooks.NewAPI(services.Webhooks, cfg.WebhookAPIKey, tracer, monitor, logger).RegisterEndpoints(router)

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
