// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package access

import (
	"net/http"

	httptypes "github.com/canonical/gym-membership-service/internal/http/types"
	"github.com/canonical/gym-membership-service/internal/identity"
	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/pkg/authentication"
)

type Middleware struct {
	service ServiceInterface
	policy  *Policy

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// RequireSection lets a request through when its subject may enter at least one of the
// sections, storing the resolved Identity in the request context. Denials are answered
// with a JSON body carrying the reason and where to send the person.
func (m *Middleware) RequireSection(sections ...types.Section) func(http.Handler) http.Handler {
	return m.require("access.Middleware.RequireSection", func(subject Subject) Decision {
		return m.decide(subject, sections)
	})
}

// RequireRegistered only asks for a registered Identity, deactivated ones included.
// It backs the routes a deactivated person still needs, such as reading the notice
// that their account was switched off.
func (m *Middleware) RequireRegistered() func(http.Handler) http.Handler {
	return m.require("access.Middleware.RequireRegistered", m.policy.Recognize)
}

func (m *Middleware) require(spanName string, decide func(Subject) Decision) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), spanName)
			defer span.End()

			verified, _ := authentication.VerifiedIdentityFromContext(ctx)

			subject, err := m.service.Subject(ctx, verified)
			if err != nil {
				m.logger.Errorf("failed to resolve subject: %v", err)
				httptypes.WriteError(w, err, "failed to resolve identity")
				return
			}

			decision := decide(subject)
			if !decision.Allowed {
				m.deny(w, r, subject, decision)
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(ctx, subject.Identity)))
		})
	}
}

func (m *Middleware) decide(subject Subject, sections []types.Section) Decision {
	if len(sections) == 0 {
		return m.policy.Admit(subject)
	}

	var first Decision
	for n, section := range sections {
		d := m.policy.Authorize(subject, section)
		if d.Allowed {
			return d
		}
		if n == 0 {
			first = d
		}
	}
	return first
}

func (m *Middleware) deny(w http.ResponseWriter, r *http.Request, subject Subject, d Decision) {
	who := r.RemoteAddr
	switch {
	case subject.Identity != nil:
		who = subject.Identity.ID
	case subject.Verified != nil:
		who = subject.Verified.Handle
	}

	if d.Reason == types.ReasonUnauthenticated {
		m.logger.Security().AuthnFailure(who, "no credentials for "+r.URL.Path)
	} else {
		m.logger.Security().AuthzFailure(who, r.URL.Path)
	}

	status := http.StatusForbidden
	if d.Reason == types.ReasonUnauthenticated {
		status = http.StatusUnauthorized
	}

	httptypes.WriteErrorResponse(w, httptypes.ErrorResponse{
		Status:   status,
		Message:  "access denied",
		Reason:   string(d.Reason),
		Redirect: d.Redirect,
	})
}

func NewMiddleware(
	service ServiceInterface,
	policy *Policy,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Middleware {
	m := new(Middleware)

	m.service = service
	m.policy = policy

	m.tracer = tracer
	m.monitor = monitor
	m.logger = logger

	return m
}
