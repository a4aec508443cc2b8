// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
)

const (
	SessionTokenHeader = "X-Session-Token"

	healthServicePrefix = "/grpc.health.v1.Health/"
)

type Middleware struct {
	verifier TokenVerifierInterface
	sessions SessionResolverInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Authenticate attaches the verified identity to the request context. Requests without
// credentials pass through anonymous; the access layer decides what they may see.
// Credentials that fail verification are rejected here.
func (m *Middleware) Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authentication.Middleware.Authenticate")
			defer span.End()

			vi, err := m.resolve(ctx, r)
			if err != nil {
				m.logger.Debugf("authentication failed: %v", err)
				m.logger.Security().AuthnFailure(r.RemoteAddr, "invalid credentials")
				m.unauthorizedResponse(w, "invalid credentials")
				return
			}

			if vi != nil {
				ctx = WithVerifiedIdentity(ctx, vi)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *Middleware) resolve(ctx context.Context, r *http.Request) (*types.VerifiedIdentity, error) {
	if token, found := m.getBearerToken(r.Header); found {
		return m.verifier.VerifyToken(ctx, token)
	}

	cookie := r.Header.Get("Cookie")
	sessionToken := r.Header.Get(SessionTokenHeader)
	if cookie == "" && sessionToken == "" {
		return nil, nil
	}

	vi, err := m.sessions.CurrentVerifiedIdentity(ctx, cookie, sessionToken)
	if err != nil {
		var uErr *types.UnauthorizedError
		if errors.As(err, &uErr) && cookie != "" && sessionToken == "" {
			// a stale or foreign cookie is not a credential failure
			return nil, nil
		}
		return nil, err
	}
	return vi, nil
}

// GRPCInterceptor is a unary interceptor for gRPC authentication. Health checks are public.
func (m *Middleware) GRPCInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if strings.HasPrefix(info.FullMethod, healthServicePrefix) {
		return handler(ctx, req)
	}

	ctx, span := m.tracer.Start(ctx, "authentication.Middleware.GRPCInterceptor")
	defer span.End()

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "metadata is not provided")
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "authorization token is not provided")
	}

	authHeader := values[0]
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, status.Error(codes.Unauthenticated, "authorization token is not a bearer token")
	}

	vi, err := m.verifier.VerifyToken(ctx, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		m.logger.Debugf("gRPC JWT verification failed: %v", err)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return handler(WithVerifiedIdentity(ctx, vi), req)
}

func (m *Middleware) getBearerToken(headers http.Header) (string, bool) {
	bearer := headers.Get("Authorization")
	if bearer == "" {
		return "", false
	}

	// Only support "Bearer <token>" format (RFC 6750)
	if !strings.HasPrefix(bearer, "Bearer ") {
		return "", false
	}

	return strings.TrimPrefix(bearer, "Bearer "), true
}

func (m *Middleware) unauthorizedResponse(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  http.StatusUnauthorized,
		"message": message,
		"reason":  types.ReasonUnauthenticated,
	}); err != nil {
		m.logger.Errorf("failed to encode unauthorized response: %v", err)
	}
}

func NewMiddleware(verifier TokenVerifierInterface, sessions SessionResolverInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	return &Middleware{
		verifier: verifier,
		sessions: sessions,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}
