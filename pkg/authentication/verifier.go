// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
)

type JWTVerifier struct {
	verifier             *oidc.IDTokenVerifier
	requireVerifiedEmail bool

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (v *JWTVerifier) VerifyToken(ctx context.Context, rawToken string) (*types.VerifiedIdentity, error) {
	ctx, span := v.tracer.Start(ctx, "authentication.JWTVerifier.VerifyToken")
	defer span.End()

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}

	if err := token.Claims(&claims); err != nil {
		v.logger.Debugf("Failed to extract claims: %v", err)
		return nil, err
	}

	if claims.Subject == "" || claims.Email == "" {
		v.logger.Security().AuthnFailure(claims.Subject, "jwt missing subject or email")
		return nil, fmt.Errorf("token does not identify a person")
	}

	if v.requireVerifiedEmail && !claims.EmailVerified {
		v.logger.Security().AuthnFailure(claims.Subject, "email not verified")
		return nil, fmt.Errorf("email %s is not verified", claims.Email)
	}

	return &types.VerifiedIdentity{
		Handle: claims.Subject,
		Email:  types.NormalizeEmail(claims.Email),
	}, nil
}

func NewJWTVerifier(
	provider ProviderInterface,
	audience string,
	requireVerifiedEmail bool,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *JWTVerifier {
	v := &JWTVerifier{
		requireVerifiedEmail: requireVerifiedEmail,
		tracer:               tracer,
		monitor:              monitor,
		logger:               logger,
	}

	config := &oidc.Config{
		ClientID:          audience,
		SkipClientIDCheck: audience == "",
		SkipIssuerCheck:   false,
	}

	v.verifier = provider.Verifier(config)

	return v
}

func NewJWTVerifierDirect(
	verifier *oidc.IDTokenVerifier,
	requireVerifiedEmail bool,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *JWTVerifier {
	return &JWTVerifier{
		verifier:             verifier,
		requireVerifiedEmail: requireVerifiedEmail,
		tracer:               tracer,
		monitor:              monitor,
		logger:               logger,
	}
}
