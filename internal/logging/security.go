// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

const (
	eventAuthnFailure   = "authn_failure"
	eventAuthzFailure   = "authz_failure"
	eventUserCreated    = "user_created"
	eventAdminAction    = "admin_action"
	eventSystemStartup  = "sys_startup"
	eventSystemShutdown = "sys_shutdown"
)

// SecurityLogger logs events following the OWASP logging vocabulary.
type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) AuthnFailure(subject, reason string) {
	s.l.Warn("authentication failed",
		zap.String("event", eventAuthnFailure+":"+subject),
		zap.String("reason", reason),
	)
}

func (s *SecurityLogger) AuthzFailure(subject, resource string) {
	s.l.Warn("authorization failed",
		zap.String("event", eventAuthzFailure+":"+subject+","+resource),
	)
}

func (s *SecurityLogger) UserCreated(actor, subject, role string) {
	s.l.Info("user created",
		zap.String("event", eventUserCreated+":"+actor+","+subject+","+role),
	)
}

func (s *SecurityLogger) AdminAction(actor, action, resource string) {
	s.l.Info("admin action",
		zap.String("event", eventAdminAction+":"+actor+","+action+","+resource),
	)
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("system startup", zap.String("event", eventSystemStartup))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("system shutdown", zap.String("event", eventSystemShutdown))
}
