// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/canonical/gym-membership-service/internal/logging"
)

func TestMonitorRegistersOnce(t *testing.T) {
	first := NewMonitor("test-service", logging.NewNoopLogger())
	second := NewMonitor("test-service", logging.NewNoopLogger())

	if first.provisioningOutcomes != second.provisioningOutcomes {
		t.Fatal("expected the second monitor to reuse the registered collector")
	}

	tags := map[string]string{"operation": "provision_admin", "outcome": "created"}
	if err := first.IncProvisioningOutcome(tags); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := second.IncProvisioningOutcome(tags); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := testutil.ToFloat64(first.provisioningOutcomes.WithLabelValues("provision_admin", "created", "test-service"))
	if got != 2 {
		t.Errorf("expected counter value 2, got %v", got)
	}
}

func TestMonitorResponseTime(t *testing.T) {
	m := NewMonitor("test-service", logging.NewNoopLogger())

	if err := m.SetResponseTimeMetric(map[string]string{"route": "GET/api/v0/me", "status": "OK"}, 0.25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.GetService() != "test-service" {
		t.Errorf("expected service name test-service, got %s", m.GetService())
	}
}

func TestMonitorRejectsUnknownLabels(t *testing.T) {
	m := NewMonitor("test-service", logging.NewNoopLogger())

	if err := m.IncProvisioningOutcome(map[string]string{"role": "admin"}); err == nil {
		t.Error("expected an error for an unknown label set")
	}
}
