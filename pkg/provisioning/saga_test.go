// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/canonical/gym-membership-service/internal/logging"
)

func TestSagaRollback(t *testing.T) {
	var order []string
	step := func(name string, err error) func(context.Context) error {
		return func(ctx context.Context) error {
			if ctx.Err() != nil {
				t.Errorf("compensation %s ran with a cancelled context", name)
			}
			order = append(order, name)
			return err
		}
	}

	sg := newSaga(logging.NewNoopLogger())
	sg.push("tenant", step("tenant", nil))
	sg.push("identity", step("identity", errors.New("db gone")))
	sg.push("relations", step("relations", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if failed := sg.rollback(ctx); failed != 1 {
		t.Errorf("expected 1 failed compensation, got %d", failed)
	}

	expected := []string{"relations", "identity", "tenant"}
	if !reflect.DeepEqual(order, expected) {
		t.Errorf("expected order %v, got %v", expected, order)
	}

	order = nil
	if failed := sg.rollback(context.Background()); failed != 0 || len(order) != 0 {
		t.Errorf("expected a second rollback to be a no-op, ran %v", order)
	}
}
