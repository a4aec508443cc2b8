// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"context"

	"github.com/canonical/gym-membership-service/internal/logging"
)

type compensation struct {
	name string
	undo func(context.Context) error
}

// saga records how to undo each completed step of a multi step write.
type saga struct {
	steps  []compensation
	logger logging.LoggerInterface
}

func (s *saga) push(name string, undo func(context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

// rollback runs the compensations in reverse order. A failing compensation is logged and
// the remaining ones still run; there is no second level of rollback.
// It returns the number of compensations that failed.
func (s *saga) rollback(ctx context.Context) int {
	// compensate even if the caller went away
	ctx = context.WithoutCancel(ctx)

	failed := 0
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(ctx); err != nil {
			failed++
			s.logger.Errorf("compensation %q failed: %v", step.name, err)
			continue
		}
		s.logger.Debugf("compensation %q done", step.name)
	}
	s.steps = nil

	return failed
}

func newSaga(logger logging.LoggerInterface) *saga {
	return &saga{logger: logger}
}
