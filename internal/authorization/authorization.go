// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"fmt"
	"strings"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/openfga"
	"github.com/canonical/gym-membership-service/internal/tracing"
)

var ErrInvalidAuthModel = fmt.Errorf("invalid authorization model schema")

var _ AuthorizerInterface = (*Authorizer)(nil)

type Authorizer struct {
	client AuthzClientInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *Authorizer) Check(ctx context.Context, user string, relation string, object string, contextualTuples ...openfga.Tuple) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.Check")
	defer span.End()

	return a.client.Check(ctx, user, relation, object, contextualTuples...)
}

func (a *Authorizer) ListObjects(ctx context.Context, user string, relation string, objectType string) ([]string, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.ListObjects")
	defer span.End()

	return a.client.ListObjects(ctx, user, relation, objectType)
}

func (a *Authorizer) ValidateModel(ctx context.Context) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.ValidateModel")
	defer span.End()

	v0AuthzModel := NewAuthorizationModelProvider("v0")
	model := *v0AuthzModel.GetModel()

	eq, err := a.client.CompareModel(ctx, model)
	if err != nil {
		return err
	}
	if !eq {
		return ErrInvalidAuthModel
	}
	return nil
}

func (a *Authorizer) AssignGymAdmin(ctx context.Context, gymId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignGymAdmin")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(userId), ADMIN_RELATION, GymTuple(gymId))
}

func (a *Authorizer) AssignGymTrainer(ctx context.Context, gymId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignGymTrainer")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(userId), TRAINER_RELATION, GymTuple(gymId))
}

// AssignGymMember makes userId a member of the gym and creates the member object that
// trainer assignments attach to.
func (a *Authorizer) AssignGymMember(ctx context.Context, gymId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignGymMember")
	defer span.End()

	return a.client.WriteTuples(
		ctx,
		*openfga.NewTuple(UserTuple(userId), MEMBER_RELATION, GymTuple(gymId)),
		*openfga.NewTuple(GymTuple(gymId), GYM_RELATION, MemberTuple(userId)),
		*openfga.NewTuple(UserTuple(userId), SELF_RELATION, MemberTuple(userId)),
	)
}

func (a *Authorizer) AssignTrainerToMember(ctx context.Context, trainerId, memberId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignTrainerToMember")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(trainerId), TRAINER_RELATION, MemberTuple(memberId))
}

func (a *Authorizer) RemoveTrainerFromMember(ctx context.Context, trainerId, memberId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.RemoveTrainerFromMember")
	defer span.End()

	return a.client.DeleteTuple(ctx, UserTuple(trainerId), TRAINER_RELATION, MemberTuple(memberId))
}

// ListAssignedMembers returns the ids of the members trainerId is assigned to.
func (a *Authorizer) ListAssignedMembers(ctx context.Context, trainerId string) ([]string, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.ListAssignedMembers")
	defer span.End()

	objects, err := a.client.ListObjects(ctx, UserTuple(trainerId), TRAINER_RELATION, "member")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(objects))
	for _, o := range objects {
		ids = append(ids, strings.TrimPrefix(o, MemberTuple("")))
	}
	return ids, nil
}

// CheckMemberAccess reports whether userId may view memberId's records.
func (a *Authorizer) CheckMemberAccess(ctx context.Context, userId, memberId string) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.CheckMemberAccess")
	defer span.End()

	return a.Check(ctx, UserTuple(userId), CAN_VIEW_PERMISSION, MemberTuple(memberId))
}

func (a *Authorizer) DeleteGym(ctx context.Context, gymId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.DeleteGym")
	defer span.End()

	cToken := ""
	for {
		r, err := a.client.ReadTuples(ctx, "", "", GymTuple(gymId), cToken)
		if err != nil {
			a.logger.Errorf("error when retrieving tuples: %s", err)
			return err
		}
		if len(r.Tuples) == 0 {
			break
		}
		ts := make([]openfga.Tuple, len(r.Tuples))
		for i, t := range r.Tuples {
			ts[i] = *openfga.NewTuple(t.Key.User, t.Key.Relation, t.Key.Object)
		}
		if err := a.client.DeleteTuples(ctx, ts...); err != nil {
			a.logger.Errorf("error when deleting tuples %v: %s", ts, err)
			return err
		}
		if r.ContinuationToken == "" {
			break
		}
		cToken = r.ContinuationToken
	}
	return nil
}

func NewAuthorizer(client AuthzClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Authorizer {
	authorizer := new(Authorizer)
	authorizer.client = client
	authorizer.tracer = tracer
	authorizer.monitor = monitor
	authorizer.logger = logger

	return authorizer
}
