// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package provisioning

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/gym-membership-service/internal/logging"
	"github.com/canonical/gym-membership-service/internal/monitoring"
	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/tracing"
	"github.com/canonical/gym-membership-service/internal/types"
	"github.com/canonical/gym-membership-service/internal/validation"
	"github.com/canonical/gym-membership-service/pkg/access"
)

type Service struct {
	storage     StorageInterface
	tx          TxRunnerInterface
	authz       AuthorizerInterface
	invitations InvitationsInterface
	validator   *validation.Validator

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// ProvisionAdmin creates a gym and its first admin. The admin gets a placeholder binding
// and an invitation; the tenant and identity are written as a saga so a failure leaves
// no orphan tenant behind.
func (s *Service) ProvisionAdmin(ctx context.Context, requester *types.Identity, req *AdminRequest) (*Provisioned, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.ProvisionAdmin")
	defer span.End()

	if err := s.requireRole(requester, "admins", types.RoleSuperuser); err != nil {
		return nil, err
	}

	req = req.normalized()
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	email := req.Email
	if err := s.ensureUnknown(ctx, email); err != nil {
		s.outcome("provision_admin", "rejected")
		return nil, err
	}

	sg := newSaga(s.logger)

	tenant, err := s.storage.CreateTenant(ctx, &types.Tenant{
		Name:        req.Tenant.Name,
		Email:       req.Tenant.Email,
		Phone:       req.Tenant.Phone,
		Address:     req.Tenant.Address,
		Description: req.Tenant.Description,
	})
	if err != nil {
		s.logger.Errorf("failed to create tenant %q: %v", req.Tenant.Name, err)
		s.outcome("provision_admin", "failed")
		return nil, types.NewStoreError("create tenant", err)
	}
	sg.push("delete tenant "+tenant.ID, func(ctx context.Context) error {
		return s.storage.DeleteTenant(ctx, tenant.ID)
	})

	identity, err := s.createIdentity(ctx, &types.Identity{
		Email:     email,
		Role:      types.RoleAdmin,
		TenantID:  &tenant.ID,
		IsActive:  true,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		s.abort(ctx, sg, "provision_admin")
		return nil, err
	}
	sg.push("delete identity "+identity.ID, func(ctx context.Context) error {
		return s.storage.DeleteIdentity(ctx, identity.ID)
	})

	// a timed out write may still have been applied
	sg.push("delete gym relations "+tenant.ID, func(ctx context.Context) error {
		return s.authz.DeleteGym(ctx, tenant.ID)
	})

	if err := s.authz.AssignGymAdmin(ctx, tenant.ID, identity.ID); err != nil {
		s.logger.Errorf("failed to assign admin %s to gym %s: %v", identity.ID, tenant.ID, err)
		s.abort(ctx, sg, "provision_admin")
		return nil, types.NewStoreError("assign gym admin", err)
	}

	s.outcome("provision_admin", "created")
	s.logger.Security().UserCreated(requester.ID, identity.ID, string(types.RoleAdmin))

	result := &Provisioned{Identity: identity, Tenant: tenant}
	s.invite(ctx, result, types.InvitationMetadata{
		Role:      types.RoleAdmin,
		TenantID:  tenant.ID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
	})

	return result, nil
}

// ProvisionMember adds a trainer or user to an existing gym.
func (s *Service) ProvisionMember(ctx context.Context, requester *types.Identity, req *MemberRequest) (*Provisioned, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.ProvisionMember")
	defer span.End()

	if err := s.requireRole(requester, "members", types.RoleSuperuser, types.RoleAdmin); err != nil {
		return nil, err
	}

	req = req.normalized()
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	tenant, err := s.targetTenant(ctx, requester, req.TenantID)
	if err != nil {
		return nil, err
	}

	email := req.Email
	if err := s.ensureUnknown(ctx, email); err != nil {
		s.outcome("provision_member", "rejected")
		return nil, err
	}

	sg := newSaga(s.logger)

	identity, err := s.createIdentity(ctx, &types.Identity{
		Email:     email,
		Role:      req.Role,
		TenantID:  &tenant.ID,
		IsActive:  true,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		s.outcome("provision_member", "failed")
		return nil, err
	}
	sg.push("delete identity "+identity.ID, func(ctx context.Context) error {
		return s.storage.DeleteIdentity(ctx, identity.ID)
	})

	assign := s.authz.AssignGymMember
	if req.Role == types.RoleTrainer {
		assign = s.authz.AssignGymTrainer
	}
	if err := assign(ctx, tenant.ID, identity.ID); err != nil {
		s.logger.Errorf("failed to assign %s %s to gym %s: %v", req.Role, identity.ID, tenant.ID, err)
		s.abort(ctx, sg, "provision_member")
		return nil, types.NewStoreError("assign gym "+string(req.Role), err)
	}

	s.outcome("provision_member", "created")
	s.logger.Security().UserCreated(requester.ID, identity.ID, string(req.Role))

	result := &Provisioned{Identity: identity}
	s.invite(ctx, result, types.InvitationMetadata{
		Role:      req.Role,
		TenantID:  tenant.ID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
	})

	return result, nil
}

// BootstrapSuperuser creates a superuser. There is no requester: the only caller is the
// operator CLI, which talks to the database directly.
func (s *Service) BootstrapSuperuser(ctx context.Context, req *SuperuserRequest) (*Provisioned, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.BootstrapSuperuser")
	defer span.End()

	req = req.normalized()
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	email := req.Email
	if err := s.ensureUnknown(ctx, email); err != nil {
		s.outcome("bootstrap_superuser", "rejected")
		return nil, err
	}

	identity, err := s.createIdentity(ctx, &types.Identity{
		Email:     email,
		Role:      types.RoleSuperuser,
		IsActive:  true,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		s.outcome("bootstrap_superuser", "failed")
		return nil, err
	}

	s.outcome("bootstrap_superuser", "created")
	s.logger.Security().UserCreated("system", identity.ID, string(types.RoleSuperuser))

	result := &Provisioned{Identity: identity}
	s.invite(ctx, result, types.InvitationMetadata{
		Role:      types.RoleSuperuser,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
	})

	return result, nil
}

// SetActive switches an identity on or off and notifies it, in one transaction.
func (s *Service) SetActive(ctx context.Context, requester *types.Identity, identityID string, active bool) (*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.SetActive")
	defer span.End()

	target, err := s.managedIdentity(ctx, requester, identityID)
	if err != nil {
		return nil, err
	}

	if !active && target.ID == requester.ID {
		return nil, &types.ValidationError{Field: "active", Reason: "you cannot deactivate yourself"}
	}

	if target.IsActive == active {
		return target, nil
	}

	title, message, action := "Account activated", "Your account has been activated.", "activate"
	if !active {
		title, message, action = "Account deactivated", "Your account has been deactivated by an administrator.", "deactivate"
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.storage.SetIdentityActive(ctx, target.ID, active); err != nil {
			return err
		}
		_, err := s.storage.CreateNotification(ctx, &types.Notification{
			IdentityID: target.ID,
			Title:      title,
			Message:    message,
			Category:   "account",
		})
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		s.logger.Errorf("failed to %s identity %s: %v", action, target.ID, err)
		return nil, types.NewStoreError(action+" identity", err)
	}

	s.logger.Security().AdminAction(requester.ID, action, target.ID)

	target.IsActive = active
	return target, nil
}

// AssignTrainer lets trainerID see the records of memberID. Both must belong to a gym the
// requester manages.
func (s *Service) AssignTrainer(ctx context.Context, requester *types.Identity, trainerID, memberID string) error {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.AssignTrainer")
	defer span.End()

	trainer, member, err := s.trainerAndMember(ctx, requester, trainerID, memberID)
	if err != nil {
		return err
	}

	if err := s.authz.AssignTrainerToMember(ctx, trainer.ID, member.ID); err != nil {
		s.logger.Errorf("failed to assign trainer %s to member %s: %v", trainer.ID, member.ID, err)
		return types.NewStoreError("assign trainer", err)
	}

	s.logger.Security().AdminAction(requester.ID, "assign_trainer", trainer.ID+"->"+member.ID)

	_, err = s.storage.CreateNotification(ctx, &types.Notification{
		IdentityID: trainer.ID,
		Title:      "New member assigned",
		Message:    fmt.Sprintf("%s has been assigned to you.", member.FullName()),
		Category:   "assignment",
	})
	if err != nil {
		s.logger.Warnf("failed to notify trainer %s: %v", trainer.ID, err)
	}

	return nil
}

func (s *Service) UnassignTrainer(ctx context.Context, requester *types.Identity, trainerID, memberID string) error {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.UnassignTrainer")
	defer span.End()

	trainer, member, err := s.trainerAndMember(ctx, requester, trainerID, memberID)
	if err != nil {
		return err
	}

	if err := s.authz.RemoveTrainerFromMember(ctx, trainer.ID, member.ID); err != nil {
		s.logger.Errorf("failed to unassign trainer %s from member %s: %v", trainer.ID, member.ID, err)
		return types.NewStoreError("unassign trainer", err)
	}

	s.logger.Security().AdminAction(requester.ID, "unassign_trainer", trainer.ID+"->"+member.ID)
	return nil
}

// ListAssignedMembers returns the members assigned to the requesting trainer.
func (s *Service) ListAssignedMembers(ctx context.Context, requester *types.Identity) ([]*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.ListAssignedMembers")
	defer span.End()

	if err := s.requireRole(requester, "assigned members", types.RoleTrainer); err != nil {
		return nil, err
	}

	ids, err := s.authz.ListAssignedMembers(ctx, requester.ID)
	if err != nil {
		return nil, types.NewStoreError("list assigned members", err)
	}

	members := make([]*types.Identity, 0, len(ids))
	for _, id := range ids {
		m, err := s.storage.GetIdentityByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warnf("assigned member %s of trainer %s does not exist", id, requester.ID)
			continue
		}
		if err != nil {
			return nil, types.NewStoreError("lookup member", err)
		}
		if m.Tenant() != requester.Tenant() {
			continue
		}
		members = append(members, m)
	}

	return members, nil
}

func (s *Service) ListTenants(ctx context.Context, requester *types.Identity) ([]*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.ListTenants")
	defer span.End()

	if err := s.requireRole(requester, "tenants", types.RoleSuperuser); err != nil {
		return nil, err
	}

	tenants, err := s.storage.ListTenants(ctx)
	if err != nil {
		return nil, types.NewStoreError("list tenants", err)
	}

	return tenants, nil
}

// ListIdentities lists the identities of a gym. Admins always get their own gym, superusers
// pick one with tenantID.
func (s *Service) ListIdentities(ctx context.Context, requester *types.Identity, tenantID string, page, size int64) ([]*types.Identity, error) {
	ctx, span := s.tracer.Start(ctx, "provisioning.Service.ListIdentities")
	defer span.End()

	if err := s.requireRole(requester, "identities", types.RoleSuperuser, types.RoleAdmin); err != nil {
		return nil, err
	}

	tenant, err := s.targetTenant(ctx, requester, tenantID)
	if err != nil {
		return nil, err
	}

	identities, err := s.storage.ListIdentitiesByTenant(ctx, tenant.ID, page, size)
	if err != nil {
		return nil, types.NewStoreError("list identities", err)
	}

	return identities, nil
}

func (s *Service) requireRole(requester *types.Identity, resource string, roles ...types.Role) error {
	if requester == nil {
		return &types.UnauthorizedError{Reason: types.ReasonUnauthenticated}
	}
	if !requester.IsActive {
		return &types.UnauthorizedError{Reason: types.ReasonDeactivated}
	}

	for _, r := range roles {
		if requester.Role == r {
			return nil
		}
	}

	s.logger.Security().AuthzFailure(requester.ID, resource)
	return &types.UnauthorizedError{Reason: types.ReasonInsufficientPermissions}
}

// ensureUnknown fails with AlreadyExistsError when email already has an identity.
func (s *Service) ensureUnknown(ctx context.Context, email string) error {
	existing, err := s.storage.GetIdentityByEmail(ctx, email)
	switch {
	case err == nil:
		return &types.AlreadyExistsError{Email: email, Role: existing.Role}
	case errors.Is(err, storage.ErrNotFound):
		return nil
	}

	s.logger.Errorf("failed to look up identity %s: %v", email, err)
	return types.NewStoreError("lookup identity", err)
}

// createIdentity inserts i with a fresh placeholder binding. A duplicate email raced in
// by a concurrent call is reported as AlreadyExistsError.
func (s *Service) createIdentity(ctx context.Context, i *types.Identity) (*types.Identity, error) {
	placeholder, err := types.NewPlaceholderBinding()
	if err != nil {
		return nil, types.NewStoreError("create identity", err)
	}
	i.Binding = placeholder

	created, err := s.storage.CreateIdentity(ctx, i)
	if err == nil {
		return created, nil
	}

	if errors.Is(err, storage.ErrDuplicateKey) {
		role := i.Role
		if existing, lookupErr := s.storage.GetIdentityByEmail(ctx, i.Email); lookupErr == nil {
			role = existing.Role
		}
		return nil, &types.AlreadyExistsError{Email: i.Email, Role: role}
	}

	s.logger.Errorf("failed to create identity %s: %v", i.Email, err)
	return nil, types.NewStoreError("create identity", err)
}

func (s *Service) targetTenant(ctx context.Context, requester *types.Identity, tenantID string) (*types.Tenant, error) {
	if requester.Role == types.RoleAdmin {
		if tenantID != "" && tenantID != requester.Tenant() {
			s.logger.Security().AuthzFailure(requester.ID, "tenant:"+tenantID)
			return nil, &types.UnauthorizedError{Reason: types.ReasonInsufficientPermissions}
		}
		tenantID = requester.Tenant()
	}

	if tenantID == "" {
		return nil, &types.ValidationError{Field: "tenant_id", Reason: "is required"}
	}

	tenant, err := s.storage.GetTenantByID(ctx, tenantID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &types.ValidationError{Field: "tenant_id", Reason: "unknown tenant"}
	}
	if err != nil {
		return nil, types.NewStoreError("lookup tenant", err)
	}

	return tenant, nil
}

func (s *Service) managedIdentity(ctx context.Context, requester *types.Identity, identityID string) (*types.Identity, error) {
	if err := s.requireRole(requester, "identity:"+identityID, types.RoleSuperuser, types.RoleAdmin); err != nil {
		return nil, err
	}

	target, err := s.storage.GetIdentityByID(ctx, identityID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, types.NewStoreError("lookup identity", err)
	}

	if !access.CanManage(requester, target) {
		s.logger.Security().AuthzFailure(requester.ID, "identity:"+identityID)
		return nil, &types.UnauthorizedError{Reason: types.ReasonInsufficientPermissions}
	}

	return target, nil
}

func (s *Service) trainerAndMember(ctx context.Context, requester *types.Identity, trainerID, memberID string) (*types.Identity, *types.Identity, error) {
	trainer, err := s.managedIdentity(ctx, requester, trainerID)
	if err != nil {
		return nil, nil, err
	}
	if trainer.Role != types.RoleTrainer {
		return nil, nil, &types.ValidationError{Field: "trainer_id", Reason: "identity is not a trainer"}
	}

	member, err := s.managedIdentity(ctx, requester, memberID)
	if err != nil {
		return nil, nil, err
	}
	if member.Role != types.RoleUser {
		return nil, nil, &types.ValidationError{Field: "member_id", Reason: "identity is not a member"}
	}

	if trainer.Tenant() != member.Tenant() {
		return nil, nil, &types.ValidationError{Field: "member_id", Reason: "member belongs to another gym"}
	}

	return trainer, member, nil
}

// invite hands the identity to the invitation lifecycle. Failures are reported, never rolled back.
func (s *Service) invite(ctx context.Context, result *Provisioned, metadata types.InvitationMetadata) {
	invitation, err := s.invitations.Send(ctx, result.Identity.Email, metadata)
	if err != nil {
		s.logger.Warnf("identity %s provisioned but the invitation failed: %v", result.Identity.ID, err)
		result.InvitationError = invitationErrorKind(err)
		return
	}
	result.Invitation = invitation
}

func invitationErrorKind(err error) string {
	var pErr *types.ProviderError
	if errors.As(err, &pErr) {
		return string(pErr.Kind)
	}
	return string(types.ProviderFailure)
}

func (s *Service) abort(ctx context.Context, sg *saga, operation string) {
	if failed := sg.rollback(ctx); failed > 0 {
		s.outcome(operation, "compensation_failed")
		return
	}
	s.outcome(operation, "rolled_back")
}

func (s *Service) outcome(operation, result string) {
	_ = s.monitor.IncProvisioningOutcome(map[string]string{"operation": operation, "outcome": result})
}

func NewService(
	storage StorageInterface,
	tx TxRunnerInterface,
	authz AuthorizerInterface,
	invitations InvitationsInterface,
	validator *validation.Validator,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	s := new(Service)

	s.storage = storage
	s.tx = tx
	s.authz = authz
	s.invitations = invitations
	s.validator = validator

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
