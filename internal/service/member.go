package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"
)

// MemberService resolves workspace membership — the step every
// permission-gated operation runs before its role guard — and manages
// joining and role changes.
type MemberService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewMemberService(store repository.Store, logger *slog.Logger) *MemberService {
	return &MemberService{
		store:  store,
		logger: logger,
	}
}

// ResolveRole returns the caller's role and member id within a workspace.
// A missing membership fails with "member not found" — that single check
// both confirms the workspace is reachable by the user and establishes
// the role the guard runs against. One joined lookup, no per-field
// queries.
func (s *MemberService) ResolveRole(ctx context.Context, userID, workspaceID string) (rbac.Role, string, error) {
	member, err := s.store.Members().GetByUserAndWorkspace(ctx, userID, workspaceID)
	if err != nil {
		return "", "", err
	}
	return member.RoleName, member.ID, nil
}

// requirePermissions resolves the caller's role and asserts it grants
// every listed permission. Shared by all gated service methods.
func requirePermissions(ctx context.Context, store repository.Store, userID, workspaceID string, required ...rbac.Permission) error {
	member, err := store.Members().GetByUserAndWorkspace(ctx, userID, workspaceID)
	if err != nil {
		return err
	}
	return rbac.AssertPermitted(member.RoleName, required...)
}

// JoinByInviteCode adds the user to the workspace behind the invite code
// with the MEMBER role.
func (s *MemberService) JoinByInviteCode(ctx context.Context, userID, inviteCode string) (*model.Member, error) {
	if inviteCode == "" {
		return nil, apperror.ValidationFailed("inviteCode", "invite code is required")
	}

	workspace, err := s.store.Workspaces().GetByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("invalid invite code or workspace not found")
		}
		return nil, err
	}

	if _, err := s.store.Members().GetByUserAndWorkspace(ctx, userID, workspace.ID); err == nil {
		return nil, apperror.Conflict("you are already a member of this workspace")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	memberRole, err := s.store.Roles().GetByName(ctx, rbac.RoleMember)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Internal(err, "member role not found")
		}
		return nil, err
	}

	member := &model.Member{
		UserID:      userID,
		WorkspaceID: workspace.ID,
		RoleID:      memberRole.ID,
		RoleName:    memberRole.Name,
		JoinedAt:    time.Now().UTC(),
	}
	if err := s.store.Members().Create(ctx, member); err != nil {
		// Concurrent join with the same invite code.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict("you are already a member of this workspace")
		}
		return nil, err
	}

	s.logger.Info("member joined workspace",
		slog.String("userID", userID),
		slog.String("workspaceID", workspace.ID),
	)

	return member, nil
}

// ChangeMemberRole sets another member's role. Requires
// CHANGE_MEMBER_ROLE, which only OWNER holds.
func (s *MemberService) ChangeMemberRole(ctx context.Context, callerID, workspaceID, memberID string, role rbac.Role) error {
	if err := requirePermissions(ctx, s.store, callerID, workspaceID, rbac.ChangeMemberRole); err != nil {
		return err
	}

	switch role {
	case rbac.RoleOwner, rbac.RoleAdmin, rbac.RoleMember:
	default:
		return apperror.ValidationFailed("role", "unknown role")
	}

	roleRecord, err := s.store.Roles().GetByName(ctx, role)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Internal(err, "role not found")
		}
		return err
	}

	return s.store.Members().UpdateRole(ctx, workspaceID, memberID, roleRecord.ID)
}
