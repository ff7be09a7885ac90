package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"
)

const maxWorkspaceNameLength = 100

// WorkspaceService manages workspaces beyond the bootstrap-created one.
type WorkspaceService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewWorkspaceService(store repository.Store, logger *slog.Logger) *WorkspaceService {
	return &WorkspaceService{
		store:  store,
		logger: logger,
	}
}

// WorkspaceAnalytics is the simple-count summary for one workspace.
type WorkspaceAnalytics struct {
	TotalMembers  int `json:"totalMembers"`
	TotalProjects int `json:"totalProjects"`
	TotalTasks    int `json:"totalTasks"`
}

// Create makes an additional workspace with the caller as OWNER member.
// No permission check applies — there is no workspace context to check
// against yet; any authenticated user may create one. The workspace and
// its first membership commit atomically.
func (s *WorkspaceService) Create(ctx context.Context, userID, name, description string) (*model.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "workspace name is required")
	}
	if len(name) > maxWorkspaceNameLength {
		return nil, apperror.ValidationFailed("name", "workspace name is too long")
	}

	var workspace *model.Workspace
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		workspace = &model.Workspace{
			Name:        name,
			Description: description,
			OwnerID:     userID,
		}
		if err := tx.Workspaces().Create(ctx, workspace); err != nil {
			return err
		}

		ownerRole, err := tx.Roles().GetByName(ctx, rbac.RoleOwner)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return apperror.Internal(err, "owner role not found")
			}
			return err
		}

		return tx.Members().Create(ctx, &model.Member{
			UserID:      userID,
			WorkspaceID: workspace.ID,
			RoleID:      ownerRole.ID,
			RoleName:    ownerRole.Name,
			JoinedAt:    time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("workspace created",
		slog.String("workspaceID", workspace.ID),
		slog.String("ownerID", userID),
	)

	return workspace, nil
}

// GetByID returns a workspace the caller is a member of. Membership is
// the only requirement — every role can view its own workspaces.
func (s *WorkspaceService) GetByID(ctx context.Context, userID, workspaceID string) (*model.Workspace, error) {
	if _, err := s.store.Members().GetByUserAndWorkspace(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	return s.store.Workspaces().GetByID(ctx, workspaceID)
}

// ListForUser returns all workspaces the user belongs to.
func (s *WorkspaceService) ListForUser(ctx context.Context, userID string) ([]model.Workspace, error) {
	return s.store.Workspaces().ListByUser(ctx, userID)
}

// Members lists the workspace's members. Requires VIEW_ONLY.
func (s *WorkspaceService) Members(ctx context.Context, userID, workspaceID string) ([]model.Member, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.ViewOnly); err != nil {
		return nil, err
	}
	return s.store.Members().ListByWorkspace(ctx, workspaceID)
}

// Update changes the workspace name and description. Requires
// EDIT_WORKSPACE.
func (s *WorkspaceService) Update(ctx context.Context, userID, workspaceID, name, description string) (*model.Workspace, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.EditWorkspace); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "workspace name is required")
	}

	workspace, err := s.store.Workspaces().GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	workspace.Name = name
	workspace.Description = description

	if err := s.store.Workspaces().Update(ctx, workspace); err != nil {
		return nil, err
	}
	return workspace, nil
}

// Delete removes the workspace and everything in it. Requires
// DELETE_WORKSPACE.
func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID string) error {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.DeleteWorkspace); err != nil {
		return err
	}

	if err := s.store.Workspaces().Delete(ctx, workspaceID); err != nil {
		return err
	}

	s.logger.Info("workspace deleted",
		slog.String("workspaceID", workspaceID),
		slog.String("deletedBy", userID),
	)
	return nil
}

// Analytics returns member/project/task counts. Requires VIEW_ONLY.
func (s *WorkspaceService) Analytics(ctx context.Context, userID, workspaceID string) (*WorkspaceAnalytics, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.ViewOnly); err != nil {
		return nil, err
	}

	members, err := s.store.Members().CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	projects, err := s.store.Projects().CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks().CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	return &WorkspaceAnalytics{
		TotalMembers:  members,
		TotalProjects: projects,
		TotalTasks:    tasks,
	}, nil
}
