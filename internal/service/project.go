package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"
)

const (
	maxProjectNameLength = 100
	defaultPageSize      = 10
	maxPageSize          = 100
)

// ProjectService manages projects within a workspace. Every method is
// permission-gated through the caller's resolved role.
type ProjectService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewProjectService(store repository.Store, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		store:  store,
		logger: logger,
	}
}

// ProjectPage is a page of projects plus the workspace total.
type ProjectPage struct {
	Projects   []model.Project `json:"projects"`
	TotalCount int             `json:"totalCount"`
}

// ProjectAnalytics is the simple-count summary for one project.
type ProjectAnalytics struct {
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
}

// Create adds a project to the workspace. Requires CREATE_PROJECT.
func (s *ProjectService) Create(ctx context.Context, userID, workspaceID, name, description, emoji string) (*model.Project, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.CreateProject); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "project name is required")
	}
	if len(name) > maxProjectNameLength {
		return nil, apperror.ValidationFailed("name", "project name is too long")
	}

	project := &model.Project{
		WorkspaceID: workspaceID,
		Name:        name,
		Description: description,
		Emoji:       emoji,
		CreatedBy:   userID,
	}
	if err := s.store.Projects().Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		slog.String("projectID", project.ID),
		slog.String("workspaceID", workspaceID),
	)
	return project, nil
}

// List returns a page of the workspace's projects. Requires VIEW_ONLY.
func (s *ProjectService) List(ctx context.Context, userID, workspaceID string, opts repository.ListOptions) (*ProjectPage, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.ViewOnly); err != nil {
		return nil, err
	}

	if opts.Limit <= 0 {
		opts.Limit = defaultPageSize
	}
	if opts.Limit > maxPageSize {
		opts.Limit = maxPageSize
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	projects, err := s.store.Projects().ListByWorkspace(ctx, workspaceID, opts)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Projects().CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	return &ProjectPage{Projects: projects, TotalCount: total}, nil
}

// Get returns one project of the workspace. Requires VIEW_ONLY.
func (s *ProjectService) Get(ctx context.Context, userID, workspaceID, projectID string) (*model.Project, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.ViewOnly); err != nil {
		return nil, err
	}
	return s.store.Projects().GetByID(ctx, workspaceID, projectID)
}

// Update changes a project's name, description and emoji. Requires
// EDIT_PROJECT.
func (s *ProjectService) Update(ctx context.Context, userID, workspaceID, projectID, name, description, emoji string) (*model.Project, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.EditProject); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "project name is required")
	}

	project, err := s.store.Projects().GetByID(ctx, workspaceID, projectID)
	if err != nil {
		return nil, err
	}
	project.Name = name
	project.Description = description
	project.Emoji = emoji

	if err := s.store.Projects().Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project and its tasks. Requires DELETE_PROJECT.
func (s *ProjectService) Delete(ctx context.Context, userID, workspaceID, projectID string) error {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.DeleteProject); err != nil {
		return err
	}
	return s.store.Projects().Delete(ctx, workspaceID, projectID)
}

// Analytics returns task counts for one project. Requires VIEW_ONLY.
func (s *ProjectService) Analytics(ctx context.Context, userID, workspaceID, projectID string) (*ProjectAnalytics, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.ViewOnly); err != nil {
		return nil, err
	}
	if _, err := s.store.Projects().GetByID(ctx, workspaceID, projectID); err != nil {
		return nil, err
	}

	total, err := s.store.Tasks().CountByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	done, err := s.store.Tasks().CountByProjectAndStatus(ctx, projectID, model.TaskStatusDone)
	if err != nil {
		return nil, err
	}

	return &ProjectAnalytics{TotalTasks: total, CompletedTasks: done}, nil
}
