package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"
)

const maxTaskTitleLength = 200

// TaskService manages tasks within a project. Every method is
// permission-gated through the caller's resolved role.
type TaskService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewTaskService(store repository.Store, logger *slog.Logger) *TaskService {
	return &TaskService{
		store:  store,
		logger: logger,
	}
}

// TaskInput carries the caller-editable task fields. Status and Priority
// default to TODO and MEDIUM when empty.
type TaskInput struct {
	Title       string
	Description string
	Status      model.TaskStatus
	Priority    model.TaskPriority
	AssignedTo  string
}

func (in *TaskInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperror.ValidationFailed("title", "task title is required")
	}
	if len(in.Title) > maxTaskTitleLength {
		return apperror.ValidationFailed("title", "task title is too long")
	}
	if in.Status == "" {
		in.Status = model.TaskStatusTodo
	}
	if !in.Status.Valid() {
		return apperror.ValidationFailed("status", "unknown task status")
	}
	if in.Priority == "" {
		in.Priority = model.TaskPriorityMedium
	}
	if !in.Priority.Valid() {
		return apperror.ValidationFailed("priority", "unknown task priority")
	}
	return nil
}

// Create adds a task to a project. Requires CREATE_TASK. The project must
// belong to the workspace, and an assignee must be a member of it.
func (s *TaskService) Create(ctx context.Context, userID, workspaceID, projectID string, in TaskInput) (*model.Task, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.CreateTask); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if _, err := s.store.Projects().GetByID(ctx, workspaceID, projectID); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, workspaceID, in.AssignedTo); err != nil {
		return nil, err
	}

	task := &model.Task{
		ProjectID:   projectID,
		WorkspaceID: workspaceID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
		CreatedBy:   userID,
	}
	if err := s.store.Tasks().Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		slog.String("taskID", task.ID),
		slog.String("projectID", projectID),
	)
	return task, nil
}

// Update rewrites a task's editable fields. Requires EDIT_TASK.
func (s *TaskService) Update(ctx context.Context, userID, workspaceID, taskID string, in TaskInput) (*model.Task, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.EditTask); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	task, err := s.store.Tasks().GetByID(ctx, workspaceID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, workspaceID, in.AssignedTo); err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Status = in.Status
	task.Priority = in.Priority
	task.AssignedTo = in.AssignedTo

	if err := s.store.Tasks().Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task. Requires DELETE_TASK.
func (s *TaskService) Delete(ctx context.Context, userID, workspaceID, taskID string) error {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.DeleteTask); err != nil {
		return err
	}
	return s.store.Tasks().Delete(ctx, workspaceID, taskID)
}

// List returns a page of a project's tasks. Requires VIEW_ONLY.
func (s *TaskService) List(ctx context.Context, userID, workspaceID, projectID string, opts repository.ListOptions) ([]model.Task, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.ViewOnly); err != nil {
		return nil, err
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultPageSize
	}
	if opts.Limit > maxPageSize {
		opts.Limit = maxPageSize
	}
	return s.store.Tasks().ListByProject(ctx, workspaceID, projectID, opts)
}

// Get returns one task of the workspace. Requires VIEW_ONLY.
func (s *TaskService) Get(ctx context.Context, userID, workspaceID, taskID string) (*model.Task, error) {
	if err := requirePermissions(ctx, s.store, userID, workspaceID, rbac.ViewOnly); err != nil {
		return nil, err
	}
	return s.store.Tasks().GetByID(ctx, workspaceID, taskID)
}

// checkAssignee verifies the assignee, when set, is a member of the
// workspace.
func (s *TaskService) checkAssignee(ctx context.Context, workspaceID, assigneeID string) error {
	if assigneeID == "" {
		return nil
	}
	_, err := s.store.Members().GetByUserAndWorkspace(ctx, assigneeID, workspaceID)
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.ValidationFailed("assignedTo", "assignee is not a member of this workspace")
	}
	return err
}
