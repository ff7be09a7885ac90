package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"
)

// TaskStore implements repository.TaskRepository.
type TaskStore struct {
	q queryer
}

var _ repository.TaskRepository = (*TaskStore)(nil)

const taskColumns = `id, task_code, project_id, workspace_id, title, description, status, priority, assigned_to, created_by, created_at, updated_at`

func (s *TaskStore) Create(ctx context.Context, task *model.Task) error {
	now := time.Now().UTC()
	task.ID = xid.New().String()
	task.TaskCode = "task-" + task.ID
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.TaskCode,
		task.ProjectID,
		task.WorkspaceID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		nullable(task.AssignedTo),
		task.CreatedBy,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting task %q: %w", task.Title, err)
	}
	return nil
}

func (s *TaskStore) GetByID(ctx context.Context, workspaceID, id string) (*model.Task, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND workspace_id = ?`,
		id, workspaceID,
	)
	task, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("task not found")
		}
		return nil, fmt.Errorf("sqlite: getting task %s: %w", id, err)
	}
	return task, nil
}

func (s *TaskStore) ListByProject(ctx context.Context, workspaceID, projectID string, opts repository.ListOptions) ([]model.Task, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE workspace_id = ? AND project_id = ?
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		workspaceID, projectID, limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks of project %s: %w", projectID, err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Update(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = time.Now().UTC()

	res, err := s.q.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, assigned_to = ?, updated_at = ?
		 WHERE id = ? AND workspace_id = ?`,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		nullable(task.AssignedTo),
		task.UpdatedAt,
		task.ID,
		task.WorkspaceID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %s: %w", task.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("task not found")
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, workspaceID, id string) error {
	res, err := s.q.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND workspace_id = ?`, id, workspaceID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("task not found")
	}
	return nil
}

func (s *TaskStore) CountByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE workspace_id = ?`, workspaceID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting tasks of workspace %s: %w", workspaceID, err)
	}
	return count, nil
}

func (s *TaskStore) CountByProject(ctx context.Context, projectID string) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = ?`, projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting tasks of project %s: %w", projectID, err)
	}
	return count, nil
}

func (s *TaskStore) CountByProjectAndStatus(ctx context.Context, projectID string, status model.TaskStatus) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = ? AND status = ?`,
		projectID, string(status),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting %s tasks of project %s: %w", status, projectID, err)
	}
	return count, nil
}

// scanTask reads one task row; scan is row.Scan or rows.Scan.
func scanTask(scan func(...any) error) (*model.Task, error) {
	var (
		t        model.Task
		assignee sql.NullString
	)
	err := scan(
		&t.ID,
		&t.TaskCode,
		&t.ProjectID,
		&t.WorkspaceID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&assignee,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.AssignedTo = assignee.String
	return &t, nil
}
