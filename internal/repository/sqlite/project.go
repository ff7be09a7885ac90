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

// ProjectStore implements repository.ProjectRepository. All reads are
// workspace-scoped so a project id leaked across workspaces resolves to
// not-found rather than to another tenant's data.
type ProjectStore struct {
	q queryer
}

var _ repository.ProjectRepository = (*ProjectStore)(nil)

func (s *ProjectStore) Create(ctx context.Context, project *model.Project) error {
	now := time.Now().UTC()
	project.ID = xid.New().String()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO projects (id, workspace_id, name, description, emoji, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.WorkspaceID,
		project.Name,
		project.Description,
		project.Emoji,
		project.CreatedBy,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting project %q: %w", project.Name, err)
	}
	return nil
}

func (s *ProjectStore) GetByID(ctx context.Context, workspaceID, id string) (*model.Project, error) {
	var p model.Project
	err := s.q.QueryRowContext(ctx,
		`SELECT id, workspace_id, name, description, emoji, created_by, created_at, updated_at
		 FROM projects WHERE id = ? AND workspace_id = ?`,
		id, workspaceID,
	).Scan(
		&p.ID,
		&p.WorkspaceID,
		&p.Name,
		&p.Description,
		&p.Emoji,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("project not found")
		}
		return nil, fmt.Errorf("sqlite: getting project %s: %w", id, err)
	}
	return &p, nil
}

func (s *ProjectStore) ListByWorkspace(ctx context.Context, workspaceID string, opts repository.ListOptions) ([]model.Project, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT id, workspace_id, name, description, emoji, created_by, created_at, updated_at
		 FROM projects WHERE workspace_id = ?
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		workspaceID, limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects of workspace %s: %w", workspaceID, err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID,
			&p.WorkspaceID,
			&p.Name,
			&p.Description,
			&p.Emoji,
			&p.CreatedBy,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *ProjectStore) CountByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE workspace_id = ?`, workspaceID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting projects of workspace %s: %w", workspaceID, err)
	}
	return count, nil
}

func (s *ProjectStore) Update(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now().UTC()

	res, err := s.q.ExecContext(ctx,
		`UPDATE projects SET name = ?, description = ?, emoji = ?, updated_at = ?
		 WHERE id = ? AND workspace_id = ?`,
		project.Name,
		project.Description,
		project.Emoji,
		project.UpdatedAt,
		project.ID,
		project.WorkspaceID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating project %s: %w", project.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("project not found")
	}
	return nil
}

// Delete removes the project; its tasks cascade with it.
func (s *ProjectStore) Delete(ctx context.Context, workspaceID, id string) error {
	res, err := s.q.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND workspace_id = ?`, id, workspaceID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting project %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("project not found")
	}
	return nil
}
