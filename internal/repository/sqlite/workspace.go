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

// WorkspaceStore implements repository.WorkspaceRepository.
type WorkspaceStore struct {
	q queryer
}

var _ repository.WorkspaceRepository = (*WorkspaceStore)(nil)

// Create inserts the workspace, generating ID, invite code and timestamps
// in place. The invite code is an xid — unguessable enough for a join
// link and unique by construction (the schema enforces it anyway).
func (s *WorkspaceStore) Create(ctx context.Context, workspace *model.Workspace) error {
	now := time.Now().UTC()
	workspace.ID = xid.New().String()
	workspace.InviteCode = xid.New().String()
	workspace.CreatedAt = now
	workspace.UpdatedAt = now

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, description, owner_id, invite_code, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		workspace.ID,
		workspace.Name,
		workspace.Description,
		workspace.OwnerID,
		workspace.InviteCode,
		workspace.CreatedAt,
		workspace.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting workspace %q: %w", workspace.Name, err)
	}
	return nil
}

const workspaceColumns = `id, name, description, owner_id, invite_code, created_at, updated_at`

func (s *WorkspaceStore) GetByID(ctx context.Context, id string) (*model.Workspace, error) {
	return s.get(ctx, `WHERE id = ?`, id)
}

func (s *WorkspaceStore) GetByInviteCode(ctx context.Context, code string) (*model.Workspace, error) {
	return s.get(ctx, `WHERE invite_code = ?`, code)
}

func (s *WorkspaceStore) get(ctx context.Context, where string, arg any) (*model.Workspace, error) {
	var w model.Workspace
	err := s.q.QueryRowContext(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces `+where, arg,
	).Scan(
		&w.ID,
		&w.Name,
		&w.Description,
		&w.OwnerID,
		&w.InviteCode,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("workspace not found")
		}
		return nil, fmt.Errorf("sqlite: getting workspace: %w", err)
	}
	return &w, nil
}

// ListByUser returns every workspace the user holds a membership in,
// newest first.
func (s *WorkspaceStore) ListByUser(ctx context.Context, userID string) ([]model.Workspace, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT w.id, w.name, w.description, w.owner_id, w.invite_code, w.created_at, w.updated_at
		 FROM workspaces w
		 JOIN members m ON m.workspace_id = w.id
		 WHERE m.user_id = ?
		 ORDER BY w.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing workspaces for user %s: %w", userID, err)
	}
	defer rows.Close()

	workspaces := []model.Workspace{}
	for rows.Next() {
		var w model.Workspace
		if err := rows.Scan(
			&w.ID,
			&w.Name,
			&w.Description,
			&w.OwnerID,
			&w.InviteCode,
			&w.CreatedAt,
			&w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning workspace: %w", err)
		}
		workspaces = append(workspaces, w)
	}
	return workspaces, rows.Err()
}

func (s *WorkspaceStore) Update(ctx context.Context, workspace *model.Workspace) error {
	workspace.UpdatedAt = time.Now().UTC()

	res, err := s.q.ExecContext(ctx,
		`UPDATE workspaces SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		workspace.Name,
		workspace.Description,
		workspace.UpdatedAt,
		workspace.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating workspace %s: %w", workspace.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("workspace not found")
	}
	return nil
}

// Delete removes the workspace. Members, projects and tasks go with it via
// ON DELETE CASCADE; users pointing at it as their current workspace are
// reset to NULL by the schema.
func (s *WorkspaceStore) Delete(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting workspace %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("workspace not found")
	}
	return nil
}
