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

// MemberStore implements repository.MemberRepository.
type MemberStore struct {
	q queryer
}

var _ repository.MemberRepository = (*MemberStore)(nil)

// Create inserts the membership. The UNIQUE index on
// (user_id, workspace_id) rejects duplicate memberships, and the role_id
// foreign key means a member can never reference a role that does not
// exist.
func (s *MemberStore) Create(ctx context.Context, member *model.Member) error {
	member.ID = xid.New().String()
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO members (id, user_id, workspace_id, role_id, joined_at)
		 VALUES (?, ?, ?, ?, ?)`,
		member.ID,
		member.UserID,
		member.WorkspaceID,
		member.RoleID,
		member.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user is already a member of this workspace")
		}
		return fmt.Errorf("sqlite: inserting member (user=%s workspace=%s): %w",
			member.UserID, member.WorkspaceID, err)
	}
	return nil
}

// GetByUserAndWorkspace resolves the unique membership for the pair in one
// joined query — the caller gets the role name without a second lookup.
func (s *MemberStore) GetByUserAndWorkspace(ctx context.Context, userID, workspaceID string) (*model.Member, error) {
	var m model.Member
	err := s.q.QueryRowContext(ctx,
		`SELECT m.id, m.user_id, m.workspace_id, m.role_id, r.name, m.joined_at
		 FROM members m
		 JOIN roles r ON r.id = m.role_id
		 WHERE m.user_id = ? AND m.workspace_id = ?`,
		userID, workspaceID,
	).Scan(
		&m.ID,
		&m.UserID,
		&m.WorkspaceID,
		&m.RoleID,
		&m.RoleName,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("member not found")
		}
		return nil, fmt.Errorf("sqlite: getting member (user=%s workspace=%s): %w", userID, workspaceID, err)
	}
	return &m, nil
}

// ListByWorkspace returns the workspace's members with role and user
// fields joined in, oldest membership first.
func (s *MemberStore) ListByWorkspace(ctx context.Context, workspaceID string) ([]model.Member, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT m.id, m.user_id, m.workspace_id, m.role_id, r.name, m.joined_at, u.name, u.email
		 FROM members m
		 JOIN roles r ON r.id = m.role_id
		 JOIN users u ON u.id = m.user_id
		 WHERE m.workspace_id = ?
		 ORDER BY m.joined_at ASC`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing members of workspace %s: %w", workspaceID, err)
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.WorkspaceID,
			&m.RoleID,
			&m.RoleName,
			&m.JoinedAt,
			&m.UserName,
			&m.UserEmail,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *MemberStore) UpdateRole(ctx context.Context, workspaceID, memberID, roleID string) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE members SET role_id = ? WHERE id = ? AND workspace_id = ?`,
		roleID, memberID, workspaceID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating role of member %s: %w", memberID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("member not found")
	}
	return nil
}

func (s *MemberStore) CountByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM members WHERE workspace_id = ?`, workspaceID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting members of workspace %s: %w", workspaceID, err)
	}
	return count, nil
}
