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

// UserStore implements repository.UserRepository.
type UserStore struct {
	q queryer
}

var _ repository.UserRepository = (*UserStore)(nil)

// Create inserts the user, generating the ID and timestamps in place.
// The UNIQUE index on email turns a duplicate registration — including a
// concurrent one — into apperror.ErrConflict.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, profile_picture, current_workspace_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.ProfilePicture,
		nullable(user.CurrentWorkspaceID),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("email already exists")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.get(ctx, `WHERE id = ?`, id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.get(ctx, `WHERE email = ?`, email)
}

func (s *UserStore) get(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u         model.User
		workspace sql.NullString
	)
	err := s.q.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, profile_picture, current_workspace_id, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.ProfilePicture,
		&workspace,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	u.CurrentWorkspaceID = workspace.String
	return &u, nil
}

// Update persists name, profile picture, password hash and current
// workspace. Email is immutable — it is the registration identity.
func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := s.q.ExecContext(ctx,
		`UPDATE users SET name = ?, password_hash = ?, profile_picture = ?, current_workspace_id = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name,
		user.PasswordHash,
		user.ProfilePicture,
		nullable(user.CurrentWorkspaceID),
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}
