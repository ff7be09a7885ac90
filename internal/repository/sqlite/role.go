package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"
)

// RoleStore implements repository.RoleRepository over the seeded roles
// table. Roles are static reference data — there is no Create or Update.
type RoleStore struct {
	q queryer
}

var _ repository.RoleRepository = (*RoleStore)(nil)

func (s *RoleStore) GetByName(ctx context.Context, name rbac.Role) (*model.Role, error) {
	var r model.Role
	err := s.q.QueryRowContext(ctx,
		`SELECT id, name FROM roles WHERE name = ?`, string(name),
	).Scan(&r.ID, &r.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(fmt.Sprintf("%s role not found", name))
		}
		return nil, fmt.Errorf("sqlite: getting role %s: %w", name, err)
	}
	return &r, nil
}
