package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"
)

// newTestDB returns a migrated in-memory database, destroyed when the
// test finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, email, name string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Name: name}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestWorkspace(t *testing.T, db *DB, ownerID, name string) *model.Workspace {
	t.Helper()
	workspace := &model.Workspace{Name: name, OwnerID: ownerID}
	if err := db.Workspaces().Create(context.Background(), workspace); err != nil {
		t.Fatalf("failed to create test workspace: %v", err)
	}
	return workspace
}

func getTestRole(t *testing.T, db *DB, name rbac.Role) *model.Role {
	t.Helper()
	role, err := db.Roles().GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to load %s role: %v", name, err)
	}
	return role
}

func TestMigrateSeedsRoles(t *testing.T) {
	db := newTestDB(t)

	for _, name := range []rbac.Role{rbac.RoleOwner, rbac.RoleAdmin, rbac.RoleMember} {
		role := getTestRole(t, db, name)
		if role.ID == "" {
			t.Errorf("role %s has empty id", name)
		}
		if role.Name != name {
			t.Errorf("role name = %q, want %q", role.Name, name)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	// Re-running migrations must neither fail nor duplicate the seed.
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}

	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM roles`).Scan(&count)
	if err != nil {
		t.Fatalf("counting roles: %v", err)
	}
	if count != 3 {
		t.Errorf("role count after re-migration = %d, want 3", count)
	}
}

func TestRoleGetByNameUnknown(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Roles().GetByName(context.Background(), rbac.Role("SUPERUSER"))
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByName(SUPERUSER) error = %v, want ErrNotFound", err)
	}
}

func TestInTxCommit(t *testing.T) {
	db := newTestDB(t)

	err := db.InTx(context.Background(), func(tx repository.Store) error {
		return tx.Users().Create(context.Background(), &model.User{Email: "a@example.com", Name: "A"})
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}

	if _, err := db.Users().GetByEmail(context.Background(), "a@example.com"); err != nil {
		t.Errorf("committed user not readable: %v", err)
	}
}

func TestInTxRollback(t *testing.T) {
	db := newTestDB(t)

	failure := apperror.Internal(errors.New("seed missing"), "owner role not found")
	err := db.InTx(context.Background(), func(tx repository.Store) error {
		if err := tx.Users().Create(context.Background(), &model.User{Email: "a@example.com", Name: "A"}); err != nil {
			return err
		}
		return failure
	})

	// The error must come back unchanged so errors.Is works at the caller.
	if !errors.Is(err, apperror.ErrInternal) {
		t.Fatalf("InTx() error = %v, want the ErrInternal passed through", err)
	}

	if _, err := db.Users().GetByEmail(context.Background(), "a@example.com"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("user visible after rollback: %v", err)
	}
}

func TestInTxJoinsOngoingTransaction(t *testing.T) {
	db := newTestDB(t)

	// A nested InTx runs in the same transaction: the outer failure must
	// also discard the inner write.
	sentinel := errors.New("outer failure")
	err := db.InTx(context.Background(), func(tx repository.Store) error {
		if err := tx.InTx(context.Background(), func(inner repository.Store) error {
			return inner.Users().Create(context.Background(), &model.User{Email: "a@example.com", Name: "A"})
		}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("InTx() error = %v, want sentinel", err)
	}

	if _, err := db.Users().GetByEmail(context.Background(), "a@example.com"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("inner write survived the outer rollback: %v", err)
	}
}
