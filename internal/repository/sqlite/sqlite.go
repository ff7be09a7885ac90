// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so
// no CGo toolchain is needed and ":memory:" databases keep the tests
// self-contained. All uniqueness guarantees the services rely on (one user
// per email, one account per provider identity, one membership per
// user/workspace pair) are enforced here with UNIQUE indexes, so
// concurrent writers race safely: the loser gets a conflict error instead
// of silently duplicating data.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/xid"

	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// defaultListLimit caps listing queries whose ListOptions carry no limit.
const defaultListLimit = 10

// queryer is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Entity stores run against a queryer so the same code serves both plain
// calls and calls inside a transaction.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps a sql.DB connection pool and implements repository.Store.
type DB struct {
	conn *sql.DB
}

var _ repository.Store = (*DB)(nil)

// New opens (or creates) the database at dbPath, configures it, and runs
// migrations including the role seed. Use ":memory:" in tests.
//
// The pragmas ride in the DSN rather than a one-off Exec: foreign_keys
// is a per-connection setting in SQLite, and database/sql pools
// connections, so an Exec'd pragma would configure only whichever
// connection happened to run it — every other pool connection would
// silently skip the ON DELETE actions the schema depends on. The driver
// applies _pragma parameters to each connection it opens.
func New(dbPath string) (*DB, error) {
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A :memory: database is private to the connection that opened it;
	// cap the pool at one so every statement sees the same database.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Users() repository.UserRepository           { return &UserStore{q: db.conn} }
func (db *DB) Accounts() repository.AccountRepository     { return &AccountStore{q: db.conn} }
func (db *DB) Workspaces() repository.WorkspaceRepository { return &WorkspaceStore{q: db.conn} }
func (db *DB) Roles() repository.RoleRepository           { return &RoleStore{q: db.conn} }
func (db *DB) Members() repository.MemberRepository       { return &MemberStore{q: db.conn} }
func (db *DB) Projects() repository.ProjectRepository     { return &ProjectStore{q: db.conn} }
func (db *DB) Tasks() repository.TaskRepository           { return &TaskStore{q: db.conn} }

// InTx runs fn inside a single SQLite transaction. If fn returns an error
// the transaction is rolled back and the error returned unchanged, so
// typed domain errors survive for errors.Is at the caller.
func (db *DB) InTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	if err := fn(&txStore{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("sqlite: rolling back after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// txStore is the Store view bound to an open transaction.
type txStore struct {
	tx *sql.Tx
}

var _ repository.Store = (*txStore)(nil)

func (s *txStore) Users() repository.UserRepository           { return &UserStore{q: s.tx} }
func (s *txStore) Accounts() repository.AccountRepository     { return &AccountStore{q: s.tx} }
func (s *txStore) Workspaces() repository.WorkspaceRepository { return &WorkspaceStore{q: s.tx} }
func (s *txStore) Roles() repository.RoleRepository           { return &RoleStore{q: s.tx} }
func (s *txStore) Members() repository.MemberRepository       { return &MemberStore{q: s.tx} }
func (s *txStore) Projects() repository.ProjectRepository     { return &ProjectStore{q: s.tx} }
func (s *txStore) Tasks() repository.TaskRepository           { return &TaskStore{q: s.tx} }

// InTx on an open transaction joins it — SQLite has no nested
// transactions, and the callers only need atomicity of the whole.
func (s *txStore) InTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

// migrate creates the schema and seeds the role catalog.
// CREATE TABLE IF NOT EXISTS keeps it safe to run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                   TEXT PRIMARY KEY,
			email                TEXT NOT NULL UNIQUE,
			name                 TEXT NOT NULL,
			password_hash        TEXT NOT NULL DEFAULT '',
			profile_picture      TEXT NOT NULL DEFAULT '',
			current_workspace_id TEXT REFERENCES workspaces(id) ON DELETE SET NULL,
			created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS accounts (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			provider    TEXT NOT NULL,
			provider_id TEXT NOT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (provider, provider_id)
		);

		CREATE TABLE IF NOT EXISTS workspaces (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			owner_id    TEXT NOT NULL REFERENCES users(id),
			invite_code TEXT NOT NULL UNIQUE,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS roles (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS members (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
			role_id      TEXT NOT NULL REFERENCES roles(id),
			joined_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, workspace_id)
		);
		CREATE INDEX IF NOT EXISTS idx_members_workspace_id ON members(workspace_id);

		CREATE TABLE IF NOT EXISTS projects (
			id           TEXT PRIMARY KEY,
			workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
			name         TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			emoji        TEXT NOT NULL DEFAULT '',
			created_by   TEXT NOT NULL REFERENCES users(id),
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_projects_workspace_id ON projects(workspace_id);

		CREATE TABLE IF NOT EXISTS tasks (
			id           TEXT PRIMARY KEY,
			task_code    TEXT NOT NULL,
			project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			status       TEXT NOT NULL,
			priority     TEXT NOT NULL,
			assigned_to  TEXT REFERENCES users(id) ON DELETE SET NULL,
			created_by   TEXT NOT NULL REFERENCES users(id),
			created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_workspace_id ON tasks(workspace_id);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	return db.seedRoles()
}

// seedRoles inserts the three static roles if they are not present.
// Bootstrap fails hard when this seed is missing, so it runs on every
// start rather than as a separate deployment step.
func (db *DB) seedRoles() error {
	for _, name := range []rbac.Role{rbac.RoleOwner, rbac.RoleAdmin, rbac.RoleMember} {
		_, err := db.conn.Exec(
			`INSERT INTO roles (id, name) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`,
			xid.New().String(), string(name),
		)
		if err != nil {
			return fmt.Errorf("seeding role %s: %w", name, err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE (or primary
// key) constraint failure. Entity stores translate these into
// apperror.Conflict so services can react to lost races.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// nullable maps the empty string to NULL for optional foreign keys
// (users.current_workspace_id, tasks.assigned_to).
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
