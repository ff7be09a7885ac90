// Package repository declares the persistence interfaces the service layer
// depends on. The SQLite implementation lives in repository/sqlite;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
)

// ListOptions carries limit/offset pagination for listing queries.
// A zero Limit means the implementation's default page size.
type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	// Create inserts the user, generating ID and timestamps in place.
	// Returns a conflict error if the email is already taken.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type AccountRepository interface {
	// Create inserts the account. Returns a conflict error if the
	// (provider, providerID) pair already exists.
	Create(ctx context.Context, account *model.Account) error
	GetByProvider(ctx context.Context, provider model.Provider, providerID string) (*model.Account, error)
}

type WorkspaceRepository interface {
	// Create inserts the workspace, generating ID, invite code and
	// timestamps in place.
	Create(ctx context.Context, workspace *model.Workspace) error
	GetByID(ctx context.Context, id string) (*model.Workspace, error)
	GetByInviteCode(ctx context.Context, code string) (*model.Workspace, error)
	// ListByUser returns every workspace the user is a member of.
	ListByUser(ctx context.Context, userID string) ([]model.Workspace, error)
	Update(ctx context.Context, workspace *model.Workspace) error
	Delete(ctx context.Context, id string) error
}

type RoleRepository interface {
	GetByName(ctx context.Context, name rbac.Role) (*model.Role, error)
}

type MemberRepository interface {
	// Create inserts the member. Returns a conflict error if the user is
	// already a member of the workspace.
	Create(ctx context.Context, member *model.Member) error
	// GetByUserAndWorkspace resolves the unique membership record for the
	// pair, with RoleName populated in a single joined query.
	GetByUserAndWorkspace(ctx context.Context, userID, workspaceID string) (*model.Member, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]model.Member, error)
	// UpdateRole is workspace-scoped: a member id from another workspace
	// is reported as not found.
	UpdateRole(ctx context.Context, workspaceID, memberID, roleID string) error
	CountByWorkspace(ctx context.Context, workspaceID string) (int, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	// GetByID is workspace-scoped: a project id from another workspace is
	// reported as not found.
	GetByID(ctx context.Context, workspaceID, id string) (*model.Project, error)
	ListByWorkspace(ctx context.Context, workspaceID string, opts ListOptions) ([]model.Project, error)
	CountByWorkspace(ctx context.Context, workspaceID string) (int, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, workspaceID, id string) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, workspaceID, id string) (*model.Task, error)
	ListByProject(ctx context.Context, workspaceID, projectID string, opts ListOptions) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, workspaceID, id string) error
	CountByWorkspace(ctx context.Context, workspaceID string) (int, error)
	CountByProjectAndStatus(ctx context.Context, projectID string, status model.TaskStatus) (int, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
}

// Store aggregates the entity repositories and provides multi-record
// transactions. InTx runs fn against a Store view whose writes commit or
// roll back atomically — the account bootstrap runs its five steps inside
// one InTx call so partial failure leaves zero records.
//
// Calling InTx on a Store that is already transactional joins the ongoing
// transaction instead of nesting a new one.
type Store interface {
	Users() UserRepository
	Accounts() AccountRepository
	Workspaces() WorkspaceRepository
	Roles() RoleRepository
	Members() MemberRepository
	Projects() ProjectRepository
	Tasks() TaskRepository

	InTx(ctx context.Context, fn func(Store) error) error
}
