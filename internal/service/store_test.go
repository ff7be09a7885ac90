package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/auth"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"
)

// fakeStore is an in-memory repository.Store. A hand-written fake (not a
// mock framework) keeps the tests readable: every behaviour, including
// the unique-constraint conflicts the services rely on, is visible right
// here.
//
// InTx snapshots all maps before running fn and restores them if fn
// fails, mimicking a real rollback.
type fakeStore struct {
	users      map[string]*model.User    // by ID
	accounts   map[string]*model.Account // by provider|providerID
	workspaces map[string]*model.Workspace
	roles      map[string]*model.Role // by ID
	members    map[string]*model.Member
	projects   map[string]*model.Project
	tasks      map[string]*model.Task
	nextID     int

	// emailMisses makes the next N GetByEmail calls report not-found even
	// when the user exists. Simulates a concurrent bootstrap committing
	// between a service's lookup and its insert.
	emailMisses int
}

func newFakeStore() *fakeStore {
	f := &fakeStore{
		users:      make(map[string]*model.User),
		accounts:   make(map[string]*model.Account),
		workspaces: make(map[string]*model.Workspace),
		roles:      make(map[string]*model.Role),
		members:    make(map[string]*model.Member),
		projects:   make(map[string]*model.Project),
		tasks:      make(map[string]*model.Task),
	}
	// Same catalog the SQLite layer seeds during migration.
	for _, name := range []rbac.Role{rbac.RoleOwner, rbac.RoleAdmin, rbac.RoleMember} {
		id := f.genID()
		f.roles[id] = &model.Role{ID: id, Name: name}
	}
	return f
}

func (f *fakeStore) genID() string {
	f.nextID++
	return fmt.Sprintf("id-%04d", f.nextID)
}

// deleteRole removes a seeded role to simulate missing seed data.
func (f *fakeStore) deleteRole(name rbac.Role) {
	for id, r := range f.roles {
		if r.Name == name {
			delete(f.roles, id)
		}
	}
}

func (f *fakeStore) Users() repository.UserRepository           { return fakeUsers{f} }
func (f *fakeStore) Accounts() repository.AccountRepository     { return fakeAccounts{f} }
func (f *fakeStore) Workspaces() repository.WorkspaceRepository { return fakeWorkspaces{f} }
func (f *fakeStore) Roles() repository.RoleRepository           { return fakeRoles{f} }
func (f *fakeStore) Members() repository.MemberRepository       { return fakeMembers{f} }
func (f *fakeStore) Projects() repository.ProjectRepository     { return fakeProjects{f} }
func (f *fakeStore) Tasks() repository.TaskRepository           { return fakeTasks{f} }

func copyRecords[V any](m map[string]*V) map[string]*V {
	out := make(map[string]*V, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

func (f *fakeStore) InTx(_ context.Context, fn func(repository.Store) error) error {
	users := copyRecords(f.users)
	accounts := copyRecords(f.accounts)
	workspaces := copyRecords(f.workspaces)
	roles := copyRecords(f.roles)
	members := copyRecords(f.members)
	projects := copyRecords(f.projects)
	tasks := copyRecords(f.tasks)

	if err := fn(f); err != nil {
		f.users = users
		f.accounts = accounts
		f.workspaces = workspaces
		f.roles = roles
		f.members = members
		f.projects = projects
		f.tasks = tasks
		return err
	}
	return nil
}

// ---- users ----

type fakeUsers struct{ f *fakeStore }

func (r fakeUsers) Create(_ context.Context, user *model.User) error {
	for _, u := range r.f.users {
		if u.Email == user.Email {
			return apperror.Conflict("email already exists")
		}
	}
	user.ID = r.f.genID()
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	r.f.users[user.ID] = &cp
	return nil
}

func (r fakeUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := r.f.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (r fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if r.f.emailMisses > 0 {
		r.f.emailMisses--
		return nil, apperror.NotFound("user not found")
	}
	for _, u := range r.f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (r fakeUsers) Update(_ context.Context, user *model.User) error {
	if _, ok := r.f.users[user.ID]; !ok {
		return apperror.NotFound("user not found")
	}
	cp := *user
	r.f.users[user.ID] = &cp
	return nil
}

// ---- accounts ----

type fakeAccounts struct{ f *fakeStore }

func accountKey(provider model.Provider, providerID string) string {
	return string(provider) + "|" + providerID
}

func (r fakeAccounts) Create(_ context.Context, account *model.Account) error {
	key := accountKey(account.Provider, account.ProviderID)
	if _, ok := r.f.accounts[key]; ok {
		return apperror.Conflict("account already exists")
	}
	account.ID = r.f.genID()
	account.CreatedAt = time.Now().UTC()
	cp := *account
	r.f.accounts[key] = &cp
	return nil
}

func (r fakeAccounts) GetByProvider(_ context.Context, provider model.Provider, providerID string) (*model.Account, error) {
	a, ok := r.f.accounts[accountKey(provider, providerID)]
	if !ok {
		return nil, apperror.NotFound("account not found")
	}
	cp := *a
	return &cp, nil
}

// ---- workspaces ----

type fakeWorkspaces struct{ f *fakeStore }

func (r fakeWorkspaces) Create(_ context.Context, workspace *model.Workspace) error {
	workspace.ID = r.f.genID()
	workspace.InviteCode = "invite-" + workspace.ID
	now := time.Now().UTC()
	workspace.CreatedAt, workspace.UpdatedAt = now, now
	cp := *workspace
	r.f.workspaces[workspace.ID] = &cp
	return nil
}

func (r fakeWorkspaces) GetByID(_ context.Context, id string) (*model.Workspace, error) {
	w, ok := r.f.workspaces[id]
	if !ok {
		return nil, apperror.NotFound("workspace not found")
	}
	cp := *w
	return &cp, nil
}

func (r fakeWorkspaces) GetByInviteCode(_ context.Context, code string) (*model.Workspace, error) {
	for _, w := range r.f.workspaces {
		if w.InviteCode == code {
			cp := *w
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("workspace not found")
}

func (r fakeWorkspaces) ListByUser(_ context.Context, userID string) ([]model.Workspace, error) {
	var out []model.Workspace
	for _, m := range r.f.members {
		if m.UserID == userID {
			if w, ok := r.f.workspaces[m.WorkspaceID]; ok {
				out = append(out, *w)
			}
		}
	}
	return out, nil
}

func (r fakeWorkspaces) Update(_ context.Context, workspace *model.Workspace) error {
	if _, ok := r.f.workspaces[workspace.ID]; !ok {
		return apperror.NotFound("workspace not found")
	}
	cp := *workspace
	r.f.workspaces[workspace.ID] = &cp
	return nil
}

func (r fakeWorkspaces) Delete(_ context.Context, id string) error {
	if _, ok := r.f.workspaces[id]; !ok {
		return apperror.NotFound("workspace not found")
	}
	delete(r.f.workspaces, id)
	for mid, m := range r.f.members {
		if m.WorkspaceID == id {
			delete(r.f.members, mid)
		}
	}
	for pid, p := range r.f.projects {
		if p.WorkspaceID == id {
			delete(r.f.projects, pid)
		}
	}
	for tid, t := range r.f.tasks {
		if t.WorkspaceID == id {
			delete(r.f.tasks, tid)
		}
	}
	return nil
}

// ---- roles ----

type fakeRoles struct{ f *fakeStore }

func (r fakeRoles) GetByName(_ context.Context, name rbac.Role) (*model.Role, error) {
	for _, role := range r.f.roles {
		if role.Name == name {
			cp := *role
			return &cp, nil
		}
	}
	return nil, apperror.NotFound(fmt.Sprintf("%s role not found", name))
}

// ---- members ----

type fakeMembers struct{ f *fakeStore }

func (r fakeMembers) Create(_ context.Context, member *model.Member) error {
	for _, m := range r.f.members {
		if m.UserID == member.UserID && m.WorkspaceID == member.WorkspaceID {
			return apperror.Conflict("user is already a member of this workspace")
		}
	}
	member.ID = r.f.genID()
	cp := *member
	r.f.members[member.ID] = &cp
	return nil
}

func (r fakeMembers) GetByUserAndWorkspace(_ context.Context, userID, workspaceID string) (*model.Member, error) {
	for _, m := range r.f.members {
		if m.UserID == userID && m.WorkspaceID == workspaceID {
			cp := *m
			if role, ok := r.f.roles[m.RoleID]; ok {
				cp.RoleName = role.Name
			}
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("member not found")
}

func (r fakeMembers) ListByWorkspace(_ context.Context, workspaceID string) ([]model.Member, error) {
	var out []model.Member
	for _, m := range r.f.members {
		if m.WorkspaceID == workspaceID {
			cp := *m
			if role, ok := r.f.roles[m.RoleID]; ok {
				cp.RoleName = role.Name
			}
			if u, ok := r.f.users[m.UserID]; ok {
				cp.UserName, cp.UserEmail = u.Name, u.Email
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r fakeMembers) UpdateRole(_ context.Context, workspaceID, memberID, roleID string) error {
	m, ok := r.f.members[memberID]
	if !ok || m.WorkspaceID != workspaceID {
		return apperror.NotFound("member not found")
	}
	m.RoleID = roleID
	return nil
}

func (r fakeMembers) CountByWorkspace(_ context.Context, workspaceID string) (int, error) {
	n := 0
	for _, m := range r.f.members {
		if m.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

// ---- projects ----

type fakeProjects struct{ f *fakeStore }

func (r fakeProjects) Create(_ context.Context, project *model.Project) error {
	project.ID = r.f.genID()
	now := time.Now().UTC()
	project.CreatedAt, project.UpdatedAt = now, now
	cp := *project
	r.f.projects[project.ID] = &cp
	return nil
}

func (r fakeProjects) GetByID(_ context.Context, workspaceID, id string) (*model.Project, error) {
	p, ok := r.f.projects[id]
	if !ok || p.WorkspaceID != workspaceID {
		return nil, apperror.NotFound("project not found")
	}
	cp := *p
	return &cp, nil
}

func (r fakeProjects) ListByWorkspace(_ context.Context, workspaceID string, _ repository.ListOptions) ([]model.Project, error) {
	var out []model.Project
	for _, p := range r.f.projects {
		if p.WorkspaceID == workspaceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r fakeProjects) CountByWorkspace(_ context.Context, workspaceID string) (int, error) {
	n := 0
	for _, p := range r.f.projects {
		if p.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

func (r fakeProjects) Update(_ context.Context, project *model.Project) error {
	p, ok := r.f.projects[project.ID]
	if !ok || p.WorkspaceID != project.WorkspaceID {
		return apperror.NotFound("project not found")
	}
	cp := *project
	r.f.projects[project.ID] = &cp
	return nil
}

func (r fakeProjects) Delete(_ context.Context, workspaceID, id string) error {
	p, ok := r.f.projects[id]
	if !ok || p.WorkspaceID != workspaceID {
		return apperror.NotFound("project not found")
	}
	delete(r.f.projects, id)
	for tid, t := range r.f.tasks {
		if t.ProjectID == id {
			delete(r.f.tasks, tid)
		}
	}
	return nil
}

// ---- tasks ----

type fakeTasks struct{ f *fakeStore }

func (r fakeTasks) Create(_ context.Context, task *model.Task) error {
	task.ID = r.f.genID()
	task.TaskCode = "task-" + task.ID
	now := time.Now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now
	cp := *task
	r.f.tasks[task.ID] = &cp
	return nil
}

func (r fakeTasks) GetByID(_ context.Context, workspaceID, id string) (*model.Task, error) {
	t, ok := r.f.tasks[id]
	if !ok || t.WorkspaceID != workspaceID {
		return nil, apperror.NotFound("task not found")
	}
	cp := *t
	return &cp, nil
}

func (r fakeTasks) ListByProject(_ context.Context, workspaceID, projectID string, _ repository.ListOptions) ([]model.Task, error) {
	var out []model.Task
	for _, t := range r.f.tasks {
		if t.WorkspaceID == workspaceID && t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r fakeTasks) Update(_ context.Context, task *model.Task) error {
	t, ok := r.f.tasks[task.ID]
	if !ok || t.WorkspaceID != task.WorkspaceID {
		return apperror.NotFound("task not found")
	}
	cp := *task
	r.f.tasks[task.ID] = &cp
	return nil
}

func (r fakeTasks) Delete(_ context.Context, workspaceID, id string) error {
	t, ok := r.f.tasks[id]
	if !ok || t.WorkspaceID != workspaceID {
		return apperror.NotFound("task not found")
	}
	delete(r.f.tasks, id)
	return nil
}

func (r fakeTasks) CountByWorkspace(_ context.Context, workspaceID string) (int, error) {
	n := 0
	for _, t := range r.f.tasks {
		if t.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

func (r fakeTasks) CountByProjectAndStatus(_ context.Context, projectID string, status model.TaskStatus) (int, error) {
	n := 0
	for _, t := range r.f.tasks {
		if t.ProjectID == projectID && t.Status == status {
			n++
		}
	}
	return n, nil
}

func (r fakeTasks) CountByProject(_ context.Context, projectID string) (int, error) {
	n := 0
	for _, t := range r.f.tasks {
		if t.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

// ---- shared helpers ----

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestAuthService wires an AuthService against the fake store with a
// fast bcrypt cost.
func newTestAuthService(store *fakeStore) *AuthService {
	return NewAuthService(store, auth.NewPasswordServiceForTest(4), testLogger())
}

// registerTestUser registers a user and fails the test on error.
func registerTestUser(t *testing.T, svc *AuthService, email, name string) *RegisterResult {
	t.Helper()
	result, err := svc.RegisterWithPassword(context.Background(), email, name, "password123")
	if err != nil {
		t.Fatalf("RegisterWithPassword(%s) error = %v", email, err)
	}
	return result
}
