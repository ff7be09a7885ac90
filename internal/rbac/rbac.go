// Package rbac holds the static role and permission tables and the role
// guard that every permission-gated operation runs through.
//
// The catalog is fixed design data versioned with the code — it is never
// stored per-record or mutated at runtime. The guard is a pure function of
// this table plus its two inputs, so every role × permission combination
// can be unit tested without I/O.
package rbac

import (
	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
)

// Permission is an atomic capability token gating one operation class.
type Permission string

const (
	CreateWorkspace         Permission = "CREATE_WORKSPACE"
	EditWorkspace           Permission = "EDIT_WORKSPACE"
	DeleteWorkspace         Permission = "DELETE_WORKSPACE"
	ManageWorkspaceSettings Permission = "MANAGE_WORKSPACE_SETTINGS"

	AddMember        Permission = "ADD_MEMBER"
	ChangeMemberRole Permission = "CHANGE_MEMBER_ROLE"
	RemoveMember     Permission = "REMOVE_MEMBER"

	CreateProject Permission = "CREATE_PROJECT"
	EditProject   Permission = "EDIT_PROJECT"
	DeleteProject Permission = "DELETE_PROJECT"

	CreateTask Permission = "CREATE_TASK"
	EditTask   Permission = "EDIT_TASK"
	DeleteTask Permission = "DELETE_TASK"

	ViewOnly Permission = "VIEW_ONLY"
)

// Role is a named bundle of permissions assignable to a workspace member.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// rolePermissions maps each role to the permissions it grants.
//
// Each set is enumerated independently — OWNER happens to be a superset of
// ADMIN, but no hierarchy is derived from that. Changing one role's set
// never affects another.
var rolePermissions = map[Role][]Permission{
	RoleOwner: {
		CreateWorkspace,
		EditWorkspace,
		DeleteWorkspace,
		ManageWorkspaceSettings,

		AddMember,
		ChangeMemberRole,
		RemoveMember,

		CreateProject,
		EditProject,
		DeleteProject,

		CreateTask,
		EditTask,
		DeleteTask,

		ViewOnly,
	},
	RoleAdmin: {
		AddMember,
		CreateProject,
		EditProject,
		DeleteProject,
		CreateTask,
		EditTask,
		DeleteTask,
		ManageWorkspaceSettings,
		ViewOnly,
	},
	RoleMember: {
		ViewOnly,
		CreateTask,
		EditTask,
	},
}

// permissionSets is the same table as rolePermissions with O(1) membership
// lookup, built once at init.
var permissionSets = func() map[Role]map[Permission]struct{} {
	sets := make(map[Role]map[Permission]struct{}, len(rolePermissions))
	for role, perms := range rolePermissions {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		sets[role] = set
	}
	return sets
}()

// PermissionsFor returns the permission set granted to role, in catalog
// order. It is total over the three known roles; any other value is a
// programming error and panics.
func PermissionsFor(role Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		panic("rbac: unknown role " + string(role))
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// AssertPermitted verifies that role grants every permission in required
// (AND semantics — all must be present).
//
// Unlike PermissionsFor, role here is runtime data loaded from the store,
// so an unknown role fails closed with the same AuthorizationError instead
// of panicking. An empty required list also fails closed: every gated
// operation must name at least one permission.
func AssertPermitted(role Role, required ...Permission) error {
	set, ok := permissionSets[role]
	if !ok || len(required) == 0 {
		return apperror.Forbidden("insufficient permission")
	}
	for _, p := range required {
		if _, ok := set[p]; !ok {
			return apperror.Forbidden("insufficient permission")
		}
	}
	return nil
}
