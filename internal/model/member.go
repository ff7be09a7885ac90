package model

import (
	"time"

	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
)

// Role is the stored role record a Member points at. The three roles are
// seeded at migration time and looked up by name, never created
// per-request. Permission sets live in internal/rbac, not in rows.
type Role struct {
	ID   string    `json:"id"   db:"id"`
	Name rbac.Role `json:"name" db:"name"`
}

// Member binds a User to a Workspace with a Role. A (UserID, WorkspaceID)
// pair maps to at most one Member — the store enforces it with a unique
// index. A user's initial Member record always carries OWNER for their
// auto-created workspace.
type Member struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"userId"      db:"user_id"`
	WorkspaceID string    `json:"workspaceId" db:"workspace_id"`
	RoleID      string    `json:"-"           db:"role_id"`
	RoleName    rbac.Role `json:"role"        db:"role_name"` // populated by joined lookups
	JoinedAt    time.Time `json:"joinedAt"    db:"joined_at"`

	// UserName and UserEmail are filled in by listing queries so callers
	// don't pay an extra lookup per member.
	UserName  string `json:"userName,omitempty"  db:"user_name"`
	UserEmail string `json:"userEmail,omitempty" db:"user_email"`
}
