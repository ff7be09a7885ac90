package model

import "time"

// Workspace is a named container for projects and tasks, owned by exactly
// one user. InviteCode is a unique, unguessable code other users present
// to join the workspace as MEMBER.
type Workspace struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	OwnerID     string    `json:"owner"       db:"owner_id"`
	InviteCode  string    `json:"inviteCode"  db:"invite_code"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
