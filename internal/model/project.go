package model

import "time"

// Project groups tasks within a workspace.
type Project struct {
	ID          string    `json:"id"          db:"id"`
	WorkspaceID string    `json:"workspaceId" db:"workspace_id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	Emoji       string    `json:"emoji"       db:"emoji"`
	CreatedBy   string    `json:"createdBy"   db:"created_by"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}
