// Package model defines the data structures used throughout the application.
package model

import "time"

// User is the identity record. Exactly one User exists per distinct email;
// the UNIQUE constraint on users.email in the store enforces that even
// under concurrent registration.
//
// PasswordHash is empty for social-only accounts (OAuth login never sets
// a password) and is always stripped before a User leaves the service
// layer — see OmitPassword.
type User struct {
	ID                 string    `json:"id"                 db:"id"`
	Email              string    `json:"email"              db:"email"`
	Name               string    `json:"name"               db:"name"`
	PasswordHash       string    `json:"-"                  db:"password_hash"`
	ProfilePicture     string    `json:"profilePicture"     db:"profile_picture"`
	CurrentWorkspaceID string    `json:"currentWorkspace"   db:"current_workspace_id"` // workspace shown by default; empty until bootstrap completes
	CreatedAt          time.Time `json:"createdAt"          db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt"          db:"updated_at"`
}

// OmitPassword returns a copy of the user with the password digest removed.
// Services return this projection; the digest never crosses the service
// boundary.
func (u *User) OmitPassword() *User {
	out := *u
	out.PasswordHash = ""
	return &out
}
