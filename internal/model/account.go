package model

import "time"

// Provider identifies the external identity source an Account came from.
type Provider string

const (
	ProviderEmail    Provider = "EMAIL"
	ProviderGoogle   Provider = "GOOGLE"
	ProviderGitHub   Provider = "GITHUB"
	ProviderFacebook Provider = "FACEBOOK"
)

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderEmail, ProviderGoogle, ProviderGitHub, ProviderFacebook:
		return true
	}
	return false
}

// Account links a User to an identity provider. ProviderID is the email
// address for the EMAIL provider and the provider's subject id otherwise.
//
// At most one Account exists per (provider, providerID) pair; a User may
// hold several Accounts across providers, though bootstrap creates exactly
// one.
type Account struct {
	ID         string    `json:"id"         db:"id"`
	UserID     string    `json:"userId"     db:"user_id"`
	Provider   Provider  `json:"provider"   db:"provider"`
	ProviderID string    `json:"providerId" db:"provider_id"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
}
