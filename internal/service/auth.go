// Package service contains the business logic layer.
//
// Services accept primitives and return domain models or typed errors
// from internal/apperror — they know nothing about HTTP. Handlers sit
// above them, repositories below:
//
//	Handler (HTTP) → Service (rules, permissions) → repository.Store (DB)
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/auth"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/rbac"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"
)

// defaultWorkspaceName is the name of the workspace created for every new
// user during bootstrap.
const defaultWorkspaceName = "My Workspace"

// AuthService owns registration, login, and the account bootstrap that
// gives every new user an owned workspace.
type AuthService struct {
	store     repository.Store
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(store repository.Store, passwords *auth.PasswordService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterResult is returned by RegisterWithPassword.
type RegisterResult struct {
	UserID      string
	WorkspaceID string
}

// RegisterWithPassword creates a user from email/password credentials and
// runs the account bootstrap. Fails with a conflict error when a user
// with the email already exists — whether found by the pre-check or by
// losing a race on the unique email index inside the transaction.
func (s *AuthService) RegisterWithPassword(ctx context.Context, email, name, password string) (*RegisterResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len(password) < 8 {
		return nil, apperror.ValidationFailed("password", "password must be at least 8 characters")
	}

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("email already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user, workspace, err := s.bootstrap(ctx, bootstrapInput{
		email:        email,
		name:         name,
		passwordHash: hash,
		provider:     model.ProviderEmail,
		providerID:   email,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Concurrent registration with the same email committed first.
			return nil, apperror.Conflict("email already exists")
		}
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("workspaceID", workspace.ID),
	)

	return &RegisterResult{UserID: user.ID, WorkspaceID: workspace.ID}, nil
}

// LoginOrRegisterWithProvider handles an OAuth login. An existing user is
// returned as-is — repeat logins never re-bootstrap or create duplicate
// accounts and workspaces. A first-time identity runs the same bootstrap
// as password registration, keyed on the provider's subject id instead of
// a password.
//
// Two simultaneous first-time logins by the same identity race on the
// unique email index; the loser's conflict is read as "someone else
// already bootstrapped this user" and answered by retrying the lookup.
func (s *AuthService) LoginOrRegisterWithProvider(ctx context.Context, provider model.Provider, providerID, name, email, picture string) (*model.User, error) {
	if !provider.Valid() || provider == model.ProviderEmail {
		return nil, apperror.ValidationFailed("provider", "unknown identity provider")
	}
	if providerID == "" {
		return nil, apperror.ValidationFailed("providerId", "provider id is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if name == "" {
		name = email
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err == nil {
		return user.OmitPassword(), nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	user, workspace, err := s.bootstrap(ctx, bootstrapInput{
		email:      email,
		name:       name,
		picture:    picture,
		provider:   provider,
		providerID: providerID,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return s.retryLookup(ctx, email)
		}
		return nil, err
	}

	s.logger.Info("user registered via provider",
		slog.String("userID", user.ID),
		slog.String("provider", string(provider)),
		slog.String("workspaceID", workspace.ID),
	)

	return user.OmitPassword(), nil
}

// retryLookup re-reads the user after a lost bootstrap race.
func (s *AuthService) retryLookup(ctx context.Context, email string) (*model.User, error) {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: re-reading user after bootstrap conflict: %w", err)
	}
	return user.OmitPassword(), nil
}

// bootstrapInput carries the identity a new user is created from.
// passwordHash is set for EMAIL registration and empty for OAuth.
type bootstrapInput struct {
	email        string
	name         string
	passwordHash string
	picture      string
	provider     model.Provider
	providerID   string
}

// bootstrap runs the five-step account creation inside one transaction:
//
//	1. User
//	2. Account linking the user to (provider, providerID)
//	3. Workspace "My Workspace" owned by the user
//	4. OWNER role lookup — missing seed data aborts the whole chain
//	5. Member with the OWNER role, then User.currentWorkspace = workspace
//
// Each step references the id produced by the one before it. A failure at
// any step rolls the transaction back, so no orphaned records survive —
// in particular, a Member is never persisted without a resolved role.
func (s *AuthService) bootstrap(ctx context.Context, in bootstrapInput) (*model.User, *model.Workspace, error) {
	var (
		user      *model.User
		workspace *model.Workspace
	)

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		user = &model.User{
			Email:          in.email,
			Name:           in.name,
			PasswordHash:   in.passwordHash,
			ProfilePicture: in.picture,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		account := &model.Account{
			UserID:     user.ID,
			Provider:   in.provider,
			ProviderID: in.providerID,
		}
		if err := tx.Accounts().Create(ctx, account); err != nil {
			return err
		}

		workspace = &model.Workspace{
			Name:        defaultWorkspaceName,
			Description: fmt.Sprintf("Workspace created for %s", user.Name),
			OwnerID:     user.ID,
		}
		if err := tx.Workspaces().Create(ctx, workspace); err != nil {
			return err
		}

		// Role data is static reference data; looking it up here instead
		// of caching it at startup keeps bootstrap free of process-wide
		// state. An unseeded catalog is a deployment defect, not a user
		// error.
		ownerRole, err := tx.Roles().GetByName(ctx, rbac.RoleOwner)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return apperror.Internal(err, "owner role not found")
			}
			return err
		}

		member := &model.Member{
			UserID:      user.ID,
			WorkspaceID: workspace.ID,
			RoleID:      ownerRole.ID,
			RoleName:    ownerRole.Name,
			JoinedAt:    time.Now().UTC(),
		}
		if err := tx.Members().Create(ctx, member); err != nil {
			return err
		}

		user.CurrentWorkspaceID = workspace.ID
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, nil, err
	}
	return user, workspace, nil
}

// VerifyCredentials checks an email/password pair and returns the user
// with the password digest stripped.
//
// The three failure modes stay distinct internally — no account
// (ErrNotFound), dangling account without its user (ErrNotFound), and
// password mismatch (ErrUnauthorized) — but the HTTP layer renders all of
// them as the same generic "Invalid email or password" so responses don't
// reveal which emails are registered.
func (s *AuthService) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.store.Accounts().GetByProvider(ctx, model.ProviderEmail, email)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, account.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Data-integrity anomaly: the account row outlived its user.
			return nil, apperror.NotFound("user not found for the given account")
		}
		return nil, err
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, err
	}

	return user.OmitPassword(), nil
}

// GetCurrentUser returns the user for an authenticated request, without
// the password digest.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("authentication required")
	}
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.OmitPassword(), nil
}
