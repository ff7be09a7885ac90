package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
)

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Email: "alice@example.com", Name: "Alice"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice@example.com", "Alice")

	err := db.Users().Create(context.Background(), &model.User{Email: "alice@example.com", Name: "Impostor"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate Create() error = %v, want ErrConflict", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice@example.com", "Alice")

	user, err := db.Users().GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("GetByEmail() id = %q, want %q", user.ID, created.ID)
	}

	if _, err := db.Users().GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown email error = %v, want ErrNotFound", err)
	}
}

func TestUserUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice@example.com", "Alice")
	workspace := createTestWorkspace(t, db, user.ID, "My Workspace")

	user.Name = "Alice B."
	user.CurrentWorkspaceID = workspace.ID
	if err := db.Users().Update(context.Background(), user); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := db.Users().GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Alice B." {
		t.Errorf("Name = %q, want %q", got.Name, "Alice B.")
	}
	if got.CurrentWorkspaceID != workspace.ID {
		t.Errorf("CurrentWorkspaceID = %q, want %q", got.CurrentWorkspaceID, workspace.ID)
	}
}

func TestUserUpdateMissing(t *testing.T) {
	db := newTestDB(t)

	err := db.Users().Update(context.Background(), &model.User{ID: "no-such-user", Name: "Ghost"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() on missing user error = %v, want ErrNotFound", err)
	}
}

func TestAccountUniquePerProviderIdentity(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com", "Alice")
	bob := createTestUser(t, db, "bob@example.com", "Bob")

	first := &model.Account{UserID: alice.ID, Provider: model.ProviderGoogle, ProviderID: "sub-1"}
	if err := db.Accounts().Create(context.Background(), first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Same (provider, provider_id) pair — even for another user.
	dup := &model.Account{UserID: bob.ID, Provider: model.ProviderGoogle, ProviderID: "sub-1"}
	if err := db.Accounts().Create(context.Background(), dup); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate identity Create() error = %v, want ErrConflict", err)
	}

	// Same subject id under a different provider is a distinct identity.
	other := &model.Account{UserID: bob.ID, Provider: model.ProviderGitHub, ProviderID: "sub-1"}
	if err := db.Accounts().Create(context.Background(), other); err != nil {
		t.Errorf("cross-provider Create() error = %v", err)
	}
}

func TestAccountGetByProvider(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com", "Alice")

	account := &model.Account{UserID: alice.ID, Provider: model.ProviderEmail, ProviderID: "alice@example.com"}
	if err := db.Accounts().Create(context.Background(), account); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := db.Accounts().GetByProvider(context.Background(), model.ProviderEmail, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByProvider() error = %v", err)
	}
	if got.UserID != alice.ID {
		t.Errorf("UserID = %q, want %q", got.UserID, alice.ID)
	}

	if _, err := db.Accounts().GetByProvider(context.Background(), model.ProviderGoogle, "alice@example.com"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown identity error = %v, want ErrNotFound", err)
	}
}
