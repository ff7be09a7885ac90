package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/DhruvGajera9022/Project-Management-App/internal/apperror"
	"github.com/DhruvGajera9022/Project-Management-App/internal/model"
	"github.com/DhruvGajera9022/Project-Management-App/internal/repository"
)

// AccountStore implements repository.AccountRepository.
type AccountStore struct {
	q queryer
}

var _ repository.AccountRepository = (*AccountStore)(nil)

// Create inserts the account. The UNIQUE index on (provider, provider_id)
// guarantees at most one account per provider identity.
func (s *AccountStore) Create(ctx context.Context, account *model.Account) error {
	account.ID = xid.New().String()
	account.CreatedAt = time.Now().UTC()

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, provider, provider_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		account.ID,
		account.UserID,
		string(account.Provider),
		account.ProviderID,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("account already exists")
		}
		return fmt.Errorf("sqlite: inserting account (provider=%s): %w", account.Provider, err)
	}
	return nil
}

func (s *AccountStore) GetByProvider(ctx context.Context, provider model.Provider, providerID string) (*model.Account, error) {
	var a model.Account
	err := s.q.QueryRowContext(ctx,
		`SELECT id, user_id, provider, provider_id, created_at
		 FROM accounts WHERE provider = ? AND provider_id = ?`,
		string(provider), providerID,
	).Scan(
		&a.ID,
		&a.UserID,
		&a.Provider,
		&a.ProviderID,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("account not found")
		}
		return nil, fmt.Errorf("sqlite: getting account (provider=%s): %w", provider, err)
	}
	return &a, nil
}
