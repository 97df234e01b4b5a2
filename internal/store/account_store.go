package store

import (
	"context"
	"time"

	"lobby/internal/models"
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

const accountColumns = `id, username, password_hash, balance, is_demo, created_at, updated_at`

// Opening credit is posted through the ledger, not here.
func (s *AccountStore) Create(ctx context.Context, tx Execer, id, username, passwordHash string, isDemo bool, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, username, password_hash, balance, is_demo, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $5, $5)
	`, id, username, passwordHash, isDemo, now)
	return err
}

func (s *AccountStore) GetByID(ctx context.Context, accountID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetByUsername(ctx context.Context, username string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetForUpdate(ctx context.Context, tx Getter, accountID string) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, accountID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) UpdateBalance(ctx context.Context, tx Execer, accountID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, accountID)
	return err
}

func (s *AccountStore) UpgradeIdentity(ctx context.Context, tx Execer, accountID, username, passwordHash string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE accounts
		SET username = $1, password_hash = $2, is_demo = FALSE, updated_at = NOW()
		WHERE id = $3 AND is_demo = TRUE
	`, username, passwordHash, accountID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
