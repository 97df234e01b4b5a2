package store

import (
	"context"

	"lobby/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

const transactionColumns = `id, account_id, kind, amount, balance_before, balance_after, description, created_at`

func (s *TransactionStore) Create(ctx context.Context, tx Execer, row models.Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, account_id, kind, amount, balance_before, balance_after, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, row.ID, row.AccountID, string(row.Kind), row.Amount, row.BalanceBefore, row.BalanceAfter, row.Description, row.CreatedAt)
	return err
}

func (s *TransactionStore) ListByAccount(ctx context.Context, accountID string, kind models.Kind, limit, offset int) ([]models.Transaction, error) {
	rows := []models.Transaction{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1 AND ($2 = '' OR kind = $2)
		ORDER BY seq DESC
		LIMIT $3 OFFSET $4
	`, accountID, string(kind), limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) CountByAccount(ctx context.Context, accountID string, kind models.Kind) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total, `
		SELECT COUNT(*)
		FROM transactions
		WHERE account_id = $1 AND ($2 = '' OR kind = $2)
	`, accountID, string(kind))
	return total, err
}

func (s *TransactionStore) ListGameplay(ctx context.Context, accountID string) ([]models.Transaction, error) {
	rows := []models.Transaction{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = $1 AND kind IN ('bet', 'win')
		ORDER BY seq ASC
	`, accountID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
