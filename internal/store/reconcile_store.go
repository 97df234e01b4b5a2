package store

import (
	"context"

	"lobby/internal/models"
)

type ReconcileStore struct {
	db DB
}

func NewReconcileStore(db DB) *ReconcileStore {
	return &ReconcileStore{db: db}
}

const driftSelect = `
	SELECT a.id AS account_id,
	       a.balance,
	       COALESCE(SUM(t.amount), 0) AS ledger_sum,
	       (SELECT balance_after FROM transactions lt WHERE lt.account_id = a.id ORDER BY lt.seq DESC LIMIT 1) AS last_balance_after,
	       COUNT(t.id) AS transactions
	FROM accounts a
	LEFT JOIN transactions t ON t.account_id = a.id
`

func (s *ReconcileStore) ListDrift(ctx context.Context) ([]models.Drift, error) {
	rows := []models.Drift{}
	err := s.db.SelectContext(ctx, &rows, driftSelect+`
		GROUP BY a.id, a.balance
		HAVING a.balance <> COALESCE(SUM(t.amount), 0)
		ORDER BY a.id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *ReconcileStore) ForAccount(ctx context.Context, accountID string) (models.Drift, error) {
	var row models.Drift
	err := s.db.GetContext(ctx, &row, driftSelect+`
		WHERE a.id = $1
		GROUP BY a.id, a.balance
	`, accountID)
	if err != nil {
		return models.Drift{}, err
	}
	return row, nil
}
