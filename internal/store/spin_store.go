package store

import (
	"context"
	"database/sql"
	"errors"

	"lobby/internal/models"
)

type SpinStore struct {
	db DB
}

func NewSpinStore(db DB) *SpinStore {
	return &SpinStore{db: db}
}

func (s *SpinStore) Create(ctx context.Context, tx Execer, row models.SpinRecord) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO spin_records (id, account_id, prize, created_at)
		VALUES ($1, $2, $3, $4)
	`, row.ID, row.AccountID, row.Prize, row.CreatedAt)
	return err
}

func (s *SpinStore) Latest(ctx context.Context, accountID string) (*models.SpinRecord, error) {
	return latestSpin(ctx, s.db, accountID)
}

func (s *SpinStore) LatestTx(ctx context.Context, tx Getter, accountID string) (*models.SpinRecord, error) {
	return latestSpin(ctx, tx, accountID)
}

func latestSpin(ctx context.Context, q Getter, accountID string) (*models.SpinRecord, error) {
	var row models.SpinRecord
	err := q.GetContext(ctx, &row, `
		SELECT id, account_id, prize, created_at
		FROM spin_records
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
