package store

import (
	"context"
	"time"

	"lobby/internal/models"
)

type CheckInStore struct {
	db DB
}

func NewCheckInStore(db DB) *CheckInStore {
	return &CheckInStore{db: db}
}

const dateLayout = "2006-01-02"

// Claim reports whether a row was inserted.
func (s *CheckInStore) Claim(ctx context.Context, tx Execer, row models.CheckIn) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO daily_checkins (id, account_id, week_start, day_of_week, reward, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (account_id, week_start, day_of_week) DO NOTHING
	`, row.ID, row.AccountID, row.WeekStart.Format(dateLayout), row.DayOfWeek, row.Reward, row.CreatedAt)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (s *CheckInStore) ClaimedDays(ctx context.Context, accountID string, weekStart time.Time) ([]int, error) {
	days := []int{}
	err := s.db.SelectContext(ctx, &days, `
		SELECT day_of_week
		FROM daily_checkins
		WHERE account_id = $1 AND week_start = $2
		ORDER BY day_of_week
	`, accountID, weekStart.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	return days, nil
}
