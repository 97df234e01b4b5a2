package services

import (
	"context"
	"fmt"
	"time"

	"lobby/internal/bonus"
	"lobby/internal/db"
	"lobby/internal/models"
	"lobby/internal/rng"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BonusService struct {
	txRunner db.TxRunner
	ledger   *LedgerService
	checkins CheckInStore
	spins    SpinStore
	loc      *time.Location
	cooldown time.Duration
	rng      rng.Source
}

func NewBonusService(txRunner db.TxRunner, ledger *LedgerService, checkins CheckInStore, spins SpinStore, loc *time.Location, cooldown time.Duration, src rng.Source) *BonusService {
	if loc == nil {
		loc = time.UTC
	}
	if src == nil {
		src = rng.Default
	}
	return &BonusService{
		txRunner: txRunner,
		ledger:   ledger,
		checkins: checkins,
		spins:    spins,
		loc:      loc,
		cooldown: cooldown,
		rng:      src,
	}
}

type CheckInStatus struct {
	ClaimedDays   []int    `json:"claimed_days"`
	CurrentDay    int      `json:"current_day"`
	WeekStartDate string   `json:"week_start_date"`
	Rewards       [7]int64 `json:"rewards"`
}

func (s *BonusService) CheckInStatus(ctx context.Context, accountID string, now time.Time) (CheckInStatus, error) {
	weekStart := bonus.WeekStart(now, s.loc)
	days, err := s.checkins.ClaimedDays(ctx, accountID, weekStart)
	if err != nil {
		return CheckInStatus{}, fmt.Errorf("claimed days: %w", err)
	}
	return CheckInStatus{
		ClaimedDays:   days,
		CurrentDay:    int(bonus.CurrentDay(now, s.loc)),
		WeekStartDate: weekStart.Format("2006-01-02"),
		Rewards:       bonus.DailyRewards(),
	}, nil
}

type CheckInResult struct {
	Account models.Account `json:"account"`
	CheckIn models.CheckIn `json:"check_in"`
	Reward  int64          `json:"reward"`
}

func (s *BonusService) ClaimCheckIn(ctx context.Context, accountID string, now time.Time) (CheckInResult, error) {
	day := bonus.CurrentDay(now, s.loc)
	checkIn := models.CheckIn{
		AccountID: accountID,
		WeekStart: bonus.WeekStart(now, s.loc),
		DayOfWeek: int(day),
		Reward:    bonus.Reward(day),
		CreatedAt: now.UTC(),
	}
	var posting Posting
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.ledger.lock(ctx, tx, accountID); err != nil {
			return err
		}
		checkIn.ID = uuid.NewString()
		inserted, err := s.checkins.Claim(ctx, tx, checkIn)
		if err != nil {
			return fmt.Errorf("claim check-in: %w", err)
		}
		if !inserted {
			return ErrAlreadyClaimed
		}
		posting, err = s.ledger.Apply(ctx, tx, accountID, checkIn.Reward, models.KindDeposit, bonus.CheckInDescription(day))
		return err
	})
	if err != nil {
		return CheckInResult{}, err
	}
	s.ledger.Publish(posting)
	return CheckInResult{Account: posting.Account, CheckIn: checkIn, Reward: checkIn.Reward}, nil
}

func (s *BonusService) WheelStatus(ctx context.Context, accountID string, now time.Time) (bonus.WheelState, error) {
	last, err := s.spins.Latest(ctx, accountID)
	if err != nil {
		return bonus.WheelState{}, fmt.Errorf("latest spin: %w", err)
	}
	return bonus.Wheel(spinTime(last), now, s.cooldown), nil
}

type WheelResult struct {
	Account models.Account    `json:"account"`
	Prize   int64             `json:"prize"`
	Spin    models.SpinRecord `json:"spin"`
}

// The cooldown is re-checked under the account lock. The prize is drawn
// before the transaction so a retry cannot redraw it.
func (s *BonusService) SpinWheel(ctx context.Context, accountID string, now time.Time) (WheelResult, error) {
	spin := models.SpinRecord{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Prize:     bonus.DrawPrize(s.rng),
		CreatedAt: now.UTC(),
	}
	var posting Posting
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.ledger.lock(ctx, tx, accountID); err != nil {
			return err
		}
		last, err := s.spins.LatestTx(ctx, tx, accountID)
		if err != nil {
			return fmt.Errorf("latest spin: %w", err)
		}
		if !bonus.Wheel(spinTime(last), now, s.cooldown).CanSpin {
			return ErrCooldownActive
		}
		if err := s.spins.Create(ctx, tx, spin); err != nil {
			return fmt.Errorf("insert spin: %w", err)
		}
		posting, err = s.ledger.Apply(ctx, tx, accountID, spin.Prize, models.KindDeposit, "Prize wheel")
		return err
	})
	if err != nil {
		return WheelResult{}, err
	}
	s.ledger.Publish(posting)
	return WheelResult{Account: posting.Account, Prize: spin.Prize, Spin: spin}, nil
}

func (s *BonusService) WheelPrizes() []int64 {
	return bonus.WheelPrizes()
}

func spinTime(spin *models.SpinRecord) *time.Time {
	if spin == nil {
		return nil
	}
	at := spin.CreatedAt
	return &at
}
