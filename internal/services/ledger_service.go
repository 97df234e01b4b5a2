package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"lobby/internal/db"
	"lobby/internal/models"
	"lobby/internal/stats"
	"lobby/internal/store"
	"lobby/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type LedgerService struct {
	txRunner     db.TxRunner
	accounts     AccountStore
	transactions TransactionStore
	reconcile    ReconcileStore
	hub          BalancePublisher
	log          zerolog.Logger
	now          func() time.Time
}

func NewLedgerService(txRunner db.TxRunner, accounts AccountStore, transactions TransactionStore, reconcile ReconcileStore, hub BalancePublisher, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		txRunner:     txRunner,
		accounts:     accounts,
		transactions: transactions,
		reconcile:    reconcile,
		hub:          hub,
		log:          log,
		now:          time.Now,
	}
}

type Posting struct {
	Account     models.Account     `json:"account"`
	Transaction models.Transaction `json:"transaction"`
}

// Apply posts delta inside tx. Credits must be positive and debits negative.
func (s *LedgerService) Apply(ctx context.Context, tx store.Tx, accountID string, delta int64, kind models.Kind, description string) (Posting, error) {
	if err := checkSign(kind, delta); err != nil {
		return Posting{}, err
	}
	account, err := s.lock(ctx, tx, accountID)
	if err != nil {
		return Posting{}, err
	}
	before := account.Balance
	after := before + delta
	if delta > 0 && after < before {
		return Posting{}, ErrInvalidAmount
	}
	if after < 0 {
		return Posting{}, ErrInsufficientFunds
	}
	if err := s.accounts.UpdateBalance(ctx, tx, accountID, after); err != nil {
		return Posting{}, fmt.Errorf("update balance: %w", err)
	}
	row := models.Transaction{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		Kind:          kind,
		Amount:        delta,
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   description,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.transactions.Create(ctx, tx, row); err != nil {
		return Posting{}, fmt.Errorf("insert transaction: %w", err)
	}
	account.Balance = after
	return Posting{Account: account, Transaction: row}, nil
}

func (s *LedgerService) lock(ctx context.Context, tx store.Getter, accountID string) (models.Account, error) {
	account, err := s.accounts.GetForUpdate(ctx, tx, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("lock account: %w", err)
	}
	return account, nil
}

func checkSign(kind models.Kind, delta int64) error {
	if !kind.Valid() {
		return ErrInvalidInput
	}
	if delta == 0 || (kind.Credit() && delta < 0) || (!kind.Credit() && delta > 0) {
		return ErrInvalidAmount
	}
	return nil
}

func (s *LedgerService) AdjustBalance(ctx context.Context, accountID string, delta int64, kind models.Kind, description string) (Posting, error) {
	var posting Posting
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		posting, err = s.Apply(ctx, tx, accountID, delta, kind, description)
		return err
	})
	if err != nil {
		return Posting{}, err
	}
	s.Publish(posting)
	return posting, nil
}

func (s *LedgerService) Deposit(ctx context.Context, accountID string, amount int64) (Posting, error) {
	if amount <= 0 {
		return Posting{}, ErrInvalidAmount
	}
	return s.AdjustBalance(ctx, accountID, amount, models.KindDeposit, "Deposit")
}

func (s *LedgerService) Withdraw(ctx context.Context, accountID string, amount int64) (Posting, error) {
	if amount <= 0 {
		return Posting{}, ErrInvalidAmount
	}
	return s.AdjustBalance(ctx, accountID, -amount, models.KindWithdraw, "Withdrawal")
}

func (s *LedgerService) Publish(postings ...Posting) {
	for _, p := range postings {
		s.hub.Publish(websocket.BalanceUpdate{
			AccountID:     p.Account.ID,
			Balance:       p.Transaction.BalanceAfter,
			Reason:        string(p.Transaction.Kind),
			TransactionID: p.Transaction.ID,
		})
	}
}

type HistoryPage struct {
	Transactions []models.Transaction `json:"transactions"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
	Total        int64                `json:"total"`
}

func (s *LedgerService) History(ctx context.Context, accountID string, kind models.Kind, page, limit int) (HistoryPage, error) {
	if kind != "" && !kind.Valid() {
		return HistoryPage{}, ErrInvalidInput
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	if page < 0 || limit < 0 || limit > maxPageSize {
		return HistoryPage{}, ErrInvalidInput
	}
	if page > math.MaxInt/limit {
		return HistoryPage{}, ErrInvalidInput
	}
	rows, err := s.transactions.ListByAccount(ctx, accountID, kind, limit, (page-1)*limit)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("list transactions: %w", err)
	}
	total, err := s.transactions.CountByAccount(ctx, accountID, kind)
	if err != nil {
		return HistoryPage{}, fmt.Errorf("count transactions: %w", err)
	}
	return HistoryPage{Transactions: rows, Page: page, Limit: limit, Total: total}, nil
}

func (s *LedgerService) Stats(ctx context.Context, accountID string) (stats.Summary, error) {
	rows, err := s.transactions.ListGameplay(ctx, accountID)
	if err != nil {
		return stats.Summary{}, fmt.Errorf("list gameplay: %w", err)
	}
	return stats.Summarize(rows), nil
}

type SelfCheck struct {
	models.Drift
	Consistent bool `json:"consistent"`
}

func (s *LedgerService) SelfCheck(ctx context.Context, accountID string) (SelfCheck, error) {
	drift, err := s.reconcile.ForAccount(ctx, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return SelfCheck{}, ErrAccountNotFound
	}
	if err != nil {
		return SelfCheck{}, fmt.Errorf("reconcile account: %w", err)
	}
	consistent := drift.Balance == drift.LedgerSum
	if drift.LastBalance != nil && *drift.LastBalance != drift.Balance {
		consistent = false
	}
	return SelfCheck{Drift: drift, Consistent: consistent}, nil
}

func (s *LedgerService) Reconcile(ctx context.Context) ([]models.Drift, error) {
	drifts, err := s.reconcile.ListDrift(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drift: %w", err)
	}
	for _, d := range drifts {
		s.log.Error().
			Str("account_id", d.AccountID).
			Int64("balance", d.Balance).
			Int64("ledger_sum", d.LedgerSum).
			Msg("ledger drift detected")
	}
	return drifts, nil
}
