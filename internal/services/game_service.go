package services

import (
	"context"
	"fmt"

	"lobby/internal/db"
	"lobby/internal/models"
	"lobby/internal/rng"
	"lobby/internal/slots"
	"lobby/internal/validator"

	"github.com/jmoiron/sqlx"
)

type GameService struct {
	txRunner db.TxRunner
	ledger   *LedgerService
	rng      rng.Source
	maxBet   int64
}

func NewGameService(txRunner db.TxRunner, ledger *LedgerService, src rng.Source, maxBet int64) *GameService {
	if src == nil {
		src = rng.Default
	}
	return &GameService{txRunner: txRunner, ledger: ledger, rng: src, maxBet: maxBet}
}

type SpinResult struct {
	Account      models.Account       `json:"account"`
	Symbols      slots.Reels          `json:"symbols"`
	WinAmount    int64                `json:"win_amount"`
	Multiplier   int64                `json:"multiplier"`
	Transactions []models.Transaction `json:"transactions"`
}

// The reels are drawn before the transaction so a retry cannot reroll them.
func (s *GameService) Spin(ctx context.Context, accountID string, bet int64, machineID string) (SpinResult, error) {
	if bet <= 0 || bet > slots.MaxSafeBet || (s.maxBet > 0 && bet > s.maxBet) {
		return SpinResult{}, ErrInvalidAmount
	}
	if err := validator.ValidateMachineID(machineID); err != nil {
		return SpinResult{}, ErrInvalidInput
	}
	outcome := slots.Spin(s.rng, bet)

	var postings []Posting
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		postings = postings[:0]
		debit, err := s.ledger.Apply(ctx, tx, accountID, -bet, models.KindBet, describe("Slot machine bet", machineID))
		if err != nil {
			return err
		}
		postings = append(postings, debit)
		if outcome.Win == 0 {
			return nil
		}
		credit, err := s.ledger.Apply(ctx, tx, accountID, outcome.Win, models.KindWin,
			describe(fmt.Sprintf("Slot machine win %s%s%s x%d", outcome.Reels[0], outcome.Reels[1], outcome.Reels[2], outcome.Multiplier), machineID))
		if err != nil {
			return err
		}
		postings = append(postings, credit)
		return nil
	})
	if err != nil {
		return SpinResult{}, err
	}
	s.ledger.Publish(postings[len(postings)-1])

	result := SpinResult{
		Account:    postings[len(postings)-1].Account,
		Symbols:    outcome.Reels,
		WinAmount:  outcome.Win,
		Multiplier: outcome.Multiplier,
	}
	for _, p := range postings {
		result.Transactions = append(result.Transactions, p.Transaction)
	}
	return result, nil
}

func describe(base, machineID string) string {
	if machineID == "" {
		return base
	}
	return base + " (" + machineID + ")"
}
