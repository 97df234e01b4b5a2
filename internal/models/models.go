package models

import "time"

type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindBet      Kind = "bet"
	KindWin      Kind = "win"
)

func (k Kind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdraw, KindBet, KindWin:
		return true
	}
	return false
}

func (k Kind) Credit() bool {
	return k == KindDeposit || k == KindWin
}

type Account struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Balance      int64     `db:"balance" json:"balance"`
	IsDemo       bool      `db:"is_demo" json:"is_demo"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type Transaction struct {
	ID            string    `db:"id" json:"id"`
	AccountID     string    `db:"account_id" json:"account_id"`
	Kind          Kind      `db:"kind" json:"kind"`
	Amount        int64     `db:"amount" json:"amount"`
	BalanceBefore int64     `db:"balance_before" json:"balance_before"`
	BalanceAfter  int64     `db:"balance_after" json:"balance_after"`
	Description   string    `db:"description" json:"description"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type CheckIn struct {
	ID        string    `db:"id" json:"id"`
	AccountID string    `db:"account_id" json:"account_id"`
	WeekStart time.Time `db:"week_start" json:"week_start"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	Reward    int64     `db:"reward" json:"reward"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type SpinRecord struct {
	ID        string    `db:"id" json:"id"`
	AccountID string    `db:"account_id" json:"account_id"`
	Prize     int64     `db:"prize" json:"prize"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type AuditLog struct {
	ID             string    `db:"id" json:"id"`
	ActorAccountID *string   `db:"actor_account_id" json:"actor_account_id,omitempty"`
	Action         string    `db:"action" json:"action"`
	EntityType     string    `db:"entity_type" json:"entity_type"`
	EntityID       string    `db:"entity_id" json:"entity_id"`
	Data           string    `db:"data" json:"data"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Drift struct {
	AccountID    string `db:"account_id" json:"account_id"`
	Balance      int64  `db:"balance" json:"balance"`
	LedgerSum    int64  `db:"ledger_sum" json:"ledger_sum"`
	LastBalance  *int64 `db:"last_balance_after" json:"last_balance_after,omitempty"`
	Transactions int64  `db:"transactions" json:"transactions"`
}
