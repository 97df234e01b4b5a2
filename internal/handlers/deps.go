package handlers

import (
	"context"
	"time"

	"lobby/internal/bonus"
	"lobby/internal/models"
	"lobby/internal/services"
	"lobby/internal/stats"
)

type AccountService interface {
	Register(ctx context.Context, username, password string, meta services.RequestMeta) (models.Account, error)
	Login(ctx context.Context, username, password string, meta services.RequestMeta) (models.Account, error)
	CreateDemo(ctx context.Context, meta services.RequestMeta) (models.Account, error)
	CurrentUser(ctx context.Context, accountID string) (models.Account, error)
	UpgradeDemo(ctx context.Context, accountID, username, password string, meta services.RequestMeta) (models.Account, error)
	Activity(ctx context.Context, accountID string, limit int) ([]models.AuditLog, error)
}

type LedgerService interface {
	Deposit(ctx context.Context, accountID string, amount int64) (services.Posting, error)
	Withdraw(ctx context.Context, accountID string, amount int64) (services.Posting, error)
	History(ctx context.Context, accountID string, kind models.Kind, page, limit int) (services.HistoryPage, error)
	Stats(ctx context.Context, accountID string) (stats.Summary, error)
	SelfCheck(ctx context.Context, accountID string) (services.SelfCheck, error)
}

type GameService interface {
	Spin(ctx context.Context, accountID string, bet int64, machineID string) (services.SpinResult, error)
}

type BonusService interface {
	CheckInStatus(ctx context.Context, accountID string, now time.Time) (services.CheckInStatus, error)
	ClaimCheckIn(ctx context.Context, accountID string, now time.Time) (services.CheckInResult, error)
	WheelStatus(ctx context.Context, accountID string, now time.Time) (bonus.WheelState, error)
	SpinWheel(ctx context.Context, accountID string, now time.Time) (services.WheelResult, error)
	WheelPrizes() []int64
}
