package services

import (
	"context"
	"time"

	"lobby/internal/models"
	"lobby/internal/store"
	"lobby/internal/websocket"
)

type AccountStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, passwordHash string, isDemo bool, now time.Time) error
	GetByID(ctx context.Context, accountID string) (models.Account, error)
	GetByUsername(ctx context.Context, username string) (models.Account, error)
	GetForUpdate(ctx context.Context, tx store.Getter, accountID string) (models.Account, error)
	UpdateBalance(ctx context.Context, tx store.Execer, accountID string, balance int64) error
	UpgradeIdentity(ctx context.Context, tx store.Execer, accountID, username, passwordHash string) (int64, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, row models.Transaction) error
	ListByAccount(ctx context.Context, accountID string, kind models.Kind, limit, offset int) ([]models.Transaction, error)
	CountByAccount(ctx context.Context, accountID string, kind models.Kind) (int64, error)
	ListGameplay(ctx context.Context, accountID string) ([]models.Transaction, error)
}

type CheckInStore interface {
	Claim(ctx context.Context, tx store.Execer, row models.CheckIn) (bool, error)
	ClaimedDays(ctx context.Context, accountID string, weekStart time.Time) ([]int, error)
}

type SpinStore interface {
	Create(ctx context.Context, tx store.Execer, row models.SpinRecord) error
	Latest(ctx context.Context, accountID string) (*models.SpinRecord, error)
	LatestTx(ctx context.Context, tx store.Getter, accountID string) (*models.SpinRecord, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID string, data map[string]string) error
	ListByActor(ctx context.Context, accountID string, limit int) ([]models.AuditLog, error)
}

type ReconcileStore interface {
	ListDrift(ctx context.Context) ([]models.Drift, error)
	ForAccount(ctx context.Context, accountID string) (models.Drift, error)
}

type BalancePublisher interface {
	Publish(update websocket.BalanceUpdate)
}
