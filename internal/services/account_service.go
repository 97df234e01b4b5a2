package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"lobby/internal/auth"
	"lobby/internal/db"
	"lobby/internal/models"
	"lobby/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

const demoAttempts = 5

type AccountOptions struct {
	StartingBalance     int64
	DemoStartingBalance int64
}

type AccountService struct {
	txRunner db.TxRunner
	accounts AccountStore
	audit    AuditStore
	ledger   *LedgerService
	opts     AccountOptions
	log      zerolog.Logger
	now      func() time.Time
	demoName func() string
	sleep    func(time.Duration)
}

func NewAccountService(txRunner db.TxRunner, accounts AccountStore, audit AuditStore, ledger *LedgerService, opts AccountOptions, log zerolog.Logger) *AccountService {
	return &AccountService{
		txRunner: txRunner,
		accounts: accounts,
		audit:    audit,
		ledger:   ledger,
		opts:     opts,
		log:      log,
		now:      time.Now,
		demoName: randomDemoName,
		sleep:    time.Sleep,
	}
}

type RequestMeta struct {
	IP        string
	UserAgent string
}

func (m RequestMeta) data(extra map[string]string) map[string]string {
	out := map[string]string{"ip": m.IP, "user_agent": m.UserAgent}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func (s *AccountService) Register(ctx context.Context, username, password string, meta RequestMeta) (models.Account, error) {
	if err := validator.ValidateCredentials(username, password); err != nil {
		return models.Account{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Account{}, err
	}
	account, err := s.open(ctx, username, hash, false, s.opts.StartingBalance, "Welcome bonus", "register", meta)
	if db.IsUniqueViolation(err) {
		return models.Account{}, ErrUsernameTaken
	}
	return account, err
}

func (s *AccountService) CreateDemo(ctx context.Context, meta RequestMeta) (models.Account, error) {
	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return models.Account{}, err
	}
	for attempt := 1; attempt <= demoAttempts; attempt++ {
		account, err := s.open(ctx, s.demoName(), hash, true, s.opts.DemoStartingBalance, "Demo promotional credit", "demo_created", meta)
		if err == nil {
			return account, nil
		}
		if !db.IsUniqueViolation(err) {
			return models.Account{}, err
		}
		s.log.Debug().Int("attempt", attempt).Msg("demo username collision")
		if attempt < demoAttempts {
			s.sleep(time.Duration(attempt)*10*time.Millisecond + rand.N(10*time.Millisecond))
		}
	}
	return models.Account{}, ErrDemoCreationFailed
}

func (s *AccountService) open(ctx context.Context, username, hash string, isDemo bool, opening int64, description, action string, meta RequestMeta) (models.Account, error) {
	id := uuid.NewString()
	now := s.now().UTC()
	account := models.Account{ID: id, Username: username, IsDemo: isDemo, CreatedAt: now, UpdatedAt: now}
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account.Balance = 0
		if err := s.accounts.Create(ctx, tx, id, username, hash, isDemo, now); err != nil {
			return err
		}
		if opening > 0 {
			posting, err := s.ledger.Apply(ctx, tx, id, opening, models.KindDeposit, description)
			if err != nil {
				return err
			}
			account.Balance = posting.Account.Balance
		}
		return s.audit.Log(ctx, tx, id, action, "account", id, meta.data(map[string]string{"username": username}))
	})
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

var dummyHash = sync.OnceValue(func() string {
	hash, _ := auth.HashPassword("not-a-real-password")
	return hash
})

// Login fails the same way for an unknown username and a wrong password.
func (s *AccountService) Login(ctx context.Context, username, password string, meta RequestMeta) (models.Account, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		auth.CheckPassword(dummyHash(), password)
		return models.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("load account: %w", err)
	}
	if !auth.CheckPassword(account.PasswordHash, password) {
		return models.Account{}, ErrInvalidCredentials
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.audit.Log(ctx, tx, account.ID, "login", "account", account.ID, meta.data(nil))
	})
	if err != nil {
		return models.Account{}, fmt.Errorf("audit login: %w", err)
	}
	return account, nil
}

func (s *AccountService) CurrentUser(ctx context.Context, accountID string) (models.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("load account: %w", err)
	}
	return account, nil
}

func (s *AccountService) UpgradeDemo(ctx context.Context, accountID, username, password string, meta RequestMeta) (models.Account, error) {
	if err := validator.ValidateCredentials(username, password); err != nil {
		return models.Account{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.Account{}, err
	}
	var account models.Account
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.ledger.lock(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if !current.IsDemo {
			return ErrNotDemo
		}
		if _, err := s.accounts.UpgradeIdentity(ctx, tx, accountID, username, hash); err != nil {
			return err
		}
		account = current
		account.Username = username
		account.PasswordHash = hash
		account.IsDemo = false
		return s.audit.Log(ctx, tx, accountID, "demo_upgraded", "account", accountID,
			meta.data(map[string]string{"from": current.Username, "to": username}))
	})
	if db.IsUniqueViolation(err) {
		return models.Account{}, ErrUsernameTaken
	}
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (s *AccountService) Activity(ctx context.Context, accountID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	logs, err := s.audit.ListByActor(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return logs, nil
}

func randomDemoName() string {
	return "demo_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
