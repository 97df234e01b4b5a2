package services

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"lobby/internal/models"
	"lobby/internal/store"
	"lobby/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// memStore is an in-memory stand-in for every store the services use.
// memTxRunner snapshots it before each closure and restores on error, so a
// failed closure leaves no trace, like a rolled back transaction.
type memStore struct {
	mu           sync.Mutex
	accounts     map[string]models.Account
	transactions []models.Transaction
	checkins     map[string]models.CheckIn
	spins        []models.SpinRecord
	audits       []models.AuditLog

	// failTxCreate, when set, is consulted before each transaction insert.
	failTxCreate func(row models.Transaction) error
}

type memState struct {
	accounts     map[string]models.Account
	transactions []models.Transaction
	checkins     map[string]models.CheckIn
	spins        []models.SpinRecord
	audits       []models.AuditLog
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]models.Account{},
		checkins: map[string]models.CheckIn{},
	}
}

func (m *memStore) snapshot() memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memState{
		accounts:     maps.Clone(m.accounts),
		transactions: slices.Clone(m.transactions),
		checkins:     maps.Clone(m.checkins),
		spins:        slices.Clone(m.spins),
		audits:       slices.Clone(m.audits),
	}
}

func (m *memStore) restore(s memState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = s.accounts
	m.transactions = s.transactions
	m.checkins = s.checkins
	m.spins = s.spins
	m.audits = s.audits
}

func (m *memStore) seed(id, username string, balance int64, isDemo bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[id] = models.Account{ID: id, Username: username, Balance: balance, IsDemo: isDemo}
}

func (m *memStore) account(id string) models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id]
}

func (m *memStore) rows(accountID string) []models.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Transaction
	for _, row := range m.transactions {
		if row.AccountID == accountID {
			out = append(out, row)
		}
	}
	return out
}

func (m *memStore) Create(_ context.Context, _ store.Execer, id, username, passwordHash string, isDemo bool, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Username == username {
			return &pq.Error{Code: "23505"}
		}
	}
	m.accounts[id] = models.Account{ID: id, Username: username, PasswordHash: passwordHash, IsDemo: isDemo, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (m *memStore) GetByID(_ context.Context, accountID string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return models.Account{}, sql.ErrNoRows
	}
	return a, nil
}

func (m *memStore) GetByUsername(_ context.Context, username string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return models.Account{}, sql.ErrNoRows
}

func (m *memStore) GetForUpdate(ctx context.Context, _ store.Getter, accountID string) (models.Account, error) {
	return m.GetByID(ctx, accountID)
}

func (m *memStore) UpdateBalance(_ context.Context, _ store.Execer, accountID string, balance int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.accounts[accountID]
	a.Balance = balance
	m.accounts[accountID] = a
	return nil
}

func (m *memStore) UpgradeIdentity(_ context.Context, _ store.Execer, accountID, username, passwordHash string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.accounts {
		if id != accountID && a.Username == username {
			return 0, &pq.Error{Code: "23505"}
		}
	}
	a, ok := m.accounts[accountID]
	if !ok || !a.IsDemo {
		return 0, nil
	}
	a.Username = username
	a.PasswordHash = passwordHash
	a.IsDemo = false
	m.accounts[accountID] = a
	return 1, nil
}

// memTransactions adapts memStore to TransactionStore; Create clashes with
// the account store method of the same name.
type memTransactions struct{ m *memStore }

func (t memTransactions) Create(_ context.Context, _ store.Execer, row models.Transaction) error {
	if t.m.failTxCreate != nil {
		if err := t.m.failTxCreate(row); err != nil {
			return err
		}
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.m.transactions = append(t.m.transactions, row)
	return nil
}

func (t memTransactions) filter(accountID string, kind models.Kind) []models.Transaction {
	var out []models.Transaction
	for _, row := range t.m.rows(accountID) {
		if kind == "" || row.Kind == kind {
			out = append(out, row)
		}
	}
	return out
}

func (t memTransactions) ListByAccount(_ context.Context, accountID string, kind models.Kind, limit, offset int) ([]models.Transaction, error) {
	if offset < 0 {
		return nil, fmt.Errorf("negative offset %d", offset)
	}
	rows := t.filter(accountID, kind)
	slices.Reverse(rows)
	out := []models.Transaction{}
	for i := offset; i < len(rows) && len(out) < limit; i++ {
		out = append(out, rows[i])
	}
	return out, nil
}

func (t memTransactions) CountByAccount(_ context.Context, accountID string, kind models.Kind) (int64, error) {
	return int64(len(t.filter(accountID, kind))), nil
}

func (t memTransactions) ListGameplay(_ context.Context, accountID string) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, row := range t.m.rows(accountID) {
		if row.Kind == models.KindBet || row.Kind == models.KindWin {
			out = append(out, row)
		}
	}
	return out, nil
}

type memCheckIns struct{ m *memStore }

func (c memCheckIns) Claim(_ context.Context, _ store.Execer, row models.CheckIn) (bool, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	key := row.AccountID + "|" + row.WeekStart.Format("2006-01-02") + "|" + string(rune('0'+row.DayOfWeek))
	if _, ok := c.m.checkins[key]; ok {
		return false, nil
	}
	c.m.checkins[key] = row
	return true, nil
}

func (c memCheckIns) ClaimedDays(_ context.Context, accountID string, weekStart time.Time) ([]int, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	days := []int{}
	for _, row := range c.m.checkins {
		if row.AccountID == accountID && row.WeekStart.Format("2006-01-02") == weekStart.Format("2006-01-02") {
			days = append(days, row.DayOfWeek)
		}
	}
	slices.Sort(days)
	return days, nil
}

type memSpins struct{ m *memStore }

func (s memSpins) Create(_ context.Context, _ store.Execer, row models.SpinRecord) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.spins = append(s.m.spins, row)
	return nil
}

func (s memSpins) Latest(_ context.Context, accountID string) (*models.SpinRecord, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var latest *models.SpinRecord
	for i := range s.m.spins {
		row := s.m.spins[i]
		if row.AccountID == accountID && (latest == nil || row.CreatedAt.After(latest.CreatedAt)) {
			latest = &row
		}
	}
	return latest, nil
}

func (s memSpins) LatestTx(ctx context.Context, _ store.Getter, accountID string) (*models.SpinRecord, error) {
	return s.Latest(ctx, accountID)
}

type memAudit struct{ m *memStore }

func (a memAudit) Log(_ context.Context, _ store.Execer, actorID, action, entityType, entityID string, _ map[string]string) error {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	actor := actorID
	a.m.audits = append(a.m.audits, models.AuditLog{ActorAccountID: &actor, Action: action, EntityType: entityType, EntityID: entityID})
	return nil
}

func (a memAudit) ListByActor(_ context.Context, accountID string, limit int) ([]models.AuditLog, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	out := []models.AuditLog{}
	for i := len(a.m.audits) - 1; i >= 0 && len(out) < limit; i-- {
		if row := a.m.audits[i]; row.ActorAccountID != nil && *row.ActorAccountID == accountID {
			out = append(out, row)
		}
	}
	return out, nil
}

type memReconcile struct{ m *memStore }

func (r memReconcile) ForAccount(_ context.Context, accountID string) (models.Drift, error) {
	account, ok := r.m.snapshot().accounts[accountID]
	if !ok {
		return models.Drift{}, sql.ErrNoRows
	}
	d := models.Drift{AccountID: accountID, Balance: account.Balance}
	for _, row := range r.m.rows(accountID) {
		d.LedgerSum += row.Amount
		d.Transactions++
		last := row.BalanceAfter
		d.LastBalance = &last
	}
	return d, nil
}

func (r memReconcile) ListDrift(ctx context.Context) ([]models.Drift, error) {
	var out []models.Drift
	var ids []string
	for id := range r.m.snapshot().accounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		d, _ := r.ForAccount(ctx, id)
		if d.Balance != d.LedgerSum {
			out = append(out, d)
		}
	}
	return out, nil
}

// memTxRunner serializes every closure behind one mutex, standing in for
// the row lock. retries replays a successful closure that many times after
// rolling it back, the way db.WithTx does on a serialization failure.
type memTxRunner struct {
	mu      sync.Mutex
	store   *memStore
	calls   int
	retries int
}

func (r *memTxRunner) WithTx(_ context.Context, fn func(*sqlx.Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for attempt := 0; ; attempt++ {
		r.calls++
		snap := r.store.snapshot()
		if err := fn(nil); err != nil {
			r.store.restore(snap)
			return err
		}
		if attempt >= r.retries {
			return nil
		}
		r.store.restore(snap)
	}
}

type recordingHub struct {
	mu      sync.Mutex
	updates []websocket.BalanceUpdate
}

func (h *recordingHub) Publish(update websocket.BalanceUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, update)
}

func (h *recordingHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.updates)
}

type fixture struct {
	store  *memStore
	runner *memTxRunner
	hub    *recordingHub
	ledger *LedgerService
}

func newFixture() *fixture {
	m := newMemStore()
	runner := &memTxRunner{store: m}
	hub := &recordingHub{}
	ledger := NewLedgerService(runner, m, memTransactions{m}, memReconcile{m}, hub, zerolog.Nop())
	return &fixture{store: m, runner: runner, hub: hub, ledger: ledger}
}

// seqRand returns the given values in order, wrapping around.
type seqRand struct {
	mu     sync.Mutex
	values []int
	i      int
}

func (r *seqRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.values[r.i%len(r.values)] % n
	r.i++
	return v
}
