package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lobby/internal/auth"
	"lobby/internal/bonus"
	"lobby/internal/config"
	"lobby/internal/models"
	"lobby/internal/services"
	"lobby/internal/stats"
	"lobby/internal/websocket"

	"github.com/rs/zerolog"
)

type stubAccounts struct {
	registerFn    func(ctx context.Context, username, password string, meta services.RequestMeta) (models.Account, error)
	loginFn       func(ctx context.Context, username, password string, meta services.RequestMeta) (models.Account, error)
	createDemoFn  func(ctx context.Context, meta services.RequestMeta) (models.Account, error)
	currentUserFn func(ctx context.Context, accountID string) (models.Account, error)
	upgradeFn     func(ctx context.Context, accountID, username, password string, meta services.RequestMeta) (models.Account, error)
	activityFn    func(ctx context.Context, accountID string, limit int) ([]models.AuditLog, error)
}

func (s stubAccounts) Register(ctx context.Context, username, password string, meta services.RequestMeta) (models.Account, error) {
	if s.registerFn == nil {
		return models.Account{}, nil
	}
	return s.registerFn(ctx, username, password, meta)
}

func (s stubAccounts) Login(ctx context.Context, username, password string, meta services.RequestMeta) (models.Account, error) {
	if s.loginFn == nil {
		return models.Account{}, nil
	}
	return s.loginFn(ctx, username, password, meta)
}

func (s stubAccounts) CreateDemo(ctx context.Context, meta services.RequestMeta) (models.Account, error) {
	if s.createDemoFn == nil {
		return models.Account{}, nil
	}
	return s.createDemoFn(ctx, meta)
}

func (s stubAccounts) CurrentUser(ctx context.Context, accountID string) (models.Account, error) {
	if s.currentUserFn == nil {
		return models.Account{ID: accountID}, nil
	}
	return s.currentUserFn(ctx, accountID)
}

func (s stubAccounts) UpgradeDemo(ctx context.Context, accountID, username, password string, meta services.RequestMeta) (models.Account, error) {
	if s.upgradeFn == nil {
		return models.Account{}, nil
	}
	return s.upgradeFn(ctx, accountID, username, password, meta)
}

func (s stubAccounts) Activity(ctx context.Context, accountID string, limit int) ([]models.AuditLog, error) {
	if s.activityFn == nil {
		return nil, nil
	}
	return s.activityFn(ctx, accountID, limit)
}

type stubLedger struct {
	depositFn   func(ctx context.Context, accountID string, amount int64) (services.Posting, error)
	withdrawFn  func(ctx context.Context, accountID string, amount int64) (services.Posting, error)
	historyFn   func(ctx context.Context, accountID string, kind models.Kind, page, limit int) (services.HistoryPage, error)
	statsFn     func(ctx context.Context, accountID string) (stats.Summary, error)
	selfCheckFn func(ctx context.Context, accountID string) (services.SelfCheck, error)
}

func (s stubLedger) Deposit(ctx context.Context, accountID string, amount int64) (services.Posting, error) {
	if s.depositFn == nil {
		return services.Posting{}, nil
	}
	return s.depositFn(ctx, accountID, amount)
}

func (s stubLedger) Withdraw(ctx context.Context, accountID string, amount int64) (services.Posting, error) {
	if s.withdrawFn == nil {
		return services.Posting{}, nil
	}
	return s.withdrawFn(ctx, accountID, amount)
}

func (s stubLedger) History(ctx context.Context, accountID string, kind models.Kind, page, limit int) (services.HistoryPage, error) {
	if s.historyFn == nil {
		return services.HistoryPage{}, nil
	}
	return s.historyFn(ctx, accountID, kind, page, limit)
}

func (s stubLedger) Stats(ctx context.Context, accountID string) (stats.Summary, error) {
	if s.statsFn == nil {
		return stats.Summary{}, nil
	}
	return s.statsFn(ctx, accountID)
}

func (s stubLedger) SelfCheck(ctx context.Context, accountID string) (services.SelfCheck, error) {
	if s.selfCheckFn == nil {
		return services.SelfCheck{}, nil
	}
	return s.selfCheckFn(ctx, accountID)
}

type stubGames struct {
	spinFn func(ctx context.Context, accountID string, bet int64, machineID string) (services.SpinResult, error)
}

func (s stubGames) Spin(ctx context.Context, accountID string, bet int64, machineID string) (services.SpinResult, error) {
	if s.spinFn == nil {
		return services.SpinResult{}, nil
	}
	return s.spinFn(ctx, accountID, bet, machineID)
}

type stubBonuses struct {
	checkInStatusFn func(ctx context.Context, accountID string, now time.Time) (services.CheckInStatus, error)
	claimFn         func(ctx context.Context, accountID string, now time.Time) (services.CheckInResult, error)
	wheelStatusFn   func(ctx context.Context, accountID string, now time.Time) (bonus.WheelState, error)
	spinWheelFn     func(ctx context.Context, accountID string, now time.Time) (services.WheelResult, error)
}

func (s stubBonuses) CheckInStatus(ctx context.Context, accountID string, now time.Time) (services.CheckInStatus, error) {
	if s.checkInStatusFn == nil {
		return services.CheckInStatus{}, nil
	}
	return s.checkInStatusFn(ctx, accountID, now)
}

func (s stubBonuses) ClaimCheckIn(ctx context.Context, accountID string, now time.Time) (services.CheckInResult, error) {
	if s.claimFn == nil {
		return services.CheckInResult{}, nil
	}
	return s.claimFn(ctx, accountID, now)
}

func (s stubBonuses) WheelStatus(ctx context.Context, accountID string, now time.Time) (bonus.WheelState, error) {
	if s.wheelStatusFn == nil {
		return bonus.WheelState{CanSpin: true}, nil
	}
	return s.wheelStatusFn(ctx, accountID, now)
}

func (s stubBonuses) SpinWheel(ctx context.Context, accountID string, now time.Time) (services.WheelResult, error) {
	if s.spinWheelFn == nil {
		return services.WheelResult{}, nil
	}
	return s.spinWheelFn(ctx, accountID, now)
}

func (stubBonuses) WheelPrizes() []int64 {
	return bonus.WheelPrizes()
}

var testNow = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	return config.Config{
		AppEnv:            "test",
		SessionSecret:     "secret",
		SessionTTL:        time.Minute,
		SessionCookieName: "lobby_session",
		AllowedOrigins:    "http://localhost:5173",
		SlotsMaxBet:       10000,
	}
}

func newTestHandler(accounts AccountService, ledger LedgerService, games GameService, bonuses BonusService) *Handler {
	hub := websocket.NewHub(zerolog.Nop())
	h := New(testConfig(), zerolog.Nop(), accounts, ledger, games, bonuses, websocket.NewServer(hub, nil), nil)
	h.now = func() time.Time { return testNow }
	return h
}

// serve runs a request through the full router. A non-empty accountID is
// sent as a session cookie.
func serve(t *testing.T, h *Handler, method, path, body, accountID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if accountID != "" {
		token, err := auth.GenerateToken("secret", accountID, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: "lobby_session", Value: token})
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == "lobby_session" {
			return c
		}
	}
	return nil
}
