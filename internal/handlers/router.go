package handlers

import (
	"net/http"
	"time"

	"lobby/internal/config"
	"lobby/internal/middleware"
	"lobby/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type Handler struct {
	cfg      config.Config
	log      zerolog.Logger
	accounts AccountService
	ledger   LedgerService
	games    GameService
	bonuses  BonusService
	ws       *websocket.Server
	limiter  *middleware.RateLimiter
	now      func() time.Time
}

func New(cfg config.Config, log zerolog.Logger, accounts AccountService, ledger LedgerService, games GameService, bonuses BonusService, ws *websocket.Server, limiter *middleware.RateLimiter) *Handler {
	return &Handler{
		cfg:      cfg,
		log:      log,
		accounts: accounts,
		ledger:   ledger,
		games:    games,
		bonuses:  bonuses,
		ws:       ws,
		limiter:  limiter,
		now:      time.Now,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	if h.cfg.TrustProxy {
		router.Use(chimiddleware.RealIP)
	}
	router.Use(middleware.RequestLogger(h.log))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecurityHeaders)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authenticate := middleware.Auth(h.cfg.SessionSecret, h.cfg.SessionCookieName)
	router.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/demo", h.CreateDemo)
		})
		r.Post("/logout", h.Logout)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, h.rateLimit)
			r.Get("/me", h.Me)
			r.Post("/upgrade", h.Upgrade)
			r.Get("/activity", h.Activity)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate, h.rateLimit)
		r.Post("/wallet/deposit", h.Deposit)
		r.Post("/wallet/withdraw", h.Withdraw)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/stats", h.Stats)
		r.Get("/accounts/self-check", h.SelfCheck)

		r.Post("/slots/spin", h.Spin)
		r.Get("/slots/paytable", h.Paytable)

		r.Get("/checkin/status", h.CheckInStatus)
		r.Post("/checkin/claim", h.ClaimCheckIn)

		r.Get("/wheel/status", h.WheelStatus)
		r.Get("/wheel/prizes", h.WheelPrizes)
		r.Post("/wheel/spin", h.SpinWheel)
	})

	router.With(authenticate).Get("/ws/balances", h.WSBalances)
	return router
}

func (h *Handler) rateLimit(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return h.limiter.Middleware(next)
}
