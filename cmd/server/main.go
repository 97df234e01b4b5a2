package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lobby/internal/config"
	"lobby/internal/db"
	"lobby/internal/handlers"
	"lobby/internal/jobs"
	"lobby/internal/logger"
	"lobby/internal/middleware"
	"lobby/internal/services"
	"lobby/internal/store"
	"lobby/internal/websocket"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "development")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.AppLogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	database, err := db.Connect(connectCtx, cfg.DatabaseURL, cfg.DBMaxOpenConns)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer database.Close()

	accounts := store.NewAccountStore(database)
	transactions := store.NewTransactionStore(database)
	checkins := store.NewCheckInStore(database)
	spins := store.NewSpinStore(database)
	audit := store.NewAuditStore(database)
	reconcile := store.NewReconcileStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub(log)

	ledger := services.NewLedgerService(txRunner, accounts, transactions, reconcile, hub, log)
	accountService := services.NewAccountService(txRunner, accounts, audit, ledger, services.AccountOptions{
		StartingBalance:     cfg.StartingBalance,
		DemoStartingBalance: cfg.DemoStartingBalance,
	}, log)
	games := services.NewGameService(txRunner, ledger, nil, cfg.SlotsMaxBet)
	bonuses := services.NewBonusService(txRunner, ledger, checkins, spins, cfg.Location(), cfg.WheelCooldown, nil)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	scheduler, err := newScheduler(cfg, ledger, limiter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid job schedule")
	}
	scheduler.Start(ctx)

	handler := handlers.New(cfg, log, accountService, ledger, games, bonuses, websocket.NewServer(hub, cfg.Origins()), limiter)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("env", cfg.AppEnv).Msg("lobby API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	hub.Close()
	scheduler.Stop()
}

const sweepSchedule = "@every 5m"

func newScheduler(cfg config.Config, reconciler jobs.Reconciler, sweeper jobs.Sweeper, log zerolog.Logger) (*jobs.Scheduler, error) {
	scheduler := jobs.NewScheduler(cfg.Location(), log)
	if err := scheduler.AddReconcile(cfg.ReconcileSchedule, reconciler); err != nil {
		return nil, err
	}
	if err := scheduler.AddSweep(sweepSchedule, sweeper); err != nil {
		return nil, err
	}
	return scheduler, nil
}
