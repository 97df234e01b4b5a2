package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"lobby/internal/models"
)

type Reconciler interface {
	Reconcile(ctx context.Context) ([]models.Drift, error)
}

type Sweeper interface {
	Sweep()
}

type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
	ctx  context.Context
}

func NewScheduler(loc *time.Location, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:  log.With().Str("component", "scheduler").Logger(),
		ctx:  context.Background(),
	}
}

func (s *Scheduler) Add(spec, name string, fn func(ctx context.Context) error) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, fn) }); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) run(name string, fn func(ctx context.Context) error) {
	start := time.Now()
	if err := fn(s.ctx); err != nil {
		s.log.Error().Err(err).Str("job", name).Msg("job failed")
		return
	}
	s.log.Debug().Str("job", name).Dur("duration", time.Since(start)).Msg("job finished")
}

func (s *Scheduler) AddReconcile(spec string, r Reconciler) error {
	return s.Add(spec, "reconcile", func(ctx context.Context) error {
		drifts, err := r.Reconcile(ctx)
		if err != nil {
			return err
		}
		if len(drifts) > 0 {
			s.log.Warn().Int("accounts", len(drifts)).Msg("ledger reconciliation found drift")
		}
		return nil
	})
}

func (s *Scheduler) AddSweep(spec string, sw Sweeper) error {
	return s.Add(spec, "ratelimit_sweep", func(context.Context) error {
		sw.Sweep()
		return nil
	})
}

func (s *Scheduler) Start(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}
