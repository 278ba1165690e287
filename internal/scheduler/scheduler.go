package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stocksync/internal/config"
	"github.com/mamadbah2/stocksync/internal/domain/models"
)

// SyncRunner is the sync entry point the scheduler triggers.
type SyncRunner interface {
	RunWithTrigger(ctx context.Context, trigger models.SyncTrigger) (models.SyncResult, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron    *cron.Cron
	syncSvc SyncRunner
	cfg     config.SyncConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.SyncConfig, syncSvc SyncRunner, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone %q: %w", cfg.Timezone, err)
	}

	// Standard 5-field cron expressions (min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:    c,
		syncSvc: syncSvc,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Start registers the inventory sync job and starts the scheduler.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduled inventory sync disabled")
		return nil
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule), zap.String("timezone", s.cfg.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.syncInventory); err != nil {
		return fmt.Errorf("schedule inventory sync: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to return.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// syncInventory runs one scheduled pass. The pass bounds its own fetch and store
// calls, so no deadline is set here.
func (s *Scheduler) syncInventory() {
	s.logger.Info("running automatic inventory sync")

	result, err := s.syncSvc.RunWithTrigger(context.Background(), models.SyncTriggerScheduled)
	switch {
	case errors.Is(err, models.ErrSyncInProgress):
		s.logger.Info("automatic inventory sync skipped, a pass is already running")
	case err != nil:
		s.logger.Error("automatic inventory sync failed", zap.Error(err))
	default:
		s.logger.Info("automatic inventory sync finished", zap.Int("count", result.Count))
	}
}
