// Package scheduler wires up the cron job that periodically re-runs recent
// searches so the job feed stays fresh without manual re-triggering.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"jobagent/internal/database"
	"jobagent/internal/tasks"
)

// rescanBatch caps how many recent searches one tick re-enqueues.
const rescanBatch = 5

// Scheduler wraps robfig/cron and manages the rescan loop. Dedup makes
// re-running a search idempotent, so overlapping ticks are harmless.
type Scheduler struct {
	cron        *cron.Cron
	db          *gorm.DB
	asynqClient *asynq.Client
	logger      *slog.Logger
	spec        string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(db *gorm.DB, asynqClient *asynq.Client, logger *slog.Logger, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		db:          db,
		asynqClient: asynqClient,
		logger:      logger,
		spec:        fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the rescan job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.rescan(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("rescan scheduler started", slog.String("spec", s.spec))
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("rescan scheduler stopped")
}

func (s *Scheduler) rescan(ctx context.Context) {
	var searches []database.SearchRequest
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(rescanBatch).
		Find(&searches).Error; err != nil {
		s.logger.Error("load recent searches failed", slog.Any("error", err))
		return
	}

	for _, search := range searches {
		task, err := tasks.NewSearchRunTask(search.ID, "rescan")
		if err != nil {
			s.logger.Error("build rescan task failed",
				slog.String("search_id", search.ID), slog.Any("error", err))
			continue
		}
		if _, err := s.asynqClient.Enqueue(task); err != nil {
			s.logger.Error("enqueue rescan task failed",
				slog.String("search_id", search.ID), slog.Any("error", err))
			continue
		}
		s.logger.Info("rescan enqueued", slog.String("search_id", search.ID))
	}
}
