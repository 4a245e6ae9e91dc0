// Package worker hosts the asynq task handlers consumed by cmd/worker.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"jobagent/internal/database"
	"jobagent/internal/discovery"
	"jobagent/internal/tasks"
)

// SearchTaskHandler consumes discovery search tasks.
type SearchTaskHandler struct {
	db           *gorm.DB
	orchestrator *discovery.Orchestrator
	logger       *slog.Logger
}

// NewSearchTaskHandler creates the handler.
func NewSearchTaskHandler(db *gorm.DB, orchestrator *discovery.Orchestrator, logger *slog.Logger) *SearchTaskHandler {
	return &SearchTaskHandler{db: db, orchestrator: orchestrator, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *SearchTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.SearchRunPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal search task payload failed", slog.Any("error", err))
		return err
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("search_id", payload.SearchID),
	)

	var search database.SearchRequest
	if err := h.db.WithContext(ctx).First(&search, "id = ?", payload.SearchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("search request disappeared, skipping task")
			return nil
		}
		log.Error("query search request failed", slog.Any("error", err))
		return err
	}

	statuses, err := h.orchestrator.Run(ctx, search)
	if err != nil {
		log.Error("search run failed", slog.Any("error", err))
		return err
	}

	var inserted, failed int
	for _, s := range statuses {
		inserted += s.Inserted
		if s.Error != "" {
			failed++
		}
	}
	log.Info("search task done",
		slog.Int("inserted", inserted),
		slog.Int("failed_sources", failed),
	)
	return nil
}
