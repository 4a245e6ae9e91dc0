package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"jobagent/internal/apperr"
	"jobagent/internal/mailer"
	"jobagent/internal/tasks"
)

// EmailTaskHandler consumes queued application-email deliveries.
type EmailTaskHandler struct {
	dispatcher *mailer.Dispatcher
	logger     *slog.Logger
}

// NewEmailTaskHandler creates the handler.
func NewEmailTaskHandler(dispatcher *mailer.Dispatcher, logger *slog.Logger) *EmailTaskHandler {
	return &EmailTaskHandler{dispatcher: dispatcher, logger: logger}
}

// ProcessTask implements asynq.Handler. A transport failure is already
// recorded on the EmailLog, so it completes the task instead of failing it:
// asynq must never resend an application email on its own.
func (h *EmailTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.EmailSendPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal email task payload failed", slog.Any("error", err))
		return err
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("email_log_id", payload.EmailLogID),
	)

	err := h.dispatcher.Deliver(ctx, payload.EmailLogID)
	switch {
	case err == nil:
		return nil
	case apperr.IsEmailDelivery(err):
		// Outcome is on the log; the caller decides whether to re-send.
		return nil
	case apperr.IsNotFound(err):
		log.Warn("email log disappeared, skipping task")
		return nil
	default:
		log.Error("deliver email failed", slog.Any("error", err))
		return err
	}
}
