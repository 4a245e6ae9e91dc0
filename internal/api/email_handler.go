package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobagent/internal/api/middleware"
	"jobagent/internal/mailer"
	"jobagent/internal/tasks"
)

// EmailHandler exposes the dispatch queue and its delivery log.
type EmailHandler struct {
	dispatcher *mailer.Dispatcher
	enqueuer   TaskEnqueuer
}

// NewEmailHandler constructs an EmailHandler.
func NewEmailHandler(dispatcher *mailer.Dispatcher, enqueuer TaskEnqueuer) *EmailHandler {
	return &EmailHandler{dispatcher: dispatcher, enqueuer: enqueuer}
}

// SendApplication queues the application email and hands the pending log back.
// Delivery happens in the worker; the caller polls the log for the outcome.
func (h *EmailHandler) SendApplication(c *gin.Context) {
	applicationID := c.Query("application_id")
	if applicationID == "" {
		BadRequest(c, "application_id query parameter is required")
		return
	}

	emailLog, err := h.dispatcher.Queue(c.Request.Context(), applicationID)
	if err != nil {
		RespondError(c, err, "failed to queue application email")
		return
	}

	task, err := tasks.NewEmailSendTask(emailLog.ID, middleware.GetCorrelationID(c))
	if err != nil {
		Internal(c, "failed to build email task")
		return
	}
	if _, err := h.enqueuer.Enqueue(task); err != nil {
		Internal(c, "failed to enqueue email task")
		return
	}

	c.JSON(http.StatusAccepted, emailLog)
}

// ListLogs returns delivery logs newest-first, optionally filtered by status.
func (h *EmailHandler) ListLogs(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = value
	}

	logs, err := h.dispatcher.List(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		RespondError(c, err, "failed to list email logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}
