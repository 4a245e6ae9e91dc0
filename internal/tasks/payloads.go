package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants shared by queue producers and consumers.
const (
	TypeSearchRun = "discovery:search"
	TypeEmailSend = "email:send"
)

// SearchRunPayload identifies the persisted SearchRequest to execute.
type SearchRunPayload struct {
	SearchID      string `json:"search_id"`
	CorrelationID string `json:"correlation_id"`
}

// EmailSendPayload identifies the pending EmailLog to deliver.
type EmailSendPayload struct {
	EmailLogID    string `json:"email_log_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewSearchRunTask builds a discovery task. Re-runs are idempotent thanks to
// dedup, so a couple of retries are safe.
func NewSearchRunTask(searchID, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(SearchRunPayload{
		SearchID:      searchID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSearchRun, payload, asynq.MaxRetry(2)), nil
}

// NewEmailSendTask builds a delivery task. MaxRetry is zero: at-least-once is
// the caller's responsibility, never the queue's.
func NewEmailSendTask(emailLogID, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailSendPayload{
		EmailLogID:    emailLogID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailSend, payload, asynq.MaxRetry(0)), nil
}
