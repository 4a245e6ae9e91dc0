package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"jobagent/internal/database"
	"jobagent/internal/mailer"
	"jobagent/internal/tasks"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedPendingLog(t *testing.T, db *gorm.DB) database.EmailLog {
	t.Helper()
	emailLog := database.EmailLog{
		ID:             uuid.NewString(),
		ApplicationID:  uuid.NewString(),
		RecipientEmail: "jobs@acme.example",
		Subject:        "Application for Go Engineer Position",
		Content:        "A letter.",
		Status:         database.EmailStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := db.Create(&emailLog).Error; err != nil {
		t.Fatalf("seed email log: %v", err)
	}
	return emailLog
}

// A transport failure must complete the task: the outcome lives on the
// EmailLog row and the queue must never resend an application email.
func TestEmailTask_DeliveryFailureCompletesTask(t *testing.T) {
	db := newTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// nil sender: every delivery fails with "smtp gateway not configured"
	dispatcher := mailer.NewDispatcherWithSender(db, nil, "agent@example.com", logger)
	handler := NewEmailTaskHandler(dispatcher, logger)

	emailLog := seedPendingLog(t, db)
	task, err := tasks.NewEmailSendTask(emailLog.ID, "test")
	if err != nil {
		t.Fatalf("build task: %v", err)
	}

	if err := handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask should complete on delivery failure, got %v", err)
	}

	var reloaded database.EmailLog
	if err := db.First(&reloaded, "id = ?", emailLog.ID).Error; err != nil {
		t.Fatalf("reload log: %v", err)
	}
	if reloaded.Status != database.EmailStatusFailed {
		t.Errorf("status = %q, want failed", reloaded.Status)
	}
}

func TestEmailTask_MissingLogCompletesTask(t *testing.T) {
	db := newTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := mailer.NewDispatcherWithSender(db, nil, "agent@example.com", logger)
	handler := NewEmailTaskHandler(dispatcher, logger)

	task, err := tasks.NewEmailSendTask(uuid.NewString(), "test")
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("ProcessTask should skip a missing log, got %v", err)
	}
}
