// Package mailer queues application emails and delivers them through an SMTP
// gateway, recording every outcome as an EmailLog row. Delivery is
// best-effort once: a failed log is re-sent only by explicit re-invocation.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"jobagent/internal/apperr"
	"jobagent/internal/config"
	"jobagent/internal/database"
)

// Sender is the transport seam. *gomail.Dialer satisfies it; tests fake it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Dispatcher validates, queues and delivers application emails.
type Dispatcher struct {
	db     *gorm.DB
	sender Sender // nil when SMTP is not configured
	from   string
	logger *slog.Logger
}

// NewDispatcher builds a Dispatcher from config. With no SMTP host the
// dispatcher still queues logs; delivery marks them failed with a clear
// error, keeping the audit trail intact.
func NewDispatcher(db *gorm.DB, cfg config.EmailConfig, logger *slog.Logger) *Dispatcher {
	var sender Sender
	if cfg.SMTPHost != "" {
		sender = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return &Dispatcher{db: db, sender: sender, from: cfg.Sender, logger: logger}
}

// NewDispatcherWithSender wires an explicit transport. Tests inject fakes.
func NewDispatcherWithSender(db *gorm.DB, sender Sender, from string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{db: db, sender: sender, from: from, logger: logger}
}

// Queue resolves the application's job and latest cover letter, builds the
// message, and records a pending EmailLog. The actual send happens in the
// worker. The returned log is what the API hands back to the caller.
func (d *Dispatcher) Queue(ctx context.Context, applicationID string) (*database.EmailLog, error) {
	var app database.Application
	if err := d.db.WithContext(ctx).First(&app, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("application %s not found", applicationID)
		}
		return nil, fmt.Errorf("query application: %w", err)
	}

	var job database.Job
	if err := d.db.WithContext(ctx).First(&job, "id = ?", app.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("job %s not found", app.JobID)
		}
		return nil, fmt.Errorf("query job: %w", err)
	}

	if job.ContactEmail == "" {
		return nil, apperr.Validation("job %s has no contact email", job.ID)
	}

	var coverLetter database.CoverLetter
	letterQuery := d.db.WithContext(ctx).Where("job_id = ?", job.ID)
	if app.CoverLetterID != "" {
		letterQuery = d.db.WithContext(ctx).Where("id = ?", app.CoverLetterID)
	}
	if err := letterQuery.Order("generated_at DESC").First(&coverLetter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no cover letter for job %s", job.ID)
		}
		return nil, fmt.Errorf("query cover letter: %w", err)
	}

	emailLog := database.EmailLog{
		ID:             uuid.NewString(),
		ApplicationID:  app.ID,
		RecipientEmail: job.ContactEmail,
		Subject:        fmt.Sprintf("Application for %s Position", job.Title),
		Content:        buildBody(job, app, coverLetter),
		Status:         database.EmailStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	if err := d.db.WithContext(ctx).Create(&emailLog).Error; err != nil {
		return nil, fmt.Errorf("create email log: %w", err)
	}
	return &emailLog, nil
}

// Deliver performs the SMTP send for a previously queued log and records the
// outcome. Transport failure marks the log failed and is returned as an
// EmailDelivery error for metrics; it must never be retried automatically.
func (d *Dispatcher) Deliver(ctx context.Context, emailLogID string) error {
	var emailLog database.EmailLog
	if err := d.db.WithContext(ctx).First(&emailLog, "id = ?", emailLogID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("email log %s not found", emailLogID)
		}
		return fmt.Errorf("query email log: %w", err)
	}
	if emailLog.Status == database.EmailStatusSent {
		// Re-delivery of a sent log is a no-op, not an error.
		return nil
	}

	sendErr := d.send(emailLog)
	now := time.Now().UTC()
	update := map[string]any{}
	if sendErr != nil {
		update["status"] = database.EmailStatusFailed
		update["error_message"] = sendErr.Error()
	} else {
		update["status"] = database.EmailStatusSent
		update["sent_at"] = now
		update["error_message"] = ""
	}
	if err := d.db.WithContext(ctx).Model(&emailLog).Updates(update).Error; err != nil {
		return fmt.Errorf("record delivery outcome: %w", err)
	}

	if sendErr != nil {
		d.logger.Warn("application email failed",
			slog.String("email_log_id", emailLog.ID),
			slog.String("recipient", emailLog.RecipientEmail),
			slog.Any("error", sendErr),
		)
		return apperr.EmailDelivery(sendErr)
	}

	d.logger.Info("application email sent",
		slog.String("email_log_id", emailLog.ID),
		slog.String("recipient", emailLog.RecipientEmail),
	)
	return nil
}

func (d *Dispatcher) send(emailLog database.EmailLog) error {
	if d.sender == nil {
		return errors.New("smtp gateway not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", emailLog.RecipientEmail)
	m.SetHeader("Subject", emailLog.Subject)
	m.SetBody("text/plain", emailLog.Content)

	return d.sender.DialAndSend(m)
}

// List returns email logs newest-first, optionally filtered by status.
func (d *Dispatcher) List(ctx context.Context, status string, limit int) ([]database.EmailLog, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	query := d.db.WithContext(ctx).Model(&database.EmailLog{})
	if status != "" {
		switch status {
		case database.EmailStatusPending, database.EmailStatusSent, database.EmailStatusFailed:
			query = query.Where("status = ?", status)
		default:
			return nil, apperr.Validation("unknown email status %q", status)
		}
	}

	logs := make([]database.EmailLog, 0, limit)
	if err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	return logs, nil
}

func buildBody(job database.Job, app database.Application, coverLetter database.CoverLetter) string {
	return fmt.Sprintf(`Dear Hiring Manager,

%s

---
Application details:
  Position: %s
  Company: %s
  Applied via: %s
  Date: %s
`,
		coverLetter.Content,
		job.Title,
		job.Company,
		app.ApplicationMethod,
		app.AppliedAt.Format("January 2, 2006"),
	)
}
