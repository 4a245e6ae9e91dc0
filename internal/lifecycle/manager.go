package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobagent/internal/apperr"
	"jobagent/internal/database"
)

// Manager owns Application records and their status updates.
type Manager struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewManager constructs a Manager.
func NewManager(db *gorm.DB, logger *slog.Logger) *Manager {
	return &Manager{db: db, logger: logger}
}

// CreateParams describes a new application. Status defaults to pending.
type CreateParams struct {
	JobID             string
	CoverLetterID     string
	ApplicationMethod string
	Notes             string
	Status            string
}

// Create records a new application against an existing job and marks the job
// as applied. The job reference is validated up front; a dangling job_id is a
// caller error, not a not-found.
func (m *Manager) Create(ctx context.Context, p CreateParams) (*database.Application, error) {
	if p.JobID == "" {
		return nil, apperr.Validation("job_id is required")
	}

	status := StatusPending
	if p.Status != "" {
		parsed, err := ParseStatus(p.Status)
		if err != nil {
			return nil, apperr.Validation("%v", err)
		}
		status = parsed
	}

	method := p.ApplicationMethod
	if method == "" {
		method = "email"
	}

	var job database.Job
	if err := m.db.WithContext(ctx).First(&job, "id = ?", p.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("job %s does not exist", p.JobID)
		}
		return nil, fmt.Errorf("query job: %w", err)
	}

	if p.CoverLetterID != "" {
		var letter database.CoverLetter
		if err := m.db.WithContext(ctx).First(&letter, "id = ?", p.CoverLetterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Validation("cover letter %s does not exist", p.CoverLetterID)
			}
			return nil, fmt.Errorf("query cover letter: %w", err)
		}
	}

	now := time.Now().UTC()
	app := database.Application{
		ID:                uuid.NewString(),
		JobID:             p.JobID,
		CoverLetterID:     p.CoverLetterID,
		Status:            string(status),
		ApplicationMethod: method,
		Notes:             p.Notes,
		AppliedAt:         now,
		UpdatedAt:         now,
		Version:           1,
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&app).Error; err != nil {
			return fmt.Errorf("create application: %w", err)
		}
		update := map[string]any{"applied": true, "applied_at": now}
		if err := tx.Model(&database.Job{}).Where("id = ?", p.JobID).Updates(update).Error; err != nil {
			return fmt.Errorf("mark job applied: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("application created",
		slog.String("application_id", app.ID),
		slog.String("job_id", app.JobID),
		slog.String("status", app.Status),
	)
	return &app, nil
}

// UpdateStatus sets a new status on an existing application. The status value
// is enforced against the closed enum; the transition graph is advisory only,
// so off-graph jumps (including out of terminal states) go through with a
// warning. updated_at and the version stamp always advance, even when the
// status is unchanged.
func (m *Manager) UpdateStatus(ctx context.Context, applicationID, rawStatus string) (*database.Application, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, apperr.Validation("%v", err)
	}

	var app database.Application
	if err := m.db.WithContext(ctx).First(&app, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("application %s not found", applicationID)
		}
		return nil, fmt.Errorf("query application: %w", err)
	}

	from := Status(app.Status)
	if !Usual(from, status) {
		m.logger.Warn("unusual status transition",
			slog.String("application_id", app.ID),
			slog.String("from", string(from)),
			slog.String("to", string(status)),
			slog.Bool("from_terminal", IsTerminal(from)),
		)
	}

	now := time.Now().UTC()
	update := map[string]any{
		"status":     string(status),
		"updated_at": now,
		"version":    app.Version + 1,
	}
	if err := m.db.WithContext(ctx).Model(&app).Updates(update).Error; err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}

	app.Status = string(status)
	app.UpdatedAt = now
	app.Version++
	return &app, nil
}

// List returns applications newest-first, optionally filtered by status.
func (m *Manager) List(ctx context.Context, rawStatus string, limit int) ([]database.Application, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := m.db.WithContext(ctx).Model(&database.Application{})
	if rawStatus != "" {
		status, err := ParseStatus(rawStatus)
		if err != nil {
			return nil, apperr.Validation("%v", err)
		}
		query = query.Where("status = ?", string(status))
	}

	apps := make([]database.Application, 0, limit)
	if err := query.Order("applied_at DESC").Limit(limit).Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}
