// Package letter synthesizes personalized cover letters through an external
// generative-text model and persists each result as an immutable record.
package letter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"gorm.io/gorm"

	"jobagent/internal/apperr"
	"jobagent/internal/config"
	"jobagent/internal/database"
)

// Generator produces cover letters for stored jobs. The model is called once
// per request with no internal retry: a retry would double-charge the
// external model, and the caller can always re-invoke.
type Generator struct {
	db      *gorm.DB
	model   llms.Model
	logger  *slog.Logger
	timeout time.Duration
}

// NewGenerator builds the Gemini-backed generator. Returns an error when no
// API key is configured; callers may treat that as a disabled feature.
func NewGenerator(ctx context.Context, db *gorm.DB, cfg config.LLMConfig, logger *slog.Logger) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("gemini api key not configured")
	}

	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GeminiAPIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return NewGeneratorWithModel(db, model, logger, time.Duration(cfg.TimeoutSeconds)*time.Second), nil
}

// NewGeneratorWithModel wires an explicit model. Tests inject fakes here.
func NewGeneratorWithModel(db *gorm.DB, model llms.Model, logger *slog.Logger, timeout time.Duration) *Generator {
	return &Generator{db: db, model: model, logger: logger, timeout: timeout}
}

// Generate drafts a letter for the given job and stores it. Repeated calls
// for the same job produce independent letters; nothing is overwritten.
func (g *Generator) Generate(ctx context.Context, jobID, customPrompt string) (*database.CoverLetter, error) {
	var job database.Job
	if err := g.db.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("job %s not found", jobID)
		}
		return nil, fmt.Errorf("query job: %w", err)
	}

	var profile database.Profile
	if err := g.db.WithContext(ctx).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("profile not found")
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}

	prompt := buildPrompt(job, profile, customPrompt)

	mctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content, err := llms.GenerateFromSinglePrompt(mctx, g.model, prompt)
	if err != nil {
		return nil, apperr.Generation(err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Generation(errors.New("model returned empty letter"))
	}

	coverLetter := database.CoverLetter{
		ID:             uuid.NewString(),
		JobID:          job.ID,
		JobTitle:       job.Title,
		Company:        job.Company,
		Content:        content,
		GeneratedAt:    time.Now().UTC(),
		Customizations: customPrompt,
	}
	if err := g.db.WithContext(ctx).Create(&coverLetter).Error; err != nil {
		return nil, fmt.Errorf("save cover letter: %w", err)
	}

	g.logger.Info("cover letter generated",
		slog.String("cover_letter_id", coverLetter.ID),
		slog.String("job_id", job.ID),
		slog.Int("length", len(content)),
	)
	return &coverLetter, nil
}

const promptTemplate = `You are an expert cover letter writer specializing in personalized, professional cover letters for job applications.

Write a complete, ready-to-send cover letter for the following application. Open with enthusiasm for the specific role and company, highlight the most relevant experience and skills from the candidate's background, show understanding of the job requirements, and close with confidence and next steps. Professional but engaging tone, 3-4 paragraphs maximum.

**Job Title:** %s
**Company:** %s

**Job Description:**
%s

**Candidate Profile:**
Name: %s
Bio: %s

**Skills:** %s
**Experience:** %s
**Languages:** %s

**Target Keywords:** %s
`

func buildPrompt(job database.Job, profile database.Profile, customPrompt string) string {
	prompt := fmt.Sprintf(promptTemplate,
		job.Title,
		job.Company,
		job.Description,
		profile.FullName,
		profile.Bio,
		strings.Join(profile.Skills, ", "),
		strings.Join(profile.Experience, "; "),
		strings.Join(profile.Languages, ", "),
		strings.Join(profile.TargetKeywords, ", "),
	)
	if customPrompt = strings.TrimSpace(customPrompt); customPrompt != "" {
		prompt += "\n**Additional instructions:** " + customPrompt + "\n"
	}
	return prompt
}
