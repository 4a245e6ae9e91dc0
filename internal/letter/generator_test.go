package letter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"jobagent/internal/apperr"
	"jobagent/internal/database"
)

// fakeModel returns a canned completion and records the prompts it saw.
type fakeModel struct {
	reply   string
	err     error
	prompts []string
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, text.Text)
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.reply}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

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

func seedJobAndProfile(t *testing.T, db *gorm.DB) database.Job {
	t.Helper()
	job := database.Job{
		ID:          uuid.NewString(),
		Title:       "Senior Go Engineer",
		Company:     "Acme",
		Description: "Build distributed systems.",
		Source:      database.SourceRemotive,
		DedupKey:    "remotive:" + uuid.NewString(),
	}
	if err := db.Create(&job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	profile := database.Profile{
		ID:             uuid.NewString(),
		FullName:       "Jamie Doe",
		Email:          "jamie@example.com",
		Bio:            "Backend engineer with ten years in Go.",
		Skills:         []string{"Go", "PostgreSQL"},
		TargetKeywords: []string{"golang"},
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return job
}

func newTestGenerator(db *gorm.DB, model llms.Model) *Generator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGeneratorWithModel(db, model, logger, 5*time.Second)
}

func TestGenerate_PersistsLetterWithJobSnapshot(t *testing.T) {
	db := newTestDB(t)
	job := seedJobAndProfile(t, db)
	model := &fakeModel{reply: "Dear Hiring Manager, I am excited to apply."}
	generator := newTestGenerator(db, model)

	letter, err := generator.Generate(context.Background(), job.ID, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if letter.Content != "Dear Hiring Manager, I am excited to apply." {
		t.Errorf("content = %q", letter.Content)
	}
	if letter.JobTitle != job.Title || letter.Company != job.Company {
		t.Errorf("snapshot = %q at %q, want %q at %q", letter.JobTitle, letter.Company, job.Title, job.Company)
	}

	var stored database.CoverLetter
	if err := db.First(&stored, "id = ?", letter.ID).Error; err != nil {
		t.Fatalf("reload letter: %v", err)
	}

	if len(model.prompts) != 1 {
		t.Fatalf("model saw %d prompts, want 1", len(model.prompts))
	}
	prompt := model.prompts[0]
	for _, want := range []string{job.Title, job.Company, "Jamie Doe", "Go, PostgreSQL"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerate_RepeatedCallsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	job := seedJobAndProfile(t, db)
	model := &fakeModel{reply: "A letter."}
	generator := newTestGenerator(db, model)

	first, err := generator.Generate(context.Background(), job.ID, "")
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := generator.Generate(context.Background(), job.ID, "mention open source work")
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if first.ID == second.ID {
		t.Error("regeneration must create a new record")
	}
	if second.Customizations != "mention open source work" {
		t.Errorf("customizations = %q", second.Customizations)
	}
	if !strings.Contains(model.prompts[1], "mention open source work") {
		t.Error("custom prompt should be appended to the model prompt")
	}

	var count int64
	if err := db.Model(&database.CoverLetter{}).Where("job_id = ?", job.ID).Count(&count).Error; err != nil {
		t.Fatalf("count letters: %v", err)
	}
	if count != 2 {
		t.Errorf("letter count = %d, want 2", count)
	}
}

func TestGenerate_Errors(t *testing.T) {
	db := newTestDB(t)
	job := seedJobAndProfile(t, db)

	generator := newTestGenerator(db, &fakeModel{reply: "x"})
	if _, err := generator.Generate(context.Background(), uuid.NewString(), ""); !apperr.IsNotFound(err) {
		t.Errorf("missing job should be not-found, got %v", err)
	}

	failing := newTestGenerator(db, &fakeModel{err: errors.New("quota exceeded")})
	if _, err := failing.Generate(context.Background(), job.ID, ""); !apperr.IsGeneration(err) {
		t.Errorf("model failure should be a generation error, got %v", err)
	}

	empty := newTestGenerator(db, &fakeModel{reply: "   "})
	if _, err := empty.Generate(context.Background(), job.ID, ""); !apperr.IsGeneration(err) {
		t.Errorf("blank completion should be a generation error, got %v", err)
	}

	var count int64
	if err := db.Model(&database.CoverLetter{}).Count(&count).Error; err != nil {
		t.Fatalf("count letters: %v", err)
	}
	if count != 0 {
		t.Errorf("failed generations must not persist letters, found %d", count)
	}
}

func TestGenerate_MissingProfile(t *testing.T) {
	db := newTestDB(t)
	job := database.Job{
		ID:       uuid.NewString(),
		Title:    "Engineer",
		Company:  "Acme",
		Source:   database.SourceManual,
		DedupKey: "manual:" + uuid.NewString(),
	}
	if err := db.Create(&job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}

	generator := newTestGenerator(db, &fakeModel{reply: "x"})
	if _, err := generator.Generate(context.Background(), job.ID, ""); !apperr.IsNotFound(err) {
		t.Errorf("missing profile should be not-found, got %v", err)
	}
}
