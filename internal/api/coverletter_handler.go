package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobagent/internal/database"
	"jobagent/internal/letter"
)

// CoverLetterHandler serves cover-letter generation and retrieval.
type CoverLetterHandler struct {
	db        *gorm.DB
	generator *letter.Generator // nil when no model API key is configured
}

// NewCoverLetterHandler constructs a CoverLetterHandler.
func NewCoverLetterHandler(db *gorm.DB, generator *letter.Generator) *CoverLetterHandler {
	return &CoverLetterHandler{db: db, generator: generator}
}

type generateLetterRequest struct {
	JobID        string `json:"job_id" binding:"required"`
	CustomPrompt string `json:"custom_prompt"`
}

// GenerateLetter drafts and stores a fresh letter for the job. The call is
// synchronous; a model failure surfaces to the caller, who may retry.
func (h *CoverLetterHandler) GenerateLetter(c *gin.Context) {
	if h.generator == nil {
		Error(c, http.StatusServiceUnavailable, "cover letter generation is not configured")
		return
	}

	var req generateLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid JSON: "+err.Error())
		return
	}

	coverLetter, err := h.generator.Generate(c.Request.Context(), req.JobID, req.CustomPrompt)
	if err != nil {
		RespondError(c, err, "failed to generate cover letter")
		return
	}
	c.JSON(http.StatusCreated, coverLetter)
}

// ListLetters returns generated letters newest-first.
func (h *CoverLetterHandler) ListLetters(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			BadRequest(c, "limit must be a positive integer")
			return
		}
		if value > 50 {
			value = 50
		}
		limit = value
	}

	letters := make([]database.CoverLetter, 0, limit)
	if err := h.db.WithContext(c.Request.Context()).
		Order("generated_at DESC").
		Limit(limit).
		Find(&letters).Error; err != nil {
		Internal(c, "failed to list cover letters")
		return
	}
	c.JSON(http.StatusOK, letters)
}

// GetLetter returns one cover letter by id.
func (h *CoverLetterHandler) GetLetter(c *gin.Context) {
	var coverLetter database.CoverLetter
	err := h.db.WithContext(c.Request.Context()).First(&coverLetter, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "cover letter not found")
			return
		}
		Internal(c, "failed to query cover letter")
		return
	}
	c.JSON(http.StatusOK, coverLetter)
}
