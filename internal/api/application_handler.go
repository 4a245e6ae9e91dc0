package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobagent/internal/lifecycle"
)

// ApplicationHandler serves the application lifecycle endpoints.
type ApplicationHandler struct {
	manager *lifecycle.Manager
}

// NewApplicationHandler constructs an ApplicationHandler.
func NewApplicationHandler(manager *lifecycle.Manager) *ApplicationHandler {
	return &ApplicationHandler{manager: manager}
}

type createApplicationRequest struct {
	JobID             string `json:"job_id" binding:"required"`
	CoverLetterID     string `json:"cover_letter_id"`
	ApplicationMethod string `json:"application_method"`
	Notes             string `json:"notes"`
	Status            string `json:"status"`
}

// CreateApplication records a new application for an existing job.
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var req createApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid JSON: "+err.Error())
		return
	}

	app, err := h.manager.Create(c.Request.Context(), lifecycle.CreateParams{
		JobID:             req.JobID,
		CoverLetterID:     req.CoverLetterID,
		ApplicationMethod: req.ApplicationMethod,
		Notes:             req.Notes,
		Status:            req.Status,
	})
	if err != nil {
		RespondError(c, err, "failed to create application")
		return
	}
	c.JSON(http.StatusCreated, app)
}

// ListApplications returns applications newest-first, optionally filtered by
// status.
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = value
	}

	apps, err := h.manager.List(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		RespondError(c, err, "failed to list applications")
		return
	}
	c.JSON(http.StatusOK, apps)
}

// UpdateStatus sets the application status from the query parameter, the
// shape the client sends: PUT /applications/{id}/status?status=interviewing.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	status := c.Query("status")
	if status == "" {
		BadRequest(c, "status query parameter is required")
		return
	}

	app, err := h.manager.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		RespondError(c, err, "failed to update application status")
		return
	}
	c.JSON(http.StatusOK, app)
}
