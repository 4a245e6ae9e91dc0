package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"jobagent/internal/database"
	"jobagent/internal/lifecycle"
)

// AnalyticsHandler aggregates pipeline counts for the dashboard.
type AnalyticsHandler struct {
	db *gorm.DB
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

type dashboardMetrics struct {
	TotalJobsDiscovered int64 `json:"total_jobs_discovered"`
	TotalApplications   int64 `json:"total_applications"`
	PendingApplications int64 `json:"pending_applications"`
	Interviewing        int64 `json:"interviewing"`
	Rejected            int64 `json:"rejected"`
	EmailsSent          int64 `json:"emails_sent"`
	CoverLettersWritten int64 `json:"cover_letters_written"`
}

type dashboardResponse struct {
	Metrics            dashboardMetrics       `json:"metrics"`
	RecentJobs         []database.Job         `json:"recent_jobs"`
	RecentApplications []database.Application `json:"recent_applications"`
}

// Dashboard returns pipeline counts plus the five most recent jobs and
// applications. Counts come straight from the database; it is the source of
// truth, not a cache.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())

	var resp dashboardResponse
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&resp.Metrics.TotalJobsDiscovered, db.Model(&database.Job{})},
		{&resp.Metrics.TotalApplications, db.Model(&database.Application{})},
		{&resp.Metrics.PendingApplications, db.Model(&database.Application{}).Where("status = ?", lifecycle.StatusPending)},
		{&resp.Metrics.Interviewing, db.Model(&database.Application{}).Where("status = ?", lifecycle.StatusInterviewing)},
		{&resp.Metrics.Rejected, db.Model(&database.Application{}).Where("status = ?", lifecycle.StatusRejected)},
		{&resp.Metrics.EmailsSent, db.Model(&database.EmailLog{}).Where("status = ?", database.EmailStatusSent)},
		{&resp.Metrics.CoverLettersWritten, db.Model(&database.CoverLetter{})},
	}
	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			Internal(c, "failed to compute dashboard metrics")
			return
		}
	}

	resp.RecentJobs = make([]database.Job, 0, 5)
	if err := db.Order("discovered_at DESC").Limit(5).Find(&resp.RecentJobs).Error; err != nil {
		Internal(c, "failed to query recent jobs")
		return
	}

	resp.RecentApplications = make([]database.Application, 0, 5)
	if err := db.Order("applied_at DESC").Limit(5).Find(&resp.RecentApplications).Error; err != nil {
		Internal(c, "failed to query recent applications")
		return
	}

	c.JSON(http.StatusOK, resp)
}
