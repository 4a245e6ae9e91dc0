package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything RegisterRoutes needs to wire the API surface.
type Handlers struct {
	Jobs         *JobHandler
	Profile      *ProfileHandler
	Applications *ApplicationHandler
	CoverLetters *CoverLetterHandler
	Emails       *EmailHandler
	Analytics    *AnalyticsHandler
}

// RegisterRoutes mounts every endpoint under /api.
func RegisterRoutes(router *gin.Engine, h Handlers) {
	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	jobs := api.Group("/jobs")
	{
		jobs.POST("/search", h.Jobs.StartSearch)
		jobs.GET("/search/:id", h.Jobs.GetSearch)
		jobs.GET("", h.Jobs.ListJobs)
		jobs.POST("", h.Jobs.CreateJob)
		jobs.GET("/:id", h.Jobs.GetJob)
		jobs.DELETE("/:id", h.Jobs.DeleteJob)
	}

	api.GET("/profile", h.Profile.GetProfile)
	api.PUT("/profile", h.Profile.UpdateProfile)

	applications := api.Group("/applications")
	{
		applications.POST("", h.Applications.CreateApplication)
		applications.GET("", h.Applications.ListApplications)
		applications.PUT("/:id/status", h.Applications.UpdateStatus)
	}

	coverLetters := api.Group("/cover-letters")
	{
		coverLetters.POST("/generate", h.CoverLetters.GenerateLetter)
		coverLetters.GET("", h.CoverLetters.ListLetters)
		coverLetters.GET("/:id", h.CoverLetters.GetLetter)
	}

	emails := api.Group("/emails")
	{
		emails.POST("/send-application", h.Emails.SendApplication)
		emails.GET("/logs", h.Emails.ListLogs)
	}

	api.GET("/analytics/dashboard", h.Analytics.Dashboard)
}
