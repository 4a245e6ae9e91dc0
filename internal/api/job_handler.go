package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobagent/internal/api/middleware"
	"jobagent/internal/database"
	"jobagent/internal/discovery"
	"jobagent/internal/tasks"
)

// TaskEnqueuer is the slice of asynq.Client the handlers need. Tests fake it.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobHandler serves job discovery and the job store endpoints.
type JobHandler struct {
	db       *gorm.DB
	enqueuer TaskEnqueuer
	registry *discovery.Registry
}

// NewJobHandler constructs a JobHandler.
func NewJobHandler(db *gorm.DB, enqueuer TaskEnqueuer, registry *discovery.Registry) *JobHandler {
	return &JobHandler{db: db, enqueuer: enqueuer, registry: registry}
}

const (
	defaultMaxResults = 50
	minMaxResults     = 10
	maxMaxResults     = 100
)

type searchRequest struct {
	Keywords              []string `json:"keywords"`
	Location              string   `json:"location"`
	JobType               string   `json:"job_type"`
	Platforms             []string `json:"platforms"`
	MaxResultsPerPlatform int      `json:"max_results_per_platform"`
}

// StartSearch validates and persists the search request, enqueues the
// discovery task, and returns the search id immediately. Completion is
// observed by querying the job list or the search record.
func (h *JobHandler) StartSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid JSON: "+err.Error())
		return
	}

	if len(req.Keywords) == 0 {
		BadRequest(c, "keywords must not be empty")
		return
	}
	if req.MaxResultsPerPlatform == 0 {
		req.MaxResultsPerPlatform = defaultMaxResults
	}
	if req.MaxResultsPerPlatform < minMaxResults || req.MaxResultsPerPlatform > maxMaxResults {
		BadRequest(c, "max_results_per_platform must be between 10 and 100")
		return
	}
	if _, err := h.registry.Resolve(req.Platforms); err != nil {
		RespondError(c, err, "failed to resolve platforms")
		return
	}

	platforms := req.Platforms
	if len(platforms) == 0 {
		for _, name := range h.registry.Names() {
			platforms = append(platforms, string(name))
		}
	}

	ctx := c.Request.Context()
	search := database.SearchRequest{
		ID:                    uuid.NewString(),
		Keywords:              datatypes.NewJSONSlice(req.Keywords),
		Location:              req.Location,
		JobType:               req.JobType,
		Platforms:             datatypes.NewJSONSlice(req.Platforms),
		MaxResultsPerPlatform: req.MaxResultsPerPlatform,
		CreatedAt:             time.Now().UTC(),
	}
	if err := h.db.WithContext(ctx).Create(&search).Error; err != nil {
		Internal(c, "failed to save search request")
		return
	}

	task, err := tasks.NewSearchRunTask(search.ID, middleware.GetCorrelationID(c))
	if err != nil {
		Internal(c, "failed to build search task")
		return
	}
	if _, err := h.enqueuer.Enqueue(task); err != nil {
		Internal(c, "failed to enqueue search task")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"search_id": search.ID,
		"platforms": platforms,
	})
}

// GetSearch exposes the per-source outcome of a search run.
func (h *JobHandler) GetSearch(c *gin.Context) {
	var search database.SearchRequest
	err := h.db.WithContext(c.Request.Context()).First(&search, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "search request not found")
			return
		}
		Internal(c, "failed to query search request")
		return
	}
	c.JSON(http.StatusOK, search)
}

// ListJobs returns discovered jobs newest-first with optional filters.
func (h *JobHandler) ListJobs(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&database.Job{})

	if source := c.Query("source"); source != "" {
		if !database.ValidSource(database.JobSource(source)) {
			BadRequest(c, "unknown source "+strconv.Quote(source))
			return
		}
		query = query.Where("source = ?", source)
	}
	if applied := c.Query("applied"); applied != "" {
		value, err := strconv.ParseBool(applied)
		if err != nil {
			BadRequest(c, "applied must be a boolean")
			return
		}
		query = query.Where("applied = ?", value)
	}

	limit := defaultMaxResults
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			BadRequest(c, "limit must be a positive integer")
			return
		}
		if value > maxMaxResults {
			value = maxMaxResults
		}
		limit = value
	}

	jobs := make([]database.Job, 0, limit)
	if err := query.Order("discovered_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		Internal(c, "failed to list jobs")
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// GetJob returns one job by id.
func (h *JobHandler) GetJob(c *gin.Context) {
	var job database.Job
	err := h.db.WithContext(c.Request.Context()).First(&job, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "job not found")
			return
		}
		Internal(c, "failed to query job")
		return
	}
	c.JSON(http.StatusOK, job)
}

type createJobRequest struct {
	Title        string   `json:"title" binding:"required"`
	Company      string   `json:"company" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Location     string   `json:"location"`
	Salary       string   `json:"salary"`
	JobType      string   `json:"job_type"`
	Source       string   `json:"source"`
	URL          string   `json:"url"`
	ContactEmail string   `json:"contact_email"`
	Requirements []string `json:"requirements"`
	Benefits     []string `json:"benefits"`
}

// CreateJob adds a posting by hand. Manual jobs get a synthetic dedup key so
// adding the same posting twice on purpose stays possible. The relevance
// score is computed against the current profile, same as discovered jobs.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid JSON: "+err.Error())
		return
	}

	source := database.SourceManual
	if req.Source != "" {
		source = database.JobSource(req.Source)
		if !database.ValidSource(source) {
			BadRequest(c, "unknown source "+strconv.Quote(req.Source))
			return
		}
	}

	ctx := c.Request.Context()

	var keywords []string
	var profile database.Profile
	if err := h.db.WithContext(ctx).First(&profile).Error; err == nil {
		keywords = profile.TargetKeywords
	}
	score, matched := discovery.Score(req.Title+" "+req.Description, keywords)

	id := uuid.NewString()
	job := database.Job{
		ID:              id,
		Title:           req.Title,
		Company:         req.Company,
		Description:     req.Description,
		Location:        req.Location,
		JobType:         req.JobType,
		Source:          source,
		URL:             req.URL,
		Salary:          req.Salary,
		ContactEmail:    req.ContactEmail,
		Requirements:    datatypes.NewJSONSlice(req.Requirements),
		Benefits:        datatypes.NewJSONSlice(req.Benefits),
		KeywordsMatched: datatypes.NewJSONSlice(matched),
		RelevanceScore:  score,
		DedupKey:        string(source) + ":manual:" + id,
		DiscoveredAt:    time.Now().UTC(),
	}
	if err := h.db.WithContext(ctx).Create(&job).Error; err != nil {
		Internal(c, "failed to create job")
		return
	}
	c.JSON(http.StatusCreated, job)
}

// DeleteJob removes a job. Dependent applications are left in place and
// become orphans; handling them is the caller's call.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	res := h.db.WithContext(c.Request.Context()).Delete(&database.Job{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		Internal(c, "failed to delete job")
		return
	}
	if res.RowsAffected == 0 {
		NotFound(c, "job not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "job deleted"})
}
