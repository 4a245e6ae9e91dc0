package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobagent/internal/database"
)

// ProfileHandler serves the singleton candidate profile.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the profile, seeding an empty row on first read so the
// client always has something to edit.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()

	var profile database.Profile
	err := h.db.WithContext(ctx).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now().UTC()
		profile = database.Profile{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
		if err := h.db.WithContext(ctx).Create(&profile).Error; err != nil {
			Internal(c, "failed to seed profile")
			return
		}
	} else if err != nil {
		Internal(c, "failed to query profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

type updateProfileRequest struct {
	FullName          string   `json:"full_name" binding:"required"`
	Email             string   `json:"email" binding:"required,email"`
	Phone             string   `json:"phone"`
	Location          string   `json:"location"`
	Bio               string   `json:"bio"`
	Skills            []string `json:"skills"`
	Experience        []string `json:"experience"`
	Education         []string `json:"education"`
	Languages         []string `json:"languages"`
	PreferredJobTypes []string `json:"preferred_job_types"`
	TargetKeywords    []string `json:"target_keywords"`
}

// UpdateProfile replaces the profile content. This is the only mutation path;
// the scorer and the letter generator read whatever is current here.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid JSON: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	now := time.Now().UTC()

	var profile database.Profile
	err := h.db.WithContext(ctx).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = database.Profile{ID: uuid.NewString(), CreatedAt: now}
	} else if err != nil {
		Internal(c, "failed to query profile")
		return
	}

	profile.FullName = req.FullName
	profile.Email = req.Email
	profile.Phone = req.Phone
	profile.Location = req.Location
	profile.Bio = req.Bio
	profile.Skills = datatypes.NewJSONSlice(req.Skills)
	profile.Experience = datatypes.NewJSONSlice(req.Experience)
	profile.Education = datatypes.NewJSONSlice(req.Education)
	profile.Languages = datatypes.NewJSONSlice(req.Languages)
	profile.PreferredJobTypes = datatypes.NewJSONSlice(req.PreferredJobTypes)
	profile.TargetKeywords = datatypes.NewJSONSlice(req.TargetKeywords)
	profile.UpdatedAt = now

	if err := h.db.WithContext(ctx).Save(&profile).Error; err != nil {
		Internal(c, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}
