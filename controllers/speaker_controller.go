package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventloop-api/models"
	"eventloop-api/utils"
)

type SpeakerController struct {
	db *gorm.DB
}

func NewSpeakerController(db *gorm.DB) *SpeakerController {
	return &SpeakerController{db: db}
}

type SpeakerApplicationRequest struct {
	Topic            string   `json:"topic" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	Proficiency      string   `json:"proficiency" binding:"required"`
	Tags             []string `json:"tags"`
	Bio              string   `json:"bio"`
	ProfileLinks     []string `json:"profile_links"`
	RemoteAvailable  bool     `json:"remote_available"`
	PreferredRegions []string `json:"preferred_regions"`
}

func (sc *SpeakerController) Apply(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SpeakerApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proficiency := models.Proficiency(req.Proficiency)
	if !proficiency.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proficiency level"})
		return
	}

	application := models.SpeakerApplication{
		ID:               uuid.New().String(),
		UserID:           userID,
		Topic:            req.Topic,
		Description:      req.Description,
		Proficiency:      proficiency,
		Tags:             models.StringSlice(req.Tags),
		Bio:              req.Bio,
		ProfileLinks:     models.StringSlice(req.ProfileLinks),
		RemoteAvailable:  req.RemoteAvailable,
		PreferredRegions: models.StringSlice(req.PreferredRegions),
		Status:           models.ApplicationStatusPending,
	}

	if err := sc.db.Create(&application).Error; err != nil {
		utils.SendError(c, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	c.JSON(http.StatusCreated, application)
}

// GetApplications lists the caller's own applications; admins see all, with
// an optional ?status= filter.
func (sc *SpeakerController) GetApplications(c *gin.Context) {
	userID := c.GetString("user_id")
	role := models.Role(c.GetString("role"))

	query := sc.db.Model(&models.SpeakerApplication{}).Order("created_at DESC")
	if role.CanReviewApplications() {
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		query = query.Preload("User")
	} else {
		query = query.Where("user_id = ?", userID)
	}

	var applications []models.SpeakerApplication
	if err := query.Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	for i := range applications {
		applications[i].User.Password = ""
	}

	if applications == nil {
		applications = []models.SpeakerApplication{}
	}
	c.JSON(http.StatusOK, applications)
}

func (sc *SpeakerController) Approve(c *gin.Context) {
	sc.decide(c, models.ApplicationStatusApproved)
}

func (sc *SpeakerController) Reject(c *gin.Context) {
	sc.decide(c, models.ApplicationStatusRejected)
}

func (sc *SpeakerController) decide(c *gin.Context, next models.ApplicationStatus) {
	applicationID := c.Param("id")

	var application models.SpeakerApplication
	if err := sc.db.First(&application, "id = ?", applicationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	if !application.Status.CanTransitionTo(next) {
		c.JSON(http.StatusConflict, gin.H{"error": "Application has already been decided"})
		return
	}

	if err := sc.db.Model(&application).Update("status", next).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Application " + string(next)})
}
