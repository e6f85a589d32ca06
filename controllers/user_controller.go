package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"eventloop-api/models"
	"eventloop-api/repositories"
	"eventloop-api/utils"
)

type UserController struct {
	db    *gorm.DB
	users *repositories.UserRepository
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{
		db:    db,
		users: repositories.NewUserRepository(db),
	}
}

type UpdateProfileRequest struct {
	Name        string              `json:"name"`
	Preferences *models.Preferences `json:"preferences"`
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := uc.users.FindByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.users.FindByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Preferences != nil {
		updates["preferences"] = *req.Preferences
	}

	if len(updates) > 0 {
		if err := uc.db.Model(user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	utils.SendSuccess(c, "Profile updated successfully", nil)
}

func (uc *UserController) GetSavedEvents(c *gin.Context) {
	userID := c.GetString("user_id")

	saves, err := uc.users.SavedEventsByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch saved events"})
		return
	}

	if saves == nil {
		saves = []models.SavedEvent{}
	}
	c.JSON(http.StatusOK, saves)
}
