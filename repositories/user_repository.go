package repositories

import (
	"gorm.io/gorm"

	"eventloop-api/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ActiveVerified returns the digest recipient population: active users with a
// confirmed email address.
func (r *UserRepository) ActiveVerified() ([]models.User, error) {
	var users []models.User
	err := r.db.Where("is_active = ? AND verified_at IS NOT NULL", true).
		Order("id ASC").Find(&users).Error
	return users, err
}

// SavedEventsByUser returns a user's saved events with the event rows loaded,
// feeding the digest personalization.
func (r *UserRepository) SavedEventsByUser(userID string) ([]models.SavedEvent, error) {
	var saves []models.SavedEvent
	err := r.db.Preload("Event").Where("user_id = ?", userID).Find(&saves).Error
	return saves, err
}
