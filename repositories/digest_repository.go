package repositories

import (
	"gorm.io/gorm"
)

// DigestRepository bundles the user and event read paths the digest composer
// needs behind one value.
type DigestRepository struct {
	*UserRepository
	*EventRepository
}

func NewDigestRepository(db *gorm.DB) *DigestRepository {
	return &DigestRepository{
		UserRepository:  NewUserRepository(db),
		EventRepository: NewEventRepository(db),
	}
}
