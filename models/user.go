package models

import (
	"time"
)

type Role string

const (
	RoleAttendee  Role = "attendee"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// Valid reports whether the role is one of the closed enumeration values.
func (r Role) Valid() bool {
	switch r {
	case RoleAttendee, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// CanManageEvents reports whether the role may create, update or delete events.
func (r Role) CanManageEvents() bool {
	return r == RoleOrganizer || r == RoleAdmin
}

// CanReviewApplications reports whether the role may approve or reject
// speaker applications.
func (r Role) CanReviewApplications() bool {
	return r == RoleAdmin
}

type User struct {
	ID          string      `json:"id" gorm:"primaryKey;size:191"`
	Name        string      `json:"name" gorm:"not null;size:255"`
	Username    string      `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email       string      `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password    string      `json:"-" gorm:"not null;size:255"`
	Role        Role        `json:"role" gorm:"not null;size:20;default:'attendee'"`
	IsActive    bool        `json:"is_active" gorm:"default:true"`
	Preferences Preferences `json:"preferences" gorm:"type:json"`
	VerifiedAt  *time.Time  `json:"verified_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Relationships
	Events              []Event              `json:"events,omitempty" gorm:"foreignKey:OrganizerID;constraint:OnDelete:CASCADE"`
	SavedEvents         []SavedEvent         `json:"saved_events,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	SpeakerApplications []SpeakerApplication `json:"speaker_applications,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// IsVerified reports whether the user confirmed their email address.
func (u *User) IsVerified() bool {
	return u.VerifiedAt != nil
}
