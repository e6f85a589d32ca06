package models

import (
	"time"
)

type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

func (p Proficiency) Valid() bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert:
		return true
	}
	return false
}

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// CanTransitionTo guards status transitions: only a pending application may be
// approved or rejected, decided applications are final.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if s != ApplicationStatusPending {
		return false
	}
	return next == ApplicationStatusApproved || next == ApplicationStatusRejected
}

type SpeakerApplication struct {
	ID               string            `json:"id" gorm:"primaryKey;size:191"`
	UserID           string            `json:"user_id" gorm:"not null;size:191"`
	Topic            string            `json:"topic" gorm:"not null;size:255"`
	Description      string            `json:"description" gorm:"type:text"`
	Proficiency      Proficiency       `json:"proficiency" gorm:"not null;size:20"`
	Tags             StringSlice       `json:"tags" gorm:"type:json"`
	Bio              string            `json:"bio" gorm:"type:text"`
	ProfileLinks     StringSlice       `json:"profile_links" gorm:"type:json"`
	RemoteAvailable  bool              `json:"remote_available" gorm:"default:false"`
	PreferredRegions StringSlice       `json:"preferred_regions" gorm:"type:json"`
	Status           ApplicationStatus `json:"status" gorm:"not null;size:20;default:'pending'"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	User User `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
