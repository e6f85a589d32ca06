package models

import (
	"time"
)

// SavedEvent is the join between a user and an event they bookmarked,
// carrying the email-reminder opt-in. Meaningful at most once per
// (user, event) pair; backed by a unique index added in database.Migrate.
type SavedEvent struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"not null;size:191"`
	EventID       string    `json:"event_id" gorm:"not null;size:191"`
	EmailReminder bool      `json:"email_reminder" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at"`

	User  User  `json:"user" gorm:"foreignKey:UserID"`
	Event Event `json:"event" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// EventReminder is an append-only receipt proving a reminder was sent for a
// (saved_event, event, days_before) tuple. The unique index on that triple is
// the dedup key: a receipt exists exactly once, so overlapping dispatcher runs
// cannot double-send.
type EventReminder struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SavedEventID uint      `json:"saved_event_id" gorm:"not null;uniqueIndex:uk_event_reminders"`
	EventID      string    `json:"event_id" gorm:"not null;size:191;uniqueIndex:uk_event_reminders"`
	DaysBefore   int       `json:"days_before" gorm:"not null;uniqueIndex:uk_event_reminders"`
	SentAt       time.Time `json:"sent_at" gorm:"not null"`

	SavedEvent SavedEvent `json:"saved_event" gorm:"foreignKey:SavedEventID;constraint:OnDelete:CASCADE"`
	Event      Event      `json:"event" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}
