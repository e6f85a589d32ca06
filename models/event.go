package models

import (
	"strings"
	"time"
)

type EventType string

const (
	EventTypeMeetup     EventType = "Meetup"
	EventTypeConference EventType = "Conference"
	EventTypeWorkshop   EventType = "Workshop"
	EventTypeHackathon  EventType = "Hackathon"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeMeetup, EventTypeConference, EventTypeWorkshop, EventTypeHackathon:
		return true
	}
	return false
}

type EventFormat string

const (
	EventFormatOnline   EventFormat = "online"
	EventFormatInPerson EventFormat = "in-person"
	EventFormatHybrid   EventFormat = "hybrid"
)

func (f EventFormat) Valid() bool {
	switch f {
	case EventFormatOnline, EventFormatInPerson, EventFormatHybrid:
		return true
	}
	return false
}

type Event struct {
	ID               string      `json:"id" gorm:"primaryKey;size:191"`
	Title            string      `json:"title" gorm:"not null;size:255"`
	ShortDescription string      `json:"short_description" gorm:"size:500"`
	LongDescription  string      `json:"long_description" gorm:"type:text"`
	Location         string      `json:"location" gorm:"size:255"`
	Region           string      `json:"region" gorm:"size:100;index"`
	StartDate        time.Time   `json:"start_date" gorm:"not null;index"`
	EndDate          time.Time   `json:"end_date" gorm:"not null"`
	Type             EventType   `json:"type" gorm:"not null;size:50"`
	Format           EventFormat `json:"format" gorm:"not null;size:50"`
	HeaderImage      string      `json:"header_image" gorm:"size:500"`
	OrganizerImage   string      `json:"organizer_image" gorm:"size:500"`
	Tags             StringSlice `json:"tags" gorm:"type:json"`
	OrganizerID      string      `json:"organizer_id" gorm:"not null;size:191"`
	AttendeeCount    int         `json:"attendee_count" gorm:"default:0"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	Organizer User         `json:"organizer" gorm:"foreignKey:OrganizerID;constraint:OnDelete:CASCADE"`
	SavedBy   []SavedEvent `json:"saved_by,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// HasAnyTag reports whether the event carries at least one of the given tags.
// Comparison is case-insensitive, matching the filter engine's OR semantics.
func (e *Event) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range e.Tags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}
