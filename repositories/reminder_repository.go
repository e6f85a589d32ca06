package repositories

import (
	"time"

	"gorm.io/gorm"

	"eventloop-api/models"
)

type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// EventsStartingBetween returns events whose start date falls in [from, to).
func (r *ReminderRepository) EventsStartingBetween(from, to time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("start_date >= ? AND start_date < ?", from, to).
		Order("start_date ASC, id ASC").Find(&events).Error
	return events, err
}

// RemindableSaves returns the saved-event opt-ins for an event whose owners
// are active and have reminders enabled.
func (r *ReminderRepository) RemindableSaves(eventID string) ([]models.SavedEvent, error) {
	var saves []models.SavedEvent
	err := r.db.Preload("User").
		Joins("JOIN users ON users.id = saved_events.user_id").
		Where("saved_events.event_id = ? AND saved_events.email_reminder = ?", eventID, true).
		Where("users.is_active = ?", true).
		Find(&saves).Error
	return saves, err
}

// ReminderExists reports whether a receipt already exists for the
// (saved_event, event, days_before) tuple.
func (r *ReminderRepository) ReminderExists(savedEventID uint, eventID string, daysBefore int) (bool, error) {
	var count int64
	err := r.db.Model(&models.EventReminder{}).
		Where("saved_event_id = ? AND event_id = ? AND days_before = ?", savedEventID, eventID, daysBefore).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecordReminder writes the receipt for a successful send. A duplicate-key
// error means a concurrent run already recorded the same tuple; callers treat
// that as already sent.
func (r *ReminderRepository) RecordReminder(reminder *models.EventReminder) error {
	return r.db.Create(reminder).Error
}

