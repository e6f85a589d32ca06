package services

import (
	"fmt"
	"log"
	"time"

	"eventloop-api/models"
)

// ReminderStore is the persistence surface the dispatcher needs.
type ReminderStore interface {
	EventsStartingBetween(from, to time.Time) ([]models.Event, error)
	RemindableSaves(eventID string) ([]models.SavedEvent, error)
	ReminderExists(savedEventID uint, eventID string, daysBefore int) (bool, error)
	RecordReminder(reminder *models.EventReminder) error
}

// ReminderMailer sends a single reminder email.
type ReminderMailer interface {
	SendEventReminder(user models.User, event models.Event, daysBefore int) error
}

type ReminderService struct {
	store  ReminderStore
	mailer ReminderMailer
}

func NewReminderService(store ReminderStore, mailer ReminderMailer) *ReminderService {
	return &ReminderService{store: store, mailer: mailer}
}

// Run dispatches reminders for all events starting on the calendar day that is
// daysBefore days from now. Each recipient is handled in isolation: a failed
// send is logged and counted, never aborts the loop, and leaves no receipt so
// the next run retries it. A receipt for the (saved_event, event, days_before)
// tuple means the reminder was already sent, ever; the unique index on the
// receipt table holds that under overlapping runs too.
func (s *ReminderService) Run(now time.Time, daysBefore int) (BatchResult, error) {
	var result BatchResult

	if daysBefore < 1 {
		daysBefore = 1
	}

	windowStart := startOfDay(now.AddDate(0, 0, daysBefore))
	windowEnd := windowStart.Add(24 * time.Hour)

	events, err := s.store.EventsStartingBetween(windowStart, windowEnd)
	if err != nil {
		return result, fmt.Errorf("failed to load events for reminder window: %w", err)
	}

	for _, event := range events {
		saves, err := s.store.RemindableSaves(event.ID)
		if err != nil {
			log.Printf("reminders: failed to load opt-ins for event %s: %v", event.ID, err)
			continue
		}

		for _, save := range saves {
			exists, err := s.store.ReminderExists(save.ID, event.ID, daysBefore)
			if err != nil {
				log.Printf("reminders: dedup check failed for %s / event %s: %v", save.User.Email, event.ID, err)
				result.addFailed(save.User.Email, event.ID, err.Error())
				continue
			}
			if exists {
				result.addSkipped(save.User.Email, event.ID, "already sent")
				continue
			}

			if err := s.mailer.SendEventReminder(save.User, event, daysBefore); err != nil {
				log.Printf("reminders: send failed for %s / event %s: %v", save.User.Email, event.ID, err)
				result.addFailed(save.User.Email, event.ID, err.Error())
				continue
			}

			receipt := &models.EventReminder{
				SavedEventID: save.ID,
				EventID:      event.ID,
				DaysBefore:   daysBefore,
				SentAt:       now,
			}
			if err := s.store.RecordReminder(receipt); err != nil {
				// Most likely a unique-key violation from a concurrent run;
				// the email went out either way.
				log.Printf("reminders: could not record receipt for %s / event %s: %v", save.User.Email, event.ID, err)
			}

			result.addSent(save.User.Email, event.ID)
		}
	}

	return result, nil
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
