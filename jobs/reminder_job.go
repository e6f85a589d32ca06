package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"eventloop-api/repositories"
	"eventloop-api/services"
)

// ReminderJob runs the reminder dispatcher on a schedule.
type ReminderJob struct {
	service    *services.ReminderService
	daysBefore int
	ticker     *time.Ticker
	done       chan bool
}

// NewReminderJob creates a new reminder job with the given lead time.
func NewReminderJob(db *gorm.DB, mailer services.ReminderMailer, daysBefore int, interval time.Duration) *ReminderJob {
	store := repositories.NewReminderRepository(db)

	return &ReminderJob{
		service:    services.NewReminderService(store, mailer),
		daysBefore: daysBefore,
		ticker:     time.NewTicker(interval),
		done:       make(chan bool),
	}
}

// Start begins the scheduled runs.
func (j *ReminderJob) Start() {
	log.Println("Reminder job started")

	go func() {
		// Run immediately on start
		j.run()

		for {
			select {
			case <-j.ticker.C:
				j.run()
			case <-j.done:
				log.Println("Reminder job stopped")
				return
			}
		}
	}()
}

// Stop stops the scheduled runs.
func (j *ReminderJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *ReminderJob) run() {
	if _, err := j.RunOnce(); err != nil {
		log.Printf("Error during reminder run: %v", err)
	}
}

// RunOnce executes a single dispatcher pass and logs the batch summary.
func (j *ReminderJob) RunOnce() (services.BatchResult, error) {
	result, err := j.service.Run(time.Now(), j.daysBefore)
	if err != nil {
		return result, err
	}

	log.Printf("Reminder run complete: %d sent, %d skipped, %d failed (lead time %d days)",
		result.Sent, result.Skipped, result.Failed, j.daysBefore)
	return result, nil
}
