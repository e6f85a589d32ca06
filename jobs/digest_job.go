package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"eventloop-api/repositories"
	"eventloop-api/services"
)

// DigestJob runs the weekly digest composer on a schedule.
type DigestJob struct {
	service *services.DigestService
	ticker  *time.Ticker
	done    chan bool
}

func NewDigestJob(db *gorm.DB, mailer services.DigestMailer, interval time.Duration) *DigestJob {
	store := repositories.NewDigestRepository(db)

	return &DigestJob{
		service: services.NewDigestService(store, mailer),
		ticker:  time.NewTicker(interval),
		done:    make(chan bool),
	}
}

// Start begins the scheduled runs.
func (j *DigestJob) Start() {
	log.Println("Digest job started")

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.run()
			case <-j.done:
				log.Println("Digest job stopped")
				return
			}
		}
	}()
}

// Stop stops the scheduled runs.
func (j *DigestJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *DigestJob) run() {
	if _, err := j.RunOnce(); err != nil {
		log.Printf("Error during digest run: %v", err)
	}
}

// RunOnce executes a single digest pass and logs the batch summary.
func (j *DigestJob) RunOnce() (services.BatchResult, error) {
	result, err := j.service.Run(time.Now())
	if err != nil {
		return result, err
	}

	log.Printf("Digest run complete: %d sent, %d skipped, %d failed",
		result.Sent, result.Skipped, result.Failed)
	return result, nil
}

// RunTest sends a single sample digest to the given address.
func (j *DigestJob) RunTest(to string) error {
	return j.service.SendTest(to, time.Now())
}
