package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"eventloop-api/config"
	"eventloop-api/database"
	"eventloop-api/jobs"
	"eventloop-api/routes"
	"eventloop-api/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	emailService := services.NewEmailService(cfg)

	// Scheduled jobs run as subcommands so a cron-like scheduler can invoke
	// them: `eventloop-api reminders -days 1` / `eventloop-api digest -to addr`
	if len(os.Args) > 1 {
		runCommand(os.Args[1], os.Args[2:], db, cfg, emailService)
		return
	}

	// Seed database with test data (optional - for development)
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.Default()

	// Setup CORS middleware
	router.Use(routes.SetupCORS())

	// Setup routes
	routes.SetupRoutes(router, db, cfg)

	// Optionally run the batch jobs in-process instead of via cron
	if cfg.EnableScheduler {
		reminderJob := jobs.NewReminderJob(db, emailService, cfg.ReminderLeadDays, 24*time.Hour)
		reminderJob.Start()
		defer reminderJob.Stop()

		digestJob := jobs.NewDigestJob(db, emailService, 7*24*time.Hour)
		digestJob.Start()
		defer digestJob.Stop()
	}

	// Start server
	log.Printf("Starting eventLoop API server on port %s", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func runCommand(name string, args []string, db *gorm.DB, cfg *config.Config, emailService *services.EmailService) {
	switch name {
	case "reminders":
		fs := flag.NewFlagSet("reminders", flag.ExitOnError)
		days := fs.Int("days", cfg.ReminderLeadDays, "lead time in days before event start")
		_ = fs.Parse(args)

		job := jobs.NewReminderJob(db, emailService, *days, time.Hour)
		if _, err := job.RunOnce(); err != nil {
			log.Fatal("Reminder run failed:", err)
		}

	case "digest":
		fs := flag.NewFlagSet("digest", flag.ExitOnError)
		to := fs.String("to", "", "send a single sample digest to this address instead of all recipients")
		_ = fs.Parse(args)

		job := jobs.NewDigestJob(db, emailService, time.Hour)
		if *to != "" {
			if err := job.RunTest(*to); err != nil {
				log.Fatal("Digest test send failed:", err)
			}
			log.Printf("Sample digest sent to %s", *to)
			return
		}
		if _, err := job.RunOnce(); err != nil {
			log.Fatal("Digest run failed:", err)
		}

	default:
		log.Fatalf("Unknown command %q (expected \"reminders\" or \"digest\")", name)
	}
}
