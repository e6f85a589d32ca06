package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eventloop-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.SavedEvent{},
		&models.EventReminder{},
		&models.SpeakerApplication{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := addCustomIndexes(db); err != nil {
		return fmt.Errorf("failed to add custom indexes: %w", err)
	}

	if err := addDatabaseConstraints(db); err != nil {
		return fmt.Errorf("failed to add database constraints: %w", err)
	}

	return nil
}

func addCustomIndexes(db *gorm.DB) error {
	// Composite indexes for the hot query paths

	// Filter engine: upcoming listings ordered by start date
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_events_start_id ON events(start_date, id)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for events start_date: %v\n", err)
	}

	// "Popular" sort
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_events_attendee_count ON events(attendee_count DESC)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for events attendee_count: %v\n", err)
	}

	// Reminder dispatcher: opt-ins per event
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_saved_events_event_reminder ON saved_events(event_id, email_reminder)").Error; err != nil {
		fmt.Printf("Warning: Could not create index for saved_events: %v\n", err)
	}

	return nil
}

func addDatabaseConstraints(db *gorm.DB) error {
	// Prevent duplicate saves of the same event by the same user
	if err := db.Exec("ALTER TABLE saved_events ADD CONSTRAINT uk_saved_events_user_event UNIQUE (user_id, event_id)").Error; err != nil {
		// Ignore error if constraint already exists
		fmt.Printf("Warning: Could not add unique constraint for saved_events: %v\n", err)
	}

	// The receipt dedup key; AutoMigrate creates uk_event_reminders from the
	// model tags, this is a belt for databases migrated before that index existed
	if err := db.Exec("ALTER TABLE event_reminders ADD CONSTRAINT uk_event_reminders_tuple UNIQUE (saved_event_id, event_id, days_before)").Error; err != nil {
		fmt.Printf("Warning: Could not add unique constraint for event_reminders: %v\n", err)
	}

	return nil
}

// SeedData can be used to populate the database with initial data for development/testing
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		fmt.Println("Database already has data, skipping seed")
		return nil
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	now := time.Now()
	verified := now.Add(-24 * time.Hour)

	testUsers := []models.User{
		{
			ID:         "user-1",
			Name:       "Ada Coleman",
			Username:   "ada_coleman",
			Email:      "ada@example.com",
			Password:   string(hashed),
			Role:       models.RoleOrganizer,
			IsActive:   true,
			VerifiedAt: &verified,
			Preferences: models.Preferences{
				EmailReminders: true,
				WeeklyDigest:   true,
			},
		},
		{
			ID:         "user-2",
			Name:       "Marco Ruiz",
			Username:   "marco_ruiz",
			Email:      "marco@example.com",
			Password:   string(hashed),
			Role:       models.RoleAttendee,
			IsActive:   true,
			VerifiedAt: &verified,
			Preferences: models.Preferences{
				EmailReminders:  true,
				WeeklyDigest:    true,
				PreferredTopics: []string{"go", "kubernetes"},
			},
		},
	}

	for _, user := range testUsers {
		if err := db.Create(&user).Error; err != nil {
			fmt.Printf("Warning: Could not create test user %s: %v\n", user.Username, err)
		}
	}

	testEvents := []models.Event{
		{
			ID:               uuid.New().String(),
			Title:            "Go Meetup: Generics in Practice",
			ShortDescription: "Lightning talks and live coding around Go generics.",
			LongDescription:  "An evening of lightning talks, live coding and pizza. Bring your own laptop for the hands-on part.",
			Location:         "Berlin",
			Region:           "Europe",
			StartDate:        now.AddDate(0, 0, 7),
			EndDate:          now.AddDate(0, 0, 7).Add(3 * time.Hour),
			Type:             models.EventTypeMeetup,
			Format:           models.EventFormatInPerson,
			Tags:             models.StringSlice{"go", "generics"},
			OrganizerID:      "user-1",
		},
		{
			ID:               uuid.New().String(),
			Title:            "CloudNative Days",
			ShortDescription: "Two days of Kubernetes, observability and platform engineering.",
			LongDescription:  "A two-day conference covering Kubernetes, service meshes, observability and platform engineering, with hallway tracks and a hackspace.",
			Location:         "Online",
			Region:           "Global",
			StartDate:        now.AddDate(0, 0, 14),
			EndDate:          now.AddDate(0, 0, 15),
			Type:             models.EventTypeConference,
			Format:           models.EventFormatOnline,
			Tags:             models.StringSlice{"kubernetes", "cloud", "devops"},
			OrganizerID:      "user-1",
		},
	}

	for _, event := range testEvents {
		if err := db.Create(&event).Error; err != nil {
			fmt.Printf("Warning: Could not create test event %s: %v\n", event.Title, err)
		}
	}

	fmt.Println("Database seeded with test users and events")
	return nil
}
