package services

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"eventloop-api/models"
)

const (
	newEventsLimit      = 5
	popularEventsLimit  = 5
	upcomingEventsLimit = 10
	recommendedLimit    = 3

	newEventsWindowDays = 7
	upcomingWindowDays  = 14
	savedTagsKept       = 5
)

// DigestStore is the persistence surface the composer needs.
type DigestStore interface {
	ActiveVerified() ([]models.User, error)
	SavedEventsByUser(userID string) ([]models.SavedEvent, error)
	CreatedSince(since time.Time, limit int) ([]models.Event, error)
	PopularUpcoming(now time.Time, limit int) ([]models.Event, error)
	UpcomingBetween(now, until time.Time, limit int) ([]models.Event, error)
	UpcomingWithAnyTag(now time.Time, tags []string, limit int) ([]models.Event, error)
}

// DigestMailer sends one digest email.
type DigestMailer interface {
	SendWeeklyDigest(user models.User, digest Digest, weekStart, weekEnd time.Time) error
}

// Digest is the assembled content of one weekly email.
type Digest struct {
	NewEvents         []models.Event
	PopularEvents     []models.Event
	UpcomingEvents    []models.Event
	RecommendedEvents []models.Event
}

// HasBaseContent reports whether any of the three base lists is non-empty.
// Recommendations alone never justify a send.
func (d Digest) HasBaseContent() bool {
	return len(d.NewEvents) > 0 || len(d.PopularEvents) > 0 || len(d.UpcomingEvents) > 0
}

type DigestService struct {
	store  DigestStore
	mailer DigestMailer
}

func NewDigestService(store DigestStore, mailer DigestMailer) *DigestService {
	return &DigestService{store: store, mailer: mailer}
}

// Run sends the weekly digest to every active verified user who has digests
// enabled. Per-recipient failures are logged and accumulated, never abort the
// loop. If the three base categories are all empty the whole run is skipped.
func (s *DigestService) Run(now time.Time) (BatchResult, error) {
	var result BatchResult

	users, err := s.store.ActiveVerified()
	if err != nil {
		return result, fmt.Errorf("failed to load digest recipients: %w", err)
	}

	weekStart, weekEnd := weekBounds(now)

	for _, user := range users {
		if !user.Preferences.WeeklyDigest {
			result.addSkipped(user.Email, "", "digest disabled")
			continue
		}

		digest, err := s.BuildDigest(user, now)
		if err != nil {
			log.Printf("digest: failed to build for %s: %v", user.Email, err)
			result.addFailed(user.Email, "", err.Error())
			continue
		}

		if !digest.HasBaseContent() {
			result.addSkipped(user.Email, "", "no events to report")
			continue
		}

		if err := s.mailer.SendWeeklyDigest(user, digest, weekStart, weekEnd); err != nil {
			log.Printf("digest: send failed for %s: %v", user.Email, err)
			result.addFailed(user.Email, "", err.Error())
			continue
		}

		result.addSent(user.Email, "")
	}

	return result, nil
}

// BuildDigest assembles the four event lists for one recipient.
func (s *DigestService) BuildDigest(user models.User, now time.Time) (Digest, error) {
	var digest Digest
	var err error

	digest.NewEvents, err = s.store.CreatedSince(now.AddDate(0, 0, -newEventsWindowDays), newEventsLimit)
	if err != nil {
		return digest, fmt.Errorf("failed to load new events: %w", err)
	}

	digest.PopularEvents, err = s.store.PopularUpcoming(now, popularEventsLimit)
	if err != nil {
		return digest, fmt.Errorf("failed to load popular events: %w", err)
	}

	digest.UpcomingEvents, err = s.store.UpcomingBetween(now, now.AddDate(0, 0, upcomingWindowDays), upcomingEventsLimit)
	if err != nil {
		return digest, fmt.Errorf("failed to load upcoming events: %w", err)
	}

	saves, err := s.store.SavedEventsByUser(user.ID)
	if err != nil {
		return digest, fmt.Errorf("failed to load saved events: %w", err)
	}

	preferred := PreferredTags(saves, user.Preferences.PreferredTopics)
	if len(preferred) > 0 {
		digest.RecommendedEvents, err = s.store.UpcomingWithAnyTag(now, preferred, recommendedLimit)
		if err != nil {
			return digest, fmt.Errorf("failed to load recommendations: %w", err)
		}
	}

	return digest, nil
}

// SendTest sends exactly one digest built from sample data to the given
// address, bypassing the recipient query. Used to smoke-test templates and
// SMTP settings.
func (s *DigestService) SendTest(to string, now time.Time) error {
	user := models.User{
		Name:  "Test Recipient",
		Email: to,
	}

	sample := func(title, location string, format models.EventFormat, startIn time.Duration, tags ...string) models.Event {
		return models.Event{
			ID:               "sample-" + strings.ToLower(strings.ReplaceAll(title, " ", "-")),
			Title:            title,
			ShortDescription: "Sample event used for digest test sends.",
			Location:         location,
			Format:           format,
			StartDate:        now.Add(startIn),
			EndDate:          now.Add(startIn + 2*time.Hour),
			Tags:             models.StringSlice(tags),
		}
	}

	digest := Digest{
		NewEvents: []models.Event{
			sample("Go Meetup: Error Handling Patterns", "Berlin", models.EventFormatInPerson, 72*time.Hour, "go"),
		},
		PopularEvents: []models.Event{
			sample("CloudNative Days", "Online", models.EventFormatOnline, 9*24*time.Hour, "kubernetes", "devops"),
		},
		UpcomingEvents: []models.Event{
			sample("Rust Workshop: Ownership Deep Dive", "Amsterdam", models.EventFormatHybrid, 12*24*time.Hour, "rust"),
		},
		RecommendedEvents: []models.Event{
			sample("Distributed Systems Reading Group", "Online", models.EventFormatOnline, 5*24*time.Hour, "go", "distributed-systems"),
		},
	}

	weekStart, weekEnd := weekBounds(now)
	return s.mailer.SendWeeklyDigest(user, digest, weekStart, weekEnd)
}

// PreferredTags derives a user's preferred tag set: tags on their saved events
// ranked by frequency (top 5 kept, count descending, alphabetical tie-break)
// unioned with their explicit topic preferences. Duplicates removed, result
// lowercased; an empty result means no recommendations.
func PreferredTags(saves []models.SavedEvent, explicit []string) []string {
	counts := make(map[string]int)
	for _, save := range saves {
		for _, tag := range save.Event.Tags {
			name := strings.ToLower(strings.TrimSpace(tag))
			if name == "" {
				continue
			}
			counts[name]++
		}
	}

	ranked := make([]string, 0, len(counts))
	for name := range counts {
		ranked = append(ranked, name)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > savedTagsKept {
		ranked = ranked[:savedTagsKept]
	}

	seen := make(map[string]bool, len(ranked))
	preferred := make([]string, 0, len(ranked)+len(explicit))
	for _, name := range ranked {
		seen[name] = true
		preferred = append(preferred, name)
	}
	for _, tag := range explicit {
		name := strings.ToLower(strings.TrimSpace(tag))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		preferred = append(preferred, name)
	}

	return preferred
}

// weekBounds returns the Monday and Sunday of the week containing t.
func weekBounds(t time.Time) (time.Time, time.Time) {
	day := startOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	weekStart := day.AddDate(0, 0, -(weekday - 1))
	weekEnd := weekStart.AddDate(0, 0, 6)
	return weekStart, weekEnd
}
