package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eventloop-api/models"
)

type fakeDigestStore struct {
	users       []models.User
	savesByUser map[string][]models.SavedEvent

	newEvents      []models.Event
	popularEvents  []models.Event
	upcomingEvents []models.Event
	recommended    []models.Event

	requestedTags  []string
	requestedLimit int
}

func (f *fakeDigestStore) ActiveVerified() ([]models.User, error) {
	return f.users, nil
}

func (f *fakeDigestStore) SavedEventsByUser(userID string) ([]models.SavedEvent, error) {
	return f.savesByUser[userID], nil
}

func (f *fakeDigestStore) CreatedSince(since time.Time, limit int) ([]models.Event, error) {
	return f.newEvents, nil
}

func (f *fakeDigestStore) PopularUpcoming(now time.Time, limit int) ([]models.Event, error) {
	return f.popularEvents, nil
}

func (f *fakeDigestStore) UpcomingBetween(now, until time.Time, limit int) ([]models.Event, error) {
	return f.upcomingEvents, nil
}

func (f *fakeDigestStore) UpcomingWithAnyTag(now time.Time, tags []string, limit int) ([]models.Event, error) {
	f.requestedTags = tags
	f.requestedLimit = limit
	return f.recommended, nil
}

type sentDigest struct {
	email  string
	digest Digest
}

type fakeDigestMailer struct {
	sent    []sentDigest
	failFor map[string]error
}

func (f *fakeDigestMailer) SendWeeklyDigest(user models.User, digest Digest, weekStart, weekEnd time.Time) error {
	if err := f.failFor[user.Email]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentDigest{email: user.Email, digest: digest})
	return nil
}

func digestUser(id, email string, topics ...string) models.User {
	return models.User{
		ID:    id,
		Email: email,
		Name:  "Digest User",
		Preferences: models.Preferences{
			WeeklyDigest:    true,
			PreferredTopics: topics,
		},
	}
}

func saveOf(tags ...string) models.SavedEvent {
	return models.SavedEvent{Event: models.Event{Tags: models.StringSlice(tags)}}
}

func TestPreferredTagsRanksSavedTagsByFrequency(t *testing.T) {
	saves := []models.SavedEvent{
		saveOf("Go", "rust"),
		saveOf("go", "rust"),
		saveOf("go"),
	}

	preferred := PreferredTags(saves, nil)

	assert.Equal(t, []string{"go", "rust"}, preferred)
}

func TestPreferredTagsKeepsTopFiveAndUnionsExplicit(t *testing.T) {
	saves := []models.SavedEvent{
		saveOf("a", "b", "c", "d", "e", "f"),
		saveOf("a", "b", "c", "d", "e"),
	}

	preferred := PreferredTags(saves, []string{"Kubernetes", "a"})

	// f occurs once and falls off the top five; explicit tags join deduped
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e", "kubernetes"}, preferred)
}

func TestPreferredTagsEmptyWithoutSavesOrExplicit(t *testing.T) {
	assert.Empty(t, PreferredTags(nil, nil))
}

func TestDigestRunSkipsWhenBaseCategoriesEmpty(t *testing.T) {
	store := &fakeDigestStore{
		users:       []models.User{digestUser("u1", "u1@example.com", "go")},
		savesByUser: map[string][]models.SavedEvent{},
		// Recommendations alone must not trigger a send
		recommended: []models.Event{{ID: "rec", Tags: models.StringSlice{"go"}}},
	}
	mailer := &fakeDigestMailer{}
	service := NewDigestService(store, mailer)

	result, err := service.Run(time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, mailer.sent)
}

func TestDigestRunRequestsRecommendationsForPreferredTags(t *testing.T) {
	now := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)

	store := &fakeDigestStore{
		users: []models.User{digestUser("u1", "u1@example.com")},
		savesByUser: map[string][]models.SavedEvent{
			"u1": {saveOf("go", "rust"), saveOf("go", "rust"), saveOf("go", "rust")},
		},
		upcomingEvents: []models.Event{{ID: "up-1"}},
		recommended: []models.Event{
			{ID: "rec-1", Tags: models.StringSlice{"go"}},
			{ID: "rec-2", Tags: models.StringSlice{"rust"}},
		},
	}
	mailer := &fakeDigestMailer{}
	service := NewDigestService(store, mailer)

	result, err := service.Run(now)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, []string{"go", "rust"}, store.requestedTags)
	assert.Equal(t, recommendedLimit, store.requestedLimit)

	digest := mailer.sent[0].digest
	assert.LessOrEqual(t, len(digest.RecommendedEvents), recommendedLimit)
	for _, event := range digest.RecommendedEvents {
		assert.True(t, event.HasAnyTag([]string{"go", "rust"}))
	}
}

func TestDigestRunSkipsRecommendationQueryWithoutPreferredTags(t *testing.T) {
	store := &fakeDigestStore{
		users:          []models.User{digestUser("u1", "u1@example.com")},
		savesByUser:    map[string][]models.SavedEvent{},
		upcomingEvents: []models.Event{{ID: "up-1"}},
		requestedLimit: -1,
	}
	mailer := &fakeDigestMailer{}
	service := NewDigestService(store, mailer)

	result, err := service.Run(time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	// UpcomingWithAnyTag never called
	assert.Equal(t, -1, store.requestedLimit)
	assert.Empty(t, mailer.sent[0].digest.RecommendedEvents)
}

func TestDigestRunIsolatesPerRecipientFailures(t *testing.T) {
	store := &fakeDigestStore{
		users: []models.User{
			digestUser("u1", "broken@example.com"),
			digestUser("u2", "fine@example.com"),
		},
		savesByUser:    map[string][]models.SavedEvent{},
		upcomingEvents: []models.Event{{ID: "up-1"}},
	}
	mailer := &fakeDigestMailer{failFor: map[string]error{"broken@example.com": errors.New("smtp timeout")}}
	service := NewDigestService(store, mailer)

	result, err := service.Run(time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, mailer.sent, 1)
	assert.Equal(t, "fine@example.com", mailer.sent[0].email)
}

func TestDigestRunRespectsWeeklyDigestToggle(t *testing.T) {
	user := digestUser("u1", "optout@example.com")
	user.Preferences.WeeklyDigest = false

	store := &fakeDigestStore{
		users:          []models.User{user},
		savesByUser:    map[string][]models.SavedEvent{},
		upcomingEvents: []models.Event{{ID: "up-1"}},
	}
	mailer := &fakeDigestMailer{}
	service := NewDigestService(store, mailer)

	result, err := service.Run(time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, mailer.sent)
}

func TestSendTestSendsExactlyOneSampleDigest(t *testing.T) {
	mailer := &fakeDigestMailer{}
	service := NewDigestService(&fakeDigestStore{}, mailer)

	err := service.SendTest("qa@example.com", time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Len(t, mailer.sent, 1)
	assert.Equal(t, "qa@example.com", mailer.sent[0].email)
	assert.True(t, mailer.sent[0].digest.HasBaseContent())
}

func TestWeekBounds(t *testing.T) {
	// Wednesday
	start, end := weekBounds(time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), end)

	// Sunday belongs to the week that started the previous Monday
	start, end = weekBounds(time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), end)
}
