package repositories

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"

	"eventloop-api/models"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 50
)

// EventFilter holds the filter parameters accepted by the event listing and
// tag aggregation endpoints. All fields are optional; zero values mean
// "no constraint".
type EventFilter struct {
	Search       string
	Tags         []string
	Type         models.EventType
	Format       models.EventFormat
	Region       string
	StartDate    *time.Time
	EndDate      *time.Time
	UpcomingOnly bool
	Sort         string // "start_date" (default), "popular", "newest"
	Page         int
	PerPage      int
}

// Normalize clamps pagination to valid ranges.
func (f *EventFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
}

// Offset returns the row offset for the current page (0-based).
func (f EventFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// buildQuery translates the filter into a gorm query. Tag filters use OR
// semantics (any requested tag matches), everything else combines with AND.
func (r *EventRepository) buildQuery(filter EventFilter, now time.Time) *gorm.DB {
	query := r.db.Model(&models.Event{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR short_description LIKE ? OR long_description LIKE ?", like, like, like)
	}

	if len(filter.Tags) > 0 {
		cond := r.db.Where("JSON_CONTAINS(LOWER(tags), ?)", jsonString(filter.Tags[0]))
		for _, tag := range filter.Tags[1:] {
			cond = cond.Or("JSON_CONTAINS(LOWER(tags), ?)", jsonString(tag))
		}
		query = query.Where(cond)
	}

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	if filter.Format != "" {
		query = query.Where("format = ?", filter.Format)
	}

	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}

	if filter.StartDate != nil {
		query = query.Where("start_date >= ?", *filter.StartDate)
	}

	if filter.EndDate != nil {
		query = query.Where("start_date <= ?", *filter.EndDate)
	}

	if filter.UpcomingOnly {
		query = query.Where("start_date >= ?", now)
	}

	return query
}

// List returns one page of events matching the filter plus the total match
// count. Ordering is deterministic: ties on the sort key break by id ascending.
func (r *EventRepository) List(filter EventFilter, now time.Time) ([]models.Event, int64, error) {
	filter.Normalize()

	query := r.buildQuery(filter, now)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "popular":
		query = query.Order("attendee_count DESC, id ASC")
	case "newest":
		query = query.Order("created_at DESC, id ASC")
	default:
		query = query.Order("start_date ASC, id ASC")
	}

	var events []models.Event
	err := query.Offset(filter.Offset()).Limit(filter.PerPage).Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// ListForTags returns the full (unpaginated) filtered population for the tag
// aggregator. The tag filter itself is ignored to avoid circularity.
func (r *EventRepository) ListForTags(filter EventFilter, now time.Time) ([]models.Event, error) {
	filter.Tags = nil

	var events []models.Event
	err := r.buildQuery(filter, now).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) FindByID(id string) (*models.Event, error) {
	var event models.Event
	err := r.db.Preload("Organizer").First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *EventRepository) Update(event *models.Event, updates map[string]interface{}) error {
	return r.db.Model(event).Updates(updates).Error
}

// Delete removes an event together with its saved-event rows and receipts,
// in dependency order.
func (r *EventRepository) Delete(eventID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventReminder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.SavedEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, "id = ?", eventID).Error
	})
}

// AdjustAttendeeCount shifts the denormalized attendee counter that feeds the
// "popular" sort.
func (r *EventRepository) AdjustAttendeeCount(eventID string, delta int) error {
	return r.db.Model(&models.Event{}).Where("id = ?", eventID).
		UpdateColumn("attendee_count", gorm.Expr("attendee_count + ?", delta)).Error
}

// CreatedSince returns the most recently created events since the given time,
// newest first.
func (r *EventRepository) CreatedSince(since time.Time, limit int) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("created_at >= ?", since).
		Order("created_at DESC, id ASC").Limit(limit).Find(&events).Error
	return events, err
}

// PopularUpcoming returns upcoming events ranked by attendee count descending.
func (r *EventRepository) PopularUpcoming(now time.Time, limit int) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("start_date >= ?", now).
		Order("attendee_count DESC, id ASC").Limit(limit).Find(&events).Error
	return events, err
}

// UpcomingBetween returns events starting in [now, until] ordered by start date.
func (r *EventRepository) UpcomingBetween(now, until time.Time, limit int) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("start_date >= ? AND start_date <= ?", now, until).
		Order("start_date ASC, id ASC").Limit(limit).Find(&events).Error
	return events, err
}

// UpcomingWithAnyTag returns upcoming events carrying any of the given tags
// (OR semantics), ordered by start date ascending.
func (r *EventRepository) UpcomingWithAnyTag(now time.Time, tags []string, limit int) ([]models.Event, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	cond := r.db.Where("JSON_CONTAINS(LOWER(tags), ?)", jsonString(tags[0]))
	for _, tag := range tags[1:] {
		cond = cond.Or("JSON_CONTAINS(LOWER(tags), ?)", jsonString(tag))
	}

	var events []models.Event
	err := r.db.Where("start_date >= ?", now).Where(cond).
		Order("start_date ASC, id ASC").Limit(limit).Find(&events).Error
	return events, err
}

// jsonString renders a tag as a JSON string literal for JSON_CONTAINS,
// lowercased so matching is case-insensitive.
func jsonString(s string) string {
	b, _ := json.Marshal(strings.ToLower(s))
	return string(b)
}
