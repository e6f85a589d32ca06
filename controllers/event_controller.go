package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventloop-api/models"
	"eventloop-api/repositories"
	"eventloop-api/services"
)

type EventController struct {
	db     *gorm.DB
	events *repositories.EventRepository
	tags   *services.TagService
}

func NewEventController(db *gorm.DB) *EventController {
	events := repositories.NewEventRepository(db)
	return &EventController{
		db:     db,
		events: events,
		tags:   services.NewTagService(events),
	}
}

type CreateEventRequest struct {
	Title            string    `json:"title" binding:"required"`
	ShortDescription string    `json:"short_description" binding:"required"`
	LongDescription  string    `json:"long_description"`
	Location         string    `json:"location" binding:"required"`
	Region           string    `json:"region"`
	StartDate        time.Time `json:"start_date" binding:"required"`
	EndDate          time.Time `json:"end_date" binding:"required"`
	Type             string    `json:"type" binding:"required"`
	Format           string    `json:"format" binding:"required"`
	HeaderImage      string    `json:"header_image"`
	OrganizerImage   string    `json:"organizer_image"`
	Tags             []string  `json:"tags"`
}

type SaveEventRequest struct {
	EmailReminder bool `json:"email_reminder"`
}

// parseFilter reads the optional filter query parameters shared by the list
// and tag endpoints.
func parseFilter(c *gin.Context) repositories.EventFilter {
	filter := repositories.EventFilter{
		Search:       c.Query("search"),
		Type:         models.EventType(c.Query("type")),
		Format:       models.EventFormat(c.Query("format")),
		Region:       c.Query("region"),
		UpcomingOnly: c.Query("upcoming") == "true",
		Sort:         c.Query("sort"),
	}

	if tag := c.Query("tag"); tag != "" {
		filter.Tags = append(filter.Tags, tag)
	}
	if tags := c.Query("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.StartDate = &t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			// Inclusive upper bound: events starting any time that day match
			end := t.Add(24*time.Hour - time.Second)
			filter.EndDate = &end
		}
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(repositories.DefaultPerPage)))
	filter.Normalize()

	return filter
}

// paginationEnvelope builds the paginated response body.
func paginationEnvelope(events []models.Event, filter repositories.EventFilter, total int64) gin.H {
	lastPage := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}

	from, to := 0, 0
	if len(events) > 0 {
		from = filter.Offset() + 1
		to = filter.Offset() + len(events)
	}

	if events == nil {
		events = []models.Event{}
	}

	return gin.H{
		"data":         events,
		"current_page": filter.Page,
		"last_page":    lastPage,
		"per_page":     filter.PerPage,
		"total":        total,
		"from":         from,
		"to":           to,
	}
}

func (ec *EventController) GetEvents(c *gin.Context) {
	filter := parseFilter(c)

	events, total, err := ec.events.List(filter, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	for i := range events {
		events[i].Organizer.Password = ""
	}

	c.JSON(http.StatusOK, paginationEnvelope(events, filter, total))
}

func (ec *EventController) GetEvent(c *gin.Context) {
	event, err := ec.events.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	event.Organizer.Password = ""
	c.JSON(http.StatusOK, event)
}

func (ec *EventController) CreateEvent(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventType := models.EventType(req.Type)
	if !eventType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event type"})
		return
	}
	format := models.EventFormat(req.Format)
	if !format.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event format"})
		return
	}
	if req.EndDate.Before(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not be before start date"})
		return
	}

	event := models.Event{
		ID:               uuid.New().String(),
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Location:         req.Location,
		Region:           req.Region,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Type:             eventType,
		Format:           format,
		HeaderImage:      req.HeaderImage,
		OrganizerImage:   req.OrganizerImage,
		Tags:             models.StringSlice(req.Tags),
		OrganizerID:      userID,
	}

	if err := ec.events.Create(&event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (ec *EventController) UpdateEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	var event models.Event
	if err := ec.db.First(&event, "id = ? AND organizer_id = ?", eventID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found or access denied"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventType := models.EventType(req.Type)
	format := models.EventFormat(req.Format)
	if !eventType.Valid() || !format.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event type or format"})
		return
	}
	if req.EndDate.Before(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not be before start date"})
		return
	}

	updates := map[string]interface{}{
		"title":             req.Title,
		"short_description": req.ShortDescription,
		"long_description":  req.LongDescription,
		"location":          req.Location,
		"region":            req.Region,
		"start_date":        req.StartDate,
		"end_date":          req.EndDate,
		"type":              eventType,
		"format":            format,
		"header_image":      req.HeaderImage,
		"organizer_image":   req.OrganizerImage,
		"tags":              models.StringSlice(req.Tags),
	}

	if err := ec.events.Update(&event, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully"})
}

func (ec *EventController) DeleteEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	role := models.Role(c.GetString("role"))

	var event models.Event
	query := ec.db.Where("id = ?", eventID)
	if role != models.RoleAdmin {
		query = query.Where("organizer_id = ?", userID)
	}
	if err := query.First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found or access denied"})
		return
	}

	if err := ec.events.Delete(eventID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

func (ec *EventController) SaveEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	// Body is optional; absent body means no reminder opt-in
	var req SaveEventRequest
	_ = c.ShouldBindJSON(&req)

	var event models.Event
	if err := ec.db.First(&event, "id = ?", eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	var existing models.SavedEvent
	if err := ec.db.Where("user_id = ? AND event_id = ?", userID, eventID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Event already saved"})
		return
	}

	save := models.SavedEvent{
		UserID:        userID,
		EventID:       eventID,
		EmailReminder: req.EmailReminder,
	}
	if err := ec.db.Create(&save).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save event"})
		return
	}

	_ = ec.events.AdjustAttendeeCount(eventID, 1)

	c.JSON(http.StatusCreated, save)
}

func (ec *EventController) UnsaveEvent(c *gin.Context) {
	userID := c.GetString("user_id")
	eventID := c.Param("id")

	var save models.SavedEvent
	if err := ec.db.Where("user_id = ? AND event_id = ?", userID, eventID).First(&save).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not saved"})
		return
	}

	if err := ec.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("saved_event_id = ?", save.ID).Delete(&models.EventReminder{}).Error; err != nil {
			return err
		}
		return tx.Delete(&save).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsave event"})
		return
	}

	_ = ec.events.AdjustAttendeeCount(eventID, -1)

	c.JSON(http.StatusOK, gin.H{"message": "Event unsaved successfully"})
}

func (ec *EventController) PopularTags(c *gin.Context) {
	tags, err := ec.tags.PopularTags(parseFilter(c), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate tags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (ec *EventController) AllTags(c *gin.Context) {
	tags, err := ec.tags.AllTags(parseFilter(c), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate tags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}
