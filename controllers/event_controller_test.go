package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"eventloop-api/models"
	"eventloop-api/repositories"
)

func filterFromQuery(t *testing.T, query string) repositories.EventFilter {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/events"+query, nil)

	return parseFilter(c)
}

func TestParseFilterDefaults(t *testing.T) {
	filter := filterFromQuery(t, "")

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, repositories.DefaultPerPage, filter.PerPage)
	assert.Empty(t, filter.Tags)
	assert.False(t, filter.UpcomingOnly)
	assert.Nil(t, filter.StartDate)
	assert.Nil(t, filter.EndDate)
}

func TestParseFilterClampsPagination(t *testing.T) {
	filter := filterFromQuery(t, "?page=0&per_page=500")

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, repositories.MaxPerPage, filter.PerPage)
}

func TestParseFilterCollectsTags(t *testing.T) {
	filter := filterFromQuery(t, "?tag=go&tags=rust,%20web")

	assert.Equal(t, []string{"go", "rust", "web"}, filter.Tags)
}

func TestParseFilterParsesDatesInclusive(t *testing.T) {
	filter := filterFromQuery(t, "?start_date=2026-03-01&end_date=2026-03-07")

	if assert.NotNil(t, filter.StartDate) {
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
	}
	if assert.NotNil(t, filter.EndDate) {
		// Events starting any time on the end date still match
		assert.Equal(t, time.Date(2026, 3, 7, 23, 59, 59, 0, time.UTC), *filter.EndDate)
	}
}

func TestParseFilterReadsEnumAndSortFields(t *testing.T) {
	filter := filterFromQuery(t, "?type=Meetup&format=online&region=Europe&upcoming=true&sort=popular&search=go")

	assert.Equal(t, models.EventTypeMeetup, filter.Type)
	assert.Equal(t, models.EventFormatOnline, filter.Format)
	assert.Equal(t, "Europe", filter.Region)
	assert.True(t, filter.UpcomingOnly)
	assert.Equal(t, "popular", filter.Sort)
	assert.Equal(t, "go", filter.Search)
}

func TestPaginationEnvelopeBounds(t *testing.T) {
	filter := repositories.EventFilter{Page: 3, PerPage: 10}
	events := make([]models.Event, 5)

	envelope := paginationEnvelope(events, filter, 25)

	assert.Equal(t, 3, envelope["current_page"])
	assert.Equal(t, 3, envelope["last_page"])
	assert.Equal(t, 10, envelope["per_page"])
	assert.Equal(t, int64(25), envelope["total"])
	assert.Equal(t, 21, envelope["from"])
	assert.Equal(t, 25, envelope["to"])
}

func TestPaginationEnvelopeEmptyPage(t *testing.T) {
	filter := repositories.EventFilter{Page: 1, PerPage: 10}

	envelope := paginationEnvelope(nil, filter, 0)

	assert.Equal(t, 1, envelope["last_page"])
	assert.Equal(t, 0, envelope["from"])
	assert.Equal(t, 0, envelope["to"])
	assert.NotNil(t, envelope["data"])
}
