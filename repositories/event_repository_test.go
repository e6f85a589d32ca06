package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestEventFilterNormalize(t *testing.T) {
	filter := EventFilter{Page: -2, PerPage: 500}
	filter.Normalize()

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, MaxPerPage, filter.PerPage)
	assert.Equal(t, 0, filter.Offset())

	filter = EventFilter{Page: 3, PerPage: 10}
	filter.Normalize()
	assert.Equal(t, 20, filter.Offset())
}

func TestEventRepositoryListCountsAndPages(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `events`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(12))
	mock.ExpectQuery("SELECT \\* FROM `events`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "start_date"}).
			AddRow("event-11", "Go Meetup", now.AddDate(0, 0, 3)).
			AddRow("event-12", "Rust Workshop", now.AddDate(0, 0, 5)))

	events, total, err := repo.List(EventFilter{Page: 2, PerPage: 10, UpcomingOnly: true}, now)

	assert.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, events, 2)
	assert.Equal(t, "event-11", events[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListForTagsIgnoresTagFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEventRepository(db)

	// The query must not mention JSON_CONTAINS even though tags were given
	mock.ExpectQuery("SELECT \\* FROM `events` WHERE region = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("event-1"))

	events, err := repo.ListForTags(EventFilter{Region: "Europe", Tags: []string{"go"}}, time.Now())

	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepositoryReminderExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReminderRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `event_reminders`").
		WithArgs(uint(7), "event-a", 1).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	exists, err := repo.ReminderExists(7, "event-a", 1)

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
