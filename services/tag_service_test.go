package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eventloop-api/models"
	"eventloop-api/repositories"
)

type fakeTagLister struct {
	events     []models.Event
	err        error
	lastFilter repositories.EventFilter
}

func (f *fakeTagLister) ListForTags(filter repositories.EventFilter, now time.Time) ([]models.Event, error) {
	f.lastFilter = filter
	return f.events, f.err
}

func eventWithTags(tags ...string) models.Event {
	return models.Event{Tags: models.StringSlice(tags)}
}

func TestAggregateTagsCountsAndOrders(t *testing.T) {
	events := []models.Event{
		eventWithTags("go", "web"),
		eventWithTags("Go", "rust"),
		eventWithTags("rust", "web"),
		eventWithTags("ai"),
	}

	tags := aggregateTags(events)

	assert.Len(t, tags, 4)
	// go/rust/web all occur twice; ties break alphabetically
	assert.Equal(t, "go", tags[0].Name)
	assert.Equal(t, "rust", tags[1].Name)
	assert.Equal(t, "web", tags[2].Name)
	assert.Equal(t, "ai", tags[3].Name)
	assert.Equal(t, 2, tags[0].Count)
	assert.Equal(t, 1, tags[3].Count)
	assert.Equal(t, "Go", tags[0].Display)
}

func TestAggregateTagsSumEqualsMembershipPairs(t *testing.T) {
	events := []models.Event{
		eventWithTags("go", "web", "cloud"),
		eventWithTags("go"),
		eventWithTags(),
		{Tags: nil},
	}

	tags := aggregateTags(events)

	sum := 0
	for _, tag := range tags {
		sum += tag.Count
	}
	assert.Equal(t, 4, sum)
}

func TestAggregateTagsIgnoresBlankAndNilTagLists(t *testing.T) {
	events := []models.Event{
		{Tags: nil},
		eventWithTags("", "  "),
	}

	assert.Empty(t, aggregateTags(events))
}

func TestPopularTagsCapsLength(t *testing.T) {
	var events []models.Event
	for i := 0; i < 15; i++ {
		events = append(events, eventWithTags(fmt.Sprintf("tag-%02d", i)))
	}
	service := NewTagService(&fakeTagLister{events: events})

	tags, err := service.PopularTags(repositories.EventFilter{}, time.Now())

	assert.NoError(t, err)
	assert.Len(t, tags, PopularTagsLimit)
}

func TestAllTagsReturnsFullSetAndPropagatesError(t *testing.T) {
	lister := &fakeTagLister{events: []models.Event{eventWithTags("go"), eventWithTags("rust")}}
	service := NewTagService(lister)

	tags, err := service.AllTags(repositories.EventFilter{Tags: []string{"ignored"}}, time.Now())
	assert.NoError(t, err)
	assert.Len(t, tags, 2)

	lister.err = errors.New("boom")
	_, err = service.AllTags(repositories.EventFilter{}, time.Now())
	assert.Error(t, err)
}
