package services

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"eventloop-api/models"
	"eventloop-api/repositories"
)

// PopularTagsLimit caps the "popular" tag list length.
const PopularTagsLimit = 10

// TagCount is one row of a tag frequency list.
type TagCount struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Display string `json:"display"`
}

// TagLister loads the filtered event population the aggregation runs over.
type TagLister interface {
	ListForTags(filter repositories.EventFilter, now time.Time) ([]models.Event, error)
}

type TagService struct {
	events TagLister
}

func NewTagService(events TagLister) *TagService {
	return &TagService{events: events}
}

// AllTags returns the complete distinct tag set of the filtered population,
// counts descending, ties broken alphabetically.
func (s *TagService) AllTags(filter repositories.EventFilter, now time.Time) ([]TagCount, error) {
	events, err := s.events.ListForTags(filter, now)
	if err != nil {
		return nil, err
	}
	return aggregateTags(events), nil
}

// PopularTags is AllTags capped to the top PopularTagsLimit entries.
func (s *TagService) PopularTags(filter repositories.EventFilter, now time.Time) ([]TagCount, error) {
	tags, err := s.AllTags(filter, now)
	if err != nil {
		return nil, err
	}
	if len(tags) > PopularTagsLimit {
		tags = tags[:PopularTagsLimit]
	}
	return tags, nil
}

// aggregateTags counts tag occurrences across the given events. Tags are
// matched case-insensitively; missing tag lists contribute nothing.
func aggregateTags(events []models.Event) []TagCount {
	counts := make(map[string]int)
	for _, event := range events {
		for _, tag := range event.Tags {
			name := strings.ToLower(strings.TrimSpace(tag))
			if name == "" {
				continue
			}
			counts[name]++
		}
	}

	tags := make([]TagCount, 0, len(counts))
	for name, count := range counts {
		tags = append(tags, TagCount{Name: name, Count: count, Display: displayLabel(name)})
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Name < tags[j].Name
	})

	return tags
}

// displayLabel capitalizes the first rune of a tag for presentation.
func displayLabel(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return name
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
