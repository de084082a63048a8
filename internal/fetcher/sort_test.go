package fetcher

import (
	"testing"
	"time"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
	"github.com/stretchr/testify/assert"
)

func entryAt(title string, at time.Time) model.NormalizedEntry {
	return model.NormalizedEntry{Title: title, PublishedAt: at, DateValid: !at.IsZero()}
}

func TestSortByPublished(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	entries := []model.NormalizedEntry{
		entryAt("undated-1", time.Time{}),
		entryAt("jan-1", day(1)),
		entryAt("jan-3-a", day(3)),
		entryAt("undated-2", time.Time{}),
		entryAt("jan-2", day(2)),
		entryAt("jan-3-b", day(3)),
	}

	SortByPublished(entries)

	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		titles = append(titles, e.Title)
	}

	assert.Equal(t, []string{"jan-3-a", "jan-3-b", "jan-2", "jan-1", "undated-1", "undated-2"}, titles)
}

func TestSortByPublished_Empty(t *testing.T) {
	var entries []model.NormalizedEntry
	SortByPublished(entries)
	assert.Empty(t, entries)
}
