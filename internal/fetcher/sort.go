package fetcher

import (
	"slices"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

// SortByPublished сортирует записи от новых к старым по исходной дате публикации.
// Записи без даты уходят в конец. При равенстве сохраняется порядок склейки.
func SortByPublished(entries []model.NormalizedEntry) {
	slices.SortStableFunc(entries, comparePublished)
}

func comparePublished(a, b model.NormalizedEntry) int {
	switch {
	case a.DateValid && !b.DateValid:
		return -1
	case !a.DateValid && b.DateValid:
		return 1
	case !a.DateValid && !b.DateValid:
		return 0
	}

	return b.PublishedAt.Compare(a.PublishedAt)
}
