// Package normalize converts a parsed feed into the fixed-shape entries the client expects.
package normalize

import (
	"strings"
	"time"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
	"github.com/samber/lo"
	"github.com/tomakado/containers/set"
)

const (
	DefaultMaxItems = 500

	// Формат даты для отображения: "Tuesday, January 2, 2024, 03:04 PM"
	DisplayLayout = "Monday, January 2, 2006, 03:04 PM"
	InvalidDate   = "Invalid Date"
)

// Ключи, которые есть у каждой записи. Все остальное из источника отбрасываем
var itemKeys = []string{"title", "description", "link", "pubDate", "category"}

// Форматы дат, которые встречаются в лентах, когда библиотека не смогла распарсить дату сама
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type Options struct {
	// Сколько элементов одной ленты мы максимум обрабатываем. 0 - значение по умолчанию
	MaxItems int
	// Часовой пояс для pubDate. nil - UTC
	Location *time.Location
	// Записи с этими словами в заголовке или категориях пропускаются
	FilterKeywords []string
}

// Normalize превращает сырую ленту в список записей. Никогда не падает:
// на кривой вход в худшем случае получаются записи с пустыми полями.
func Normalize(raw *model.RawFeed, src model.FeedSource, opts Options) []model.NormalizedEntry {
	entries := make([]model.NormalizedEntry, 0)
	if raw == nil || raw.Items == nil {
		return entries
	}

	items := raw.Items
	if limit := lo.Ternary(opts.MaxItems > 0, opts.MaxItems, DefaultMaxItems); len(items) > limit {
		items = items[:limit]
	}

	loc := lo.Ternary(opts.Location != nil, opts.Location, time.UTC)

	for _, item := range items {
		// Копируем только известные ключи, отсутствующие заменяем пустой строкой
		fields := lo.Associate(itemKeys, func(key string) (string, string) {
			return key, item.Fields[key]
		})

		if itemShouldBeSkipped(fields["title"], fields["category"], opts.FilterKeywords) {
			continue
		}

		published, valid := parseDate(item.Published, fields["pubDate"])

		entry := model.NormalizedEntry{
			Title:           fields["title"],
			Description:     cleanDescription(fields["description"]),
			Link:            fields["link"],
			PubDate:         InvalidDate,
			Category:        fields["category"],
			AvatarThumbnail: src.AvatarThumbnail,
			AvatarText:      src.AvatarText,
			RootTitle:       raw.Title,
			RootLink:        src.Link,
			PublishedAt:     published,
			DateValid:       valid,
		}
		if valid {
			entry.PubDate = published.In(loc).Format(DisplayLayout)
		}

		entries = append(entries, entry)
	}

	return entries
}

// Описание с разметкой внутри мы не показываем вовсе
func cleanDescription(description string) string {
	if strings.Contains(description, "<") {
		return ""
	}
	return description
}

func parseDate(published *time.Time, raw string) (time.Time, bool) {
	if published != nil && !published.IsZero() {
		return *published, true
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Пропускаем запись, если ключевое слово есть среди категорий или в заголовке
func itemShouldBeSkipped(title, category string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}

	// Сет вместо слайса, чтобы быстро проверять категорию
	categoriesSet := set.New(lo.Map(strings.Split(category, ","), func(c string, _ int) string {
		return strings.ToLower(strings.TrimSpace(c))
	})...)

	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}

		if categoriesSet.Contains(keyword) || strings.Contains(strings.ToLower(title), keyword) {
			return true
		}
	}

	return false
}
