// Package catalog holds the read-only list of known feed sources.
// It is built once at startup and never mutated, so it is safe for concurrent use.
package catalog

import (
	"strings"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
	"github.com/samber/lo"
)

const DefaultPageSize = 20

type Catalog struct {
	entries  []model.CatalogEntry
	byLink   map[string]model.CatalogEntry
	pageSize int
}

func New(entries []model.CatalogEntry, pageSize int) *Catalog {
	// Копия, чтобы снаружи нельзя было поменять содержимое
	own := append([]model.CatalogEntry(nil), entries...)

	return &Catalog{
		entries:  own,
		byLink:   lo.KeyBy(own, func(e model.CatalogEntry) string { return normalizeLink(e.Link) }),
		pageSize: lo.Ternary(pageSize > 0, pageSize, DefaultPageSize),
	}
}

// All returns a copy of every catalog entry.
func (c *Catalog) All() []model.CatalogEntry {
	return append([]model.CatalogEntry{}, c.entries...)
}

func (c *Catalog) Lookup(link string) (model.CatalogEntry, bool) {
	entry, ok := c.byLink[normalizeLink(link)]
	return entry, ok
}

// Enrich fills empty avatar fields of a requested source from the catalog.
func (c *Catalog) Enrich(src model.FeedSource) model.FeedSource {
	entry, ok := c.Lookup(src.Link)
	if !ok {
		return src
	}

	if src.AvatarThumbnail == "" {
		src.AvatarThumbnail = entry.AvatarThumbnail
	}
	if src.AvatarText == "" {
		src.AvatarText = entry.AvatarText
	}

	return src
}

// Sources превращает весь каталог в список источников для агрегации
func (c *Catalog) Sources() []model.FeedSource {
	return lo.Map(c.entries, func(e model.CatalogEntry, _ int) model.FeedSource {
		return model.FeedSource{Link: e.Link, AvatarThumbnail: e.AvatarThumbnail, AvatarText: e.AvatarText}
	})
}

// Search фильтрует каталог по подстроке без учета регистра и отдает страницу.
// totalPages == 0 значит, что все найденное уже лежит в data (или ничего не нашлось).
func (c *Catalog) Search(query string, page int) model.SearchPage {
	query = strings.ToLower(strings.TrimSpace(query))

	found := lo.Filter(c.entries, func(e model.CatalogEntry, _ int) bool {
		return matches(e, query)
	})

	if len(found) <= c.pageSize {
		return model.SearchPage{Data: found, TotalPages: 0}
	}

	totalPages := (len(found) + c.pageSize - 1) / c.pageSize
	if page < 0 || page >= totalPages {
		return model.SearchPage{Data: []model.CatalogEntry{}, TotalPages: totalPages}
	}

	start := page * c.pageSize
	end := min(start+c.pageSize, len(found))

	return model.SearchPage{Data: found[start:end], TotalPages: totalPages}
}

func matches(e model.CatalogEntry, query string) bool {
	if query == "" {
		return true
	}

	for _, field := range []string{e.Title, e.Link, e.AvatarText, e.Category} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}

	return false
}

func normalizeLink(link string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(link)), "/")
}
