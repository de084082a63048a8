package fetcher

import (
	"context"
	"log"
	"time"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
	"github.com/kovalyov-valentin/feed-reader-api/internal/normalize"
	"github.com/kovalyov-valentin/feed-reader-api/internal/source"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultFeedTimeout   = 2 * time.Second
	DefaultMaxConcurrent = 16
)

// Интерфейс источника
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*model.RawFeed, error)
}

// Структура сборщика
type Fetcher struct {
	// Чем скачиваем ленты
	downloader source.Downloader
	// Сколько ждем одну ленту
	feedTimeout time.Duration
	// Сколько лент качаем одновременно
	maxConcurrent int
	// Параметры нормализации записей
	normalizeOpts normalize.Options

	newSource func(src model.FeedSource) Source
}

// Все параметры передаем в конструктор, чтобы их нельзя было менять извне
func NewFetcher(downloader source.Downloader, feedTimeout time.Duration, maxConcurrent int, opts normalize.Options) *Fetcher {
	f := &Fetcher{
		downloader:    downloader,
		feedTimeout:   lo.Ternary(feedTimeout > 0, feedTimeout, DefaultFeedTimeout),
		maxConcurrent: lo.Ternary(maxConcurrent > 0, maxConcurrent, DefaultMaxConcurrent),
		normalizeOpts: opts,
	}

	f.newSource = func(src model.FeedSource) Source {
		return source.NewRSSSourceFromModel(src, f.downloader)
	}

	return f
}

// Aggregate опрашивает все источники параллельно и возвращает общую ленту, новые записи сверху.
// Упавший источник просто не дает записей, ошибка наружу не уходит.
func (f *Fetcher) Aggregate(ctx context.Context, sources []model.FeedSource) []model.NormalizedEntry {
	// У каждого источника своя ячейка, поэтому порядок склейки не зависит от того, кто ответил первым
	results := make([][]model.NormalizedEntry, len(sources))

	// Источников может быть много, поэтому ограничиваем число одновременных запросов
	var g errgroup.Group
	g.SetLimit(f.maxConcurrent)

	for i, src := range sources {
		g.Go(func() error {
			results[i] = f.fetchSource(ctx, src)
			return nil
		})
	}

	// Ошибок тут не бывает, ждем всех
	_ = g.Wait()

	entries := lo.Flatten(results)
	SortByPublished(entries)

	log.Printf("[INFO] entries retrieved: %d from %d sources", len(entries), len(sources))

	return entries
}

// Одна лента. Никогда не возвращает ошибку: при любой проблеме пишем в лог и отдаем пустой список
func (f *Fetcher) fetchSource(ctx context.Context, src model.FeedSource) []model.NormalizedEntry {
	ctx, cancel := context.WithTimeout(ctx, f.feedTimeout)
	defer cancel()

	rssSource := f.newSource(src)

	raw, err := rssSource.Fetch(ctx)
	if err != nil {
		log.Printf("[ERROR] fetching feed %s: %v", rssSource.Name(), err)
		return []model.NormalizedEntry{}
	}

	return normalize.Normalize(raw, src, f.normalizeOpts)
}
