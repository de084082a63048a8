package source

import (
	"context"
	"fmt"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

type Downloader interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// RSS клиент.
type RSSSource struct {
	// URL откуда мы забираем данные
	URL string
	// Чем скачиваем ленту
	downloader Downloader
}

// Конструктор, который из источника запроса создает клиента для RSS ленты
func NewRSSSourceFromModel(m model.FeedSource, downloader Downloader) RSSSource {
	return RSSSource{
		URL:        m.Link,
		downloader: downloader,
	}
}

// Скачивает и разбирает ленту. Таймаут задает вызывающий через контекст
func (s RSSSource) Fetch(ctx context.Context) (*model.RawFeed, error) {
	data, err := s.downloader.Get(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}

	feed, err := ParseFeed(data)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return feed, nil
}

func (s RSSSource) Name() string {
	return s.URL
}
