package source

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SlyMarbo/rss"
	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
)

var ErrUnsupportedFeed = errors.New("unsupported feed format")

// Ключи полей, которые мы забираем из элемента ленты
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldLink        = "link"
	FieldPubDate     = "pubDate"
	FieldCategory    = "category"
)

// ParseFeed разбирает тело ленты.
// Сначала пробуем gofeed (rss, atom, json feed), если он не справился - парсер SlyMarbo/rss,
// который прощает часть кривых rss 1.0 документов.
func ParseFeed(data []byte) (*model.RawFeed, error) {
	feed, gofeedErr := parseWithGofeed(data)
	if gofeedErr == nil {
		return feed, nil
	}

	feed, rssErr := parseWithRSS(data)
	if rssErr == nil {
		return feed, nil
	}

	return nil, fmt.Errorf("%w: %v; %v", ErrUnsupportedFeed, gofeedErr, rssErr)
}

func parseWithGofeed(data []byte) (*model.RawFeed, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	raw := &model.RawFeed{Title: feed.Title}
	if feed.Items == nil {
		return raw, nil
	}

	raw.Items = lo.Map(feed.Items, func(item *gofeed.Item, _ int) model.RawItem {
		fields := map[string]string{}
		setIfPresent(fields, FieldTitle, item.Title)
		setIfPresent(fields, FieldLink, item.Link)
		setIfPresent(fields, FieldCategory, strings.Join(item.Categories, ", "))

		// В atom вместо description бывает только content
		setIfPresent(fields, FieldDescription, lo.Ternary(item.Description != "", item.Description, item.Content))

		// Дата публикации, а если ее нет - дата обновления
		published := item.PublishedParsed
		setIfPresent(fields, FieldPubDate, item.Published)
		if item.Published == "" {
			setIfPresent(fields, FieldPubDate, item.Updated)
			published = item.UpdatedParsed
		}

		return model.RawItem{Fields: fields, Published: published}
	})

	return raw, nil
}

func parseWithRSS(data []byte) (*model.RawFeed, error) {
	feed, err := rss.Parse(data)
	if err != nil {
		return nil, err
	}

	raw := &model.RawFeed{Title: feed.Title}
	if feed.Items == nil {
		return raw, nil
	}

	raw.Items = lo.Map(feed.Items, func(item *rss.Item, _ int) model.RawItem {
		fields := map[string]string{}
		setIfPresent(fields, FieldTitle, item.Title)
		setIfPresent(fields, FieldLink, item.Link)
		setIfPresent(fields, FieldCategory, strings.Join(item.Categories, ", "))
		setIfPresent(fields, FieldDescription, lo.Ternary(item.Summary != "", item.Summary, item.Content))

		var published *time.Time
		// Если дата не распарсилась, библиотека подставляет текущее время. Такое нам не нужно
		if item.DateValid {
			date := item.Date
			published = &date
			fields[FieldPubDate] = date.Format(time.RFC1123Z)
		}

		return model.RawItem{Fields: fields, Published: published}
	})

	return raw, nil
}

func setIfPresent(fields map[string]string, key, value string) {
	if value != "" {
		fields[key] = value
	}
}
