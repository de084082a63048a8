package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kovalyov-valentin/feed-reader-api/internal/fetch"
	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
	"github.com/kovalyov-valentin/feed-reader-api/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rssWithItems(title string, items ...string) string {
	body := ""
	for _, item := range items {
		body += item
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%s</title>%s</channel></rss>`, title, body)
}

func rssItem(title, pubDate string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>https://example.com/%s</link><pubDate>%s</pubDate></item>`, title, title, pubDate)
}

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func newTestFetcher() *Fetcher {
	return NewFetcher(fetch.NewClient("test", 0), time.Second, 4, normalize.Options{})
}

func TestAggregate_SortsNewestFirst(t *testing.T) {
	older := feedServer(t, rssWithItems("Older", rssItem("jan-1", "Mon, 01 Jan 2024 10:00:00 +0000")))
	newer := feedServer(t, rssWithItems("Newer", rssItem("jan-2", "Tue, 02 Jan 2024 10:00:00 +0000")))

	entries := newTestFetcher().Aggregate(context.Background(), []model.FeedSource{
		{Link: older.URL, AvatarText: "O"},
		{Link: newer.URL, AvatarText: "N"},
	})

	require.Len(t, entries, 2)
	assert.Equal(t, "jan-2", entries[0].Title)
	assert.Equal(t, "Newer", entries[0].RootTitle)
	assert.Equal(t, newer.URL, entries[0].RootLink)
	assert.Equal(t, "N", entries[0].AvatarText)
	assert.Equal(t, "jan-1", entries[1].Title)
	assert.Equal(t, "Tuesday, January 2, 2024, 10:00 AM", entries[0].PubDate)
}

func TestAggregate_MergesAndKeepsOrderInvariant(t *testing.T) {
	a := feedServer(t, rssWithItems("A",
		rssItem("a1", "Fri, 05 Jan 2024 10:00:00 +0000"),
		rssItem("a2", "Mon, 01 Jan 2024 10:00:00 +0000"),
	))
	b := feedServer(t, rssWithItems("B",
		rssItem("b1", "Wed, 03 Jan 2024 10:00:00 +0000"),
		rssItem("b2", "not a date"),
		rssItem("b3", "Sat, 06 Jan 2024 10:00:00 +0000"),
	))

	entries := newTestFetcher().Aggregate(context.Background(), []model.FeedSource{{Link: a.URL}, {Link: b.URL}})
	require.Len(t, entries, 5)

	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"b3", "a1", "b1", "a2", "b2"}, titles)

	for i := 1; i < len(entries); i++ {
		if !entries[i].DateValid {
			continue
		}
		assert.False(t, entries[i].PublishedAt.After(entries[i-1].PublishedAt), "entries must be non-increasing")
	}
	assert.Equal(t, normalize.InvalidDate, entries[4].PubDate)
}

func TestAggregate_FailedFeedContributesNothing(t *testing.T) {
	good := feedServer(t, rssWithItems("Good", rssItem("ok", "Mon, 01 Jan 2024 10:00:00 +0000")))
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()
	garbage := feedServer(t, "this is not xml")

	refused := httptest.NewServer(http.NotFoundHandler())
	refusedURL := refused.URL
	refused.Close()

	entries := newTestFetcher().Aggregate(context.Background(), []model.FeedSource{
		{Link: broken.URL},
		{Link: good.URL},
		{Link: garbage.URL},
		{Link: refusedURL},
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "ok", entries[0].Title)
}

func TestAggregate_AllFail(t *testing.T) {
	refused := httptest.NewServer(http.NotFoundHandler())
	refusedURL := refused.URL
	refused.Close()

	entries := newTestFetcher().Aggregate(context.Background(), []model.FeedSource{{Link: refusedURL}})
	require.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestAggregate_SlowFeedTimesOut(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()
	fast := feedServer(t, rssWithItems("Fast", rssItem("fast", "Mon, 01 Jan 2024 10:00:00 +0000")))

	f := NewFetcher(fetch.NewClient("test", 0), 100*time.Millisecond, 4, normalize.Options{})

	start := time.Now()
	entries := f.Aggregate(context.Background(), []model.FeedSource{{Link: slow.URL}, {Link: fast.URL}})

	assert.Less(t, time.Since(start), 1500*time.Millisecond)
	require.Len(t, entries, 1)
	assert.Equal(t, "fast", entries[0].Title)
}

type fakeSource struct {
	name     string
	feed     *model.RawFeed
	err      error
	delay    time.Duration
	inFlight *int64
	maxSeen  *int64
}

func (s fakeSource) Name() string { return s.name }

func (s fakeSource) Fetch(ctx context.Context) (*model.RawFeed, error) {
	if s.inFlight != nil {
		current := atomic.AddInt64(s.inFlight, 1)
		defer atomic.AddInt64(s.inFlight, -1)
		for {
			seen := atomic.LoadInt64(s.maxSeen)
			if current <= seen || atomic.CompareAndSwapInt64(s.maxSeen, seen, current) {
				break
			}
		}
	}

	time.Sleep(s.delay)
	return s.feed, s.err
}

func TestAggregate_TiesKeepRequestOrder(t *testing.T) {
	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f := newTestFetcher()
	f.newSource = func(src model.FeedSource) Source {
		// Первый источник отвечает последним, но его записи все равно идут первыми
		delay := map[string]time.Duration{"first": 50 * time.Millisecond, "second": 0}[src.Link]
		return fakeSource{
			name:  src.Link,
			delay: delay,
			feed: &model.RawFeed{Title: src.Link, Items: []model.RawItem{
				{Fields: map[string]string{"title": src.Link}, Published: &same},
			}},
		}
	}

	for i := 0; i < 5; i++ {
		entries := f.Aggregate(context.Background(), []model.FeedSource{{Link: "first"}, {Link: "second"}})
		require.Len(t, entries, 2)
		assert.Equal(t, "first", entries[0].Title)
		assert.Equal(t, "second", entries[1].Title)
	}
}

func TestAggregate_BoundsConcurrency(t *testing.T) {
	var inFlight, maxSeen int64

	f := NewFetcher(fetch.NewClient("test", 0), time.Second, 2, normalize.Options{})
	f.newSource = func(src model.FeedSource) Source {
		return fakeSource{
			name:     src.Link,
			delay:    20 * time.Millisecond,
			feed:     &model.RawFeed{Items: []model.RawItem{{Fields: map[string]string{"title": src.Link}}}},
			inFlight: &inFlight,
			maxSeen:  &maxSeen,
		}
	}

	sources := make([]model.FeedSource, 10)
	for i := range sources {
		sources[i] = model.FeedSource{Link: fmt.Sprintf("feed-%d", i)}
	}

	entries := f.Aggregate(context.Background(), sources)
	assert.Len(t, entries, 10)
	assert.LessOrEqual(t, atomic.LoadInt64(&maxSeen), int64(2))
}

func TestAggregate_SourceErrorIsAbsorbed(t *testing.T) {
	f := newTestFetcher()
	f.newSource = func(src model.FeedSource) Source {
		if src.Link == "bad" {
			return fakeSource{name: src.Link, err: errors.New("boom")}
		}
		return fakeSource{name: src.Link, feed: &model.RawFeed{Items: []model.RawItem{{Fields: map[string]string{"title": "good"}}}}}
	}

	entries := f.Aggregate(context.Background(), []model.FeedSource{{Link: "bad"}, {Link: "good"}, {Link: "bad"}})
	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].Title)
}
