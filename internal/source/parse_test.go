package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kovalyov-valentin/feed-reader-api/internal/fetch"
	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rss20XML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test RSS Feed</title>
    <link>https://example.com</link>
    <description>A test RSS feed</description>
    <item>
      <title>First Post</title>
      <link>https://example.com/post/1</link>
      <pubDate>Tue, 02 Jan 2024 15:04:05 +0000</pubDate>
      <description>First post description</description>
      <category>tech</category>
      <category>golang</category>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://example.com/post/2</link>
    </item>
  </channel>
</rss>`

const atomXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2006-01-02T15:04:05Z</updated>
  <entry>
    <id>https://example.com/entry/1</id>
    <title>First Entry</title>
    <link href="https://example.com/entry/1"/>
    <updated>2006-01-03T15:04:05Z</updated>
    <summary>First entry summary</summary>
  </entry>
</feed>`

func TestParseFeed_RSS(t *testing.T) {
	feed, err := ParseFeed([]byte(rss20XML))
	require.NoError(t, err)

	assert.Equal(t, "Test RSS Feed", feed.Title)
	require.Len(t, feed.Items, 2)

	first := feed.Items[0]
	assert.Equal(t, "First Post", first.Fields[FieldTitle])
	assert.Equal(t, "https://example.com/post/1", first.Fields[FieldLink])
	assert.Equal(t, "First post description", first.Fields[FieldDescription])
	assert.Equal(t, "tech, golang", first.Fields[FieldCategory])
	assert.Equal(t, "Tue, 02 Jan 2024 15:04:05 +0000", first.Fields[FieldPubDate])
	require.NotNil(t, first.Published)
	assert.True(t, first.Published.Equal(time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)))

	// У второго элемента нет даты, описания и категорий - ключей быть не должно
	second := feed.Items[1]
	assert.NotContains(t, second.Fields, FieldPubDate)
	assert.NotContains(t, second.Fields, FieldDescription)
	assert.NotContains(t, second.Fields, FieldCategory)
	assert.Nil(t, second.Published)
}

func TestParseFeed_AtomFallsBackToUpdated(t *testing.T) {
	feed, err := ParseFeed([]byte(atomXML))
	require.NoError(t, err)

	assert.Equal(t, "Test Atom Feed", feed.Title)
	require.Len(t, feed.Items, 1)

	entry := feed.Items[0]
	assert.Equal(t, "First entry summary", entry.Fields[FieldDescription])
	require.NotNil(t, entry.Published)
	assert.True(t, entry.Published.Equal(time.Date(2006, 1, 3, 15, 4, 5, 0, time.UTC)))
}

func TestParseWithRSS(t *testing.T) {
	feed, err := parseWithRSS([]byte(rss20XML))
	require.NoError(t, err)

	assert.Equal(t, "Test RSS Feed", feed.Title)
	require.Len(t, feed.Items, 2)
	assert.Equal(t, "First Post", feed.Items[0].Fields[FieldTitle])
	require.NotNil(t, feed.Items[0].Published)
	assert.True(t, feed.Items[0].Published.Equal(time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)))
}

func TestParseFeed_Garbage(t *testing.T) {
	_, err := ParseFeed([]byte("not a feed at all"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFeed))
}

func TestRSSSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rss20XML))
	}))
	defer server.Close()

	src := NewRSSSourceFromModel(model.FeedSource{Link: server.URL}, fetch.NewClient("", 0))
	assert.Equal(t, server.URL, src.Name())

	feed, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, feed.Items, 2)
}

func TestRSSSource_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewRSSSourceFromModel(model.FeedSource{Link: server.URL}, fetch.NewClient("", 0)).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load feed")
}
