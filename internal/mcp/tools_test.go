package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/feed-reader-api/internal/catalog"
	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

type fakeAggregator struct {
	got     []model.FeedSource
	entries []model.NormalizedEntry
}

func (f *fakeAggregator) Aggregate(_ context.Context, sources []model.FeedSource) []model.NormalizedEntry {
	f.got = sources
	return f.entries
}

type fakeExtractor struct {
	doc *model.ArticleDocument
	err error
}

func (f *fakeExtractor) Extract(context.Context, string) (*model.ArticleDocument, error) {
	return f.doc, f.err
}

func testServer(agg *fakeAggregator, ext *fakeExtractor) *Server {
	cat := catalog.New([]model.CatalogEntry{
		{Title: "Go Blog", Link: "https://go.dev/blog/feed.atom", AvatarText: "GO", Category: "tech"},
		{Title: "BBC World", Link: "https://feeds.bbci.co.uk/news/world/rss.xml", AvatarText: "BBC", Category: "news"},
	}, 20)

	return NewServer(agg, ext, cat, "test")
}

func call(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	return result.Content[0].(mcp.TextContent).Text
}

func TestHandleAggregateFeeds(t *testing.T) {
	agg := &fakeAggregator{entries: []model.NormalizedEntry{{Title: "a"}, {Title: "b"}, {Title: "c"}}}
	s := testServer(agg, &fakeExtractor{})

	result, err := s.handleAggregateFeeds(context.Background(), call(map[string]interface{}{
		"urls":  []interface{}{"https://go.dev/blog/feed.atom", "https://a.example/rss"},
		"limit": 2,
	}))
	require.NoError(t, err)

	var output AggregateFeedsOutput
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &output))
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, 3, output.Total)
	assert.Equal(t, "a", output.Entries[0].Title)

	require.Len(t, agg.got, 2)
	assert.Equal(t, "GO", agg.got[0].AvatarText)
	assert.Equal(t, "https://a.example/rss", agg.got[1].Link)
}

func TestHandleAggregateFeeds_Catalog(t *testing.T) {
	agg := &fakeAggregator{}
	s := testServer(agg, &fakeExtractor{})

	result, err := s.handleAggregateFeeds(context.Background(), call(map[string]interface{}{}))
	require.NoError(t, err)

	assert.Len(t, agg.got, 2)
	assert.JSONEq(t, `{"entries": [], "count": 0, "total": 0}`, text(t, result))
}

func TestHandleAggregateFeeds_Invalid(t *testing.T) {
	for _, urls := range [][]interface{}{{}, {"https://a.example/rss", " "}} {
		agg := &fakeAggregator{}
		s := testServer(agg, &fakeExtractor{})

		_, err := s.handleAggregateFeeds(context.Background(), call(map[string]interface{}{"urls": urls}))
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotAllowed)
		assert.Nil(t, agg.got)
	}
}

func TestHandleReadArticle(t *testing.T) {
	ext := &fakeExtractor{doc: &model.ArticleDocument{HTML: "<p>hi</p>", Markdown: "hi"}}
	s := testServer(&fakeAggregator{}, ext)

	result, err := s.handleReadArticle(context.Background(), call(map[string]interface{}{"url": "https://a.example/post"}))
	require.NoError(t, err)
	assert.Equal(t, "hi", text(t, result))

	result, err = s.handleReadArticle(context.Background(), call(map[string]interface{}{"url": "https://a.example/post", "format": "html"}))
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", text(t, result))

	_, err = s.handleReadArticle(context.Background(), call(map[string]interface{}{"url": ""}))
	assert.Error(t, err)
}

func TestHandleReadArticle_ExtractionError(t *testing.T) {
	s := testServer(&fakeAggregator{}, &fakeExtractor{err: errors.New("dial tcp: connection refused")})

	result, err := s.handleReadArticle(context.Background(), call(map[string]interface{}{"url": "https://a.example/post"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Error getting article", text(t, result))
}

func TestHandleSearchSources(t *testing.T) {
	s := testServer(&fakeAggregator{}, &fakeExtractor{})

	result, err := s.handleSearchSources(context.Background(), call(map[string]interface{}{"query": "bbc"}))
	require.NoError(t, err)

	var page model.SearchPage
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "BBC World", page.Data[0].Title)
	assert.Equal(t, 0, page.TotalPages)
}
