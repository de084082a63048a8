package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

const defaultEntryLimit = 50

type AggregateFeedsInput struct {
	URLs  []string `json:"urls,omitempty"`
	Limit *int     `json:"limit,omitempty"`
}

type AggregateFeedsOutput struct {
	Entries []model.NormalizedEntry `json:"entries"`
	Count   int                     `json:"count"`
	Total   int                     `json:"total"`
}

type ReadArticleInput struct {
	URL    string `json:"url"`
	Format string `json:"format,omitempty"`
}

type SearchSourcesInput struct {
	Query string `json:"query"`
	Page  int    `json:"page,omitempty"`
}

func (s *Server) registerTools() {
	s.registerAggregateFeedsTool()
	s.registerReadArticleTool()
	s.registerSearchSourcesTool()
}

func (s *Server) registerAggregateFeedsTool() {
	tool := mcp.Tool{
		Name:        "aggregate_feeds",
		Description: "Fetch several RSS/Atom feeds concurrently and return their entries merged into one list, newest first. Feeds that fail to load are skipped. Without urls the whole source catalog is aggregated.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"urls": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Feed URLs. Example: ['https://go.dev/blog/feed.atom']",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Maximum number of entries to return (default %d)", defaultEntryLimit),
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleAggregateFeeds)
}

func (s *Server) registerReadArticleTool() {
	tool := mcp.Tool{
		Name:        "read_article",
		Description: "Download a web page and return its main article in reader mode, without navigation, ads and scripts.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"url": map[string]interface{}{
					"type":        "string",
					"description": "Article URL. Example: 'https://example.com/post'",
				},
				"format": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"markdown", "html"},
					"description": "Output format, markdown by default",
				},
			},
			Required: []string{"url"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleReadArticle)
}

func (s *Server) registerSearchSourcesTool() {
	tool := mcp.Tool{
		Name:        "search_sources",
		Description: "Case-insensitive search over the source catalog by title, link, avatar text and category. Pages are 0-based; totalPages is 0 when everything fits on one page.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search text. Example: 'tech'",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number, starting at 0",
				},
			},
			Required: []string{"query"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSearchSources)
}

func (s *Server) handleAggregateFeeds(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input AggregateFeedsInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	sources := s.catalog.Sources()
	if input.URLs != nil {
		sources = lo.Map(input.URLs, func(u string, _ int) model.FeedSource {
			return s.catalog.Enrich(model.FeedSource{Link: strings.TrimSpace(u)})
		})

		if err := model.ValidateSources(sources); err != nil {
			return nil, fmt.Errorf("invalid urls: %w", err)
		}
	}

	limit := defaultEntryLimit
	if input.Limit != nil && *input.Limit > 0 {
		limit = *input.Limit
	}

	entries := s.aggregator.Aggregate(ctx, sources)

	output := AggregateFeedsOutput{
		Entries: lo.Slice(entries, 0, limit),
		Total:   len(entries),
	}
	if output.Entries == nil {
		output.Entries = []model.NormalizedEntry{}
	}
	output.Count = len(output.Entries)

	return jsonResult(output)
}

func (s *Server) handleReadArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ReadArticleInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if strings.TrimSpace(input.URL) == "" {
		return nil, fmt.Errorf("invalid url: %w", model.ErrNotAllowed)
	}

	doc, err := s.extractor.Extract(ctx, input.URL)
	if err != nil {
		return mcp.NewToolResultError("Error getting article"), nil
	}

	if input.Format == "html" {
		return mcp.NewToolResultText(doc.HTML), nil
	}

	return mcp.NewToolResultText(doc.Markdown), nil
}

func (s *Server) handleSearchSources(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SearchSourcesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	return jsonResult(s.catalog.Search(input.Query, input.Page))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}
