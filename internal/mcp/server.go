// Package mcp exposes aggregation, reader mode and catalog search as MCP tools over stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

type Aggregator interface {
	Aggregate(ctx context.Context, sources []model.FeedSource) []model.NormalizedEntry
}

type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*model.ArticleDocument, error)
}

type Catalog interface {
	Enrich(src model.FeedSource) model.FeedSource
	Sources() []model.FeedSource
	Search(query string, page int) model.SearchPage
}

// Server wraps the MCP server with the feed reader services
type Server struct {
	mcpServer  *server.MCPServer
	aggregator Aggregator
	extractor  Extractor
	catalog    Catalog
}

func NewServer(aggregator Aggregator, extractor Extractor, catalog Catalog, version string) *Server {
	s := &Server{
		aggregator: aggregator,
		extractor:  extractor,
		catalog:    catalog,
	}

	s.mcpServer = server.NewMCPServer(
		"feed-reader",
		version,
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
