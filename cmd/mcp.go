package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kovalyov-valentin/feed-reader-api/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agents",
	Long: `Start the Model Context Protocol (MCP) server on stdio.

Exposes feed aggregation, reader mode and catalog search as tools.
The server communicates via JSON-RPC on stdin/stdout, logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(appFetcher, appReader, appCatalog, version)

		if err := server.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
