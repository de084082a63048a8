package main

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

var (
	aggregateLimit int
	aggregateJSON  bool
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [feed-url...]",
	Short: "Fetch feeds and print the merged stream, newest first",
	Long: `Fetch the given feeds concurrently and print their entries merged into one list.
Without arguments the whole catalog is aggregated. Feeds that fail are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sources := appCatalog.Sources()
		if len(args) > 0 {
			sources = lo.Map(args, func(link string, _ int) model.FeedSource {
				return appCatalog.Enrich(model.FeedSource{Link: link})
			})
		}

		if err := model.ValidateSources(sources); err != nil {
			return fmt.Errorf("nothing to aggregate: %w", err)
		}

		entries := appFetcher.Aggregate(cmd.Context(), sources)

		if aggregateJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		printEntries(cmd.OutOrStdout(), entries, aggregateLimit)
		return nil
	},
}

func init() {
	aggregateCmd.Flags().IntVarP(&aggregateLimit, "limit", "n", 20, "how many entries to print (0 for all)")
	aggregateCmd.Flags().BoolVar(&aggregateJSON, "json", false, "print the full stream as JSON")
	rootCmd.AddCommand(aggregateCmd)
}
