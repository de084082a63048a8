package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/kovalyov-valentin/feed-reader-api/internal/catalog"
	"github.com/kovalyov-valentin/feed-reader-api/internal/config"
	"github.com/kovalyov-valentin/feed-reader-api/internal/fetch"
	"github.com/kovalyov-valentin/feed-reader-api/internal/fetcher"
	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
	"github.com/kovalyov-valentin/feed-reader-api/internal/normalize"
	"github.com/kovalyov-valentin/feed-reader-api/internal/reader"
	"github.com/kovalyov-valentin/feed-reader-api/internal/storage"
	"github.com/kovalyov-valentin/feed-reader-api/internal/summary"
)

var version = "dev"

var (
	catalogFile string

	// Зависимости собираются один раз перед запуском любой команды
	appCatalog *catalog.Catalog
	appFetcher *fetcher.Fetcher
	appReader  *reader.Reader
)

var rootCmd = &cobra.Command{
	Use:   "feed-reader",
	Short: "RSS/Atom aggregator with reader mode",
	Long: `Fetches many RSS/Atom feeds at once and merges them into one stream, newest first.
Also turns any article page into a clean reader mode document.

Configuration is read from config.hcl, config.local.hcl, .env and FEEDREADER_* variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if catalogFile != "" {
			cfg.CatalogFile = catalogFile
		}

		// Без каталога сервис работает, просто без аватаров и поиска
		entries, err := loadCatalog(cmd.Context(), cfg)
		if err != nil {
			log.Printf("[ERROR] failed to load catalog: %v", err)
		}
		appCatalog = catalog.New(entries, cfg.SearchPageSize)

		client := fetch.NewClient(cfg.UserAgent, cfg.MaxResponseBytes)

		appFetcher = fetcher.NewFetcher(
			client,
			cfg.FeedTimeout,
			cfg.MaxConcurrentFetches,
			normalize.Options{
				MaxItems:       cfg.MaxItemsPerFeed,
				Location:       cfg.Location(),
				FilterKeywords: cfg.FilterKeywords,
			},
		)
		appReader = reader.New(client, cfg.ArticleTimeout, cfg.KeepImages, newSummarizer(cfg))

		return nil
	},
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "catalog file path (default from config: ./sources.yaml)")
}

// Если задан DSN, каталог лежит в postgres, иначе в yaml файле.
// Каталог читается один раз, поэтому соединение с БД сразу закрываем
func loadCatalog(ctx context.Context, cfg config.Config) ([]model.CatalogEntry, error) {
	if cfg.DatabaseDSN == "" {
		return storage.NewSourceFileStorage(cfg.CatalogFile).Sources(ctx)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	return storage.NewSourcePostgresStorage(db).Sources(ctx)
}

// Выключенный summarizer не передаем совсем, чтобы reader не ходил в него зря
func newSummarizer(cfg config.Config) reader.Summarizer {
	s := summary.NewOpenAISummarizer(cfg.OpenAIKey, cfg.OpenAIPrompt)
	if !s.Enabled() {
		return nil
	}
	return s
}
