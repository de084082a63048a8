package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kovalyov-valentin/feed-reader-api/internal/api"
	"github.com/kovalyov-valentin/feed-reader-api/internal/bot"
	"github.com/kovalyov-valentin/feed-reader-api/internal/bot/middleware"
	"github.com/kovalyov-valentin/feed-reader-api/internal/botkit"
	"github.com/kovalyov-valentin/feed-reader-api/internal/config"
	"github.com/kovalyov-valentin/feed-reader-api/internal/notifier"
)

var httpAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and, if configured, the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if httpAddr != "" {
			cfg.HTTPAddr = httpAddr
		}

		g, ctx := errgroup.WithContext(cmd.Context())

		server := api.New(appFetcher, appReader, appCatalog)
		g.Go(func() error {
			return server.Run(ctx, cfg.HTTPAddr)
		})

		if cfg.TelegramBotToken != "" {
			if err := startBot(ctx, g, cfg); err != nil {
				return err
			}
		}

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (default from config: :8080)")
	rootCmd.AddCommand(serveCmd)
}

// startBot поднимает бота и, если задан канал, воркер notifier
func startBot(ctx context.Context, g *errgroup.Group, cfg config.Config) error {
	// Создаем бота, используя токен из конфига
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	latest := bot.ViewCmdLatest(appFetcher, appCatalog)
	if cfg.TelegramChannelID != 0 {
		// Обернуть middleware все view где нужно дать доступ только админу
		latest = middleware.AdminOnly(cfg.TelegramChannelID, latest)
	}

	newsBot := botkit.New(botAPI)
	newsBot.RegisterCmdView("start", bot.ViewCmdStart())
	newsBot.RegisterCmdView("sources", bot.ViewCmdListSources(appCatalog))
	newsBot.RegisterCmdView("search", bot.ViewCmdSearch(appCatalog))
	newsBot.RegisterCmdView("latest", latest)
	newsBot.RegisterCmdView("read", bot.ViewCmdRead(appReader))

	g.Go(func() error {
		stopped("bot", newsBot.Run(ctx))
		return nil
	})

	if cfg.TelegramChannelID != 0 {
		n := notifier.New(
			appFetcher,
			appCatalog,
			botAPI,
			cfg.NotificationInterval,
			cfg.NotificationBatch,
			cfg.TelegramChannelID,
		)

		g.Go(func() error {
			stopped("notifier", n.Start(ctx))
			return nil
		})
	}

	return nil
}

// Бот и notifier вспомогательные: если они упали, HTTP API продолжает работать.
// Отмена контекста это штатная остановка, а не ошибка
func stopped(name string, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		log.Printf("[INFO] %s stopped", name)
		return
	}

	log.Printf("[ERROR] %s failed: %v", name, err)
}
