package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/feed-reader-api/internal/botkit"
	"github.com/kovalyov-valentin/feed-reader-api/internal/botkit/markup"
	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

const latestLimit = 10

type Aggregator interface {
	Aggregate(ctx context.Context, sources []model.FeedSource) []model.NormalizedEntry
}

type SourceProvider interface {
	Sources() []model.FeedSource
}

// /latest собирает весь каталог и показывает самые свежие записи
func ViewCmdLatest(aggregator Aggregator, sources SourceProvider) botkit.ViewFunc {
	return func(ctx context.Context, bot botkit.API, update tgbotapi.Update) error {
		entries := aggregator.Aggregate(ctx, sources.Sources())

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, formatLatest(entries))
		reply.ParseMode = tgbotapi.ModeMarkdownV2
		reply.DisableWebPagePreview = true

		if _, err := bot.Send(reply); err != nil {
			return err
		}
		return nil
	}
}

func formatLatest(entries []model.NormalizedEntry) string {
	if len(entries) == 0 {
		return "Свежих записей нет"
	}

	lines := lo.Map(lo.Slice(entries, 0, latestLimit), func(e model.NormalizedEntry, i int) string {
		return fmt.Sprintf("%d\\. *%s*\n%s\n%s",
			i+1,
			markup.EscapeForMarkdown(e.Title),
			markup.EscapeForMarkdown(e.PubDate),
			markup.EscapeForMarkdown(e.Link),
		)
	})

	return strings.Join(lines, "\n\n")
}
