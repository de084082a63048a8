package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/feed-reader-api/internal/botkit"
	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

type SourceSearcher interface {
	Search(query string, page int) model.SearchPage
}

// /search <запрос> показывает первую страницу найденного
func ViewCmdSearch(searcher SourceSearcher) botkit.ViewFunc {
	return func(_ context.Context, bot botkit.API, update tgbotapi.Update) error {
		query := strings.TrimSpace(update.Message.CommandArguments())
		if query == "" {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /search <запрос>"))
			return err
		}

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, formatSearchPage(searcher.Search(query, 0)))
		reply.ParseMode = tgbotapi.ModeMarkdownV2
		reply.DisableWebPagePreview = true

		if _, err := bot.Send(reply); err != nil {
			return err
		}
		return nil
	}
}

func formatSearchPage(page model.SearchPage) string {
	if len(page.Data) == 0 {
		return "Ничего не нашлось"
	}

	msgText := strings.Join(lo.Map(page.Data, func(source model.CatalogEntry, _ int) string {
		return formatSource(source)
	}), "\n\n")

	if page.TotalPages > 1 {
		msgText += fmt.Sprintf("\n\nСтраница 1 из %d, уточните запрос", page.TotalPages)
	}

	return msgText
}
