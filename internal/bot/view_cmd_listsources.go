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

// Больше в одно сообщение не влезает, остальное ищется через /search
const maxListedSources = 30

type SourceLister interface {
	All() []model.CatalogEntry
}

func ViewCmdListSources(lister SourceLister) botkit.ViewFunc {
	return func(ctx context.Context, bot botkit.API, update tgbotapi.Update) error {
		sources := lister.All()

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, formatSourceList(sources))
		reply.ParseMode = tgbotapi.ModeMarkdownV2
		reply.DisableWebPagePreview = true

		if _, err := bot.Send(reply); err != nil {
			return err
		}
		return nil
	}
}

func formatSourceList(sources []model.CatalogEntry) string {
	if len(sources) == 0 {
		return "Каталог источников пуст"
	}

	// Складываем сформатированные тексты с метаинформацией об источниках
	sourceInfos := lo.Map(lo.Slice(sources, 0, maxListedSources), func(source model.CatalogEntry, _ int) string {
		return formatSource(source)
	})

	msgText := fmt.Sprintf(
		"Список источников \\(всего %d\\):\n\n%s",
		len(sources),
		strings.Join(sourceInfos, "\n\n"),
	)

	if len(sources) > maxListedSources {
		msgText += "\n\nОстальные ищите через /search"
	}

	return msgText
}

// Вывод форматированной информации об источнике
func formatSource(source model.CatalogEntry) string {
	info := fmt.Sprintf("🌐 *%s*", markup.EscapeForMarkdown(source.Title))

	if source.Category != "" {
		info += fmt.Sprintf("\nКатегория: %s", markup.EscapeForMarkdown(source.Category))
	}

	return info + fmt.Sprintf("\nURL фида: %s", markup.EscapeForMarkdown(source.Link))
}
