package bot

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/feed-reader-api/internal/botkit"
	"github.com/kovalyov-valentin/feed-reader-api/internal/botkit/markup"
	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

type ArticleExtractor interface {
	Extract(ctx context.Context, pageURL string) (*model.ArticleDocument, error)
}

// /read <url> отвечает текстом статьи. Markdown отдаем как есть, без разметки телеграма,
// иначе любая непарная звездочка ломает сообщение
func ViewCmdRead(extractor ArticleExtractor) botkit.ViewFunc {
	return func(ctx context.Context, bot botkit.API, update tgbotapi.Update) error {
		pageURL := strings.TrimSpace(update.Message.CommandArguments())
		if pageURL == "" {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /read <url>"))
			return err
		}

		text := "Не удалось получить статью"

		doc, err := extractor.Extract(ctx, pageURL)
		if err != nil {
			log.Printf("[ERROR] reading %s: %v", pageURL, err)
		} else {
			text = markup.Truncate(doc.Markdown, markup.MaxMessageRunes)
		}

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, text)
		reply.DisableWebPagePreview = true

		if _, err := bot.Send(reply); err != nil {
			return err
		}
		return nil
	}
}
