package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kovalyov-valentin/feed-reader-api/internal/botkit"
)

const startText = `Привет! Я собираю RSS и Atom ленты в одну и умею показывать статьи в режиме чтения.

/sources - список источников
/search <запрос> - поиск по каталогу
/latest - свежие записи всех источников
/read <url> - статья без рекламы и лишнего`

func ViewCmdStart() botkit.ViewFunc {
	return func(_ context.Context, bot botkit.API, update tgbotapi.Update) error {
		reply := tgbotapi.NewMessage(update.Message.Chat.ID, startText)

		if _, err := bot.Send(reply); err != nil {
			return err
		}
		return nil
	}
}
