package botkit

import (
	"context"
	"log"
	"runtime/debug"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// /read и /latest ходят в сеть, им нужно больше пары секунд
const DefaultUpdateTimeout = 30 * time.Second

// API это часть клиента телеграма, которой пользуются view
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetChatAdministrators(config tgbotapi.ChatAdministratorsConfig) ([]tgbotapi.ChatMember, error)
}

// Update здесь это любой эвент, который приходит от телеграма при взаимодействии пользователя с ботом.
// Это функция которая будет реагировать на определенную команду
type ViewFunc func(ctx context.Context, bot API, update tgbotapi.Update) error

type Bot struct {
	// Инстанс апи телеграма, из него читаем обновления
	api *tgbotapi.BotAPI
	// Через него отвечаем. В проде это тот же api
	client API
	// Мапа в которой храним view по имени команды
	cmdViews map[string]ViewFunc
	// Сколько даем на обработку одного update
	updateTimeout time.Duration
}

func New(api *tgbotapi.BotAPI) *Bot {
	return &Bot{
		api:           api,
		client:        api,
		cmdViews:      make(map[string]ViewFunc),
		updateTimeout: DefaultUpdateTimeout,
	}
}

// Метод для регистрации View для команды
func (b *Bot) RegisterCmdView(cmd string, view ViewFunc) {
	if b.cmdViews == nil {
		b.cmdViews = make(map[string]ViewFunc)
	}

	b.cmdViews[cmd] = view
}

// Run обрабатывает обновления, пока не отменят ctx.
// Каждый update обрабатывается в своей горутине, чтобы медленный /read не держал остальных
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			wg.Add(1)
			go func() {
				defer wg.Done()

				updateCtx, updateCancel := context.WithTimeout(ctx, b.updateTimeout)
				defer updateCancel()

				b.handleUpdate(updateCtx, update)
			}()
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

// Метод, который обрабатывает update и роутит команды на соответствующие view
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// В процессе работы бота в каких то view может произойти паника, поэтому мы ее должны перехватить
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[ERROR] panic recovered: %v\n%s", p, string(debug.Stack()))
		}
	}()

	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	// Сообщение может содержать не только команду, поэтому достаем ее отдельно
	view, ok := b.cmdViews[update.Message.Command()]
	if !ok {
		return
	}

	if err := view(ctx, b.client, update); err != nil {
		log.Printf("[ERROR] failed to handle update: %v", err)

		if _, err := b.client.Send(
			tgbotapi.NewMessage(update.Message.Chat.ID, "internal error"),
		); err != nil {
			log.Printf("[ERROR] failed to send message: %v", err)
		}
	}
}
