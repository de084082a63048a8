package notifier

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"github.com/tomakado/containers/set"

	"github.com/kovalyov-valentin/feed-reader-api/internal/botkit/markup"
	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
)

const (
	DefaultSendInterval = 10 * time.Minute
	DefaultBatch        = 5
	// Длинные описания в канал не тащим
	maxDescriptionRunes = 400
)

type Aggregator interface {
	Aggregate(ctx context.Context, sources []model.FeedSource) []model.NormalizedEntry
}

type SourceProvider interface {
	Sources() []model.FeedSource
}

// Sender это кусок tgbotapi.BotAPI, который нам нужен
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Notifier struct {
	// Откуда берем записи
	aggregator Aggregator
	// Какие ленты опрашиваем
	sources SourceProvider
	// Клиент телеграма
	bot Sender
	// Интервал, с которым notifier проверяет, есть ли новые записи
	sendInterval time.Duration
	// Сколько записей максимум отправляем за один проход
	batch int
	// id канала куда мы будем постить записи
	channelID int64

	// Момент публикации последней отправленной записи. Живет только в памяти
	lastPosted time.Time
	// Ссылки уже отправленных записей ровно с моментом lastPosted
	postedAtMark set.HashSet[string]
	primed       bool
}

func New(
	aggregator Aggregator,
	sources SourceProvider,
	bot Sender,
	sendInterval time.Duration,
	batch int,
	channelID int64,
) *Notifier {
	return &Notifier{
		aggregator:   aggregator,
		sources:      sources,
		bot:          bot,
		sendInterval: lo.Ternary(sendInterval > 0, sendInterval, DefaultSendInterval),
		batch:        lo.Ternary(batch > 0, batch, DefaultBatch),
		channelID:    channelID,
		postedAtMark: set.New[string](),
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	ticker := time.NewTicker(n.sendInterval)
	defer ticker.Stop()

	if err := n.SelectAndSendEntries(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ticker.C:
			if err := n.SelectAndSendEntries(ctx); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// SelectAndSendEntries собирает каталог и отправляет в канал записи новее последней отправленной.
// Самый первый проход ничего не шлет, только запоминает, докуда лента уже прочитана
func (n *Notifier) SelectAndSendEntries(ctx context.Context) error {
	entries := n.aggregator.Aggregate(ctx, n.sources.Sources())

	// Записи приходят отсортированными от новых к старым
	fresh := lo.Filter(entries, func(e model.NormalizedEntry, _ int) bool {
		return e.DateValid && !e.PublishedAt.Before(n.lastPosted) && !n.postedAtMark.Contains(e.Link)
	})

	if !n.primed {
		n.primed = true
		for _, entry := range fresh {
			n.markPosted(entry)
		}
		log.Printf("[INFO] notifier primed, %d entries already seen", len(fresh))
		return nil
	}

	if len(fresh) == 0 {
		return nil
	}

	// Берем самые старые из новых, остальные уйдут следующим проходом
	batch := lo.Reverse(fresh[max(len(fresh)-n.batch, 0):])

	for _, entry := range batch {
		if err := n.sendEntry(entry); err != nil {
			return fmt.Errorf("send entry %s: %w", entry.Link, err)
		}
		n.markPosted(entry)
	}

	log.Printf("[INFO] notifier posted %d entries", len(batch))

	return nil
}

// Записи с одинаковым временем могут разойтись по разным проходам, поэтому помним их ссылки
func (n *Notifier) markPosted(entry model.NormalizedEntry) {
	if entry.PublishedAt.After(n.lastPosted) {
		n.lastPosted = entry.PublishedAt
		n.postedAtMark = set.New[string]()
	}
	if entry.PublishedAt.Equal(n.lastPosted) {
		n.postedAtMark.Add(entry.Link)
	}
}

// Метод отправки записи
func (n *Notifier) sendEntry(entry model.NormalizedEntry) error {
	msg := tgbotapi.NewMessage(n.channelID, FormatEntry(entry))
	// Даем понять телеграм, чтобы это сообщение парсилось как markdown сообщение
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	_, err := n.bot.Send(msg)
	return err
}

// FormatEntry собирает MarkdownV2 сообщение: жирный заголовок, описание, ссылка
func FormatEntry(entry model.NormalizedEntry) string {
	parts := []string{"*" + markup.EscapeForMarkdown(entry.Title) + "*"}

	if description := strings.TrimSpace(entry.Description); description != "" {
		parts = append(parts, markup.EscapeForMarkdown(markup.Truncate(description, maxDescriptionRunes)))
	}

	parts = append(parts, markup.EscapeForMarkdown(entry.Link))

	return strings.Join(parts, "\n\n")
}
