package config

import (
	"log"
	"sync"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
	"github.com/joho/godotenv"
)

// Хранить в файле мы будем в формате hcl.
// Также указываем ключ для переменных окружения
type Config struct {
	HTTPAddr string `hcl:"http_addr" env:"HTTP_ADDR" default:":8080"`

	// Таймаут на одну ленту. Лента, которая не уложилась, просто не дает записей
	FeedTimeout time.Duration `hcl:"feed_timeout" env:"FEED_TIMEOUT" default:"2s"`
	// Таймаут на загрузку страницы статьи
	ArticleTimeout time.Duration `hcl:"article_timeout" env:"ARTICLE_TIMEOUT" default:"10s"`
	// Сколько лент мы опрашиваем одновременно в рамках одного запроса
	MaxConcurrentFetches int    `hcl:"max_concurrent_fetches" env:"MAX_CONCURRENT_FETCHES" default:"16"`
	MaxItemsPerFeed      int    `hcl:"max_items_per_feed" env:"MAX_ITEMS_PER_FEED" default:"500"`
	MaxResponseBytes     int64  `hcl:"max_response_bytes" env:"MAX_RESPONSE_BYTES" default:"10485760"`
	UserAgent            string `hcl:"user_agent" env:"USER_AGENT" default:"feed-reader-api/1.0"`

	// Часовой пояс, в котором форматируем pubDate
	DisplayTimezone string   `hcl:"display_timezone" env:"DISPLAY_TIMEZONE" default:"UTC"`
	FilterKeywords  []string `hcl:"filter_keywords" env:"FILTER_KEYWORDS"`
	// Оставлять ли картинки в режиме чтения
	KeepImages bool `hcl:"keep_images" env:"KEEP_IMAGES" default:"false"`

	// Каталог источников. Если задан DSN, читаем из postgres, иначе из файла
	CatalogFile    string `hcl:"catalog_file" env:"CATALOG_FILE" default:"./sources.yaml"`
	DatabaseDSN    string `hcl:"database_dsn" env:"DATABASE_DSN"`
	SearchPageSize int    `hcl:"search_page_size" env:"SEARCH_PAGE_SIZE" default:"20"`

	TelegramBotToken  string `hcl:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChannelID int64  `hcl:"telegram_channel_id" env:"TELEGRAM_CHANNEL_ID"`

	// Как часто постим свежие записи каталога в канал
	NotificationInterval time.Duration `hcl:"notification_interval" env:"NOTIFICATION_INTERVAL" default:"10m"`
	// Сколько записей максимум за один раз
	NotificationBatch int `hcl:"notification_batch" env:"NOTIFICATION_BATCH" default:"5"`

	OpenAIKey    string `hcl:"openai_key" env:"OPENAI_KEY"`
	OpenAIPrompt string `hcl:"openai_prompt" env:"OPENAI_PROMPT"`
}

// cfg - инстанс конфига, в который мы будем читать данные
// И once, которая нам гарантирует что функция вызванная с помощью этого примитива будем выполнена не более чем один раз.
var (
	cfg  Config
	once sync.Once
)

// Метод get, который возвращает конфиг
func Get() Config {
	once.Do(func() {
		// .env удобен локально, в проде его обычно нет
		if err := godotenv.Load(); err != nil {
			log.Printf("[INFO] .env not loaded: %v", err)
		}

		loader := aconfig.LoaderFor(&cfg, aconfig.Config{
			// Префикс для переменных окружения, чтобы они случайно не пересеклись с другими программами
			EnvPrefix: "FEEDREADER",
			// Флаги разбирает cobra
			SkipFlags: true,
			Files:     []string{"./config.hcl", "./config.local.hcl"},
			FileDecoders: map[string]aconfig.FileDecoder{
				".hcl": aconfighcl.New(),
			},
		})

		if err := loader.Load(); err != nil {
			log.Printf("[ERROR] failed to load config: %v", err)
		}
	})

	return cfg
}

// Location возвращает часовой пояс для отображения дат. При ошибке UTC
func (c Config) Location() *time.Location {
	if c.DisplayTimezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		log.Printf("[ERROR] unknown display timezone %q, using UTC: %v", c.DisplayTimezone, err)
		return time.UTC
	}

	return loc
}
