package model

import "time"

// Сырая лента в том виде, в котором ее отдал парсер.
// Items == nil означает, что у ленты вообще нет списка элементов.
type RawFeed struct {
	// Заголовок самой ленты
	Title string
	Items []RawItem
}

// Сырой элемент ленты.
// Fields хранит только те поля, которые реально были в источнике (title, description, link, pubDate, category)
type RawItem struct {
	Fields map[string]string
	// Дата, которую уже распарсила библиотека. nil если распарсить не удалось
	Published *time.Time
}

// Нормализованная запись общей ленты. Именно ее мы отдаем клиенту
type NormalizedEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	// Дата в человекочитаемом виде, только для отображения
	PubDate  string `json:"pubDate"`
	Category string `json:"category"`

	IsFavorite bool `json:"isFavorite"`
	IsRead     bool `json:"isRead"`

	AvatarThumbnail string `json:"avatarThumbnail"`
	AvatarText      string `json:"avatarText"`
	// Заголовок ленты, из которой пришла запись
	RootTitle string `json:"rootTitle"`
	RootLink  string `json:"rootLink"`

	// Исходный момент публикации. По нему сортируем, клиенту не отдаем
	PublishedAt time.Time `json:"-"`
	DateValid   bool      `json:"-"`
}

// Запись каталога источников
type CatalogEntry struct {
	Title           string `json:"title" yaml:"title"`
	Link            string `json:"link" yaml:"link"`
	AvatarThumbnail string `json:"avatarThumbnail" yaml:"avatar_thumbnail"`
	AvatarText      string `json:"avatarText" yaml:"avatar_text"`
	Category        string `json:"category" yaml:"category"`
}

// Страница результатов поиска по каталогу
type SearchPage struct {
	Data       []CatalogEntry `json:"data"`
	TotalPages int            `json:"totalPages"`
}

// Статья в режиме чтения
type ArticleDocument struct {
	URL   string
	Title string
	// Готовая самостоятельная html страница
	HTML string
	// Очищенный контент в markdown
	Markdown string
	// Краткая выжимка, если включен summarizer
	Summary string
}
