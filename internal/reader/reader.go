package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/kovalyov-valentin/feed-reader-api/internal/model"
	"github.com/samber/lo"
)

const DefaultTimeout = 10 * time.Second

// У клиента openai своего таймаута нет
const DefaultSummaryTimeout = 20 * time.Second

var (
	// ErrExtraction оборачивает любую ошибку режима чтения. Клиенту мы отдаем только ее
	ErrExtraction = errors.New("error getting article")
	ErrNoContent  = errors.New("no readable content")
)

type Downloader interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type Reader struct {
	// Чем скачиваем страницу
	downloader Downloader
	// Сколько ждем страницу
	timeout time.Duration
	// Оставлять ли картинки
	keepImages bool
	// Может быть nil, тогда без выжимки
	summarizer     Summarizer
	summaryTimeout time.Duration
}

func New(downloader Downloader, timeout time.Duration, keepImages bool, summarizer Summarizer) *Reader {
	return &Reader{
		downloader: downloader,
		timeout:    lo.Ternary(timeout > 0, timeout, DefaultTimeout),
		keepImages: keepImages,
		summarizer: summarizer,

		summaryTimeout: DefaultSummaryTimeout,
	}
}

// Extract скачивает страницу, вытаскивает из нее статью и собирает отдельный html документ.
// Частичный документ не возвращается никогда: либо документ, либо ErrExtraction.
func (r *Reader) Extract(ctx context.Context, pageURL string) (doc *model.ArticleDocument, err error) {
	// go-readability ходит по произвольному DOM, паника тоже должна стать ErrExtraction
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[ERROR] panic recovered while extracting %s: %v\n%s", pageURL, p, string(debug.Stack()))
			doc, err = nil, fmt.Errorf("%w: panic: %v", ErrExtraction, p)
		}
	}()

	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, fmt.Errorf("%w: empty url", ErrExtraction)
	}

	body, err := r.download(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch page: %w", ErrExtraction, err)
	}

	page, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse page: %w", ErrExtraction, err)
	}

	removeNoise(page.Selection, r.keepImages)

	// Адрес страницы уже проверен загрузчиком
	base, _ := url.Parse(pageURL)

	article, err := readability.FromDocument(page.Nodes[0], base)
	if err != nil {
		return nil, fmt.Errorf("%w: readability: %w", ErrExtraction, err)
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, ErrNoContent)
	}

	title := strings.TrimSpace(article.Title)
	summary := r.summarize(ctx, pageURL, article.TextContent)

	content, err := apply(
		sanitize(article.Content),
		dedupImages,
		removeSocialLinks,
		rewriteRootLinks(pageURL),
		ensureTitle(title),
		insertSummary(summary),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: clean content: %w", ErrExtraction, err)
	}

	html, err := renderDocument(pageURL, title, content)
	if err != nil {
		return nil, fmt.Errorf("%w: render document: %w", ErrExtraction, err)
	}

	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return nil, fmt.Errorf("%w: convert to markdown: %w", ErrExtraction, err)
	}

	return &model.ArticleDocument{
		URL:      pageURL,
		Title:    title,
		HTML:     html,
		Markdown: strings.TrimSpace(markdown),
		Summary:  summary,
	}, nil
}

func (r *Reader) download(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.downloader.Get(ctx, pageURL)
}

// Выжимка необязательна: если не получилось, просто показываем статью без нее
func (r *Reader) summarize(ctx context.Context, pageURL, text string) string {
	if r.summarizer == nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, r.summaryTimeout)
	defer cancel()

	summary, err := r.summarizer.Summarize(ctx, cleanText(text))
	if err != nil {
		log.Printf("[ERROR] summarizing %s: %v", pageURL, err)
		return ""
	}

	return strings.TrimSpace(summary)
}

// Узлы, которые не несут текста. Картинки убираем, только если их не просили оставить
func removeNoise(page *goquery.Selection, keepImages bool) {
	page.Find("svg, video, audio, iframe, noscript, canvas").Remove()

	if !keepImages {
		page.Find("img, picture").Remove()
	}
}
