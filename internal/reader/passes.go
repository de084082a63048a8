package reader

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tomakado/containers/set"
)

// Один шаг очистки контента. Каждый шаг работает с body свежеразобранного дерева
type pass func(body *goquery.Selection)

var allowedTags = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"em", "strong", "b", "i", "u", "s", "small", "sub", "sup", "mark",
	"p", "div", "span", "section", "article", "blockquote", "pre", "code", "hr", "figure", "figcaption",
	"ul", "ol", "li", "dl", "dt", "dd",
	"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
	"img", "a", "br",
}

// Тексты ссылок "поделиться", которые readability часто оставляет в статье
var socialKeywords = set.New(
	"share", "tweet", "twitter", "facebook", "linkedin", "pinterest",
	"reddit", "email", "whatsapp", "telegram", "print",
)

var sanitizePolicy = newSanitizePolicy()

// Белый список тегов и атрибутов. Все остальное вырезается вместе с атрибутами,
// содержимое script и style выкидывается целиком
func newSanitizePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(allowedTags...)
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")

	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)

	return p
}

func sanitize(content string) string {
	return sanitizePolicy.Sanitize(content)
}

// apply разбирает контент в новое дерево, прогоняет шаги по порядку и сериализует результат
func apply(content string, passes ...pass) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", err
	}

	body := doc.Find("body")
	for _, p := range passes {
		p(body)
	}

	out, err := body.Html()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

// Одна и та же картинка часто попадает в статью несколько раз
func dedupImages(body *goquery.Selection) {
	seen := set.New[string]()

	body.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok {
			return
		}

		if seen.Contains(src) {
			img.Remove()
			return
		}
		seen.Add(src)
	})
}

func removeSocialLinks(body *goquery.Selection) {
	body.Find("a").Each(func(_ int, a *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(a.Text()))

		if socialKeywords.Contains(text) || strings.HasPrefix(text, "share on") || strings.HasPrefix(text, "share via") {
			a.Remove()
		}
	})
}

// Ссылки от корня сайта ("/foo") делаем абсолютными.
// Если из адреса страницы не получается корень, ничего не трогаем
func rewriteRootLinks(pageURL string) pass {
	root, err := url.Parse(pageURL)
	if err != nil || root.Scheme == "" || root.Host == "" {
		return func(*goquery.Selection) {}
	}

	rewrite := func(s *goquery.Selection, attr string) {
		value, ok := s.Attr(attr)
		if !ok {
			return
		}

		switch {
		case strings.HasPrefix(value, "//"):
			s.SetAttr(attr, root.Scheme+":"+value)
		case strings.HasPrefix(value, "/"):
			s.SetAttr(attr, root.Scheme+"://"+root.Host+value)
		}
	}

	return func(body *goquery.Selection) {
		body.Find("a[href]").Each(func(_ int, a *goquery.Selection) { rewrite(a, "href") })
		body.Find("img[src]").Each(func(_ int, img *goquery.Selection) { rewrite(img, "src") })
	}
}

// Заголовок добавляем, только если его текста еще нет в статье
func ensureTitle(title string) pass {
	return func(body *goquery.Selection) {
		want := squash(title)
		if want == "" || strings.Contains(squash(body.Text()), want) {
			return
		}

		body.PrependHtml("<h1>" + html.EscapeString(title) + "</h1>")
	}
}

// Выжимка идет сразу после заголовка
func insertSummary(summary string) pass {
	return func(body *goquery.Selection) {
		if strings.TrimSpace(summary) == "" {
			return
		}

		block := `<div class="summary"><p>` + html.EscapeString(summary) + `</p></div>`

		if first := body.Children().First(); first.Is("h1") {
			first.AfterHtml(block)
			return
		}
		body.PrependHtml(block)
	}
}

// Сравниваем без регистра и пробелов
func squash(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// readability оставляет много пустых строк в тексте без html тегов.
// Схлопываем все последовательности от трех переводов строки подряд
var redundantNewLines = regexp.MustCompile(`\n{3,}`)

func cleanText(text string) string {
	return strings.TrimSpace(redundantNewLines.ReplaceAllString(text, "\n"))
}
