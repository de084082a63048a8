package reader

import (
	"bytes"
	"html/template"
)

const articleStyle = `
  @import url('https://fonts.googleapis.com/css2?family=Roboto:ital,wght@0,300;0,400;0,500;0,700;1,400;1,500&display=swap');

  * {
    font-family: 'Roboto', sans-serif;
  }

  body {
    text-align: center;
  }

  h1 {
    max-width: 900px;
    margin: auto;
    padding: 2%;
    line-height: 1.5;
    text-align: center;
    font-size: 1.5rem;
  }

  .originalLink {
    display: inline-block;
    font-size: 1.2rem;
    margin: 30px;
  }

  .summary {
    max-width: 900px;
    margin: auto;
    font-style: italic;
  }

  .page {
    font-size: 1.15rem;
    line-height: 1.5;
    text-align: justify;
    max-width: 900px;
    margin: auto;
    padding: 2%;
  }

  .page * {
    text-align: justify;
  }

  .page img {
    max-width: 100%;
    height: auto;
  }

  .page h2, .page h3, .page h4, .page h5, .page h6 {
    font-size: 1.25rem;
  }
`

var documentTemplate = template.Must(template.New("article").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>{{.Style}}</style>
</head>
<body>
<a class="originalLink" href="{{.URL}}">Go to webpage</a>
<div class="page">
{{.Content}}
</div>
</body>
</html>
`))

type documentData struct {
	Title   string
	URL     string
	Style   template.CSS
	Content template.HTML
}

// Контент к этому моменту уже прошел белый список, поэтому вставляем его как есть
func renderDocument(pageURL, title, content string) (string, error) {
	var buf bytes.Buffer

	if err := documentTemplate.Execute(&buf, documentData{
		Title:   title,
		URL:     pageURL,
		Style:   template.CSS(articleStyle),
		Content: template.HTML(content),
	}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
