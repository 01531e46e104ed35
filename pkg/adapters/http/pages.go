package http

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/aretw0/mosaic/pkg/dictionary"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed assets/index.md
var indexMarkdown []byte

const headHTML = `<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="preconnect" href="https://fonts.googleapis.com">
<link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
<link href="https://fonts.googleapis.com/css2?family=Inter:wght@200&display=swap" rel="stylesheet">
<style>
    body {
        font-family: 'Inter', sans-serif;
        margin: 100px auto;
        text-align: center;
        max-width: 500px;
        font-size: 12pt;
    }
    img {
        display: block;
        width: 100%;
        image-rendering: pixelated;
    }
    li {
        text-align: left;
    }
</style>
<title>{{.Title}}</title>
</head>`

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
` + headHTML + `
<body>
{{- if .Heading}}
<h1>{{.Heading}}</h1>
{{- end}}
{{- range .Paragraphs}}
<p>{{.}}</p>
{{- end}}
{{.Body}}
</body>
</html>
`))

type page struct {
	Title      string
	Heading    string
	Paragraphs []string
	Body       template.HTML
}

func renderPage(p page) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderIndex converts the landing page markdown once at startup.
func renderIndex() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert(indexMarkdown, &body); err != nil {
		return nil, err
	}
	return renderPage(page{Title: "mosaic", Body: template.HTML(body.String())})
}

func renderDefinition(def *dictionary.Definition) ([]byte, error) {
	name := def.DisplayName()
	return renderPage(page{
		Title:      name,
		Heading:    name,
		Paragraphs: def.ShortDefs,
	})
}
