// Package web embeds the page shell and the static assets the widget page
// loads.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData is rendered into the page shell.
type PageData struct {
	WidgetID string
	Hints    []string
}

// Hints are the suggested queries shown under the input.
var Hints = []string{
	`"Find running shoes under $100"`,
	`"Recommend a mystery novel"`,
	`"What's on sale today?"`,
}

// Page parses the embedded page shell.
func Page() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/index.html")
}

// StaticHandler serves the embedded assets. Mount it under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
