package views

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// IndexPage is the data rendered into index.html
type IndexPage struct {
	Title          string
	Provider       string
	Model          string
	QuickQuestions []string
}

// ParseIndex parses the embedded chat page
func ParseIndex() (*template.Template, error) {
	return template.ParseFS(files, "index.html")
}
