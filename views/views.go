// Package views holds the server-rendered page templates.
package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Load parses every page template.
func Load() (*template.Template, error) {
	return template.New("").ParseFS(files, "templates/*.html")
}
