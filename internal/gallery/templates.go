package gallery

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("gallery").ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is Templates for package-level wiring; it panics on a
// broken embedded template.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
