package http

import (
	"embed"
	"html/template"
	"io/fs"
	"strings"
	"unicode/utf8"

	"login-signup/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var pageFuncs = template.FuncMap{
	"avatar": func(url string) string {
		if strings.TrimSpace(url) == "" {
			return domain.PlaceholderAvatar
		}
		return url
	},
	"initial": func(name string) string {
		name = strings.TrimSpace(name)
		if name == "" {
			return "?"
		}
		r, _ := utf8.DecodeRuneInString(name)
		return string(r)
	},
}

// LoadTemplates parsea las paginas embebidas.
func LoadTemplates() (*template.Template, error) {
	return template.New("pages").Funcs(pageFuncs).ParseFS(templatesFS, "templates/*.html")
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
