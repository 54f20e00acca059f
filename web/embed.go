package web

import (
	"embed"
	"io/fs"
	"net/http"

	html "github.com/gofiber/template/html/v2"

	"pixelmart/internal/domain"
)

//go:embed templates/*.html
var templates embed.FS

// Engine returns the page renderer backed by the embedded templates.
func Engine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("money", domain.FormatMoney)
	engine.AddFunc("deref", func(v *float64) float64 { return *v })
	return engine
}
