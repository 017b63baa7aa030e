package apidocs

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
)

type Opts func(*config)

// configures the Doc middleware
type config struct {
	// Title shown in the browser tab
	Title string
	// SpecURL the url to find the spec for
	SpecURL string
}

func WithTitle(title string) Opts {
	return func(c *config) {
		c.Title = title
	}
}

// Doc serves a Scalar page at basePath and the OpenAPI document next to it.
func Doc(basePath string, apiJSON []byte, opts ...Opts) echo.MiddlewareFunc {
	cfg := &config{
		Title:   "API documentation",
		SpecURL: path.Join(basePath, "openapi.json"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tmpl := template.Must(template.New("apidoc").Parse(pageTemplate))
	buf := bytes.NewBuffer(nil)
	_ = tmpl.Execute(buf, cfg)
	uiHTML := buf.String()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch reqPath := c.Request().URL.Path; reqPath {
			case basePath, basePath + "/":
				return c.HTML(http.StatusOK, uiHTML)
			case cfg.SpecURL:
				return c.JSONBlob(http.StatusOK, apiJSON)
			default:
				if next == nil {
					return c.String(http.StatusNotFound, fmt.Sprintf("%q not found", reqPath))
				}
				return next(c)
			}
		}
	}
}

const pageTemplate = `
<!DOCTYPE html>
<html lang="en">
  <head>
    <title>{{ .Title }}</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>

  <body>
    <script id="api-reference" data-url="{{ .SpecURL }}"></script>

    <script src="https://cdnjs.cloudflare.com/ajax/libs/scalar-api-reference/1.25.99/standalone.min.js" integrity="sha512-ai3lOYZ5efNXMYwnqhz0mnCaImbqfwLE1VCx9Y9nhB3OJX4/uegjIAoQtJHy3SILHp/gS1OlPCIeNFPZT5i2WQ==" crossorigin="anonymous" referrerpolicy="no-referrer"></script>
  </body>
</html>`
