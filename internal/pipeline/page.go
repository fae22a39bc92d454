package pipeline

import (
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrPageRender indicates the page template could not be parsed or executed.
var ErrPageRender = errors.New("page template rendering failed")

// PageData is the data available to the page template.
type PageData struct {
	Title string
	Body  template.HTML // trusted: produced by goldmark without WithUnsafe
	Style template.CSS  // inlined stylesheet, empty when styling is off
}

// PageTemplate wraps converted fragments in a complete HTML document.
// Templates place the stylesheet with {{.Style}}, inside a <style> element.
type PageTemplate struct {
	tmpl *template.Template
}

// NewPageTemplate parses the page template content.
func NewPageTemplate(content string) (*PageTemplate, error) {
	tmpl, err := template.New("page").Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return &PageTemplate{tmpl: tmpl}, nil
}

// Render executes the template for one page.
func (p *PageTemplate) Render(title, body, css string) (string, error) {
	var sb strings.Builder
	data := PageData{
		Title: title,
		Body:  template.HTML(body),            // #nosec G203 -- goldmark output
		Style: template.CSS(sanitizeCSS(css)), // #nosec G203 -- configured stylesheet
	}
	if err := p.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return sb.String(), nil
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style>
// element. CSS reads "<\/" the same way.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
