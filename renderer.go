package md2chm

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/alnah/go-md2chm/internal/assets"
	"github.com/alnah/go-md2chm/internal/fileutil"
	"github.com/alnah/go-md2chm/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ Renderer                      = (*htmlRenderer)(nil)
)

// htmlRenderer is the built-in Renderer: Markdown through goldmark into the
// page template, with the configured stylesheet inlined in the page head.
type htmlRenderer struct {
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	page          *pipeline.PageTemplate
	css           string
}

// newHTMLRenderer loads the page template and resolves the stylesheet.
func newHTMLRenderer(cfg *compilerConfig) (*htmlRenderer, error) {
	lib, err := assets.NewLibrary(cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	if !cfg.noStyle {
		css, err := resolveStyle(lib, cfg.styleInput)
		if err != nil {
			return nil, err
		}
		cfg.resolvedStyle = css
	}

	tmplContent, err := lib.Template(assets.PageTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	page, err := pipeline.NewPageTemplate(tmplContent)
	if err != nil {
		return nil, err
	}

	return &htmlRenderer{
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		page:          page,
		css:           cfg.resolvedStyle,
	}, nil
}

// Render runs the pipeline stages for one document.
func (r *htmlRenderer) Render(ctx context.Context, p Page) ([]byte, error) {
	md := r.preprocessor.PreprocessMarkdown(ctx, string(p.Source))
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	doc, err := r.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	body, err := pipeline.RewriteDocumentLinks(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("rewriting document links: %w", err)
	}

	// Completes the ==text== feature started in preprocessing.
	body = pipeline.ConvertMarkPlaceholders(body)

	title := doc.Title
	if title == "" {
		title = fileutil.ChangeExt(path.Base(p.Path), "")
	}

	html, err := r.page.Render(title, body, r.css)
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
// Empty input selects the default style.
func resolveStyle(lib *assets.Library, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		input = assets.DefaultStyleName
	}

	// CSS content? (contains {)
	if fileutil.IsCSS(input) {
		return input, nil
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: reading %q: %v", ErrInvalidStyle, input, err)
		}
		return string(content), nil
	}

	// Style name -> asset library
	css, err := lib.Style(input)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidStyle, input, err)
	}
	return css, nil
}
