package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// Document is the result of converting one Markdown source.
type Document struct {
	Body    string         // HTML fragment
	Title   string         // front matter title, else first level-1 heading, else empty
	Heading string         // first level-1 heading text, empty if none
	Meta    map[string]any // front matter, nil if absent
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (*Document, error)
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions,
// YAML front matter and syntax highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			meta.Meta,          // --- front matter ---, stripped from output
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // styled by the page stylesheet
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // in-page anchors for #fragment links
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			// WithUnsafe is not used; ==highlight== goes through placeholders.
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment plus its title data.
// Goldmark doesn't support context, so conversion runs in a goroutine and
// the caller stops waiting on cancellation.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		doc *Document
		err error
	}

	done := make(chan result, 1)

	go func() {
		doc, err := c.convert([]byte(content))
		done <- result{doc: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.doc, r.err
	}
}

func (c *GoldmarkConverter) convert(source []byte) (*Document, error) {
	pctx := parser.NewContext()
	root := c.md.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, source, root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	frontMatter, err := meta.TryGet(pctx)
	if err != nil {
		return nil, fmt.Errorf("%w: front matter: %v", ErrHTMLConversion, err)
	}

	doc := &Document{
		Body:    buf.String(),
		Heading: firstHeading(root, source),
	}
	if len(frontMatter) > 0 {
		doc.Meta = frontMatter
	}
	doc.Title = doc.Heading
	if title, ok := frontMatter["title"].(string); ok && strings.TrimSpace(title) != "" {
		doc.Title = strings.TrimSpace(title)
	}
	return doc, nil
}

// firstHeading returns the plain text of the first level-1 heading.
func firstHeading(root ast.Node, source []byte) string {
	var heading string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			heading = strings.TrimSpace(plainText(h, source))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return StripMarkPlaceholders(heading)
}

// plainText concatenates the text segments below n.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		default:
			sb.WriteString(plainText(c, source))
		}
	}
	return sb.String()
}
