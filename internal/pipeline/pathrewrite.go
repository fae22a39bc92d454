package pipeline

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-md2chm/internal/fileutil"
	"github.com/alnah/go-md2chm/internal/pathcodec"
)

// PageExt is the extension of generated pages.
const PageExt = ".html"

var bracketUnescaper = strings.NewReplacer("%5B", "[", "%5D", "]")

// PageName returns the generated page name for a document path: the
// extension becomes .html and the last segment is path-encoded.
// Directory segments are kept as they are.
//
// Examples:
//   - PageName("intro.md") -> "intro.html"
//   - PageName("guide/C#.md") -> "guide/C[_SHARP_].html"
func PageName(docPath string) string {
	dir, leaf := path.Split(docPath)
	return dir + pathcodec.Encode(fileutil.ChangeExt(leaf, PageExt))
}

// RewriteDocumentLinks points a[href] links between Markdown documents at
// the pages generated from them. Query strings and #fragments are kept.
//
// Does NOT rewrite:
//   - links to non-Markdown files (images, downloads)
//   - absolute paths or URLs
//   - in-page anchors
func RewriteDocumentLinks(htmlContent string) (string, error) {
	if !strings.Contains(htmlContent, "href") {
		return htmlContent, nil
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rewriteNode traverses the DOM and rewrites document links.
func rewriteNode(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		for i, attr := range n.Attr {
			if attr.Key == "href" {
				n.Attr[i].Val = rewriteHref(attr.Val)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c)
	}
}

// rewriteHref maps a relative Markdown href to its page href.
// Returns href unchanged when it is not a relative document link.
func rewriteHref(href string) string {
	if !isRelativePath(href) {
		return href
	}

	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return href
	}
	if !fileutil.IsMarkdown(u.Path) {
		return href
	}

	u.Path = PageName(u.Path)
	// EscapedPath ignores a parsed RawPath that no longer matches Path.
	// Codec brackets stay literal so hrefs match the project file list.
	u.RawPath = bracketUnescaper.Replace(u.EscapedPath())
	return u.String()
}

// isRelativePath returns true if the path may point at another document.
func isRelativePath(p string) bool {
	if p == "" {
		return false
	}

	// Skip URLs (http, https, file, data, mailto, protocol-relative)
	lower := strings.ToLower(p)
	for _, prefix := range []string{"http://", "https://", "file://", "data:", "mailto:", "//"} {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}

	// Skip anchors and rooted paths
	if strings.HasPrefix(p, "#") || strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) {
		return false
	}

	// Skip Windows drive paths (C:\ or C:/)
	if len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') {
		return false
	}

	return true
}
