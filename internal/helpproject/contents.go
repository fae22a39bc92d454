package helpproject

import (
	"path"
	"strings"

	"github.com/alnah/go-md2chm/internal/pathcodec"
	"github.com/alnah/go-md2chm/internal/toctree"
)

// contentsHeader opens every contents file.
var contentsHeader = []string{
	`<!DOCTYPE HTML PUBLIC "-//IETF//DTD HTML//EN">`,
	`<HTML>`,
	`<HEAD>`,
	`<META name="GENERATOR" content="Microsoft&reg; HTML Help Workshop 4.1">`,
	`</HEAD>`,
	`<BODY>`,
	`<UL>`,
}

// contentsFooter closes every contents file.
var contentsFooter = []string{
	`</UL>`,
	`</BODY>`,
	`</HTML>`,
}

// attrEscaper escapes characters that would end a quoted attribute value.
var attrEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`"`, "&quot;",
	`<`, "&lt;",
	`>`, "&gt;",
)

// RenderContents serializes tree as a contents file.
// The root is not emitted; a page becomes an entry with Name and Local
// parameters, a directory becomes a Name-only entry followed by a nested
// list of its children.
func RenderContents(tree *toctree.Tree) string {
	w := &lineWriter{}
	w.lines(contentsHeader)

	_ = tree.Walk(
		func(id toctree.NodeID, _ int) error {
			node := tree.Node(id)
			leaf := tree.IsLeaf(id)

			w.line(`<LI><OBJECT type="text/sitemap">`)
			w.line(`<param name="Name" value="` + attrEscaper.Replace(DisplayTitle(node.Title, leaf)) + `">`)
			if leaf {
				w.line(`<param name="Local" value="` + attrEscaper.Replace(node.Path) + `">`)
			}
			w.line(`</OBJECT>`)
			if !leaf {
				w.line(`<UL>`)
			}
			return nil
		},
		func(id toctree.NodeID, _ int) error {
			if !tree.IsLeaf(id) {
				w.line(`</UL>`)
			}
			return nil
		},
	)

	w.lines(contentsFooter)
	return w.String()
}

// WriteContents renders tree and writes it to filePath in ContentsEncoding.
func WriteContents(filePath string, tree *toctree.Tree) error {
	return writeEncoded(filePath, RenderContents(tree), ContentsEncoding)
}

// DisplayTitle returns the title shown for a node: decoded, and for pages
// without the file extension.
func DisplayTitle(segment string, leaf bool) string {
	if leaf {
		segment = strings.TrimSuffix(segment, path.Ext(segment))
	}
	return pathcodec.Decode(segment)
}

// lineWriter accumulates lines terminated by lineEnding.
type lineWriter struct {
	b strings.Builder
}

func (w *lineWriter) line(s string) {
	w.b.WriteString(s)
	w.b.WriteString(lineEnding)
}

func (w *lineWriter) lines(ss []string) {
	for _, s := range ss {
		w.line(s)
	}
}

func (w *lineWriter) String() string {
	return w.b.String()
}
