//go:build bench

package md2chm

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// helpPage returns a document with n sections, each with a link, a code
// block and a table.
func helpPage(n int) string {
	var sb strings.Builder
	sb.WriteString("---\ntitle: Reference\n---\n# Reference\n\n")
	for i := range n {
		fmt.Fprintf(&sb, "## Section %d\n\nSee [topic %d](topics/topic%d.md#usage) and ==this note==.\n\n", i, i, i)
		sb.WriteString("```go\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n```\n\n")
		sb.WriteString("| Key | Value |\n|-----|-------|\n| a | 1 |\n| b | 2 |\n\n")
	}
	return sb.String()
}

// BenchmarkHTMLRenderer_Render measures one document through every page stage.
func BenchmarkHTMLRenderer_Render(b *testing.B) {
	r, err := newHTMLRenderer(&compilerConfig{})
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	for _, n := range []int{1, 10, 100} {
		page := Page{Source: []byte(helpPage(n)), Path: "reference.md"}
		b.Run(fmt.Sprintf("sections_%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(page.Source)))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := r.Render(ctx, page); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkCompile_Workers measures a full build of a 64-document tree.
// The fake compiler keeps the external step cheap, so the numbers reflect
// discovery, rendering and project emission.
func BenchmarkCompile_Workers(b *testing.B) {
	src := b.TempDir()
	files := make(map[string]string, 64)
	for i := range 64 {
		files[fmt.Sprintf("part%d/doc%02d.md", i%8, i)] = helpPage(5)
	}
	writeTree(b, src, files)

	for _, workers := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			c := newTestCompiler(b, append(fakeCompiler(1, true), WithWorkers(workers))...)
			b.ReportAllocs()
			for b.Loop() {
				input := Input{Source: src, Destination: filepath.Join(b.TempDir(), "out"), Title: "Bench"}
				if _, err := c.Compile(context.Background(), input); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
