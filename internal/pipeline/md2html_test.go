package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGoldmarkConverter_ToHTML - Fragment output and title data
// ---------------------------------------------------------------------------

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	converter := NewGoldmarkConverter()

	tests := []struct {
		name         string
		input        string
		wantTitle    string
		wantHeading  string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "heading becomes title",
			input:        "# Getting Started\n\nWelcome.",
			wantTitle:    "Getting Started",
			wantHeading:  "Getting Started",
			wantContains: []string{`<h1 id="getting-started">Getting Started</h1>`, "<p>Welcome.</p>"},
		},
		{
			name:         "front matter title wins and is stripped",
			input:        "---\ntitle: Installation Guide\nauthor: ops\n---\n# Install\n\nSteps.",
			wantTitle:    "Installation Guide",
			wantHeading:  "Install",
			wantContains: []string{"<h1", "Steps."},
			wantExcludes: []string{"author: ops", "<hr"},
		},
		{
			name:        "inline markup flattened in title",
			input:       "# The `hhc` *compiler*\n",
			wantTitle:   "The hhc compiler",
			wantHeading: "The hhc compiler",
		},
		{
			name:        "level-2 heading is not a title",
			input:       "## Details\n\ntext",
			wantTitle:   "",
			wantHeading: "",
		},
		{
			name:         "GFM table",
			input:        "| a | b |\n|---|---|\n| 1 | 2 |\n",
			wantContains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:         "highlighted code uses classes",
			input:        "```go\nfunc main() {}\n```\n",
			wantContains: []string{`class="chroma"`},
			wantExcludes: []string{"style=\"color"},
		},
		{
			name:         "raw HTML is omitted",
			input:        "<script>alert(1)</script>\n\ntext",
			wantExcludes: []string{"<script>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := converter.ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			if doc.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", doc.Title, tt.wantTitle)
			}
			if doc.Heading != tt.wantHeading {
				t.Errorf("Heading = %q, want %q", doc.Heading, tt.wantHeading)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(doc.Body, want) {
					t.Errorf("Body missing %q\ngot: %s", want, doc.Body)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(doc.Body, exclude) {
					t.Errorf("Body should not contain %q\ngot: %s", exclude, doc.Body)
				}
			}
		})
	}
}

func TestGoldmarkConverter_Meta(t *testing.T) {
	t.Parallel()

	doc, err := NewGoldmarkConverter().ToHTML(context.Background(), "---\ntitle: T\ntags: [a, b]\n---\nbody\n")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	if doc.Meta == nil || doc.Meta["title"] != "T" {
		t.Errorf("Meta = %v, want title T", doc.Meta)
	}

	doc, err = NewGoldmarkConverter().ToHTML(context.Background(), "no front matter")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Meta != nil {
		t.Errorf("Meta = %v, want nil without front matter", doc.Meta)
	}
}

func TestGoldmarkConverter_InvalidFrontMatter(t *testing.T) {
	t.Parallel()

	_, err := NewGoldmarkConverter().ToHTML(context.Background(), "---\ntitle: [unclosed\n---\nbody\n")
	if !errors.Is(err, ErrHTMLConversion) {
		t.Errorf("ToHTML() error = %v, want ErrHTMLConversion", err)
	}
}

func TestGoldmarkConverter_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter().ToHTML(ctx, "# Hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}
