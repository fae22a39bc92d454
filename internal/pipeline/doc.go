// Package pipeline implements the stages that turn one Markdown document
// into one help page.
//
// Stages, in the order the page renderer applies them:
//   - Markdown preprocessing (BOM, line endings, highlight syntax)
//   - Markdown to HTML conversion via Goldmark, with front matter
//   - Rewriting of links between documents to their generated page names
//   - Page template rendering (title and body)
//   - CSS injection into the page head
//
// Compiling pages into a help file is handled by internal/hhc. The pipeline
// only produces standalone UTF-8 HTML pages.
package pipeline
