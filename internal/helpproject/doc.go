// Package helpproject writes the two legacy HTML Help Workshop input files:
// the contents file (.hhc), a nested sitemap list mirroring the document
// hierarchy, and the project file (.hhp), a flat INI-like manifest naming the
// contents file, the compiled output and every page.
//
// Each file has its own named text encoding. Both legacy files are written
// in Latin-1; the generated pages they reference stay UTF-8.
package helpproject
