// Package assets provides the stylesheets and the HTML page template used
// for generated help pages.
//
// Assets come in two kinds, styles ({name}.css under styles/) and templates
// ({name}.html under templates/). A Library stacks asset sources: a custom
// directory, when configured, is searched before the assets built into the
// binary, so a single style can be overridden while the others keep their
// defaults.
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── page.html
//
// Asset names are plain file names without extension. Custom directories are
// read through an os.Root, so neither ".." nor a symlink can reach files
// outside the directory.
package assets
