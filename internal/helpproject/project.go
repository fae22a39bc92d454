package helpproject

import "fmt"

// Fixed project options.
const (
	Compatibility          = "1.1 or later"
	DisplayCompileProgress = "No"
	FullTextSearch         = "Yes"
	DefaultLanguage        = "0x409 English (United States)"
)

// File extensions derived from the help title.
const (
	ContentsExt = ".hhc"
	ProjectExt  = ".hhp"
	CompiledExt = ".chm"
)

// Project describes a help project file.
type Project struct {
	Title        string   // shown in the viewer title bar
	ContentsFile string   // e.g. "Manual.hhc"
	CompiledFile string   // e.g. "Manual.chm"
	Language     string   // e.g. "0x409 English (United States)"
	Files        []string // generated pages, in generation order
}

// NewProject returns a Project whose file names derive from title.
func NewProject(title string, files []string) Project {
	return Project{
		Title:        title,
		ContentsFile: title + ContentsExt,
		CompiledFile: title + CompiledExt,
		Language:     DefaultLanguage,
		Files:        files,
	}
}

// DefaultTopic returns the first file, or "" if there are none.
func (p Project) DefaultTopic() string {
	if len(p.Files) == 0 {
		return ""
	}
	return p.Files[0]
}

// Validate checks that the project can produce a compiled file.
func (p Project) Validate() error {
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if len(p.Files) == 0 {
		return fmt.Errorf("%w: %s", ErrNoFiles, p.Title)
	}
	return nil
}

// RenderProject serializes p as an [OPTIONS] section followed by a [FILES]
// section. The default topic line is omitted when p has no files.
func RenderProject(p Project) string {
	language := p.Language
	if language == "" {
		language = DefaultLanguage
	}

	w := &lineWriter{}
	w.line("[OPTIONS]")
	w.line("Compatibility=" + Compatibility)
	w.line("Compiled file=" + p.CompiledFile)
	w.line("Contents file=" + p.ContentsFile)
	if topic := p.DefaultTopic(); topic != "" {
		w.line("Default topic=" + topic)
	}
	w.line("Display compile progress=" + DisplayCompileProgress)
	w.line("Full-text search=" + FullTextSearch)
	w.line("Language=" + language)
	w.line("Title=" + p.Title)
	w.line("")
	w.line("[FILES]")
	w.lines(p.Files)
	return w.String()
}

// WriteProject validates p, renders it and writes it to filePath in
// ProjectEncoding.
func WriteProject(filePath string, p Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return writeEncoded(filePath, RenderProject(p), ProjectEncoding)
}
