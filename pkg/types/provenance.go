package types

// Provenance tracks where scanned content came from.
type Provenance interface {
	Kind() string
	// Path returns displayable path (if applicable)
	Path() string
}

// FileProvenance for filesystem files.
type FileProvenance struct {
	FilePath string
}

// Kind returns "file".
func (f FileProvenance) Kind() string {
	return "file"
}

// Path returns the file path.
func (f FileProvenance) Path() string {
	return f.FilePath
}

// InlineProvenance for content passed directly (stdin, serve requests).
type InlineProvenance struct {
	Source string
}

// Kind returns "inline".
func (p InlineProvenance) Kind() string {
	return "inline"
}

// Path returns the caller-supplied source label.
func (p InlineProvenance) Path() string {
	return p.Source
}
