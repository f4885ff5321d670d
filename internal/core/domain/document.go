package domain

import (
	"path/filepath"
	"strings"
)

// PDFMediaType is the only media type accepted as input.
const PDFMediaType = "application/pdf"

// DefaultOutputPrefix is prepended to the source file name on export.
const DefaultOutputPrefix = "rotated-"

// SourceFile is a file offered for loading, from a path, a paste or a drop.
type SourceFile struct {
	// Name is the file's base name, used to derive the output name.
	Name string

	// Path is the location the file was read from, if any.
	Path string

	// MediaType is the declared media type of the file.
	MediaType string

	// Data is the raw file content.
	Data []byte
}

// IsPDF reports whether the file declares the PDF media type.
// Parameters such as "; charset=binary" are ignored.
func (f SourceFile) IsPDF() bool {
	mt := f.MediaType
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.EqualFold(strings.TrimSpace(mt), PDFMediaType)
}

// PageGeometry describes a page as decoded at load time.
type PageGeometry struct {
	// Index is the 1-based page number.
	Index int

	// Width and Height are the page box dimensions in points.
	Width  float64
	Height float64

	// SourceRotation is the rotation already encoded in the source file.
	// It is informational only: exports overwrite it.
	SourceRotation Rotation
}

// PageView is what the renderer needs for one page.
type PageView struct {
	PageGeometry

	// Rotation is the rotation hint passed to the renderer.
	Rotation Rotation
}

// ExportResult is the output of one export run.
type ExportResult struct {
	// SessionID identifies the session the result was produced from.
	SessionID string

	// FileName is the suggested output file name.
	FileName string

	// Data is the encoded document.
	Data []byte

	// Rotations is the rotation applied to each page; index 0 is page 1.
	Rotations []Rotation
}

// DocumentInfo summarises the loaded document.
type DocumentInfo struct {
	SessionID string
	Name      string
	Path      string
	Size      int
	NumPages  int
	Pages     []PageView
}

// OutputName derives the export file name from the source name.
func OutputName(prefix, sourceName string) string {
	base := filepath.Base(sourceName)
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "document.pdf"
	}
	return prefix + base
}
