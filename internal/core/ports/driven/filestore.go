package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/pagespin/internal/core/domain"
)

// FileReader turns a user-selected location into a SourceFile.
type FileReader interface {
	// MediaType returns the declared media type of the file at path
	// without reading its content.
	MediaType(path string) string

	// ReadFile reads the whole file in one step.
	ReadFile(ctx context.Context, path string) (domain.SourceFile, error)
}

// ArtifactWriter delivers an exported document to the user.
type ArtifactWriter interface {
	// WriteArtifact stores data as name inside dir and returns the final path.
	WriteArtifact(ctx context.Context, dir, name string, data []byte) (string, error)

	// WriteTo streams data to w.
	WriteTo(ctx context.Context, w io.Writer, data []byte) error
}
