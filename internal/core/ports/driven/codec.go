package driven

import (
	"context"

	"github.com/custodia-labs/pagespin/internal/core/domain"
)

// DocumentCodec parses and re-serialises documents.
// Implementations are not required to be safe for concurrent decodes of
// the same bytes; callers serialise exports per session.
type DocumentCodec interface {
	// Decode parses raw bytes into a mutable document.
	Decode(ctx context.Context, data []byte) (DecodedDocument, error)
}

// DecodedDocument is a parsed, mutable document.
// Page indexes are 1-based.
type DecodedDocument interface {
	// PageCount returns the number of pages.
	PageCount() int

	// Geometry returns the page box and the rotation encoded for a page.
	Geometry(page int) (domain.PageGeometry, error)

	// SetRotation sets a page's rotation attribute, replacing any existing value.
	SetRotation(page int, rotation domain.Rotation) error

	// Save serialises the document.
	Save(ctx context.Context) ([]byte, error)
}
