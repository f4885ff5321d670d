package driven

import "github.com/custodia-labs/pagespin/internal/core/domain"

// PageRenderer draws a page preview for display.
// Rendering works from load-time geometry only and never decodes the
// document again.
type PageRenderer interface {
	// Render returns the visual for one page at the given zoom scale,
	// turned by the rotation hint.
	Render(page domain.PageGeometry, scale float64, rotation domain.Rotation) string
}
