package render

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
)

// Ensure Thumbnail implements the interface.
var _ driven.PageRenderer = (*Thumbnail)(nil)

// Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

// Size limits in cells, before the border.
const (
	DefaultBaseWidth = 16
	minWidth         = 7
	minHeight        = 3
)

// Letter size, used when a page has no usable box.
const (
	fallbackWidth  = 612.0
	fallbackHeight = 792.0
)

// Thumbnail draws pages as outlined boxes whose proportions follow the
// page box. The arrow points to where the top edge of the page ends up.
type Thumbnail struct {
	baseWidth int
	border    lipgloss.Style
}

// NewThumbnail creates a renderer. baseWidth is the width in cells of a
// portrait page at scale 1.0; 0 uses DefaultBaseWidth.
func NewThumbnail(baseWidth int, borderColor lipgloss.TerminalColor) *Thumbnail {
	if baseWidth <= 0 {
		baseWidth = DefaultBaseWidth
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Align(lipgloss.Center, lipgloss.Center)
	if borderColor != nil {
		style = style.BorderForeground(borderColor)
	}
	return &Thumbnail{baseWidth: baseWidth, border: style}
}

// Render draws one page at scale, turned by rotation.
func (t *Thumbnail) Render(page domain.PageGeometry, scale float64, rotation domain.Rotation) string {
	cols, rows := t.Size(page, scale, rotation)

	body := fmt.Sprintf("%s\n%d", Arrow(rotation), page.Index)
	if rows >= 4 {
		body += "\n" + rotation.String()
	}

	return t.border.Width(cols).Height(rows).Render(body)
}

// Size returns the inner width and height in cells for a page.
func (t *Thumbnail) Size(page domain.PageGeometry, scale float64, rotation domain.Rotation) (cols, rows int) {
	w, h := page.Width, page.Height
	if w <= 0 || h <= 0 {
		w, h = fallbackWidth, fallbackHeight
	}
	if rotation.IsLandscapeSwap() {
		w, h = h, w
	}

	// The shorter side of an upright page maps to baseWidth.
	unit := float64(t.baseWidth) * domain.ClampScale(scale) / math.Min(w, h)
	cols = max(minWidth, int(math.Round(w*unit)))
	rows = max(minHeight, int(math.Round(h*unit/cellAspect)))
	return cols, rows
}

// Arrow returns the glyph for the direction the page's top edge faces.
func Arrow(rotation domain.Rotation) string {
	switch rotation {
	case 90:
		return "→"
	case 180:
		return "↓"
	case 270:
		return "←"
	default:
		return "↑"
	}
}
