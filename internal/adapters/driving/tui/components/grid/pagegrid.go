// Package grid lays out page previews in rows that fit the terminal.
package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
)

// gap is the number of blank columns between two cells.
const gap = 2

// PageGrid displays page previews with one selected page.
type PageGrid struct {
	renderer driven.PageRenderer
	styles   *styles.Styles
	pages    []domain.PageView
	scale    float64
	selected int
	columns  int
	width    int
	height   int
}

// NewPageGrid creates a grid drawing pages with renderer.
func NewPageGrid(s *styles.Styles, renderer driven.PageRenderer) *PageGrid {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &PageGrid{
		renderer: renderer,
		styles:   s,
		scale:    domain.DefaultScale,
		columns:  1,
		width:    80,
		height:   20,
	}
}

// View renders the rows that fit the grid height, keeping the selected
// page visible.
func (g *PageGrid) View() string {
	if len(g.pages) == 0 {
		return g.styles.Muted.Render("No pages")
	}

	cells := make([]string, len(g.pages))
	cellWidth, cellHeight := 0, 0
	for i, p := range g.pages {
		cells[i] = g.renderer.Render(p.PageGeometry, g.scale, p.Rotation)
		cellWidth = max(cellWidth, lipgloss.Width(cells[i]))
		cellHeight = max(cellHeight, lipgloss.Height(cells[i]))
	}

	g.columns = max(1, (g.width+gap)/(cellWidth+gap))
	rowHeight := cellHeight + 1
	visibleRows := max(1, g.height/rowHeight)

	selectedRow := g.selected / g.columns
	start := 0
	if selectedRow >= visibleRows {
		start = selectedRow - visibleRows + 1
	}

	rows := make([]string, 0, visibleRows)
	for row := start; row < start+visibleRows; row++ {
		first := row * g.columns
		if first >= len(cells) {
			break
		}
		last := min(first+g.columns, len(cells))

		line := make([]string, 0, 2*(last-first))
		for i := first; i < last; i++ {
			if i > first {
				line = append(line, strings.Repeat(" ", gap))
			}
			line = append(line, g.cell(i, cells[i], cellWidth, cellHeight))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// cell centres a rendered page in a fixed box and adds its caption.
func (g *PageGrid) cell(index int, rendered string, width, height int) string {
	page := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Bottom, rendered)

	caption := fmt.Sprintf(" %d ", g.pages[index].Index)
	if index == g.selected {
		caption = g.styles.Selected.Render(caption)
	} else {
		caption = g.styles.Muted.Render(caption)
	}
	caption = lipgloss.PlaceHorizontal(width, lipgloss.Center, caption)

	return lipgloss.JoinVertical(lipgloss.Left, page, caption)
}

// SetPages replaces the pages, keeping the selection in range.
func (g *PageGrid) SetPages(pages []domain.PageView) {
	g.pages = pages
	if g.selected >= len(pages) {
		g.selected = max(0, len(pages)-1)
	}
}

// Pages returns the displayed pages.
func (g *PageGrid) Pages() []domain.PageView {
	return g.pages
}

// SetScale sets the zoom passed to the renderer.
func (g *PageGrid) SetScale(scale float64) {
	g.scale = scale
}

// Selected returns the index of the selected page (0-based).
func (g *PageGrid) Selected() int {
	return g.selected
}

// SelectedPage returns the 1-based number of the selected page, or 0.
func (g *PageGrid) SelectedPage() int {
	if len(g.pages) == 0 {
		return 0
	}
	return g.pages[g.selected].Index
}

// SetSelected sets the selected index.
func (g *PageGrid) SetSelected(index int) {
	if index >= 0 && index < len(g.pages) {
		g.selected = index
	}
}

// MoveLeft selects the previous page.
func (g *PageGrid) MoveLeft() {
	g.SetSelected(g.selected - 1)
}

// MoveRight selects the next page.
func (g *PageGrid) MoveRight() {
	g.SetSelected(g.selected + 1)
}

// MoveUp selects the page one row up.
func (g *PageGrid) MoveUp() {
	g.SetSelected(g.selected - g.columns)
}

// MoveDown selects the page one row down, or the last page.
func (g *PageGrid) MoveDown() {
	if g.selected+g.columns < len(g.pages) {
		g.selected += g.columns
		return
	}
	g.SetSelected(len(g.pages) - 1)
}

// Columns returns the column count of the last View.
func (g *PageGrid) Columns() int {
	return g.columns
}

// SetDimensions sets the component dimensions.
func (g *PageGrid) SetDimensions(width, height int) {
	g.width = width
	g.height = height
}

// Reset drops the pages and the selection.
func (g *PageGrid) Reset() {
	g.pages = nil
	g.selected = 0
	g.columns = 1
}
