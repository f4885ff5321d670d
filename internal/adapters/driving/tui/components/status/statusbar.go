// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pagespin/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateEmpty     State = "empty"
	StateReady     State = "ready"
	StateLoading   State = "loading"
	StateExporting State = "exporting"
	StateSaved     State = "saved"
	StateError     State = "error"
)

// Bar displays the loaded document, application status and key hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	document *domain.DocumentInfo
	scale    float64
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateEmpty,
		scale:  domain.DefaultScale,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Loading…")
	case StateExporting:
		return s.styles.Warning.Render("Exporting…")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(s.message)
		}
		return s.styles.Error.Render("Error")
	case StateSaved:
		return s.styles.Success.Render(s.message)
	case StateEmpty:
		return s.styles.Muted.Render("No document")
	case StateReady:
	}

	if s.document == nil {
		return s.styles.Muted.Render("No document")
	}
	return s.styles.Normal.Render(s.Summary())
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.document != nil {
		bindings = s.keymap.PagesHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// Summary describes the loaded document, for example
// "report.pdf · 3 pages · 48 kB · 100%".
func (s *Bar) Summary() string {
	if s.document == nil {
		return ""
	}
	pages := "pages"
	if s.document.NumPages == 1 {
		pages = "page"
	}
	return fmt.Sprintf("%s · %d %s · %s · %d%%",
		s.document.Name,
		s.document.NumPages, pages,
		humanize.Bytes(uint64(s.document.Size)),
		int(s.scale*100+0.5),
	)
}

// SetDocument sets the document shown in the bar; nil clears it.
func (s *Bar) SetDocument(info *domain.DocumentInfo) {
	s.document = info
	if info == nil {
		s.state = StateEmpty
	} else if s.state == StateEmpty {
		s.state = StateReady
	}
}

// Document returns the document shown in the bar.
func (s *Bar) Document() *domain.DocumentInfo {
	return s.document
}

// SetScale sets the zoom shown in the summary.
func (s *Bar) SetScale(scale float64) {
	s.scale = scale
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear drops any message and returns to the document summary.
func (s *Bar) Clear() {
	s.message = ""
	if s.document == nil {
		s.state = StateEmpty
	} else {
		s.state = StateReady
	}
}
