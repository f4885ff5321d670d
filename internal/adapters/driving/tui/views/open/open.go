// Package open provides the file entry view for the TUI.
package open

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/styles"
)

// View asks for the PDF to load. Enter submits the typed path; a paste,
// which is how terminals deliver a dropped file, submits at once.
type View struct {
	styles *styles.Styles
	input  *input.PathInput

	// hasDocument allows esc to return to the loaded document.
	hasDocument bool
	loading     bool

	width  int
	height int
}

// NewView creates a new open view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		input:  input.NewPathInput(s),
		width:  80,
		height: 24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Focus(), v.input.Init())
}

// Update handles messages for the open view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.loading {
		return v, nil
	}

	if msg.Paste {
		v.input.SetValue(string(msg.Runes))
		return v, v.submit()
	}

	//nolint:exhaustive // only a few keys are handled here
	switch msg.Type {
	case tea.KeyEnter:
		return v, v.submit()
	case tea.KeyEsc:
		if v.hasDocument {
			return v, changeView(messages.ViewPages)
		}
		return v, nil
	case tea.KeyTab:
		return v, changeView(messages.ViewSettings)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit requests the entered path to be loaded.
func (v *View) submit() tea.Cmd {
	path := v.input.Value()
	if path == "" {
		return nil
	}
	v.loading = true
	return func() tea.Msg {
		return messages.OpenRequested{Path: path}
	}
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the open view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("pagespin"))
	b.WriteString(v.styles.Muted.Render("  rotate the pages of a PDF"))
	b.WriteString("\n\n")

	hint := "Type the path of a PDF and press enter,\nor drop the file onto this window."
	if v.loading {
		hint = "Loading…"
	}
	zone := lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Normal.Render(hint),
		"",
		v.input.View(),
	)
	b.WriteString(v.styles.DropZone.Render(zone))
	b.WriteString("\n\n")

	help := "[enter] open  [tab] settings  [ctrl+c] quit"
	if v.hasDocument {
		help = "[enter] open  [esc] back to pages  [tab] settings  [ctrl+c] quit"
	}
	b.WriteString(v.styles.Help.Render(help))

	return b.String()
}

// SetHasDocument tells the view whether a document is loaded.
func (v *View) SetHasDocument(loaded bool) {
	v.hasDocument = loaded
}

// LoadFinished re-enables input after a load attempt. The path is kept
// on failure so it can be corrected.
func (v *View) LoadFinished(ok bool) {
	v.loading = false
	if ok {
		v.input.Reset()
	}
}

// Loading reports whether a load is in progress.
func (v *View) Loading() bool {
	return v.loading
}

// Value returns the entered path.
func (v *View) Value() string {
	return v.input.Value()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(min(width-10, 100))
}

// Reset clears the input.
func (v *View) Reset() {
	v.input.Reset()
	v.loading = false
}
