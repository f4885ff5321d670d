// Package pages provides the page grid view where pages are rotated and
// the result is exported.
package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/components/grid"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
)

// chrome is the number of lines used around the grid.
const chrome = 6

// View shows the pages of the active session.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	grid    *grid.PageGrid
	spinner spinner.Model

	session driving.SessionService
	ctx     context.Context

	name      string
	sessionID string
	scale     float64
	step      float64
	exporting bool

	width  int
	height int
}

// NewView creates a new pages view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.SessionService,
	renderer driven.PageRenderer,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Warning

	return &View{
		styles:  s,
		keymap:  km,
		grid:    grid.NewPageGrid(s, renderer),
		spinner: sp,
		session: session,
		ctx:     context.Background(),
		scale:   domain.DefaultScale,
		step:    domain.DefaultScaleStep,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context exports run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetDocument shows a newly loaded session. A different session resets
// the selection and forgets any export still running for the old one.
func (v *View) SetDocument(info *domain.DocumentInfo) {
	if info == nil {
		v.Reset()
		return
	}
	if info.SessionID != v.sessionID {
		v.grid.SetSelected(0)
		v.exporting = false
	}
	v.name = info.Name
	v.sessionID = info.SessionID
	v.grid.SetPages(info.Pages)
}

// SetZoom sets the zoom scale and the step of one zoom keypress.
func (v *View) SetZoom(scale, step float64) {
	if step <= 0 {
		step = domain.DefaultScaleStep
	}
	v.scale = domain.ClampScale(scale)
	v.step = step
	v.grid.SetScale(v.scale)
}

// Update handles messages for the pages view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.exporting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.ExportCompleted:
		return v, v.handleExportCompleted(msg)
	}

	return v, nil
}

//nolint:gocyclo // flat key dispatch
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// A drop onto the terminal arrives as a paste of the file path.
	if msg.Paste {
		path := strings.TrimSpace(string(msg.Runes))
		if path == "" {
			return v, nil
		}
		return v, func() tea.Msg { return messages.OpenRequested{Path: path} }
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Left):
		v.grid.MoveLeft()
	case keymap.Matches(key, v.keymap.Right):
		v.grid.MoveRight()
	case keymap.Matches(key, v.keymap.Up):
		v.grid.MoveUp()
	case keymap.Matches(key, v.keymap.Down):
		v.grid.MoveDown()

	case keymap.Matches(key, v.keymap.Rotate):
		if _, err := v.session.RotatePage(v.grid.SelectedPage()); err != nil {
			return v, errorCmd(err)
		}
		v.refresh()
	case keymap.Matches(key, v.keymap.RotateAll):
		if err := v.session.RotateAll(); err != nil {
			return v, errorCmd(err)
		}
		v.refresh()

	case keymap.Matches(key, v.keymap.ZoomIn):
		v.SetZoom(v.scale+v.step, v.step)
	case keymap.Matches(key, v.keymap.ZoomOut):
		v.SetZoom(v.scale-v.step, v.step)

	case keymap.Matches(key, v.keymap.Export):
		return v, v.startExport()

	case keymap.Matches(key, v.keymap.Remove):
		v.session.Remove()
		v.Reset()
		return v, func() tea.Msg { return messages.DocumentRemoved{} }

	case keymap.Matches(key, v.keymap.Open):
		return v, changeView(messages.ViewOpen)
	case keymap.Matches(key, v.keymap.Settings):
		return v, changeView(messages.ViewSettings)
	case keymap.Matches(key, v.keymap.Help):
		return v, changeView(messages.ViewHelp)
	case keymap.Matches(key, v.keymap.Quit):
		return v, tea.Quit
	}

	return v, nil
}

// startExport saves the current session in the background. The trigger is ignored while
// an export is running.
func (v *View) startExport() tea.Cmd {
	if v.exporting || v.session.Exporting() {
		return nil
	}
	id := v.session.SessionID()
	if id == "" {
		return errorCmd(domain.ErrNoSession)
	}

	v.exporting = true
	ctx, session := v.ctx, v.session
	export := func() tea.Msg {
		saved, err := session.SaveSession(ctx, id, "")
		return messages.ExportCompleted{SessionID: id, Saved: saved, Err: err}
	}
	return tea.Batch(v.spinner.Tick, export)
}

func (v *View) handleExportCompleted(msg messages.ExportCompleted) tea.Cmd {
	// Results of a removed or replaced session are dropped silently.
	if msg.SessionID != v.sessionID || msg.SessionID != v.session.SessionID() {
		return nil
	}
	v.exporting = false

	if msg.Err != nil {
		return errorCmd(msg.Err)
	}
	text := fmt.Sprintf("Saved %s", msg.Saved.Path)
	return func() tea.Msg { return messages.Notice{Text: text} }
}

// refresh re-reads the view projection after a rotation.
func (v *View) refresh() {
	v.grid.SetPages(v.session.Pages())
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return messages.ErrorOccurred{Err: err} }
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

// View renders the pages view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.name))
	if page := v.grid.SelectedPage(); page > 0 {
		pages := v.grid.Pages()
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  page %d of %d · %s",
			page, len(pages), pages[v.grid.Selected()].Rotation)))
	}
	if v.exporting {
		b.WriteString("  " + v.spinner.View() + v.styles.Warning.Render(" Exporting…"))
	}
	b.WriteString("\n\n")

	b.WriteString(v.grid.View())
	b.WriteString("\n\n")

	exportHint := "[d] download"
	if v.exporting {
		exportHint = "[d] busy"
	}
	b.WriteString(v.styles.Help.Render(
		"[←→↑↓] select  [r] rotate  [a] rotate all  [+/-] zoom  " +
			exportHint + "  [x] remove  [o] open  [?] help"))

	return b.String()
}

// Exporting reports whether an export started here is still running.
func (v *View) Exporting() bool {
	return v.exporting
}

// Scale returns the current zoom scale.
func (v *View) Scale() float64 {
	return v.scale
}

// SelectedPage returns the 1-based selected page, or 0.
func (v *View) SelectedPage() int {
	return v.grid.SelectedPage()
}

// SessionID returns the session the view shows.
func (v *View) SessionID() string {
	return v.sessionID
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.grid.SetDimensions(width, max(1, height-chrome))
}

// Reset forgets the shown document.
func (v *View) Reset() {
	v.grid.Reset()
	v.name = ""
	v.sessionID = ""
	v.exporting = false
}
