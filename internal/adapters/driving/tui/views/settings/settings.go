// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// field is one editable setting.
type field struct {
	key    string
	label  string
	toggle bool
	value  func(s *domain.AppSettings) string
}

var fields = []field{
	{key: "view.scale", label: "Initial zoom", value: func(s *domain.AppSettings) string {
		return strconv.FormatFloat(s.View.Scale, 'f', -1, 64)
	}},
	{key: "view.scale_step", label: "Zoom step", value: func(s *domain.AppSettings) string {
		return strconv.FormatFloat(s.View.ScaleStep, 'f', -1, 64)
	}},
	{key: "export.prefix", label: "Output prefix", value: func(s *domain.AppSettings) string {
		return s.Export.Prefix
	}},
	{key: "export.dir", label: "Output directory", value: func(s *domain.AppSettings) string {
		return s.Export.Dir
	}},
	{key: "watch.enabled", label: "Reload on change", toggle: true, value: func(s *domain.AppSettings) string {
		return strconv.FormatBool(s.Watch.Enabled)
	}},
	{key: "watch.min_interval_ms", label: "Reload interval (ms)", value: func(s *domain.AppSettings) string {
		return strconv.FormatInt(s.Watch.MinInterval.Milliseconds(), 10)
	}},
}

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error

	selected int
	editing  bool
	input    textinput.Model

	// back is the view esc returns to.
	back messages.ViewType

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	input := textinput.New()
	input.CharLimit = 1024

	return &View{
		styles:          s,
		settingsService: settingsService,
		input:           input,
		back:            messages.ViewOpen,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := service.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// set returns a command that stores one setting.
func (v *View) set(key, value string) tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsSaved{Key: key, Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Key: key, Err: service.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.editing = false
		v.input.Blur()
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc, "q":
		back := v.back
		return v, func() tea.Msg { return messages.ViewChanged{View: back} }
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(fields)-1 {
			v.selected++
		}
	case keyEnter, " ":
		if v.settings == nil {
			return v, nil
		}
		f := fields[v.selected]
		current := f.value(v.settings)
		if f.toggle {
			next := "true"
			if current == "true" {
				next = "false"
			}
			return v, v.set(f.key, next)
		}
		v.editing = true
		v.err = nil
		v.input.SetValue(current)
		v.input.CursorEnd()
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case keyEnter:
		return v, v.set(fields[v.selected].key, strings.TrimSpace(v.input.Value()))
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	if v.settingsService != nil {
		b.WriteString(v.styles.Muted.Render("  " + v.settingsService.Path()))
	}
	b.WriteString("\n\n")

	if v.settings == nil {
		if v.err != nil {
			b.WriteString(v.styles.Error.Render(v.err.Error()))
		} else {
			b.WriteString(v.styles.Muted.Render("Loading settings..."))
		}
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	for i, f := range fields {
		value := f.value(v.settings)
		if value == "" {
			value = v.styles.Muted.Render("(next to the source file)")
		}
		if v.editing && i == v.selected {
			value = v.input.View()
		}

		label := fmt.Sprintf("%-22s", f.label)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		b.WriteString(" " + value + "\n")
	}

	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	if v.editing {
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	}
	return v.styles.Help.Render("[j/k] navigate  [enter] edit or toggle  [esc] back")
}

// SetBack sets the view esc returns to.
func (v *View) SetBack(view messages.ViewType) {
	v.back = view
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.Width = max(20, width-30)
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.selected = 0
	v.editing = false
	v.err = nil
	v.input.SetValue("")
	v.input.Blur()
}
