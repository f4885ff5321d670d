package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/views/open"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/views/pages"
	"github.com/custodia-labs/pagespin/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
	"github.com/custodia-labs/pagespin/internal/logger"
)

// chromeHeight is the number of lines taken by the banner and status bar.
const chromeHeight = 2

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	openView     *open.View
	pagesView    *pages.View
	settingsView *settings.View
	statusBar    *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is where the help view returns to.
	previousView messages.ViewType

	// banner is the last user-facing error, cleared by the next key.
	banner string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool

	// initialPath is loaded on start when set.
	initialPath string

	// settings are the last loaded application settings.
	settings *domain.AppSettings

	watcher     driven.FileWatcher
	watchCancel context.CancelFunc
	watchPath   string
	watchCh     <-chan struct{}
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingSessionService)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		openView:     open.NewView(s),
		pagesView:    pages.NewView(s, km, ports.Session, ports.Renderer),
		settingsView: settings.NewView(s, ports.Settings),
		statusBar:    status.NewBar(s, km),
		currentView:  messages.ViewOpen,
		previousView: messages.ViewOpen,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.pagesView.WithContext(ctx)
	return a
}

// WithInitialFile loads path as soon as the program starts.
func (a *App) WithInitialFile(path string) *App {
	a.initialPath = strings.TrimSpace(path)
	return a
}

// Close stops the file watcher, if any.
func (a *App) Close() error {
	a.stopWatch()
	if a.watcher == nil {
		return nil
	}
	err := a.watcher.Close()
	a.watcher = nil
	return err
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("pagespin"),
		a.openView.Init(),
	}
	if a.ports.Settings != nil {
		cmds = append(cmds, a.loadSettings())
	}
	if a.initialPath != "" {
		path := a.initialPath
		cmds = append(cmds, func() tea.Msg { return messages.OpenRequested{Path: path} })
	}
	return tea.Batch(cmds...)
}

func (a *App) loadSettings() tea.Cmd {
	service := a.ports.Settings
	return func() tea.Msg {
		s, err := service.Get()
		return messages.SettingsLoaded{Settings: s, Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo,funlen // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.banner = ""
		if a.currentView == messages.ViewHelp {
			a.currentView = a.previousView
			return a, nil
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		return a, a.changeView(msg.View)

	case messages.OpenRequested:
		a.statusBar.SetState(status.StateLoading)
		a.statusBar.SetMessage("Loading " + msg.Path)
		return a, a.open(msg.Path)

	case messages.DocumentLoaded:
		return a, a.handleDocumentLoaded(msg)

	case messages.DocumentRemoved:
		a.stopWatch()
		a.openView.SetHasDocument(false)
		a.settingsView.SetBack(messages.ViewOpen)
		a.statusBar.SetDocument(nil)
		a.statusBar.SetState(status.StateEmpty)
		a.statusBar.SetMessage("")
		a.currentView = messages.ViewOpen
		return a, a.openView.Init()

	case messages.ExportCompleted:
		a.pagesView, cmd = a.pagesView.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		a.pagesView, cmd = a.pagesView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.showError(msg.Err)
		return a, nil

	case messages.Notice:
		a.statusBar.SetState(status.StateSaved)
		a.statusBar.SetMessage(msg.Text)
		return a, nil

	case messages.FileChanged:
		if msg.Path != a.watchPath || a.watchCh == nil {
			return a, nil
		}
		logger.Debug("watched file changed: %s", msg.Path)
		return a, tea.Batch(a.reload(), a.waitForChange())

	case messages.SettingsLoaded:
		a.settingsView, cmd = a.settingsView.Update(msg)
		if msg.Err == nil && msg.Settings != nil {
			cmd = tea.Batch(cmd, a.applySettings(msg.Settings))
		}
		return a, cmd

	case messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewOpen:
		a.openView, cmd = a.openView.Update(msg)
	case messages.ViewPages:
		a.pagesView, cmd = a.pagesView.Update(msg)
		a.statusBar.SetScale(a.pagesView.Scale())
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

func (a *App) changeView(view messages.ViewType) tea.Cmd {
	switch view {
	case messages.ViewOpen:
		a.currentView = view
		return a.openView.Init()
	case messages.ViewPages:
		if !a.ports.Session.Loaded() {
			a.currentView = messages.ViewOpen
			return a.openView.Init()
		}
		a.currentView = view
		return nil
	case messages.ViewSettings:
		a.currentView = view
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewHelp:
		if a.currentView != messages.ViewHelp {
			a.previousView = a.currentView
		}
		a.currentView = view
	}
	return nil
}

func (a *App) open(path string) tea.Cmd {
	ctx, session := a.ctx, a.ports.Session
	return func() tea.Msg {
		info, err := session.Open(ctx, path)
		return messages.DocumentLoaded{Path: path, Info: info, Err: err}
	}
}

func (a *App) reload() tea.Cmd {
	ctx, session, path := a.ctx, a.ports.Session, a.watchPath
	return func() tea.Msg {
		info, err := session.Reload(ctx)
		return messages.DocumentLoaded{Path: path, Info: info, Reload: true, Err: err}
	}
}

func (a *App) handleDocumentLoaded(msg messages.DocumentLoaded) tea.Cmd {
	a.openView.LoadFinished(msg.Err == nil)
	if msg.Err != nil {
		a.showError(msg.Err)
		if a.ports.Session.Loaded() {
			a.statusBar.SetState(status.StateReady)
		} else {
			a.statusBar.SetState(status.StateEmpty)
		}
		a.statusBar.SetMessage("")
		return nil
	}

	a.err = nil
	a.pagesView.SetDocument(msg.Info)
	a.openView.SetHasDocument(true)
	a.settingsView.SetBack(messages.ViewPages)
	a.statusBar.SetDocument(msg.Info)
	a.statusBar.SetState(status.StateReady)
	a.statusBar.SetMessage("")
	a.currentView = messages.ViewPages

	if msg.Reload {
		a.statusBar.SetMessage("Reloaded")
		return nil
	}
	return a.startWatch(msg.Path)
}

// showError puts a user-facing description of err in the banner.
// Silent failures are logged only.
func (a *App) showError(err error) {
	kind := domain.ClassifyFailure(err)
	if kind.Silent() {
		if err != nil {
			logger.Debug("dropped: %v", err)
		}
		return
	}
	a.err = err
	a.banner = kind.Message()
	a.statusBar.SetState(status.StateError)
	logger.Warn("%s: %v", kind, err)
}

func (a *App) applySettings(s *domain.AppSettings) tea.Cmd {
	first := a.settings == nil
	if first || a.settings.View.Scale != s.View.Scale || a.settings.View.ScaleStep != s.View.ScaleStep {
		a.pagesView.SetZoom(s.View.Scale, s.View.ScaleStep)
		a.statusBar.SetScale(a.pagesView.Scale())
	}
	a.settings = s
	a.ports.Session.Configure(s.Export)

	if !s.Watch.Enabled {
		a.stopWatch()
		return nil
	}
	if a.watchCh != nil || !a.ports.Session.Loaded() {
		return nil
	}
	info, err := a.ports.Session.Info()
	if err != nil {
		return nil
	}
	return a.startWatch(info.Path)
}

// startWatch watches path when enabled in settings and returns the
// command waiting for the first change.
func (a *App) startWatch(path string) tea.Cmd {
	a.stopWatch()
	if path == "" || a.ports.NewWatcher == nil || a.settings == nil || !a.settings.Watch.Enabled {
		return nil
	}
	if a.watcher == nil {
		a.watcher = a.ports.NewWatcher(a.settings.Watch.MinInterval)
	}

	ctx, cancel := context.WithCancel(a.ctx)
	ch, err := a.watcher.Watch(ctx, path)
	if err != nil {
		cancel()
		logger.Warn("watching %s: %v", path, err)
		return nil
	}
	a.watchCancel = cancel
	a.watchPath = path
	a.watchCh = ch
	return a.waitForChange()
}

func (a *App) stopWatch() {
	if a.watchCancel != nil {
		a.watchCancel()
	}
	a.watchCancel = nil
	a.watchPath = ""
	a.watchCh = nil
}

// waitForChange blocks on the watch channel and reports a FileChanged.
func (a *App) waitForChange() tea.Cmd {
	ch, path := a.watchCh, a.watchPath
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return messages.FileChanged{Path: path}
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewOpen:
		body = a.openView.View()
	case messages.ViewPages:
		body = a.pagesView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	}

	if a.pagesView.Exporting() {
		a.statusBar.SetState(status.StateExporting)
	} else if a.statusBar.State() == status.StateExporting {
		a.statusBar.SetState(status.StateReady)
	}

	banner := ""
	if a.banner != "" {
		banner = a.styles.Banner.Render(a.banner)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, banner, a.statusBar.View())
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, a.styles.Muted.Render(h.Desc)))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("Press any key to go back"))
	return b.String()
}

// SetDimensions sets the terminal size and resizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	body := height - chromeHeight
	if body < 1 {
		body = 1
	}
	a.openView.SetDimensions(width, body)
	a.pagesView.SetDimensions(width, body)
	a.settingsView.SetDimensions(width, body)
	a.statusBar.SetWidth(width)
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Banner returns the error banner text.
func (a *App) Banner() string {
	return a.banner
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// Watching returns the path being watched, or "" when none is.
func (a *App) Watching() string {
	return a.watchPath
}

// Ready reports whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}
