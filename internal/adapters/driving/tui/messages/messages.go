// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pagespin/internal/core/domain"
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewOpen asks for a file to load.
	ViewOpen ViewType = iota
	// ViewPages shows the pages of the loaded document.
	ViewPages
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewOpen:
		return "open"
	case ViewPages:
		return "pages"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// OpenRequested asks the app to load the file at Path. Typed paths,
// pastes and terminal drops all end up here.
type OpenRequested struct {
	Path string
}

// DocumentLoaded carries the result of a load or reload.
// On error the previous document, if any, is still active.
type DocumentLoaded struct {
	Path   string
	Info   *domain.DocumentInfo
	Reload bool
	Err    error
}

// DocumentRemoved signals the active document was discarded.
type DocumentRemoved struct{}

// ExportCompleted carries the result of an export started for SessionID.
// Results for any other session are stale and dropped.
type ExportCompleted struct {
	SessionID string
	Saved     *driving.SaveResult
	Err       error
}

// FileChanged signals the watched file at Path was written or replaced.
type FileChanged struct {
	Path string
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Notice carries a short informational message for the status bar.
type Notice struct {
	Text string
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals a setting was changed.
type SettingsSaved struct {
	Key string
	Err error
}
