// Package tui provides an interactive terminal user interface for pagespin.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"time"

	"github.com/custodia-labs/pagespin/internal/core/ports/driven"
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
)

// Ports aggregates the services and collaborators the TUI needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session owns the loaded document and its rotations.
	Session driving.SessionService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService

	// Renderer draws page previews.
	Renderer driven.PageRenderer

	// NewWatcher creates a file watcher that reloads at most once per
	// minInterval. Optional; without it the watch setting is ignored.
	NewWatcher func(minInterval time.Duration) driven.FileWatcher
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.Renderer == nil {
		return ErrMissingRenderer
	}
	return nil
}
