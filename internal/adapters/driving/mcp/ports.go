package mcp

import (
	"github.com/custodia-labs/pagespin/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Sessions creates an isolated session for every tool call, so
	// concurrent clients never share rotation state.
	Sessions driving.SessionFactory

	// Settings exposes the current settings as a resource. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Sessions == nil {
		return ErrMissingSessionFactory
	}
	return nil
}
