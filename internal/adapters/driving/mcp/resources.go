package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for pagespin resources.
	uriScheme = "pagespin://"
)

// settingsResource mirrors domain.AppSettings with stable JSON names.
type settingsResource struct {
	Scale         float64 `json:"view_scale"`
	ScaleStep     float64 `json:"view_scale_step"`
	Prefix        string  `json:"export_prefix"`
	Dir           string  `json:"export_dir"`
	Watch         bool    `json:"watch_enabled"`
	MinIntervalMS int64   `json:"watch_min_interval_ms"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Settings == nil {
		return
	}
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Current export settings (output prefix and directory)",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handleSettingsResource returns the current settings as JSON.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	data, err := json.MarshalIndent(settingsResource{
		Scale:         settings.View.Scale,
		ScaleStep:     settings.View.ScaleStep,
		Prefix:        settings.Export.Prefix,
		Dir:           settings.Export.Dir,
		Watch:         settings.Watch.Enabled,
		MinIntervalMS: settings.Watch.MinInterval.Milliseconds(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
