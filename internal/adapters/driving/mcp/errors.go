// Package mcp provides an MCP (Model Context Protocol) server adapter for pagespin.
// It lets AI assistants inspect PDFs and write rotated copies of them.
package mcp

import "errors"

// ErrMissingSessionFactory is returned when no session factory is provided.
var ErrMissingSessionFactory = errors.New("mcp: session factory is required")
