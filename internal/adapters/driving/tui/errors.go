package tui

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("tui: session service is required")

// ErrMissingRenderer is returned when the page renderer is not provided.
var ErrMissingRenderer = errors.New("tui: page renderer is required")
