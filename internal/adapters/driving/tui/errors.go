package tui

import "errors"

// ErrMissingSearchController is returned when the search controller is not provided.
var ErrMissingSearchController = errors.New("tui: search controller is required")

// ErrMissingRenderer is returned when no renderer feeds the app view updates.
var ErrMissingRenderer = errors.New("tui: renderer is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
