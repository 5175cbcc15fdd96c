package tui

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("tui: query service is required")

// ErrMissingPaperService is returned when the paper service is not provided.
var ErrMissingPaperService = errors.New("tui: paper service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
