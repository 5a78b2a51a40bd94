package domain

import "errors"

// ErrInvalidInput is returned when a request is rejected before any search begins:
// malformed window, invalid hour/minute, degenerate window, bad coordinates.
var ErrInvalidInput = errors.New("invalid input")
