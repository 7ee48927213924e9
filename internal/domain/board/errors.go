package board

import "errors"

// Sentinel kinds for board errors.
var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrNoSnapshot    = errors.New("no snapshot")
)
