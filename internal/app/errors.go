package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrBuildFailed = errors.New("snapshot build failed")
	ErrNoEvents    = errors.New("bootstrap lists no gameweek events")
	ErrNotStarted  = errors.New("service not started")
)
